// Package injector wires the simulator runtime from the application config.
package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/xrinteract/internal/config"
	"github.com/zeusync/xrinteract/internal/core/events/bus"
	"github.com/zeusync/xrinteract/internal/core/observability/log"
	"github.com/zeusync/xrinteract/internal/scene"
)

// Runtime is everything a command needs to drive a scene.
type Runtime struct {
	Config *config.Config
	Logger *log.Logger
	Bus    bus.EventBus
	Scene  *scene.Scene
}

var ProviderSet = wire.NewSet(
	ProvideLogger,
	ProvideBus,
	ProvideScene,
	wire.Struct(new(Runtime), "*"),
)

func ProvideLogger(cfg *config.Config) (*log.Logger, error) {
	return cfg.Logger()
}

func ProvideBus() bus.EventBus {
	return bus.New()
}

// ProvideScene loads and builds the scene named by the config.
func ProvideScene(cfg *config.Config, logger *log.Logger, eb bus.EventBus) (*scene.Scene, error) {
	desc, err := scene.LoadFile(cfg.Sim.Scene)
	if err != nil {
		return nil, err
	}
	s, err := scene.Build(desc,
		scene.WithLogger(logger),
		scene.WithBus(eb),
		scene.WithRunnerConfig(cfg.Runner),
	)
	if err != nil {
		return nil, err
	}
	if cfg.Sim.Duration > 0 {
		s.Duration = cfg.Sim.Duration
	}
	return s, nil
}
