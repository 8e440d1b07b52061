package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/zeusync/xrinteract/internal/config"
	"github.com/zeusync/xrinteract/internal/core/events/bus"
	"github.com/zeusync/xrinteract/internal/core/observability/log"
	"github.com/zeusync/xrinteract/internal/injector"
	"github.com/zeusync/xrinteract/internal/scene"
	"github.com/zeusync/xrinteract/pkg/concurrent"
)

var (
	cfgFile   string
	scenePath string
	duration  float64
	realtime  bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "xrsim",
		Short:        "Headless simulator for VR button and climbing interactions",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Path to config file (default: configs/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&scenePath, "scene", "s", "", "Path to scene file (overrides sim.scene)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run a scene script and log every interaction event",
		RunE:  runScene,
	}
	runCmd.Flags().Float64VarP(&duration, "duration", "d", 0, "Simulated seconds to run (default: scripted duration)")
	runCmd.Flags().BoolVar(&realtime, "realtime", false, "Pace frames on the wall clock")

	validateCmd := &cobra.Command{
		Use:   "validate [scene...]",
		Short: "Load and validate scenes without running them",
		RunE:  validateScenes,
	}

	rootCmd.AddCommand(runCmd, validateCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}
	if scenePath != "" {
		cfg.Sim.Scene = scenePath
	}
	if cmd.Flags().Changed("duration") {
		cfg.Sim.Duration = duration
	}
	if cmd.Flags().Changed("realtime") {
		cfg.Sim.Realtime = realtime
	}
	return cfg, nil
}

func runScene(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	rt, err := injector.InitializeRuntime(cfg)
	if err != nil {
		return err
	}
	logger := rt.Logger
	defer func() { _ = logger.Sync() }()

	if _, err := rt.Bus.Subscribe(bus.WildcardType, logEvent(logger)); err != nil {
		return err
	}
	rt.Bus.AddObserver(deliveryObserver{logger: logger.With(log.Component("bus"))})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := rt.Scene
	logger.Info("simulation started",
		log.String("scene", s.Name),
		log.Float64("duration", s.Duration),
		log.Bool("realtime", cfg.Sim.Realtime),
	)

	if cfg.Sim.Realtime {
		interval := time.Duration(cfg.Sim.FrameDelta * float64(time.Second))
		err = s.RunRealtime(ctx, interval)
	} else {
		err = s.Run(ctx, cfg.Sim.FrameDelta)
	}

	if errors.Is(err, context.Canceled) {
		logger.Warn("simulation interrupted", log.Float64("time", s.Runner.Time()))
		err = nil
	}

	metrics := rt.Bus.GetMetrics()
	logger.Info("simulation finished",
		log.Float64("time", s.Runner.Time()),
		log.Int64("frames", s.Runner.Frames()),
		log.Int64("fixed_steps", s.Runner.FixedSteps()),
		log.Int64("events", int64(metrics.Published)),
		log.Int64("handler_errors", int64(metrics.Errors)),
	)
	return err
}

// validateScenes checks every scene given as argument, or the configured
// one, and reports all failures together.
func validateScenes(cmd *cobra.Command, args []string) error {
	paths := args
	if len(paths) == 0 {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		paths = []string{cfg.Sim.Scene}
	}

	descs, err := concurrent.Map(paths, runtime.NumCPU(), scene.LoadFile)
	for i, desc := range descs {
		if desc == nil {
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d objects, %d buttons, %d grab points, %.2fs script\n",
			paths[i], len(desc.Objects), len(desc.Buttons), len(desc.Grabs), desc.Script.Duration)
	}
	return err
}

func logEvent(logger log.Log) bus.EventHandler {
	logger = logger.With(log.Component("events"))
	return func(e bus.Event) error {
		logger.Info(e.Type(),
			log.String("source", e.Source()),
			log.Float64("t", e.Time()),
			log.Any("data", e.Data()),
		)
		return nil
	}
}

// deliveryObserver enables bus metrics and reports failed deliveries.
type deliveryObserver struct {
	logger log.Log
}

func (deliveryObserver) OnPublish(string, string, bus.Event) {}

func (o deliveryObserver) OnDelivered(topic, eventType string, handlers int, err error, d time.Duration) {
	if err != nil {
		o.logger.Warn("event delivery failed",
			log.String("topic", topic),
			log.String("type", eventType),
			log.Int("handlers", handlers),
			log.Duration("took", d),
			log.Error(err),
		)
	}
}
