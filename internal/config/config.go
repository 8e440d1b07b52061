// Package config loads the simulator settings from defaults, an optional
// YAML file and XRSIM_* environment variables, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/zeusync/xrinteract/internal/core/observability/log"
	"github.com/zeusync/xrinteract/internal/core/systems"
)

// EnvPrefix prefixes every environment override, e.g. XRSIM_LOG_LEVEL.
const EnvPrefix = "XRSIM"

type Config struct {
	Log    LogConfig            `mapstructure:"log"`
	Runner systems.RunnerConfig `mapstructure:"runner"`
	Sim    SimConfig            `mapstructure:"sim"`
}

type LogConfig struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

// SimConfig controls how a scene is driven.
type SimConfig struct {
	Scene string `mapstructure:"scene"`
	// FrameDelta is the variable frame step in seconds.
	FrameDelta float64 `mapstructure:"frame_delta"`
	// Realtime paces frames on the wall clock instead of running as fast
	// as possible.
	Realtime bool `mapstructure:"realtime"`
	// Duration overrides the scripted duration when positive.
	Duration float64 `mapstructure:"duration"`
}

// Load reads cfgFile, or config.yaml from ./configs or the working
// directory when cfgFile is empty. A missing default file is not an error.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	runner := systems.DefaultRunnerConfig()
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", string(log.EncodingConsole))
	v.SetDefault("runner.fixed_delta_time", runner.FixedDeltaTime)
	v.SetDefault("runner.max_fixed_steps", runner.MaxFixedSteps)
	v.SetDefault("sim.scene", "configs/scene.yaml")
	v.SetDefault("sim.frame_delta", 1.0/90.0)
	v.SetDefault("sim.realtime", false)
	v.SetDefault("sim.duration", 0.0)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch log.Encoding(c.Log.Encoding) {
	case log.EncodingJSON, log.EncodingConsole:
	default:
		return fmt.Errorf("unknown log encoding %q", c.Log.Encoding)
	}
	if err := c.Runner.Validate(); err != nil {
		return err
	}
	if c.Sim.FrameDelta <= 0 {
		return fmt.Errorf("frame delta %v: %w", c.Sim.FrameDelta, systems.ErrInvalidStep)
	}
	return nil
}

// Logger builds the zap-backed logger described by c.
func (c *Config) Logger() (*log.Logger, error) {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}
	return log.New(level, log.Encoding(c.Log.Encoding)), nil
}
