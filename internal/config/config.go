package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/weavercmd/weaver/internal/scheduler"
)

type Config struct {
	Engine    EngineConfig    `yaml:"engine"`
	History   HistoryConfig   `yaml:"history"`
	Commands  CommandsConfig  `yaml:"commands"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Channels  ChannelsConfig  `yaml:"channels"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Output    OutputConfig    `yaml:"output"`
	Log       LogConfig       `yaml:"log"`
}

type EngineConfig struct {
	// MaxIterations bounds one script run; guards against infinite loops.
	MaxIterations int `yaml:"max_iterations"`
}

type HistoryConfig struct {
	// Driver selects the store: "memory" (default), "sqlite" or "postgres".
	Driver string `yaml:"driver"`
	// DSN is the sqlite data directory or the postgres connection string.
	DSN string `yaml:"dsn"`
	// Capacity bounds the memory store.
	Capacity int `yaml:"capacity"`
}

type CommandsConfig struct {
	LuaPath   string `yaml:"lua_path"`   // directory of .lua command scripts
	MacroPath string `yaml:"macro_path"` // directory of macro .yaml files
}

type SchedulerConfig struct {
	Jobs []scheduler.Job `yaml:"jobs"`
}

type ChannelsConfig struct {
	WebSocket WebSocketConfig `yaml:"websocket"`
}

type WebSocketConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

type OutputConfig struct {
	Redis RedisOutputConfig `yaml:"redis"`
}

type RedisOutputConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Channel string `yaml:"channel"`
}

type LogConfig struct {
	File string `yaml:"file"` // optional path for log output
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Engine:  EngineConfig{MaxIterations: 10000},
		History: HistoryConfig{Driver: "memory", Capacity: 1000},
	}
}

// Load reads and validates a YAML config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Engine.MaxIterations <= 0 {
		return fmt.Errorf("config: engine.max_iterations must be positive")
	}
	switch c.History.Driver {
	case "", "memory", "sqlite", "postgres":
	default:
		return fmt.Errorf("config: unknown history driver %q", c.History.Driver)
	}
	if (c.History.Driver == "sqlite" || c.History.Driver == "postgres") && c.History.DSN == "" {
		return fmt.Errorf("config: history driver %q needs a dsn", c.History.Driver)
	}
	if c.Channels.WebSocket.Enabled && c.Channels.WebSocket.Addr == "" {
		return fmt.Errorf("config: channels.websocket.addr is required when enabled")
	}
	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		return fmt.Errorf("config: metrics.addr is required when enabled")
	}
	if c.Output.Redis.Enabled && (c.Output.Redis.Addr == "" || c.Output.Redis.Channel == "") {
		return fmt.Errorf("config: output.redis needs addr and channel")
	}
	return nil
}
