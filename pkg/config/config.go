// Package config loads the engine settings from an optional HCL file and the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/lintang-b-s/roadsim/pkg/engine/traffic"
	"github.com/lintang-b-s/roadsim/pkg/generator"
)

const (
	EnvListenAddr = "ROADSIM_LISTEN_ADDR"
	EnvLogLevel   = "ROADSIM_LOG_LEVEL"
)

type ServerConfig struct {
	ListenAddr string
	LogLevel   slog.Level
}

type SimulationConfig struct {
	Interval            time.Duration
	Seed                uint64
	CongestionThreshold float64
	Autostart           bool
}

type Config struct {
	Server     ServerConfig
	Map        generator.Config
	Simulation SimulationConfig
}

func Default() Config {
	return Config{
		Server: ServerConfig{
			ListenAddr: ":5000",
			LogLevel:   slog.LevelInfo,
		},
		Map: generator.DefaultConfig(),
		Simulation: SimulationConfig{
			Interval:            traffic.DefaultTickInterval,
			Seed:                42,
			CongestionThreshold: traffic.DefaultCongestionThreshold,
		},
	}
}

// every attribute is a pointer so an omitted one keeps its default.
type fileConfig struct {
	Server     *serverBlock     `hcl:"server,block"`
	Map        *mapBlock        `hcl:"map,block"`
	Simulation *simulationBlock `hcl:"simulation,block"`
}

type serverBlock struct {
	ListenAddr *string `hcl:"listen_addr,optional"`
	LogLevel   *string `hcl:"log_level,optional"`
}

type mapBlock struct {
	NumVertices     *int     `hcl:"num_vertices,optional"`
	Width           *float64 `hcl:"width,optional"`
	Height          *float64 `hcl:"height,optional"`
	MinDistance     *float64 `hcl:"min_distance,optional"`
	EdgeFactor      *float64 `hcl:"edge_factor,optional"`
	Seed            *int64   `hcl:"seed,optional"`
	MallProbability *float64 `hcl:"mall_probability,optional"`
}

type simulationBlock struct {
	Interval            *string  `hcl:"interval,optional"`
	Seed                *int64   `hcl:"seed,optional"`
	CongestionThreshold *float64 `hcl:"congestion_threshold,optional"`
	Autostart           *bool    `hcl:"autostart,optional"`
}

// Load reads path on top of Default, then applies the environment overrides. an empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		var file fileConfig
		if err := hclsimple.DecodeFile(path, nil, &file); err != nil {
			return Config{}, fmt.Errorf("decode config %s: %w", path, err)
		}
		if err := file.apply(&cfg); err != nil {
			return Config{}, fmt.Errorf("config %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes HCL source. filename only needs the .hcl suffix and is used in diagnostics.
func Parse(filename string, src []byte) (Config, error) {
	cfg := Default()
	var file fileConfig
	if err := hclsimple.Decode(filename, src, nil, &file); err != nil {
		return Config{}, err
	}
	if err := file.apply(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (f fileConfig) apply(cfg *Config) error {
	if s := f.Server; s != nil {
		if s.ListenAddr != nil {
			cfg.Server.ListenAddr = *s.ListenAddr
		}
		if s.LogLevel != nil {
			if err := cfg.Server.LogLevel.UnmarshalText([]byte(*s.LogLevel)); err != nil {
				return err
			}
		}
	}

	if m := f.Map; m != nil {
		setIf(&cfg.Map.NumVertices, m.NumVertices)
		setIf(&cfg.Map.Width, m.Width)
		setIf(&cfg.Map.Height, m.Height)
		setIf(&cfg.Map.MinDistance, m.MinDistance)
		setIf(&cfg.Map.EdgeFactor, m.EdgeFactor)
		setIf(&cfg.Map.MallProbability, m.MallProbability)
		if m.Seed != nil {
			if *m.Seed < 0 {
				return fmt.Errorf("map seed must not be negative, got %d", *m.Seed)
			}
			cfg.Map.Seed = uint64(*m.Seed)
		}
	}

	if s := f.Simulation; s != nil {
		if s.Interval != nil {
			d, err := time.ParseDuration(*s.Interval)
			if err != nil {
				return fmt.Errorf("simulation interval: %w", err)
			}
			cfg.Simulation.Interval = d
		}
		if s.Seed != nil {
			if *s.Seed < 0 {
				return fmt.Errorf("simulation seed must not be negative, got %d", *s.Seed)
			}
			cfg.Simulation.Seed = uint64(*s.Seed)
		}
		setIf(&cfg.Simulation.CongestionThreshold, s.CongestionThreshold)
		setIf(&cfg.Simulation.Autostart, s.Autostart)
	}
	return nil
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func applyEnv(cfg *Config) error {
	if addr := os.Getenv(EnvListenAddr); addr != "" {
		cfg.Server.ListenAddr = addr
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		if err := cfg.Server.LogLevel.UnmarshalText([]byte(level)); err != nil {
			return fmt.Errorf("%s: %w", EnvLogLevel, err)
		}
	}
	return nil
}
