package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
server {
  listen_addr = ":6000"
  log_level   = "debug"
}

map {
  num_vertices = 500
  seed         = 7
}

simulation {
  interval  = "500ms"
  autostart = true
}
`

func TestParse(t *testing.T) {
	cfg, err := Parse("config.hcl", []byte(sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, ":6000", cfg.Server.ListenAddr)
	assert.Equal(t, slog.LevelDebug, cfg.Server.LogLevel)
	assert.Equal(t, 500, cfg.Map.NumVertices)
	assert.Equal(t, uint64(7), cfg.Map.Seed)
	assert.Equal(t, 500*time.Millisecond, cfg.Simulation.Interval)
	assert.True(t, cfg.Simulation.Autostart)

	// omitted attributes keep their defaults.
	def := Default()
	assert.Equal(t, def.Map.Width, cfg.Map.Width)
	assert.Equal(t, def.Map.EdgeFactor, cfg.Map.EdgeFactor)
	assert.Equal(t, def.Simulation.CongestionThreshold, cfg.Simulation.CongestionThreshold)
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse("config.hcl", []byte(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{name: "bad interval", src: `simulation { interval = "soon" }`},
		{name: "bad log level", src: `server { log_level = "loud" }`},
		{name: "unknown attribute", src: `map { colour = "red" }`},
		{name: "negative map seed", src: `map { seed = -1 }`},
		{name: "negative simulation seed", src: `simulation { seed = -3 }`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("config.hcl", []byte(tt.src))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.hcl")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o600))

	t.Setenv(EnvListenAddr, ":7000")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.ListenAddr)
	assert.Equal(t, 500, cfg.Map.NumVertices)
}

func TestLoadWithoutFile(t *testing.T) {
	t.Setenv(EnvListenAddr, "")
	t.Setenv(EnvLogLevel, "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseNegativeSeed(t *testing.T) {
	_, err := Parse("config.hcl", []byte(`map { seed = -1 }`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "map seed must not be negative")
}
