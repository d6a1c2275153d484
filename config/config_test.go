package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bikeracer4487/fm26-lineup-optimizer-sub002/config"
	"github.com/bikeracer4487/fm26-lineup-optimizer-sub002/internal/application/scheduler"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault_MatchesPackageDefaults(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())

	got := cfg.SchedulerConfig()
	want := scheduler.DefaultConfig()
	assert.Equal(t, want.Readiness, got.Readiness)
	assert.Equal(t, want.Utility, got.Utility)
	assert.Equal(t, want.Stability, got.Stability)
	assert.Equal(t, want.Shadow, got.Shadow)
	assert.InDelta(t, want.InertiaWeight, got.InertiaWeight, 1e-9)
	assert.Equal(t, "lineup.db", cfg.Storage.DSN)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_PartialYAMLKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `
engine:
  inertia_weight: 0.8
  lookahead: 2
readiness:
  overload_minutes: 300
utility:
  critical:
    weight: 3.0
storage:
  dsn: ":memory:"
log:
  level: debug
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.InDelta(t, 0.8, cfg.Engine.InertiaWeight, 1e-9)
	assert.Equal(t, 2, cfg.Engine.Lookahead)
	assert.InDelta(t, 0.85, cfg.Engine.Discount, 1e-9, "clave ausente conserva el default")
	assert.Equal(t, 300, cfg.Readiness.OverloadMinutes)
	assert.InDelta(t, 1.75, cfg.Readiness.OverloadMultiplier, 1e-9)
	assert.InDelta(t, 3.0, cfg.Utility.Critical.Weight, 1e-9)
	assert.InDelta(t, 0.88, cfg.Utility.Critical.ConditionMid, 1e-9)
	assert.Equal(t, ":memory:", cfg.Storage.DSN)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)

	sc := cfg.SchedulerConfig()
	assert.Equal(t, 2, sc.Shadow.Lookahead)
	assert.Equal(t, 300, sc.Readiness.OverloadMinutes)
	assert.InDelta(t, 3.0, sc.Utility.Critical.Weight, 1e-9)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("LINEUP_LOG_LEVEL", "warn")
	t.Setenv("LINEUP_LOG_FORMAT", "json")
	t.Setenv("LINEUP_DB", "/tmp/other.db")
	t.Setenv("LINEUP_INERTIA", "0.25")

	cfg, err := config.Load(writeConfig(t, "log:\n  level: debug\n"))
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level, "el entorno gana al YAML")
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "/tmp/other.db", cfg.Storage.DSN)
	assert.InDelta(t, 0.25, cfg.Engine.InertiaWeight, 1e-9)
}

func TestLoad_BadInertiaEnv(t *testing.T) {
	t.Setenv("LINEUP_INERTIA", "lots")
	_, err := config.Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LINEUP_INERTIA")
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Engine.Lookahead)
}

func TestLoad_Errors(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = config.Load(writeConfig(t, "engine: [1, 2\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse YAML")
}

func TestValidate_Rejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"inertia above 1", func(c *config.Config) { c.Engine.InertiaWeight = 1.5 }, "inertia_weight"},
		{"negative inertia", func(c *config.Config) { c.Engine.InertiaWeight = -0.1 }, "inertia_weight"},
		{"lookahead above 5", func(c *config.Config) { c.Engine.Lookahead = 6 }, "lookahead"},
		{"discount 1", func(c *config.Config) { c.Engine.Discount = 1 }, "discount"},
		{"materiality below 1", func(c *config.Config) { c.Engine.Materiality = 0.9 }, "materiality"},
		{"overload multiplier below 1", func(c *config.Config) { c.Readiness.OverloadMultiplier = 0.5 }, "overload_multiplier"},
		{"max minutes below match", func(c *config.Config) { c.Readiness.MaxMatchMinutes = 60 }, "max_match_minutes"},
		{"max minutes below assumed", func(c *config.Config) { c.Engine.AssumedMinutes = c.Readiness.MaxMatchMinutes + 30 }, "assumed_minutes"},
		{"bad curve", func(c *config.Config) { c.Utility.High.ConditionMid = 1.2 }, "utility.high.condition_mid"},
		{"bands not decreasing", func(c *config.Config) { c.Utility.Bands.Jaded = 1.1 }, "bands"},
		{"switch penalty above 1", func(c *config.Config) { c.Stability.SwitchPenalty = 2 }, "switch_penalty"},
		{"log level", func(c *config.Config) { c.Log.Level = "loud" }, "log.level"},
		{"log format", func(c *config.Config) { c.Log.Format = "xml" }, "log.format"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestLoad_ExampleFile(t *testing.T) {
	cfg, err := config.Load("../config.example.yaml")
	require.NoError(t, err)
	assert.Equal(t, scheduler.DefaultConfig().Readiness, cfg.ReadinessParams())
}
