package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	d := Default()
	assert.Equal(t, d.Port, cfg.Port)
	assert.Equal(t, d.FrameInterval, cfg.FrameInterval)
	assert.Equal(t, d.Preloader.Steps, cfg.Preloader.Steps)
	assert.Equal(t, d.Typewriter, cfg.Typewriter)
	assert.True(t, cfg.Admin.UsingDefaults())
	assert.False(t, cfg.SMTP.Configured())

	steps := cfg.Preloader.ProgressSteps()
	require.Len(t, steps, 5)
	var sum float64
	for _, s := range steps {
		sum += s.TargetDelta
	}
	assert.Equal(t, 100.0, sum)
}

func TestLoad_ValidFile(t *testing.T) {
	t.Chdir(t.TempDir())

	path := filepath.Join(t.TempDir(), "site.yaml")
	content := `port: "9090"
preloader:
  transition: 500ms
  steps:
    - label: "Booting"
      delta: 30
      hold: 250ms
    - label: "Linking"
      delta: 45.5
typewriter:
  type-delay: 80ms
  phrases: ["ONE", "TWO"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 500*time.Millisecond, cfg.Preloader.Transition)
	assert.Equal(t, Default().Preloader.FinalTransition, cfg.Preloader.FinalTransition)
	assert.Equal(t, []StepConfig{
		{Label: "Booting", Delta: 30, Hold: 250 * time.Millisecond},
		{Label: "Linking", Delta: 45.5},
	}, cfg.Preloader.Steps)
	assert.Equal(t, 80*time.Millisecond, cfg.Typewriter.TypeDelay)
	assert.Equal(t, []string{"ONE", "TWO"}, cfg.Typewriter.Phrases)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "read config")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "7070")
	t.Setenv("SMTP_USER", "me@example.com")
	t.Setenv("PORTFOLIO_SMTP_PASS", "secret")
	t.Setenv("PORTFOLIO_TYPEWRITER_DELETE_DELAY", "25ms")
	t.Setenv("PORTFOLIO_ADMIN_USERNAME", "zach")

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Port)
	assert.True(t, cfg.SMTP.Configured())
	assert.Equal(t, 25*time.Millisecond, cfg.Typewriter.DeleteDelay)
	assert.Equal(t, "zach", cfg.Admin.Username)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(*Config) {}},
		{name: "empty phrases", mutate: func(c *Config) { c.Typewriter.Phrases = nil }, wantErr: "typewriter.phrases"},
		{name: "zero type delay", mutate: func(c *Config) { c.Typewriter.TypeDelay = 0 }, wantErr: "typewriter.type-delay"},
		{name: "negative transition", mutate: func(c *Config) { c.Preloader.Transition = -time.Second }, wantErr: "preloader.transition"},
		{name: "negative step hold", mutate: func(c *Config) { c.Preloader.Steps[1].Hold = -1 }, wantErr: "preloader.steps[1].hold"},
		{name: "zero frame interval", mutate: func(c *Config) { c.FrameInterval = 0 }, wantErr: "frame-interval"},
		{name: "empty port", mutate: func(c *Config) { c.Port = "" }, wantErr: "port"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
