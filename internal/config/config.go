// Package config loads portfolio settings from defaults, an optional YAML
// file and PORTFOLIO_* environment variables via viper.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/Zachkp/portfolio-fx/internal/anim"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "PORTFOLIO"

// Config is the full application configuration.
type Config struct {
	Port          string           `mapstructure:"port"`
	Database      string           `mapstructure:"database"`
	LogLevel      string           `mapstructure:"log-level"`
	FrameInterval time.Duration    `mapstructure:"frame-interval"`
	KnowledgeBase string           `mapstructure:"knowledge-base"`
	Admin         AdminConfig      `mapstructure:"admin"`
	SMTP          SMTPConfig       `mapstructure:"smtp"`
	Preloader     PreloaderConfig  `mapstructure:"preloader"`
	Typewriter    TypewriterConfig `mapstructure:"typewriter"`
	Counter       CounterConfig    `mapstructure:"counter"`
}

type AdminConfig struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// UsingDefaults reports whether the development credentials are active.
func (a AdminConfig) UsingDefaults() bool {
	return a.Username == defaultAdminUsername || a.Password == defaultAdminPassword
}

type SMTPConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
	User string `mapstructure:"user"`
	Pass string `mapstructure:"pass"`
	To   string `mapstructure:"to"`
}

// Configured reports whether credentials are present.
func (s SMTPConfig) Configured() bool {
	return s.User != "" && s.Pass != ""
}

type StepConfig struct {
	Label string        `mapstructure:"label"`
	Delta float64       `mapstructure:"delta"`
	Hold  time.Duration `mapstructure:"hold"`
}

type PreloaderConfig struct {
	Transition      time.Duration `mapstructure:"transition"`
	FinalTransition time.Duration `mapstructure:"final-transition"`
	CompletionHold  time.Duration `mapstructure:"completion-hold"`
	CompletionLine  string        `mapstructure:"completion-line"`
	Steps           []StepConfig  `mapstructure:"steps"`
}

// ProgressSteps converts the configured steps.
func (p PreloaderConfig) ProgressSteps() []anim.ProgressStep {
	steps := make([]anim.ProgressStep, 0, len(p.Steps))
	for _, s := range p.Steps {
		steps = append(steps, anim.ProgressStep{Label: s.Label, TargetDelta: s.Delta, Hold: s.Hold})
	}
	return steps
}

// Options returns the sequencer options for these timings.
func (p PreloaderConfig) Options() []anim.SequencerOption {
	return []anim.SequencerOption{
		anim.WithTransition(p.Transition),
		anim.WithFinalTransition(p.FinalTransition),
		anim.WithCompletionHold(p.CompletionHold),
		anim.WithCompletionLine(p.CompletionLine),
	}
}

type TypewriterConfig struct {
	StartDelay  time.Duration `mapstructure:"start-delay"`
	TypeDelay   time.Duration `mapstructure:"type-delay"`
	DeleteDelay time.Duration `mapstructure:"delete-delay"`
	TypedHold   time.Duration `mapstructure:"typed-hold"`
	DeletedHold time.Duration `mapstructure:"deleted-hold"`
	Phrases     []string      `mapstructure:"phrases"`
}

// Options returns the typewriter options for these timings.
func (t TypewriterConfig) Options() []anim.TypewriterOption {
	return []anim.TypewriterOption{
		anim.WithStartDelay(t.StartDelay),
		anim.WithTypeDelay(t.TypeDelay),
		anim.WithDeleteDelay(t.DeleteDelay),
		anim.WithTypedHold(t.TypedHold),
		anim.WithDeletedHold(t.DeletedHold),
	}
}

type CounterConfig struct {
	Duration time.Duration `mapstructure:"duration"`
}

const (
	defaultAdminUsername = "admin"
	defaultAdminPassword = "admin123"
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Port:          "8080",
		Database:      "portfolio.db",
		LogLevel:      "info",
		FrameInterval: anim.DefaultFrameInterval,
		Admin: AdminConfig{
			Username: defaultAdminUsername,
			Password: defaultAdminPassword,
		},
		SMTP: SMTPConfig{
			Host: "smtp.gmail.com",
			Port: "587",
			To:   "zachkordaspotter@gmail.com",
		},
		Preloader: PreloaderConfig{
			Transition:      anim.DefaultTransition,
			FinalTransition: anim.DefaultFinalTransition,
			CompletionHold:  anim.DefaultCompletionHold,
			CompletionLine:  "System ready. Welcome to zach.dev.",
			Steps: []StepConfig{
				{Label: "Compiling Go binaries...", Delta: 20, Hold: 800 * time.Millisecond},
				{Label: "Warming up Gin routes...", Delta: 20, Hold: 600 * time.Millisecond},
				{Label: "Opening SQLite database...", Delta: 20, Hold: 900 * time.Millisecond},
				{Label: "Rendering HTMX fragments...", Delta: 20, Hold: 700 * time.Millisecond},
				{Label: "Loading project showcase...", Delta: 20, Hold: 500 * time.Millisecond},
			},
		},
		Typewriter: TypewriterConfig{
			StartDelay:  anim.DefaultStartDelay,
			TypeDelay:   anim.DefaultTypeDelay,
			DeleteDelay: anim.DefaultDeleteDelay,
			TypedHold:   anim.DefaultTypedHold,
			DeletedHold: anim.DefaultDeletedHold,
			Phrases: []string{
				"GO DEVELOPER",
				"BACKEND ENGINEER",
				"TERMINAL UI TINKERER",
				"MUAY THAI ENTHUSIAST",
			},
		},
		Counter: CounterConfig{Duration: anim.DefaultCounterDuration},
	}
}

// legacyEnv maps keys to the unprefixed variables the site has always read.
var legacyEnv = map[string]string{
	"port":           "PORT",
	"smtp.host":      "SMTP_HOST",
	"smtp.port":      "SMTP_PORT",
	"smtp.user":      "SMTP_USER",
	"smtp.pass":      "SMTP_PASS",
	"smtp.to":        "TO_EMAIL",
	"admin.username": "ADMIN_USERNAME",
	"admin.password": "ADMIN_PASSWORD",
}

// Load resolves the configuration. path names an explicit config file,
// which must then exist; otherwise portfolio.yaml is searched for and may
// be absent.
func Load(v *viper.Viper, path string) (Config, error) {
	setDefaults(v, Default())
	if err := bindEnv(v); err != nil {
		return Config{}, err
	}
	configureConfigFile(v, path)
	if err := readConfigFile(v, path != ""); err != nil {
		return Config{}, errors.Wrap(err, "read config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("port", d.Port)
	v.SetDefault("database", d.Database)
	v.SetDefault("log-level", d.LogLevel)
	v.SetDefault("frame-interval", d.FrameInterval)
	v.SetDefault("knowledge-base", d.KnowledgeBase)

	v.SetDefault("admin.username", d.Admin.Username)
	v.SetDefault("admin.password", d.Admin.Password)

	v.SetDefault("smtp.host", d.SMTP.Host)
	v.SetDefault("smtp.port", d.SMTP.Port)
	v.SetDefault("smtp.user", d.SMTP.User)
	v.SetDefault("smtp.pass", d.SMTP.Pass)
	v.SetDefault("smtp.to", d.SMTP.To)

	v.SetDefault("preloader.transition", d.Preloader.Transition)
	v.SetDefault("preloader.final-transition", d.Preloader.FinalTransition)
	v.SetDefault("preloader.completion-hold", d.Preloader.CompletionHold)
	v.SetDefault("preloader.completion-line", d.Preloader.CompletionLine)
	steps := make([]map[string]any, 0, len(d.Preloader.Steps))
	for _, s := range d.Preloader.Steps {
		steps = append(steps, map[string]any{"label": s.Label, "delta": s.Delta, "hold": s.Hold})
	}
	v.SetDefault("preloader.steps", steps)

	v.SetDefault("typewriter.start-delay", d.Typewriter.StartDelay)
	v.SetDefault("typewriter.type-delay", d.Typewriter.TypeDelay)
	v.SetDefault("typewriter.delete-delay", d.Typewriter.DeleteDelay)
	v.SetDefault("typewriter.typed-hold", d.Typewriter.TypedHold)
	v.SetDefault("typewriter.deleted-hold", d.Typewriter.DeletedHold)
	v.SetDefault("typewriter.phrases", d.Typewriter.Phrases)

	v.SetDefault("counter.duration", d.Counter.Duration)
}

func bindEnv(v *viper.Viper) error {
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	for key, legacy := range legacyEnv {
		prefixed := EnvPrefix + "_" + strings.ToUpper(strings.NewReplacer("-", "_", ".", "_").Replace(key))
		if err := v.BindEnv(key, prefixed, legacy); err != nil {
			return errors.Wrapf(err, "bind env %s", key)
		}
	}
	return nil
}

func configureConfigFile(v *viper.Viper, explicitPath string) {
	if explicitPath != "" {
		v.SetConfigFile(explicitPath)
		return
	}
	v.SetConfigName("portfolio")
	v.SetConfigType("yaml")
	for _, dir := range configSearchDirs() {
		v.AddConfigPath(dir)
	}
}

func readConfigFile(v *viper.Viper, strict bool) error {
	if err := v.ReadInConfig(); err != nil {
		var cfgErr viper.ConfigFileNotFoundError
		if errors.As(err, &cfgErr) && !strict {
			return nil
		}
		return err
	}
	return nil
}

func configSearchDirs() []string {
	dirs := []string{"."}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		dirs = append(dirs, filepath.Join(xdg, "portfolio"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".config", "portfolio"))
	}
	return dirs
}

// Validate rejects configurations the animators cannot run with.
func (c Config) Validate() error {
	if c.Port == "" {
		return errors.New("port must not be empty")
	}
	if c.FrameInterval <= 0 {
		return errors.Errorf("frame-interval must be positive, got %s", c.FrameInterval)
	}

	p := c.Preloader
	for name, d := range map[string]time.Duration{
		"preloader.transition":       p.Transition,
		"preloader.final-transition": p.FinalTransition,
		"preloader.completion-hold":  p.CompletionHold,
		"typewriter.start-delay":     c.Typewriter.StartDelay,
		"counter.duration":           c.Counter.Duration,
	} {
		if d < 0 {
			return errors.Errorf("%s must not be negative, got %s", name, d)
		}
	}
	for i, s := range p.Steps {
		if s.Hold < 0 {
			return errors.Errorf("preloader.steps[%d].hold must not be negative, got %s", i, s.Hold)
		}
	}

	tw := c.Typewriter
	for name, d := range map[string]time.Duration{
		"typewriter.type-delay":   tw.TypeDelay,
		"typewriter.delete-delay": tw.DeleteDelay,
		"typewriter.typed-hold":   tw.TypedHold,
		"typewriter.deleted-hold": tw.DeletedHold,
	} {
		if d <= 0 {
			return errors.Errorf("%s must be positive, got %s", name, d)
		}
	}
	if len(tw.Phrases) == 0 {
		return errors.New("typewriter.phrases must not be empty")
	}
	return nil
}
