// main.go wires the portfolio CLI: `serve` runs the site, `preview` plays
// the loading animations in the terminal.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/Zachkp/portfolio-fx/internal/anim"
	"github.com/Zachkp/portfolio-fx/internal/config"
	"github.com/Zachkp/portfolio-fx/internal/logging"
	"github.com/Zachkp/portfolio-fx/internal/preview"
	"github.com/Zachkp/portfolio-fx/internal/store"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

type rootOptions struct {
	configPath string
	v          *viper.Viper
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{v: viper.New()}
	serve := newServeCommand(opts)

	cmd := &cobra.Command{
		Use:           "portfolio",
		Short:         "Portfolio site with streamed loading animations",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}
	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", os.Getenv(config.EnvPrefix+"_CONFIG"), "Path to a portfolio.yaml config file")
	flags.String("log-level", "", "Log level: debug, info, warn or error")
	bindFlag(opts.v, "log-level", flags)

	cmd.AddCommand(serve, newPreviewCommand(opts))
	return cmd
}

func bindFlag(v *viper.Viper, key string, flags *pflag.FlagSet) {
	if err := v.BindPFlag(key, flags.Lookup(key)); err != nil {
		panic(err)
	}
}

func (o *rootOptions) load(outputs ...string) (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(o.v, o.configPath)
	if err != nil {
		return config.Config{}, nil, err
	}
	logger, err := logging.New(cfg.LogLevel, outputs...)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logger, nil
}

func newServeCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the site",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			defer logger.Sync()
			return runServer(cmd.Context(), cfg, logger)
		},
	}
	cmd.Flags().String("port", "", "Port to listen on")
	bindFlag(opts.v, "port", cmd.Flags())
	return cmd
}

func runServer(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	st, err := store.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	srv, err := newServer(cfg, logger, st)
	if err != nil {
		return err
	}
	defer srv.close()

	handler, err := srv.routes()
	if err != nil {
		return err
	}

	logger.Info("admin access available", zap.String("path", "/admin/login"))
	if cfg.Admin.UsingDefaults() {
		logger.Warn("using default admin credentials; set ADMIN_USERNAME and ADMIN_PASSWORD")
	}
	if !cfg.SMTP.Configured() {
		logger.Warn("SMTP credentials not configured; the contact form will report errors")
	}
	logger.Info("visitor tracking enabled with hashed IP addresses")
	srv.background(srv.cleanupOldVisitors)

	return srv.serve(ctx, handler)
}

func newPreviewCommand(opts *rootOptions) *cobra.Command {
	var logFile string
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Play the preloader and typewriter in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load(logFile)
			if err != nil {
				return err
			}
			defer logger.Sync()

			loop := anim.NewLoop(cfg.FrameInterval)
			loop.Start()
			defer loop.Stop()

			err = preview.Run(cmd.Context(), loop, preview.Options{
				Title:             "zach.dev",
				Steps:             cfg.Preloader.ProgressSteps(),
				Phrases:           cfg.Typewriter.Phrases,
				SequencerOptions:  cfg.Preloader.Options(),
				TypewriterOptions: cfg.Typewriter.Options(),
				Logger:            logger,
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().StringVar(&logFile, "log-file", filepath.Join(os.TempDir(), "portfolio-preview.log"), "Where to write logs while the preview owns the terminal")
	return cmd
}
