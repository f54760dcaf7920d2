package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mmcdole/dlserver/internal/adapter"
	"github.com/mmcdole/dlserver/internal/api"
	"github.com/mmcdole/dlserver/internal/catalog"
)

// Version is set at build time via -ldflags
var Version = "dev"

const shutdownTimeout = 5 * time.Second

type options struct {
	configFile  string
	addr        string
	catalog     string
	static      string
	verbose     bool
	showVersion bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "dlserver",
		Short:         "Serve the library search API and web front-end",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.showVersion {
				fmt.Fprintf(cmd.OutOrStdout(), "dlserver %s\n", Version)
				return nil
			}
			return run(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configFile, "config", "c", "", "Path to config.yaml")
	cmd.Flags().StringVar(&opts.addr, "addr", "", "Listen address (default from config, :3000)")
	cmd.Flags().StringVar(&opts.catalog, "catalog", "", "YAML catalog file")
	cmd.Flags().StringVar(&opts.static, "static", "", "Directory of static front-end files")
	cmd.Flags().BoolVar(&opts.verbose, "verbose", false, "Enable debug logging")
	cmd.Flags().BoolVarP(&opts.showVersion, "version", "v", false, "Print version")
	return cmd
}

func run(cmd *cobra.Command, opts *options) error {
	cfg, err := adapter.LoadConfig(opts.configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if opts.addr != "" {
		cfg.API.Addr = opts.addr
	}
	if opts.catalog != "" {
		cfg.API.Catalog = opts.catalog
	}
	if opts.static != "" {
		cfg.API.StaticDir = opts.static
	}
	if port := os.Getenv("PORT"); port != "" && opts.addr == "" {
		cfg.API.Addr = ":" + port
	}

	logCfg := adapter.LoggingConfig{File: adapter.StderrLogFile, Level: cfg.Logging.Level}
	if opts.verbose {
		logCfg.Level = "DEBUG"
	}
	logger, err := adapter.NewLogger(logCfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	if cfg.API.Catalog == "" {
		return errors.New("no catalog configured: pass --catalog or set api.catalog")
	}
	provider, err := catalog.LoadFile(cfg.API.Catalog)
	if err != nil {
		return err
	}
	logger.Info("catalog loaded", "path", cfg.API.Catalog, "libraries", len(provider.LibraryNames()))

	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(api.NewHandler(provider, cfg.API.StaticDir, logger))

	srv := &http.Server{
		Addr:              cfg.API.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("dlserver listening", "addr", cfg.API.Addr, "version", Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
