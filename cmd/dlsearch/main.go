package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mmcdole/dlserver/internal/adapter"
	"github.com/mmcdole/dlserver/internal/client"
	"github.com/mmcdole/dlserver/internal/filter"
	"github.com/mmcdole/dlserver/internal/history"
	"github.com/mmcdole/dlserver/internal/library"
	"github.com/mmcdole/dlserver/internal/search"
	"github.com/mmcdole/dlserver/internal/service"
	"github.com/mmcdole/dlserver/internal/store"
	"github.com/mmcdole/dlserver/internal/tui"
	"github.com/mmcdole/dlserver/internal/urlstate"
)

// Version is set at build time via -ldflags
var Version = "dev"

type globalOptions struct {
	configFile string
	server     string
	verbose    bool
}

// app holds the wired services for one invocation
type app struct {
	cfg        *adapter.Config
	logger     *slog.Logger
	librarySvc *library.Service
	searchSvc  *service.SearchService
	session    *service.SessionService

	interactive bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	cmd := &cobra.Command{
		Use:           "dlsearch [address]",
		Short:         "Search book availability across libraries",
		Long:          "Search book availability across libraries.\n\nAn address such as \"?title=해리포터&library=판교\" opens with that search.",
		Version:       Version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var address string
			if len(args) > 0 {
				address = args[0]
			}
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				return runHeadlessAddress(cmd, opts, address)
			}
			return runTUI(opts, address)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "Path to config.yaml")
	cmd.PersistentFlags().StringVar(&opts.server, "server", "", "Catalog API base URL")
	cmd.PersistentFlags().BoolVar(&opts.verbose, "verbose", false, "Log debug output to stderr")

	cmd.AddCommand(
		newSearchCmd(opts),
		newLibrariesCmd(opts),
		newHistoryCmd(opts),
		newConfigCmd(opts),
	)
	return cmd
}

// loadConfig reads configuration and applies global flag overrides
func loadConfig(opts *globalOptions) (*adapter.Config, error) {
	cfg, err := adapter.LoadConfig(opts.configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if opts.server != "" {
		cfg.Server.URL = opts.server
	}
	return cfg, nil
}

// newApp wires config, logging, storage and services. Interactive sessions
// log to the configured file and start at the configured or restored
// address; headless runs log to stderr when verbose.
func newApp(stderr io.Writer, opts *globalOptions, interactive bool, address string) (*app, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	logCfg := cfg.Logging
	switch {
	case !interactive && opts.verbose:
		logCfg = adapter.LoggingConfig{File: adapter.StderrLogFile, Level: "DEBUG"}
	case !interactive:
		logCfg.File = ""
	case opts.verbose:
		logCfg.Level = "DEBUG"
	}
	logger, err := adapter.NewLogger(logCfg, stderr)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	}
	slog.SetDefault(logger)

	st, err := store.NewStateStore(cfg.Storage.Path)
	if err != nil {
		logger.Warn("state store unavailable, using memory only", "path", cfg.Storage.Path, "error", err)
		st, err = store.NewStateStore("")
		if err != nil {
			return nil, err
		}
	}

	session := service.NewSessionService(st, logger)
	initial := address
	if interactive {
		if initial == "" {
			initial = cfg.UI.InitialAddress
		}
		initial = session.InitialAddress(initial, cfg.UI.RestoreLast)
	}

	catalogClient := client.NewClient(cfg.Server.URL, cfg.Server.Timeout, logger)
	f := filter.New()
	f.AvailableOnly = cfg.UI.HideUnavailable

	searchSvc := service.NewSearchService(
		search.NewOrchestrator(catalogClient, logger),
		f,
		history.New(st, cfg.History.MaxEntries, logger),
		urlstate.NewNavigator(initial),
		logger,
	)

	logger.Info("starting dlsearch", "version", Version, "server", cfg.Server.URL)
	return &app{
		cfg:        cfg,
		logger:     logger,
		librarySvc: library.NewService(catalogClient, logger),
		searchSvc:  searchSvc,
		session:    session,

		interactive: interactive,
	}, nil
}

// close ends the session. Only interactive sessions persist their address,
// so headless runs never move the restore point.
func (a *app) close() {
	nav := a.searchSvc.Navigator()
	if !a.interactive {
		nav = nil
	}
	if err := a.session.Close(a.searchSvc.Orchestrator(), nav); err != nil {
		a.logger.Warn("session close failed", "error", err)
	}
	a.logger.Info("shutting down")
}

func runTUI(opts *globalOptions, address string) error {
	a, err := newApp(os.Stderr, opts, true, address)
	if err != nil {
		return err
	}
	defer a.close()

	model := tui.NewModel(a.searchSvc, a.librarySvc)
	p := tea.NewProgram(model, tea.WithAltScreen())

	a.logger.Info("starting TUI")
	if _, err := p.Run(); err != nil {
		a.logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// runHeadlessAddress searches the address's title when stdout is not a terminal
func runHeadlessAddress(cmd *cobra.Command, opts *globalOptions, address string) error {
	p := urlstate.Parse(address)
	if p.Title == "" {
		return errors.New("stdout is not a terminal: use \"dlsearch search <title>\" or pass an address with a title")
	}
	return runSearch(cmd, opts, &searchOptions{library: p.Library}, p.Title)
}
