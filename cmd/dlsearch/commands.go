package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mmcdole/dlserver/internal/adapter"
	"github.com/mmcdole/dlserver/internal/domain"
	"github.com/mmcdole/dlserver/internal/library"
	"github.com/mmcdole/dlserver/internal/search"
	"github.com/mmcdole/dlserver/internal/service"
	"github.com/mmcdole/dlserver/internal/tui/components"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// clearSpinnerLine clears the progress line from the terminal
const clearSpinnerLine = "\r                                                            \r"

type searchOptions struct {
	library   string
	available bool
	tags      []string
	query     string
	asJSON    bool
}

// searchReport is the --json output of a search
type searchReport struct {
	Title     string        `json:"title"`
	Library   string        `json:"library"`
	Cancelled bool          `json:"cancelled,omitempty"`
	Failed    []string      `json:"failed,omitempty"`
	Books     []domain.Book `json:"books"`
}

func newSearchCmd(opts *globalOptions) *cobra.Command {
	so := &searchOptions{}
	cmd := &cobra.Command{
		Use:   "search <title>",
		Short: "Search a title and print the results",
		Long: "Search a title across every library, or one library with --library.\n\n" +
			"Ctrl-C stops the search and prints the libraries that already answered.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, opts, so, strings.Join(args, " "))
		},
	}
	cmd.Flags().StringVarP(&so.library, "library", "l", "", "Search only this library")
	cmd.Flags().BoolVarP(&so.available, "available", "a", false, "Show only books available for loan")
	cmd.Flags().StringSliceVarP(&so.tags, "tag", "t", nil, "Show only books from these libraries")
	cmd.Flags().StringVarP(&so.query, "filter", "f", "", "Narrow results by title")
	cmd.Flags().BoolVar(&so.asJSON, "json", false, "Print results as JSON")
	return cmd
}

func runSearch(cmd *cobra.Command, opts *globalOptions, so *searchOptions, title string) error {
	stderr := cmd.ErrOrStderr()
	a, err := newApp(stderr, opts, false, "")
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lib := so.library
	if lib == "" {
		lib = domain.SearchAllLibraries
	}
	if domain.IsSearchAll(lib) {
		libs := a.librarySvc.FetchLibraries(ctx)
		if len(libs) == 0 {
			return fmt.Errorf("no libraries available from %s", a.cfg.Server.URL)
		}
		a.searchSvc.SetLibraries(libs)
	}

	if err := a.searchSvc.HandleSearch(title, lib); err != nil {
		if errors.Is(err, domain.ErrEmptyTitle) {
			return errors.New(service.EmptySearchHint)
		}
		return err
	}

	orch := a.searchSvc.Orchestrator()
	cancelled := awaitSearch(ctx, orch, stderr, isTerminal(os.Stderr))
	failed := orch.FailedLibraries()
	if cancelled {
		a.searchSvc.Cancel()
	}

	f := a.searchSvc.Filter()
	if so.available {
		f.AvailableOnly = true
	}
	if len(so.tags) > 0 {
		f.SetTags(so.tags)
	}
	f.Query = so.query
	books := a.searchSvc.DisplayedBooks()

	out := cmd.OutOrStdout()
	if so.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(searchReport{
			Title:     title,
			Library:   lib,
			Cancelled: cancelled,
			Failed:    failed,
			Books:     books,
		})
	}

	for _, b := range books {
		fmt.Fprintf(out, "%s %s  [%s]\n", b.AvailabilityMark(), b.Title, b.DisplayLibraryName())
	}

	if cancelled {
		fmt.Fprintln(stderr, "검색을 취소했습니다. 완료된 도서관의 결과만 표시합니다.")
	}
	if len(failed) > 0 {
		fmt.Fprintf(stderr, "검색 실패: %s\n", strings.Join(failed, ", "))
	}
	if len(books) == 0 {
		fmt.Fprintln(stderr, "검색 결과가 없습니다")
		return nil
	}
	fmt.Fprintf(stderr, "%d권 (대출 가능 %d권)\n", len(books), countAvailable(books))
	return nil
}

// awaitSearch applies outcomes until the search finishes, drawing a spinner
// line on w when progress is set. Returns true if ctx ended first.
func awaitSearch(ctx context.Context, orch *search.Orchestrator, w io.Writer, progress bool) bool {
	frames := spinner.Dot.Frames
	ticker := time.NewTicker(spinner.Dot.FPS)
	defer ticker.Stop()
	if progress {
		defer fmt.Fprint(w, clearSpinnerLine)
	}

	frame := 0
	for orch.IsLoading() {
		select {
		case out := <-orch.Results():
			orch.Apply(out)
		case <-ticker.C:
			if progress {
				frame = (frame + 1) % len(frames)
				fmt.Fprintf(w, "\r%s %s", frames[frame], progressLine(orch))
			}
		case <-ctx.Done():
			return true
		}
	}
	return false
}

func progressLine(orch *search.Orchestrator) string {
	if orch.IsSearchingAll() {
		p := orch.Progress()
		line := components.ProgressText(p)
		if summary := components.SearchingSummary(p.SearchingLibraries); summary != "" {
			line += " (" + summary + ")"
		}
		return line
	}
	title, lib := orch.Query()
	return fmt.Sprintf("%s에서 '%s' 검색 중...", lib, title)
}

func countAvailable(books []domain.Book) int {
	n := 0
	for _, b := range books {
		if b.Exist {
			n++
		}
	}
	return n
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func newLibrariesCmd(opts *globalOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "libraries",
		Short: "List the searchable libraries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.ErrOrStderr(), opts, false, "")
			if err != nil {
				return err
			}
			defer a.close()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			libs := a.librarySvc.FetchLibraries(ctx)
			if len(libs) == 0 {
				return fmt.Errorf("no libraries available from %s", a.cfg.Server.URL)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(libs)
			}
			for _, name := range library.Names(libs) {
				fmt.Fprintln(out, name)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print libraries as JSON")
	return cmd
}

func newHistoryCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent searches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.ErrOrStderr(), opts, false, "")
			if err != nil {
				return err
			}
			defer a.close()

			entries := a.searchSvc.History().Entries()
			if len(entries) == 0 {
				fmt.Fprintln(cmd.ErrOrStderr(), "검색 기록이 없습니다")
				return nil
			}
			for i, e := range entries {
				fmt.Fprintf(cmd.OutOrStdout(), "%2d  %s\n", i+1, e)
			}
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete all recent searches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.ErrOrStderr(), opts, false, "")
			if err != nil {
				return err
			}
			defer a.close()

			a.searchSvc.History().Clear()
			fmt.Fprintln(cmd.ErrOrStderr(), "검색 기록을 삭제했습니다")
			return nil
		},
	})
	return cmd
}

func newConfigCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the current settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			path := adapter.DefaultConfigFile()
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := adapter.SaveConfig(cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Configuration saved to %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")

	cmd.AddCommand(initCmd)
	return cmd
}
