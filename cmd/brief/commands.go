package main

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/pders01/brief/internal/config"
	"github.com/pders01/brief/internal/debuglog"
	"github.com/pders01/brief/internal/newsapi"
	"github.com/pders01/brief/internal/session"
	"github.com/pders01/brief/internal/tui"
	"github.com/pders01/brief/internal/validation"
)

func newVersionCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			if !opts.quiet {
				fmt.Fprintln(out, tui.Banner(Version))
			}
			fmt.Fprintf(out, "%s %s\n", tui.AppName, Version)
			fmt.Fprintln(out, "github.com/pders01/brief")
		},
	}
}

func newSearchCmd(opts *globalOptions) *cobra.Command {
	var (
		pages    int
		pageSize int
		format   string
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search once and print the results",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if pages < 1 {
				return fmt.Errorf("--pages must be at least 1")
			}
			if format != formatList && format != formatTable {
				return fmt.Errorf("--format must be %q or %q", formatList, formatTable)
			}

			cfg, err := loadRuntime(opts)
			if err != nil {
				return err
			}
			defer debuglog.Close()

			if pageSize > 0 {
				cfg.API.PageSize = pageSize
			}

			query := strings.TrimSpace(strings.Join(args, " "))
			if query == "" {
				return errors.New("query cannot be empty")
			}

			articles, err := searchPages(newsapi.NewClient(cfg), cfg, query, pages)

			out := cmd.OutOrStdout()
			p := newPrinter(out, useColor(out))
			if format == formatTable {
				p.table(articles)
			} else {
				p.list(articles)
			}
			return err
		},
	}

	cmd.Flags().IntVar(&pages, "pages", 1, "number of pages to fetch")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "results per page (default: api.page_size)")
	cmd.Flags().StringVar(&format, "format", formatList, "output format: list or table")
	return cmd
}

// collectingNotifier keeps the latest list and the first error a session
// reports.
type collectingNotifier struct {
	mu       sync.Mutex
	articles []newsapi.Article
	err      string
}

func (n *collectingNotifier) LoadingStarted()  {}
func (n *collectingNotifier) LoadingFinished() {}

func (n *collectingNotifier) ArticlesUpdated(articles []newsapi.Article) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.articles = articles
}

func (n *collectingNotifier) Error(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err == "" {
		n.err = message
	}
}

func (n *collectingNotifier) NavigateToDetail(newsapi.Article) {}

func (n *collectingNotifier) result() ([]newsapi.Article, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != "" {
		return n.articles, errors.New(n.err)
	}
	return n.articles, nil
}

// searchPages drives a session through up to pages pages of query and
// returns what was loaded. Paging stops early at the first empty page.
func searchPages(fetcher session.Fetcher, cfg *config.Config, query string, pages int) ([]newsapi.Article, error) {
	notifier := &collectingNotifier{}
	ctrl := session.NewController(fetcher, notifier, cfg)
	defer ctrl.Close()

	for i := 0; i < pages; i++ {
		var started bool
		if i == 0 {
			started = ctrl.Search(query)
		} else {
			started = ctrl.LoadMore()
		}
		if !started {
			break
		}
		ctrl.Wait()

		if _, err := notifier.result(); err != nil {
			break
		}
	}

	return notifier.result()
}

func newConfigCmd(opts *globalOptions) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Write the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := validation.NewPathHandler().ConfigPath(opts.configPath)
			if err != nil {
				return fmt.Errorf("config path: %w", err)
			}
			if err := config.GenerateDefaultConfig(path); err != nil {
				return fmt.Errorf("generating config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Generated default configuration at: %s\n", path)
			return nil
		},
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			data, err := config.Dump(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	configCmd.AddCommand(generateCmd, showCmd)
	return configCmd
}
