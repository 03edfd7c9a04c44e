package main

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pders01/brief/internal/config"
	"github.com/pders01/brief/internal/debuglog"
	"github.com/pders01/brief/internal/newsapi"
	"github.com/pders01/brief/internal/tui"
	"github.com/pders01/brief/internal/validation"
)

// Version is the version of the application, set at build time
var Version = "dev"

type globalOptions struct {
	configPath string
	envFile    string
	logLevel   string
	quiet      bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:           "brief",
		Short:         "Browse the news from your terminal",
		Long:          "brief searches a news API and shows the results as a scrollable, paginated list.",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(opts)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "path to configuration file (default: ~/.config/brief/config.toml)")
	flags.StringVar(&opts.envFile, "env-file", "", "path to the KEY=VALUE credentials file (default: api.credentials_file)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error, off (default: log.level)")
	flags.BoolVar(&opts.quiet, "quiet", false, "skip the startup banner")

	rootCmd.AddCommand(
		newVersionCmd(opts),
		newSearchCmd(opts),
		newConfigCmd(opts),
	)
	return rootCmd
}

func runTUI(opts *globalOptions) error {
	cfg, err := loadRuntime(opts)
	if err != nil {
		return err
	}
	defer debuglog.Close()

	if !opts.quiet {
		tui.ShowBanner(Version)
	}

	app := tui.NewApp(newsapi.NewClient(cfg), cfg)
	defer app.Close()

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running ui: %w", err)
	}
	return nil
}

// loadConfig reads the configuration file and validates the API base URL.
func loadConfig(opts *globalOptions) (*config.Config, error) {
	configPath := ""
	if opts.configPath != "" {
		p, err := validation.NewPathHandler().ConfigPath(opts.configPath)
		if err != nil {
			return nil, fmt.Errorf("config path: %w", err)
		}
		configPath = p
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	baseURL, err := validation.ValidateBaseURL(cfg.API.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("api.base_url: %w", err)
	}
	cfg.API.BaseURL = baseURL
	return cfg, nil
}

// loadRuntime loads the configuration, starts logging and reads the API
// credential. The credential is read once, here.
func loadRuntime(opts *globalOptions) (*config.Config, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	paths := validation.NewPathHandler()

	level := cfg.Log.Level
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	// Log files stay inside the brief directories or the temp dir.
	logPath, err := validation.NewRestrictedPathHandler().LogPath(cfg.Log.File)
	if err != nil {
		return nil, fmt.Errorf("log path: %w", err)
	}
	if err := debuglog.Setup(debuglog.ParseLogLevel(level), logPath); err != nil {
		return nil, err
	}

	credentials := cfg.API.CredentialsFile
	if opts.envFile != "" {
		credentials = opts.envFile
	}
	credPath, err := paths.CredentialsPath(strings.TrimSpace(credentials))
	if err != nil {
		debuglog.Warnf("credentials path: %v", err)
		credPath = ""
	}
	cfg.API.APIKey = config.LoadAPIKey(credPath, cfg.API.CredentialKey)

	debuglog.WithFields(map[string]interface{}{
		"base_url":  cfg.API.BaseURL,
		"page_size": cfg.API.PageSize,
		"query":     cfg.API.DefaultQuery,
	}).Infof("brief %s starting", Version)
	return cfg, nil
}
