package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

type Config struct {
	API   APIConfig   `mapstructure:"api"`
	Log   LogConfig   `mapstructure:"log"`
	UI    UIConfig    `mapstructure:"ui"`
	Share ShareConfig `mapstructure:"share"`
	Keys  KeyConfig   `mapstructure:"keys"`
}

type APIConfig struct {
	BaseURL         string        `mapstructure:"base_url"`
	DefaultQuery    string        `mapstructure:"default_query"`
	PageSize        int           `mapstructure:"page_size"`
	HTTPTimeout     time.Duration `mapstructure:"http_timeout"`
	UserAgent       string        `mapstructure:"user_agent"`
	CredentialsFile string        `mapstructure:"credentials_file"`
	CredentialKey   string        `mapstructure:"credential_key"`

	// APIKey is never read from the config file; the entry point fills it
	// from CredentialsFile via LoadAPIKey.
	APIKey string `mapstructure:"-"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type UIConfig struct {
	Article           ArticleConfig `mapstructure:"article"`
	LoadMoreThreshold int           `mapstructure:"load_more_threshold"`
	FilterLimit       int           `mapstructure:"filter_limit"`
}

type ArticleConfig struct {
	MaxDescriptionLength int `mapstructure:"max_description_length"`
	WordWrapMaxWidth     int `mapstructure:"word_wrap_max_width"`
	WordWrapMinWidth     int `mapstructure:"word_wrap_min_width"`
}

type ShareConfig struct {
	DefaultOpener string `mapstructure:"default_opener"`
}

type KeyConfig struct {
	Modifier string      `mapstructure:"modifier"`
	Bindings KeyBindings `mapstructure:"bindings"`
}

type KeyBindings struct {
	Quit    string `mapstructure:"quit"`
	Search  string `mapstructure:"search"`
	Filter  string `mapstructure:"filter"`
	Refresh string `mapstructure:"refresh"`
	Open    string `mapstructure:"open"`
	Share   string `mapstructure:"share"`
	Back    string `mapstructure:"back"`
}

const (
	DefaultBaseURL  = "https://newsapi.org"
	DefaultQuery    = "Apple"
	DefaultPageSize = 15
)

func defaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	logPath := filepath.Join(homeDir, ".brief", "brief.log")

	return &Config{
		API: APIConfig{
			BaseURL:         DefaultBaseURL,
			DefaultQuery:    DefaultQuery,
			PageSize:        DefaultPageSize,
			HTTPTimeout:     30 * time.Second,
			UserAgent:       "brief/1.0 (https://github.com/pders01/brief)",
			CredentialsFile: ".env",
			CredentialKey:   "API_KEY",
		},
		Log: LogConfig{
			Level: "off",
			File:  logPath,
		},
		UI: UIConfig{
			Article: ArticleConfig{
				MaxDescriptionLength: 80,
				WordWrapMaxWidth:     120,
				WordWrapMinWidth:     40,
			},
			LoadMoreThreshold: 3,
			FilterLimit:       50,
		},
		Share: ShareConfig{
			DefaultOpener: DefaultOpener(),
		},
		Keys: KeyConfig{
			Modifier: "ctrl",
			Bindings: KeyBindings{
				Quit:    "q",
				Search:  "s",
				Filter:  "f",
				Refresh: "r",
				Open:    "o",
				Share:   "y",
				Back:    "esc",
			},
		},
	}
}

// DefaultOpener returns the platform's command for opening a URL.
func DefaultOpener() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "linux":
		return "xdg-open"
	case "windows":
		return "start"
	default:
		return "open"
	}
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Defaults are registered as nested maps so a partial file only
	// overrides the keys it sets.
	for name, section := range sections(defaultConfig()) {
		v.SetDefault(name, section)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		homeDir, _ := os.UserHomeDir()
		configDir := filepath.Join(homeDir, ".config", "brief")

		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(configDir)
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("BRIEF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	fillDefaults(&config)
	expandPaths(&config)

	return &config, nil
}

// fillDefaults repairs values that are set but unusable.
func fillDefaults(cfg *Config) {
	def := defaultConfig()
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = def.API.BaseURL
	}
	if cfg.API.DefaultQuery == "" {
		cfg.API.DefaultQuery = def.API.DefaultQuery
	}
	if cfg.API.PageSize <= 0 {
		cfg.API.PageSize = def.API.PageSize
	}
	if cfg.API.CredentialKey == "" {
		cfg.API.CredentialKey = def.API.CredentialKey
	}
	if cfg.UI.LoadMoreThreshold <= 0 {
		cfg.UI.LoadMoreThreshold = def.UI.LoadMoreThreshold
	}
	if cfg.UI.FilterLimit <= 0 {
		cfg.UI.FilterLimit = def.UI.FilterLimit
	}
	if cfg.Share.DefaultOpener == "" {
		cfg.Share.DefaultOpener = def.Share.DefaultOpener
	}
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}

	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	return path
}

func expandPaths(cfg *Config) {
	cfg.API.CredentialsFile = expandPath(cfg.API.CredentialsFile)
	cfg.Log.File = expandPath(cfg.Log.File)
}

// sections converts the config to plain maps; durations become strings so
// the written TOML stays readable.
func sections(config *Config) map[string]interface{} {
	apiCfg := map[string]interface{}{
		"base_url":         config.API.BaseURL,
		"default_query":    config.API.DefaultQuery,
		"page_size":        config.API.PageSize,
		"http_timeout":     config.API.HTTPTimeout.String(),
		"user_agent":       config.API.UserAgent,
		"credentials_file": config.API.CredentialsFile,
		"credential_key":   config.API.CredentialKey,
	}

	logCfg := map[string]interface{}{
		"level": config.Log.Level,
		"file":  config.Log.File,
	}

	uiCfg := map[string]interface{}{
		"load_more_threshold": config.UI.LoadMoreThreshold,
		"filter_limit":        config.UI.FilterLimit,
		"article": map[string]interface{}{
			"max_description_length": config.UI.Article.MaxDescriptionLength,
			"word_wrap_max_width":    config.UI.Article.WordWrapMaxWidth,
			"word_wrap_min_width":    config.UI.Article.WordWrapMinWidth,
		},
	}

	shareCfg := map[string]interface{}{
		"default_opener": config.Share.DefaultOpener,
	}

	b := config.Keys.Bindings
	keysCfg := map[string]interface{}{
		"modifier": config.Keys.Modifier,
		"bindings": map[string]interface{}{
			"quit":    b.Quit,
			"search":  b.Search,
			"filter":  b.Filter,
			"refresh": b.Refresh,
			"open":    b.Open,
			"share":   b.Share,
			"back":    b.Back,
		},
	}

	return map[string]interface{}{
		"api":   apiCfg,
		"log":   logCfg,
		"ui":    uiCfg,
		"share": shareCfg,
		"keys":  keysCfg,
	}
}

func Save(config *Config, path string) error {
	v := viper.New()
	for name, section := range sections(config) {
		v.Set(name, section)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return v.WriteConfigAs(path)
}

// Dump renders the effective configuration as TOML. The API key is never
// included.
func Dump(config *Config) ([]byte, error) {
	data, err := toml.Marshal(sections(config))
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return data, nil
}

func GenerateDefaultConfig(path string) error {
	return Save(defaultConfig(), path)
}
