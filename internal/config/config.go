package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/robfig/cron/v3"
)

type Config struct {
	Run        RunConfig      `toml:"run"`
	HTTP       HTTPConfig     `toml:"http"`
	Output     OutputConfig   `toml:"output"`
	Sources    []SourceConfig `toml:"sources"`
	SourceOPML string         `toml:"sources_opml"`
	Archive    ArchiveConfig  `toml:"archive"`
	Export     ExportConfig   `toml:"export"`
	Notify     NotifyConfig   `toml:"notify"`
}

type RunConfig struct {
	Name     string `toml:"name"`
	Delay    string `toml:"delay"`
	Schedule string `toml:"schedule"`
	LogLevel string `toml:"log_level"`
}

type HTTPConfig struct {
	UserAgent string `toml:"user_agent"`
	Timeout   string `toml:"timeout"`
	BaseURL   string `toml:"base_url"`
}

type OutputConfig struct {
	Path string `toml:"path"`
}

// SourceConfig is one section. Page overrides the derived fallback page
// (base_url + "/" + section).
type SourceConfig struct {
	Section string `toml:"section"`
	URL     string `toml:"url"`
	Page    string `toml:"page"`
}

type ArchiveConfig struct {
	Enabled bool   `toml:"enabled"`
	Type    string `toml:"type"`
	Path    string `toml:"path"`
}

type ExportConfig struct {
	Enabled bool   `toml:"enabled"`
	Format  string `toml:"format"`
	Path    string `toml:"path"`
	Title   string `toml:"title"`
}

type NotifyConfig struct {
	Type    string        `toml:"type"`
	Title   string        `toml:"title"`
	Discord DiscordConfig `toml:"discord"`
}

type DiscordConfig struct {
	BotToken  string `toml:"bot_token"`
	ChannelID string `toml:"channel_id"`
}

// Default returns the reference configuration used when no file is given.
func Default() *Config {
	cfg := &Config{
		Sources: []SourceConfig{
			{Section: "world", URL: "https://www.cnn.com/world"},
			{Section: "us", URL: "https://rss.cnn.com/rss/edition_us.rss"},
			{Section: "business", URL: "https://rss.cnn.com/rss/money_news_international.rss"},
			{Section: "tech", URL: "https://rss.cnn.com/rss/edition_technology.rss"},
		},
	}
	// defaults only, cannot fail
	_ = validateConfig(cfg)
	return cfg
}

func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if config.SourceOPML != "" {
		extra, err := LoadOPMLSources(config.SourceOPML)
		if err != nil {
			return nil, err
		}
		config.Sources = append(config.Sources, extra...)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

func validateConfig(config *Config) error {
	if config.Run.Name == "" {
		config.Run.Name = "headlines"
	}

	if config.Run.Delay == "" {
		config.Run.Delay = "1s"
	}

	if _, err := time.ParseDuration(config.Run.Delay); err != nil {
		return fmt.Errorf("invalid delay: %w", err)
	}

	if config.Run.Schedule != "" {
		if _, err := cron.ParseStandard(config.Run.Schedule); err != nil {
			return fmt.Errorf("invalid schedule %q: %w", config.Run.Schedule, err)
		}
	}

	if config.Run.LogLevel == "" {
		config.Run.LogLevel = "info"
	}

	if config.HTTP.UserAgent == "" {
		config.HTTP.UserAgent = "Mozilla/5.0"
	}

	if config.HTTP.Timeout == "" {
		config.HTTP.Timeout = "10s"
	}

	if _, err := time.ParseDuration(config.HTTP.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}

	if config.HTTP.BaseURL == "" {
		config.HTTP.BaseURL = "https://edition.cnn.com"
	}
	config.HTTP.BaseURL = strings.TrimRight(config.HTTP.BaseURL, "/")

	if config.Output.Path == "" {
		config.Output.Path = "cnn_articles.csv"
	}

	if len(config.Sources) == 0 {
		return fmt.Errorf("at least one source must be configured")
	}

	for i, src := range config.Sources {
		if src.Section == "" {
			return fmt.Errorf("source %d: section is required", i)
		}
		if src.URL == "" {
			return fmt.Errorf("source %s: url is required", src.Section)
		}
	}

	if config.Archive.Type == "" {
		config.Archive.Type = "sqlite"
	}

	if config.Archive.Path == "" {
		config.Archive.Path = "./headlines.db"
	}

	if config.Export.Format == "" {
		config.Export.Format = "rss"
	}

	switch config.Export.Format {
	case "rss", "atom", "json":
	default:
		return fmt.Errorf("invalid export format: %s (must be 'rss', 'atom' or 'json')", config.Export.Format)
	}

	if config.Export.Path == "" {
		config.Export.Path = "headlines." + exportExtension(config.Export.Format)
	}

	if config.Export.Title == "" {
		config.Export.Title = config.Run.Name
	}

	if config.Notify.Type == "" {
		config.Notify.Type = "dialog"
	}

	if config.Notify.Title == "" {
		config.Notify.Title = "CNN Scraper"
	}

	switch config.Notify.Type {
	case "dialog", "log":
	case "discord":
		if config.Notify.Discord.BotToken == "" {
			return fmt.Errorf("notify.discord.bot_token is required for discord notifier")
		}
		if config.Notify.Discord.ChannelID == "" {
			return fmt.Errorf("notify.discord.channel_id is required for discord notifier")
		}
	default:
		return fmt.Errorf("invalid notify type: %s (must be 'dialog', 'log' or 'discord')", config.Notify.Type)
	}

	return nil
}

func exportExtension(format string) string {
	switch format {
	case "json":
		return "json"
	case "atom":
		return "atom"
	default:
		return "xml"
	}
}

func (c *Config) Delay() time.Duration {
	d, _ := time.ParseDuration(c.Run.Delay)
	return d
}

func (c *Config) Timeout() time.Duration {
	d, _ := time.ParseDuration(c.HTTP.Timeout)
	return d
}

// PageURL is the HTML fallback page for a source.
func (c *Config) PageURL(src SourceConfig) string {
	if src.Page != "" {
		return src.Page
	}
	return c.HTTP.BaseURL + "/" + src.Section
}
