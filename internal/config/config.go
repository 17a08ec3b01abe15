// Package config loads and validates configuration via Viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/JakeFAU/wiki-scraper/internal/logging"
	"github.com/JakeFAU/wiki-scraper/internal/policy/ratelimit"
	"github.com/JakeFAU/wiki-scraper/internal/wiki"
)

// EnvPrefix namespaces environment overrides, e.g. WIKISCRAPER_HTTP_TIMEOUT_SECONDS.
const EnvPrefix = "WIKISCRAPER"

// maxCooldown bounds configured per-command cooldowns.
const maxCooldown = 60 * time.Second

// Config captures all configuration knobs loaded via Viper.
type Config struct {
	Logging   logging.Config  `mapstructure:"logging"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Wiki      WikiConfig      `mapstructure:"wiki"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Export    ExportConfig    `mapstructure:"export"`
	Batch     BatchConfig     `mapstructure:"batch"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Server    ServerConfig    `mapstructure:"server"`
}

// HTTPConfig configures outbound page fetches.
type HTTPConfig struct {
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	UserAgent      string `mapstructure:"user_agent"`
	AcceptLanguage string `mapstructure:"accept_language"`
}

// WikiConfig selects the sites to scrape.
type WikiConfig struct {
	// BaseURLTemplate receives the language code, e.g. "https://%s.wikipedia.org".
	BaseURLTemplate string `mapstructure:"base_url_template"`
	DefaultLanguage string `mapstructure:"default_language"`
}

// RateLimitConfig holds per-command cooldown windows.
type RateLimitConfig struct {
	Search  time.Duration `mapstructure:"search"`
	PDF     time.Duration `mapstructure:"pdf"`
	Compare time.Duration `mapstructure:"compare"`
	Random  time.Duration `mapstructure:"random"`
}

// ExportConfig controls where chat exports are staged.
type ExportConfig struct {
	// TempDir holds PDFs until they are delivered. Empty means the OS default.
	TempDir string `mapstructure:"temp_dir"`
}

// BatchConfig governs the command line export.
type BatchConfig struct {
	OutputDir      string `mapstructure:"output_dir"`
	MaxLinks       int    `mapstructure:"max_links"`
	SampleArticles int    `mapstructure:"sample_articles"`
	DelaySeconds   int    `mapstructure:"delay_seconds"`
}

// TelegramConfig configures the chat transport.
type TelegramConfig struct {
	Token              string `mapstructure:"token"`
	PollTimeoutSeconds int    `mapstructure:"poll_timeout_seconds"`
	MaxInFlight        int    `mapstructure:"max_in_flight"`
	Debug              bool   `mapstructure:"debug"`
}

// ServerConfig controls the operational HTTP server.
type ServerConfig struct {
	// Port 0 disables the server.
	Port int `mapstructure:"port"`
}

// Load builds a Config from a .env file, the environment and an optional
// config file.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("telegram.token", EnvPrefix+"_TELEGRAM_TOKEN", "TELEGRAM_BOT_TOKEN"); err != nil {
		return Config{}, fmt.Errorf("bind telegram token: %w", err)
	}

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.development", false)
	v.SetDefault("logging.level", "info")
	v.SetDefault("http.timeout_seconds", 10)
	v.SetDefault("http.user_agent", "")
	v.SetDefault("http.accept_language", "en-US,en;q=0.9")
	v.SetDefault("wiki.base_url_template", "https://%s.wikipedia.org")
	v.SetDefault("wiki.default_language", string(wiki.DefaultLanguage))
	v.SetDefault("ratelimit.search", ratelimit.DefaultWindows[ratelimit.ClassSearch])
	v.SetDefault("ratelimit.pdf", ratelimit.DefaultWindows[ratelimit.ClassPDF])
	v.SetDefault("ratelimit.compare", ratelimit.DefaultWindows[ratelimit.ClassCompare])
	v.SetDefault("ratelimit.random", ratelimit.DefaultWindows[ratelimit.ClassRandom])
	v.SetDefault("export.temp_dir", "")
	v.SetDefault("batch.output_dir", ".")
	v.SetDefault("batch.max_links", 10)
	v.SetDefault("batch.sample_articles", 3)
	v.SetDefault("batch.delay_seconds", 1)
	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.poll_timeout_seconds", 60)
	v.SetDefault("telegram.max_in_flight", 64)
	v.SetDefault("telegram.debug", false)
	v.SetDefault("server.port", 0)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("http.timeout_seconds must be > 0")
	}
	if !strings.Contains(c.Wiki.BaseURLTemplate, "%s") {
		return fmt.Errorf("wiki.base_url_template must contain %%s for the language code")
	}
	if _, err := wiki.ParseLanguage(c.Wiki.DefaultLanguage); err != nil {
		return fmt.Errorf("wiki.default_language: %w", err)
	}
	for class, window := range c.RateLimit.Windows() {
		if window < 0 || window > maxCooldown {
			return fmt.Errorf("ratelimit.%s must be between 0s and %s", class, maxCooldown)
		}
	}
	if c.Batch.MaxLinks <= 0 {
		return fmt.Errorf("batch.max_links must be > 0")
	}
	if c.Batch.SampleArticles < 0 {
		return fmt.Errorf("batch.sample_articles must be >= 0")
	}
	if c.Batch.DelaySeconds < 0 {
		return fmt.Errorf("batch.delay_seconds must be >= 0")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 0 and 65535")
	}
	return nil
}

// ValidateBot adds the checks that only apply to chat mode.
func (c Config) ValidateBot() error {
	if strings.TrimSpace(c.Telegram.Token) == "" {
		return fmt.Errorf("telegram.token must be set (or TELEGRAM_BOT_TOKEN)")
	}
	if c.Telegram.PollTimeoutSeconds <= 0 {
		return fmt.Errorf("telegram.poll_timeout_seconds must be > 0")
	}
	return nil
}

// Timeout converts the fetch timeout to a duration.
func (c HTTPConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Language returns the validated default language.
func (c WikiConfig) Language() wiki.Language {
	lang, err := wiki.ParseLanguage(c.DefaultLanguage)
	if err != nil {
		return wiki.DefaultLanguage
	}
	return lang
}

// Windows maps the configured cooldowns onto limiter classes.
func (c RateLimitConfig) Windows() map[ratelimit.Class]time.Duration {
	return map[ratelimit.Class]time.Duration{
		ratelimit.ClassSearch:  c.Search,
		ratelimit.ClassPDF:     c.PDF,
		ratelimit.ClassCompare: c.Compare,
		ratelimit.ClassRandom:  c.Random,
	}
}

// Delay converts the batch politeness delay to a duration.
func (c BatchConfig) Delay() time.Duration {
	return time.Duration(c.DelaySeconds) * time.Second
}

// PollTimeout converts the long-poll timeout to a duration.
func (c TelegramConfig) PollTimeout() time.Duration {
	return time.Duration(c.PollTimeoutSeconds) * time.Second
}
