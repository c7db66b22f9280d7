// Package config loads and validates the trendpress configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigFile     = "config.yaml"
	DefaultStoragePath    = ".trendpress/trendpress.db"
	DefaultLookback       = 24 * time.Hour
	DefaultTimezone       = "UTC"
	DefaultSocialSchedule = "*/15 * * * *"
	DefaultDailySchedule  = "0 17 * * *"
	DefaultDraftMode      = "llm"
	DefaultLogLevel       = "info"

	DefaultSocialAPIBase = "https://api.twitterapi.io"
	DefaultScrapeAPIBase = "https://api.firecrawl.dev"
	DefaultLLMEndpoint   = "https://api.together.xyz/v1/chat/completions"
	DefaultLLMModel      = "meta-llama/Meta-Llama-3.1-70B-Instruct-Turbo"
	DefaultPublishAPI    = "https://api.weixin.qq.com"
	DefaultNotifyAPI     = "https://api.day.app"
	DefaultTitlePrefix   = "AI Trends Daily"
	DefaultDigestLength  = 120
)

// Duration wraps time.Duration for YAML unmarshaling from strings like "24h".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

type Config struct {
	Sources  SourcesConfig  `yaml:"sources"`
	Storage  StorageConfig  `yaml:"storage"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Draft    DraftConfig    `yaml:"draft"`
	Publish  PublishConfig  `yaml:"publish"`
	Notify   NotifyConfig   `yaml:"notify"`
	Log      LogConfig      `yaml:"log"`
}

type SourcesConfig struct {
	Social SocialConfig `yaml:"social"`
	Web    WebConfig    `yaml:"web"`
	Feeds  []string     `yaml:"feeds"`
}

type SocialConfig struct {
	Accounts  []string `yaml:"accounts"`
	APIBase   string   `yaml:"api_base"`
	APIKeyEnv string   `yaml:"api_key_env"`
	Lookback  Duration `yaml:"lookback"`

	// Resolved from env var at load time.
	APIKey string `yaml:"-"`
}

type WebConfig struct {
	Pages     []string `yaml:"pages"`
	APIBase   string   `yaml:"api_base"`
	APIKeyEnv string   `yaml:"api_key_env"`

	// Resolved from env var at load time.
	APIKey string `yaml:"-"`
}

type StorageConfig struct {
	Path string `yaml:"path"`
}

type ScheduleConfig struct {
	Timezone string `yaml:"timezone"`
	Social   string `yaml:"social"`
	Daily    string `yaml:"daily"`
}

type DraftConfig struct {
	Mode string    `yaml:"mode"`
	LLM  LLMConfig `yaml:"llm"`
}

type LLMConfig struct {
	Endpoint  string `yaml:"endpoint"`
	Model     string `yaml:"model"`
	APIKeyEnv string `yaml:"api_key_env"`

	// Resolved from env var at load time.
	APIKey string `yaml:"-"`
}

type PublishConfig struct {
	APIBase      string `yaml:"api_base"`
	AppIDEnv     string `yaml:"app_id_env"`
	AppSecretEnv string `yaml:"app_secret_env"`
	TitlePrefix  string `yaml:"title_prefix"`
	Author       string `yaml:"author"`
	ThumbMediaID string `yaml:"thumb_media_id"`
	DigestLength int    `yaml:"digest_length"`

	// Resolved from env vars at load time.
	AppID     string `yaml:"-"`
	AppSecret string `yaml:"-"`
}

type NotifyConfig struct {
	APIBase string `yaml:"api_base"`
	KeyEnv  string `yaml:"key_env"`

	// Resolved from env var at load time.
	Key string `yaml:"-"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads config.yaml from dir, applies defaults, resolves env vars, and validates.
func Load(dir string) (*Config, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("config dir is required")
	}

	path := filepath.Join(dir, DefaultConfigFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyDefaults(&cfg)
	resolveEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Sources.Social.APIBase == "" {
		cfg.Sources.Social.APIBase = DefaultSocialAPIBase
	}
	if cfg.Sources.Social.Lookback.Duration == 0 {
		cfg.Sources.Social.Lookback.Duration = DefaultLookback
	}
	if cfg.Sources.Web.APIBase == "" {
		cfg.Sources.Web.APIBase = DefaultScrapeAPIBase
	}
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = DefaultStoragePath
	}
	if cfg.Schedule.Timezone == "" {
		cfg.Schedule.Timezone = DefaultTimezone
	}
	if cfg.Schedule.Social == "" {
		cfg.Schedule.Social = DefaultSocialSchedule
	}
	if cfg.Schedule.Daily == "" {
		cfg.Schedule.Daily = DefaultDailySchedule
	}
	if cfg.Draft.Mode == "" {
		cfg.Draft.Mode = DefaultDraftMode
	}
	if cfg.Draft.LLM.Endpoint == "" {
		cfg.Draft.LLM.Endpoint = DefaultLLMEndpoint
	}
	if cfg.Draft.LLM.Model == "" {
		cfg.Draft.LLM.Model = DefaultLLMModel
	}
	if cfg.Publish.APIBase == "" {
		cfg.Publish.APIBase = DefaultPublishAPI
	}
	if cfg.Publish.TitlePrefix == "" {
		cfg.Publish.TitlePrefix = DefaultTitlePrefix
	}
	if cfg.Publish.DigestLength == 0 {
		cfg.Publish.DigestLength = DefaultDigestLength
	}
	if cfg.Notify.APIBase == "" {
		cfg.Notify.APIBase = DefaultNotifyAPI
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
}

func resolveEnv(cfg *Config) {
	if cfg.Sources.Social.APIKeyEnv != "" {
		cfg.Sources.Social.APIKey = os.Getenv(cfg.Sources.Social.APIKeyEnv)
	}
	if cfg.Sources.Web.APIKeyEnv != "" {
		cfg.Sources.Web.APIKey = os.Getenv(cfg.Sources.Web.APIKeyEnv)
	}
	if cfg.Draft.LLM.APIKeyEnv != "" {
		cfg.Draft.LLM.APIKey = os.Getenv(cfg.Draft.LLM.APIKeyEnv)
	}
	if cfg.Publish.AppIDEnv != "" {
		cfg.Publish.AppID = os.Getenv(cfg.Publish.AppIDEnv)
	}
	if cfg.Publish.AppSecretEnv != "" {
		cfg.Publish.AppSecret = os.Getenv(cfg.Publish.AppSecretEnv)
	}
	if cfg.Notify.KeyEnv != "" {
		cfg.Notify.Key = os.Getenv(cfg.Notify.KeyEnv)
	}
}

func validate(cfg *Config) error {
	hasSocial := len(cfg.Sources.Social.Accounts) > 0
	hasWeb := len(cfg.Sources.Web.Pages) > 0
	hasFeeds := len(cfg.Sources.Feeds) > 0
	if !hasSocial && !hasWeb && !hasFeeds {
		return errors.New("sources: at least one source must be configured")
	}

	if _, err := time.LoadLocation(cfg.Schedule.Timezone); err != nil {
		return fmt.Errorf("schedule.timezone: %w", err)
	}
	if _, err := cron.ParseStandard(cfg.Schedule.Social); err != nil {
		return fmt.Errorf("schedule.social: %w", err)
	}
	if _, err := cron.ParseStandard(cfg.Schedule.Daily); err != nil {
		return fmt.Errorf("schedule.daily: %w", err)
	}

	switch cfg.Draft.Mode {
	case "llm", "passthrough":
		// valid
	default:
		return fmt.Errorf("draft.mode: unknown mode %q (want llm or passthrough)", cfg.Draft.Mode)
	}

	return nil
}

// Location returns the configured timezone. Validation guarantees it parses.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Schedule.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
