package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/okhotnikdev/mediagate/internal/shared/errors"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

type Config struct {
	TelegramBotToken string `koanf:"telegram_bot_token"`
	AdminsFile       string `koanf:"admins_file"`
	DatabasePath     string `koanf:"database_path"`
	MediaDir         string `koanf:"media_dir"`
	HTTPPort         string `koanf:"http_port"`

	ListingBaseURL string `koanf:"listing_base_url"`
	UserAgent      string `koanf:"user_agent"`

	CheckIntervalMinutes  int `koanf:"check_interval_minutes"`
	MaxItemsPerCheck      int `koanf:"max_items_per_check"`
	MaxConcurrentResolves int `koanf:"max_concurrent_resolves"`

	RequestTimeoutSeconds      int `koanf:"request_timeout_seconds"`
	VideoTimeoutSeconds        int `koanf:"video_timeout_seconds"`
	AudioTimeoutSeconds        int `koanf:"audio_timeout_seconds"`
	FFmpegThreads              int `koanf:"ffmpeg_threads"`
	MaxReencodeDurationSeconds int `koanf:"max_reencode_duration_seconds"`

	RetentionHours       int `koanf:"retention_hours"`
	SweepIntervalMinutes int `koanf:"sweep_interval_minutes"`

	ConstrainedMode bool   `koanf:"constrained_mode"`
	AppEnv          AppEnv `koanf:"app_env"`
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Try to load config file from various formats
	configFiles := []string{
		"config.yaml",
		"config.yml",
		"config.json",
		"config.toml",
	}

	// Use lo.Find to find the first existing config file
	configFile, found := lo.Find(configFiles, func(file string) bool {
		_, err := os.Stat(file)
		return err == nil
	})

	if found {
		var parser koanf.Parser
		ext := filepath.Ext(configFile)

		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		case ".toml":
			parser = toml.Parser()
		default:
			return nil, oops.Errorf("unsupported config file extension: %s", ext)
		}

		if err := k.Load(file.Provider(configFile), parser); err != nil {
			return nil, oops.With("config_file", configFile).Wrap(err)
		}
	}

	// Load environment variables (they override config file values)
	if err := k.Load(env.Provider("", ".", func(s string) string {
		return strings.ToLower(s)
	}), nil); err != nil {
		return nil, oops.With("context", "loading environment variables").Wrap(err)
	}

	// Constrained mode raises external-call timeouts and lowers work
	// ceilings. It only changes defaults; explicit settings always win.
	constrained := k.Bool("constrained_mode")

	// Set defaults
	if !k.Exists("admins_file") {
		k.Set("admins_file", "./admins.txt")
	}
	if !k.Exists("database_path") {
		k.Set("database_path", "./data/mediagate.db")
	}
	if !k.Exists("media_dir") {
		k.Set("media_dir", "./data/media")
	}
	if !k.Exists("http_port") {
		k.Set("http_port", "8085")
	}
	if !k.Exists("listing_base_url") {
		k.Set("listing_base_url", "https://www.reddit.com")
	}
	if !k.Exists("user_agent") {
		k.Set("user_agent", "mediagate/1.0")
	}
	if !k.Exists("check_interval_minutes") {
		k.Set("check_interval_minutes", 5)
	}
	if !k.Exists("max_items_per_check") {
		k.Set("max_items_per_check", 10)
	}
	if !k.Exists("max_concurrent_resolves") {
		k.Set("max_concurrent_resolves", lo.Ternary(constrained, 1, 2))
	}
	if !k.Exists("request_timeout_seconds") {
		k.Set("request_timeout_seconds", lo.Ternary(constrained, 45, 30))
	}
	if !k.Exists("video_timeout_seconds") {
		k.Set("video_timeout_seconds", lo.Ternary(constrained, 240, 120))
	}
	if !k.Exists("audio_timeout_seconds") {
		k.Set("audio_timeout_seconds", lo.Ternary(constrained, 60, 30))
	}
	if !k.Exists("ffmpeg_threads") {
		k.Set("ffmpeg_threads", lo.Ternary(constrained, 2, 4))
	}
	if !k.Exists("max_reencode_duration_seconds") {
		k.Set("max_reencode_duration_seconds", lo.Ternary(constrained, 300, 600))
	}
	if !k.Exists("retention_hours") {
		k.Set("retention_hours", 24)
	}
	if !k.Exists("sweep_interval_minutes") {
		k.Set("sweep_interval_minutes", 60)
	}
	if !k.Exists("app_env") {
		k.Set("app_env", "production")
	}

	// Unmarshal into struct
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.With("context", "unmarshaling config").Wrap(err)
	}

	// Parse AppEnv from string if needed
	if appEnvStr := k.String("app_env"); appEnvStr != "" {
		if env, err := ParseAppEnv(appEnvStr); err == nil {
			cfg.AppEnv = env
		} else {
			cfg.AppEnv = AppEnvProduction
		}
	} else {
		cfg.AppEnv = AppEnvProduction
	}

	// Validate required fields
	if cfg.TelegramBotToken == "" {
		return nil, errors.ErrMissingBotToken
	}

	return &cfg, nil
}
