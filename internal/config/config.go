package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"textaug/internal/registry"
)

type Config struct {
	Server    ServerConfig  `yaml:"server"`
	Redis     RedisConfig   `yaml:"redis"`
	Log       LogConfig     `yaml:"log"`
	Augmenter registry.Spec `yaml:"augmenter"`
}

type ServerConfig struct {
	Addr string `yaml:"addr" validate:"required"`
	// MaxThreads caps num_thread of a single request.
	MaxThreads int `yaml:"max_threads" validate:"gte=1"`
	// MaxItems caps n and the list length of a single request.
	MaxItems int `yaml:"max_items" validate:"gte=1"`
}

// RedisConfig configures the word store. An empty Addr disables it.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db" validate:"gte=0"`
}

type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=json text"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{Addr: ":8080", MaxThreads: 16, MaxItems: 10000},
		Log:    LogConfig{Level: "info", Format: "json"},
		Augmenter: registry.Spec{
			Type: "keyboard",
			Lang: "en",
		},
	}
}

var validate = validator.New()

// Load reads the YAML file at path on top of Default, applies environment
// overrides and validates the result. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read the config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse the config file %s: %w", path, err)
		}
	}
	applyEnv(&cfg)
	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.Augmenter.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid augmenter config: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Server.Addr = getenv("HTTP_ADDR", cfg.Server.Addr)
	cfg.Redis.Addr = getenv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getenv("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = getEnvInt("REDIS_DB", cfg.Redis.DB)
	cfg.Log.Level = strings.ToLower(getenv("LOG_LEVEL", cfg.Log.Level))
	cfg.Log.Format = strings.ToLower(getenv("LOG_FORMAT", cfg.Log.Format))
	cfg.Augmenter.Lang = getenv("TEXTAUG_LANG", cfg.Augmenter.Lang)
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if i, err := strconv.Atoi(v); err == nil {
		return i
	}
	return def
}

// NewLogger builds the process logger described by c.
func (c LogConfig) NewLogger(w io.Writer) *slog.Logger {
	var level slog.Level
	switch c.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}
