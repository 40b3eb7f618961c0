package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/samber/lo"
	"github.com/samber/oops"
	"github.com/sourcepaw/sourcebot/internal/shared/errors"
)

type Config struct {
	TelegramBotToken string `koanf:"telegram_bot_token"`
	TelegramAPIID    int    `koanf:"telegram_api_id"`
	TelegramAPIHash  string `koanf:"telegram_api_hash"`
	LookupBot        string `koanf:"lookup_bot"`
	BotPassword      string `koanf:"bot_password"`
	SessionPath      string `koanf:"session_path"`
	StoragePath      string `koanf:"storage_path"`
	HTTPPort         string `koanf:"http_port"`
	AppEnv           AppEnv `koanf:"app_env"`
}

func Load() (*Config, error) {
	// A .env file is optional; real environment variables win below.
	_ = godotenv.Load()

	k := koanf.New(".")

	// Try to load config file from various formats
	configFiles := []string{
		"config.yaml",
		"config.yml",
		"config.json",
		"config.toml",
	}

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

	// Set defaults
	if !k.Exists("lookup_bot") {
		k.Set("lookup_bot", "FindFurryPicBot")
	}
	if !k.Exists("storage_path") {
		k.Set("storage_path", "./data")
	}
	if !k.Exists("session_path") {
		k.Set("session_path", "./data/session.json")
	}
	if !k.Exists("http_port") {
		k.Set("http_port", "8080")
	}
	if !k.Exists("app_env") {
		k.Set("app_env", "production")
	}

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
	if cfg.TelegramAPIID == 0 || cfg.TelegramAPIHash == "" {
		return nil, errors.ErrMissingAPICredentials
	}
	if cfg.BotPassword == "" {
		return nil, errors.ErrMissingBotPassword
	}

	return &cfg, nil
}
