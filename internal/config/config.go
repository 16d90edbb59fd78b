package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Default values used when neither conf.yaml nor environment provide one
const (
	DefaultAPIBaseURL     = "http://localhost:8080/bvtc/api"
	DefaultAPITimeout     = 60 * time.Second
	DefaultPollInterval   = 2 * time.Second
	DefaultStreamMaxRetry = 2 * time.Minute
	DefaultLogLevel       = "info"
	DefaultLogPath        = "bvtc-desktop.log"
)

// Config carries deployment-level configuration: where the backend lives and
// how the client talks to it. Per-user UI preferences live in Settings.
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Upload  UploadConfig  `mapstructure:"upload"`
	Suggest SuggestConfig `mapstructure:"suggest"`
	Log     LogConfig     `mapstructure:"log"`
}

type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type UploadConfig struct {
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

type SuggestConfig struct {
	// MaxReconnect bounds how long the suggestion stream keeps trying to
	// re-establish a dropped connection before giving up
	MaxReconnect time.Duration `mapstructure:"max_reconnect"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	Path  string `mapstructure:"path"`
}

// Load reads configuration from conf.yaml (next to the binary), an optional
// .env file, and BVTC_-prefixed environment variables, in increasing order
// of precedence. Every key has a default, so a missing config file is fine.
func Load() (*Config, error) {
	// .env is a convenience for local runs; ignore when absent
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("conf")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetDefault("api.base_url", DefaultAPIBaseURL)
	v.SetDefault("api.timeout", DefaultAPITimeout)
	v.SetDefault("upload.poll_interval", DefaultPollInterval)
	v.SetDefault("suggest.max_reconnect", DefaultStreamMaxRetry)
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.path", DefaultLogPath)

	v.SetEnvPrefix("BVTC")
	v.AutomaticEnv()
	bindEnvVars(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	_ = v.BindEnv("api.base_url", "BVTC_API_BASE_URL")
	_ = v.BindEnv("api.timeout", "BVTC_API_TIMEOUT")
	_ = v.BindEnv("upload.poll_interval", "BVTC_POLL_INTERVAL")
	_ = v.BindEnv("suggest.max_reconnect", "BVTC_SUGGEST_MAX_RECONNECT")
	_ = v.BindEnv("log.level", "BVTC_LOG_LEVEL")
	_ = v.BindEnv("log.path", "BVTC_LOG_PATH")
}
