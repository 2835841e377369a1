// Package config loads application configuration from file and environment
// and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration. It is constructed once at
// process start and passed by pointer into each component's constructor.
type Config struct {
	Monday   MondayConfig   `yaml:"monday" mapstructure:"monday"`
	LLM      LLMConfig      `yaml:"llm" mapstructure:"llm"`
	Hunter   HunterConfig   `yaml:"hunter" mapstructure:"hunter"`
	SMTP     SMTPConfig     `yaml:"smtp" mapstructure:"smtp"`
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Pipeline PipelineConfig `yaml:"pipeline" mapstructure:"pipeline"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// MondayConfig holds CRM API credentials and the default board.
type MondayConfig struct {
	APIKey  string `yaml:"api_key" mapstructure:"api_key"`
	BoardID string `yaml:"board_id" mapstructure:"board_id"`
	APIURL  string `yaml:"api_url" mapstructure:"api_url"`
}

// LLMConfig selects and configures the chat-completion provider.
type LLMConfig struct {
	// Provider is "groq" (OpenAI-compatible HTTP) or "anthropic" (SDK).
	Provider string `yaml:"provider" mapstructure:"provider"`
	APIKey   string `yaml:"api_key" mapstructure:"api_key"`
	Model    string `yaml:"model" mapstructure:"model"`
	BaseURL  string `yaml:"base_url" mapstructure:"base_url"`
}

// HunterConfig holds contacts-API credentials.
type HunterConfig struct {
	APIKey  string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// SMTPConfig holds outbound email settings.
type SMTPConfig struct {
	Host       string `yaml:"host" mapstructure:"host"`
	Port       int    `yaml:"port" mapstructure:"port"`
	Address    string `yaml:"address" mapstructure:"address"`
	Password   string `yaml:"password" mapstructure:"password"`
	SenderName string `yaml:"sender_name" mapstructure:"sender_name"`
}

// StoreConfig configures the run-history backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// PipelineConfig holds pipeline defaults.
type PipelineConfig struct {
	DefaultCount   int    `yaml:"default_count" mapstructure:"default_count"`
	DefaultRegion  string `yaml:"default_region" mapstructure:"default_region"`
	EnrichmentMode string `yaml:"enrichment_mode" mapstructure:"enrichment_mode"`
	BoardName      string `yaml:"board_name" mapstructure:"board_name"`
}

// ServerConfig configures the dashboard API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from config.yaml and LEADGEN_-prefixed
// environment variables.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("LEADGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("monday.api_url", "https://api.monday.com/v2")
	v.SetDefault("llm.provider", "groq")
	v.SetDefault("llm.model", "llama-3.3-70b-versatile")
	v.SetDefault("llm.base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("hunter.base_url", "https://api.hunter.io/v2")
	v.SetDefault("smtp.host", "smtp.gmail.com")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.sender_name", "Lead Generator")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "leadgen.db")
	v.SetDefault("pipeline.default_count", 10)
	v.SetDefault("pipeline.default_region", "Winnipeg, Manitoba")
	v.SetDefault("pipeline.enrichment_mode", "hunter")
	v.SetDefault("pipeline.board_name", "AI Lead Generation")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Config file is optional; env vars may carry everything.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks that credentials required by the requested features are
// present. Missing keys fail fast at startup, never mid-pipeline.
func (c *Config) Validate(mode string, sendEmails bool) error {
	var missing []string
	if c.LLM.APIKey == "" {
		missing = append(missing, "llm.api_key")
	}
	if c.Monday.APIKey == "" {
		missing = append(missing, "monday.api_key")
	}
	if mode == "hunter" && c.Hunter.APIKey == "" {
		missing = append(missing, "hunter.api_key")
	}
	if sendEmails {
		if c.SMTP.Address == "" {
			missing = append(missing, "smtp.address")
		}
		if c.SMTP.Password == "" {
			missing = append(missing, "smtp.password")
		}
	}
	if len(missing) > 0 {
		return eris.Errorf("config: missing required settings: %s", strings.Join(missing, ", "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
