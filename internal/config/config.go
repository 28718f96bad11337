package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Store     StoreConfig     `mapstructure:"store"`
	LLM       LLMConfig       `mapstructure:"llm"`
	SMTP      SMTPConfig      `mapstructure:"smtp"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// StoreConfig points at the SQLite file holding the appointment table.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

type LLMConfig struct {
	DefaultProvider string       `mapstructure:"default_provider"`
	SendFullHistory bool         `mapstructure:"send_full_history"`
	Gemini          GeminiConfig `mapstructure:"gemini"`
	OpenAI          OpenAIConfig `mapstructure:"openai"`
	Ollama          OllamaConfig `mapstructure:"ollama"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

type OllamaConfig struct {
	Host         string `mapstructure:"host"`
	DefaultModel string `mapstructure:"default_model"`
}

// SMTPConfig carries the mail account used for customer alerts. Address and
// AppPassword are optional; when either is empty the late-alert feature is
// disabled rather than failing at startup.
type SMTPConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	Address     string `mapstructure:"address"`
	AppPassword string `mapstructure:"app_password"`
	FromName    string `mapstructure:"from_name"`
}

// Configured reports whether the mail account credentials are present.
func (c SMTPConfig) Configured() bool {
	return c.Address != "" && c.AppPassword != ""
}

// DashboardConfig gates the technician view. Password is compared verbatim;
// PasswordHash, when set, takes precedence and is checked with bcrypt.
type DashboardConfig struct {
	Password     string        `mapstructure:"password"`
	PasswordHash string        `mapstructure:"password_hash"`
	JWTSecret    string        `mapstructure:"jwt_secret"`
	TokenTTL     time.Duration `mapstructure:"token_ttl"`
}

// Configured reports whether technician login is available.
func (c DashboardConfig) Configured() bool {
	return c.Password != "" || c.PasswordHash != ""
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables
func Load() (*Config, error) {
	v := viper.New()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./configs/config.yaml"
	}

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if _, statErr := os.Stat(configPath); !os.IsNotExist(statErr) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
		// Config file not found, use defaults and env vars
	}

	v.AutomaticEnv()
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Server
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.request_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "10s")

	// Store
	v.SetDefault("store.path", "./data/appointments.db")

	// LLM
	v.SetDefault("llm.default_provider", "gemini")
	v.SetDefault("llm.send_full_history", true)
	v.SetDefault("llm.gemini.model", "gemini-2.5-flash")
	v.SetDefault("llm.openai.model", "gpt-4o-mini")
	v.SetDefault("llm.ollama.default_model", "llama3")

	// SMTP
	v.SetDefault("smtp.host", "smtp.gmail.com")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.from_name", "Field Service Team")

	// Dashboard
	v.SetDefault("dashboard.token_ttl", "8h")

	// Logging
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

func bindEnvVars(v *viper.Viper) {
	// Store
	v.BindEnv("store.path", "STORE_PATH")

	// LLM API keys
	v.BindEnv("llm.gemini.api_key", "GEMINI_API_KEY")
	v.BindEnv("llm.openai.api_key", "OPENAI_API_KEY")
	v.BindEnv("llm.ollama.host", "OLLAMA_HOST")

	// Mail account (Gmail address + app password in the original deployment)
	v.BindEnv("smtp.address", "SMTP_ADDRESS")
	v.BindEnv("smtp.app_password", "SMTP_APP_PASSWORD")

	// Technician dashboard gate
	v.BindEnv("dashboard.password", "TECH_PASSWORD")
	v.BindEnv("dashboard.password_hash", "TECH_PASSWORD_HASH")
	v.BindEnv("dashboard.jwt_secret", "JWT_SECRET")
}
