package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig
	Logger      LoggerConfig
	LLM         LLMConfig
	Store       StoreConfig
	Appearance  AppearanceConfig
	Preferences PreferencesConfig
	Practice    PracticeConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	BodyLimit    int
}

type LoggerConfig struct {
	Level string
	Env   string
}

// LLMConfig selects the generative backend used for classification and question generation.
type LLMConfig struct {
	Provider string // "gemini" or "ollama"
	Gemini   GeminiConfig
	Ollama   OllamaConfig
	Timeout  time.Duration
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type OllamaConfig struct {
	ServerURL string
	Model     string
}

// StoreConfig selects where the library, history and preferences are persisted.
type StoreConfig struct {
	Backend   string // "file", "redis" or "sql"
	KeyPrefix string
	File      FileStoreConfig
	Redis     RedisConfig
	SQL       SQLConfig
}

type FileStoreConfig struct {
	Dir string
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

type SQLConfig struct {
	Driver        string
	DSN           string
	MigrationsDir string
}

// AppearanceConfig selects where the OS dark-mode signal comes from.
type AppearanceConfig struct {
	Source   string // "manual" or "file"
	FilePath string
}

type PreferencesConfig struct {
	DefaultRegion string
}

type PracticeConfig struct {
	DefaultQuestionCount int
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.read_timeout", 20)
	v.SetDefault("server.write_timeout", 20)
	v.SetDefault("server.body_limit", 20*1024*1024)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.env", "development")

	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.gemini.model", "gemini-2.0-flash")
	v.SetDefault("llm.ollama.server_url", "http://localhost:11434")
	v.SetDefault("llm.ollama.model", "qwen3:0.6b")
	v.SetDefault("llm.timeout", 60)

	v.SetDefault("store.backend", "file")
	v.SetDefault("store.key_prefix", "syllabus-buddy")
	v.SetDefault("store.file.dir", "./data")
	v.SetDefault("store.redis.address", "localhost:6379")
	v.SetDefault("store.redis.db", 0)
	v.SetDefault("store.sql.driver", "oracle")
	v.SetDefault("store.sql.migrations_dir", "database/migrations")

	v.SetDefault("appearance.source", "manual")

	v.SetDefault("preferences.default_region", "United States")
	v.SetDefault("practice.default_question_count", 10)
}

// LoadConfig reads config.yaml (when present), applies defaults and SYLLABUS_* environment overrides.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Add config paths based on environment
	if os.Getenv("ENV") == "test" {
		v.AddConfigPath("../../config")
		v.AddConfigPath("../../")
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("SYLLABUS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if configFile := v.ConfigFileUsed(); configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Printf("Using config file: %s\n", absPath)
	}

	config := fromViper(v)

	// Well-known provider variables win over the namespaced ones.
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		config.LLM.Gemini.APIKey = apiKey
	}
	if redisAddress := os.Getenv("REDIS_ADDRESS"); redisAddress != "" {
		config.Store.Redis.Address = redisAddress
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		config.Store.Redis.Password = redisPassword
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Server: ServerConfig{
			Port:         v.GetInt("server.port"),
			ReadTimeout:  time.Duration(v.GetInt("server.read_timeout")) * time.Second,
			WriteTimeout: time.Duration(v.GetInt("server.write_timeout")) * time.Second,
			BodyLimit:    v.GetInt("server.body_limit"),
		},
		Logger: LoggerConfig{
			Level: v.GetString("logger.level"),
			Env:   v.GetString("logger.env"),
		},
		LLM: LLMConfig{
			Provider: strings.ToLower(v.GetString("llm.provider")),
			Gemini: GeminiConfig{
				APIKey: v.GetString("llm.gemini.api_key"),
				Model:  v.GetString("llm.gemini.model"),
			},
			Ollama: OllamaConfig{
				ServerURL: v.GetString("llm.ollama.server_url"),
				Model:     v.GetString("llm.ollama.model"),
			},
			Timeout: time.Duration(v.GetInt("llm.timeout")) * time.Second,
		},
		Store: StoreConfig{
			Backend:   strings.ToLower(v.GetString("store.backend")),
			KeyPrefix: v.GetString("store.key_prefix"),
			File: FileStoreConfig{
				Dir: v.GetString("store.file.dir"),
			},
			Redis: RedisConfig{
				Address:  v.GetString("store.redis.address"),
				Password: v.GetString("store.redis.password"),
				DB:       v.GetInt("store.redis.db"),
			},
			SQL: SQLConfig{
				Driver:        v.GetString("store.sql.driver"),
				DSN:           v.GetString("store.sql.dsn"),
				MigrationsDir: v.GetString("store.sql.migrations_dir"),
			},
		},
		Appearance: AppearanceConfig{
			Source:   strings.ToLower(v.GetString("appearance.source")),
			FilePath: v.GetString("appearance.file_path"),
		},
		Preferences: PreferencesConfig{
			DefaultRegion: v.GetString("preferences.default_region"),
		},
		Practice: PracticeConfig{
			DefaultQuestionCount: v.GetInt("practice.default_question_count"),
		},
	}
}

// Validate checks that the selected backends are known and configured.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case "gemini", "ollama":
	default:
		return fmt.Errorf("unsupported llm provider %q (want gemini or ollama)", c.LLM.Provider)
	}
	switch c.Store.Backend {
	case "file":
		if c.Store.File.Dir == "" {
			return fmt.Errorf("store.file.dir is required for the file backend")
		}
	case "redis":
		if c.Store.Redis.Address == "" {
			return fmt.Errorf("store.redis.address is required for the redis backend")
		}
	case "sql":
		if c.Store.SQL.DSN == "" {
			return fmt.Errorf("store.sql.dsn is required for the sql backend")
		}
	default:
		return fmt.Errorf("unsupported store backend %q (want file, redis or sql)", c.Store.Backend)
	}
	switch c.Appearance.Source {
	case "manual":
	case "file":
		if c.Appearance.FilePath == "" {
			return fmt.Errorf("appearance.file_path is required for the file source")
		}
	default:
		return fmt.Errorf("unsupported appearance source %q (want manual or file)", c.Appearance.Source)
	}
	if c.Practice.DefaultQuestionCount <= 0 {
		return fmt.Errorf("practice.default_question_count must be positive")
	}
	return nil
}
