package config

import (
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Auth        AuthConfig        `mapstructure:"auth"`
	Log         LogConfig         `mapstructure:"log"`
	LLM         LLMConfig         `mapstructure:"llm"`
	Ollama      OllamaConfig      `mapstructure:"ollama"`
	OpenAI      OpenAIConfig      `mapstructure:"openai"`
	Coach       CoachConfig       `mapstructure:"coach"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Tts         TtsConfig         `mapstructure:"tts"`
	Progression ProgressionConfig `mapstructure:"progression"`
}

type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"` // "sqlite3" (mattn) or "sqlite" (modernc)
	Path   string `mapstructure:"path"`
}

type AuthConfig struct {
	SessionSecret string `mapstructure:"session_secret"`
	JWTSecret     string `mapstructure:"jwt_secret"`
	TokenTTLHours int    `mapstructure:"token_ttl_hours"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	Path       string `mapstructure:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// LLM provider selection
type LLMConfig struct {
	Provider string `mapstructure:"provider"` // "ollama" or "openai"
}

// OpenAI-compatible gateway config
type OpenAIConfig struct {
	APIKey    string `mapstructure:"api_key"`
	Model     string `mapstructure:"model"`
	BaseURL   string `mapstructure:"base_url"`   // Optional, defaults to OpenAI API
	MaxTokens int    `mapstructure:"max_tokens"` // Optional, defaults to model's max
	Timeout   int    `mapstructure:"timeout"`
}

type OllamaConfig struct {
	Host    string `mapstructure:"host"`
	Model   string `mapstructure:"model"`
	Timeout int    `mapstructure:"timeout"` // seconds
}

type CoachConfig struct {
	Locale            string `mapstructure:"locale"` // "th" or "en"
	RequestsPerMinute int    `mapstructure:"requests_per_minute"`
	BriefingCacheTTL  int    `mapstructure:"briefing_cache_ttl"` // minutes, 0 disables
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"` // empty disables the cache
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type TtsConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	Voice           string `mapstructure:"voice"`
	CredentialsFile string `mapstructure:"credentials_file"`
}

type ProgressionConfig struct {
	// LevelThresholds[i] is the cumulative XP needed for level i+1.
	LevelThresholds []int  `mapstructure:"level_thresholds"`
	Timezone        string `mapstructure:"timezone"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000", "http://localhost:8080"})

	v.SetDefault("database.driver", "sqlite3")
	v.SetDefault("database.path", "./studyquest.db")

	v.SetDefault("auth.session_secret", "your-secret-key-change-this-in-production")
	v.SetDefault("auth.jwt_secret", "your-jwt-secret-change-this-in-production")
	v.SetDefault("auth.token_ttl_hours", 72)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 7)

	v.SetDefault("llm.provider", "openai")

	v.SetDefault("openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.timeout", 30)
	v.SetDefault("openai.max_tokens", 1000)

	v.SetDefault("ollama.host", "http://localhost:11434")
	v.SetDefault("ollama.model", "llama3.2")
	v.SetDefault("ollama.timeout", 50)

	v.SetDefault("coach.locale", "th")
	v.SetDefault("coach.requests_per_minute", 10)
	v.SetDefault("coach.briefing_cache_ttl", 60)

	v.SetDefault("tts.enabled", false)
	v.SetDefault("tts.voice", "th-TH-Standard-A")

	v.SetDefault("progression.level_thresholds", []int{0, 100, 250, 500, 1000, 2000, 3500, 5500, 8000, 11000})
	v.SetDefault("progression.timezone", "Local")
}

// Load reads config.yaml (and an optional config.local.yaml on top) from the
// working directory or ./config, then applies STUDYQUEST_* environment overrides.
func Load() (*Config, error) {
	return LoadFrom(viper.New(), ".", "./config")
}

func LoadFrom(v *viper.Viper, paths ...string) (*Config, error) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	setDefaults(v)

	v.BindEnv("openai.api_key", "STUDYQUEST_OPENAI_API_KEY", "OPENAI_API_KEY")
	v.BindEnv("openai.model", "OPENAI_MODEL")
	v.BindEnv("openai.base_url", "OPENAI_BASE_URL")
	v.BindEnv("llm.provider", "LLM_PROVIDER")
	v.BindEnv("server.port", "PORT")

	v.SetEnvPrefix("STUDYQUEST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		// Config file not found, use defaults
	} else {
		// Local overrides (ignored by git)
		v.SetConfigName("config.local")
		if err := v.MergeInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, err
			}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
