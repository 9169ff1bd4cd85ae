// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
	CORS    CORSConfig    `mapstructure:"cors"`
	LLM     LLMConfig     `mapstructure:"llm"`
	Quiz    QuizConfig    `mapstructure:"quiz"`
	Session SessionConfig `mapstructure:"session"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// LLMConfig はチャット補完APIへの接続設定です。APIキーは必須です。
type LLMConfig struct {
	APIKey      string        `mapstructure:"api_key" validate:"required"`
	BaseURL     string        `mapstructure:"base_url" validate:"required,url"`
	Model       string        `mapstructure:"model" validate:"required"`
	Temperature float32       `mapstructure:"temperature" validate:"gte=0,lte=2"`
	Timeout     time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

// QuizConfig はプロンプトの組み立て方です (出題数・テーマ・対象レベル)。
type QuizConfig struct {
	MinQuestions int      `mapstructure:"min_questions" validate:"min=1"`
	MaxQuestions int      `mapstructure:"max_questions" validate:"gtefield=MinQuestions"`
	Topics       []string `mapstructure:"topics" validate:"min=1"`
	Level        string   `mapstructure:"level"`
	Audience     string   `mapstructure:"audience"`
}

type SessionConfig struct {
	CookieName    string        `mapstructure:"cookie_name" validate:"required"`
	CookieSecure  bool          `mapstructure:"cookie_secure"`
	IdleTTL       time.Duration `mapstructure:"idle_ttl" validate:"gt=0"`
	SweepInterval time.Duration `mapstructure:"sweep_interval" validate:"gt=0"`
}

// ErrMissingAPIKey はAPIキーが設定されていないことを表します。起動時の致命的エラーです。
var ErrMissingAPIKey = errors.New("llm api key is not configured (set LLM_API_KEY)")

var Cfg Config

// LoadConfig は path 配下の config.yaml と環境変数から設定を読み込み、Cfg に格納します。
func LoadConfig(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	Cfg = *cfg
	return nil
}

// Load は設定を読み込んで検証済みの Config を返します。
func Load(path string) (*Config, error) {
	// .env は任意 (開発用)。既存の環境変数は上書きしない
	for _, envFile := range []string{filepath.Join(path, ".env"), ".env"} {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Printf("Warning: failed to load %s: %s", envFile, err)
		}
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(path)
	v.AddConfigPath(".")

	v.SetEnvPrefix("APP") // 例: APP_SERVER_PORT
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv(append([]string{"llm.api_key"}, apiKeyEnvVars...)...); err != nil {
		return nil, fmt.Errorf("bind api key env: %w", err)
	}
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			log.Println("Warning: Config file not found. Using default settings and environment variables.")
		} else {
			log.Printf("Error reading config file: %s\n", err)
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Printf("Error unmarshalling config: %s\n", err)
		return nil, err
	}
	normalize(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	log.Println("Config loaded successfully")
	log.Printf("Server Port: %s", cfg.Server.Port)
	log.Printf("LLM: %s (model=%s)", cfg.LLM.BaseURL, cfg.LLM.Model)
	log.Printf("Questions per quiz: %d-%d", cfg.Quiz.MinQuestions, cfg.Quiz.MaxQuestions)
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", DefaultServerPort)
	v.SetDefault("log.level", DefaultLogLevel)

	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Content-Type"})
	v.SetDefault("cors.allow_credentials", false)
	v.SetDefault("cors.max_age", 300)

	v.SetDefault("llm.base_url", DefaultLLMBaseURL)
	v.SetDefault("llm.model", DefaultLLMModel)
	v.SetDefault("llm.temperature", DefaultLLMTemperature)
	v.SetDefault("llm.timeout", DefaultLLMTimeout)

	v.SetDefault("quiz.min_questions", DefaultMinQuestions)
	v.SetDefault("quiz.max_questions", DefaultMaxQuestions)
	v.SetDefault("quiz.topics", DefaultTopics)
	v.SetDefault("quiz.level", DefaultQuizLevel)
	v.SetDefault("quiz.audience", DefaultQuizAudience)

	v.SetDefault("session.cookie_name", DefaultSessionCookieName)
	v.SetDefault("session.idle_ttl", DefaultSessionIdleTTL)
	v.SetDefault("session.sweep_interval", DefaultSessionSweepInterval)
}

// normalize は値の表記揺れを整えます。
func normalize(cfg *Config) {
	cfg.LLM.APIKey = strings.TrimSpace(cfg.LLM.APIKey)
	cfg.LLM.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.LLM.BaseURL), "/")

	if cfg.Server.Port != "" && !strings.Contains(cfg.Server.Port, ":") {
		cfg.Server.Port = ":" + cfg.Server.Port
	}

	// 空要素・重複を除く
	cfg.Quiz.Topics = lo.Uniq(lo.Compact(lo.Map(cfg.Quiz.Topics, func(topic string, _ int) string {
		return strings.TrimSpace(topic)
	})))
}

var configValidator = validator.New()

func validate(cfg *Config) error {
	if cfg.LLM.APIKey == "" {
		return ErrMissingAPIKey
	}
	if err := configValidator.Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
