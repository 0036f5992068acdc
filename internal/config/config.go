package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Logger     LoggerConfig
	Gemini     GeminiConfig
	Transcript TranscriptConfig
	Quiz       QuizConfig
	Redis      RedisConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type LoggerConfig struct {
	Level string
	Env   string
}

type GeminiConfig struct {
	APIKey      string
	Model       string
	Temperature float64
	Timeout     time.Duration
}

type TranscriptConfig struct {
	PrimaryLanguage  string
	FallbackLanguage string
	Timeout          time.Duration
	ProxyURL         string
	ProxyUsername    string
	ProxyPassword    string
}

type QuizConfig struct {
	DefaultNumQuestions int
	MaxNumQuestions     int
	CacheTTL            time.Duration
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

func setDefaults() {
	viper.SetDefault("server.port", 5000)
	viper.SetDefault("server.read_timeout", 20)
	viper.SetDefault("server.write_timeout", 20)
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.env", "development")
	viper.SetDefault("gemini.model", "gemini-2.0-flash")
	viper.SetDefault("gemini.temperature", 0.2)
	viper.SetDefault("gemini.timeout", 60)
	viper.SetDefault("transcript.primary_language", "en")
	viper.SetDefault("transcript.fallback_language", "hi")
	viper.SetDefault("transcript.timeout", 20)
	viper.SetDefault("quiz.default_num_questions", 10)
	viper.SetDefault("quiz.max_num_questions", 20)
	viper.SetDefault("quiz.cache_ttl", 3600)
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	setDefaults()
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// Config file is optional; env vars and defaults cover everything.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	config := &Config{
		Server: ServerConfig{
			Port:         viper.GetInt("server.port"),
			ReadTimeout:  viper.GetDuration("server.read_timeout") * time.Second,
			WriteTimeout: viper.GetDuration("server.write_timeout") * time.Second,
		},
		Logger: LoggerConfig{
			Level: viper.GetString("logger.level"),
			Env:   viper.GetString("logger.env"),
		},
		Gemini: GeminiConfig{
			APIKey:      viper.GetString("gemini.api_key"),
			Model:       viper.GetString("gemini.model"),
			Temperature: viper.GetFloat64("gemini.temperature"),
			Timeout:     viper.GetDuration("gemini.timeout") * time.Second,
		},
		Transcript: TranscriptConfig{
			PrimaryLanguage:  viper.GetString("transcript.primary_language"),
			FallbackLanguage: viper.GetString("transcript.fallback_language"),
			Timeout:          viper.GetDuration("transcript.timeout") * time.Second,
			ProxyURL:         viper.GetString("transcript.proxy_url"),
			ProxyUsername:    viper.GetString("transcript.proxy_username"),
			ProxyPassword:    viper.GetString("transcript.proxy_password"),
		},
		Quiz: QuizConfig{
			DefaultNumQuestions: viper.GetInt("quiz.default_num_questions"),
			MaxNumQuestions:     viper.GetInt("quiz.max_num_questions"),
			CacheTTL:            viper.GetDuration("quiz.cache_ttl") * time.Second,
		},
		Redis: RedisConfig{
			Address:  viper.GetString("redis.address"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
	}

	// Override with environment variables if set
	if port := os.Getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT: %w", err)
		}
		config.Server.Port = p
	}
	if apiKey := os.Getenv("GOOGLE_API_KEY"); apiKey != "" {
		config.Gemini.APIKey = apiKey
	}
	if model := os.Getenv("GEMINI_MODEL"); model != "" {
		config.Gemini.Model = model
	}
	if env := os.Getenv("ENV"); env != "" {
		config.Logger.Env = env
	}
	if redisAddress := os.Getenv("REDIS_ADDRESS"); redisAddress != "" {
		config.Redis.Address = redisAddress
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		config.Redis.Password = redisPassword
	}
	if proxyURL := os.Getenv("TRANSCRIPT_PROXY_URL"); proxyURL != "" {
		config.Transcript.ProxyURL = proxyURL
	}
	if proxyUser := os.Getenv("TRANSCRIPT_PROXY_USERNAME"); proxyUser != "" {
		config.Transcript.ProxyUsername = proxyUser
	}
	if proxyPassword := os.Getenv("TRANSCRIPT_PROXY_PASSWORD"); proxyPassword != "" {
		config.Transcript.ProxyPassword = proxyPassword
	}

	if config.Gemini.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is not configured (set GOOGLE_API_KEY or gemini.api_key)")
	}

	return config, nil
}
