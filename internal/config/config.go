package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	MongoDB   MongoDBConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	LLM       LLMConfig
	Storage   StorageConfig
	Cache     CacheConfig
	Log       LogConfig
}

type ServerConfig struct {
	Port        string
	Host        string
	Environment string
	// TrustedProxies may set X-Forwarded-For; empty trusts none
	TrustedProxies []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

type MongoDBConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Addr returns host:port, or "" when Redis is not configured.
func (r RedisConfig) Addr() string {
	if r.Host == "" {
		return ""
	}
	return r.Host + ":" + r.Port
}

type RateLimitConfig struct {
	Enabled       bool
	UseRedis      bool
	RPS           float64
	Burst         int
	WindowSeconds int
}

// LLMConfig configures the OpenRouter-compatible gateway.
type LLMConfig struct {
	APIKey          string
	BaseURL         string
	AppURL          string
	AppTitle        string
	Timeout         time.Duration
	PageConcurrency int

	Vision          string
	FileAnalysis    string
	TextBackup      string
	Chat            string
	ChatBackup      string
	Proofread       string
	ProofreadBackup string
	Article         string
	ArticleBackup   string
}

// StorageConfig holds MinIO connection configuration
type StorageConfig struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	UseSSL     bool
	Bucket     string
	PresignTTL time.Duration
	MaxUpload  int64
}

type CacheConfig struct {
	AnalysisTTL time.Duration
}

type LogConfig struct {
	Level string
	File  string
}

// LoadConfig loads configuration from environment variables and .env file
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "3001")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_ENVIRONMENT", "development")
	v.SetDefault("MONGODB_DATABASE", "project_ruby")
	v.SetDefault("MONGODB_TIMEOUT", 10)
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("RATE_LIMIT_ENABLED", false)
	v.SetDefault("RATE_LIMIT_RPS", 5)
	v.SetDefault("RATE_LIMIT_BURST", 10)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)
	v.SetDefault("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1")
	v.SetDefault("APP_URL", "http://localhost:3000")
	v.SetDefault("APP_TITLE", "Project Ziio")
	v.SetDefault("LLM_TIMEOUT_SECONDS", 120)
	v.SetDefault("LLM_PAGE_CONCURRENCY", 2)
	v.SetDefault("MODEL_VISION", "meta-llama/llama-3.2-90b-vision-instruct:free")
	v.SetDefault("MODEL_FILE_ANALYSIS", "meta-llama/llama-3.1-405b-instruct:free")
	v.SetDefault("MODEL_TEXT_BACKUP", "meta-llama/llama-3.1-70b-instruct:free")
	v.SetDefault("MODEL_CHAT", "openchat/openchat-7b:free")
	v.SetDefault("MODEL_CHAT_BACKUP", "mistralai/mistral-7b-instruct:free")
	v.SetDefault("MODEL_PROOFREAD", "meta-llama/llama-3.2-3b-instruct:free")
	v.SetDefault("MODEL_PROOFREAD_BACKUP", "mistralai/mistral-7b-instruct:free")
	v.SetDefault("MODEL_ARTICLE", "meta-llama/llama-3.1-70b-instruct:free")
	v.SetDefault("MODEL_ARTICLE_BACKUP", "mistralai/mistral-7b-instruct:free")
	v.SetDefault("MINIO_BUCKET", "ziio-pages")
	v.SetDefault("MINIO_PRESIGN_MINUTES", 60)
	v.SetDefault("UPLOAD_MAX_BYTES", 10<<20)
	v.SetDefault("ANALYSIS_CACHE_TTL_MINUTES", 60)
	v.SetDefault("LOG_LEVEL", "info")

	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetString("SERVER_PORT"),
			Host:           v.GetString("SERVER_HOST"),
			Environment:    v.GetString("SERVER_ENVIRONMENT"),
			TrustedProxies: splitList(v.GetString("TRUSTED_PROXIES")),
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   5 * time.Minute, // streamed completions hold the connection open
		},
		MongoDB: MongoDBConfig{
			URI:      v.GetString("MONGODB_URI"),
			Database: v.GetString("MONGODB_DATABASE"),
			Timeout:  time.Duration(v.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		RateLimit: RateLimitConfig{
			Enabled:       v.GetBool("RATE_LIMIT_ENABLED"),
			UseRedis:      v.GetBool("RATE_LIMIT_USE_REDIS"),
			RPS:           v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         v.GetInt("RATE_LIMIT_BURST"),
			WindowSeconds: v.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
		LLM: LLMConfig{
			APIKey:          os.Getenv("OPENROUTER_API_KEY"),
			BaseURL:         v.GetString("OPENROUTER_BASE_URL"),
			AppURL:          v.GetString("APP_URL"),
			AppTitle:        v.GetString("APP_TITLE"),
			Timeout:         time.Duration(v.GetInt("LLM_TIMEOUT_SECONDS")) * time.Second,
			PageConcurrency: v.GetInt("LLM_PAGE_CONCURRENCY"),
			Vision:          v.GetString("MODEL_VISION"),
			FileAnalysis:    v.GetString("MODEL_FILE_ANALYSIS"),
			TextBackup:      v.GetString("MODEL_TEXT_BACKUP"),
			Chat:            v.GetString("MODEL_CHAT"),
			ChatBackup:      v.GetString("MODEL_CHAT_BACKUP"),
			Proofread:       v.GetString("MODEL_PROOFREAD"),
			ProofreadBackup: v.GetString("MODEL_PROOFREAD_BACKUP"),
			Article:         v.GetString("MODEL_ARTICLE"),
			ArticleBackup:   v.GetString("MODEL_ARTICLE_BACKUP"),
		},
		Storage: StorageConfig{
			Endpoint:   v.GetString("MINIO_ENDPOINT"),
			AccessKey:  v.GetString("MINIO_ACCESS_KEY"),
			SecretKey:  os.Getenv("MINIO_SECRET_KEY"),
			UseSSL:     v.GetBool("MINIO_USE_SSL"),
			Bucket:     v.GetString("MINIO_BUCKET"),
			PresignTTL: time.Duration(v.GetInt("MINIO_PRESIGN_MINUTES")) * time.Minute,
			MaxUpload:  v.GetInt64("UPLOAD_MAX_BYTES"),
		},
		Cache: CacheConfig{
			AnalysisTTL: time.Duration(v.GetInt("ANALYSIS_CACHE_TTL_MINUTES")) * time.Minute,
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
			File:  v.GetString("LOG_FILE"),
		},
	}

	if cfg.LLM.APIKey == "" {
		return nil, fmt.Errorf("missing OPENROUTER_API_KEY environment variable")
	}
	if cfg.LLM.PageConcurrency < 1 {
		cfg.LLM.PageConcurrency = 1
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
