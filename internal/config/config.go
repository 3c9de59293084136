package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	Supabase  SupabaseConfig
	Profiles  ProfilesConfig
	MongoDB   MongoDBConfig
	Redis     RedisConfig
	Session   SessionConfig
	RateLimit RateLimitConfig
	MinIO     MinIOConfig
	CORS      CORSConfig
}

type ServerConfig struct {
	Port          string `validate:"required"`
	Host          string
	Environment   string `validate:"oneof=development staging production test"`
	LogLevel      string
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	SettleTimeout time.Duration `validate:"gt=0"`
}

// SupabaseConfig points at the hosted auth + table API project.
type SupabaseConfig struct {
	URL       string `validate:"required,url"`
	AnonKey   string `validate:"required"`
	JWTSecret string
	UseJWKS   bool
}

// ProfilesConfig selects where profile rows are read from.
type ProfilesConfig struct {
	Source      string `validate:"oneof=rest postgres mongo"`
	DatabaseURL string `validate:"required_if=Source postgres"`
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

type SessionConfig struct {
	CookieName string `validate:"required"`
	Secure     bool
	TTL        time.Duration `validate:"gt=0"`
}

type RateLimitConfig struct {
	Enabled       bool
	UseRedis      bool
	RPS           float64
	Burst         int
	WindowSeconds int
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	Region    string
	URLTTL    time.Duration
}

type CORSConfig struct {
	AllowedOrigins string
}

// Origins parses the comma-separated origins string into a slice.
func (c CORSConfig) Origins() []string {
	if c.AllowedOrigins == "" {
		return nil
	}
	out := []string{}
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

// LoadConfig loads configuration from environment variables and .env file
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "5001")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_ENVIRONMENT", "development")
	viper.SetDefault("SERVER_SETTLE_TIMEOUT", "10s")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("PROFILE_SOURCE", "rest")
	viper.SetDefault("MONGODB_DATABASE", "profilku")
	viper.SetDefault("MONGODB_TIMEOUT", 10)
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("SESSION_COOKIE_NAME", "profilku_sid")
	viper.SetDefault("SESSION_TTL", "168h")
	viper.SetDefault("RATE_LIMIT_RPS", 5)
	viper.SetDefault("RATE_LIMIT_BURST", 10)
	viper.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 1)
	viper.SetDefault("MINIO_BUCKET", "avatars")
	viper.SetDefault("MINIO_REGION", "us-east-1")
	viper.SetDefault("AVATAR_URL_TTL", "1h")

	cfg := &Config{
		Server: ServerConfig{
			Port:          viper.GetString("SERVER_PORT"),
			Host:          viper.GetString("SERVER_HOST"),
			Environment:   viper.GetString("SERVER_ENVIRONMENT"),
			LogLevel:      viper.GetString("LOG_LEVEL"),
			ReadTimeout:   30 * time.Second,
			WriteTimeout:  30 * time.Second,
			SettleTimeout: viper.GetDuration("SERVER_SETTLE_TIMEOUT"),
		},
		Supabase: SupabaseConfig{
			URL:       strings.TrimRight(viper.GetString("SUPABASE_URL"), "/"),
			AnonKey:   viper.GetString("SUPABASE_ANON_KEY"),
			JWTSecret: viper.GetString("SUPABASE_JWT_SECRET"),
			UseJWKS:   viper.GetBool("SUPABASE_JWKS"),
		},
		Profiles: ProfilesConfig{
			Source:      strings.ToLower(viper.GetString("PROFILE_SOURCE")),
			DatabaseURL: viper.GetString("DATABASE_URL"),
		},
		MongoDB: MongoDBConfig{
			URI:      viper.GetString("MONGODB_URI"),
			Database: viper.GetString("MONGODB_DATABASE"),
			Timeout:  time.Duration(viper.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Session: SessionConfig{
			CookieName: viper.GetString("SESSION_COOKIE_NAME"),
			Secure:     viper.GetBool("SESSION_COOKIE_SECURE"),
			TTL:        viper.GetDuration("SESSION_TTL"),
		},
		RateLimit: RateLimitConfig{
			Enabled:       viper.GetBool("RATE_LIMIT_ENABLED"),
			UseRedis:      viper.GetBool("RATE_LIMIT_USE_REDIS"),
			RPS:           viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         viper.GetInt("RATE_LIMIT_BURST"),
			WindowSeconds: viper.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
		MinIO: MinIOConfig{
			Endpoint:  viper.GetString("MINIO_ENDPOINT"),
			AccessKey: viper.GetString("MINIO_ACCESS_KEY"),
			SecretKey: viper.GetString("MINIO_SECRET_KEY"),
			UseSSL:    viper.GetBool("MINIO_USE_SSL"),
			Bucket:    viper.GetString("MINIO_BUCKET"),
			Region:    viper.GetString("MINIO_REGION"),
			URLTTL:    viper.GetDuration("AVATAR_URL_TTL"),
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetString("CORS_ALLOWED_ORIGINS"),
		},
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the struct tags on cfg and the cross-field rules tags cannot express.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if cfg.Profiles.Source == "mongo" && cfg.MongoDB.URI == "" {
		return fmt.Errorf("invalid config: MONGODB_URI is required when PROFILE_SOURCE=mongo")
	}
	return nil
}
