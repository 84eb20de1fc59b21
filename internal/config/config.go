package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	DB     DBConfig
	S3     S3Config
	Log    LogConfig
	Parser ParserConfig
	CORS   CORSConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds AWS S3 settings for source document archival.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ParserConfig holds LLM RFQ extraction settings, including the ordered model
// cascade. The cascade is configuration, not hardcoded literals, so it can be
// pointed at mock endpoints in tests.
type ParserConfig struct {
	Endpoint            string  `mapstructure:"endpoint"`
	APIKey              string  `mapstructure:"api_key"`
	PrimaryModel        string  `mapstructure:"primary_model"`
	FallbackModel       string  `mapstructure:"fallback_model"`
	EmergencyModel      string  `mapstructure:"emergency_model"`
	TimeoutSecs         int     `mapstructure:"timeout_secs"`
	MaxTokens           int     `mapstructure:"max_tokens"`
	Temperature         float64 `mapstructure:"temperature"`
	TopP                float64 `mapstructure:"top_p"`
	ConfidenceThreshold float64 `mapstructure:"confidence_threshold"`
}

// Timeout returns the per-call model timeout as a duration.
func (p *ParserConfig) Timeout() time.Duration {
	if p.TimeoutSecs <= 0 {
		return 30 * time.Second
	}
	return time.Duration(p.TimeoutSecs) * time.Second
}

// Load reads configuration from environment variables with the RFQFORGE_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("RFQFORGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "rfqforge")
	v.SetDefault("db.password", "rfqforge_secret")
	v.SetDefault("db.name", "rfqforge_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "rfqforge-uploads")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.max_file_size_mb", 20)
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Parser defaults
	v.SetDefault("parser.endpoint", "https://api.groq.com/openai/v1/chat/completions")
	v.SetDefault("parser.api_key", "")
	v.SetDefault("parser.primary_model", "llama-3.3-70b-versatile")
	v.SetDefault("parser.fallback_model", "llama-3.1-8b-instant")
	v.SetDefault("parser.emergency_model", "llama3-70b-8192")
	v.SetDefault("parser.timeout_secs", 30)
	v.SetDefault("parser.max_tokens", 1024)
	v.SetDefault("parser.temperature", 0.1)
	v.SetDefault("parser.top_p", 1.0)
	v.SetDefault("parser.confidence_threshold", 0.7)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                 "RFQFORGE_SERVER_PORT",
		"server.read_timeout":         "RFQFORGE_SERVER_READ_TIMEOUT",
		"server.write_timeout":        "RFQFORGE_SERVER_WRITE_TIMEOUT",
		"server.environment":          "RFQFORGE_SERVER_ENVIRONMENT",
		"db.host":                     "RFQFORGE_DB_HOST",
		"db.port":                     "RFQFORGE_DB_PORT",
		"db.user":                     "RFQFORGE_DB_USER",
		"db.password":                 "RFQFORGE_DB_PASSWORD",
		"db.name":                     "RFQFORGE_DB_NAME",
		"db.sslmode":                  "RFQFORGE_DB_SSLMODE",
		"db.max_open":                 "RFQFORGE_DB_MAX_OPEN",
		"db.max_idle":                 "RFQFORGE_DB_MAX_IDLE",
		"s3.region":                   "RFQFORGE_S3_REGION",
		"s3.bucket":                   "RFQFORGE_S3_BUCKET",
		"s3.endpoint":                 "RFQFORGE_S3_ENDPOINT",
		"s3.access_key":               "RFQFORGE_S3_ACCESS_KEY",
		"s3.secret_key":               "RFQFORGE_S3_SECRET_KEY",
		"s3.max_file_size_mb":         "RFQFORGE_S3_MAX_FILE_SIZE_MB",
		"s3.presign_expiry":           "RFQFORGE_S3_PRESIGN_EXPIRY",
		"log.level":                   "RFQFORGE_LOG_LEVEL",
		"log.format":                  "RFQFORGE_LOG_FORMAT",
		"cors.allowed_origins":        "RFQFORGE_CORS_ALLOWED_ORIGINS",
		"parser.endpoint":             "RFQFORGE_PARSER_ENDPOINT",
		"parser.api_key":              "RFQFORGE_PARSER_API_KEY",
		"parser.primary_model":        "RFQFORGE_PARSER_PRIMARY_MODEL",
		"parser.fallback_model":       "RFQFORGE_PARSER_FALLBACK_MODEL",
		"parser.emergency_model":      "RFQFORGE_PARSER_EMERGENCY_MODEL",
		"parser.timeout_secs":         "RFQFORGE_PARSER_TIMEOUT_SECS",
		"parser.max_tokens":           "RFQFORGE_PARSER_MAX_TOKENS",
		"parser.temperature":          "RFQFORGE_PARSER_TEMPERATURE",
		"parser.top_p":                "RFQFORGE_PARSER_TOP_P",
		"parser.confidence_threshold": "RFQFORGE_PARSER_CONFIDENCE_THRESHOLD",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if RFQFORGE_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("RFQFORGE_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		MaxFileSizeMB: v.GetInt64("s3.max_file_size_mb"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	cfg.Parser = ParserConfig{
		Endpoint:            v.GetString("parser.endpoint"),
		APIKey:              v.GetString("parser.api_key"),
		PrimaryModel:        v.GetString("parser.primary_model"),
		FallbackModel:       v.GetString("parser.fallback_model"),
		EmergencyModel:      v.GetString("parser.emergency_model"),
		TimeoutSecs:         v.GetInt("parser.timeout_secs"),
		MaxTokens:           v.GetInt("parser.max_tokens"),
		Temperature:         v.GetFloat64("parser.temperature"),
		TopP:                v.GetFloat64("parser.top_p"),
		ConfidenceThreshold: v.GetFloat64("parser.confidence_threshold"),
	}

	return cfg, nil
}
