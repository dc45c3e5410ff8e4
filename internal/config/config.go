package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	GRPC      GRPCConfig      `mapstructure:"grpc"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Auth      AuthConfig      `mapstructure:"auth"`
	ChatImage ChatImageConfig `mapstructure:"chat_image"`
	Errors    ErrorsConfig    `mapstructure:"errors"`
}

type ServerConfig struct {
	Host     string `mapstructure:"host"`
	HTTPPort string `mapstructure:"http_port"`
	GRPCPort string `mapstructure:"grpc_port"`
}

type HTTPConfig struct {
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	MaxMultipartBytes int64         `mapstructure:"max_multipart_bytes"`
}

type GRPCConfig struct {
	ReflectionEnabled bool          `mapstructure:"reflection_enabled"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

type ChatImageConfig struct {
	MaxSizeBytes     int64  `mapstructure:"max_size_bytes"`
	AllowedMimeTypes string `mapstructure:"allowed_mime_types"`
	Detection        string `mapstructure:"detection"`
}

type ErrorsConfig struct {
	ExposeInternal bool `mapstructure:"expose_internal"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.http_port", "8080")
	v.SetDefault("server.grpc_port", "50055")

	v.SetDefault("http.read_header_timeout", 5*time.Second)
	v.SetDefault("http.max_multipart_bytes", 10*1024*1024)

	v.SetDefault("grpc.reflection_enabled", false)
	v.SetDefault("grpc.shutdown_timeout", 10*time.Second)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "vaultweb")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", 24*time.Hour)

	v.SetDefault("chat_image.max_size_bytes", 5242880)
	v.SetDefault("chat_image.allowed_mime_types", "image/jpeg,image/png,image/gif,image/webp")
	v.SetDefault("chat_image.detection", "magic")

	v.SetDefault("errors.expose_internal", false)
}

// Load reads config.yaml from the given directories (./config and
// /app/config when none are given), overlays environment variables such as
// DATABASE_HOST or CHAT_IMAGE_MAX_SIZE_BYTES, and validates the result.
// A .env file in the working directory is loaded first when present.
func Load(paths ...string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{"./config", "/app/config"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret must be set")
	}
	if c.ChatImage.MaxSizeBytes <= 0 {
		return fmt.Errorf("chat_image.max_size_bytes must be positive, got %d", c.ChatImage.MaxSizeBytes)
	}
	if c.HTTP.MaxMultipartBytes < c.ChatImage.MaxSizeBytes {
		return fmt.Errorf("http.max_multipart_bytes (%d) must not be below chat_image.max_size_bytes (%d)",
			c.HTTP.MaxMultipartBytes, c.ChatImage.MaxSizeBytes)
	}
	if len(c.ChatImage.AllowedTypes()) == 0 {
		return errors.New("chat_image.allowed_mime_types must list at least one type")
	}
	return nil
}

func (c ChatImageConfig) AllowedTypes() []string {
	return lo.FilterMap(strings.Split(c.AllowedMimeTypes, ","), func(item string, _ int) (string, bool) {
		mt := strings.ToLower(strings.TrimSpace(item))
		return mt, mt != ""
	})
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

func (c LoggingConfig) NewLogger() *logrus.Logger {
	logger := logrus.New()

	switch c.Level {
	case "debug":
		logger.SetLevel(logrus.DebugLevel)
	case "info":
		logger.SetLevel(logrus.InfoLevel)
	case "warn":
		logger.SetLevel(logrus.WarnLevel)
	case "error":
		logger.SetLevel(logrus.ErrorLevel)
	default:
		logger.SetLevel(logrus.InfoLevel)
	}

	if c.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{})
	}

	return logger
}
