package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	envPrefix        = "APP"
	defaultConfigDir = "configuration"
)

// Config holds all configuration for the application
type Config struct {
	Environment string            `mapstructure:"-"`
	Application ApplicationConfig `mapstructure:"application"`
	Database    DatabaseConfig    `mapstructure:"database"`
	EmailClient EmailClientConfig `mapstructure:"email_client"`
	Auth        AuthConfig        `mapstructure:"auth"`
	Server      ServerConfig      `mapstructure:"server"`
}

type ApplicationConfig struct {
	Host    string `mapstructure:"host" validate:"required"`
	Port    int    `mapstructure:"port" validate:"min=1,max=65535"`
	BaseURL string `mapstructure:"base_url" validate:"required,url"`
}

// Addr is the listen address for the HTTP server.
func (a ApplicationConfig) Addr() string {
	return net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
}

// DatabaseConfig accepts either a full URL or its parts. URL wins when both are set.
type DatabaseConfig struct {
	URL             string        `mapstructure:"url"`
	Host            string        `mapstructure:"host" validate:"required_without=URL"`
	Port            int           `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	DatabaseName    string        `mapstructure:"database_name" validate:"required_without=URL"`
	RequireSSL      bool          `mapstructure:"require_ssl"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"min=0"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"min=0"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	MigrateOnStart  bool          `mapstructure:"migrate_on_start"`
}

// DSN returns the connection string for lib/pq.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	sslMode := "disable"
	if d.RequireSSL {
		sslMode = "require"
	}
	port := d.Port
	if port == 0 {
		port = 5432
	}
	u := url.URL{
		Scheme:   "postgres",
		Host:     net.JoinHostPort(d.Host, strconv.Itoa(port)),
		Path:     "/" + d.DatabaseName,
		RawQuery: "sslmode=" + sslMode,
	}
	if d.Username != "" {
		u.User = url.UserPassword(d.Username, d.Password)
	}
	return u.String()
}

type EmailClientConfig struct {
	Provider           string    `mapstructure:"provider" validate:"oneof=postmark ses sendgrid noop"`
	BaseURL            string    `mapstructure:"base_url" validate:"omitempty,url"`
	SenderEmail        string    `mapstructure:"sender_email" validate:"required,email"`
	SenderName         string    `mapstructure:"sender_name"`
	AuthorizationToken string    `mapstructure:"authorization_token"`
	TimeoutMS          int       `mapstructure:"timeout_ms" validate:"min=1"`
	SES                SESConfig `mapstructure:"ses"`
}

// Timeout is the per-send deadline.
func (e EmailClientConfig) Timeout() time.Duration {
	return time.Duration(e.TimeoutMS) * time.Millisecond
}

type SESConfig struct {
	Region             string `mapstructure:"region"`
	AccessKeyID        string `mapstructure:"access_key_id"`
	SecretAccessKey    string `mapstructure:"secret_access_key"`
	InsecureSkipVerify bool   `mapstructure:"insecure_skip_verify"`
}

type AuthConfig struct {
	JWTSecret     string        `mapstructure:"jwt_secret" validate:"required,min=32"`
	JWTExpiry     time.Duration `mapstructure:"jwt_expiry" validate:"min=1m"`
	AdminEmail    string        `mapstructure:"admin_email" validate:"omitempty,email"`
	AdminPassword string        `mapstructure:"admin_password" validate:"required_with=AdminEmail"`
}

type ServerConfig struct {
	RequestTimeout     time.Duration `mapstructure:"request_timeout"`
	ReadTimeout        time.Duration `mapstructure:"read_timeout"`
	WriteTimeout       time.Duration `mapstructure:"write_timeout"`
	IdleTimeout        time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout    time.Duration `mapstructure:"shutdown_timeout"`
	PublishTimeout     time.Duration `mapstructure:"publish_timeout"`
	CORSAllowedOrigins []string      `mapstructure:"cors_allowed_origins"`
}

// Load loads configuration from configuration/base.yaml, the optional
// configuration/{GO_ENV}.yaml and APP_ environment variables.
// It attempts to load from .env file if not in production
func Load() (*Config, error) {
	env := environment()

	// In production .env might not exist and we rely on system environment variables
	if env != "production" {
		if err := godotenv.Load(); err != nil {
			InitLogger().Warn(".env file not found or couldn't be loaded", "err", err)
		}
	}

	dir := os.Getenv("CONFIG_DIR")
	if dir == "" {
		dir = defaultConfigDir
	}
	return LoadFrom(dir, env)
}

// LoadFrom reads base.yaml and {env}.yaml from dir, applies environment
// overrides and validates the result.
func LoadFrom(dir, env string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("yaml")
	v.SetConfigFile(filepath.Join(dir, "base.yaml"))
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read base configuration: %w", err)
	}
	envFile := filepath.Join(dir, env+".yaml")
	if _, err := os.Stat(envFile); err == nil {
		v.SetConfigFile(envFile)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("read %s configuration: %w", env, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("stat %s: %w", envFile, err)
	}

	// APP_DATABASE__HOST -> database.host
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "__"))
	v.AutomaticEnv()

	shortcuts := []struct {
		key     string
		envVars []string
	}{
		{"database.url", []string{"APP_DATABASE__URL", "DATABASE_URL"}},
		{"application.port", []string{"APP_APPLICATION__PORT", "PORT"}},
	}
	for _, s := range shortcuts {
		if err := v.BindEnv(append([]string{s.key}, s.envVars...)...); err != nil {
			return nil, fmt.Errorf("bind %s: %w", s.key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	cfg.Environment = env

	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("application.host", "0.0.0.0")
	v.SetDefault("application.port", 8080)
	v.SetDefault("application.base_url", "")
	v.SetDefault("database.url", "")
	v.SetDefault("database.host", "")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.username", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.database_name", "")
	v.SetDefault("database.require_ssl", false)
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("database.migrate_on_start", true)
	v.SetDefault("email_client.provider", "noop")
	v.SetDefault("email_client.base_url", "")
	v.SetDefault("email_client.sender_email", "")
	v.SetDefault("email_client.sender_name", "")
	v.SetDefault("email_client.authorization_token", "")
	v.SetDefault("email_client.timeout_ms", 10000)
	v.SetDefault("email_client.ses.region", "")
	v.SetDefault("email_client.ses.access_key_id", "")
	v.SetDefault("email_client.ses.secret_access_key", "")
	v.SetDefault("email_client.ses.insecure_skip_verify", false)
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.jwt_expiry", "1h")
	v.SetDefault("auth.admin_email", "")
	v.SetDefault("auth.admin_password", "")
	v.SetDefault("server.request_timeout", "10s")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.publish_timeout", "30m")
	v.SetDefault("server.cors_allowed_origins", []string{"*"})
}

func environment() string {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}
	return env
}
