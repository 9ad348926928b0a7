package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is read from the environment and an optional flat config file
// (CONFIG_FILE, any format viper understands) using the same key names.
// Environment variables win.
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Minio    MinioConfig
	Auth     AuthConfig
	Stock    StockConfig
	Jobs     JobsConfig
}

type AppConfig struct {
	Env      string // development -> console logs; anything else -> JSON
	LogLevel string
	Port     string
}

type DatabaseConfig struct {
	URL         string // empty -> every store call fails with "not configured"
	ApplySchema bool
}

type RedisConfig struct {
	Addr     string // empty -> in-memory selection store, in-process mutation guard
	Password string
	DB       int
}

type MinioConfig struct {
	Endpoint  string // empty -> image uploads disabled
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
}

type AuthConfig struct {
	JWTSecret string
	JWKSURL   string // takes precedence over JWTSecret
}

type StockConfig struct {
	CreateFailurePolicy   string // rollback | tolerate
	DefaultWarehouseName  string
	DefaultWarehouseColor string
	MutationLockTTL       time.Duration
}

type JobsConfig struct {
	Enabled           bool
	LowStockInterval  time.Duration
	ReconcileInterval time.Duration
}

func defaults() *Config {
	return &Config{
		App:      AppConfig{Env: "development", LogLevel: "info", Port: "8080"},
		Database: DatabaseConfig{ApplySchema: true},
		Minio:    MinioConfig{Bucket: "product-images"},
		Stock: StockConfig{
			CreateFailurePolicy:   "rollback",
			DefaultWarehouseName:  "Main Warehouse",
			DefaultWarehouseColor: "#6366F1",
			MutationLockTTL:       30 * time.Second,
		},
		Jobs: JobsConfig{
			Enabled:           true,
			LowStockInterval:  time.Hour,
			ReconcileInterval: 6 * time.Hour,
		},
	}
}

// Load builds the configuration. A missing CONFIG_FILE is not an error; a
// malformed one is.
func Load() (*Config, error) {
	cfg := defaults()

	v := viper.New()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setString(v, "APP_ENV", &cfg.App.Env)
	setString(v, "LOG_LEVEL", &cfg.App.LogLevel)
	setString(v, "PORT", &cfg.App.Port)

	setString(v, "DATABASE_URL", &cfg.Database.URL)
	setBool(v, "DATABASE_APPLY_SCHEMA", &cfg.Database.ApplySchema)

	setString(v, "REDIS_ADDR", &cfg.Redis.Addr)
	setString(v, "REDIS_PASSWORD", &cfg.Redis.Password)
	setInt(v, "REDIS_DB", &cfg.Redis.DB)

	setString(v, "MINIO_ENDPOINT", &cfg.Minio.Endpoint)
	setString(v, "MINIO_ACCESS_KEY", &cfg.Minio.AccessKey)
	setString(v, "MINIO_SECRET_KEY", &cfg.Minio.SecretKey)
	setBool(v, "MINIO_USE_SSL", &cfg.Minio.UseSSL)
	setString(v, "MINIO_BUCKET", &cfg.Minio.Bucket)

	setString(v, "JWT_SECRET", &cfg.Auth.JWTSecret)
	setString(v, "JWKS_URL", &cfg.Auth.JWKSURL)

	setString(v, "CREATE_FAILURE_POLICY", &cfg.Stock.CreateFailurePolicy)
	setString(v, "DEFAULT_WAREHOUSE_NAME", &cfg.Stock.DefaultWarehouseName)
	setString(v, "DEFAULT_WAREHOUSE_COLOR", &cfg.Stock.DefaultWarehouseColor)
	setDuration(v, "MUTATION_LOCK_TTL", &cfg.Stock.MutationLockTTL)

	setBool(v, "JOBS_ENABLED", &cfg.Jobs.Enabled)
	setDuration(v, "LOW_STOCK_INTERVAL", &cfg.Jobs.LowStockInterval)
	setDuration(v, "RECONCILE_INTERVAL", &cfg.Jobs.ReconcileInterval)

	if cfg.Auth.JWTSecret == "" && cfg.Auth.JWKSURL == "" {
		return nil, fmt.Errorf("either JWT_SECRET or JWKS_URL must be set")
	}
	return cfg, nil
}

func setString(v *viper.Viper, key string, dst *string) {
	if v.IsSet(key) {
		*dst = v.GetString(key)
	}
}

func setBool(v *viper.Viper, key string, dst *bool) {
	if v.IsSet(key) {
		*dst = v.GetBool(key)
	}
}

func setInt(v *viper.Viper, key string, dst *int) {
	if v.IsSet(key) {
		*dst = v.GetInt(key)
	}
}

func setDuration(v *viper.Viper, key string, dst *time.Duration) {
	if v.IsSet(key) {
		*dst = v.GetDuration(key)
	}
}
