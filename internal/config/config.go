package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server struct {
		Port        string `yaml:"port" env:"SERVER_PORT"`
		Mode        string `yaml:"mode" env:"SERVER_MODE"`
		StoragePath string `yaml:"storagePath" env:"STORAGE_PATH"`
	} `yaml:"server"`
	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"maxIdleConns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"maxOpenConns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"connMaxLifetime" env:"DB_CONN_MAX_LIFETIME"`
	} `yaml:"database"`
	JWT struct {
		Secret                 string `yaml:"secret" env:"JWT_SECRET"`
		AccessTokenExpiration  string `yaml:"accessTokenExpiration" env:"JWT_ACCESS_EXPIRATION"`
		RefreshTokenExpiration string `yaml:"refreshTokenExpiration" env:"JWT_REFRESH_EXPIRATION"`
		Issuer                 string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`
	Storage struct {
		Backend  string `yaml:"backend" env:"STORAGE_BACKEND"`
		BaseURL  string `yaml:"baseUrl" env:"STORAGE_BASE_URL"`
		S3Region string `yaml:"s3Region" env:"STORAGE_S3_REGION"`
		S3Bucket string `yaml:"s3Bucket" env:"STORAGE_S3_BUCKET"`
	} `yaml:"storage"`
	RateLimit struct {
		PerSecond float64 `yaml:"perSecond" env:"RATE_LIMIT_PER_SECOND"`
		Burst     int     `yaml:"burst" env:"RATE_LIMIT_BURST"`
	} `yaml:"rateLimit"`
	CORS struct {
		AllowedOrigins []string `yaml:"allowedOrigins"`
	} `yaml:"cors"`
	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig reads the YAML configuration file, then applies any
// environment variable overrides declared via `env` struct tags.
func LoadConfig(path string) (*Config, error) {
	config := &Config{}

	// Defaults that hold when neither the file nor the environment set them
	config.Server.Port = "8080"
	config.Server.Mode = "debug"
	config.Server.StoragePath = "./uploads"
	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.DBName = "solidarity"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 5
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"
	config.JWT.AccessTokenExpiration = "24h"
	config.JWT.RefreshTokenExpiration = "168h"
	config.JWT.Issuer = "solidarity.app"
	config.Storage.Backend = "local"
	config.RateLimit.PerSecond = 10
	config.RateLimit.Burst = 20
	config.Logging.Level = "info"
	config.Logging.Format = "console"

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	} else if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := applyEnvOverrides(config); err != nil {
		return nil, err
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret must be configured (JWT_SECRET)")
	}
	if config.Database.Password == "" {
		return fmt.Errorf("database password must be configured (DB_PASSWORD)")
	}
	if config.Storage.Backend != "local" && config.Storage.Backend != "s3" {
		return fmt.Errorf("unknown storage backend %q", config.Storage.Backend)
	}
	if config.Storage.Backend == "s3" && config.Storage.S3Bucket == "" {
		return fmt.Errorf("S3 storage requires a bucket name")
	}
	for _, d := range []string{
		config.Database.ConnMaxLifetime,
		config.JWT.AccessTokenExpiration,
		config.JWT.RefreshTokenExpiration,
	} {
		if _, err := time.ParseDuration(d); err != nil {
			return fmt.Errorf("invalid duration %q: %w", d, err)
		}
	}
	return nil
}

// GetPostgresConnectionString builds the connection string for pgx.
func (c *Config) GetPostgresConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}
