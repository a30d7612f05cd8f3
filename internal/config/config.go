// Copyright (c) 2026 WSO2 LLC. (https://www.wso2.com).
//
// WSO2 LLC. licenses this file to you under the Apache License,
// Version 2.0 (the "License"); you may not use this file except
// in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

// Package config provides configuration management for the product QR service.
// Values come from environment variables, optionally seeded from a .env file,
// with sensible defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	Port            string        `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxBodySize     int64         `mapstructure:"max_body_size"`
	MinSize         int           `mapstructure:"min_size"`
	MaxSize         int           `mapstructure:"max_size"`
	DefaultSize     int           `mapstructure:"default_size"`

	LogoPath         string   `mapstructure:"logo_path"`
	RemoteQREndpoint string   `mapstructure:"remote_qr_endpoint"`
	PublicBaseURL    string   `mapstructure:"public_base_url"`
	CORSOrigins      []string `mapstructure:"cors_origins"`

	DBDriver          string        `mapstructure:"db_driver"`
	DBDSN             string        `mapstructure:"db_dsn"`
	DBHost            string        `mapstructure:"db_host"`
	DBPort            string        `mapstructure:"db_port"`
	DBUser            string        `mapstructure:"db_user"`
	DBPassword        string        `mapstructure:"db_password"`
	DBName            string        `mapstructure:"db_name"`
	DBSSLMode         string        `mapstructure:"db_sslmode"`
	DBMaxOpenConns    int           `mapstructure:"db_max_open_connections"`
	DBMaxIdleConns    int           `mapstructure:"db_max_idle_connections"`
	DBConnMaxLifetime time.Duration `mapstructure:"db_conn_max_lifetime"`

	CacheType     string        `mapstructure:"cache_type"`
	CacheTTL      time.Duration `mapstructure:"cache_ttl"`
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`

	LogEnv   string `mapstructure:"log_env"`
	LogLevel string `mapstructure:"log_level"`
}

var defaults = map[string]any{
	"port":             "8080",
	"read_timeout":     5 * time.Second,
	"write_timeout":    10 * time.Second,
	"shutdown_timeout": 5 * time.Second,
	"max_body_size":    524288,
	"min_size":         64,
	"max_size":         2048,
	"default_size":     300,

	"logo_path":          "./assets/logo.png",
	"remote_qr_endpoint": "https://api.qrserver.com/v1/create-qr-code/",
	"public_base_url":    "",
	"cors_origins":       []string{"*"},

	"db_driver":               "mysql",
	"db_dsn":                  "",
	"db_host":                 "localhost",
	"db_port":                 "3306",
	"db_user":                 "",
	"db_password":             "",
	"db_name":                 "",
	"db_sslmode":              "require",
	"db_max_open_connections": 10,
	"db_max_idle_connections": 5,
	"db_conn_max_lifetime":    5 * time.Minute,

	"cache_type":     "none",
	"cache_ttl":      5 * time.Minute,
	"redis_addr":     "localhost:6379",
	"redis_password": "",
	"redis_db":       0,

	"log_env":   "",
	"log_level": "info",
}

// LoadConfig reads the optional env files, then the process environment.
// Without arguments it looks for ".env" in the working directory.
func LoadConfig(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		// godotenv never overrides variables that are already set.
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the cross-field constraints.
func (c *Config) Validate() error {
	var errs []error

	if c.MinSize <= 0 || c.MinSize > c.MaxSize {
		errs = append(errs, fmt.Errorf("MIN_SIZE %d must be positive and not above MAX_SIZE %d", c.MinSize, c.MaxSize))
	}
	if c.DefaultSize < c.MinSize || c.DefaultSize > c.MaxSize {
		errs = append(errs, fmt.Errorf("DEFAULT_SIZE %d must be between %d and %d", c.DefaultSize, c.MinSize, c.MaxSize))
	}
	if c.MaxBodySize <= 0 {
		errs = append(errs, fmt.Errorf("MAX_BODY_SIZE must be positive"))
	}

	switch c.DBDriver {
	case "mysql", "postgres", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver))
	}

	switch c.CacheType {
	case "none", "memory":
	case "redis":
		if c.RedisAddr == "" {
			errs = append(errs, fmt.Errorf("REDIS_ADDR is required when CACHE_TYPE=redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported CACHE_TYPE %q", c.CacheType))
	}

	return errors.Join(errs...)
}
