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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.ReadTimeout)
	assert.Equal(t, int64(524288), cfg.MaxBodySize)
	assert.Equal(t, 64, cfg.MinSize)
	assert.Equal(t, 2048, cfg.MaxSize)
	assert.Equal(t, 300, cfg.DefaultSize)
	assert.Equal(t, "https://api.qrserver.com/v1/create-qr-code/", cfg.RemoteQREndpoint)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, "none", cfg.CacheType)
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("WRITE_TIMEOUT", "30s")
	t.Setenv("DEFAULT_SIZE", "256")
	t.Setenv("CORS_ORIGINS", "https://a.example.com,https://b.example.com")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("CACHE_TYPE", "redis")
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("LOGO_PATH", "/srv/assets/logo-rb.png")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.WriteTimeout)
	assert.Equal(t, 256, cfg.DefaultSize)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSOrigins)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "redis", cfg.CacheType)
	assert.Equal(t, 90*time.Second, cfg.CacheTTL)
	assert.Equal(t, "/srv/assets/logo-rb.png", cfg.LogoPath)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("MIN_SIZE=128\n"), 0o600))
	// Registers cleanup for the variable godotenv is about to set.
	t.Setenv("MIN_SIZE", "")
	require.NoError(t, os.Unsetenv("MIN_SIZE"))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 128, cfg.MinSize)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv("MIN_SIZE", "512")
	t.Setenv("DEFAULT_SIZE", "300")

	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.env"))
	assert.ErrorContains(t, err, "DEFAULT_SIZE")
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{MinSize: 64, MaxSize: 2048, DefaultSize: 300, MaxBodySize: 1, DBDriver: "sqlite", CacheType: "memory"}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"min above max", func(c *Config) { c.MinSize = 4096 }, "MIN_SIZE"},
		{"unknown driver", func(c *Config) { c.DBDriver = "oracle" }, "DB_DRIVER"},
		{"unknown cache", func(c *Config) { c.CacheType = "memcached" }, "CACHE_TYPE"},
		{"redis without addr", func(c *Config) { c.CacheType = "redis" }, "REDIS_ADDR"},
		{"body size", func(c *Config) { c.MaxBodySize = 0 }, "MAX_BODY_SIZE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
