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

// Package main is the entry point for the product QR service.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/wso2-open-operations/common-tools/operations/product-qr/internal/cache"
	"github.com/wso2-open-operations/common-tools/operations/product-qr/internal/catalog"
	"github.com/wso2-open-operations/common-tools/operations/product-qr/internal/config"
	"github.com/wso2-open-operations/common-tools/operations/product-qr/internal/logger"
	"github.com/wso2-open-operations/common-tools/operations/product-qr/internal/qr"
	"github.com/wso2-open-operations/common-tools/operations/product-qr/internal/scan"
	transport "github.com/wso2-open-operations/common-tools/operations/product-qr/internal/transport/http"
)

// Build information, set with -ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	log := logger.InitLogger()
	defer func() { _ = log.Sync() }()

	log.Info("Starting product QR service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("git_commit", GitCommit),
	)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}
	log.Debug("Configuration loaded",
		zap.String("port", cfg.Port),
		zap.Duration("read_timeout", cfg.ReadTimeout),
		zap.Duration("write_timeout", cfg.WriteTimeout),
		zap.Int64("max_body_size", cfg.MaxBodySize),
		zap.String("logo_path", cfg.LogoPath),
		zap.String("cache_type", cfg.CacheType),
	)

	db, err := catalog.Open(context.Background(), databaseSettings(cfg), log)
	if err != nil {
		log.Fatal("Failed to connect to catalog database", zap.Error(err))
	}
	defer db.Close()

	repo, closeCache, err := buildCatalog(db, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize catalog cache", zap.Error(err))
	}
	defer closeCache()

	renderer := qr.NewRenderer(log)
	compositor := qr.NewCompositor(renderer, cfg.LogoPath, log)
	fallback := qr.NewFallback(compositor, renderer, log, qr.WithRemoteEndpoint(cfg.RemoteQREndpoint))
	qrSvc := qr.NewService(renderer, fallback, log, cfg.MinSize, cfg.MaxSize)
	scanSvc := scan.NewService(repo, log)
	log.Debug("Services initialized")

	h := transport.NewHandler(qrSvc, scanSvc, repo, log, transport.HandlerConfig{
		MaxBodySize:   cfg.MaxBodySize,
		MinSize:       cfg.MinSize,
		MaxSize:       cfg.MaxSize,
		DefaultSize:   cfg.DefaultSize,
		PublicBaseURL: cfg.PublicBaseURL,
		LogoPath:      cfg.LogoPath,
		Version:       Version,
	})

	// Configure HTTP server with timeouts and security settings
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           transport.NewRouter(h, log, cfg.CORSOrigins),
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 2)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.Error("Server failed", zap.Error(err))
		return
	case sig := <-quit:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err), zap.Duration("timeout", cfg.ShutdownTimeout))
		if errors.Is(err, context.DeadlineExceeded) {
			log.Warn("Shutdown timeout exceeded, closing connections")
			srv.Close()
		}
		return
	}

	log.Info("Server exited gracefully")
}

func databaseSettings(cfg *config.Config) catalog.Settings {
	return catalog.Settings{
		Driver:          catalog.Dialect(cfg.DBDriver),
		DSN:             cfg.DBDSN,
		Host:            cfg.DBHost,
		Port:            cfg.DBPort,
		User:            cfg.DBUser,
		Password:        cfg.DBPassword,
		Name:            cfg.DBName,
		SSLMode:         cfg.DBSSLMode,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	}
}

// buildCatalog wraps the SQL repository with the configured cache.
func buildCatalog(db *sql.DB, cfg *config.Config, log *zap.Logger) (catalog.Repository, func(), error) {
	var repo catalog.Repository = catalog.NewSQLRepository(db, catalog.Dialect(cfg.DBDriver), log)

	var c cache.Cache
	switch cfg.CacheType {
	case "memory":
		c = cache.NewMemoryCache(time.Minute)
	case "redis":
		rc, err := cache.NewRedisCache(context.Background(), cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, nil, err
		}
		c = rc
	default:
		return repo, func() {}, nil
	}

	log.Info("Catalog cache enabled", zap.String("type", cfg.CacheType), zap.Duration("ttl", cfg.CacheTTL))
	return catalog.NewCachedRepository(repo, c, cfg.CacheTTL, log), func() { _ = c.Close() }, nil
}
