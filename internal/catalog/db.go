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

package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// Settings describes the catalog database connection.
type Settings struct {
	Driver          Dialect
	DSN             string // takes precedence over the discrete fields
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// ConnectionString builds the driver specific DSN.
func (s Settings) ConnectionString() (string, error) {
	if s.DSN != "" {
		return s.DSN, nil
	}

	switch s.Driver {
	case MySQL:
		cfg := mysql.NewConfig()
		cfg.User = s.User
		cfg.Passwd = s.Password
		cfg.Net = "tcp"
		cfg.Addr = net.JoinHostPort(s.Host, s.Port)
		cfg.DBName = s.Name
		cfg.ParseTime = true
		return cfg.FormatDSN(), nil
	case Postgres:
		sslMode := s.SSLMode
		if sslMode == "" {
			sslMode = "require"
		}
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			s.Host, s.Port, s.User, s.Password, s.Name, sslMode), nil
	case SQLite:
		if s.Name == "" {
			return "", fmt.Errorf("sqlite requires a database file name")
		}
		return s.Name, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", s.Driver)
	}
}

// Open opens and pings the catalog database.
func Open(ctx context.Context, s Settings, logger *zap.Logger) (*sql.DB, error) {
	dsn, err := s.ConnectionString()
	if err != nil {
		return nil, err
	}

	logger.Debug("Opening database connection",
		zap.String("driver", string(s.Driver)),
		zap.String("host", s.Host),
		zap.String("database", s.Name),
	)

	db, err := sql.Open(string(s.Driver), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if s.Driver == SQLite {
		db.SetMaxOpenConns(1)
	} else if s.MaxOpenConns > 0 {
		db.SetMaxOpenConns(s.MaxOpenConns)
	}
	if s.MaxIdleConns > 0 {
		db.SetMaxIdleConns(s.MaxIdleConns)
	}
	if s.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(s.ConnMaxLifetime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Debug("Database connection established successfully")
	return db, nil
}
