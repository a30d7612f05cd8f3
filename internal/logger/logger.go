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

// Package logger provides centralized logging configuration for the product QR service.
package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var levelMap = map[string]zapcore.Level{
	"debug": zapcore.DebugLevel,
	"info":  zapcore.InfoLevel,
	"warn":  zapcore.WarnLevel,
	"error": zapcore.ErrorLevel,
}

// New builds a zap logger. env "prod" selects JSON output, anything else the
// human readable console encoder. Unknown levels fall back to info. Output goes
// to stdout unless outputs names other sinks.
func New(env, level string, outputs ...string) (*zap.Logger, error) {
	var cfg zap.Config
	if env == "prod" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(ParseLevel(level))
	cfg.OutputPaths = []string{"stdout"}
	if len(outputs) > 0 {
		cfg.OutputPaths = outputs
	}
	return cfg.Build()
}

// InitLogger initializes a logger based on LOG_ENV (dev/prod) and LOG_LEVEL (debug/info/warn/error).
func InitLogger() *zap.Logger {
	logEnv := os.Getenv("LOG_ENV")
	logLevel := os.Getenv("LOG_LEVEL")

	logger, err := New(logEnv, logLevel)
	if err != nil {
		logger = zap.NewExample()
		logger.Error("Falling back to example logger", zap.Error(err))
	}

	logger.Info("Logger initialized",
		zap.String("LOG_ENV", logEnv),
		zap.String("LOG_LEVEL", ParseLevel(logLevel).String()),
	)
	return logger
}

// ParseLevel maps debug/info/warn/error case-insensitively, defaulting to info.
func ParseLevel(level string) zapcore.Level {
	if l, ok := levelMap[strings.ToLower(strings.TrimSpace(level))]; ok {
		return l
	}
	return zapcore.InfoLevel
}
