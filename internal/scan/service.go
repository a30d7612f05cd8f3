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

package scan

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/wso2-open-operations/common-tools/operations/product-qr/internal/catalog"
	"github.com/wso2-open-operations/common-tools/operations/product-qr/internal/metrics"
)

// NotFoundError reports a well formed code the catalog does not know.
type NotFoundError struct {
	Code string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("product %q not found", e.Code)
}

func (e *NotFoundError) Unwrap() error {
	return catalog.ErrNotFound
}

// Result is a successful scan.
type Result struct {
	Code    string
	Product *catalog.Product
}

// Service resolves scan requests against the catalog.
type Service struct {
	catalog catalog.Repository
	logger  *zap.Logger
}

// NewService creates a scan Service.
func NewService(repo catalog.Repository, logger *zap.Logger) *Service {
	return &Service{catalog: repo, logger: logger}
}

// Scan normalizes fields and looks the code up. It returns *Error for rejected
// input, *NotFoundError for unknown codes and a wrapped error for catalog failures.
func (s *Service) Scan(ctx context.Context, fields map[string]any) (*Result, error) {
	code, err := Normalize(fields)
	if err != nil {
		var scanErr *Error
		if errors.As(err, &scanErr) {
			s.logger.Info("Rejected scan request",
				zap.String("reason", string(scanErr.Reason)),
				zap.String("detail", scanErr.Detail.String()),
				zap.String("raw", scanErr.Raw),
				zap.Strings("received_keys", scanErr.Received),
			)
			if scanErr.Reason == MissingPayload {
				metrics.ScanResults.WithLabelValues("missing_payload").Inc()
			} else {
				metrics.ScanResults.WithLabelValues("invalid").Inc()
			}
		}
		return nil, err
	}

	s.logger.Debug("Extracted product code from scan", zap.String("code", code))

	product, err := s.catalog.FindByCode(ctx, code)
	if errors.Is(err, catalog.ErrNotFound) {
		metrics.ScanResults.WithLabelValues("not_found").Inc()
		return nil, &NotFoundError{Code: code}
	}
	if err != nil {
		metrics.ScanResults.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to look up product %q: %w", code, err)
	}

	metrics.ScanResults.WithLabelValues("found").Inc()
	return &Result{Code: code, Product: product}, nil
}
