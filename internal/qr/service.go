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

// Package qr renders product QR codes: plain rasters, logo-branded rasters and the
// remote URL fallback, plus the two-payload generation bundle.
package qr

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wso2-open-operations/common-tools/operations/product-qr/internal/payload"
)

type Service interface {
	Generate(data []byte, size int) ([]byte, error)
	GenerateBundle(ctx context.Context, item payload.Item, size int) (*Bundle, error)
}

// Rendered pairs a payload with the image reference chosen for it.
type Rendered struct {
	Payload payload.Payload
	Result  Result
}

// Bundle is the complete generation output for one item.
type Bundle struct {
	Item       payload.Item
	Simple     Rendered
	Structured Rendered
	// Barcode is the raw item code for clients that display it without imaging.
	Barcode           string
	BrandingSucceeded bool
}

type service struct {
	renderer Renderer
	fallback *Fallback
	logger   *zap.Logger
	minSize  int
	maxSize  int
	now      func() time.Time
}

// ServiceOption configures the generation service.
type ServiceOption func(*service)

// WithClock overrides the timestamp source of structured payloads.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *service) {
		s.now = now
	}
}

// NewService creates a new QR code generation service instance.
func NewService(renderer Renderer, fallback *Fallback, logger *zap.Logger, minSize, maxSize int, opts ...ServiceOption) Service {
	s := &service{
		renderer: renderer,
		fallback: fallback,
		logger:   logger,
		minSize:  minSize,
		maxSize:  maxSize,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate creates a QR code PNG image from the provided data with Medium error recovery (15%).
func (s *service) Generate(data []byte, size int) ([]byte, error) {
	s.logger.Debug("Starting QR code generation",
		zap.Int("data_length", len(data)),
		zap.Int("size", size),
	)

	if len(data) == 0 {
		s.logger.Warn("QR code generation failed: empty data provided")
		return nil, ErrEmptyData
	}

	if err := s.checkSize(size); err != nil {
		return nil, err
	}

	img, err := s.renderer.Render(string(data), size, Medium)
	if err != nil {
		s.logger.Error("Failed to encode QR code",
			zap.Error(err),
			zap.Int("data_length", len(data)),
			zap.Int("size", size),
		)
		return nil, fmt.Errorf("failed to encode QR code: %w", err)
	}

	png, err := img.PNG()
	if err != nil {
		return nil, err
	}

	s.logger.Debug("QR code generated successfully",
		zap.Int("output_size_bytes", len(png)),
		zap.String("image_dimensions", fmt.Sprintf("%dx%d", size, size)),
	)
	return png, nil
}

// GenerateBundle builds the simple and structured payloads for item and renders both
// concurrently through the fallback chain. It only fails on invalid input; rendering
// problems surface as a lesser Variant.
func (s *service) GenerateBundle(ctx context.Context, item payload.Item, size int) (*Bundle, error) {
	if item.Code == "" {
		return nil, fmt.Errorf("%w: id %d", ErrInvalidItem, item.ID)
	}
	if !utf8.ValidString(item.Code) {
		return nil, fmt.Errorf("%w: id %d code is not valid UTF-8", ErrInvalidItem, item.ID)
	}
	if err := s.checkSize(size); err != nil {
		return nil, err
	}

	simple := payload.EncodeSimple(item.Code)
	structured, err := payload.EncodeStructured(item, s.now())
	if err != nil {
		return nil, err
	}

	bundle := &Bundle{
		Item:       item,
		Simple:     Rendered{Payload: simple},
		Structured: Rendered{Payload: structured},
		Barcode:    item.Code,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		bundle.Simple.Result = s.fallback.Render(gctx, simple.Kind, simple.Text(), size)
		return nil
	})
	g.Go(func() error {
		bundle.Structured.Result = s.fallback.Render(gctx, structured.Kind, structured.Text(), size)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	bundle.BrandingSucceeded = bundle.Simple.Result.Variant == Branded &&
		bundle.Structured.Result.Variant == Branded

	s.logger.Info("QR bundle generated",
		zap.Int64("product_id", item.ID),
		zap.String("code", item.Code),
		zap.String("simple_variant", bundle.Simple.Result.Variant.String()),
		zap.String("structured_variant", bundle.Structured.Result.Variant.String()),
		zap.Bool("branding_succeeded", bundle.BrandingSucceeded),
	)
	return bundle, nil
}

func (s *service) checkSize(size int) error {
	if size < s.minSize || size > s.maxSize {
		s.logger.Warn("QR code generation failed: invalid size",
			zap.Int("size", size),
			zap.Int("min", s.minSize),
			zap.Int("max", s.maxSize),
		)
		return fmt.Errorf("%w: must be between %d and %d", ErrInvalidSize, s.minSize, s.maxSize)
	}
	return nil
}
