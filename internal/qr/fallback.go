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

package qr

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/wso2-open-operations/common-tools/operations/product-qr/internal/metrics"
	"github.com/wso2-open-operations/common-tools/operations/product-qr/internal/payload"
)

const tracerName = "github.com/wso2-open-operations/common-tools/operations/product-qr/internal/qr"

// Variant tags which stage produced a Result.
type Variant int

const (
	Branded Variant = iota
	Plain
	Remote
)

func (v Variant) String() string {
	switch v {
	case Branded:
		return "branded"
	case Plain:
		return "plain"
	default:
		return "remote_url"
	}
}

// Result is the rendered reference for one payload. PNG is set for Branded and Plain,
// URL for Remote.
type Result struct {
	Variant Variant
	PNG     []byte
	URL     string
}

// Reference returns an embeddable image reference: a PNG data URL or the remote URL.
func (r Result) Reference() string {
	if r.Variant == Remote {
		return r.URL
	}
	return DataURL(r.PNG)
}

// BrandRenderer renders a logo-carrying code. *Compositor implements it.
type BrandRenderer interface {
	Render(text string, size int) (*RasterImage, error)
}

type stage int

const (
	stageBranded stage = iota
	stagePlain
	stageRemote
)

func (s stage) String() string {
	switch s {
	case stageBranded:
		return "branded"
	case stagePlain:
		return "plain"
	default:
		return "remote"
	}
}

// Fallback walks branded -> plain -> remote URL and stops at the first stage that
// succeeds. Each stage runs at most once and failures never leave Render.
type Fallback struct {
	branded  BrandRenderer
	plain    Renderer
	endpoint string
	logger   *zap.Logger
	tracer   trace.Tracer
}

// FallbackOption configures a Fallback.
type FallbackOption func(*Fallback)

// WithTracer replaces the global tracer.
func WithTracer(tracer trace.Tracer) FallbackOption {
	return func(f *Fallback) {
		f.tracer = tracer
	}
}

// WithRemoteEndpoint sets the remote rendering endpoint used by the last stage.
func WithRemoteEndpoint(endpoint string) FallbackOption {
	return func(f *Fallback) {
		if endpoint != "" {
			f.endpoint = endpoint
		}
	}
}

// NewFallback creates the orchestrator. A nil branded renderer skips straight to plain.
func NewFallback(branded BrandRenderer, plain Renderer, logger *zap.Logger, opts ...FallbackOption) *Fallback {
	f := &Fallback{
		branded:  branded,
		plain:    plain,
		endpoint: DefaultRemoteEndpoint,
		logger:   logger,
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Render always returns a Result.
func (f *Fallback) Render(ctx context.Context, kind payload.Kind, text string, size int) Result {
	start := time.Now()
	ctx, span := f.tracer.Start(ctx, "qr.render",
		trace.WithAttributes(
			attribute.String("qr.payload", kind.String()),
			attribute.Int("qr.payload_length", len(text)),
			attribute.Int("qr.size", size),
		),
	)
	defer span.End()

	result := f.run(ctx, kind, text, size)

	span.SetAttributes(attribute.String("qr.variant", result.Variant.String()))
	metrics.RenderResults.WithLabelValues(kind.String(), result.Variant.String()).Inc()
	metrics.RenderDuration.WithLabelValues(kind.String()).Observe(time.Since(start).Seconds())

	f.logger.Debug("QR render completed",
		zap.String("payload", kind.String()),
		zap.String("variant", result.Variant.String()),
		zap.Duration("duration", time.Since(start)),
	)
	return result
}

func (f *Fallback) run(ctx context.Context, kind payload.Kind, text string, size int) Result {
	state := stageBranded
	for {
		switch state {
		case stageBranded:
			if f.branded != nil {
				if png, ok := f.attempt(ctx, state, kind, text, func() (*RasterImage, error) {
					return f.branded.Render(text, size)
				}); ok {
					return Result{Variant: Branded, PNG: png}
				}
			}
			state = stagePlain
		case stagePlain:
			if png, ok := f.attempt(ctx, state, kind, text, func() (*RasterImage, error) {
				return f.plain.Render(text, size, Medium)
			}); ok {
				return Result{Variant: Plain, PNG: png}
			}
			state = stageRemote
		default:
			return Result{Variant: Remote, URL: RemoteURL(f.endpoint, text)}
		}
	}
}

// attempt runs one stage, including PNG encoding, and absorbs any error or panic.
func (f *Fallback) attempt(ctx context.Context, st stage, kind payload.Kind, text string, render func() (*RasterImage, error)) (out []byte, ok bool) {
	_, span := f.tracer.Start(ctx, "qr.stage."+st.String())
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			f.stageFailed(span, st, kind, text, fmt.Errorf("render panic: %v", r), "panic")
			out, ok = nil, false
		}
	}()

	img, err := render()
	if err == nil {
		out, err = img.PNG()
	}
	if err != nil {
		f.stageFailed(span, st, kind, text, err, failureReason(err))
		return nil, false
	}
	return out, true
}

func (f *Fallback) stageFailed(span trace.Span, st stage, kind payload.Kind, text string, err error, reason string) {
	span.RecordError(err)
	span.SetStatus(codes.Error, reason)
	metrics.RenderStageFailures.WithLabelValues(st.String(), reason).Inc()

	f.logger.Warn("QR render stage failed, falling back",
		zap.String("stage", st.String()),
		zap.String("payload", kind.String()),
		zap.Int("data_length", len(text)),
		zap.String("preview", truncateString(text, logPreviewLen)),
		zap.String("reason", reason),
		zap.Error(err),
	)
}

func failureReason(err error) string {
	var encErr *EncodingError
	var assetErr *AssetMissingError
	switch {
	case errors.As(err, &encErr):
		return "encoding"
	case errors.As(err, &assetErr):
		return "asset_missing"
	case errors.Is(err, ErrOcclusion):
		return "occlusion"
	default:
		return "render"
	}
}
