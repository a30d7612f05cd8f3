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
	"path/filepath"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/wso2-open-operations/common-tools/operations/product-qr/internal/payload"
)

type brandFunc func(text string, size int) (*RasterImage, error)

func (f brandFunc) Render(text string, size int) (*RasterImage, error) {
	return f(text, size)
}

func newTestFallback(t *testing.T, logoPath string, opts ...FallbackOption) *Fallback {
	t.Helper()
	logger := zaptest.NewLogger(t)
	renderer := NewRenderer(logger)
	return NewFallback(NewCompositor(renderer, logoPath, logger), renderer, logger, opts...)
}

func TestFallback_Branded(t *testing.T) {
	f := newTestFallback(t, writeLogo(t))

	result := f.Render(context.Background(), payload.KindSimple, "#P-0042", 300)

	assert.Equal(t, Branded, result.Variant)
	assert.Empty(t, result.URL)
	img := decodePNG(t, result.PNG)
	assert.Equal(t, 300, img.Bounds().Dx())
	assert.True(t, strings.HasPrefix(result.Reference(), "data:image/png;base64,"))
}

func TestFallback_AssetMissingFallsBackToPlain(t *testing.T) {
	f := newTestFallback(t, filepath.Join(t.TempDir(), "missing.png"))

	result := f.Render(context.Background(), payload.KindSimple, "#P-0042", 300)

	require.Equal(t, Plain, result.Variant)
	img := decodePNG(t, result.PNG)
	assert.Equal(t, "#P-0042", scanText(t, img))
}

func TestFallback_SmallFrameFallsBackToPlain(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	f := newTestFallback(t, writeLogo(t), WithTracer(provider.Tracer("test")))

	for _, size := range []int{64, 80} {
		result := f.Render(context.Background(), payload.KindSimple, "#P-0042", size)

		require.Equal(t, Plain, result.Variant, "size %d", size)
		assert.Equal(t, "#P-0042", scanText(t, decodePNG(t, result.PNG)), "size %d", size)
	}

	for _, s := range recorder.Ended() {
		if s.Name() == "qr.stage.branded" {
			assert.Equal(t, "occlusion", s.Status().Description)
		}
	}
}

func TestFallback_OverCapacityFallsBackToRemote(t *testing.T) {
	f := newTestFallback(t, writeLogo(t))
	text := strings.Repeat("x", 4000)

	result := f.Render(context.Background(), payload.KindStructured, text, 300)

	assert.Equal(t, Remote, result.Variant)
	assert.Nil(t, result.PNG)
	assert.Equal(t, RemoteURL(DefaultRemoteEndpoint, text), result.URL)
	assert.Equal(t, result.URL, result.Reference())
}

func TestFallback_TooLongForHighFitsMedium(t *testing.T) {
	f := newTestFallback(t, writeLogo(t))

	result := f.Render(context.Background(), payload.KindStructured, strings.Repeat("x", 1500), 300)

	assert.Equal(t, Plain, result.Variant)
}

func TestFallback_BrandedPanicIsAbsorbed(t *testing.T) {
	logger := zaptest.NewLogger(t)
	calls := 0
	panicky := brandFunc(func(string, int) (*RasterImage, error) {
		calls++
		panic("surface allocation failed")
	})
	f := NewFallback(panicky, NewRenderer(logger), logger)

	result := f.Render(context.Background(), payload.KindSimple, "#P-0042", 300)

	assert.Equal(t, Plain, result.Variant)
	assert.Equal(t, 1, calls)
}

func TestFallback_EachStageAttemptedOnce(t *testing.T) {
	logger := zaptest.NewLogger(t)
	brandCalls, plainCalls := 0, 0
	branded := brandFunc(func(string, int) (*RasterImage, error) {
		brandCalls++
		return nil, &AssetMissingError{Path: "logo.png", Err: errors.New("gone")}
	})
	plain := renderFunc(func(string, int, Level) (*RasterImage, error) {
		plainCalls++
		return nil, &EncodingError{Level: Medium, Err: errors.New("too long")}
	})
	f := NewFallback(branded, plain, logger, WithRemoteEndpoint("https://qr.example.com/"))

	result := f.Render(context.Background(), payload.KindSimple, "#P-0042", 300)

	assert.Equal(t, Remote, result.Variant)
	assert.Equal(t, "https://qr.example.com/?size=256x256&format=png&ecc=M&data=%23P-0042", result.URL)
	assert.Equal(t, 1, brandCalls)
	assert.Equal(t, 1, plainCalls)
}

func TestFallback_NilBrandedSkipsToPlain(t *testing.T) {
	logger := zaptest.NewLogger(t)
	f := NewFallback(nil, NewRenderer(logger), logger)

	result := f.Render(context.Background(), payload.KindSimple, "#P-0042", 128)

	assert.Equal(t, Plain, result.Variant)
}

func TestFallback_Spans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	f := newTestFallback(t, filepath.Join(t.TempDir(), "missing.png"), WithTracer(provider.Tracer("test")))

	f.Render(context.Background(), payload.KindSimple, "#P-0042", 300)

	spans := map[string]sdktrace.ReadOnlySpan{}
	for _, s := range recorder.Ended() {
		spans[s.Name()] = s
	}
	require.Contains(t, spans, "qr.render")
	require.Contains(t, spans, "qr.stage.branded")
	require.Contains(t, spans, "qr.stage.plain")

	assert.Equal(t, codes.Error, spans["qr.stage.branded"].Status().Code)
	assert.Equal(t, "asset_missing", spans["qr.stage.branded"].Status().Description)
	assert.NotEqual(t, codes.Error, spans["qr.stage.plain"].Status().Code)
	assert.Equal(t, spans["qr.render"].SpanContext().SpanID(), spans["qr.stage.plain"].Parent().SpanID())
}

func TestFallback_NeverFails(t *testing.T) {
	f := NewFallback(NewCompositor(NewRenderer(zap.NewNop()), "", zap.NewNop()), NewRenderer(zap.NewNop()), zap.NewNop())

	properties := gopter.NewProperties(gopter.DefaultTestParameters())
	properties.Property("every payload yields a usable reference", prop.ForAll(
		func(text string) bool {
			result := f.Render(context.Background(), payload.KindSimple, text, 64)
			switch result.Variant {
			case Plain:
				return len(result.PNG) > 0
			case Remote:
				return strings.HasPrefix(result.URL, DefaultRemoteEndpoint)
			default:
				return false
			}
		},
		gen.AnyString(),
	))
	properties.TestingRun(t)
}

func TestFailureReason(t *testing.T) {
	assert.Equal(t, "encoding", failureReason(&EncodingError{Err: errors.New("x")}))
	assert.Equal(t, "asset_missing", failureReason(&AssetMissingError{Err: errors.New("x")}))
	assert.Equal(t, "occlusion", failureReason(fmt.Errorf("%w: 30%%", ErrOcclusion)))
	assert.Equal(t, "render", failureReason(ErrEmptyData))
}

func TestVariant_String(t *testing.T) {
	assert.Equal(t, "branded", Branded.String())
	assert.Equal(t, "plain", Plain.String())
	assert.Equal(t, "remote_url", Remote.String())
}

type renderFunc func(text string, size int, level Level) (*RasterImage, error)

func (f renderFunc) Render(text string, size int, level Level) (*RasterImage, error) {
	return f(text, size, level)
}
