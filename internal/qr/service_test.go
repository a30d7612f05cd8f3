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
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/wso2-open-operations/common-tools/operations/product-qr/internal/payload"
)

var fixedNow = time.Date(2024, 5, 1, 10, 30, 0, 123000000, time.UTC)

func newTestService(t *testing.T, logoPath string) Service {
	t.Helper()
	logger := zaptest.NewLogger(t)
	renderer := NewRenderer(logger)
	fallback := NewFallback(NewCompositor(renderer, logoPath, logger), renderer, logger)
	return NewService(renderer, fallback, logger, 64, 2048, WithClock(func() time.Time { return fixedNow }))
}

var widget = payload.Item{ID: 7, Code: "P-0042", Name: "Widget", Price: "19.99"}

func TestGenerateBundle_Branded(t *testing.T) {
	svc := newTestService(t, writeLogo(t))

	bundle, err := svc.GenerateBundle(context.Background(), widget, 300)
	require.NoError(t, err)

	assert.Equal(t, "#P-0042", bundle.Simple.Payload.Text())
	assert.Equal(t, "P-0042", bundle.Barcode)
	assert.Equal(t, Branded, bundle.Simple.Result.Variant)
	assert.Equal(t, Branded, bundle.Structured.Result.Variant)
	assert.True(t, bundle.BrandingSucceeded)

	require.NotNil(t, bundle.Structured.Payload.Record)
	assert.Equal(t, "2024-05-01T10:30:00.123Z", bundle.Structured.Payload.Record.Timestamp)

	structured := decodePNG(t, bundle.Structured.Result.PNG)
	assert.Equal(t, bundle.Structured.Payload.Text(), scanText(t, structured))
	assert.Equal(t, payload.Outcome{Code: "P-0042"}, payload.Decode(scanText(t, structured)))
}

func TestGenerateBundle_BrokenLogoStillComplete(t *testing.T) {
	svc := newTestService(t, filepath.Join(t.TempDir(), "nope", "logo.png"))

	bundle, err := svc.GenerateBundle(context.Background(), widget, 300)
	require.NoError(t, err)

	assert.Equal(t, Plain, bundle.Simple.Result.Variant)
	assert.Equal(t, Plain, bundle.Structured.Result.Variant)
	assert.NotEmpty(t, bundle.Simple.Result.PNG)
	assert.NotEmpty(t, bundle.Structured.Result.PNG)
	assert.False(t, bundle.BrandingSucceeded)
}

func TestGenerateBundle_PartialBranding(t *testing.T) {
	svc := newTestService(t, writeLogo(t))
	item := widget
	item.Name = strings.Repeat("n", 3000)

	bundle, err := svc.GenerateBundle(context.Background(), item, 300)
	require.NoError(t, err)

	assert.Equal(t, Branded, bundle.Simple.Result.Variant)
	assert.Equal(t, Remote, bundle.Structured.Result.Variant)
	assert.True(t, strings.HasPrefix(bundle.Structured.Result.URL, DefaultRemoteEndpoint))
	assert.False(t, bundle.BrandingSucceeded)
}

func TestGenerateBundle_InvalidInput(t *testing.T) {
	svc := newTestService(t, writeLogo(t))

	_, err := svc.GenerateBundle(context.Background(), payload.Item{ID: 1}, 300)
	assert.ErrorIs(t, err, ErrInvalidItem)

	_, err = svc.GenerateBundle(context.Background(), payload.Item{ID: 2, Code: "P-\xff"}, 300)
	assert.ErrorIs(t, err, ErrInvalidItem)

	_, err = svc.GenerateBundle(context.Background(), widget, 32)
	assert.ErrorIs(t, err, ErrInvalidSize)

	_, err = svc.GenerateBundle(context.Background(), widget, 4096)
	assert.ErrorIs(t, err, ErrInvalidSize)
}

func TestGenerate(t *testing.T) {
	svc := newTestService(t, "")

	tests := []struct {
		name    string
		data    []byte
		size    int
		wantErr error
	}{
		{"valid", []byte("https://wso2.com"), 256, nil},
		{"min size", []byte("hello"), 64, nil},
		{"empty data", nil, 256, ErrEmptyData},
		{"size too small", []byte("hello"), 63, ErrInvalidSize},
		{"size too large", []byte("hello"), 2049, ErrInvalidSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			png, err := svc.Generate(tt.data, tt.size)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, png)
				return
			}
			require.NoError(t, err)
			img := decodePNG(t, png)
			assert.Equal(t, tt.size, img.Bounds().Dx())
			assert.Equal(t, string(tt.data), scanText(t, img))
		})
	}
}

func TestGenerate_OverCapacity(t *testing.T) {
	svc := newTestService(t, "")

	_, err := svc.Generate([]byte(strings.Repeat("x", 4000)), 256)

	var encErr *EncodingError
	assert.ErrorAs(t, err, &encErr)
}
