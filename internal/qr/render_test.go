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
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestRender_Deterministic(t *testing.T) {
	r := NewRenderer(zaptest.NewLogger(t))

	for _, level := range []Level{Low, Medium, Quartile, High} {
		t.Run(level.String(), func(t *testing.T) {
			first, err := r.Render("#P-0042", 300, level)
			require.NoError(t, err)
			second, err := r.Render("#P-0042", 300, level)
			require.NoError(t, err)

			a, err := first.PNG()
			require.NoError(t, err)
			b, err := second.PNG()
			require.NoError(t, err)
			assert.Equal(t, a, b)
		})
	}
}

func TestRender_ExactSize(t *testing.T) {
	r := NewRenderer(zaptest.NewLogger(t))
	longText := strings.Repeat("product-", 60)

	tests := []struct {
		name string
		text string
		size int
	}{
		{"minimum", "#P-0042", 64},
		{"default", "#P-0042", 300},
		{"odd", "#P-0042", 257},
		{"large", "#P-0042", 1024},
		{"smaller than module grid", longText, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := r.Render(tt.text, tt.size, Medium)
			require.NoError(t, err)
			assert.Equal(t, tt.size, img.Size)
			assert.Equal(t, tt.size, img.Image().Bounds().Dx())
			assert.Equal(t, tt.size, img.Image().Bounds().Dy())
		})
	}
}

func TestRender_InvalidInput(t *testing.T) {
	r := NewRenderer(zaptest.NewLogger(t))

	_, err := r.Render("", 300, Medium)
	assert.ErrorIs(t, err, ErrEmptyData)

	_, err = r.Render("#P-0042", 0, Medium)
	assert.ErrorIs(t, err, ErrInvalidSize)
}

func TestRender_OverCapacity(t *testing.T) {
	r := NewRenderer(zaptest.NewLogger(t))
	text := strings.Repeat("x", 4000)

	_, err := r.Render(text, 300, Low)
	require.Error(t, err)

	var encErr *EncodingError
	require.True(t, errors.As(err, &encErr))
	assert.Equal(t, Low, encErr.Level)
	assert.Equal(t, 4000, encErr.Length)
}

func TestRender_CapacityDependsOnLevel(t *testing.T) {
	r := NewRenderer(zaptest.NewLogger(t))
	// 1500 bytes fits version 40 at Medium but not at High.
	text := strings.Repeat("x", 1500)

	_, err := r.Render(text, 300, Medium)
	assert.NoError(t, err)

	_, err = r.Render(text, 300, High)
	var encErr *EncodingError
	assert.ErrorAs(t, err, &encErr)
}

func TestRender_Decodable(t *testing.T) {
	r := NewRenderer(zaptest.NewLogger(t))

	img, err := r.Render("#P-0042", 300, Medium)
	require.NoError(t, err)
	assert.Equal(t, "#P-0042", scanText(t, img.Image()))
}

func TestLevel_String(t *testing.T) {
	assert.Equal(t, "Quartile", Quartile.String())
	assert.Equal(t, "Level(9)", Level(9).String())
}

func TestDataURL(t *testing.T) {
	assert.Equal(t, "data:image/png;base64,AQID", DataURL([]byte{1, 2, 3}))
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", truncateString("short", 10))
	assert.Equal(t, "ab...", truncateString("abcdef", 2))
	assert.Equal(t, "äö...", truncateString("äöüß", 2))
}
