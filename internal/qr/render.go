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
	"fmt"
	"unicode/utf8"

	"github.com/disintegration/imaging"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

// logPreviewLen bounds how much payload text ends up in log lines.
const logPreviewLen = 32

// Renderer turns payload text into a QR bitmap of exactly size x size pixels.
type Renderer interface {
	Render(text string, size int, level Level) (*RasterImage, error)
}

type renderer struct {
	logger *zap.Logger
}

// NewRenderer creates a Renderer backed by go-qrcode.
func NewRenderer(logger *zap.Logger) Renderer {
	return &renderer{logger: logger}
}

// Render encodes text at the given correction level. The symbol version is picked
// from the standard capacity table; an EncodingError is returned when no version fits.
// Output is deterministic for identical arguments.
func (r *renderer) Render(text string, size int, level Level) (*RasterImage, error) {
	if text == "" {
		return nil, ErrEmptyData
	}
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}

	code, err := qrcode.New(text, level.recovery())
	if err != nil {
		r.logger.Debug("QR encoding rejected payload",
			zap.String("level", level.String()),
			zap.Int("data_length", len(text)),
			zap.String("preview", truncateString(text, logPreviewLen)),
			zap.Error(err),
		)
		return nil, &EncodingError{Level: level, Length: len(text), Err: err}
	}

	img := imaging.Clone(code.Image(size))
	// go-qrcode never shrinks below one pixel per module; scale back to the requested edge.
	if b := img.Bounds(); b.Dx() != size || b.Dy() != size {
		img = imaging.Resize(img, size, size, imaging.NearestNeighbor)
	}

	r.logger.Debug("QR code rendered",
		zap.String("level", level.String()),
		zap.Int("data_length", len(text)),
		zap.String("image_dimensions", fmt.Sprintf("%dx%d", size, size)),
	)

	return &RasterImage{Size: size, img: img, modules: len(code.Bitmap())}, nil
}

// truncateString truncates a string to maxLen for safe logging with proper UTF-8 handling.
func truncateString(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen]) + "..."
}
