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
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/skip2/go-qrcode"
)

// Level is the error-correction level of a QR symbol.
type Level int

const (
	Low Level = iota
	Medium
	Quartile
	High
)

func (l Level) String() string {
	switch l {
	case Low:
		return "Low"
	case Medium:
		return "Medium"
	case Quartile:
		return "Quartile"
	case High:
		return "High"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

// recovery maps the level onto go-qrcode, whose names are shifted by one:
// its High is 25% (Q) and Highest is 30% (H).
func (l Level) recovery() qrcode.RecoveryLevel {
	switch l {
	case Low:
		return qrcode.Low
	case Quartile:
		return qrcode.High
	case High:
		return qrcode.Highest
	default:
		return qrcode.Medium
	}
}

// RasterImage is a square bitmap whose edge is always Size pixels.
type RasterImage struct {
	Size int
	img  *image.NRGBA
	// modules is the symbol edge in modules including the quiet zone, 0 when unknown.
	modules int
}

// Image exposes the pixel buffer.
func (r *RasterImage) Image() *image.NRGBA {
	return r.img
}

// PNG encodes the bitmap.
func (r *RasterImage) PNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, r.img); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// DataURL formats PNG bytes as an inline image reference.
func DataURL(pngBytes []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes)
}
