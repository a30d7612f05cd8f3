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
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"
)

// writeLogo saves a solid square logo into a temp dir and returns its path.
func writeLogo(t *testing.T) string {
	t.Helper()
	logo := imaging.New(96, 96, color.NRGBA{R: 0xC8, G: 0x1E, B: 0x1E, A: 0xFF})
	path := filepath.Join(t.TempDir(), "logo.png")
	require.NoError(t, imaging.Save(logo, path))
	return path
}

// writeGarbage creates a file that exists but is not an image.
func writeGarbage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "logo.png")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o600))
	return path
}

func decodePNG(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img
}

// scanText reads a QR symbol back from img.
func scanText(t *testing.T, img image.Image) string {
	t.Helper()
	text, err := ReadText(img)
	require.NoError(t, err)
	return text
}
