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
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
	"golang.org/x/image/vector"
)

const (
	// logoPercent caps the badge at 15% of the frame, which High correction absorbs.
	logoPercent = 15
	haloPadding = 8
	ringWidth   = 1
	// kappa places cubic control points so four curves approximate a circle.
	kappa = 0.5522847498
	// quietZone is the blank border go-qrcode draws around the symbol, in modules.
	quietZone = 4
	// maxOcclusion is the share of data modules the badge may hide; High
	// rebuilds up to 30% of codewords.
	maxOcclusion = 0.25
	// minModulePixels is the smallest module edge a badge is drawn over.
	minModulePixels = 2
)

var (
	haloColor   = color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	shadowColor = color.NRGBA{A: 0x1A} // 10% black
	ringColor   = color.NRGBA{R: 0xE0, G: 0xE0, B: 0xE0, A: 0xFF}
)

// LogoSize returns the logo edge in pixels for a frame of size pixels: floor(size * 0.15).
func LogoSize(size int) int {
	return size * logoPercent / 100
}

// Compositor renders QR codes carrying a circular logo badge in their center.
type Compositor struct {
	renderer Renderer
	logoPath string
	logger   *zap.Logger
}

// NewCompositor creates a Compositor that reads its logo from logoPath on every render.
func NewCompositor(renderer Renderer, logoPath string, logger *zap.Logger) *Compositor {
	return &Compositor{
		renderer: renderer,
		logoPath: logoPath,
		logger:   logger,
	}
}

// LogoPath returns the configured logo location.
func (c *Compositor) LogoPath() string {
	return c.logoPath
}

// Render draws text at High correction and overlays the logo badge.
func (c *Compositor) Render(text string, size int) (*RasterImage, error) {
	logo, err := c.loadLogo()
	if err != nil {
		return nil, err
	}

	base, err := c.renderer.Render(text, size, High)
	if err != nil {
		return nil, err
	}

	branded, err := Overlay(base, logo)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("Logo overlay completed",
		zap.Int("size", size),
		zap.Int("logo_size", LogoSize(size)),
	)
	return branded, nil
}

func (c *Compositor) loadLogo() (image.Image, error) {
	if c.logoPath == "" {
		return nil, &AssetMissingError{Err: errors.New("logo path not configured")}
	}
	logo, err := imaging.Open(c.logoPath)
	if err != nil {
		return nil, &AssetMissingError{Path: c.logoPath, Err: err}
	}
	return logo, nil
}

// Overlay paints the badge onto base and returns it: a translucent shadow disc,
// the white halo, the scaled logo and a thin gray ring. Dimensions never change.
// A panic while drawing is reported as an AssetMissingError. ErrOcclusion is
// returned, with base untouched, when the badge would hide too many modules.
func Overlay(base *RasterImage, logo image.Image) (result *RasterImage, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &AssetMissingError{Err: fmt.Errorf("drawing surface: %v", r)}
		}
	}()

	size := base.Size
	logoSize := LogoSize(size)
	if logoSize <= 0 {
		return nil, fmt.Errorf("%w: %dpx frame is too small for a logo", ErrInvalidSize, size)
	}

	center := float32(size) / 2
	radius := float32(logoSize)/2 + haloPadding

	if err := checkOcclusion(base, radius); err != nil {
		return nil, err
	}

	dst := base.img
	fillDisc(dst, center+1, center+1, radius+1, shadowColor)
	fillDisc(dst, center, center, radius, haloColor)

	scaled := imaging.Resize(logo, logoSize, logoSize, imaging.Lanczos)
	offset := (size - logoSize) / 2
	dst = imaging.Overlay(dst, scaled, image.Pt(offset, offset), 1.0)

	strokeRing(dst, center, center, radius, ringColor)

	base.img = dst
	return base, nil
}

// checkOcclusion estimates the data modules hidden under the badge, ring
// included. Bases of unknown geometry are not checked.
func checkOcclusion(base *RasterImage, radius float32) error {
	side := base.modules - 2*quietZone
	if side <= 0 {
		return nil
	}
	// go-qrcode draws whole pixels per module and centers the symbol; below one
	// pixel per module the renderer scales the bitmap down.
	ppm := float64(base.Size) / float64(base.modules)
	if ppm >= 1 {
		ppm = math.Floor(ppm)
	}
	if ppm < minModulePixels {
		return fmt.Errorf("%w: %.2fpx per module at %dpx", ErrOcclusion, ppm, base.Size)
	}

	r := float64(radius) + ringWidth/2.0
	share := math.Pi * r * r / (ppm * ppm) / float64(side*side)
	if share > maxOcclusion {
		return fmt.Errorf("%w: %.0f%% of modules at %dpx", ErrOcclusion, share*100, base.Size)
	}
	return nil
}

func fillDisc(dst draw.Image, cx, cy, r float32, c color.Color) {
	b := dst.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	circlePath(z, cx, cy, r, true)
	z.Draw(dst, b, image.NewUniform(c), image.Point{})
}

// strokeRing fills the annulus between two opposite-wound circles.
func strokeRing(dst draw.Image, cx, cy, r float32, c color.Color) {
	b := dst.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	circlePath(z, cx, cy, r+ringWidth/2.0, true)
	circlePath(z, cx, cy, r-ringWidth/2.0, false)
	z.Draw(dst, b, image.NewUniform(c), image.Point{})
}

func circlePath(z *vector.Rasterizer, cx, cy, r float32, clockwise bool) {
	k := r * kappa
	z.MoveTo(cx+r, cy)
	if clockwise {
		z.CubeTo(cx+r, cy+k, cx+k, cy+r, cx, cy+r)
		z.CubeTo(cx-k, cy+r, cx-r, cy+k, cx-r, cy)
		z.CubeTo(cx-r, cy-k, cx-k, cy-r, cx, cy-r)
		z.CubeTo(cx+k, cy-r, cx+r, cy-k, cx+r, cy)
	} else {
		z.CubeTo(cx+r, cy-k, cx+k, cy-r, cx, cy-r)
		z.CubeTo(cx-k, cy-r, cx-r, cy-k, cx-r, cy)
		z.CubeTo(cx-r, cy+k, cx-k, cy+r, cx, cy+r)
		z.CubeTo(cx+k, cy+r, cx+r, cy+k, cx+r, cy)
	}
	z.ClosePath()
}
