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

// Package http provides HTTP transport layer for the product QR service.
package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/wso2-open-operations/common-tools/operations/product-qr/internal/catalog"
	"github.com/wso2-open-operations/common-tools/operations/product-qr/internal/metrics"
	"github.com/wso2-open-operations/common-tools/operations/product-qr/internal/payload"
	"github.com/wso2-open-operations/common-tools/operations/product-qr/internal/qr"
	"github.com/wso2-open-operations/common-tools/operations/product-qr/internal/scan"
)

// scanSource tags scan responses for clients that share the endpoint.
const scanSource = "mobile_api"

// HandlerConfig holds the request limits and public facing settings of Handler.
type HandlerConfig struct {
	MaxBodySize   int64
	MinSize       int
	MaxSize       int
	DefaultSize   int
	PublicBaseURL string // derived from the request when empty
	LogoPath      string
	Version       string
}

type Handler struct {
	qr      qr.Service
	scan    *scan.Service
	catalog catalog.Repository
	logger  *zap.Logger
	cfg     HandlerConfig
	started time.Time
}

// NewHandler creates the HTTP handlers for generation, scanning and health.
func NewHandler(qrSvc qr.Service, scanSvc *scan.Service, repo catalog.Repository, logger *zap.Logger, cfg HandlerConfig) *Handler {
	return &Handler{
		qr:      qrSvc,
		scan:    scanSvc,
		catalog: repo,
		logger:  logger,
		cfg:     cfg,
		started: time.Now(),
	}
}

// readBody enforces the body size limit and writes the error response itself
// when it returns ok == false.
func (h *Handler) readBody(w http.ResponseWriter, r *http.Request) (body []byte, ok bool) {
	if r.ContentLength > h.cfg.MaxBodySize {
		h.logger.Warn("Request body too large (ContentLength check)",
			zap.Int64("content_length", r.ContentLength),
			zap.Int64("max_allowed", h.cfg.MaxBodySize),
			zap.String("remote_addr", r.RemoteAddr),
		)
		writeError(w, h.logger, tooLarge())
		return nil, false
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxBodySize)
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r.Body); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.logger.Warn("Request body too large",
				zap.Int64("max_allowed", h.cfg.MaxBodySize),
				zap.String("remote_addr", r.RemoteAddr),
			)
			writeError(w, h.logger, tooLarge())
			return nil, false
		}
		h.logger.Error("failed to read request body", zap.Error(err), zap.String("remote_addr", r.RemoteAddr))
		writeError(w, h.logger, badRequest("Failed to read request body"))
		return nil, false
	}
	return buf.Bytes(), true
}

// size parses the optional size query parameter.
func (h *Handler) size(r *http.Request) (int, error) {
	sizeStr := r.URL.Query().Get("size")
	if sizeStr == "" {
		return h.cfg.DefaultSize, nil
	}
	size, err := strconv.Atoi(sizeStr)
	if err != nil || size < h.cfg.MinSize || size > h.cfg.MaxSize {
		return 0, fmt.Errorf("invalid size parameter: must be between %d and %d", h.cfg.MinSize, h.cfg.MaxSize)
	}
	return size, nil
}

func (h *Handler) baseURL(r *http.Request) string {
	if h.cfg.PublicBaseURL != "" {
		return strings.TrimSuffix(h.cfg.PublicBaseURL, "/")
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + r.Host
}

// Generate handles POST /generate?size={pixels} requests to create QR codes.
// Accepts raw text/URL in body, returns PNG image.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	body, ok := h.readBody(w, r)
	if !ok {
		return
	}
	if len(body) == 0 {
		h.logger.Warn("Empty request body received", zap.String("remote_addr", r.RemoteAddr))
		writeError(w, h.logger, badRequest("Request body is empty"))
		return
	}

	size, err := h.size(r)
	if err != nil {
		writeError(w, h.logger, badRequest(err.Error()))
		return
	}

	png, err := h.qr.Generate(body, size)
	if err != nil {
		var encErr *qr.EncodingError
		if errors.As(err, &encErr) {
			writeError(w, h.logger, unprocessable("Data exceeds QR code capacity"))
			return
		}
		h.logger.Error("failed to generate QR code",
			zap.Error(err),
			zap.Int("data_length", len(body)),
			zap.Int("size", size),
			zap.String("remote_addr", r.RemoteAddr),
		)
		writeError(w, h.logger, internalError())
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(png); err != nil {
		h.logger.Error("failed to write response",
			zap.Error(err),
			zap.Int("png_size", len(png)),
			zap.String("remote_addr", r.RemoteAddr),
		)
		return
	}

	h.logger.Info("QR code request completed successfully",
		zap.Int("data_length", len(body)),
		zap.Int("size", size),
		zap.Int("output_size", len(png)),
	)
}

type productView struct {
	ID       int64   `json:"id"`
	Code     string  `json:"code"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity float64 `json:"quantity"`
	ImageURL *string `json:"image_url"`
}

type renderedView struct {
	Data    string `json:"data"`
	Image   string `json:"image"`
	Variant string `json:"variant"`
}

type bundleResponse struct {
	Success      bool            `json:"success"`
	Product      productView     `json:"product"`
	QRData       *payload.Record `json:"qrData"`
	SimpleFormat string          `json:"simpleFormat"`
	QRCodes      struct {
		Simple     renderedView `json:"simple"`
		Structured renderedView `json:"structured"`
	} `json:"qrCodes"`
	Formats struct {
		Simple     string `json:"simple"`
		Structured string `json:"structured"`
		Barcode    string `json:"barcode"`
		URL        string `json:"url"`
	} `json:"formats"`
	Logo struct {
		Enabled   bool   `json:"enabled"`
		Generated bool   `json:"generated"`
		URL       string `json:"url,omitempty"`
	} `json:"logo"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func rendered(r qr.Rendered) renderedView {
	return renderedView{
		Data:    r.Payload.Text(),
		Image:   r.Result.Reference(),
		Variant: r.Result.Variant.String(),
	}
}

// GenerateProduct handles GET /api/mobile/qr/generate/{productId}?size={pixels}.
func (h *Handler) GenerateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "productId"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, h.logger, badRequest("Invalid product id"))
		return
	}

	size, err := h.size(r)
	if err != nil {
		writeError(w, h.logger, badRequest(err.Error()))
		return
	}

	product, err := h.catalog.FindByID(r.Context(), id)
	if errors.Is(err, catalog.ErrNotFound) {
		writeError(w, h.logger, notFound("Product not found"))
		return
	}
	if err != nil {
		h.logger.Error("failed to load product", zap.Int64("product_id", id), zap.Error(err))
		writeError(w, h.logger, internalError())
		return
	}

	bundle, err := h.qr.GenerateBundle(r.Context(), product.Item(), size)
	if err != nil {
		if errors.Is(err, qr.ErrInvalidItem) {
			writeError(w, h.logger, unprocessable("Product has no code"))
			return
		}
		h.logger.Error("failed to generate QR bundle", zap.Int64("product_id", id), zap.Error(err))
		writeError(w, h.logger, internalError())
		return
	}

	base := h.baseURL(r)
	resp := bundleResponse{
		Success: true,
		Product: productView{
			ID:       product.ID,
			Code:     product.Code,
			Name:     product.Name,
			Price:    catalog.Number(product.Price),
			Quantity: catalog.Number(product.Quantity),
			ImageURL: optional(product.ImageURL(base)),
		},
		QRData:       bundle.Structured.Payload.Record,
		SimpleFormat: bundle.Simple.Payload.Text(),
	}
	resp.QRCodes.Simple = rendered(bundle.Simple)
	resp.QRCodes.Structured = rendered(bundle.Structured)
	resp.Formats.Simple = bundle.Simple.Payload.Text()
	resp.Formats.Structured = bundle.Structured.Payload.Text()
	resp.Formats.Barcode = bundle.Barcode
	resp.Formats.URL = fmt.Sprintf("%s/mobile/product/%d", base, product.ID)
	resp.Logo.Enabled = h.cfg.LogoPath != ""
	resp.Logo.Generated = bundle.BrandingSucceeded
	if resp.Logo.Enabled {
		resp.Logo.URL = base + "/assets/logo"
	}

	writeJSON(w, h.logger, http.StatusOK, resp)
}

type scanProductView struct {
	ID            int64   `json:"id"`
	Code          string  `json:"code"`
	Name          string  `json:"name"`
	SecondName    string  `json:"second_name"`
	Price         float64 `json:"price"`
	Cost          float64 `json:"cost"`
	Quantity      float64 `json:"quantity"`
	AlertQuantity float64 `json:"alert_quantity"`
	CategoryName  string  `json:"category_name"`
	UnitName      string  `json:"unit_name"`
	Image         string  `json:"image"`
	ImageURL      *string `json:"image_url"`
}

// Scan handles POST /api/mobile/qr/scan.
func (h *Handler) Scan(w http.ResponseWriter, r *http.Request) {
	body, ok := h.readBody(w, r)
	if !ok {
		return
	}
	if len(bytes.TrimSpace(body)) == 0 {
		body = []byte("{}")
	}

	details, err := validateScanBody(body)
	if err != nil {
		h.writeMalformedScan(w, "Request body must be a JSON object", nil)
		return
	}
	if len(details) > 0 {
		h.writeMalformedScan(w, "Request body does not match the expected shape", details)
		return
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		h.writeMalformedScan(w, "Request body must be a JSON object", nil)
		return
	}

	result, err := h.scan.Scan(r.Context(), fields)
	if err != nil {
		h.writeScanError(w, fields, err)
		return
	}

	p := result.Product
	writeJSON(w, h.logger, http.StatusOK, map[string]any{
		"success":        true,
		"ok":             true,
		"canonical_code": result.Code,
		"scannedData":    result.Code,
		"source":         scanSource,
		"product": scanProductView{
			ID:            p.ID,
			Code:          p.Code,
			Name:          p.Name,
			SecondName:    p.SecondName,
			Price:         catalog.Number(p.Price),
			Cost:          catalog.Number(p.Cost),
			Quantity:      catalog.Number(p.Quantity),
			AlertQuantity: catalog.Number(p.AlertQuantity),
			CategoryName:  p.CategoryName,
			UnitName:      p.UnitName,
			Image:         p.Image,
			ImageURL:      optional(p.ImageURL(h.baseURL(r))),
		},
	})
}

// writeMalformedScan rejects a body no payload can be read from. Nested alias
// values are skipped by the normalizer too, so both cases are MissingPayload.
func (h *Handler) writeMalformedScan(w http.ResponseWriter, message string, details []fieldError) {
	metrics.ScanResults.WithLabelValues("missing_payload").Inc()
	resp := map[string]any{
		"success": false,
		"ok":      false,
		"reason":  scan.MissingPayload,
		"error":   message,
	}
	if len(details) > 0 {
		resp["details"] = details
	}
	writeJSON(w, h.logger, http.StatusBadRequest, resp)
}

func (h *Handler) writeScanError(w http.ResponseWriter, fields map[string]any, err error) {
	var scanErr *scan.Error
	var nf *scan.NotFoundError

	switch {
	case errors.As(err, &scanErr) && scanErr.Reason == scan.MissingPayload:
		writeJSON(w, h.logger, http.StatusBadRequest, map[string]any{
			"success":      false,
			"ok":           false,
			"reason":       scanErr.Reason,
			"error":        "No QR data provided",
			"receivedBody": fields,
		})
	case errors.As(err, &scanErr):
		writeJSON(w, h.logger, http.StatusBadRequest, map[string]any{
			"success":      false,
			"ok":           false,
			"reason":       scanErr.Reason,
			"detail":       scanErr.Detail.String(),
			"error":        "Invalid QR code format",
			"receivedData": scanErr.Raw,
		})
	case errors.As(err, &nf):
		writeJSON(w, h.logger, http.StatusNotFound, map[string]any{
			"success":      false,
			"ok":           false,
			"error":        "Product not found",
			"searchedCode": nf.Code,
		})
	default:
		h.logger.Error("scan lookup failed", zap.Error(err))
		writeError(w, h.logger, internalError())
	}
}

// Logo serves the configured logo asset.
func (h *Handler) Logo(w http.ResponseWriter, r *http.Request) {
	if _, err := os.Stat(h.cfg.LogoPath); h.cfg.LogoPath == "" || err != nil {
		writeError(w, h.logger, notFound("Logo not available"))
		return
	}
	http.ServeFile(w, r, h.cfg.LogoPath)
}

// HealthCheck handles GET /health requests for liveness/readiness probes.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.logger.Debug("Health check request received",
		zap.String("method", r.Method),
		zap.String("remote_addr", r.RemoteAddr),
	)

	writeJSON(w, h.logger, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(h.started).Round(time.Second).String(),
		"version":   h.cfg.Version,
	})
}
