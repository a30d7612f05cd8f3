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

// Package payload maps catalog items to the text embedded in product QR codes and
// maps scanned text back to a canonical product code.
package payload

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/spf13/cast"
)

// ErrInvalidCode is returned for a code that cannot survive a JSON round trip.
var ErrInvalidCode = errors.New("code is not valid UTF-8")

const (
	// SimplePrefix marks the short "#<code>" payload.
	SimplePrefix = "#"
	// ProductType is the discriminator written into structured payloads.
	ProductType = "product"
	// TimestampLayout matches the millisecond ISO-8601 form used by existing clients.
	TimestampLayout = "2006-01-02T15:04:05.000Z07:00"
)

// Item is the catalog data a payload is built from.
type Item struct {
	ID    int64
	Code  string
	Name  string
	Price string // decimal text as stored by the catalog
}

// Kind identifies one of the two payload encodings.
type Kind int

const (
	KindSimple Kind = iota
	KindStructured
)

func (k Kind) String() string {
	if k == KindStructured {
		return "structured"
	}
	return "simple"
}

// Record is the self-describing structured payload.
type Record struct {
	Type      string  `json:"type"`
	ID        int64   `json:"id"`
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Timestamp string  `json:"timestamp"`
}

// Payload is a value embedded in a QR code. Record is only set for KindStructured.
type Payload struct {
	Kind   Kind
	Code   string
	Record *Record
	text   string
}

// Text returns the canonical text placed in the QR code.
func (p Payload) Text() string {
	return p.text
}

// EncodeSimple wraps code with the "#" marker. The code is used verbatim.
func EncodeSimple(code string) Payload {
	return Payload{Kind: KindSimple, Code: code, text: SimplePrefix + code}
}

// EncodeStructured builds the structured record for item stamped with ts.
// Codes must be valid UTF-8 so that Decode returns them unchanged.
func EncodeStructured(item Item, ts time.Time) (Payload, error) {
	if !utf8.ValidString(item.Code) {
		return Payload{}, fmt.Errorf("%w: %q", ErrInvalidCode, item.Code)
	}
	record := &Record{
		Type:      ProductType,
		ID:        item.ID,
		Code:      item.Code,
		Name:      item.Name,
		Price:     coercePrice(item.Price),
		Timestamp: ts.UTC().Format(TimestampLayout),
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(record); err != nil {
		return Payload{}, fmt.Errorf("failed to encode structured payload: %w", err)
	}

	return Payload{
		Kind:   KindStructured,
		Code:   item.Code,
		Record: record,
		text:   strings.TrimSuffix(buf.String(), "\n"),
	}, nil
}

// coercePrice returns a finite non-negative price, 0 when raw is absent or not numeric.
func coercePrice(raw string) float64 {
	v, err := cast.ToFloat64E(strings.TrimSpace(raw))
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// Reason explains why scanned text could not be decoded.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonEmpty
	ReasonMissingCode
)

func (r Reason) String() string {
	switch r {
	case ReasonEmpty:
		return "Empty"
	case ReasonMissingCode:
		return "MissingCode"
	default:
		return ""
	}
}

// Outcome is the result of Decode: a canonical code, or a Reason when invalid.
type Outcome struct {
	Code   string
	Reason Reason
}

// OK reports whether the outcome carries a code.
func (o Outcome) OK() bool {
	return o.Reason == ReasonNone
}

// Decode canonicalizes scanned text into a product code.
//
// A JSON object is read as a structured record and only its "code" field matters;
// the "type" field is not checked. Anything else is a "#<code>" or a literal code.
// Malformed JSON is never an error, it falls through to the literal branches.
func Decode(raw string) Outcome {
	text := strings.TrimFunc(raw, isTrimmable)
	if text == "" {
		return Outcome{Reason: ReasonEmpty}
	}

	if record, ok := parseRecord(text); ok {
		code, ok := recordCode(record)
		if !ok {
			return Outcome{Reason: ReasonMissingCode}
		}
		return Outcome{Code: code}
	}

	if strings.HasPrefix(text, SimplePrefix) {
		code := strings.TrimPrefix(text, SimplePrefix)
		if code == "" {
			return Outcome{Reason: ReasonEmpty}
		}
		return Outcome{Code: code}
	}

	return Outcome{Code: text}
}

// isTrimmable also strips the byte order mark some scanners prepend.
func isTrimmable(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}

func parseRecord(text string) (map[string]any, bool) {
	if !strings.HasPrefix(text, "{") {
		return nil, false
	}

	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var record map[string]any
	if err := dec.Decode(&record); err != nil || record == nil {
		return nil, false
	}
	// Trailing data makes the whole text invalid JSON.
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, false
	}
	return record, true
}

func recordCode(record map[string]any) (string, bool) {
	switch v := record["code"].(type) {
	case string:
		return v, v != ""
	case json.Number:
		return v.String(), true
	default:
		return "", false
	}
}
