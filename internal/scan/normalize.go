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

// Package scan turns the loosely shaped bodies sent by scanning clients into a
// canonical product code and resolves it against the catalog.
package scan

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cast"

	"github.com/wso2-open-operations/common-tools/operations/product-qr/internal/payload"
)

// Aliases are the body fields that may carry scanned text, highest priority first.
var Aliases = []string{"qrData", "data", "scannedData", "text"}

// Reason is the top level scan rejection.
type Reason string

const (
	MissingPayload Reason = "MissingPayload"
	Invalid        Reason = "Invalid"
)

// Error rejects a scan request. Raw holds the text that failed to decode and
// Received the body keys that were present, for diagnosing misconfigured clients.
type Error struct {
	Reason   Reason
	Detail   payload.Reason
	Raw      string
	Received []string
}

func (e *Error) Error() string {
	if e.Reason == MissingPayload {
		return fmt.Sprintf("no scan data in any of %v (received keys %v)", Aliases, e.Received)
	}
	return fmt.Sprintf("invalid scan data %q: %s", e.Raw, e.Detail)
}

// Extract returns the first alias holding a usable value. Strings are used as
// sent, numbers and true are stringified; empty strings, false, null and nested
// values count as absent.
func Extract(fields map[string]any) (string, bool) {
	for _, alias := range Aliases {
		if text, ok := scalarText(fields[alias]); ok && text != "" {
			return text, true
		}
	}
	return "", false
}

func scalarText(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case bool:
		if !t {
			return "", false
		}
		return "true", true
	case map[string]any, []any:
		return "", false
	default:
		s, err := cast.ToStringE(t)
		return s, err == nil
	}
}

// Normalize extracts the scanned text and decodes it into a canonical code.
// Failures are always *Error.
func Normalize(fields map[string]any) (string, error) {
	raw, ok := Extract(fields)
	if !ok {
		return "", &Error{Reason: MissingPayload, Received: keys(fields)}
	}

	outcome := payload.Decode(raw)
	if !outcome.OK() {
		return "", &Error{Reason: Invalid, Detail: outcome.Reason, Raw: raw}
	}
	return outcome.Code, nil
}

func keys(fields map[string]any) []string {
	out := make([]string, 0, len(fields))
	for k := range fields {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
