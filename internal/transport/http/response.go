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

package http

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// apiError is the structured error body shared by all JSON endpoints.
type apiError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func badRequest(message string) *apiError {
	return &apiError{StatusCode: http.StatusBadRequest, Code: "BAD_REQUEST", Message: message}
}

func notFound(message string) *apiError {
	return &apiError{StatusCode: http.StatusNotFound, Code: "NOT_FOUND", Message: message}
}

func unprocessable(message string) *apiError {
	return &apiError{StatusCode: http.StatusUnprocessableEntity, Code: "UNPROCESSABLE_ENTITY", Message: message}
}

func tooLarge() *apiError {
	return &apiError{StatusCode: http.StatusRequestEntityTooLarge, Code: "PAYLOAD_TOO_LARGE", Message: "Request body too large"}
}

func internalError() *apiError {
	return &apiError{StatusCode: http.StatusInternalServerError, Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}
}

// writeJSON encodes v with the given status. Encoding failures can only be logged
// because the header is already sent.
func writeJSON(w http.ResponseWriter, logger *zap.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		logger.Error("failed to encode response", zap.Int("status", status), zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, logger *zap.Logger, e *apiError) {
	writeJSON(w, logger, e.StatusCode, map[string]any{
		"success": false,
		"error":   e,
	})
}
