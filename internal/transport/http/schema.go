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
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// scanBodySchema accepts any object; the scan aliases must be scalars when present.
const scanBodySchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"properties": {
		"qrData":      {"type": ["string", "number", "boolean", "null"]},
		"data":        {"type": ["string", "number", "boolean", "null"]},
		"scannedData": {"type": ["string", "number", "boolean", "null"]},
		"text":        {"type": ["string", "number", "boolean", "null"]}
	}
}`

var scanSchema = mustSchema(scanBodySchema)

func mustSchema(src string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("invalid embedded JSON schema: %v", err))
	}
	return schema
}

// validateScanBody returns the schema violations of body. A non-nil error means
// body is not JSON at all.
func validateScanBody(body []byte) ([]fieldError, error) {
	result, err := scanSchema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return nil, err
	}
	if result.Valid() {
		return nil, nil
	}

	details := make([]fieldError, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		details = append(details, fieldError{Field: e.Field(), Message: e.Description()})
	}
	return details, nil
}
