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
)

var (
	// ErrEmptyData is returned when there is nothing to encode.
	ErrEmptyData = errors.New("data cannot be empty")
	// ErrInvalidSize is returned for a pixel size outside the accepted range.
	ErrInvalidSize = errors.New("invalid size")
	// ErrInvalidItem is returned when an item has no code to encode, or one
	// that is not valid UTF-8.
	ErrInvalidItem = errors.New("item has no usable code")
	// ErrOcclusion is returned when the badge would hide more modules than
	// High correction can rebuild.
	ErrOcclusion = errors.New("logo badge covers too much of the symbol")
)

// EncodingError reports a payload that does not fit a QR symbol at the requested level.
type EncodingError struct {
	Level  Level
	Length int
	Err    error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("failed to encode %d byte payload at %s correction: %v", e.Length, e.Level, e.Err)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

// AssetMissingError reports a logo that could not be loaded or drawn.
type AssetMissingError struct {
	Path string
	Err  error
}

func (e *AssetMissingError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("logo asset unavailable: %v", e.Err)
	}
	return fmt.Sprintf("logo asset %q unavailable: %v", e.Path, e.Err)
}

func (e *AssetMissingError) Unwrap() error {
	return e.Err
}
