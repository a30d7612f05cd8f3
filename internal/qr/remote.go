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
	"strings"
)

const (
	// DefaultRemoteEndpoint is the public QR rendering service used as the last resort.
	DefaultRemoteEndpoint = "https://api.qrserver.com/v1/create-qr-code/"
	remoteQuery           = "?size=256x256&format=png&ecc=M&data="
)

// RemoteURL builds the remote rendering reference for text. It performs no I/O.
func RemoteURL(endpoint, text string) string {
	if endpoint == "" {
		endpoint = DefaultRemoteEndpoint
	}
	return endpoint + remoteQuery + EncodeURIComponent(text)
}

const upperHex = "0123456789ABCDEF"

// EncodeURIComponent percent-encodes every UTF-8 byte of s except the unreserved set
// A-Z a-z 0-9 - _ . ! ~ * ' ( ). Unlike url.QueryEscape, spaces become %20.
func EncodeURIComponent(s string) string {
	var b strings.Builder
	b.Grow(len(s) * 3)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isURIUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperHex[c>>4])
		b.WriteByte(upperHex[c&0x0F])
	}
	return b.String()
}

func isURIUnreserved(c byte) bool {
	switch {
	case 'A' <= c && c <= 'Z', 'a' <= c && c <= 'z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}
