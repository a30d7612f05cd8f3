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

// Package catalog looks up products by id or code in the POS product tables.
package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cast"

	"github.com/wso2-open-operations/common-tools/operations/product-qr/internal/payload"
)

// ErrNotFound is returned when no product matches the lookup.
var ErrNotFound = errors.New("product not found")

// noImage is the placeholder file name the POS stores for products without a picture.
const noImage = "no_image.png"

// Product is a catalog row. Numeric columns are kept as the decimal text the database
// returns so that no precision is lost before display.
type Product struct {
	ID            int64  `json:"id"`
	Code          string `json:"code"`
	Name          string `json:"name"`
	SecondName    string `json:"second_name"`
	Price         string `json:"price"`
	Cost          string `json:"cost"`
	Quantity      string `json:"quantity"`
	AlertQuantity string `json:"alert_quantity"`
	Image         string `json:"image"`
	CategoryName  string `json:"category_name"`
	UnitName      string `json:"unit_name"`
}

// Repository finds products. Both methods return ErrNotFound when nothing matches.
type Repository interface {
	FindByID(ctx context.Context, id int64) (*Product, error)
	FindByCode(ctx context.Context, code string) (*Product, error)
}

// Item returns the fields the payload codec encodes.
func (p *Product) Item() payload.Item {
	return payload.Item{ID: p.ID, Code: p.Code, Name: p.Name, Price: p.Price}
}

// Number parses one of the decimal text columns, 0 when empty or not numeric.
func Number(decimal string) float64 {
	return cast.ToFloat64(strings.TrimSpace(decimal))
}

// ImageURL resolves the product picture against baseURL. It returns "" when the
// product has no picture; absolute URLs are returned unchanged.
func (p *Product) ImageURL(baseURL string) string {
	switch {
	case p.Image == "" || p.Image == noImage:
		return ""
	case strings.HasPrefix(p.Image, "http://"), strings.HasPrefix(p.Image, "https://"):
		return p.Image
	default:
		return strings.TrimSuffix(baseURL, "/") + "/uploads/" + p.Image
	}
}
