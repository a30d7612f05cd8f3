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

package scan

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/wso2-open-operations/common-tools/operations/product-qr/internal/catalog"
)

type stubCatalog struct {
	products map[string]*catalog.Product
	err      error
	lookups  []string
}

func (s *stubCatalog) FindByID(context.Context, int64) (*catalog.Product, error) {
	return nil, catalog.ErrNotFound
}

func (s *stubCatalog) FindByCode(_ context.Context, code string) (*catalog.Product, error) {
	s.lookups = append(s.lookups, code)
	if s.err != nil {
		return nil, s.err
	}
	if p, ok := s.products[code]; ok {
		return p, nil
	}
	return nil, catalog.ErrNotFound
}

func newStub() *stubCatalog {
	return &stubCatalog{products: map[string]*catalog.Product{
		"P-0042": {ID: 7, Code: "P-0042", Name: "Widget"},
	}}
}

func TestService_Found(t *testing.T) {
	repo := newStub()
	svc := NewService(repo, zaptest.NewLogger(t))

	res, err := svc.Scan(context.Background(), map[string]any{"qrData": `{"type":"product","code":"P-0042"}`})
	require.NoError(t, err)

	assert.Equal(t, "P-0042", res.Code)
	assert.Equal(t, "Widget", res.Product.Name)
	assert.Equal(t, []string{"P-0042"}, repo.lookups)
}

func TestService_NotFound(t *testing.T) {
	svc := NewService(newStub(), zaptest.NewLogger(t))

	_, err := svc.Scan(context.Background(), map[string]any{"text": "#P-9999"})

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "P-9999", nf.Code)
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestService_RejectsWithoutLookup(t *testing.T) {
	repo := newStub()
	svc := NewService(repo, zaptest.NewLogger(t))

	_, err := svc.Scan(context.Background(), map[string]any{})
	var scanErr *Error
	require.ErrorAs(t, err, &scanErr)
	assert.Equal(t, MissingPayload, scanErr.Reason)

	_, err = svc.Scan(context.Background(), map[string]any{"data": " "})
	require.ErrorAs(t, err, &scanErr)
	assert.Equal(t, Invalid, scanErr.Reason)

	assert.Empty(t, repo.lookups)
}

func TestService_CatalogFailure(t *testing.T) {
	repo := newStub()
	repo.err = errors.New("connection refused")
	svc := NewService(repo, zaptest.NewLogger(t))

	_, err := svc.Scan(context.Background(), map[string]any{"qrData": "P-0042"})
	require.Error(t, err)

	var nf *NotFoundError
	assert.False(t, errors.As(err, &nf))
	assert.ErrorIs(t, err, repo.err)
}
