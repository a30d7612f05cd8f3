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

package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/wso2-open-operations/common-tools/operations/product-qr/internal/cache"
)

// CachedRepository serves lookups from a cache and fills it from the wrapped
// Repository. Misses are not cached, and a failing cache never fails a lookup.
type CachedRepository struct {
	next   Repository
	cache  cache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedRepository wraps next with c.
func NewCachedRepository(next Repository, c cache.Cache, ttl time.Duration, logger *zap.Logger) *CachedRepository {
	return &CachedRepository{next: next, cache: c, ttl: ttl, logger: logger}
}

func idKey(id int64) string       { return "catalog:id:" + strconv.FormatInt(id, 10) }
func codeKey(code string) string { return "catalog:code:" + code }

func (r *CachedRepository) FindByID(ctx context.Context, id int64) (*Product, error) {
	return r.lookup(ctx, idKey(id), func() (*Product, error) {
		return r.next.FindByID(ctx, id)
	})
}

func (r *CachedRepository) FindByCode(ctx context.Context, code string) (*Product, error) {
	return r.lookup(ctx, codeKey(code), func() (*Product, error) {
		return r.next.FindByCode(ctx, code)
	})
}

func (r *CachedRepository) lookup(ctx context.Context, key string, load func() (*Product, error)) (*Product, error) {
	if p, ok := r.get(ctx, key); ok {
		return p, nil
	}

	p, err := load()
	if err != nil {
		return nil, err
	}

	r.store(ctx, p)
	return p, nil
}

func (r *CachedRepository) get(ctx context.Context, key string) (*Product, bool) {
	data, err := r.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			r.logger.Warn("Catalog cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var p Product
	if err := json.Unmarshal(data, &p); err != nil {
		r.logger.Warn("Discarding corrupt catalog cache entry", zap.String("key", key), zap.Error(err))
		_ = r.cache.Delete(ctx, key)
		return nil, false
	}
	return &p, true
}

// store indexes p under both its id and its code.
func (r *CachedRepository) store(ctx context.Context, p *Product) {
	data, err := json.Marshal(p)
	if err != nil {
		return
	}
	for _, key := range []string{idKey(p.ID), codeKey(p.Code)} {
		if err := r.cache.Set(ctx, key, data, r.ttl); err != nil {
			r.logger.Warn("Catalog cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
}
