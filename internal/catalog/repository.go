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
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Dialect selects the bind parameter syntax of the target database.
type Dialect string

const (
	MySQL    Dialect = "mysql"
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// placeholder returns the bind marker for the first query argument.
func (d Dialect) placeholder() string {
	if d == Postgres {
		return "$1"
	}
	return "?"
}

const selectProduct = `
	SELECT
		p.id,
		p.code,
		COALESCE(p.name, ''),
		COALESCE(p.second_name, ''),
		COALESCE(p.price, 0),
		COALESCE(p.cost, 0),
		COALESCE(
			(SELECT SUM(wp.quantity) FROM sma_warehouses_products wp WHERE wp.product_id = p.id),
			p.quantity, 0
		),
		COALESCE(p.alert_quantity, 0),
		COALESCE(p.image, ''),
		COALESCE(c.name, ''),
		COALESCE(u.name, '')
	FROM sma_products p
	LEFT JOIN sma_categories c ON p.category_id = c.id
	LEFT JOIN sma_units u ON p.unit = u.id
	WHERE `

// SQLRepository reads products from the POS schema.
type SQLRepository struct {
	db      *sql.DB
	dialect Dialect
	logger  *zap.Logger
}

// NewSQLRepository creates a repository over an open database handle.
func NewSQLRepository(db *sql.DB, dialect Dialect, logger *zap.Logger) *SQLRepository {
	return &SQLRepository{db: db, dialect: dialect, logger: logger}
}

func (r *SQLRepository) FindByID(ctx context.Context, id int64) (*Product, error) {
	return r.findOne(ctx, "p.id = "+r.dialect.placeholder(), id)
}

func (r *SQLRepository) FindByCode(ctx context.Context, code string) (*Product, error) {
	return r.findOne(ctx, "p.code = "+r.dialect.placeholder(), code)
}

func (r *SQLRepository) findOne(ctx context.Context, where string, arg any) (*Product, error) {
	var p Product
	err := r.db.QueryRowContext(ctx, selectProduct+where, arg).Scan(
		&p.ID,
		&p.Code,
		&p.Name,
		&p.SecondName,
		&p.Price,
		&p.Cost,
		&p.Quantity,
		&p.AlertQuantity,
		&p.Image,
		&p.CategoryName,
		&p.UnitName,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to query product", zap.String("where", where), zap.Any("arg", arg), zap.Error(err))
		return nil, fmt.Errorf("failed to query product: %w", err)
	}
	return &p, nil
}
