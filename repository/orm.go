/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package repository

import (
	"context"
	"database/sql"
	"errors"
	"reflect"

	"github.com/samber/mo"
	"github.com/uptrace/bun"
)

type ormRepository[T any] struct {
	db      *bun.DB
	mapping *Mapping[T]
	alias   string
}

// NewORMRepository returns a Repository backed by bun. T must be a bun
// model whose columns match m. Queries target m.Table(), so a mapping built
// with WithTable overrides the model's table tag.
func NewORMRepository[T any](db *bun.DB, m *Mapping[T]) Repository[T] {
	alias := m.Table()
	if table := db.Dialect().Tables().Get(reflect.TypeFor[T]()); table != nil && table.Alias != "" {
		alias = table.Alias
	}
	return &ormRepository[T]{db: db, mapping: m, alias: alias}
}

// table names the mapped table for insert, update and delete.
func (r *ormRepository[T]) table() (string, []interface{}) {
	return "?", []interface{}{bun.Ident(r.mapping.Table())}
}

// aliasedTable names the mapped table under the model alias that bun
// qualifies selected columns with.
func (r *ormRepository[T]) aliasedTable() (string, []interface{}) {
	return "? AS ?", []interface{}{bun.Ident(r.mapping.Table()), bun.Ident(r.alias)}
}

func (r *ormRepository[T]) idEquals(id int64) (string, []interface{}) {
	return "? = ?", []interface{}{bun.Ident(IDColumn), id}
}

func (r *ormRepository[T]) ListAll(ctx context.Context) ([]*T, error) {
	entities := make([]*T, 0)
	expr, args := r.aliasedTable()
	if err := r.db.NewSelect().Model(&entities).ModelTableExpr(expr, args...).Scan(ctx); err != nil {
		return nil, newStorageError(OpListAll, r.mapping.Table(), err)
	}
	return entities, nil
}

func (r *ormRepository[T]) GetByID(ctx context.Context, id int64) (mo.Option[*T], error) {
	entity := r.mapping.New()
	expr, exprArgs := r.aliasedTable()
	query, args := r.idEquals(id)
	err := r.db.NewSelect().Model(entity).ModelTableExpr(expr, exprArgs...).Where(query, args...).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return mo.None[*T](), nil
	}
	if err != nil {
		return mo.None[*T](), newStorageError(OpGetByID, r.mapping.Table(), err)
	}
	return mo.Some(entity), nil
}

func (r *ormRepository[T]) Add(ctx context.Context, entity *T) error {
	r.mapping.SetID(entity, 0)
	expr, args := r.table()
	res, err := r.db.NewInsert().Model(entity).ModelTableExpr(expr, args...).Exec(ctx)
	if err != nil {
		return newStorageError(OpAdd, r.mapping.Table(), err)
	}
	// Dialects without RETURNING leave the key unset.
	if r.mapping.ID(entity) == 0 {
		id, err := res.LastInsertId()
		if err != nil {
			return newStorageError(OpAdd, r.mapping.Table(), err)
		}
		r.mapping.SetID(entity, id)
	}
	return nil
}

func (r *ormRepository[T]) Update(ctx context.Context, entity *T) error {
	id := r.mapping.ID(entity)
	if id <= 0 {
		return invalidEntity(r.mapping.Table())
	}
	expr, exprArgs := r.table()
	query, args := r.idEquals(id)
	if _, err := r.db.NewUpdate().Model(entity).ModelTableExpr(expr, exprArgs...).Where(query, args...).Exec(ctx); err != nil {
		return newStorageError(OpUpdate, r.mapping.Table(), err)
	}
	return nil
}

func (r *ormRepository[T]) Delete(ctx context.Context, id int64) error {
	expr, exprArgs := r.table()
	query, args := r.idEquals(id)
	if _, err := r.db.NewDelete().Model(r.mapping.New()).ModelTableExpr(expr, exprArgs...).Where(query, args...).Exec(ctx); err != nil {
		return newStorageError(OpDelete, r.mapping.Table(), err)
	}
	return nil
}
