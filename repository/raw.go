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
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/samber/mo"
	"github.com/tomoncle/crudkit/database"
	"github.com/tomoncle/crudkit/types"
)

type rawOptions struct {
	logger database.Logger
}

// RawOption configures NewRawRepository.
type RawOption func(*rawOptions)

// WithStatementLog logs every executed statement and its duration at debug
// level. Bound values are never logged.
func WithStatementLog(logger database.Logger) RawOption {
	return func(o *rawOptions) { o.logger = logger }
}

type rawRepository[T any] struct {
	db      *sqlx.DB
	dialect Dialect
	mapping *Mapping[T]
	stmts   statements
	logger  database.Logger
}

// NewRawRepository returns a Repository that issues parameterized SQL
// built from m and reads rows back through m. Each call checks out its own
// connection from db and releases it before returning.
func NewRawRepository[T any](db *sqlx.DB, dialect Dialect, m *Mapping[T], opts ...RawOption) Repository[T] {
	var o rawOptions
	for _, opt := range opts {
		opt(&o)
	}
	return &rawRepository[T]{
		db:      db,
		dialect: dialect,
		mapping: m,
		stmts:   buildStatements(dialect, m.Table(), m.Columns()),
		logger:  o.logger,
	}
}

func (r *rawRepository[T]) ListAll(ctx context.Context) (entities []*T, err error) {
	conn, err := r.open(ctx, OpListAll)
	if err != nil {
		return nil, err
	}
	defer r.release(conn, OpListAll, &err)

	entities, err = r.query(ctx, conn, OpListAll, r.stmts.listAll)
	if err != nil {
		return nil, err
	}
	return entities, nil
}

func (r *rawRepository[T]) GetByID(ctx context.Context, id int64) (result mo.Option[*T], err error) {
	conn, err := r.open(ctx, OpGetByID)
	if err != nil {
		return mo.None[*T](), err
	}
	defer r.release(conn, OpGetByID, &err)

	entities, err := r.query(ctx, conn, OpGetByID, r.stmts.getByID, id)
	if err != nil {
		return mo.None[*T](), err
	}
	if len(entities) == 0 {
		return mo.None[*T](), nil
	}
	return mo.Some(entities[0]), nil
}

func (r *rawRepository[T]) Add(ctx context.Context, entity *T) (err error) {
	conn, err := r.open(ctx, OpAdd)
	if err != nil {
		return err
	}
	defer r.release(conn, OpAdd, &err)

	args := r.mapping.Values(entity)
	start := time.Now()
	var id int64
	if r.dialect.Returning() {
		err = conn.QueryRowxContext(ctx, r.stmts.add, args...).Scan(&id)
	} else {
		var res sql.Result
		res, err = conn.ExecContext(ctx, r.stmts.add, args...)
		if err == nil {
			id, err = res.LastInsertId()
		}
	}
	r.logStatement(OpAdd, r.stmts.add, start, err)
	if err != nil {
		return newStorageError(OpAdd, r.mapping.Table(), err)
	}
	r.mapping.SetID(entity, id)
	return nil
}

func (r *rawRepository[T]) Update(ctx context.Context, entity *T) (err error) {
	id := r.mapping.ID(entity)
	if id <= 0 {
		return invalidEntity(r.mapping.Table())
	}
	if r.stmts.update == "" {
		return nil
	}

	conn, err := r.open(ctx, OpUpdate)
	if err != nil {
		return err
	}
	defer r.release(conn, OpUpdate, &err)

	args := append(r.mapping.Values(entity), id)
	return r.exec(ctx, conn, OpUpdate, r.stmts.update, args...)
}

func (r *rawRepository[T]) Delete(ctx context.Context, id int64) (err error) {
	conn, err := r.open(ctx, OpDelete)
	if err != nil {
		return err
	}
	defer r.release(conn, OpDelete, &err)

	return r.exec(ctx, conn, OpDelete, r.stmts.delete, id)
}

func (r *rawRepository[T]) open(ctx context.Context, op string) (*sqlx.Conn, error) {
	conn, err := r.db.Connx(ctx)
	if err != nil {
		return nil, newStorageError(op, r.mapping.Table(), err)
	}
	return conn, nil
}

// release closes conn. A close failure is reported only when the operation
// itself succeeded.
func (r *rawRepository[T]) release(conn *sqlx.Conn, op string, err *error) {
	if cerr := conn.Close(); cerr != nil && *err == nil {
		*err = newStorageError(op, r.mapping.Table(), cerr)
	}
}

func (r *rawRepository[T]) exec(ctx context.Context, conn *sqlx.Conn, op, query string, args ...any) error {
	start := time.Now()
	_, err := conn.ExecContext(ctx, query, args...)
	r.logStatement(op, query, start, err)
	if err != nil {
		return newStorageError(op, r.mapping.Table(), err)
	}
	return nil
}

func (r *rawRepository[T]) query(ctx context.Context, conn *sqlx.Conn, op, query string, args ...any) ([]*T, error) {
	start := time.Now()
	rows, err := conn.QueryxContext(ctx, query, args...)
	r.logStatement(op, query, start, err)
	if err != nil {
		return nil, newStorageError(op, r.mapping.Table(), err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, newStorageError(op, r.mapping.Table(), err)
	}
	entities := make([]*T, 0)
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return nil, newStorageError(op, r.mapping.Table(), err)
		}
		entity, err := r.mapping.Materialize(types.NewRow(columns, values))
		if err != nil {
			return nil, newStorageError(op, r.mapping.Table(), err)
		}
		entities = append(entities, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, newStorageError(op, r.mapping.Table(), err)
	}
	return entities, nil
}

func (r *rawRepository[T]) logStatement(op, query string, start time.Time, err error) {
	if r.logger == nil {
		return
	}
	fields := []interface{}{"op", op, "table", r.mapping.Table(), "sql", query, "duration", time.Since(start)}
	if err != nil {
		r.logger.Debug("statement failed", append(fields, "error", err)...)
		return
	}
	r.logger.Debug("statement executed", fields...)
}
