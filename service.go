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

package crudkit

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/samber/mo"
	"github.com/tomoncle/crudkit/database"
	"github.com/tomoncle/crudkit/repository"
	"github.com/tomoncle/crudkit/types"
	"github.com/uptrace/bun"
)

// Source is the connection side of a service. database.AbstractDatabaseManager
// satisfies it.
type Source interface {
	Type() string
	GetDB() *bun.DB
	GetSQLX() *sqlx.DB
}

// Service is a repository bound to one backend at construction time.
type Service[T any] interface {
	repository.Repository[T]

	// Backend reports which implementation serves the calls.
	Backend() types.Backend

	// Table returns the mapped table name.
	Table() string
}

// Option customizes NewService.
type Option func(*options)

type options struct {
	logger       database.Logger
	statementLog bool
}

// WithLogger replaces the service logger.
func WithLogger(logger database.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithStatementLog makes the raw backend log every statement it executes.
func WithStatementLog(enabled bool) Option {
	return func(o *options) { o.statementLog = enabled }
}

type baseServiceImpl[T any] struct {
	repo    repository.Repository[T]
	backend types.Backend
	table   string
	logger  database.Logger
}

// NewRepository builds the repository implementation selected by backend.
func NewRepository[T any](backend types.Backend, src Source, m *repository.Mapping[T], opts ...repository.RawOption) (repository.Repository[T], error) {
	if src == nil || m == nil {
		return nil, fmt.Errorf("repository needs a connection source and a mapping")
	}
	switch backend {
	case types.BackendORM:
		db := src.GetDB()
		if db == nil {
			return nil, fmt.Errorf("database not connected")
		}
		return repository.NewORMRepository(db, m), nil
	case types.BackendRaw:
		db := src.GetSQLX()
		if db == nil {
			return nil, fmt.Errorf("database not connected")
		}
		dialect, err := repository.DialectFor(src.Type())
		if err != nil {
			return nil, err
		}
		return repository.NewRawRepository(db, dialect, m, opts...), nil
	default:
		return nil, fmt.Errorf("unknown repository backend: %d", backend)
	}
}

// NewService returns a Service for m using the backend chosen at startup.
func NewService[T any](backend types.Backend, src Source, m *repository.Mapping[T], opts ...Option) (Service[T], error) {
	o := options{logger: database.NewDefaultLogger("SERVICE")}
	for _, opt := range opts {
		opt(&o)
	}

	var rawOpts []repository.RawOption
	if o.statementLog {
		rawOpts = append(rawOpts, repository.WithStatementLog(o.logger))
	}
	repo, err := NewRepository(backend, src, m, rawOpts...)
	if err != nil {
		return nil, err
	}
	o.logger.Info("Repository ready", "table", m.Table(), "backend", backend.Name())
	return &baseServiceImpl[T]{repo: repo, backend: backend, table: m.Table(), logger: o.logger}, nil
}

func (s *baseServiceImpl[T]) Backend() types.Backend { return s.backend }

func (s *baseServiceImpl[T]) Table() string { return s.table }

func (s *baseServiceImpl[T]) ListAll(ctx context.Context) ([]*T, error) {
	start := time.Now()
	entities, err := s.repo.ListAll(ctx)
	s.trace(repository.OpListAll, start, err, "rows", len(entities))
	return entities, err
}

func (s *baseServiceImpl[T]) GetByID(ctx context.Context, id int64) (mo.Option[*T], error) {
	start := time.Now()
	result, err := s.repo.GetByID(ctx, id)
	s.trace(repository.OpGetByID, start, err, "id", id, "found", result.IsPresent())
	return result, err
}

func (s *baseServiceImpl[T]) Add(ctx context.Context, entity *T) error {
	start := time.Now()
	err := s.repo.Add(ctx, entity)
	s.trace(repository.OpAdd, start, err)
	return err
}

func (s *baseServiceImpl[T]) Update(ctx context.Context, entity *T) error {
	start := time.Now()
	err := s.repo.Update(ctx, entity)
	s.trace(repository.OpUpdate, start, err)
	return err
}

func (s *baseServiceImpl[T]) Delete(ctx context.Context, id int64) error {
	start := time.Now()
	err := s.repo.Delete(ctx, id)
	s.trace(repository.OpDelete, start, err, "id", id)
	return err
}

func (s *baseServiceImpl[T]) trace(op string, start time.Time, err error, fields ...interface{}) {
	fields = append([]interface{}{"op", op, "table", s.table, "duration", time.Since(start)}, fields...)
	if err != nil {
		s.logger.Error("Repository call failed", append(fields, "error", err)...)
		return
	}
	s.logger.Debug("Repository call", fields...)
}
