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
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/tomoncle/crudkit/types"
)

// TableName derives a table name from an entity shape name by appending
// "s". The rule is deliberately naive: "Category" becomes "Categorys".
func TableName(name string) string {
	return name + "s"
}

// Mapping is the compile-time description of an entity shape: its table,
// identifier accessor and ordered non-identifier fields.
type Mapping[T any] struct {
	name    string
	table   string
	id      func(*T) *int64
	fields  []Field[T]
	columns []string
	byCol   map[string]int
}

// NewMapping describes the entity shape name. Fields keep declaration
// order, which fixes the column order of every generated statement.
func NewMapping[T any](name string, id func(*T) *int64, fields ...Field[T]) (*Mapping[T], error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: entity name is required", ErrInvalidMapping)
	}
	if id == nil {
		return nil, fmt.Errorf("%w: %s has no identifier accessor", ErrInvalidMapping, name)
	}
	byCol := make(map[string]int, len(fields))
	for i, f := range fields {
		switch {
		case f.Column == "":
			return nil, fmt.Errorf("%w: %s.%s has no column", ErrInvalidMapping, name, f.Name)
		case f.Column == IDColumn:
			return nil, fmt.Errorf("%w: %s.%s uses the identifier column", ErrInvalidMapping, name, f.Name)
		case f.Get == nil || f.Set == nil:
			return nil, fmt.Errorf("%w: %s.%s has no accessor", ErrInvalidMapping, name, f.Name)
		}
		if _, dup := byCol[f.Column]; dup {
			return nil, fmt.Errorf("%w: %s maps column %s twice", ErrInvalidMapping, name, f.Column)
		}
		byCol[f.Column] = i
	}

	return &Mapping[T]{
		name:    name,
		table:   TableName(name),
		id:      id,
		fields:  append([]Field[T](nil), fields...),
		columns: lo.Map(fields, func(f Field[T], _ int) string { return f.Column }),
		byCol:   byCol,
	}, nil
}

// MustMapping panics when NewMapping fails. It is meant for package-level
// mapping variables.
func MustMapping[T any](m *Mapping[T], err error) *Mapping[T] {
	if err != nil {
		panic(err)
	}
	return m
}

// WithTable returns a copy of the mapping bound to an explicit table name
// instead of the derived one.
func (m *Mapping[T]) WithTable(table string) (*Mapping[T], error) {
	if strings.TrimSpace(table) == "" {
		return nil, fmt.Errorf("%w: %s table name is empty", ErrInvalidMapping, m.name)
	}
	c := *m
	c.table = table
	return &c, nil
}

// Name returns the entity shape name.
func (m *Mapping[T]) Name() string { return m.name }

// Table returns the table the mapping reads and writes.
func (m *Mapping[T]) Table() string { return m.table }

// IDColumn returns the identifier column, always "Id".
func (m *Mapping[T]) IDColumn() string { return IDColumn }

// Columns returns the non-identifier columns in declaration order.
func (m *Mapping[T]) Columns() []string {
	return append([]string(nil), m.columns...)
}

// Fields returns a copy of the field descriptors in declaration order.
func (m *Mapping[T]) Fields() []Field[T] {
	return append([]Field[T](nil), m.fields...)
}

// ID returns the identifier of e; zero means absent.
func (m *Mapping[T]) ID(e *T) int64 { return *m.id(e) }

// SetID writes id into e.
func (m *Mapping[T]) SetID(e *T, id int64) { *m.id(e) = id }

// Values returns the field values of e aligned with Columns.
func (m *Mapping[T]) Values(e *T) []any {
	return lo.Map(m.fields, func(f Field[T], _ int) any { return f.Get(e) })
}

// New returns a zero entity.
func (m *Mapping[T]) New() *T { return new(T) }

// Materialize builds an entity from a row, walking its columns in driver
// order. Columns are matched to fields case-sensitively; fields without a
// column stay at their zero value and unknown columns are ignored.
func (m *Mapping[T]) Materialize(row types.Row) (*T, error) {
	e := m.New()
	for _, col := range row.Columns() {
		v, _ := row.Get(col)
		if col == IDColumn {
			if row.IsNull(col) {
				continue
			}
			id, err := toInt64(driverValue(v))
			if err != nil {
				return nil, fmt.Errorf("materialize %s.%s: %w", m.table, IDColumn, err)
			}
			m.SetID(e, id)
			continue
		}
		i, ok := m.byCol[col]
		if !ok {
			continue
		}
		if err := m.fields[i].Set(e, v); err != nil {
			return nil, fmt.Errorf("materialize %s.%s: %w", m.table, col, err)
		}
	}
	return e, nil
}

// Describe returns the registry view of the mapping.
func (m *Mapping[T]) Describe() TableDescriptor {
	return TableDescriptor{
		Name:     m.name,
		Table:    m.table,
		IDColumn: IDColumn,
		Columns:  m.Columns(),
	}
}
