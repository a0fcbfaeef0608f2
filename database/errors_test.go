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

package database

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsSqlErrorClassifiesDrivers(t *testing.T) {
	tests := []struct {
		name string
		err  error
		is   bool
		kind SQLError
	}{
		{"nil", nil, false, UnknownErr},
		{"no rows", fmt.Errorf("wrapped: %w", sql.ErrNoRows), true, NoRowsErr},
		{"mysql duplicate", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}, true, DuplicateKeyErr},
		{"mysql missing table", &mysql.MySQLError{Number: 1146}, true, NoTableErr},
		{"mysql other", &mysql.MySQLError{Number: 1205}, true, UnknownErr},
		{"pq duplicate", &pq.Error{Code: "23505"}, true, DuplicateKeyErr},
		{"pq not null", fmt.Errorf("insert: %w", &pq.Error{Code: "23502"}), true, NotNullViolationErr},
		{"pq other", &pq.Error{Code: "57014"}, true, UnknownErr},
		{"sqlite unique", errors.New("constraint failed: UNIQUE constraint failed: Categorys.Name (2067)"), true, DuplicateKeyErr},
		{"sqlite no table", errors.New("SQL logic error: no such table: Widgets (1)"), true, NoTableErr},
		{"sqlite no column", errors.New("table Widgets has no column named Colour"), true, NoColumnErr},
		{"plain", errors.New("connection refused"), false, UnknownErr},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is, kind := IsSqlError(tt.err)
			assert.Equal(t, tt.is, is)
			assert.Equal(t, tt.kind, kind)
		})
	}
}

func TestSQLErrorString(t *testing.T) {
	assert.Equal(t, "duplicate_key", DuplicateKeyErr.String())
	assert.Equal(t, "unknown", SQLError(99).String())
}
