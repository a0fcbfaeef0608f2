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

	"github.com/jmoiron/sqlx"
	"github.com/tomoncle/crudkit/database"
)

// Dialect holds what the raw engine needs to know about a store: how to
// quote identifiers, which placeholder style to bind with and how the new
// identifier comes back from an insert.
type Dialect struct {
	Name     string
	BindType int

	quote       string
	returning   bool
	emptyInsert string
}

// Dialects of the supported stores.
var (
	MySQL    = Dialect{Name: database.TypeMySQL, BindType: sqlx.QUESTION, quote: "`", emptyInsert: "() VALUES ()"}
	Postgres = Dialect{Name: database.TypePostgres, BindType: sqlx.DOLLAR, quote: `"`, returning: true, emptyInsert: "DEFAULT VALUES"}
	SQLite   = Dialect{Name: database.TypeSQLite, BindType: sqlx.QUESTION, quote: `"`, emptyInsert: "DEFAULT VALUES"}
)

// DialectFor returns the dialect of a database type as accepted by
// database.NormalizeType.
func DialectFor(dbType string) (Dialect, error) {
	switch database.NormalizeType(dbType) {
	case database.TypeMySQL:
		return MySQL, nil
	case database.TypePostgres:
		return Postgres, nil
	case database.TypeSQLite:
		return SQLite, nil
	default:
		return Dialect{}, fmt.Errorf("unsupported database type: %s", dbType)
	}
}

// Quote quotes an identifier, doubling any embedded quote character.
func (d Dialect) Quote(ident string) string {
	return d.quote + strings.ReplaceAll(ident, d.quote, d.quote+d.quote) + d.quote
}

// Returning reports whether inserts read the identifier back with a
// RETURNING clause instead of LastInsertId.
func (d Dialect) Returning() bool { return d.returning }
