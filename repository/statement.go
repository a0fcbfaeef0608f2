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
	"github.com/samber/lo"
)

// statements is the fixed SQL text of one table. Only identifiers taken
// from the mapping are interpolated; every value is a bound parameter.
type statements struct {
	listAll string
	getByID string
	add     string
	update  string
	delete  string
}

func buildStatements(d Dialect, table string, columns []string) statements {
	t := d.Quote(table)
	id := d.Quote(IDColumn)
	quoted := lo.Map(columns, func(c string, _ int) string { return d.Quote(c) })

	var add string
	if len(columns) == 0 {
		add = fmt.Sprintf("INSERT INTO %s %s", t, d.emptyInsert)
	} else {
		placeholders := lo.Map(columns, func(string, int) string { return "?" })
		add = fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
			t, strings.Join(quoted, ", "), strings.Join(placeholders, ", "))
	}
	if d.returning {
		add += " RETURNING " + id
	}

	var update string
	if len(columns) > 0 {
		sets := lo.Map(quoted, func(c string, _ int) string { return c + " = ?" })
		update = fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?", t, strings.Join(sets, ", "), id)
	}

	rebind := func(q string) string {
		if q == "" {
			return q
		}
		return sqlx.Rebind(d.BindType, q)
	}
	return statements{
		listAll: fmt.Sprintf("SELECT * FROM %s", t),
		getByID: rebind(fmt.Sprintf("SELECT * FROM %s WHERE %s = ?", t, id)),
		add:     rebind(add),
		update:  rebind(update),
		delete:  rebind(fmt.Sprintf("DELETE FROM %s WHERE %s = ?", t, id)),
	}
}
