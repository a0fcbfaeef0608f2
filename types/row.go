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

package types

// Row is one result record as an ordered mapping from column name to a
// nullable scalar value. Column order is the order reported by the driver.
type Row struct {
	columns []string
	values  map[string]interface{}
}

// NewRow pairs columns with the scanned values at the same positions. Extra
// values without a column are dropped; missing values are treated as NULL.
func NewRow(columns []string, values []interface{}) Row {
	r := Row{
		columns: make([]string, 0, len(columns)),
		values:  make(map[string]interface{}, len(columns)),
	}
	for i, col := range columns {
		var v interface{}
		if i < len(values) {
			v = values[i]
		}
		if _, dup := r.values[col]; !dup {
			r.columns = append(r.columns, col)
		}
		r.values[col] = v
	}
	return r
}

// Columns returns the column names in driver order.
func (r Row) Columns() []string {
	out := make([]string, len(r.columns))
	copy(out, r.columns)
	return out
}

// Get returns the value for column and whether the column is present.
// Lookups are case-sensitive.
func (r Row) Get(column string) (interface{}, bool) {
	v, ok := r.values[column]
	return v, ok
}

// IsNull reports whether column is present and holds NULL.
func (r Row) IsNull(column string) bool {
	v, ok := r.values[column]
	return ok && v == nil
}
