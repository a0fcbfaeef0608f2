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

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRowPairsColumnsWithValues(t *testing.T) {
	row := NewRow([]string{"Id", "Name", "Note"}, []interface{}{int64(1), []byte("Widget"), nil})

	assert.Equal(t, []string{"Id", "Name", "Note"}, row.Columns())

	v, ok := row.Get("Name")
	require.True(t, ok)
	assert.Equal(t, []byte("Widget"), v)

	assert.True(t, row.IsNull("Note"))
	assert.False(t, row.IsNull("Id"))
	assert.False(t, row.IsNull("Missing"))
}

func TestRowLookupIsCaseSensitive(t *testing.T) {
	row := NewRow([]string{"Name"}, []interface{}{"Widget"})

	_, ok := row.Get("name")
	assert.False(t, ok)
	_, ok = row.Get("Name")
	assert.True(t, ok)
}

func TestNewRowMissingValuesAreNull(t *testing.T) {
	row := NewRow([]string{"A", "B"}, []interface{}{1})

	assert.True(t, row.IsNull("B"))
	assert.Equal(t, []string{"A", "B"}, row.Columns())
}

func TestNewRowDuplicateColumnKeepsLastValue(t *testing.T) {
	row := NewRow([]string{"A", "A"}, []interface{}{1, 2})

	assert.Equal(t, []string{"A"}, row.Columns())
	v, _ := row.Get("A")
	assert.Equal(t, 2, v)
}

func TestRowColumnsReturnsCopy(t *testing.T) {
	row := NewRow([]string{"A"}, []interface{}{1})
	cols := row.Columns()
	cols[0] = "B"

	assert.Equal(t, []string{"A"}, row.Columns())
}
