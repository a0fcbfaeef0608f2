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
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialectFor(t *testing.T) {
	d, err := DialectFor("postgresql")
	require.NoError(t, err)
	assert.Equal(t, Postgres, d)
	assert.True(t, d.Returning())

	d, err = DialectFor("sqlite3")
	require.NoError(t, err)
	assert.Equal(t, sqlx.QUESTION, d.BindType)
	assert.False(t, d.Returning())

	d, err = DialectFor("mysql")
	require.NoError(t, err)
	assert.Equal(t, "`Name`", d.Quote("Name"))

	_, err = DialectFor("oracle")
	assert.Error(t, err)
}

func TestQuoteEscapesEmbeddedQuotes(t *testing.T) {
	assert.Equal(t, `"odd""name"`, SQLite.Quote(`odd"name`))
	assert.Equal(t, "`odd``name`", MySQL.Quote("odd`name"))
}

func TestBuildStatementsSQLite(t *testing.T) {
	s := buildStatements(SQLite, "Widgets", []string{"Name", "Price"})

	assert.Equal(t, `SELECT * FROM "Widgets"`, s.listAll)
	assert.Equal(t, `SELECT * FROM "Widgets" WHERE "Id" = ?`, s.getByID)
	assert.Equal(t, `INSERT INTO "Widgets" ("Name", "Price") VALUES (?, ?)`, s.add)
	assert.Equal(t, `UPDATE "Widgets" SET "Name" = ?, "Price" = ? WHERE "Id" = ?`, s.update)
	assert.Equal(t, `DELETE FROM "Widgets" WHERE "Id" = ?`, s.delete)
}

func TestBuildStatementsPostgres(t *testing.T) {
	s := buildStatements(Postgres, "Widgets", []string{"Name", "Price"})

	assert.Equal(t, `SELECT * FROM "Widgets" WHERE "Id" = $1`, s.getByID)
	assert.Equal(t, `INSERT INTO "Widgets" ("Name", "Price") VALUES ($1, $2) RETURNING "Id"`, s.add)
	assert.Equal(t, `UPDATE "Widgets" SET "Name" = $1, "Price" = $2 WHERE "Id" = $3`, s.update)
	assert.Equal(t, `DELETE FROM "Widgets" WHERE "Id" = $1`, s.delete)
}

func TestBuildStatementsMySQL(t *testing.T) {
	s := buildStatements(MySQL, "Widgets", []string{"Name"})

	assert.Equal(t, "SELECT * FROM `Widgets`", s.listAll)
	assert.Equal(t, "INSERT INTO `Widgets` (`Name`) VALUES (?)", s.add)
	assert.Equal(t, "UPDATE `Widgets` SET `Name` = ? WHERE `Id` = ?", s.update)
}

func TestBuildStatementsWithoutColumns(t *testing.T) {
	assert.Equal(t, `INSERT INTO "Ids" DEFAULT VALUES`, buildStatements(SQLite, "Ids", nil).add)
	assert.Equal(t, `INSERT INTO "Ids" DEFAULT VALUES RETURNING "Id"`, buildStatements(Postgres, "Ids", nil).add)
	assert.Equal(t, "INSERT INTO `Ids` () VALUES ()", buildStatements(MySQL, "Ids", nil).add)
	assert.Empty(t, buildStatements(SQLite, "Ids", nil).update)
}
