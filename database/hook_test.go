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
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/uptrace/bun"
)

func TestStatementOperation(t *testing.T) {
	assert.Equal(t, "SELECT", StatementOperation(`  select * FROM "A"`))
	assert.Equal(t, "INSERT", StatementOperation(`INSERT INTO "A" DEFAULT VALUES`))
	assert.Equal(t, "WITH", StatementOperation("with x as (select 1) select * from x"))
	assert.Equal(t, "", StatementOperation(""))
}

func TestColorizeStatementKeepsQuery(t *testing.T) {
	q := `DELETE FROM "A" WHERE "Id" = ?`
	assert.Contains(t, ColorizeStatement(q), q)
}

func TestQueryHookWritesStatement(t *testing.T) {
	var buf bytes.Buffer
	h := NewQueryHook(&buf)

	h.AfterQuery(context.Background(), &bun.QueryEvent{
		Query:     `SELECT * FROM "Products"`,
		StartTime: time.Now(),
	})
	assert.Contains(t, buf.String(), `SELECT * FROM "Products"`)

	buf.Reset()
	h.AfterQuery(context.Background(), &bun.QueryEvent{
		Query:     `INSERT INTO "Products" DEFAULT VALUES`,
		StartTime: time.Now(),
		Err:       errors.New("boom"),
	})
	assert.Contains(t, buf.String(), "boom")
}

func TestQueryHookDisabledByEnv(t *testing.T) {
	t.Setenv(QueryLogEnv, "0")
	var buf bytes.Buffer
	NewQueryHook(&buf).AfterQuery(context.Background(), &bun.QueryEvent{Query: "SELECT 1", StartTime: time.Now()})
	assert.Empty(t, buf.String())
}

func TestSlowQueryHook(t *testing.T) {
	logger := &recordingLogger{}
	h := &slowQueryHook{slowTime: time.Millisecond, logger: logger}

	h.AfterQuery(context.Background(), &bun.QueryEvent{Query: "SELECT 1", StartTime: time.Now().Add(-time.Second)})
	h.AfterQuery(context.Background(), &bun.QueryEvent{Query: "SELECT 2", StartTime: time.Now().Add(time.Hour)})

	assert.Equal(t, []string{"Database slow query detected"}, logger.messages())
}

func TestToFields(t *testing.T) {
	fields := toFields([]interface{}{"table", "Products", "rows", 2, "dangling"})
	assert.Equal(t, "Products", fields["table"])
	assert.Equal(t, 2, fields["rows"])
	assert.Equal(t, "dangling", fields["extra"])
}

func TestGetLoggerDefault(t *testing.T) {
	l := GetLogger()
	assert.NotNil(t, l)
	assert.Same(t, l, GetLogger())
}
