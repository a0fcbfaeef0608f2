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
	"path/filepath"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/crudkit/database"
	"github.com/tomoncle/crudkit/models"
	"github.com/tomoncle/crudkit/repository"
	"github.com/tomoncle/crudkit/types"
)

type capturedLog struct {
	level string
	msg   string
}

// captureLogger records messages for assertions.
type captureLogger struct {
	mu      sync.Mutex
	entries []capturedLog
}

func (c *captureLogger) add(level, msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, capturedLog{level: level, msg: msg})
}

func (c *captureLogger) has(level, msg string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.entries {
		if e.level == level && e.msg == msg {
			return true
		}
	}
	return false
}

func (c *captureLogger) SetLevel(database.LogLevel)          {}
func (c *captureLogger) Debug(msg string, _ ...interface{}) { c.add("debug", msg) }
func (c *captureLogger) Info(msg string, _ ...interface{})  { c.add("info", msg) }
func (c *captureLogger) Warn(msg string, _ ...interface{})  { c.add("warn", msg) }
func (c *captureLogger) Error(msg string, _ ...interface{}) { c.add("error", msg) }

func openFactory(t *testing.T) *database.BaseDatabaseFactory {
	t.Helper()
	cfg := &database.Config{
		ConnectionConfig: *database.DefaultConnectionConfig(),
		ScriptConfig:     database.ScriptConfig{Path: filepath.Join("configs", "sql"), Environment: "dev", RunOnStartup: true},
	}
	cfg.ConnectionConfig.DSN = filepath.Join(t.TempDir(), "store.db")
	cfg.ConnectionConfig.MaxOpenConns = 1

	factory, err := database.Open(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = factory.Close() })
	return factory
}

func TestServiceOnEachBackend(t *testing.T) {
	ctx := context.Background()
	for _, backend := range []types.Backend{types.BackendRaw, types.BackendORM} {
		t.Run(backend.Name(), func(t *testing.T) {
			logger := &captureLogger{}
			svc, err := NewService(backend, openFactory(t).GetManager(), models.ProductMapping,
				WithLogger(logger), WithStatementLog(true))
			require.NoError(t, err)
			assert.Equal(t, backend, svc.Backend())
			assert.Equal(t, "Products", svc.Table())
			assert.True(t, logger.has("info", "Repository ready"))

			p := &models.Product{Name: "Mouse", Price: decimal.RequireFromString("19.99"), Stock: 4}
			require.NoError(t, svc.Add(ctx, p))
			assert.Equal(t, int64(1), p.Id)

			p.Stock = 2
			require.NoError(t, svc.Update(ctx, p))

			got, err := svc.GetByID(ctx, p.Id)
			require.NoError(t, err)
			assert.Equal(t, int64(2), got.MustGet().Stock)

			all, err := svc.ListAll(ctx)
			require.NoError(t, err)
			assert.Len(t, all, 1)

			require.NoError(t, svc.Delete(ctx, p.Id))
			got, err = svc.GetByID(ctx, p.Id)
			require.NoError(t, err)
			assert.True(t, got.IsAbsent())
			assert.True(t, logger.has("debug", "Repository call"))
		})
	}
}

func TestServiceLogsFailures(t *testing.T) {
	logger := &captureLogger{}
	svc, err := NewService(types.BackendRaw, openFactory(t).GetManager(), models.ProductMapping, WithLogger(logger))
	require.NoError(t, err)

	err = svc.Update(context.Background(), &models.Product{Name: "No id"})
	assert.ErrorIs(t, err, repository.ErrInvalidEntity)
	assert.True(t, logger.has("error", "Repository call failed"))
}

func TestNewRepositoryRejectsBadInput(t *testing.T) {
	manager := openFactory(t).GetManager()

	_, err := NewRepository(types.Backend(7), manager, models.ProductMapping)
	assert.ErrorContains(t, err, "unknown repository backend")

	_, err = NewRepository[models.Product](types.BackendRaw, nil, models.ProductMapping)
	assert.Error(t, err)

	_, err = NewRepository[models.Product](types.BackendORM, manager, nil)
	assert.Error(t, err)
}

func TestNewRepositoryNeedsConnection(t *testing.T) {
	cfg := database.DefaultConnectionConfig()
	cfg.DSN = filepath.Join(t.TempDir(), "store.db")
	manager := database.NewDatabaseManager(cfg)

	for _, backend := range []types.Backend{types.BackendRaw, types.BackendORM} {
		_, err := NewRepository(backend, manager, models.ProductMapping)
		assert.ErrorContains(t, err, "database not connected")
	}
}
