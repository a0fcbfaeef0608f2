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
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cast"
	"github.com/uptrace/bun"
)

// BaseDatabaseFactory creates and manages a configured database manager and
// provides helpers for initialization, health checks, and statistics.
type BaseDatabaseFactory struct {
	manager AbstractDatabaseManager
	logger  Logger
}

// NewDatabaseFactory returns a new database factory using the global logger.
func NewDatabaseFactory() *BaseDatabaseFactory {
	return &BaseDatabaseFactory{
		logger: GetLogger(),
	}
}

// CreateFromConfig constructs a database manager from the given connection
// configuration, applying environment overrides and setting the factory logger.
func (f *BaseDatabaseFactory) CreateFromConfig(cfg *ConnectionConfig) (AbstractDatabaseManager, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database configuration cannot be empty")
	}

	f.overrideFromEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	manager := NewDatabaseManager(cfg)
	manager.SetLogger(f.logger)

	f.manager = manager
	return manager, nil
}

// overrideFromEnv overrides configuration values from DB_* environment
// variables. Unparsable values are ignored.
func (f *BaseDatabaseFactory) overrideFromEnv(cfg *ConnectionConfig) {
	if t := os.Getenv("DB_TYPE"); t != "" {
		cfg.Type = t
	}
	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		cfg.DSN = dsn
	}
	if v := os.Getenv("DB_MAX_IDLE_CONNS"); v != "" {
		if n, err := cast.ToIntE(v); err == nil {
			cfg.MaxIdleConns = n
		}
	}
	if v := os.Getenv("DB_MAX_OPEN_CONNS"); v != "" {
		if n, err := cast.ToIntE(v); err == nil {
			cfg.MaxOpenConns = n
		}
	}
	if v := os.Getenv("DB_CONN_MAX_LIFETIME"); v != "" {
		if n, err := cast.ToIntE(v); err == nil {
			cfg.ConnMaxLifetime = time.Duration(n) * time.Second
		}
	}
	if v := os.Getenv("DB_ENABLE_QUERY_LOG"); v != "" {
		if b, err := cast.ToBoolE(v); err == nil {
			cfg.EnableQueryLog = b
		}
	}
	if v := os.Getenv("DB_SLOW_QUERY_TIME"); v != "" {
		if d, err := cast.ToDurationE(v); err == nil {
			cfg.SlowQueryTime = d
		}
	}
}

// InitializeDatabase connects to the database and, when scripts is not nil,
// runs the bootstrap SQL scripts.
func (f *BaseDatabaseFactory) InitializeDatabase(ctx context.Context, scripts *ScriptConfig) error {
	if f.manager == nil {
		return fmt.Errorf("database manager not created")
	}
	if err := f.manager.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if scripts != nil {
		if err := f.RunScripts(ctx, *scripts); err != nil {
			return err
		}
	}
	f.logger.Info("Database initialization completed!")
	return nil
}

// RunScripts executes the bootstrap SQL scripts on the managed connection.
func (f *BaseDatabaseFactory) RunScripts(ctx context.Context, cfg ScriptConfig) error {
	db := f.GetDB()
	if db == nil {
		return fmt.Errorf("database not initialized")
	}
	runner := NewScriptRunner(db, cfg)
	runner.SetLogger(f.logger)
	if _, err := runner.Run(ctx); err != nil {
		return fmt.Errorf("failed to run bootstrap scripts: %w", err)
	}
	return nil
}

// GetManager returns the underlying database manager.
func (f *BaseDatabaseFactory) GetManager() AbstractDatabaseManager {
	return f.manager
}

// GetDB returns the bun database instance, or nil if not initialized.
func (f *BaseDatabaseFactory) GetDB() *bun.DB {
	if f.manager == nil {
		return nil
	}
	return f.manager.GetDB()
}

// GetSQLX returns the sqlx handle sharing the bun connection pool.
func (f *BaseDatabaseFactory) GetSQLX() *sqlx.DB {
	if f.manager == nil {
		return nil
	}
	return f.manager.GetSQLX()
}

// SetLogger sets the logger on the factory and the underlying manager.
func (f *BaseDatabaseFactory) SetLogger(logger Logger) {
	if logger == nil {
		return
	}
	f.logger = logger
	if f.manager != nil {
		f.manager.SetLogger(logger)
	}
}

// Close closes the database connection managed by the factory.
func (f *BaseDatabaseFactory) Close() error {
	if f.manager == nil {
		return nil
	}
	return f.manager.Disconnect()
}

// GetHealthStatus returns the current database health status from the manager.
func (f *BaseDatabaseFactory) GetHealthStatus(ctx context.Context) *HealthStatus {
	if f.manager == nil {
		return &HealthStatus{
			Healthy:       false,
			Connected:     false,
			LastError:     "Database manager not initialized",
			LastCheckTime: time.Now(),
		}
	}
	return f.manager.HealthCheck(ctx)
}

// GetStats returns database connection statistics from the manager.
func (f *BaseDatabaseFactory) GetStats() *DBStats {
	if f.manager == nil {
		return &DBStats{}
	}
	return f.manager.GetStats()
}
