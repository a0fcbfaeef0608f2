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
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"
	"github.com/uptrace/bun"
)

const (
	TypeMySQL    = "mysql"
	TypePostgres = "postgres"
	TypeSQLite   = "sqlite"
)

// SupportedTypes lists the database types accepted by the factory.
var SupportedTypes = []string{TypeMySQL, TypePostgres, TypeSQLite}

// AbstractDatabaseManager owns one connection pool and exposes it both to
// bun and to sqlx.
type AbstractDatabaseManager interface {
	Connect(ctx context.Context) error
	Disconnect() error
	Ping(ctx context.Context) error
	HealthCheck(ctx context.Context) *HealthStatus
	Type() string
	GetDB() *bun.DB
	GetSQLDB() *sql.DB
	GetSQLX() *sqlx.DB
	GetStats() *DBStats
	SetLogger(logger Logger)
}

// HealthStatus holds the result of a health check against the database.
type HealthStatus struct {
	Healthy       bool          `json:"healthy"`
	Connected     bool          `json:"connected"`
	Type          string        `json:"type,omitempty"`
	ResponseTime  time.Duration `json:"response_time"`
	ActiveConns   int           `json:"active_conns"`
	IdleConns     int           `json:"idle_conns"`
	MaxOpenConns  int           `json:"max_open_conns"`
	LastError     string        `json:"last_error,omitempty"`
	LastCheckTime time.Time     `json:"last_check_time"`
}

// DBStats mirrors database/sql stats returned by the manager.
type DBStats struct {
	MaxOpenConns      int           `json:"max_open_conns"`
	OpenConns         int           `json:"open_conns"`
	InUse             int           `json:"in_use"`
	Idle              int           `json:"idle"`
	WaitCount         int64         `json:"wait_count"`
	WaitDuration      time.Duration `json:"wait_duration"`
	MaxIdleClosed     int64         `json:"max_idle_closed"`
	MaxIdleTimeClosed int64         `json:"max_idle_time_closed"`
	MaxLifetimeClosed int64         `json:"max_lifetime_closed"`
}

// ConnectionConfig describes how to reach a database and tune its pool.
type ConnectionConfig struct {
	Type            string        `json:"type" mapstructure:"type" yaml:"type" validate:"required,oneof=mysql postgres sqlite"`
	DSN             string        `json:"dsn" mapstructure:"dsn" yaml:"dsn" validate:"required"`
	MaxIdleConns    int           `json:"max_idle_conns" mapstructure:"max_idle_conns" yaml:"max_idle_conns" validate:"gte=0"`
	MaxOpenConns    int           `json:"max_open_conns" mapstructure:"max_open_conns" yaml:"max_open_conns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime" mapstructure:"conn_max_lifetime" yaml:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `json:"conn_max_idle_time" mapstructure:"conn_max_idle_time" yaml:"conn_max_idle_time"`
	ConnectTimeout  time.Duration `json:"connect_timeout" mapstructure:"connect_timeout" yaml:"connect_timeout"`
	EnableQueryLog  bool          `json:"enable_query_log" mapstructure:"enable_query_log" yaml:"enable_query_log"`
	SlowQueryTime   time.Duration `json:"slow_query_time" mapstructure:"slow_query_time" yaml:"slow_query_time"`
}

// ScriptConfig controls the bootstrap SQL scripts.
type ScriptConfig struct {
	Path         string `json:"path" mapstructure:"path" yaml:"path"`
	Environment  string `json:"environment" mapstructure:"environment" yaml:"environment"`
	RunOnStartup bool   `json:"run_on_startup" mapstructure:"run_on_startup" yaml:"run_on_startup"`
}

// Config aggregates connection and bootstrap script settings.
type Config struct {
	ConnectionConfig ConnectionConfig `json:"connection_config" mapstructure:"connection"`
	ScriptConfig     ScriptConfig     `json:"script_config" mapstructure:"scripts"`
}

// DefaultConnectionConfig returns a connection config with sensible defaults.
func DefaultConnectionConfig() *ConnectionConfig {
	return &ConnectionConfig{
		Type:            TypeSQLite,
		MaxIdleConns:    10,
		MaxOpenConns:    100,
		ConnMaxLifetime: time.Hour,
		ConnMaxIdleTime: time.Minute * 30,
		ConnectTimeout:  time.Second * 10,
		EnableQueryLog:  false,
		SlowQueryTime:   time.Second * 2,
	}
}

// DefaultScriptConfig points at configs/sql for the "dev" environment.
func DefaultScriptConfig() ScriptConfig {
	return ScriptConfig{Path: "configs/sql", Environment: "dev"}
}

// NormalizeType folds driver aliases into one of SupportedTypes.
func NormalizeType(t string) string {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case "postgres", "postgresql", "pg":
		return TypePostgres
	case "sqlite", "sqlite3":
		return TypeSQLite
	case "mysql", "mariadb":
		return TypeMySQL
	default:
		return strings.ToLower(strings.TrimSpace(t))
	}
}

// Validate checks the database type and requires a non-empty connection
// string.
func (c *ConnectionConfig) Validate() error {
	if c == nil {
		return fmt.Errorf("database configuration cannot be empty")
	}
	c.Type = NormalizeType(c.Type)
	if !lo.Contains(SupportedTypes, c.Type) {
		return fmt.Errorf("unsupported database type: %s, supported types: %v", c.Type, SupportedTypes)
	}
	if strings.TrimSpace(c.DSN) == "" {
		return fmt.Errorf("database connection string is not configured")
	}
	return nil
}
