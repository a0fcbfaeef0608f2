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

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"github.com/tomoncle/crudkit/database"
	"github.com/tomoncle/crudkit/types"
)

// EnvPrefix prefixes every environment override, e.g. CRUDKIT_DATABASE_DSN.
const EnvPrefix = "CRUDKIT"

type AppConfig struct {
	Server     ServerConfig              `mapstructure:"server"`
	Log        LogConfig                 `mapstructure:"log"`
	Database   database.ConnectionConfig `mapstructure:"database"`
	Scripts    database.ScriptConfig     `mapstructure:"scripts"`
	Repository RepositoryConfig          `mapstructure:"repository"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr" validate:"required"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" validate:"gte=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" validate:"gte=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gte=0"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"omitempty,oneof=trace debug info warn warning error"`
	Format string `mapstructure:"format" validate:"omitempty,oneof=text json"`
}

// RepositoryConfig selects the repository implementation once at startup.
type RepositoryConfig struct {
	UseORM       bool `mapstructure:"use_orm"`
	StatementLog bool `mapstructure:"statement_log"`
}

// Backend maps use_orm onto the backend enum.
func (c *AppConfig) Backend() types.Backend {
	return types.BackendOf(c.Repository.UseORM)
}

// DatabaseConfig returns the settings consumed by database.Open.
func (c *AppConfig) DatabaseConfig() *database.Config {
	return &database.Config{
		ConnectionConfig: c.Database,
		ScriptConfig:     c.Scripts,
	}
}

func setDefaults(v *viper.Viper) {
	conn := database.DefaultConnectionConfig()
	scripts := database.DefaultScriptConfig()

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("database.type", conn.Type)
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.max_idle_conns", conn.MaxIdleConns)
	v.SetDefault("database.max_open_conns", conn.MaxOpenConns)
	v.SetDefault("database.conn_max_lifetime", conn.ConnMaxLifetime)
	v.SetDefault("database.conn_max_idle_time", conn.ConnMaxIdleTime)
	v.SetDefault("database.connect_timeout", conn.ConnectTimeout)
	v.SetDefault("database.enable_query_log", conn.EnableQueryLog)
	v.SetDefault("database.slow_query_time", conn.SlowQueryTime)

	v.SetDefault("scripts.path", scripts.Path)
	v.SetDefault("scripts.environment", scripts.Environment)
	v.SetDefault("scripts.run_on_startup", false)

	v.SetDefault("repository.use_orm", false)
	v.SetDefault("repository.statement_log", false)
}

// Load reads path, or application.yml from . or ./configs when path is
// empty, overlays CRUDKIT_* environment variables and validates the result.
// A missing application.yml is not an error when path is empty.
func Load(path string) (*AppConfig, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("application")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var validate = validator.New()

// Validate normalizes the database type and checks struct constraints.
func (c *AppConfig) Validate() error {
	c.Database.Type = database.NormalizeType(c.Database.Type)
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
