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
)

// Open builds a factory for cfg, connects, and runs the bootstrap scripts
// when cfg.ScriptConfig.RunOnStartup is set. The caller owns the returned
// factory and must Close it.
func Open(ctx context.Context, cfg *Config) (*BaseDatabaseFactory, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database configuration cannot be empty")
	}
	factory := NewDatabaseFactory()
	if _, err := factory.CreateFromConfig(&cfg.ConnectionConfig); err != nil {
		return nil, fmt.Errorf("failed to create database manager: %w", err)
	}

	var scripts *ScriptConfig
	if cfg.ScriptConfig.RunOnStartup {
		scripts = &cfg.ScriptConfig
	}
	if err := factory.InitializeDatabase(ctx, scripts); err != nil {
		_ = factory.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return factory, nil
}
