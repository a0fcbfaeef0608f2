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

package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tomoncle/crudkit/database"
)

func newInitCmd(opts *rootOptions) *cobra.Command {
	var env string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Run the bootstrap SQL scripts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if env != "" {
				cfg.Scripts.Environment = env
			}
			dbCfg := cfg.DatabaseConfig()
			dbCfg.ScriptConfig.RunOnStartup = false

			factory, err := database.Open(cmd.Context(), dbCfg)
			if err != nil {
				return err
			}
			defer func() { _ = factory.Close() }()
			return factory.RunScripts(cmd.Context(), cfg.Scripts)
		},
	}
	cmd.Flags().StringVar(&env, "env", "", "script environment (overrides scripts.environment)")
	return cmd
}
