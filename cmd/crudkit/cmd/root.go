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

// Package cmd provides the crudkit CLI commands.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tomoncle/crudkit/config"
	"github.com/tomoncle/crudkit/utils"
)

type rootOptions struct {
	configFile string
}

// loadConfig reads the configuration and applies its log settings.
func (o *rootOptions) loadConfig() (*config.AppConfig, error) {
	cfg, err := config.Load(o.configFile)
	if err != nil {
		return nil, err
	}
	utils.ConfigureConsoleLogFormat(cfg.Log.Format)
	utils.ConfigureLogLevel(cfg.Log.Level)
	return cfg, nil
}

// NewRootCmd builds a fresh command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "crudkit",
		Short: "Generic single-table CRUD service",
		Long: `crudkit exposes entity shapes as REST collections backed either by
bun or by the raw-mapping SQL engine, selected once at startup.`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (default is ./application.yml or ./configs/application.yml)")

	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newInitCmd(opts))
	cmd.AddCommand(newTablesCmd())
	return cmd
}

// Execute runs the CLI. It is called by main.main().
func Execute() error {
	return NewRootCmd().Execute()
}
