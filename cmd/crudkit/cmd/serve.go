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
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tomoncle/crudkit"
	"github.com/tomoncle/crudkit/api"
	"github.com/tomoncle/crudkit/config"
	"github.com/tomoncle/crudkit/database"
	"github.com/tomoncle/crudkit/models"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
}

// buildHandler wires repositories for the sample models onto a router.
func buildHandler(cfg *config.AppConfig, factory *database.BaseDatabaseFactory) (http.Handler, error) {
	serviceOpts := []crudkit.Option{crudkit.WithStatementLog(cfg.Repository.StatementLog)}
	products, err := crudkit.NewService(cfg.Backend(), factory.GetManager(), models.ProductMapping, serviceOpts...)
	if err != nil {
		return nil, fmt.Errorf("products: %w", err)
	}
	categories, err := crudkit.NewService(cfg.Backend(), factory.GetManager(), models.CategoryMapping, serviceOpts...)
	if err != nil {
		return nil, fmt.Errorf("categories: %w", err)
	}
	return api.NewRouter(factory,
		api.NewResourceHandler("/products", products, models.ProductMapping),
		api.NewResourceHandler("/categories", categories, models.CategoryMapping),
	), nil
}

func serve(ctx context.Context, cfg *config.AppConfig) error {
	factory, err := database.Open(ctx, cfg.DatabaseConfig())
	if err != nil {
		return err
	}
	defer func() { _ = factory.Close() }()

	handler, err := buildHandler(cfg, factory)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	logger := database.GetLogger()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "addr", cfg.Server.Addr, "backend", cfg.Backend().Name())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	logger.Info("Shutting down HTTP server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
