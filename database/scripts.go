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
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/uptrace/bun"
)

const commonScripts = "common"

var scriptOrderPattern = regexp.MustCompile(`^(\d+)_`)

// ScriptRunner executes bootstrap *.sql files: everything under
// <root>/common, then <root>/environments/<env>, each group ordered by the
// numeric file name prefix.
type ScriptRunner struct {
	db          *bun.DB
	root        string
	environment string
	logger      Logger
}

// ScriptFile describes one SQL file to execute.
type ScriptFile struct {
	Path        string
	Name        string
	Order       int
	Environment string
}

// ExecutionResult contains the outcome of executing a single SQL file.
type ExecutionResult struct {
	File         string
	Success      bool
	Error        error
	Duration     time.Duration
	RowsAffected int64
}

func NewScriptRunner(db *bun.DB, cfg ScriptConfig) *ScriptRunner {
	root := cfg.Path
	if root == "" {
		root = DefaultScriptConfig().Path
	}
	return &ScriptRunner{
		db:          db,
		root:        root,
		environment: cfg.Environment,
		logger:      GetLogger(),
	}
}

func (s *ScriptRunner) SetLogger(logger Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// Run executes every script in one transaction per file and stops at the
// first failure.
func (s *ScriptRunner) Run(ctx context.Context) ([]ExecutionResult, error) {
	s.logger.Info("Starting SQL initialization", "environment", s.environment, "sql_path", s.root)

	files, err := s.Files()
	if err != nil {
		return nil, fmt.Errorf("failed to get SQL files: %w", err)
	}
	if len(files) == 0 {
		s.logger.Info("No SQL files found to execute")
		return nil, nil
	}

	results := make([]ExecutionResult, 0, len(files))
	for _, file := range files {
		result := s.executeFile(ctx, file)
		results = append(results, result)
		if !result.Success {
			s.logger.Error("SQL file execution failed", "file", result.File, "error", result.Error)
			return results, fmt.Errorf("SQL file execution failed %s: %w", result.File, result.Error)
		}
		s.logger.Info("SQL file executed successfully",
			"file", result.File,
			"duration", result.Duration.String(),
			"rows_affected", result.RowsAffected,
		)
	}

	s.logger.Info("SQL initialization completed", "total_files", len(results), "environment", s.environment)
	return results, nil
}

// Files lists the scripts in execution order. A missing common or
// environment directory contributes nothing.
func (s *ScriptRunner) Files() ([]ScriptFile, error) {
	files, err := s.filesFromDir(filepath.Join(s.root, commonScripts), commonScripts)
	if err != nil {
		return nil, fmt.Errorf("failed to get common SQL files: %w", err)
	}

	if s.environment != "" {
		envFiles, err := s.filesFromDir(filepath.Join(s.root, "environments", s.environment), s.environment)
		if err != nil {
			return nil, fmt.Errorf("failed to get environment SQL files: %w", err)
		}
		files = append(files, envFiles...)
	}

	sort.SliceStable(files, func(i, j int) bool {
		if files[i].Environment != files[j].Environment {
			return files[i].Environment == commonScripts
		}
		if files[i].Order != files[j].Order {
			return files[i].Order < files[j].Order
		}
		return files[i].Name < files[j].Name
	})
	return files, nil
}

func (s *ScriptRunner) filesFromDir(dir, environment string) ([]ScriptFile, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}

	var files []ScriptFile
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".sql") {
			return nil
		}
		files = append(files, ScriptFile{
			Path:        path,
			Name:        d.Name(),
			Order:       parseScriptOrder(d.Name()),
			Environment: environment,
		})
		return nil
	})
	return files, err
}

// parseScriptOrder reads the numeric prefix of "001_schema.sql". Files
// without one run last.
func parseScriptOrder(filename string) int {
	matches := scriptOrderPattern.FindStringSubmatch(filename)
	if len(matches) > 1 {
		if order, err := strconv.Atoi(matches[1]); err == nil {
			return order
		}
	}
	return 999
}

func (s *ScriptRunner) executeFile(ctx context.Context, file ScriptFile) ExecutionResult {
	start := time.Now()
	result := ExecutionResult{File: file.Path}

	content, err := os.ReadFile(file.Path)
	if err != nil {
		result.Error = fmt.Errorf("failed to read file: %w", err)
		result.Duration = time.Since(start)
		return result
	}

	statements, err := SplitStatements(string(content))
	if err != nil {
		result.Error = err
		result.Duration = time.Since(start)
		return result
	}
	if len(statements) == 0 {
		result.Success = true
		result.Duration = time.Since(start)
		return result
	}

	err = s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var total int64
		for _, stmt := range statements {
			res, execErr := tx.ExecContext(ctx, stmt)
			if execErr != nil {
				return fmt.Errorf("failed to execute SQL statement: %s, error: %w", stmt, execErr)
			}
			n, _ := res.RowsAffected()
			total += n
		}
		result.RowsAffected = total
		return nil
	})
	if err != nil {
		result.Error = err
	} else {
		result.Success = true
	}
	result.Duration = time.Since(start)
	return result
}

// maxScriptLine bounds a single script line.
const maxScriptLine = 16 << 20

// SplitStatements splits a script on lines ending with ";". Blank lines and
// "--" comment lines are dropped. A line longer than the scanner limit is an
// error rather than a truncated script.
func SplitStatements(content string) ([]string, error) {
	var statements []string
	var current strings.Builder

	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), maxScriptLine)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		current.WriteString(line)
		current.WriteString(" ")

		if strings.HasSuffix(line, ";") {
			if stmt := strings.TrimSpace(current.String()); stmt != "" {
				statements = append(statements, stmt)
			}
			current.Reset()
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to split statements: %w", err)
	}
	if stmt := strings.TrimSpace(current.String()); stmt != "" {
		statements = append(statements, stmt)
	}
	return statements, nil
}
