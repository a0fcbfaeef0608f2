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

package repository

import (
	"errors"
	"fmt"

	"github.com/tomoncle/crudkit/database"
)

var (
	// ErrInvalidEntity is returned by Update when the entity has no identifier.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrTableCollision is returned when two entity shapes map to one table.
	ErrTableCollision = errors.New("table name collision")

	ErrInvalidMapping = errors.New("invalid mapping")
)

// StorageError wraps any failure opening a connection, executing a
// statement or materializing a row.
type StorageError struct {
	Op    string
	Table string
	Kind  database.SQLError
	Err   error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Table, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func newStorageError(op, table string, err error) error {
	_, kind := database.IsSqlError(err)
	return &StorageError{Op: op, Table: table, Kind: kind, Err: err}
}

func invalidEntity(table string) error {
	return fmt.Errorf("%w: %s update requires %s", ErrInvalidEntity, table, IDColumn)
}

// IsDuplicateKey reports whether err is a StorageError caused by a unique
// constraint violation.
func IsDuplicateKey(err error) bool {
	var se *StorageError
	return errors.As(err, &se) && se.Kind == database.DuplicateKeyErr
}
