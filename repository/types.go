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
	"context"

	"github.com/samber/mo"
)

// IDColumn is the identifier column every mapped table carries. Identifiers
// are assigned by the store; zero means "not assigned yet".
const IDColumn = "Id"

// Operation names carried by StorageError.
const (
	OpListAll = "list_all"
	OpGetByID = "get_by_id"
	OpAdd     = "add"
	OpUpdate  = "update"
	OpDelete  = "delete"
)

// Repository is the whole-row CRUD contract shared by the raw-mapping and
// ORM-backed implementations.
type Repository[T any] interface {
	// ListAll returns every row of the table in store order. An empty table
	// yields an empty, non-nil slice.
	ListAll(ctx context.Context) ([]*T, error)

	// GetByID returns mo.None when no row has the identifier.
	GetByID(ctx context.Context, id int64) (mo.Option[*T], error)

	// Add inserts every non-identifier field and writes the store-assigned
	// identifier back into entity. A caller-supplied identifier is ignored.
	Add(ctx context.Context, entity *T) error

	// Update replaces every non-identifier column of the row matching the
	// entity identifier. It fails with ErrInvalidEntity when the identifier
	// is not set and is a no-op when no row matches.
	Update(ctx context.Context, entity *T) error

	// Delete removes the row if present.
	Delete(ctx context.Context, id int64) error
}
