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

// Package repository implements a generic single-table CRUD repository.
//
// Entity shapes are described once with a Mapping built from explicit field
// descriptors. The same mapping drives two interchangeable implementations:
// NewRawRepository issues parameterized SQL through sqlx and materializes
// rows field by field, NewORMRepository delegates to bun.
package repository
