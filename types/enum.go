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

package types

import "strings"

// Common illegal/default values used by enums.
const (
	IllegalValue = -1
	IllegalName  = "unknown"
	IllegalDesc  = "unknown"
)

// BaseEnum represents a basic enum contract used by domain types.
type BaseEnum interface {
	IsValid() bool
	Number() int
	String() string
	Desc() string
	Name() string
}

// Backend selects the repository implementation used for every entity shape.
// It is chosen once at process start.
type Backend int

const (
	BackendRaw Backend = iota
	BackendORM
)

var _ BaseEnum = Backend(0)

// BackendOf maps the use_orm configuration switch to a Backend.
func BackendOf(useORM bool) Backend {
	if useORM {
		return BackendORM
	}
	return BackendRaw
}

// ParseBackend parses "raw" or "orm" (case-insensitive).
func ParseBackend(s string) (Backend, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "raw":
		return BackendRaw, true
	case "orm":
		return BackendORM, true
	default:
		return Backend(IllegalValue), false
	}
}

func (b Backend) IsValid() bool { return b == BackendRaw || b == BackendORM }

func (b Backend) Number() int {
	if !b.IsValid() {
		return IllegalValue
	}
	return int(b)
}

func (b Backend) Name() string {
	switch b {
	case BackendRaw:
		return "raw"
	case BackendORM:
		return "orm"
	default:
		return IllegalName
	}
}

func (b Backend) String() string { return b.Name() }

func (b Backend) Desc() string {
	switch b {
	case BackendRaw:
		return "hand-built parameterized SQL over a direct connection"
	case BackendORM:
		return "bun ORM managed queries"
	default:
		return IllegalDesc
	}
}
