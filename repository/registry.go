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
	"fmt"
	"sort"
	"strings"
	"sync"
)

var defaultRegistry = NewRegistry()

// TableDescriptor is the name-level view of a mapping kept by a Registry.
type TableDescriptor struct {
	Name     string   `json:"name" yaml:"name"`
	Table    string   `json:"table" yaml:"table"`
	IDColumn string   `json:"id_column" yaml:"id_column"`
	Columns  []string `json:"columns" yaml:"columns"`
}

// Registry guarantees that no two entity shapes share a table. Table names
// are compared case-insensitively.
type Registry struct {
	mutex   sync.RWMutex
	byTable map[string]TableDescriptor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byTable: make(map[string]TableDescriptor)}
}

// Register records d. Registering the same shape again replaces its entry;
// a different shape claiming the same table fails with ErrTableCollision.
func (r *Registry) Register(d TableDescriptor) error {
	key := strings.ToLower(d.Table)
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if existing, ok := r.byTable[key]; ok && existing.Name != d.Name {
		return fmt.Errorf("%w: %s and %s both map to %s", ErrTableCollision, existing.Name, d.Name, d.Table)
	}
	r.byTable[key] = d
	return nil
}

// Lookup finds the descriptor owning table.
func (r *Registry) Lookup(table string) (TableDescriptor, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	d, ok := r.byTable[strings.ToLower(table)]
	return d, ok
}

// Tables returns every descriptor sorted by table name.
func (r *Registry) Tables() []TableDescriptor {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	result := make([]TableDescriptor, 0, len(r.byTable))
	for _, d := range r.byTable {
		result = append(result, d)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Table < result[j].Table
	})
	return result
}

// DefaultRegistry returns the process-wide registry used by Register.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Register adds m to the default registry.
func Register[T any](m *Mapping[T]) error {
	return defaultRegistry.Register(m.Describe())
}

// MustRegister adds m to the default registry and panics on collision.
func MustRegister[T any](m *Mapping[T]) *Mapping[T] {
	if err := Register(m); err != nil {
		panic(err)
	}
	return m
}
