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

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBackendOf(t *testing.T) {
	assert.Equal(t, BackendORM, BackendOf(true))
	assert.Equal(t, BackendRaw, BackendOf(false))
}

func TestParseBackend(t *testing.T) {
	tests := []struct {
		in   string
		want Backend
		ok   bool
	}{
		{"raw", BackendRaw, true},
		{" ORM ", BackendORM, true},
		{"ef", Backend(IllegalValue), false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseBackend(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBackendEnum(t *testing.T) {
	assert.True(t, BackendORM.IsValid())
	assert.Equal(t, 1, BackendORM.Number())
	assert.Equal(t, "orm", BackendORM.String())
	assert.Equal(t, "raw", BackendRaw.Name())
	assert.NotEqual(t, IllegalDesc, BackendRaw.Desc())

	invalid := Backend(9)
	assert.False(t, invalid.IsValid())
	assert.Equal(t, IllegalValue, invalid.Number())
	assert.Equal(t, IllegalName, invalid.Name())
	assert.Equal(t, IllegalDesc, invalid.Desc())
}
