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

package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"github.com/tomoncle/crudkit/database"
	"github.com/tomoncle/crudkit/repository"
)

type gadget struct {
	Id   int64  `json:"id"`
	Name string `json:"name" validate:"required,max=10"`
	Size int64  `json:"size" validate:"gte=0"`
}

var gadgetMapping = repository.MustMapping[gadget](repository.NewMapping("Gadget",
	func(g *gadget) *int64 { return &g.Id },
	repository.StringField("Name", func(g *gadget) *string { return &g.Name }),
	repository.Int64Field("Size", func(g *gadget) *int64 { return &g.Size }),
))

// memoryRepo is an in-memory Repository. A non-nil err fails every call.
type memoryRepo struct {
	mu   sync.Mutex
	rows map[int64]gadget
	next int64
	err  error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{rows: map[int64]gadget{}}
}

func (m *memoryRepo) ListAll(context.Context) ([]*gadget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]*gadget, 0, len(m.rows))
	for _, g := range m.rows {
		g := g
		out = append(out, &g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Id < out[j].Id })
	return out, nil
}

func (m *memoryRepo) GetByID(_ context.Context, id int64) (mo.Option[*gadget], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return mo.None[*gadget](), m.err
	}
	g, ok := m.rows[id]
	if !ok {
		return mo.None[*gadget](), nil
	}
	return mo.Some(&g), nil
}

func (m *memoryRepo) Add(_ context.Context, g *gadget) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.next++
	g.Id = m.next
	m.rows[g.Id] = *g
	return nil
}

func (m *memoryRepo) Update(_ context.Context, g *gadget) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.rows[g.Id]; ok {
		m.rows[g.Id] = *g
	}
	return nil
}

func (m *memoryRepo) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	delete(m.rows, id)
	return nil
}

type fixedHealth struct{ healthy bool }

func (f fixedHealth) GetHealthStatus(context.Context) *database.HealthStatus {
	return &database.HealthStatus{Healthy: f.healthy, Connected: f.healthy, Type: database.TypeSQLite}
}

func newTestServer(t *testing.T, repo *memoryRepo) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewRouter(fixedHealth{healthy: true},
		NewResourceHandler[gadget]("/gadgets", repo, gadgetMapping)))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path, body string) (int, gjson.Result) {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var buf strings.Builder
	_, err = io.Copy(&buf, resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, gjson.Parse(buf.String())
}

func TestResourceLifecycle(t *testing.T) {
	srv := newTestServer(t, newMemoryRepo())

	code, body := do(t, srv, http.MethodGet, "/gadgets", "")
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, body.IsArray())
	assert.Empty(t, body.Array())

	code, body = do(t, srv, http.MethodPost, "/gadgets", `{"id": 99, "name": "Lamp", "size": 2}`)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, int64(1), body.Get("id").Int())
	assert.Equal(t, "Lamp", body.Get("name").String())

	code, body = do(t, srv, http.MethodGet, "/gadgets/1", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(2), body.Get("size").Int())

	code, _ = do(t, srv, http.MethodPut, "/gadgets/1", `{"id": 5, "name": "Desk lamp", "size": 3}`)
	assert.Equal(t, http.StatusNoContent, code)

	code, body = do(t, srv, http.MethodGet, "/gadgets", "")
	assert.Equal(t, http.StatusOK, code)
	require.Len(t, body.Array(), 1)
	assert.Equal(t, "Desk lamp", body.Get("0.name").String())
	assert.Equal(t, int64(1), body.Get("0.id").Int())

	code, _ = do(t, srv, http.MethodDelete, "/gadgets/1", "")
	assert.Equal(t, http.StatusNoContent, code)

	code, body = do(t, srv, http.MethodGet, "/gadgets/1", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Gadget not found", body.Get("error").String())
}

func TestResourceRejectsBadInput(t *testing.T) {
	srv := newTestServer(t, newMemoryRepo())

	cases := []struct {
		name, method, path, body string
		want                     string
	}{
		{"zero id", http.MethodGet, "/gadgets/0", "", "invalid id"},
		{"non numeric id", http.MethodDelete, "/gadgets/abc", "", "invalid id"},
		{"malformed json", http.MethodPost, "/gadgets", `{"name":`, "invalid JSON body"},
		{"missing name", http.MethodPost, "/gadgets", `{"size": 1}`, "validation failed"},
		{"negative size", http.MethodPut, "/gadgets/1", `{"name": "Lamp", "size": -1}`, "validation failed"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, body := do(t, srv, tc.method, tc.path, tc.body)
			assert.Equal(t, http.StatusBadRequest, code)
			assert.Equal(t, tc.want, body.Get("error").String())
		})
	}

	_, body := do(t, srv, http.MethodPost, "/gadgets", `{"name": "a very long name"}`)
	assert.Equal(t, "must be at most 10 characters", body.Get("details.Name").String())
}

func TestResourceMapsRepositoryErrors(t *testing.T) {
	repo := newMemoryRepo()
	srv := newTestServer(t, repo)

	repo.err = &repository.StorageError{Op: repository.OpAdd, Table: "Gadgets", Kind: database.DuplicateKeyErr,
		Err: &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}}
	code, body := do(t, srv, http.MethodPost, "/gadgets", `{"name": "Lamp"}`)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "duplicate entity", body.Get("error").String())

	repo.err = errors.New("disk on fire")
	code, body = do(t, srv, http.MethodGet, "/gadgets", "")
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "storage error", body.Get("error").String())
	assert.NotContains(t, body.Raw, "disk on fire")
}

func TestStatusFor(t *testing.T) {
	code, msg := statusFor(repository.ErrInvalidEntity)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalid entity", msg)

	code, _ = statusFor(&repository.StorageError{Kind: database.DuplicateKeyErr, Err: errors.New("dup")})
	assert.Equal(t, http.StatusConflict, code)

	code, _ = statusFor(&repository.StorageError{Kind: database.NoTableErr, Err: errors.New("gone")})
	assert.Equal(t, http.StatusInternalServerError, code)
}

func TestHealthEndpoint(t *testing.T) {
	for _, tc := range []struct {
		name    string
		checker HealthChecker
		want    int
	}{
		{"healthy", fixedHealth{healthy: true}, http.StatusOK},
		{"unhealthy", fixedHealth{healthy: false}, http.StatusServiceUnavailable},
		{"not configured", nil, http.StatusServiceUnavailable},
	} {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			NewRouter(tc.checker).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
			assert.Equal(t, tc.want, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}

	rec := httptest.NewRecorder()
	NewRouter(fixedHealth{healthy: true}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, "sqlite", gjson.Get(rec.Body.String(), "type").String())
}
