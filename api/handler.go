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
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/tomoncle/crudkit/database"
	"github.com/tomoncle/crudkit/repository"
)

// Resource is anything that can mount its routes on a router.
type Resource interface {
	RegisterRoutes(r chi.Router)
}

// ResourceHandler exposes one repository as a REST collection.
type ResourceHandler[T any] struct {
	path     string
	repo     repository.Repository[T]
	mapping  *repository.Mapping[T]
	validate *validator.Validate
	logger   database.Logger
}

// NewResourceHandler serves repo under path, e.g. "/products".
func NewResourceHandler[T any](path string, repo repository.Repository[T], m *repository.Mapping[T]) *ResourceHandler[T] {
	return &ResourceHandler[T]{
		path:     path,
		repo:     repo,
		mapping:  m,
		validate: validator.New(),
		logger:   database.NewDefaultLogger("API"),
	}
}

// RegisterRoutes registers the collection routes on the given router.
func (h *ResourceHandler[T]) RegisterRoutes(r chi.Router) {
	r.Route(h.path, func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Put("/", h.Update)
			r.Delete("/", h.Delete)
		})
	})
}

func (h *ResourceHandler[T]) List(w http.ResponseWriter, r *http.Request) {
	entities, err := h.repo.ListAll(r.Context())
	if err != nil {
		h.respondRepoError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, entities)
}

func (h *ResourceHandler[T]) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	result, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		h.respondRepoError(w, err)
		return
	}
	entity, found := result.Get()
	if !found {
		respondError(w, http.StatusNotFound, h.mapping.Name()+" not found")
		return
	}
	respondJSON(w, http.StatusOK, entity)
}

func (h *ResourceHandler[T]) Create(w http.ResponseWriter, r *http.Request) {
	entity, ok := h.decode(w, r)
	if !ok {
		return
	}
	if err := h.repo.Add(r.Context(), entity); err != nil {
		h.respondRepoError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, entity)
}

// Update replaces the row named by the path; an identifier in the body is
// ignored.
func (h *ResourceHandler[T]) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	entity, ok := h.decode(w, r)
	if !ok {
		return
	}
	h.mapping.SetID(entity, id)
	if err := h.repo.Update(r.Context(), entity); err != nil {
		h.respondRepoError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ResourceHandler[T]) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := h.repo.Delete(r.Context(), id); err != nil {
		h.respondRepoError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ResourceHandler[T]) decode(w http.ResponseWriter, r *http.Request) (*T, bool) {
	entity := h.mapping.New()
	if r.Body == nil {
		respondError(w, http.StatusBadRequest, "request body is required")
		return nil, false
	}
	if err := json.NewDecoder(r.Body).Decode(entity); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return nil, false
	}
	if err := h.validate.Struct(entity); err != nil {
		respondValidationError(w, err)
		return nil, false
	}
	return entity, true
}

func (h *ResourceHandler[T]) respondRepoError(w http.ResponseWriter, err error) {
	code, message := statusFor(err)
	if code >= http.StatusInternalServerError {
		h.logger.Error("Repository call failed", "table", h.mapping.Table(), "error", err)
	}
	respondError(w, code, message)
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}
