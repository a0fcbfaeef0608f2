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

package models

import (
	"github.com/tomoncle/crudkit/repository"
	"github.com/uptrace/bun"
)

type Category struct {
	bun.BaseModel `bun:"table:Categorys,alias:c"`

	Id          int64  `bun:"Id,pk,autoincrement" json:"id"`
	Name        string `bun:"Name,notnull" json:"name" validate:"required,max=100"`
	Description string `bun:"Description" json:"description" validate:"max=1000"`
}

// CategoryMapping maps Category to the naively pluralised "Categorys" table.
var CategoryMapping = repository.MustRegister(repository.MustMapping[Category](repository.NewMapping(
	"Category",
	func(c *Category) *int64 { return &c.Id },
	repository.StringField("Name", func(c *Category) *string { return &c.Name }),
	repository.StringField("Description", func(c *Category) *string { return &c.Description }),
)))
