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
	"github.com/shopspring/decimal"
	"github.com/tomoncle/crudkit/repository"
	"github.com/uptrace/bun"
)

type Product struct {
	bun.BaseModel `bun:"table:Products,alias:p"`

	Id    int64           `bun:"Id,pk,autoincrement" json:"id"`
	Name  string          `bun:"Name,notnull" json:"name" validate:"required,max=255"`
	Price decimal.Decimal `bun:"Price,type:decimal(10,2),notnull" json:"price"`
	Stock int64           `bun:"Stock,notnull" json:"stock" validate:"gte=0"`
}

// ProductMapping maps Product to the "Products" table.
var ProductMapping = repository.MustRegister(repository.MustMapping[Product](repository.NewMapping(
	"Product",
	func(p *Product) *int64 { return &p.Id },
	repository.StringField("Name", func(p *Product) *string { return &p.Name }),
	repository.DecimalField("Price", func(p *Product) *decimal.Decimal { return &p.Price }),
	repository.Int64Field("Stock", func(p *Product) *int64 { return &p.Stock }),
)))
