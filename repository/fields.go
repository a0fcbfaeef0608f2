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
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// Field describes one non-identifier field of an entity shape: the column
// it maps to and how to read and write it without reflection.
type Field[T any] struct {
	Name   string
	Column string
	Get    func(*T) any
	Set    func(*T, any) error
}

// As returns a copy of the field mapped to column.
func (f Field[T]) As(column string) Field[T] {
	f.Column = column
	return f
}

// driverValue turns text returned as []byte into a string so cast can
// coerce it.
func driverValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

func newField[T any, V any](name string, ref func(*T) *V, conv func(any) (V, error)) Field[T] {
	return Field[T]{
		Name:   name,
		Column: name,
		Get:    func(e *T) any { return *ref(e) },
		Set: func(e *T, v any) error {
			if v == nil {
				var zero V
				*ref(e) = zero
				return nil
			}
			out, err := conv(driverValue(v))
			if err != nil {
				return fmt.Errorf("field %s: %w", name, err)
			}
			*ref(e) = out
			return nil
		},
	}
}

// toInt64 converts v like cast.ToInt64E but refuses to drop a fractional
// part.
func toInt64(v any) (int64, error) {
	switch x := v.(type) {
	case float64:
		if x != math.Trunc(x) || math.IsInf(x, 0) {
			return 0, fmt.Errorf("unable to cast %v of type %T to int64 without loss", v, v)
		}
	case float32:
		if f := float64(x); f != math.Trunc(f) || math.IsInf(f, 0) {
			return 0, fmt.Errorf("unable to cast %v of type %T to int64 without loss", v, v)
		}
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(x))
		if err != nil {
			return 0, fmt.Errorf("unable to cast %q to int64: %w", x, err)
		}
		if !d.IsInteger() {
			return 0, fmt.Errorf("unable to cast %q to int64 without loss", x)
		}
		return d.IntPart(), nil
	case decimal.Decimal:
		if !x.IsInteger() {
			return 0, fmt.Errorf("unable to cast %s to int64 without loss", x)
		}
		return x.IntPart(), nil
	}
	return cast.ToInt64E(v)
}

// StringField maps a text column.
func StringField[T any](name string, ref func(*T) *string) Field[T] {
	return newField(name, ref, cast.ToStringE)
}

// Int64Field maps an integer column. Non-integral values are rejected.
func Int64Field[T any](name string, ref func(*T) *int64) Field[T] {
	return newField(name, ref, toInt64)
}

// Float64Field maps a floating point column.
func Float64Field[T any](name string, ref func(*T) *float64) Field[T] {
	return newField(name, ref, cast.ToFloat64E)
}

// BoolField maps a boolean column, including the 0/1 integers SQLite and
// MySQL return.
func BoolField[T any](name string, ref func(*T) *bool) Field[T] {
	return newField(name, ref, cast.ToBoolE)
}

// TimeField maps a timestamp column.
func TimeField[T any](name string, ref func(*T) *time.Time) Field[T] {
	return newField(name, ref, cast.ToTimeE)
}

// DecimalField maps an exact numeric column. Floats, integers and text are
// accepted on read.
func DecimalField[T any](name string, ref func(*T) *decimal.Decimal) Field[T] {
	return newField(name, ref, func(v any) (decimal.Decimal, error) {
		var d decimal.Decimal
		if err := d.Scan(v); err != nil {
			return decimal.Zero, err
		}
		return d, nil
	})
}
