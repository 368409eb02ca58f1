// Copyright 2024 RippleDB, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sql

import "gopkg.in/src-d/go-errors.v1"

var (
	// ErrInvalidColumn is returned when a column name resolves to nothing
	// in the current namespace level.
	ErrInvalidColumn = errors.NewKind("invalid column name: %s")

	// ErrTableNotExist is returned when a table name or alias prefix refers
	// to no table in scope, or a catalog lookup finds no such table.
	ErrTableNotExist = errors.NewKind("table does not exist: %s")

	// ErrAmbiguousColumn is returned when an unprefixed column name matches
	// more than one table at the current namespace level.
	ErrAmbiguousColumn = errors.NewKind("ambiguous column name: %s")

	// ErrInvalidFunction is returned when the function manager does not know
	// the function name.
	ErrInvalidFunction = errors.NewKind("invalid function name: %s")

	// ErrIllegalUseOfAgg is returned when an aggregate function appears in a
	// clause evaluated before HAVING.
	ErrIllegalUseOfAgg = errors.NewKind("aggregate functions are not allowed here")

	// ErrWrongValueType is returned when a literal cannot be parsed as its
	// declared result type, or an operand type is outside the operator
	// algebra.
	ErrWrongValueType = errors.NewKind("invalid value type: %s")

	// ErrIntervalValueTooSmall is returned for non-positive interval values.
	ErrIntervalValueTooSmall = errors.NewKind("interval value is too small: %s")

	// ErrGroupByLackExpression is returned when a grouped select references
	// an expression that is neither a group key nor inside an aggregate.
	ErrGroupByLackExpression = errors.NewKind("not a GROUP BY expression: %s")

	// ErrNotSelectedExpression is returned when a DISTINCT select orders by
	// an expression missing from the projection list.
	ErrNotSelectedExpression = errors.NewKind("not a SELECTed expression: %s")

	// ErrNotSingleGroup is returned when bare columns and aggregates mix
	// without a GROUP BY.
	ErrNotSingleGroup = errors.NewKind("not a single-group group function")

	// ErrWrongNumberOfSelect is returned when an ORDER BY position is out of
	// the projection list's range.
	ErrWrongNumberOfSelect = errors.NewKind("ORDER BY position is not in the select list")

	// ErrInvalidTagName is returned when a bound tag name is missing from
	// the super table's tag schema.
	ErrInvalidTagName = errors.NewKind("invalid tag name: %s")

	// ErrTagsNotMatched is returned when a CREATE TABLE ... USING clause
	// binds the wrong number of tag values.
	ErrTagsNotMatched = errors.NewKind("tags number not matched")

	// ErrOutOfMemory is returned when a buffer cannot be sized or grown.
	ErrOutOfMemory = errors.NewKind("out of memory")

	// ErrUnsupported is returned for statement shapes the translator does
	// not lower.
	ErrUnsupported = errors.NewKind("unsupported statement: %s")
)
