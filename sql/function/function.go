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

// Package function is the function-manager oracle consulted during
// translation: it maps function names to ids and kinds, classifies
// aggregates, and derives result types from argument types.
package function

import (
	"strings"
	"sync"

	"github.com/rippledb/ripple/sql"
)

// Kind classifies a function for the translator.
type Kind int32

const (
	KindScalar Kind = iota + 1
	KindAggregate
	KindPseudoColumn
)

// resultTypeFn derives a function's result type from its argument types.
type resultTypeFn func(args []sql.DataType) sql.DataType

type funcDef struct {
	id      int32
	kind    Kind
	resType resultTypeFn
}

func fixed(t sql.TypeID) resultTypeFn {
	return func([]sql.DataType) sql.DataType { return sql.TypeOf(t) }
}

// firstArg keeps the first argument's type; count(*)-style calls without a
// typed argument fall back to the given default.
func firstArg(def sql.TypeID) resultTypeFn {
	return func(args []sql.DataType) sql.DataType {
		if len(args) == 0 {
			return sql.TypeOf(def)
		}
		return args[0]
	}
}

// sumType widens by argument family: signed ints sum into BIGINT, unsigned
// into BIGINT UNSIGNED, floats into DOUBLE.
func sumType(args []sql.DataType) sql.DataType {
	if len(args) > 0 {
		switch {
		case args[0].Type.IsUnsignedInt():
			return sql.TypeOf(sql.TypeUBigint)
		case args[0].Type.IsSignedInt() || sql.TypeBool == args[0].Type:
			return sql.TypeOf(sql.TypeBigint)
		}
	}
	return sql.TypeOf(sql.TypeDouble)
}

var funcs = map[string]*funcDef{
	"count":      {id: 1, kind: KindAggregate, resType: fixed(sql.TypeBigint)},
	"sum":        {id: 2, kind: KindAggregate, resType: sumType},
	"min":        {id: 3, kind: KindAggregate, resType: firstArg(sql.TypeDouble)},
	"max":        {id: 4, kind: KindAggregate, resType: firstArg(sql.TypeDouble)},
	"avg":        {id: 5, kind: KindAggregate, resType: fixed(sql.TypeDouble)},
	"first":      {id: 6, kind: KindAggregate, resType: firstArg(sql.TypeDouble)},
	"last":       {id: 7, kind: KindAggregate, resType: firstArg(sql.TypeDouble)},
	"stddev":     {id: 8, kind: KindAggregate, resType: fixed(sql.TypeDouble)},
	"spread":     {id: 9, kind: KindAggregate, resType: fixed(sql.TypeDouble)},
	"percentile": {id: 10, kind: KindAggregate, resType: fixed(sql.TypeDouble)},
	"apercentile": {id: 11, kind: KindAggregate,
		resType: fixed(sql.TypeDouble)},
	"top":       {id: 12, kind: KindAggregate, resType: firstArg(sql.TypeDouble)},
	"bottom":    {id: 13, kind: KindAggregate, resType: firstArg(sql.TypeDouble)},
	"twa":       {id: 14, kind: KindAggregate, resType: fixed(sql.TypeDouble)},
	"leastsquares": {id: 15, kind: KindAggregate,
		resType: fixed(sql.TypeDouble)},

	"abs":    {id: 30, kind: KindScalar, resType: firstArg(sql.TypeDouble)},
	"ceil":   {id: 31, kind: KindScalar, resType: firstArg(sql.TypeDouble)},
	"floor":  {id: 32, kind: KindScalar, resType: firstArg(sql.TypeDouble)},
	"round":  {id: 33, kind: KindScalar, resType: firstArg(sql.TypeDouble)},
	"log":    {id: 34, kind: KindScalar, resType: fixed(sql.TypeDouble)},
	"pow":    {id: 35, kind: KindScalar, resType: fixed(sql.TypeDouble)},
	"sqrt":   {id: 36, kind: KindScalar, resType: fixed(sql.TypeDouble)},
	"concat": {id: 37, kind: KindScalar, resType: firstArg(sql.TypeVarchar)},
	"length": {id: 38, kind: KindScalar, resType: fixed(sql.TypeInt)},
	"lower":  {id: 39, kind: KindScalar, resType: firstArg(sql.TypeVarchar)},
	"upper":  {id: 40, kind: KindScalar, resType: firstArg(sql.TypeVarchar)},

	"now":       {id: 60, kind: KindPseudoColumn, resType: fixed(sql.TypeTimestamp)},
	"today":     {id: 61, kind: KindPseudoColumn, resType: fixed(sql.TypeTimestamp)},
	"timezone":  {id: 62, kind: KindPseudoColumn, resType: fixed(sql.TypeVarchar)},
	"_wstartts": {id: 63, kind: KindPseudoColumn, resType: fixed(sql.TypeTimestamp)},
	"_wendts":   {id: 64, kind: KindPseudoColumn, resType: fixed(sql.TypeTimestamp)},
}

var (
	byID     map[int32]*funcDef
	initOnce sync.Once
)

// Init builds the id index. It is cheap and idempotent; the translator calls
// it on every entry.
func Init() error {
	initOnce.Do(func() {
		byID = make(map[int32]*funcDef, len(funcs))
		for _, d := range funcs {
			byID[d.id] = d
		}
	})
	return nil
}

// GetFuncInfo resolves a function name (case-insensitive) into its id and
// kind.
func GetFuncInfo(name string) (int32, Kind, bool) {
	d, ok := funcs[strings.ToLower(name)]
	if !ok {
		return 0, 0, false
	}
	return d.id, d.kind, true
}

// ResultType derives the result type of the function with the given id from
// its argument types.
func ResultType(id int32, args []sql.DataType) (sql.DataType, bool) {
	d, ok := byID[id]
	if !ok {
		return sql.DataType{}, false
	}
	return d.resType(args), true
}

// IsAggFunc reports whether the function id names an aggregate.
func IsAggFunc(id int32) bool {
	d, ok := byID[id]
	return ok && KindAggregate == d.kind
}
