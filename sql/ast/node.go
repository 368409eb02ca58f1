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

// Package ast defines the tagged query tree shared by the parser and the
// translator. Nodes form a single-parent ownership tree; the only cross link
// is the non-owning column-to-projection reference established during name
// resolution.
package ast

import "github.com/rippledb/ripple/sql"

// Node is implemented by every variant of the query tree. The marker method
// keeps the variant set closed to this package.
type Node interface {
	node()
}

// ExprBase carries what every expression variant shares: the display alias
// and the inferred result type.
// Fields not part of syntactic identity carry a hash ignore tag so that the
// structural-hash fast path agrees with Equal.
type ExprBase struct {
	Alias   string       `hash:"ignore"`
	ResType sql.DataType `hash:"ignore"`

	// Assoc lists the column nodes bound to this expression as a
	// projection reference. Non-owning.
	Assoc []*ColumnNode `hash:"ignore"`
}

// Expr is a node that produces a value and therefore carries a result type.
type Expr interface {
	Node
	Base() *ExprBase
}

// Base returns the embedded expression base.
func (b *ExprBase) Base() *ExprBase { return b }

// TableBase carries the name triple shared by every table variant.
type TableBase struct {
	DBName     string
	TableName  string
	TableAlias string
}

// TableRef is a node usable in a FROM clause.
type TableRef interface {
	Node
	Table() *TableBase
}

// Table returns the embedded table base.
func (b *TableBase) Table() *TableBase { return b }
