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

package ast

import "github.com/rippledb/ripple/sql"

// RealTableNode is a table resolved against the catalog. Meta and Vgroups
// are filled during table translation.
type RealTableNode struct {
	TableBase

	// UseDBName narrows the database whose vgroup list backs an
	// information-schema scan, when a SHOW carried an explicit database.
	UseDBName string

	Meta    *sql.TableMeta   `hash:"ignore"`
	Vgroups []sql.VgroupInfo `hash:"ignore"`
}

func (*RealTableNode) node() {}

// TempTableNode is a parenthesized subquery in table position.
type TempTableNode struct {
	TableBase
	Subquery Node
}

func (*TempTableNode) node() {}

// JoinType enumerates join flavors; only inner joins with an ON predicate
// are supported.
type JoinType int8

const (
	JoinInner JoinType = iota
)

// JoinTableNode is a join of two table references with an ON predicate.
type JoinTableNode struct {
	TableBase
	JoinType JoinType
	Left     Node
	Right    Node
	OnCond   Node
}

func (*JoinTableNode) node() {}
