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

import "github.com/mitchellh/hashstructure"

// Hash returns a structural hash of the subtree rooted at n. Catalog
// descriptors and the non-owning resolution links are excluded, so two
// syntactically equal subtrees hash alike regardless of resolution state.
func Hash(n Node) (uint64, bool) {
	h, err := hashstructure.Hash(n, nil)
	if err != nil {
		return 0, false
	}
	return h, true
}

// Equal reports structural equality of two expression subtrees. Unsupported
// variants compare unequal, matching the conservative behavior the GROUP BY
// closure check depends on.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if ha, ok := Hash(a); ok {
		if hb, ok := Hash(b); ok && ha != hb {
			return false
		}
	}
	return equalNode(a, b)
}

func equalNode(a, b Node) bool {
	switch x := a.(type) {
	case *ColumnNode:
		y, ok := b.(*ColumnNode)
		return ok && x.DBName == y.DBName && x.TableAlias == y.TableAlias && x.ColName == y.ColName
	case *ValueNode:
		y, ok := b.(*ValueNode)
		return ok && x.Literal == y.Literal && x.ResType.Type == y.ResType.Type
	case *OperatorNode:
		y, ok := b.(*OperatorNode)
		return ok && x.Op == y.Op && Equal(x.Left, y.Left) && Equal(x.Right, y.Right)
	case *LogicConditionNode:
		y, ok := b.(*LogicConditionNode)
		return ok && x.CondType == y.CondType && equalList(x.Params, y.Params)
	case *FunctionNode:
		y, ok := b.(*FunctionNode)
		return ok && x.Name == y.Name && equalList(x.Params, y.Params)
	case *GroupingSetNode:
		y, ok := b.(*GroupingSetNode)
		return ok && x.SetType == y.SetType && equalList(x.Params, y.Params)
	}
	return false
}

func equalList(a, b []Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}
