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

import (
	"fmt"
	"strings"
)

// String renders a translated tree into the canonical textual form carried
// in request payloads (topic subscriptions, rollup index definitions). The
// rendering is deterministic for a given tree.
func String(n Node) string {
	var sb strings.Builder
	writeNode(&sb, n)
	return sb.String()
}

// ListToString renders a node list, comma separated.
func ListToString(list []Node) string {
	var sb strings.Builder
	for i, n := range list {
		if i > 0 {
			sb.WriteString(", ")
		}
		writeNode(&sb, n)
	}
	return sb.String()
}

var opSymbols = map[OperatorType]string{
	OpAdd:          "+",
	OpSub:          "-",
	OpMul:          "*",
	OpDiv:          "/",
	OpMod:          "%",
	OpGreaterThan:  ">",
	OpGreaterEqual: ">=",
	OpLowerThan:    "<",
	OpLowerEqual:   "<=",
	OpEqual:        "=",
	OpNotEqual:     "<>",
	OpIn:           "IN",
	OpNotIn:        "NOT IN",
	OpLike:         "LIKE",
	OpNotLike:      "NOT LIKE",
	OpMatch:        "MATCH",
	OpNotMatch:     "NMATCH",
	OpIsNull:       "IS NULL",
	OpIsNotNull:    "IS NOT NULL",
}

func writeNode(sb *strings.Builder, n Node) {
	switch t := n.(type) {
	case nil:
	case *ColumnNode:
		if t.TableAlias != "" {
			fmt.Fprintf(sb, "%s.%s", t.TableAlias, t.ColName)
		} else {
			sb.WriteString(t.ColName)
		}
	case *ValueNode:
		if t.ResType.Type.IsVarLen() {
			fmt.Fprintf(sb, "'%s'", t.Literal)
		} else {
			sb.WriteString(t.Literal)
		}
	case *OperatorNode:
		sb.WriteByte('(')
		writeNode(sb, t.Left)
		if t.Right != nil {
			fmt.Fprintf(sb, " %s ", opSymbols[t.Op])
			writeNode(sb, t.Right)
		} else {
			fmt.Fprintf(sb, " %s", opSymbols[t.Op])
		}
		sb.WriteByte(')')
	case *LogicConditionNode:
		conn := " AND "
		if LogicOr == t.CondType {
			conn = " OR "
		}
		sb.WriteByte('(')
		for i, p := range t.Params {
			if i > 0 {
				sb.WriteString(conn)
			}
			writeNode(sb, p)
		}
		sb.WriteByte(')')
	case *FunctionNode:
		sb.WriteString(t.Name)
		sb.WriteByte('(')
		for i, p := range t.Params {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeNode(sb, p)
		}
		sb.WriteByte(')')
	case *GroupingSetNode:
		writeList(sb, t.Params)
	case *OrderByExprNode:
		writeNode(sb, t.Expr)
		if OrderDesc == t.Order {
			sb.WriteString(" DESC")
		}
	case *IntervalWindowNode:
		sb.WriteString("INTERVAL(")
		writeNode(sb, t.Interval)
		if t.Offset != nil {
			sb.WriteString(", ")
			writeNode(sb, t.Offset)
		}
		sb.WriteByte(')')
		if t.Sliding != nil {
			sb.WriteString(" SLIDING(")
			writeNode(sb, t.Sliding)
			sb.WriteByte(')')
		}
	case *RealTableNode:
		if t.DBName != "" {
			fmt.Fprintf(sb, "%s.%s", t.DBName, t.TableName)
		} else {
			sb.WriteString(t.TableName)
		}
	case *TempTableNode:
		sb.WriteByte('(')
		writeNode(sb, t.Subquery)
		sb.WriteByte(')')
	case *JoinTableNode:
		writeNode(sb, t.Left)
		sb.WriteString(" JOIN ")
		writeNode(sb, t.Right)
		sb.WriteString(" ON ")
		writeNode(sb, t.OnCond)
	case *SelectStmt:
		sb.WriteString("SELECT ")
		if t.Distinct {
			sb.WriteString("DISTINCT ")
		}
		if len(t.Projections) == 0 {
			sb.WriteByte('*')
		} else {
			writeList(sb, t.Projections)
		}
		sb.WriteString(" FROM ")
		writeNode(sb, t.From)
		if t.Where != nil {
			sb.WriteString(" WHERE ")
			writeNode(sb, t.Where)
		}
		if len(t.PartitionBy) > 0 {
			sb.WriteString(" PARTITION BY ")
			writeList(sb, t.PartitionBy)
		}
		if t.Window != nil {
			sb.WriteByte(' ')
			writeNode(sb, t.Window)
		}
		if len(t.GroupBy) > 0 {
			sb.WriteString(" GROUP BY ")
			writeList(sb, t.GroupBy)
		}
		if t.Having != nil {
			sb.WriteString(" HAVING ")
			writeNode(sb, t.Having)
		}
		if len(t.OrderBy) > 0 {
			sb.WriteString(" ORDER BY ")
			writeList(sb, t.OrderBy)
		}
	default:
		fmt.Fprintf(sb, "<%T>", n)
	}
}

func writeList(sb *strings.Builder, list []Node) {
	for i, n := range list {
		if i > 0 {
			sb.WriteString(", ")
		}
		writeNode(sb, n)
	}
}
