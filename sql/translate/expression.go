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

package translate

import (
	"encoding/binary"
	"strings"

	"github.com/spf13/cast"

	"github.com/rippledb/ripple/sql"
	"github.com/rippledb/ripple/sql/ast"
	"github.com/rippledb/ripple/sql/function"
)

// translateExpr runs the post-order expression visitor over one tree.
func (c *translateContext) translateExpr(n ast.Node) error {
	ast.WalkPostOrder(n, c.exprVisitor)
	return c.err
}

// translateExprList runs the visitor over every tree of a list.
func (c *translateContext) translateExprList(list []ast.Node) error {
	ast.WalkListPostOrder(list, c.exprVisitor)
	return c.err
}

func (c *translateContext) exprVisitor(n ast.Node) ast.VisitResult {
	switch t := n.(type) {
	case *ast.ColumnNode:
		return c.translateColumn(t)
	case *ast.ValueNode:
		return c.translateValue(t)
	case *ast.OperatorNode:
		return c.translateOperator(t)
	case *ast.FunctionNode:
		return c.translateFunction(t)
	case *ast.LogicConditionNode:
		return c.translateLogicCond(t)
	case *ast.TempTableNode:
		if err := c.translateSubquery(t.Subquery); err != nil {
			return ast.VisitError
		}
	}
	return ast.VisitContinue
}

// belongTable decides whether a prefixed column reference targets a table in
// scope. An explicit database must match the table's; otherwise real tables
// are compared against the session database and subqueries match any.
func (c *translateContext) belongTable(col *ast.ColumnNode, table ast.TableRef) bool {
	tb := table.Table()
	if col.DBName != "" {
		if col.DBName != tb.DBName {
			return false
		}
	} else if _, real := table.(*ast.RealTableNode); real {
		if c.pc.DB != tb.DBName {
			return false
		}
	}
	return col.TableAlias == tb.TableAlias
}

func projectionsOf(n ast.Node) []ast.Node {
	if sel, ok := n.(*ast.SelectStmt); ok {
		return sel.Projections
	}
	return nil
}

func setColumnInfoBySchema(rt *ast.RealTableNode, cs sql.ColumnSchema, isTag bool, col *ast.ColumnNode) {
	col.DBName = rt.DBName
	col.TableAlias = rt.TableAlias
	col.TableName = rt.TableName
	col.ColName = cs.Name
	if col.Alias == "" {
		col.Alias = cs.Name
	}
	col.TableID = rt.Meta.UID
	col.ColID = cs.ColID
	col.Role = ast.RoleColumn
	if isTag {
		col.Role = ast.RoleTag
	}
	col.ResType = sql.DataType{Type: cs.Type, Bytes: cs.Bytes, Precision: rt.Meta.Precision}
}

func setColumnInfoByExpr(table ast.TableRef, expr ast.Expr, col *ast.ColumnNode) {
	col.ProjRef = expr
	expr.Base().Assoc = append(expr.Base().Assoc, col)
	if table != nil {
		col.TableAlias = table.Table().TableAlias
	}
	col.ColName = expr.Base().Alias
	col.ResType = expr.Base().ResType
}

// findAndSetColumn binds col against one table; it reports whether the name
// matched.
func findAndSetColumn(col *ast.ColumnNode, table ast.TableRef) bool {
	switch t := table.(type) {
	case *ast.RealTableNode:
		meta := t.Meta
		if sql.PrimaryTsColID == col.ColID && sql.PrimaryTsColName == col.ColName && len(meta.Columns) > 0 {
			setColumnInfoBySchema(t, meta.Columns[0], false, col)
			return true
		}
		for _, cs := range meta.Columns {
			if cs.Name == col.ColName {
				setColumnInfoBySchema(t, cs, false, col)
				return true
			}
		}
		for _, cs := range meta.Tags {
			if cs.Name == col.ColName {
				setColumnInfoBySchema(t, cs, true, col)
				return true
			}
		}
	case *ast.TempTableNode:
		for _, p := range projectionsOf(t.Subquery) {
			expr, ok := p.(ast.Expr)
			if !ok {
				continue
			}
			if expr.Base().Alias == col.ColName {
				setColumnInfoByExpr(t, expr, col)
				return true
			}
		}
	}
	return false
}

func (c *translateContext) translateColumnWithPrefix(col *ast.ColumnNode) ast.VisitResult {
	foundTable := false
	for _, table := range c.currTables() {
		if c.belongTable(col, table) {
			foundTable = true
			if findAndSetColumn(col, table) {
				break
			}
			return c.visitErr(sql.ErrInvalidColumn, col.ColName)
		}
	}
	if !foundTable {
		return c.visitErr(sql.ErrTableNotExist, col.TableAlias)
	}
	return ast.VisitContinue
}

func (c *translateContext) translateColumnWithoutPrefix(col *ast.ColumnNode) ast.VisitResult {
	found := false
	for _, table := range c.currTables() {
		if findAndSetColumn(col, table) {
			if found {
				return c.visitErr(sql.ErrAmbiguousColumn, col.ColName)
			}
			found = true
		}
	}
	if !found {
		return c.visitErr(sql.ErrInvalidColumn, col.ColName)
	}
	return ast.VisitContinue
}

// translateColumnUseAlias binds an ORDER BY column against a projection
// alias of the current select.
func (c *translateContext) translateColumnUseAlias(col *ast.ColumnNode) bool {
	for _, p := range c.currStmt.Projections {
		expr, ok := p.(ast.Expr)
		if !ok {
			continue
		}
		if expr.Base().Alias == col.ColName {
			setColumnInfoByExpr(nil, expr, col)
			return true
		}
	}
	return false
}

func (c *translateContext) translateColumn(col *ast.ColumnNode) ast.VisitResult {
	// count(*) and friends
	if "*" == col.ColName {
		return ast.VisitContinue
	}
	if col.TableAlias != "" {
		return c.translateColumnWithPrefix(col)
	}
	if clauseOrderBy == c.currClause && c.translateColumnUseAlias(col) {
		return ast.VisitContinue
	}
	return c.translateColumnWithoutPrefix(col)
}

func (c *translateContext) translateValue(v *ast.ValueNode) ast.VisitResult {
	if v.IsDuration {
		i, unit, err := parseDuration(v.Literal, v.ResType.Precision)
		if err != nil {
			return c.visitErr(sql.ErrWrongValueType, v.Literal)
		}
		v.Datum.I = i
		v.Unit = unit
		v.Translated = true
		return ast.VisitContinue
	}
	switch t := v.ResType.Type; t {
	case sql.TypeNull:
	case sql.TypeBool:
		v.Datum.B = strings.EqualFold(v.Literal, "true")
	case sql.TypeTinyint, sql.TypeSmallint, sql.TypeInt, sql.TypeBigint:
		i, err := cast.ToInt64E(v.Literal)
		if err != nil {
			return c.visitErr(sql.ErrWrongValueType, v.Literal)
		}
		v.Datum.I = i
	case sql.TypeUTinyint, sql.TypeUSmallint, sql.TypeUInt, sql.TypeUBigint:
		u, err := cast.ToUint64E(v.Literal)
		if err != nil {
			return c.visitErr(sql.ErrWrongValueType, v.Literal)
		}
		v.Datum.U = u
	case sql.TypeFloat, sql.TypeDouble:
		d, err := cast.ToFloat64E(v.Literal)
		if err != nil {
			return c.visitErr(sql.ErrWrongValueType, v.Literal)
		}
		v.Datum.D = d
	case sql.TypeVarchar, sql.TypeNchar, sql.TypeVarbinary:
		p := make([]byte, sql.VarHeaderSize+int(v.ResType.Bytes))
		binary.BigEndian.PutUint16(p, uint16(v.ResType.Bytes))
		copy(p[sql.VarHeaderSize:], v.Literal)
		v.Datum.P = p
	case sql.TypeTimestamp:
		i, err := parseTime(v.Literal, v.ResType.Precision, c.pc.Daylight)
		if err != nil {
			return c.visitErr(sql.ErrWrongValueType, v.Literal)
		}
		v.Datum.I = i
	case sql.TypeJSON, sql.TypeDecimal, sql.TypeBlob:
		// deferred
	}
	v.Translated = true
	return ast.VisitContinue
}

func resTypeOf(n ast.Node) sql.DataType {
	if expr, ok := n.(ast.Expr); ok {
		return expr.Base().ResType
	}
	return sql.DataType{}
}

func rejectsOperand(t sql.TypeID) bool {
	return sql.TypeJSON == t || sql.TypeBlob == t
}

func (c *translateContext) translateOperator(op *ast.OperatorNode) ast.VisitResult {
	ldt := resTypeOf(op.Left)
	rdt := resTypeOf(op.Right)
	switch {
	case op.Op.IsArithmetic():
		if rejectsOperand(ldt.Type) || rejectsOperand(rdt.Type) {
			return c.visitErr(sql.ErrWrongValueType, operandAlias(op))
		}
		op.ResType = sql.TypeOf(sql.TypeDouble)
	case op.Op.IsComparison():
		if rejectsOperand(ldt.Type) || rejectsOperand(rdt.Type) {
			return c.visitErr(sql.ErrWrongValueType, operandAlias(op))
		}
		op.ResType = sql.TypeOf(sql.TypeBool)
	default:
		// json operators are typed later
	}
	return ast.VisitContinue
}

func operandAlias(op *ast.OperatorNode) string {
	if expr, ok := op.Right.(ast.Expr); ok {
		return expr.Base().Alias
	}
	if expr, ok := op.Left.(ast.Expr); ok {
		return expr.Base().Alias
	}
	return ""
}

func (c *translateContext) translateFunction(fn *ast.FunctionNode) ast.VisitResult {
	id, kind, ok := function.GetFuncInfo(fn.Name)
	if !ok {
		return c.visitErr(sql.ErrInvalidFunction, fn.Name)
	}
	fn.FuncID = id
	fn.FuncKind = int32(kind)

	args := make([]sql.DataType, 0, len(fn.Params))
	for _, p := range fn.Params {
		if expr, ok := p.(ast.Expr); ok {
			args = append(args, expr.Base().ResType)
		}
	}
	resType, ok := function.ResultType(id, args)
	if !ok {
		return c.visitErr(sql.ErrInvalidFunction, fn.Name)
	}
	fn.ResType = resType

	if function.IsAggFunc(id) && beforeHaving(c.currClause) {
		return c.visitErr(sql.ErrIllegalUseOfAgg)
	}
	return ast.VisitContinue
}

func (c *translateContext) translateLogicCond(cond *ast.LogicConditionNode) ast.VisitResult {
	cond.ResType = sql.TypeOf(sql.TypeBool)
	return ast.VisitContinue
}
