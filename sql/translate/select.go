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
	"github.com/rippledb/ripple/sql"
	"github.com/rippledb/ripple/sql/ast"
	"github.com/rippledb/ripple/sql/function"
	"github.com/rippledb/ripple/sql/information_schema"
)

// setSysTableVgroupList binds a database vgroup list to the tables-catalog
// system table; other system tables scan no vgroups.
func (c *translateContext) setSysTableVgroupList(name sql.Name, rt *ast.RealTableNode) error {
	if information_schema.TableUserTables != rt.TableName {
		return nil
	}
	var (
		vgs []sql.VgroupInfo
		err error
	)
	if rt.UseDBName != "" {
		vgs, err = c.getDBVgInfo(sql.DBName(c.pc.AcctID, rt.UseDBName).FullDBName())
	} else {
		vgs, err = c.getDBVgInfo(name.FullDBName())
	}
	if err != nil {
		return c.fail(err)
	}
	rt.Vgroups = vgs
	return nil
}

// setTableVgroupList computes the vgroup list of a resolved real table:
// every data vgroup for a super table, the hash-routed vgroup for a normal
// or child table. Suppressed entirely while translating a topic query.
func (c *translateContext) setTableVgroupList(name sql.Name, rt *ast.RealTableNode) error {
	if c.pc.TopicQuery {
		return nil
	}
	switch rt.Meta.TableType {
	case sql.SuperTable:
		vgs, err := c.getTableDistVgInfo(name)
		if err != nil {
			return c.fail(err)
		}
		rt.Vgroups = vgs
	case sql.SystemTable:
		return c.setSysTableVgroupList(name, rt)
	default:
		vg, err := c.getTableHashVgroup(name)
		if err != nil {
			return c.fail(err)
		}
		rt.Vgroups = []sql.VgroupInfo{vg}
	}
	return nil
}

func (c *translateContext) translateTable(n ast.Node) error {
	switch t := n.(type) {
	case *ast.RealTableNode:
		if "" == t.DBName {
			t.DBName = c.pc.DB
		}
		name := sql.TableName(c.pc.AcctID, t.DBName, t.TableName)
		meta, err := c.getTableMeta(name)
		if err != nil {
			return c.failKind(sql.ErrTableNotExist, t.TableName)
		}
		t.Meta = meta
		if err := c.setTableVgroupList(name, t); err != nil {
			return err
		}
		c.addNamespace(t)
	case *ast.TempTableNode:
		if err := c.translateSubquery(t.Subquery); err != nil {
			return err
		}
		c.addNamespace(t)
	case *ast.JoinTableNode:
		if err := c.translateTable(t.Left); err != nil {
			return err
		}
		if err := c.translateTable(t.Right); err != nil {
			return err
		}
		return c.translateExpr(t.OnCond)
	}
	return c.err
}

// createColumnsByTable expands one in-scope table into column nodes: schema
// columns (plus tags for super tables) for a real table, projection aliases
// for a subquery.
func (c *translateContext) createColumnsByTable(table ast.TableRef, out []ast.Node) []ast.Node {
	switch t := table.(type) {
	case *ast.RealTableNode:
		for _, cs := range t.Meta.Columns {
			col := &ast.ColumnNode{}
			setColumnInfoBySchema(t, cs, false, col)
			out = append(out, col)
		}
		if sql.SuperTable == t.Meta.TableType {
			for _, cs := range t.Meta.Tags {
				col := &ast.ColumnNode{}
				setColumnInfoBySchema(t, cs, true, col)
				out = append(out, col)
			}
		}
	case *ast.TempTableNode:
		for _, p := range projectionsOf(t.Subquery) {
			expr, ok := p.(ast.Expr)
			if !ok {
				continue
			}
			col := &ast.ColumnNode{}
			col.Alias = expr.Base().Alias
			setColumnInfoByExpr(t, expr, col)
			out = append(out, col)
		}
	}
	return out
}

// translateStar expands a missing projection list into all columns of all
// tables at the current level.
func (c *translateContext) translateStar(sel *ast.SelectStmt) (isStar bool) {
	if sel.Projections != nil {
		return false
	}
	var projs []ast.Node
	for _, table := range c.currTables() {
		projs = c.createColumnsByTable(table, projs)
	}
	sel.Projections = projs
	return true
}

func isAliasColumn(col *ast.ColumnNode) bool {
	return "" == col.TableAlias
}

func (c *translateContext) isDistinctOrderBy() bool {
	return clauseOrderBy == c.currClause && c.currStmt.Distinct
}

// groupByList returns the closure base: the projection list in the
// DISTINCT-order-by mode, the GROUP BY keys otherwise.
func (c *translateContext) groupByList() []ast.Node {
	if c.isDistinctOrderBy() {
		return c.currStmt.Projections
	}
	return c.currStmt.GroupBy
}

// groupByNode unwraps a grouping set down to its first parameter.
func groupByNode(n ast.Node) ast.Node {
	if gs, ok := n.(*ast.GroupingSetNode); ok && len(gs.Params) > 0 {
		return gs.Params[0]
	}
	return n
}

func (c *translateContext) groupByError(n ast.Node) ast.VisitResult {
	if c.isDistinctOrderBy() {
		return c.visitErr(sql.ErrNotSelectedExpression, ast.String(n))
	}
	return c.visitErr(sql.ErrGroupByLackExpression, ast.String(n))
}

// checkExprForGroupBy accepts a subtree iff every node is an alias-only
// column, structurally equal to some group key, or inside an aggregate.
func (c *translateContext) checkExprForGroupBy(n ast.Node) error {
	ast.Walk(n, c.groupByVisitor)
	return c.err
}

func (c *translateContext) checkExprListForGroupBy(list []ast.Node) error {
	if nil == c.groupByList() {
		return nil
	}
	ast.WalkList(list, c.groupByVisitor)
	return c.err
}

func (c *translateContext) groupByVisitor(n ast.Node) ast.VisitResult {
	if _, isExpr := n.(ast.Expr); !isExpr {
		return ast.VisitContinue
	}
	if col, ok := n.(*ast.ColumnNode); ok && isAliasColumn(col) {
		return ast.VisitContinue
	}
	if fn, ok := n.(*ast.FunctionNode); ok && function.IsAggFunc(fn.FuncID) && !c.isDistinctOrderBy() {
		return ast.VisitSkipChildren
	}
	for _, key := range c.groupByList() {
		if ast.Equal(groupByNode(key), n) {
			return ast.VisitSkipChildren
		}
	}
	if _, ok := n.(*ast.ColumnNode); ok {
		return c.groupByError(n)
	}
	if fn, ok := n.(*ast.FunctionNode); ok && function.IsAggFunc(fn.FuncID) && c.isDistinctOrderBy() {
		return c.groupByError(n)
	}
	return ast.VisitContinue
}

// checkAggColCoexist rejects mixing bare columns with aggregates when there
// is no GROUP BY.
func (c *translateContext) checkAggColCoexist(sel *ast.SelectStmt) error {
	if sel.GroupBy != nil {
		return nil
	}
	existAgg, existCol := false, false
	visitor := func(n ast.Node) ast.VisitResult {
		if fn, ok := n.(*ast.FunctionNode); ok && function.IsAggFunc(fn.FuncID) {
			existAgg = true
			return ast.VisitSkipChildren
		}
		if _, ok := n.(*ast.ColumnNode); ok {
			existCol = true
		}
		return ast.VisitContinue
	}
	ast.WalkList(sel.Projections, visitor)
	if !sel.Distinct {
		ast.WalkList(sel.OrderBy, visitor)
	}
	if existAgg && existCol {
		return c.failKind(sql.ErrNotSingleGroup)
	}
	return nil
}

// positionValue interprets a translated literal as a 1-based projection
// position. Non-numeric kinds and non-integral floats map to -1 and are
// dropped by the caller.
func positionValue(v *ast.ValueNode) int {
	switch t := v.ResType.Type; {
	case sql.TypeBool == t:
		if v.Datum.B {
			return 1
		}
		return 0
	case t.IsSignedInt():
		return int(v.Datum.I)
	case t.IsUnsignedInt():
		return int(v.Datum.U)
	case t.IsFloat():
		if v.Datum.D != float64(int64(v.Datum.D)) {
			return -1
		}
		return int(v.Datum.D)
	}
	return -1
}

// translateOrderByPosition rewrites numeric-literal order keys into
// references to the matching projection. Non-positive and non-integer
// literals are dropped silently; out-of-range positions are an error. The
// returned flag reports whether non-literal keys remain to translate.
func (c *translateContext) translateOrderByPosition(sel *ast.SelectStmt) (other bool, err error) {
	kept := sel.OrderBy[:0]
	for _, n := range sel.OrderBy {
		ob := n.(*ast.OrderByExprNode)
		v, isValue := ob.Expr.(*ast.ValueNode)
		if !isValue {
			other = true
			kept = append(kept, n)
			continue
		}
		if ast.VisitError == c.translateValue(v) {
			return false, c.err
		}
		pos := positionValue(v)
		switch {
		case pos <= 0:
			// dropped, as written
		case pos > len(sel.Projections):
			return false, c.failKind(sql.ErrWrongNumberOfSelect)
		default:
			col := &ast.ColumnNode{}
			setColumnInfoByExpr(nil, sel.Projections[pos-1].(ast.Expr), col)
			ob.Expr = col
			kept = append(kept, n)
		}
	}
	sel.OrderBy = kept
	return other, nil
}

func (c *translateContext) translateOrderBy(sel *ast.SelectStmt) error {
	other, err := c.translateOrderByPosition(sel)
	if err != nil {
		return err
	}
	if !other {
		return nil
	}
	c.currClause = clauseOrderBy
	if err := c.translateExprList(sel.OrderBy); err != nil {
		return err
	}
	return c.checkExprListForGroupBy(sel.OrderBy)
}

func (c *translateContext) translateSelectList(sel *ast.SelectStmt) error {
	isStar := c.translateStar(sel)
	if !isStar {
		c.currClause = clauseSelect
		if err := c.translateExprList(sel.Projections); err != nil {
			return err
		}
	}
	return c.checkExprListForGroupBy(sel.Projections)
}

func (c *translateContext) translateHaving(sel *ast.SelectStmt) error {
	if nil == sel.GroupBy && sel.Having != nil {
		return c.failKind(sql.ErrGroupByLackExpression, ast.String(sel.Having))
	}
	if nil == sel.Having {
		return nil
	}
	c.currClause = clauseHaving
	if err := c.translateExpr(sel.Having); err != nil {
		return err
	}
	return c.checkExprForGroupBy(sel.Having)
}

func (c *translateContext) translateGroupBy(sel *ast.SelectStmt) error {
	c.currClause = clauseGroupBy
	return c.translateExprList(sel.GroupBy)
}

func (c *translateContext) translateIntervalWindow(w *ast.IntervalWindowNode) error {
	interval := w.Interval.(*ast.ValueNode)
	if interval.Datum.I <= 0 {
		return c.failKind(sql.ErrIntervalValueTooSmall, interval.Literal)
	}
	return nil
}

func (c *translateContext) translateWindow(sel *ast.SelectStmt) error {
	if nil == sel.Window {
		return nil
	}
	c.currClause = clauseWindow
	if err := c.translateExpr(sel.Window); err != nil {
		return err
	}
	if w, ok := sel.Window.(*ast.IntervalWindowNode); ok {
		return c.translateIntervalWindow(w)
	}
	return nil
}

func (c *translateContext) translatePartitionBy(sel *ast.SelectStmt) error {
	c.currClause = clausePartitionBy
	return c.translateExprList(sel.PartitionBy)
}

func (c *translateContext) translateWhere(sel *ast.SelectStmt) error {
	c.currClause = clauseWhere
	return c.translateExpr(sel.Where)
}

func (c *translateContext) translateFrom(sel *ast.SelectStmt) error {
	c.currClause = clauseFrom
	return c.translateTable(sel.From)
}

// translateSelect runs the clauses in evaluation order. Each step observes
// the latched error of its predecessors and short-circuits.
func (c *translateContext) translateSelect(sel *ast.SelectStmt) error {
	c.currStmt = sel
	steps := []func(*ast.SelectStmt) error{
		c.translateFrom,
		c.translateWhere,
		c.translatePartitionBy,
		c.translateWindow,
		c.translateGroupBy,
		c.translateHaving,
		c.translateSelectList,
		c.translateOrderBy,
		c.checkAggColCoexist,
	}
	for _, step := range steps {
		if err := step(sel); err != nil {
			return err
		}
	}
	return nil
}
