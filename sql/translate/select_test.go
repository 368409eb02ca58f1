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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rippledb/ripple/sql"
	"github.com/rippledb/ripple/sql/ast"
	"github.com/rippledb/ripple/sql/wire"
)

// SELECT ts, a FROM t WHERE a > 1 ORDER BY 2 DESC
func TestSelectOrderByPosition(t *testing.T) {
	require := require.New(t)

	sel := selectStmt([]ast.Node{col("ts"), col("a")}, realTable("", "t"))
	sel.Where = op(ast.OpGreaterThan, col("a"), intVal("1"))
	sel.OrderBy = []ast.Node{orderBy(intVal("2"), ast.OrderDesc)}

	q, err := translateQueryRoot(t, sel)
	require.NoError(err)

	require.True(q.HaveResultSet)
	require.False(q.DirectRPC)
	require.Equal(wire.VndQuery, q.MsgType)

	require.Len(q.ResSchema, 2)
	require.Equal("ts", q.ResSchema[0].Name)
	require.Equal(sql.TypeTimestamp, q.ResSchema[0].Type)
	require.Equal("a", q.ResSchema[1].Name)
	require.Equal(sql.TypeInt, q.ResSchema[1].Type)
	require.Equal(int16(1), q.ResSchema[0].ColID)
	require.Equal(int16(2), q.ResSchema[1].ColID)

	// the positional key now references the second projection
	require.Len(sel.OrderBy, 1)
	obCol := sel.OrderBy[0].(*ast.OrderByExprNode).Expr.(*ast.ColumnNode)
	require.Equal("a", obCol.ColName)
	require.NotNil(obCol.ProjRef)

	require.Equal([]string{"1.test"}, q.DBList)
	require.Len(q.TableList, 1)
	require.Equal("t", q.TableList[0].Table)
}

func TestSelectStarExpansion(t *testing.T) {
	require := require.New(t)

	sel := selectStmt(nil, realTable("", "t"))
	q, err := translateQueryRoot(t, sel)
	require.NoError(err)
	require.Len(q.ResSchema, 4)
	require.Equal("ts", q.ResSchema[0].Name)
	require.Equal("c", q.ResSchema[3].Name)
}

func TestSelectStarSuperTableIncludesTags(t *testing.T) {
	require := require.New(t)

	sel := selectStmt(nil, realTable("", "st"))
	q, err := translateQueryRoot(t, sel)
	require.NoError(err)
	// two columns plus two tags
	require.Len(q.ResSchema, 4)
	require.Equal("t1", q.ResSchema[2].Name)
	require.Equal("t2", q.ResSchema[3].Name)

	rt := sel.From.(*ast.RealTableNode)
	require.Len(rt.Vgroups, 4)
}

func TestSelectGroupByHavingAggregate(t *testing.T) {
	require := require.New(t)

	sel := selectStmt([]ast.Node{fn("count", col("*"))}, realTable("", "t"))
	sel.GroupBy = []ast.Node{col("b")}
	sel.Having = op(ast.OpGreaterThan, fn("count", col("*")), intVal("10"))

	_, err := translateQueryRoot(t, sel)
	require.NoError(err)
}

func TestAggregateAndColumnWithoutGroupBy(t *testing.T) {
	require := require.New(t)

	sel := selectStmt([]ast.Node{col("a"), fn("count", col("*"))}, realTable("", "t"))
	_, err := translateQueryRoot(t, sel)
	require.True(sql.ErrNotSingleGroup.Is(err))
}

func TestGroupByClosureViolation(t *testing.T) {
	require := require.New(t)

	sel := selectStmt([]ast.Node{col("a")}, realTable("", "t"))
	sel.GroupBy = []ast.Node{col("b")}
	_, err := translateQueryRoot(t, sel)
	require.True(sql.ErrGroupByLackExpression.Is(err))
}

func TestGroupByClosureAcceptsKeyExpression(t *testing.T) {
	require := require.New(t)

	sel := selectStmt([]ast.Node{op(ast.OpAdd, col("a"), intVal("1"))}, realTable("", "t"))
	sel.GroupBy = []ast.Node{op(ast.OpAdd, col("a"), intVal("1"))}
	_, err := translateQueryRoot(t, sel)
	require.NoError(err)
}

func TestGroupByClosureGroupingSet(t *testing.T) {
	require := require.New(t)

	sel := selectStmt([]ast.Node{col("b")}, realTable("", "t"))
	sel.GroupBy = []ast.Node{&ast.GroupingSetNode{Params: []ast.Node{col("b")}}}
	_, err := translateQueryRoot(t, sel)
	require.NoError(err)
}

func TestHavingWithoutGroupBy(t *testing.T) {
	require := require.New(t)

	sel := selectStmt([]ast.Node{fn("count", col("*"))}, realTable("", "t"))
	sel.Having = op(ast.OpGreaterThan, fn("count", col("*")), intVal("10"))
	_, err := translateQueryRoot(t, sel)
	require.True(sql.ErrGroupByLackExpression.Is(err))
}

func TestAggregateBeforeHavingIsIllegal(t *testing.T) {
	require := require.New(t)

	sel := selectStmt([]ast.Node{col("a")}, realTable("", "t"))
	sel.Where = op(ast.OpGreaterThan, fn("count", col("*")), intVal("1"))
	_, err := translateQueryRoot(t, sel)
	require.True(sql.ErrIllegalUseOfAgg.Is(err))
}

func TestInvalidColumn(t *testing.T) {
	require := require.New(t)

	sel := selectStmt([]ast.Node{col("nope")}, realTable("", "t"))
	_, err := translateQueryRoot(t, sel)
	require.True(sql.ErrInvalidColumn.Is(err))
}

func TestTableNotExist(t *testing.T) {
	require := require.New(t)

	sel := selectStmt([]ast.Node{col("a")}, realTable("", "missing"))
	_, err := translateQueryRoot(t, sel)
	require.True(sql.ErrTableNotExist.Is(err))
}

func TestColumnPrefixUnknownTable(t *testing.T) {
	require := require.New(t)

	sel := selectStmt([]ast.Node{colOf("x", "a")}, realTable("", "t"))
	_, err := translateQueryRoot(t, sel)
	require.True(sql.ErrTableNotExist.Is(err))
}

func TestAmbiguousColumnAcrossJoin(t *testing.T) {
	require := require.New(t)

	join := &ast.JoinTableNode{
		Left:   realTable("", "t"),
		Right:  realTable("", "st"),
		OnCond: op(ast.OpEqual, colOf("t", "ts"), colOf("st", "ts")),
	}
	sel := selectStmt([]ast.Node{col("ts")}, join)
	_, err := translateQueryRoot(t, sel)
	require.True(sql.ErrAmbiguousColumn.Is(err))
}

func TestJoinWithOnPredicate(t *testing.T) {
	require := require.New(t)

	join := &ast.JoinTableNode{
		Left:   realTable("", "t"),
		Right:  realTable("", "st"),
		OnCond: op(ast.OpEqual, colOf("t", "ts"), colOf("st", "ts")),
	}
	sel := selectStmt([]ast.Node{colOf("t", "a"), colOf("st", "v")}, join)
	q, err := translateQueryRoot(t, sel)
	require.NoError(err)
	require.Len(q.ResSchema, 2)
	require.Len(q.TableList, 2)
}

func TestInvalidFunction(t *testing.T) {
	require := require.New(t)

	sel := selectStmt([]ast.Node{fn("frobnicate", col("a"))}, realTable("", "t"))
	_, err := translateQueryRoot(t, sel)
	require.True(sql.ErrInvalidFunction.Is(err))
}

func TestOrderByPositionOutOfRange(t *testing.T) {
	require := require.New(t)

	sel := selectStmt([]ast.Node{col("a")}, realTable("", "t"))
	sel.OrderBy = []ast.Node{orderBy(intVal("3"), ast.OrderAsc)}
	_, err := translateQueryRoot(t, sel)
	require.True(sql.ErrWrongNumberOfSelect.Is(err))
}

func TestOrderByNegativePositionDropped(t *testing.T) {
	require := require.New(t)

	sel := selectStmt([]ast.Node{col("a")}, realTable("", "t"))
	sel.OrderBy = []ast.Node{orderBy(intVal("-1"), ast.OrderAsc)}
	_, err := translateQueryRoot(t, sel)
	require.NoError(err)
	require.Empty(sel.OrderBy)
}

func TestOrderByNonIntegerPositionDropped(t *testing.T) {
	require := require.New(t)

	v := &ast.ValueNode{Literal: "1.5"}
	v.ResType = sql.TypeOf(sql.TypeDouble)

	sel := selectStmt([]ast.Node{col("a")}, realTable("", "t"))
	sel.OrderBy = []ast.Node{orderBy(v, ast.OrderAsc)}
	_, err := translateQueryRoot(t, sel)
	require.NoError(err)
	require.Empty(sel.OrderBy)
}

func TestOrderByProjectionAlias(t *testing.T) {
	require := require.New(t)

	proj := col("a")
	proj.Alias = "x"
	sel := selectStmt([]ast.Node{proj}, realTable("", "t"))
	sel.OrderBy = []ast.Node{orderBy(col("x"), ast.OrderAsc)}

	_, err := translateQueryRoot(t, sel)
	require.NoError(err)

	obCol := sel.OrderBy[0].(*ast.OrderByExprNode).Expr.(*ast.ColumnNode)
	require.NotNil(obCol.ProjRef)
	require.Equal("", obCol.TableAlias)
}

func TestDistinctOrderByMustBeSelected(t *testing.T) {
	require := require.New(t)

	sel := selectStmt([]ast.Node{col("a")}, realTable("", "t"))
	sel.Distinct = true
	sel.OrderBy = []ast.Node{orderBy(col("b"), ast.OrderAsc)}
	_, err := translateQueryRoot(t, sel)
	require.True(sql.ErrNotSelectedExpression.Is(err))
}

func TestDistinctOrderBySelectedIsLegal(t *testing.T) {
	require := require.New(t)

	sel := selectStmt([]ast.Node{col("a")}, realTable("", "t"))
	sel.Distinct = true
	sel.OrderBy = []ast.Node{orderBy(col("a"), ast.OrderAsc)}
	_, err := translateQueryRoot(t, sel)
	require.NoError(err)
}

func TestIntervalWindow(t *testing.T) {
	require := require.New(t)

	sel := selectStmt([]ast.Node{fn("sum", col("v"))}, realTable("", "st"))
	sel.Window = &ast.IntervalWindowNode{
		Col:      &ast.ColumnNode{ColID: sql.PrimaryTsColID, ColName: sql.PrimaryTsColName},
		Interval: durVal("10s"),
	}
	_, err := translateQueryRoot(t, sel)
	require.NoError(err)
}

func TestIntervalValueTooSmall(t *testing.T) {
	require := require.New(t)

	sel := selectStmt([]ast.Node{fn("sum", col("v"))}, realTable("", "st"))
	sel.Window = &ast.IntervalWindowNode{
		Col:      &ast.ColumnNode{ColID: sql.PrimaryTsColID, ColName: sql.PrimaryTsColName},
		Interval: durVal("0s"),
	}
	_, err := translateQueryRoot(t, sel)
	require.True(sql.ErrIntervalValueTooSmall.Is(err))
}

func TestSubqueryNamespace(t *testing.T) {
	require := require.New(t)

	inner := selectStmt([]ast.Node{col("a"), col("b")}, realTable("", "t"))
	tmp := &ast.TempTableNode{
		TableBase: ast.TableBase{TableAlias: "sub"},
		Subquery:  inner,
	}
	outer := selectStmt([]ast.Node{colOf("sub", "a")}, tmp)

	q, err := translateQueryRoot(t, outer)
	require.NoError(err)
	require.Len(q.ResSchema, 1)
	require.Equal(sql.TypeInt, q.ResSchema[0].Type)

	outerCol := outer.Projections[0].(*ast.ColumnNode)
	require.NotNil(outerCol.ProjRef)
}

func TestSubqueryStarExpandsAliases(t *testing.T) {
	require := require.New(t)

	inner := selectStmt([]ast.Node{col("a")}, realTable("", "t"))
	tmp := &ast.TempTableNode{
		TableBase: ast.TableBase{TableAlias: "sub"},
		Subquery:  inner,
	}
	outer := selectStmt(nil, tmp)

	q, err := translateQueryRoot(t, outer)
	require.NoError(err)
	require.Len(q.ResSchema, 1)
	require.Equal("a", q.ResSchema[0].Name)
}

func TestValueTranslationIdempotent(t *testing.T) {
	require := require.New(t)

	pc := newTestParseContext(t)
	c := newTranslateContext(pc)

	v := durVal("10s")
	require.Equal(ast.VisitContinue, c.translateValue(v))
	first := v.Datum.I
	require.True(v.Translated)

	require.Equal(ast.VisitContinue, c.translateValue(v))
	require.Equal(first, v.Datum.I)
	require.True(v.Translated)
	require.Equal(int64(10000), v.Datum.I)
}

func TestWrongValueType(t *testing.T) {
	require := require.New(t)

	sel := selectStmt([]ast.Node{col("a")}, realTable("", "t"))
	sel.Where = op(ast.OpGreaterThan, col("a"), intVal("banana"))
	_, err := translateQueryRoot(t, sel)
	require.True(sql.ErrWrongValueType.Is(err))
}

func TestReferencedSetsDeterministic(t *testing.T) {
	require := require.New(t)

	build := func() *ast.SelectStmt {
		join := &ast.JoinTableNode{
			Left:   realTable("", "t"),
			Right:  realTable("", "st"),
			OnCond: op(ast.OpEqual, colOf("t", "ts"), colOf("st", "ts")),
		}
		return selectStmt([]ast.Node{colOf("t", "a")}, join)
	}
	q1, err := translateQueryRoot(t, build())
	require.NoError(err)
	q2, err := translateQueryRoot(t, build())
	require.NoError(err)
	require.Equal(q1.DBList, q2.DBList)
	require.Equal(q1.TableList, q2.TableList)
}
