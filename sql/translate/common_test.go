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

	"github.com/rippledb/ripple/memory"
	"github.com/rippledb/ripple/sql"
	"github.com/rippledb/ripple/sql/ast"
)

const (
	testAcct = 1
	testDB   = "test"
)

// newTestCatalog builds the shared fixture: database "test" with four
// vgroups, a normal table t, a super table st and two of its children.
func newTestCatalog(t *testing.T) *memory.Catalog {
	t.Helper()
	cat := memory.NewCatalog(testAcct)
	cat.AddDatabase(testDB, 4)

	err := cat.AddNormalTable(testDB, "t", sql.Schema{
		{ColID: 1, Type: sql.TypeTimestamp, Bytes: 8, Name: "ts"},
		{ColID: 2, Type: sql.TypeInt, Bytes: 4, Name: "a"},
		{ColID: 3, Type: sql.TypeVarchar, Bytes: 20, Name: "b"},
		{ColID: 4, Type: sql.TypeDouble, Bytes: 8, Name: "c"},
	})
	require.NoError(t, err)

	err = cat.AddSuperTable(testDB, "st", sql.Schema{
		{ColID: 1, Type: sql.TypeTimestamp, Bytes: 8, Name: "ts"},
		{ColID: 2, Type: sql.TypeDouble, Bytes: 8, Name: "v"},
	}, sql.Schema{
		{ColID: 3, Type: sql.TypeInt, Bytes: 4, Name: "t1"},
		{ColID: 4, Type: sql.TypeVarchar, Bytes: 16, Name: "t2"},
	})
	require.NoError(t, err)

	require.NoError(t, cat.AddChildTable(testDB, "st", "st_1"))
	require.NoError(t, cat.AddChildTable(testDB, "st", "st_2"))
	return cat
}

func newTestParseContext(t *testing.T) *ParseContext {
	t.Helper()
	return &ParseContext{
		AcctID:  testAcct,
		DB:      testDB,
		Catalog: newTestCatalog(t),
		MgmtEps: sql.EpSet{Eps: []sql.Endpoint{{FQDN: "localhost", Port: 7000}}},
		MsgBuf:  make([]byte, 512),
	}
}

func translateQueryRoot(t *testing.T, root ast.Node) (*Query, error) {
	t.Helper()
	q := &Query{Root: root}
	err := Translate(newTestParseContext(t), q)
	return q, err
}

// AST builders in the shape the upstream parser hands over.

func col(name string) *ast.ColumnNode {
	c := &ast.ColumnNode{ColName: name}
	c.Alias = name
	return c
}

func colOf(table, name string) *ast.ColumnNode {
	c := col(name)
	c.TableAlias = table
	return c
}

func intVal(lit string) *ast.ValueNode {
	v := &ast.ValueNode{Literal: lit}
	v.Alias = lit
	v.ResType = sql.TypeOf(sql.TypeBigint)
	return v
}

func strVal(lit string) *ast.ValueNode {
	v := &ast.ValueNode{Literal: lit}
	v.Alias = lit
	v.ResType = sql.DataType{Type: sql.TypeVarchar, Bytes: int32(len(lit))}
	return v
}

func durVal(lit string) *ast.ValueNode {
	v := intVal(lit)
	v.IsDuration = true
	return v
}

func fn(name string, params ...ast.Node) *ast.FunctionNode {
	f := &ast.FunctionNode{Name: name, Params: params}
	f.Alias = name
	return f
}

func op(o ast.OperatorType, l, r ast.Node) *ast.OperatorNode {
	n := &ast.OperatorNode{Op: o, Left: l, Right: r}
	n.Alias = ast.String(n)
	return n
}

func realTable(db, name string) *ast.RealTableNode {
	return &ast.RealTableNode{TableBase: ast.TableBase{
		DBName:     db,
		TableName:  name,
		TableAlias: name,
	}}
}

func orderBy(e ast.Node, order ast.Order) *ast.OrderByExprNode {
	return &ast.OrderByExprNode{Expr: e, Order: order}
}

func selectStmt(projs []ast.Node, from ast.Node) *ast.SelectStmt {
	return &ast.SelectStmt{Projections: projs, From: from}
}
