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
	"sort"

	"github.com/rippledb/ripple/sql"
	"github.com/rippledb/ripple/sql/ast"
	"github.com/rippledb/ripple/sql/wire"
)

// ExtractResultSchema derives the result schema of a select from its
// projection list: one column per projection, ids assigned by position.
func ExtractResultSchema(root ast.Node) sql.Schema {
	sel, ok := root.(*ast.SelectStmt)
	if !ok {
		return nil
	}
	schema := make(sql.Schema, 0, len(sel.Projections))
	for i, p := range sel.Projections {
		expr, ok := p.(ast.Expr)
		if !ok {
			continue
		}
		base := expr.Base()
		schema = append(schema, sql.ColumnSchema{
			ColID: int16(i + 1),
			Type:  base.ResType.Type,
			Bytes: base.ResType.Bytes,
			Name:  base.Alias,
		})
	}
	return schema
}

// setQuery classifies the translated root and fills the query envelope: the
// result schema for selects, the data-plane message type for rewritten
// statements, the command envelope for everything else. The referenced-db
// and referenced-table sets are copied out in sorted order so callers see a
// deterministic list.
func (c *translateContext) setQuery(q *Query) error {
	switch q.Root.(type) {
	case *ast.SelectStmt:
		q.HaveResultSet = true
		q.DirectRPC = false
		q.MsgType = wire.VndQuery
		q.ResSchema = ExtractResultSchema(q.Root)
	case *ast.VnodeModifStmt:
		q.HaveResultSet = false
		q.DirectRPC = false
		q.MsgType = wire.VndCreateTable
	default:
		q.HaveResultSet = false
		q.DirectRPC = true
		if c.cmdMsg != nil {
			q.CmdMsg = c.cmdMsg
			c.cmdMsg = nil
			q.MsgType = q.CmdMsg.MsgType
		}
	}

	q.DBList = make([]string, 0, len(c.dbs))
	for db := range c.dbs {
		q.DBList = append(q.DBList, db)
	}
	sort.Strings(q.DBList)

	q.TableList = make([]sql.Name, 0, len(c.tables))
	keys := make([]string, 0, len(c.tables))
	for k := range c.tables {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		q.TableList = append(q.TableList, c.tables[k])
	}
	return nil
}
