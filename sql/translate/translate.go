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

// Package translate turns a parsed query tree into a type-annotated,
// catalog-resolved tree (for selects) or a serialized management request
// (for admin statements). One Translate call owns its context end to end;
// the only blocking operations are the catalog lookups underneath it.
package translate

import (
	"fmt"

	"github.com/opentracing/opentracing-go"

	"github.com/rippledb/ripple/sql"
	"github.com/rippledb/ripple/sql/ast"
	"github.com/rippledb/ripple/sql/function"
	"github.com/rippledb/ripple/sql/wire"
)

// Query is the envelope around one statement: the (possibly rewritten) root
// and everything the finalizer derives from it for the caller.
type Query struct {
	Root ast.Node

	HaveResultSet bool
	DirectRPC     bool
	ShowRewrite   bool
	MsgType       wire.MsgType
	ResSchema     sql.Schema
	CmdMsg        *wire.CmdMsg

	// DBList and TableList name every database and table the translation
	// consulted, for the caller's cache invalidation.
	DBList    []string
	TableList []sql.Name
}

// Translate analyzes the query in place: rewrite pre-pass, main translation,
// finalization. On failure the query is left partially translated, the
// diagnostic is copied into the parse context's message buffer and the error
// is returned.
func Translate(pc *ParseContext, q *Query) error {
	span := opentracing.GlobalTracer().StartSpan("translate")
	span.SetTag("stmt", fmt.Sprintf("%T", q.Root))
	defer span.Finish()

	if err := function.Init(); err != nil {
		return err
	}

	c := newTranslateContext(pc)
	err := c.rewriteQuery(q)
	if err == nil {
		err = c.translateQuery(q.Root)
	}
	if err == nil {
		err = c.setQuery(q)
	}
	if err != nil {
		copy(pc.MsgBuf, err.Error())
		return err
	}
	return nil
}

// translateQuery dispatches on the statement kind.
func (c *translateContext) translateQuery(n ast.Node) error {
	switch stmt := n.(type) {
	case *ast.SelectStmt:
		return c.translateSelect(stmt)
	case *ast.CreateDatabaseStmt:
		return c.translateCreateDatabase(stmt)
	case *ast.DropDatabaseStmt:
		return c.translateDropDatabase(stmt)
	case *ast.AlterDatabaseStmt:
		return c.translateAlterDatabase(stmt)
	case *ast.UseDatabaseStmt:
		return c.translateUseDatabase(stmt)
	case *ast.CreateTableStmt:
		return c.translateCreateSuperTable(stmt)
	case *ast.DropTableStmt:
		return c.translateDropTable(stmt)
	case *ast.DropSuperTableStmt:
		return c.translateDropSuperTable(stmt)
	case *ast.AlterTableStmt:
		return c.translateAlterTable(stmt)
	case *ast.CreateUserStmt:
		return c.translateCreateUser(stmt)
	case *ast.AlterUserStmt:
		return c.translateAlterUser(stmt)
	case *ast.DropUserStmt:
		return c.translateDropUser(stmt)
	case *ast.CreateDnodeStmt:
		return c.translateCreateDnode(stmt)
	case *ast.DropDnodeStmt:
		return c.translateDropDnode(stmt)
	case *ast.AlterDnodeStmt:
		return c.translateAlterDnode(stmt)
	case *ast.CreateQnodeStmt:
		return c.translateCreateQnode(stmt)
	case *ast.DropQnodeStmt:
		return c.translateDropQnode(stmt)
	case *ast.CreateIndexStmt:
		return c.translateCreateIndex(stmt)
	case *ast.DropIndexStmt:
		return c.translateDropIndex(stmt)
	case *ast.CreateTopicStmt:
		return c.translateCreateTopic(stmt)
	case *ast.DropTopicStmt:
		return c.translateDropTopic(stmt)
	case *ast.AlterLocalStmt:
		return c.translateAlterLocal(stmt)
	case *ast.ShowStmt:
		if ast.ShowTables == stmt.Kind {
			return c.translateShowTables()
		}
		return c.translateShow(stmt)
	}
	return nil
}

// translateSubquery pushes a namespace level around the inner statement and
// restores the clause and select of the enclosing one.
func (c *translateContext) translateSubquery(n ast.Node) error {
	c.currLevel++
	currClause := c.currClause
	currStmt := c.currStmt
	err := c.translateQuery(n)
	c.currLevel--
	c.currClause = currClause
	c.currStmt = currStmt
	return err
}
