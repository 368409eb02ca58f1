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
	"math"
	"sort"

	uuid "github.com/satori/go.uuid"

	"github.com/rippledb/ripple/sql"
	"github.com/rippledb/ripple/sql/ast"
	"github.com/rippledb/ripple/sql/information_schema"
	"github.com/rippledb/ripple/sql/wire"
)

var showSysTables = map[ast.ShowKind]string{
	ast.ShowDatabases: information_schema.TableUserDatabases,
	ast.ShowTables:    information_schema.TableUserTables,
	ast.ShowStables:   information_schema.TableUserStables,
	ast.ShowUsers:     information_schema.TableUserUsers,
	ast.ShowDnodes:    information_schema.TableDnodes,
	ast.ShowVgroups:   information_schema.TableVgroups,
	ast.ShowMnodes:    information_schema.TableMnodes,
	ast.ShowModules:   information_schema.TableModules,
	ast.ShowQnodes:    information_schema.TableQnodes,
	ast.ShowFunctions: information_schema.TableUserFunctions,
	ast.ShowIndexes:   information_schema.TableUserIndexes,
	ast.ShowStreams:   information_schema.TableUserStreams,
}

func tbNameColName(kind ast.ShowKind) string {
	if ast.ShowStables == kind {
		return "stable_name"
	}
	return "table_name"
}

func createSelectStmtForShow(kind ast.ShowKind) *ast.SelectStmt {
	table := &ast.RealTableNode{TableBase: ast.TableBase{
		DBName:     information_schema.DBName,
		TableName:  showSysTables[kind],
		TableAlias: showSysTables[kind],
	}}
	return &ast.SelectStmt{
		StmtName: uuid.NewV4().String(),
		From:     table,
	}
}

// createOperatorNode synthesizes `<colName> <op> <right>` with a cloned
// right operand; a nil right yields no condition.
func createOperatorNode(op ast.OperatorType, colName string, right ast.Node) ast.Node {
	if nil == right {
		return nil
	}
	return &ast.OperatorNode{
		Op:    op,
		Left:  &ast.ColumnNode{ColName: colName},
		Right: ast.Clone(right),
	}
}

func createLogicCondNode(cond1, cond2 ast.Node) ast.Node {
	return &ast.LogicConditionNode{
		CondType: ast.LogicAnd,
		Params:   []ast.Node{cond1, cond2},
	}
}

func createShowCondition(show *ast.ShowStmt, sel *ast.SelectStmt) {
	dbCond := createOperatorNode(ast.OpEqual, "db_name", show.DBName)
	tbCond := createOperatorNode(ast.OpLike, tbNameColName(show.Kind), show.TbNamePattern)

	if dbCond != nil && tbCond != nil {
		sel.Where = createLogicCondNode(dbCond, tbCond)
	} else if dbCond != nil {
		sel.Where = dbCond
	} else {
		sel.Where = tbCond
	}

	if show.DBName != nil {
		sel.From.(*ast.RealTableNode).UseDBName = show.DBName.(*ast.ValueNode).Literal
	}
}

func (c *translateContext) rewriteShow(q *Query) error {
	show := q.Root.(*ast.ShowStmt)
	sel := createSelectStmtForShow(show.Kind)
	createShowCondition(show, sel)
	q.ShowRewrite = true
	q.Root = sel
	return nil
}

// vgroupTablesBatch accumulates the create requests destined for one vgroup.
type vgroupTablesBatch struct {
	req    wire.CreateTbBatchReq
	info   sql.VgroupInfo
	dbName string
}

func buildNormalTableBatchReq(acctID int32, stmt *ast.CreateTableStmt, info sql.VgroupInfo) *vgroupTablesBatch {
	schema := make(sql.Schema, 0, len(stmt.Cols))
	for i, n := range stmt.Cols {
		def := n.(*ast.ColumnDefNode)
		schema = append(schema, sql.ColumnSchema{
			ColID: int16(i + 1),
			Type:  def.DataType.Type,
			Bytes: def.DataType.Bytes,
			Name:  def.ColName,
		})
	}
	return &vgroupTablesBatch{
		req: wire.CreateTbBatchReq{Tables: []wire.CreateTbReq{{
			Type:    wire.TableNormal,
			DBFName: sql.DBName(acctID, stmt.DBName).FullDBName(),
			Name:    stmt.TableName,
			Schema:  schema,
		}}},
		info:   info,
		dbName: stmt.DBName,
	}
}

// serializeVgroupTablesBatch encodes one batch behind a message header
// carrying the vgroup id and total length, both network byte order.
func (c *translateContext) serializeVgroupTablesBatch(batch *vgroupTablesBatch) (*wire.VgDataBlocks, error) {
	bodyLen := wire.SerializeCreateTbBatchReq(nil, &batch.req)
	if bodyLen < 0 {
		return nil, c.failKind(sql.ErrOutOfMemory)
	}
	total := wire.MsgHeadSize + bodyLen
	buf := make([]byte, total)
	wire.PutMsgHead(buf, batch.info.VgID, int32(total))
	if wire.SerializeCreateTbBatchReq(buf[wire.MsgHeadSize:], &batch.req) < 0 {
		return nil, c.failKind(sql.ErrOutOfMemory)
	}
	return &wire.VgDataBlocks{
		Vg:          batch.info,
		NumOfTables: int32(len(batch.req.Tables)),
		Size:        total,
		Data:        buf,
	}, nil
}

func rewriteToVnodeModifStmt(q *Query, blocks []*wire.VgDataBlocks) {
	q.Root = &ast.VnodeModifStmt{SQLNode: q.Root, DataBlocks: blocks}
}

func (c *translateContext) rewriteCreateTable(q *Query) error {
	stmt := q.Root.(*ast.CreateTableStmt)
	if "" == stmt.DBName {
		stmt.DBName = c.pc.DB
	}
	info, err := c.getTableHashVgroup(sql.TableName(c.pc.AcctID, stmt.DBName, stmt.TableName))
	if err != nil {
		return c.fail(err)
	}
	block, err := c.serializeVgroupTablesBatch(buildNormalTableBatchReq(c.pc.AcctID, stmt, info))
	if err != nil {
		return err
	}
	rewriteToVnodeModifStmt(q, []*wire.VgDataBlocks{block})
	return nil
}

// datumBytes dumps a translated value into the wire encoding of the target
// tag type.
func datumBytes(v *ast.ValueNode, target sql.TypeID) []byte {
	switch {
	case sql.TypeBool == target:
		if v.Datum.B {
			return []byte{1}
		}
		return []byte{0}
	case sql.TypeTinyint == target, sql.TypeUTinyint == target:
		return []byte{byte(v.Datum.I | int64(v.Datum.U))}
	case sql.TypeSmallint == target, sql.TypeUSmallint == target:
		b := make([]byte, 2)
		binary.BigEndian.PutUint16(b, uint16(v.Datum.I)|uint16(v.Datum.U))
		return b
	case sql.TypeInt == target, sql.TypeUInt == target:
		b := make([]byte, 4)
		binary.BigEndian.PutUint32(b, uint32(v.Datum.I)|uint32(v.Datum.U))
		return b
	case sql.TypeBigint == target, sql.TypeUBigint == target, sql.TypeTimestamp == target:
		b := make([]byte, 8)
		binary.BigEndian.PutUint64(b, uint64(v.Datum.I)|v.Datum.U)
		return b
	case sql.TypeFloat == target:
		b := make([]byte, 4)
		binary.BigEndian.PutUint32(b, math.Float32bits(float32(v.Datum.D)))
		return b
	case sql.TypeDouble == target:
		b := make([]byte, 8)
		binary.BigEndian.PutUint64(b, math.Float64bits(v.Datum.D))
		return b
	case target.IsVarLen():
		return v.Datum.P
	}
	return nil
}

func (c *translateContext) addValToKVRow(v *ast.ValueNode, cs sql.ColumnSchema, builder *wire.KVRowBuilder) error {
	if ast.VisitError == c.translateValue(v) {
		return c.err
	}
	builder.Add(cs.ColID, cs.Type, datumBytes(v, cs.Type))
	return nil
}

func (c *translateContext) buildKVRowForBindTags(clause *ast.CreateSubTableClause, meta *sql.TableMeta, builder *wire.KVRowBuilder) error {
	numOfTags := len(meta.Tags)
	if len(clause.TagValues) != len(clause.SpecificTags) || numOfTags < len(clause.TagValues) {
		return c.failKind(sql.ErrTagsNotMatched)
	}
	for i, tn := range clause.SpecificTags {
		col := tn.(*ast.ColumnNode)
		var schema *sql.ColumnSchema
		for j := range meta.Tags {
			if meta.Tags[j].Name == col.ColName {
				schema = &meta.Tags[j]
				break
			}
		}
		if nil == schema {
			return c.failKind(sql.ErrInvalidTagName, col.ColName)
		}
		if err := c.addValToKVRow(clause.TagValues[i].(*ast.ValueNode), *schema, builder); err != nil {
			return err
		}
	}
	return nil
}

func (c *translateContext) buildKVRowForAllTags(clause *ast.CreateSubTableClause, meta *sql.TableMeta, builder *wire.KVRowBuilder) error {
	if len(meta.Tags) != len(clause.TagValues) {
		return c.failKind(sql.ErrTagsNotMatched)
	}
	for i, vn := range clause.TagValues {
		if err := c.addValToKVRow(vn.(*ast.ValueNode), meta.Tags[i], builder); err != nil {
			return err
		}
	}
	return nil
}

func (c *translateContext) rewriteCreateSubTable(clause *ast.CreateSubTableClause, vgroupMap map[int32]*vgroupTablesBatch) error {
	if "" == clause.DBName {
		clause.DBName = c.pc.DB
	}
	if "" == clause.UseDBName {
		clause.UseDBName = c.pc.DB
	}
	meta, err := c.getTableMeta(sql.TableName(c.pc.AcctID, clause.UseDBName, clause.UseTableName))
	if err != nil {
		return c.failKind(sql.ErrTableNotExist, clause.UseTableName)
	}

	var builder wire.KVRowBuilder
	if clause.SpecificTags != nil {
		err = c.buildKVRowForBindTags(clause, meta, &builder)
	} else {
		err = c.buildKVRowForAllTags(clause, meta, &builder)
	}
	if err != nil {
		return err
	}
	row := builder.Build()

	info, err := c.getTableHashVgroup(sql.TableName(c.pc.AcctID, clause.DBName, clause.TableName))
	if err != nil {
		return c.fail(err)
	}

	req := wire.CreateTbReq{
		Type:    wire.TableChild,
		DBFName: sql.DBName(c.pc.AcctID, clause.DBName).FullDBName(),
		Name:    clause.TableName,
		SUID:    meta.UID,
		Tags:    row,
	}
	batch, ok := vgroupMap[info.VgID]
	if !ok {
		batch = &vgroupTablesBatch{info: info, dbName: clause.DBName}
		vgroupMap[info.VgID] = batch
	}
	batch.req.Tables = append(batch.req.Tables, req)
	return nil
}

func (c *translateContext) rewriteCreateMultiTable(q *Query) error {
	stmt := q.Root.(*ast.CreateMultiTableStmt)
	vgroupMap := make(map[int32]*vgroupTablesBatch)
	for _, n := range stmt.SubTables {
		if err := c.rewriteCreateSubTable(n.(*ast.CreateSubTableClause), vgroupMap); err != nil {
			return err
		}
	}

	vgIDs := make([]int32, 0, len(vgroupMap))
	for id := range vgroupMap {
		vgIDs = append(vgIDs, id)
	}
	sort.Slice(vgIDs, func(i, j int) bool { return vgIDs[i] < vgIDs[j] })

	blocks := make([]*wire.VgDataBlocks, 0, len(vgIDs))
	for _, id := range vgIDs {
		block, err := c.serializeVgroupTablesBatch(vgroupMap[id])
		if err != nil {
			return err
		}
		blocks = append(blocks, block)
	}
	rewriteToVnodeModifStmt(q, blocks)
	return nil
}

func (c *translateContext) rewriteAlterTable(*Query) error {
	// tag-value updates are lowered by the data-plane writer
	return nil
}

// rewriteQuery replaces a closed set of statement shapes before the main
// translation pass sees them.
func (c *translateContext) rewriteQuery(q *Query) error {
	switch stmt := q.Root.(type) {
	case *ast.ShowStmt:
		return c.rewriteShow(q)
	case *ast.CreateTableStmt:
		if len(stmt.Tags) == 0 {
			return c.rewriteCreateTable(q)
		}
	case *ast.CreateMultiTableStmt:
		return c.rewriteCreateMultiTable(q)
	case *ast.AlterTableStmt:
		if ast.AlterUpdateTagVal == stmt.AlterType {
			return c.rewriteAlterTable(q)
		}
	}
	return nil
}
