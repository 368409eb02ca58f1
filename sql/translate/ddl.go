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
	"fmt"

	uuid "github.com/satori/go.uuid"

	"github.com/rippledb/ripple/sql"
	"github.com/rippledb/ripple/sql/ast"
	"github.com/rippledb/ripple/sql/function"
	"github.com/rippledb/ripple/sql/wire"
)

func (c *translateContext) checkCreateDatabase(stmt *ast.CreateDatabaseStmt) error {
	if stmt.Options != nil {
		for _, n := range stmt.Options.Retentions {
			if ast.VisitError == c.translateValue(n.(*ast.ValueNode)) {
				return c.err
			}
		}
	}
	return nil
}

func buildCreateDBRetentions(list []ast.Node) []wire.Retention {
	if len(list) == 0 {
		return nil
	}
	rets := make([]wire.Retention, 0, len(list)/2)
	var freq *ast.ValueNode
	for i, n := range list {
		v := n.(*ast.ValueNode)
		if 0 == i%2 {
			freq = v
		} else {
			rets = append(rets, wire.Retention{
				Freq:     freq.Datum.I,
				FreqUnit: freq.Unit,
				Keep:     v.Datum.I,
				KeepUnit: v.Unit,
			})
		}
	}
	return rets
}

func (c *translateContext) buildCreateDBReq(stmt *ast.CreateDatabaseStmt) *wire.CreateDBReq {
	opts := stmt.Options
	req := &wire.CreateDBReq{
		DB:             sql.DBName(c.pc.AcctID, stmt.DBName).FullDBName(),
		NumOfVgroups:   opts.NumOfVgroups,
		CacheBlockSize: opts.CacheBlockSize,
		TotalBlocks:    opts.NumOfBlocks,
		DaysPerFile:    opts.DaysPerFile,
		DaysToKeep0:    opts.Keep,
		DaysToKeep1:    -1,
		DaysToKeep2:    -1,
		MinRows:        opts.MinRowsPerBlock,
		MaxRows:        opts.MaxRowsPerBlock,
		CommitTime:     -1,
		FsyncPeriod:    opts.FsyncPeriod,
		WalLevel:       opts.WalLevel,
		Precision:      int8(opts.Precision),
		Compression:    opts.CompressionLevel,
		Replications:   opts.Replica,
		Quorum:         opts.Quorum,
		Update:         -1,
		CacheLastRow:   opts.CacheLast,
		StreamMode:     opts.StreamMode,
		IgnoreExist:    stmt.IgnoreExists,
		Retentions:     buildCreateDBRetentions(opts.Retentions),
	}
	return req
}

func (c *translateContext) translateCreateDatabase(stmt *ast.CreateDatabaseStmt) error {
	if err := c.checkCreateDatabase(stmt); err != nil {
		return err
	}
	req := c.buildCreateDBReq(stmt)
	return c.setCmdMsg(wire.MndCreateDB, c.pc.MgmtEps, func(buf []byte) int {
		return wire.SerializeCreateDBReq(buf, req)
	})
}

func (c *translateContext) translateDropDatabase(stmt *ast.DropDatabaseStmt) error {
	req := &wire.DropDBReq{
		DB:              sql.DBName(c.pc.AcctID, stmt.DBName).FullDBName(),
		IgnoreNotExists: stmt.IgnoreNotExists,
	}
	return c.setCmdMsg(wire.MndDropDB, c.pc.MgmtEps, func(buf []byte) int {
		return wire.SerializeDropDBReq(buf, req)
	})
}

func (c *translateContext) translateAlterDatabase(stmt *ast.AlterDatabaseStmt) error {
	opts := stmt.Options
	req := &wire.AlterDBReq{
		DB:           sql.DBName(c.pc.AcctID, stmt.DBName).FullDBName(),
		TotalBlocks:  opts.NumOfBlocks,
		DaysToKeep0:  opts.Keep,
		DaysToKeep1:  -1,
		DaysToKeep2:  -1,
		FsyncPeriod:  opts.FsyncPeriod,
		WalLevel:     opts.WalLevel,
		Quorum:       opts.Quorum,
		CacheLastRow: opts.CacheLast,
	}
	return c.setCmdMsg(wire.MndAlterDB, c.pc.MgmtEps, func(buf []byte) int {
		return wire.SerializeAlterDBReq(buf, req)
	})
}

func (c *translateContext) translateUseDatabase(stmt *ast.UseDatabaseStmt) error {
	fullDB := sql.DBName(c.pc.AcctID, stmt.DBName).FullDBName()
	version, dbID, tableNum, err := c.getDBVgVersion(fullDB)
	if err != nil {
		return c.fail(err)
	}
	req := &wire.UseDBReq{DB: fullDB, VgVersion: version, DBID: dbID, NumOfTable: tableNum}
	return c.setCmdMsg(wire.MndUseDB, c.pc.MgmtEps, func(buf []byte) int {
		return wire.SerializeUseDBReq(buf, req)
	})
}

// calcTypeBytes returns the on-wire width of a column definition: variable
// strings gain the length header, nchar stores four bytes per rune.
func calcTypeBytes(dt sql.DataType) int32 {
	switch dt.Type {
	case sql.TypeVarchar, sql.TypeVarbinary:
		return dt.Bytes + sql.VarHeaderSize
	case sql.TypeNchar:
		return dt.Bytes*sql.NcharSize + sql.VarHeaderSize
	}
	return dt.Bytes
}

func columnDefsToFields(list []ast.Node) []wire.Field {
	fields := make([]wire.Field, 0, len(list))
	for _, n := range list {
		def := n.(*ast.ColumnDefNode)
		fields = append(fields, wire.Field{
			Type:  def.DataType.Type,
			Bytes: calcTypeBytes(def.DataType),
			Name:  def.ColName,
		})
	}
	return fields
}

func columnNodesToFields(list []ast.Node) []wire.Field {
	if len(list) == 0 {
		return nil
	}
	fields := make([]wire.Field, 0, len(list))
	for _, n := range list {
		col := n.(*ast.ColumnNode)
		fields = append(fields, wire.Field{
			Type:  col.ResType.Type,
			Bytes: calcTypeBytes(col.ResType),
			Name:  col.ColName,
		})
	}
	return fields
}

func findColDef(cols []ast.Node, name string) *ast.ColumnDefNode {
	for _, n := range cols {
		if def := n.(*ast.ColumnDefNode); def.ColName == name {
			return def
		}
	}
	return nil
}

func (c *translateContext) checkCreateTable(stmt *ast.CreateTableStmt) error {
	if stmt.Options == nil {
		return nil
	}
	for _, n := range stmt.Options.SmaCols {
		smaCol := n.(*ast.ColumnNode)
		def := findColDef(stmt.Cols, smaCol.ColName)
		if nil == def {
			return c.failKind(sql.ErrInvalidColumn, smaCol.ColName)
		}
		smaCol.ResType = def.DataType
	}
	if len(stmt.Options.RollupFuncs) > 0 {
		fn := stmt.Options.RollupFuncs[0].(*ast.FunctionNode)
		id, kind, ok := function.GetFuncInfo(fn.Name)
		if !ok {
			return c.failKind(sql.ErrInvalidFunction, fn.Name)
		}
		fn.FuncID = id
		fn.FuncKind = int32(kind)
	}
	return nil
}

func aggregationMethod(funcs []ast.Node) int32 {
	if len(funcs) == 0 {
		return -1
	}
	return funcs[0].(*ast.FunctionNode).FuncID
}

func (c *translateContext) translateCreateSuperTable(stmt *ast.CreateTableStmt) error {
	if err := c.checkCreateTable(stmt); err != nil {
		return err
	}
	if "" == stmt.DBName {
		stmt.DBName = c.pc.DB
	}
	req := &wire.MCreateStbReq{
		Name:     sql.TableName(c.pc.AcctID, stmt.DBName, stmt.TableName).FullTableName(),
		IgExists: stmt.IgnoreExists,
		Columns:  columnDefsToFields(stmt.Cols),
		Tags:     columnDefsToFields(stmt.Tags),
	}
	if stmt.Options != nil {
		req.AggregationMethod = aggregationMethod(stmt.Options.RollupFuncs)
		req.XFilesFactor = stmt.Options.FilesFactor
		req.Delay = stmt.Options.Delay
		req.Smas = columnNodesToFields(stmt.Options.SmaCols)
	} else {
		req.AggregationMethod = -1
	}
	return c.setCmdMsg(wire.MndCreateStb, c.pc.MgmtEps, func(buf []byte) int {
		return wire.SerializeMCreateStbReq(buf, req)
	})
}

func (c *translateContext) doTranslateDropSuperTable(name sql.Name, ignoreNotExists bool) error {
	req := &wire.MDropStbReq{Name: name.FullTableName(), IgNotExists: ignoreNotExists}
	return c.setCmdMsg(wire.MndDropStb, c.pc.MgmtEps, func(buf []byte) int {
		return wire.SerializeMDropStbReq(buf, req)
	})
}

func (c *translateContext) translateDropTable(stmt *ast.DropTableStmt) error {
	clause := stmt.Tables[0].(*ast.DropTableClause)
	if "" == clause.DBName {
		clause.DBName = c.pc.DB
	}
	name := sql.TableName(c.pc.AcctID, clause.DBName, clause.TableName)
	meta, err := c.getTableMeta(name)
	if err != nil {
		return c.failKind(sql.ErrTableNotExist, clause.TableName)
	}
	if sql.SuperTable != meta.TableType {
		return c.failKind(sql.ErrUnsupported, "drop normal table")
	}
	return c.doTranslateDropSuperTable(name, clause.IgnoreNotExists)
}

func (c *translateContext) translateDropSuperTable(stmt *ast.DropSuperTableStmt) error {
	name := sql.TableName(c.pc.AcctID, stmt.DBName, stmt.TableName)
	return c.doTranslateDropSuperTable(name, stmt.IgnoreNotExists)
}

func alterTableFields(stmt *ast.AlterTableStmt) []wire.Field {
	switch stmt.AlterType {
	case ast.AlterAddTag, ast.AlterDropTag, ast.AlterAddColumn, ast.AlterDropColumn,
		ast.AlterUpdateColumnBytes, ast.AlterUpdateTagBytes:
		return []wire.Field{{
			Type:  stmt.DataType.Type,
			Bytes: stmt.DataType.Bytes,
			Name:  stmt.ColName,
		}}
	case ast.AlterUpdateTagName, ast.AlterUpdateColumnName:
		return []wire.Field{
			{Name: stmt.ColName},
			{Name: stmt.NewColName},
		}
	}
	return nil
}

func (c *translateContext) translateAlterTable(stmt *ast.AlterTableStmt) error {
	req := &wire.MAlterStbReq{
		Name:        sql.TableName(c.pc.AcctID, stmt.DBName, stmt.TableName).FullTableName(),
		AlterType:   int8(stmt.AlterType),
		NumOfFields: 1,
	}
	if ast.AlterUpdateOptions != stmt.AlterType {
		req.Fields = alterTableFields(stmt)
	}
	return c.setCmdMsg(wire.MndAlterStb, c.pc.MgmtEps, func(buf []byte) int {
		return wire.SerializeMAlterStbReq(buf, req)
	})
}

func (c *translateContext) translateCreateUser(stmt *ast.CreateUserStmt) error {
	req := &wire.CreateUserReq{User: stmt.UserName, Pass: stmt.Password}
	return c.setCmdMsg(wire.MndCreateUser, c.pc.MgmtEps, func(buf []byte) int {
		return wire.SerializeCreateUserReq(buf, req)
	})
}

func (c *translateContext) translateAlterUser(stmt *ast.AlterUserStmt) error {
	req := &wire.AlterUserReq{
		User:      stmt.UserName,
		Pass:      stmt.Password,
		AlterType: stmt.AlterType,
		DBName:    c.pc.DB,
	}
	return c.setCmdMsg(wire.MndAlterUser, c.pc.MgmtEps, func(buf []byte) int {
		return wire.SerializeAlterUserReq(buf, req)
	})
}

func (c *translateContext) translateDropUser(stmt *ast.DropUserStmt) error {
	req := &wire.DropUserReq{User: stmt.UserName}
	return c.setCmdMsg(wire.MndDropUser, c.pc.MgmtEps, func(buf []byte) int {
		return wire.SerializeDropUserReq(buf, req)
	})
}

func (c *translateContext) translateCreateDnode(stmt *ast.CreateDnodeStmt) error {
	req := &wire.CreateDnodeReq{FQDN: stmt.FQDN, Port: stmt.Port}
	return c.setCmdMsg(wire.MndCreateDnode, c.pc.MgmtEps, func(buf []byte) int {
		return wire.SerializeCreateDnodeReq(buf, req)
	})
}

func (c *translateContext) translateDropDnode(stmt *ast.DropDnodeStmt) error {
	req := &wire.DropDnodeReq{DnodeID: stmt.DnodeID, FQDN: stmt.FQDN, Port: stmt.Port}
	return c.setCmdMsg(wire.MndDropDnode, c.pc.MgmtEps, func(buf []byte) int {
		return wire.SerializeDropDnodeReq(buf, req)
	})
}

func (c *translateContext) translateAlterDnode(stmt *ast.AlterDnodeStmt) error {
	req := &wire.MCfgDnodeReq{DnodeID: stmt.DnodeID, Config: stmt.Config, Value: stmt.Value}
	return c.setCmdMsg(wire.MndConfigDnode, c.pc.MgmtEps, func(buf []byte) int {
		return wire.SerializeMCfgDnodeReq(buf, req)
	})
}

func (c *translateContext) translateCreateQnode(stmt *ast.CreateQnodeStmt) error {
	req := &wire.QnodeOpReq{DnodeID: stmt.DnodeID}
	return c.setCmdMsg(wire.DndCreateQnode, c.pc.MgmtEps, func(buf []byte) int {
		return wire.SerializeQnodeOpReq(buf, req)
	})
}

func (c *translateContext) translateDropQnode(stmt *ast.DropQnodeStmt) error {
	req := &wire.QnodeOpReq{DnodeID: stmt.DnodeID}
	return c.setCmdMsg(wire.DndDropQnode, c.pc.MgmtEps, func(buf []byte) int {
		return wire.SerializeQnodeOpReq(buf, req)
	})
}

var showTypeCodes = map[ast.ShowKind]int32{
	ast.ShowDatabases: 1,
	ast.ShowStables:   2,
	ast.ShowUsers:     3,
	ast.ShowDnodes:    4,
	ast.ShowVgroups:   5,
	ast.ShowMnodes:    6,
	ast.ShowQnodes:    7,
}

// translateShow is the legacy direct lowering of the SHOW family; the
// pre-pass rewriter normally intercepts these statements first.
func (c *translateContext) translateShow(stmt *ast.ShowStmt) error {
	req := &wire.ShowReq{Type: showTypeCodes[stmt.Kind]}
	return c.setCmdMsg(wire.MndShow, c.pc.MgmtEps, func(buf []byte) int {
		return wire.SerializeShowReq(buf, req)
	})
}

func (c *translateContext) translateShowTables() error {
	vgs, err := c.getDBVgInfo(sql.DBName(c.pc.AcctID, c.pc.DB).FullDBName())
	if err != nil {
		return c.fail(err)
	}
	if len(vgs) == 0 {
		return c.failKind(sql.ErrTableNotExist, c.pc.DB)
	}
	vg := vgs[0]
	req := &wire.VShowTablesReq{Head: wire.MsgHead{VgID: vg.VgID}}
	if err := c.setCmdMsg(wire.VndShowTables, vg.EpSet, func(buf []byte) int {
		return wire.SerializeVShowTablesReq(buf, req)
	}); err != nil {
		return err
	}
	c.cmdMsg.Extension = vgs
	return nil
}

func smaAlias() string {
	return fmt.Sprintf("#sma_%s", uuid.NewV4().String()[:8])
}

// buildSmaSelect synthesizes SELECT <funcs> FROM <table> INTERVAL(...) for a
// rollup index and translates it like any query.
func (c *translateContext) buildSmaSelect(stmt *ast.CreateIndexStmt) (*ast.SelectStmt, error) {
	sel := &ast.SelectStmt{StmtName: uuid.NewV4().String()}
	sel.From = &ast.RealTableNode{TableBase: ast.TableBase{
		DBName:     c.pc.DB,
		TableName:  stmt.TableName,
		TableAlias: stmt.TableName,
	}}
	sel.Projections = ast.CloneList(stmt.Options.Funcs)
	for _, p := range sel.Projections {
		p.(ast.Expr).Base().Alias = smaAlias()
	}
	tsCol := &ast.ColumnNode{ColID: sql.PrimaryTsColID, ColName: sql.PrimaryTsColName}
	sel.Window = &ast.IntervalWindowNode{
		Col:      tsCol,
		Interval: ast.Clone(stmt.Options.Interval),
		Offset:   ast.Clone(stmt.Options.Offset),
		Sliding:  ast.Clone(stmt.Options.Sliding),
	}
	if err := c.translateQuery(sel); err != nil {
		return nil, err
	}
	return sel, nil
}

func (c *translateContext) buildCreateSmaReq(stmt *ast.CreateIndexStmt) (*wire.MCreateSmaReq, error) {
	interval := stmt.Options.Interval.(*ast.ValueNode)
	req := &wire.MCreateSmaReq{
		Name:         sql.TableName(c.pc.AcctID, c.pc.DB, stmt.IndexName).FullTableName(),
		Stb:          sql.TableName(c.pc.AcctID, c.pc.DB, stmt.TableName).FullTableName(),
		IgExists:     stmt.IgnoreExists,
		Interval:     interval.Datum.I,
		IntervalUnit: interval.Unit,
	}
	if offset, ok := stmt.Options.Offset.(*ast.ValueNode); ok {
		req.Offset = offset.Datum.I
	}
	if sliding, ok := stmt.Options.Sliding.(*ast.ValueNode); ok {
		req.Sliding = sliding.Datum.I
		req.SlidingUnit = sliding.Unit
	} else {
		req.Sliding = req.Interval
		req.SlidingUnit = req.IntervalUnit
	}

	vg, err := c.getTableHashVgroup(sql.TableName(c.pc.AcctID, c.pc.DB, stmt.TableName))
	if err != nil {
		return nil, c.fail(err)
	}
	req.DstVgID = vg.VgID
	req.SQL = c.pc.SQL
	req.Expr = ast.ListToString(stmt.Options.Funcs)

	sel, err := c.buildSmaSelect(stmt)
	if err != nil {
		return nil, err
	}
	req.AST = ast.String(sel)
	return req, nil
}

func (c *translateContext) translateCreateSmaIndex(stmt *ast.CreateIndexStmt) error {
	if ast.VisitError == c.translateValue(stmt.Options.Interval.(*ast.ValueNode)) {
		return c.err
	}
	if offset, ok := stmt.Options.Offset.(*ast.ValueNode); ok {
		if ast.VisitError == c.translateValue(offset) {
			return c.err
		}
	}
	if sliding, ok := stmt.Options.Sliding.(*ast.ValueNode); ok {
		if ast.VisitError == c.translateValue(sliding) {
			return c.err
		}
	}
	req, err := c.buildCreateSmaReq(stmt)
	if err != nil {
		return err
	}
	return c.setCmdMsg(wire.MndCreateSma, c.pc.MgmtEps, func(buf []byte) int {
		return wire.SerializeMCreateSmaReq(buf, req)
	})
}

func (c *translateContext) translateCreateIndex(stmt *ast.CreateIndexStmt) error {
	if ast.IndexSma == stmt.IndexType {
		return c.translateCreateSmaIndex(stmt)
	}
	return c.failKind(sql.ErrUnsupported, "fulltext index")
}

func (c *translateContext) translateDropIndex(stmt *ast.DropIndexStmt) error {
	req := &wire.VDropSmaReq{IndexName: stmt.IndexName}
	return c.setCmdMsg(wire.VndDropSma, c.pc.MgmtEps, func(buf []byte) int {
		return wire.SerializeVDropSmaReq(buf, req)
	})
}

func (c *translateContext) translateCreateTopic(stmt *ast.CreateTopicStmt) error {
	req := &wire.CreateTopicReq{}
	if stmt.Query != nil {
		c.pc.TopicQuery = true
		if err := c.translateQuery(stmt.Query); err != nil {
			return err
		}
		req.AST = ast.String(stmt.Query)
	} else {
		req.SubscribeDBName = stmt.SubscribeDBName
	}
	req.SQL = c.pc.SQL
	req.Name = sql.TableName(c.pc.AcctID, c.pc.DB, stmt.TopicName).FullTableName()
	req.IgExists = stmt.IgnoreExists
	return c.setCmdMsg(wire.MndCreateTopic, c.pc.MgmtEps, func(buf []byte) int {
		return wire.SerializeCreateTopicReq(buf, req)
	})
}

func (c *translateContext) translateDropTopic(stmt *ast.DropTopicStmt) error {
	req := &wire.MDropTopicReq{
		Name:        sql.TableName(c.pc.AcctID, c.pc.DB, stmt.TopicName).FullTableName(),
		IgNotExists: stmt.IgnoreNotExists,
	}
	return c.setCmdMsg(wire.MndDropTopic, c.pc.MgmtEps, func(buf []byte) int {
		return wire.SerializeMDropTopicReq(buf, req)
	})
}

func (c *translateContext) translateAlterLocal(*ast.AlterLocalStmt) error {
	// applied by the client itself; nothing to dispatch
	return nil
}
