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

func defaultDBOptions() *ast.DatabaseOptions {
	return &ast.DatabaseOptions{
		NumOfVgroups:     -1,
		CacheBlockSize:   -1,
		NumOfBlocks:      -1,
		DaysPerFile:      -1,
		Keep:             -1,
		MinRowsPerBlock:  -1,
		MaxRowsPerBlock:  -1,
		FsyncPeriod:      -1,
		WalLevel:         -1,
		CompressionLevel: -1,
		Replica:          -1,
		Quorum:           -1,
		CacheLast:        -1,
	}
}

func requireCmdMsg(t *testing.T, q *Query, msgType wire.MsgType) *wire.CmdMsg {
	t.Helper()
	require.False(t, q.HaveResultSet)
	require.True(t, q.DirectRPC)
	require.Equal(t, msgType, q.MsgType)
	require.NotNil(t, q.CmdMsg)
	require.Equal(t, msgType, q.CmdMsg.MsgType)
	require.Equal(t, q.CmdMsg.MsgLen, len(q.CmdMsg.Msg))
	require.NotZero(t, q.CmdMsg.MsgLen)
	return q.CmdMsg
}

// CREATE DATABASE d KEEP 30
func TestCreateDatabase(t *testing.T) {
	require := require.New(t)

	opts := defaultDBOptions()
	opts.Keep = 30
	stmt := &ast.CreateDatabaseStmt{DBName: "d", Options: opts}

	q, err := translateQueryRoot(t, stmt)
	require.NoError(err)
	msg := requireCmdMsg(t, q, wire.MndCreateDB)
	require.Equal("localhost:7000", msg.EpSet.Eps[0].String())

	// re-serialize the expected request; the payload must match byte for
	// byte, daysToKeep1/2 staying at the server-chooses sentinel
	expect := &wire.CreateDBReq{
		DB:             "1.d",
		NumOfVgroups:   -1,
		CacheBlockSize: -1,
		TotalBlocks:    -1,
		DaysPerFile:    -1,
		DaysToKeep0:    30,
		DaysToKeep1:    -1,
		DaysToKeep2:    -1,
		MinRows:        -1,
		MaxRows:        -1,
		CommitTime:     -1,
		FsyncPeriod:    -1,
		WalLevel:       -1,
		Compression:    -1,
		Replications:   -1,
		Quorum:         -1,
		Update:         -1,
		CacheLastRow:   -1,
	}
	n := wire.SerializeCreateDBReq(nil, expect)
	buf := make([]byte, n)
	wire.SerializeCreateDBReq(buf, expect)
	require.Equal(buf, msg.Msg)
}

func TestCreateDatabaseRetentions(t *testing.T) {
	require := require.New(t)

	opts := defaultDBOptions()
	opts.Retentions = []ast.Node{durVal("1m"), durVal("7d")}
	stmt := &ast.CreateDatabaseStmt{DBName: "d", Options: opts}

	q, err := translateQueryRoot(t, stmt)
	require.NoError(err)
	requireCmdMsg(t, q, wire.MndCreateDB)

	// both retention values were translated in place
	require.True(opts.Retentions[0].(*ast.ValueNode).Translated)
	require.True(opts.Retentions[1].(*ast.ValueNode).Translated)
}

func TestDropDatabase(t *testing.T) {
	require := require.New(t)

	q, err := translateQueryRoot(t, &ast.DropDatabaseStmt{DBName: "d", IgnoreNotExists: true})
	require.NoError(err)
	requireCmdMsg(t, q, wire.MndDropDB)
}

func TestAlterDatabase(t *testing.T) {
	require := require.New(t)

	q, err := translateQueryRoot(t, &ast.AlterDatabaseStmt{DBName: "d", Options: defaultDBOptions()})
	require.NoError(err)
	requireCmdMsg(t, q, wire.MndAlterDB)
}

func TestUseDatabase(t *testing.T) {
	require := require.New(t)

	q, err := translateQueryRoot(t, &ast.UseDatabaseStmt{DBName: testDB})
	require.NoError(err)
	requireCmdMsg(t, q, wire.MndUseDB)
	require.Contains(q.DBList, "1.test")
}

func TestUseDatabaseNotExist(t *testing.T) {
	require := require.New(t)

	_, err := translateQueryRoot(t, &ast.UseDatabaseStmt{DBName: "nope"})
	require.Error(err)
}

func colDef(name string, dt sql.DataType) *ast.ColumnDefNode {
	return &ast.ColumnDefNode{ColName: name, DataType: dt}
}

func TestCreateSuperTable(t *testing.T) {
	require := require.New(t)

	stmt := &ast.CreateTableStmt{
		DBName:    testDB,
		TableName: "st2",
		Cols: []ast.Node{
			colDef("ts", sql.TypeOf(sql.TypeTimestamp)),
			colDef("v", sql.DataType{Type: sql.TypeNchar, Bytes: 8}),
		},
		Tags: []ast.Node{
			colDef("t1", sql.TypeOf(sql.TypeInt)),
		},
	}
	q, err := translateQueryRoot(t, stmt)
	require.NoError(err)
	requireCmdMsg(t, q, wire.MndCreateStb)
}

func TestCreateSuperTableSmaColumnChecked(t *testing.T) {
	require := require.New(t)

	stmt := &ast.CreateTableStmt{
		DBName:    testDB,
		TableName: "st2",
		Cols:      []ast.Node{colDef("ts", sql.TypeOf(sql.TypeTimestamp))},
		Tags:      []ast.Node{colDef("t1", sql.TypeOf(sql.TypeInt))},
		Options:   &ast.TableOptions{SmaCols: []ast.Node{col("missing")}},
	}
	_, err := translateQueryRoot(t, stmt)
	require.True(sql.ErrInvalidColumn.Is(err))
}

func TestDropSuperTable(t *testing.T) {
	require := require.New(t)

	q, err := translateQueryRoot(t, &ast.DropSuperTableStmt{DBName: testDB, TableName: "st"})
	require.NoError(err)
	requireCmdMsg(t, q, wire.MndDropStb)
}

func TestDropTableResolvesSuperTable(t *testing.T) {
	require := require.New(t)

	stmt := &ast.DropTableStmt{Tables: []ast.Node{
		&ast.DropTableClause{TableName: "st"},
	}}
	q, err := translateQueryRoot(t, stmt)
	require.NoError(err)
	requireCmdMsg(t, q, wire.MndDropStb)
}

func TestDropNormalTableUnsupported(t *testing.T) {
	require := require.New(t)

	stmt := &ast.DropTableStmt{Tables: []ast.Node{
		&ast.DropTableClause{TableName: "t"},
	}}
	_, err := translateQueryRoot(t, stmt)
	require.True(sql.ErrUnsupported.Is(err))
}

func TestAlterTableRename(t *testing.T) {
	require := require.New(t)

	stmt := &ast.AlterTableStmt{
		DBName:     testDB,
		TableName:  "st",
		AlterType:  ast.AlterUpdateTagName,
		ColName:    "t1",
		NewColName: "t9",
	}
	q, err := translateQueryRoot(t, stmt)
	require.NoError(err)
	requireCmdMsg(t, q, wire.MndAlterStb)
}

func TestUserStatements(t *testing.T) {
	require := require.New(t)

	q, err := translateQueryRoot(t, &ast.CreateUserStmt{UserName: "u", Password: "p"})
	require.NoError(err)
	requireCmdMsg(t, q, wire.MndCreateUser)

	q, err = translateQueryRoot(t, &ast.AlterUserStmt{UserName: "u", Password: "p2"})
	require.NoError(err)
	requireCmdMsg(t, q, wire.MndAlterUser)

	q, err = translateQueryRoot(t, &ast.DropUserStmt{UserName: "u"})
	require.NoError(err)
	requireCmdMsg(t, q, wire.MndDropUser)
}

func TestDnodeStatements(t *testing.T) {
	require := require.New(t)

	q, err := translateQueryRoot(t, &ast.CreateDnodeStmt{FQDN: "node1", Port: 7000})
	require.NoError(err)
	requireCmdMsg(t, q, wire.MndCreateDnode)

	q, err = translateQueryRoot(t, &ast.DropDnodeStmt{DnodeID: 2})
	require.NoError(err)
	requireCmdMsg(t, q, wire.MndDropDnode)

	q, err = translateQueryRoot(t, &ast.AlterDnodeStmt{DnodeID: 1, Config: "debugFlag", Value: "135"})
	require.NoError(err)
	requireCmdMsg(t, q, wire.MndConfigDnode)
}

func TestQnodeStatements(t *testing.T) {
	require := require.New(t)

	q, err := translateQueryRoot(t, &ast.CreateQnodeStmt{DnodeID: 1})
	require.NoError(err)
	requireCmdMsg(t, q, wire.DndCreateQnode)

	q, err = translateQueryRoot(t, &ast.DropQnodeStmt{DnodeID: 1})
	require.NoError(err)
	requireCmdMsg(t, q, wire.DndDropQnode)
}

func TestCreateSmaIndex(t *testing.T) {
	require := require.New(t)

	stmt := &ast.CreateIndexStmt{
		IndexType: ast.IndexSma,
		IndexName: "idx1",
		TableName: "t",
		Options: &ast.IndexOptions{
			Funcs:    []ast.Node{fn("max", col("c"))},
			Interval: durVal("10s"),
		},
	}
	q, err := translateQueryRoot(t, stmt)
	require.NoError(err)
	msg := requireCmdMsg(t, q, wire.MndCreateSma)
	require.NotNil(msg)
}

func TestCreateFulltextIndexUnsupported(t *testing.T) {
	require := require.New(t)

	stmt := &ast.CreateIndexStmt{IndexType: ast.IndexFulltext, IndexName: "idx1", TableName: "t"}
	_, err := translateQueryRoot(t, stmt)
	require.True(sql.ErrUnsupported.Is(err))
}

func TestDropIndex(t *testing.T) {
	require := require.New(t)

	q, err := translateQueryRoot(t, &ast.DropIndexStmt{IndexName: "idx1", TableName: "t"})
	require.NoError(err)
	requireCmdMsg(t, q, wire.VndDropSma)
}

func TestCreateTopicWithQuery(t *testing.T) {
	require := require.New(t)

	sel := selectStmt([]ast.Node{col("a")}, realTable("", "t"))
	stmt := &ast.CreateTopicStmt{TopicName: "tp1", Query: sel}

	q, err := translateQueryRoot(t, stmt)
	require.NoError(err)
	requireCmdMsg(t, q, wire.MndCreateTopic)

	// topic queries skip vgroup binding during resolution
	require.Empty(sel.From.(*ast.RealTableNode).Vgroups)
}

func TestCreateTopicOverDatabase(t *testing.T) {
	require := require.New(t)

	stmt := &ast.CreateTopicStmt{TopicName: "tp1", SubscribeDBName: testDB}
	q, err := translateQueryRoot(t, stmt)
	require.NoError(err)
	requireCmdMsg(t, q, wire.MndCreateTopic)
}

func TestDropTopic(t *testing.T) {
	require := require.New(t)

	q, err := translateQueryRoot(t, &ast.DropTopicStmt{TopicName: "tp1"})
	require.NoError(err)
	requireCmdMsg(t, q, wire.MndDropTopic)
}

func TestShowTablesTargetsFirstVgroup(t *testing.T) {
	require := require.New(t)

	pc := newTestParseContext(t)
	c := newTranslateContext(pc)
	require.NoError(c.translateShowTables())
	require.Equal(wire.VndShowTables, c.cmdMsg.MsgType)
	require.NotNil(c.cmdMsg.Extension)
	require.Equal("localhost:7100", c.cmdMsg.EpSet.Eps[0].String())
}

func TestShowLegacyLowering(t *testing.T) {
	require := require.New(t)

	pc := newTestParseContext(t)
	c := newTranslateContext(pc)
	require.NoError(c.translateShow(&ast.ShowStmt{Kind: ast.ShowDatabases}))
	require.Equal(wire.MndShow, c.cmdMsg.MsgType)
	require.Equal(pc.MgmtEps, c.cmdMsg.EpSet)
}

func TestAlterLocalIsNoop(t *testing.T) {
	require := require.New(t)

	q, err := translateQueryRoot(t, &ast.AlterLocalStmt{Config: "debugFlag", Value: "135"})
	require.NoError(err)
	require.False(q.HaveResultSet)
	require.Nil(q.CmdMsg)
}
