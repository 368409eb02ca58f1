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
	"github.com/rippledb/ripple/sql"
	"github.com/rippledb/ripple/sql/wire"
)

// SelectStmt is a query block. A nil Projections means "*" and is expanded
// during translation.
type SelectStmt struct {
	StmtName    string
	Distinct    bool
	Projections []Node
	From        Node
	Where       Node
	PartitionBy []Node
	Window      Node
	GroupBy     []Node
	Having      Node
	OrderBy     []Node
}

func (*SelectStmt) node() {}

// DatabaseOptions carries the tunables of CREATE/ALTER DATABASE. A value of
// -1 means "server chooses".
type DatabaseOptions struct {
	NumOfVgroups     int32
	CacheBlockSize   int32
	NumOfBlocks      int32
	DaysPerFile      int32
	Keep             int32
	MinRowsPerBlock  int32
	MaxRowsPerBlock  int32
	FsyncPeriod      int32
	WalLevel         int8
	Precision        sql.Precision
	CompressionLevel int8
	Replica          int8
	Quorum           int8
	CacheLast        int8
	StreamMode       int8

	// Retentions holds freq/keep duration value pairs, flattened.
	Retentions []Node
}

// CreateDatabaseStmt creates a database.
type CreateDatabaseStmt struct {
	DBName       string
	IgnoreExists bool
	Options      *DatabaseOptions
}

func (*CreateDatabaseStmt) node() {}

// AlterDatabaseStmt alters database options.
type AlterDatabaseStmt struct {
	DBName  string
	Options *DatabaseOptions
}

func (*AlterDatabaseStmt) node() {}

// DropDatabaseStmt drops a database.
type DropDatabaseStmt struct {
	DBName          string
	IgnoreNotExists bool
}

func (*DropDatabaseStmt) node() {}

// UseDatabaseStmt switches the session database.
type UseDatabaseStmt struct {
	DBName string
}

func (*UseDatabaseStmt) node() {}

// ColumnDefNode is one column or tag definition in CREATE TABLE.
type ColumnDefNode struct {
	ColName  string
	DataType sql.DataType
	Comment  string
}

func (*ColumnDefNode) node() {}

// TableOptions carries super-table rollup settings.
type TableOptions struct {
	FilesFactor float64
	Delay       int32

	// SmaCols names the columns pre-aggregated into block-level rollups.
	SmaCols []Node

	// RollupFuncs holds the rollup aggregation functions; the first one is
	// the table's aggregation method.
	RollupFuncs []Node
}

// CreateTableStmt creates a normal table or, when Tags is non-empty, a super
// table.
type CreateTableStmt struct {
	DBName       string
	TableName    string
	IgnoreExists bool
	Cols         []Node
	Tags         []Node
	Options      *TableOptions
}

func (*CreateTableStmt) node() {}

// CreateSubTableClause instantiates one child table from a super table, with
// tags either bound by name pairs or given positionally.
type CreateSubTableClause struct {
	DBName       string
	TableName    string
	UseDBName    string
	UseTableName string
	IgnoreExists bool
	SpecificTags []Node
	TagValues    []Node
}

func (*CreateSubTableClause) node() {}

// CreateMultiTableStmt groups several child-table creations.
type CreateMultiTableStmt struct {
	SubTables []Node
}

func (*CreateMultiTableStmt) node() {}

// DropTableClause names one table of a DROP TABLE list.
type DropTableClause struct {
	DBName          string
	TableName       string
	IgnoreNotExists bool
}

func (*DropTableClause) node() {}

// DropTableStmt drops tables.
type DropTableStmt struct {
	Tables []Node
}

func (*DropTableStmt) node() {}

// DropSuperTableStmt drops a super table.
type DropSuperTableStmt struct {
	DBName          string
	TableName       string
	IgnoreNotExists bool
}

func (*DropSuperTableStmt) node() {}

// AlterTableType enumerates ALTER TABLE variants.
type AlterTableType int8

const (
	AlterAddColumn AlterTableType = iota + 1
	AlterDropColumn
	AlterUpdateColumnBytes
	AlterUpdateColumnName
	AlterAddTag
	AlterDropTag
	AlterUpdateTagBytes
	AlterUpdateTagName
	AlterUpdateTagVal
	AlterUpdateOptions
)

// AlterTableStmt alters a table's schema or options.
type AlterTableStmt struct {
	DBName     string
	TableName  string
	AlterType  AlterTableType
	ColName    string
	NewColName string
	DataType   sql.DataType
	TagValue   Node
	Options    *TableOptions
}

func (*AlterTableStmt) node() {}

// CreateUserStmt creates a user.
type CreateUserStmt struct {
	UserName string
	Password string
}

func (*CreateUserStmt) node() {}

// AlterUserStmt alters a user.
type AlterUserStmt struct {
	UserName  string
	Password  string
	AlterType int8
}

func (*AlterUserStmt) node() {}

// DropUserStmt drops a user.
type DropUserStmt struct {
	UserName string
}

func (*DropUserStmt) node() {}

// CreateDnodeStmt registers a server process with the cluster.
type CreateDnodeStmt struct {
	FQDN string
	Port int32
}

func (*CreateDnodeStmt) node() {}

// DropDnodeStmt removes a server process from the cluster.
type DropDnodeStmt struct {
	DnodeID int32
	FQDN    string
	Port    int32
}

func (*DropDnodeStmt) node() {}

// AlterDnodeStmt updates a config variable on one dnode.
type AlterDnodeStmt struct {
	DnodeID int32
	Config  string
	Value   string
}

func (*AlterDnodeStmt) node() {}

// CreateQnodeStmt starts a query node on a dnode.
type CreateQnodeStmt struct {
	DnodeID int32
}

func (*CreateQnodeStmt) node() {}

// DropQnodeStmt stops a query node.
type DropQnodeStmt struct {
	DnodeID int32
}

func (*DropQnodeStmt) node() {}

// IndexType enumerates index flavors; only rollup (sma) indexes are lowered.
type IndexType int8

const (
	IndexSma IndexType = iota + 1
	IndexFulltext
)

// IndexOptions carries the window and function list of a rollup index.
type IndexOptions struct {
	Funcs    []Node
	Interval Node
	Offset   Node
	Sliding  Node
}

// CreateIndexStmt creates an index on a table.
type CreateIndexStmt struct {
	IndexType    IndexType
	IndexName    string
	TableName    string
	IgnoreExists bool
	Cols         []Node
	Options      *IndexOptions
}

func (*CreateIndexStmt) node() {}

// DropIndexStmt drops an index.
type DropIndexStmt struct {
	IndexName       string
	TableName       string
	IgnoreNotExists bool
}

func (*DropIndexStmt) node() {}

// CreateTopicStmt creates a subscription topic, either over a query or over
// a whole database.
type CreateTopicStmt struct {
	TopicName       string
	SubscribeDBName string
	IgnoreExists    bool
	Query           Node
}

func (*CreateTopicStmt) node() {}

// DropTopicStmt drops a topic.
type DropTopicStmt struct {
	TopicName       string
	IgnoreNotExists bool
}

func (*DropTopicStmt) node() {}

// AlterLocalStmt updates a client-local config variable.
type AlterLocalStmt struct {
	Config string
	Value  string
}

func (*AlterLocalStmt) node() {}

// ShowKind enumerates the SHOW statement family.
type ShowKind int8

const (
	ShowDatabases ShowKind = iota + 1
	ShowTables
	ShowStables
	ShowUsers
	ShowDnodes
	ShowVgroups
	ShowMnodes
	ShowModules
	ShowQnodes
	ShowFunctions
	ShowIndexes
	ShowStreams
)

// ShowStmt is a SHOW statement before rewriting. DBName and TbNamePattern
// are optional value nodes.
type ShowStmt struct {
	Kind          ShowKind
	DBName        Node
	TbNamePattern Node
}

func (*ShowStmt) node() {}

// VnodeModifStmt replaces a statement that was rewritten into per-vgroup
// data-plane payloads.
type VnodeModifStmt struct {
	SQLNode    Node
	DataBlocks []*wire.VgDataBlocks
}

func (*VnodeModifStmt) node() {}
