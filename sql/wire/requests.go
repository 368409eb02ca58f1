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

package wire

import "github.com/rippledb/ripple/sql"

// Retention is one freq/keep rollup tier of a database.
type Retention struct {
	Freq     int64
	Keep     int64
	FreqUnit byte
	KeepUnit byte
}

// CreateDBReq creates a database. Int fields set to -1 let the server pick.
type CreateDBReq struct {
	DB             string
	NumOfVgroups   int32
	CacheBlockSize int32
	TotalBlocks    int32
	DaysPerFile    int32
	DaysToKeep0    int32
	DaysToKeep1    int32
	DaysToKeep2    int32
	MinRows        int32
	MaxRows        int32
	CommitTime     int32
	FsyncPeriod    int32
	WalLevel       int8
	Precision      int8
	Compression    int8
	Replications   int8
	Quorum         int8
	Update         int8
	CacheLastRow   int8
	StreamMode     int8
	IgnoreExist    bool
	Retentions     []Retention
}

// AlterDBReq alters database options.
type AlterDBReq struct {
	DB           string
	TotalBlocks  int32
	DaysToKeep0  int32
	DaysToKeep1  int32
	DaysToKeep2  int32
	FsyncPeriod  int32
	WalLevel     int8
	Quorum       int8
	CacheLastRow int8
}

// DropDBReq drops a database.
type DropDBReq struct {
	DB              string
	IgnoreNotExists bool
}

// UseDBReq switches the session database, carrying the client's cached
// topology version for the server to diff against.
type UseDBReq struct {
	DB         string
	VgVersion  int32
	DBID       int64
	NumOfTable int32
}

// Field describes one column in a management request.
type Field struct {
	Type  sql.TypeID
	Bytes int32
	Name  string
}

// MCreateStbReq creates a super table.
type MCreateStbReq struct {
	Name              string
	IgExists          bool
	AggregationMethod int32
	XFilesFactor      float64
	Delay             int32
	Columns           []Field
	Tags              []Field
	Smas              []Field
}

// MDropStbReq drops a super table.
type MDropStbReq struct {
	Name        string
	IgNotExists bool
}

// MAlterStbReq alters a super table.
type MAlterStbReq struct {
	Name        string
	AlterType   int8
	NumOfFields int32
	Fields      []Field
}

// CreateUserReq creates a user.
type CreateUserReq struct {
	User       string
	Pass       string
	CreateType int8
	SuperUser  int8
}

// AlterUserReq alters a user.
type AlterUserReq struct {
	User      string
	Pass      string
	DBName    string
	AlterType int8
	SuperUser int8
}

// DropUserReq drops a user.
type DropUserReq struct {
	User string
}

// CreateDnodeReq registers a dnode.
type CreateDnodeReq struct {
	FQDN string
	Port int32
}

// DropDnodeReq removes a dnode.
type DropDnodeReq struct {
	DnodeID int32
	FQDN    string
	Port    int32
}

// MCfgDnodeReq updates one config variable of a dnode.
type MCfgDnodeReq struct {
	DnodeID int32
	Config  string
	Value   string
}

// QnodeOpReq creates or drops a qnode on a dnode.
type QnodeOpReq struct {
	DnodeID int32
}

// ShowReq is the legacy direct SHOW request.
type ShowReq struct {
	Type int32
	DB   string
}

// VShowTablesReq lists the tables of one vgroup.
type VShowTablesReq struct {
	Head MsgHead
}

// MCreateSmaReq creates a rollup index.
type MCreateSmaReq struct {
	Name         string
	Stb          string
	IgExists     bool
	Interval     int64
	IntervalUnit byte
	Offset       int64
	Sliding      int64
	SlidingUnit  byte
	DstVgID      int32
	SQL          string
	Expr         string
	AST          string
}

// VDropSmaReq drops a rollup index.
type VDropSmaReq struct {
	IndexName string
}

// CreateTopicReq creates a subscription topic.
type CreateTopicReq struct {
	Name            string
	IgExists        bool
	SQL             string
	AST             string
	SubscribeDBName string
}

// MDropTopicReq drops a topic.
type MDropTopicReq struct {
	Name        string
	IgNotExists bool
}

// Table kinds inside a vnode create-table request.
const (
	TableNormal int8 = iota + 1
	TableChild
)

// CreateTbReq creates one table inside a vnode. Schema is set for normal
// tables, SUID and Tags for child tables.
type CreateTbReq struct {
	Type    int8
	DBFName string
	Name    string
	Schema  sql.Schema
	SUID    uint64
	Tags    KVRow
}

// CreateTbBatchReq batches table creations destined for one vgroup.
type CreateTbBatchReq struct {
	Tables []CreateTbReq
}
