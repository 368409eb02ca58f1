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

// Package wire holds the request structs the translator lowers admin
// statements into, the serialization convention of the management protocol,
// and the per-vgroup data blocks of rewritten data-plane statements.
package wire

import "github.com/rippledb/ripple/sql"

// MsgType identifies a request on the wire. The MND, VND and DND prefixes
// name the management, vnode and dnode request families; the endpoint set a
// request is sent to is chosen by the translator that lowers it.
type MsgType int32

const (
	MndCreateDB MsgType = iota + 1001
	MndDropDB
	MndAlterDB
	MndUseDB
	MndCreateStb
	MndDropStb
	MndAlterStb
	MndCreateUser
	MndAlterUser
	MndDropUser
	MndCreateDnode
	MndDropDnode
	MndConfigDnode
	MndShow
	MndCreateSma
	MndCreateTopic
	MndDropTopic
)

const (
	DndCreateQnode MsgType = iota + 2001
	DndDropQnode
)

const (
	VndQuery MsgType = iota + 3001
	VndCreateTable
	VndShowTables
	VndDropSma
)

var msgTypeNames = map[MsgType]string{
	MndCreateDB:    "create-db",
	MndDropDB:      "drop-db",
	MndAlterDB:     "alter-db",
	MndUseDB:       "use-db",
	MndCreateStb:   "create-stb",
	MndDropStb:     "drop-stb",
	MndAlterStb:    "alter-stb",
	MndCreateUser:  "create-user",
	MndAlterUser:   "alter-user",
	MndDropUser:    "drop-user",
	MndCreateDnode: "create-dnode",
	MndDropDnode:   "drop-dnode",
	MndConfigDnode: "config-dnode",
	MndShow:        "show",
	MndCreateSma:   "create-sma",
	MndCreateTopic: "create-topic",
	MndDropTopic:   "drop-topic",
	DndCreateQnode: "create-qnode",
	DndDropQnode:   "drop-qnode",
	VndQuery:       "query",
	VndCreateTable: "create-table",
	VndShowTables:  "show-tables",
	VndDropSma:     "drop-sma",
}

func (t MsgType) String() string {
	if s, ok := msgTypeNames[t]; ok {
		return s
	}
	return "unknown"
}

// CmdMsg is the pending command envelope a lowered admin statement leaves in
// the translate context. On success its ownership transfers to the query
// envelope.
type CmdMsg struct {
	MsgType   MsgType
	EpSet     sql.EpSet
	MsgLen    int
	Msg       []byte
	Extension interface{}
}
