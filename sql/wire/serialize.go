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

import (
	"encoding/binary"
	"math"

	"github.com/rippledb/ripple/sql"
)

// Every serializer follows the two-call convention: called with a nil buffer
// it returns the encoded size; called with a buffer of at least that size it
// encodes and returns the number of bytes written. A buffer that is too
// small yields -1. All integers are big-endian; strings carry a u16 length
// prefix.

type encoder struct {
	buf      []byte
	pos      int
	overflow bool
}

func (e *encoder) room(n int) []byte {
	if e.buf == nil {
		e.pos += n
		return nil
	}
	if e.pos+n > len(e.buf) {
		e.overflow = true
		e.pos += n
		return nil
	}
	b := e.buf[e.pos : e.pos+n]
	e.pos += n
	return b
}

func (e *encoder) len() int {
	if e.overflow {
		return -1
	}
	return e.pos
}

func (e *encoder) writeU8(v uint8) {
	if b := e.room(1); b != nil {
		b[0] = v
	}
}

func (e *encoder) writeI8(v int8)   { e.writeU8(uint8(v)) }
func (e *encoder) writeBool(v bool) { e.writeU8(map[bool]uint8{false: 0, true: 1}[v]) }

func (e *encoder) writeU16(v uint16) {
	if b := e.room(2); b != nil {
		binary.BigEndian.PutUint16(b, v)
	}
}

func (e *encoder) writeI16(v int16) { e.writeU16(uint16(v)) }

func (e *encoder) writeU32(v uint32) {
	if b := e.room(4); b != nil {
		binary.BigEndian.PutUint32(b, v)
	}
}

func (e *encoder) writeI32(v int32) { e.writeU32(uint32(v)) }

func (e *encoder) writeU64(v uint64) {
	if b := e.room(8); b != nil {
		binary.BigEndian.PutUint64(b, v)
	}
}

func (e *encoder) writeI64(v int64) { e.writeU64(uint64(v)) }

func (e *encoder) writeF64(v float64) {
	e.writeU64(math.Float64bits(v))
}

func (e *encoder) writeString(s string) {
	e.writeU16(uint16(len(s)))
	if b := e.room(len(s)); b != nil {
		copy(b, s)
	}
}

func (e *encoder) writeBytes(p []byte) {
	e.writeU32(uint32(len(p)))
	if b := e.room(len(p)); b != nil {
		copy(b, p)
	}
}

func (e *encoder) writeField(f Field) {
	e.writeI8(int8(f.Type))
	e.writeI32(f.Bytes)
	e.writeString(f.Name)
}

func (e *encoder) writeFields(fs []Field) {
	e.writeI32(int32(len(fs)))
	for _, f := range fs {
		e.writeField(f)
	}
}

// SerializeCreateDBReq encodes a CreateDBReq.
func SerializeCreateDBReq(buf []byte, req *CreateDBReq) int {
	e := encoder{buf: buf}
	e.writeString(req.DB)
	e.writeI32(req.NumOfVgroups)
	e.writeI32(req.CacheBlockSize)
	e.writeI32(req.TotalBlocks)
	e.writeI32(req.DaysPerFile)
	e.writeI32(req.DaysToKeep0)
	e.writeI32(req.DaysToKeep1)
	e.writeI32(req.DaysToKeep2)
	e.writeI32(req.MinRows)
	e.writeI32(req.MaxRows)
	e.writeI32(req.CommitTime)
	e.writeI32(req.FsyncPeriod)
	e.writeI8(req.WalLevel)
	e.writeI8(req.Precision)
	e.writeI8(req.Compression)
	e.writeI8(req.Replications)
	e.writeI8(req.Quorum)
	e.writeI8(req.Update)
	e.writeI8(req.CacheLastRow)
	e.writeI8(req.StreamMode)
	e.writeBool(req.IgnoreExist)
	e.writeI32(int32(len(req.Retentions)))
	for _, r := range req.Retentions {
		e.writeI64(r.Freq)
		e.writeI64(r.Keep)
		e.writeU8(r.FreqUnit)
		e.writeU8(r.KeepUnit)
	}
	return e.len()
}

// SerializeAlterDBReq encodes an AlterDBReq.
func SerializeAlterDBReq(buf []byte, req *AlterDBReq) int {
	e := encoder{buf: buf}
	e.writeString(req.DB)
	e.writeI32(req.TotalBlocks)
	e.writeI32(req.DaysToKeep0)
	e.writeI32(req.DaysToKeep1)
	e.writeI32(req.DaysToKeep2)
	e.writeI32(req.FsyncPeriod)
	e.writeI8(req.WalLevel)
	e.writeI8(req.Quorum)
	e.writeI8(req.CacheLastRow)
	return e.len()
}

// SerializeDropDBReq encodes a DropDBReq.
func SerializeDropDBReq(buf []byte, req *DropDBReq) int {
	e := encoder{buf: buf}
	e.writeString(req.DB)
	e.writeBool(req.IgnoreNotExists)
	return e.len()
}

// SerializeUseDBReq encodes a UseDBReq.
func SerializeUseDBReq(buf []byte, req *UseDBReq) int {
	e := encoder{buf: buf}
	e.writeString(req.DB)
	e.writeI32(req.VgVersion)
	e.writeI64(req.DBID)
	e.writeI32(req.NumOfTable)
	return e.len()
}

// SerializeMCreateStbReq encodes an MCreateStbReq.
func SerializeMCreateStbReq(buf []byte, req *MCreateStbReq) int {
	e := encoder{buf: buf}
	e.writeString(req.Name)
	e.writeBool(req.IgExists)
	e.writeI32(req.AggregationMethod)
	e.writeF64(req.XFilesFactor)
	e.writeI32(req.Delay)
	e.writeFields(req.Columns)
	e.writeFields(req.Tags)
	e.writeFields(req.Smas)
	return e.len()
}

// SerializeMDropStbReq encodes an MDropStbReq.
func SerializeMDropStbReq(buf []byte, req *MDropStbReq) int {
	e := encoder{buf: buf}
	e.writeString(req.Name)
	e.writeBool(req.IgNotExists)
	return e.len()
}

// SerializeMAlterStbReq encodes an MAlterStbReq.
func SerializeMAlterStbReq(buf []byte, req *MAlterStbReq) int {
	e := encoder{buf: buf}
	e.writeString(req.Name)
	e.writeI8(req.AlterType)
	e.writeI32(req.NumOfFields)
	e.writeFields(req.Fields)
	return e.len()
}

// SerializeCreateUserReq encodes a CreateUserReq.
func SerializeCreateUserReq(buf []byte, req *CreateUserReq) int {
	e := encoder{buf: buf}
	e.writeString(req.User)
	e.writeString(req.Pass)
	e.writeI8(req.CreateType)
	e.writeI8(req.SuperUser)
	return e.len()
}

// SerializeAlterUserReq encodes an AlterUserReq.
func SerializeAlterUserReq(buf []byte, req *AlterUserReq) int {
	e := encoder{buf: buf}
	e.writeString(req.User)
	e.writeString(req.Pass)
	e.writeString(req.DBName)
	e.writeI8(req.AlterType)
	e.writeI8(req.SuperUser)
	return e.len()
}

// SerializeDropUserReq encodes a DropUserReq.
func SerializeDropUserReq(buf []byte, req *DropUserReq) int {
	e := encoder{buf: buf}
	e.writeString(req.User)
	return e.len()
}

// SerializeCreateDnodeReq encodes a CreateDnodeReq.
func SerializeCreateDnodeReq(buf []byte, req *CreateDnodeReq) int {
	e := encoder{buf: buf}
	e.writeString(req.FQDN)
	e.writeI32(req.Port)
	return e.len()
}

// SerializeDropDnodeReq encodes a DropDnodeReq.
func SerializeDropDnodeReq(buf []byte, req *DropDnodeReq) int {
	e := encoder{buf: buf}
	e.writeI32(req.DnodeID)
	e.writeString(req.FQDN)
	e.writeI32(req.Port)
	return e.len()
}

// SerializeMCfgDnodeReq encodes an MCfgDnodeReq.
func SerializeMCfgDnodeReq(buf []byte, req *MCfgDnodeReq) int {
	e := encoder{buf: buf}
	e.writeI32(req.DnodeID)
	e.writeString(req.Config)
	e.writeString(req.Value)
	return e.len()
}

// SerializeQnodeOpReq encodes a QnodeOpReq.
func SerializeQnodeOpReq(buf []byte, req *QnodeOpReq) int {
	e := encoder{buf: buf}
	e.writeI32(req.DnodeID)
	return e.len()
}

// SerializeShowReq encodes a ShowReq.
func SerializeShowReq(buf []byte, req *ShowReq) int {
	e := encoder{buf: buf}
	e.writeI32(req.Type)
	e.writeString(req.DB)
	return e.len()
}

// SerializeVShowTablesReq encodes a VShowTablesReq.
func SerializeVShowTablesReq(buf []byte, req *VShowTablesReq) int {
	e := encoder{buf: buf}
	e.writeI32(req.Head.VgID)
	e.writeI32(req.Head.ContLen)
	return e.len()
}

// SerializeMCreateSmaReq encodes an MCreateSmaReq.
func SerializeMCreateSmaReq(buf []byte, req *MCreateSmaReq) int {
	e := encoder{buf: buf}
	e.writeString(req.Name)
	e.writeString(req.Stb)
	e.writeBool(req.IgExists)
	e.writeI64(req.Interval)
	e.writeU8(req.IntervalUnit)
	e.writeI64(req.Offset)
	e.writeI64(req.Sliding)
	e.writeU8(req.SlidingUnit)
	e.writeI32(req.DstVgID)
	e.writeString(req.SQL)
	e.writeString(req.Expr)
	e.writeString(req.AST)
	return e.len()
}

// SerializeVDropSmaReq encodes a VDropSmaReq.
func SerializeVDropSmaReq(buf []byte, req *VDropSmaReq) int {
	e := encoder{buf: buf}
	e.writeString(req.IndexName)
	return e.len()
}

// SerializeCreateTopicReq encodes a CreateTopicReq.
func SerializeCreateTopicReq(buf []byte, req *CreateTopicReq) int {
	e := encoder{buf: buf}
	e.writeString(req.Name)
	e.writeBool(req.IgExists)
	e.writeString(req.SQL)
	e.writeString(req.AST)
	e.writeString(req.SubscribeDBName)
	return e.len()
}

// SerializeMDropTopicReq encodes an MDropTopicReq.
func SerializeMDropTopicReq(buf []byte, req *MDropTopicReq) int {
	e := encoder{buf: buf}
	e.writeString(req.Name)
	e.writeBool(req.IgNotExists)
	return e.len()
}

func (e *encoder) writeSchema(s sql.Schema) {
	e.writeI32(int32(len(s)))
	for _, c := range s {
		e.writeI16(c.ColID)
		e.writeI8(int8(c.Type))
		e.writeI32(c.Bytes)
		e.writeString(c.Name)
	}
}

// SerializeCreateTbReq encodes one vnode create-table entry.
func SerializeCreateTbReq(buf []byte, req *CreateTbReq) int {
	e := encoder{buf: buf}
	e.writeI8(req.Type)
	e.writeString(req.DBFName)
	e.writeString(req.Name)
	switch req.Type {
	case TableNormal:
		e.writeSchema(req.Schema)
	case TableChild:
		e.writeU64(req.SUID)
		e.writeBytes(req.Tags)
	}
	return e.len()
}

// SerializeCreateTbBatchReq encodes a vnode create-table batch.
func SerializeCreateTbBatchReq(buf []byte, req *CreateTbBatchReq) int {
	e := encoder{buf: buf}
	e.writeI32(int32(len(req.Tables)))
	for i := range req.Tables {
		var sub []byte
		n := SerializeCreateTbReq(nil, &req.Tables[i])
		if b := e.room(n); b != nil {
			sub = b
		}
		if sub != nil {
			SerializeCreateTbReq(sub, &req.Tables[i])
		}
	}
	return e.len()
}
