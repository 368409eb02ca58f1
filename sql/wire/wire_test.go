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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rippledb/ripple/sql"
)

func TestTwoCallConvention(t *testing.T) {
	require := require.New(t)

	req := &CreateDBReq{DB: "1.test", DaysToKeep0: 30, DaysToKeep1: -1, DaysToKeep2: -1,
		Retentions: []Retention{{Freq: 60, Keep: 365, FreqUnit: 's', KeepUnit: 'd'}}}

	n := SerializeCreateDBReq(nil, req)
	require.Greater(n, 0)

	buf := make([]byte, n)
	require.Equal(n, SerializeCreateDBReq(buf, req))

	// a short buffer must not be silently truncated
	short := make([]byte, n-1)
	require.Equal(-1, SerializeCreateDBReq(short, req))
}

func TestSerializeDeterministic(t *testing.T) {
	require := require.New(t)

	req := &MCreateStbReq{
		Name:    "1.test.st",
		Columns: []Field{{Type: sql.TypeTimestamp, Bytes: 8, Name: "ts"}},
		Tags:    []Field{{Type: sql.TypeInt, Bytes: 4, Name: "t1"}},
	}
	n := SerializeMCreateStbReq(nil, req)
	b1 := make([]byte, n)
	b2 := make([]byte, n)
	SerializeMCreateStbReq(b1, req)
	SerializeMCreateStbReq(b2, req)
	require.Equal(b1, b2)
}

func TestStringEncoding(t *testing.T) {
	require := require.New(t)

	req := &DropUserReq{User: "bob"}
	n := SerializeDropUserReq(nil, req)
	require.Equal(2+3, n)
	buf := make([]byte, n)
	SerializeDropUserReq(buf, req)
	require.Equal(uint16(3), binary.BigEndian.Uint16(buf))
	require.Equal("bob", string(buf[2:]))
}

func TestMsgHeadNetworkByteOrder(t *testing.T) {
	require := require.New(t)

	buf := make([]byte, MsgHeadSize)
	PutMsgHead(buf, 0x0102, 0x00010203)
	require.Equal([]byte{0, 0, 1, 2}, buf[:4])
	require.Equal([]byte{0, 1, 2, 3}, buf[4:])

	head := ReadMsgHead(buf)
	require.Equal(int32(0x0102), head.VgID)
	require.Equal(int32(0x00010203), head.ContLen)
}

func TestKVRowSortedByColumnID(t *testing.T) {
	require := require.New(t)

	var b KVRowBuilder
	b.Add(4, sql.TypeInt, []byte{0, 0, 0, 9})
	b.Add(3, sql.TypeInt, []byte{0, 0, 0, 7})
	row := b.Build()

	require.Equal(2, row.NumCols())
	require.Equal(uint32(len(row)), binary.BigEndian.Uint32(row[0:]))
	// first encoded column is the lower id
	require.Equal(uint16(3), binary.BigEndian.Uint16(row[6:]))
}

func TestCreateTbBatchReqNesting(t *testing.T) {
	require := require.New(t)

	req := &CreateTbBatchReq{Tables: []CreateTbReq{
		{Type: TableNormal, DBFName: "1.test", Name: "t1",
			Schema: sql.Schema{{ColID: 1, Type: sql.TypeTimestamp, Bytes: 8, Name: "ts"}}},
		{Type: TableChild, DBFName: "1.test", Name: "t2", SUID: 42, Tags: KVRow{0, 0, 0, 6, 0, 0}},
	}}
	n := SerializeCreateTbBatchReq(nil, req)
	require.Greater(n, 0)
	buf := make([]byte, n)
	require.Equal(n, SerializeCreateTbBatchReq(buf, req))
	require.Equal(int32(2), int32(binary.BigEndian.Uint32(buf)))
}
