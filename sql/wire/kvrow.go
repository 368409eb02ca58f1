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
	"sort"

	"github.com/rippledb/ripple/sql"
)

// KVRow is the wire form of a tag tuple: a u32 total length, a u16 column
// count, then per column an i16 column id, an i8 type and a u16-length-
// prefixed value, sorted by column id.
type KVRow []byte

type kvCol struct {
	colID int16
	typ   sql.TypeID
	val   []byte
}

// KVRowBuilder accumulates tag columns and emits a sorted KVRow.
type KVRowBuilder struct {
	cols []kvCol
}

// Add appends one tag value. Values are copied.
func (b *KVRowBuilder) Add(colID int16, typ sql.TypeID, val []byte) {
	b.cols = append(b.cols, kvCol{colID: colID, typ: typ, val: append([]byte(nil), val...)})
}

// Build sorts the columns by id and encodes the row.
func (b *KVRowBuilder) Build() KVRow {
	sort.SliceStable(b.cols, func(i, j int) bool { return b.cols[i].colID < b.cols[j].colID })

	size := 4 + 2
	for _, c := range b.cols {
		size += 2 + 1 + 2 + len(c.val)
	}

	row := make([]byte, size)
	binary.BigEndian.PutUint32(row[0:], uint32(size))
	binary.BigEndian.PutUint16(row[4:], uint16(len(b.cols)))
	pos := 6
	for _, c := range b.cols {
		binary.BigEndian.PutUint16(row[pos:], uint16(c.colID))
		pos += 2
		row[pos] = byte(c.typ)
		pos++
		binary.BigEndian.PutUint16(row[pos:], uint16(len(c.val)))
		pos += 2
		copy(row[pos:], c.val)
		pos += len(c.val)
	}
	return row
}

// NumCols returns the number of columns encoded in the row.
func (r KVRow) NumCols() int {
	if len(r) < 6 {
		return 0
	}
	return int(binary.BigEndian.Uint16(r[4:]))
}
