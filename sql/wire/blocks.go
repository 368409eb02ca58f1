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

	"github.com/rippledb/ripple/sql"
)

// MsgHeadSize is the byte size of the vnode message header.
const MsgHeadSize = 8

// MsgHead prefixes every vnode-bound payload with the destination vgroup id
// and the total content length, both network byte order.
type MsgHead struct {
	VgID    int32
	ContLen int32
}

// PutMsgHead writes the header into the first MsgHeadSize bytes of buf.
func PutMsgHead(buf []byte, vgID, contLen int32) {
	binary.BigEndian.PutUint32(buf[0:], uint32(vgID))
	binary.BigEndian.PutUint32(buf[4:], uint32(contLen))
}

// ReadMsgHead decodes the header from buf.
func ReadMsgHead(buf []byte) MsgHead {
	return MsgHead{
		VgID:    int32(binary.BigEndian.Uint32(buf[0:])),
		ContLen: int32(binary.BigEndian.Uint32(buf[4:])),
	}
}

// VgDataBlocks is one vgroup's share of a rewritten data-plane statement:
// the destination vgroup, the number of tables the payload creates and the
// header-prefixed payload bytes.
type VgDataBlocks struct {
	Vg          sql.VgroupInfo
	NumOfTables int32
	Size        int
	Data        []byte
}

