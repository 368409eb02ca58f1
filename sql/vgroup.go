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

package sql

import "fmt"

// Endpoint is one replica address of a vgroup or the management node set.
type Endpoint struct {
	FQDN string
	Port uint16
}

func (e Endpoint) String() string {
	return fmt.Sprintf("%s:%d", e.FQDN, e.Port)
}

// EpSet is a replicated endpoint set with the currently preferred member.
type EpSet struct {
	InUse int8
	Eps   []Endpoint
}

// VgroupInfo describes one horizontal shard of a database: its id, the hash
// slot range it owns and the endpoints serving it.
type VgroupInfo struct {
	VgID       int32
	HashBegin  uint32
	HashEnd    uint32
	EpSet      EpSet
	NumOfTable int32
}
