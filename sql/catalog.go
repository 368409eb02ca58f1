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

import "context"

// Transport is the RPC handle a catalog uses to fetch descriptors on a cache
// miss. The translator never calls it directly; it only threads the handle
// through.
type Transport interface {
	Fetch(ctx context.Context, eps EpSet, msgType int32, req []byte) ([]byte, error)
}

// Catalog serves the metadata the translator resolves names against. All
// calls are synchronous and block the calling goroutine; implementations are
// responsible for their own synchronization.
type Catalog interface {
	// TableMeta returns the descriptor of the named table.
	TableMeta(ctx context.Context, tr Transport, mgmtEps EpSet, name Name) (*TableMeta, error)

	// TableDistVgInfo returns every vgroup holding data of the named super
	// table.
	TableDistVgInfo(ctx context.Context, tr Transport, mgmtEps EpSet, name Name) ([]VgroupInfo, error)

	// TableHashVgroup returns the single vgroup the table name hash-routes
	// to.
	TableHashVgroup(ctx context.Context, tr Transport, mgmtEps EpSet, name Name) (VgroupInfo, error)

	// DBVgInfo returns the vgroup list of a database given its qualified
	// name.
	DBVgInfo(ctx context.Context, tr Transport, mgmtEps EpSet, fullDBName string) ([]VgroupInfo, error)

	// DBVgVersion returns the vgroup topology version of a database along
	// with its id and table count.
	DBVgVersion(fullDBName string) (version int32, dbID int64, tableCount int32, err error)
}
