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

// Name is the fully-qualified name of a table or database. The account id is
// part of the qualified form so that different tenants never collide in
// caches keyed by name.
type Name struct {
	AcctID int32
	DB     string
	Table  string
}

// TableName builds a table-level Name.
func TableName(acctID int32, db, table string) Name {
	return Name{AcctID: acctID, DB: db, Table: table}
}

// DBName builds a database-level Name.
func DBName(acctID int32, db string) Name {
	return Name{AcctID: acctID, DB: db}
}

// FullDBName returns the qualified database name, "acct.db".
func (n Name) FullDBName() string {
	return fmt.Sprintf("%d.%s", n.AcctID, n.DB)
}

// FullTableName returns the qualified table name, "acct.db.table".
func (n Name) FullTableName() string {
	return fmt.Sprintf("%d.%s.%s", n.AcctID, n.DB, n.Table)
}
