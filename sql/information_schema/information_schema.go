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

// Package information_schema names the virtual database whose tables expose
// catalog state to SQL, and holds their schemas. The SHOW rewrite targets
// these tables; catalogs serve their descriptors like any other table's.
package information_schema

import "github.com/rippledb/ripple/sql"

// DBName is the name of the virtual database.
const DBName = "information_schema"

// Table names of the virtual database.
const (
	TableUserDatabases = "user_databases"
	TableUserTables    = "user_tables"
	TableUserStables   = "user_stables"
	TableUserUsers     = "user_users"
	TableDnodes        = "dnodes"
	TableVgroups       = "vgroups"
	TableMnodes        = "mnodes"
	TableModules       = "modules"
	TableQnodes        = "qnodes"
	TableUserFunctions = "user_functions"
	TableUserIndexes   = "user_indexes"
	TableUserStreams   = "user_streams"
)

const nameLen = 192

func nameCol(id int16, name string) sql.ColumnSchema {
	return sql.ColumnSchema{ColID: id, Type: sql.TypeVarchar, Bytes: nameLen, Name: name}
}

func tsCol(id int16, name string) sql.ColumnSchema {
	return sql.ColumnSchema{ColID: id, Type: sql.TypeTimestamp, Bytes: 8, Name: name}
}

func intCol(id int16, name string) sql.ColumnSchema {
	return sql.ColumnSchema{ColID: id, Type: sql.TypeInt, Bytes: 4, Name: name}
}

var schemas = map[string]sql.Schema{
	TableUserDatabases: {
		nameCol(1, "name"),
		tsCol(2, "create_time"),
		intCol(3, "vgroups"),
		intCol(4, "ntables"),
		intCol(5, "replica"),
		intCol(6, "keep"),
		nameCol(7, "precision"),
	},
	TableUserTables: {
		nameCol(1, "table_name"),
		nameCol(2, "db_name"),
		tsCol(3, "create_time"),
		intCol(4, "columns"),
		nameCol(5, "stable_name"),
		intCol(6, "vgroup_id"),
	},
	TableUserStables: {
		nameCol(1, "stable_name"),
		nameCol(2, "db_name"),
		tsCol(3, "create_time"),
		intCol(4, "columns"),
		intCol(5, "tags"),
		intCol(6, "tables"),
	},
	TableUserUsers: {
		nameCol(1, "name"),
		nameCol(2, "privilege"),
		tsCol(3, "create_time"),
	},
	TableDnodes: {
		intCol(1, "id"),
		nameCol(2, "endpoint"),
		intCol(3, "vnodes"),
		nameCol(4, "status"),
		tsCol(5, "create_time"),
	},
	TableVgroups: {
		intCol(1, "vgroup_id"),
		nameCol(2, "db_name"),
		intCol(3, "tables"),
		nameCol(4, "status"),
	},
	TableMnodes: {
		intCol(1, "id"),
		nameCol(2, "endpoint"),
		nameCol(3, "role"),
		tsCol(4, "create_time"),
	},
	TableModules: {
		intCol(1, "id"),
		nameCol(2, "endpoint"),
		nameCol(3, "module"),
	},
	TableQnodes: {
		intCol(1, "id"),
		nameCol(2, "endpoint"),
		tsCol(3, "create_time"),
	},
	TableUserFunctions: {
		nameCol(1, "name"),
		nameCol(2, "comment"),
		intCol(3, "aggregate"),
		tsCol(4, "create_time"),
	},
	TableUserIndexes: {
		nameCol(1, "index_name"),
		nameCol(2, "db_name"),
		nameCol(3, "table_name"),
		tsCol(4, "create_time"),
	},
	TableUserStreams: {
		nameCol(1, "stream_name"),
		nameCol(2, "db_name"),
		tsCol(3, "create_time"),
		nameCol(4, "sql"),
	},
}

// TableSchema returns the schema of a virtual table.
func TableSchema(table string) (sql.Schema, bool) {
	s, ok := schemas[table]
	return s, ok
}

// Tables returns the names of all virtual tables.
func Tables() []string {
	names := make([]string, 0, len(schemas))
	for n := range schemas {
		names = append(names, n)
	}
	return names
}
