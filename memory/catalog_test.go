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

package memory

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rippledb/ripple/sql"
	"github.com/rippledb/ripple/sql/information_schema"
)

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	cat := NewCatalog(1)
	cat.AddDatabase("db1", 4)
	require.NoError(t, cat.AddNormalTable("db1", "t", sql.Schema{
		{ColID: 1, Type: sql.TypeTimestamp, Bytes: 8, Name: "ts"},
	}))
	return cat
}

func TestHashRoutingDeterministic(t *testing.T) {
	require := require.New(t)
	cat := testCatalog(t)
	ctx := context.Background()

	name := sql.TableName(1, "db1", "some_table")
	vg1, err := cat.TableHashVgroup(ctx, nil, sql.EpSet{}, name)
	require.NoError(err)
	vg2, err := cat.TableHashVgroup(ctx, nil, sql.EpSet{}, name)
	require.NoError(err)
	require.Equal(vg1.VgID, vg2.VgID)
}

func TestHashRoutingSpreads(t *testing.T) {
	require := require.New(t)
	cat := testCatalog(t)
	ctx := context.Background()

	seen := make(map[int32]bool)
	for i := 0; i < 64; i++ {
		vg, err := cat.TableHashVgroup(ctx, nil, sql.EpSet{},
			sql.TableName(1, "db1", fmt.Sprintf("t_%d", i)))
		require.NoError(err)
		seen[vg.VgID] = true
	}
	require.Greater(len(seen), 1)
}

func TestDistVgInfoCoversDatabase(t *testing.T) {
	require := require.New(t)
	cat := testCatalog(t)

	require.NoError(cat.AddSuperTable("db1", "st", sql.Schema{
		{ColID: 1, Type: sql.TypeTimestamp, Bytes: 8, Name: "ts"},
	}, nil))

	vgs, err := cat.TableDistVgInfo(context.Background(), nil, sql.EpSet{},
		sql.TableName(1, "db1", "st"))
	require.NoError(err)
	require.Len(vgs, 4)
}

func TestDBVgVersionAdvancesWithTables(t *testing.T) {
	require := require.New(t)
	cat := testCatalog(t)

	v1, id, count, err := cat.DBVgVersion("1.db1")
	require.NoError(err)
	require.NotZero(id)
	require.Equal(int32(1), count)

	require.NoError(cat.AddNormalTable("db1", "t2", nil))
	v2, _, count, err := cat.DBVgVersion("1.db1")
	require.NoError(err)
	require.Greater(v2, v1)
	require.Equal(int32(2), count)
}

func TestInformationSchemaServed(t *testing.T) {
	require := require.New(t)
	cat := testCatalog(t)

	meta, err := cat.TableMeta(context.Background(), nil, sql.EpSet{},
		sql.TableName(1, information_schema.DBName, information_schema.TableUserTables))
	require.NoError(err)
	require.Equal(sql.SystemTable, meta.TableType)
	require.NotEmpty(meta.Columns)
}

func TestUnknownTable(t *testing.T) {
	require := require.New(t)
	cat := testCatalog(t)

	_, err := cat.TableMeta(context.Background(), nil, sql.EpSet{},
		sql.TableName(1, "db1", "missing"))
	require.Error(err)

	_, err = cat.TableMeta(context.Background(), nil, sql.EpSet{},
		sql.TableName(1, "nope", "t"))
	require.Error(err)
}

func TestChildTableInheritsSuperSchema(t *testing.T) {
	require := require.New(t)
	cat := testCatalog(t)

	require.NoError(cat.AddSuperTable("db1", "st", sql.Schema{
		{ColID: 1, Type: sql.TypeTimestamp, Bytes: 8, Name: "ts"},
	}, sql.Schema{
		{ColID: 2, Type: sql.TypeInt, Bytes: 4, Name: "t1"},
	}))
	require.NoError(cat.AddChildTable("db1", "st", "st_1"))

	super, err := cat.TableMeta(context.Background(), nil, sql.EpSet{}, sql.TableName(1, "db1", "st"))
	require.NoError(err)
	child, err := cat.TableMeta(context.Background(), nil, sql.EpSet{}, sql.TableName(1, "db1", "st_1"))
	require.NoError(err)

	require.Equal(sql.ChildTable, child.TableType)
	require.Equal(super.UID, child.SUID)
	require.Equal(super.Columns, child.Columns)
}
