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

package function

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rippledb/ripple/sql"
)

func TestGetFuncInfo(t *testing.T) {
	require := require.New(t)
	require.NoError(Init())

	id, kind, ok := GetFuncInfo("count")
	require.True(ok)
	require.Equal(KindAggregate, kind)
	require.True(IsAggFunc(id))

	id, kind, ok = GetFuncInfo("CONCAT")
	require.True(ok)
	require.Equal(KindScalar, kind)
	require.False(IsAggFunc(id))

	_, _, ok = GetFuncInfo("no_such_func")
	require.False(ok)
}

func TestResultTypes(t *testing.T) {
	require := require.New(t)
	require.NoError(Init())

	countID, _, _ := GetFuncInfo("count")
	rt, ok := ResultType(countID, nil)
	require.True(ok)
	require.Equal(sql.TypeBigint, rt.Type)

	sumID, _, _ := GetFuncInfo("sum")
	rt, _ = ResultType(sumID, []sql.DataType{sql.TypeOf(sql.TypeInt)})
	require.Equal(sql.TypeBigint, rt.Type)
	rt, _ = ResultType(sumID, []sql.DataType{sql.TypeOf(sql.TypeUInt)})
	require.Equal(sql.TypeUBigint, rt.Type)
	rt, _ = ResultType(sumID, []sql.DataType{sql.TypeOf(sql.TypeFloat)})
	require.Equal(sql.TypeDouble, rt.Type)

	maxID, _, _ := GetFuncInfo("max")
	rt, _ = ResultType(maxID, []sql.DataType{sql.TypeOf(sql.TypeSmallint)})
	require.Equal(sql.TypeSmallint, rt.Type)

	_, ok = ResultType(-5, nil)
	require.False(ok)
}
