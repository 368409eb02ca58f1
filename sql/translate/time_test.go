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

package translate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rippledb/ripple/sql"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		literal string
		prec    sql.Precision
		value   int64
		unit    byte
	}{
		{"10s", sql.PrecisionMilli, 10_000, 's'},
		{"10s", sql.PrecisionMicro, 10_000_000, 's'},
		{"10s", sql.PrecisionNano, 10_000_000_000, 's'},
		{"5m", sql.PrecisionMilli, 300_000, 'm'},
		{"2h", sql.PrecisionMilli, 7_200_000, 'h'},
		{"1d", sql.PrecisionMilli, 86_400_000, 'd'},
		{"1w", sql.PrecisionMilli, 604_800_000, 'w'},
		{"500a", sql.PrecisionMilli, 500, 'a'},
		{"500u", sql.PrecisionMicro, 500, 'u'},
		// natural units stay unconverted
		{"3n", sql.PrecisionMilli, 3, 'n'},
		{"2y", sql.PrecisionNano, 2, 'y'},
	}
	for _, tc := range tests {
		t.Run(tc.literal, func(t *testing.T) {
			value, unit, err := parseDuration(tc.literal, tc.prec)
			require.NoError(t, err)
			require.Equal(t, tc.value, value)
			require.Equal(t, tc.unit, unit)
		})
	}
}

func TestParseDurationErrors(t *testing.T) {
	require := require.New(t)
	for _, literal := range []string{"", "10", "s", "10x", "1.5s", "10 s"} {
		_, _, err := parseDuration(literal, sql.PrecisionMilli)
		require.Error(err, "literal %q", literal)
	}
}

func TestParseTimeEpoch(t *testing.T) {
	require := require.New(t)

	i, err := parseTime("1700000000000", sql.PrecisionMilli, false)
	require.NoError(err)
	require.Equal(int64(1700000000000), i)
}

func TestParseTimeCalendar(t *testing.T) {
	require := require.New(t)

	ms, err := parseTime("2024-01-02 03:04:05", sql.PrecisionMilli, false)
	require.NoError(err)
	us, err := parseTime("2024-01-02 03:04:05", sql.PrecisionMicro, false)
	require.NoError(err)
	require.Equal(ms*1000, us)

	withFrac, err := parseTime("2024-01-02 03:04:05.250", sql.PrecisionMilli, false)
	require.NoError(err)
	require.Equal(ms+250, withFrac)

	_, err = parseTime("not a time", sql.PrecisionMilli, false)
	require.Error(err)
}

func TestPositionValueKinds(t *testing.T) {
	require := require.New(t)

	boolVal := func(lit string, b bool) int {
		v := strVal(lit)
		v.ResType = sql.TypeOf(sql.TypeBool)
		v.Datum.B = b
		return positionValue(v)
	}
	require.Equal(1, boolVal("true", true))
	require.Equal(0, boolVal("false", false))

	// string-typed literals are never positions
	require.Equal(-1, positionValue(strVal("2")))
}
