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
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/rippledb/ripple/sql"
)

// nanosPerTick returns how many nanoseconds one timestamp tick spans under
// the precision.
func nanosPerTick(p sql.Precision) int64 {
	switch p {
	case sql.PrecisionMicro:
		return int64(time.Microsecond)
	case sql.PrecisionNano:
		return 1
	}
	return int64(time.Millisecond)
}

var timeLayouts = []string{
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseTime turns a timestamp literal into ticks of the configured
// precision. A bare integer literal is taken as ticks directly; otherwise
// calendar forms are parsed, daylight-aware local time when the daylight
// flag is set.
func parseTime(literal string, prec sql.Precision, daylight bool) (int64, error) {
	if i, err := strconv.ParseInt(literal, 10, 64); err == nil {
		return i, nil
	}
	loc := time.UTC
	if daylight {
		loc = time.Local
	}
	for _, layout := range timeLayouts {
		t, err := time.ParseInLocation(layout, literal, loc)
		if err != nil {
			continue
		}
		return t.UnixNano() / nanosPerTick(prec), nil
	}
	return 0, fmt.Errorf("cannot parse %q as timestamp", literal)
}

// Duration units. The natural units month and year do not convert to ticks;
// their value is kept as written.
const (
	unitNanosecond  = 'b'
	unitMicrosecond = 'u'
	unitMillisecond = 'a'
	unitSecond      = 's'
	unitMinute      = 'm'
	unitHour        = 'h'
	unitDay         = 'd'
	unitWeek        = 'w'
	unitMonth       = 'n'
	unitYear        = 'y'
)

func unitNanos(unit byte) (int64, bool) {
	switch unit {
	case unitNanosecond:
		return 1, true
	case unitMicrosecond:
		return int64(time.Microsecond), true
	case unitMillisecond:
		return int64(time.Millisecond), true
	case unitSecond:
		return int64(time.Second), true
	case unitMinute:
		return int64(time.Minute), true
	case unitHour:
		return int64(time.Hour), true
	case unitDay:
		return 24 * int64(time.Hour), true
	case unitWeek:
		return 7 * 24 * int64(time.Hour), true
	}
	return 0, false
}

// parseDuration decodes a duration literal such as "10s" into a value and a
// unit. Convertible units are scaled into ticks of the precision; month and
// year stay natural.
func parseDuration(literal string, prec sql.Precision) (int64, byte, error) {
	s := strings.TrimSpace(literal)
	if s == "" {
		return 0, 0, fmt.Errorf("empty duration")
	}
	i := 0
	if '+' == s[i] || '-' == s[i] {
		i++
	}
	start := i
	for i < len(s) && unicode.IsDigit(rune(s[i])) {
		i++
	}
	if start == i || i+1 != len(s) {
		return 0, 0, fmt.Errorf("cannot parse %q as duration", literal)
	}
	val, err := strconv.ParseInt(s[:i], 10, 64)
	if err != nil {
		return 0, 0, err
	}
	unit := s[i]
	if unitMonth == unit || unitYear == unit {
		return val, unit, nil
	}
	n, ok := unitNanos(unit)
	if !ok {
		return 0, 0, fmt.Errorf("unknown duration unit %q", string(unit))
	}
	return val * n / nanosPerTick(prec), unit, nil
}
