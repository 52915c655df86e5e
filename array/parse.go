package array

import (
	"strconv"
	"strings"
	"time"

	"github.com/myplant-io/d3x-morpheus/internal/xerrors"
)

// ParseValue interprets raw as t, returning (value, isNull, error). A
// value matching one of nullSet's tokens (case-sensitive, matching
// config.DefaultNullTokens) parses to (nil, true, nil) regardless of t.
func ParseValue(t Type, raw string, nullSet []string) (any, bool, error) {
	for _, tok := range nullSet {
		if raw == tok {
			return nil, true, nil
		}
	}
	switch t {
	case Boolean:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, false, xerrors.NewParseError("Boolean", raw, err)
		}
		return v, false, nil
	case Int:
		v, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			return nil, false, xerrors.NewParseError("Int", raw, err)
		}
		return int32(v), false, nil
	case Long:
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, false, xerrors.NewParseError("Long", raw, err)
		}
		return v, false, nil
	case Double:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, false, xerrors.NewParseError("Double", raw, err)
		}
		return v, false, nil
	case LocalDate:
		tm, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, false, xerrors.NewParseError("LocalDate", raw, err)
		}
		return tm.UnixMilli(), false, nil
	case LocalTime:
		tm, err := time.Parse("15:04:05", raw)
		if err != nil {
			return nil, false, xerrors.NewParseError("LocalTime", raw, err)
		}
		return int64(tm.Hour())*3600000 + int64(tm.Minute())*60000 + int64(tm.Second())*1000, false, nil
	case LocalDateTime:
		tm, err := time.Parse("2006-01-02T15:04:05", raw)
		if err != nil {
			return nil, false, xerrors.NewParseError("LocalDateTime", raw, err)
		}
		return tm.UnixMilli(), false, nil
	case ZonedDateTime:
		i := strings.LastIndexByte(raw, '@')
		if i < 0 {
			tm, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				return nil, false, xerrors.NewParseError("ZonedDateTime", raw, err)
			}
			return Zoned{Millis: tm.UnixMilli(), Zone: tm.Location().String()}, false, nil
		}
		tm, err := time.Parse("2006-01-02T15:04:05.000", raw[:i])
		if err != nil {
			return nil, false, xerrors.NewParseError("ZonedDateTime", raw, err)
		}
		return Zoned{Millis: tm.UnixMilli(), Zone: raw[i+1:]}, false, nil
	case String, Enum:
		return raw, false, nil
	default:
		return raw, false, nil
	}
}
