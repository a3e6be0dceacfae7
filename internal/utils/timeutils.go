package utils

import (
	"fmt"
	"strconv"
	"time"
)

// epochMillisThreshold separates epoch seconds from epoch milliseconds: any value above it
// is far beyond year 2286 as seconds and is therefore read as milliseconds.
const epochMillisThreshold = 1e10

// zonelessLayouts are ISO forms without an offset; they are read as UTC.
var zonelessLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// ParseTimestamp interprets the timestamp forms found in fleet documents: RFC3339 strings
// (with or without fractional seconds), zoneless ISO timestamps taken as UTC, epoch seconds and epoch milliseconds, either as JSON
// numbers or numeric strings.
func ParseTimestamp(value any) (time.Time, error) {
	switch v := value.(type) {
	case nil:
		return time.Time{}, fmt.Errorf("empty time value")
	case time.Time:
		return v, nil
	case float64:
		return fromEpoch(v), nil
	case int64:
		return fromEpoch(float64(v)), nil
	case int:
		return fromEpoch(float64(v)), nil
	case string:
		if v == "" {
			return time.Time{}, fmt.Errorf("empty time value")
		}
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return t, nil
		}
		for _, layout := range zonelessLayouts {
			if t, err := time.ParseInLocation(layout, v, time.UTC); err == nil {
				return t, nil
			}
		}
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return fromEpoch(f), nil
		}
		return time.Time{}, fmt.Errorf("parse time: unrecognised format %q", v)
	default:
		return time.Time{}, fmt.Errorf("parse time: unsupported type %T", value)
	}
}

func fromEpoch(v float64) time.Time {
	if v > epochMillisThreshold {
		return time.UnixMilli(int64(v)).UTC()
	}
	sec := int64(v)
	nsec := int64((v - float64(sec)) * float64(time.Second))
	return time.Unix(sec, nsec).UTC()
}
