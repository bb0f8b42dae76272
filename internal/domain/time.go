package domain

import (
	"encoding/json/v2"
	"fmt"
	"strconv"
	"time"
)

// epochSecondsLimit separates epoch seconds from epoch milliseconds.
// 1e11 seconds is in the year 5138; 1e11 milliseconds is in March 1973.
const epochSecondsLimit = 100_000_000_000

// Timestamp is a time that can unmarshal from either:
// - RFC3339 string: "2024-01-15T10:30:00Z"
// - Backend datetime string: "2024-01-15 10:30:00"
// - Epoch seconds or milliseconds (number or numeric string)
// - null (zero time)
//
// It always marshals to RFC3339 format, or null when zero.
type Timestamp struct {
	time.Time
}

// UnmarshalJSON handles flexible time parsing from JSON.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		ts.Time = time.Time{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" {
			ts.Time = time.Time{}
			return nil
		}
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, time.DateTime} {
			if t, err := time.Parse(layout, s); err == nil {
				ts.Time = t
				return nil
			}
		}
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			ts.Time = fromEpoch(n)
			return nil
		}
		return fmt.Errorf("cannot parse time string: %s", s)
	}

	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		ts.Time = fromEpoch(int64(f))
		return nil
	}

	return fmt.Errorf("cannot unmarshal %s into Timestamp", string(data))
}

// MarshalJSON outputs time in RFC3339 format.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(ts.Format(time.RFC3339))
}

// At wraps t.
func At(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

func fromEpoch(n int64) time.Time {
	if n < epochSecondsLimit && n > -epochSecondsLimit {
		return time.Unix(n, 0)
	}
	return time.UnixMilli(n)
}
