package common

import (
	"time"
)

// Timestamp is a second/nanosecond pair as stored in index entries and
// commit headers. The on-disk encoding is two big-endian uint32 fields,
// so anything past 2106 wraps; that matches the index format we emit.
//
// A Timestamp created from a time.Time remembers its zone so it can be
// rendered back in local time; timestamps decoded from disk are UTC.
type Timestamp struct {
	Seconds     uint32
	Nanoseconds uint32
	location    *time.Location
}

func NewTimestamp(seconds uint32, nanos uint32) Timestamp {
	return Timestamp{
		Seconds:     seconds,
		Nanoseconds: nanos,
	}
}

// NewTimestampFromTime captures t, keeping its zone for display.
func NewTimestampFromTime(t time.Time) Timestamp {
	return Timestamp{
		Seconds:     uint32(t.Unix()),
		Nanoseconds: uint32(t.Nanosecond()),
		location:    t.Location(),
	}
}

// NewTimestampFromMillis builds a Timestamp from Unix milliseconds.
func NewTimestampFromMillis(millis int64) Timestamp {
	return Timestamp{
		Seconds:     uint32(millis / 1000),
		Nanoseconds: uint32((millis % 1000) * 1_000_000),
	}
}

// Time converts back to a time.Time, in the preserved zone or UTC.
func (t Timestamp) Time() time.Time {
	if t.location != nil {
		return time.Unix(int64(t.Seconds), int64(t.Nanoseconds)).In(t.location)
	}
	return time.Unix(int64(t.Seconds), int64(t.Nanoseconds)).UTC()
}

func (t Timestamp) IsZero() bool {
	return t.Seconds == 0 && t.Nanoseconds == 0
}

func (t Timestamp) String() string {
	if t.IsZero() {
		return "0"
	}
	return t.Time().Format(time.RFC3339)
}

func (t Timestamp) Equal(other Timestamp) bool {
	return t.Seconds == other.Seconds && t.Nanoseconds == other.Nanoseconds
}

func (t Timestamp) Before(other Timestamp) bool {
	if t.Seconds != other.Seconds {
		return t.Seconds < other.Seconds
	}
	return t.Nanoseconds < other.Nanoseconds
}

func (t Timestamp) After(other Timestamp) bool {
	if t.Seconds != other.Seconds {
		return t.Seconds > other.Seconds
	}
	return t.Nanoseconds > other.Nanoseconds
}
