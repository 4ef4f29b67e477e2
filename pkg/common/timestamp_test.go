package common

import (
	"testing"
	"time"
)

func TestNewTimestampFromTime_RoundTrip(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 30, 0, 500, time.UTC)
	ts := NewTimestampFromTime(now)

	if ts.Seconds != uint32(now.Unix()) {
		t.Errorf("Seconds = %d, want %d", ts.Seconds, now.Unix())
	}
	if ts.Time().Unix() != now.Unix() {
		t.Errorf("Time().Unix() = %d, want %d", ts.Time().Unix(), now.Unix())
	}
}

func TestTimestamp_IsZero(t *testing.T) {
	var zero Timestamp
	if !zero.IsZero() {
		t.Error("zero-value Timestamp should report IsZero() == true")
	}

	nonZero := NewTimestampFromMillis(1000)
	if nonZero.IsZero() {
		t.Error("non-zero Timestamp should report IsZero() == false")
	}
}

func TestTimestamp_BeforeAfter(t *testing.T) {
	earlier := Timestamp{Seconds: 100, Nanoseconds: 0}
	later := Timestamp{Seconds: 200, Nanoseconds: 0}

	if !earlier.Before(later) {
		t.Error("earlier.Before(later) should be true")
	}
	if !later.After(earlier) {
		t.Error("later.After(earlier) should be true")
	}
	if earlier.After(later) {
		t.Error("earlier.After(later) should be false")
	}

	sameSecEarlierNanos := Timestamp{Seconds: 100, Nanoseconds: 10}
	sameSecLaterNanos := Timestamp{Seconds: 100, Nanoseconds: 20}
	if !sameSecEarlierNanos.Before(sameSecLaterNanos) {
		t.Error("nanosecond comparison within the same second failed")
	}
}

func TestTimestamp_Equal(t *testing.T) {
	a := Timestamp{Seconds: 1, Nanoseconds: 2}
	b := Timestamp{Seconds: 1, Nanoseconds: 2}
	c := Timestamp{Seconds: 1, Nanoseconds: 3}

	if !a.Equal(b) {
		t.Error("identical timestamps should be equal")
	}
	if a.Equal(c) {
		t.Error("differing nanoseconds should not be equal")
	}
}

func TestNewTimestampFromMillis(t *testing.T) {
	ts := NewTimestampFromMillis(1500)
	if ts.Seconds != 1 {
		t.Errorf("Seconds = %d, want 1", ts.Seconds)
	}
	if ts.Nanoseconds != 500_000_000 {
		t.Errorf("Nanoseconds = %d, want 500000000", ts.Nanoseconds)
	}
}
