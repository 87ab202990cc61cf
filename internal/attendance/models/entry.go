package models

import "time"

// TimestampLayout is the only accepted wire format for entry timestamps.
// Anything else is a parse error, never a best-effort guess.
const TimestampLayout = "2006-01-02 15:04:05"

// Entry is a single attendance punch. CreatedAt orders entries by when they
// were recorded, independent of the punch Timestamp the caller supplied.
type Entry struct {
	ID          int64
	Timestamp   time.Time
	Type        PunchType
	Location    string
	Description string
	PersonID    int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// FormatTimestamp renders the punch timestamp in the wire format.
func (e Entry) FormatTimestamp() string {
	return e.Timestamp.Format(TimestampLayout)
}
