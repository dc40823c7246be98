package value

import "time"

// Date represents a host Date. Valid is false for a non-finite time
// value (the host's NaN-time Date), which classifies to DATE_INVALID
// (§4.5) and carries no payload.
type Date struct {
	Time  time.Time
	Valid bool
}

func (*Date) isValue() {}

// NewDate wraps t as a valid date.
func NewDate(t time.Time) *Date {
	return &Date{Time: t, Valid: true}
}

// NewInvalidDate returns a Date with a non-finite time value.
func NewInvalidDate() *Date {
	return &Date{Valid: false}
}

// UnixMilli returns the millisecond epoch timestamp the wire payload
// carries for a valid date.
func (d *Date) UnixMilli() int64 {
	return d.Time.UnixMilli()
}
