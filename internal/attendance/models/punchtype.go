package models

import dErrors "timeclock/pkg/domain-errors"

// PunchType is the category of an attendance punch. The set is fixed and
// ordered: a working day cycles clock-in, lunch-out, lunch-in, clock-out.
//
// Usage: construct via ParsePunchType at trust boundaries to enforce the
// allowlist; direct casting bypasses validation.
type PunchType string

const (
	PunchClockIn  PunchType = "CLOCK_IN"
	PunchLunchOut PunchType = "LUNCH_OUT"
	PunchLunchIn  PunchType = "LUNCH_IN"
	PunchClockOut PunchType = "CLOCK_OUT"
)

// PunchTypes lists the valid punch types in day order.
var PunchTypes = []PunchType{PunchClockIn, PunchLunchOut, PunchLunchIn, PunchClockOut}

var validPunchTypes = map[PunchType]bool{
	PunchClockIn:  true,
	PunchLunchOut: true,
	PunchLunchIn:  true,
	PunchClockOut: true,
}

// ParsePunchType constructs a PunchType from its canonical name string.
func ParsePunchType(s string) (PunchType, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeValidation, "punch type cannot be empty")
	}
	p := PunchType(s)
	if !p.IsValid() {
		return "", dErrors.New(dErrors.CodeValidation, "invalid punch type")
	}
	return p, nil
}

// IsValid checks if the punch type is one of the supported enum values.
func (p PunchType) IsValid() bool {
	return validPunchTypes[p]
}

// String returns the canonical name of the punch type.
func (p PunchType) String() string {
	return string(p)
}
