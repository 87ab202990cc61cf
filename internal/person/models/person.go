package models

import "time"

// Person is an employee account. Optional compensation fields are pointers:
// nil means the value was never set, there is no in-band sentinel.
type Person struct {
	ID             int64
	TaxID          string
	Email          string
	Name           string
	Role           Role
	CompanyID      int64
	PasswordHash   string
	LunchHours     *float64
	DailyWorkHours *float64
	HourlyRate     *float64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Company groups persons under one employer. TaxID is unique across companies,
// independently of person tax ids.
type Company struct {
	ID        int64
	TaxID     string
	LegalName string
	CreatedAt time.Time
}
