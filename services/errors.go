package services

import "errors"

// Deterministic domain errors. Controllers map these to HTTP statuses; the
// snake codes double as stable machine-readable identifiers in responses.
var (
	ErrPassNotFound     = errors.New("pass_not_found")
	ErrVisitorNotFound  = errors.New("visitor_not_found")
	ErrAlreadyCheckedIn = errors.New("already_checked_in")
	ErrNotCheckedIn     = errors.New("not_checked_in")
	ErrPassWindowClosed = errors.New("pass_window_closed")
	ErrDeptNotFound     = errors.New("department_not_found")
	ErrEmployeeNotFound = errors.New("employee_not_found")
)
