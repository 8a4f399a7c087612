package payroll

import "errors"

var (
	ErrCalculationNotFound = errors.New("salary calculation not found")
	ErrZeroAmount          = errors.New("calculated salary is zero, nothing to record")
)
