package alert

import "errors"

var (
	ErrAlertNotFound = errors.New("alert not found")
	ErrInvalidMode   = errors.New("mode must be expiry or usage")
)
