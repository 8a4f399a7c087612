package workhours

import "errors"

var (
	ErrWorkHoursNotFound = errors.New("work hours record not found")
	ErrWorkHoursExists   = errors.New("work hours already recorded for this employee on this date")
)
