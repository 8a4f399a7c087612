package plan

import "errors"

var (
	ErrPlanNotFound = errors.New("service not found")
	ErrPlanInUse    = errors.New("service is used by existing sales and cannot be deleted")
)
