package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/freedomdance/studio-backend/internal/domain/alert"
	"github.com/freedomdance/studio-backend/internal/domain/auth"
	"github.com/freedomdance/studio-backend/internal/domain/client"
	"github.com/freedomdance/studio-backend/internal/domain/employee"
	"github.com/freedomdance/studio-backend/internal/domain/finance"
	"github.com/freedomdance/studio-backend/internal/domain/payroll"
	"github.com/freedomdance/studio-backend/internal/domain/plan"
	"github.com/freedomdance/studio-backend/internal/domain/sale"
	"github.com/freedomdance/studio-backend/internal/domain/user"
	"github.com/freedomdance/studio-backend/internal/domain/visit"
	"github.com/freedomdance/studio-backend/internal/domain/workhours"
	"github.com/freedomdance/studio-backend/internal/pkg/validator"
)

type limitExhaustedBody struct {
	Success         bool   `json:"success"`
	Message         string `json:"message"`
	VisitCount      int    `json:"visitCount"`
	RemainingVisits int    `json:"remainingVisits"`
}

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var exhausted *visit.LimitExhaustedError
	if errors.As(err, &exhausted) {
		writeJSON(w, http.StatusConflict, limitExhaustedBody{
			Success:         false,
			Message:         "Visit limit exhausted",
			VisitCount:      exhausted.VisitCount,
			RemainingVisits: 0,
		})
		return
	}

	switch {
	// Auth
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrAccountInactive):
		Forbidden(w, "Account is inactive")
	case errors.Is(err, auth.ErrUserNotFound), errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")

	// Users
	case errors.Is(err, user.ErrUsernameExists):
		Conflict(w, "Username already registered")
	case errors.Is(err, user.ErrCannotChangeOwnAccount):
		Forbidden(w, err.Error())
	case errors.Is(err, user.ErrInsufficientPermissions), errors.Is(err, user.ErrAdminPrivilegeRequired):
		Forbidden(w, err.Error())

	// Catalog
	case errors.Is(err, client.ErrClientNotFound):
		NotFound(w, "Client not found")
	case errors.Is(err, plan.ErrPlanNotFound):
		NotFound(w, "Service not found")
	case errors.Is(err, plan.ErrPlanInUse):
		Conflict(w, err.Error())
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeAlreadyInactive):
		Conflict(w, err.Error())

	// Sales and visits
	case errors.Is(err, sale.ErrSaleNotFound):
		NotFound(w, "Sale not found")
	case errors.Is(err, sale.ErrMaxVisitsBelowUsage):
		Unprocessable(w, err.Error())
	case errors.Is(err, visit.ErrVisitNotFound):
		NotFound(w, "Visit not found")
	case errors.Is(err, visit.ErrMembershipExpired):
		Conflict(w, "Membership expired")
	case errors.Is(err, visit.ErrVisitDateInFuture):
		ValidationError(w, map[string]string{"visit_date": err.Error()})
	case errors.Is(err, alert.ErrAlertNotFound):
		NotFound(w, "Alert not found")

	// Staff and money
	case errors.Is(err, workhours.ErrWorkHoursNotFound):
		NotFound(w, "Work hours record not found")
	case errors.Is(err, workhours.ErrWorkHoursExists):
		Conflict(w, err.Error())
	case errors.Is(err, payroll.ErrCalculationNotFound):
		NotFound(w, "Salary calculation not found")
	case errors.Is(err, payroll.ErrZeroAmount):
		Unprocessable(w, err.Error())
	case errors.Is(err, finance.ErrTransactionNotFound):
		NotFound(w, "Transaction not found")
	case errors.Is(err, finance.ErrLinkedTransaction):
		Conflict(w, err.Error())
	case errors.Is(err, finance.ErrInvalidExportFormat):
		ValidationError(w, map[string]string{"format": err.Error()})

	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
