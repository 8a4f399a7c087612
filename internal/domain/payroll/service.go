package payroll

import "context"

type PayrollService interface {
	// Calculate previews the amount without writing anything.
	Calculate(ctx context.Context, req CalculateRequest) (CalculationResponse, error)
	// Create stores the calculation together with its Expense transaction.
	Create(ctx context.Context, req CalculateRequest) (CalculationResponse, error)
	Get(ctx context.Context, id string) (CalculationResponse, error)
	List(ctx context.Context, filter PayrollFilter) (ListCalculationResponse, error)
	// Delete removes the calculation and its linked Expense transaction.
	Delete(ctx context.Context, id string) error
}
