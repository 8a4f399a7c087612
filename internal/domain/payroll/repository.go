package payroll

import "context"

type PayrollRepository interface {
	Create(ctx context.Context, calc SalaryCalculation) (SalaryCalculation, error)
	GetByID(ctx context.Context, id string) (SalaryCalculation, error)
	List(ctx context.Context, filter PayrollFilter) ([]SalaryCalculation, int64, error)
	SetTransaction(ctx context.Context, id string, transactionID string) error
	Delete(ctx context.Context, id string) error
}
