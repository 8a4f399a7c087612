package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/freedomdance/studio-backend/internal/domain/employee"
	"github.com/freedomdance/studio-backend/internal/domain/finance"
	"github.com/freedomdance/studio-backend/internal/domain/payroll"
	"github.com/freedomdance/studio-backend/internal/domain/workhours"
	"github.com/freedomdance/studio-backend/internal/pkg/database"
	"github.com/freedomdance/studio-backend/internal/pkg/metrics"
	"github.com/freedomdance/studio-backend/internal/pkg/pagination"
	"github.com/freedomdance/studio-backend/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type PayrollServiceImpl struct {
	tx              database.Transactor
	payrollRepo     payroll.PayrollRepository
	employeeRepo    employee.EmployeeRepository
	workHoursRepo   workhours.WorkHoursRepository
	transactionRepo finance.TransactionRepository
	metrics         *metrics.Metrics
}

func NewPayrollService(
	tx database.Transactor,
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	workHoursRepo workhours.WorkHoursRepository,
	transactionRepo finance.TransactionRepository,
	m *metrics.Metrics,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		tx:              tx,
		payrollRepo:     payrollRepo,
		employeeRepo:    employeeRepo,
		workHoursRepo:   workHoursRepo,
		transactionRepo: transactionRepo,
		metrics:         m,
	}
}

// compute gathers the period figures and derives the salary amount.
func (s *PayrollServiceImpl) compute(ctx context.Context, req *payroll.CalculateRequest) (payroll.SalaryCalculation, employee.Employee, error) {
	if err := req.Validate(); err != nil {
		return payroll.SalaryCalculation{}, employee.Employee{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return payroll.SalaryCalculation{}, employee.Employee{}, validator.Field("employee_id", "employee not found")
		}
		return payroll.SalaryCalculation{}, employee.Employee{}, err
	}

	totals, err := s.workHoursRepo.SumForPeriod(ctx, emp.ID, req.From, req.To)
	if err != nil {
		return payroll.SalaryCalculation{}, employee.Employee{}, err
	}

	in := payroll.Inputs{
		PaymentType:  req.PaymentType,
		HourlyRate:   emp.HourlyRate,
		TotalHours:   totals.TotalHours,
		TotalVisits:  totals.TotalVisits,
		PeriodIncome: decimal.Zero,
	}
	if req.HourlyRate != nil {
		in.HourlyRate = *req.HourlyRate
	}
	if req.PercentageRate != nil {
		in.PercentageRate = *req.PercentageRate
	}
	if in.PaymentType == payroll.PaymentPercentage {
		in.PeriodIncome, err = s.transactionRepo.SumIncome(ctx, req.From, req.To)
		if err != nil {
			return payroll.SalaryCalculation{}, employee.Employee{}, err
		}
	}

	return payroll.SalaryCalculation{
		EmployeeID:     emp.ID,
		EmployeeName:   emp.FullName(),
		StartDate:      req.From,
		EndDate:        req.To,
		PaymentType:    in.PaymentType,
		HourlyRate:     in.HourlyRate,
		PercentageRate: in.PercentageRate,
		TotalHours:     in.TotalHours,
		TotalVisits:    in.TotalVisits,
		PeriodIncome:   in.PeriodIncome,
		Amount:         payroll.CalculateAmount(in),
	}, emp, nil
}

// Calculate implements payroll.PayrollService.
func (s *PayrollServiceImpl) Calculate(ctx context.Context, req payroll.CalculateRequest) (payroll.CalculationResponse, error) {
	calc, _, err := s.compute(ctx, &req)
	if err != nil {
		return payroll.CalculationResponse{}, err
	}
	return payroll.ToResponse(calc), nil
}

// Create implements payroll.PayrollService.
func (s *PayrollServiceImpl) Create(ctx context.Context, req payroll.CalculateRequest) (payroll.CalculationResponse, error) {
	var stored payroll.SalaryCalculation
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		calc, emp, err := s.compute(ctx, &req)
		if err != nil {
			return err
		}
		if !calc.Amount.IsPositive() {
			return payroll.ErrZeroAmount
		}

		stored, err = s.payrollRepo.Create(ctx, calc)
		if err != nil {
			return err
		}

		calculationID := stored.ID
		expense, err := s.transactionRepo.Create(ctx, finance.Transaction{
			Type:                finance.TypeExpense,
			Amount:              stored.Amount,
			Description:         finance.SalaryDescription(emp.FirstName, emp.LastName, stored.StartDate, stored.EndDate),
			Category:            finance.CategoryEmployeeSalary,
			TransactionDate:     stored.EndDate,
			SalaryCalculationID: &calculationID,
		})
		if err != nil {
			return fmt.Errorf("failed to record salary expense: %w", err)
		}

		if err := s.payrollRepo.SetTransaction(ctx, stored.ID, expense.ID); err != nil {
			return err
		}
		stored.TransactionID = &expense.ID
		return nil
	})
	if err != nil {
		return payroll.CalculationResponse{}, err
	}

	s.metrics.PayrollStored()
	slog.InfoContext(ctx, "salary calculation stored",
		"calculation_id", stored.ID, "employee_id", stored.EmployeeID,
		"payment_type", stored.PaymentType, "amount", stored.Amount.String())
	return payroll.ToResponse(stored), nil
}

// Get implements payroll.PayrollService.
func (s *PayrollServiceImpl) Get(ctx context.Context, id string) (payroll.CalculationResponse, error) {
	calc, err := s.payrollRepo.GetByID(ctx, id)
	if err != nil {
		return payroll.CalculationResponse{}, err
	}
	return payroll.ToResponse(calc), nil
}

// List implements payroll.PayrollService.
func (s *PayrollServiceImpl) List(ctx context.Context, filter payroll.PayrollFilter) (payroll.ListCalculationResponse, error) {
	filter.Page, filter.Limit = pagination.Normalize(filter.Page, filter.Limit)

	items, total, err := s.payrollRepo.List(ctx, filter)
	if err != nil {
		return payroll.ListCalculationResponse{}, err
	}

	resp := payroll.ListCalculationResponse{
		Calculations: make([]payroll.CalculationResponse, 0, len(items)),
		TotalCount:   total,
		Page:         filter.Page,
		Limit:        filter.Limit,
	}
	for _, c := range items {
		resp.Calculations = append(resp.Calculations, payroll.ToResponse(c))
	}
	return resp, nil
}

// Delete implements payroll.PayrollService. The Expense entry goes first so
// the ledger never points at a missing calculation.
func (s *PayrollServiceImpl) Delete(ctx context.Context, id string) error {
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.payrollRepo.GetByID(ctx, id); err != nil {
			return err
		}

		linked, err := s.transactionRepo.GetBySalaryCalculationID(ctx, id)
		switch {
		case err == nil:
			if err := s.transactionRepo.Delete(ctx, linked.ID); err != nil {
				return err
			}
		case !errors.Is(err, finance.ErrTransactionNotFound):
			return err
		}

		return s.payrollRepo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "salary calculation deleted", "calculation_id", id)
	return nil
}
