package memory

import (
	"context"
	"sort"
	"time"

	"github.com/freedomdance/studio-backend/internal/domain/finance"
	"github.com/freedomdance/studio-backend/internal/domain/payroll"
	"github.com/freedomdance/studio-backend/internal/domain/workhours"
	"github.com/shopspring/decimal"
)

func inWindow(d time.Time, from, to *time.Time) bool {
	if from != nil && d.Before(*from) {
		return false
	}
	if to != nil && d.After(*to) {
		return false
	}
	return true
}

// ---- transactions ----

type transactionRepo struct{ s *Store }

func (s *Store) Transactions() finance.TransactionRepository { return transactionRepo{s} }

func (r transactionRepo) Create(ctx context.Context, t finance.Transaction) (finance.Transaction, error) {
	defer r.s.lock()()
	t.ID = newID()
	t.CreatedAt = r.s.Now()
	r.s.t.transactions[t.ID] = t
	return t, nil
}

func (r transactionRepo) GetByID(ctx context.Context, id string) (finance.Transaction, error) {
	defer r.s.lock()()
	t, ok := r.s.t.transactions[id]
	if !ok {
		return finance.Transaction{}, finance.ErrTransactionNotFound
	}
	return t, nil
}

func (r transactionRepo) find(match func(finance.Transaction) bool) (finance.Transaction, error) {
	defer r.s.lock()()
	for _, t := range r.s.t.transactions {
		if match(t) {
			return t, nil
		}
	}
	return finance.Transaction{}, finance.ErrTransactionNotFound
}

func (r transactionRepo) GetBySaleID(ctx context.Context, saleID string) (finance.Transaction, error) {
	return r.find(func(t finance.Transaction) bool { return t.SaleID != nil && *t.SaleID == saleID })
}

func (r transactionRepo) GetBySalaryCalculationID(ctx context.Context, calculationID string) (finance.Transaction, error) {
	return r.find(func(t finance.Transaction) bool {
		return t.SalaryCalculationID != nil && *t.SalaryCalculationID == calculationID
	})
}

func (r transactionRepo) Update(ctx context.Context, t finance.Transaction) error {
	defer r.s.lock()()
	current, ok := r.s.t.transactions[t.ID]
	if !ok {
		return finance.ErrTransactionNotFound
	}
	current.Amount, current.Description = t.Amount, t.Description
	current.Category, current.TransactionDate = t.Category, t.TransactionDate
	r.s.t.transactions[t.ID] = current
	return nil
}

func (r transactionRepo) Delete(ctx context.Context, id string) error {
	defer r.s.lock()()
	if _, ok := r.s.t.transactions[id]; !ok {
		return finance.ErrTransactionNotFound
	}
	delete(r.s.t.transactions, id)
	return nil
}

func (r transactionRepo) List(ctx context.Context, filter finance.TransactionFilter) ([]finance.Transaction, error) {
	defer r.s.lock()()
	out := make([]finance.Transaction, 0)
	for _, t := range r.s.t.transactions {
		if inWindow(t.TransactionDate, filter.From, filter.To) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].TransactionDate.Equal(out[j].TransactionDate) {
			return out[i].TransactionDate.After(out[j].TransactionDate)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r transactionRepo) Totals(ctx context.Context, filter finance.TransactionFilter) (finance.Totals, error) {
	items, _ := r.List(ctx, filter)
	totals := finance.Totals{Income: decimal.Zero, Expense: decimal.Zero}
	for _, t := range items {
		if t.Type == finance.TypeIncome {
			totals.Income = totals.Income.Add(t.Amount)
		} else {
			totals.Expense = totals.Expense.Add(t.Amount)
		}
	}
	return totals, nil
}

func (r transactionRepo) DailyTotals(ctx context.Context, filter finance.TransactionFilter) ([]finance.DailyTotal, error) {
	items, _ := r.List(ctx, filter)
	byDay := map[time.Time]*finance.DailyTotal{}
	for _, t := range items {
		d, ok := byDay[t.TransactionDate]
		if !ok {
			d = &finance.DailyTotal{Date: t.TransactionDate, Income: decimal.Zero, Expense: decimal.Zero}
			byDay[t.TransactionDate] = d
		}
		if t.Type == finance.TypeIncome {
			d.Income = d.Income.Add(t.Amount)
		} else {
			d.Expense = d.Expense.Add(t.Amount)
		}
	}
	out := make([]finance.DailyTotal, 0, len(byDay))
	for _, d := range byDay {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r transactionRepo) SumIncome(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	totals, _ := r.Totals(ctx, finance.TransactionFilter{From: &from, To: &to})
	return totals.Income, nil
}

// ---- work hours ----

type workHoursRepo struct{ s *Store }

func (s *Store) WorkHours() workhours.WorkHoursRepository { return workHoursRepo{s} }

// duplicate reports whether another row exists for the same employee and day.
func (r workHoursRepo) duplicate(wh workhours.WorkHours) bool {
	for _, other := range r.s.t.workHours {
		if other.ID != wh.ID && other.EmployeeID == wh.EmployeeID && other.WorkDate.Equal(wh.WorkDate) {
			return true
		}
	}
	return false
}

func (r workHoursRepo) Create(ctx context.Context, wh workhours.WorkHours) (workhours.WorkHours, error) {
	defer r.s.lock()()
	if r.duplicate(wh) {
		return workhours.WorkHours{}, workhours.ErrWorkHoursExists
	}
	wh.ID = newID()
	wh.CreatedAt = r.s.Now()
	wh.EmployeeName = r.s.t.employees[wh.EmployeeID].FullName()
	r.s.t.workHours[wh.ID] = wh
	return wh, nil
}

func (r workHoursRepo) GetByID(ctx context.Context, id string) (workhours.WorkHours, error) {
	defer r.s.lock()()
	wh, ok := r.s.t.workHours[id]
	if !ok {
		return workhours.WorkHours{}, workhours.ErrWorkHoursNotFound
	}
	return wh, nil
}

func (r workHoursRepo) Update(ctx context.Context, wh workhours.WorkHours) error {
	defer r.s.lock()()
	if _, ok := r.s.t.workHours[wh.ID]; !ok {
		return workhours.ErrWorkHoursNotFound
	}
	if r.duplicate(wh) {
		return workhours.ErrWorkHoursExists
	}
	now := r.s.Now()
	wh.UpdatedAt = &now
	r.s.t.workHours[wh.ID] = wh
	return nil
}

func (r workHoursRepo) Delete(ctx context.Context, id string) error {
	defer r.s.lock()()
	if _, ok := r.s.t.workHours[id]; !ok {
		return workhours.ErrWorkHoursNotFound
	}
	delete(r.s.t.workHours, id)
	return nil
}

func (r workHoursRepo) List(ctx context.Context, filter workhours.WorkHoursFilter) ([]workhours.WorkHours, int64, error) {
	defer r.s.lock()()
	var out []workhours.WorkHours
	for _, wh := range r.s.t.workHours {
		if filter.EmployeeID != "" && wh.EmployeeID != filter.EmployeeID {
			continue
		}
		if inWindow(wh.WorkDate, filter.From, filter.To) {
			out = append(out, wh)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WorkDate.After(out[j].WorkDate) })
	return paginate(out, filter.Page, filter.Limit), int64(len(out)), nil
}

func (r workHoursRepo) SumForPeriod(ctx context.Context, employeeID string, from, to time.Time) (workhours.Totals, error) {
	defer r.s.lock()()
	totals := workhours.Totals{TotalHours: decimal.Zero}
	for _, wh := range r.s.t.workHours {
		if wh.EmployeeID == employeeID && inWindow(wh.WorkDate, &from, &to) {
			totals.TotalHours = totals.TotalHours.Add(wh.HoursCount)
			totals.TotalVisits += wh.VisitsCount
		}
	}
	return totals, nil
}

// ---- salary calculations ----

type payrollRepo struct{ s *Store }

func (s *Store) Payroll() payroll.PayrollRepository { return payrollRepo{s} }

func (r payrollRepo) Create(ctx context.Context, c payroll.SalaryCalculation) (payroll.SalaryCalculation, error) {
	defer r.s.lock()()
	c.ID = newID()
	c.CreatedAt, c.UpdatedAt = r.s.Now(), r.s.Now()
	c.EmployeeName = r.s.t.employees[c.EmployeeID].FullName()
	r.s.t.calculations[c.ID] = c
	return c, nil
}

func (r payrollRepo) GetByID(ctx context.Context, id string) (payroll.SalaryCalculation, error) {
	defer r.s.lock()()
	c, ok := r.s.t.calculations[id]
	if !ok {
		return payroll.SalaryCalculation{}, payroll.ErrCalculationNotFound
	}
	return c, nil
}

func (r payrollRepo) List(ctx context.Context, filter payroll.PayrollFilter) ([]payroll.SalaryCalculation, int64, error) {
	defer r.s.lock()()
	var out []payroll.SalaryCalculation
	for _, c := range r.s.t.calculations {
		if filter.EmployeeID == "" || c.EmployeeID == filter.EmployeeID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EndDate.After(out[j].EndDate) })
	return paginate(out, filter.Page, filter.Limit), int64(len(out)), nil
}

func (r payrollRepo) SetTransaction(ctx context.Context, id string, transactionID string) error {
	defer r.s.lock()()
	c, ok := r.s.t.calculations[id]
	if !ok {
		return payroll.ErrCalculationNotFound
	}
	c.TransactionID = &transactionID
	r.s.t.calculations[id] = c
	return nil
}

func (r payrollRepo) Delete(ctx context.Context, id string) error {
	defer r.s.lock()()
	if _, ok := r.s.t.calculations[id]; !ok {
		return payroll.ErrCalculationNotFound
	}
	delete(r.s.t.calculations, id)
	return nil
}
