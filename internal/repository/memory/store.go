// Package memory provides in-memory implementations of the repository
// interfaces. Service tests run against it instead of PostgreSQL.
package memory

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/freedomdance/studio-backend/internal/domain/alert"
	"github.com/freedomdance/studio-backend/internal/domain/client"
	"github.com/freedomdance/studio-backend/internal/domain/employee"
	"github.com/freedomdance/studio-backend/internal/domain/finance"
	"github.com/freedomdance/studio-backend/internal/domain/payroll"
	"github.com/freedomdance/studio-backend/internal/domain/plan"
	"github.com/freedomdance/studio-backend/internal/domain/sale"
	"github.com/freedomdance/studio-backend/internal/domain/user"
	"github.com/freedomdance/studio-backend/internal/domain/visit"
	"github.com/freedomdance/studio-backend/internal/domain/workhours"
	"github.com/freedomdance/studio-backend/internal/pkg/database"
	"github.com/freedomdance/studio-backend/internal/pkg/pagination"
	"github.com/google/uuid"
)

type tables struct {
	clients      map[string]client.Client
	plans        map[string]plan.Plan
	sales        map[string]sale.Sale
	visits       map[string]visit.Visit
	alerts       map[string]alert.Alert // keyed by sale id
	transactions map[string]finance.Transaction
	employees    map[string]employee.Employee
	workHours    map[string]workhours.WorkHours
	calculations map[string]payroll.SalaryCalculation
	users        map[string]user.User
	tokens       map[string]refreshToken
}

type refreshToken struct {
	userID    string
	expiresAt int64
	revoked   bool
}

func (t tables) clone() tables {
	return tables{
		clients:      maps.Clone(t.clients),
		plans:        maps.Clone(t.plans),
		sales:        maps.Clone(t.sales),
		visits:       maps.Clone(t.visits),
		alerts:       maps.Clone(t.alerts),
		transactions: maps.Clone(t.transactions),
		employees:    maps.Clone(t.employees),
		workHours:    maps.Clone(t.workHours),
		calculations: maps.Clone(t.calculations),
		users:        maps.Clone(t.users),
		tokens:       maps.Clone(t.tokens),
	}
}

// Store holds every table. Repositories obtained from it share its state.
type Store struct {
	mu  sync.Mutex
	txm sync.Mutex
	t   tables
	Now func() time.Time
}

func NewStore() *Store {
	return &Store{
		t: tables{
			clients:      map[string]client.Client{},
			plans:        map[string]plan.Plan{},
			sales:        map[string]sale.Sale{},
			visits:       map[string]visit.Visit{},
			alerts:       map[string]alert.Alert{},
			transactions: map[string]finance.Transaction{},
			employees:    map[string]employee.Employee{},
			workHours:    map[string]workhours.WorkHours{},
			calculations: map[string]payroll.SalaryCalculation{},
			users:        map[string]user.User{},
			tokens:       map[string]refreshToken{},
		},
		Now: func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) lock() func() {
	s.mu.Lock()
	return s.mu.Unlock
}

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

type txKey struct{}

// Transactor serialises units of work and restores the previous state when
// fn fails, mirroring a database rollback.
func (s *Store) Transactor() database.Transactor {
	return storeTransactor{s: s}
}

type storeTransactor struct {
	s *Store
}

func (t storeTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	t.s.txm.Lock()
	defer t.s.txm.Unlock()

	unlock := t.s.lock()
	snapshot := t.s.t.clone()
	unlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		unlock := t.s.lock()
		t.s.t = snapshot
		unlock()
		return err
	}
	return nil
}

// Counts reports the number of rows per table, for assertions.
type Counts struct {
	Sales, Visits, Alerts, Transactions, Calculations int
}

func (s *Store) Counts() Counts {
	defer s.lock()()
	return Counts{
		Sales:        len(s.t.sales),
		Visits:       len(s.t.visits),
		Alerts:       len(s.t.alerts),
		Transactions: len(s.t.transactions),
		Calculations: len(s.t.calculations),
	}
}

func paginate[T any](items []T, page, limit int) []T {
	page, limit = pagination.Normalize(page, limit)
	offset := pagination.Offset(page, limit)
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
