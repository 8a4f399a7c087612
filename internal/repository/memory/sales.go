package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/freedomdance/studio-backend/internal/domain/alert"
	"github.com/freedomdance/studio-backend/internal/domain/sale"
	"github.com/freedomdance/studio-backend/internal/domain/visit"
)

// joined fills the names, price and visit count the SQL joins provide.
// The caller holds the lock.
func (s *Store) joined(sl sale.Sale) sale.Sale {
	c := s.t.clients[sl.ClientID]
	p := s.t.plans[sl.PlanID]
	sl.ClientFirstName, sl.ClientLastName = c.FirstName, c.LastName
	sl.PlanName, sl.PlanPrice = p.Name, p.Price
	sl.VisitCount = 0
	for _, v := range s.t.visits {
		if v.SaleID == sl.ID {
			sl.VisitCount++
		}
	}
	return sl
}

// ---- sales ----

type saleRepo struct{ s *Store }

func (s *Store) Sales() sale.SaleRepository { return saleRepo{s} }

func (r saleRepo) Create(ctx context.Context, sl sale.Sale) (sale.Sale, error) {
	defer r.s.lock()()
	sl.ID = newID()
	sl.CreatedAt, sl.UpdatedAt = r.s.Now(), r.s.Now()
	r.s.t.sales[sl.ID] = sl
	return r.s.joined(sl), nil
}

func (r saleRepo) GetByID(ctx context.Context, id string) (sale.Sale, error) {
	defer r.s.lock()()
	sl, ok := r.s.t.sales[id]
	if !ok || sl.IsDeleted {
		return sale.Sale{}, sale.ErrSaleNotFound
	}
	return r.s.joined(sl), nil
}

func (r saleRepo) GetByIDForUpdate(ctx context.Context, id string) (sale.Sale, error) {
	defer r.s.lock()()
	sl, ok := r.s.t.sales[id]
	if !ok || sl.IsDeleted {
		return sale.Sale{}, sale.ErrSaleNotFound
	}
	return sl, nil
}

func (r saleRepo) List(ctx context.Context, filter sale.SaleFilter) ([]sale.Sale, int64, error) {
	defer r.s.lock()()
	var out []sale.Sale
	for _, sl := range r.s.t.sales {
		if sl.IsDeleted || (filter.ClientID != "" && sl.ClientID != filter.ClientID) {
			continue
		}
		j := r.s.joined(sl)
		if q := strings.TrimSpace(filter.Search); q != "" &&
			!containsFold(j.ClientFirstName, q) && !containsFold(j.ClientLastName, q) && !containsFold(j.PlanName, q) {
			continue
		}
		out = append(out, j)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SaleDate.After(out[j].SaleDate) })
	return paginate(out, filter.Page, filter.Limit), int64(len(out)), nil
}

func (r saleRepo) Update(ctx context.Context, sl sale.Sale) error {
	defer r.s.lock()()
	current, ok := r.s.t.sales[sl.ID]
	if !ok || current.IsDeleted {
		return sale.ErrSaleNotFound
	}
	current.ClientID, current.PlanID = sl.ClientID, sl.PlanID
	current.StartDate, current.EndDate = sl.StartDate, sl.EndDate
	current.MaxVisits = sl.MaxVisits
	current.UpdatedAt = r.s.Now()
	r.s.t.sales[sl.ID] = current
	return nil
}

func (r saleRepo) SoftDelete(ctx context.Context, id string) error {
	defer r.s.lock()()
	sl, ok := r.s.t.sales[id]
	if !ok || sl.IsDeleted {
		return sale.ErrSaleNotFound
	}
	sl.IsDeleted = true
	r.s.t.sales[id] = sl
	return nil
}

func (r saleRepo) ListActiveIDs(ctx context.Context) ([]string, error) {
	defer r.s.lock()()
	ids := make([]string, 0, len(r.s.t.sales))
	for id, sl := range r.s.t.sales {
		if !sl.IsDeleted {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// ---- visits ----

type visitRepo struct{ s *Store }

func (s *Store) Visits() visit.VisitRepository { return visitRepo{s} }

func (r visitRepo) Create(ctx context.Context, v visit.Visit) (visit.Visit, error) {
	defer r.s.lock()()
	v.ID = newID()
	v.VisitDate = v.VisitDate.UTC()
	v.CreatedAt = r.s.Now()
	r.s.t.visits[v.ID] = v
	return v, nil
}

func (r visitRepo) GetByID(ctx context.Context, id string) (visit.Visit, error) {
	defer r.s.lock()()
	v, ok := r.s.t.visits[id]
	if !ok || r.s.t.sales[v.SaleID].IsDeleted {
		return visit.Visit{}, visit.ErrVisitNotFound
	}
	return v, nil
}

func (r visitRepo) CountBySale(ctx context.Context, saleID string) (int, error) {
	defer r.s.lock()()
	n := 0
	for _, v := range r.s.t.visits {
		if v.SaleID == saleID {
			n++
		}
	}
	return n, nil
}

func (r visitRepo) ListBySale(ctx context.Context, saleID string) ([]visit.Visit, error) {
	defer r.s.lock()()
	out := make([]visit.Visit, 0)
	for _, v := range r.s.t.visits {
		if v.SaleID == saleID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VisitDate.After(out[j].VisitDate) })
	return out, nil
}

func (r visitRepo) UpdateDate(ctx context.Context, id string, visitDate time.Time, modifiedAt time.Time) error {
	defer r.s.lock()()
	v, ok := r.s.t.visits[id]
	if !ok {
		return visit.ErrVisitNotFound
	}
	v.VisitDate = visitDate.UTC()
	m := modifiedAt.UTC()
	v.ModifiedAt = &m
	r.s.t.visits[id] = v
	return nil
}

// ---- alerts ----

type alertRepo struct{ s *Store }

func (s *Store) Alerts() alert.AlertRepository { return alertRepo{s} }

func (r alertRepo) Upsert(ctx context.Context, a alert.Alert) (alert.Alert, error) {
	defer r.s.lock()()
	now := r.s.Now()
	if existing, ok := r.s.t.alerts[a.SaleID]; ok {
		a.ID, a.CreatedAt = existing.ID, existing.CreatedAt
	} else {
		a.ID, a.CreatedAt = newID(), now
	}
	a.UpdatedAt = now
	r.s.t.alerts[a.SaleID] = a
	return a, nil
}

func (r alertRepo) GetBySaleID(ctx context.Context, saleID string) (alert.Alert, error) {
	defer r.s.lock()()
	a, ok := r.s.t.alerts[saleID]
	if !ok || r.s.t.sales[saleID].IsDeleted {
		return alert.Alert{}, alert.ErrAlertNotFound
	}
	return a, nil
}

func (r alertRepo) List(ctx context.Context, filter alert.AlertFilter) ([]alert.Alert, error) {
	defer r.s.lock()()
	var out []alert.Alert
	for saleID, a := range r.s.t.alerts {
		if r.s.t.sales[saleID].IsDeleted {
			continue
		}
		switch filter.Mode {
		case alert.ModeUsage:
			if a.MaxVisits == 0 {
				continue
			}
		default:
			if a.DaysRemaining <= 0 || a.DaysRemaining > filter.Days {
				continue
			}
		}
		out = append(out, a)
	}

	if filter.Mode == alert.ModeUsage {
		sort.Slice(out, func(i, j int) bool { return out[i].UsagePercent.GreaterThan(out[j].UsagePercent) })
	} else {
		sort.Slice(out, func(i, j int) bool { return out[i].ExpiryDate.Before(out[j].ExpiryDate) })
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r alertRepo) DeleteBySaleID(ctx context.Context, saleID string) error {
	defer r.s.lock()()
	delete(r.s.t.alerts, saleID)
	return nil
}
