package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/freedomdance/studio-backend/internal/domain/auth"
	"github.com/freedomdance/studio-backend/internal/domain/client"
	"github.com/freedomdance/studio-backend/internal/domain/employee"
	"github.com/freedomdance/studio-backend/internal/domain/plan"
	"github.com/freedomdance/studio-backend/internal/domain/user"
)

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// ---- clients ----

type clientRepo struct{ s *Store }

func (s *Store) Clients() client.ClientRepository { return clientRepo{s} }

func (r clientRepo) Create(ctx context.Context, c client.Client) (client.Client, error) {
	defer r.s.lock()()
	c.ID = newID()
	c.CreatedAt, c.UpdatedAt = r.s.Now(), r.s.Now()
	r.s.t.clients[c.ID] = c
	return c, nil
}

func (r clientRepo) GetByID(ctx context.Context, id string) (client.Client, error) {
	defer r.s.lock()()
	c, ok := r.s.t.clients[id]
	if !ok || c.IsDeleted {
		return client.Client{}, client.ErrClientNotFound
	}
	return c, nil
}

func (r clientRepo) List(ctx context.Context, filter client.ClientFilter) ([]client.Client, int64, error) {
	defer r.s.lock()()
	var out []client.Client
	for _, c := range r.s.t.clients {
		if c.IsDeleted {
			continue
		}
		if q := strings.TrimSpace(filter.Search); q != "" &&
			!containsFold(c.FirstName, q) && !containsFold(c.LastName, q) && !containsFold(c.Phone, q) {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastName < out[j].LastName })
	return paginate(out, filter.Page, filter.Limit), int64(len(out)), nil
}

func (r clientRepo) Update(ctx context.Context, req client.UpdateClientRequest) error {
	defer r.s.lock()()
	c, ok := r.s.t.clients[req.ID]
	if !ok || c.IsDeleted {
		return client.ErrClientNotFound
	}
	if req.FirstName != nil {
		c.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		c.LastName = *req.LastName
	}
	if req.Phone != nil {
		c.Phone = *req.Phone
	}
	if req.Email != nil {
		c.Email = req.Email
	}
	c.UpdatedAt = r.s.Now()
	r.s.t.clients[c.ID] = c
	return nil
}

func (r clientRepo) SoftDelete(ctx context.Context, id string) error {
	defer r.s.lock()()
	c, ok := r.s.t.clients[id]
	if !ok || c.IsDeleted {
		return client.ErrClientNotFound
	}
	c.IsDeleted = true
	r.s.t.clients[id] = c
	return nil
}

// ---- plans ----

type planRepo struct{ s *Store }

func (s *Store) Plans() plan.PlanRepository { return planRepo{s} }

func (r planRepo) Create(ctx context.Context, p plan.Plan) (plan.Plan, error) {
	defer r.s.lock()()
	p.ID = newID()
	p.CreatedAt, p.UpdatedAt = r.s.Now(), r.s.Now()
	r.s.t.plans[p.ID] = p
	return p, nil
}

func (r planRepo) GetByID(ctx context.Context, id string) (plan.Plan, error) {
	defer r.s.lock()()
	p, ok := r.s.t.plans[id]
	if !ok {
		return plan.Plan{}, plan.ErrPlanNotFound
	}
	return p, nil
}

func (r planRepo) List(ctx context.Context, filter plan.PlanFilter) ([]plan.Plan, int64, error) {
	defer r.s.lock()()
	var out []plan.Plan
	for _, p := range r.s.t.plans {
		if q := strings.TrimSpace(filter.Search); q != "" && !containsFold(p.Name, q) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return paginate(out, filter.Page, filter.Limit), int64(len(out)), nil
}

func (r planRepo) Update(ctx context.Context, req plan.UpdatePlanRequest) error {
	defer r.s.lock()()
	p, ok := r.s.t.plans[req.ID]
	if !ok {
		return plan.ErrPlanNotFound
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.DurationDays != nil {
		p.DurationDays = *req.DurationDays
	}
	p.UpdatedAt = r.s.Now()
	r.s.t.plans[p.ID] = p
	return nil
}

func (r planRepo) Delete(ctx context.Context, id string) error {
	defer r.s.lock()()
	if _, ok := r.s.t.plans[id]; !ok {
		return plan.ErrPlanNotFound
	}
	delete(r.s.t.plans, id)
	return nil
}

func (r planRepo) HasSales(ctx context.Context, id string) (bool, error) {
	defer r.s.lock()()
	for _, sl := range r.s.t.sales {
		if sl.PlanID == id {
			return true, nil
		}
	}
	return false, nil
}

// ---- employees ----

type employeeRepo struct{ s *Store }

func (s *Store) Employees() employee.EmployeeRepository { return employeeRepo{s} }

func (r employeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	defer r.s.lock()()
	e, ok := r.s.t.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (r employeeRepo) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	defer r.s.lock()()
	e.ID = newID()
	e.CreatedAt, e.UpdatedAt = r.s.Now(), r.s.Now()
	r.s.t.employees[e.ID] = e
	return e, nil
}

func (r employeeRepo) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	defer r.s.lock()()
	var out []employee.Employee
	for _, e := range r.s.t.employees {
		if filter.ActiveOnly && !e.IsActive {
			continue
		}
		if q := strings.TrimSpace(filter.Search); q != "" && !containsFold(e.FullName(), q) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastName < out[j].LastName })
	return paginate(out, filter.Page, filter.Limit), int64(len(out)), nil
}

func (r employeeRepo) Update(ctx context.Context, req employee.UpdateEmployeeRequest) error {
	defer r.s.lock()()
	e, ok := r.s.t.employees[req.ID]
	if !ok {
		return employee.ErrEmployeeNotFound
	}
	if req.FirstName != nil {
		e.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		e.LastName = *req.LastName
	}
	if req.Phone != nil {
		e.Phone = *req.Phone
	}
	if req.Email != nil {
		e.Email = req.Email
	}
	if req.HourlyRate != nil {
		e.HourlyRate = *req.HourlyRate
	}
	if req.IsActive != nil {
		e.IsActive = *req.IsActive
	}
	e.UpdatedAt = r.s.Now()
	r.s.t.employees[e.ID] = e
	return nil
}

func (r employeeRepo) Deactivate(ctx context.Context, id string) error {
	defer r.s.lock()()
	e, ok := r.s.t.employees[id]
	if !ok {
		return employee.ErrEmployeeNotFound
	}
	if !e.IsActive {
		return employee.ErrEmployeeAlreadyInactive
	}
	e.IsActive = false
	r.s.t.employees[id] = e
	return nil
}

// ---- users ----

type userRepo struct{ s *Store }

func (s *Store) Users() user.UserRepository { return userRepo{s} }

func (r userRepo) GetByUsername(ctx context.Context, username string) (user.User, error) {
	defer r.s.lock()()
	for _, u := range r.s.t.users {
		if strings.EqualFold(u.Username, username) {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r userRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	defer r.s.lock()()
	u, ok := r.s.t.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (r userRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	defer r.s.lock()()
	for _, existing := range r.s.t.users {
		if strings.EqualFold(existing.Username, u.Username) {
			return user.User{}, user.ErrUsernameExists
		}
	}
	u.ID = newID()
	u.CreatedAt, u.UpdatedAt = r.s.Now(), r.s.Now()
	r.s.t.users[u.ID] = u
	return u, nil
}

func (r userRepo) List(ctx context.Context) ([]user.User, error) {
	defer r.s.lock()()
	out := make([]user.User, 0, len(r.s.t.users))
	for _, u := range r.s.t.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r userRepo) UpdateRole(ctx context.Context, id string, role user.Role) error {
	defer r.s.lock()()
	u, ok := r.s.t.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	u.Role = role
	r.s.t.users[id] = u
	return nil
}

func (r userRepo) Deactivate(ctx context.Context, id string) error {
	defer r.s.lock()()
	u, ok := r.s.t.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	u.IsActive = false
	r.s.t.users[id] = u
	return nil
}

func (r userRepo) UpdateProfile(ctx context.Context, u user.User) error {
	defer r.s.lock()()
	existing, ok := r.s.t.users[u.ID]
	if !ok {
		return user.ErrUserNotFound
	}
	existing.FirstName, existing.LastName = u.FirstName, u.LastName
	existing.Email, existing.Phone = u.Email, u.Phone
	existing.UpdatedAt = r.s.Now()
	r.s.t.users[u.ID] = existing
	return nil
}

func (r userRepo) TouchLastLogin(ctx context.Context, id string) error {
	defer r.s.lock()()
	u, ok := r.s.t.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	now := r.s.Now()
	u.LastLoginAt = &now
	r.s.t.users[id] = u
	return nil
}

// ---- refresh tokens ----

type tokenRepo struct{ s *Store }

func (s *Store) RefreshTokens() auth.RefreshTokenRepository { return tokenRepo{s} }

func (r tokenRepo) CreateRefreshToken(ctx context.Context, userID string, token string, expiresAt int64, session auth.SessionTrackingRequest) error {
	defer r.s.lock()()
	r.s.t.tokens[token] = refreshToken{userID: userID, expiresAt: expiresAt}
	return nil
}

func (r tokenRepo) IsRefreshTokenRevoked(ctx context.Context, token string) (string, bool, error) {
	defer r.s.lock()()
	t, ok := r.s.t.tokens[token]
	if !ok {
		return "", true, nil
	}
	return t.userID, t.revoked || time.Unix(t.expiresAt, 0).Before(r.s.Now()), nil
}

func (r tokenRepo) RevokeRefreshToken(ctx context.Context, token string) error {
	defer r.s.lock()()
	if t, ok := r.s.t.tokens[token]; ok {
		t.revoked = true
		r.s.t.tokens[token] = t
	}
	return nil
}
