package http

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/freedomdance/studio-backend/internal/config"
	"github.com/freedomdance/studio-backend/internal/domain/finance"
	"github.com/freedomdance/studio-backend/internal/domain/user"
	"github.com/freedomdance/studio-backend/internal/pkg/dateutil"
	"github.com/freedomdance/studio-backend/internal/pkg/jwt"
	"github.com/freedomdance/studio-backend/internal/pkg/metrics"
	"github.com/freedomdance/studio-backend/internal/pkg/sse"
	"github.com/freedomdance/studio-backend/internal/repository/memory"
	alertService "github.com/freedomdance/studio-backend/internal/service/alert"
	authService "github.com/freedomdance/studio-backend/internal/service/auth"
	clientService "github.com/freedomdance/studio-backend/internal/service/client"
	employeeService "github.com/freedomdance/studio-backend/internal/service/employee"
	financeService "github.com/freedomdance/studio-backend/internal/service/finance"
	payrollService "github.com/freedomdance/studio-backend/internal/service/payroll"
	planService "github.com/freedomdance/studio-backend/internal/service/plan"
	saleService "github.com/freedomdance/studio-backend/internal/service/sale"
	userService "github.com/freedomdance/studio-backend/internal/service/user"
	visitService "github.com/freedomdance/studio-backend/internal/service/visit"
	workHoursService "github.com/freedomdance/studio-backend/internal/service/workhours"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const handlerTestPassword = "s3cret-pass"

var handlerTestNow = time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

type testApp struct {
	router http.Handler
	store  *memory.Store
	jwt    jwt.Service
	hub    *sse.Hub
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	store := memory.NewStore()
	store.Now = func() time.Time { return handlerTestNow }
	clock := dateutil.FixedClock(handlerTestNow)
	registry := prometheus.NewRegistry()
	m := metrics.New(registry)
	hub := sse.NewHub()
	t.Cleanup(hub.Close)

	jwtService, err := jwt.NewJWTService("handler-test-secret", "15m", "24h")
	require.NoError(t, err)

	tx := store.Transactor()
	alertSvc := alertService.NewAlertService(store.Alerts(), store.Sales(), hub, m, clock)
	visitSvc := visitService.NewVisitService(tx, store.Visits(), store.Sales(), alertSvc, m, clock)
	saleSvc := saleService.NewSaleService(saleService.Deps{
		Transactor:      tx,
		SaleRepo:        store.Sales(),
		ClientRepo:      store.Clients(),
		PlanRepo:        store.Plans(),
		VisitRepo:       store.Visits(),
		TransactionRepo: store.Transactions(),
		AlertRepo:       store.Alerts(),
		Alerts:          alertSvc,
		Metrics:         m,
		Clock:           clock,
	})

	cfg := &config.Config{HTTP: config.HTTPConfig{
		CORSAllowedOrigins: []string{"*"},
		RateLimitPerMinute: 1000,
	}}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	router := NewRouter(cfg, logger, jwtService, registry, Handlers{
		Auth:      NewAuthHandler(jwtService, authService.NewAuthService(tx, store.Users(), jwtService, store.RefreshTokens())),
		User:      NewUserHandler(userService.NewUserService(store.Users())),
		Client:    NewClientHandler(clientService.NewClientService(store.Clients())),
		Plan:      NewPlanHandler(planService.NewPlanService(store.Plans(), clock)),
		Employee:  NewEmployeeHandler(employeeService.NewEmployeeService(store.Employees())),
		WorkHours: NewWorkHoursHandler(workHoursService.NewWorkHoursService(store.WorkHours(), store.Employees(), clock)),
		Sale:      NewSaleHandler(saleSvc, visitSvc),
		Visit:     NewVisitHandler(visitSvc),
		Alert:     NewAlertHandler(alertSvc, jwtService, hub),
		Payroll:   NewPayrollHandler(payrollService.NewPayrollService(tx, store.Payroll(), store.Employees(), store.WorkHours(), store.Transactions(), m)),
		Finance:   NewFinanceHandler(financeService.NewFinanceService(store.Transactions(), clock)),
	})

	return &testApp{router: router, store: store, jwt: jwtService, hub: hub}
}

func (a *testApp) createUser(t *testing.T, username string, role user.Role) user.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(handlerTestPassword), bcrypt.MinCost)
	require.NoError(t, err)
	u, err := a.store.Users().Create(context.Background(), user.User{
		Username:     username,
		PasswordHash: string(hash),
		FirstName:    "Test",
		LastName:     string(role),
		Role:         role,
		IsActive:     true,
	})
	require.NoError(t, err)
	return u
}

func (a *testApp) token(t *testing.T, role user.Role) string {
	t.Helper()
	u := a.createUser(t, strings.ToLower(string(role)), role)
	tok, _, err := a.jwt.GenerateAccessToken(u.ID, u.Username, u.Role)
	require.NoError(t, err)
	return tok
}

func (a *testApp) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func dataID(t *testing.T, env envelope) string {
	t.Helper()
	var v struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &v))
	require.NotEmpty(t, v.ID)
	return v.ID
}

// seedSale creates a client, a 30 day service and a sale through the API.
func (a *testApp) seedSale(t *testing.T, token string, maxVisits int) string {
	t.Helper()

	rec := a.do(t, http.MethodPost, "/api/v1/clients", token, map[string]interface{}{
		"first_name": "Anna",
		"last_name":  "Petrova",
		"phone":      "+79990000001",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	clientID := dataID(t, decodeEnvelope(t, rec))

	rec = a.do(t, http.MethodPost, "/api/v1/services", token, map[string]interface{}{
		"name":          "Monthly",
		"price":         "120",
		"duration_days": 30,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	serviceID := dataID(t, decodeEnvelope(t, rec))

	rec = a.do(t, http.MethodPost, "/api/v1/sales", token, map[string]interface{}{
		"client_id":  clientID,
		"service_id": serviceID,
		"start_date": "2024-01-05",
		"max_visits": maxVisits,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return dataID(t, decodeEnvelope(t, rec))
}

func TestRouter_Heartbeat(t *testing.T) {
	app := newTestApp(t)
	rec := app.do(t, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_RequiresAccessToken(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodGet, "/api/v1/clients", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	u := app.createUser(t, "owner", user.RoleAdmin)
	refresh, _, err := app.jwt.GenerateRefreshToken(u.ID)
	require.NoError(t, err)
	rec = app.do(t, http.MethodGet, "/api/v1/clients", refresh, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_LoginAndMe(t *testing.T) {
	app := newTestApp(t)
	app.createUser(t, "owner", user.RoleAdmin)

	rec := app.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "owner",
		"password": handlerTestPassword,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var tokens struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &tokens))
	require.NotEmpty(t, tokens.AccessToken)

	rec = app.do(t, http.MethodGet, "/api/v1/auth/me", tokens.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var me user.UserResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &me))
	assert.Equal(t, "owner", me.Username)
	assert.Equal(t, string(user.RoleAdmin), me.Role)

	rec = app.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "owner",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_MalformedBody(t *testing.T) {
	app := newTestApp(t)
	token := app.token(t, user.RoleAdmin)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/clients", strings.NewReader("{not json"))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_PermissionDenied(t *testing.T) {
	app := newTestApp(t)
	token := app.token(t, user.RoleUser)

	rec := app.do(t, http.MethodPost, "/api/v1/clients", token, map[string]string{"first_name": "A"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = app.do(t, http.MethodGet, "/api/v1/finance", token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = app.do(t, http.MethodGet, "/api/v1/clients", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_ValidationErrorEnvelope(t *testing.T) {
	app := newTestApp(t)
	token := app.token(t, user.RoleAdmin)

	rec := app.do(t, http.MethodPost, "/api/v1/sales", token, map[string]interface{}{})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	env := decodeEnvelope(t, rec)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Contains(t, env.Error.Details, "client_id")
	assert.Contains(t, env.Error.Details, "service_id")
}

func TestRouter_VisitFlow(t *testing.T) {
	app := newTestApp(t)
	admin := app.token(t, user.RoleAdmin)
	saleID := app.seedSale(t, admin, 1)

	instructor := app.token(t, user.RoleInstructor)
	rec := app.do(t, http.MethodPost, "/api/v1/visits/mark", instructor, map[string]string{"sale_id": saleID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var marked struct {
		Success         bool   `json:"success"`
		VisitID         string `json:"visitId"`
		VisitCount      int    `json:"visitCount"`
		RemainingVisits *int   `json:"remainingVisits"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &marked))
	assert.True(t, marked.Success)
	assert.NotEmpty(t, marked.VisitID)
	assert.Equal(t, 1, marked.VisitCount)
	require.NotNil(t, marked.RemainingVisits)
	assert.Equal(t, 0, *marked.RemainingVisits)

	rec = app.do(t, http.MethodPost, "/api/v1/visits/mark", instructor, map[string]string{"abonnementSaleId": saleID})
	require.Equal(t, http.StatusConflict, rec.Code)
	var exhausted map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &exhausted))
	assert.Equal(t, false, exhausted["success"])
	assert.Equal(t, "Visit limit exhausted", exhausted["message"])
	assert.EqualValues(t, 1, exhausted["visitCount"])
	assert.EqualValues(t, 0, exhausted["remainingVisits"])

	rec = app.do(t, http.MethodGet, "/api/v1/sales/"+saleID+"/visits", instructor, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var history []map[string]interface{}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &history))
	assert.Len(t, history, 1)

	rec = app.do(t, http.MethodDelete, "/api/v1/sales/"+saleID, instructor, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = app.do(t, http.MethodDelete, "/api/v1/sales/"+saleID, admin, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = app.do(t, http.MethodGet, "/api/v1/sales/"+saleID, admin, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_MembershipScenario(t *testing.T) {
	app := newTestApp(t)
	admin := app.token(t, user.RoleAdmin)
	instructor := app.token(t, user.RoleInstructor)

	rec := app.do(t, http.MethodPost, "/api/v1/clients", admin, map[string]interface{}{
		"first_name": "Irina",
		"last_name":  "Volkova",
		"phone":      "+79990000002",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	clientID := dataID(t, decodeEnvelope(t, rec))

	rec = app.do(t, http.MethodPost, "/api/v1/services", admin, map[string]interface{}{
		"name":          "Three classes",
		"price":         "1000",
		"duration_days": 30,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	serviceID := dataID(t, decodeEnvelope(t, rec))

	rec = app.do(t, http.MethodPost, "/api/v1/sales", instructor, map[string]interface{}{
		"client_id":  clientID,
		"service_id": serviceID,
		"start_date": "2024-01-01",
		"max_visits": 3,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	env := decodeEnvelope(t, rec)
	saleID := dataID(t, env)
	var sold struct {
		EndDate string `json:"end_date"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &sold))
	assert.Equal(t, "2024-01-31", sold.EndDate)

	for i := 1; i <= 3; i++ {
		rec = app.do(t, http.MethodPost, "/api/v1/visits/mark", instructor, map[string]string{"sale_id": saleID})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var marked struct {
			VisitCount      int  `json:"visitCount"`
			RemainingVisits *int `json:"remainingVisits"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &marked))
		assert.Equal(t, i, marked.VisitCount)
		require.NotNil(t, marked.RemainingVisits)
		assert.Equal(t, 3-i, *marked.RemainingVisits)
	}

	rec = app.do(t, http.MethodPost, "/api/v1/visits/mark", instructor, map[string]string{"sale_id": saleID})
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"Visit limit exhausted","visitCount":3,"remainingVisits":0}`, rec.Body.String())

	income, err := app.store.Transactions().GetBySaleID(context.Background(), saleID)
	require.NoError(t, err)
	assert.Equal(t, finance.TypeIncome, income.Type)
	assert.True(t, income.Amount.Equal(decimal.NewFromInt(1000)), income.Amount.String())
	assert.Equal(t, "2024-01-10", dateutil.Format(income.TransactionDate))
}

func TestRouter_UpdateOwnProfile(t *testing.T) {
	app := newTestApp(t)
	token := app.token(t, user.RoleUser)

	rec := app.do(t, http.MethodPut, "/api/v1/auth/me", token, map[string]string{
		"first_name": "Maria",
		"phone":      "+7 999 000-11-22",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = app.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var me user.UserResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &me))
	assert.Equal(t, "Maria", me.FirstName)
	require.NotNil(t, me.Phone)
	assert.Equal(t, "+7 999 000-11-22", *me.Phone)
	assert.Equal(t, string(user.RoleUser), me.Role)

	rec = app.do(t, http.MethodPut, "/api/v1/auth/me", token, map[string]string{"phone": "call me"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decodeEnvelope(t, rec).Error.Details, "phone")

	rec = app.do(t, http.MethodPut, "/api/v1/auth/me", "", map[string]string{"first_name": "X"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_ManualTransactionPrecision(t *testing.T) {
	app := newTestApp(t)
	admin := app.token(t, user.RoleAdmin)

	rec := app.do(t, http.MethodPost, "/api/v1/finance/transactions", admin, map[string]interface{}{
		"type":        "Expense",
		"amount":      "10.005",
		"description": "Rent",
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decodeEnvelope(t, rec).Error.Details, "amount")

	rec = app.do(t, http.MethodGet, "/api/v1/finance?start_date=2023-01-01&end_date=2024-06-01", admin, nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decodeEnvelope(t, rec).Error.Details, "end_date")
}

func TestRouter_ListMeta(t *testing.T) {
	app := newTestApp(t)
	admin := app.token(t, user.RoleAdmin)
	app.seedSale(t, admin, 0)

	rec := app.do(t, http.MethodGet, "/api/v1/sales?limit=5", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data []map[string]interface{} `json:"data"`
		Meta struct {
			Page       int   `json:"page"`
			Limit      int   `json:"limit"`
			TotalItems int64 `json:"total_items"`
			TotalPages int   `json:"total_pages"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Data, 1)
	assert.Equal(t, 1, body.Meta.Page)
	assert.Equal(t, 5, body.Meta.Limit)
	assert.EqualValues(t, 1, body.Meta.TotalItems)
	assert.Equal(t, 1, body.Meta.TotalPages)
}

func TestRouter_FinanceExportCSV(t *testing.T) {
	app := newTestApp(t)
	admin := app.token(t, user.RoleAdmin)
	app.seedSale(t, admin, 8)

	rec := app.do(t, http.MethodGet, "/api/v1/finance/export?format=csv&start_date=2024-01-01&end_date=2024-01-31", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "ledger_2024-01-01_2024-01-31.csv")
	assert.Contains(t, rec.Body.String(), "Membership sale")

	rec = app.do(t, http.MethodGet, "/api/v1/finance/export?format=pdf", admin, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestRouter_Metrics(t *testing.T) {
	app := newTestApp(t)
	admin := app.token(t, user.RoleAdmin)
	app.seedSale(t, admin, 0)

	rec := app.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "sales_created_total")
}

func TestRouter_AlertStream(t *testing.T) {
	app := newTestApp(t)
	admin := app.token(t, user.RoleAdmin)

	rec := app.do(t, http.MethodGet, "/api/v1/alerts/stream", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = app.do(t, http.MethodGet, "/api/v1/alerts/stream?token="+admin, "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "access tokens are not stream tokens")

	rec = app.do(t, http.MethodGet, "/api/v1/alerts/stream/token", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var st struct {
		Token     string `json:"token"`
		ExpiresIn int    `json:"expires_in"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &st))
	require.NotEmpty(t, st.Token)

	server := httptest.NewServer(app.router)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/api/v1/alerts/stream?token="+st.Token, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	readEvent := func() string {
		for {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			if strings.HasPrefix(line, "event: ") {
				return strings.TrimSpace(strings.TrimPrefix(line, "event: "))
			}
		}
	}

	assert.Equal(t, "connected", readEvent())

	require.Eventually(t, func() bool { return app.hub.SubscriberCount() == 1 }, time.Second, 10*time.Millisecond)
	app.hub.Publish(sse.Event{Event: sse.EventAlertUpdated, Data: map[string]string{"saleId": "x"}})
	assert.Equal(t, sse.EventAlertUpdated, readEvent())
}
