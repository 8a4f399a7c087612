package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/freedomdance/studio-backend/internal/config"
	"github.com/freedomdance/studio-backend/internal/domain/user"
	"github.com/freedomdance/studio-backend/internal/handler/http/middleware"
	"github.com/freedomdance/studio-backend/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/httprate"
	"github.com/go-chi/jwtauth/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	loginRequestsPerMinute = 10
	requestTimeout         = 60 * time.Second
)

type Handlers struct {
	Auth      AuthHandler
	User      UserHandler
	Client    ClientHandler
	Plan      PlanHandler
	Employee  EmployeeHandler
	WorkHours WorkHoursHandler
	Sale      SaleHandler
	Visit     VisitHandler
	Alert     AlertHandler
	Payroll   PayrollHandler
	Finance   FinanceHandler
}

// NewRouter wires every route. gatherer backs /metrics; nil falls back to
// the default registry.
func NewRouter(cfg *config.Config, logger *slog.Logger, JWTService jwt.Service, gatherer prometheus.Gatherer, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.HTTP.CORSAllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))
	r.Use(httprate.LimitByIP(cfg.HTTP.RateLimitPerMinute, time.Minute))

	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.With(httprate.LimitByIP(loginRequestsPerMinute, time.Minute)).Post("/login", h.Auth.Login)
			r.Post("/refresh", h.Auth.RefreshToken)
			r.Post("/logout", h.Auth.Logout)
		})

		// The stream authenticates with its own query token.
		r.Get("/alerts/stream", h.Alert.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Group(func(r chi.Router) {
				r.Use(chiMiddleware.Timeout(requestTimeout))
				registerRoutes(r, h)
			})

			r.Get("/auth/me", h.Auth.Me)
			r.Put("/auth/me", h.User.UpdateProfile)
			r.Get("/alerts/stream/token", h.Auth.StreamToken)
		})
	})

	return r
}

func registerRoutes(r chi.Router, h Handlers) {
	r.Route("/users", func(r chi.Router) {
		r.Use(middleware.RequirePermission(user.PermissionUserManage))
		r.Get("/", h.User.List)
		r.Post("/", h.User.Create)
		r.Put("/{id}/role", h.User.UpdateRole)
		r.Delete("/{id}", h.User.Deactivate)
	})

	r.Route("/clients", func(r chi.Router) {
		r.Get("/", h.Client.List)
		r.Get("/{id}", h.Client.Get)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequirePermission(user.PermissionCatalogManage))
			r.Post("/", h.Client.Create)
			r.Put("/{id}", h.Client.Update)
			r.Delete("/{id}", h.Client.Delete)
		})
	})

	r.Route("/services", func(r chi.Router) {
		r.Get("/", h.Plan.List)
		r.Get("/{id}", h.Plan.Get)
		r.Get("/{id}/end-date", h.Plan.EndDate)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequirePermission(user.PermissionCatalogManage))
			r.Post("/", h.Plan.Create)
			r.Put("/{id}", h.Plan.Update)
			r.Delete("/{id}", h.Plan.Delete)
		})
	})

	r.Route("/employees", func(r chi.Router) {
		r.Use(middleware.RequirePermission(user.PermissionCatalogManage))
		r.Get("/", h.Employee.ListEmployees)
		r.Post("/", h.Employee.CreateEmployee)
		r.Get("/{id}", h.Employee.GetEmployee)
		r.Put("/{id}", h.Employee.UpdateEmployee)
		r.Delete("/{id}", h.Employee.DeleteEmployee)
	})

	r.Route("/work-hours", func(r chi.Router) {
		r.Use(middleware.RequirePermission(user.PermissionWorkHoursManage))
		r.Get("/", h.WorkHours.List)
		r.Post("/", h.WorkHours.Create)
		r.Get("/summary", h.WorkHours.Summary)
		r.Put("/{id}", h.WorkHours.Update)
		r.Delete("/{id}", h.WorkHours.Delete)
	})

	r.Route("/sales", func(r chi.Router) {
		r.Get("/", h.Sale.List)
		r.Get("/{id}", h.Sale.Get)
		r.Get("/{id}/visits", h.Sale.Visits)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequirePermission(user.PermissionSaleManage))
			r.Post("/", h.Sale.Create)
			r.Put("/{id}", h.Sale.Update)
			r.Post("/{id}", h.Sale.Update)
		})
		r.With(middleware.RequirePermission(user.PermissionSaleDelete)).Delete("/{id}", h.Sale.Delete)
	})

	r.Route("/visits", func(r chi.Router) {
		r.Use(middleware.RequirePermission(user.PermissionVisitMark))
		r.Post("/mark", h.Visit.Mark)
		r.Put("/{id}/date", h.Visit.UpdateDate)
	})

	r.Route("/alerts", func(r chi.Router) {
		r.Get("/", h.Alert.List)
		r.With(middleware.RequirePermission(user.PermissionAlertRefresh)).Post("/refresh", h.Alert.Refresh)
	})

	r.Route("/payroll", func(r chi.Router) {
		r.Use(middleware.RequirePermission(user.PermissionPayrollManage))
		r.Post("/calculate", h.Payroll.Calculate)
		r.Get("/", h.Payroll.List)
		r.Post("/", h.Payroll.Create)
		r.Get("/{id}", h.Payroll.Get)
		r.Delete("/{id}", h.Payroll.Delete)
	})

	r.Route("/finance", func(r chi.Router) {
		r.With(middleware.RequirePermission(user.PermissionFinanceView)).Get("/", h.Finance.Summary)
		r.With(middleware.RequirePermission(user.PermissionFinanceView)).Get("/export", h.Finance.Export)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequirePermission(user.PermissionFinanceManage))
			r.Post("/transactions", h.Finance.CreateTransaction)
			r.Delete("/transactions/{id}", h.Finance.DeleteTransaction)
		})
	})
}
