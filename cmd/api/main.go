package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/freedomdance/studio-backend/internal/config"
	appHTTP "github.com/freedomdance/studio-backend/internal/handler/http"
	"github.com/freedomdance/studio-backend/internal/pkg/cron"
	"github.com/freedomdance/studio-backend/internal/pkg/database"
	"github.com/freedomdance/studio-backend/internal/pkg/dateutil"
	"github.com/freedomdance/studio-backend/internal/pkg/jwt"
	"github.com/freedomdance/studio-backend/internal/pkg/metrics"
	"github.com/freedomdance/studio-backend/internal/pkg/sse"
	"github.com/freedomdance/studio-backend/internal/repository/postgresql"
	"github.com/freedomdance/studio-backend/internal/repository/postgresql/migrations"
	alertService "github.com/freedomdance/studio-backend/internal/service/alert"
	serviceAuth "github.com/freedomdance/studio-backend/internal/service/auth"
	clientService "github.com/freedomdance/studio-backend/internal/service/client"
	employeeService "github.com/freedomdance/studio-backend/internal/service/employee"
	financeService "github.com/freedomdance/studio-backend/internal/service/finance"
	payrollService "github.com/freedomdance/studio-backend/internal/service/payroll"
	planService "github.com/freedomdance/studio-backend/internal/service/plan"
	saleService "github.com/freedomdance/studio-backend/internal/service/sale"
	userService "github.com/freedomdance/studio-backend/internal/service/user"
	visitService "github.com/freedomdance/studio-backend/internal/service/visit"
	workHoursService "github.com/freedomdance/studio-backend/internal/service/workhours"
	"github.com/go-chi/httplog/v3"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logFormat := httplog.SchemaECS.Concise(!cfg.IsProduction())
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", cfg.App.Name),
		slog.String("version", cfg.App.Version),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}
	defer db.Close()

	if err := migrations.Apply(ctx, db); err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)
	clock := dateutil.SystemClock{}
	hub := sse.NewHub()
	defer hub.Close()

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	if err != nil {
		return fmt.Errorf("invalid JWT configuration: %w", err)
	}

	tx := postgresql.NewTransactor(db, m)
	userRepo := postgresql.NewUserRepository(db)
	JWTRepository := postgresql.NewJWTRepository(db)
	clientRepo := postgresql.NewClientRepository(db)
	planRepo := postgresql.NewPlanRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	workHoursRepo := postgresql.NewWorkHoursRepository(db)
	saleRepo := postgresql.NewSaleRepository(db)
	visitRepo := postgresql.NewVisitRepository(db)
	alertRepo := postgresql.NewAlertRepository(db)
	transactionRepo := postgresql.NewTransactionRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)

	alertSvc := alertService.NewAlertService(alertRepo, saleRepo, hub, m, clock)
	authSvc := serviceAuth.NewAuthService(tx, userRepo, JWTService, JWTRepository)
	userSvc := userService.NewUserService(userRepo)
	clientSvc := clientService.NewClientService(clientRepo)
	planSvc := planService.NewPlanService(planRepo, clock)
	employeeSvc := employeeService.NewEmployeeService(employeeRepo)
	workHoursSvc := workHoursService.NewWorkHoursService(workHoursRepo, employeeRepo, clock)
	saleSvc := saleService.NewSaleService(saleService.Deps{
		Transactor:      tx,
		SaleRepo:        saleRepo,
		ClientRepo:      clientRepo,
		PlanRepo:        planRepo,
		VisitRepo:       visitRepo,
		TransactionRepo: transactionRepo,
		AlertRepo:       alertRepo,
		Alerts:          alertSvc,
		Metrics:         m,
		Clock:           clock,
	})
	visitSvc := visitService.NewVisitService(tx, visitRepo, saleRepo, alertSvc, m, clock)
	financeSvc := financeService.NewFinanceService(transactionRepo, clock)
	payrollSvc := payrollService.NewPayrollService(tx, payrollRepo, employeeRepo, workHoursRepo, transactionRepo, m)

	scheduler := cron.NewScheduler(logger)
	if cfg.Alerts.RefreshInterval > 0 {
		cron.NewAlertJobs(alertSvc, cfg.Alerts.RefreshInterval).RegisterJobs(scheduler)
	}
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(cfg, logger, JWTService, registry, appHTTP.Handlers{
		Auth:      appHTTP.NewAuthHandler(JWTService, authSvc),
		User:      appHTTP.NewUserHandler(userSvc),
		Client:    appHTTP.NewClientHandler(clientSvc),
		Plan:      appHTTP.NewPlanHandler(planSvc),
		Employee:  appHTTP.NewEmployeeHandler(employeeSvc),
		WorkHours: appHTTP.NewWorkHoursHandler(workHoursSvc),
		Sale:      appHTTP.NewSaleHandler(saleSvc, visitSvc),
		Visit:     appHTTP.NewVisitHandler(visitSvc),
		Alert:     appHTTP.NewAlertHandler(alertSvc, JWTService, hub),
		Payroll:   appHTTP.NewPayrollHandler(payrollSvc),
		Finance:   appHTTP.NewFinanceHandler(financeSvc),
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Server running", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	// Streams block Shutdown until their subscriptions end.
	hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
