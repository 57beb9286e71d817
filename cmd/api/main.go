package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/paycove/payroll-backend-go/internal/config"
	appHTTP "github.com/paycove/payroll-backend-go/internal/handler/http"
	"github.com/paycove/payroll-backend-go/internal/pkg/database"
	"github.com/paycove/payroll-backend-go/internal/pkg/jwt"
	"github.com/paycove/payroll-backend-go/internal/repository/postgresql"
	absenceService "github.com/paycove/payroll-backend-go/internal/service/absence"
	auditService "github.com/paycove/payroll-backend-go/internal/service/audit"
	compensationService "github.com/paycove/payroll-backend-go/internal/service/compensation"
	payrollService "github.com/paycove/payroll-backend-go/internal/service/payroll"
	timesheetService "github.com/paycove/payroll-backend-go/internal/service/timesheet"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL(), cfg.Database.MaxConns, cfg.Database.MinConns)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(
		slog.String("app", "paycove-payroll"),
	)

	employeeRepo := postgresql.NewEmployeeRepository(db)
	contractRepo := postgresql.NewContractRepository(db)
	timesheetRepo := postgresql.NewTimesheetRepository(db)
	absenceRepo := postgresql.NewAbsenceRepository(db)
	balanceRepo := postgresql.NewAbsenceBalanceRepository(db)
	compensationRepo := postgresql.NewCompensationRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)
	auditSink := postgresql.NewAuditSink(db)
	txManager := postgresql.NewTxManager(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	resolver := compensationService.NewProfileResolver(compensationRepo, logger)
	aggregator := timesheetService.NewHoursAggregator(timesheetRepo)
	adjuster := absenceService.NewAbsenceAdjuster(absenceRepo, balanceRepo)
	emitter := auditService.NewEmitter(auditSink, logger)

	timesheetSvc := timesheetService.NewTimesheetService(timesheetRepo, employeeRepo)
	absenceSvc := absenceService.NewAbsenceService(absenceRepo, balanceRepo, employeeRepo)
	compensationSvc := compensationService.NewCompensationService(compensationRepo, employeeRepo)
	payrollSvc := payrollService.NewPayrollService(
		txManager,
		payrollRepo,
		employeeRepo,
		contractRepo,
		balanceRepo,
		resolver,
		aggregator,
		adjuster,
		emitter,
		logger,
	)

	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)
	timesheetHandler := appHTTP.NewTimesheetHandler(timesheetSvc)
	absenceHandler := appHTTP.NewAbsenceHandler(absenceSvc)
	compensationHandler := appHTTP.NewCompensationHandler(compensationSvc)

	router := appHTTP.NewRouter(
		jwtService,
		payrollHandler,
		timesheetHandler,
		absenceHandler,
		compensationHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
