package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/paycove/payroll-backend-go/internal/handler/http/middleware"
	"github.com/paycove/payroll-backend-go/internal/pkg/jwt"
)

func NewRouter(
	jwtService jwt.Service,
	payrollHandler PayrollHandler,
	timesheetHandler TimesheetHandler,
	absenceHandler AbsenceHandler,
	compensationHandler CompensationHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "paycove-payroll"),
		slog.String("version", "v1.0.0"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok\n"))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/payrolls", func(r chi.Router) {
				r.Post("/", payrollHandler.Create)
				r.Get("/", payrollHandler.List)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", payrollHandler.GetByID)
					r.Post("/calculate", payrollHandler.Calculate)
					r.Post("/approve", payrollHandler.Approve)
					r.Post("/process", payrollHandler.Process)
					r.Post("/pay", payrollHandler.MarkPaid)
					r.Post("/cancel", payrollHandler.Cancel)
				})
			})

			r.Route("/timesheets", func(r chi.Router) {
				r.Post("/", timesheetHandler.Create)
				r.Get("/", timesheetHandler.ListByEmployee)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", timesheetHandler.GetByID)
					r.Post("/submit", timesheetHandler.Submit)
					r.Post("/approve", timesheetHandler.Approve)
					r.Post("/reject", timesheetHandler.Reject)
				})
			})

			r.Route("/absences", func(r chi.Router) {
				r.Post("/", absenceHandler.Create)
				r.Get("/", absenceHandler.ListByEmployee)

				r.Route("/balances", func(r chi.Router) {
					r.Post("/", absenceHandler.CreateBalance)
					r.Get("/", absenceHandler.ListBalances)
				})

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", absenceHandler.GetByID)
					r.Post("/approve", absenceHandler.Approve)
					r.Post("/reject", absenceHandler.Reject)
					r.Post("/cancel", absenceHandler.Cancel)
				})
			})

			r.Route("/compensation", func(r chi.Router) {
				r.Route("/rates", func(r chi.Router) {
					r.Post("/", compensationHandler.CreateRate)
					r.Get("/", compensationHandler.ListRates)
				})
				r.Post("/bonuses", compensationHandler.CreateBonus)
				r.Post("/deductions", compensationHandler.CreateDeduction)
				r.Post("/overtime-rules", compensationHandler.CreateOvertimeRule)
				r.Post("/sick-leave-rules", compensationHandler.CreateSickLeaveRule)
			})
		})
	})
	return r
}
