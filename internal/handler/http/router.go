package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/payflow-hq/payroll-backend-go/internal/config"
)

func NewRouter(
	cfg *config.Config,
	employeeHandler EmployeeHandler,
	periodHandler PeriodHandler,
	advanceHandler AdvanceHandler,
	loanHandler LoanHandler,
	overtimeHandler OvertimeHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "payflow-payroll"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.App.Env),
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

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/employees", func(r chi.Router) {
			r.Post("/", employeeHandler.Create)
			r.Get("/", employeeHandler.List)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", employeeHandler.Get)
				r.Put("/salary-structure", employeeHandler.SetSalaryStructure)
				r.Get("/salary-structure", employeeHandler.GetSalaryStructure)
			})
		})

		r.Route("/payroll-periods", func(r chi.Router) {
			r.Post("/", periodHandler.Create)
			r.Get("/", periodHandler.List)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", periodHandler.Get)
				r.Get("/entries", periodHandler.ListEntries)
				r.Get("/reconciliation", periodHandler.Verify)

				r.Post("/initiate", periodHandler.Initiate)
				r.Post("/process", periodHandler.Process)
				r.Post("/hr-submit", periodHandler.HRSubmit)
				r.Post("/finance-submit", periodHandler.FinanceSubmit)
				r.Post("/request-approval", periodHandler.RequestApproval)
				r.Post("/approve", periodHandler.Approve)
				r.Post("/disburse", periodHandler.Disburse)
				r.Post("/complete", periodHandler.Complete)
				r.Post("/lock", periodHandler.Lock)
			})
		})

		r.Route("/advances", func(r chi.Router) {
			r.Post("/", advanceHandler.Create)
			r.Get("/", advanceHandler.List)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", advanceHandler.Get)
				r.Post("/approve", advanceHandler.Approve)
				r.Post("/reject", advanceHandler.Reject)
				r.Post("/disburse", advanceHandler.Disburse)
			})
		})

		r.Route("/loans", func(r chi.Router) {
			r.Post("/", loanHandler.Create)
			r.Get("/", loanHandler.List)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", loanHandler.Get)
				r.Get("/schedule", loanHandler.Schedule)
				r.Post("/approve", loanHandler.Approve)
				r.Post("/reject", loanHandler.Reject)
				r.Post("/disburse", loanHandler.Disburse)
				r.Post("/declare-default", loanHandler.DeclareDefault)
			})
		})

		r.Route("/overtime", func(r chi.Router) {
			r.Post("/", overtimeHandler.Create)
			r.Get("/", overtimeHandler.List)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", overtimeHandler.Get)
				r.Post("/approve", overtimeHandler.Approve)
				r.Post("/reject", overtimeHandler.Reject)
			})
		})
	})
	return r
}
