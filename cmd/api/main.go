package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/payflow-hq/payroll-backend-go/internal/config"
	"github.com/payflow-hq/payroll-backend-go/internal/domain/advance"
	"github.com/payflow-hq/payroll-backend-go/internal/domain/employee"
	"github.com/payflow-hq/payroll-backend-go/internal/domain/ledger"
	"github.com/payflow-hq/payroll-backend-go/internal/domain/loan"
	"github.com/payflow-hq/payroll-backend-go/internal/domain/overtime"
	"github.com/payflow-hq/payroll-backend-go/internal/domain/period"
	appHTTP "github.com/payflow-hq/payroll-backend-go/internal/handler/http"
	"github.com/payflow-hq/payroll-backend-go/internal/pkg/database"
	"github.com/payflow-hq/payroll-backend-go/internal/repository/memory"
	"github.com/payflow-hq/payroll-backend-go/internal/repository/postgresql"
	advanceService "github.com/payflow-hq/payroll-backend-go/internal/service/advance"
	employeeService "github.com/payflow-hq/payroll-backend-go/internal/service/employee"
	loanService "github.com/payflow-hq/payroll-backend-go/internal/service/loan"
	overtimeService "github.com/payflow-hq/payroll-backend-go/internal/service/overtime"
	payrollService "github.com/payflow-hq/payroll-backend-go/internal/service/payroll"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}
	if err := cfg.Validate(); err != nil {
		fmt.Println("Invalid config:", err)
		return
	}

	var (
		employeeRepo employee.EmployeeRepository
		periodRepo   period.PeriodRepository
		advanceRepo  advance.AdvanceRepository
		loanRepo     loan.LoanRepository
		overtimeRepo overtime.OvertimeRepository
		txRunner     ledger.TxRunner
	)

	switch cfg.Storage.Driver {
	case "postgres":
		db, err := database.NewPostgreSQLDB(cfg.DatabaseURL(), cfg.Database.MaxConns, cfg.Database.MinConns)
		if err != nil {
			log.Fatal("Error connecting to database: ", err)
		}
		employeeRepo = postgresql.NewEmployeeRepository(db)
		periodRepo = postgresql.NewPeriodRepository(db)
		advanceRepo = postgresql.NewAdvanceRepository(db)
		loanRepo = postgresql.NewLoanRepository(db)
		overtimeRepo = postgresql.NewOvertimeRepository(db)
		txRunner = postgresql.NewTxRunner(db)
	case "memory":
		store := memory.NewStore()
		employeeRepo = memory.NewEmployeeRepository(store)
		periodRepo = memory.NewPeriodRepository(store)
		advanceRepo = memory.NewAdvanceRepository(store)
		loanRepo = memory.NewLoanRepository(store)
		overtimeRepo = memory.NewOvertimeRepository(store)
		txRunner = store
	default:
		log.Fatal("Unsupported storage driver: ", cfg.Storage.Driver)
	}

	employees := employeeService.NewEmployeeService(employeeRepo)
	advances := advanceService.NewAdvanceService(advanceRepo, employeeRepo, cfg.Payroll.CurrencyPlaces)
	loans := loanService.NewLoanService(loanRepo, employeeRepo, cfg.Payroll.CurrencyPlaces)
	overtimes := overtimeService.NewOvertimeService(
		overtimeRepo,
		employeeRepo,
		cfg.Payroll.CurrencyPlaces,
		cfg.Payroll.WorkDaysPerMonth,
		cfg.Payroll.WorkHoursPerDay,
	)
	workflow := payrollService.NewWorkflowService(periodRepo, employeeRepo, advances, loans, overtimes, txRunner)

	employeeHandler := appHTTP.NewEmployeeHandler(employees)
	periodHandler := appHTTP.NewPeriodHandler(workflow)
	advanceHandler := appHTTP.NewAdvanceHandler(advances)
	loanHandler := appHTTP.NewLoanHandler(loans)
	overtimeHandler := appHTTP.NewOvertimeHandler(overtimes)

	router := appHTTP.NewRouter(cfg, employeeHandler, periodHandler, advanceHandler, loanHandler, overtimeHandler)

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Println("Server running on port", cfg.App.Port)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatal("Server error: ", err)
	}
}
