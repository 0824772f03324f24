package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pharmtrack/pharmtrack-backend-go/internal/config"
	appHTTP "github.com/pharmtrack/pharmtrack-backend-go/internal/handler/http"
	"github.com/pharmtrack/pharmtrack-backend-go/internal/pkg/cron"
	"github.com/pharmtrack/pharmtrack-backend-go/internal/pkg/database"
	"github.com/pharmtrack/pharmtrack-backend-go/internal/repository/postgresql"
	payrollService "github.com/pharmtrack/pharmtrack-backend-go/internal/service/payroll"
	timeclockService "github.com/pharmtrack/pharmtrack-backend-go/internal/service/timeclock"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(context.Background(), cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	branchRepo := postgresql.NewBranchRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	scheduleRepo := postgresql.NewScheduleRepository(db)
	sessionRepo := postgresql.NewClockSessionRepository(db)

	timeclockSvc := timeclockService.NewTimeclockService(
		sessionRepo,
		employeeRepo,
		branchRepo,
		cfg.Attendance.DefaultRadiusMeters,
		cfg.Attendance.AutoCloseAfter,
	)
	payrollSvc := payrollService.NewPayrollService(
		sessionRepo,
		employeeRepo,
		branchRepo,
		scheduleRepo,
	)

	timeclockHandler := appHTTP.NewTimeclockHandler(timeclockSvc)
	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)

	scheduler := cron.NewScheduler()
	cron.NewTimeclockJobs(timeclockSvc, cfg.Attendance.AutoCloseInterval).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(cfg.App.Env, timeclockHandler, payrollHandler)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
