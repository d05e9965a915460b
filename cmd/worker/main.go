package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/nominaplus/payroll-engine/internal/config"
	appHTTP "github.com/nominaplus/payroll-engine/internal/handler/http"
	"github.com/nominaplus/payroll-engine/internal/pkg/database"
	"github.com/nominaplus/payroll-engine/internal/pkg/queue"
	"github.com/nominaplus/payroll-engine/internal/repository/postgresql"
	"github.com/nominaplus/payroll-engine/internal/service/absenteeism"
	"github.com/nominaplus/payroll-engine/internal/service/ledger"
	payrollService "github.com/nominaplus/payroll-engine/internal/service/payroll"
	"github.com/nominaplus/payroll-engine/internal/service/provisions"
	"github.com/nominaplus/payroll-engine/internal/service/refdata"
	"github.com/nominaplus/payroll-engine/internal/service/socialsecurity"
	"github.com/nominaplus/payroll-engine/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("Failed to connect to Redis: ", err)
	}

	movementRepo := postgresql.NewMovementRepository(db)
	conceptRepo := postgresql.NewConceptRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	companyRepo := postgresql.NewCompanyRepository(db)
	periodRepo := postgresql.NewPeriodRepository(db)
	absenteeRepo := postgresql.NewAbsenteeRepository(db)
	recurrentRepo := postgresql.NewRecurrentRepository(db)
	refdataRepo := postgresql.NewRefdataRepository(db)

	resolver := refdata.NewResolver(refdataRepo, redisClient)
	ledgerService := ledger.NewService(movementRepo)
	absenteeismService := absenteeism.NewService(absenteeRepo, resolver)
	socialSecurityService := socialsecurity.NewService(ledgerService, resolver, absenteeismService)
	provisionsService := provisions.NewService(ledgerService, resolver)
	engine := payrollService.NewService(
		employeeRepo,
		companyRepo,
		conceptRepo,
		periodRepo,
		recurrentRepo,
		ledgerService,
		resolver,
		absenteeismService,
		socialSecurityService,
		provisionsService,
	)

	jobQueue := queue.New(redisClient, cfg.Queue.JobQueue)
	statusQueue := queue.New(redisClient, cfg.Queue.StatusQueue)
	w := worker.New(jobQueue, statusQueue, engine, cfg.Queue.Concurrency, cfg.Queue.PollTimeout)

	payrollHandler := appHTTP.NewPayrollHandler(jobQueue, statusQueue, resolver)
	router := appHTTP.NewRouter(cfg.App.Env, payrollHandler)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}
	go func() {
		fmt.Printf("Server running at http://localhost%s\n", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Println("Server error:", err)
			stop()
		}
	}()

	if err := w.Run(ctx); err != nil && err != context.Canceled {
		fmt.Println("Worker error:", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Queue.PollTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		fmt.Println("Server shutdown error:", err)
	}
}
