package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/cmlabs-hris/attendance-core-go/internal/config"
	attendanceDomain "github.com/cmlabs-hris/attendance-core-go/internal/domain/attendance"
	employeeDomain "github.com/cmlabs-hris/attendance-core-go/internal/domain/employee"
	locationDomain "github.com/cmlabs-hris/attendance-core-go/internal/domain/location"
	appHTTP "github.com/cmlabs-hris/attendance-core-go/internal/handler/http"
	"github.com/cmlabs-hris/attendance-core-go/internal/pkg/clock"
	"github.com/cmlabs-hris/attendance-core-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-core-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-core-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/attendance-core-go/internal/repository/memory"
	"github.com/cmlabs-hris/attendance-core-go/internal/repository/postgresql"
	"github.com/cmlabs-hris/attendance-core-go/internal/repository/sqlite"
	attendanceService "github.com/cmlabs-hris/attendance-core-go/internal/service/attendance"
	employeeService "github.com/cmlabs-hris/attendance-core-go/internal/service/employee"
	locationService "github.com/cmlabs-hris/attendance-core-go/internal/service/location"
	reportService "github.com/cmlabs-hris/attendance-core-go/internal/service/report"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	var (
		ledgerRepo   attendanceDomain.LedgerRepository
		employeeRepo employeeDomain.EmployeeRepository
		favoriteRepo locationDomain.FavoriteRepository
	)

	switch cfg.Storage.Driver {
	case "postgres":
		db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
		if err != nil {
			log.Fatal("Failed to connect to database: ", err)
		}
		ledgerRepo = postgresql.NewLedgerRepository(db)
		employeeRepo = postgresql.NewEmployeeRepository(db)
		favoriteRepo = postgresql.NewFavoriteRepository(db)
	case "sqlite":
		store, err := sqlite.New(cfg.Storage.SQLitePath)
		if err != nil {
			log.Fatal("Failed to open sqlite store: ", err)
		}
		ledgerRepo = sqlite.NewLedgerRepository(store)
		employeeRepo = sqlite.NewEmployeeRepository(store)
		favoriteRepo = sqlite.NewFavoriteRepository(store)
	case "memory":
		ledgerRepo = memory.NewLedgerRepository()
		employeeRepo = memory.NewEmployeeRepository()
		favoriteRepo = memory.NewFavoriteRepository()
	default:
		log.Fatal("Unsupported storage driver: ", cfg.Storage.Driver)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	appMetrics := metrics.New(registry)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiration)
	systemClock := clock.System()
	policy := cfg.Policy()

	attendanceSvc := attendanceService.NewAttendanceService(
		ledgerRepo,
		employeeRepo,
		favoriteRepo,
		systemClock,
		policy,
		appMetrics,
	)
	employeeSvc := employeeService.NewEmployeeService(employeeRepo)
	locationSvc := locationService.NewLocationService(favoriteRepo)
	reportSvc := reportService.NewReportService(ledgerRepo, employeeRepo, systemClock, policy)

	authHandler := appHTTP.NewAuthHandler(JWTService, cfg.Kiosk.KeyHash)
	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	employeeHandler := appHTTP.NewEmployeeHandler(employeeSvc)
	locationHandler := appHTTP.NewLocationHandler(locationSvc)
	reportHandler := appHTTP.NewReportHandler(reportSvc)

	router := appHTTP.NewRouter(
		cfg,
		JWTService,
		registry,
		authHandler,
		attendanceHandler,
		employeeHandler,
		locationHandler,
		reportHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
