package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"

	"github.com/maxammann88/Sx-interfacing-app-sub001/internal/audit"
	"github.com/maxammann88/Sx-interfacing-app-sub001/internal/auth"
	"github.com/maxammann88/Sx-interfacing-app-sub001/internal/config"
	fixvarapp "github.com/maxammann88/Sx-interfacing-app-sub001/internal/fixvar/application"
	fixvarinterfaces "github.com/maxammann88/Sx-interfacing-app-sub001/internal/fixvar/interfaces"
	gdsdcfapp "github.com/maxammann88/Sx-interfacing-app-sub001/internal/gdsdcf/application"
	gdsdcf "github.com/maxammann88/Sx-interfacing-app-sub001/internal/gdsdcf/domain"
	gdsdcfrepo "github.com/maxammann88/Sx-interfacing-app-sub001/internal/gdsdcf/infrastructure/postgres"
	gdsdcfinterfaces "github.com/maxammann88/Sx-interfacing-app-sub001/internal/gdsdcf/interfaces"
	ledgerrepo "github.com/maxammann88/Sx-interfacing-app-sub001/internal/ledger/infrastructure/postgres"
	ledgerinterfaces "github.com/maxammann88/Sx-interfacing-app-sub001/internal/ledger/interfaces"
	masterdatarepo "github.com/maxammann88/Sx-interfacing-app-sub001/internal/masterdata/infrastructure/postgres"
	masterdatainterfaces "github.com/maxammann88/Sx-interfacing-app-sub001/internal/masterdata/interfaces"
	"github.com/maxammann88/Sx-interfacing-app-sub001/internal/observability/metrics"
	statementapp "github.com/maxammann88/Sx-interfacing-app-sub001/internal/statement/application"
	statementinterfaces "github.com/maxammann88/Sx-interfacing-app-sub001/internal/statement/interfaces"
)

func main() {
	_ = godotenv.Load()

	cfg := loadConfig()
	logger := log.New(os.Stdout, "", log.LstdFlags)

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("db open error: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatalf("db ping error: %v", err)
	}

	metrics.Init()

	engineCfg, err := config.Load()
	if err != nil {
		logger.Fatalf("engine config error: %v", err)
	}
	if len(engineCfg.FranchiseMandantCodes) == 0 {
		logger.Fatal("FRANCHISE_MANDANT_CODES or engine config franchise_mandant_codes is required")
	}

	auditRepo := audit.NewRepository(db)
	countryRepo := masterdatarepo.NewCountryRepository(db)
	ledgerRepo := ledgerrepo.NewLedgerRepository(db)
	billingRepo := ledgerrepo.NewBillingUploadRepository(db)
	gdsdcfRepo := gdsdcfrepo.NewRepository(db)

	statementService, err := statementapp.NewStatementService(countryRepo, ledgerRepo)
	if err != nil {
		logger.Fatalf("statement service error: %v", err)
	}
	statementHandler, err := statementinterfaces.NewStatementHandler(statementService, auditRepo, engineCfg.PaymentTermDays)
	if err != nil {
		logger.Fatalf("statement handler error: %v", err)
	}

	reconcilerService, err := fixvarapp.NewReconcilerService(countryRepo, ledgerRepo, billingRepo, engineCfg.ProgramCodes())
	if err != nil {
		logger.Fatalf("reconciler service error: %v", err)
	}
	reportHandler, err := fixvarinterfaces.NewReportHandler(reconcilerService, auditRepo)
	if err != nil {
		logger.Fatalf("report handler error: %v", err)
	}

	partners, err := engineCfg.GdsDcfPartners()
	if err != nil {
		logger.Fatalf("partner config error: %v", err)
	}
	validator, err := gdsdcf.NewValidator(partners, engineCfg.Channels, engineCfg.EligibleStatuses, engineCfg.FranchiseMandantCodes)
	if err != nil {
		logger.Fatalf("validator error: %v", err)
	}
	validationService, err := gdsdcfapp.NewValidationService(gdsdcfRepo, gdsdcfRepo, gdsdcfRepo, validator)
	if err != nil {
		logger.Fatalf("validation service error: %v", err)
	}
	validationHandler, err := gdsdcfinterfaces.NewValidationHandler(validationService, gdsdcfRepo, auditRepo)
	if err != nil {
		logger.Fatalf("validation handler error: %v", err)
	}

	uploadHandler, err := ledgerinterfaces.NewUploadHandler(ledgerRepo, billingRepo, auditRepo)
	if err != nil {
		logger.Fatalf("upload handler error: %v", err)
	}
	countryHandler, err := masterdatainterfaces.NewCountryHandler(countryRepo, auditRepo)
	if err != nil {
		logger.Fatalf("country handler error: %v", err)
	}

	if cfg.ValidationSchedule != "" {
		scheduler := cron.New()
		_, err := scheduler.AddFunc(cfg.ValidationSchedule, func() {
			period := time.Now().UTC().Format("200601")
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
			defer cancel()
			runID, results, err := validationService.Run(ctx, period)
			if err != nil {
				logger.Printf("scheduled validation error: period=%s err=%v", period, err)
				return
			}
			logger.Printf("scheduled validation done: period=%s run=%s reservations=%d", period, runID, len(results))
		})
		if err != nil {
			logger.Fatalf("validation schedule error: %v", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	router := mux.NewRouter()
	statementHandler.Register(router)
	reportHandler.Register(router)
	validationHandler.Register(router)
	uploadHandler.Register(router)
	countryHandler.Register(router)
	router.Handle("/metrics", promhttp.Handler())
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	policy := auth.NewDefaultPolicy([]string{"/healthz", "/metrics"}, nil)
	authMiddleware := auth.NewMiddleware([]byte(cfg.JWTSecret), policy)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      loggingMiddleware(authMiddleware.Wrap(router), logger),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
	logger.Printf("http listening on %s", cfg.HTTPAddr)
	logger.Fatal(server.ListenAndServe())
}

type appConfig struct {
	DatabaseURL        string
	HTTPAddr           string
	JWTSecret          string
	ValidationSchedule string
}

func loadConfig() appConfig {
	cfg := appConfig{
		DatabaseURL:        getenvDefault("DATABASE_URL", getenvDefault("PG_DSN", "")),
		HTTPAddr:           getenvDefault("HTTP_ADDR", ":8080"),
		JWTSecret:          getenvDefault("AUTH_JWT_SECRET", getenvDefault("JWT_SECRET", "")),
		ValidationSchedule: getenvDefault("VALIDATION_SCHEDULE", "0 2 * * *"),
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL or PG_DSN is required")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("AUTH_JWT_SECRET is required")
	}
	return cfg
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func loggingMiddleware(next http.Handler, logger *log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		resp := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(resp, r)
		logger.Printf("http %s %s %d %s", r.Method, r.URL.Path, resp.status, time.Since(start))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
