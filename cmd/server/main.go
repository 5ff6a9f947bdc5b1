package main

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/GGamerE/SecureKYC/internal/audit"
	"github.com/GGamerE/SecureKYC/internal/authority"
	authoritystore "github.com/GGamerE/SecureKYC/internal/authority/store"
	"github.com/GGamerE/SecureKYC/internal/eligibility"
	eligibilitymetrics "github.com/GGamerE/SecureKYC/internal/eligibility/metrics"
	eligibilitystore "github.com/GGamerE/SecureKYC/internal/eligibility/store"
	"github.com/GGamerE/SecureKYC/internal/fhe/local"
	"github.com/GGamerE/SecureKYC/internal/identity"
	identitystore "github.com/GGamerE/SecureKYC/internal/identity/store"
	"github.com/GGamerE/SecureKYC/internal/jwtauth"
	"github.com/GGamerE/SecureKYC/internal/platform/config"
	"github.com/GGamerE/SecureKYC/internal/platform/httpserver"
	"github.com/GGamerE/SecureKYC/internal/platform/kafka/producer"
	"github.com/GGamerE/SecureKYC/internal/platform/logger"
	"github.com/GGamerE/SecureKYC/internal/platform/metrics"
	platformredis "github.com/GGamerE/SecureKYC/internal/platform/redis"
	"github.com/GGamerE/SecureKYC/internal/policy"
	policystore "github.com/GGamerE/SecureKYC/internal/policy/store"
	"github.com/GGamerE/SecureKYC/internal/proof"
	proofstore "github.com/GGamerE/SecureKYC/internal/proof/store"
	httptransport "github.com/GGamerE/SecureKYC/internal/transport/http"
	"github.com/GGamerE/SecureKYC/migrations"
	id "github.com/GGamerE/SecureKYC/pkg/domain"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	administrator, err := id.ParsePrincipal(cfg.Administrator)
	if err != nil {
		log.Error("SECUREKYC_ADMIN must be a valid principal address", "error", err)
		os.Exit(1)
	}

	engine, err := local.New(cfg.EngineID)
	if err != nil {
		log.Error("failed to initialize ciphertext engine", "error", err)
		os.Exit(1)
	}

	var (
		verifierStore authority.Store
		recordStore   identity.Store
		policyStore   policy.Store
		proofStore    proof.Store
	)
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := applyMigrations(context.Background(), db); err != nil {
			log.Error("failed to apply migrations", "error", err)
			os.Exit(1)
		}
		verifierStore = authoritystore.NewPostgres(db)
		recordStore = identitystore.NewPostgres(db)
		policyStore = policystore.NewPostgres(db)
		proofStore = proofstore.NewPostgres(db)
		log.Info("using postgres stores")
	} else {
		verifierStore = authoritystore.NewInMemoryStore()
		recordStore = identitystore.NewInMemoryStore()
		policyStore = policystore.NewInMemoryStore()
		proofStore = proofstore.NewInMemoryStore()
		log.Info("using in-memory stores")
	}

	var resultStore eligibility.Store
	redisClient, err := platformredis.New(cfg.Redis())
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		resultStore = eligibilitystore.NewRedis(redisClient.Client)
		log.Info("using redis result cache")
	} else {
		resultStore = eligibilitystore.NewInMemoryStore()
		log.Info("using in-memory result cache")
	}

	var publisher audit.Publisher
	if cfg.KafkaBrokers != "" {
		kafkaProducer, err := producer.New(producer.Config{
			Brokers:         cfg.KafkaBrokers,
			Acks:            "all",
			Retries:         3,
			DeliveryTimeout: 10 * time.Second,
		}, log)
		if err != nil {
			log.Error("failed to create kafka producer", "error", err)
			os.Exit(1)
		}
		defer kafkaProducer.Close()
		publisher = audit.NewKafkaPublisher(kafkaProducer, cfg.AuditTopic)
		log.Info("publishing audit events to kafka", "topic", cfg.AuditTopic)
	} else {
		publisher = audit.NewStorePublisher(audit.NewInMemoryStore())
		log.Info("keeping audit events in memory")
	}

	engineMetrics := metrics.New()
	evalMetrics := eligibilitymetrics.New()

	authoritySvc, err := authority.NewService(administrator, verifierStore, publisher, log, engineMetrics)
	if err != nil {
		log.Error("failed to build authority service", "error", err)
		os.Exit(1)
	}
	identitySvc, err := identity.NewService(recordStore, authoritySvc, engine, engine.Principal(), publisher, log, engineMetrics)
	if err != nil {
		log.Error("failed to build identity service", "error", err)
		os.Exit(1)
	}
	policySvc, err := policy.NewService(policyStore, authoritySvc, publisher, log, engineMetrics)
	if err != nil {
		log.Error("failed to build policy service", "error", err)
		os.Exit(1)
	}
	eligibilitySvc, err := eligibility.NewService(identitySvc, policySvc, engine, resultStore, publisher, log, evalMetrics)
	if err != nil {
		log.Error("failed to build eligibility service", "error", err)
		os.Exit(1)
	}
	proofSvc, err := proof.NewService(eligibilitySvc, engine, proofStore, publisher, log, engineMetrics)
	if err != nil {
		log.Error("failed to build proof service", "error", err)
		os.Exit(1)
	}

	jwtSvc := jwtauth.New(cfg.JWTSigningKey, "securekyc", "securekyc")

	router := httptransport.NewRouter(httptransport.Deps{
		Identity:    identitySvc,
		Authority:   authoritySvc,
		Policy:      policySvc,
		Eligibility: eligibilitySvc,
		Proof:       proofSvc,
		JWT:         jwtSvc,
		TokenTTL:    cfg.TokenTTL,
		Logger:      log,
	})
	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting securekyc engine", "addr", cfg.Addr, "engine_id", cfg.EngineID)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}

// applyMigrations executes the embedded *.up.sql files in lexical order.
func applyMigrations(ctx context.Context, db *sql.DB) error {
	entries, err := fs.ReadDir(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".up.sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	for _, file := range files {
		content, err := fs.ReadFile(migrations.FS, file)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", file, err)
		}
		if _, err := db.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("execute migration %s: %w", file, err)
		}
	}
	return nil
}
