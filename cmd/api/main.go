package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	appJournal "trade-tracker/internal/application/journal"
	"trade-tracker/internal/application/ledger"
	"trade-tracker/internal/application/reports"
	"trade-tracker/internal/infra/memory"
	"trade-tracker/internal/infrastructure/config"
	"trade-tracker/internal/infrastructure/db"
	pgstore "trade-tracker/internal/infrastructure/persistence/postgres"
	sqlitestore "trade-tracker/internal/infrastructure/persistence/sqlite"
	httpapi "trade-tracker/internal/interface/http"
)

func main() {
	cfg, err := config.LoadFromFile("config.yaml")
	if err != nil {
		log.Fatalf("CRITICAL: load config failed: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("CRITICAL: invalid config: %v", err)
	}
	log.Printf("configuration loaded (HTTP_ADDR=%s, backend=%s)", cfg.HTTP.Addr, cfg.DB.Backend)

	var (
		repo   appJournal.Repository
		dbPool *sql.DB
	)
	switch cfg.DB.Backend {
	case config.BackendPostgres:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		pool, err := db.Connect(ctx, cfg.DB)
		cancel()
		if err != nil {
			log.Fatalf("CRITICAL: postgres connection failed: %v", err)
		}
		defer pool.Close()
		dbPool = pool
		repo = pgstore.NewRepo(pool)
		log.Printf("postgres connected")
	case config.BackendSQLite:
		store, err := sqlitestore.New(cfg.DB.Path)
		if err != nil {
			log.Fatalf("CRITICAL: open sqlite database %s failed: %v", cfg.DB.Path, err)
		}
		defer store.Close()
		dbPool = store.DB()
		repo = store
		log.Printf("sqlite database ready at %s", cfg.DB.Path)
	default:
		repo = memory.NewStore()
		log.Printf("running with in-memory store; data is lost on restart")
	}

	engine := ledger.New(ledger.Config{
		TargetRate:    cfg.Journal.TargetRate,
		TargetCap:     cfg.Journal.TargetCap,
		TrackingStart: cfg.Journal.TrackingStart,
	})
	journalSvc := appJournal.NewService(repo, engine, cfg.Journal.InitialBalance, cfg.Location())
	reportsUC := reports.NewUseCase(repo, repo, engine, cfg.Journal.InitialBalance)

	// 啟動時重算一次，讓帳本跟上最新的政策設定。
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	summaries, err := journalSvc.Recompute(ctx)
	cancel()
	if err != nil {
		log.Fatalf("CRITICAL: initial ledger rebuild failed: %v", err)
	}
	log.Printf("ledger rebuilt: %d daily rows", len(summaries))

	// 檢查 web 目錄是否存在
	if _, err := os.Stat("web"); os.IsNotExist(err) {
		log.Printf("warning: 'web' directory not found in current directory")
	}

	apiServer := httpapi.NewServer(journalSvc, reportsUC, dbPool)
	addr := cfg.HTTP.Addr
	log.Printf("starting HTTP server on %s", addr)
	if err := http.ListenAndServe(addr, apiServer.Handler()); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
