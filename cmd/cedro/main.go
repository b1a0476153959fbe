package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mteribeiro/cedro-bank/internal/app"
	"github.com/mteribeiro/cedro-bank/internal/bank"
	"github.com/mteribeiro/cedro-bank/internal/storage"
)

func main() {
	// Load configuration from environment
	cfg := loadConfig()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Pick the persistence backend
	store, cleanup, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer cleanup()

	// Load the branch snapshot, or bootstrap a fresh bank on first run
	b, err := loadBank(ctx, store, cfg)
	if err != nil {
		log.Fatalf("Failed to load bank state: %v", err)
	}

	a := app.New(b, store, os.Stdin, os.Stdout)
	if err := a.Run(ctx); err != nil {
		log.Fatalf("Session terminated: %v", err)
	}
}

// Config holds all configuration for the application
type Config struct {
	BankName    string
	BranchCode  string
	DataDir     string // directory for JSON snapshots
	DatabaseURL string // when set, PostgreSQL replaces the JSON store
}

// loadConfig reads configuration from environment variables
func loadConfig() Config {
	name := os.Getenv("BANK_NAME")
	if name == "" {
		name = "Cedro Bank"
	}

	branch := os.Getenv("BANK_BRANCH")
	if branch == "" {
		branch = "0001"
	}

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}

	return Config{
		BankName:    name,
		BranchCode:  branch,
		DataDir:     dataDir,
		DatabaseURL: os.Getenv("DATABASE_URL"),
	}
}

// openStore selects PostgreSQL when DATABASE_URL is set and the JSON file
// store otherwise. The returned cleanup releases backend resources.
func openStore(ctx context.Context, cfg Config) (storage.Store, func(), error) {
	if cfg.DatabaseURL == "" {
		js, err := storage.NewJSONStore(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("Using JSON store at %s", cfg.DataDir)
		return js, func() {}, nil
	}

	db, err := connectDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	ps := storage.NewPostgresStore(db)
	if err := ps.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("ensure schema: %w", err)
	}
	log.Println("Connected to database")
	return ps, db.Close, nil
}

// loadBank restores the branch from the store; a missing snapshot means a
// first run, so a fresh bank is created and saved.
func loadBank(ctx context.Context, store storage.Store, cfg Config) (*bank.Bank, error) {
	record, err := store.Load(ctx, cfg.BranchCode)
	if err == nil {
		log.Printf("Restored branch %s with %d clients", cfg.BranchCode, len(record.Clients))
		return bank.Restore(record)
	}
	if !errors.Is(err, storage.ErrBranchNotFound) {
		return nil, err
	}

	b, err := bank.New(cfg.BankName, cfg.BranchCode)
	if err != nil {
		return nil, err
	}
	if err := store.Save(ctx, b.Snapshot()); err != nil {
		return nil, fmt.Errorf("save initial snapshot: %w", err)
	}
	log.Printf("Bootstrapped %s (branch %s)", cfg.BankName, cfg.BranchCode)
	return b, nil
}

// connectDB creates a connection pool to PostgreSQL
func connectDB(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}
	return pool, nil
}
