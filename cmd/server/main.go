package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"smsledger/internal/banks"
	"smsledger/internal/classify"
	"smsledger/internal/database"
	"smsledger/internal/fpcache"
	"smsledger/internal/handlers"
	"smsledger/internal/ingest"
	"smsledger/internal/logger"
	"smsledger/internal/version"
)

func main() {
	// Handle --version flag
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		fmt.Printf("smsledger %s (built %s, commit %s)\n",
			version.Version, version.BuildTime, version.GitCommit)
		os.Exit(0)
	}

	// Local .env is optional; real deployments set the environment directly.
	godotenv.Load()

	logger.Init()
	log := logger.Default()

	dbPath := os.Getenv("SMSLEDGER_DB_PATH")
	if dbPath == "" {
		dbPath = "./data/smsledger.db"
	}
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	db, err := database.Open(dbPath)
	if err != nil {
		log.Error("database_open_failed", "path", dbPath, "error", err.Error())
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Init(); err != nil {
		log.Error("database_init_failed", "error", err.Error())
		os.Exit(1)
	}

	// The registry and classifier are built once and shared read-only.
	registry := banks.NewRegistry()
	classifier := classify.New(registry)
	cache := fpcache.New(fpcache.DefaultCapacity)
	service := ingest.NewService(classifier, cache, db)

	worker := ingest.NewWorker(db, service, log)
	worker.Start()
	defer worker.Stop()

	h := handlers.New(db)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/messages", h.MessageEnqueue)
	mux.HandleFunc("GET /api/messages/{id}", h.MessageStatus)
	mux.HandleFunc("GET /api/transactions", h.TransactionsList)
	mux.HandleFunc("GET /api/transactions/stats", h.TransactionsStats)
	mux.HandleFunc("GET /api/version", h.APIVersion)

	handler := logger.HTTPMiddleware(mux)

	log.Info("server_starting", "port", port, "db", dbPath, "version", version.Version)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Error("server_failed", "error", err.Error())
		os.Exit(1)
	}
}
