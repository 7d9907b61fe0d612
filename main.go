package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"

	"autoagenda/internal/agenda"
	"autoagenda/internal/assistant"
	"autoagenda/internal/config"
	"autoagenda/internal/env"
	"autoagenda/internal/googleclient"
	"autoagenda/internal/ledger"
	"autoagenda/middleware"
)

var logger *slog.Logger

func main() {
	console := flag.Bool("console", false, "run an interactive console session instead of the HTTP server")
	flag.Parse()

	if err := env.LoadFromFile(".env"); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	setupLogger(cfg.Mode)

	ctx := context.Background()
	services, err := googleclient.NewFromServiceAccount(ctx, cfg.ServiceAccountFile)
	if err != nil {
		logger.Error("Failed to initialize Google services", "error", err)
		os.Exit(1)
	}

	bookLedger := ledger.New(services.Sheets, cfg.SheetID, cfg.Timezone)
	bookCalendar := agenda.New(services.Calendar, cfg.CalendarID, cfg.Timezone)

	bot, err := assistant.New(ctx, cfg.GeminiAPIKey, assistant.NewToolbox(bookLedger, bookCalendar))
	if err != nil {
		logger.Error("Failed to initialize assistant", "error", err)
		os.Exit(1)
	}
	defer bot.Close()

	if *console {
		runConsole(bot)
		return
	}

	r := mux.NewRouter()
	setupRoutes(r, bot)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 30 * time.Second,
	}
	logger.Info("AutoAgenda is running", "addr", server.Addr, "mode", cfg.Mode)
	log.Fatal(server.ListenAndServe())
}

func setupLogger(mode string) {
	opts := &slog.HandlerOptions{
		AddSource: true,
		Level:     slog.LevelDebug,
	}
	if mode == "prod" {
		opts.Level = slog.LevelInfo
		logger = slog.New(slog.NewJSONHandler(os.Stdout, opts))
		return
	}
	logger = slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func setupRoutes(r *mux.Router, bot replier) {
	r.Use(middleware.HSTS)
	r.Use(middleware.SecurityHeaders)

	r.HandleFunc("/healthz", healthHandler).Methods("GET")

	// GET hands out the CSRF token the POST requires.
	chat := middleware.CSRFProtect(http.HandlerFunc(chatHandler(bot)))
	r.Handle("/chat", chat).Methods("GET", "POST")
}
