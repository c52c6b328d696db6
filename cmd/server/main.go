package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	quizbuilder "github.com/NobleSoftware-Backend/quiz-builder-docs"
	"github.com/NobleSoftware-Backend/quiz-builder-docs/store"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (YAML or JSON)")
	addr := flag.String("addr", "", "Listen address (overrides config)")
	flag.Parse()

	// Structured JSON logging.
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	cfg := quizbuilder.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = quizbuilder.LoadConfig(*configPath)
		if err != nil {
			slog.Error("loading config", "error", err)
			os.Exit(1)
		}
	}

	// Environment overrides.
	if v := os.Getenv("QUIZBUILDER_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("QUIZBUILDER_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("QUIZBUILDER_CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = v
	}
	if v := os.Getenv("QUIZBUILDER_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if *addr != "" {
		cfg.ListenAddr = *addr
	}

	dbPath, err := cfg.ResolveDBPath()
	if err != nil {
		slog.Error("resolving database path", "error", err)
		os.Exit(1)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		slog.Error("opening archive", "path", dbPath, "error", err)
		os.Exit(1)
	}
	defer st.Close()

	h := newHandler(st, cfg.MaxUploadMB)
	mux := http.NewServeMux()
	mux.HandleFunc("POST /compile", h.handleCompile)
	mux.HandleFunc("GET /quizzes", h.handleListQuizzes)
	mux.HandleFunc("GET /quizzes/{id}", h.handleGetQuiz)
	mux.HandleFunc("DELETE /quizzes/{id}", h.handleDeleteQuiz)
	mux.HandleFunc("GET /quizzes/{id}/bundle", h.handleBundle)
	mux.HandleFunc("GET /quizzes/{id}/preview", h.handlePreview)
	mux.HandleFunc("GET /quizzes/{id}/images/{filename}", h.handleImage)
	mux.HandleFunc("GET /health", h.handleHealth)

	srv := &http.Server{
		Addr: cfg.ListenAddr,
		Handler: chain(mux,
			recoveryMiddleware,
			corsMiddleware(cfg.CORSOrigins),
			authMiddleware(cfg.APIKey),
			logMiddleware,
		),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown on SIGTERM/SIGINT.
	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", cfg.ListenAddr, "db", dbPath)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-done
	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}
	slog.Info("server stopped")
}
