package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"eventful/internal/auth"
	"eventful/internal/handler"
	"eventful/internal/service"
	"eventful/internal/storage/sqlite"
	"eventful/pkg/logging"
)

const defaultTokenTTL = 24 * time.Hour

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logging.Setup()

	port := getEnv("PORT", "8080")
	dbPath := getEnv("DB_PATH", "./data/eventful.db")
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		slog.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	tokenTTL := defaultTokenTTL
	if raw := os.Getenv("TOKEN_TTL"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			slog.Error("Invalid TOKEN_TTL", "value", raw, "error", err)
			os.Exit(1)
		}
		tokenTTL = parsed
	}

	store, err := sqlite.New(dbPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", dbPath)

	jwtManager := auth.NewJWTManager(jwtSecret, tokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store)

	// The schedule and vote services must share one lock table so that
	// concurrent creations against the same event serialize their
	// overlap checks.
	locks := service.NewEventLocks()

	handlers := handler.Handlers{
		Auth:      handler.NewAuthHandler(authenticator, jwtManager),
		Groups:    handler.NewGroupHandler(service.NewGroupService(store)),
		Events:    handler.NewEventHandler(service.NewEventService(store)),
		Schedules: handler.NewScheduleHandler(service.NewScheduleService(store, locks)),
		Votes:     handler.NewVoteHandler(service.NewVoteService(store, locks)),
	}

	router := handler.NewRouter(handlers, jwtManager)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{getEnv("CORS_ORIGIN", "*")},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
	}).Handler(router)

	addr := fmt.Sprintf(":%s", port)
	slog.Info("Server starting", "address", addr)
	if err := http.ListenAndServe(addr, corsHandler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
