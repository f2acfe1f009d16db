package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/Vovarama1992/go-utils/httputil"
	"github.com/Vovarama1992/go-utils/logger"

	"github.com/storyteller-ai/audio_gateway/internal/alerts"
	"github.com/storyteller-ai/audio_gateway/internal/delivery"
	"github.com/storyteller-ai/audio_gateway/internal/domain"
	"github.com/storyteller-ai/audio_gateway/internal/infra"
	"github.com/storyteller-ai/audio_gateway/internal/ports"
	"github.com/storyteller-ai/audio_gateway/internal/speech"
	"github.com/storyteller-ai/audio_gateway/internal/voices"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

func main() {

	// =========================================================================
	// ENV / DB INIT
	// =========================================================================

	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("db ping failed: %v", err)
	}
	defer db.Close()

	baseLogger, _ := zap.NewProduction()
	defer baseLogger.Sync()
	zl := logger.NewZapLogger(baseLogger.Sugar())

	// =========================================================================
	// INFRASTRUCTURE
	// =========================================================================

	s3Client, err := infra.NewS3Client()
	if err != nil {
		log.Fatalf("failed to init s3: %v", err)
	}

	alertInfra := alerts.NewInfra()
	alertService := alerts.NewService(alertInfra)

	// =========================================================================
	// REPOSITORIES
	// =========================================================================

	voiceRepo := infra.NewVoiceRepo(db)
	projectRepo := infra.NewProjectRepo(db)
	usageRepo := infra.NewUsageRepo(db)
	var authRepo ports.AuthRepo = infra.NewAuthRepo(db)

	// =========================================================================
	// CLIENTS (remote API / local engine)
	// =========================================================================

	elevenClient := speech.NewElevenLabsClient()
	whisperLoader := speech.NewWhisperLoader()

	// =========================================================================
	// DOMAIN SERVICES
	// =========================================================================

	authService := domain.NewAuthService(authRepo, os.Getenv("AUTH_SECRET"))

	transcriber := speech.NewTranscriber(whisperLoader, elevenClient, alertService, zl)
	speechService := speech.NewService(
		elevenClient, // TTS relay
		transcriber,  // whisper + fallback
	)

	voiceService := voices.NewService(
		voiceRepo,
		projectRepo,
		usageRepo,
		elevenClient,
		s3Client,
		alertService,
		zl,
	)

	// =========================================================================
	// HTTP ROUTER
	// =========================================================================

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	// HANDLERS
	speechHandler := delivery.NewSpeechHandler(speechService, zl)
	voiceHandler := delivery.NewVoiceHandler(voiceService, zl)
	authHandler := delivery.NewAuthHandler(authService)

	// ROUTES
	delivery.RegisterRoutes(
		r,
		speechHandler,
		voiceHandler,
		authHandler,
		authService,
	)

	r.With(httputil.RecoverMiddleware).Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(200)
		w.Write([]byte("pong"))
	})

	// =========================================================================
	// START SERVER
	// =========================================================================

	addr := ":" + port
	zl.Log(logger.LogEntry{
		Level:   "info",
		Message: "listening at " + addr,
		Service: "audio_gateway",
	})

	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
