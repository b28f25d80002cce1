package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"authgate/internal/audit"
	auditrepo "authgate/internal/audit/repository"
	"authgate/internal/config"
	"authgate/internal/credentials"
	credentialrepo "authgate/internal/credentials/repository"
	"authgate/internal/db"
	enrollmentservice "authgate/internal/enrollment/service"
	identityservice "authgate/internal/identity/service"
	"authgate/internal/security"
	"authgate/internal/server"
	"authgate/internal/server/middleware"
	sessionrepo "authgate/internal/session/repository"
	telemetryotel "authgate/internal/telemetry/otel"
	userrepo "authgate/internal/user/repository"
	"authgate/internal/verify/authy"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}
	if cfg.VerifyAPIKey == "" {
		log.Fatal("VERIFY_API_KEY is not set; 2FA flows need a verification provider key")
	}

	privateKey, err := security.ParsePrivateKey(cfg.JWTPrivateKey)
	if err != nil {
		log.Fatalf("JWT_PRIVATE_KEY: %v", err)
	}
	publicKey, err := security.ParsePublicKey(cfg.JWTPublicKey)
	if err != nil {
		log.Fatalf("JWT_PUBLIC_KEY: %v", err)
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	providers, err := telemetryotel.NewProviders(context.Background(), cfg.OTLPEndpoint, "authgate", cfg.OTLPInsecure)
	if err != nil {
		log.Fatalf("telemetry: %v", err)
	}
	providers.SetGlobal()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = providers.Shutdown(shutdownCtx)
	}()

	tokens := security.NewTokenProvider(privateKey, publicKey, cfg.JWTIssuer, cfg.JWTAudience, cfg.AccessTTL(), cfg.RefreshTTL())
	hasher := security.NewHasher(cfg.BcryptCost)
	provider := authy.NewClient(cfg.VerifyAPIKey, cfg.VerifyBaseURL)

	users := userrepo.NewPostgresRepository(conn)
	creds := credentialrepo.NewPostgresRepository(conn)
	sessions := sessionrepo.NewPostgresRepository(conn)
	auditLogs := auditrepo.NewPostgresRepository(conn)

	auditor := audit.NewLogger(auditLogs, middleware.ClientIP)
	emitter := telemetryotel.NewEventEmitter(providers.LoggerProvider)
	checker := credentials.NewVerifier(users, creds, hasher)
	authSvc := identityservice.NewAuthService(checker, sessions, provider, tokens, auditor, emitter, cfg.RefreshTTL())
	enrollmentSvc := enrollmentservice.NewService(users, provider, auditor)

	handler := server.New(server.Deps{
		Auth:         authSvc,
		Enrollment:   enrollmentSvc,
		Tokens:       tokens,
		HealthPinger: conn,
		Meter:        providers.MeterProvider.Meter("authgate/server"),
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("HTTP server listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	log.Println("HTTP server stopped")
}
