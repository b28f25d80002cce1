// seed inserts development sample data for local testing.
// Idempotent: skips inserts if the dev user (alice) already exists.
package main

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"authgate/internal/config"
	credentialdomain "authgate/internal/credentials/domain"
	credentialrepo "authgate/internal/credentials/repository"
	"authgate/internal/db"
	"authgate/internal/security"
	userdomain "authgate/internal/user/domain"
	userrepo "authgate/internal/user/repository"
)

const (
	devPassword = "correct-pw"
	aliceID     = "dev-user-001"
	bobID       = "dev-user-002"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	ctx := context.Background()
	users := userrepo.NewPostgresRepository(conn)
	creds := credentialrepo.NewPostgresRepository(conn)

	existing, err := users.GetByUsername(ctx, "alice")
	if err != nil {
		log.Fatalf("seed: %v", err)
	}
	if existing != nil {
		log.Println("seed: dev users already present, nothing to do")
		return
	}

	hasher := security.NewHasher(cfg.BcryptCost)
	hash, err := hasher.Hash([]byte(devPassword))
	if err != nil {
		log.Fatalf("seed: hash password: %v", err)
	}

	now := time.Now().UTC()
	seedUsers := []*userdomain.User{
		{ID: aliceID, Username: "alice", Email: "alice@example.com", Status: userdomain.UserStatusActive, CreatedAt: now, UpdatedAt: now},
		{ID: bobID, Username: "bob", Email: "bob@example.com", Status: userdomain.UserStatusActive, CreatedAt: now, UpdatedAt: now},
	}
	for _, u := range seedUsers {
		if err := users.Create(ctx, u); err != nil {
			log.Fatalf("seed: create user %s: %v", u.Username, err)
		}
		cred := &credentialdomain.Credential{
			ID:           uuid.New().String(),
			UserID:       u.ID,
			PasswordHash: hash,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := creds.Create(ctx, cred); err != nil {
			log.Fatalf("seed: create credential for %s: %v", u.Username, err)
		}
		log.Printf("seed: created user %s (password %q)", u.Username, devPassword)
	}
	log.Println("seed: done; enroll a phone via POST /api/2fa/phone-verify to enable step-up login")
}
