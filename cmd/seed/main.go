// seed inserts the development accounts for local testing.
// Idempotent: phones that already exist are skipped.
package main

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"messenger/backend/internal/account/domain"
	"messenger/backend/internal/account/repository"
	"messenger/backend/internal/config"
	"messenger/backend/internal/db"
	"messenger/backend/internal/security"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	if cfg.DatabaseURL == "" {
		log.Fatal().Msg("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db open")
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	accounts := repository.NewPostgresRepository(conn)
	hasher := security.NewHasher(cfg.BcryptCost)

	for _, phone := range cfg.SeedPhoneList() {
		existing, err := accounts.GetByPhone(ctx, phone)
		if err != nil {
			log.Fatal().Err(err).Str("phone", phone).Msg("lookup")
		}
		if existing != nil {
			log.Info().Str("phone", phone).Msg("already seeded, skipping")
			continue
		}
		hash, err := hasher.Hash([]byte(cfg.SeedCode))
		if err != nil {
			log.Fatal().Err(err).Msg("hash code")
		}
		acc := &domain.Account{Phone: phone, CodeHash: hash, CreatedAt: time.Now().UTC()}
		if err := accounts.Create(ctx, acc); err != nil {
			log.Fatal().Err(err).Str("phone", phone).Msg("create account")
		}
		log.Info().Str("phone", phone).Msg("seeded account")
	}
}
