// Command dev-token prints a bearer token for local development, signed
// with the configured AUTH_JWT_SECRET and issuer.
//
// Usage:
//
//	dev-token [--owner UUID] [--ttl 24h]
//
// A random owner is used when --owner is empty.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/watchlist-backend/internal/auth"
	"github.com/heartmarshall/watchlist-backend/internal/config"
)

func main() {
	ownerFlag := flag.String("owner", "", "owner UUID (random when empty)")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	ownerID := uuid.New()
	if *ownerFlag != "" {
		id, err := uuid.Parse(*ownerFlag)
		if err != nil {
			log.Fatalf("invalid --owner: %v", err)
		}
		ownerID = id
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	token, err := auth.NewTokenValidator(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.ClockSkew).IssueToken(ownerID, *ttl)
	if err != nil {
		log.Fatalf("issue token: %v", err)
	}

	fmt.Printf("owner: %s\ntoken: %s\n", ownerID, token)
}
