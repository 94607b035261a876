// Command issue-token signs a storefront bearer token for the checkout API.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/micahbule/payments-via-paymongo-for-woo/internal/shared/config"
	"github.com/micahbule/payments-via-paymongo-for-woo/internal/utils/middleware"
)

func main() {
	clientID := flag.String("client", "woocommerce", "storefront client id (token subject)")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Auth.JWTSecret == "" {
		log.Fatal("auth.jwt_secret is not configured")
	}

	token, err := middleware.NewHMACValidator(cfg.Auth.JWTSecret, cfg.Auth.Issuer).IssueToken(*clientID, *ttl)
	if err != nil {
		log.Fatalf("Failed to issue token: %v", err)
	}
	fmt.Println(token)
}
