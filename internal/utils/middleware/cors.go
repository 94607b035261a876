package middleware

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// storefrontPreflightAge bounds how long browsers cache a checkout preflight.
const storefrontPreflightAge = 12 * time.Hour

// StorefrontCORS allows the storefront checkout pages to call the checkout
// API from the browser. With no origins every origin is allowed. Cookies are
// never sent.
func StorefrontCORS(origins ...string) gin.HandlerFunc {
	return cors.New(storefrontCORSConfig(origins))
}

func storefrontCORSConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", RequestIDHeader, IdempotencyKeyHeader},
		ExposeHeaders: []string{"Content-Length", RequestIDHeader},
		MaxAge:        storefrontPreflightAge,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
