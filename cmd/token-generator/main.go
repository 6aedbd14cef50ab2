// Command token-generator mints a bearer token for the configured
// LINGUA_AUTH_JWT_SECRET, for use against a server with authentication
// enabled.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingua-api/internal/config"
	"github.com/phrazzld/lingua-api/internal/service/auth"
)

func main() {
	subject := flag.String("subject", "", "token subject (default: a random UUID)")
	lifetime := flag.Duration("lifetime", 0, "token lifetime (default: auth.token_lifetime)")
	flag.Parse()

	token, err := generate(*subject, *lifetime)
	if err != nil {
		fmt.Fprintf(os.Stderr, "token-generator: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}

func generate(subject string, lifetime time.Duration) (string, error) {
	cfg, err := config.Load()
	if err != nil {
		return "", fmt.Errorf("failed to load configuration: %w", err)
	}
	if !cfg.Auth.Enabled() {
		return "", fmt.Errorf("auth.jwt_secret is not set")
	}

	authCfg := cfg.Auth
	if lifetime > 0 {
		authCfg.TokenLifetime = lifetime
	}
	if subject == "" {
		subject = uuid.NewString()
	}

	jwtService, err := auth.NewJWTService(authCfg)
	if err != nil {
		return "", err
	}
	return jwtService.GenerateToken(context.Background(), subject)
}
