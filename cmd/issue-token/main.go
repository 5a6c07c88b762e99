// Command issue-token signs a development token shaped like the identity
// provider's, for local testing against the API.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tatami/academy-backend/internal/config"
	"github.com/tatami/academy-backend/internal/logger"
	"github.com/tatami/academy-backend/internal/model"
	"github.com/tatami/academy-backend/internal/service"
	"golang.org/x/term"
)

func main() {
	var (
		userID string
		email  string
		role   string
		ttl    time.Duration
		prompt bool
	)
	flag.StringVar(&userID, "user", "", "Subject user ID (random when empty)")
	flag.StringVar(&email, "email", "", "E-mail claim")
	flag.StringVar(&role, "role", "", "app_metadata.role claim (e.g. admin)")
	flag.DurationVar(&ttl, "ttl", time.Hour, "Token lifetime")
	flag.BoolVar(&prompt, "prompt-secret", false, "Read the signing secret from the terminal")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat).With().Str("component", "issue-token").Logger()

	if prompt {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			log.Fatal().Msg("-prompt-secret needs an interactive terminal")
		}
		fmt.Fprint(os.Stderr, "Enter JWT Secret: ")
		secret, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to read secret")
		}
		cfg.JWTSecret = strings.TrimSpace(string(secret))
	}
	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT secret is empty")
	}

	if userID == "" {
		userID = uuid.NewString()
	} else if _, err := uuid.Parse(userID); err != nil {
		log.Fatal().Err(err).Str("user", userID).Msg("User ID must be a UUID")
	}
	if ttl <= 0 {
		log.Fatal().Dur("ttl", ttl).Msg("TTL must be positive")
	}

	authService := service.NewAuthService(cfg)
	token, err := authService.GenerateToken(model.Identity{
		ID:      strings.ToLower(userID),
		Email:   email,
		RawRole: role,
	}, ttl)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to sign token")
	}

	log.Info().Str("user_id", userID).Str("role", role).Dur("ttl", ttl).Msg("Token issued")
	fmt.Println(token)
}
