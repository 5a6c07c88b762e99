package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/tatami/academy-backend/internal/access"
	"github.com/tatami/academy-backend/internal/config"
	"github.com/tatami/academy-backend/internal/database"
	"github.com/tatami/academy-backend/internal/logger"
	"github.com/tatami/academy-backend/internal/model"
	"github.com/tatami/academy-backend/internal/repository"
	"github.com/tatami/academy-backend/internal/service"
	"github.com/tatami/academy-backend/internal/validator"
	"golang.org/x/term"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	validator.Setup()

	ctx := context.Background()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	// The owner may already hold memoized access from an earlier request.
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Service ────────────────────────────────────────────
	academyRepo := repository.NewAcademyRepository(pool)
	bindingRepo := repository.NewUserAcademyRepository(pool)
	resolver := access.NewResolver(bindingRepo, academyRepo, access.ResolverConfig{
		AdminAllowList: cfg.AdminAllowList,
		LookupTimeout:  cfg.AccessLookupTimeout,
		Cache:          access.NewRedisCache(rdb, cfg.AccessCacheTTL, log),
	}, log)
	academyService := service.NewAcademyService(academyRepo, bindingRepo, resolver, log)

	// ─── CLI Input ─────────────────────────────────────────────────────
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Println("Reading academy fields from standard input")
	}
	reader := bufio.NewReader(os.Stdin)
	prompt := func(label string) string {
		fmt.Printf("Enter %s: ", label)
		v, _ := reader.ReadString('\n')
		return strings.TrimSpace(v)
	}

	fmt.Println("=== Provision New Academy ===")

	req := model.AcademyRequest{
		Name:         prompt("Academy Name"),
		OwnerName:    prompt("Owner Name"),
		CNPJ:         prompt("CNPJ"),
		Street:       prompt("Street"),
		Neighborhood: prompt("Neighborhood"),
		ZipCode:      prompt("Zip Code"),
		Phone:        prompt("Phone"),
		Email:        prompt("Email"),
		OwnerUserID:  strings.ToLower(prompt("Owner User ID (optional)")),
	}

	if fields := validator.Struct(&req); fields != nil {
		fmt.Println("Error: invalid academy")
		for field, msg := range fields {
			fmt.Printf("  %s: %s\n", field, msg)
		}
		os.Exit(1)
	}
	if req.OwnerUserID != "" {
		if _, err := uuid.Parse(req.OwnerUserID); err != nil {
			fmt.Println("Error: Owner User ID must be a UUID")
			os.Exit(1)
		}
	}

	// ─── Logic ─────────────────────────────────────────────────────────
	academy, err := academyService.Create(ctx, "", &req)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create academy")
	}

	fmt.Printf("\nSuccess! Academy '%s' created with ID: %s\n", academy.Name, academy.ID)
	if academy.UserID != nil {
		fmt.Printf("User %s is bound as %s\n", *academy.UserID, model.RoleAcademyOwner)
	}
}
