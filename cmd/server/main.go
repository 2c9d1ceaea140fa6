package main

import (
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"

	"gorm.io/gorm"

	"qrmenu/internal/api"
	"qrmenu/internal/auth"
	"qrmenu/internal/config"
	"qrmenu/internal/database"
	"qrmenu/internal/storage"
)

func main() {
	cfg := config.MustLoad()
	log.Printf("server bootstrapped with db=%s media=%s default_route=%s",
		cfg.Database.Path,
		cfg.Media.Dir,
		cfg.Display.DefaultRoute,
	)

	db, err := database.InitDatabase(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	log.Printf("database connection ready")

	if err := database.Migrate(db); err != nil {
		log.Fatalf("auto migrate: %v", err)
	}
	log.Printf("database migrated")

	authService, err := auth.NewService(cfg.Session.Secret, cfg.Session.TTL())
	if err != nil {
		log.Fatalf("init auth service: %v", err)
	}

	if err := seedAdmin(db, authService, cfg.Admin); err != nil {
		log.Fatalf("seed admin user: %v", err)
	}

	media, err := storage.NewMediaStore(cfg.Media.Dir)
	if err != nil {
		log.Fatalf("init media store: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	address := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("server listening on %s", address)

	router := api.NewRouter(cfg, logger)
	api.RegisterRoutes(router, db, authService, media, cfg.Display, logger)

	if err := router.Run(address); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}

// seedAdmin creates the administrator account on first startup. An
// existing account is left untouched; use cmd/admin to reset it.
func seedAdmin(db *gorm.DB, authService *auth.Service, cfg config.AdminConfig) error {
	var existing database.User
	switch err := db.Where("username = ?", cfg.Username).First(&existing).Error; {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		return fmt.Errorf("query admin user: %w", err)
	}

	hashed, err := authService.HashPassword(cfg.Password)
	if err != nil {
		return err
	}

	seeded := database.User{Username: cfg.Username, PasswordHash: hashed}
	if err := db.Create(&seeded).Error; err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}
	log.Printf("seeded admin user %q", cfg.Username)
	return nil
}
