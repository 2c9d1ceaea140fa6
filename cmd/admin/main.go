// Command admin creates or resets the administrator account offline.
// There is no password reset over HTTP; this is the recovery path.
package main

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/gorm"

	"qrmenu/internal/auth"
	"qrmenu/internal/config"
	"qrmenu/internal/database"
)

func main() {
	var (
		username = flag.String("username", "admin", "administrator username")
		password = flag.String("password", "", "new password (random if omitted)")
		dbPath   = flag.String("db-path", "", "database file (defaults to DATABASE_PATH or db.sqlite3)")
	)
	flag.Parse()

	u := strings.TrimSpace(*username)
	if u == "" {
		log.Fatal("username must not be empty")
	}

	path := strings.TrimSpace(*dbPath)
	if path == "" {
		path = strings.TrimSpace(os.Getenv("DATABASE_PATH"))
	}
	if path == "" {
		path = "db.sqlite3"
	}

	db, err := database.InitDatabase(config.DatabaseConfig{Path: path})
	if err != nil {
		log.Fatalf("init database: %v", err)
	}

	if err := db.AutoMigrate(&database.User{}); err != nil {
		log.Fatalf("auto migrate: %v", err)
	}

	pw := *password
	generated := false
	if pw == "" {
		pw, err = generateRandomPassword(24)
		if err != nil {
			log.Fatalf("generate password: %v", err)
		}
		generated = true
	}

	// The hashing service is all we need here; session settings are unused.
	authService, err := auth.NewService("cli", time.Minute)
	if err != nil {
		log.Fatalf("init auth service: %v", err)
	}
	hashed, err := authService.HashPassword(pw)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	var existing database.User
	switch err := db.Where("username = ?", u).First(&existing).Error; {
	case err == nil:
		if err := db.Model(&existing).Update("password_hash", hashed).Error; err != nil {
			log.Fatalf("update user: %v", err)
		}
		fmt.Printf("password reset for user %q\n", u)
	case errors.Is(err, gorm.ErrRecordNotFound):
		user := database.User{Username: u, PasswordHash: hashed}
		if err := db.Create(&user).Error; err != nil {
			log.Fatalf("create user: %v", err)
		}
		fmt.Printf("created user %q\n", u)
	default:
		log.Fatalf("query user: %v", err)
	}

	if generated {
		fmt.Printf("generated password: %s\n", pw)
	}
}

func generateRandomPassword(bytesLen int) (string, error) {
	if bytesLen <= 0 {
		bytesLen = 24
	}
	buf := make([]byte, bytesLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
