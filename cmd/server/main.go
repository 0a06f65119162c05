// Package main is the entry point for the club server.
//
// Its job is deliberately small:
// 1. Load configuration (a local .env file, then real env vars)
// 2. Create the logger
// 3. Hand everything to internal/server and block until shutdown
//
// All actual logic lives in the internal packages, which keeps this file
// boring and the rest of the app testable without a process boundary.
package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/anakena/club-server/internal/server"
)

func main() {
	// A missing .env is fine — production sets real environment
	// variables instead of shipping a file.
	_ = godotenv.Load()

	production := os.Getenv("APP_ENV") == "production"

	level := slog.LevelDebug
	if production {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))

	port := 8080
	if portStr := os.Getenv("PORT"); portStr != "" {
		var err error
		port, err = strconv.Atoi(portStr)
		if err != nil {
			logger.Error("invalid PORT value", slog.String("value", portStr))
			os.Exit(1)
		}
	}

	dbPath := "data/club.db"
	if envDB := os.Getenv("DB_PATH"); envDB != "" {
		dbPath = envDB
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		logger.Error("failed to create database directory",
			slog.String("dir", filepath.Dir(dbPath)),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	// The signing secret has no default on purpose. A guessable secret
	// lets anyone mint admin sessions, so we refuse to start without
	// one. Generate with: openssl rand -hex 32
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	adminDomain := os.Getenv("ADMIN_EMAIL_DOMAIN")
	if adminDomain == "" {
		adminDomain = "@anakena.cl"
	}

	bcryptCost := 0
	if costStr := os.Getenv("BCRYPT_COST"); costStr != "" {
		var err error
		bcryptCost, err = strconv.Atoi(costStr)
		if err != nil {
			logger.Error("invalid BCRYPT_COST value", slog.String("value", costStr))
			os.Exit(1)
		}
	}

	allowedOrigins := []string{"http://localhost:5173", "http://localhost:3000"}
	if originsStr := os.Getenv("ALLOWED_ORIGINS"); originsStr != "" {
		allowedOrigins = nil
		for _, origin := range strings.Split(originsStr, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				allowedOrigins = append(allowedOrigins, origin)
			}
		}
	}

	cfg := server.Config{
		Port:             port,
		DBPath:           dbPath,
		JWTSecret:        jwtSecret,
		AdminEmailDomain: adminDomain,
		BcryptCost:       bcryptCost,
		SecureCookies:    production,
		AllowedOrigins:   allowedOrigins,
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start blocks until the server shuts down.
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
