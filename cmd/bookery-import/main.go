// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Command bookery-import copies users and bookings from a legacy MySQL
// booking database into a local Bookery database. Re-running it is safe:
// existing users and bookings are skipped.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"

	"github.com/olegiv/bookery/internal/importer"
	"github.com/olegiv/bookery/internal/store"
)

func envOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func main() {
	_ = godotenv.Load()

	host := flag.String("host", envOrDefault("BOOKERY_IMPORT_HOST", "localhost"), "MySQL host")
	port := flag.String("port", envOrDefault("BOOKERY_IMPORT_PORT", "3306"), "MySQL port")
	user := flag.String("user", os.Getenv("BOOKERY_IMPORT_USER"), "MySQL user")
	password := flag.String("password", os.Getenv("BOOKERY_IMPORT_PASSWORD"), "MySQL password")
	database := flag.String("database", os.Getenv("BOOKERY_IMPORT_DB"), "MySQL database name")
	prefix := flag.String("prefix", os.Getenv("BOOKERY_IMPORT_PREFIX"), "Table prefix (e.g. app_)")
	dbPath := flag.String("db", envOrDefault("BOOKERY_DB_PATH", "./data/bookery.db"), "Bookery SQLite database path")
	dryRun := flag.Bool("dry-run", false, "Report what would be imported without writing")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "bookery-import - import a legacy MySQL booking database\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if err := run(*host, *port, *user, *password, *database, *prefix, *dbPath, *dryRun, logger); err != nil {
		slog.Error("import failed", "error", err)
		os.Exit(1)
	}
}

func run(host, port, user, password, database, prefix, dbPath string, dryRun bool, logger *slog.Logger) error {
	if user == "" || database == "" {
		return fmt.Errorf("-user and -database are required")
	}

	dsnCfg := mysql.NewConfig()
	dsnCfg.User = user
	dsnCfg.Passwd = password
	dsnCfg.Net = "tcp"
	dsnCfg.Addr = host + ":" + port
	dsnCfg.DBName = database
	dsnCfg.ParseTime = true

	reader, err := importer.NewReader(dsnCfg.FormatDSN(), prefix)
	if err != nil {
		return err
	}
	defer func() { _ = reader.Close() }()

	ctx := context.Background()

	userCount, err := reader.CountUsers(ctx)
	if err != nil {
		return err
	}
	bookingCount, err := reader.CountBookings(ctx)
	if err != nil {
		return err
	}
	slog.Info("connected to legacy database",
		"host", host, "database", database, "users", userCount, "bookings", bookingCount)

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	db, err := store.NewDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening target database: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	result, err := importer.New(db, logger).Run(ctx, reader, importer.Options{DryRun: dryRun})
	if err != nil {
		return err
	}

	for _, msg := range result.Errors {
		slog.Warn("import error", "detail", msg)
	}

	fmt.Printf("Users:    %d imported, %d skipped\n", result.UsersImported, result.UsersSkipped)
	fmt.Printf("Bookings: %d imported, %d skipped\n", result.BookingsImported, result.BookingsSkipped)
	if dryRun {
		fmt.Println("Dry run: nothing was written.")
	}
	return nil
}
