package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/megasena-sim/internal/draws"
	"github.com/stitts-dev/megasena-sim/pkg/config"
	"github.com/stitts-dev/megasena-sim/pkg/database"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: migrate [up|down|import <file.xlsx>|dump <file.xlsx>]")
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		logrus.Fatal("DATABASE_URL is required")
	}

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	repo := draws.NewRepository(db)
	opts := draws.ParseOptions{Sheet: cfg.DrawSheet, HeaderRows: cfg.DrawHeaderRows, Logger: logrus.StandardLogger()}

	command := os.Args[1]

	switch command {
	case "up":
		if err := runMigrations(repo); err != nil {
			logrus.Fatalf("Failed to run migrations: %v", err)
		}
		logrus.Info("Migrations completed successfully")

	case "down":
		if err := repo.DropTables(); err != nil {
			logrus.Fatalf("Failed to drop tables: %v", err)
		}
		logrus.Info("Tables dropped successfully")

	case "import":
		path := argPath()
		if err := runMigrations(repo); err != nil {
			logrus.Fatalf("Failed to run migrations: %v", err)
		}
		n, err := importWorkbook(repo, path, opts)
		if err != nil {
			logrus.Fatalf("Failed to import %s: %v", path, err)
		}
		logrus.WithField("draws", n).Infof("Imported %s", path)

	case "dump":
		path := argPath()
		n, err := dumpWorkbook(repo, path, opts)
		if err != nil {
			logrus.Fatalf("Failed to dump archive: %v", err)
		}
		logrus.WithField("draws", n).Infof("Wrote %s", path)

	default:
		log.Fatalf("Unknown command: %s", command)
	}
}

func argPath() string {
	if len(os.Args) < 3 {
		log.Fatalf("Usage: migrate %s <file.xlsx>", os.Args[1])
	}
	return os.Args[2]
}

func runMigrations(repo *draws.Repository) error {
	if err := repo.AutoMigrate(); err != nil {
		return fmt.Errorf("failed to migrate models: %w", err)
	}
	return nil
}

func importWorkbook(repo *draws.Repository, path string, opts draws.ParseOptions) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	records, report, err := draws.ParseWorkbook(f, opts)
	if err != nil {
		return 0, err
	}
	logrus.WithFields(logrus.Fields{
		"rows":    report.Rows,
		"loaded":  report.Loaded,
		"dropped": report.Dropped,
	}).Info("Workbook parsed")

	return repo.Upsert(context.Background(), records)
}

func dumpWorkbook(repo *draws.Repository, path string, opts draws.ParseOptions) (int, error) {
	records, err := repo.All(context.Background())
	if err != nil {
		return 0, err
	}
	buf, err := draws.WriteWorkbook(records, opts)
	if err != nil {
		return 0, err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return 0, err
	}
	return len(records), nil
}
