package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	database "github.com/FACorreiaa/go-trip-itineraries/app/db"
	"github.com/FACorreiaa/go-trip-itineraries/config"
	"github.com/FACorreiaa/go-trip-itineraries/internal/types"
)

// Imports catalog rows from a JSON file into tourist_spots. The API serves
// the catalog read-only, so this is how new spots get in outside of the
// migration seed. Rows already present (same name and location) are skipped,
// which makes re-runs safe.
//
// Usage: go run scripts/seed_spots.go -file spots.json

var inputFile = flag.String("file", "spots.json", "path to a JSON array of tourist spots")

func main() {
	flag.Parse()
	ctx := context.Background()

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	dbConfig, err := database.NewDatabaseConfig(&cfg, logger)
	if err != nil {
		logger.Error("Failed to generate database config", slog.Any("error", err))
		os.Exit(1)
	}

	dbpool, err := pgxpool.New(ctx, dbConfig.ConnectionURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbpool.Close()

	if err := dbpool.Ping(ctx); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Connected to database successfully")

	spots, err := loadSpots(*inputFile)
	if err != nil {
		log.Fatalf("Failed to load spots from %s: %v", *inputFile, err)
	}
	logger.Info("Loaded spot records", slog.String("file", *inputFile), slog.Int("count", len(spots)))

	inserted, skipped := 0, 0
	for i, spot := range spots {
		if err := validateSpot(spot); err != nil {
			log.Fatalf("Record %d is invalid: %v", i, err)
		}

		exists, err := spotExists(ctx, dbpool, spot.Name, spot.Location)
		if err != nil {
			log.Fatalf("Failed to check for existing spot %q: %v", spot.Name, err)
		}
		if exists {
			logger.Debug("Spot already present, skipping", slog.String("name", spot.Name))
			skipped++
			continue
		}

		if err := insertSpot(ctx, dbpool, spot); err != nil {
			log.Fatalf("Failed to insert spot %q: %v", spot.Name, err)
		}
		inserted++
	}

	logger.Info("Seed finished",
		slog.Int("inserted", inserted),
		slog.Int("skipped", skipped))
}

func loadSpots(path string) ([]types.TouristSpot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var spots []types.TouristSpot
	if err := json.Unmarshal(data, &spots); err != nil {
		return nil, fmt.Errorf("parse JSON: %w", err)
	}
	return spots, nil
}

func validateSpot(spot types.TouristSpot) error {
	if spot.Name == "" {
		return fmt.Errorf("name is required")
	}
	if spot.Location == "" {
		return fmt.Errorf("location is required")
	}
	if spot.Rating != nil && (*spot.Rating < 0 || *spot.Rating > 5) {
		return fmt.Errorf("rating %.2f is outside 0-5", *spot.Rating)
	}
	return nil
}

func spotExists(ctx context.Context, dbpool *pgxpool.Pool, name, location string) (bool, error) {
	var exists bool
	err := dbpool.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM tourist_spots WHERE name = $1 AND location = $2)",
		name, location).Scan(&exists)
	return exists, err
}

func insertSpot(ctx context.Context, dbpool *pgxpool.Pool, spot types.TouristSpot) error {
	query := `
        INSERT INTO tourist_spots
            (name, description, location, municipality, categories, image_url,
             latitude, longitude, rating, budget_level, scenery_types, spot_types, is_hidden_gem)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := dbpool.Exec(ctx, query,
		spot.Name,
		spot.Description,
		spot.Location,
		spot.Municipality,
		spot.Categories,
		spot.ImageURL,
		spot.Latitude,
		spot.Longitude,
		spot.Rating,
		spot.BudgetLevel,
		spot.SceneryTypes,
		spot.SpotTypes,
		spot.IsHiddenGem,
	)
	return err
}
