package main

import (
	"flag"
	"log"
	"os"

	"sku-pulse/internal/config"
	"sku-pulse/internal/database"
	"sku-pulse/internal/models"
	"sku-pulse/internal/services"

	"github.com/joho/godotenv"
)

var (
	dbSource = flag.String("db", "", "sqlite file or mysql dsn (defaults to DATABASE_SOURCE)")
	days     = flag.Int("days", 0, "days of history to generate (defaults to SEED_DAYS)")
	skus     = flag.Int("skus", 0, "number of SKUs to generate (defaults to SEED_SKUS)")
	seed     = flag.Int64("seed", 0, "random seed (defaults to SEED_VALUE)")
	csvFile  = flag.String("csv", "", "seed from a csv file instead of generating")
)

func main() {
	flag.Parse()

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()
	if *dbSource == "" {
		*dbSource = cfg.DatabaseSource
	}
	if *days <= 0 {
		*days = cfg.SeedDays
	}
	if *skus <= 0 {
		*skus = cfg.SeedSKUs
	}
	if *seed == 0 {
		*seed = cfg.SeedValue
	}

	db, err := database.Initialize(*dbSource)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	var rows []models.MetricRow
	if *csvFile != "" {
		f, err := os.Open(*csvFile)
		if err != nil {
			log.Fatalf("Failed to open %s: %v", *csvFile, err)
		}
		rows, err = services.ParseMetricsCSV(f)
		f.Close()
		if err != nil {
			log.Fatalf("Failed to parse %s: %v", *csvFile, err)
		}
		log.Printf("Parsed %d rows from %s", len(rows), *csvFile)
	} else {
		rows = services.GenerateSampleRows(*days, *skus, *seed)
		log.Printf("Generated %d rows (%d days x %d SKUs, seed %d)", len(rows), *days, *skus, *seed)
	}

	if err := services.NewMetricStore(db).Seed(rows); err != nil {
		log.Fatalf("Seed failed: %v", err)
	}
	log.Printf("Store seeded with %d rows", len(rows))
}
