package main

import (
	"context"
	"flag"
	"log"

	"github.com/avainio/bikeviz-backend-go/internal/config"
	"github.com/avainio/bikeviz-backend-go/internal/database"
	"github.com/avainio/bikeviz-backend-go/internal/etl"
	"github.com/avainio/bikeviz-backend-go/internal/repository"
)

func main() {
	cfg := config.Load()

	tripDir := flag.String("trips", cfg.TripDataDir, "directory containing trip CSV files")
	flag.Parse()

	if err := database.Init(database.Config{Path: cfg.DBPath}); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer database.Close()

	stationRepo := repository.NewStationRepository(database.GetDB())
	tripRepo := repository.NewTripRepository(database.GetDB())
	fetcher := etl.NewStationFetcher(cfg.DigitransitURL, cfg.DigitransitKey)
	pipeline := etl.NewPipeline(fetcher, stationRepo, tripRepo)

	if err := pipeline.Run(context.Background(), *tripDir); err != nil {
		log.Fatal("Ingest failed:", err)
	}
}
