package etl

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/avainio/bikeviz-backend-go/internal/models"
	"github.com/avainio/bikeviz-backend-go/internal/repository"
)

// Pipeline runs the full ingest: fetch station coordinates, read trip
// CSVs, validate, enrich, aggregate, and write the result to the database.
type Pipeline struct {
	fetcher   *StationFetcher
	validator *Validator
	stations  *repository.StationRepository
	trips     *repository.TripRepository
}

// NewPipeline wires an ingest pipeline
func NewPipeline(fetcher *StationFetcher, stations *repository.StationRepository, trips *repository.TripRepository) *Pipeline {
	return &Pipeline{
		fetcher:   fetcher,
		validator: NewValidator(),
		stations:  stations,
		trips:     trips,
	}
}

// Run executes the pipeline over every CSV file in tripDir
func (p *Pipeline) Run(ctx context.Context, tripDir string) error {
	startedAt := time.Now()

	stations, err := p.fetcher.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("station fetch failed: %w", err)
	}
	log.Printf("[Pipeline] Fetched %d stations", len(stations))

	if err := p.stations.UpsertStations(stations); err != nil {
		return fmt.Errorf("station upsert failed: %w", err)
	}
	p.validator.SetStations(stations)

	files, err := ListCSVFiles(tripDir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no CSV files in %s", tripDir)
	}

	var allTrips []models.Trip
	total := 0

	for _, file := range files {
		trips, malformed, err := p.readFile(file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", file, err)
		}
		total += len(trips) + malformed
		if malformed > 0 {
			log.Printf("[Pipeline] %s: skipped %d malformed rows", file, malformed)
		}
		allTrips = append(allTrips, trips...)
	}

	valid, rejected := p.validator.Filter(allTrips)
	log.Printf("[Pipeline] Parsed %d trips, %d valid, %d rejected", total, len(valid), rejected)

	enriched := make([]models.EnrichedTrip, len(valid))
	for i := range valid {
		enriched[i] = Enrich(valid[i])
	}
	if err := p.trips.ReplaceTrips(enriched); err != nil {
		return fmt.Errorf("trip write failed: %w", err)
	}

	metrics := Aggregate(valid)
	if err := p.stations.ReplaceMetrics(metrics); err != nil {
		return fmt.Errorf("metric write failed: %w", err)
	}

	if err := p.stations.RecordIngestRun(tripDir, total, len(valid), len(metrics), startedAt); err != nil {
		return err
	}

	log.Printf("[Pipeline] Wrote %d trips and metrics for %d stations in %v", len(enriched), len(metrics), time.Since(startedAt))
	return nil
}

func (p *Pipeline) readFile(path string) ([]models.Trip, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	return ReadTrips(f)
}
