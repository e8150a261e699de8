package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"

	"storemap/internal/adapters/storage"
	"storemap/internal/core/domain"
)

// rawRecord is the loose shape exported by the legacy directory dumps.
type rawRecord struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Address string  `json:"address"`
	City    string  `json:"city"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	PlaceID string  `json:"place_id"`
}

func main() {
	inFile := flag.String("in", "", "Path to a raw listing dump (JSON array)")
	outFile := flag.String("out", "seed.json", "Path to write the normalized seed file")
	dbPath := flag.String("db", "", "Optional: also persist the set as the baseline snapshot in this database")
	flag.Parse()

	if *inFile == "" {
		log.Fatal("-in is required")
	}

	log.Println("=== Seed Generator ===")
	log.Printf("Input: %s", *inFile)

	data, err := os.ReadFile(*inFile)
	if err != nil {
		log.Fatalf("Failed to read input: %v", err)
	}

	var records []rawRecord
	if err := json.Unmarshal(data, &records); err != nil {
		log.Fatalf("Failed to parse input: %v", err)
	}

	seed := make([]rawRecord, 0, len(records))
	skipped := 0
	for _, r := range records {
		r.Name = strings.TrimSpace(r.Name)
		r.Address = strings.TrimSpace(r.Address)
		r.City = strings.TrimSpace(r.City)
		r.PlaceID = strings.TrimSpace(r.PlaceID)

		if r.Name == "" && r.PlaceID == "" && (r.Lat == 0 || r.Lng == 0) {
			// No identity signal at all, not worth shipping.
			skipped++
			continue
		}
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		seed = append(seed, r)
	}

	out, err := json.MarshalIndent(seed, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode seed: %v", err)
	}
	if err := os.WriteFile(*outFile, out, 0644); err != nil {
		log.Fatalf("Failed to write %s: %v", *outFile, err)
	}
	log.Printf("✓ Wrote %d listings to %s (%d skipped)", len(seed), *outFile, skipped)

	if *dbPath == "" {
		return
	}

	store, err := storage.NewSQLiteAdapter(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer store.Close()

	listings := make([]domain.Listing, 0, len(seed))
	for _, r := range seed {
		listings = append(listings, domain.Listing{
			ID:        r.ID,
			Name:      r.Name,
			Address:   r.Address,
			City:      r.City,
			Latitude:  r.Lat,
			Longitude: r.Lng,
			PlaceID:   r.PlaceID,
			Source:    domain.SourceStatic,
		})
	}

	if err := store.SaveSnapshot(context.Background(), listings); err != nil {
		log.Fatalf("Failed to save snapshot: %v", err)
	}
	log.Printf("✓ Snapshot of %d listings saved to %s", len(listings), *dbPath)
}
