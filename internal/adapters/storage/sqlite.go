package storage

import (
	"context"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"

	"storemap/internal/core/domain"
)

// Collections stored in the listings table.
const (
	collectionLive     = "live"
	collectionSnapshot = "snapshot"
)

// SQLiteAdapter implements ports.Storage using GORM and SQLite.
type SQLiteAdapter struct {
	db *gorm.DB
}

// ListingModel is the GORM model for listings. The same table holds the live
// set and the persisted baseline snapshot, discriminated by Collection.
type ListingModel struct {
	Key        uint   `gorm:"primaryKey;autoIncrement"`
	ListingID  string `gorm:"index"`
	Collection string `gorm:"index"`
	Name       string
	Address    string
	City       string
	Latitude   float64
	Longitude  float64
	PlaceID    string `gorm:"index"`
}

// NewSQLiteAdapter initializes the database and migrates schema.
func NewSQLiteAdapter(path string) (*SQLiteAdapter, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
		return nil, fmt.Errorf("failed to install tracing plugin: %w", err)
	}

	if err := db.AutoMigrate(&ListingModel{}); err != nil {
		return nil, err
	}

	db.Exec("CREATE INDEX IF NOT EXISTS idx_listings_collection_city ON listing_models(collection, city)")

	return &SQLiteAdapter{db: db}, nil
}

// GetLiveListings retrieves the current live listing set.
func (a *SQLiteAdapter) GetLiveListings(ctx context.Context) ([]domain.Listing, error) {
	return a.getCollection(ctx, collectionLive, domain.SourceLive)
}

// ReplaceLiveListings swaps the stored live set wholesale inside one
// transaction.
func (a *SQLiteAdapter) ReplaceLiveListings(ctx context.Context, listings []domain.Listing) error {
	return a.replaceCollection(ctx, collectionLive, listings)
}

// SaveSnapshot persists a baseline snapshot overriding the embedded seed on
// the next startup.
func (a *SQLiteAdapter) SaveSnapshot(ctx context.Context, listings []domain.Listing) error {
	return a.replaceCollection(ctx, collectionSnapshot, listings)
}

// LoadSnapshot returns the persisted baseline snapshot, empty if none saved.
func (a *SQLiteAdapter) LoadSnapshot(ctx context.Context) ([]domain.Listing, error) {
	return a.getCollection(ctx, collectionSnapshot, domain.SourceStatic)
}

// Close closes the underlying connection.
func (a *SQLiteAdapter) Close() error {
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (a *SQLiteAdapter) getCollection(ctx context.Context, collection string, source domain.Source) ([]domain.Listing, error) {
	var models []ListingModel
	if err := a.db.WithContext(ctx).Where("collection = ?", collection).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to load %s listings: %w", collection, err)
	}

	listings := make([]domain.Listing, 0, len(models))
	for _, m := range models {
		listings = append(listings, toDomain(m, source))
	}
	return listings, nil
}

func (a *SQLiteAdapter) replaceCollection(ctx context.Context, collection string, listings []domain.Listing) error {
	return a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("collection = ?", collection).Delete(&ListingModel{}).Error; err != nil {
			return fmt.Errorf("failed to clear %s listings: %w", collection, err)
		}
		if len(listings) == 0 {
			return nil
		}
		models := make([]ListingModel, 0, len(listings))
		for _, l := range listings {
			models = append(models, toModel(l, collection))
		}
		if err := tx.CreateInBatches(models, 200).Error; err != nil {
			return fmt.Errorf("failed to insert %s listings: %w", collection, err)
		}
		return nil
	})
}

func toModel(l domain.Listing, collection string) ListingModel {
	return ListingModel{
		ListingID:  l.ID,
		Collection: collection,
		Name:       l.Name,
		Address:    l.Address,
		City:       l.City,
		Latitude:   l.Latitude,
		Longitude:  l.Longitude,
		PlaceID:    l.PlaceID,
	}
}

func toDomain(m ListingModel, source domain.Source) domain.Listing {
	return domain.Listing{
		ID:        m.ListingID,
		Name:      m.Name,
		Address:   m.Address,
		City:      m.City,
		Latitude:  m.Latitude,
		Longitude: m.Longitude,
		PlaceID:   m.PlaceID,
		Source:    source,
	}
}
