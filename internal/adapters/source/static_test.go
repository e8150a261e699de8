package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storemap/internal/core/domain"
)

type fakeStore struct {
	snapshot []domain.Listing
	err      error
}

func (f *fakeStore) GetLiveListings(context.Context) ([]domain.Listing, error) { return nil, nil }
func (f *fakeStore) ReplaceLiveListings(context.Context, []domain.Listing) error {
	return nil
}
func (f *fakeStore) SaveSnapshot(context.Context, []domain.Listing) error { return nil }
func (f *fakeStore) LoadSnapshot(context.Context) ([]domain.Listing, error) {
	return f.snapshot, f.err
}
func (f *fakeStore) Close() error { return nil }

func TestStaticSource_EmbeddedSeed(t *testing.T) {
	s, err := NewStaticSource(context.Background(), "", nil, nil)
	require.NoError(t, err)

	listings, err := s.Fetch(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, listings)

	for _, l := range listings {
		assert.Equal(t, domain.SourceStatic, l.Source)
		assert.NotEqual(t, placeholderName, l.Name, "placeholder record must be filtered")
	}
}

func TestStaticSource_SeedFileOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"id":"x1","name":"Only Shop","address":"1 Main St","city":"Paris","lat":48.85,"lng":2.35,"place_id":""}
	]`), 0644))

	s, err := NewStaticSource(context.Background(), path, nil, nil)
	require.NoError(t, err)

	listings, err := s.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, "x1", listings[0].ID)
}

func TestStaticSource_SnapshotOverridesSeed(t *testing.T) {
	store := &fakeStore{snapshot: []domain.Listing{
		{ID: "snap1", Name: "Persisted Shop", City: "Paris"},
		{ID: "snap2", Name: placeholderName},
	}}

	s, err := NewStaticSource(context.Background(), "", store, nil)
	require.NoError(t, err)

	listings, err := s.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, listings, 1, "snapshot replaces seed, placeholder filtered")
	assert.Equal(t, "snap1", listings[0].ID)
}

func TestStaticSource_SnapshotErrorFallsBackToSeed(t *testing.T) {
	store := &fakeStore{err: errors.New("corrupt")}

	s, err := NewStaticSource(context.Background(), "", store, nil)
	require.NoError(t, err)

	listings, err := s.Fetch(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, listings)
}

func TestStaticSource_FetchReturnsIndependentCopies(t *testing.T) {
	s, err := NewStaticSource(context.Background(), "", nil, nil)
	require.NoError(t, err)

	first, _ := s.Fetch(context.Background())
	first[0].Name = "mutated"

	second, _ := s.Fetch(context.Background())
	assert.NotEqual(t, "mutated", second[0].Name)
}

func TestStaticSource_BadSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := NewStaticSource(context.Background(), path, nil, nil)
	assert.Error(t, err)
}
