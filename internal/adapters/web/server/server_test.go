package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storemap/internal/adapters/web/websocket"
	"storemap/internal/core/domain"
	"storemap/internal/core/ports"
	"storemap/internal/geo"
)

type stubService struct {
	result    []domain.RankedListing
	loading   bool
	triggered bool
}

func (s *stubService) Result() []domain.RankedListing { return s.result }
func (s *stubService) IsLoading() bool                { return s.loading }
func (s *stubService) TriggerRefresh() bool {
	if s.triggered {
		return false
	}
	s.triggered = true
	return true
}
func (s *stubService) RankFrom(origin geo.Location) []domain.RankedListing {
	out := make([]domain.RankedListing, len(s.result))
	copy(out, s.result)
	for i := range out {
		out[i].DistanceKm = geo.Haversine(origin, out[i].Location())
	}
	return out
}
func (s *stubService) Status() ports.RefreshStatus {
	return ports.RefreshStatus{
		Cycles:      3,
		LastRefresh: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Origin:      geo.Location{Latitude: 48.8566, Longitude: 2.3522},
		Listings:    len(s.result),
	}
}

func newTestServer(svc ports.ListingService) http.Handler {
	s := NewServer(":0", svc, websocket.NewWSManager())
	return SetupRoutes(s)
}

func TestHandleListings(t *testing.T) {
	svc := &stubService{result: []domain.RankedListing{
		{Listing: domain.Listing{ID: "l1", Name: "Near"}, DistanceKm: 1.2},
		{Listing: domain.Listing{ID: "l2", Name: "Far"}, DistanceKm: 40.1},
	}}
	handler := newTestServer(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/listings", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Listings  []domain.RankedListing `json:"listings"`
		IsLoading bool                   `json:"is_loading"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Listings, 2)
	assert.Equal(t, "l1", body.Listings[0].ID)
	assert.False(t, body.IsLoading)
}

func TestHandleNearby(t *testing.T) {
	svc := &stubService{result: []domain.RankedListing{
		{Listing: domain.Listing{ID: "lyon", Latitude: 45.7578, Longitude: 4.8320}},
	}}
	handler := newTestServer(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/listings/nearby?lat=48.8566&lng=2.3522", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Listings []domain.RankedListing `json:"listings"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Listings, 1)
	assert.InDelta(t, 392.0, body.Listings[0].DistanceKm, 2.0)
}

func TestHandleNearby_MissingParams(t *testing.T) {
	handler := newTestServer(&stubService{})

	req := httptest.NewRequest(http.MethodGet, "/api/listings/nearby", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleNearby_OutOfRange(t *testing.T) {
	handler := newTestServer(&stubService{})

	req := httptest.NewRequest(http.MethodGet, "/api/listings/nearby?lat=123&lng=0", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleNearby_Limit(t *testing.T) {
	svc := &stubService{result: []domain.RankedListing{
		{Listing: domain.Listing{ID: "a"}},
		{Listing: domain.Listing{ID: "b"}},
		{Listing: domain.Listing{ID: "c"}},
	}}
	handler := newTestServer(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/listings/nearby?lat=48.0&lng=2.0&limit=2", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var body struct {
		Listings []domain.RankedListing `json:"listings"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Listings, 2)
}

func TestHandleRefresh(t *testing.T) {
	svc := &stubService{}
	handler := newTestServer(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/refresh", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.True(t, svc.triggered)

	// A second trigger while one is pending reports in-progress.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/refresh", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "refresh_in_progress")
}

func TestHandleRefresh_GetNotAllowed(t *testing.T) {
	handler := newTestServer(&stubService{})

	req := httptest.NewRequest(http.MethodGet, "/api/refresh", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleStatus(t *testing.T) {
	handler := newTestServer(&stubService{})

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var status ports.RefreshStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, uint64(3), status.Cycles)
	assert.Equal(t, 48.8566, status.Origin.Latitude)
}

func TestHandleExportPDF(t *testing.T) {
	svc := &stubService{result: []domain.RankedListing{
		{Listing: domain.Listing{ID: "l1", Name: "Shop", City: "Paris"}, DistanceKm: 0.4},
	}}
	handler := newTestServer(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/export/pdf", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Greater(t, rec.Body.Len(), 500, "PDF payload should not be empty")
}

func TestHealthz(t *testing.T) {
	handler := newTestServer(&stubService{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
