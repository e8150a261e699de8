package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"storemap/internal/core/ports"
	"storemap/internal/geo"
)

// ListingHandler serves the ranked listing read model.
type ListingHandler struct {
	Service ports.ListingService
}

// NewListingHandler creates a new ListingHandler.
func NewListingHandler(service ports.ListingService) *ListingHandler {
	return &ListingHandler{Service: service}
}

// HandleListings returns the current published ordering, nearest first.
func (h *ListingHandler) HandleListings(w http.ResponseWriter, r *http.Request) {
	result := h.Service.Result()
	status := h.Service.Status()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"listings":        result,
		"is_loading":      h.Service.IsLoading(),
		"origin":          status.Origin,
		"origin_fallback": status.OriginFallback,
	})
}

// HandleNearby ranks the current merged set against a caller-supplied origin.
func (h *ListingHandler) HandleNearby(w http.ResponseWriter, r *http.Request) {
	lat, errLat := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lng, errLng := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
	if errLat != nil || errLng != nil {
		http.Error(w, "lat and lng query parameters are required", http.StatusBadRequest)
		return
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		http.Error(w, "lat/lng out of range", http.StatusBadRequest)
		return
	}

	ranked := h.Service.RankFrom(geo.Location{Latitude: lat, Longitude: lng})

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit >= 0 && limit < len(ranked) {
			ranked = ranked[:limit]
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"listings": ranked,
	})
}

// HandleRefresh triggers an immediate refresh cycle.
func (h *ListingHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if h.Service.TriggerRefresh() {
		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte(`{"status":"refresh_triggered"}`))
		return
	}
	w.Write([]byte(`{"status":"refresh_in_progress"}`))
}

// HandleStatus reports refresh loop counters.
func (h *ListingHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.Service.Status())
}
