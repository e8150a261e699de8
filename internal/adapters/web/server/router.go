package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes wires every endpoint of the read model.
func SetupRoutes(s *Server) http.Handler {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/listings", s.ListingHandler.HandleListings).Methods(http.MethodGet)
	api.HandleFunc("/listings/nearby", s.ListingHandler.HandleNearby).Methods(http.MethodGet)
	api.HandleFunc("/refresh", s.ListingHandler.HandleRefresh).Methods(http.MethodPost)
	api.HandleFunc("/status", s.ListingHandler.HandleStatus).Methods(http.MethodGet)
	api.HandleFunc("/export/pdf", s.ExportHandler.HandlePDF).Methods(http.MethodGet)

	r.HandleFunc("/ws", s.WSManager.HandleWebSocket)

	r.Handle("/metrics", promhttp.Handler())

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)

	return r
}
