package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"storemap/internal/adapters/reporting"
	"storemap/internal/adapters/web/handlers"
	"storemap/internal/adapters/web/websocket"
	"storemap/internal/core/ports"
)

// Server handles HTTP and WebSocket connections.
type Server struct {
	Addr           string
	Service        ports.ListingService
	WSManager      *websocket.WSManager
	ListingHandler *handlers.ListingHandler
	ExportHandler  *handlers.ExportHandler
	srv            *http.Server
}

// NewServer creates a new web server.
func NewServer(addr string, service ports.ListingService, wsManager *websocket.WSManager) *Server {
	return &Server{
		Addr:           addr,
		Service:        service,
		WSManager:      wsManager,
		ListingHandler: handlers.NewListingHandler(service),
		ExportHandler:  handlers.NewExportHandler(service, reporting.NewPDFExporter()),
	}
}

// Run starts the server and blocks until ctx is cancelled or the listener
// fails.
func (s *Server) Run(ctx context.Context) error {
	handler := SetupRoutes(s)

	// Instrument with OpenTelemetry
	instrumentedHandler := otelhttp.NewHandler(handler, "storemap-server")

	s.srv = &http.Server{
		Addr:              s.Addr,
		Handler:           instrumentedHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful Shutdown implementation
	go func() {
		<-ctx.Done()
		log.Println("Web Server shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Web Server shutdown error: %v", err)
		}
	}()

	log.Printf("Web server listening on %s", s.Addr)
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
