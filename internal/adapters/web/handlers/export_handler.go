package handlers

import (
	"log"
	"net/http"
	"strconv"

	"storemap/internal/adapters/reporting"
	"storemap/internal/core/ports"
)

const defaultReportLimit = 25

// ExportHandler serves PDF exports of the current ranked ordering.
type ExportHandler struct {
	Service  ports.ListingService
	Exporter *reporting.PDFExporter
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(service ports.ListingService, exporter *reporting.PDFExporter) *ExportHandler {
	return &ExportHandler{Service: service, Exporter: exporter}
}

// HandlePDF renders the nearby-stores report for the current origin.
func (h *ExportHandler) HandlePDF(w http.ResponseWriter, r *http.Request) {
	limit := defaultReportLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			limit = n
		}
	}

	status := h.Service.Status()
	data, err := h.Exporter.ExportNearby(status.Origin, h.Service.Result(), limit)
	if err != nil {
		log.Printf("PDF export failed: %v", err)
		http.Error(w, "Export failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="nearby-stores.pdf"`)
	w.Write(data)
}
