package reporting

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"storemap/internal/core/domain"
	"storemap/internal/geo"
)

// PDFExporter renders listing reports to PDF format.
type PDFExporter struct{}

// NewPDFExporter creates a new PDF exporter instance.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// ExportNearby generates a "nearby stores" report: the given ranked
// listings, nearest first, with the origin they were ranked from.
func (e *PDFExporter) ExportNearby(origin geo.Location, listings []domain.RankedListing, limit int) ([]byte, error) {
	if limit > 0 && len(listings) > limit {
		listings = listings[:limit]
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	e.addHeader(pdf, origin, len(listings))
	e.addTable(pdf, tr, listings)
	e.addFooter(pdf)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *PDFExporter) addHeader(pdf *gofpdf.Fpdf, origin geo.Location, count int) {
	pdf.SetFont("Arial", "B", 24)
	pdf.SetTextColor(0, 102, 51)
	pdf.CellFormat(0, 15, "Nearby Stores", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated: %s", time.Now().Format("2006-01-02 15:04")), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Origin: %.5f, %.5f", origin.Latitude, origin.Longitude), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Listings: %d", count), "", 1, "L", false, 0, "")
	pdf.Ln(4)
}

func (e *PDFExporter) addTable(pdf *gofpdf.Fpdf, tr func(string) string, listings []domain.RankedListing) {
	// Header row
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(230, 240, 230)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(70, 8, "Name", "1", 0, "L", true, 0, "")
	pdf.CellFormat(60, 8, "Address", "1", 0, "L", true, 0, "")
	pdf.CellFormat(30, 8, "City", "1", 0, "L", true, 0, "")
	pdf.CellFormat(30, 8, "Distance", "1", 1, "R", true, 0, "")

	pdf.SetFont("Arial", "", 9)
	for _, l := range listings {
		pdf.CellFormat(70, 7, tr(truncate(l.Name, 40)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 7, tr(truncate(l.Address, 34)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, tr(truncate(l.City, 16)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, fmt.Sprintf("%.1f km", l.DistanceKm), "1", 1, "R", false, 0, "")
	}
}

func (e *PDFExporter) addFooter(pdf *gofpdf.Fpdf) {
	pdf.Ln(6)
	pdf.SetFont("Arial", "I", 8)
	pdf.SetTextColor(150, 150, 150)
	pdf.CellFormat(0, 5, "Distances are great-circle estimates.", "", 1, "L", false, 0, "")
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "..."
}
