package http

import (
	"errors"
	"net/http"
	"strings"

	"fintrack/internal/chart"
	"fintrack/internal/export"
	"fintrack/internal/log"
)

// handleExportChart downloads one chart region as a PNG or single-page PDF.
func (s *Server) handleExportChart(w http.ResponseWriter, r *http.Request) {
	region := strings.TrimSpace(r.URL.Query().Get("region"))
	if region == "" {
		http.Error(w, "missing region parameter", http.StatusBadRequest)
		return
	}

	var format export.Format
	switch strings.ToLower(r.URL.Query().Get("format")) {
	case "", "png":
		format = export.FormatImage
	case "pdf":
		format = export.FormatDocument
	default:
		http.Error(w, "format must be png or pdf", http.StatusBadRequest)
		return
	}

	currency := s.store.DefaultCurrency()
	art, err := s.exporter.Export(r.Context(), region, export.Options{
		Filename:   region,
		Title:      chart.Title(region),
		Subtitle:   currency,
		Format:     format,
		Background: "#ffffff",
	})
	if err != nil {
		s.writeExportError(w, r, region, err)
		return
	}

	s.logger.InfoContext(r.Context(), "chart exported",
		log.FieldRegion, region,
		log.FieldFormat, string(format),
		"bytes", len(art.Data))
	serveArtifact(w, art)
}

// handleExportReport downloads the multi-chart document: category breakdown
// first, then the trend chart, one page each.
func (s *Server) handleExportReport(w http.ResponseWriter, r *http.Request) {
	currency := s.store.DefaultCurrency()
	pages := []export.Page{
		{RegionID: chart.RegionExpenseBreakdown, Title: chart.Title(chart.RegionExpenseBreakdown), Subtitle: currency},
		{RegionID: chart.RegionMonthlyTrends, Title: chart.Title(chart.RegionMonthlyTrends), Subtitle: currency},
	}

	art, err := s.exporter.ExportAll(r.Context(), pages, "financial-report")
	if err != nil {
		s.writeExportError(w, r, "report", err)
		return
	}

	s.logger.InfoContext(r.Context(), "report exported",
		log.FieldCount, len(pages), "bytes", len(art.Data))
	serveArtifact(w, art)
}

func (s *Server) writeExportError(w http.ResponseWriter, r *http.Request, region string, err error) {
	switch {
	case errors.Is(err, export.ErrInFlight):
		http.Error(w, "export already in progress for this chart", http.StatusConflict)
	case export.KindOf(err) == export.KindRegionNotFound:
		http.Error(w, "unknown chart region", http.StatusNotFound)
	case export.KindOf(err) == export.KindEmptyCapture:
		http.Error(w, "nothing to export for the current selection", http.StatusUnprocessableEntity)
	default:
		s.logger.ErrorContext(r.Context(), "export failed",
			log.FieldRegion, region, log.FieldError, err)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	s.logger.Warn("export rejected", log.FieldRegion, region, log.FieldError, err)
}

func serveArtifact(w http.ResponseWriter, art *export.Artifact) {
	w.Header().Set("Content-Type", art.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+art.Filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(art.Data)
}
