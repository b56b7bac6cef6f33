package handler

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/kislikjeka/warungku/internal/module/report"
	apperr "github.com/kislikjeka/warungku/internal/shared/errors"
	"github.com/kislikjeka/warungku/pkg/logger"
)

// ReportServiceInterface defines the reporting operations
type ReportServiceInterface interface {
	Monthly(ctx context.Context, year, month int) (*report.MonthlyReport, error)
}

// ReportHandler serves monthly reports as JSON and PDF
type ReportHandler struct {
	reports ReportServiceInterface
	log     *logger.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(reports ReportServiceInterface, log *logger.Logger) *ReportHandler {
	return &ReportHandler{reports: reports, log: log}
}

// GetMonthly handles GET /reports/monthly?month=7&year=2024
func (h *ReportHandler) GetMonthly(w http.ResponseWriter, r *http.Request) {
	rep, err := h.load(r)
	if err != nil {
		respondAppError(w, r, h.log, err)
		return
	}

	respondJSON(w, rep, http.StatusOK)
}

// GetMonthlyPDF handles GET /reports/monthly/pdf?month=7&year=2024
func (h *ReportHandler) GetMonthlyPDF(w http.ResponseWriter, r *http.Request) {
	rep, err := h.load(r)
	if err != nil {
		respondAppError(w, r, h.log, err)
		return
	}

	// rendered into memory so a PDF failure can still produce a JSON error
	var buf bytes.Buffer
	if err := report.RenderPDF(&buf, rep); err != nil {
		respondAppError(w, r, h.log, apperr.Internal("failed to render report", err))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="laporan-%04d-%02d.pdf"`, rep.Year, int(rep.Month)))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (h *ReportHandler) load(r *http.Request) (*report.MonthlyReport, error) {
	q := r.URL.Query()
	if q.Get("month") == "" || q.Get("year") == "" {
		return nil, apperr.Validation("month and year are required")
	}

	month, err := strconv.Atoi(q.Get("month"))
	if err != nil {
		return nil, report.ErrInvalidMonth
	}
	year, err := strconv.Atoi(q.Get("year"))
	if err != nil {
		return nil, report.ErrInvalidYear
	}

	return h.reports.Monthly(r.Context(), year, month)
}
