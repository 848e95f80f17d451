package handlers

import (
	"net/http"

	"github.com/baharkarakas/rentacar-backend/internal/api/httpx"
	"github.com/baharkarakas/rentacar-backend/internal/services"
)

type ReportHandler struct {
	Reports *services.ReportService
}

func NewReportHandler(rs *services.ReportService) *ReportHandler { return &ReportHandler{Reports: rs} }

func (h *ReportHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Reports.Stats(r.Context(), caller(r))
	if err != nil {
		httpx.WriteErr(w, r, err)
		return
	}
	ok(w, stats)
}

func (h *ReportHandler) Financial(w http.ResponseWriter, r *http.Request) {
	rep, err := h.Reports.FinancialReport(r.Context(), caller(r))
	if err != nil {
		httpx.WriteErr(w, r, err)
		return
	}
	ok(w, rep)
}
