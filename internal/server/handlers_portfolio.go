package server

import (
	"net/http"
	"strconv"
)

// handlePortfolio handles GET /api/portfolio.
func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	if _, ok := requireSession(w, r); !ok {
		return
	}

	summary, err := s.app.PortfolioService.GetValuation(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, summary)
}

// handlePortfolioReport handles GET /api/portfolio/report.
// ?format=json returns the report envelope; default is text/markdown.
func (s *Server) handlePortfolioReport(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	if _, ok := requireSession(w, r); !ok {
		return
	}

	rep, err := s.app.ReportService.ValuationReport(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	if r.URL.Query().Get("format") == "json" {
		WriteJSON(w, http.StatusOK, rep)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(rep.Markdown))
}

// handlePortfolioChart handles GET /api/portfolio/chart (PNG).
func (s *Server) handlePortfolioChart(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	if _, ok := requireSession(w, r); !ok {
		return
	}

	summary, err := s.app.PortfolioService.GetValuation(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	png, err := s.app.PortfolioService.RenderAllocationChart(summary)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
