package server

import (
	"net/http"
	"strings"

	"github.com/kestrelworks/vantage/internal/common"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)

	// Stocks
	mux.HandleFunc("/api/stocks/", s.routeStocks)

	// Symbol search
	mux.HandleFunc("/api/search", s.handleSearch)
}

// routeStocks dispatches /api/stocks/{ticker}/{action} requests.
func (s *Server) routeStocks(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	ticker := PathParam(r, "/api/stocks/", "/")
	if ticker == "" {
		WriteError(w, http.StatusNotFound, "Not found")
		return
	}
	action := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/stocks/"+ticker), "/")

	switch action {
	case "analysis":
		s.handleStockAnalysis(w, r, ticker)
	case "intraday":
		s.handleStockIntraday(w, r, ticker)
	case "quote":
		s.handleStockQuote(w, r, ticker)
	default:
		WriteError(w, http.StatusNotFound, "Not found")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}
