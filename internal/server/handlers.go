package server

import (
	"net/http"
	"strings"
)

// handleStockAnalysis handles GET /api/stocks/{ticker}/analysis. It returns
// the full bundle: quote, fundamentals, news, history and the scored opinion.
func (s *Server) handleStockAnalysis(w http.ResponseWriter, r *http.Request, ticker string) {
	snap, err := s.app.AdvisorService.GetFullAnalysis(r.Context(), ticker)
	if err != nil {
		s.logger.Warn().Err(err).Str("ticker", ticker).Msg("Analysis request failed")
		WriteError(w, http.StatusBadGateway, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, snap)
}

// handleStockIntraday handles GET /api/stocks/{ticker}/intraday. It returns
// 5-minute bars for the most recent trading day.
func (s *Server) handleStockIntraday(w http.ResponseWriter, r *http.Request, ticker string) {
	bars, err := s.app.AdvisorService.GetIntradayBars(r.Context(), ticker)
	if err != nil {
		s.logger.Warn().Err(err).Str("ticker", ticker).Msg("Intraday request failed")
		WriteError(w, http.StatusBadGateway, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"ticker": strings.ToUpper(strings.TrimSpace(ticker)),
		"bars":   bars,
	})
}

// handleStockQuote handles GET /api/stocks/{ticker}/quote. It returns the
// live quote alone, without triggering the full analysis pipeline.
func (s *Server) handleStockQuote(w http.ResponseWriter, r *http.Request, ticker string) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		WriteError(w, http.StatusBadRequest, "ticker is required")
		return
	}

	quote, err := s.app.QuoteService.GetQuote(r.Context(), ticker)
	if err != nil {
		s.logger.Warn().Err(err).Str("ticker", ticker).Msg("Quote request failed")
		WriteError(w, http.StatusBadGateway, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, quote)
}

// handleSearch handles GET /api/search?q={query}. It resolves free text to a
// ticker symbol.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		WriteError(w, http.StatusBadRequest, "query parameter 'q' is required")
		return
	}

	symbol := s.app.AdvisorService.ResolveSymbol(r.Context(), query)

	WriteJSON(w, http.StatusOK, map[string]string{
		"query":  query,
		"symbol": symbol,
	})
}
