package server

import (
	"net/http/httptest"
	"testing"
)

func TestPathParam(t *testing.T) {
	tests := []struct {
		path   string
		prefix string
		suffix string
		want   string
	}{
		{"/api/stocks/AAPL/analysis", "/api/stocks/", "/analysis", "AAPL"},
		{"/api/stocks/BRK-B/intraday", "/api/stocks/", "/intraday", "BRK-B"},
		{"/api/stocks/AAPL", "/api/stocks/", "", "AAPL"},
		{"/api/stocks/AAPL/quote", "/api/stocks/", "", "AAPL"},
		{"/api/other/AAPL", "/api/stocks/", "", ""},
	}

	for _, tt := range tests {
		req := httptest.NewRequest("GET", tt.path, nil)
		if got := PathParam(req, tt.prefix, tt.suffix); got != tt.want {
			t.Errorf("PathParam(%q, %q, %q) = %q, want %q", tt.path, tt.prefix, tt.suffix, got, tt.want)
		}
	}
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, 201, map[string]int{"n": 1})

	if rec.Code != 201 {
		t.Errorf("expected 201, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %s", ct)
	}
	if rec.Body.String() != "{\"n\":1}\n" {
		t.Errorf("unexpected body: %q", rec.Body.String())
	}
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, 400, "bad input")

	if rec.Code != 400 {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	if rec.Body.String() != "{\"error\":\"bad input\"}\n" {
		t.Errorf("unexpected body: %q", rec.Body.String())
	}
}
