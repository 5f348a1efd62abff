package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"compre-api/pkg/search"
)

func TestWriteSearchError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"invalid query", fmt.Errorf("%w: query cannot be empty", search.ErrInvalidQuery), http.StatusBadRequest},
		{"timeout", fmt.Errorf("%w: %w", search.ErrUpstream, context.DeadlineExceeded), http.StatusGatewayTimeout},
		{"upstream", fmt.Errorf("%w: boom", search.ErrUpstream), http.StatusBadGateway},
		{"other", errors.New("disk full"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			WriteSearchError(rr, tt.err, "/api/search")

			if rr.Code != tt.status {
				t.Errorf("got status %d, want %d", rr.Code, tt.status)
			}
			if ct := rr.Header().Get("Content-Type"); ct != "application/problem+json" {
				t.Errorf("got content type %q", ct)
			}

			var pd ProblemDetails
			if err := json.Unmarshal(rr.Body.Bytes(), &pd); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if pd.Status != tt.status || pd.Instance != "/api/search" || pd.Type != "about:blank" {
				t.Errorf("unexpected problem details: %+v", pd)
			}
		})
	}
}

func TestWriteMethodNotAllowed(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteMethodNotAllowed(rr, http.MethodGet, "/api/search")

	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("got status %d", rr.Code)
	}
	if allow := rr.Header().Get("Allow"); allow != http.MethodGet {
		t.Errorf("got Allow %q", allow)
	}
}

func TestWriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteJSON(rr, http.StatusOK, []string{"a"}, "/api/search")
	if rr.Code != http.StatusOK || rr.Body.String() != `["a"]` {
		t.Errorf("unexpected response %d %q", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	WriteJSON(rr, http.StatusOK, map[string]any{"bad": make(chan int)}, "/api/search")
	if rr.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 for unencodable payload, got %d", rr.Code)
	}
}
