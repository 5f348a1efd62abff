package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"compre-api/pkg/logger"
	"compre-api/pkg/search"
)

// follows RFC 7807: Problem Details for HTTP APIs
type ProblemDetails struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail"`
	Instance string `json:"instance,omitempty"`
}

func (pd *ProblemDetails) Error() string {
	return fmt.Sprintf("%d %s: %s", pd.Status, pd.Title, pd.Detail)
}

func WriteError(w http.ResponseWriter, status int, title, detail, instance string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)

	pd := &ProblemDetails{
		Type:     "about:blank",
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: instance,
	}

	json.NewEncoder(w).Encode(pd)
}

func WriteInternalServerError(w http.ResponseWriter, err error, instance string) {
	WriteError(w, http.StatusInternalServerError, "Internal Server Error", err.Error(), instance)
}

func WriteBadRequest(w http.ResponseWriter, detail, instance string) {
	WriteError(w, http.StatusBadRequest, "Bad Request", detail, instance)
}

func WriteNotFound(w http.ResponseWriter, detail, instance string) {
	WriteError(w, http.StatusNotFound, "Not Found", detail, instance)
}

func WriteMethodNotAllowed(w http.ResponseWriter, allowed, instance string) {
	w.Header().Set("Allow", allowed)
	WriteError(w, http.StatusMethodNotAllowed, "Method Not Allowed", "Use "+allowed+".", instance)
}

// WriteSearchError maps a search failure to its problem response.
func WriteSearchError(w http.ResponseWriter, err error, instance string) {
	switch {
	case errors.Is(err, search.ErrInvalidQuery):
		WriteBadRequest(w, err.Error(), instance)
	case errors.Is(err, context.DeadlineExceeded):
		WriteError(w, http.StatusGatewayTimeout, "Gateway Timeout", "Upstream service timed out: "+err.Error(), instance)
	case errors.Is(err, search.ErrUpstream):
		WriteError(w, http.StatusBadGateway, "Bad Gateway", err.Error(), instance)
	default:
		WriteInternalServerError(w, err, instance)
	}
}

func WriteJSON(w http.ResponseWriter, status int, payload any, instance string) {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Log.Error().Err(err).Str("path", instance).Msg("Error encoding response")
		WriteInternalServerError(w, fmt.Errorf("failed to encode response"), instance)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}
