package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/planetexplorer/planetexplorer/internal/model"
	"github.com/planetexplorer/planetexplorer/internal/swapi"
)

// writeJSON serializes v as JSON and writes it to the response with the given
// HTTP status code. The Content-Type header is set to application/json.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a structured error response using the standard error
// envelope. The optional ctx map provides additional context fields.
func writeError(w http.ResponseWriter, code int, message string, ctx ...map[string]any) {
	var ctxMap map[string]any
	if len(ctx) > 0 {
		ctxMap = ctx[0]
	}
	writeJSON(w, code, model.ErrorResponse{
		Error: model.ErrorDetail{
			Code:    code,
			Message: message,
			Context: ctxMap,
		},
	})
}

// queryInt extracts an integer query parameter, returning defaultVal if the
// parameter is missing. A present but malformed value is an error.
func queryInt(r *http.Request, key string, defaultVal int) (int, error) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("query parameter %q must be an integer", key)
	}
	return n, nil
}

// queryPage extracts the 1-based page query parameter.
func queryPage(r *http.Request) (int, error) {
	page, err := queryInt(r, "page", 1)
	if err != nil {
		return 0, err
	}
	if page < 1 {
		return 0, fmt.Errorf("query parameter %q must be at least 1", "page")
	}
	return page, nil
}

// classifyError maps a failed use case to an HTTP status code and a clean
// message.
func classifyError(err error, fallbackMsg string) (int, string) {
	msg := fallbackMsg + ": " + err.Error()

	switch {
	case errors.Is(err, swapi.ErrNotFound):
		return http.StatusNotFound, msg
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, msg
	case errors.Is(err, context.Canceled):
		// Client closed request.
		return 499, msg
	default:
		// Transport failures and malformed upstream data alike.
		return http.StatusBadGateway, msg
	}
}

// NotFound writes the standard error envelope for unknown routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "Resource not found: "+r.URL.Path)
}

// MethodNotAllowed writes the standard error envelope for unsupported methods.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "Method not allowed: "+r.Method)
}
