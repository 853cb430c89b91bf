package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/planetexplorer/planetexplorer/internal/mapper"
	"github.com/planetexplorer/planetexplorer/internal/swapi"
)

// ---------------------------------------------------------------------------
// queryInt / queryPage tests
// ---------------------------------------------------------------------------

func TestQueryInt(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		defaultVal int
		want       int
		wantErr    bool
	}{
		{"returns default for missing param", "/test", 1, 1, false},
		{"parses integer param", "/test?page=3", 1, 3, false},
		{"rejects non-integer", "/test?page=abc", 1, 0, true},
		{"parses negative", "/test?page=-5", 1, -5, false},
		{"returns default for empty value", "/test?page=", 7, 7, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.url, nil)
			got, err := queryInt(r, "page", tt.defaultVal)
			if (err != nil) != tt.wantErr {
				t.Fatalf("queryInt() err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("queryInt() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestQueryPage(t *testing.T) {
	for _, url := range []string{"/test?page=0", "/test?page=-1", "/test?page=two"} {
		r := httptest.NewRequest("GET", url, nil)
		if _, err := queryPage(r); err == nil {
			t.Errorf("queryPage(%s) expected error", url)
		}
	}
	r := httptest.NewRequest("GET", "/test", nil)
	if page, err := queryPage(r); err != nil || page != 1 {
		t.Errorf("queryPage() = %d, %v; want 1, nil", page, err)
	}
}

// ---------------------------------------------------------------------------
// classifyError tests
// ---------------------------------------------------------------------------

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", &swapi.HTTPError{StatusCode: 404}, http.StatusNotFound},
		{"upstream 500", &swapi.HTTPError{StatusCode: 500}, http.StatusBadGateway},
		{"bad id", fmt.Errorf("planet 0: %w", mapper.ErrInvalidID), http.StatusBadGateway},
		{"deadline", fmt.Errorf("acquire: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{"cancelled", context.Canceled, 499},
		{"transport", errors.New("dial tcp: connection refused"), http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, msg := classifyError(tt.err, "Failed to load planets")
			if code != tt.want {
				t.Errorf("code = %d, want %d", code, tt.want)
			}
			if !strings.HasPrefix(msg, "Failed to load planets: ") {
				t.Errorf("msg = %q", msg)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// writeError / writeJSON tests
// ---------------------------------------------------------------------------

func TestWriteError(t *testing.T) {
	t.Run("writes JSON error response", func(t *testing.T) {
		w := httptest.NewRecorder()
		writeError(w, http.StatusBadRequest, "Invalid input", map[string]any{"page": 0})

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", w.Code)
		}
		if ct := w.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected application/json, got %s", ct)
		}
		body := w.Body.String()
		if !strings.Contains(body, `"code":400`) {
			t.Errorf("expected code 400 in body: %s", body)
		}
		if !strings.Contains(body, `"message":"Invalid input"`) {
			t.Errorf("expected message in body: %s", body)
		}
		if !strings.Contains(body, `"page":0`) {
			t.Errorf("expected context in body: %s", body)
		}
	})
}

func TestWriteJSON(t *testing.T) {
	t.Run("writes JSON with correct content type", func(t *testing.T) {
		w := httptest.NewRecorder()
		writeJSON(w, http.StatusOK, map[string]string{"hello": "world"})

		if w.Code != http.StatusOK {
			t.Errorf("expected status 200, got %d", w.Code)
		}
		if ct := w.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected application/json, got %s", ct)
		}
		body := w.Body.String()
		if !strings.Contains(body, `"hello":"world"`) {
			t.Errorf("expected JSON body, got: %s", body)
		}
	})
}
