package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/planetexplorer/planetexplorer/internal/handoff"
	"github.com/planetexplorer/planetexplorer/internal/model"
	"github.com/planetexplorer/planetexplorer/internal/state"
)

const (
	defaultSettleTimeout = 30 * time.Second
	defaultHeartbeat     = 15 * time.Second
)

// ScreenHandler exposes the list and detail screen state holders over HTTP.
// An HTTP request or SSE connection counts as a subscriber for as long as it
// is open.
type ScreenHandler struct {
	list          *state.ListHolder
	detailOpts    []state.Option
	settleTimeout time.Duration
	heartbeat     time.Duration
	logger        *slog.Logger
}

// ScreenOption configures a ScreenHandler.
type ScreenOption func(*ScreenHandler)

// WithSettleTimeout bounds how long a snapshot waits for a loading screen.
func WithSettleTimeout(d time.Duration) ScreenOption {
	return func(h *ScreenHandler) { h.settleTimeout = d }
}

// WithHeartbeat sets the SSE keep-alive interval.
func WithHeartbeat(d time.Duration) ScreenOption {
	return func(h *ScreenHandler) { h.heartbeat = d }
}

// WithDetailOptions passes opts to every detail holder the handler builds.
func WithDetailOptions(opts ...state.Option) ScreenOption {
	return func(h *ScreenHandler) { h.detailOpts = append(h.detailOpts, opts...) }
}

// NewScreenHandler creates a new ScreenHandler around a shared list holder.
func NewScreenHandler(list *state.ListHolder, logger *slog.Logger, opts ...ScreenOption) *ScreenHandler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	h := &ScreenHandler{
		list:          list,
		settleTimeout: defaultSettleTimeout,
		heartbeat:     defaultHeartbeat,
		logger:        logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// screenPlanet is a planet plus the payload that opens its detail screen.
type screenPlanet struct {
	model.Planet
	Handoff string `json:"handoff"`
}

// listScreen is the wire form of state.ListState.
type listScreen struct {
	Phase   state.Phase    `json:"phase"`
	Planets []screenPlanet `json:"planets,omitempty"`
	Message string         `json:"message,omitempty"`
}

func toListScreen(s state.ListState) (listScreen, error) {
	out := listScreen{Phase: s.Phase, Message: s.Message}
	if s.Phase != state.PhaseSuccess {
		return out, nil
	}
	out.Planets = make([]screenPlanet, 0, len(s.Planets))
	for _, p := range s.Planets {
		payload, err := handoff.Encode(p)
		if err != nil {
			return listScreen{}, err
		}
		out.Planets = append(out.Planets, screenPlanet{Planet: p, Handoff: payload})
	}
	return out, nil
}

// ListScreen attaches to the list holder, waits for it to settle and
// returns the state.
// GET /api/v1/screens/planets
func (h *ScreenHandler) ListScreen(w http.ResponseWriter, r *http.Request) {
	sub := h.list.Subscribe(r.Context())
	defer sub.Close()

	ctx, cancel := context.WithTimeout(r.Context(), h.settleTimeout)
	defer cancel()
	st, err := sub.Await(ctx, state.ListState.Settled)
	if err != nil {
		h.writeAwaitError(w, err)
		return
	}
	h.writeListScreen(w, http.StatusOK, st)
}

// ListEvents streams list states as server-sent events until the client
// disconnects.
// GET /api/v1/screens/planets/events
func (h *ScreenHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	rc := http.NewResponseController(w)
	// Long-lived stream: lift the server's write deadline.
	if err := rc.SetWriteDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
		h.logger.Debug("clear write deadline", "error", err)
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		h.logger.Warn("streaming unsupported", "error", err)
		return
	}

	sub := h.list.Subscribe(r.Context())
	defer sub.Close()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	var seq int
	for {
		select {
		case st, ok := <-sub.C():
			if !ok {
				return
			}
			screen, err := toListScreen(st)
			if err != nil {
				h.logger.Error("encode list screen", "error", err)
				return
			}
			data, err := json.Marshal(screen)
			if err != nil {
				h.logger.Error("marshal list screen", "error", err)
				return
			}
			seq++
			if _, err := fmt.Fprintf(w, "id: %d\nevent: state\ndata: %s\n\n", seq, data); err != nil {
				return
			}
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
		case <-r.Context().Done():
			return
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}

// RetryList moves the list screen back to loading and reloads it.
// POST /api/v1/screens/planets/retry
func (h *ScreenHandler) RetryList(w http.ResponseWriter, r *http.Request) {
	h.list.Retry()
	h.writeListScreen(w, http.StatusAccepted, h.list.State())
}

// DetailScreen decodes a planet handoff payload into the detail screen state.
// GET /api/v1/screens/planet?planet=<payload>
func (h *ScreenHandler) DetailScreen(w http.ResponseWriter, r *http.Request) {
	payload := r.URL.Query().Get("planet")
	if payload == "" {
		writeError(w, http.StatusBadRequest, "Missing required query parameter: planet")
		return
	}

	holder := state.NewDetailHolder(payload, h.detailOpts...)
	defer holder.Close()
	sub := holder.Subscribe(r.Context())
	defer sub.Close()

	ctx, cancel := context.WithTimeout(r.Context(), h.settleTimeout)
	defer cancel()
	st, err := sub.Await(ctx, state.DetailState.Settled)
	if err != nil {
		h.writeAwaitError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *ScreenHandler) writeListScreen(w http.ResponseWriter, status int, st state.ListState) {
	screen, err := toListScreen(st)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to encode planets: "+err.Error())
		return
	}
	writeJSON(w, status, screen)
}

func (h *ScreenHandler) writeAwaitError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, "Timed out waiting for screen state")
	case errors.Is(err, state.ErrClosed):
		writeError(w, http.StatusServiceUnavailable, "Screen state is shutting down")
	default:
		writeError(w, 499, "Client closed request")
	}
}
