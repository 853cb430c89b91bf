package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/planetexplorer/planetexplorer/internal/model"
	"github.com/planetexplorer/planetexplorer/internal/result"
)

// PlanetsLister loads one page of planets.
type PlanetsLister interface {
	Execute(ctx context.Context, page int) result.Result[[]model.Planet]
}

// PlanetGetter loads a single planet.
type PlanetGetter interface {
	Execute(ctx context.Context, id int) result.Result[model.Planet]
}

// PlanetHandler serves the planet REST endpoints straight from the use
// cases, without screen state.
type PlanetHandler struct {
	list PlanetsLister
	get  PlanetGetter
}

// NewPlanetHandler creates a new PlanetHandler.
func NewPlanetHandler(list PlanetsLister, get PlanetGetter) *PlanetHandler {
	return &PlanetHandler{list: list, get: get}
}

// ListPlanets returns one page of planets.
// GET /api/v1/planets?page=N
func (h *PlanetHandler) ListPlanets(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	page, err := queryPage(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res := h.list.Execute(r.Context(), page)
	planets, err := res.Get()
	if err != nil {
		code, msg := classifyError(err, "Failed to load planets")
		writeError(w, code, msg, map[string]any{"page": page})
		return
	}

	writeJSON(w, http.StatusOK, model.ListResponse{
		Resource: planets,
		Meta: &model.ResponseMeta{
			Count:  len(planets),
			Page:   page,
			TookMs: float64(time.Since(start).Microseconds()) / 1000.0,
		},
	})
}

// GetPlanet returns a single planet by ID.
// GET /api/v1/planets/{id}
func (h *PlanetHandler) GetPlanet(w http.ResponseWriter, r *http.Request) {
	idParam := chi.URLParam(r, "id")
	id, err := strconv.Atoi(idParam)
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, "Planet id must be a positive integer", map[string]any{"id": idParam})
		return
	}

	planet, err := h.get.Execute(r.Context(), id).Get()
	if err != nil {
		code, msg := classifyError(err, "Failed to load planet")
		writeError(w, code, msg, map[string]any{"id": id})
		return
	}
	writeJSON(w, http.StatusOK, planet)
}
