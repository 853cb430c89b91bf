// Package repository turns transport calls into domain results.
package repository

import (
	"context"
	"log/slog"

	"github.com/planetexplorer/planetexplorer/internal/mapper"
	"github.com/planetexplorer/planetexplorer/internal/model"
	"github.com/planetexplorer/planetexplorer/internal/result"
	"github.com/planetexplorer/planetexplorer/internal/swapi"
)

// Planets fetches planets from the transport collaborator and maps them to
// the domain model. Every call makes exactly one transport request.
type Planets struct {
	service swapi.Service
	logger  *slog.Logger
}

// NewPlanets creates a Planets repository. A nil logger discards output.
func NewPlanets(service swapi.Service, logger *slog.Logger) *Planets {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Planets{service: service, logger: logger}
}

// GetPlanet fetches and maps a single planet.
func (r *Planets) GetPlanet(ctx context.Context, id int) result.Result[model.Planet] {
	res := result.RunFallible(func() (model.Planet, error) {
		dto, err := r.service.GetPlanet(ctx, id)
		if err != nil {
			return model.Planet{}, err
		}
		return mapper.ToDomain(dto)
	})
	r.logOutcome(ctx, "get planet", res.Err(), "id", id)
	return res
}

// GetPlanets fetches one page of planets and maps every element in order.
// A single unmappable element fails the whole call.
func (r *Planets) GetPlanets(ctx context.Context, page int) result.Result[[]model.Planet] {
	fetched := result.RunFallible(func() (swapi.PlanetPage, error) {
		return r.service.GetPlanets(ctx, page)
	})
	res := result.Then(fetched, func(p swapi.PlanetPage) ([]model.Planet, error) {
		return mapper.ToDomainList(p.Results)
	})
	r.logOutcome(ctx, "get planets", res.Err(), "page", page, "count", len(res.Data()))
	return res
}

func (r *Planets) logOutcome(ctx context.Context, op string, err error, attrs ...any) {
	if err != nil {
		r.logger.WarnContext(ctx, op+" failed", append(attrs, "error", err)...)
		return
	}
	r.logger.DebugContext(ctx, op, attrs...)
}
