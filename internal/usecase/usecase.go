// Package usecase holds the single-purpose entry points the presentation
// layer calls. Each wraps one repository method.
package usecase

import (
	"context"

	"github.com/planetexplorer/planetexplorer/internal/dispatch"
	"github.com/planetexplorer/planetexplorer/internal/model"
	"github.com/planetexplorer/planetexplorer/internal/result"
)

// PlanetRepository is the subset of the repository the use cases need.
type PlanetRepository interface {
	GetPlanets(ctx context.Context, page int) result.Result[[]model.Planet]
	GetPlanet(ctx context.Context, id int) result.Result[model.Planet]
}

// GetPlanets retrieves one page of planets on the I/O dispatcher.
type GetPlanets struct {
	repo PlanetRepository
	io   *dispatch.Dispatcher
}

// NewGetPlanets creates the use case. A nil dispatcher runs the call on
// the caller's goroutine.
func NewGetPlanets(repo PlanetRepository, io *dispatch.Dispatcher) *GetPlanets {
	return &GetPlanets{repo: repo, io: io}
}

// Execute fetches the given page (1-indexed).
func (u *GetPlanets) Execute(ctx context.Context, page int) result.Result[[]model.Planet] {
	if u.io == nil {
		return u.repo.GetPlanets(ctx, page)
	}

	var res result.Result[[]model.Planet]
	if err := u.io.Run(ctx, func(ctx context.Context) {
		res = u.repo.GetPlanets(ctx, page)
	}); err != nil {
		return result.Failure[[]model.Planet](err)
	}
	return res
}

// GetPlanet retrieves a single planet by ID.
type GetPlanet struct {
	repo PlanetRepository
}

// NewGetPlanet creates the use case.
func NewGetPlanet(repo PlanetRepository) *GetPlanet {
	return &GetPlanet{repo: repo}
}

// Execute fetches the planet with the given ID.
func (u *GetPlanet) Execute(ctx context.Context, id int) result.Result[model.Planet] {
	return u.repo.GetPlanet(ctx, id)
}
