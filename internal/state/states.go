package state

import "github.com/planetexplorer/planetexplorer/internal/model"

// Phase is the coarse state of a screen.
type Phase string

const (
	PhaseLoading Phase = "loading"
	PhaseSuccess Phase = "success"
	PhaseError   Phase = "error"
)

// ListState is what the planet list screen renders.
type ListState struct {
	Phase   Phase          `json:"phase"`
	Planets []model.Planet `json:"planets,omitempty"`
	Message string         `json:"message,omitempty"`
}

// ListLoading is the initial list state.
func ListLoading() ListState { return ListState{Phase: PhaseLoading} }

// ListSuccess wraps a loaded page of planets.
func ListSuccess(planets []model.Planet) ListState {
	if planets == nil {
		planets = []model.Planet{}
	}
	return ListState{Phase: PhaseSuccess, Planets: planets}
}

// ListError carries a user-facing failure message.
func ListError(msg string) ListState { return ListState{Phase: PhaseError, Message: msg} }

// Equal compares by phase, planets and message.
func (s ListState) Equal(o ListState) bool {
	return s.Phase == o.Phase &&
		s.Message == o.Message &&
		model.EqualPlanets(s.Planets, o.Planets)
}

// Settled reports whether the state is no longer loading.
func (s ListState) Settled() bool { return s.Phase != PhaseLoading }

// DetailState is what the planet detail screen renders.
type DetailState struct {
	Phase   Phase         `json:"phase"`
	Planet  *model.Planet `json:"planet,omitempty"`
	Message string        `json:"message,omitempty"`
}

// DetailLoading is the initial detail state.
func DetailLoading() DetailState { return DetailState{Phase: PhaseLoading} }

// DetailSuccess wraps the decoded planet.
func DetailSuccess(p model.Planet) DetailState {
	return DetailState{Phase: PhaseSuccess, Planet: &p}
}

// DetailError carries a user-facing failure message.
func DetailError(msg string) DetailState { return DetailState{Phase: PhaseError, Message: msg} }

func (s DetailState) Equal(o DetailState) bool {
	if s.Phase != o.Phase || s.Message != o.Message {
		return false
	}
	if s.Planet == nil || o.Planet == nil {
		return s.Planet == o.Planet
	}
	return s.Planet.Equal(*o.Planet)
}

// Settled reports whether the state is no longer loading.
func (s DetailState) Settled() bool { return s.Phase != PhaseLoading }
