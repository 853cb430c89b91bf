package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/go-cmp/cmp"

	"github.com/planetexplorer/planetexplorer/internal/model"
	"github.com/planetexplorer/planetexplorer/internal/result"
	"github.com/planetexplorer/planetexplorer/internal/swapi"
)

var testPlanets = []model.Planet{
	{ID: 1, Name: "Tatooine", Climate: model.StringPtr("arid"), OrbitalPeriod: model.IntPtr(304), Gravity: model.StringPtr("1 standard")},
	{ID: 10, Name: "Kamino", Climate: model.StringPtr("temperate"), OrbitalPeriod: model.IntPtr(463)},
}

type fakeLister struct {
	mu    sync.Mutex
	res   result.Result[[]model.Planet]
	pages []int
	block chan struct{}
}

func (f *fakeLister) Execute(ctx context.Context, page int) result.Result[[]model.Planet] {
	f.mu.Lock()
	f.pages = append(f.pages, page)
	f.mu.Unlock()
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return result.Failure[[]model.Planet](ctx.Err())
		}
	}
	return f.res
}

type fakeGetter struct {
	res result.Result[model.Planet]
	ids []int
}

func (f *fakeGetter) Execute(_ context.Context, id int) result.Result[model.Planet] {
	f.ids = append(f.ids, id)
	return f.res
}

func newPlanetRouter(h *PlanetHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/v1/planets", h.ListPlanets)
	r.Get("/api/v1/planets/{id}", h.GetPlanet)
	return r
}

func serve(h http.Handler, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestListPlanets(t *testing.T) {
	lister := &fakeLister{res: result.Success(testPlanets)}
	h := newPlanetRouter(NewPlanetHandler(lister, &fakeGetter{}))

	rec := serve(h, http.MethodGet, "/api/v1/planets?page=2")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp model.ListResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(testPlanets, resp.Resource); diff != "" {
		t.Errorf("resource mismatch (-want +got):\n%s", diff)
	}
	if resp.Meta == nil || resp.Meta.Count != 2 || resp.Meta.Page != 2 {
		t.Errorf("meta = %+v", resp.Meta)
	}
	if diff := cmp.Diff([]int{2}, lister.pages); diff != "" {
		t.Errorf("pages mismatch (-want +got):\n%s", diff)
	}
}

func TestListPlanetsDefaultsToFirstPage(t *testing.T) {
	lister := &fakeLister{res: result.Success([]model.Planet{})}
	h := newPlanetRouter(NewPlanetHandler(lister, &fakeGetter{}))

	rec := serve(h, http.MethodGet, "/api/v1/planets")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body := rec.Body.String(); !containsAll(body, `"resource":[]`, `"page":1`) {
		t.Errorf("body = %s", body)
	}
}

func TestListPlanetsErrors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		res    result.Result[[]model.Planet]
		want   int
	}{
		{"bad page", "/api/v1/planets?page=zero", result.Success(testPlanets), http.StatusBadRequest},
		{"page below one", "/api/v1/planets?page=0", result.Success(testPlanets), http.StatusBadRequest},
		{"upstream not found", "/api/v1/planets?page=99", result.Failure[[]model.Planet](&swapi.HTTPError{StatusCode: 404}), http.StatusNotFound},
		{"upstream failure", "/api/v1/planets", result.Failure[[]model.Planet](errors.New("connection reset")), http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newPlanetRouter(NewPlanetHandler(&fakeLister{res: tt.res}, &fakeGetter{}))
			rec := serve(h, http.MethodGet, tt.target)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.want, rec.Body.String())
			}
			var resp model.ErrorResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Error.Code != tt.want || resp.Error.Message == "" {
				t.Errorf("error envelope = %+v", resp.Error)
			}
		})
	}
}

func TestGetPlanet(t *testing.T) {
	getter := &fakeGetter{res: result.Success(testPlanets[1])}
	h := newPlanetRouter(NewPlanetHandler(&fakeLister{}, getter))

	rec := serve(h, http.MethodGet, "/api/v1/planets/10")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var got model.Planet
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(testPlanets[1], got); diff != "" {
		t.Errorf("planet mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{10}, getter.ids); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}
}

func TestGetPlanetErrors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		res    result.Result[model.Planet]
		want   int
	}{
		{"non numeric id", "/api/v1/planets/tatooine", result.Success(testPlanets[0]), http.StatusBadRequest},
		{"zero id", "/api/v1/planets/0", result.Success(testPlanets[0]), http.StatusBadRequest},
		{"not found", "/api/v1/planets/999", result.Failure[model.Planet](&swapi.HTTPError{StatusCode: 404}), http.StatusNotFound},
		{"upstream failure", "/api/v1/planets/1", result.Failure[model.Planet](errors.New("EOF")), http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newPlanetRouter(NewPlanetHandler(&fakeLister{}, &fakeGetter{res: tt.res}))
			rec := serve(h, http.MethodGet, tt.target)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func containsAll(s string, subs ...string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}
