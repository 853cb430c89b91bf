package model

import (
	"encoding/json"
	"testing"
)

func TestPlanetEqual(t *testing.T) {
	base := Planet{ID: 1, Name: "Tatooine", Climate: StringPtr("arid"), OrbitalPeriod: IntPtr(304), Gravity: StringPtr("1 standard")}

	tests := []struct {
		name  string
		other Planet
		want  bool
	}{
		{"same values, distinct pointers", Planet{ID: 1, Name: "Tatooine", Climate: StringPtr("arid"), OrbitalPeriod: IntPtr(304), Gravity: StringPtr("1 standard")}, true},
		{"different id", Planet{ID: 2, Name: "Tatooine", Climate: StringPtr("arid"), OrbitalPeriod: IntPtr(304), Gravity: StringPtr("1 standard")}, false},
		{"nil climate", Planet{ID: 1, Name: "Tatooine", OrbitalPeriod: IntPtr(304), Gravity: StringPtr("1 standard")}, false},
		{"different period", Planet{ID: 1, Name: "Tatooine", Climate: StringPtr("arid"), OrbitalPeriod: IntPtr(305), Gravity: StringPtr("1 standard")}, false},
		{"different gravity", Planet{ID: 1, Name: "Tatooine", Climate: StringPtr("arid"), OrbitalPeriod: IntPtr(304)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Equal(tt.other); got != tt.want {
				t.Errorf("Equal = %v, want %v", got, tt.want)
			}
			if got := tt.other.Equal(base); got != tt.want {
				t.Errorf("Equal is not symmetric")
			}
		})
	}

	if !(Planet{ID: 3, Name: "Hoth"}).Equal(Planet{ID: 3, Name: "Hoth"}) {
		t.Error("planets with all optional fields nil should be equal")
	}
}

func TestEqualPlanets(t *testing.T) {
	a := Planet{ID: 1, Name: "Tatooine"}
	b := Planet{ID: 2, Name: "Alderaan"}

	if !EqualPlanets(nil, []Planet{}) {
		t.Error("nil and empty should be equal")
	}
	if !EqualPlanets([]Planet{a, b}, []Planet{a, b}) {
		t.Error("identical lists should be equal")
	}
	if EqualPlanets([]Planet{a, b}, []Planet{b, a}) {
		t.Error("order must matter")
	}
	if EqualPlanets([]Planet{a}, []Planet{a, b}) {
		t.Error("different lengths should differ")
	}
}

func TestPlanetJSONNullFields(t *testing.T) {
	b, err := json.Marshal(Planet{ID: 10, Name: "Kamino", OrbitalPeriod: IntPtr(463)})
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}

	want := `{"id":10,"name":"Kamino","climate":null,"orbitalPeriod":463,"gravity":null}`
	if string(b) != want {
		t.Errorf("JSON = %s, want %s", b, want)
	}
}

func TestListResponseJSON(t *testing.T) {
	resp := ListResponse{
		Resource: []Planet{{ID: 1, Name: "Tatooine"}},
		Meta:     &ResponseMeta{Count: 1, Page: 2, TookMs: 1.5},
	}
	b, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}

	var m map[string]interface{}
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if _, ok := m["resource"]; !ok {
		t.Error("expected 'resource' key")
	}
	meta, ok := m["meta"].(map[string]interface{})
	if !ok {
		t.Fatalf("meta = %v", m["meta"])
	}
	if meta["page"] != float64(2) || meta["count"] != float64(1) {
		t.Errorf("meta = %v", meta)
	}

	b, _ = json.Marshal(ListResponse{Resource: []Planet{}})
	if string(b) != `{"resource":[]}` {
		t.Errorf("meta should be omitted when nil: %s", b)
	}
}

func TestErrorResponseJSON(t *testing.T) {
	b, err := json.Marshal(ErrorResponse{Error: ErrorDetail{Code: 404, Message: "Planet not found"}})
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	want := `{"error":{"code":404,"message":"Planet not found"}}`
	if string(b) != want {
		t.Errorf("JSON = %s, want %s", b, want)
	}
}
