package openapi

import (
	"github.com/getkin/kin-openapi/openapi3"
)

// Version is the API document version.
const Version = "1.0.0"

// Generate builds the OpenAPI 3.1 document describing the planetexplorer
// HTTP API served under baseURL.
func Generate(baseURL string) *openapi3.T {
	doc := &openapi3.T{
		OpenAPI: "3.1.0",
		Info: &openapi3.Info{
			Title:       "Planet Explorer API",
			Description: "Browse planets from the Star Wars API, plus the list and detail screen state used by planetexplorer clients.",
			Version:     Version,
		},
		Servers: openapi3.Servers{
			{URL: baseURL},
		},
	}

	components := openapi3.NewComponents()
	components.Schemas = openapi3.Schemas{
		"Planet":       planetSchema(),
		"ScreenPlanet": screenPlanetSchema(),
		"ListResponse": listResponseSchema(),
		"ListState":    listStateSchema(),
		"DetailState":  detailStateSchema(),
		"ErrorResponse": {
			Value: &openapi3.Schema{
				Type: &openapi3.Types{"object"},
				Properties: openapi3.Schemas{
					"error": &openapi3.SchemaRef{
						Value: &openapi3.Schema{
							Type: &openapi3.Types{"object"},
							Properties: openapi3.Schemas{
								"code":    &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"integer"}, Format: "int32"}},
								"message": &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"string"}}},
								"context": &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"object"}}},
							},
						},
					},
				},
			},
		},
	}
	doc.Components = &components

	doc.Paths = openapi3.NewPaths()
	addPlanetPaths(doc)
	addScreenPaths(doc)
	addSystemPaths(doc)

	return doc
}

// ─── Paths ──────────────────────────────────────────────────────────────────

func addPlanetPaths(doc *openapi3.T) {
	doc.Paths.Set("/api/v1/planets", &openapi3.PathItem{
		Get: &openapi3.Operation{
			Tags:        []string{"planets"},
			Summary:     "List planets",
			Description: "Fetch one page of planets from the upstream API.",
			OperationID: "list_planets",
			Parameters:  openapi3.Parameters{pageParameter()},
			Responses: newResponses("200", "A page of planets",
				openapi3.NewSchemaRef("#/components/schemas/ListResponse", nil),
				"400", "404", "502"),
		},
	})

	doc.Paths.Set("/api/v1/planets/{id}", &openapi3.PathItem{
		Get: &openapi3.Operation{
			Tags:        []string{"planets"},
			Summary:     "Get a planet",
			OperationID: "get_planet",
			Parameters: openapi3.Parameters{
				&openapi3.ParameterRef{
					Value: openapi3.NewPathParameter("id").
						WithDescription("Planet identifier.").
						WithSchema(&openapi3.Schema{Type: &openapi3.Types{"integer"}, Format: "int32"}),
				},
			},
			Responses: newResponses("200", "The planet",
				openapi3.NewSchemaRef("#/components/schemas/Planet", nil),
				"400", "404", "502"),
		},
	})
}

func addScreenPaths(doc *openapi3.T) {
	doc.Paths.Set("/api/v1/screens/planets", &openapi3.PathItem{
		Get: &openapi3.Operation{
			Tags:        []string{"screens"},
			Summary:     "Planet list screen state",
			Description: "Attach to the list screen, wait for it to settle and return its state.",
			OperationID: "get_list_screen",
			Responses: newResponses("200", "Current list state",
				openapi3.NewSchemaRef("#/components/schemas/ListState", nil),
				"504"),
		},
	})

	eventsResponses := newResponses("200", "Server-sent events, one ListState per event",
		openapi3.NewSchemaRef("#/components/schemas/ListState", nil),
		"429")
	eventsResponses.Value("200").Value.Content = openapi3.Content{
		"text/event-stream": &openapi3.MediaType{
			Schema: openapi3.NewSchemaRef("#/components/schemas/ListState", nil),
		},
	}
	doc.Paths.Set("/api/v1/screens/planets/events", &openapi3.PathItem{
		Get: &openapi3.Operation{
			Tags:        []string{"screens"},
			Summary:     "Stream planet list screen state",
			OperationID: "stream_list_screen",
			Responses:   eventsResponses,
		},
	})

	doc.Paths.Set("/api/v1/screens/planets/retry", &openapi3.PathItem{
		Post: &openapi3.Operation{
			Tags:        []string{"screens"},
			Summary:     "Retry loading the planet list",
			OperationID: "retry_list_screen",
			Responses: newResponses("202", "Retry accepted",
				openapi3.NewSchemaRef("#/components/schemas/ListState", nil)),
		},
	})

	doc.Paths.Set("/api/v1/screens/planet", &openapi3.PathItem{
		Get: &openapi3.Operation{
			Tags:        []string{"screens"},
			Summary:     "Planet detail screen state",
			Description: "Decode a planet handoff payload produced by the list screen.",
			OperationID: "get_detail_screen",
			Parameters: openapi3.Parameters{
				&openapi3.ParameterRef{
					Value: openapi3.NewQueryParameter("planet").
						WithDescription("Planet handoff payload (JSON).").
						WithRequired(true).
						WithSchema(openapi3.NewStringSchema()),
				},
			},
			Responses: newResponses("200", "Current detail state",
				openapi3.NewSchemaRef("#/components/schemas/DetailState", nil),
				"400"),
		},
	})
}

func addSystemPaths(doc *openapi3.T) {
	statusSchema := &openapi3.SchemaRef{
		Value: &openapi3.Schema{
			Type: &openapi3.Types{"object"},
			Properties: openapi3.Schemas{
				"status": &openapi3.SchemaRef{Value: openapi3.NewStringSchema()},
			},
		},
	}
	doc.Paths.Set("/healthz", &openapi3.PathItem{
		Get: &openapi3.Operation{
			Tags:        []string{"system"},
			Summary:     "Liveness probe",
			OperationID: "healthz",
			Responses:   newResponses("200", "Process is alive", statusSchema),
		},
	})
	doc.Paths.Set("/readyz", &openapi3.PathItem{
		Get: &openapi3.Operation{
			Tags:        []string{"system"},
			Summary:     "Readiness probe",
			Description: "Reports ready when the upstream planets API answers.",
			OperationID: "readyz",
			Responses:   newResponses("200", "Upstream reachable", statusSchema, "503"),
		},
	})
}

// ─── Parameters ─────────────────────────────────────────────────────────────

func pageParameter() *openapi3.ParameterRef {
	minPage := 1.0
	return &openapi3.ParameterRef{
		Value: openapi3.NewQueryParameter("page").
			WithDescription("Upstream page number, starting at 1.").
			WithSchema(&openapi3.Schema{Type: &openapi3.Types{"integer"}, Format: "int32", Min: &minPage}),
	}
}

// ─── Schemas ────────────────────────────────────────────────────────────────

func planetSchema() *openapi3.SchemaRef {
	return &openapi3.SchemaRef{
		Value: &openapi3.Schema{
			Type:     &openapi3.Types{"object"},
			Required: []string{"id", "name"},
			Properties: openapi3.Schemas{
				"id":            &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"integer"}, Format: "int32"}},
				"name":          &openapi3.SchemaRef{Value: openapi3.NewStringSchema()},
				"climate":       nullable("string", ""),
				"orbitalPeriod": nullable("integer", "int32"),
				"gravity":       nullable("string", ""),
			},
		},
	}
}

func screenPlanetSchema() *openapi3.SchemaRef {
	return &openapi3.SchemaRef{
		Value: &openapi3.Schema{
			AllOf: openapi3.SchemaRefs{
				openapi3.NewSchemaRef("#/components/schemas/Planet", nil),
				{
					Value: &openapi3.Schema{
						Type: &openapi3.Types{"object"},
						Properties: openapi3.Schemas{
							"handoff": &openapi3.SchemaRef{Value: &openapi3.Schema{
								Type:        &openapi3.Types{"string"},
								Description: "Payload for /api/v1/screens/planet.",
							}},
						},
					},
				},
			},
		},
	}
}

func listResponseSchema() *openapi3.SchemaRef {
	return &openapi3.SchemaRef{
		Value: &openapi3.Schema{
			Type: &openapi3.Types{"object"},
			Properties: openapi3.Schemas{
				"resource": &openapi3.SchemaRef{
					Value: &openapi3.Schema{
						Type:  &openapi3.Types{"array"},
						Items: openapi3.NewSchemaRef("#/components/schemas/Planet", nil),
					},
				},
				"meta": metaSchema(),
			},
		},
	}
}

func listStateSchema() *openapi3.SchemaRef {
	return &openapi3.SchemaRef{
		Value: &openapi3.Schema{
			Type:     &openapi3.Types{"object"},
			Required: []string{"phase"},
			Properties: openapi3.Schemas{
				"phase": phaseSchema(),
				"planets": &openapi3.SchemaRef{
					Value: &openapi3.Schema{
						Type:  &openapi3.Types{"array"},
						Items: openapi3.NewSchemaRef("#/components/schemas/ScreenPlanet", nil),
					},
				},
				"message": &openapi3.SchemaRef{Value: openapi3.NewStringSchema()},
			},
		},
	}
}

func detailStateSchema() *openapi3.SchemaRef {
	return &openapi3.SchemaRef{
		Value: &openapi3.Schema{
			Type:     &openapi3.Types{"object"},
			Required: []string{"phase"},
			Properties: openapi3.Schemas{
				"phase":   phaseSchema(),
				"planet":  openapi3.NewSchemaRef("#/components/schemas/Planet", nil),
				"message": &openapi3.SchemaRef{Value: openapi3.NewStringSchema()},
			},
		},
	}
}

func phaseSchema() *openapi3.SchemaRef {
	return &openapi3.SchemaRef{
		Value: openapi3.NewStringSchema().WithEnum("loading", "success", "error"),
	}
}

// metaSchema returns the schema for the "meta" field in list responses.
func metaSchema() *openapi3.SchemaRef {
	return &openapi3.SchemaRef{
		Value: &openapi3.Schema{
			Type: &openapi3.Types{"object"},
			Properties: openapi3.Schemas{
				"count": &openapi3.SchemaRef{
					Value: &openapi3.Schema{
						Type:        &openapi3.Types{"integer"},
						Format:      "int32",
						Description: "Number of planets in this page.",
					},
				},
				"page": &openapi3.SchemaRef{
					Value: &openapi3.Schema{
						Type:        &openapi3.Types{"integer"},
						Format:      "int32",
						Description: "Upstream page number.",
					},
				},
				"took_ms": &openapi3.SchemaRef{
					Value: &openapi3.Schema{
						Type:        &openapi3.Types{"number"},
						Format:      "double",
						Description: "Time spent serving the request in milliseconds.",
					},
				},
			},
		},
	}
}

func nullable(typ, format string) *openapi3.SchemaRef {
	return &openapi3.SchemaRef{
		Value: &openapi3.Schema{Type: &openapi3.Types{typ, "null"}, Format: format},
	}
}

// ─── Response Helpers ───────────────────────────────────────────────────────

var errorDescriptions = map[string]string{
	"400": "Bad request",
	"404": "Not found",
	"429": "Rate limit exceeded",
	"502": "Upstream API failure",
	"503": "Service unavailable",
	"504": "Timed out waiting for state",
}

// newResponses builds a Responses map with a success response, the given
// error responses and a 500.
func newResponses(statusCode, description string, schema *openapi3.SchemaRef, errorCodes ...string) *openapi3.Responses {
	responses := openapi3.NewResponses()

	successDesc := description
	responses.Set(statusCode, &openapi3.ResponseRef{
		Value: &openapi3.Response{
			Description: &successDesc,
			Content:     openapi3.NewContentWithJSONSchemaRef(schema),
		},
	})

	errorRef := openapi3.NewSchemaRef("#/components/schemas/ErrorResponse", nil)
	for _, code := range append(errorCodes, "500") {
		desc, ok := errorDescriptions[code]
		if !ok {
			desc = "Internal server error"
		}
		responses.Set(code, &openapi3.ResponseRef{
			Value: &openapi3.Response{
				Description: &desc,
				Content:     openapi3.NewContentWithJSONSchemaRef(errorRef),
			},
		})
	}

	return responses
}
