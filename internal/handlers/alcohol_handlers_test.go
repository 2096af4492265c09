package handlers

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
)

func TestAlcoholCatalogEndpoints(t *testing.T) {
	env := setupTestEnv(t)

	t.Run("GET /api/alcohol returns the seeded catalog", func(t *testing.T) {
		resp := performRequest(t, env.app, http.MethodGet, "/api/alcohol/", nil, nil)
		body := decodeJSONMap(t, resp)
		assertStatus(t, resp, http.StatusOK)
		items := body["data"].([]any)
		if int64(len(items)) != catalogSize(t, env.db) {
			t.Fatalf("expected full catalog, got %d items", len(items))
		}
	})

	t.Run("GET /api/alcohol/category/:category filters by category", func(t *testing.T) {
		resp := performRequest(t, env.app, http.MethodGet, "/api/alcohol/category/liquor", nil, nil)
		body := decodeJSONMap(t, resp)
		assertStatus(t, resp, http.StatusOK)
		for _, item := range body["data"].([]any) {
			if item.(map[string]any)["category"] != "liquor" {
				t.Fatalf("expected only liquor entries, got %+v", item)
			}
		}
	})

	t.Run("GET with unknown category is rejected", func(t *testing.T) {
		resp := performRequest(t, env.app, http.MethodGet, "/api/alcohol/category/soda", nil, nil)
		body := decodeJSONMap(t, resp)
		assertStatus(t, resp, http.StatusBadRequest)
		assertEnvelopeError(t, body, "invalid category")
	})

	t.Run("GET /api/alcohol/:id returns one entry", func(t *testing.T) {
		alcohol := firstCatalogAlcohol(t, env)
		resp := performRequest(t, env.app, http.MethodGet, "/api/alcohol/"+alcohol.ID.String(), nil, nil)
		body := decodeJSONMap(t, resp)
		assertStatus(t, resp, http.StatusOK)
		data := body["data"].(map[string]any)
		if data["name"] != alcohol.Name {
			t.Fatalf("expected %q, got %v", alcohol.Name, data["name"])
		}
	})

	t.Run("GET /api/alcohol/:id unknown id is not found", func(t *testing.T) {
		resp := performRequest(t, env.app, http.MethodGet, "/api/alcohol/"+uuid.NewString(), nil, nil)
		assertStatus(t, resp, http.StatusNotFound)
	})

	t.Run("POST /api/alcohol adds a catalog entry", func(t *testing.T) {
		resp := performJSONRequest(t, env.app, http.MethodPost, "/api/alcohol/", map[string]any{
			"name":     "Mead",
			"category": "midAlcohol",
		}, nil)
		body := decodeJSONMap(t, resp)
		assertStatus(t, resp, http.StatusCreated)
		data := body["data"].(map[string]any)
		if data["name"] != "Mead" || data["category"] != "midAlcohol" {
			t.Fatalf("unexpected created entry: %+v", data)
		}
	})

	t.Run("POST duplicate name is a conflict", func(t *testing.T) {
		resp := performJSONRequest(t, env.app, http.MethodPost, "/api/alcohol/", map[string]any{
			"name":     "Mead",
			"category": "midAlcohol",
		}, nil)
		body := decodeJSONMap(t, resp)
		assertStatus(t, resp, http.StatusConflict)
		assertEnvelopeError(t, body, "alcohol already in catalog")
	})

	t.Run("POST with invalid category is rejected", func(t *testing.T) {
		resp := performJSONRequest(t, env.app, http.MethodPost, "/api/alcohol/", map[string]any{
			"name":     "Kombucha",
			"category": "fermented",
		}, nil)
		assertStatus(t, resp, http.StatusBadRequest)
	})

	t.Run("DELETE removes a catalog entry", func(t *testing.T) {
		alcohol := firstCatalogAlcohol(t, env)
		resp := performRequest(t, env.app, http.MethodDelete, "/api/alcohol/"+alcohol.ID.String(), nil, nil)
		assertStatus(t, resp, http.StatusOK)

		resp = performRequest(t, env.app, http.MethodDelete, "/api/alcohol/"+alcohol.ID.String(), nil, nil)
		body := decodeJSONMap(t, resp)
		assertStatus(t, resp, http.StatusNotFound)
		assertEnvelopeError(t, body, "alcohol not found")
	})
}
