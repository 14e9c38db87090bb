package outbox

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnsureSchemaReusesExistingSubject(t *testing.T) {
	var registerCalls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/subjects/user_events-value/versions/latest":
			_ = json.NewEncoder(w).Encode(map[string]int{"id": 42})
		case r.Method == http.MethodPost:
			registerCalls++
			_ = json.NewEncoder(w).Encode(map[string]int{"id": 43})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := NewSchemaRegistryClient(srv.URL)
	id, err := client.EnsureSchema(context.Background(), "user_events-value", userCreatedSchema)
	require.NoError(t, err)
	require.Equal(t, 42, id)
	require.Zero(t, registerCalls)
}

func TestEnsureSchemaRegistersMissingSubject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.WriteHeader(http.StatusNotFound)
		case http.MethodPost:
			require.Equal(t, "/subjects/training_events-value/versions", r.URL.Path)
			require.Equal(t, "application/vnd.schemaregistry.v1+json", r.Header.Get("Content-Type"))

			var payload struct {
				SchemaType string `json:"schemaType"`
				Schema     string `json:"schema"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			require.Equal(t, "JSON", payload.SchemaType)
			require.NotEmpty(t, payload.Schema)

			_ = json.NewEncoder(w).Encode(map[string]int{"id": 7})
		}
	}))
	defer srv.Close()

	client := NewSchemaRegistryClient(srv.URL)
	id, err := client.EnsureSchema(context.Background(), "training_events-value", trainingCreatedSchema)
	require.NoError(t, err)
	require.Equal(t, 7, id)
}

func TestEnsureSchemaPropagatesRegistryFailure(t *testing.T) {
	var registerCalls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			registerCalls++
		}
		http.Error(w, "registry unavailable", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewSchemaRegistryClient(srv.URL)
	_, err := client.EnsureSchema(context.Background(), "user_events-value", userCreatedSchema)
	require.Error(t, err)
	require.Contains(t, err.Error(), "user_events-value")
	require.Zero(t, registerCalls, "an outage is not a missing subject")
}
