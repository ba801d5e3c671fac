package embed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"driftscan/internal/contract"
)

func testConfig(endpoint string) *contract.Config {
	return &contract.Config{
		EmbedEndpoint: endpoint,
		EmbedAPIKey:   "test-key",
		EmbedModel:    "test-embed",
		SummaryModel:  "test-summary",
		EmbedTimeout:  5 * time.Second,
	}
}

// TestNewClientDisabled verifies an empty endpoint disables the capability.
func TestNewClientDisabled(t *testing.T) {
	assert.Nil(t, NewClient(&contract.Config{}))
}

func TestEmbed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req embedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-embed", req.Model)

		resp := embedResponse{}
		for range req.Input {
			resp.Data = append(resp.Data, struct {
				Embedding []float64 `json:"embedding"`
			}{Embedding: []float64{0.1, 0.2, 0.3}})
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	require.NotNil(t, client)

	vecs, err := client.Embed(context.Background(), []string{"one", "two"})
	require.NoError(t, err)
	assert.Len(t, vecs, 2)
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, vecs[0])
}

// TestEmbedCountMismatch verifies a response with the wrong vector count is
// rejected instead of silently misaligning texts and vectors.
func TestEmbedCountMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		resp := embedResponse{Data: []struct {
			Embedding []float64 `json:"embedding"`
		}{{Embedding: []float64{1}}}}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	_, err := client.Embed(context.Background(), []string{"one", "two"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "1 vectors for 2 texts")
}

func TestEmbedEmptyInput(t *testing.T) {
	client := NewClient(testConfig("http://unused.invalid"))
	vecs, err := client.Embed(context.Background(), nil)
	assert.NoError(t, err)
	assert.Nil(t, vecs)
}

func TestEmbedServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	_, err := client.Embed(context.Background(), []string{"one"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "status=503")
}

func TestSummarize(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/summarize", r.URL.Path)

		var req summarizeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-summary", req.Model)
		assert.Equal(t, 150, req.MaxLength)
		assert.Equal(t, 60, req.MinLength)

		require.NoError(t, json.NewEncoder(w).Encode(summarizeResponse{Summary: "shifted toward returns"}))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	summary, err := client.Summarize(context.Background(), "lots of text", 150, 60)
	require.NoError(t, err)
	assert.Equal(t, "shifted toward returns", summary)
}

// TestContextCancellation verifies an already-cancelled context aborts the
// request.
func TestContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		require.NoError(t, json.NewEncoder(w).Encode(embedResponse{}))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(testConfig(server.URL))
	_, err := client.Embed(ctx, []string{"one"})
	assert.Error(t, err)
}
