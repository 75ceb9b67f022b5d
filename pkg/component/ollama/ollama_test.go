package ollama_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperqa-io/paperqa/pkg/component/ollama"
	ollamaopts "github.com/paperqa-io/paperqa/pkg/options/ollama"
)

func newTestClient(t *testing.T, handler http.Handler) (*ollama.Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	opts := ollamaopts.NewOptions()
	opts.BaseURL = srv.URL
	opts.EmbedModel = "nomic-embed-text"
	opts.ChatModel = "llama3"
	opts.Timeout = 5 * time.Second
	opts.MaxRetries = 0
	return ollama.New(opts), srv
}

func TestEmbed(t *testing.T) {
	var gotReq ollama.EmbedRequest
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/embed", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		resp := ollama.EmbedResponse{
			Model:      gotReq.Model,
			Embeddings: [][]float32{{0.1, 0.2}, {0.3, 0.4}},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))

	embeddings, err := client.Embed(context.Background(), []string{"first", "second"})
	require.NoError(t, err)

	assert.Equal(t, "nomic-embed-text", gotReq.Model)
	assert.Equal(t, []string{"first", "second"}, gotReq.Input)
	require.Len(t, embeddings, 2)
	assert.Equal(t, []float32{0.1, 0.2}, embeddings[0])
	assert.Equal(t, []float32{0.3, 0.4}, embeddings[1])
}

func TestEmbedEmptyInput(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected for empty input")
	}))

	embeddings, err := client.Embed(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, embeddings)
}

func TestEmbedCountMismatch(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(ollama.EmbedResponse{Embeddings: [][]float32{{0.1}}})
	}))

	_, err := client.Embed(context.Background(), []string{"a", "b"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "count mismatch")
}

func TestGenerateJSON(t *testing.T) {
	var gotReq ollama.GenerateRequest
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/generate", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		_ = json.NewEncoder(w).Encode(ollama.GenerateResponse{
			Response: `{"answer":"hello","sources":[]}`,
			Done:     true,
		})
	}))

	out, err := client.GenerateJSON(context.Background(), "the prompt", "the system prompt")
	require.NoError(t, err)
	assert.Equal(t, `{"answer":"hello","sources":[]}`, out)

	assert.Equal(t, "llama3", gotReq.Model)
	assert.Equal(t, "the prompt", gotReq.Prompt)
	assert.Equal(t, "the system prompt", gotReq.System)
	assert.False(t, gotReq.Stream)
	assert.Equal(t, "json", gotReq.Format)
	require.Contains(t, gotReq.Options, "temperature")
	assert.EqualValues(t, 0, gotReq.Options["temperature"])
}

func TestGenerateErrorStatus(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))

	_, err := client.Generate(context.Background(), "prompt", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestEnsureModelAlreadyPresent(t *testing.T) {
	pulled := false
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tags":
			_, _ = w.Write([]byte(`{"models":[{"name":"llama3"},{"name":"nomic-embed-text"}]}`))
		case "/api/pull":
			pulled = true
			_, _ = w.Write([]byte(`{"status":"success"}`))
		default:
			http.NotFound(w, r)
		}
	}))

	require.NoError(t, client.EnsureModel(context.Background(), "llama3"))
	assert.False(t, pulled)
}

func TestEnsureModelPullsMissing(t *testing.T) {
	var pullReq ollama.PullRequest
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tags":
			_, _ = w.Write([]byte(`{"models":[{"name":"llama3"}]}`))
		case "/api/pull":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&pullReq))
			_, _ = w.Write([]byte(`{"status":"success"}`))
		default:
			http.NotFound(w, r)
		}
	}))

	require.NoError(t, client.EnsureModel(context.Background(), "nomic-embed-text"))
	assert.Equal(t, "nomic-embed-text", pullReq.Name)
	assert.False(t, pullReq.Stream)
}

func TestPing(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/tags", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))

	assert.NoError(t, client.Ping(context.Background()))
}

func TestPingServerDown(t *testing.T) {
	opts := ollamaopts.NewOptions()
	opts.BaseURL = "http://127.0.0.1:1"
	opts.Timeout = 500 * time.Millisecond
	opts.MaxRetries = 0
	client := ollama.New(opts)

	assert.Error(t, client.Ping(context.Background()))
}

func TestRetryOnConnectionFailure(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		_ = json.NewEncoder(w).Encode(ollama.GenerateResponse{Response: "ok", Done: true})
	}))
	t.Cleanup(srv.Close)

	opts := ollamaopts.NewOptions()
	opts.BaseURL = srv.URL
	opts.Timeout = 5 * time.Second
	opts.MaxRetries = 2
	client := ollama.New(opts)

	out, err := client.Generate(context.Background(), "p", "")
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, 1, attempts, "successful request must not be retried")
}
