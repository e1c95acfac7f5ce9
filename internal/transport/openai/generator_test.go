package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/faqbot/internal/domain"
)

func newFakeProvider(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func newTestGenerator(baseURL string) *Generator {
	return NewGenerator(&GeneratorConfig{
		APIKey:  "test-key",
		BaseURL: baseURL + "/v1",
		Model:   "gpt-4o-mini",
		Logger:  zap.NewNop(),
	})
}

func TestGenerate_ReturnsCompletionText(t *testing.T) {
	srv := newFakeProvider(t, func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Messages) != 1 || req.Messages[0].Content != "what is sha" {
			t.Errorf("unexpected messages: %+v", req.Messages)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"choices": [{"message": {"role": "assistant", "content": "  SHA is the Social Health Authority.  "}}]
		}`))
	})

	g := newTestGenerator(srv.URL)
	got, err := g.Generate(context.Background(), "what is sha")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got != "SHA is the Social Health Authority." {
		t.Errorf("expected trimmed completion text, got %q", got)
	}
}

func TestGenerate_APIErrorWrapsSentinel(t *testing.T) {
	srv := newFakeProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "quota exceeded", "type": "rate_limit"}}`))
	})

	g := newTestGenerator(srv.URL)
	_, err := g.Generate(context.Background(), "q")
	if !errors.Is(err, domain.ErrGeneration) {
		t.Errorf("expected ErrGeneration, got %v", err)
	}
}

func TestGenerate_EmptyChoices(t *testing.T) {
	srv := newFakeProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices": []}`))
	})

	g := newTestGenerator(srv.URL)
	_, err := g.Generate(context.Background(), "q")
	if !errors.Is(err, domain.ErrGeneration) {
		t.Errorf("expected ErrGeneration, got %v", err)
	}
}

func TestGenerate_ContextCancelled(t *testing.T) {
	srv := newFakeProvider(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	g := newTestGenerator(srv.URL)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Generate(ctx, "q")
	if !errors.Is(err, domain.ErrGeneration) {
		t.Errorf("expected ErrGeneration on cancelled context, got %v", err)
	}
}

func TestEmbed_ReturnsVector(t *testing.T) {
	srv := newFakeProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": [{"embedding": [0.1, 0.2, 0.3]}]}`))
	})

	e := NewEmbedder(&EmbedderConfig{
		APIKey:  "test-key",
		BaseURL: srv.URL + "/v1",
		Model:   "text-embedding-3-small",
		Logger:  zap.NewNop(),
	})

	got, err := e.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("expected 3 components, got %d", len(got))
	}
}

func TestEmbed_ProviderErrorWrapsSentinel(t *testing.T) {
	srv := newFakeProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error": {"message": "upstream down"}}`))
	})

	e := NewEmbedder(&EmbedderConfig{
		APIKey:  "test-key",
		BaseURL: srv.URL + "/v1",
		Model:   "text-embedding-3-small",
		Logger:  zap.NewNop(),
	})

	_, err := e.Embed(context.Background(), "hello")
	if !errors.Is(err, domain.ErrEmbedding) {
		t.Errorf("expected ErrEmbedding, got %v", err)
	}
}
