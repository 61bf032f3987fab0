package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/akhellaf/deskpilot/internal/ports"
)

func TestGeneratePostsPromptAndModel(t *testing.T) {
	var got generatePayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"response": "hello there"})
	}))
	defer server.Close()

	client := NewOllamaClient(server.URL, "llama3.2", server.Client())
	out, err := client.Generate(context.Background(), ports.GenerateRequest{
		Prompt: "say hi",
		System: "be brief",
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if out != "hello there" {
		t.Fatalf("unexpected response %q", out)
	}
	if got.Model != "llama3.2" || got.Prompt != "say hi" || got.System != "be brief" {
		t.Fatalf("unexpected payload %+v", got)
	}
	if got.Stream {
		t.Fatal("expected non-streaming request")
	}
}

func TestGenerateSurfacesServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	client := NewOllamaClient(server.URL, "llama3.2", server.Client())
	if _, err := client.Generate(context.Background(), ports.GenerateRequest{Prompt: "x"}); err == nil {
		t.Fatal("expected error from 404 response")
	}
}

func TestAvailableProbesTags(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewOllamaClient(server.URL, "llama3.2", server.Client())
	if !client.Available(context.Background()) {
		t.Fatal("expected endpoint to be available")
	}

	down := NewOllamaClient("http://127.0.0.1:1", "llama3.2", nil)
	if down.Available(context.Background()) {
		t.Fatal("expected unreachable endpoint to be unavailable")
	}
}
