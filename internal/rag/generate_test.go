package rag

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOllamaGenerator(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req ollamaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal(err)
		}
		if req.Stream {
			t.Error("stream should be false")
		}
		if req.Model != "llama3.2:1b" {
			t.Errorf("model = %q", req.Model)
		}
		json.NewEncoder(w).Encode(ollamaResponse{Response: "eat balanced meals ### trailing"})
	}))
	defer srv.Close()

	g := NewOllamaGenerator(srv.URL, "llama3.2:1b", GenerateOptions{})
	got, err := g.Generate(context.Background(), "prompt text")
	if err != nil {
		t.Fatal(err)
	}
	if got != "eat balanced meals" {
		t.Errorf("got %q", got)
	}
}

func TestOllamaGeneratorServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	g := NewOllamaGenerator(srv.URL, "llama3.2:1b", GenerateOptions{})
	if _, err := g.Generate(context.Background(), "prompt"); err == nil {
		t.Error("expected error on 500")
	}
}

func TestHuggingFaceGenerator(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/models/") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-token" {
			t.Errorf("authorization = %q", auth)
		}
		json.NewEncoder(w).Encode([]map[string]string{{"generated_text": "a helpful answer"}})
	}))
	defer srv.Close()

	g := NewHuggingFaceGenerator(srv.URL, "google/flan-t5-small", "test-token", GenerateOptions{})
	got, err := g.Generate(context.Background(), "prompt text")
	if err != nil {
		t.Fatal(err)
	}
	if got != "a helpful answer" {
		t.Errorf("got %q", got)
	}
}

func TestHuggingFaceGeneratorNoCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]string{})
	}))
	defer srv.Close()

	g := NewHuggingFaceGenerator(srv.URL, "some/model", "", GenerateOptions{})
	if _, err := g.Generate(context.Background(), "prompt"); err == nil {
		t.Error("expected error for empty candidate list")
	}
}

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt(StyleNutritionExpert, "CTX", "Q")
	if !strings.Contains(p, "CTX") || !strings.Contains(p, "Q") {
		t.Error("prompt missing context or query")
	}
	if !strings.Contains(p, "expert nutritionist") {
		t.Error("wrong template for nutrition expert style")
	}

	fallback := BuildPrompt("bogus", "CTX", "Q")
	if !strings.Contains(fallback, "nutrition assistant") {
		t.Error("unknown style should use the simple assistant template")
	}
}
