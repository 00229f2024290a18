package classifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCompatProviderComplete(t *testing.T) {
	var gotAuth string
	var gotPayload map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotPayload)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"industry\":\"Cement\",\"confidence\":0.8}"}}]}`))
	}))
	defer srv.Close()

	p, err := NewCompatProvider(srv.URL, "test-model", "sk-test")
	if err != nil {
		t.Fatalf("NewCompatProvider error: %v", err)
	}

	out, err := p.Complete(context.Background(), "system text", "user text")
	if err != nil {
		t.Fatalf("Complete error: %v", err)
	}
	if out != `{"industry":"Cement","confidence":0.8}` {
		t.Fatalf("content = %q", out)
	}
	if gotAuth != "Bearer sk-test" {
		t.Fatalf("auth header = %q", gotAuth)
	}
	if gotPayload["model"] != "test-model" {
		t.Fatalf("model = %v", gotPayload["model"])
	}
	msgs := gotPayload["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("messages = %v", msgs)
	}
}

func TestCompatProviderErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": "rate limited"}`))
	}))
	defer srv.Close()

	p, _ := NewCompatProvider(srv.URL, "m", "k")
	if _, err := p.Complete(context.Background(), "s", "u"); err == nil {
		t.Fatalf("expected error on 429 response")
	}
}

func TestCompatProviderRejectsIncompleteConfig(t *testing.T) {
	if _, err := NewCompatProvider("", "m", "k"); err == nil {
		t.Fatalf("missing endpoint should be rejected")
	}
	if _, err := NewCompatProvider("http://x", "", "k"); err == nil {
		t.Fatalf("missing model should be rejected")
	}
	if _, err := NewCompatProvider("http://x", "m", ""); err == nil {
		t.Fatalf("missing api key should be rejected")
	}
}
