package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"echonotes/ai-backend/types"
)

func testClient(srv *httptest.Server) *Client {
	return &Client{
		APIKey:     "test-key",
		BaseURL:    srv.URL + "/models/test",
		HTTPClient: &http.Client{Timeout: 5 * time.Second},
	}
}

func TestClientGenerate_ExtractsText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"candidates":[{"content":{"parts":[{"text":"{\"ok\":true}"}]}}]}`)
	}))
	defer srv.Close()

	text, err := testClient(srv).Generate(context.Background(), "prompt", nil)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if text != `{"ok":true}` {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestClientGenerate_Non200IsBackendUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := testClient(srv).Generate(context.Background(), "prompt", nil)
	if !errors.Is(err, ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable, got %v", err)
	}
}

func TestClientGenerateStream_ParsesSSEAndGrounding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"candidates\":[{\"content\":{\"parts\":[{\"text\":\"Hello \"}]}}]}\n\n")
		fmt.Fprint(w, "data: {\"candidates\":[{\"content\":{\"parts\":[{\"text\":\"world\"}]},\"groundingMetadata\":{\"groundingChunks\":[{\"web\":{\"uri\":\"https://a.com\",\"title\":\"A\"}}]}}]}\n\n")
	}))
	defer srv.Close()

	chunks, errs := testClient(srv).GenerateStream(context.Background(), "prompt", true)

	var got []types.StreamChunk
	for c := range chunks {
		got = append(got, c)
	}
	if err := <-errs; err != nil {
		t.Fatalf("unexpected stream error: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 chunks, got %d: %+v", len(got), got)
	}
	if got[0].Text != "Hello " || got[1].Text != "world" {
		t.Fatalf("unexpected chunk text: %+v", got)
	}
	if len(got[1].WebSources) != 1 || got[1].WebSources[0].URI != "https://a.com" {
		t.Fatalf("grounding metadata not carried: %+v", got[1].WebSources)
	}
}

func TestClientGenerateStream_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	chunks, errs := testClient(srv).GenerateStream(context.Background(), "prompt", false)
	for range chunks {
	}
	if err := <-errs; !errors.Is(err, ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable, got %v", err)
	}
}
