package suggest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

func sseHandler(t *testing.T, events []string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.RawQuery, "bvids=") {
			t.Errorf("stream request missing bvids query: %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		flusher, ok := w.(http.Flusher)
		if !ok {
			t.Fatal("httptest response writer must support flushing")
		}
		for _, ev := range events {
			fmt.Fprint(w, ev)
			flusher.Flush()
		}
	}
}

func newTestStreamer(server *httptest.Server) *Streamer {
	urlFor := func(bvids []string) string {
		return server.URL + "/stream?bvids=" + strings.Join(bvids, ",")
	}
	return NewStreamer(urlFor, server.Client(), 2*time.Second)
}

func TestStreamAppliesSuggestionsBeforeDone(t *testing.T) {
	server := httptest.NewServer(sseHandler(t, []string{
		"event: open\ndata: {\"message\":\"stream started\"}\n\n",
		"event: progress\ndata: {\"bvid\":\"B1\",\"suggestedTitle\":\"Title One\"}\n\n",
		"event: ping\ndata: {\"t\":1}\n\n",
		"event: progress\ndata: {\"bvid\":\"B2\",\"suggestedTitle\":\"Title Two\"}\n\n",
		"event: done\ndata: {\"message\":\"completed\"}\n\n",
	}))
	defer server.Close()

	var mu sync.Mutex
	applied := make(map[string]string)

	streamer := newTestStreamer(server)
	err := streamer.Stream(context.Background(), []string{"B1", "B2"}, func(bvid, title string) {
		mu.Lock()
		defer mu.Unlock()
		applied[bvid] = title
	})
	if err != nil {
		t.Fatalf("Expected clean completion, got %v", err)
	}

	// Both suggestions must be applied by the time Stream returns
	mu.Lock()
	defer mu.Unlock()
	if applied["B1"] != "Title One" {
		t.Errorf("Expected B1 -> Title One, got %q", applied["B1"])
	}
	if applied["B2"] != "Title Two" {
		t.Errorf("Expected B2 -> Title Two, got %q", applied["B2"])
	}
}

func TestStreamLaterEventOverwrites(t *testing.T) {
	server := httptest.NewServer(sseHandler(t, []string{
		"event: progress\ndata: {\"bvid\":\"B1\",\"suggestedTitle\":\"Draft\"}\n\n",
		"event: progress\ndata: {\"bvid\":\"B1\",\"suggestedTitle\":\"Final\"}\n\n",
		"event: done\ndata: {}\n\n",
	}))
	defer server.Close()

	var mu sync.Mutex
	applied := make(map[string]string)

	streamer := newTestStreamer(server)
	err := streamer.Stream(context.Background(), []string{"B1"}, func(bvid, title string) {
		mu.Lock()
		defer mu.Unlock()
		applied[bvid] = title
	})
	if err != nil {
		t.Fatalf("Expected clean completion, got %v", err)
	}
	if applied["B1"] != "Final" {
		t.Errorf("Later event must overwrite earlier one, got %q", applied["B1"])
	}
}

func TestStreamItemErrorDoesNotAbort(t *testing.T) {
	server := httptest.NewServer(sseHandler(t, []string{
		"event: progress\ndata: {\"bvid\":\"B1\",\"error\":\"AI unavailable\"}\n\n",
		"event: progress\ndata: {\"bvid\":\"B2\",\"suggestedTitle\":\"Kept Going\"}\n\n",
		"event: done\ndata: {}\n\n",
	}))
	defer server.Close()

	var mu sync.Mutex
	applied := make(map[string]string)

	streamer := newTestStreamer(server)
	err := streamer.Stream(context.Background(), []string{"B1", "B2"}, func(bvid, title string) {
		mu.Lock()
		defer mu.Unlock()
		applied[bvid] = title
	})
	if err != nil {
		t.Fatalf("Per-item error must be non-fatal, got %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if _, ok := applied["B1"]; ok {
		t.Error("Errored item must not receive an override")
	}
	if applied["B2"] != "Kept Going" {
		t.Errorf("Expected B2 -> Kept Going, got %q", applied["B2"])
	}
}

func TestStreamEmptyBatchRejected(t *testing.T) {
	streamer := NewStreamer(func([]string) string { return "http://unused" }, http.DefaultClient, time.Second)

	err := streamer.Stream(context.Background(), nil, func(string, string) {})
	if err == nil {
		t.Fatal("Expected error for empty batch")
	}
}

func TestStreamEndsWithoutDone(t *testing.T) {
	// Server closes the stream without ever sending done
	server := httptest.NewServer(sseHandler(t, []string{
		"event: progress\ndata: {\"bvid\":\"B1\",\"suggestedTitle\":\"Partial\"}\n\n",
	}))
	defer server.Close()

	urlFor := func(bvids []string) string {
		return server.URL + "/stream?bvids=" + strings.Join(bvids, ",")
	}
	// Tight reconnect budget keeps the test fast
	streamer := NewStreamer(urlFor, server.Client(), 100*time.Millisecond)

	err := streamer.Stream(context.Background(), []string{"B1"}, func(string, string) {})
	if err == nil {
		t.Fatal("Expected error when stream ends without done")
	}
	if !errors.Is(err, ErrStreamEnded) {
		t.Errorf("Expected ErrStreamEnded, got %v", err)
	}
}

func TestStreamCallerCancellation(t *testing.T) {
	block := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		fmt.Fprint(w, "event: open\ndata: {}\n\n")
		flusher.Flush()
		<-block
	}))
	defer server.Close()
	defer close(block)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	streamer := newTestStreamer(server)
	errCh := make(chan error, 1)
	go func() {
		errCh <- streamer.Stream(ctx, []string{"B1"}, func(string, string) {})
	}()

	select {
	case err := <-errCh:
		if err == nil {
			t.Error("Cancelled stream must not report clean completion")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Stream did not return after caller cancellation")
	}
}
