package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/youzill/bvtc-desktop/internal/platform"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := NewClient(server.URL, 2*time.Second)
	return client, server
}

func TestGetVideoList(t *testing.T) {
	var gotQuery string
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bilibili/list" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotQuery = r.URL.RawQuery
		json.NewEncoder(w).Encode(map[string]any{
			"code": 200,
			"data": map[string]any{
				"author":     "some author",
				"list_title": "合集·test songs",
				"video_list": []map[string]string{
					{"bvid": "BV1aaa", "title": "First", "url": "https://b23.tv/1"},
					{"bvid": "BV1bbb", "title": "Second", "url": "https://b23.tv/2"},
				},
			},
		})
	}))
	defer server.Close()

	id, err := platform.ParseVideoID("BV1aaa")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	info, err := client.GetVideoList(context.Background(), id)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if gotQuery != "bvid=BV1aaa" {
		t.Errorf("Expected query bvid=BV1aaa, got %s", gotQuery)
	}
	if info.Author != "some author" {
		t.Errorf("Expected author 'some author', got %s", info.Author)
	}
	if len(info.VideoList) != 2 {
		t.Fatalf("Expected 2 videos, got %d", len(info.VideoList))
	}
	if info.Primary().Bvid != "BV1aaa" {
		t.Errorf("Expected primary BV1aaa, got %s", info.Primary().Bvid)
	}
	if info.DisplayListTitle() != "test songs" {
		t.Errorf("Expected display title 'test songs', got %s", info.DisplayListTitle())
	}
}

func TestDecode_ApplicationError(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{"code": 400, "msg": "session not found or expired"})
	}))
	defer server.Close()

	_, err := client.Playlists(context.Background())
	if err == nil {
		t.Fatal("Expected error, got nil")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *APIError, got %T", err)
	}
	if apiErr.Code != 400 {
		t.Errorf("Expected code 400, got %d", apiErr.Code)
	}
	if apiErr.Msg != "session not found or expired" {
		t.Errorf("Unexpected msg %q", apiErr.Msg)
	}
	if !IsLoginRequired(err) {
		t.Error("Expected 400 to be classified as login required")
	}
}

func TestDecode_NonEnvelopeBody(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer server.Close()

	_, err := client.CheckLogin(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *APIError, got %v", err)
	}
	if apiErr.Code != http.StatusBadGateway {
		t.Errorf("Expected code 502, got %d", apiErr.Code)
	}
}

func TestTransportTimeout(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer server.Close()

	// Client timeout far below the handler delay
	client = NewClient(server.URL, 30*time.Millisecond)

	_, err := client.CheckLogin(context.Background())
	if err == nil {
		t.Fatal("Expected timeout error, got nil")
	}
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("Expected ErrTimeout, got %v", err)
	}
}

func TestTransportNetworkError(t *testing.T) {
	// Point at a closed port
	client := NewClient("http://127.0.0.1:1", 500*time.Millisecond)

	_, err := client.CheckLogin(context.Background())
	if err == nil {
		t.Fatal("Expected network error, got nil")
	}
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("Expected ErrNetwork, got %v", err)
	}
	if IsLoginRequired(err) {
		t.Error("Transport errors must not be classified as login required")
	}
}

func TestCreateTask(t *testing.T) {
	var gotBody map[string]any
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]any{
			"code": 200,
			"data": map[string]string{"task_id": "task-123"},
		})
	}))
	defer server.Close()

	taskID, err := client.CreateTask(context.Background(), CreateTaskRequest{
		Bvid:      []string{"BV1aaa"},
		Splaylist: true,
		Pid:       42,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if taskID != "task-123" {
		t.Errorf("Expected task-123, got %s", taskID)
	}
	if gotBody["splaylist"] != true {
		t.Error("Expected splaylist true in request body")
	}
	if gotBody["pid"] != float64(42) {
		t.Errorf("Expected pid 42 in request body, got %v", gotBody["pid"])
	}
	if _, present := gotBody["titleOverride"]; present {
		t.Error("titleOverride must be omitted when not set")
	}
}

func TestCheckTask(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bilibili/checktask/task-123" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"code": 200,
			"data": map[string]any{
				"id":       "task-123",
				"status":   "running",
				"progress": 45,
				"total":    2,
			},
		})
	}))
	defer server.Close()

	task, err := client.CheckTask(context.Background(), "task-123")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if task.Progress != 45 {
		t.Errorf("Expected progress 45, got %d", task.Progress)
	}
	if got := task.TaskStatusValue(); got.String() != "processing" {
		t.Errorf("Expected wire status running to normalize to processing, got %s", got)
	}
}

func TestSuggestStreamURL(t *testing.T) {
	client := NewClient("http://localhost:8080/bvtc/api/", time.Second)

	url := client.SuggestStreamURL([]string{"BV1aaa", "BV1bbb"})
	want := "http://localhost:8080/bvtc/api/bilibili/suggest-title-batch/stream?bvids=BV1aaa%2CBV1bbb"
	if url != want {
		t.Errorf("SuggestStreamURL = %s, expected %s", url, want)
	}
}
