package upload

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/youzill/bvtc-desktop/internal/api"
	"github.com/youzill/bvtc-desktop/internal/model"
)

// fakeBackend scripts the three flow endpoints
type fakeBackend struct {
	loggedIn     bool
	loginErr     error
	playlists    []model.Playlist
	playlistsErr error
	taskID       string
	createErr    error
	lastRequest  api.CreateTaskRequest
}

func (f *fakeBackend) CheckLogin(ctx context.Context) (bool, error) {
	return f.loggedIn, f.loginErr
}

func (f *fakeBackend) Playlists(ctx context.Context) ([]model.Playlist, error) {
	return f.playlists, f.playlistsErr
}

func (f *fakeBackend) CreateTask(ctx context.Context, req api.CreateTaskRequest) (string, error) {
	f.lastRequest = req
	return f.taskID, f.createErr
}

func TestPrepareEmptySelection(t *testing.T) {
	flow := NewFlow(&fakeBackend{loggedIn: true})

	_, err := flow.Prepare(context.Background(), nil)
	if !errors.Is(err, ErrNoSelection) {
		t.Errorf("Expected ErrNoSelection, got %v", err)
	}
}

func TestPrepareNotLoggedIn(t *testing.T) {
	flow := NewFlow(&fakeBackend{loggedIn: false})

	_, err := flow.Prepare(context.Background(), []string{"BV1aaa"})
	if !errors.Is(err, ErrLoginRequired) {
		t.Errorf("Expected ErrLoginRequired, got %v", err)
	}
}

func TestPrepareLoginCheckTransportError(t *testing.T) {
	flow := NewFlow(&fakeBackend{loginErr: fmt.Errorf("%w: refused", api.ErrNetwork)})

	_, err := flow.Prepare(context.Background(), []string{"BV1aaa"})
	if !errors.Is(err, ErrLoginRequired) {
		t.Errorf("Expected ErrLoginRequired on login-check failure, got %v", err)
	}
}

func TestPreparePlaylistSessionExpired(t *testing.T) {
	// Backend answers the playlist fetch with an envelope code 400
	flow := NewFlow(&fakeBackend{
		loggedIn:     true,
		playlistsErr: &api.APIError{Code: 400, Msg: "session not found or expired"},
	})

	_, err := flow.Prepare(context.Background(), []string{"BV1aaa"})
	if !errors.Is(err, ErrLoginRequired) {
		t.Errorf("Expected ErrLoginRequired for playlist 400, got %v", err)
	}
}

func TestPreparePlaylistServerError(t *testing.T) {
	flow := NewFlow(&fakeBackend{
		loggedIn:     true,
		playlistsErr: &api.APIError{Code: 500, Msg: "boom"},
	})

	_, err := flow.Prepare(context.Background(), []string{"BV1aaa"})
	if errors.Is(err, ErrLoginRequired) {
		t.Error("A 500 playlist failure must not be treated as a login problem")
	}
	if err == nil {
		t.Error("Expected the server error to propagate")
	}
}

func TestPreparePrependsCloudOnly(t *testing.T) {
	flow := NewFlow(&fakeBackend{
		loggedIn: true,
		playlists: []model.Playlist{
			{Pid: 11, PName: "Favorites"},
			{Pid: 22, PName: "Workout"},
		},
	})

	playlists, err := flow.Prepare(context.Background(), []string{"BV1aaa"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(playlists) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(playlists))
	}
	if !playlists[0].IsCloudOnly() {
		t.Error("Expected the first entry to be the cloud-only pseudo playlist")
	}
	if playlists[1].Pid != 11 || playlists[2].Pid != 22 {
		t.Errorf("Expected fetched playlists to keep their order, got %+v", playlists[1:])
	}
}

func TestBuildCreateRequestKeepOriginal(t *testing.T) {
	req := BuildCreateRequest(
		[]string{"B1", "B2"},
		model.Playlist{Pid: 7, PName: "Mix"},
		true,
		map[string]string{"B1": "Should Not Appear"},
	)

	if req.TitleOverride != nil {
		t.Error("Keep-original mode must not send a titleOverride field")
	}
	if !req.Splaylist || req.Pid != 7 {
		t.Errorf("Expected splaylist=true pid=7, got splaylist=%v pid=%d", req.Splaylist, req.Pid)
	}
	if len(req.Bvid) != 2 {
		t.Errorf("Expected 2 bvids, got %v", req.Bvid)
	}
}

func TestBuildCreateRequestCustomize(t *testing.T) {
	req := BuildCreateRequest(
		[]string{"B1", "B2"},
		model.CloudOnly(),
		false,
		map[string]string{
			"B1": "X",
			"B3": "Unselected, must be dropped",
		},
	)

	if req.Splaylist {
		t.Error("Cloud-only upload must have splaylist=false")
	}
	if req.Pid != 0 {
		t.Errorf("Cloud-only upload must omit pid, got %d", req.Pid)
	}
	if len(req.TitleOverride) != 1 || req.TitleOverride["B1"] != "X" {
		t.Errorf("Expected exactly {B1: X}, got %v", req.TitleOverride)
	}
}

func TestBuildCreateRequestCustomizeNoOverrides(t *testing.T) {
	req := BuildCreateRequest([]string{"B1"}, model.CloudOnly(), false, nil)

	if req.TitleOverride != nil {
		t.Error("Customize mode with no overrides must omit titleOverride")
	}
}

func TestSubmit(t *testing.T) {
	backend := &fakeBackend{loggedIn: true, taskID: "task-9"}
	flow := NewFlow(backend)

	req := BuildCreateRequest([]string{"B1"}, model.Playlist{Pid: 5, PName: "P"}, true, nil)
	taskID, err := flow.Submit(context.Background(), req)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if taskID != "task-9" {
		t.Errorf("Expected task-9, got %s", taskID)
	}
	if backend.lastRequest.Pid != 5 {
		t.Errorf("Expected the built request to reach the backend, got %+v", backend.lastRequest)
	}
}

func TestSubmitFailure(t *testing.T) {
	flow := NewFlow(&fakeBackend{createErr: &api.APIError{Code: 500, Msg: "task pool full"}})

	_, err := flow.Submit(context.Background(), api.CreateTaskRequest{Bvid: []string{"B1"}})
	if err == nil {
		t.Fatal("Expected task creation failure to propagate")
	}
}
