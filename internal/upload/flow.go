package upload

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/youzill/bvtc-desktop/internal/api"
	"github.com/youzill/bvtc-desktop/internal/logging"
	"github.com/youzill/bvtc-desktop/internal/model"
)

// Flow-level sentinel errors the UI branches on
var (
	// ErrNoSelection means the save action ran with nothing selected
	ErrNoSelection = errors.New("no videos selected")
	// ErrLoginRequired means the NetEase session is missing or expired and
	// the user must be sent to the login view
	ErrLoginRequired = errors.New("netease login required")
)

// Flow sequences the save steps that precede polling: selection check,
// login check, playlist fetch, and task creation. Each step gates the next.
type Flow struct {
	backend Backend
	flowID  string
}

// NewFlow creates a save flow over the given backend
func NewFlow(backend Backend) *Flow {
	return &Flow{
		backend: backend,
		flowID:  uuid.NewString(),
	}
}

// Prepare validates the selection, verifies the login state and fetches the
// playlist choices. The returned list always starts with the synthetic
// cloud-disk-only entry. ErrLoginRequired covers a failed login check as
// well as a playlist fetch rejected for a dead session or lost transport.
func (f *Flow) Prepare(ctx context.Context, selected []string) ([]model.Playlist, error) {
	if len(selected) == 0 {
		return nil, ErrNoSelection
	}

	loggedIn, err := f.backend.CheckLogin(ctx)
	if err != nil || !loggedIn {
		logging.Logger.Info("login check negative, prompting login",
			logging.String("flow_id", f.flowID),
			logging.Err(err))
		return nil, ErrLoginRequired
	}

	playlists, err := f.backend.Playlists(ctx)
	if err != nil {
		if api.IsLoginRequired(err) || errors.Is(err, api.ErrNetwork) || errors.Is(err, api.ErrTimeout) {
			return nil, ErrLoginRequired
		}
		return nil, err
	}

	return append([]model.Playlist{model.CloudOnly()}, playlists...), nil
}

// Submit creates the upload task and returns its backend ID for polling
func (f *Flow) Submit(ctx context.Context, req api.CreateTaskRequest) (string, error) {
	taskID, err := f.backend.CreateTask(ctx, req)
	if err != nil {
		logging.Logger.Error("task creation failed",
			logging.String("flow_id", f.flowID),
			logging.Err(err))
		return "", err
	}
	logging.Logger.Info("task created",
		logging.String("flow_id", f.flowID),
		logging.String("task_id", taskID),
		logging.Int("videos", len(req.Bvid)))
	return taskID, nil
}

// BuildCreateRequest resolves the final task-creation payload. Keeping
// original titles omits the titleOverride field entirely; the customize
// mode sends exactly the overrides belonging to selected videos.
func BuildCreateRequest(selected []string, playlist model.Playlist, useOriginalTitles bool, overrides map[string]string) api.CreateTaskRequest {
	req := api.CreateTaskRequest{
		Bvid:      selected,
		Splaylist: !playlist.IsCloudOnly(),
		Pid:       playlist.Pid,
	}
	if useOriginalTitles {
		return req
	}

	resolved := make(map[string]string, len(overrides))
	for _, bvid := range selected {
		if title, ok := overrides[bvid]; ok && title != "" {
			resolved[bvid] = title
		}
	}
	if len(resolved) > 0 {
		req.TitleOverride = resolved
	}
	return req
}
