package upload

import (
	"context"

	"github.com/youzill/bvtc-desktop/internal/api"
	"github.com/youzill/bvtc-desktop/internal/model"
)

// StatusSource fetches upload-task snapshots. *api.Client satisfies it.
type StatusSource interface {
	CheckTask(ctx context.Context, taskID string) (*model.UploadTask, error)
}

// Backend is the slice of the API the save flow depends on. *api.Client
// satisfies it.
type Backend interface {
	CheckLogin(ctx context.Context) (bool, error)
	Playlists(ctx context.Context) ([]model.Playlist, error)
	CreateTask(ctx context.Context, req api.CreateTaskRequest) (string, error)
}
