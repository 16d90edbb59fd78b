package api

import (
	"context"
	"net/url"
	"strings"

	"github.com/youzill/bvtc-desktop/internal/model"
	"github.com/youzill/bvtc-desktop/internal/platform"
)

// CreateTaskRequest is the task-creation payload. Pid is omitted for
// cloud-disk-only uploads; TitleOverride is omitted entirely when original
// titles are kept.
type CreateTaskRequest struct {
	Bvid          []string          `json:"bvid"`
	Splaylist     bool              `json:"splaylist"`
	Pid           int64             `json:"pid,omitempty"`
	TitleOverride map[string]string `json:"titleOverride,omitempty"`
}

// GetVideoList fetches the collection a video belongs to
func (c *Client) GetVideoList(ctx context.Context, id platform.VideoID) (*model.VideoInfo, error) {
	key, value := id.Query()
	resp, err := c.rc.R().
		SetContext(ctx).
		SetQueryParam(key, value).
		Get("/bilibili/list")
	if err != nil {
		return nil, classifyTransport(err)
	}

	var info model.VideoInfo
	if err := decode(resp, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// CreateTask submits an upload task and returns its backend task ID
func (c *Client) CreateTask(ctx context.Context, req CreateTaskRequest) (string, error) {
	resp, err := c.rc.R().
		SetContext(ctx).
		SetBody(req).
		Post("/bilibili/createtask")
	if err != nil {
		return "", classifyTransport(err)
	}

	var data struct {
		TaskID string `json:"task_id"`
	}
	if err := decode(resp, &data); err != nil {
		return "", err
	}
	return data.TaskID, nil
}

// CheckTask fetches the current snapshot of an upload task
func (c *Client) CheckTask(ctx context.Context, taskID string) (*model.UploadTask, error) {
	resp, err := c.rc.R().
		SetContext(ctx).
		SetPathParam("taskId", taskID).
		Get("/bilibili/checktask/{taskId}")
	if err != nil {
		return nil, classifyTransport(err)
	}

	var task model.UploadTask
	if err := decode(resp, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// SuggestStreamURL builds the absolute URL of the SSE title-suggestion
// stream for a batch of bvids
func (c *Client) SuggestStreamURL(bvids []string) string {
	q := url.Values{}
	q.Set("bvids", strings.Join(bvids, ","))
	return c.baseURL + "/bilibili/suggest-title-batch/stream?" + q.Encode()
}
