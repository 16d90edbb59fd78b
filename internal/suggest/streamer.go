package suggest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/r3labs/sse/v2"
	backoff "gopkg.in/cenkalti/backoff.v1"

	"github.com/youzill/bvtc-desktop/internal/logging"
)

// progressEvent is the payload of one "progress" SSE event
type progressEvent struct {
	Bvid           string `json:"bvid"`
	SuggestedTitle string `json:"suggestedTitle"`
	Error          string `json:"error"`
}

// SSE event names emitted by the backend
const (
	eventOpen     = "open"
	eventPing     = "ping"
	eventProgress = "progress"
	eventDone     = "done"
)

// ErrStreamEnded means the connection closed before the done event and the
// reconnect budget ran out
var ErrStreamEnded = errors.New("suggestion stream ended before completion")

// URLBuilder turns a batch of bvids into the absolute stream URL.
// api.Client.SuggestStreamURL satisfies it.
type URLBuilder func(bvids []string) string

// Streamer opens one SSE connection per batch and folds suggestions into
// the caller via a callback. A single Streamer is reusable but not meant to
// run concurrent batches; the UI gates re-entry with its suggesting flag.
type Streamer struct {
	urlFor       URLBuilder
	httpClient   *http.Client
	maxReconnect time.Duration
}

// NewStreamer creates a streamer. httpClient should share the API client's
// cookie jar so the stream is authenticated; maxReconnect bounds the total
// time spent re-establishing a dropped connection.
func NewStreamer(urlFor URLBuilder, httpClient *http.Client, maxReconnect time.Duration) *Streamer {
	return &Streamer{
		urlFor:       urlFor,
		httpClient:   httpClient,
		maxReconnect: maxReconnect,
	}
}

// Stream requests suggested titles for the given bvids and calls apply for
// every non-empty suggestion as it arrives. Later events for the same bvid
// overwrite earlier ones on the apply side. Per-item errors are logged and
// do not abort the stream. Stream returns nil once the done event arrived,
// ctx.Err() on caller cancellation, and ErrStreamEnded (or the transport
// error) otherwise.
func (s *Streamer) Stream(ctx context.Context, bvids []string, apply func(bvid, title string)) error {
	if len(bvids) == 0 {
		return errors.New("no bvids to suggest titles for")
	}

	streamURL := s.urlFor(bvids)
	logging.Logger.Info("opening suggestion stream",
		logging.Int("batch", len(bvids)),
		logging.String("url", streamURL))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var done atomic.Bool

	client := sse.NewClient(streamURL)
	client.Connection = s.httpClient
	client.ReconnectStrategy = &boundedRetry{
		inner: newExponential(s.maxReconnect),
		ctx:   ctx,
		done:  &done,
	}

	err := client.SubscribeRawWithContext(ctx, func(msg *sse.Event) {
		switch string(msg.Event) {
		case eventOpen, eventPing:
			// Keep-alive chatter, nothing to fold
		case eventProgress:
			var ev progressEvent
			if jsonErr := json.Unmarshal(msg.Data, &ev); jsonErr != nil {
				logging.Logger.Warn("undecodable progress event", logging.Err(jsonErr))
				return
			}
			if ev.Error != "" {
				// Non-fatal: this item falls back to its original title
				logging.Logger.Warn("suggestion failed for item",
					logging.String("bvid", ev.Bvid),
					logging.String("error", ev.Error))
				return
			}
			if ev.SuggestedTitle != "" {
				apply(ev.Bvid, ev.SuggestedTitle)
			}
		case eventDone:
			done.Store(true)
			// The backend closes the connection after done; cancel guards
			// against servers that leave it open
			cancel()
		}
	})

	if done.Load() {
		logging.Logger.Info("suggestion stream completed")
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStreamEnded, err)
	}
	return ErrStreamEnded
}

func newExponential(maxElapsed time.Duration) *backoff.ExponentialBackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxInterval = 10 * time.Second
	bo.MaxElapsedTime = maxElapsed
	return bo
}

// boundedRetry stops reconnecting once the stream has delivered its done
// event or the caller has gone away, and otherwise defers to a bounded
// exponential backoff
type boundedRetry struct {
	inner backoff.BackOff
	ctx   context.Context
	done  *atomic.Bool
}

func (b *boundedRetry) NextBackOff() time.Duration {
	if b.done.Load() || b.ctx.Err() != nil {
		return backoff.Stop
	}
	return b.inner.NextBackOff()
}

func (b *boundedRetry) Reset() {
	b.inner.Reset()
}
