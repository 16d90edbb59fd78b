package upload

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/youzill/bvtc-desktop/internal/logging"
	"github.com/youzill/bvtc-desktop/internal/model"
)

// PollState is the poller's own state machine, driven exclusively by
// responses from the status endpoint
type PollState int

const (
	// PollIdle means no task is being followed
	PollIdle PollState = iota
	// PollPending means the task was created and awaits its first progress
	PollPending
	// PollProcessing means the backend reported the task as in flight
	PollProcessing
	// PollCompleted means the task reached its successful terminal state
	PollCompleted
	// PollFailed means the task failed, timed out backend-side, or a status
	// query failed (a single failed query ends the poll, no retry)
	PollFailed
)

// String returns the display name of the state
func (ps PollState) String() string {
	switch ps {
	case PollIdle:
		return "Idle"
	case PollPending:
		return "Pending"
	case PollProcessing:
		return "Processing"
	case PollCompleted:
		return "Completed"
	case PollFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// IsTerminal returns true when the poll loop has finished
func (ps PollState) IsTerminal() bool {
	return ps == PollCompleted || ps == PollFailed
}

// Snapshot is what observers receive on every state change
type Snapshot struct {
	State    PollState
	Progress int               // 0 to 100
	Task     *model.UploadTask // last backend snapshot, nil before the first poll
	Err      string            // user-facing failure description when State is PollFailed
}

// ErrAlreadyPolling is returned by Start while a poll loop is active
var ErrAlreadyPolling = errors.New("a task is already being polled")

// Generic failure text when a status query itself fails
const statusQueryFailedMsg = "status query failed"

// Poller follows one upload task at a fixed interval until a terminal
// state. One timer at most is active per Poller; Stop is idempotent and
// also runs on any terminal transition, so the timer is always released
// exactly once.
type Poller struct {
	source   StatusSource
	interval time.Duration
	onUpdate func(Snapshot)

	mu     sync.Mutex
	state  PollState
	last   Snapshot
	cancel context.CancelFunc // non-nil while the loop goroutine is alive
}

// NewPoller creates a poller querying source every interval
func NewPoller(source StatusSource, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Poller{
		source:   source,
		interval: interval,
		state:    PollIdle,
	}
}

// SetUpdateCallback sets the callback invoked on every state change. The
// callback runs on the poll goroutine; UI code is expected to marshal onto
// its own thread.
func (p *Poller) SetUpdateCallback(cb func(Snapshot)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onUpdate = cb
}

// State returns the current poll state
func (p *Poller) State() PollState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Start begins polling the given task. Only one poll loop may be active at
// a time; a second Start while one runs returns ErrAlreadyPolling.
func (p *Poller) Start(taskID string) error {
	p.mu.Lock()
	if p.cancel != nil {
		p.mu.Unlock()
		return ErrAlreadyPolling
	}
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.state = PollPending
	p.last = Snapshot{State: PollPending}
	cb := p.onUpdate
	snap := p.last
	p.mu.Unlock()

	runID := uuid.NewString()
	logging.Logger.Info("poll loop started",
		logging.String("task_id", taskID),
		logging.String("run_id", runID))

	if cb != nil {
		cb(snap)
	}
	go p.run(ctx, taskID, runID)
	return nil
}

// Stop tears the poll loop down. Calling it on an idle or already-stopped
// poller is a no-op.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	p.cancel = nil
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

func (p *Poller) run(ctx context.Context, taskID, runID string) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if terminal := p.pollOnce(ctx, taskID, runID); terminal {
				p.Stop()
				return
			}
		}
	}
}

// pollOnce issues a single status query and applies the resulting
// transition. Returns true when the loop must end.
func (p *Poller) pollOnce(ctx context.Context, taskID, runID string) bool {
	task, err := p.source.CheckTask(ctx, taskID)

	// A response that raced with teardown must not mutate state
	if ctx.Err() != nil {
		return true
	}

	if err != nil {
		logging.Logger.Error("status query failed, ending poll",
			logging.String("task_id", taskID),
			logging.String("run_id", runID),
			logging.Err(err))
		p.transition(Snapshot{State: PollFailed, Err: failureText(err)})
		return true
	}

	switch task.TaskStatusValue() {
	case model.TaskStatusPending:
		p.transition(Snapshot{State: PollPending, Progress: task.ClampedProgress(), Task: task})
		return false
	case model.TaskStatusCompleted:
		logging.Logger.Info("task completed",
			logging.String("task_id", taskID),
			logging.Int("success", len(task.Success)),
			logging.Int("failed", len(task.Failed)))
		p.transition(Snapshot{State: PollCompleted, Progress: 100, Task: task})
		return true
	case model.TaskStatusFailed, model.TaskStatusOuttime:
		p.transition(Snapshot{
			State:    PollFailed,
			Progress: task.ClampedProgress(),
			Task:     task,
			Err:      taskFailureText(task),
		})
		return true
	default:
		p.transition(Snapshot{State: PollProcessing, Progress: task.ClampedProgress(), Task: task})
		return false
	}
}

func (p *Poller) transition(snap Snapshot) {
	p.mu.Lock()
	p.state = snap.State
	p.last = snap
	cb := p.onUpdate
	p.mu.Unlock()

	if cb != nil {
		cb(snap)
	}
}

func failureText(err error) string {
	return fmt.Sprintf("%s: %v", statusQueryFailedMsg, err)
}

func taskFailureText(task *model.UploadTask) string {
	if task.Error != "" {
		return task.Error
	}
	if task.TaskStatusValue() == model.TaskStatusOuttime {
		return "task timed out on the server"
	}
	return "task failed"
}
