package tasks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/timeblock-app/timeblock-backend/pkg/logger"
)

// TriggerReason says what kind of change requested a reconciliation
type TriggerReason string

// The reasons a reconciliation can be triggered for
const (
	TriggerTaskChanged     TriggerReason = "task-changed"
	TriggerEventChanged    TriggerReason = "event-changed"
	TriggerScheduleChanged TriggerReason = "schedule-changed"
	TriggerVisibility      TriggerReason = "visibility-regained"
	TriggerManual          TriggerReason = "manual"
)

// The default timing of the reconciliation controller
const (
	DefaultDebounceWindow   = time.Second
	DefaultThrottleInterval = time.Second * 5
)

// Reconciler coalesces change notifications for one user into reconciliation
// runs. Triggers inside the debounce window collapse into one evaluation;
// evaluations that would run too soon after the previous run are pushed back
// by the throttle; a trigger arriving while a run executes is dropped, since
// the running cycle fetches fresh state anyway.
type Reconciler struct {
	userID  string
	service *PlanningService
	logger  logger.Interface

	debounceWindow   time.Duration
	throttleInterval time.Duration

	mu         sync.Mutex
	timer      *time.Timer
	running    bool
	stopped    bool
	lastRunAt  time.Time
	lastReport *RunReport
}

// NewReconciler initializes a Reconciler for a single user
func NewReconciler(userID string, service *PlanningService, logger logger.Interface, debounceWindow time.Duration, throttleInterval time.Duration) *Reconciler {
	if debounceWindow <= 0 {
		debounceWindow = DefaultDebounceWindow
	}
	if throttleInterval <= 0 {
		throttleInterval = DefaultThrottleInterval
	}

	return &Reconciler{
		userID:           userID,
		service:          service,
		logger:           logger,
		debounceWindow:   debounceWindow,
		throttleInterval: throttleInterval,
	}
}

// Trigger notifies the reconciler that something schedule-relevant changed.
// It returns immediately; the evaluation happens after the debounce window,
// and every further trigger inside the window restarts it.
func (r *Reconciler) Trigger(reason TriggerReason) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped {
		return
	}

	r.logger.Debug(fmt.Sprintf("reconciliation triggered for user %s: %s", r.userID, reason))

	// A change notification means the cached snapshot no longer reflects the
	// stored state, so the check path has to load fresh
	if reason != TriggerManual {
		r.service.InvalidateSnapshot(context.Background(), r.userID)
	}

	if r.timer != nil {
		r.timer.Stop()
	}

	r.timer = time.AfterFunc(r.debounceWindow, r.evaluate)
}

// evaluate is the debounced path: a cheap in-memory check against the cached
// snapshot first, then the throttle, then the actual run. A snapshot loaded
// fresh for the check is handed to the run so it isn't fetched twice; a
// cached one is not, since the run must work on current state.
func (r *Reconciler) evaluate() {
	ctx := context.Background()

	var fresh *ScheduleSnapshot

	snapshot, err := r.service.CachedSnapshot(ctx, r.userID)
	if err != nil {
		snapshot, err = r.service.LoadSnapshot(ctx, r.userID)
		if err != nil {
			r.logger.Error(fmt.Sprintf("could not load scheduling state for user %s", r.userID), err)
			return
		}

		fresh = snapshot
	}

	if !r.service.NeedsReconciliation(snapshot) {
		r.logger.Debug(fmt.Sprintf("schedule for user %s already matches, skipping run", r.userID))
		return
	}

	r.mu.Lock()

	if r.stopped {
		r.mu.Unlock()
		return
	}

	if r.running {
		r.mu.Unlock()
		return
	}

	if wait := r.throttleInterval - now().Sub(r.lastRunAt); !r.lastRunAt.IsZero() && wait > 0 {
		r.timer = time.AfterFunc(wait, r.evaluate)
		r.mu.Unlock()
		return
	}

	r.running = true
	r.lastRunAt = now()
	r.mu.Unlock()

	r.run(ctx, fresh)
}

func (r *Reconciler) run(ctx context.Context, fresh *ScheduleSnapshot) {
	defer func() {
		if recovered := recover(); recovered != nil {
			r.logger.Error("reconciliation run panicked", fmt.Errorf("%v", recovered))
		}

		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
	}()

	var report *RunReport
	var err error

	if fresh != nil {
		report, err = r.service.RunWithSnapshot(ctx, r.userID, fresh)
	} else {
		report, err = r.service.RunFull(ctx, r.userID)
	}
	if err != nil {
		if errors.Is(err, ErrRunInFlight) {
			r.logger.Debug(fmt.Sprintf("reconciliation for user %s already running elsewhere", r.userID))
			return
		}

		r.logger.Error(fmt.Sprintf("reconciliation run for user %s failed", r.userID), err)
	}

	if report != nil {
		r.mu.Lock()
		r.lastReport = report
		r.mu.Unlock()
	}
}

// RunNow executes a reconciliation immediately, skipping debounce and
// throttle. A run already in flight is not duplicated; ErrRunInFlight is
// returned instead.
func (r *Reconciler) RunNow(ctx context.Context) (*RunReport, error) {
	r.mu.Lock()

	if r.running {
		r.mu.Unlock()
		return nil, ErrRunInFlight
	}

	r.running = true
	r.lastRunAt = now()
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
	}()

	report, err := r.service.RunFull(ctx, r.userID)
	if report != nil {
		r.mu.Lock()
		r.lastReport = report
		r.mu.Unlock()
	}

	return report, err
}

// LastReport returns the report of the most recent finished run, if any
func (r *Reconciler) LastReport() (*RunReport, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.lastReport == nil {
		return nil, false
	}

	return r.lastReport, true
}

// Start re-enables a stopped reconciler; a fresh reconciler is already started
func (r *Reconciler) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stopped = false
}

// Stop cancels the pending evaluation and rejects further triggers
func (r *Reconciler) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stopped = true

	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}
