package tasks

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/timeblock-app/timeblock-backend/pkg/date"
	"github.com/timeblock-app/timeblock-backend/pkg/locking"
	"github.com/timeblock-app/timeblock-backend/pkg/logger"
	"github.com/timeblock-app/timeblock-backend/pkg/tasks/calendar"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

// The PlanningService computes the desired schedule for a user's tasks and
// reconciles the stored calendar events with it
type PlanningService struct {
	taskRepository   TaskRepositoryInterface
	eventRepository  calendar.RepositoryInterface
	scheduleResolver *ScheduleResolver
	busySources      []calendar.BusySourceInterface
	snapshotCache    SnapshotCacheInterface
	logger           logger.Interface
	locker           locking.LockerInterface
	taskTextRenderer *TaskTextRenderer

	allocator    AllocatorConfig
	rankStrategy RankStrategy
}

// NewPlanningService constructs a PlanningService
func NewPlanningService(
	taskRepository TaskRepositoryInterface,
	eventRepository calendar.RepositoryInterface,
	scheduleResolver *ScheduleResolver,
	snapshotCache SnapshotCacheInterface,
	logger logger.Interface,
	locker locking.LockerInterface,
	allocator AllocatorConfig) *PlanningService {
	service := PlanningService{}

	service.taskRepository = taskRepository
	service.eventRepository = eventRepository
	service.scheduleResolver = scheduleResolver
	service.snapshotCache = snapshotCache
	service.logger = logger
	service.locker = locker
	service.taskTextRenderer = &TaskTextRenderer{}
	service.allocator = allocator
	service.rankStrategy = DueDateFirstStrategy{}

	return &service
}

// SetRankStrategy replaces the default ranking wholesale
func (s *PlanningService) SetRankStrategy(strategy RankStrategy) {
	s.rankStrategy = strategy
}

// AddBusySource registers a read-only source of external occupied intervals
func (s *PlanningService) AddBusySource(source calendar.BusySourceInterface) {
	s.busySources = append(s.busySources, source)
}

// RunReport describes the outcome of one reconciliation run
type RunReport struct {
	RunID      string    `json:"runId"`
	UserID     string    `json:"userId"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`

	Created    int     `json:"created"`
	Deleted    int     `json:"deleted"`
	Violations []Block `json:"violations,omitempty"`

	CreateFailures int  `json:"createFailures"`
	DeleteFailures int  `json:"deleteFailures"`
	Degraded       bool `json:"degraded"`
}

// PartialBatchError reports that some items of a batched calendar mutation
// failed; every item's outcome is carried independently
type PartialBatchError struct {
	FailedCreates []calendar.BatchCreateResult
	FailedDeletes []calendar.BatchDeleteResult
}

func (e *PartialBatchError) Error() string {
	return fmt.Sprintf("%d calendar operations failed", len(e.FailedCreates)+len(e.FailedDeletes))
}

// LoadSnapshot fetches everything a run needs: the user's tasks and events in
// parallel, the resolved working hours per task and the external busy times
func (s *PlanningService) LoadSnapshot(ctx context.Context, userID string) (*ScheduleSnapshot, error) {
	snapshot := ScheduleSnapshot{UserID: userID}

	wg, groupCtx := errgroup.WithContext(ctx)

	wg.Go(func() error {
		tasks, err := s.taskRepository.FindAll(groupCtx, userID)
		if err != nil {
			return errors.Wrap(err, "could not load tasks")
		}

		snapshot.Tasks = tasks
		return nil
	})

	wg.Go(func() error {
		events, err := s.eventRepository.FindAll(groupCtx, userID, nil)
		if err != nil {
			return errors.Wrap(err, "could not load calendar events")
		}

		snapshot.Events = events
		return nil
	})

	err := wg.Wait()
	if err != nil {
		return nil, err
	}

	snapshot.WorkingHours = make(map[string]WorkingHours, len(snapshot.Tasks))
	for i := range snapshot.Tasks {
		hours, err := s.scheduleResolver.Resolve(ctx, &snapshot.Tasks[i])
		if err != nil {
			return nil, errors.Wrap(err, "could not resolve working hours")
		}

		snapshot.WorkingHours[snapshot.Tasks[i].ID.Hex()] = hours
	}

	window := date.Timespan{Start: now(), End: now().AddDate(0, 0, s.allocator.horizonDays())}
	for _, source := range s.busySources {
		busy, err := source.BusyTimespans(ctx, window)
		if err != nil {
			s.logger.Warning("could not load external busy times, continuing without", err)
			continue
		}

		snapshot.ExternalBusy = append(snapshot.ExternalBusy, busy...)
	}

	snapshot.TakenAt = now()

	s.cacheSnapshot(ctx, &snapshot)

	return &snapshot, nil
}

// BuildDesired computes the desired schedule against a snapshot, purely in
// memory. Existing non-completed task events are kept up to each task's
// remaining need; the shortfall is allocated as new blocks, with one shared
// busy set accumulating across the whole ranked batch.
func (s *PlanningService) BuildDesired(snapshot *ScheduleSnapshot) ([]calendar.Event, []Block) {
	busy := date.NewBusySet()
	for i := range snapshot.Events {
		busy.Add(snapshot.Events[i].Date)
	}
	for _, span := range snapshot.ExternalBusy {
		busy.Add(span)
	}

	eventsByTask := make(map[string][]calendar.Event)
	for _, event := range snapshot.Events {
		if !event.IsTaskEvent() || event.IsCompleted() || event.IsExternal() {
			continue
		}

		key := event.LinkedTaskID.Hex()
		eventsByTask[key] = append(eventsByTask[key], event)
	}
	for key := range eventsByTask {
		events := eventsByTask[key]
		sort.Slice(events, func(i, j int) bool {
			return events[i].Date.Start.Before(events[j].Date.Start)
		})
	}

	var desired []calendar.Event
	var violations []Block

	ranked := s.rankStrategy.Rank(snapshot.Tasks)

	var cursor time.Time
	for i := range ranked {
		task := &ranked[i]

		// Completed tasks need no schedule; their remaining events drop out
		if task.Status == StatusCompleted {
			continue
		}

		needed := task.RemainingPlannedWork()

		var kept time.Duration
		for _, event := range eventsByTask[task.ID.Hex()] {
			if kept >= needed {
				break
			}

			desired = append(desired, event)
			kept += event.Date.Duration()
		}

		remaining := needed - kept
		if remaining <= 0 {
			continue
		}

		hours, exists := snapshot.WorkingHours[task.ID.Hex()]
		if !exists {
			hours = DefaultWorkingHours
		}

		allocation := s.allocator.Allocate(task, remaining, hours, busy, cursor)
		cursor = allocation.Cursor
		violations = append(violations, allocation.Violations...)

		for _, block := range allocation.Blocks {
			desired = append(desired, calendar.Event{
				UserID:       task.UserID,
				Title:        s.taskTextRenderer.RenderBlockEventTitle(task),
				Date:         block.Date,
				LinkedTaskID: task.ID,
			})
		}
	}

	return desired, violations
}

// NeedsReconciliation recomputes the desired schedule against the snapshot
// and reports whether it differs from the stored events. No I/O happens here.
func (s *PlanningService) NeedsReconciliation(snapshot *ScheduleSnapshot) bool {
	desired, _ := s.BuildDesired(snapshot)
	diff := ComputeEventDiff(desired, snapshot.Events)

	return !diff.IsEmpty()
}

// CachedSnapshot returns the last snapshot loaded for a user, if any
func (s *PlanningService) CachedSnapshot(ctx context.Context, userID string) (*ScheduleSnapshot, error) {
	return s.snapshotCache.Get(ctx, userID)
}

// InvalidateSnapshot drops the cached snapshot so the next check path has to
// run against freshly fetched state
func (s *PlanningService) InvalidateSnapshot(ctx context.Context, userID string) {
	err := s.snapshotCache.Invalidate(ctx, userID)
	if err != nil {
		s.logger.Warning("could not invalidate snapshot cache", err)
	}
}

// RunFull executes a full reconciliation cycle: fetch fresh state, compute the
// desired schedule, diff and apply. When the diff is empty no calendar call is
// made. The returned report is valid even when an error is returned.
func (s *PlanningService) RunFull(ctx context.Context, userID string) (*RunReport, error) {
	return s.runCycle(ctx, userID, nil)
}

// RunWithSnapshot executes the same cycle against a snapshot the caller just
// loaded, so the run does not fetch everything a second time. The snapshot
// must come from LoadSnapshot moments before; anything older belongs in
// RunFull, which refetches.
func (s *PlanningService) RunWithSnapshot(ctx context.Context, userID string, snapshot *ScheduleSnapshot) (*RunReport, error) {
	return s.runCycle(ctx, userID, snapshot)
}

func (s *PlanningService) runCycle(ctx context.Context, userID string, snapshot *ScheduleSnapshot) (*RunReport, error) {
	lock, err := s.locker.Acquire(ctx, fmt.Sprintf("reconcile-%s", userID), time.Minute, true)
	if err != nil {
		if errors.Is(err, locking.ErrLockUnavailable) {
			return nil, ErrRunInFlight
		}

		return nil, errors.Wrap(err, "could not acquire reconciliation lock")
	}

	defer func(lock locking.LockInterface) {
		err := lock.Release(ctx)
		if err != nil {
			s.logger.Warning("could not release reconciliation lock", err)
		}
	}(lock)

	report := &RunReport{RunID: uuid.New().String(), UserID: userID, StartedAt: now()}

	if snapshot == nil {
		snapshot, err = s.LoadSnapshot(ctx, userID)
		if err != nil {
			return nil, errors.Wrap(err, "could not load scheduling state")
		}
	}

	desired, violations := s.BuildDesired(snapshot)
	report.Violations = violations

	diff := ComputeEventDiff(desired, snapshot.Events)
	if diff.IsEmpty() {
		report.FinishedAt = now()
		s.cacheSnapshot(ctx, snapshot)
		return report, nil
	}

	batchErr := s.applyDiff(ctx, userID, &diff, report, snapshot)

	report.FinishedAt = now()
	s.cacheSnapshot(ctx, snapshot)

	if batchErr != nil {
		report.Degraded = true
		return report, batchErr
	}

	return report, nil
}

// applyDiff performs creations first and aborts before the deletions if any
// creation failed, so a failed run never leaves fewer events than before.
// Successful creations are not rolled back. The snapshot is updated in place
// to reflect what actually happened.
func (s *PlanningService) applyDiff(ctx context.Context, userID string, diff *EventDiff, report *RunReport, snapshot *ScheduleSnapshot) error {
	batchErr := &PartialBatchError{}

	if len(diff.ToCreate) > 0 {
		toCreate := make([]*calendar.Event, 0, len(diff.ToCreate))
		for i := range diff.ToCreate {
			event := diff.ToCreate[i]
			toCreate = append(toCreate, &event)
		}

		for _, result := range s.eventRepository.CreateBatch(ctx, toCreate) {
			if !result.Success() {
				batchErr.FailedCreates = append(batchErr.FailedCreates, result)
				report.CreateFailures++
				continue
			}

			report.Created++
			snapshot.Events = append(snapshot.Events, *result.Event)
		}

		if len(batchErr.FailedCreates) > 0 {
			return batchErr
		}
	}

	if len(diff.ToDelete) > 0 {
		ids := make([]primitive.ObjectID, 0, len(diff.ToDelete))
		for _, event := range diff.ToDelete {
			ids = append(ids, event.ID)
		}

		for _, result := range s.eventRepository.DeleteBatch(ctx, ids, userID) {
			if !result.Success() {
				batchErr.FailedDeletes = append(batchErr.FailedDeletes, result)
				report.DeleteFailures++
				continue
			}

			report.Deleted++
			snapshot.Events = removeEventByID(snapshot.Events, result.ID)
		}

		if len(batchErr.FailedDeletes) > 0 {
			return batchErr
		}
	}

	return nil
}

func removeEventByID(events []calendar.Event, id primitive.ObjectID) []calendar.Event {
	for i := range events {
		if events[i].ID == id {
			return append(events[:i], events[i+1:]...)
		}
	}

	return events
}

func (s *PlanningService) cacheSnapshot(ctx context.Context, snapshot *ScheduleSnapshot) {
	err := s.snapshotCache.Add(ctx, snapshot.UserID, snapshot)
	if err != nil {
		s.logger.Warning("could not cache snapshot", err)
	}
}
