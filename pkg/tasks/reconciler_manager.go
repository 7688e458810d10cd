package tasks

import (
	"sync"
	"time"

	"github.com/timeblock-app/timeblock-backend/pkg/logger"
)

// ReconcilerManager holds one Reconciler per user and creates them lazily
type ReconcilerManager struct {
	service *PlanningService
	logger  logger.Interface

	debounceWindow   time.Duration
	throttleInterval time.Duration

	mu          sync.Mutex
	reconcilers map[string]*Reconciler
}

// NewReconcilerManager initializes a ReconcilerManager
func NewReconcilerManager(service *PlanningService, logger logger.Interface, debounceWindow time.Duration, throttleInterval time.Duration) *ReconcilerManager {
	return &ReconcilerManager{
		service:          service,
		logger:           logger,
		debounceWindow:   debounceWindow,
		throttleInterval: throttleInterval,
		reconcilers:      make(map[string]*Reconciler),
	}
}

// ForUser returns the user's reconciler, creating it on first use
func (m *ReconcilerManager) ForUser(userID string) *Reconciler {
	m.mu.Lock()
	defer m.mu.Unlock()

	reconciler, exists := m.reconcilers[userID]
	if !exists {
		reconciler = NewReconciler(userID, m.service, m.logger, m.debounceWindow, m.throttleInterval)
		m.reconcilers[userID] = reconciler
	}

	return reconciler
}

// Trigger forwards a change notification to the user's reconciler
func (m *ReconcilerManager) Trigger(userID string, reason TriggerReason) {
	m.ForUser(userID).Trigger(reason)
}

// StopAll stops every reconciler, for shutdown
func (m *ReconcilerManager) StopAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, reconciler := range m.reconcilers {
		reconciler.Stop()
	}
}
