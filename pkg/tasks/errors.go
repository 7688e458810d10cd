package tasks

import "github.com/pkg/errors"

// ErrTaskNotFound is returned when a task does not exist
var ErrTaskNotFound = errors.New("task not found")

// ErrScheduleNotFound is returned when a schedule does not exist
var ErrScheduleNotFound = errors.New("schedule not found")

// ErrBindingNotFound is returned when no schedule binding is active at the
// requested level; the resolver falls through to the next level on it
var ErrBindingNotFound = errors.New("no active schedule binding")

// ErrRunInFlight is returned when a reconciliation run is requested while
// another one is still executing
var ErrRunInFlight = errors.New("a reconciliation run is already in flight")
