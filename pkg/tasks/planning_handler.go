package tasks

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/timeblock-app/timeblock-backend/pkg/communication"
	"github.com/timeblock-app/timeblock-backend/pkg/logger"
	"github.com/timeblock-app/timeblock-backend/pkg/tasks/calendar"
)

// PlanningHandler handles the scheduling related API calls
type PlanningHandler struct {
	Service           *PlanningService
	ReconcilerManager *ReconcilerManager
	Logger            logger.Interface
	ResponseManager   *communication.ResponseManager
}

// ScheduleRun is the route for running a reconciliation immediately
func (handler *PlanningHandler) ScheduleRun(writer http.ResponseWriter, request *http.Request) {
	userID := mux.Vars(request)["userID"]

	report, err := handler.ReconcilerManager.ForUser(userID).RunNow(request.Context())
	if err != nil {
		if errors.Is(err, ErrRunInFlight) {
			handler.ResponseManager.RespondWithError(writer, http.StatusConflict,
				"A scheduling run is already in progress", err)
			return
		}

		var batchErr *PartialBatchError
		if errors.As(err, &batchErr) {
			// The run finished degraded; the report carries what failed
			handler.ResponseManager.Respond(writer, report)
			return
		}

		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError,
			"Scheduling run failed", err)
		return
	}

	handler.ResponseManager.Respond(writer, report)
}

// ScheduleReport is the route for fetching the report of the last run
func (handler *PlanningHandler) ScheduleReport(writer http.ResponseWriter, request *http.Request) {
	userID := mux.Vars(request)["userID"]

	report, exists := handler.ReconcilerManager.ForUser(userID).LastReport()
	if !exists {
		handler.ResponseManager.RespondWithError(writer, http.StatusNotFound,
			"No scheduling run has finished yet", nil)
		return
	}

	handler.ResponseManager.Respond(writer, report)
}

type eventCompletionRequest struct {
	Completed bool `json:"completed"`
}

// EventCompletion is the route for marking a scheduled block as done or
// reopening it
func (handler *PlanningHandler) EventCompletion(writer http.ResponseWriter, request *http.Request) {
	userID := mux.Vars(request)["userID"]
	eventID := mux.Vars(request)["eventID"]

	body := eventCompletionRequest{}
	err := json.NewDecoder(request.Body).Decode(&body)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, "Wrong format", err)
		return
	}

	event, err := handler.Service.SetEventCompletion(request.Context(), userID, eventID, body.Completed)
	if err != nil {
		if errors.Is(err, calendar.ErrNotFound) {
			handler.ResponseManager.RespondWithError(writer, http.StatusNotFound, "Couldn't find event", err)
			return
		}

		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError,
			"Could not update completion", err)
		return
	}

	handler.ReconcilerManager.Trigger(userID, TriggerEventChanged)

	handler.ResponseManager.Respond(writer, event)
}

// GetAllEvents is the route for listing a user's calendar events
func (handler *PlanningHandler) GetAllEvents(writer http.ResponseWriter, request *http.Request) {
	userID := mux.Vars(request)["userID"]

	events, err := handler.Service.eventRepository.FindAll(request.Context(), userID, nil)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError,
			"Problem in query", err)
		return
	}

	handler.ResponseManager.Respond(writer, events)
}
