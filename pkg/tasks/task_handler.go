package tasks

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/timeblock-app/timeblock-backend/pkg/communication"
	"github.com/timeblock-app/timeblock-backend/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Handler handles all task related API calls
type Handler struct {
	TaskRepository    TaskRepositoryInterface
	Logger            logger.Interface
	ResponseManager   *communication.ResponseManager
	ReconcilerManager *ReconcilerManager
}

// TaskAdd is the route for adding a task
func (handler *Handler) TaskAdd(writer http.ResponseWriter, request *http.Request) {
	userID, err := primitive.ObjectIDFromHex(mux.Vars(request)["userID"])
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, "UserID malformed", err)
		return
	}

	task := Task{}

	err = json.NewDecoder(request.Body).Decode(&task)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, "Wrong format", err)
		return
	}

	task.UserID = userID
	if task.Status == "" {
		task.Status = StatusNotStarted
	}

	v := validator.New()
	err = v.Struct(task)
	if err != nil {
		for _, e := range err.(validator.ValidationErrors) {
			handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, e.Error(), e)
			return
		}
	}

	err = handler.TaskRepository.Add(request.Context(), &task)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError,
			"Persisting task in database did not work", err)
		return
	}

	handler.ReconcilerManager.Trigger(userID.Hex(), TriggerTaskChanged)

	handler.ResponseManager.Respond(writer, &task)
}

// TaskUpdate is the route for updating a Task
func (handler *Handler) TaskUpdate(writer http.ResponseWriter, request *http.Request) {
	userID := mux.Vars(request)["userID"]
	taskID := mux.Vars(request)["taskID"]

	task, err := handler.TaskRepository.FindByID(request.Context(), taskID, userID)
	if err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			handler.ResponseManager.RespondWithError(writer, http.StatusNotFound, "Couldn't find task", err)
			return
		}

		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError, "Could not load task", err)
		return
	}

	original := *task

	err = json.NewDecoder(request.Body).Decode(task)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, "Wrong format", err)
		return
	}

	task.ID = original.ID
	task.UserID = original.UserID
	task.CreatedAt = original.CreatedAt

	v := validator.New()
	err = v.Struct(task)
	if err != nil {
		for _, e := range err.(validator.ValidationErrors) {
			handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, e.Error(), e)
			return
		}
	}

	err = handler.TaskRepository.Update(request.Context(), task)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError, "Could not persist task", err)
		return
	}

	if isScheduleRelevantChange(&original, task) {
		handler.ReconcilerManager.Trigger(userID, TriggerTaskChanged)
	}

	handler.ResponseManager.Respond(writer, task)
}

// isScheduleRelevantChange reports whether the update can change the computed
// schedule. Renames and description edits do not trigger a reconciliation.
func isScheduleRelevantChange(original *Task, updated *Task) bool {
	return original.PlannedDuration != updated.PlannedDuration ||
		original.ActualDuration != updated.ActualDuration ||
		!original.DueAt.Equal(updated.DueAt) ||
		original.Priority != updated.Priority ||
		original.Status != updated.Status ||
		original.ProjectID != updated.ProjectID
}

// TaskGet is the route for getting a single task
func (handler *Handler) TaskGet(writer http.ResponseWriter, request *http.Request) {
	userID := mux.Vars(request)["userID"]
	taskID := mux.Vars(request)["taskID"]

	task, err := handler.TaskRepository.FindByID(request.Context(), taskID, userID)
	if err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			handler.ResponseManager.RespondWithError(writer, http.StatusNotFound, "Couldn't find task", err)
			return
		}

		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError, "Could not load task", err)
		return
	}

	handler.ResponseManager.Respond(writer, task)
}

// GetAllTasks is the route for getting all tasks of a user
func (handler *Handler) GetAllTasks(writer http.ResponseWriter, request *http.Request) {
	userID := mux.Vars(request)["userID"]

	tasks, err := handler.TaskRepository.FindAll(request.Context(), userID)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError,
			"Problem in query", err)
		return
	}

	handler.ResponseManager.Respond(writer, tasks)
}

// TaskDelete deletes a task and triggers a reconciliation so its scheduled
// events disappear as well
func (handler *Handler) TaskDelete(writer http.ResponseWriter, request *http.Request) {
	userID := mux.Vars(request)["userID"]
	taskID := mux.Vars(request)["taskID"]

	err := handler.TaskRepository.Delete(request.Context(), taskID, userID)
	if err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			handler.ResponseManager.RespondWithError(writer, http.StatusNotFound, "Couldn't find task", err)
			return
		}

		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError, "Could not delete task", err)
		return
	}

	handler.ReconcilerManager.Trigger(userID, TriggerTaskChanged)

	handler.ResponseManager.RespondWithNoContent(writer)
}
