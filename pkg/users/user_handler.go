package users

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/timeblock-app/timeblock-backend/pkg/communication"
	"github.com/timeblock-app/timeblock-backend/pkg/logger"
)

// Handler handles all user related API calls
type Handler struct {
	UserRepository  UserRepositoryInterface
	Logger          logger.Interface
	ResponseManager *communication.ResponseManager
}

// UserAdd is the route for adding a user
func (handler *Handler) UserAdd(writer http.ResponseWriter, request *http.Request) {
	user := User{}

	err := json.NewDecoder(request.Body).Decode(&user)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, "Wrong format", err)
		return
	}

	v := validator.New()
	err = v.Struct(user)
	if err != nil {
		for _, e := range err.(validator.ValidationErrors) {
			handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, e.Error(), e)
			return
		}
	}

	err = handler.UserRepository.Add(request.Context(), &user)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError,
			"Persisting user in database did not work", err)
		return
	}

	handler.ResponseManager.Respond(writer, &user)
}

// UserGet is the route for getting a single user
func (handler *Handler) UserGet(writer http.ResponseWriter, request *http.Request) {
	userID := mux.Vars(request)["userID"]

	user, err := handler.UserRepository.FindByID(request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			handler.ResponseManager.RespondWithError(writer, http.StatusNotFound, "Couldn't find user", err)
			return
		}

		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError, "Could not load user", err)
		return
	}

	handler.ResponseManager.Respond(writer, user)
}
