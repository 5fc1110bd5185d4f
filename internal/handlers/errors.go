package handlers

import (
	"errors"
	"net/http"

	"github.com/youlserf/recipehub/internal/repositories"
)

// Envelope is the JSON body returned by every recipe operation
type Envelope struct {
	StatusCode int         `json:"statusCode"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// Response messages
const (
	msgCreated        = "Recipe created successfully"
	msgCreateFailed   = "Failed to create recipe"
	msgUpdated        = "Recipe updated successfully"
	msgUpdateFailed   = "Failed to update recipe"
	msgDeleted        = "Recipe deleted successfully"
	msgDeleteFailed   = "Failed to delete recipe"
	msgRetrieved      = "Recipe retrieved successfully"
	msgListed         = "Recipes retrieved successfully"
	msgGetFailed      = "Failed to get recipe"
	msgListFailed     = "Failed to get recipes"
	msgNotFound       = "Recipe not found"
	msgInvalidRequest = "Invalid request"
)

// StatusFor maps an error kind onto an HTTP status code
func StatusFor(err error) int {
	switch repositories.KindOf(err) {
	case repositories.KindNotFound:
		return http.StatusNotFound
	case repositories.KindValidationFailed:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage returns the text reported in the envelope's error field. Store
// failures report the underlying driver message.
func errorMessage(err error) string {
	var repoErr *repositories.RepositoryError
	if errors.As(err, &repoErr) {
		if repoErr.Message != "" {
			return repoErr.Message
		}
		if repoErr.Err != nil {
			return repoErr.Err.Error()
		}
	}
	return err.Error()
}

func success(status int, message string, data interface{}) (int, Envelope) {
	return status, Envelope{
		StatusCode: status,
		Message:    message,
		Data:       data,
	}
}

// failure builds the envelope for err. failedMessage is used for every kind
// except NotFound and ValidationFailed, which carry their own message.
func failure(err error, failedMessage string) (int, Envelope) {
	status := StatusFor(err)

	message := failedMessage
	switch status {
	case http.StatusNotFound:
		message = msgNotFound
	case http.StatusBadRequest:
		message = msgInvalidRequest
	}

	return status, Envelope{
		StatusCode: status,
		Message:    message,
		Error:      errorMessage(err),
	}
}
