package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-todo-agent/internal/models"
	"github.com/adanyl0v/go-todo-agent/internal/services"
)

var (
	errInvalidRequestBody = errors.New("invalid request body")
	errInvalidTaskID      = errors.New("task id must be a positive integer")
	errInvalidPagination  = errors.New("must be a non-negative integer")
	errMessageRequired    = errors.New("field required")
)

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func newAPIError(code int, message string) apiError {
	return apiError{
		Code:    code,
		Message: message,
	}
}

func (e apiError) Error() string {
	return e.Message
}

func abort(c *gin.Context, err apiError) {
	c.AbortWithStatusJSON(err.Code, gin.H{"error": err.Message})
}

func newBadRequestError(message string) apiError {
	return newAPIError(http.StatusBadRequest, message)
}

func newNotFoundError(message string) apiError {
	return newAPIError(http.StatusNotFound, message)
}

func newUnprocessableEntityError(message string) apiError {
	return newAPIError(http.StatusUnprocessableEntity, message)
}

func newInternalError() apiError {
	return newAPIError(http.StatusInternalServerError, "internal server error")
}

func newValidationError(field string, err error) apiError {
	return newUnprocessableEntityError(models.NewValidationError(field, err).Error())
}

// serviceError maps service failures onto responses. Store internals
// never reach the client.
func serviceError(err error) apiError {
	var validationErr *models.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return newUnprocessableEntityError(validationErr.Error())
	case errors.Is(err, services.ErrTaskNotFound):
		return newNotFoundError(services.ErrTaskNotFound.Error())
	default:
		return newInternalError()
	}
}
