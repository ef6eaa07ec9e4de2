package ginblog

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type ApiError struct {
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
	Status    int    `json:"-"`
}

var (
	ErrNotFound   = ApiError{ErrorCode: "NOT_FOUND", Message: "%s not found", Status: http.StatusNotFound}
	ErrForbidden  = ApiError{ErrorCode: "FORBIDDEN", Message: "You are not allowed to do that.", Status: http.StatusForbidden}
	ErrValidation = ApiError{ErrorCode: "VALIDATION_FAILED", Message: "%s", Status: http.StatusUnprocessableEntity}
	ErrInternal   = ApiError{ErrorCode: "INTERNAL", Message: "An unknown error occurred", Status: http.StatusInternalServerError}
)

func (e ApiError) New(messages ...string) ApiError {
	if len(messages) == 0 {
		return e
	}
	args := make([]any, len(messages))
	for i, msg := range messages {
		args[i] = msg
	}

	return ApiError{
		ErrorCode: e.ErrorCode,
		Message:   fmt.Sprintf(e.Message, args...),
		Status:    e.Status,
	}
}

func (e ApiError) Error() string {
	return fmt.Sprintf("%s: %s", e.ErrorCode, e.Message)
}

// Is matches any ApiError carrying the same error code, so errors.Is works
// against the package sentinels after New has filled in the message.
func (e ApiError) Is(target error) bool {
	var t ApiError
	if !errors.As(target, &t) {
		return false
	}
	return t.ErrorCode == e.ErrorCode
}

// FormErrors maps form field names to a message shown next to the field.
type FormErrors map[string]string

func (f FormErrors) Error() string {
	return fmt.Sprintf("%s: %d invalid field(s)", ErrValidation.ErrorCode, len(f))
}

func (f FormErrors) Is(target error) bool {
	return ErrValidation.Is(target)
}

// StatusOf reports the HTTP status an error should be rendered with.
func StatusOf(err error) int {
	var apiErr ApiError
	if errors.As(err, &apiErr) && apiErr.Status != 0 {
		return apiErr.Status
	}
	var formErr FormErrors
	if errors.As(err, &formErr) {
		return ErrValidation.Status
	}
	return http.StatusInternalServerError
}

// SendError renders the error page. Errors that are not ApiErrors are logged
// and shown as a generic internal error.
func SendError(c *gin.Context, err error) {
	var apiErr ApiError
	if !errors.As(err, &apiErr) {
		log.WithFields(log.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		}).WithError(err).Error("request failed")
		apiErr = ErrInternal
	}
	status := apiErr.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}

	actor, _ := c.Get(ActorKey)
	c.HTML(status, "error.html", gin.H{
		"Actor":   actor,
		"Status":  status,
		"Code":    apiErr.ErrorCode,
		"Message": apiErr.Message,
	})
	c.Abort()
}
