package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/DioGolang/GoTodo/internal/domain/entity"
	"github.com/DioGolang/GoTodo/pkg/logger"
)

const (
	msgNotFound        = "Todo not found"
	msgInvalidID       = "Invalid todo id"
	msgTooLarge        = "Request body too large"
	msgTooManyRequests = "Too many requests, please try again later"
	msgInternal        = "Internal server error"
	msgBadRequest      = "Malformed request body"
)

type errorBody struct {
	Success bool                `json:"success"`
	Error   string              `json:"error,omitempty"`
	Errors  []entity.FieldError `json:"errors,omitempty"`
}

// JSON writes v with the given status. Encoding failures are ignored since
// the status line is already on the wire.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func Fail(w http.ResponseWriter, status int, message string) {
	JSON(w, status, errorBody{Error: message})
}

func ValidationFailed(w http.ResponseWriter, verr *entity.ValidationError) {
	JSON(w, http.StatusBadRequest, errorBody{Errors: verr.Errors})
}

func BadRequest(w http.ResponseWriter) {
	Fail(w, http.StatusBadRequest, msgBadRequest)
}

func NotFound(w http.ResponseWriter) {
	Fail(w, http.StatusNotFound, msgNotFound)
}

func PayloadTooLarge(w http.ResponseWriter) {
	Fail(w, http.StatusRequestEntityTooLarge, msgTooLarge)
}

func TooManyRequests(w http.ResponseWriter) {
	Fail(w, http.StatusTooManyRequests, msgTooManyRequests)
}

func Internal(w http.ResponseWriter) {
	Fail(w, http.StatusInternalServerError, msgInternal)
}

// Error maps err to its HTTP response. Unexpected errors are logged with
// full detail and answered with a generic 500.
func Error(w http.ResponseWriter, r *http.Request, log logger.Logger, err error) {
	var verr *entity.ValidationError
	var tooLarge *http.MaxBytesError

	switch {
	case errors.As(err, &verr):
		ValidationFailed(w, verr)
	case errors.Is(err, entity.ErrTodoNotFound):
		NotFound(w)
	case errors.Is(err, entity.ErrInvalidID):
		Fail(w, http.StatusBadRequest, msgInvalidID)
	case errors.As(err, &tooLarge):
		PayloadTooLarge(w)
	default:
		log.Error(r.Context(), "request failed",
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.WithError(err),
		)
		Internal(w)
	}
}
