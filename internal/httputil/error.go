package httputil

import (
	"net/http"

	"github.com/AdamBeresnev/tourney-api/internal/bracket"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

type errorBody struct {
	Detail string `json:"detail"`
}

func InternalServerError(w http.ResponseWriter, msg string, err error) {
	zap.L().Error(msg, zap.Error(err))
	WriteJSON(w, http.StatusInternalServerError, errorBody{Detail: "Internal Server Error"})
}

func BadRequest(w http.ResponseWriter, msg string, err error) {
	warn("bad request", msg, err)
	WriteJSON(w, http.StatusBadRequest, errorBody{Detail: msg})
}

func NotFound(w http.ResponseWriter, msg string, err error) {
	warn("not found", msg, err)
	WriteJSON(w, http.StatusNotFound, errorBody{Detail: msg})
}

func Unauthorized(w http.ResponseWriter, msg string) {
	WriteJSON(w, http.StatusUnauthorized, errorBody{Detail: msg})
}

func Forbidden(w http.ResponseWriter, msg string) {
	warn("forbidden", msg, nil)
	WriteJSON(w, http.StatusForbidden, errorBody{Detail: msg})
}

func Conflict(w http.ResponseWriter, msg string, err error) {
	warn("conflict", msg, err)
	WriteJSON(w, http.StatusConflict, errorBody{Detail: msg})
}

// ServiceError picks the status for an error coming out of a service. The
// message of expected failures is passed to the client, anything else is
// logged and hidden.
func ServiceError(w http.ResponseWriter, msg string, err error) {
	var incomplete *bracket.PrecededMatchIncompleteError
	switch {
	case errors.As(err, &incomplete):
		BadRequest(w, incomplete.Error(), err)
	case errors.Is(err, bracket.ErrValidation):
		BadRequest(w, err.Error(), err)
	case errors.Is(err, bracket.ErrNotFound):
		NotFound(w, err.Error(), err)
	case errors.Is(err, bracket.ErrPermission):
		Forbidden(w, err.Error())
	case errors.Is(err, bracket.ErrConflict):
		Conflict(w, err.Error(), err)
	default:
		InternalServerError(w, msg, err)
	}
}

func warn(kind, msg string, err error) {
	if err != nil {
		zap.L().Warn(kind, zap.String("message", msg), zap.Error(err))
	} else {
		zap.L().Warn(kind, zap.String("message", msg))
	}
}
