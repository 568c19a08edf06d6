package httpx

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/render"

	"github.com/mbolis/quick-forms/log"
	"github.com/mbolis/quick-forms/model"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Kind    string `json:"kind"`
	Field   string `json:"field,omitempty"`
	FormID  string `json:"form_id,omitempty"`
	Partial bool   `json:"partial,omitempty"`
}

// LogError logs err under code and answers with the status of its failure class.
// Unclassified errors become a plain 500.
func LogError(w http.ResponseWriter, r *http.Request, code string, err error) {
	resp := ErrorResponse{Error: err.Error()}
	var status int

	var (
		invalid *model.InvalidInputError
		remote  *model.RemoteError
	)
	switch {
	case errors.As(err, &invalid):
		status, resp.Kind, resp.Field = http.StatusBadRequest, "invalid_input", invalid.Field
	case errors.Is(err, model.ErrNotFound):
		status, resp.Kind = http.StatusNotFound, "not_found"
	case errors.Is(err, model.ErrInvalidTransition):
		status, resp.Kind = http.StatusConflict, "invalid_transition"
	case errors.As(err, &remote):
		status, resp.Kind, resp.FormID, resp.Partial = http.StatusBadGateway, "remote_error", remote.FormID, remote.Partial()
		if remote.Partial() {
			resp.Kind = "partial_creation"
		}
	default:
		LogInternalError(w, code, err)
		return
	}

	level := log.DebugLevel
	if status >= http.StatusInternalServerError {
		level = log.ErrorLevel
	}
	log.Log(level, code+":", err)

	render.Status(r, status)
	render.JSON(w, r, resp)
}

// Will log an error, and send an HTTP response with status 500 and default text
func LogInternalError(w http.ResponseWriter, code string, err error) {
	log.Errorf("%s: %s", code, err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// Will log a debug message, and send an HTTP response with status 404 and default text
func LogNotFound(w http.ResponseWriter, code string, id any) {
	log.Debugf("%s: not found (%v)", code, id)
	w.WriteHeader(http.StatusNotFound)
}

// Will log an error code and message at the given level,
// and send an HTTP response with the given status and formatted message
func LogStatusMsg(w http.ResponseWriter, status int, level log.Level, code string, msg string, args ...any) {
	errMsg := fmt.Sprintf(msg, args...)
	log.Log(level, code+":", errMsg)
	http.Error(w, errMsg, status)
}
