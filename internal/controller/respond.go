// internal/controller/respond.go
package controller

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	appErrors "github.com/unclebandit/dinerreach/internal/errors"
	"github.com/unclebandit/dinerreach/internal/middleware"
)

const sendFailedMessage = "Failed to send campaign. Please try again."

type errorBody struct {
	Error   string   `json:"error"`
	Message string   `json:"message,omitempty"`
	Missing []string `json:"missing,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps service errors to HTTP statuses. Server side failures are
// logged and reported to Sentry.
func writeError(w http.ResponseWriter, r *http.Request, log logrus.FieldLogger, err error) {
	status, body := classify(err)
	if status >= http.StatusInternalServerError {
		if log == nil {
			log = logrus.StandardLogger()
		}
		log.WithError(err).WithField("path", r.URL.Path).Error("❌ request failed")
		middleware.CaptureError(r, err)
	}
	writeJSON(w, status, body)
}

func classify(err error) (int, errorBody) {
	var (
		verr *appErrors.ValidationError
		perr *appErrors.PersistenceError
		ferr *appErrors.FetchError
	)
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity, errorBody{
			Error:   "Missing Information",
			Message: "Please fill in all campaign details before sending.",
			Missing: verr.Missing,
		}
	case errors.Is(err, appErrors.ErrBusy):
		return http.StatusConflict, errorBody{Error: err.Error()}
	case errors.As(err, &perr):
		return http.StatusBadGateway, errorBody{Error: sendFailedMessage}
	case errors.As(err, &ferr):
		return http.StatusBadGateway, errorBody{Error: ferr.Err.Error()}
	case errors.Is(err, appErrors.ErrInvalidChannel):
		return http.StatusBadRequest, errorBody{Error: err.Error()}
	case errors.Is(err, appErrors.ErrSuggestionNotFound), errors.Is(err, appErrors.ErrSessionNotFound):
		return http.StatusNotFound, errorBody{Error: err.Error()}
	}
	return http.StatusInternalServerError, errorBody{Error: "internal server error"}
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorBody{Error: msg})
}
