package handle

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmorgan81/imagedesk/internal/config"
	"github.com/dmorgan81/imagedesk/internal/log"
	"github.com/dmorgan81/imagedesk/internal/prompt"
	"github.com/dmorgan81/imagedesk/internal/session"
	"github.com/dmorgan81/imagedesk/internal/store"
)

type errorBody struct {
	Error string        `json:"error"`
	Level session.Level `json:"level"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusOf maps an action error to a response status and message level.
func statusOf(err error) (int, session.Level) {
	var (
		validation *prompt.ValidationError
		cfg        *config.ConfigurationError
	)
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest, session.LevelWarning
	case errors.As(err, &cfg):
		return http.StatusUnprocessableEntity, session.LevelError
	case errors.Is(err, session.ErrBusy):
		return http.StatusConflict, session.LevelWarning
	case errors.As(err, &store.NoResultError{}):
		return http.StatusNotFound, session.LevelWarning
	case errors.Is(err, store.ErrMirror):
		return http.StatusBadGateway, session.LevelError
	default:
		return http.StatusInternalServerError, session.LevelError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, level := statusOf(err)
	log.FromContextOrDiscard(r.Context()).Warn("request failed", "path", r.URL.Path, "status", status, "error", err)
	writeJSON(w, status, errorBody{Error: err.Error(), Level: level})
}
