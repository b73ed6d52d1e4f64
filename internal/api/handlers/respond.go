package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rohankapur/finetune-studio/internal/provider"
	"github.com/rohankapur/finetune-studio/internal/training"
	"github.com/rohankapur/finetune-studio/internal/validate"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps domain errors onto HTTP statuses. Anything
// unrecognized is a 500 with the message withheld.
func writeServiceError(w http.ResponseWriter, err error) {
	var vErr *validate.Error
	var noCred *provider.NoCredentialError
	var genErr *provider.GenerationError

	switch {
	case errors.As(err, &vErr):
		writeError(w, http.StatusBadRequest, vErr.Msg)
	case errors.As(err, &noCred):
		writeError(w, http.StatusPreconditionFailed, noCred.Error())
	case errors.As(err, &genErr):
		writeError(w, http.StatusBadGateway, genErr.Error())
	case errors.Is(err, training.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, training.ErrInvalidTransition):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func statusStr(code int) string {
	if code == http.StatusOK {
		return "ok"
	}
	return "unhealthy"
}
