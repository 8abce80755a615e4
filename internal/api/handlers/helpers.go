package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"hazard-route-service/internal/domain"
	"hazard-route-service/internal/platform/logger"
	"hazard-route-service/internal/platform/obs"

	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("encode failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("req_id", obs.RequestID(r.Context())),
			zap.Error(err),
		)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// writeDomainError maps the error taxonomy onto HTTP statuses. Anything
// unrecognized is logged and reported as a 500 without details.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	msg := "internal server error"

	switch {
	case errors.Is(err, domain.ErrInvalidWaypoints):
		status, msg = http.StatusBadRequest, domain.ErrInvalidWaypoints.Error()
	case errors.Is(err, domain.ErrWaypointNotFound):
		status, msg = http.StatusNotFound, "no results"
	case errors.Is(err, domain.ErrRouteUnavailable):
		status, msg = http.StatusBadGateway, domain.ErrRouteUnavailable.Error()
	case errors.Is(err, domain.ErrNarrationUnsupported):
		status, msg = http.StatusNotImplemented, domain.ErrNarrationUnsupported.Error()
	case errors.Is(err, domain.ErrNarrationBusy):
		status, msg = http.StatusConflict, domain.ErrNarrationBusy.Error()
	case errors.Is(err, domain.ErrNoActiveRoute):
		status, msg = http.StatusConflict, domain.ErrNoActiveRoute.Error()
	default:
		logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("req_id", obs.RequestID(r.Context())),
			zap.Error(err),
		)
	}

	writeError(w, r, status, msg)
}

// decodeBody decodes exactly one JSON object. An empty body leaves dst untouched
// and reports false.
func decodeBody(r *http.Request, dst any) (bool, error) {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, errors.New("invalid json body")
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return false, errors.New("body must contain only one JSON object")
	}
	return true, nil
}
