package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"hazard-route-service/internal/api/dto"
	"hazard-route-service/internal/domain"
	"hazard-route-service/internal/ports"
	"hazard-route-service/internal/services"

	"github.com/go-chi/chi/v5"
)

type SessionHandler struct {
	Registry *services.SessionRegistry
}

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, _ := h.Registry.CreateWith(func(id string) ports.SessionListener {
		return NewSessionRecorder(id)
	})

	writeJSON(w, r, http.StatusCreated, dto.CreateSessionResponse{ID: id})
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, sessionView(id, s))
}

func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.Registry.Delete(id) {
		writeError(w, r, http.StatusNotFound, "session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PlaceWaypoint puts a waypoint into the slot named in the path.
func (h *SessionHandler) PlaceWaypoint(w http.ResponseWriter, r *http.Request) {
	id, s, ok := h.session(w, r)
	if !ok {
		return
	}

	slot, err := strconv.Atoi(chi.URLParam(r, "slot"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "slot must be an integer")
		return
	}

	var req dto.WaypointRequest
	found, err := decodeBody(r, &req)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if !found {
		writeError(w, r, http.StatusBadRequest, "body is required")
		return
	}

	wp, err := toWaypoint(req)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.PlaceWaypoint(slot, wp); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, sessionView(id, s))
}

func (h *SessionHandler) RemoveWaypoint(w http.ResponseWriter, r *http.Request) {
	id, s, ok := h.session(w, r)
	if !ok {
		return
	}

	slot, err := strconv.Atoi(chi.URLParam(r, "slot"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "slot must be an integer")
		return
	}

	if err := s.RemoveWaypoint(slot); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, sessionView(id, s))
}

// Recalculate computes a route for the placed waypoints, or for the list in
// the body when one is given. A result superseded by a newer recalculation
// is not an error for the client; it simply receives the current view.
func (h *SessionHandler) Recalculate(w http.ResponseWriter, r *http.Request) {
	id, s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req dto.RecalculateRequest
	found, err := decodeBody(r, &req)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if found && req.Waypoints != nil {
		wps := make([]*domain.Waypoint, len(req.Waypoints))
		for i, item := range req.Waypoints {
			if item == nil {
				continue
			}
			wp, err := toWaypoint(*item)
			if err != nil {
				writeError(w, r, http.StatusBadRequest, "waypoint "+strconv.Itoa(i)+": "+err.Error())
				return
			}
			wps[i] = &wp
		}
		err = s.Recalculate(r.Context(), wps)
	} else {
		err = s.RecalculateCurrent(r.Context())
	}

	if err != nil && !errors.Is(err, domain.ErrStaleResult) {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, sessionView(id, s))
}

func (h *SessionHandler) PlayNarration(w http.ResponseWriter, r *http.Request) {
	id, s, ok := h.session(w, r)
	if !ok {
		return
	}

	style := strings.TrimSpace(r.URL.Query().Get("style"))
	if err := s.PlayNarration(r.Context(), style); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusAccepted, sessionView(id, s))
}

func (h *SessionHandler) StopNarration(w http.ResponseWriter, r *http.Request) {
	id, s, ok := h.session(w, r)
	if !ok {
		return
	}

	s.StopNarration()
	writeJSON(w, r, http.StatusOK, sessionView(id, s))
}

func (h *SessionHandler) session(w http.ResponseWriter, r *http.Request) (string, *services.RouteSession, bool) {
	id := chi.URLParam(r, "id")
	s, ok := h.Registry.Get(id)
	if !ok {
		writeError(w, r, http.StatusNotFound, "session not found")
		return "", nil, false
	}
	return id, s, true
}

func toWaypoint(req dto.WaypointRequest) (domain.Waypoint, error) {
	if req.Lng == nil || req.Lat == nil {
		return domain.Waypoint{}, errors.New("lng and lat are required")
	}
	if *req.Lat < -90 || *req.Lat > 90 || *req.Lng < -180 || *req.Lng > 180 {
		return domain.Waypoint{}, errors.New("lng/lat out of range")
	}

	origin := domain.WaypointOrigin(strings.TrimSpace(req.Origin))
	if origin == "" {
		origin = domain.OriginUserClick
	}
	if !origin.Valid() {
		return domain.Waypoint{}, errors.New("unknown origin " + strconv.Quote(req.Origin))
	}

	return domain.Waypoint{
		Coords: domain.Coordinates{Lon: *req.Lng, Lat: *req.Lat},
		Name:   strings.TrimSpace(req.Name),
		Origin: origin,
	}, nil
}

func sessionView(id string, s *services.RouteSession) dto.SessionResponse {
	snap := s.Snapshot()

	res := dto.SessionResponse{
		ID:         id,
		Generation: snap.Generation,
		Waypoints:  make([]dto.WaypointResponse, 0, len(snap.Waypoints)),
		Narration: dto.NarrationResponse{
			State: string(snap.NarrationState),
			Index: snap.NarrationIndex,
		},
		LastActive: snap.LastActive,
	}
	if snap.Narration != nil {
		res.Narration.Instructions = snap.Narration.Instructions
	}

	for _, wp := range snap.Waypoints {
		res.Waypoints = append(res.Waypoints, dto.WaypointResponse{
			Slot:   wp.Slot,
			Label:  wp.Label(),
			Name:   wp.Name,
			Lng:    wp.Coords.Lon,
			Lat:    wp.Coords.Lat,
			Origin: string(wp.Origin),
		})
	}

	if snap.Route != nil {
		route := &dto.RouteResponse{
			Provider:                snap.Route.Provider,
			DistanceMeters:          snap.Route.DistanceMeters,
			DurationSeconds:         snap.Route.DurationSeconds,
			AdjustedDurationSeconds: snap.Route.DurationSeconds,
			Geometry:                make([][]float64, 0, len(snap.Route.Geometry)),
			Steps:                   make([]dto.StepResponse, 0, len(snap.Route.Steps)),
		}
		for _, c := range snap.Route.Geometry {
			route.Geometry = append(route.Geometry, c.CoordsToList())
		}
		for _, st := range snap.Route.Steps {
			route.Steps = append(route.Steps, dto.StepResponse{Instruction: st.Instruction, DistanceMeters: st.DistanceMeters})
		}
		if snap.Delay != nil {
			route.AdjustedDurationSeconds = snap.Delay.AdjustedDurationSeconds(snap.Route.DurationSeconds)
		}
		res.Route = route
	}

	if snap.Delay != nil {
		delay := &dto.DelayResponse{
			TotalMinutes:  snap.Delay.TotalMinutes,
			NoDelay:       snap.Delay.NoDelay(),
			Contributions: make([]dto.ContributionResponse, 0, len(snap.Delay.Contributions)),
		}
		for _, c := range snap.Delay.Contributions {
			delay.Contributions = append(delay.Contributions, dto.ContributionResponse{
				Category: string(c.Category),
				Minutes:  c.Minutes,
				Reports:  c.Reports,
			})
		}
		res.Delay = delay
	}

	if rec, ok := s.Listener().(*SessionRecorder); ok {
		failure, notices := rec.state()
		res.LastFailure = failure
		for _, n := range notices {
			res.Notices = append(res.Notices, dto.NoticeResponse{Component: n.component, Message: n.message, At: n.at})
		}
	}

	return res
}
