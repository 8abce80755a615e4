package handlers

import (
	"net/http"
	"strings"

	"hazard-route-service/internal/api/dto"
	"hazard-route-service/internal/services"
)

type WaypointHandler struct {
	Resolver *services.WaypointResolver
}

// Search resolves free text into ranked waypoint candidates.
func (h *WaypointHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeError(w, r, http.StatusBadRequest, "q is required")
		return
	}

	candidates, err := h.Resolver.Resolve(r.Context(), q)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	res := dto.SearchResponse{Query: q, Candidates: make([]dto.CandidateResponse, 0, len(candidates))}
	for _, c := range candidates {
		res.Candidates = append(res.Candidates, dto.CandidateResponse{
			Name:   c.Name,
			Kind:   c.Kind,
			Lng:    c.Lon,
			Lat:    c.Lat,
			Origin: string(c.Origin),
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
