package api

import (
	"context"
	"net/http"

	service "github.com/okian/scoutmap/internal/app"
)

// ProjectionDependencies defines the interface for projection reads.
type ProjectionDependencies interface {
	Projection(ctx context.Context) (service.ProjectionView, error)
}

// ProjectionHandler handles projection requests.
type ProjectionHandler struct {
	deps ProjectionDependencies
}

// NewProjectionHandler creates a new projection handler.
func NewProjectionHandler(deps ProjectionDependencies) *ProjectionHandler {
	return &ProjectionHandler{deps: deps}
}

// HandleProjection handles GET /projection requests. An unavailable
// projection is still a 200 with available=false and a reason.
func (h *ProjectionHandler) HandleProjection(w http.ResponseWriter, r *http.Request) {
	view, err := h.deps.Projection(r.Context())
	if err != nil {
		writeReadError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
