package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/okian/scoutmap/internal/domain/finder"
)

// SummaryDependencies defines the interface for selection summaries.
type SummaryDependencies interface {
	Summary(ctx context.Context, clusterID *int) (finder.Summary, error)
}

// SummaryHandler handles summary requests.
type SummaryHandler struct {
	deps SummaryDependencies
}

// NewSummaryHandler creates a new summary handler.
func NewSummaryHandler(deps SummaryDependencies) *SummaryHandler {
	return &SummaryHandler{deps: deps}
}

// HandleSummary handles GET /summary[?cluster=N] requests.
func (h *SummaryHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_summary"
	var clusterID *int
	if s := r.URL.Query().Get("cluster"); s != "" {
		id, err := strconv.Atoi(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		clusterID = &id
	}
	sum, err := h.deps.Summary(r.Context(), clusterID)
	if err != nil {
		writeReadError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}
