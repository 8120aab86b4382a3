package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/okian/scoutmap/internal/adapters/repository"
	service "github.com/okian/scoutmap/internal/app"
)

const defaultTopLimit = 10

// ClustersDependencies defines the interface for cluster reads.
type ClustersDependencies interface {
	Clusters(ctx context.Context) (service.ClusterView, error)
	TopByOVR(ctx context.Context, clusterID, n int) ([]repository.Entry, error)
}

// ClustersHandler handles cluster legend and ranking requests.
type ClustersHandler struct {
	deps ClustersDependencies
}

// NewClustersHandler creates a new clusters handler.
func NewClustersHandler(deps ClustersDependencies) *ClustersHandler {
	return &ClustersHandler{deps: deps}
}

// HandleGetClusters handles GET /clusters requests.
func (h *ClustersHandler) HandleGetClusters(w http.ResponseWriter, r *http.Request) {
	view, err := h.deps.Clusters(r.Context())
	if err != nil {
		writeReadError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleGetTop handles GET /clusters/{id}/top?limit=N requests.
func (h *ClustersHandler) HandleGetTop(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_cluster_top"
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	n := defaultTopLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err = strconv.Atoi(s)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
	}
	entries, err := h.deps.TopByOVR(r.Context(), id, n)
	if err != nil {
		writeReadError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
