package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	service "github.com/okian/scoutmap/internal/app"
	"github.com/okian/scoutmap/internal/domain/filter"
	"github.com/okian/scoutmap/pkg/logger"
)

// IdempotencyHeader may carry the request id instead of the body.
const IdempotencyHeader = "Idempotency-Key"

const maxReclusterBody = 1 << 16

// ReclusterDependencies defines the interface for recluster requests.
type ReclusterDependencies interface {
	Recluster(ctx context.Context, criteria filter.Criteria, requestID string, withProjection bool) (string, error)
}

// ReclusterHandler handles recluster requests.
type ReclusterHandler struct {
	deps   ReclusterDependencies
	logger logger.Logger
}

// NewReclusterHandler creates a new recluster handler.
func NewReclusterHandler(deps ReclusterDependencies, l logger.Logger) *ReclusterHandler {
	return &ReclusterHandler{deps: deps, logger: l}
}

// reclusterRequest is the optional JSON body of POST /recluster.
type reclusterRequest struct {
	RequestID  string `json:"request_id"`
	Gender     string `json:"gender"`
	Nation     string `json:"nation"`
	Projection bool   `json:"projection"`
}

type ackResponse struct {
	Status    string `json:"status"`
	JobID     string `json:"job_id"`
	Duplicate bool   `json:"duplicate"`
}

// HandlePostRecluster handles POST /recluster requests.
func (h *ReclusterHandler) HandlePostRecluster(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_recluster"
	var req reclusterRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxReclusterBody)).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if req.RequestID == "" {
		req.RequestID = r.Header.Get(IdempotencyHeader)
	}

	criteria := filter.Criteria{Gender: req.Gender, Nation: req.Nation}
	jobID, err := h.deps.Recluster(r.Context(), criteria, req.RequestID, req.Projection)
	switch {
	case err == nil:
		writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", JobID: jobID})
	case errors.Is(err, service.ErrDuplicateRequest):
		writeJSON(w, http.StatusConflict, ackResponse{Status: "duplicate", JobID: jobID, Duplicate: true})
	case errors.Is(err, service.ErrBackpressure):
		writeError(w, http.StatusTooManyRequests, "backpressure", WrapKind(op, ErrBackpressure, err))
	case errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "unavailable", Wrap(op, err))
	default:
		h.logger.Error(r.Context(), "recluster failed", logger.String("job_id", jobID), logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}
