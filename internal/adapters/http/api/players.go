package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/okian/scoutmap/internal/domain/finder"
	"github.com/okian/scoutmap/internal/domain/model"
)

// PlayersDependencies defines the interface for player lookups.
type PlayersDependencies interface {
	Player(ctx context.Context, id string) (*model.Player, error)
	Find(ctx context.Context, q finder.Query) ([]*model.Player, error)
}

// PlayersHandler handles player finder and lookup requests.
type PlayersHandler struct {
	deps PlayersDependencies
}

// NewPlayersHandler creates a new players handler.
func NewPlayersHandler(deps PlayersDependencies) *PlayersHandler {
	return &PlayersHandler{deps: deps}
}

// playerResponse is the wire shape of one clustered player.
type playerResponse struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Position     string         `json:"position"`
	Nation       string         `json:"nation,omitempty"`
	Team         string         `json:"team,omitempty"`
	Gender       string         `json:"gender,omitempty"`
	OVR          float64        `json:"ovr"`
	ClusterID    int            `json:"cluster_id"`
	ClusterLabel string         `json:"cluster_label"`
	Attributes   map[string]any `json:"attributes,omitempty"`
}

func newPlayerResponse(p *model.Player, withAttrs bool) playerResponse {
	out := playerResponse{
		ID:           p.ID,
		Name:         p.Name,
		Position:     p.Position,
		Nation:       p.Nation,
		Team:         p.Team,
		Gender:       p.Gender,
		OVR:          p.OVR(),
		ClusterID:    p.ClusterID,
		ClusterLabel: p.ClusterLabel,
	}
	if withAttrs {
		out.Attributes = p.Attrs
	}
	return out
}

// HandleGetPlayer handles GET /players/{id} requests.
func (h *PlayersHandler) HandleGetPlayer(w http.ResponseWriter, r *http.Request) {
	p, err := h.deps.Player(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeReadError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newPlayerResponse(p, true))
}

// HandleFind handles GET /players requests. Query parameters: min_ovr,
// max_ovr, role, cluster, name and limit.
func (h *PlayersHandler) HandleFind(w http.ResponseWriter, r *http.Request) {
	const op = "api.find_players"
	q, err := parseQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	found, err := h.deps.Find(r.Context(), q)
	if err != nil {
		writeReadError(w, err)
		return
	}
	out := make([]playerResponse, len(found))
	for i, p := range found {
		out[i] = newPlayerResponse(p, false)
	}
	writeJSON(w, http.StatusOK, out)
}

func parseQuery(v url.Values) (finder.Query, error) {
	q := finder.DefaultQuery()
	var err error
	if s := v.Get("min_ovr"); s != "" {
		if q.MinOVR, err = strconv.ParseFloat(s, 64); err != nil {
			return q, err
		}
	}
	if s := v.Get("max_ovr"); s != "" {
		if q.MaxOVR, err = strconv.ParseFloat(s, 64); err != nil {
			return q, err
		}
	}
	q = q.Clamp()
	q.Role = finder.ParseRole(v.Get("role"))
	q.Name = v.Get("name")
	if s := v.Get("cluster"); s != "" {
		id, err := strconv.Atoi(s)
		if err != nil {
			return q, err
		}
		q.ClusterID = &id
	}
	if s := v.Get("limit"); s != "" {
		if q.Limit, err = strconv.Atoi(s); err != nil {
			return q, err
		}
	}
	return q, nil
}
