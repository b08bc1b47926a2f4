package server

import (
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/matst80/gig-finder/pkg/api"
	"github.com/matst80/gig-finder/pkg/catalog"
	"github.com/matst80/gig-finder/pkg/common"
	"github.com/matst80/gig-finder/pkg/common/jsoncompat"
	"github.com/matst80/gig-finder/pkg/notify"
	"github.com/matst80/gig-finder/pkg/types"
	"github.com/matst80/gig-finder/pkg/view"
)

func badRequest(msg string, err error) error {
	return &common.HttpError{Code: http.StatusBadRequest, Message: msg, Err: err}
}

// upstreamError maps api client failures onto the status we answer with.
func upstreamError(err error) error {
	var se *api.StatusError
	var ve *api.ValidationError
	switch {
	case errors.As(err, &ve):
		return badRequest("invalid request", err)
	case errors.Is(err, api.ErrTokenExpired), errors.Is(err, api.ErrNoToken):
		return &common.HttpError{Code: http.StatusUnauthorized, Message: "login required", Err: err}
	case errors.As(err, &se):
		switch se.Code {
		case http.StatusNotFound, http.StatusUnauthorized, http.StatusForbidden, http.StatusBadRequest:
			return &common.HttpError{Code: se.Code, Message: http.StatusText(se.Code), Err: err}
		}
	}
	return &common.HttpError{Code: http.StatusBadGateway, Message: "upstream request failed", Err: err}
}

func (ws *WebServer) groupsRoute(w http.ResponseWriter, r *http.Request, sessionId int, enc jsoncompat.Encoder) error {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		return ws.Groups(w, r, sessionId, enc)
	case http.MethodPost:
		return ws.CreateGroup(w, r, sessionId, enc)
	}
	return &common.HttpError{Code: http.StatusMethodNotAllowed, Message: "method not allowed"}
}

// Groups answers a catalog query: filtered and sorted groups plus the facet
// counts of the matching groups.
func (ws *WebServer) Groups(w http.ResponseWriter, r *http.Request, sessionId int, enc jsoncompat.Encoder) error {
	state, err := types.GetFilterStateFromRequest(r)
	if err != nil {
		return badRequest("invalid filter", err)
	}
	catalogQueries.Inc()
	res := view.Compute(ws.Store.Snapshot(), state, ws.View)
	if res.Empty {
		emptyResults.Inc()
	}
	if ws.Tracking != nil {
		ws.Tracking.TrackQuery(sessionId, state, len(res.Groups), r)
	}
	w.Header().Set("Cache-Control", "no-cache")
	return enc.Encode(res)
}

func bearer(r *http.Request) string {
	return r.Header.Get("Authorization")
}

func (ws *WebServer) clientFor(r *http.Request) *api.Client {
	if token := bearer(r); token != "" {
		return ws.Api.WithToken(token)
	}
	return ws.Api
}

func (ws *WebServer) GetGroup(w http.ResponseWriter, r *http.Request, sessionId int, enc jsoncompat.Encoder) error {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		return badRequest("invalid group id", err)
	}
	group, err := ws.clientFor(r).GetGroup(r.Context(), id)
	if err != nil {
		return upstreamError(err)
	}
	return enc.Encode(group)
}

// CreateGroup forwards the caller's token upstream, then refetches the whole
// catalog instead of patching the snapshot locally.
func (ws *WebServer) CreateGroup(w http.ResponseWriter, r *http.Request, sessionId int, enc jsoncompat.Encoder) error {
	if bearer(r) == "" {
		return &common.HttpError{Code: http.StatusUnauthorized, Message: "login required"}
	}
	req := api.CreateGroupRequest{}
	if err := jsoncompat.NewDecoder(r.Body).Decode(&req); err != nil {
		return badRequest("invalid body", err)
	}
	group, err := ws.clientFor(r).CreateGroup(r.Context(), req)
	if err != nil {
		return upstreamError(err)
	}
	if err := ws.reload(r.Context()); err != nil {
		ws.Logger.Warn("reload after create failed", zap.Error(err))
	}
	if ws.Notifier != nil {
		if err := ws.Notifier.Publish(r.Context(), notify.Change{Reason: "group_created", GroupId: group.Id}); err != nil {
			ws.Logger.Warn("could not publish catalog change", zap.Error(err))
		}
	}
	w.WriteHeader(http.StatusCreated)
	return enc.Encode(group)
}

func (ws *WebServer) Instruments(w http.ResponseWriter, r *http.Request, sessionId int, enc jsoncompat.Encoder) error {
	return enc.Encode(ws.Store.Snapshot().Instruments)
}

func (ws *WebServer) Genres(w http.ResponseWriter, r *http.Request, sessionId int, enc jsoncompat.Encoder) error {
	return enc.Encode(ws.Store.Snapshot().Genres)
}

type reloadResponse struct {
	Version uint64   `json:"version"`
	Groups  int      `json:"groups"`
	Failed  []string `json:"failed,omitempty"`
}

// Reload refetches every source. Failed sources keep serving their previous
// data and the answer is 502 listing them.
func (ws *WebServer) Reload(w http.ResponseWriter, r *http.Request, sessionId int, enc jsoncompat.Encoder) error {
	err := ws.reload(r.Context())
	snap := ws.Store.Snapshot()
	res := reloadResponse{Version: snap.Version, Groups: len(snap.Groups)}
	var fe *catalog.FetchError
	if errors.As(err, &fe) {
		for _, f := range fe.Failures {
			res.Failed = append(res.Failed, string(f.Source))
		}
		w.WriteHeader(http.StatusBadGateway)
	} else if err != nil {
		return &common.HttpError{Code: http.StatusServiceUnavailable, Message: "reload failed", Err: err}
	}
	return enc.Encode(res)
}
