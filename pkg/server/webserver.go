package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/matst80/gig-finder/pkg/api"
	"github.com/matst80/gig-finder/pkg/catalog"
	"github.com/matst80/gig-finder/pkg/common"
	"github.com/matst80/gig-finder/pkg/notify"
	"github.com/matst80/gig-finder/pkg/types"
	"github.com/matst80/gig-finder/pkg/view"
)

type WebServer struct {
	Store    *catalog.Store
	Api      *api.Client
	Notifier notify.Notifier
	Tracking types.Tracking
	View     view.Options
	Logger   *zap.Logger

	unsubscribe func()
}

func NewWebServer(store *catalog.Store, client *api.Client, opts view.Options, logger *zap.Logger) *WebServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	ws := &WebServer{
		Store:    store,
		Api:      client,
		Notifier: notify.NewLocal(),
		View:     opts,
		Logger:   logger,
	}
	ws.unsubscribe = store.Subscribe(func(s *catalog.Snapshot) {
		groupsInSnapshot.Set(float64(len(s.Groups)))
		snapshotVersion.Set(float64(s.Version))
	})
	return ws
}

func (ws *WebServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("/api/groups", common.JsonHandler(ws.Tracking, ws.Logger, ws.groupsRoute))
	mux.HandleFunc("GET /api/groups/{id}", common.JsonHandler(ws.Tracking, ws.Logger, ws.GetGroup))
	mux.HandleFunc("GET /api/instruments", common.JsonHandler(ws.Tracking, ws.Logger, ws.Instruments))
	mux.HandleFunc("GET /api/genres", common.JsonHandler(ws.Tracking, ws.Logger, ws.Genres))
	mux.HandleFunc("POST /api/reload", common.JsonHandler(ws.Tracking, ws.Logger, ws.Reload))
	return mux
}

// Reload refetches the catalog and counts failed sources.
func (ws *WebServer) reload(ctx context.Context) error {
	err := ws.Store.Load(ctx)
	var fe *catalog.FetchError
	if errors.As(err, &fe) {
		for _, f := range fe.Failures {
			fetchFailures.WithLabelValues(string(f.Source)).Inc()
		}
	}
	return err
}

// FollowChanges reloads the catalog whenever another replica reports a change.
func (ws *WebServer) FollowChanges(ctx context.Context) error {
	return ws.Notifier.Subscribe(ctx, func(c notify.Change) {
		ws.Logger.Info("catalog changed elsewhere", zap.String("origin", c.Origin), zap.String("reason", c.Reason))
		if err := ws.reload(ctx); err != nil {
			ws.Logger.Warn("reload after change failed", zap.Error(err))
		}
	})
}

// ReloadEvery refetches the catalog on a fixed interval until ctx is done.
func (ws *WebServer) ReloadEvery(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := ws.reload(ctx); err != nil {
					ws.Logger.Warn("scheduled reload failed", zap.Error(err))
				}
			}
		}
	}()
}

func (ws *WebServer) Close() {
	if ws.unsubscribe != nil {
		ws.unsubscribe()
	}
}
