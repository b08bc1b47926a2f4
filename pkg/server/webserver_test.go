package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/matst80/gig-finder/pkg/api"
	"github.com/matst80/gig-finder/pkg/catalog"
	"github.com/matst80/gig-finder/pkg/common/jsoncompat"
	"github.com/matst80/gig-finder/pkg/notify"
	"github.com/matst80/gig-finder/pkg/testutil"
	"github.com/matst80/gig-finder/pkg/types"
	"github.com/matst80/gig-finder/pkg/view"
)

// upstream imitates the booking API.
type upstream struct {
	mu         sync.Mutex
	groups     []types.Group
	failGenres bool
}

func (u *upstream) handler(t *testing.T) http.Handler {
	write := func(w http.ResponseWriter, code int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		assert.NoError(t, jsoncompat.NewEncoder(w).Encode(v))
	}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/groups", func(w http.ResponseWriter, r *http.Request) {
		u.mu.Lock()
		defer u.mu.Unlock()
		write(w, http.StatusOK, u.groups)
	})
	mux.HandleFunc("GET /api/v1/groups/{id}", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})
	mux.HandleFunc("POST /api/v1/groups", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer secret" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		req := api.CreateGroupRequest{}
		assert.NoError(t, jsoncompat.NewDecoder(r.Body).Decode(&req))
		u.mu.Lock()
		g := testutil.Group(len(u.groups)+1, req.Name, req.Instruments, req.Genres)
		u.groups = append(u.groups, g)
		u.mu.Unlock()
		write(w, http.StatusCreated, g)
	})
	mux.HandleFunc("GET /api/v1/instruments", func(w http.ResponseWriter, r *http.Request) {
		write(w, http.StatusOK, testutil.Instruments)
	})
	mux.HandleFunc("GET /api/v1/genres", func(w http.ResponseWriter, r *http.Request) {
		u.mu.Lock()
		fail := u.failGenres
		u.mu.Unlock()
		if fail {
			http.Error(w, "down", http.StatusInternalServerError)
			return
		}
		write(w, http.StatusOK, testutil.Genres)
	})
	return mux
}

type recordingNotifier struct {
	*notify.Local
	published []notify.Change
}

func (n *recordingNotifier) Publish(ctx context.Context, c notify.Change) error {
	n.published = append(n.published, c)
	return n.Local.Publish(ctx, c)
}

func setup(t *testing.T) (*WebServer, *upstream, http.Handler) {
	t.Helper()
	up := &upstream{groups: testutil.ZetaAlpha()}
	srv := httptest.NewServer(up.handler(t))
	t.Cleanup(srv.Close)

	client, err := api.New(srv.URL + "/api")
	require.NoError(t, err)
	store := catalog.NewStore(client, zaptest.NewLogger(t))
	t.Cleanup(store.Close)
	require.NoError(t, store.Load(context.Background()))

	ws := NewWebServer(store, client, view.Options{}, zaptest.NewLogger(t))
	t.Cleanup(ws.Close)
	return ws, up, ws.Handler()
}

func serve(h http.Handler, r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func TestGroupsQuery(t *testing.T) {
	_, _, h := setup(t)
	w := serve(h, httptest.NewRequest(http.MethodGet, "/api/groups?ins=1&sort=name", nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	res := view.Result{}
	require.NoError(t, jsoncompat.Unmarshal(w.Body.Bytes(), &res))
	require.Len(t, res.Groups, 2)
	assert.Equal(t, "Alpha", res.Groups[0].Name)
	assert.Equal(t, []types.FacetCount{
		{Id: 2, Label: "Drums", Count: 1},
		{Id: 1, Label: "Guitar", Count: 2},
	}, res.Instruments)
	assert.Equal(t, "A to Z", res.SortLabel)
}

func TestGroupsQueryBothInstruments(t *testing.T) {
	_, _, h := setup(t)
	w := serve(h, httptest.NewRequest(http.MethodGet, "/api/groups?ins=1&ins=2", nil))
	res := view.Result{}
	require.NoError(t, jsoncompat.Unmarshal(w.Body.Bytes(), &res))
	require.Len(t, res.Groups, 1)
	assert.Equal(t, "Zeta", res.Groups[0].Name)
}

func TestGroupsRejectsUnknownSort(t *testing.T) {
	_, _, h := setup(t)
	w := serve(h, httptest.NewRequest(http.MethodGet, "/api/groups?sort=price", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid filter")
}

func TestVocabularies(t *testing.T) {
	_, _, h := setup(t)
	w := serve(h, httptest.NewRequest(http.MethodGet, "/api/instruments", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var instruments []types.Instrument
	require.NoError(t, jsoncompat.Unmarshal(w.Body.Bytes(), &instruments))
	assert.Equal(t, testutil.Instruments, instruments)
}

func TestGetGroupNotFound(t *testing.T) {
	_, _, h := setup(t)
	w := serve(h, httptest.NewRequest(http.MethodGet, "/api/groups/99", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(h, httptest.NewRequest(http.MethodGet, "/api/groups/abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateGroupNeedsLogin(t *testing.T) {
	_, _, h := setup(t)
	body := `{"name":"Gamma","description":"new","instruments":[1],"genres":[2]}`
	w := serve(h, httptest.NewRequest(http.MethodPost, "/api/groups", strings.NewReader(body)))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateGroupValidation(t *testing.T) {
	_, _, h := setup(t)
	r := httptest.NewRequest(http.MethodPost, "/api/groups", strings.NewReader(`{"name":"Gamma","description":"new","instruments":[],"genres":[2]}`))
	r.Header.Set("Authorization", "Bearer secret")
	w := serve(h, r)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"Instruments":"min=1"`)
}

func TestCreateGroupReloadsCatalog(t *testing.T) {
	ws, _, h := setup(t)
	n := &recordingNotifier{Local: notify.NewLocal()}
	ws.Notifier = n
	before := ws.Store.Snapshot().Version

	r := httptest.NewRequest(http.MethodPost, "/api/groups", strings.NewReader(`{"name":"Gamma","description":"new","instruments":[3],"genres":[2]}`))
	r.Header.Set("Authorization", "Bearer secret")
	w := serve(h, r)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	snap := ws.Store.Snapshot()
	assert.Len(t, snap.Groups, 3)
	assert.Greater(t, snap.Version, before)
	require.Len(t, n.published, 1)
	assert.Equal(t, "group_created", n.published[0].Reason)
	assert.Equal(t, 3, n.published[0].GroupId)

	w = serve(h, httptest.NewRequest(http.MethodGet, "/api/groups?ins=3", nil))
	res := view.Result{}
	require.NoError(t, jsoncompat.Unmarshal(w.Body.Bytes(), &res))
	require.Len(t, res.Groups, 1)
	assert.Equal(t, "Gamma", res.Groups[0].Name)
}

func TestReloadReportsFailedSources(t *testing.T) {
	ws, up, h := setup(t)
	up.mu.Lock()
	up.failGenres = true
	up.groups = up.groups[:1]
	up.mu.Unlock()

	w := serve(h, httptest.NewRequest(http.MethodPost, "/api/reload", nil))
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), `"failed":["genres"]`)
	assert.Len(t, ws.Store.Snapshot().Groups, 1)
	assert.Equal(t, testutil.Genres, ws.Store.Snapshot().Genres)
}

func TestFollowChangesReloads(t *testing.T) {
	ws, up, _ := setup(t)
	local := notify.NewLocal()
	ws.Notifier = local
	require.NoError(t, ws.FollowChanges(context.Background()))

	up.mu.Lock()
	up.groups = up.groups[:1]
	up.mu.Unlock()
	require.NoError(t, local.Publish(context.Background(), notify.Change{Origin: "other-replica", Reason: "group_created"}))
	assert.Len(t, ws.Store.Snapshot().Groups, 1)
}

func TestHealth(t *testing.T) {
	_, _, h := setup(t)
	w := serve(h, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
