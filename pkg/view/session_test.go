package view

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/matst80/gig-finder/pkg/catalog"
	"github.com/matst80/gig-finder/pkg/testutil"
	"github.com/matst80/gig-finder/pkg/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recorder struct {
	mu      sync.Mutex
	results []Result
}

func (r *recorder) add(res Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, res)
}

func (r *recorder) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.results)
}

func (r *recorder) last() Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.results[len(r.results)-1]
}

func loadedStore(t *testing.T) *catalog.Store {
	t.Helper()
	s := catalog.NewStore(testutil.NewFetcher(testutil.ZetaAlpha()), nil)
	require.NoError(t, s.Load(context.Background()))
	t.Cleanup(s.Close)
	return s
}

func TestSessionRecomputesOnStateChange(t *testing.T) {
	s := NewSession(loadedStore(t), SessionOptions{}, nil)
	defer s.Close()
	rec := &recorder{}
	s.Subscribe(rec.add)

	assert.Len(t, s.Result().Groups, 2)

	s.ToggleInstrument(2)
	require.Equal(t, 1, rec.len())
	assert.Equal(t, []string{"Zeta"}, names(rec.last()))

	s.ToggleInstrument(2)
	s.SelectSort(types.SortByName)
	require.Equal(t, 3, rec.len())
	assert.Equal(t, []string{"Zeta", "Alpha"}, names(rec.last()))
	assert.Equal(t, "Z to A", rec.last().SortLabel)
	assert.Equal(t, types.Descending, s.State().Direction)
}

func TestSessionFollowsStore(t *testing.T) {
	store := loadedStore(t)
	s := NewSession(store, SessionOptions{}, nil)
	defer s.Close()
	rec := &recorder{}
	s.Subscribe(rec.add)

	store.Replace(testutil.ZetaAlpha()[1:], nil, nil)
	require.Equal(t, 1, rec.len())
	assert.Equal(t, []string{"Alpha"}, names(rec.last()))
	assert.Equal(t, store.Snapshot().Version, rec.last().Version)
}

func TestSessionDebouncesQuery(t *testing.T) {
	s := NewSession(loadedStore(t), SessionOptions{Debounce: 20 * time.Millisecond}, nil)
	defer s.Close()
	var calls atomic.Int32
	var last atomic.Value
	s.Subscribe(func(res Result) {
		calls.Add(1)
		last.Store(res)
	})

	s.SetQuery("a")
	s.SetQuery("ze")
	s.SetQuery("zet")
	assert.Equal(t, int32(0), calls.Load())

	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, []string{"Zeta"}, names(last.Load().(Result)))
	assert.Equal(t, "zet", s.State().Query)
}

func TestClosedSessionDeliversNothing(t *testing.T) {
	store := loadedStore(t)
	s := NewSession(store, SessionOptions{Debounce: 10 * time.Millisecond}, nil)
	var calls atomic.Int32
	s.Subscribe(func(Result) { calls.Add(1) })

	s.SetQuery("zet")
	s.Close()
	s.Close()

	store.Replace(testutil.ZetaAlpha()[:1], nil, nil)
	s.ToggleGenre(1)
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
	assert.Equal(t, "", s.State().Query)
}

func TestSessionStateIsACopy(t *testing.T) {
	s := NewSession(loadedStore(t), SessionOptions{}, nil)
	defer s.Close()
	s.SetState(types.FilterState{Instruments: []int{1}})
	st := s.State()
	st.Instruments[0] = 2
	assert.Equal(t, []int{1}, s.State().Instruments)
}

func TestSessionKeepsNewestSnapshotWhenNotifiedOutOfOrder(t *testing.T) {
	store := catalog.NewStore(testutil.NewFetcher(nil), nil)
	defer store.Close()

	entered := make(chan struct{})
	release := make(chan struct{})
	store.Subscribe(func(snap *catalog.Snapshot) {
		if snap.Version == 1 {
			close(entered)
			<-release
		}
	})
	s := NewSession(store, SessionOptions{}, nil)
	defer s.Close()
	rec := &recorder{}
	s.Subscribe(rec.add)

	done := make(chan struct{})
	go func() {
		defer close(done)
		store.Replace(testutil.ZetaAlpha(), nil, nil)
	}()
	<-entered
	store.Replace(nil, testutil.Instruments, nil)
	close(release)
	<-done

	res := s.Result()
	assert.Equal(t, uint64(2), res.Version)
	assert.Equal(t, []types.FacetCount{
		{Id: 2, Label: "Drums", Count: 1},
		{Id: 1, Label: "Guitar", Count: 2},
	}, res.Instruments)
	require.Equal(t, 1, rec.len(), "the late notification for version 1 is dropped")
	assert.Equal(t, uint64(2), rec.last().Version)
}
