package view

import (
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/matst80/gig-finder/pkg/catalog"
	"github.com/matst80/gig-finder/pkg/types"
)

const DefaultDebounce = 150 * time.Millisecond

type SessionOptions struct {
	Options
	// Debounce delays query changes; zero or less applies them at once.
	Debounce time.Duration
}

// Session is the state of one open catalog view. It recomputes its Result on
// every state change and every snapshot the store publishes, and tells its
// listeners. Listeners run serialized and must not call back into the
// session's mutators synchronously.
type Session struct {
	store  *catalog.Store
	opts   SessionOptions
	logger *zap.Logger

	mu           sync.Mutex
	state        types.FilterState
	result       Result
	listeners    map[int]func(Result)
	nextListener int
	timer        *time.Timer
	pendingQuery string

	emitMu      sync.Mutex
	unsubscribe func()
	disposed    atomic.Bool
}

func NewSession(store *catalog.Store, opts SessionOptions, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Session{
		store:     store,
		opts:      opts,
		logger:    logger,
		state:     types.FilterState{Sort: types.SortByName},
		listeners: make(map[int]func(Result)),
	}
	s.result = Compute(store.Snapshot(), s.state, opts.Options)
	s.unsubscribe = store.Subscribe(s.onSnapshot)
	return s
}

func (s *Session) State() types.FilterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

func (s *Session) Result() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

func (s *Session) Subscribe(fn func(Result)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// recompute always works from the latest published snapshot. Store
// listeners are not ordered by version, so a late notification for an older
// snapshot must not replace a newer result.
func (s *Session) recompute() {
	if s.disposed.Load() {
		return
	}
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	snap := s.store.Snapshot()
	s.mu.Lock()
	res := Compute(snap, s.state.Clone(), s.opts.Options)
	s.result = res
	fns := make([]func(Result), 0, len(s.listeners))
	for i := 0; i < s.nextListener; i++ {
		if fn, ok := s.listeners[i]; ok {
			fns = append(fns, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range fns {
		if s.disposed.Load() {
			return
		}
		fn(res)
	}
}

// onSnapshot skips notifications for snapshots older than the current result.
func (s *Session) onSnapshot(snap *catalog.Snapshot) {
	s.mu.Lock()
	stale := snap.Version < s.result.Version
	s.mu.Unlock()
	if stale {
		s.logger.Debug("skipping stale snapshot", zap.Uint64("version", snap.Version))
		return
	}
	s.recompute()
}

func (s *Session) update(change func(*types.FilterState)) {
	if s.disposed.Load() {
		return
	}
	s.mu.Lock()
	change(&s.state)
	s.mu.Unlock()
	s.recompute()
}

func (s *Session) ToggleInstrument(id int) {
	s.update(func(st *types.FilterState) { st.ToggleInstrument(id) })
}

func (s *Session) ToggleGenre(id int) {
	s.update(func(st *types.FilterState) { st.ToggleGenre(id) })
}

func (s *Session) SelectSort(key types.SortKey) {
	s.update(func(st *types.FilterState) { st.SelectSort(key) })
}

func (s *Session) SetState(state types.FilterState) {
	s.update(func(st *types.FilterState) { *st = state.Clone() })
}

// SetQuery applies q after the debounce delay; a newer call restarts it.
func (s *Session) SetQuery(q string) {
	if s.opts.Debounce <= 0 {
		s.SetQueryNow(q)
		return
	}
	if s.disposed.Load() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingQuery = q
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.opts.Debounce, s.flushQuery)
}

func (s *Session) flushQuery() {
	s.mu.Lock()
	q := s.pendingQuery
	s.mu.Unlock()
	s.SetQueryNow(q)
}

func (s *Session) SetQueryNow(q string) {
	s.update(func(st *types.FilterState) { st.Query = q })
}

// Close detaches the session from its store. Nothing is delivered to
// listeners afterwards, including fetches and debounced queries in flight.
func (s *Session) Close() {
	if s.disposed.Swap(true) {
		return
	}
	s.unsubscribe()
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	clear(s.listeners)
	s.mu.Unlock()
	s.logger.Debug("view session closed")
}
