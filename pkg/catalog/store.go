// Package catalog holds the most recently fetched groups and vocabularies and
// hands them out as immutable snapshots.
package catalog

import (
	"context"
	"maps"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/matst80/gig-finder/pkg/types"
)

type GroupFetcher interface {
	FetchGroups(ctx context.Context) ([]types.Group, error)
}

type InstrumentFetcher interface {
	FetchInstruments(ctx context.Context) ([]types.Instrument, error)
}

type GenreFetcher interface {
	FetchGenres(ctx context.Context) ([]types.Genre, error)
}

type Fetcher interface {
	GroupFetcher
	InstrumentFetcher
	GenreFetcher
}

// Snapshot is never modified after it is published. Callers must not write
// to its slices.
type Snapshot struct {
	Groups      []types.Group      `json:"groups"`
	Instruments []types.Instrument `json:"instruments"`
	Genres      []types.Genre      `json:"genres"`
	Version     uint64             `json:"version"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

type Listener func(*Snapshot)

type Store struct {
	fetcher Fetcher
	logger  *zap.Logger

	mu       sync.RWMutex
	snapshot *Snapshot

	subMu   sync.Mutex
	subs    map[int]Listener
	nextSub int

	closed atomic.Bool
}

func NewStore(fetcher Fetcher, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		fetcher:  fetcher,
		logger:   logger,
		snapshot: &Snapshot{Groups: []types.Group{}, Instruments: []types.Instrument{}, Genres: []types.Genre{}},
		subs:     make(map[int]Listener),
	}
}

func (s *Store) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Subscribe registers fn for every published snapshot. fn runs on the
// goroutine that completed the fetch, outside any store lock.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) listeners() []Listener {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	ret := make([]Listener, 0, len(s.subs))
	for _, id := range slices.Sorted(maps.Keys(s.subs)) {
		ret = append(ret, s.subs[id])
	}
	return ret
}

func (s *Store) publish(update func(next *Snapshot)) bool {
	if s.closed.Load() {
		return false
	}
	s.mu.Lock()
	next := *s.snapshot
	update(&next)
	next.Version++
	next.UpdatedAt = time.Now()
	s.snapshot = &next
	s.mu.Unlock()

	for _, fn := range s.listeners() {
		if s.closed.Load() {
			return false
		}
		fn(&next)
	}
	return true
}

// Replace publishes the given collections wholesale. Nil arguments keep the
// current value.
func (s *Store) Replace(groups []types.Group, instruments []types.Instrument, genres []types.Genre) {
	s.publish(func(next *Snapshot) {
		if groups != nil {
			next.Groups = groups
		}
		if instruments != nil {
			next.Instruments = instruments
		}
		if genres != nil {
			next.Genres = genres
		}
	})
}

func fetchInto[T any](ctx context.Context, s *Store, source SourceName, fetch func(context.Context) ([]T, error), assign func(*Snapshot, []T), failures chan<- SourceError) {
	start := time.Now()
	items, err := fetch(ctx)
	if err != nil {
		s.logger.Warn("catalog fetch failed", zap.String("source", string(source)), zap.Error(err))
		failures <- SourceError{Source: source, Err: err}
		return
	}
	if items == nil {
		items = []T{}
	}
	if !s.publish(func(next *Snapshot) { assign(next, items) }) {
		s.logger.Debug("discarding fetch result after close", zap.String("source", string(source)))
		return
	}
	s.logger.Debug("catalog source loaded",
		zap.String("source", string(source)),
		zap.Int("count", len(items)),
		zap.Duration("took", time.Since(start)))
}

// Load fetches groups, instruments and genres concurrently. Each source that
// succeeds replaces its part of the snapshot as soon as it arrives; a source
// that fails leaves its previous value in place and is reported in the
// returned *FetchError.
func (s *Store) Load(ctx context.Context) error {
	if s.closed.Load() {
		return ErrClosed
	}
	failures := make(chan SourceError, 3)
	var g errgroup.Group
	g.Go(func() error {
		fetchInto(ctx, s, SourceGroups, s.fetcher.FetchGroups, func(n *Snapshot, v []types.Group) { n.Groups = v }, failures)
		return nil
	})
	g.Go(func() error {
		fetchInto(ctx, s, SourceInstruments, s.fetcher.FetchInstruments, func(n *Snapshot, v []types.Instrument) { n.Instruments = v }, failures)
		return nil
	})
	g.Go(func() error {
		fetchInto(ctx, s, SourceGenres, s.fetcher.FetchGenres, func(n *Snapshot, v []types.Genre) { n.Genres = v }, failures)
		return nil
	})
	_ = g.Wait()
	close(failures)

	var fe FetchError
	for f := range failures {
		fe.Failures = append(fe.Failures, f)
	}
	if len(fe.Failures) == 0 {
		return nil
	}
	slices.SortFunc(fe.Failures, func(a, b SourceError) int {
		return sourceOrder(a.Source) - sourceOrder(b.Source)
	})
	return &fe
}

func sourceOrder(s SourceName) int {
	switch s {
	case SourceGroups:
		return 0
	case SourceInstruments:
		return 1
	}
	return 2
}

// Close stops publishing. Fetches still in flight are discarded when they
// resolve and no listener is called afterwards.
func (s *Store) Close() {
	if s.closed.Swap(true) {
		return
	}
	s.subMu.Lock()
	clear(s.subs)
	s.subMu.Unlock()
}

func (s *Store) Closed() bool {
	return s.closed.Load()
}
