// Package testutil builds catalog fixtures shared by package tests.
package testutil

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/matst80/gig-finder/pkg/types"
)

var Epoch = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

var Instruments = []types.Instrument{
	{Id: 1, Name: "Guitar"},
	{Id: 2, Name: "Drums"},
	{Id: 3, Name: "Bass"},
	{Id: 4, Name: "Vocals"},
}

var Genres = []types.Genre{
	{Id: 1, Name: "Rock"},
	{Id: 2, Name: "Jazz"},
	{Id: 3, Name: "Punk"},
}

// Group links instruments and genres by id only. CreatedAt is Epoch plus id
// days so creation order follows id.
func Group(id int, name string, instruments, genres []int) types.Group {
	g := types.Group{
		Id:               id,
		Name:             name,
		CreatedAt:        Epoch.AddDate(0, 0, id),
		GroupInstruments: make([]types.GroupInstrument, 0, len(instruments)),
		GroupGenres:      make([]types.GroupGenre, 0, len(genres)),
	}
	for _, i := range instruments {
		g.GroupInstruments = append(g.GroupInstruments, types.GroupInstrument{InstrumentId: i})
	}
	for _, i := range genres {
		g.GroupGenres = append(g.GroupGenres, types.GroupGenre{GenreId: i})
	}
	return g
}

// ZetaAlpha is the two group catalog most listing tests start from.
func ZetaAlpha() []types.Group {
	return []types.Group{
		Group(1, "Zeta", []int{1, 2}, []int{1}),
		Group(2, "Alpha", []int{1}, []int{2}),
	}
}

// Fetcher serves fixed collections. A non-nil Gate holds every fetch until
// it is closed.
type Fetcher struct {
	mu             sync.Mutex
	groups         []types.Group
	instruments    []types.Instrument
	genres         []types.Genre
	groupsErr      error
	instrumentsErr error
	genresErr      error

	Gate  chan struct{}
	calls atomic.Int32
}

func NewFetcher(groups []types.Group) *Fetcher {
	return &Fetcher{groups: groups, instruments: Instruments, genres: Genres}
}

func (f *Fetcher) Calls() int {
	return int(f.calls.Load())
}

func (f *Fetcher) SetGroups(groups []types.Group) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.groups = groups
}

func (f *Fetcher) SetGenres(genres []types.Genre) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.genres = genres
}

func (f *Fetcher) Fail(groups, instruments, genres error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.groupsErr, f.instrumentsErr, f.genresErr = groups, instruments, genres
}

func (f *Fetcher) wait(ctx context.Context) error {
	f.calls.Add(1)
	if f.Gate == nil {
		return nil
	}
	select {
	case <-f.Gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *Fetcher) FetchGroups(ctx context.Context) ([]types.Group, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.groups, f.groupsErr
}

func (f *Fetcher) FetchInstruments(ctx context.Context) ([]types.Instrument, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.instruments, f.instrumentsErr
}

func (f *Fetcher) FetchGenres(ctx context.Context) ([]types.Genre, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.genres, f.genresErr
}
