// Package view turns a catalog snapshot and a filter state into what a
// listing renders: the ordered groups and the facet counts of the visible
// groups.
package view

import (
	"github.com/matst80/gig-finder/pkg/catalog"
	"github.com/matst80/gig-finder/pkg/facet"
	"github.com/matst80/gig-finder/pkg/filter"
	"github.com/matst80/gig-finder/pkg/sorting"
	"github.com/matst80/gig-finder/pkg/types"
)

type Options struct {
	Locale    sorting.Locale
	CountMode facet.CountMode
}

type Result struct {
	Groups      []types.Group      `json:"groups"`
	Instruments []types.FacetCount `json:"instruments"`
	Genres      []types.FacetCount `json:"genres"`
	// Total is the size of the unfiltered collection.
	Total     int               `json:"total"`
	Empty     bool              `json:"empty"`
	State     types.FilterState `json:"state"`
	SortLabel string            `json:"sortLabel"`
	Version   uint64            `json:"version"`
}

// Compute filters, aggregates and sorts. Facet counts come from the filtered
// groups, so they follow the current selection. It is a pure function of its
// arguments; a nil snapshot is treated as empty.
func Compute(snap *catalog.Snapshot, state types.FilterState, opts Options) Result {
	if snap == nil {
		snap = &catalog.Snapshot{}
	}
	matching := filter.Match(snap.Groups, state)
	facetOpts := facet.Options{Mode: opts.CountMode, Locale: opts.Locale}
	key := state.SortKey()
	return Result{
		Groups:      sorting.Groups(matching, key, state.Direction, opts.Locale),
		Instruments: facet.Instruments(matching, snap.Instruments, facetOpts),
		Genres:      facet.Genres(matching, snap.Genres, facetOpts),
		Total:       len(snap.Groups),
		Empty:       len(matching) == 0,
		State:       state,
		SortLabel:   sorting.Label(key, state.Direction),
		Version:     snap.Version,
	}
}
