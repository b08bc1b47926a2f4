// Package filter selects the groups of a catalog snapshot that satisfy a
// FilterState. Selections within one facet are conjunctive: selecting two
// instruments keeps only groups that have both.
package filter

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/matst80/gig-finder/pkg/types"
)

// Predicate reports whether a group is kept.
type Predicate func(g *types.Group) bool

func containsAll(have []int, want []int) bool {
	for _, id := range want {
		if !slices.Contains(have, id) {
			return false
		}
	}
	return true
}

// HasInstruments keeps groups linked to every id; nil when ids is empty.
func HasInstruments(ids []int) Predicate {
	if len(ids) == 0 {
		return nil
	}
	return func(g *types.Group) bool {
		return containsAll(g.InstrumentIds(), ids)
	}
}

// HasGenres keeps groups linked to every genre id; nil when ids is empty.
func HasGenres(ids []int) Predicate {
	if len(ids) == 0 {
		return nil
	}
	return func(g *types.Group) bool {
		return containsAll(g.GenreIds(), ids)
	}
}

// NameContains matches the trimmed query as a case-folded substring of the
// group name. A blank query yields no predicate.
func NameContains(query string) Predicate {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil
	}
	folder := cases.Fold()
	needle := folder.String(q)
	return func(g *types.Group) bool {
		return strings.Contains(folder.String(g.Name), needle)
	}
}

// Predicates lists the active predicates of state, skipping empty selections.
func Predicates(state types.FilterState) []Predicate {
	ret := make([]Predicate, 0, 3)
	for _, p := range []Predicate{
		HasInstruments(state.Instruments),
		HasGenres(state.Genres),
		NameContains(state.Query),
	} {
		if p != nil {
			ret = append(ret, p)
		}
	}
	return ret
}

// Match returns the groups passing every predicate of state, in input order.
// It never modifies groups and always returns a non-nil slice.
func Match(groups []types.Group, state types.FilterState) []types.Group {
	preds := Predicates(state)
	ret := make([]types.Group, 0, len(groups))
outer:
	for i := range groups {
		for _, p := range preds {
			if !p(&groups[i]) {
				continue outer
			}
		}
		ret = append(ret, groups[i])
	}
	return ret
}
