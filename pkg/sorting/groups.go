package sorting

import (
	"slices"

	"github.com/matst80/gig-finder/pkg/types"
)

type GroupCompare func(a, b *types.Group) int

func CompareFunc(key types.SortKey, locale Locale) GroupCompare {
	if key == types.SortByCreated {
		return func(a, b *types.Group) int {
			return a.CreatedAt.Compare(b.CreatedAt)
		}
	}
	coll := locale.Collator()
	return func(a, b *types.Group) int {
		return coll.CompareString(a.Name, b.Name)
	}
}

func withDirection(cmp GroupCompare, dir types.Direction) GroupCompare {
	if dir != types.Descending {
		return cmp
	}
	return func(a, b *types.Group) int {
		return -cmp(a, b)
	}
}

// Groups returns a sorted copy of groups. The sort is stable in both
// directions; equal keys keep their input order.
func Groups(groups []types.Group, key types.SortKey, dir types.Direction, locale Locale) []types.Group {
	ret := slices.Clone(groups)
	if ret == nil {
		return []types.Group{}
	}
	cmp := withDirection(CompareFunc(key, locale), dir)
	slices.SortStableFunc(ret, func(a, b types.Group) int {
		return cmp(&a, &b)
	})
	return ret
}

// Label describes the active order the way the listing header shows it.
func Label(key types.SortKey, dir types.Direction) string {
	if key == types.SortByCreated {
		if dir == types.Descending {
			return "newest first"
		}
		return "oldest first"
	}
	if dir == types.Descending {
		return "Z to A"
	}
	return "A to Z"
}

// Facets orders facet counts by label, ties broken by id.
func Facets(facets []types.FacetCount, locale Locale) {
	coll := locale.Collator()
	slices.SortStableFunc(facets, func(a, b types.FacetCount) int {
		if c := coll.CompareString(a.Label, b.Label); c != 0 {
			return c
		}
		return a.Id - b.Id
	})
}
