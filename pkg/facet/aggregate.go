package facet

import (
	"fmt"

	"github.com/matst80/gig-finder/pkg/sorting"
	"github.com/matst80/gig-finder/pkg/types"
)

type CountMode int

const (
	// CountLinks adds one per association link, so a group listing the same
	// instrument twice contributes two.
	CountLinks CountMode = iota
	// CountGroups adds one per group that references the id at least once.
	CountGroups
)

type Options struct {
	Mode   CountMode
	Locale sorting.Locale
}

type link struct {
	id    int
	label string
}

type tally struct {
	order  []int
	counts map[int]int
	labels map[int]string
}

func newTally() *tally {
	return &tally{counts: map[int]int{}, labels: map[int]string{}}
}

func (t *tally) addGroup(links []link, mode CountMode) {
	var seen map[int]struct{}
	if mode == CountGroups {
		seen = make(map[int]struct{}, len(links))
	}
	for _, l := range links {
		if _, ok := t.counts[l.id]; !ok {
			t.order = append(t.order, l.id)
		}
		if t.labels[l.id] == "" && l.label != "" {
			t.labels[l.id] = l.label
		}
		if seen != nil {
			if _, dup := seen[l.id]; dup {
				continue
			}
			seen[l.id] = struct{}{}
		}
		t.counts[l.id]++
	}
}

// Placeholder is the label used for ids that neither a link nor the
// vocabulary can name.
func Placeholder(id int) string {
	return fmt.Sprintf("#%d", id)
}

func (t *tally) result(vocabulary map[int]string, locale sorting.Locale) []types.FacetCount {
	ret := make([]types.FacetCount, 0, len(t.order))
	for _, id := range t.order {
		label := t.labels[id]
		if label == "" {
			label = vocabulary[id]
		}
		if label == "" {
			label = Placeholder(id)
		}
		ret = append(ret, types.FacetCount{Id: id, Label: label, Count: t.counts[id]})
	}
	sorting.Facets(ret, locale)
	return ret
}

func instrumentLinks(g *types.Group) []link {
	ret := make([]link, len(g.GroupInstruments))
	for i, gi := range g.GroupInstruments {
		ret[i] = link{id: gi.Id(), label: gi.Label()}
	}
	return ret
}

func genreLinks(g *types.Group) []link {
	ret := make([]link, len(g.GroupGenres))
	for i, gg := range g.GroupGenres {
		ret[i] = link{id: gg.Id(), label: gg.Label()}
	}
	return ret
}

// Instruments rebuilds the instrument facet of groups from scratch. The
// vocabulary only supplies labels; ids that no group references are absent.
func Instruments(groups []types.Group, vocabulary []types.Instrument, opts Options) []types.FacetCount {
	names := make(map[int]string, len(vocabulary))
	for _, v := range vocabulary {
		names[v.Id] = v.Name
	}
	t := newTally()
	for i := range groups {
		t.addGroup(instrumentLinks(&groups[i]), opts.Mode)
	}
	return t.result(names, opts.Locale)
}

func Genres(groups []types.Group, vocabulary []types.Genre, opts Options) []types.FacetCount {
	names := make(map[int]string, len(vocabulary))
	for _, v := range vocabulary {
		names[v.Id] = v.Name
	}
	t := newTally()
	for i := range groups {
		t.addGroup(genreLinks(&groups[i]), opts.Mode)
	}
	return t.result(names, opts.Locale)
}
