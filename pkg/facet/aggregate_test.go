package facet

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/matst80/gig-finder/pkg/sorting"
	"github.com/matst80/gig-finder/pkg/testutil"
	"github.com/matst80/gig-finder/pkg/types"
)

var linkCounts = Options{Mode: CountLinks, Locale: sorting.DefaultLocale}

func TestInstrumentFacetFromVisibleGroups(t *testing.T) {
	res := Instruments(testutil.ZetaAlpha(), testutil.Instruments, linkCounts)
	assert.Equal(t, []types.FacetCount{
		{Id: 2, Label: "Drums", Count: 1},
		{Id: 1, Label: "Guitar", Count: 2},
	}, res)
}

func TestUnreferencedVocabularyIsAbsent(t *testing.T) {
	res := Genres(testutil.ZetaAlpha()[:1], testutil.Genres, linkCounts)
	assert.Equal(t, []types.FacetCount{{Id: 1, Label: "Rock", Count: 1}}, res)
}

func TestDuplicateLinks(t *testing.T) {
	groups := []types.Group{
		testutil.Group(1, "Doubled", []int{1, 1, 2}, nil),
		testutil.Group(2, "Single", []int{1}, nil),
	}
	links := Instruments(groups, testutil.Instruments, linkCounts)
	assert.Equal(t, []types.FacetCount{
		{Id: 2, Label: "Drums", Count: 1},
		{Id: 1, Label: "Guitar", Count: 3},
	}, links)

	distinct := Instruments(groups, testutil.Instruments, Options{Mode: CountGroups})
	assert.Equal(t, []types.FacetCount{
		{Id: 2, Label: "Drums", Count: 1},
		{Id: 1, Label: "Guitar", Count: 2},
	}, distinct)
}

func TestLabelFallbacks(t *testing.T) {
	g := testutil.Group(1, "Mixed", []int{9}, nil)
	g.GroupInstruments = append(g.GroupInstruments, types.GroupInstrument{
		InstrumentId: 1,
		Instrument:   &types.Instrument{Id: 1, Name: "Gitarr"},
	})
	g.GroupInstruments = append(g.GroupInstruments, types.GroupInstrument{InstrumentId: 3})

	res := Instruments([]types.Group{g}, testutil.Instruments, linkCounts)
	assert.ElementsMatch(t, []types.FacetCount{
		{Id: 9, Label: Placeholder(9), Count: 1},
		{Id: 3, Label: "Bass", Count: 1},
		{Id: 1, Label: "Gitarr", Count: 1},
	}, res)
}

func TestEmptyGroups(t *testing.T) {
	res := Instruments(nil, testutil.Instruments, linkCounts)
	assert.NotNil(t, res)
	assert.Empty(t, res)
}

func TestCountsAreRebuiltPerCall(t *testing.T) {
	groups := testutil.ZetaAlpha()
	first := Instruments(groups, nil, linkCounts)
	second := Instruments(groups[1:], nil, linkCounts)
	assert.Equal(t, []types.FacetCount{{Id: 1, Label: "#1", Count: 1}}, second)
	assert.Len(t, first, 2)
}

func TestTallyMatchesLinkOccurrencesOnRandomCatalogs(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 5))
	for round := range 50 {
		groups := make([]types.Group, r.IntN(30))
		for i := range groups {
			links := make([]int, r.IntN(5))
			for j := range links {
				links[j] = r.IntN(6) + 1
			}
			groups[i] = testutil.Group(i+1, "g", links, nil)
		}

		occurrences := map[int]int{}
		withId := map[int]int{}
		total := 0
		for _, g := range groups {
			ids := g.InstrumentIds()
			for _, id := range ids {
				occurrences[id]++
				total++
			}
			slices.Sort(ids)
			for _, id := range slices.Compact(ids) {
				withId[id]++
			}
		}

		sum := 0
		for _, f := range Instruments(groups, testutil.Instruments, linkCounts) {
			if f.Count != occurrences[f.Id] {
				t.Fatalf("round %d: id %d counted %d, expected %d", round, f.Id, f.Count, occurrences[f.Id])
			}
			sum += f.Count
		}
		assert.Equal(t, total, sum, "round %d", round)

		distinct := Instruments(groups, testutil.Instruments, Options{Mode: CountGroups})
		assert.Len(t, distinct, len(withId), "round %d", round)
		for _, f := range distinct {
			assert.Equal(t, withId[f.Id], f.Count, "round %d id %d", round, f.Id)
		}
	}
}
