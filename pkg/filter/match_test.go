package filter

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matst80/gig-finder/pkg/testutil"
	"github.com/matst80/gig-finder/pkg/types"
)

func names(groups []types.Group) []string {
	ret := make([]string, len(groups))
	for i, g := range groups {
		ret[i] = g.Name
	}
	return ret
}

func TestMatchSingleInstrument(t *testing.T) {
	res := Match(testutil.ZetaAlpha(), types.FilterState{Instruments: []int{1}})
	assert.Equal(t, []string{"Zeta", "Alpha"}, names(res))
}

func TestMatchRequiresEverySelectedInstrument(t *testing.T) {
	res := Match(testutil.ZetaAlpha(), types.FilterState{Instruments: []int{1, 2}})
	assert.Equal(t, []string{"Zeta"}, names(res))
}

func TestMatchGenresAndInstrumentsCombine(t *testing.T) {
	res := Match(testutil.ZetaAlpha(), types.FilterState{Instruments: []int{1}, Genres: []int{2}})
	assert.Equal(t, []string{"Alpha"}, names(res))
}

func TestMatchQuery(t *testing.T) {
	for _, q := range []string{"zet", "ZET", "  eT  "} {
		res := Match(testutil.ZetaAlpha(), types.FilterState{Query: q})
		assert.Equal(t, []string{"Zeta"}, names(res), "query %q", q)
	}
	res := Match(testutil.ZetaAlpha(), types.FilterState{Query: " \t "})
	assert.Len(t, res, 2, "blank query filters nothing")
}

func TestMatchEmptyStateIsIdentity(t *testing.T) {
	groups := testutil.ZetaAlpha()
	res := Match(groups, types.FilterState{})
	require.Equal(t, groups, res)

	res[0].Name = "changed"
	assert.Equal(t, "Zeta", groups[0].Name, "result must not alias the input")
}

func TestMatchNilInput(t *testing.T) {
	res := Match(nil, types.FilterState{Instruments: []int{1}})
	assert.NotNil(t, res)
	assert.Empty(t, res)
}

func TestMatchUnknownInstrumentMatchesNothing(t *testing.T) {
	assert.Empty(t, Match(testutil.ZetaAlpha(), types.FilterState{Instruments: []int{42}}))
}

func randomIds(r *rand.Rand, n int) []int {
	ret := make([]int, 0, n)
	for range n {
		ret = append(ret, r.IntN(6)+1)
	}
	return ret
}

func TestMatchIsConjunctiveOnRandomCatalogs(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	for round := range 50 {
		groups := make([]types.Group, 40)
		for i := range groups {
			groups[i] = testutil.Group(i+1, "g", randomIds(r, r.IntN(4)), randomIds(r, r.IntN(3)))
		}
		state := types.FilterState{Instruments: randomIds(r, r.IntN(3)), Genres: randomIds(r, r.IntN(2))}
		res := Match(groups, state)

		kept := map[int]bool{}
		for _, g := range res {
			kept[g.Id] = true
		}
		for _, g := range groups {
			want := true
			for _, id := range state.Instruments {
				want = want && slices.Contains(g.InstrumentIds(), id)
			}
			for _, id := range state.Genres {
				want = want && slices.Contains(g.GenreIds(), id)
			}
			if want != kept[g.Id] {
				t.Fatalf("round %d: group %d kept=%v, expected %v for %+v", round, g.Id, kept[g.Id], want, state)
			}
		}
	}
}
