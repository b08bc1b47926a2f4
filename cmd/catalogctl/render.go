package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/matst80/gig-finder/pkg/types"
	"github.com/matst80/gig-finder/pkg/view"
)

func writeFacets(w io.Writer, title string, facets []types.FacetCount, selected []int) {
	parts := make([]string, 0, len(facets))
	for _, f := range facets {
		mark := ""
		for _, id := range selected {
			if id == f.Id {
				mark = "*"
			}
		}
		parts = append(parts, fmt.Sprintf("%s[%d] %s (%d)", mark, f.Id, f.Label, f.Count))
	}
	fmt.Fprintf(w, "%s: %s\n", title, strings.Join(parts, "  "))
}

func renderTo(w io.Writer, res view.Result) {
	fmt.Fprintf(w, "%d of %d groups, %s\n", len(res.Groups), res.Total, res.SortLabel)
	writeFacets(w, "instruments", res.Instruments, res.State.Instruments)
	writeFacets(w, "genres", res.Genres, res.State.Genres)
	if res.Empty {
		fmt.Fprintln(w, "no results")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCREATED\tMEMBERS")
	for i := range res.Groups {
		g := &res.Groups[i]
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", g.Id, g.Name, g.CreatedAt.Format("2006-01-02"), strings.Join(g.Members(), ", "))
	}
	tw.Flush()
}

func render(cmd *cobra.Command, res view.Result) {
	renderTo(cmd.OutOrStdout(), res)
}
