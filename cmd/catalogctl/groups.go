package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/matst80/gig-finder/pkg/catalog"
	"github.com/matst80/gig-finder/pkg/types"
	"github.com/matst80/gig-finder/pkg/view"
)

func newGroupsCmd(a *app) *cobra.Command {
	var (
		instruments []int
		genres      []int
		query       string
		sortKey     string
		desc        bool
	)
	cmd := &cobra.Command{
		Use:   "groups",
		Short: "List groups matching the given facets and query",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := types.ParseSortKey(sortKey)
			if err != nil {
				return err
			}
			state := types.FilterState{Instruments: instruments, Genres: genres, Query: query, Sort: key}
			if desc {
				state.Direction = types.Descending
			}
			store, err := a.store()
			if err != nil {
				return err
			}
			defer store.Close()
			if err := store.Load(cmd.Context()); err != nil {
				if !errors.Is(err, catalog.ErrFetchFailed) {
					return err
				}
				fmt.Fprintln(cmd.ErrOrStderr(), "warning:", err)
			}
			render(cmd, view.Compute(store.Snapshot(), state, a.viewOptions()))
			return nil
		},
	}
	cmd.Flags().IntSliceVarP(&instruments, "instrument", "i", nil, "instrument id, all given ids must match")
	cmd.Flags().IntSliceVarP(&genres, "genre", "g", nil, "genre id, all given ids must match")
	cmd.Flags().StringVarP(&query, "query", "q", "", "case-insensitive name search")
	cmd.Flags().StringVarP(&sortKey, "sort", "s", "name", "sort key: name or createdAt")
	cmd.Flags().BoolVar(&desc, "desc", false, "descending order")
	return cmd
}

func newVocabularyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "vocabulary instruments|genres",
		Short:     "List every instrument or genre",
		ValidArgs: []string{"instruments", "genres"},
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			defer tw.Flush()
			if args[0] == "genres" {
				items, err := c.FetchGenres(cmd.Context())
				if err != nil {
					return err
				}
				for _, g := range items {
					fmt.Fprintf(tw, "%d\t%s\n", g.Id, g.Name)
				}
				return nil
			}
			items, err := c.FetchInstruments(cmd.Context())
			if err != nil {
				return err
			}
			for _, i := range items {
				fmt.Fprintf(tw, "%d\t%s\n", i.Id, i.Name)
			}
			return nil
		},
	}
}
