package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matst80/gig-finder/pkg/catalog"
	"github.com/matst80/gig-finder/pkg/types"
	"github.com/matst80/gig-finder/pkg/view"
)

const browseHelp = `commands:
  i <id>      toggle instrument
  g <id>      toggle genre
  q [text]    set name search (empty clears)
  s name|createdAt  sort, repeat to flip direction
  r           reload catalog
  x           quit`

func newBrowseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Interactively filter the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.store()
			if err != nil {
				return err
			}
			defer store.Close()
			session := view.NewSession(store, view.SessionOptions{Options: a.viewOptions(), Debounce: a.cfg.Debounce}, a.logger.Named("view"))
			defer session.Close()
			out := cmd.OutOrStdout()
			session.Subscribe(func(res view.Result) {
				renderTo(out, res)
				fmt.Fprint(out, "> ")
			})
			go func() {
				if err := store.Load(cmd.Context()); err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), "warning:", err)
				}
			}()
			fmt.Fprintln(out, browseHelp)
			return browse(cmd.Context(), cmd.InOrStdin(), out, store, session)
		},
	}
}

// browse reads commands until quit or EOF. Every accepted command changes
// the session, which re-renders through its listener.
func browse(ctx context.Context, in io.Reader, out io.Writer, store *catalog.Store, session *view.Session) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		cmd, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)
		switch cmd {
		case "":
			continue
		case "x", "quit", "exit":
			return nil
		case "i", "g":
			id, err := strconv.Atoi(arg)
			if err != nil {
				fmt.Fprintf(out, "not an id: %q\n", arg)
				continue
			}
			if cmd == "i" {
				session.ToggleInstrument(id)
			} else {
				session.ToggleGenre(id)
			}
		case "q":
			session.SetQuery(arg)
		case "s":
			key, err := types.ParseSortKey(arg)
			if err != nil {
				fmt.Fprintln(out, err)
				continue
			}
			session.SelectSort(key)
		case "r":
			if err := store.Load(ctx); err != nil {
				fmt.Fprintln(out, "warning:", err)
			}
		default:
			fmt.Fprintln(out, browseHelp)
		}
	}
	return scanner.Err()
}
