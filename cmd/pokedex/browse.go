package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Sternrassler/pokeapi-explorer/pkg/pagination"
	"github.com/Sternrassler/pokeapi-explorer/pkg/view"
)

const browseHelp = "Commands: n (next), p (previous), <number> (go to page), /<name> (search), c (clear search), q (quit)"

func browseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Page through the listing interactively",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			d, err := newDeps(ctx, a.config)
			if err != nil {
				return err
			}
			defer d.Close()

			lv := view.NewListView(d.catalog, a.config.PageSize)
			defer lv.Close()

			return browse(ctx, lv, a.config.PageSize, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

// browse runs the line-based loop until q, end of input or cancellation.
func browse(ctx context.Context, lv *view.ListView, pageSize int, in io.Reader, out io.Writer) error {
	st := defaultStyles()

	show := func(snap view.Snapshot, err error) {
		switch {
		case errors.Is(err, view.ErrSuperseded):
			return
		case snap.Status == view.StatusErrored:
			fmt.Fprintln(out, st.Error.Render("Error: "+snap.Err.Error()))
		case snap.Status == view.StatusLoaded:
			printListing(out, st, snap.Page, snap.Query.Search, pageSize)
		}
		fmt.Fprintln(out, st.Muted.Render(browseHelp))
	}

	show(lv.Load(ctx, view.Query{Page: 1}))

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		snap := lv.Snapshot()
		current := pagerOf(snap, pageSize)

		paging := line == "n" || line == "p" || isPageNumber(line)
		if paging && snap.Query.Search != "" {
			fmt.Fprintln(out, st.Muted.Render("Search results have a single page; use c to clear the search."))
			continue
		}

		switch {
		case line == "":
			continue
		case line == "q":
			return nil
		case line == "n":
			show(lv.GoToPage(ctx, current.Next()))
		case line == "p":
			show(lv.GoToPage(ctx, current.Previous()))
		case line == "c":
			show(lv.ClearSearch(ctx))
		case strings.HasPrefix(line, "/"):
			name := strings.TrimSpace(line[1:])
			if name == "" {
				show(lv.ClearSearch(ctx))
				continue
			}
			show(lv.SubmitSearch(ctx, name))
		default:
			n, err := strconv.Atoi(line)
			if err != nil || n < 1 {
				fmt.Fprintln(out, st.Error.Render(fmt.Sprintf("Unknown command %q", line)))
				fmt.Fprintln(out, st.Muted.Render(browseHelp))
				continue
			}
			if current.TotalPages > 0 {
				n = min(n, current.TotalPages)
			}
			show(lv.GoToPage(ctx, n))
		}
	}
}

// pagerOf derives the navigation bounds from the last loaded page.
func pagerOf(snap view.Snapshot, pageSize int) pagination.Pager {
	if snap.Page == nil {
		// Unknown bounds: allow moving forward by one.
		return pagination.Pager{Current: snap.Query.Page, TotalPages: snap.Query.Page + 1, PageSize: pageSize}
	}
	return pagination.NewPager(snap.Page.PageIndex, pageSize, snap.Page.TotalCount)
}

func isPageNumber(s string) bool {
	n, err := strconv.Atoi(s)
	return err == nil && n >= 1
}
