package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sternrassler/pokeapi-explorer/pkg/pagination"
)

func listCmd(a *app) *cobra.Command {
	var page int
	var search string

	c := &cobra.Command{
		Use:   "list",
		Short: "Print one page of the listing, or the result of a name search",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if page < 1 {
				return fmt.Errorf("--page must be at least 1, got %d", page)
			}

			d, err := newDeps(cmd.Context(), a.config)
			if err != nil {
				return err
			}
			defer d.Close()

			listing, err := d.catalog.LoadListing(cmd.Context(), page, search, a.config.PageSize)
			if err != nil {
				return err
			}
			if last := pagination.TotalPages(listing.TotalCount, a.config.PageSize); search == "" && last >= 1 && page > last {
				return fmt.Errorf("page %d is past the last page (%d)", page, last)
			}

			printListing(cmd.OutOrStdout(), defaultStyles(), listing, search, a.config.PageSize)
			return nil
		},
	}

	c.Flags().IntVarP(&page, "page", "n", 1, "Page number (1-based)")
	c.Flags().StringVarP(&search, "search", "s", "", "Look up a single Pokémon by name")
	return c
}
