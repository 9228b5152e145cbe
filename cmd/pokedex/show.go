package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func showCmd(a *app) *cobra.Command {
	var triggers bool
	var triggerPage int

	c := &cobra.Command{
		Use:   "show NAME",
		Short: "Print the details of one Pokémon",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if triggerPage < 1 {
				return fmt.Errorf("--trigger-page must be at least 1, got %d", triggerPage)
			}

			d, err := newDeps(cmd.Context(), a.config)
			if err != nil {
				return err
			}
			defer d.Close()

			out := cmd.OutOrStdout()
			st := defaultStyles()

			if !triggers {
				detail, err := d.catalog.LoadDetail(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				printDetail(out, st, detail)
				return nil
			}

			view, err := d.catalog.LoadDetailView(cmd.Context(), args[0], triggerPage, a.config.TriggerPageSize)
			if err != nil {
				return err
			}
			printDetail(out, st, view.Detail)
			fmt.Fprintln(out)
			if view.TriggersErr != nil {
				fmt.Fprintln(out, st.Error.Render("Evolution triggers could not be loaded: "+view.TriggersErr.Error()))
				return nil
			}
			printTriggers(out, st, view.Triggers, a.config.TriggerPageSize)
			return nil
		},
	}

	c.Flags().BoolVarP(&triggers, "triggers", "t", false, "Also print a page of evolution triggers")
	c.Flags().IntVar(&triggerPage, "trigger-page", 1, "Evolution trigger page (1-based)")
	return c
}
