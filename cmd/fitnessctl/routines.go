package main

import (
	"alcyxob/fitness-tracker/internal/domain"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newRoutinesCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "routines",
		Short: "List or refresh saved routines",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List routines, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			routines, err := a.routines.ListRoutines(cmd.Context())
			if err != nil {
				return err
			}
			printRoutines(cmd.OutOrStdout(), routines)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "refresh",
		Short: "Rebuild the routine cache from MongoDB",
		Long: `Drop the cached routines of --user and reload them from MongoDB.

Use this after routines were deleted from another device: a non-empty
cache is otherwise served as is.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			routines, err := a.routines.RefreshCache(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cache refreshed with %d routines\n", len(routines))
			return nil
		},
	})

	return cmd
}

func printRoutines(out io.Writer, routines []domain.Routine) {
	if len(routines) == 0 {
		fmt.Fprintln(out, "No routines saved.")
		return
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEXERCISES\tCREATED")
	for _, r := range routines {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", r.ID, r.Name, len(r.Exercises), r.CreatedAt.Format("2006-01-02 15:04"))
	}
	w.Flush()
}
