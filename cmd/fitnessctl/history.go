package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newHistoryCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect recorded workouts",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List recorded workouts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			entries, err := a.history.GetWorkoutHistory(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No workouts recorded.")
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tROUTINE\tCOMPLETED\tDURATION")
			for _, e := range entries {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", e.ID, e.RoutineName,
					time.Unix(e.CompletedAt, 0).Format("2006-01-02 15:04"),
					time.Duration(e.DurationSeconds)*time.Second)
			}
			return w.Flush()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Show one workout with its exercises and sets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := openApp(cmd.Context(), cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			detail, err := a.history.GetWorkoutDetail(cmd.Context(), id)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (#%d), %s\n", detail.RoutineName, detail.ID, time.Duration(detail.DurationSeconds)*time.Second)
			for _, ex := range detail.Exercises {
				fmt.Fprintf(out, "  %s\n", ex.ExerciseName)
				if ex.Notes != "" {
					fmt.Fprintf(out, "    notes: %s\n", ex.Notes)
				}
				for _, s := range ex.Sets {
					fmt.Fprintf(out, "    set %d: %s kg x %s\n", s.SetNumber, s.WeightKg, s.Reps)
				}
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a workout and everything recorded under it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := openApp(cmd.Context(), cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.history.DeleteWorkout(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted workout %d\n", id)
			return nil
		},
	})

	return cmd
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid workout id %q", s)
	}
	return id, nil
}
