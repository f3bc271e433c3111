package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMergeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "merge <branch>",
		Short: "Merge a branch into the current branch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo(cmd)
			if err != nil {
				return err
			}
			defer r.Close()

			report, err := r.Merge(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case report.AlreadyMerged:
				fmt.Fprintln(out, "Given branch is an ancestor of the current branch.")
			case report.FastForward:
				fmt.Fprintln(out, "Current branch fast-forwarded.")
			case report.HasConflicts:
				fmt.Fprintln(out, "Encountered a merge conflict.")
			}
			return nil
		},
	}
}
