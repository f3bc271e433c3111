package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show branches, staged changes and working tree changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo(cmd)
			if err != nil {
				return err
			}
			defer r.Close()

			st, err := r.Status()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "=== Branches ===")
			for _, b := range st.Branches {
				if b == st.CurrentBranch {
					fmt.Fprintf(out, "*%s\n", b)
				} else {
					fmt.Fprintln(out, b)
				}
			}
			fmt.Fprintln(out)

			fmt.Fprintln(out, "=== Staged Files ===")
			for _, name := range st.Staged {
				fmt.Fprintln(out, name)
			}
			fmt.Fprintln(out)

			fmt.Fprintln(out, "=== Removed Files ===")
			for _, name := range st.Removed {
				fmt.Fprintln(out, name)
			}
			fmt.Fprintln(out)

			fmt.Fprintln(out, "=== Modifications Not Staged For Commit ===")
			for _, e := range st.Modified {
				fmt.Fprintf(out, "%s (%s)\n", e.Path, e.Status)
			}
			fmt.Fprintln(out)

			fmt.Fprintln(out, "=== Untracked Files ===")
			for _, name := range st.Untracked {
				fmt.Fprintln(out, name)
			}
			fmt.Fprintln(out)
			return nil
		},
	}
}
