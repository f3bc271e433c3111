package main

import (
	"fmt"
	"io"

	"github.com/odvcencio/gitlet/pkg/object"
	"github.com/spf13/cobra"
)

// logDateLayout matches "Thu Nov 9 20:00:05 2017 -0800".
const logDateLayout = "Mon Jan 2 15:04:05 2006 -0700"

func newLogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "log",
		Short: "Show the history of the current branch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo(cmd)
			if err != nil {
				return err
			}
			defer r.Close()

			commits, err := r.Log()
			if err != nil {
				return err
			}
			writeLog(cmd.OutOrStdout(), commits)
			return nil
		},
	}
}

func newGlobalLogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "global-log",
		Short: "Show every commit ever made",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo(cmd)
			if err != nil {
				return err
			}
			defer r.Close()

			commits, err := r.GlobalLog()
			if err != nil {
				return err
			}
			writeLog(cmd.OutOrStdout(), commits)
			return nil
		},
	}
}

func newFindCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "find <message>",
		Short: "Print the ids of all commits with the given message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo(cmd)
			if err != nil {
				return err
			}
			defer r.Close()

			ids, err := r.Find(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, id := range ids {
				fmt.Fprintln(out, id)
			}
			return nil
		},
	}
}

func writeLog(out io.Writer, commits []*object.Commit) {
	for _, c := range commits {
		fmt.Fprintln(out, "===")
		fmt.Fprintf(out, "commit %s\n", c.ID)
		if c.IsMerge() {
			fmt.Fprintf(out, "Merge: %s %s\n", c.Parent.Short(7), c.MergeParent.Short(7))
		}
		fmt.Fprintf(out, "Date: %s\n", c.Time().Format(logDateLayout))
		fmt.Fprintln(out, c.Message)
		fmt.Fprintln(out)
	}
}
