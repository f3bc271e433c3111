package main

import (
	"fmt"
	"os"

	"github.com/odvcencio/gitlet/pkg/repo"
	"github.com/spf13/cobra"
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, repo.Message(err))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "gitlet",
		Short:         "A minimal single-user version-control system",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().BoolP("verbose", "v", false, "log repository state transitions to stderr")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newAddCmd())
	root.AddCommand(newCommitCmd())
	root.AddCommand(newRmCmd())
	root.AddCommand(newLogCmd())
	root.AddCommand(newGlobalLogCmd())
	root.AddCommand(newFindCmd())
	root.AddCommand(newStatusCmd())
	root.AddCommand(newCheckoutCmd())
	root.AddCommand(newBranchCmd())
	root.AddCommand(newRmBranchCmd())
	root.AddCommand(newResetCmd())
	root.AddCommand(newMergeCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "gitlet 0.1.0-dev")
		},
	}
}

// openRepo opens the repository containing the working directory and
// attaches a logger built from its [log] config and --verbose.
func openRepo(cmd *cobra.Command) (*repo.Repo, error) {
	r, err := repo.Open(".")
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(r.Config.Log.Level, verboseFlag(cmd))
	if err != nil {
		r.Close()
		return nil, err
	}
	r.SetLogger(logger)
	return r, nil
}

func verboseFlag(cmd *cobra.Command) bool {
	f := cmd.Flag("verbose")
	return f != nil && f.Value.String() == "true"
}
