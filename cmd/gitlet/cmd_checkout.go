package main

import (
	"errors"

	"github.com/spf13/cobra"
)

var errIncorrectOperands = errors.New("Incorrect operands.")

func newCheckoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checkout (-- <file> | <commit> -- <file> | <branch>)",
		Short: "Restore a file from a commit, or switch branches",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dash := cmd.ArgsLenAtDash()
			switch {
			case dash == -1 && len(args) == 1:
				r, err := openRepo(cmd)
				if err != nil {
					return err
				}
				defer r.Close()
				return r.CheckoutBranch(args[0])

			case dash == 0 && len(args) == 1:
				r, err := openRepo(cmd)
				if err != nil {
					return err
				}
				defer r.Close()
				return r.CheckoutFile("", args[0])

			case dash == 1 && len(args) == 2:
				r, err := openRepo(cmd)
				if err != nil {
					return err
				}
				defer r.Close()
				return r.CheckoutFile(args[0], args[1])
			}
			return errIncorrectOperands
		},
	}
}
