package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/odvcencio/gitlet/pkg/repo"
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	cfg := repo.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Create an empty gitlet repository",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}

			abs, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("resolve path: %w", err)
			}

			// Ensure the target directory exists.
			if err := os.MkdirAll(abs, 0o755); err != nil {
				return fmt.Errorf("create directory: %w", err)
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger, err := newLogger(cfg.Log.Level, verboseFlag(cmd))
			if err != nil {
				return err
			}
			defer logger.Sync()
			r, err := repo.Init(abs, repo.WithConfig(cfg), repo.WithLogger(logger))
			if err != nil {
				return err
			}
			defer r.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "Initialized empty Gitlet repository in %s\n", r.ControlDir+string(filepath.Separator))
			return nil
		},
	}

	cmd.Flags().StringVar(&cfg.Core.Backend, "backend", cfg.Core.Backend, `object store backend: "files" or "bolt"`)
	cmd.Flags().StringVar(&cfg.Core.Compression, "compression", cfg.Core.Compression, `object compression: "none" or "zstd"`)
	cmd.Flags().IntVar(&cfg.Core.AbbrevLength, "abbrev-length", cfg.Core.AbbrevLength, "length of abbreviated commit index keys")
	return cmd
}
