package main

import (
	"fmt"
	"os"

	"docnav/internal/cache"
	"docnav/internal/cache/store/sqlite"
	"docnav/internal/config"
	"docnav/internal/reference"

	"github.com/spf13/cobra"
)

// openJumps opens the pending jumps of the current directory's workspace.
func openJumps(cfg config.Config) (*cache.PendingJumps, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	path, err := cfg.JumpsDB(cwd)
	if err != nil {
		return nil, err
	}
	store, err := sqlite.Open(sqlite.Config{Path: path})
	if err != nil {
		return nil, err
	}
	return cache.NewPendingJumps(store, cache.WithTTL(cfg.TTL())), nil
}

func jumpsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jumps",
		Short: "Inspect and drive the pending-jump store",
	}
	cmd.AddCommand(jumpsRecordCmd())
	cmd.AddCommand(jumpsConsumeCmd())
	cmd.AddCommand(jumpsSweepCmd())
	return cmd
}

func withJumps(fn func(cmd *cobra.Command, args []string, jumps *cache.PendingJumps) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		jumps, err := openJumps(cfg)
		if err != nil {
			return err
		}
		defer jumps.Close()
		return fn(cmd, args, jumps)
	}
}

func jumpsRecordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "record REF LOCATOR",
		Short: "Remember LOCATOR until a viewer for REF is ready",
		Args:  cobra.ExactArgs(2),
		RunE: withJumps(func(cmd *cobra.Command, args []string, jumps *cache.PendingJumps) error {
			loc, err := parseLocatorFlag(args[1])
			if err != nil {
				return err
			}
			if loc == nil {
				return fmt.Errorf("empty locator")
			}
			jump, err := jumps.Record(reference.Parse(args[0]), *loc)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), jump)
		}),
	}
}

func jumpsConsumeCmd() *cobra.Command {
	var total int

	cmd := &cobra.Command{
		Use:   "consume REF",
		Short: "Take the pending jump for REF, as a viewer does once loaded",
		Args:  cobra.ExactArgs(1),
		RunE: withJumps(func(cmd *cobra.Command, args []string, jumps *cache.PendingJumps) error {
			loc, ok := jumps.Consume(reference.Parse(args[0]), total)
			if !ok {
				return printJSON(cmd.OutOrStdout(), nil)
			}
			return printJSON(cmd.OutOrStdout(), loc)
		}),
	}
	cmd.Flags().IntVar(&total, "total", 0, "Page or slide count of the loaded document")
	return cmd
}

func jumpsSweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Delete expired jumps",
		Args:  cobra.NoArgs,
		RunE: withJumps(func(cmd *cobra.Command, args []string, jumps *cache.PendingJumps) error {
			n, err := jumps.Sweep()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d expired jumps\n", n)
			return nil
		}),
	}
}
