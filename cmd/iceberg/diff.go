package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quantumnic/iceberg/internal/digest"
)

var diffCmd = &cobra.Command{
	Use:   "diff <commit-a> <commit-b>",
	Short: "Show the keys added, removed, and modified between two commits",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEngine()
		if err != nil {
			return err
		}
		defer e.Close()

		d, err := e.Diff(digest.Digest(args[0]), digest.Digest(args[1]))
		if err != nil {
			return err
		}
		for _, key := range d.Added {
			fmt.Printf("+ %s\n", key)
		}
		for _, key := range d.Modified {
			fmt.Printf("~ %s\n", key)
		}
		for _, key := range d.Removed {
			fmt.Printf("- %s\n", key)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(diffCmd)
}
