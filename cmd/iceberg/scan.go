package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:   "scan <prefix>",
	Short: "List every key starting with prefix, sorted",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEngine()
		if err != nil {
			return err
		}
		defer e.Close()

		for _, entry := range e.ScanPrefix(args[0]) {
			fmt.Printf("%s\t%s\n", entry.Key, entry.Value)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
}
