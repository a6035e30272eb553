package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quantumnic/iceberg/internal/digest"
)

var getAt string

var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Read the value for a key, optionally as of an earlier commit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEngine()
		if err != nil {
			return err
		}
		defer e.Close()

		var value []byte
		if getAt != "" {
			value, err = e.GetAt(args[0], digest.Digest(getAt))
		} else {
			value, err = e.Get(args[0])
		}
		if err != nil {
			return err
		}
		fmt.Println(string(value))
		return nil
	},
}

func init() {
	getCmd.Flags().StringVar(&getAt, "at", "", "read the value as of this commit id")
	rootCmd.AddCommand(getCmd)
}
