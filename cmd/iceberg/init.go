package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a store at --db if one doesn't already exist",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := initEngine()
		if err != nil {
			return err
		}
		defer e.Close()
		fmt.Println("initialized iceberg store")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
