package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteMessage string

var deleteCmd = &cobra.Command{
	Use:   "delete <key>",
	Short: "Remove a key, producing a new commit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEngine()
		if err != nil {
			return err
		}
		defer e.Close()

		c, err := e.Delete(args[0], deleteMessage)
		if err != nil {
			return err
		}
		fmt.Println(c.ID)
		return nil
	},
}

func init() {
	deleteCmd.Flags().StringVarP(&deleteMessage, "message", "m", "", "commit message")
	rootCmd.AddCommand(deleteCmd)
}
