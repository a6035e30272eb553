package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var mergeMessage string

var mergeCmd = &cobra.Command{
	Use:   "merge <branch>",
	Short: "Merge another branch into the current one (source wins on overlap)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEngine()
		if err != nil {
			return err
		}
		defer e.Close()

		message := mergeMessage
		if message == "" {
			message = fmt.Sprintf("merge %s", args[0])
		}
		c, err := e.Merge(args[0], message)
		if err != nil {
			return err
		}
		fmt.Println(c.ID)
		return nil
	},
}

func init() {
	mergeCmd.Flags().StringVarP(&mergeMessage, "message", "m", "", "commit message")
	rootCmd.AddCommand(mergeCmd)
}
