package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rebaseCmd = &cobra.Command{
	Use:   "rebase <onto-branch>",
	Short: "Replay the current branch's unique commits onto another branch",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEngine()
		if err != nil {
			return err
		}
		defer e.Close()

		replayed, err := e.Rebase(args[0])
		if err != nil {
			return err
		}
		if len(replayed) == 0 {
			fmt.Println("already up to date")
			return nil
		}
		fmt.Printf("replayed %d commit(s):\n", len(replayed))
		for _, c := range replayed {
			fmt.Printf("  %s  %s\n", c.ID, c.Message)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rebaseCmd)
}
