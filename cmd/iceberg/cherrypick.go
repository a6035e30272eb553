package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quantumnic/iceberg/internal/digest"
)

var cherryPickMessage string

var cherryPickCmd = &cobra.Command{
	Use:   "cherry-pick <commit-id>",
	Short: "Replay a single commit's changes onto the current branch",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEngine()
		if err != nil {
			return err
		}
		defer e.Close()

		message := cherryPickMessage
		if message == "" {
			message = fmt.Sprintf("cherry-pick %s", args[0])
		}
		c, err := e.CherryPick(digest.Digest(args[0]), message)
		if err != nil {
			return err
		}
		fmt.Println(c.ID)
		return nil
	},
}

func init() {
	cherryPickCmd.Flags().StringVarP(&cherryPickMessage, "message", "m", "", "commit message")
	rootCmd.AddCommand(cherryPickCmd)
}
