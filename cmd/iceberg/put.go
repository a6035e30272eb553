package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var putMessage string

var putCmd = &cobra.Command{
	Use:   "put <key> <value>",
	Short: "Write key=value, producing a new commit",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEngine()
		if err != nil {
			return err
		}
		defer e.Close()

		c, err := e.Put(args[0], []byte(args[1]), putMessage)
		if err != nil {
			return err
		}
		fmt.Println(c.ID)
		return nil
	},
}

func init() {
	putCmd.Flags().StringVarP(&putMessage, "message", "m", "", "commit message")
	rootCmd.AddCommand(putCmd)
}
