package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var logLimit int

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show the current branch's commit history, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEngine()
		if err != nil {
			return err
		}
		defer e.Close()

		commits, err := e.Log()
		if err != nil {
			return err
		}
		if logLimit > 0 && len(commits) > logLimit {
			commits = commits[:logLimit]
		}
		for _, c := range commits {
			fmt.Printf("%s  %s  %s\n", c.ID, humanize.Time(c.Timestamp), c.Message)
		}
		return nil
	},
}

func init() {
	logCmd.Flags().IntVarP(&logLimit, "limit", "n", 0, "show at most N commits")
	rootCmd.AddCommand(logCmd)
}
