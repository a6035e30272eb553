package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quantumnic/iceberg/internal/digest"
)

var (
	tagCommit  string
	tagMessage string
)

var tagCmd = &cobra.Command{
	Use:   "tag <name>",
	Short: "Create an immutable named pointer to a commit (defaults to head)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEngine()
		if err != nil {
			return err
		}
		defer e.Close()

		commitID := digest.Digest(tagCommit)
		if commitID == "" {
			head, err := e.HeadCommit()
			if err != nil {
				return err
			}
			commitID = head.ID
		}
		var message *string
		if tagMessage != "" {
			message = &tagMessage
		}
		t, err := e.CreateTag(args[0], commitID, message)
		if err != nil {
			return err
		}
		fmt.Println(t.ID)
		return nil
	},
}

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List every tag, sorted by name",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEngine()
		if err != nil {
			return err
		}
		defer e.Close()

		tags, err := e.Tags()
		if err != nil {
			return err
		}
		for _, t := range tags {
			fmt.Printf("%s\t%s\n", t.Name, t.CommitID)
		}
		return nil
	},
}

var deleteTagCmd = &cobra.Command{
	Use:   "delete-tag <name>",
	Short: "Delete a tag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEngine()
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.DeleteTag(args[0]); err != nil {
			return err
		}
		fmt.Printf("deleted tag %q\n", args[0])
		return nil
	},
}

func init() {
	tagCmd.Flags().StringVar(&tagCommit, "commit", "", "commit id to tag (defaults to the current head)")
	tagCmd.Flags().StringVarP(&tagMessage, "message", "m", "", "tag message")
	rootCmd.AddCommand(tagCmd)
	rootCmd.AddCommand(tagsCmd)
	rootCmd.AddCommand(deleteTagCmd)
}
