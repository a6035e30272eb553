package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var branchCmd = &cobra.Command{
	Use:   "branch <name>",
	Short: "Create a new branch pointing at the current head",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEngine()
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.CreateBranch(args[0]); err != nil {
			return err
		}
		fmt.Printf("created branch %q\n", args[0])
		return nil
	},
}

var checkoutCmd = &cobra.Command{
	Use:   "checkout <name>",
	Short: "Switch the current branch",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEngine()
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.Checkout(args[0]); err != nil {
			return err
		}
		fmt.Printf("switched to branch %q\n", args[0])
		return nil
	},
}

var branchesCmd = &cobra.Command{
	Use:   "branches",
	Short: "List all branches, marking the current one",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEngine()
		if err != nil {
			return err
		}
		defer e.Close()

		current := e.CurrentBranch()
		for _, name := range e.Branches() {
			marker := "  "
			if name == current {
				marker = "* "
			}
			if id, ok := e.BranchCommit(name); ok {
				fmt.Printf("%s%s\t%s\n", marker, name, id)
			} else {
				fmt.Printf("%s%s\t(no commits)\n", marker, name)
			}
		}
		return nil
	},
}

var deleteBranchCmd = &cobra.Command{
	Use:   "delete-branch <name>",
	Short: "Delete a branch",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEngine()
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.DeleteBranch(args[0]); err != nil {
			return err
		}
		fmt.Printf("deleted branch %q\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(branchCmd)
	rootCmd.AddCommand(checkoutCmd)
	rootCmd.AddCommand(branchesCmd)
	rootCmd.AddCommand(deleteBranchCmd)
}
