package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	queryPrefix bool
	queryRange  string
)

var createIndexCmd = &cobra.Command{
	Use:   "create-index <name> <json-field>",
	Short: "Build a secondary index over a dotted JSON field path",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEngine()
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.CreateIndex(args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("created index %q on field %q\n", args[0], args[1])
		return nil
	},
}

var dropIndexCmd = &cobra.Command{
	Use:   "drop-index <name>",
	Short: "Remove a secondary index",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEngine()
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.DropIndex(args[0]); err != nil {
			return err
		}
		fmt.Printf("dropped index %q\n", args[0])
		return nil
	},
}

var queryIndexCmd = &cobra.Command{
	Use:   "query-index <name> <value>",
	Short: "List primary keys whose indexed field matches value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEngine()
		if err != nil {
			return err
		}
		defer e.Close()

		var keys []string
		switch {
		case queryPrefix:
			keys, err = e.QueryIndexPrefix(args[0], args[1])
		case queryRange != "":
			keys, err = e.QueryIndexRange(args[0], args[1], queryRange)
		default:
			keys, err = e.QueryIndex(args[0], args[1])
		}
		if err != nil {
			return err
		}
		for _, key := range keys {
			fmt.Println(key)
		}
		return nil
	},
}

var indexesCmd = &cobra.Command{
	Use:   "indexes",
	Short: "List every secondary index",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEngine()
		if err != nil {
			return err
		}
		defer e.Close()

		for _, name := range e.ListIndexes() {
			fmt.Println(name)
		}
		return nil
	},
}

func init() {
	queryIndexCmd.Flags().BoolVar(&queryPrefix, "prefix", false, "match values by prefix instead of equality")
	queryIndexCmd.Flags().StringVar(&queryRange, "end", "", "query the half-open range [value, end) instead of equality")
	rootCmd.AddCommand(createIndexCmd)
	rootCmd.AddCommand(dropIndexCmd)
	rootCmd.AddCommand(queryIndexCmd)
	rootCmd.AddCommand(indexesCmd)
}
