package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print aggregate counters for keys, commits, blocks, and indexes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEngine()
		if err != nil {
			return err
		}
		defer e.Close()

		s, err := e.Stats()
		if err != nil {
			return err
		}

		rows := [][2]string{
			{"keys", fmt.Sprintf("%d", s.KeyCount)},
			{"commits", fmt.Sprintf("%d", s.CommitCount)},
			{"branches", fmt.Sprintf("%d", s.BranchCount)},
			{"blocks", fmt.Sprintf("%d", s.BlockCount)},
			{"disk usage", humanize.Bytes(s.DiskUsage)},
			{"indexes", fmt.Sprintf("%d", s.IndexCount)},
			{"wal size", humanize.Bytes(uint64(s.WALSizeBytes))},
			{"bloom bits", fmt.Sprintf("%d", s.Bloom.NumBits)},
			{"bloom hashes", fmt.Sprintf("%d", s.Bloom.NumHashes)},
			{"bloom est. fp rate", fmt.Sprintf("%.4f", s.Bloom.EstimatedFPRate)},
		}
		printTable(rows)
		return nil
	},
}

// printTable renders label/value pairs in two aligned columns, capping
// the label column at four less than the terminal width (80 columns
// when stdout is not a terminal). Values are not truncated, so a long
// value can still wrap.
func printTable(rows [][2]string) {
	width := 80
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w
	}

	labelWidth := 0
	for _, row := range rows {
		if len(row[0]) > labelWidth {
			labelWidth = len(row[0])
		}
	}
	if labelWidth > width-4 {
		labelWidth = width - 4
	}

	for _, row := range rows {
		fmt.Printf("%-*s  %s\n", labelWidth, row[0], row[1])
	}
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
