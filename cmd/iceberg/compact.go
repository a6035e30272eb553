package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"github.com/spf13/cobra"

	"github.com/quantumnic/iceberg/internal/compact"
)

var (
	compactMaxVersions int
	compactMaxAgeDays  uint64
	compactOlderThan   string
)

var compactCmd = &cobra.Command{
	Use:   "compact",
	Short: "Garbage-collect old versions no branch depends on any more",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		e, err := engineOpenWith(cfg)
		if err != nil {
			return err
		}
		defer e.Close()

		maxVersions := compactMaxVersions
		if maxVersions == 0 {
			maxVersions = cfg.CompactionMaxVersions()
		}
		policy := compact.Policy{MaxVersions: maxVersions}

		maxAgeDays := compactMaxAgeDays
		if maxAgeDays == 0 {
			if configured := cfg.CompactionMaxAgeDays(); configured > 0 {
				maxAgeDays = uint64(configured)
			}
		}
		if maxAgeDays > 0 {
			policy.MaxAgeDays = &maxAgeDays
		}
		if compactOlderThan != "" {
			days, err := parseOlderThanDays(compactOlderThan)
			if err != nil {
				return err
			}
			policy.MaxAgeDays = &days
		}

		result, err := e.Compact(policy)
		if err != nil {
			return err
		}
		fmt.Printf("commits removed: %d\n", result.CommitsRemoved)
		fmt.Printf("trees removed:   %d\n", result.TreesRemoved)
		fmt.Printf("blocks removed:  %d\n", result.BlocksRemoved)
		fmt.Printf("bytes reclaimed: %s\n", humanize.Bytes(result.BytesReclaimed))
		return nil
	},
}

// parseOlderThanDays resolves a natural-language phrase like "30 days
// ago" or "last month" into an integer day count relative to now.
func parseOlderThanDays(phrase string) (uint64, error) {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)

	result, err := w.Parse(phrase, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("parsing --older-than %q: %w", phrase, err)
	}
	if result == nil {
		return 0, fmt.Errorf("could not understand --older-than %q", phrase)
	}
	age := time.Since(result.Time)
	if age < 0 {
		age = -age
	}
	return uint64(age.Hours() / 24), nil
}

func init() {
	compactCmd.Flags().IntVar(&compactMaxVersions, "max-versions", 0, "keep at most N versions per branch history (0 = unlimited)")
	compactCmd.Flags().Uint64Var(&compactMaxAgeDays, "max-age-days", 0, "remove commits older than N days (0 = unlimited)")
	compactCmd.Flags().StringVar(&compactOlderThan, "older-than", "", `remove commits older than a natural-language age, e.g. "30 days ago"`)
	rootCmd.AddCommand(compactCmd)
}
