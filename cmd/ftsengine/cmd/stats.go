package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ftskit/ftsengine/internal/output"
)

func newStatsCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "stats <db>",
		Short: "Print index statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd, args[0], format)
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "output format: text or json")
	return cmd
}

func runStats(cmd *cobra.Command, dbPath, format string) error {
	engine, err := openEngine(dbPath)
	if err != nil {
		return err
	}

	stats := engine.Stats()

	if format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}

	out := output.New(cmd.OutOrStdout())
	out.Statusf("", "documents:       %d", stats.DocumentCount)
	out.Statusf("", "terms:           %d", stats.TermCount)
	out.Statusf("", "avg doc length:  %.2f", stats.AvgDocLength)
	out.Statusf("", "cache size:      %d", stats.CacheSize)
	out.Statusf("", "cache hits:      %d", stats.CacheHits)
	out.Statusf("", "cache misses:    %d", stats.CacheMisses)
	out.Statusf("", "cache evictions: %d", stats.CacheEvictions)
	out.Statusf("", "dirty terms:     %d", stats.DirtyTerms)
	return nil
}
