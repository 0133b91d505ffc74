package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ftskit/ftsengine/internal/ftserrors"
	"github.com/ftskit/ftsengine/internal/output"
	"github.com/ftskit/ftsengine/pkg/ftsengine"
)

func newSearchCmd() *cobra.Command {
	var (
		fields         []string
		mode           string
		fuzzy          int
		fuzzySet       bool
		limit          int
		minScore       float64
		format         string
		includeStored  bool
		applyQueryGrams bool
	)

	cmd := &cobra.Command{
		Use:   "search <db> <query>",
		Short: "Run a one-shot search against an index",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := ftsengine.SearchOptions{
				Fields:           fields,
				Limit:            limit,
				Mode:             mode,
				MinScore:         minScore,
				IncludeStored:    includeStored,
				ApplyQueryNGrams: applyQueryGrams,
			}
			if fuzzySet {
				opts.Fuzzy = &fuzzy
			}
			return runSearch(cmd, args[0], args[1], opts, format)
		},
	}

	cmd.Flags().StringSliceVar(&fields, "field", nil, "restrict search to these fields (repeatable; default all indexed fields)")
	cmd.Flags().StringVar(&mode, "mode", "", "search mode: auto, exact, or fuzzy (default auto)")
	cmd.Flags().IntVar(&fuzzy, "fuzzy", 0, "fuzzy edit-distance override")
	cmd.Flags().IntVar(&limit, "limit", 10, "maximum number of results")
	cmd.Flags().Float64Var(&minScore, "min-score", 0, "drop hits scoring below this threshold")
	cmd.Flags().StringVar(&format, "format", "text", "output format: text or json")
	cmd.Flags().BoolVar(&includeStored, "include-stored", false, "include each hit's stored payload")
	cmd.Flags().BoolVar(&applyQueryGrams, "prefix", false, "also search the query terms' edge n-gram prefixes")

	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		fuzzySet = cmd.Flags().Changed("fuzzy")
		return nil
	}

	return cmd
}

func runSearch(cmd *cobra.Command, dbPath, query string, opts ftsengine.SearchOptions, format string) error {
	engine, err := openEngine(dbPath)
	if err != nil {
		return err
	}

	hits, err := engine.SearchDetailed(cmd.Context(), query, opts)
	if err != nil {
		return fmt.Errorf("%s", ftserrors.FormatForCLI(err))
	}

	if format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(hits)
	}

	out := output.New(cmd.OutOrStdout())
	if len(hits) == 0 {
		out.Status("", fmt.Sprintf("no results for %q", query))
		return nil
	}
	out.Statusf("", "%d result(s) for %q:", len(hits), query)
	out.Newline()
	for i, h := range hits {
		out.Status("", fmt.Sprintf("%d. %s (score: %.3f)", i+1, h.DocID, h.Score))
		if h.HasStored {
			out.Status("", "   "+string(h.Stored))
		}
	}
	return nil
}
