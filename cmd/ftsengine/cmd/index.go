package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ftskit/ftsengine/internal/docid"
	"github.com/ftskit/ftsengine/internal/ftserrors"
	"github.com/ftskit/ftsengine/internal/output"
	"github.com/ftskit/ftsengine/pkg/ftsengine"
)

// jsonlDoc is one line of an index input file.
type jsonlDoc struct {
	ID     json.RawMessage   `json:"id"`
	Fields map[string]string `json:"fields"`
	Store  json.RawMessage   `json:"store"`
}

func newIndexCmd() *cobra.Command {
	var (
		name      string
		fields    []string
		batchSize int
	)

	cmd := &cobra.Command{
		Use:   "index <db> <jsonl-file>",
		Short: "Bulk-load newline-delimited JSON documents into an index",
		Long: `index reads one JSON object per line from jsonl-file and bulk-loads
them into db. Each line has the shape:

  {"id": "doc-1", "fields": {"title": "...", "body": "..."}, "store": {...}}

id is optional (an incrementing integer is used if omitted); store is an
optional payload returned, re-encoded as compact JSON, by search
--include-stored.

On first use against a given db, --fields is required to establish the
indexed field set; later invocations reuse the index's existing
configuration.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndex(cmd, args[0], args[1], name, fields, batchSize)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "index name (defaults to \"default\"; only used on first index)")
	cmd.Flags().StringSliceVar(&fields, "fields", nil, "indexed field names (required on first index)")
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "documents per ingest batch (0 selects the default of 100)")

	return cmd
}

func runIndex(cmd *cobra.Command, dbPath, jsonlPath, name string, fields []string, batchSize int) error {
	out := output.New(cmd.OutOrStdout())
	ctx := cmd.Context()

	cfg, err := loadIndexConfig(dbPath)
	if err != nil {
		if len(fields) == 0 {
			return fmt.Errorf("%w (pass --fields to create it)", err)
		}
		cfg, err = createIndex(dbPath, name, fields)
		if err != nil {
			return err
		}
		out.Successf("created index %q with fields %v", cfg.Name, cfg.Fields)
	}

	engine, err := ftsengine.New(ftsengine.WithConfig(cfg), ftsengine.WithDBFile(dbPath), ftsengine.WithLogger(activeLogger))
	if err != nil {
		return fmt.Errorf("%s", ftserrors.FormatForCLI(err))
	}

	docs, err := readJSONLDocs(jsonlPath)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		out.Warning("no documents found in input file")
		return nil
	}

	opts := ftsengine.BulkOptions{BatchSize: batchSize}
	var lastReport time.Time
	opts.OnProgress = func(processed, total int) {
		now := time.Now()
		if processed < total && now.Sub(lastReport) < 200*time.Millisecond {
			return
		}
		lastReport = now
		out.Progress(processed, total, "indexing")
	}

	start := time.Now()
	if err := engine.AddBulk(ctx, docs, opts); err != nil {
		return fmt.Errorf("%s", ftserrors.FormatForCLI(err))
	}

	out.Successf("indexed %d documents in %s", len(docs), time.Since(start).Round(time.Millisecond))
	return nil
}

func readJSONLDocs(path string) ([]ftsengine.AddInput, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var docs []ftsengine.AddInput
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)

	autoID := uint64(0)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var raw jsonlDoc
		if err := json.Unmarshal([]byte(line), &raw); err != nil {
			return nil, fmt.Errorf("failed to parse line %q: %w", line, err)
		}

		var id docid.ID
		if len(raw.ID) > 0 {
			if err := id.UnmarshalJSON(raw.ID); err != nil {
				return nil, fmt.Errorf("invalid document id %q: %w", string(raw.ID), err)
			}
		} else {
			id = docid.FromInt(autoID)
			autoID++
		}

		input := ftsengine.AddInput{DocID: id, Fields: raw.Fields}
		if len(raw.Store) > 0 {
			var store any
			if err := json.Unmarshal(raw.Store, &store); err != nil {
				return nil, fmt.Errorf("invalid store payload for %s: %w", id.String(), err)
			}
			input.Store = store
			input.HasStore = true
		}
		docs = append(docs, input)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return docs, nil
}
