package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/ftskit/ftsengine/internal/ftserrors"
	"github.com/ftskit/ftsengine/internal/output"
	"github.com/ftskit/ftsengine/pkg/ftsengine"
)

func newReplCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "repl <db>",
		Short: "Open an interactive search session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepl(cmd, args[0], limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "maximum results per query")
	return cmd
}

func runRepl(cmd *cobra.Command, dbPath string, limit int) error {
	engine, err := openEngine(dbPath)
	if err != nil {
		return err
	}

	if isTTY(cmd.OutOrStdout()) {
		return runReplTUI(engine, limit)
	}
	return runReplPlain(cmd, engine, limit)
}

// isTTY reports whether w is a terminal, not a pipe or redirected file.
func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// runReplPlain is a line-mode fallback for piped or non-interactive input:
// one query per line of stdin, one line of results per query.
func runReplPlain(cmd *cobra.Command, engine *ftsengine.Engine, limit int) error {
	out := output.New(cmd.OutOrStdout())
	scanner := bufio.NewScanner(cmd.InOrStdin())
	ctx := cmd.Context()

	for scanner.Scan() {
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		hits, err := engine.SearchDetailed(ctx, query, ftsengine.SearchOptions{Limit: limit})
		if err != nil {
			out.Status("✗", ftserrors.FormatForCLI(err))
			continue
		}
		if len(hits) == 0 {
			out.Status("", "no results")
			continue
		}
		for i, h := range hits {
			out.Status("", fmt.Sprintf("%d. %s (%.3f)", i+1, h.DocID, h.Score))
		}
	}
	return scanner.Err()
}

func runReplTUI(engine *ftsengine.Engine, limit int) error {
	m := newReplModel(engine, limit)
	p := tea.NewProgram(m)
	_, err := p.Run()
	return err
}
