package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cognicore/quill/pkg/quill"
	"github.com/cognicore/quill/pkg/quill/config"
	"github.com/cognicore/quill/pkg/quill/internalerr"
	"github.com/cognicore/quill/pkg/quill/report"
)

// HistoryCmd returns the stored-results command
func HistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show stored results",
		Long:  "Show the latest stored result per document for an author, or list authors with stored runs",
		Args:  cobra.NoArgs,
		RunE:  runHistory,
	}

	cmd.Flags().String("author", "", "Author to show (lists authors when empty)")
	cmd.Flags().String("db", "", "Results database (overrides store.path)")

	return cmd
}

func runHistory(cmd *cobra.Command, _ []string) error {
	cfg, ctx, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if db, _ := cmd.Flags().GetString("db"); db != "" {
		cfg.Store.Path = db
	}

	loader := &config.Loader{Config: cfg}
	st, err := loader.OpenStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	out := cmd.OutOrStdout()
	author, _ := cmd.Flags().GetString("author")
	if author == "" {
		authors, err := st.Authors(ctx)
		if err != nil {
			return err
		}
		for _, a := range authors {
			fmt.Fprintln(out, a)
		}
		return nil
	}

	runs, err := st.Runs(ctx, author)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		return fmt.Errorf("%w: no runs for %s", internalerr.ErrNotFound, author)
	}
	recs, err := st.History(ctx, author)
	if err != nil {
		return err
	}

	last := runs[len(runs)-1]
	rep := quill.AuthorReport{
		RunID:       last.ID,
		Author:      author,
		GeneratedAt: last.GeneratedAt.In(time.Local),
		Window:      last.Window,
		Results:     quill.FromRecords(recs),
	}
	fmt.Fprintf(out, "%d runs, latest %s\n", len(runs), last.ID)
	return report.NewTerminal(out, colorEnabled(cmd)).Write(ctx, rep)
}
