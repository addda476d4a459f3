package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/cognicore/quill/internal/logger"
	"github.com/cognicore/quill/pkg/quill/config"
	"github.com/cognicore/quill/pkg/quill/corpus"
	"github.com/cognicore/quill/pkg/quill/internalerr"
)

// AnalyzeCmd returns the analysis command
func AnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [root]",
		Short: "Analyze every author folder under root",
		Long: "Analyze the writing samples in each author folder under root " +
			"(default corpus.root) and publish one report per author",
		Args: cobra.MaximumNArgs(1),
		RunE: runAnalyze,
	}

	cmd.Flags().StringSlice("author", nil, "Only analyze these authors")
	cmd.Flags().Int("workers", 0, "Documents analyzed concurrently (overrides analysis.workers)")
	cmd.Flags().Int("window", 0, "MATTR window (overrides analysis.window)")
	cmd.Flags().String("pattern", "", "Sample file glob (overrides corpus.pattern)")
	cmd.Flags().String("out", "", "Report directory (overrides report.dir)")
	cmd.Flags().String("annotator", "", "Annotation service URL (overrides annotator.url)")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, ctx, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyAnalyzeFlags(cmd, cfg, args); err != nil {
		return err
	}
	log := logger.FromContext(ctx)

	authors, err := corpus.Authors(cfg.Corpus.Root)
	if err != nil {
		return err
	}
	if only, _ := cmd.Flags().GetStringSlice("author"); len(only) > 0 {
		authors = slices.DeleteFunc(authors, func(a string) bool { return !slices.Contains(only, a) })
	}
	if len(authors) == 0 {
		return fmt.Errorf("%w: no author folders under %s", internalerr.ErrNotFound, cfg.Corpus.Root)
	}

	loader := &config.Loader{Config: cfg, Stdout: cmd.OutOrStdout(), Color: colorEnabled(cmd)}
	comp, err := loader.Load(ctx)
	if err != nil {
		return err
	}
	defer comp.Close()

	var errs []error
	for _, author := range authors {
		dir := filepath.Join(cfg.Corpus.Root, author)
		report, err := comp.Quill.AnalyzeDir(ctx, author, dir, cfg.Corpus.Pattern)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Error("Author failed", "author", author, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", author, err))
			continue
		}
		if err := comp.Sink.Write(ctx, report); err != nil {
			errs = append(errs, fmt.Errorf("%s: report: %w", author, err))
		}
	}
	log.Info("Analysis complete", "authors", len(authors), "errors", len(errs))
	return errors.Join(errs...)
}

func applyAnalyzeFlags(cmd *cobra.Command, cfg *config.Config, args []string) error {
	if len(args) == 1 {
		cfg.Corpus.Root = args[0]
	}
	if n, _ := cmd.Flags().GetInt("workers"); n > 0 {
		cfg.Analysis.Workers = n
	}
	if n, _ := cmd.Flags().GetInt("window"); n > 0 {
		cfg.Analysis.Window = n
	}
	if p, _ := cmd.Flags().GetString("pattern"); p != "" {
		cfg.Corpus.Pattern = p
	}
	if out, _ := cmd.Flags().GetString("out"); out != "" {
		cfg.Report.Dir = out
	}
	if u, _ := cmd.Flags().GetString("annotator"); u != "" {
		cfg.Annotator.URL = u
	}
	return cfg.Validate()
}
