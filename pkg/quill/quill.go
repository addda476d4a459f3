package quill

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"

	"github.com/cognicore/quill/internal/logger"
	"github.com/cognicore/quill/pkg/quill/annotate"
	"github.com/cognicore/quill/pkg/quill/clause"
	"github.com/cognicore/quill/pkg/quill/corpus"
	"github.com/cognicore/quill/pkg/quill/filter"
	"github.com/cognicore/quill/pkg/quill/internalerr"
	"github.com/cognicore/quill/pkg/quill/lexical"
	"github.com/cognicore/quill/pkg/quill/store"
	"github.com/cognicore/quill/pkg/quill/trend"
)

// Quill runs the writing-metrics pipeline over an author's documents:
// filter, annotate once, then lexical and clause metrics.
type Quill struct {
	filter    *filter.Filter
	annotator annotate.Annotator
	window    int
	workers   int
	store     store.Store
	now       func() time.Time

	idMu    sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// Options configures a Quill instance
type Options struct {
	Filter    *filter.Filter
	Annotator annotate.Annotator
	// Window is the MATTR window; <= 0 means lexical.DefaultWindow.
	Window int
	// Workers bounds concurrent documents; <= 1 runs sequentially.
	Workers int
	// Store, when set, receives every finished AuthorReport.
	Store store.Store
	Now   func() time.Time
}

// New creates a Quill instance with the given dependencies
func New(opts Options) (*Quill, error) {
	if opts.Annotator == nil {
		return nil, fmt.Errorf("%w: annotator required", internalerr.ErrInvalidConfig)
	}
	if opts.Filter == nil {
		return nil, fmt.Errorf("%w: filter required", internalerr.ErrInvalidConfig)
	}
	q := &Quill{
		filter:    opts.Filter,
		annotator: opts.Annotator,
		window:    opts.Window,
		workers:   opts.Workers,
		store:     opts.Store,
		now:       opts.Now,
		entropy:   ulid.Monotonic(rand.Reader, 0),
	}
	if q.window <= 0 {
		q.window = lexical.DefaultWindow
	}
	if q.workers < 1 {
		q.workers = 1
	}
	if q.now == nil {
		q.now = time.Now
	}
	return q, nil
}

// Close cleanly shuts down the Quill instance
func (q *Quill) Close() error {
	if q.store == nil {
		return nil
	}
	return q.store.Close()
}

// Result is the analysis of one document.
type Result struct {
	ID                 string
	FileName           string
	TokenCount         int
	UniqueCount        int
	LexicalWords       int
	TTR                float64
	MATTR              float64
	LexicalDensity     float64
	DependentClauses   int
	IndependentClauses int
	TotalClauses       int
	DCR                float64
}

// Failure records a document that could not be analyzed.
type Failure struct {
	ID       string
	FileName string
	Err      error
}

// AuthorReport is one author's run: results and failures in input order.
type AuthorReport struct {
	RunID       string
	Author      string
	GeneratedAt time.Time
	Window      int
	Results     []Result
	Failures    []Failure
}

// Trend summarizes the report's results in order.
func (r AuthorReport) Trend() trend.Summary {
	samples := make([]trend.Sample, len(r.Results))
	for i, res := range r.Results {
		samples[i] = trend.Sample{
			TotalWords:     res.TokenCount,
			TTR:            res.TTR,
			MATTR:          res.MATTR,
			LexicalDensity: res.LexicalDensity,
			DCR:            res.DCR,
		}
	}
	return trend.Summarize(samples)
}

// AnalyzeText runs the pipeline on one raw text.
func (q *Quill) AnalyzeText(ctx context.Context, id, text string) (Result, error) {
	cleaned := q.filter.Filter(text)

	doc := annotate.Empty()
	if cleaned != "" {
		var err error
		doc, err = q.annotator.Annotate(ctx, cleaned)
		if err != nil {
			return Result{}, fmt.Errorf("annotate %s: %w", id, err)
		}
		if doc == nil {
			return Result{}, fmt.Errorf("annotate %s: %w: nil doc", id, internalerr.ErrMalformedAnnotation)
		}
	}

	lex := lexical.Compute(doc, q.window)
	cl := clause.Compute(doc)

	log := logger.FromContext(ctx)
	for _, c := range cl.Clauses {
		log.Debug("Clause", "doc", id, "kind", c.Kind, "label", c.Label, "text", c.Text)
	}

	return Result{
		ID:                 id,
		TokenCount:         lex.TokenCount,
		UniqueCount:        lex.UniqueCount,
		LexicalWords:       lex.LexicalWords,
		TTR:                lex.TTR,
		MATTR:              lex.MATTR,
		LexicalDensity:     lex.LexicalDensity,
		DependentClauses:   cl.Dependent,
		IndependentClauses: cl.Independent,
		TotalClauses:       cl.Total,
		DCR:                cl.DCR,
	}, nil
}

type outcome struct {
	result Result
	err    error
}

// AnalyzeAuthor analyzes docs and returns results in input order.
//
// A document that cannot be read or annotated becomes a Failure and does
// not stop its siblings. Only context cancellation aborts the run.
func (q *Quill) AnalyzeAuthor(ctx context.Context, author string, docs []corpus.Document) (AuthorReport, error) {
	log := logger.FromContext(ctx).With("author", author)
	ctx = logger.ContextWithLogger(ctx, log)

	outcomes := make([]outcome, len(docs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(q.workers)
	for i := range docs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = q.analyzeDocument(gctx, docs[i])
			if errors.Is(outcomes[i].err, context.Canceled) || errors.Is(outcomes[i].err, context.DeadlineExceeded) {
				return outcomes[i].err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return AuthorReport{}, err
	}
	if err := ctx.Err(); err != nil {
		return AuthorReport{}, err
	}

	report := AuthorReport{
		RunID:       q.newRunID(),
		Author:      author,
		GeneratedAt: q.now(),
		Window:      q.window,
	}
	for i, o := range outcomes {
		if o.err != nil {
			log.Warn("Document failed", "doc", docs[i].ID, "error", o.err)
			report.Failures = append(report.Failures, Failure{ID: docs[i].ID, FileName: docs[i].FileName, Err: o.err})
			continue
		}
		report.Results = append(report.Results, o.result)
	}
	log.Info("Author analyzed", "documents", len(docs), "results", len(report.Results), "failures", len(report.Failures))

	if q.store != nil {
		if err := q.store.SaveRun(ctx, toStoreRun(report)); err != nil {
			return report, fmt.Errorf("save run %s: %w", report.RunID, err)
		}
	}
	return report, nil
}

// AnalyzeDir loads an author folder and analyzes it.
func (q *Quill) AnalyzeDir(ctx context.Context, author, dir, pattern string) (AuthorReport, error) {
	docs, err := corpus.Load(ctx, dir, pattern)
	if err != nil {
		return AuthorReport{}, err
	}
	return q.AnalyzeAuthor(ctx, author, docs)
}

func (q *Quill) analyzeDocument(ctx context.Context, doc corpus.Document) outcome {
	if doc.Err != nil {
		return outcome{err: doc.Err}
	}
	log := logger.FromContext(ctx)
	log.Info("Analyzing document", "doc", doc.ID)
	res, err := q.AnalyzeText(ctx, doc.ID, doc.Text)
	if err != nil {
		return outcome{err: err}
	}
	res.FileName = doc.FileName
	log.Debug("Document analyzed", "doc", doc.ID, "tokens", res.TokenCount, "types", res.UniqueCount,
		"lexical_words", res.LexicalWords, "ttr", res.TTR, "dcr", res.DCR)
	return outcome{result: res}
}

func (q *Quill) newRunID() string {
	q.idMu.Lock()
	defer q.idMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(q.now()), q.entropy).String()
}

func toStoreRun(r AuthorReport) store.Run {
	run := store.Run{
		ID:          r.RunID,
		Author:      r.Author,
		GeneratedAt: r.GeneratedAt,
		Window:      r.Window,
		Failures:    len(r.Failures),
		Results:     make([]store.Result, len(r.Results)),
	}
	for i, res := range r.Results {
		run.Results[i] = store.Result{
			DocID:              res.ID,
			FileName:           res.FileName,
			TokenCount:         res.TokenCount,
			UniqueCount:        res.UniqueCount,
			LexicalWords:       res.LexicalWords,
			TTR:                res.TTR,
			MATTR:              res.MATTR,
			LexicalDensity:     res.LexicalDensity,
			DependentClauses:   res.DependentClauses,
			IndependentClauses: res.IndependentClauses,
			TotalClauses:       res.TotalClauses,
			DCR:                res.DCR,
		}
	}
	return run
}

// FromRecords rebuilds results from stored history.
func FromRecords(recs []store.Record) []Result {
	out := make([]Result, len(recs))
	for i, rec := range recs {
		out[i] = Result{
			ID:                 rec.DocID,
			FileName:           rec.FileName,
			TokenCount:         rec.TokenCount,
			UniqueCount:        rec.UniqueCount,
			LexicalWords:       rec.LexicalWords,
			TTR:                rec.TTR,
			MATTR:              rec.MATTR,
			LexicalDensity:     rec.LexicalDensity,
			DependentClauses:   rec.DependentClauses,
			IndependentClauses: rec.IndependentClauses,
			TotalClauses:       rec.TotalClauses,
			DCR:                rec.DCR,
		}
	}
	return out
}
