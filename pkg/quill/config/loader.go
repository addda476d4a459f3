package config

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cognicore/quill/internal/logger"
	"github.com/cognicore/quill/pkg/quill"
	"github.com/cognicore/quill/pkg/quill/annotate"
	"github.com/cognicore/quill/pkg/quill/filter"
	"github.com/cognicore/quill/pkg/quill/internalerr"
	"github.com/cognicore/quill/pkg/quill/report"
	"github.com/cognicore/quill/pkg/quill/spell"
	"github.com/cognicore/quill/pkg/quill/store"
	"github.com/cognicore/quill/pkg/quill/store/sqlite"
)

// Loader constructs components from a Config
type Loader struct {
	Config *Config
	// Annotator replaces the HTTP client built from annotator.url.
	Annotator annotate.Annotator
	// Stdout receives the terminal report; nil means os.Stdout.
	Stdout io.Writer
	Color  bool
}

// Components holds everything needed to analyze and publish
type Components struct {
	Checker   *spell.Checker
	Filter    *filter.Filter
	Annotator annotate.Annotator
	Store     store.Store
	Sink      report.Sink
	Quill     *quill.Quill
}

// Close releases the store, if any.
func (c *Components) Close() error {
	if c.Quill != nil {
		return c.Quill.Close()
	}
	if c.Store != nil {
		return c.Store.Close()
	}
	return nil
}

// LoggerConfig maps the log section onto a logger configuration.
func (c *Config) LoggerConfig() *logger.Config {
	lc := logger.DefaultConfig()
	lc.Level = logger.ParseLevel(c.Log.Level)
	lc.JSON = c.Log.JSON
	return lc
}

// Load builds the spelling oracle, filter, annotator, store, sinks and runner
func (l *Loader) Load(ctx context.Context) (*Components, error) {
	cfg := l.Config
	if cfg == nil {
		cfg = Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := logger.FromContext(ctx)
	comp := &Components{}

	// Spelling oracle
	var oracle spell.Oracle
	if cfg.Spelling.AcceptAll {
		log.Warn("Spell checking disabled; every word is accepted")
	} else {
		dict := spell.DefaultDictionary()
		source := "builtin"
		if cfg.Spelling.Dictionary != "" {
			var err error
			if dict, err = spell.LoadDictionary(cfg.Spelling.Dictionary); err != nil {
				return nil, fmt.Errorf("load dictionary: %w", err)
			}
			source = cfg.Spelling.Dictionary
		}
		spellOpts := []spell.Option{
			spell.WithMaxDistance(cfg.Spelling.MaxDistance),
			spell.WithCacheSize(cfg.Spelling.CacheSize),
		}
		if cfg.Spelling.Inflections {
			spellOpts = append(spellOpts, spell.WithInflections())
		}
		comp.Checker = spell.NewChecker(dict, spellOpts...)
		oracle = comp.Checker
		log.Debug("Dictionary loaded", "source", source, "words", dict.Len())
	}

	// Filter
	opts := []filter.Option{
		filter.WithAbbreviations(cfg.Filter.Abbreviations),
		filter.WithContractions(cfg.Filter.Contractions),
	}
	if cfg.Filter.FoldDiacritics {
		opts = append(opts, filter.WithDiacriticFolding())
	}
	comp.Filter = filter.New(oracle, opts...)

	// Annotator
	if l.Annotator != nil {
		comp.Annotator = l.Annotator
	} else {
		if cfg.Annotator.URL == "" {
			return nil, fmt.Errorf("%w: annotator.url required", internalerr.ErrInvalidConfig)
		}
		client := annotate.NewClient(cfg.Annotator.URL, cfg.Annotator.Timeout)
		client.APIKey = cfg.Annotator.APIKey
		if key := os.Getenv(APIKeyEnv); key != "" {
			client.APIKey = key
		}
		comp.Annotator = client
	}
	if cfg.Annotator.CacheSize > 0 {
		cached, err := annotate.NewCached(comp.Annotator, cfg.Annotator.CacheSize)
		if err != nil {
			return nil, err
		}
		comp.Annotator = cached
	}

	// Store
	st, err := l.openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	comp.Store = st

	comp.Sink = l.sink(cfg)

	q, err := quill.New(quill.Options{
		Filter:    comp.Filter,
		Annotator: comp.Annotator,
		Window:    cfg.Analysis.Window,
		Workers:   cfg.Analysis.Workers,
		Store:     comp.Store,
	})
	if err != nil {
		comp.Close()
		return nil, err
	}
	comp.Quill = q
	return comp, nil
}

// OpenStore opens only the configured store, for read-only commands.
func (l *Loader) OpenStore(ctx context.Context) (store.Store, error) {
	cfg := l.Config
	if cfg == nil {
		cfg = Default()
	}
	st, err := l.openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, fmt.Errorf("%w: store.path required", internalerr.ErrInvalidConfig)
	}
	return st, nil
}

func (l *Loader) openStore(ctx context.Context, cfg *Config) (store.Store, error) {
	if cfg.Store.Path == "" {
		return nil, nil
	}
	if dir := filepath.Dir(cfg.Store.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
		}
	}
	st, err := sqlite.OpenSQLite(ctx, cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

func (l *Loader) sink(cfg *Config) report.Sink {
	var sinks []report.Sink
	if cfg.HasFormat(FormatPDF) {
		sinks = append(sinks, report.NewPDF(cfg.Report.Dir))
	}
	if cfg.HasFormat(FormatTerminal) {
		out := l.Stdout
		if out == nil {
			out = os.Stdout
		}
		sinks = append(sinks, report.NewTerminal(out, l.Color))
	}
	return report.Multi(sinks...)
}
