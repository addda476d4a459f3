// Package config loads the quill YAML configuration and builds components from it.
package config

import (
	"fmt"
	"net/url"
	"os"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/quill/pkg/quill/annotate"
	"github.com/cognicore/quill/pkg/quill/corpus"
	"github.com/cognicore/quill/pkg/quill/filter"
	"github.com/cognicore/quill/pkg/quill/internalerr"
	"github.com/cognicore/quill/pkg/quill/lexical"
	"github.com/cognicore/quill/pkg/quill/spell"
)

// Report formats understood by the loader.
const (
	FormatPDF      = "pdf"
	FormatTerminal = "terminal"
)

// APIKeyEnv overrides annotator.api_key when set.
const APIKeyEnv = "QUILL_ANNOTATOR_API_KEY"

// Config is the full quill configuration file
type Config struct {
	Analysis  Analysis  `yaml:"analysis"`
	Filter    Filter    `yaml:"filter"`
	Spelling  Spelling  `yaml:"spelling"`
	Annotator Annotator `yaml:"annotator"`
	Corpus    Corpus    `yaml:"corpus"`
	Store     Store     `yaml:"store"`
	Report    Report    `yaml:"report"`
	Log       Log       `yaml:"log"`
}

// Analysis tunes the metrics runner
type Analysis struct {
	Window  int `yaml:"window"`
	Workers int `yaml:"workers"`
}

// Filter tunes text cleanup
type Filter struct {
	Abbreviations  []string             `yaml:"abbreviations"`
	Contractions   []filter.Contraction `yaml:"contractions"`
	FoldDiacritics bool                 `yaml:"fold_diacritics"`
}

// Spelling points at the frequency dictionary used as spelling oracle.
// An empty Dictionary uses the bundled English word list. AcceptAll turns
// spell checking off.
type Spelling struct {
	Dictionary  string `yaml:"dictionary"`
	AcceptAll   bool   `yaml:"accept_all"`
	Inflections bool   `yaml:"inflections"`
	MaxDistance int    `yaml:"max_distance"`
	CacheSize   int    `yaml:"cache_size"`
}

// Annotator configures the HTTP annotation service
type Annotator struct {
	URL       string        `yaml:"url"`
	APIKey    string        `yaml:"api_key"`
	Timeout   time.Duration `yaml:"timeout"`
	CacheSize int           `yaml:"cache_size"`
}

// Corpus locates author folders
type Corpus struct {
	Root    string `yaml:"root"`
	Pattern string `yaml:"pattern"`
}

// Store configures result persistence. An empty Path disables it.
type Store struct {
	Path string `yaml:"path"`
}

// Report selects output sinks
type Report struct {
	Dir     string   `yaml:"dir"`
	Formats []string `yaml:"formats"`
}

// Log configures the logger
type Log struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// Default returns a configuration that works without a file.
func Default() *Config {
	return &Config{
		Analysis: Analysis{Window: lexical.DefaultWindow, Workers: 1},
		Filter: Filter{
			Abbreviations: filter.DefaultAbbreviations(),
			Contractions:  filter.DefaultContractions(),
		},
		Spelling: Spelling{
			Inflections: true,
			MaxDistance: spell.DefaultMaxDistance,
			CacheSize:   spell.DefaultCacheSize,
		},
		Annotator: Annotator{Timeout: annotate.DefaultTimeout, CacheSize: 256},
		Corpus:    Corpus{Root: "mydata", Pattern: corpus.DefaultPattern},
		Report:    Report{Dir: "reports", Formats: []string{FormatPDF, FormatTerminal}},
		Log:       Log{Level: "info"},
	}
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	var problems []string
	if c.Analysis.Window < 1 {
		problems = append(problems, "analysis.window must be positive")
	}
	if c.Analysis.Workers < 1 {
		problems = append(problems, "analysis.workers must be positive")
	}
	if c.Spelling.MaxDistance < 1 || c.Spelling.MaxDistance > spell.DefaultMaxDistance {
		problems = append(problems, fmt.Sprintf("spelling.max_distance must be between 1 and %d", spell.DefaultMaxDistance))
	}
	if c.Spelling.CacheSize < 0 || c.Annotator.CacheSize < 0 {
		problems = append(problems, "cache sizes must not be negative")
	}
	if c.Annotator.Timeout < 0 {
		problems = append(problems, "annotator.timeout must not be negative")
	}
	if c.Annotator.URL != "" {
		u, err := url.Parse(c.Annotator.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			problems = append(problems, fmt.Sprintf("annotator.url %q is not an http(s) URL", c.Annotator.URL))
		}
	}
	for i, ct := range c.Filter.Contractions {
		if ct.Suffix == "" {
			problems = append(problems, fmt.Sprintf("filter.contractions[%d] has no suffix", i))
		}
	}
	for _, f := range c.Report.Formats {
		if f != FormatPDF && f != FormatTerminal {
			problems = append(problems, fmt.Sprintf("unknown report format %q", f))
		}
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("unknown log level %q", c.Log.Level))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", internalerr.ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// HasFormat reports whether the report section enables format.
func (c *Config) HasFormat(format string) bool {
	return slices.Contains(c.Report.Formats, format)
}
