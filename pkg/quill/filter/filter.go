package filter

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/cognicore/quill/pkg/quill/spell"
)

// Contraction is a literal suffix replacement applied before tokenization.
type Contraction struct {
	Suffix    string `yaml:"suffix"`
	Expansion string `yaml:"expansion"`
}

// DefaultContractions are applied in order, as plain substring replacements.
// They fire anywhere the suffix occurs, not only at word ends.
func DefaultContractions() []Contraction {
	return []Contraction{
		{Suffix: "n't", Expansion: " not"},
		{Suffix: "'ll", Expansion: " will"},
		{Suffix: "'ve", Expansion: " have"},
		{Suffix: "'re", Expansion: " are"},
		{Suffix: "'d", Expansion: " would"},
		{Suffix: "'m", Expansion: " am"},
	}
}

// DefaultAbbreviations are kept without consulting the spelling oracle.
func DefaultAbbreviations() []string {
	return []string{"mr", "mrs", "ms", "dr", "prof", "etc", "vs", "eg", "ie"}
}

// single-character tokens that survive
var keepSingles = map[string]struct{}{"a": {}, "i": {}}

// Filter normalizes raw text and removes tokens the spelling oracle rejects.
type Filter struct {
	oracle        spell.Oracle
	contractions  []Contraction
	abbreviations map[string]struct{}
	foldMarks     bool
}

// Option configures a Filter.
type Option func(*Filter)

// WithContractions replaces the contraction table.
func WithContractions(c []Contraction) Option {
	return func(f *Filter) {
		f.contractions = append([]Contraction(nil), c...)
	}
}

// WithAbbreviations replaces the abbreviation whitelist.
func WithAbbreviations(words []string) Option {
	return func(f *Filter) {
		f.abbreviations = toSet(words)
	}
}

// WithDiacriticFolding strips combining marks before the charset filter, so
// "café" becomes "cafe" instead of "caf".
func WithDiacriticFolding() Option {
	return func(f *Filter) { f.foldMarks = true }
}

// New creates a filter. A nil oracle accepts every token.
func New(oracle spell.Oracle, opts ...Option) *Filter {
	if oracle == nil {
		oracle = spell.OracleFunc(func(w string) string { return w })
	}
	f := &Filter{
		oracle:        oracle,
		contractions:  DefaultContractions(),
		abbreviations: toSet(DefaultAbbreviations()),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Filter returns the cleaned, lowercase text.
func (f *Filter) Filter(text string) string {
	if text == "" {
		return ""
	}
	text = strings.ToLower(text)
	if f.foldMarks {
		text = foldDiacritics(text)
	}
	for _, c := range f.contractions {
		if c.Suffix == "" {
			continue
		}
		text = strings.ReplaceAll(text, c.Suffix, c.Expansion)
	}
	text = strings.Map(keepRune, text)

	words := strings.Fields(text)
	kept := words[:0]
	for _, w := range words {
		if f.keep(w) {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}

// Tokens returns the surviving tokens of text.
func (f *Filter) Tokens(text string) []string {
	return strings.Fields(f.Filter(text))
}

func (f *Filter) keep(word string) bool {
	if len(word) == 1 {
		_, ok := keepSingles[word]
		return ok
	}
	if _, ok := f.abbreviations[word]; ok {
		return true
	}
	if a, ok := f.oracle.(spell.Acceptor); ok {
		return a.Accepts(word)
	}
	return f.oracle.Correction(word) == word
}

// keepRune maps everything outside a-z, whitespace and basic punctuation to a space.
func keepRune(r rune) rune {
	switch {
	case r >= 'a' && r <= 'z':
		return r
	case unicode.IsSpace(r):
		return ' '
	}
	switch r {
	case '.', ',', '!', '?', ';', ':', '(', ')', '\'':
		return r
	}
	return ' '
}

func foldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			set[w] = struct{}{}
		}
	}
	return set
}
