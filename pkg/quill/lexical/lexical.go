package lexical

import (
	"context"
	"fmt"
	"strings"

	"github.com/cognicore/quill/pkg/quill/annotate"
	"github.com/cognicore/quill/pkg/quill/internalerr"
)

// DefaultWindow is the MATTR window size.
const DefaultWindow = 30

// content-word POS categories
var lexicalPOS = map[string]struct{}{
	"NOUN": {},
	"VERB": {},
	"ADJ":  {},
	"ADV":  {},
}

// Metrics holds lexical diversity and density for one text.
type Metrics struct {
	TokenCount     int
	UniqueCount    int
	LexicalWords   int
	TTR            float64
	MATTR          float64
	LexicalDensity float64
}

// Words returns the lowercase surface text of the alphabetic tokens of doc.
func Words(doc *annotate.Doc) []string {
	if doc == nil {
		return nil
	}
	words := make([]string, 0, len(doc.Tokens))
	for _, tok := range doc.Tokens {
		if tok.IsAlpha {
			words = append(words, strings.ToLower(tok.Text))
		}
	}
	return words
}

// Compute derives the metrics from an annotated doc.
//
// Texts shorter than the window get MATTR = TTR. Ratios are 0 for texts
// without alphabetic tokens. A window <= 0 means DefaultWindow.
func Compute(doc *annotate.Doc, window int) Metrics {
	if window <= 0 {
		window = DefaultWindow
	}
	words := Words(doc)
	m := Metrics{
		TokenCount:  len(words),
		UniqueCount: countUnique(words),
	}
	if m.TokenCount == 0 {
		return m
	}
	for _, tok := range doc.Tokens {
		if !tok.IsAlpha {
			continue
		}
		if _, ok := lexicalPOS[strings.ToUpper(tok.POS)]; ok {
			m.LexicalWords++
		}
	}
	m.TTR = float64(m.UniqueCount) / float64(m.TokenCount)
	m.MATTR = MATTR(words, window)
	m.LexicalDensity = float64(m.LexicalWords) / float64(m.TokenCount)
	return m
}

// TTR is the type-token ratio of words, 0 for no words.
func TTR(words []string) float64 {
	if len(words) == 0 {
		return 0
	}
	return float64(countUnique(words)) / float64(len(words))
}

// MATTR is the mean TTR over every stride-1 window of exactly window words.
// With fewer words than the window it falls back to TTR.
func MATTR(words []string, window int) float64 {
	if window <= 0 {
		window = DefaultWindow
	}
	n := len(words)
	if n < window {
		return TTR(words)
	}

	counts := make(map[string]int, window)
	unique := 0
	for _, w := range words[:window] {
		if counts[w] == 0 {
			unique++
		}
		counts[w]++
	}

	windows := n - window + 1
	sum := float64(unique) / float64(window)
	for i := window; i < n; i++ {
		out := words[i-window]
		counts[out]--
		if counts[out] == 0 {
			unique--
		}
		in := words[i]
		if counts[in] == 0 {
			unique++
		}
		counts[in]++
		sum += float64(unique) / float64(window)
	}
	return sum / float64(windows)
}

func countUnique(words []string) int {
	seen := make(map[string]struct{}, len(words))
	for _, w := range words {
		seen[w] = struct{}{}
	}
	return len(seen)
}

// Analyzer annotates cleaned text and computes its metrics.
type Analyzer struct {
	annotator annotate.Annotator
	window    int
}

// NewAnalyzer creates an analyzer. A window <= 0 means DefaultWindow.
func NewAnalyzer(a annotate.Annotator, window int) *Analyzer {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Analyzer{annotator: a, window: window}
}

// Window returns the configured MATTR window.
func (a *Analyzer) Window() int { return a.window }

// Analyze annotates cleaned and computes its metrics.
func (a *Analyzer) Analyze(ctx context.Context, cleaned string) (Metrics, error) {
	if a.annotator == nil {
		return Metrics{}, fmt.Errorf("lexical: %w: no annotator", internalerr.ErrInvalidInput)
	}
	doc, err := a.annotator.Annotate(ctx, cleaned)
	if err != nil {
		return Metrics{}, fmt.Errorf("lexical: annotate: %w", err)
	}
	return Compute(doc, a.window), nil
}
