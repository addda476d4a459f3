package spell

import (
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Oracle judges spelling. Correction returns the oracle's corrected form of a
// lowercase token; a result equal to the input means the token is accepted.
type Oracle interface {
	Correction(word string) string
}

// OracleFunc adapts a plain function to Oracle.
type OracleFunc func(word string) string

// Correction implements Oracle.
func (f OracleFunc) Correction(word string) string { return f(word) }

// Acceptor is implemented by oracles that can answer "is this token accepted"
// without computing a correction. Accepts(w) must equal Correction(w) == w.
type Acceptor interface {
	Accepts(word string) bool
}

// DefaultMaxDistance is the largest edit distance searched for candidates.
const DefaultMaxDistance = 2

// DefaultCacheSize bounds the memoised corrections.
const DefaultCacheSize = 4096

// edge punctuation trimmed before dictionary lookup
const edgePunct = ".,!?;:()'"

const alphabet = "abcdefghijklmnopqrstuvwxyz'"

// words longer than the dictionary's longest word by more than this are not
// searched for candidates
const lengthSlack = 3

// Checker is a frequency-dictionary spelling oracle.
//
// Known words correct to themselves. Unknown words correct to the most
// frequent known word within MaxDistance edits (nearest distance first),
// or to "" when nothing is close enough. Words more than three bytes longer
// than the longest dictionary word correct to "" without a search.
// Corrections are memoised.
type Checker struct {
	dict        *Dictionary
	maxDistance int
	inflections bool
	cache       *lru.Cache[string, string]
}

// Option configures a Checker.
type Option func(*Checker)

// WithMaxDistance sets the candidate search distance (1 or 2).
func WithMaxDistance(d int) Option {
	return func(c *Checker) {
		if d >= 1 && d <= DefaultMaxDistance {
			c.maxDistance = d
		}
	}
}

// WithCacheSize sets the number of memoised corrections.
func WithCacheSize(n int) Option {
	return func(c *Checker) {
		if n > 0 {
			c.cache, _ = lru.New[string, string](n)
		}
	}
}

// WithInflections accepts regular inflections of known words: plurals,
// possessives, -ed, -ing, -ly, -er and -est forms.
func WithInflections() Option {
	return func(c *Checker) { c.inflections = true }
}

// NewChecker creates a checker over dict.
func NewChecker(dict *Dictionary, opts ...Option) *Checker {
	if dict == nil {
		dict = NewDictionary(nil)
	}
	c := &Checker{dict: dict, maxDistance: DefaultMaxDistance}
	for _, opt := range opts {
		opt(c)
	}
	if c.cache == nil {
		c.cache, _ = lru.New[string, string](DefaultCacheSize)
	}
	return c
}

// Known reports whether the word, stripped of edge punctuation, is in the dictionary.
func (c *Checker) Known(word string) bool {
	core, _, _ := splitEdges(word)
	return core != "" && c.known(core)
}

// Accepts implements Acceptor: the token has no letters or its core is known.
func (c *Checker) Accepts(word string) bool {
	core, _, _ := splitEdges(word)
	return core == "" || c.known(core)
}

func (c *Checker) known(core string) bool {
	if c.dict.Contains(core) {
		return true
	}
	if !c.inflections {
		return false
	}
	for _, base := range baseForms(core) {
		if c.dict.Contains(base) {
			return true
		}
	}
	return false
}

// Correction implements Oracle.
//
// Edge punctuation is not part of spelling: "here." is judged as "here" and,
// when accepted, returned unchanged so sentence punctuation survives filtering.
// A token with no letters at all is returned unchanged.
func (c *Checker) Correction(word string) string {
	if word == "" {
		return ""
	}
	if v, ok := c.cache.Get(word); ok {
		return v
	}
	v := c.correct(word)
	c.cache.Add(word, v)
	return v
}

func (c *Checker) correct(word string) string {
	core, lead, trail := splitEdges(word)
	if core == "" {
		return word
	}
	if c.known(core) {
		return word
	}
	if len(core) > c.dict.MaxLen()+lengthSlack {
		return ""
	}
	best := c.best(core)
	if best == "" {
		return ""
	}
	return lead + best + trail
}

// best returns the most frequent known candidate at the smallest distance.
func (c *Checker) best(word string) string {
	frontier := map[string]struct{}{word: {}}
	for d := 1; d <= c.maxDistance; d++ {
		next := make(map[string]struct{})
		for w := range frontier {
			for _, e := range edits1(w) {
				next[e] = struct{}{}
			}
		}
		if pick := c.mostFrequent(next); pick != "" {
			return pick
		}
		frontier = next
	}
	return ""
}

func (c *Checker) mostFrequent(cands map[string]struct{}) string {
	var pick string
	var pickFreq int64 = -1
	for w := range cands {
		f, ok := c.dict.Frequency(w)
		if !ok {
			continue
		}
		if f > pickFreq || (f == pickFreq && w < pick) {
			pick, pickFreq = w, f
		}
	}
	return pick
}

// Candidates lists known words within one edit of word, most frequent first.
func (c *Checker) Candidates(word string) []string {
	core, _, _ := splitEdges(word)
	if core == "" {
		return nil
	}
	if c.known(core) {
		return []string{core}
	}
	seen := make(map[string]struct{})
	var out []string
	for _, e := range edits1(core) {
		if _, dup := seen[e]; dup || !c.dict.Contains(e) {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	c.dict.sortByFrequency(out)
	return out
}

func splitEdges(word string) (core, lead, trail string) {
	core = strings.TrimLeft(word, edgePunct)
	lead = word[:len(word)-len(core)]
	trimmed := strings.TrimRight(core, edgePunct)
	trail = core[len(trimmed):]
	return trimmed, lead, trail
}

// edits1 enumerates deletes, transposes, replaces and inserts.
func edits1(w string) []string {
	out := make([]string, 0, 54*len(w)+27)
	for i := 0; i <= len(w); i++ {
		left, right := w[:i], w[i:]
		if right != "" {
			out = append(out, left+right[1:])
		}
		if len(right) > 1 {
			out = append(out, left+string(right[1])+string(right[0])+right[2:])
		}
		for j := 0; j < len(alphabet); j++ {
			ch := alphabet[j : j+1]
			if right != "" {
				out = append(out, left+ch+right[1:])
			}
			out = append(out, left+ch+right)
		}
	}
	return out
}
