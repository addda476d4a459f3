package annotate

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/cognicore/quill/pkg/quill/internalerr"
)

// RootLabel is the dependency label of a sentence's syntactic root.
const RootLabel = "ROOT"

// Token is one annotated token, in the shape spaCy-style services emit.
type Token struct {
	Index   int    `json:"i"`
	Text    string `json:"text"`
	IsAlpha bool   `json:"is_alpha"`
	POS     string `json:"pos"`
	Dep     string `json:"dep"`
	// Head is the index of the syntactic head; a root points at itself.
	Head     int `json:"head"`
	Sentence int `json:"sent"`
}

// IsRoot reports whether the token carries the ROOT label.
func (t Token) IsRoot() bool {
	return strings.EqualFold(t.Dep, RootLabel)
}

// Sentence is a contiguous token range [Start, End) of a Doc.
type Sentence struct {
	Start int
	End   int
	doc   *Doc
}

// Tokens returns the sentence's tokens. A sentence not built by NewDoc, or
// whose range does not fit its doc, has none.
func (s Sentence) Tokens() []Token {
	if s.doc == nil || s.Start < 0 || s.Start > s.End || s.End > len(s.doc.Tokens) {
		return nil
	}
	return s.doc.Tokens[s.Start:s.End]
}

// Root returns the first ROOT-labeled token of the sentence.
func (s Sentence) Root() (Token, bool) {
	for _, tok := range s.Tokens() {
		if tok.IsRoot() {
			return tok, true
		}
	}
	return Token{}, false
}

// Doc is the annotation engine's output for one text.
type Doc struct {
	Tokens    []Token
	Sentences []Sentence
	children  [][]int
}

// NewDoc validates tokens and builds sentence and child indexes.
//
// Tokens must be indexed 0..n-1 in order, heads must reference tokens of the
// doc, and sentence indices must never decrease. Violations wrap
// internalerr.ErrMalformedAnnotation.
func NewDoc(tokens []Token) (*Doc, error) {
	d := &Doc{Tokens: tokens, children: make([][]int, len(tokens))}
	start := 0
	for i, tok := range tokens {
		if tok.Index != i {
			return nil, fmt.Errorf("%w: token %d has index %d", internalerr.ErrMalformedAnnotation, i, tok.Index)
		}
		if tok.Head < 0 || tok.Head >= len(tokens) {
			return nil, fmt.Errorf("%w: token %d head %d out of range", internalerr.ErrMalformedAnnotation, i, tok.Head)
		}
		if i > 0 {
			prev := tokens[i-1].Sentence
			if tok.Sentence < prev {
				return nil, fmt.Errorf("%w: token %d sentence %d after %d", internalerr.ErrMalformedAnnotation, i, tok.Sentence, prev)
			}
			if tok.Sentence != prev {
				d.Sentences = append(d.Sentences, Sentence{Start: start, End: i, doc: d})
				start = i
			}
		}
		if tok.Head != i {
			d.children[tok.Head] = append(d.children[tok.Head], i)
		}
	}
	if len(tokens) > 0 {
		d.Sentences = append(d.Sentences, Sentence{Start: start, End: len(tokens), doc: d})
	}
	return d, nil
}

// Empty returns a doc with no tokens.
func Empty() *Doc {
	d, _ := NewDoc(nil)
	return d
}

// Children returns the indices of the direct syntactic children of token i.
func (d *Doc) Children(i int) []int {
	if i < 0 || i >= len(d.children) {
		return nil
	}
	return d.children[i]
}

// Subtree returns token i and all its descendants in document order.
func (d *Doc) Subtree(i int) []Token {
	if i < 0 || i >= len(d.Tokens) {
		return nil
	}
	in := make([]bool, len(d.Tokens))
	stack := []int{i}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if in[n] {
			continue
		}
		in[n] = true
		stack = append(stack, d.Children(n)...)
	}
	var out []Token
	for idx, ok := range in {
		if ok {
			out = append(out, d.Tokens[idx])
		}
	}
	return out
}

// SubtreeText joins the subtree's surface text with spaces.
func (d *Doc) SubtreeText(i int) string {
	toks := d.Subtree(i)
	parts := make([]string, len(toks))
	for j, t := range toks {
		parts[j] = t.Text
	}
	return strings.Join(parts, " ")
}

type wireDoc struct {
	Tokens []Token `json:"tokens"`
}

// Decode reads the wire format {"tokens": [...]} and validates it.
func Decode(r io.Reader) (*Doc, error) {
	var w wireDoc
	if err := json.NewDecoder(r).Decode(&w); err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrMalformedAnnotation, err)
	}
	return NewDoc(w.Tokens)
}

// MarshalJSON writes the wire format.
func (d *Doc) MarshalJSON() ([]byte, error) {
	toks := d.Tokens
	if toks == nil {
		toks = []Token{}
	}
	return json.Marshal(wireDoc{Tokens: toks})
}
