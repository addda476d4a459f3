// Package annotatetest builds annotated docs and fake annotators for tests.
package annotatetest

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/cognicore/quill/pkg/quill/annotate"
	"github.com/cognicore/quill/pkg/quill/internalerr"
)

// Word describes one token of a hand-written parse. Head is the index of the
// head word within the same sentence; a ROOT word points at itself.
type Word struct {
	Text string
	POS  string
	Dep  string
	Head int
}

// W is shorthand for a Word literal.
func W(text, pos, dep string, head int) Word {
	return Word{Text: text, POS: pos, Dep: dep, Head: head}
}

// Build assembles sentences into a validated Doc. It panics on invalid input.
func Build(sentences ...[]Word) *annotate.Doc {
	var tokens []annotate.Token
	for s, words := range sentences {
		base := len(tokens)
		for _, w := range words {
			tokens = append(tokens, annotate.Token{
				Index:    len(tokens),
				Text:     w.Text,
				IsAlpha:  isAlpha(w.Text),
				POS:      w.POS,
				Dep:      w.Dep,
				Head:     base + w.Head,
				Sentence: s,
			})
		}
	}
	doc, err := annotate.NewDoc(tokens)
	if err != nil {
		panic(err)
	}
	return doc
}

// Naive annotates by whitespace: every alphabetic token is a NOUN, sentences
// end at tokens carrying '.', '!' or '?', the first word of each sentence is
// ROOT and every other word depends on it.
func Naive() annotate.Annotator {
	return annotate.AnnotatorFunc(func(_ context.Context, text string) (*annotate.Doc, error) {
		return Build(naiveSentences(text)...), nil
	})
}

// Map serves fixed docs by exact text and falls back to Naive.
func Map(docs map[string]*annotate.Doc) annotate.Annotator {
	naive := Naive()
	return annotate.AnnotatorFunc(func(ctx context.Context, text string) (*annotate.Doc, error) {
		if doc, ok := docs[text]; ok {
			return doc, nil
		}
		return naive.Annotate(ctx, text)
	})
}

// Failing returns an annotator that fails for texts containing marker and
// otherwise behaves like Naive.
func Failing(marker string) annotate.Annotator {
	naive := Naive()
	return annotate.AnnotatorFunc(func(ctx context.Context, text string) (*annotate.Doc, error) {
		if strings.Contains(text, marker) {
			return nil, fmt.Errorf("%w: engine rejected %q", internalerr.ErrAnnotationFailed, marker)
		}
		return naive.Annotate(ctx, text)
	})
}

func naiveSentences(text string) [][]Word {
	var sentences [][]Word
	var cur []Word
	root := -1
	flush := func() {
		if len(cur) > 0 {
			sentences = append(sentences, cur)
		}
		cur, root = nil, -1
	}
	for _, field := range strings.Fields(text) {
		word := strings.TrimRight(field, ".!?")
		end := word != field
		if word != "" {
			if root < 0 {
				root = len(cur)
				cur = append(cur, W(word, "NOUN", annotate.RootLabel, root))
			} else {
				cur = append(cur, W(word, "NOUN", "dep", root))
			}
		}
		if end {
			head := root
			if head < 0 {
				head = len(cur)
			}
			cur = append(cur, W(field[len(word):], "PUNCT", "punct", head))
			flush()
		}
	}
	flush()
	return sentences
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
