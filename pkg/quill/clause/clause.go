package clause

import (
	"context"
	"fmt"
	"strings"

	"github.com/cognicore/quill/pkg/quill/annotate"
	"github.com/cognicore/quill/pkg/quill/internalerr"
)

// Kind distinguishes main/coordinated clauses from subordinate ones.
type Kind string

const (
	Independent Kind = "independent"
	Dependent   Kind = "dependent"
)

// ConjLabel marks a coordinated conjunct.
const ConjLabel = "conj"

// dependency labels that introduce a dependent clause
var dependentLabels = map[string]struct{}{
	"ccomp": {},
	"advcl": {},
	"acl":   {},
	"relcl": {},
	"xcomp": {},
	"pcomp": {},
}

// IsDependentLabel reports whether a dependency label introduces a dependent clause.
func IsDependentLabel(dep string) bool {
	_, ok := dependentLabels[strings.ToLower(dep)]
	return ok
}

// Clause is one counted clause, identified by its head token.
type Clause struct {
	Kind  Kind
	Label string
	Head  int
	Text  string
}

// Counts is the clause profile of a text.
type Counts struct {
	Dependent   int
	Independent int
	Total       int
	DCR         float64
	Clauses     []Clause
}

// Compute counts clauses in an annotated doc.
//
// Every token labeled ccomp, advcl, acl, relcl, xcomp or pcomp is one
// dependent clause. Each sentence root is one independent clause, plus one per
// token reachable from the root through a chain of conj edges. Sentences
// without a root contribute nothing.
func Compute(doc *annotate.Doc) Counts {
	var c Counts
	if doc == nil {
		return c
	}
	for _, tok := range doc.Tokens {
		if IsDependentLabel(tok.Dep) {
			c.Dependent++
			c.Clauses = append(c.Clauses, Clause{
				Kind:  Dependent,
				Label: tok.Dep,
				Head:  tok.Index,
				Text:  doc.SubtreeText(tok.Index),
			})
		}
	}

	visited := make([]bool, len(doc.Tokens))
	for _, sent := range doc.Sentences {
		root, ok := sent.Root()
		if !ok {
			continue
		}
		for _, idx := range coordinated(doc, root.Index, visited) {
			tok := doc.Tokens[idx]
			c.Independent++
			c.Clauses = append(c.Clauses, Clause{
				Kind:  Independent,
				Label: tok.Dep,
				Head:  idx,
				Text:  doc.SubtreeText(idx),
			})
		}
	}

	c.Total = c.Dependent + c.Independent
	if c.Total > 0 {
		c.DCR = float64(c.Dependent) / float64(c.Total)
	}
	return c
}

// coordinated returns root followed by every token reachable from it through
// conj edges, depth first in document order. Tokens already visited are skipped.
func coordinated(doc *annotate.Doc, root int, visited []bool) []int {
	if root < 0 || root >= len(visited) || visited[root] {
		return nil
	}
	var out []int
	stack := []int{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[n] {
			continue
		}
		visited[n] = true
		out = append(out, n)

		children := doc.Children(n)
		for i := len(children) - 1; i >= 0; i-- {
			child := children[i]
			if !visited[child] && strings.EqualFold(doc.Tokens[child].Dep, ConjLabel) {
				stack = append(stack, child)
			}
		}
	}
	return out
}

// Analyzer annotates cleaned text and counts its clauses.
type Analyzer struct {
	annotator annotate.Annotator
}

// NewAnalyzer creates an analyzer backed by a.
func NewAnalyzer(a annotate.Annotator) *Analyzer {
	return &Analyzer{annotator: a}
}

// Analyze annotates cleaned and counts its clauses.
func (a *Analyzer) Analyze(ctx context.Context, cleaned string) (Counts, error) {
	if a.annotator == nil {
		return Counts{}, fmt.Errorf("clause: %w: no annotator", internalerr.ErrInvalidInput)
	}
	doc, err := a.annotator.Annotate(ctx, cleaned)
	if err != nil {
		return Counts{}, fmt.Errorf("clause: annotate: %w", err)
	}
	return Compute(doc), nil
}
