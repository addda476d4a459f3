package lexical

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/quill/pkg/quill/annotate"
	"github.com/cognicore/quill/pkg/quill/annotate/annotatetest"
	"github.com/cognicore/quill/pkg/quill/internalerr"
)

var W = annotatetest.W

func TestComputeCatSat(t *testing.T) {
	doc := annotatetest.Build([]annotatetest.Word{
		W("the", "DET", "det", 1),
		W("cat", "NOUN", "nsubj", 2),
		W("sat", "VERB", "ROOT", 2),
		W(".", "PUNCT", "punct", 2),
	})
	m := Compute(doc, DefaultWindow)
	assert.Equal(t, 3, m.TokenCount)
	assert.Equal(t, 3, m.UniqueCount)
	assert.Equal(t, 2, m.LexicalWords)
	assert.Equal(t, 1.0, m.TTR)
	assert.Equal(t, m.TTR, m.MATTR)
	assert.InDelta(t, 2.0/3.0, m.LexicalDensity, 1e-12)
}

func TestComputeEmpty(t *testing.T) {
	for _, doc := range []*annotate.Doc{nil, annotate.Empty()} {
		m := Compute(doc, 0)
		assert.Equal(t, Metrics{}, m)
	}

	punctOnly := annotatetest.Build([]annotatetest.Word{W("...", "PUNCT", "ROOT", 0)})
	assert.Equal(t, Metrics{}, Compute(punctOnly, 5))
}

func TestTTRNoRepeats(t *testing.T) {
	assert.Equal(t, 1.0, TTR([]string{"a", "b", "c", "d"}))
}

func TestTTRAllIdentical(t *testing.T) {
	words := strings.Fields(strings.Repeat("cat ", 8))
	assert.Equal(t, 1.0/8.0, TTR(words))
	assert.Equal(t, 0.0, TTR(nil))
}

func TestMATTRFallsBackToTTR(t *testing.T) {
	words := strings.Fields("the cat and the dog and the bird")
	assert.Equal(t, TTR(words), MATTR(words, 30))
	assert.Equal(t, TTR(words), MATTR(words, len(words)+1))
}

func TestMATTRWindows(t *testing.T) {
	// windows of 3: [a b a]=2/3 [b a c]=1 [a c c]=2/3
	words := []string{"a", "b", "a", "c", "c"}
	assert.InDelta(t, (2.0/3.0+1.0+2.0/3.0)/3.0, MATTR(words, 3), 1e-12)

	// window equal to the length yields exactly one window
	assert.InDelta(t, TTR(words), MATTR(words, len(words)), 1e-12)
}

func TestMATTRMatchesBruteForce(t *testing.T) {
	words := strings.Fields("one two three two one four five one six two seven three eight nine one ten")
	for window := 1; window <= len(words); window++ {
		var sum float64
		count := 0
		for i := 0; i+window <= len(words); i++ {
			sum += TTR(words[i : i+window])
			count++
		}
		assert.InDelta(t, sum/float64(count), MATTR(words, window), 1e-9, "window %d", window)
	}
}

func TestMATTRUniform(t *testing.T) {
	words := strings.Fields(strings.Repeat("cat ", 40))
	assert.InDelta(t, 1.0/30.0, MATTR(words, 30), 1e-12)
}

func TestMetricsBounded(t *testing.T) {
	texts := []string{
		"",
		"i ran. she jumped.",
		strings.Repeat("the quick brown fox jumps over the lazy dog. ", 12),
	}
	for _, text := range texts {
		doc, err := annotatetest.Naive().Annotate(context.Background(), text)
		require.NoError(t, err)
		m := Compute(doc, 10)
		for _, v := range []float64{m.TTR, m.MATTR, m.LexicalDensity} {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 1.0)
		}
	}
}

func TestWordsLowercasesAndSkipsNonAlpha(t *testing.T) {
	doc := annotatetest.Build([]annotatetest.Word{
		W("Cat", "NOUN", "ROOT", 0),
		W("42", "NUM", "nummod", 0),
		W("cat", "NOUN", "conj", 0),
	})
	assert.Equal(t, []string{"cat", "cat"}, Words(doc))
	m := Compute(doc, 0)
	assert.Equal(t, 1, m.UniqueCount)
	assert.Equal(t, 0.5, m.TTR)
}

func TestAnalyzer(t *testing.T) {
	a := NewAnalyzer(annotatetest.Naive(), 0)
	assert.Equal(t, DefaultWindow, a.Window())

	m, err := a.Analyze(context.Background(), "the cat sat.")
	require.NoError(t, err)
	assert.Equal(t, 3, m.TokenCount)
	assert.Equal(t, 1.0, m.LexicalDensity)
}

func TestAnalyzerPropagatesAnnotationFailure(t *testing.T) {
	a := NewAnalyzer(annotatetest.Failing("cat"), 5)
	_, err := a.Analyze(context.Background(), "the cat sat.")
	require.Error(t, err)
	assert.True(t, errors.Is(err, internalerr.ErrAnnotationFailed))

	_, err = NewAnalyzer(nil, 5).Analyze(context.Background(), "x")
	assert.ErrorIs(t, err, internalerr.ErrInvalidInput)
}
