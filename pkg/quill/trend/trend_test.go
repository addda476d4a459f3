package trend

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, 0, s.Samples)
	assert.Equal(t, Series{}, s.Get(TTR))
}

func TestSummarizeSingle(t *testing.T) {
	s := Summarize([]Sample{{TotalWords: 120, TTR: 0.6, DCR: 0.25}})
	ttr := s.Get(TTR)
	assert.Equal(t, 0.6, ttr.First)
	assert.Equal(t, 0.6, ttr.Last)
	assert.Equal(t, 0.0, ttr.Delta)
	assert.Equal(t, 0.0, ttr.Slope)
	assert.Equal(t, 120.0, s.Get(TotalWords).Mean)
}

func TestSummarizeLinearGrowth(t *testing.T) {
	samples := []Sample{
		{TotalWords: 100, TTR: 0.50, MATTR: 0.70, LexicalDensity: 0.40, DCR: 0.10},
		{TotalWords: 150, TTR: 0.55, MATTR: 0.72, LexicalDensity: 0.40, DCR: 0.20},
		{TotalWords: 200, TTR: 0.60, MATTR: 0.74, LexicalDensity: 0.40, DCR: 0.30},
	}
	s := Summarize(samples)
	assert.Equal(t, 3, s.Samples)
	assert.Len(t, s.Series, len(Order))

	words := s.Get(TotalWords)
	assert.Equal(t, 100.0, words.Delta)
	assert.InDelta(t, 50.0, words.Slope, 1e-9)
	assert.InDelta(t, 150.0, words.Mean, 1e-9)

	assert.InDelta(t, 0.05, s.Get(TTR).Slope, 1e-9)
	assert.InDelta(t, 0.10, s.Get(DCR).Slope, 1e-9)
	assert.InDelta(t, 0.0, s.Get(LexicalDensity).Slope, 1e-9)
	assert.Equal(t, MATTR, s.Get(MATTR).Metric)
}
