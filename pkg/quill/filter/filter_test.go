package filter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cognicore/quill/pkg/quill/spell"
)

func englishOracle() spell.Oracle {
	return spell.NewChecker(spell.FromWords(
		"they", "are", "not", "here", "the", "cat", "sat", "did", "go",
		"she", "said", "that", "he", "left", "will", "have", "would", "am",
		"we", "you", "ran", "and", "jumped", "cafe", "hello", "world",
	))
}

func TestFilterDropsMisspelledWords(t *testing.T) {
	f := New(englishOracle())
	got := f.Filter("Theyyyyy aren't here.")
	assert.Equal(t, "are not here.", got)
}

func TestFilterContractions(t *testing.T) {
	f := New(nil)
	cases := map[string]string{
		"didn't":   "did not",
		"we'll go": "we will go",
		"you've":   "you have",
		"they're":  "they are",
		"she'd":    "she would",
		"i'm":      "i am",
	}
	for in, want := range cases {
		assert.Equal(t, want, f.Filter(in), "input %q", in)
	}
}

// Replacement is substring based: the suffix fires inside words too.
func TestFilterContractionIsSubstringBased(t *testing.T) {
	f := New(nil)
	assert.Equal(t, "rock would roll", f.Filter("rock'd roll"))
	// "o'more" becomes "o amore"; the stray "o" is then dropped as a single character
	assert.Equal(t, "amore", f.Filter("o'more"))
	// without an apostrophe nothing is expanded
	assert.Equal(t, "arent", f.Filter("arent"))
}

func TestFilterStripsCharacters(t *testing.T) {
	f := New(nil)
	assert.Equal(t, "hello, world! (yes) it's ok?", f.Filter("Hello, World! (yes) it's 4 ok?"))
	assert.Equal(t, "tab separated", f.Filter("tab\t\tseparated\n\n"))
	assert.Equal(t, "email example com", f.Filter("email@example-com"))
}

func TestFilterSingleCharacters(t *testing.T) {
	f := New(nil)
	assert.Equal(t, "a cat i saw", f.Filter("a cat b i x saw ."))
}

func TestFilterAbbreviationsSkipOracle(t *testing.T) {
	rejectAll := spell.OracleFunc(func(string) string { return "" })
	f := New(rejectAll)
	assert.Equal(t, "mr dr etc", f.Filter("Mr Smith dr Who etc"))

	custom := New(rejectAll, WithAbbreviations([]string{"Smith"}))
	assert.Equal(t, "smith", custom.Filter("Mr Smith"))
}

func TestFilterNeverSubstitutes(t *testing.T) {
	// oracle would correct "thay" to "they"; filter must drop it, not replace it
	f := New(englishOracle())
	assert.Equal(t, "the cat sat", f.Filter("thay the cat sat"))
}

func TestFilterEmpty(t *testing.T) {
	f := New(englishOracle())
	assert.Equal(t, "", f.Filter(""))
	assert.Equal(t, "", f.Filter("   \n\t "))
	assert.Equal(t, "", f.Filter("1234 5678"))
	assert.Empty(t, f.Tokens(""))
}

func TestFilterIsIdempotent(t *testing.T) {
	f := New(englishOracle())
	inputs := []string{
		"she said that he left.",
		"the cat sat. they are not here!",
		"i ran, and she jumped.",
	}
	for _, in := range inputs {
		once := f.Filter(in)
		assert.Equal(t, once, f.Filter(once), "input %q", in)
		assert.Equal(t, in, once)
	}
}

func TestFilterNeverGrows(t *testing.T) {
	f := New(englishOracle())
	inputs := []string{
		"The CAT sat on the mat!!",
		"Theyyyyy aren't here.",
		"zzz qqq the",
	}
	for _, in := range inputs {
		out := f.Tokens(in)
		assert.LessOrEqual(t, len(out), len(strings.Fields(in))*2, "input %q", in)
		for _, tok := range out {
			assert.Equal(t, strings.ToLower(tok), tok)
		}
	}
	assert.Len(t, f.Tokens("zzz qqq the"), 1)
}

func TestFilterCustomContractions(t *testing.T) {
	f := New(nil, WithContractions([]Contraction{{Suffix: "gonna", Expansion: "going to"}, {Suffix: ""}}))
	assert.Equal(t, "we are going to go", f.Filter("we are gonna go"))
	assert.Equal(t, "didn't", f.Filter("didn't"))
}

func TestFilterDiacriticFolding(t *testing.T) {
	plain := New(englishOracle())
	assert.Equal(t, "", plain.Filter("Café"))

	folding := New(englishOracle(), WithDiacriticFolding())
	assert.Equal(t, "cafe", folding.Filter("Café"))
}

// correctionPanics accepts a fixed set of words and fails the test if the
// filter falls back to computing corrections.
type correctionPanics struct {
	known map[string]bool
}

func (o correctionPanics) Correction(string) string { panic("correction computed") }

func (o correctionPanics) Accepts(word string) bool {
	return o.known[strings.TrimRight(word, ".,!?")]
}

func TestFilterUsesAcceptorWhenAvailable(t *testing.T) {
	f := New(correctionPanics{known: map[string]bool{"the": true, "cat": true, "sat": true}})
	assert.Equal(t, "the cat sat.", f.Filter("The cat zzz sat."))
}

func TestFilterLongUnknownToken(t *testing.T) {
	f := New(englishOracle())
	long := strings.Repeat("so", 150)
	assert.Equal(t, "the cat sat.", f.Filter("The cat "+long+" sat."))
}
