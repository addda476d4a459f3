package spell

import (
	"bufio"
	"bytes"
	_ "embed"
	"strings"
	"sync"
)

//go:embed english.txt
var englishWords []byte

var (
	defaultOnce sync.Once
	defaultDict *Dictionary
)

// DefaultDictionary returns the bundled English word list. Words are ranked
// by position: earlier lines get higher frequencies. The result is shared and
// must not be modified.
func DefaultDictionary() *Dictionary {
	defaultOnce.Do(func() {
		var words []string
		sc := bufio.NewScanner(bytes.NewReader(englishWords))
		for sc.Scan() {
			w := strings.TrimSpace(sc.Text())
			if w == "" || strings.HasPrefix(w, "#") {
				continue
			}
			words = append(words, w)
		}
		d := NewDictionary(nil)
		for i, w := range words {
			if !d.Contains(w) {
				d.Add(w, int64(len(words)-i))
			}
		}
		defaultDict = d
	})
	return defaultDict
}

// inflection endings and the base-form endings they replace
var inflections = []struct{ suffix, base string }{
	{"'s", ""},
	{"ies", "y"},
	{"ied", "y"},
	{"ier", "y"},
	{"iest", "y"},
	{"ily", "y"},
	{"es", ""},
	{"s", ""},
	{"ed", ""},
	{"ed", "e"},
	{"ing", ""},
	{"ing", "e"},
	{"ly", ""},
	{"er", ""},
	{"er", "e"},
	{"est", ""},
	{"est", "e"},
}

// baseForms lists candidate stems of a regularly inflected word, including
// undoubled consonants ("stopped" -> "stop").
func baseForms(word string) []string {
	var out []string
	for _, in := range inflections {
		stem, ok := strings.CutSuffix(word, in.suffix)
		if !ok || len(stem) < 2 {
			continue
		}
		out = append(out, stem+in.base)
		if in.base == "" {
			if n := len(stem); n >= 3 && stem[n-1] == stem[n-2] {
				out = append(out, stem[:n-1])
			}
		}
	}
	return out
}
