package spell

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Dictionary maps accepted lowercase words to usage frequency.
type Dictionary struct {
	freq   map[string]int64
	maxLen int
}

// NewDictionary builds a dictionary from word frequencies. Keys are lowercased.
func NewDictionary(freq map[string]int64) *Dictionary {
	d := &Dictionary{freq: make(map[string]int64, len(freq))}
	for w, f := range freq {
		d.Add(w, f)
	}
	return d
}

// FromWords builds a dictionary where every word has frequency 1.
func FromWords(words ...string) *Dictionary {
	d := NewDictionary(nil)
	for _, w := range words {
		d.Add(w, 1)
	}
	return d
}

// Add registers a word, accumulating frequency for repeats.
func (d *Dictionary) Add(word string, freq int64) {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return
	}
	if freq < 1 {
		freq = 1
	}
	d.freq[word] += freq
	d.maxLen = max(d.maxLen, len(word))
}

// Contains reports whether word is in the dictionary.
func (d *Dictionary) Contains(word string) bool {
	_, ok := d.freq[word]
	return ok
}

// Frequency returns the usage count of word.
func (d *Dictionary) Frequency(word string) (int64, bool) {
	f, ok := d.freq[word]
	return f, ok
}

// Len is the number of distinct words.
func (d *Dictionary) Len() int { return len(d.freq) }

// MaxLen is the byte length of the longest word.
func (d *Dictionary) MaxLen() int { return d.maxLen }

func (d *Dictionary) sortByFrequency(words []string) {
	sort.SliceStable(words, func(i, j int) bool {
		fi, fj := d.freq[words[i]], d.freq[words[j]]
		if fi != fj {
			return fi > fj
		}
		return words[i] < words[j]
	})
}

// LoadDictionary reads a dictionary file.
//
// Supported formats:
//
//	JSON object:  {"the": 23135851162, "of": 13151942776}
//	word list:    one "word" or "word count" per line, '#' starts a comment
func LoadDictionary(path string) (*Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dictionary %s: %w", path, err)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") || looksLikeJSON(data) {
		d, err := ParseJSON(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("parse dictionary %s: %w", path, err)
		}
		return d, nil
	}
	d, err := ParseWordList(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse dictionary %s: %w", path, err)
	}
	return d, nil
}

// ParseJSON decodes a {"word": count} frequency object.
func ParseJSON(r io.Reader) (*Dictionary, error) {
	var freq map[string]int64
	if err := json.NewDecoder(r).Decode(&freq); err != nil {
		return nil, err
	}
	return NewDictionary(freq), nil
}

// ParseWordList reads "word [count]" lines.
func ParseWordList(r io.Reader) (*Dictionary, error) {
	d := NewDictionary(nil)
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		freq := int64(1)
		if len(fields) > 1 {
			n, err := strconv.ParseInt(fields[1], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: bad count %q", line, fields[1])
			}
			freq = n
		}
		d.Add(fields[0], freq)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return d, nil
}

func looksLikeJSON(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && trimmed[0] == '{'
}
