package corpus

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"

	"github.com/cognicore/quill/internal/logger"
	"github.com/cognicore/quill/pkg/quill/internalerr"
)

// DefaultPattern selects writing samples inside an author folder.
const DefaultPattern = "*.txt"

// MaxDocumentBytes is the largest sample read; bigger files are unreadable.
const MaxDocumentBytes = 8 * 1024 * 1024

// Document is one dated writing sample.
type Document struct {
	// ID is the file base name without extension, typically a date.
	ID       string
	FileName string
	Path     string
	Text     string
	// Err is set when the sample could not be read; Text is then empty.
	Err error
}

// Authors lists the immediate subdirectories of root, sorted by name.
// Each subdirectory is one author.
func Authors(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("list authors in %s: %w", root, err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			out = append(out, e.Name())
		}
	}
	sort.Strings(out)
	return out, nil
}

// Load reads every file in dir matching pattern, sorted by file name.
//
// Unreadable files are returned with Err set instead of failing the whole
// folder. HTML samples are reduced to their visible text, and non-UTF-8 text
// is decoded using a sniffed charset.
func Load(ctx context.Context, dir, pattern string) ([]Document, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("%w: bad sample pattern %q", internalerr.ErrInvalidInput, pattern)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("open author folder %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", internalerr.ErrInvalidInput, dir)
	}
	matches, err := doublestar.Glob(os.DirFS(dir), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("glob %q in %s: %w", pattern, dir, err)
	}
	sort.Strings(matches)

	log := logger.FromContext(ctx)
	docs := make([]Document, 0, len(matches))
	for _, rel := range matches {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path := filepath.Join(dir, filepath.FromSlash(rel))
		doc := Document{
			ID:       strings.TrimSuffix(filepath.Base(rel), filepath.Ext(rel)),
			FileName: filepath.Base(rel),
			Path:     path,
		}
		text, err := ReadText(path)
		if err != nil {
			log.Warn("Skipping unreadable sample", "path", path, "error", err)
			doc.Err = err
		} else {
			doc.Text = text
		}
		docs = append(docs, doc)
	}
	if len(docs) == 0 {
		log.Warn("No writing samples found", "dir", dir, "pattern", pattern)
	}
	return docs, nil
}

// ReadText reads one sample and returns its text content.
func ReadText(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", internalerr.ErrDocumentUnreadable, err)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, MaxDocumentBytes+1))
	if err != nil {
		return "", fmt.Errorf("%w: read %s: %v", internalerr.ErrDocumentUnreadable, path, err)
	}
	if len(data) > MaxDocumentBytes {
		return "", fmt.Errorf("%w: %s exceeds %d bytes", internalerr.ErrDocumentUnreadable, path, MaxDocumentBytes)
	}
	return DecodeText(data)
}

// DecodeText turns raw sample bytes into text.
func DecodeText(data []byte) (string, error) {
	if len(data) == 0 {
		return "", nil
	}
	mt := mimetype.Detect(data)
	if mt.Is("text/html") {
		return htmlText(data)
	}
	if utf8.Valid(data) {
		return string(data), nil
	}
	enc, _, _ := charset.DetermineEncoding(data, mt.String())
	out, err := io.ReadAll(transform.NewReader(bytes.NewReader(data), enc.NewDecoder()))
	if err != nil {
		return "", fmt.Errorf("%w: decode text: %v", internalerr.ErrDocumentUnreadable, err)
	}
	return string(out), nil
}

// skipped elements never carry prose
var skipElements = map[string]struct{}{
	"script": {}, "style": {}, "noscript": {}, "head": {}, "template": {},
}

// block elements end a run of text
var blockElements = map[string]struct{}{
	"p": {}, "div": {}, "br": {}, "li": {}, "h1": {}, "h2": {}, "h3": {},
	"h4": {}, "h5": {}, "h6": {}, "tr": {}, "blockquote": {}, "section": {},
	"article": {},
}

func htmlText(data []byte) (string, error) {
	r, err := charset.NewReader(bytes.NewReader(data), "text/html")
	if err != nil {
		return "", fmt.Errorf("%w: html charset: %v", internalerr.ErrDocumentUnreadable, err)
	}
	root, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("%w: parse html: %v", internalerr.ErrDocumentUnreadable, err)
	}
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if _, skip := skipElements[n.Data]; skip {
				return
			}
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode {
			if _, block := blockElements[n.Data]; block {
				b.WriteString("\n")
			}
		}
	}
	walk(root)
	return strings.TrimSpace(b.String()), nil
}
