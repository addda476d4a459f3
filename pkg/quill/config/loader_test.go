package config

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cognicore/quill/pkg/quill/annotate/annotatetest"
	"github.com/cognicore/quill/pkg/quill/corpus"
	"github.com/cognicore/quill/pkg/quill/internalerr"
)

func TestLoaderRequiresAnnotator(t *testing.T) {
	l := &Loader{Config: Default()}
	_, err := l.Load(context.Background())
	if !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Fatalf("Expected ErrInvalidConfig, got %v", err)
	}
}

func TestLoaderBuildsComponents(t *testing.T) {
	tmpDir := t.TempDir()
	dictPath := filepath.Join(tmpDir, "words.txt")
	if err := os.WriteFile(dictPath, []byte("the 100\ncat 10\nsat 5\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	cfg.Spelling.Dictionary = dictPath
	cfg.Store.Path = filepath.Join(tmpDir, "db", "quill.db")
	cfg.Report.Dir = filepath.Join(tmpDir, "reports")
	cfg.Report.Formats = []string{FormatTerminal}

	var out bytes.Buffer
	l := &Loader{Config: cfg, Annotator: annotatetest.Naive(), Stdout: &out}
	comp, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	defer comp.Close()

	if comp.Checker == nil || !comp.Checker.Known("cat") {
		t.Fatal("Expected dictionary-backed checker")
	}
	if got := comp.Filter.Filter("The cat zzzq sat."); got != "the cat sat." {
		t.Errorf("Unexpected filter output %q", got)
	}
	if comp.Store == nil {
		t.Fatal("Expected sqlite store")
	}

	ctx := context.Background()
	rep, err := comp.Quill.AnalyzeAuthor(ctx, "ana", []corpus.Document{{ID: "2024-01-01", Text: "The cat sat."}})
	if err != nil {
		t.Fatalf("AnalyzeAuthor failed: %v", err)
	}
	if err := comp.Sink.Write(ctx, rep); err != nil {
		t.Fatalf("Sink failed: %v", err)
	}
	if !strings.Contains(out.String(), "Writing Development Analysis - ana") {
		t.Errorf("Expected terminal report, got %q", out.String())
	}

	hist, err := comp.Store.History(ctx, "ana")
	if err != nil {
		t.Fatal(err)
	}
	if len(hist) != 1 || hist[0].TokenCount != 3 {
		t.Errorf("Unexpected history %+v", hist)
	}
}

func TestLoaderAcceptAll(t *testing.T) {
	cfg := Default()
	cfg.Spelling.AcceptAll = true
	l := &Loader{Config: cfg, Annotator: annotatetest.Naive(), Stdout: &bytes.Buffer{}}
	comp, err := l.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer comp.Close()
	if comp.Checker != nil {
		t.Error("Expected no checker")
	}
	if comp.Store != nil {
		t.Error("Expected no store")
	}
	if got := comp.Filter.Filter("Zorblax frobs."); got != "zorblax frobs." {
		t.Errorf("Unexpected filter output %q", got)
	}
}

func TestLoaderDefaultsToBuiltinDictionary(t *testing.T) {
	l := &Loader{Config: Default(), Annotator: annotatetest.Naive(), Stdout: &bytes.Buffer{}}
	comp, err := l.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer comp.Close()
	if comp.Checker == nil {
		t.Fatal("Expected builtin checker")
	}
	if got := comp.Filter.Filter("Zorblax frobs the cats. They walked home."); got != "the cats. they walked home." {
		t.Errorf("Unexpected filter output %q", got)
	}
}

func TestLoaderBadDictionary(t *testing.T) {
	cfg := Default()
	cfg.Spelling.Dictionary = filepath.Join(t.TempDir(), "missing.txt")
	l := &Loader{Config: cfg, Annotator: annotatetest.Naive()}
	if _, err := l.Load(context.Background()); err == nil {
		t.Fatal("Expected error for missing dictionary")
	}
}

func TestOpenStoreRequiresPath(t *testing.T) {
	l := &Loader{Config: Default()}
	if _, err := l.OpenStore(context.Background()); !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Fatalf("Expected ErrInvalidConfig, got %v", err)
	}
}
