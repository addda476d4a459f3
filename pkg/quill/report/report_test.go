package report

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/quill/pkg/quill"
	"github.com/cognicore/quill/pkg/quill/internalerr"
)

func sampleReport() quill.AuthorReport {
	return quill.AuthorReport{
		RunID:       "01J0000000000000000000000",
		Author:      "Zoë Adams",
		GeneratedAt: time.Date(2024, 6, 3, 14, 5, 9, 0, time.UTC),
		Window:      30,
		Results: []quill.Result{
			{ID: "2024-01-15", FileName: "2024-01-15.txt", TokenCount: 120, UniqueCount: 80,
				TTR: 0.6667, MATTR: 0.71, LexicalDensity: 0.45, DependentClauses: 2, IndependentClauses: 6, TotalClauses: 8, DCR: 0.25},
			{ID: "2024-03-02", FileName: "2024-03-02.txt", TokenCount: 180, UniqueCount: 110,
				TTR: 0.6111, MATTR: 0.74, LexicalDensity: 0.5, DependentClauses: 4, IndependentClauses: 6, TotalClauses: 10, DCR: 0.4},
		},
		Failures: []quill.Failure{
			{ID: "2024-02-01", FileName: "2024-02-01.txt", Err: internalerr.ErrAnnotationFailed},
		},
	}
}

func TestRatio(t *testing.T) {
	assert.Equal(t, "0.25 (25.00%)", Ratio(0.25))
	assert.Equal(t, "0.00 (0.00%)", Ratio(0))
	assert.Equal(t, "1.00 (100.00%)", Ratio(1))
	assert.Equal(t, "0.67 (66.67%)", Ratio(0.66667))
}

func TestRow(t *testing.T) {
	r := sampleReport()
	row := Row(r.Results[0])
	require.Len(t, row, len(Headers))
	assert.Equal(t, []string{
		"2024-01-15", "120", "80", "0.67 (66.67%)", "0.71 (71.00%)",
		"0.45 (45.00%)", "0.25 (25.00%)", "2", "8", "2024-01-15.txt",
	}, row)
	assert.Len(t, Rows(r), 2)
}

func TestTitleAndGeneratedLine(t *testing.T) {
	r := sampleReport()
	assert.Equal(t, "Writing Development Analysis - Zoë Adams", Title(r.Author))
	assert.Equal(t, "Generated on: 2024-06-03 14:05:09", GeneratedLine(r))
}

func TestTrendRows(t *testing.T) {
	rows := TrendRows(sampleReport().Trend())
	require.Len(t, rows, 5)
	assert.Equal(t, []string{"Total Words", "120", "180", "+60", "150.000", "+60.000"}, rows[0])
	assert.Equal(t, "DCR", rows[4][0])
	assert.Equal(t, "+0.150", rows[4][3])
}

func TestTerminalRender(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, false)
	require.NoError(t, term.Write(context.Background(), sampleReport()))

	out := buf.String()
	assert.Contains(t, out, "Writing Development Analysis - Zoë Adams")
	assert.Contains(t, out, "Generated on: 2024-06-03 14:05:09")
	for _, h := range Headers {
		assert.Contains(t, out, h)
	}
	assert.Contains(t, out, "0.40 (40.00%)")
	assert.Contains(t, out, "Trend across 2 samples")
	assert.Contains(t, out, "skipped 2024-02-01")
	assert.Less(t, strings.Index(out, "2024-01-15"), strings.Index(out, "2024-03-02"))
}

func TestTerminalSingleResultHasNoTrend(t *testing.T) {
	r := sampleReport()
	r.Results = r.Results[:1]
	r.Failures = nil
	out := NewTerminal(&bytes.Buffer{}, false).Render(r)
	assert.NotContains(t, out, "Trend across")
	assert.NotContains(t, out, "skipped")
}

func TestPDFWritesFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	p := NewPDF(dir)
	assert.Equal(t, filepath.Join(dir, "zoe-adams_analysis_report.pdf"), p.Path("Zoë Adams"))
	assert.Equal(t, filepath.Join(dir, "author_analysis_report.pdf"), p.Path(""))

	require.NoError(t, p.Write(context.Background(), sampleReport()))
	data, err := os.ReadFile(p.Path("Zoë Adams"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestRenderPDFLongFileName(t *testing.T) {
	r := sampleReport()
	r.Results[0].FileName = strings.Repeat("very-long-file-name-", 10) + ".txt"
	var buf bytes.Buffer
	require.NoError(t, RenderPDF(&buf, r))
	assert.NotZero(t, buf.Len())
}

func TestMulti(t *testing.T) {
	var calls []string
	record := func(name string, err error) Sink {
		return SinkFunc(func(context.Context, quill.AuthorReport) error {
			calls = append(calls, name)
			return err
		})
	}
	boom := errors.New("boom")
	err := Multi(record("a", nil), record("b", boom), record("c", nil)).Write(context.Background(), sampleReport())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"a", "b", "c"}, calls)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls = nil
	err = Multi(record("a", nil)).Write(ctx, sampleReport())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, calls)
}
