package report

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gosimple/slug"
	"github.com/jung-kurt/gofpdf"

	"github.com/cognicore/quill/internal/logger"
	"github.com/cognicore/quill/pkg/quill"
	"github.com/cognicore/quill/pkg/quill/trend"
)

// column widths in mm; they fill an A4 landscape page with 10mm margins
var pdfWidths = []float64{26, 20, 22, 27, 27, 30, 27, 26, 22, 50}

// PDF writes one report file per author into Dir.
type PDF struct {
	Dir string
}

// NewPDF creates a PDF sink writing into dir.
func NewPDF(dir string) *PDF {
	return &PDF{Dir: dir}
}

// Path is where the report for author is written.
func (p *PDF) Path(author string) string {
	name := slug.Make(author)
	if name == "" {
		name = "author"
	}
	return filepath.Join(p.Dir, name+"_analysis_report.pdf")
}

// Write implements Sink.
func (p *PDF) Write(ctx context.Context, r quill.AuthorReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(p.Dir, 0o755); err != nil {
		return fmt.Errorf("report dir: %w", err)
	}
	path := p.Path(r.Author)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := RenderPDF(f, r); err != nil {
		f.Close()
		return fmt.Errorf("render %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("Report written", "author", r.Author, "path", path)
	return nil
}

// RenderPDF lays out r as a landscape A4 document.
func RenderPDF(w io.Writer, r quill.AuthorReport) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(Title(r.Author), true)
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(Title(r.Author)), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, GeneratedLine(r), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(220, 220, 220)
	for i, h := range Headers {
		pdf.CellFormat(pdfWidths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	for _, row := range Rows(r) {
		for i, cell := range row {
			align := "C"
			if i == len(row)-1 {
				align = "L"
			}
			pdf.CellFormat(pdfWidths[i], 6, tr(fit(pdf, cell, pdfWidths[i])), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	if len(r.Results) > 1 {
		writeTrend(pdf, r.Trend())
	}
	if len(r.Failures) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(0, 7, "Skipped documents", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 8)
		for _, f := range r.Failures {
			pdf.MultiCell(0, 5, tr(fmt.Sprintf("%s: %v", f.ID, f.Err)), "", "L", false)
		}
	}

	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}

func writeTrend(pdf *gofpdf.Fpdf, s trend.Summary) {
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 7, fmt.Sprintf("Trend across %d samples", s.Samples), "", 1, "L", false, 0, "")

	widths := []float64{40, 30, 30, 30, 30, 30}
	pdf.SetFont("Helvetica", "B", 8)
	for i, h := range TrendHeaders {
		pdf.CellFormat(widths[i], 6, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 8)
	for _, row := range TrendRows(s) {
		for i, cell := range row {
			pdf.CellFormat(widths[i], 6, cell, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}
}

// fit truncates s with "..." until it fits width w at the current font.
func fit(pdf *gofpdf.Fpdf, s string, w float64) string {
	const pad = 2
	if pdf.GetStringWidth(s) <= w-pad {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && pdf.GetStringWidth(string(r)+"...") > w-pad {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}
