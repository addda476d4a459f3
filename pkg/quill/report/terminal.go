package report

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/cognicore/quill/pkg/quill"
)

// Styles holds the terminal report styles.
type Styles struct {
	Title  lipgloss.Style
	Muted  lipgloss.Style
	Header lipgloss.Style
	Cell   lipgloss.Style
	Border lipgloss.Style
	Error  lipgloss.Style
}

// NewStyles returns colored styles, or plain ones when enabled is false.
func NewStyles(enabled bool) Styles {
	if !enabled {
		plain := lipgloss.NewStyle()
		return Styles{Title: plain, Muted: plain, Header: plain.Padding(0, 1), Cell: plain.Padding(0, 1), Border: plain, Error: plain}
	}
	return Styles{
		Title:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")),
		Muted:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1),
		Cell:   lipgloss.NewStyle().Padding(0, 1),
		Border: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

// Terminal prints reports as text tables.
type Terminal struct {
	Out    io.Writer
	Styles Styles
}

// NewTerminal creates a terminal sink. Color is off for non-interactive output.
func NewTerminal(out io.Writer, color bool) *Terminal {
	return &Terminal{Out: out, Styles: NewStyles(color)}
}

// Write implements Sink.
func (t *Terminal) Write(ctx context.Context, r quill.AuthorReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := io.WriteString(t.Out, t.Render(r))
	return err
}

// Render returns the report as text.
func (t *Terminal) Render(r quill.AuthorReport) string {
	s := t.Styles
	out := s.Title.Render(Title(r.Author)) + "\n"
	if !r.GeneratedAt.IsZero() {
		out += s.Muted.Render(GeneratedLine(r)) + "\n"
	}
	out += t.table(Headers, Rows(r)) + "\n"

	if len(r.Results) > 1 {
		sum := r.Trend()
		out += "\n" + s.Title.Render(fmt.Sprintf("Trend across %d samples", sum.Samples)) + "\n"
		out += t.table(TrendHeaders, TrendRows(sum)) + "\n"
	}
	for _, f := range r.Failures {
		out += s.Error.Render(fmt.Sprintf("skipped %s: %v", f.ID, f.Err)) + "\n"
	}
	return out
}

func (t *Terminal) table(headers []string, rows [][]string) string {
	s := t.Styles
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.Border).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.Header
			}
			return s.Cell
		})
	return tbl.Render()
}
