// Package report renders an author's analysis as a table, to PDF or a terminal.
package report

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/cognicore/quill/pkg/quill"
)

// Headers are the report columns, in order.
var Headers = []string{
	"Date",
	"Total Words",
	"Unique Words",
	"TTR",
	"MATTR",
	"Lexical Density",
	"DCR",
	"Dependent Clauses",
	"Total Clauses",
	"File Name",
}

// Sink publishes a finished author report.
type Sink interface {
	Write(ctx context.Context, r quill.AuthorReport) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, r quill.AuthorReport) error

// Write implements Sink.
func (f SinkFunc) Write(ctx context.Context, r quill.AuthorReport) error { return f(ctx, r) }

// Multi writes to every sink and joins their errors.
func Multi(sinks ...Sink) Sink {
	return SinkFunc(func(ctx context.Context, r quill.AuthorReport) error {
		var errs []error
		for _, s := range sinks {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := s.Write(ctx, r); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
}

// Ratio formats a proportion as "0.42 (42.00%)".
func Ratio(v float64) string {
	return fmt.Sprintf("%.2f (%.2f%%)", v, v*100)
}

// Row renders one result in Headers order.
func Row(res quill.Result) []string {
	return []string{
		res.ID,
		strconv.Itoa(res.TokenCount),
		strconv.Itoa(res.UniqueCount),
		Ratio(res.TTR),
		Ratio(res.MATTR),
		Ratio(res.LexicalDensity),
		Ratio(res.DCR),
		strconv.Itoa(res.DependentClauses),
		strconv.Itoa(res.TotalClauses),
		res.FileName,
	}
}

// Rows renders every result of r.
func Rows(r quill.AuthorReport) [][]string {
	rows := make([][]string, len(r.Results))
	for i, res := range r.Results {
		rows[i] = Row(res)
	}
	return rows
}

// Title is the heading of an author's report.
func Title(author string) string {
	return "Writing Development Analysis - " + author
}

// GeneratedLine stamps when the report was produced.
func GeneratedLine(r quill.AuthorReport) string {
	return "Generated on: " + r.GeneratedAt.Format("2006-01-02 15:04:05")
}
