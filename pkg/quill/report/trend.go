package report

import (
	"fmt"

	"github.com/cognicore/quill/pkg/quill/trend"
)

// TrendHeaders are the columns of the trend table.
var TrendHeaders = []string{"Metric", "First", "Last", "Change", "Mean", "Slope"}

// TrendRows renders s in trend.Order. Word counts print as integers.
func TrendRows(s trend.Summary) [][]string {
	rows := make([][]string, 0, len(trend.Order))
	for _, name := range trend.Order {
		ser, ok := s.Series[name]
		if !ok {
			continue
		}
		format, change := "%.3f", "%+.3f"
		if name == trend.TotalWords {
			format, change = "%.0f", "%+.0f"
		}
		rows = append(rows, []string{
			name,
			fmt.Sprintf(format, ser.First),
			fmt.Sprintf(format, ser.Last),
			fmt.Sprintf(change, ser.Delta),
			fmt.Sprintf("%.3f", ser.Mean),
			fmt.Sprintf("%+.3f", ser.Slope),
		})
	}
	return rows
}
