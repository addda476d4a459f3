package trend

// Metric names used in summaries.
const (
	TotalWords     = "Total Words"
	TTR            = "TTR"
	MATTR          = "MATTR"
	LexicalDensity = "Lexical Density"
	DCR            = "DCR"
)

// Order is the presentation order of summarized metrics.
var Order = []string{TotalWords, TTR, MATTR, LexicalDensity, DCR}

// Sample is one document's metrics in chronological position.
type Sample struct {
	TotalWords     int
	TTR            float64
	MATTR          float64
	LexicalDensity float64
	DCR            float64
}

// Series summarizes one metric across an author's samples.
type Series struct {
	Metric string
	First  float64
	Last   float64
	Delta  float64
	Mean   float64
	// Slope is the least-squares change per sample.
	Slope float64
}

// Summary is an author's longitudinal profile.
type Summary struct {
	Samples int
	Series  map[string]Series
}

// Get returns the series for metric, zero when absent.
func (s Summary) Get(metric string) Series {
	return s.Series[metric]
}

// Summarize computes first/last/delta/mean/slope for every metric.
// Samples are taken in the given order.
func Summarize(samples []Sample) Summary {
	sum := Summary{Samples: len(samples), Series: make(map[string]Series, len(Order))}
	if len(samples) == 0 {
		return sum
	}
	columns := map[string][]float64{}
	for _, s := range samples {
		columns[TotalWords] = append(columns[TotalWords], float64(s.TotalWords))
		columns[TTR] = append(columns[TTR], s.TTR)
		columns[MATTR] = append(columns[MATTR], s.MATTR)
		columns[LexicalDensity] = append(columns[LexicalDensity], s.LexicalDensity)
		columns[DCR] = append(columns[DCR], s.DCR)
	}
	for _, name := range Order {
		sum.Series[name] = series(name, columns[name])
	}
	return sum
}

func series(name string, ys []float64) Series {
	n := len(ys)
	s := Series{Metric: name, First: ys[0], Last: ys[n-1]}
	s.Delta = s.Last - s.First

	var total float64
	for _, y := range ys {
		total += y
	}
	s.Mean = total / float64(n)
	s.Slope = slope(ys, s.Mean)
	return s
}

// slope of the least-squares line through (i, ys[i]).
func slope(ys []float64, meanY float64) float64 {
	n := len(ys)
	if n < 2 {
		return 0
	}
	meanX := float64(n-1) / 2
	var num, den float64
	for i, y := range ys {
		dx := float64(i) - meanX
		num += dx * (y - meanY)
		den += dx * dx
	}
	return num / den
}
