package metrics

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"gonum.org/v1/gonum/floats"
)

// Metrics summarises a confusion matrix. Percentages are in [0, 100].
type Metrics struct {
	// Confusion[i][j] counts samples of class i predicted as class j.
	Confusion [][]int
	// ConfusionPercent is Confusion normalised by row.
	ConfusionPercent [][]float64

	Accuracy         float64
	BalancedAccuracy float64
	ClassPrecision   []float64
	ClassRecall      []float64
	F1Scores         []float64

	Samples []int
	Errors  int
}

// NewConfusion returns an empty numClasses × numClasses matrix.
func NewConfusion(numClasses int) [][]int {
	c := make([][]int, numClasses)
	for i := range c {
		c[i] = make([]int, numClasses)
	}
	return c
}

// Calculate derives per-class and overall metrics from a confusion matrix.
// Balanced accuracy averages recall over classes that have samples.
func Calculate(confusion [][]int) Metrics {
	numClasses := len(confusion)
	m := Metrics{
		Confusion:        confusion,
		ConfusionPercent: make([][]float64, numClasses),
		ClassPrecision:   make([]float64, numClasses),
		ClassRecall:      make([]float64, numClasses),
		F1Scores:         make([]float64, numClasses),
		Samples:          make([]int, numClasses),
	}

	total, correct := 0, 0
	for i := range numClasses {
		m.ConfusionPercent[i] = make([]float64, numClasses)
		for j := range numClasses {
			m.Samples[i] += confusion[i][j]
		}
		for j := range numClasses {
			if m.Samples[i] > 0 {
				m.ConfusionPercent[i][j] = float64(confusion[i][j]) / float64(m.Samples[i]) * 100
			}
		}
		total += m.Samples[i]
		correct += confusion[i][i]
	}
	m.Errors = total - correct

	recalls := []float64{}
	for i := range numClasses {
		truePositives := confusion[i][i]
		falsePositives := 0
		falseNegatives := 0

		for j := range numClasses {
			if i != j {
				falsePositives += confusion[j][i]
				falseNegatives += confusion[i][j]
			}
		}

		if truePositives+falsePositives > 0 {
			m.ClassPrecision[i] = float64(truePositives) / float64(truePositives+falsePositives) * 100
		}
		if truePositives+falseNegatives > 0 {
			m.ClassRecall[i] = float64(truePositives) / float64(truePositives+falseNegatives) * 100
			recalls = append(recalls, m.ClassRecall[i])
		}
		if m.ClassPrecision[i]+m.ClassRecall[i] > 0 {
			m.F1Scores[i] = 2 * (m.ClassPrecision[i] * m.ClassRecall[i]) /
				(m.ClassPrecision[i] + m.ClassRecall[i])
		}
	}

	if total > 0 {
		m.Accuracy = float64(correct) / float64(total) * 100
	}
	if len(recalls) > 0 {
		m.BalancedAccuracy = floats.Sum(recalls) / float64(len(recalls))
	}

	return m
}

func mean(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	return floats.Sum(v) / float64(len(v))
}

// Write renders the confusion matrix and class metrics. names labels the
// classes and may be shorter than the class count.
func (m Metrics) Write(w io.Writer, title string, names ...string) {
	name := func(i int) string {
		if i < len(names) {
			return names[i]
		}
		return fmt.Sprintf("%d", i)
	}

	header := table.Row{""}
	for i := range m.Confusion {
		header = append(header, name(i))
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(title)
	t.AppendHeader(header)
	for i, row := range m.ConfusionPercent {
		r := table.Row{name(i)}
		for _, v := range row {
			if m.Samples[i] == 0 {
				r = append(r, "")
			} else {
				r = append(r, fmt.Sprintf("%6.2f%%", v))
			}
		}
		t.AppendRow(r)
	}
	t.AppendFooter(table.Row{"ACCURACY", fmt.Sprintf("%0.02f%%", m.Accuracy)})
	t.AppendFooter(table.Row{"BALANCED", fmt.Sprintf("%0.02f%%", m.BalancedAccuracy)})
	t.Render()

	t = table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("Class Metrics")
	t.AppendHeader(table.Row{"CLASS", "PRECISION", "RECALL", "F1 SCORE", "SAMPLES"})
	total := 0
	for i := range m.Confusion {
		t.AppendRow(table.Row{
			name(i),
			fmt.Sprintf("%6.2f%%", m.ClassPrecision[i]),
			fmt.Sprintf("%6.2f%%", m.ClassRecall[i]),
			fmt.Sprintf("%6.2f%%", m.F1Scores[i]),
			fmt.Sprintf("%d", m.Samples[i]),
		})
		total += m.Samples[i]
	}
	t.AppendSeparator()
	t.AppendRow(table.Row{
		"",
		fmt.Sprintf("%6.2f%%", mean(m.ClassPrecision)),
		fmt.Sprintf("%6.2f%%", mean(m.ClassRecall)),
		fmt.Sprintf("%6.2f%%", mean(m.F1Scores)),
		fmt.Sprintf("%d", total),
	})
	t.Render()
}
