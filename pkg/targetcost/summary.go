package targetcost

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

type ClassSummary struct {
	Class  int
	Count  int
	Weight float64
	Cost   float64
}

type Summary struct {
	Blend   float64
	Samples int
	Classes []ClassSummary

	Mass   float64
	Mean   float64
	StdDev float64
}

// Summarize describes the target cost labels would receive at blend factor w.
func Summarize(labels []int, w float64) (Summary, error) {
	cost, err := CreateBalancedTargetCost(labels, w)
	if err != nil {
		return Summary{}, err
	}

	counts := CalculateLabelCounts(labels)
	weights := ClassWeights(counts)

	s := Summary{
		Blend:   w,
		Samples: len(labels),
		Classes: make([]ClassSummary, len(counts)),
	}
	for class, count := range counts {
		s.Classes[class] = ClassSummary{
			Class:  class,
			Count:  count,
			Weight: weights[class],
		}
		if count > 0 {
			s.Classes[class].Cost = (1-w)*1.0 + w*weights[class]
		}
	}

	if len(labels) == 0 {
		return s, nil
	}

	perSample := make([]float64, len(labels))
	for i, label := range labels {
		perSample[i] = cost[i][label]
	}
	s.Mass = floats.Sum(perSample)
	s.Mean, s.StdDev = stat.MeanStdDev(perSample, nil)

	return s, nil
}

func (s Summary) Write(w io.Writer) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(fmt.Sprintf("Target Cost (w=%0.02f)", s.Blend))
	t.AppendHeader(table.Row{"CLASS", "SAMPLES", "SHARE", "WEIGHT", "COST"})
	for _, c := range s.Classes {
		share := 0.0
		if s.Samples > 0 {
			share = 100 * float64(c.Count) / float64(s.Samples)
		}
		if c.Count == 0 {
			t.AppendRow(table.Row{c.Class, 0, fmt.Sprintf("%6.2f%%", share), "", ""})
			continue
		}
		t.AppendRow(table.Row{c.Class, c.Count, fmt.Sprintf("%6.2f%%", share), fmt.Sprintf("%.6f", c.Weight), fmt.Sprintf("%.6f", c.Cost)})
	}
	t.AppendSeparator()
	t.AppendRow(table.Row{"MASS", s.Samples, "", "", fmt.Sprintf("%.4f", s.Mass)})
	t.AppendFooter(table.Row{"", "", "", "MEAN / STDDEV", fmt.Sprintf("%.4f / %.4f", s.Mean, s.StdDev)})
	t.Render()
}
