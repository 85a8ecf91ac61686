package targetcost

import (
	"github.com/pkg/errors"
)

// DefaultBlend is the blend factor used when none is given: fully balanced.
const DefaultBlend = 1.0

var (
	ErrCostLength = errors.New("target cost length does not match sample count")
	ErrCostWidth  = errors.New("target cost width does not match output count")
)

// Matrix holds one cost vector per training sample, in sample order.
type Matrix [][]float64

// CreateBalancedTargetCost builds a cost vector for every sample in labels.
// Each vector has one entry per class, all equal to
//
//	(1-w) + w * N / (classCount * count[label])
//
// so w=0 gives uniform cost and w=1 gives inverse-frequency cost. Values of w
// outside [0,1] extrapolate linearly.
func CreateBalancedTargetCost(labels []int, w float64) (Matrix, error) {
	counts := CalculateLabelCounts(labels)
	classCount := len(counts)
	total := len(labels)

	cost := make(Matrix, total)
	for i, label := range labels {
		balanced, err := SampleWeightForBalancedTargetCost(classCount, total, counts[label])
		if err != nil {
			return nil, errors.Wrapf(err, "sample %d, label %d", i, label)
		}
		c := (1-w)*1.0 + w*balanced

		row := make([]float64, classCount)
		for j := range row {
			row[j] = c
		}
		cost[i] = row
	}
	return cost, nil
}

// DefaultBalancedTargetCost is CreateBalancedTargetCost with DefaultBlend.
func DefaultBalancedTargetCost(labels []int) (Matrix, error) {
	return CreateBalancedTargetCost(labels, DefaultBlend)
}

// Mass sums, over every sample, the cost entry at the sample's own label.
func (m Matrix) Mass(labels []int) float64 {
	sum := 0.0
	for i, label := range labels {
		sum += m[i][label]
	}
	return sum
}

// Validate checks that m has one row per sample and that every row is as wide
// as the output layer.
func (m Matrix) Validate(samples, outputs int) error {
	if len(m) != samples {
		return errors.Wrapf(ErrCostLength, "%d cost vectors for %d samples", len(m), samples)
	}
	for i, row := range m {
		if len(row) != outputs {
			return errors.Wrapf(ErrCostWidth, "sample %d has %d entries, want %d", i, len(row), outputs)
		}
	}
	return nil
}

// Optional is either Some(matrix) or None. None stands for uniform cost.
type Optional struct {
	matrix Matrix
	ok     bool
}

func Some(m Matrix) Optional {
	return Optional{matrix: m, ok: true}
}

func None() Optional {
	return Optional{}
}

func (o Optional) Get() (Matrix, bool) {
	return o.matrix, o.ok
}

func (o Optional) IsSome() bool {
	return o.ok
}
