package targetcost

import (
	"github.com/pkg/errors"
)

var (
	ErrZeroCountClass = errors.New("zero-count class")
	ErrNoClasses      = errors.New("class count must be at least 1")
)

// SampleWeightForBalancedTargetCost returns the weight that makes
// weight * classSampleCount equal to totalSamples / classCount, so every class
// contributes the same total cost.
func SampleWeightForBalancedTargetCost(classCount, totalSamples, classSampleCount int) (float64, error) {
	if classCount < 1 {
		return 0, errors.Wrapf(ErrNoClasses, "got %d", classCount)
	}
	if classSampleCount == 0 {
		return 0, errors.Wrapf(ErrZeroCountClass, "%d classes, %d samples", classCount, totalSamples)
	}
	return float64(totalSamples) / (float64(classCount) * float64(classSampleCount)), nil
}

// ClassWeights returns the balanced weight of every class in counts. Classes
// without samples get a weight of 0.
func ClassWeights(counts []int) []float64 {
	total := 0
	for _, count := range counts {
		total += count
	}

	weights := make([]float64, len(counts))
	for class, count := range counts {
		if count == 0 {
			continue
		}
		// count > 0 and len(counts) > 0 here, so this cannot fail
		weights[class], _ = SampleWeightForBalancedTargetCost(len(counts), total, count)
	}
	return weights
}
