package network

import "github.com/grexie/tinynet/pkg/targetcost"

func flattenBatchFeatures(features [][]float64, indices []int) []float64 {
	batchSize := len(indices)
	if batchSize == 0 {
		return []float64{}
	}
	featureSize := len(features[0])
	flattened := make([]float64, batchSize*featureSize)

	for i, idx := range indices {
		copy(flattened[i*featureSize:], features[idx])
	}
	return flattened
}

func flattenBatchTargets(labels []int, indices []int, numClasses int, off, on float64) []float64 {
	batchSize := len(indices)
	if batchSize == 0 {
		return []float64{}
	}
	flattened := make([]float64, batchSize*numClasses)

	for i, idx := range indices {
		row := flattened[i*numClasses : (i+1)*numClasses]
		for j := range row {
			row[j] = off
		}
		row[labels[idx]] = on
	}
	return flattened
}

// flattenBatchCost copies the cost rows of the batch. A nil matrix means
// uniform cost and yields all ones.
func flattenBatchCost(cost targetcost.Matrix, indices []int, numClasses int) []float64 {
	flattened := make([]float64, len(indices)*numClasses)

	if cost == nil {
		for i := range flattened {
			flattened[i] = 1
		}
		return flattened
	}

	for i, idx := range indices {
		copy(flattened[i*numClasses:(i+1)*numClasses], cost[idx])
	}
	return flattened
}
