package targetcost

import "fmt"

// CalculateLabelCounts returns a dense table indexed by label value. Labels
// that never occur below the largest observed label are present as 0.
func CalculateLabelCounts(labels []int) []int {
	max := -1
	for _, label := range labels {
		if label < 0 {
			panic(fmt.Sprintf("targetcost: negative label %d", label))
		}
		if label > max {
			max = label
		}
	}

	counts := make([]int, max+1)
	for _, label := range labels {
		counts[label]++
	}
	return counts
}
