package config

import (
	"log"
	"math"
)

func BoundEpochs(v int) int {
	return int(math.Max(1, math.Min(10000, float64(v)))) // Default: 50
}

func BoundBatchSize(v int) int {
	return int(math.Max(1, math.Min(65536, float64(v)))) // Default: 50
}

func BoundHiddenSize(v int) int {
	return int(math.Max(0, math.Min(1024, float64(v)))) // Default: 4
}

func BoundSamples(v int) int {
	return int(math.Max(1, math.Min(10_000_000, float64(v)))) // Default: 2000
}

// BoundWorkers leaves 0 alone; it means one less than the CPU count.
func BoundWorkers(v int) int {
	return int(math.Max(0, math.Min(256, float64(v))))
}

func BoundLearnRate(v float64) float64 {
	return math.Max(1e-6, math.Min(10, v)) // Default: 0.1
}

func BoundL2Penalty(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func BoundNoise(v float64) float64 {
	return math.Max(0, math.Min(0.5, v)) // Default: 0.01
}

// BoundBalanceWeight does not clamp. Values outside [0, 1] extrapolate the
// blend and are only reported.
func BoundBalanceWeight(v float64) float64 {
	if v < 0 || v > 1 {
		log.Printf("TINYNET_BALANCE_WEIGHT %.4f is outside [0, 1], extrapolating", v)
	}
	return v
}
