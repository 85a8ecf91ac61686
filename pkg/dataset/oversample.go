package dataset

import (
	"math/rand/v2"

	"github.com/jedib0t/go-pretty/v6/progress"
)

// Oversample balances s by adding noisy copies of minority samples until every
// observed class has as many samples as the largest one. Each added feature is
// scaled by a random factor in [1-noise, 1+noise]. pw and r may be nil.
func Oversample(pw progress.Writer, s Set, noise float64, r *rand.Rand) Set {
	intn := rand.IntN
	float := rand.Float64
	if r != nil {
		intn = r.IntN
		float = r.Float64
	}

	// Group samples by class
	classes := []int{}
	classSamples := make(map[int][]int)
	for i, l := range s.Labels {
		if _, ok := classSamples[l]; !ok {
			classes = append(classes, l)
		}
		classSamples[l] = append(classSamples[l], i)
	}

	majoritySize := 0
	for _, samples := range classSamples {
		if len(samples) > majoritySize {
			majoritySize = len(samples)
		}
	}

	var tracker *progress.Tracker
	if pw != nil {
		tracker = &progress.Tracker{
			Message: "Oversampling",
			Total:   int64(majoritySize*len(classes) - s.Len()),
			Units:   progress.UnitsDefault,
		}
		pw.AppendTracker(tracker)
		tracker.Start()
		defer tracker.MarkAsDone()
	}

	out := Set{
		Features: make([][]float64, 0, majoritySize*len(classes)),
		Labels:   make([]int, 0, majoritySize*len(classes)),
	}

	for _, class := range classes {
		samples := classSamples[class]

		for _, idx := range samples {
			out.append(s.Features[idx], class)
		}

		for range majoritySize - len(samples) {
			originalIdx := samples[intn(len(samples))]

			augmented := make([]float64, len(s.Features[originalIdx]))
			copy(augmented, s.Features[originalIdx])
			for j := range augmented {
				augmented[j] *= 1 + (float()*2-1)*noise
			}

			out.append(augmented, class)
			if tracker != nil {
				tracker.Increment(1)
			}
		}
	}

	return out
}
