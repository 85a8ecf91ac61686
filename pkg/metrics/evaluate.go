package metrics

import (
	"runtime"
	"sync"

	"github.com/jedib0t/go-pretty/v6/progress"
	"github.com/pkg/errors"
)

// Predictor labels a batch of inputs. It must be safe for concurrent use.
type Predictor interface {
	Outputs() int
	PredictLabels(inputs [][]float64) ([]int, error)
}

type chunkResult struct {
	confusion [][]int
	err       error
}

func worker(p Predictor, features [][]float64, labels []int, tracker *progress.Tracker, results chan<- chunkResult, wg *sync.WaitGroup) {
	defer wg.Done()

	confusion := NewConfusion(p.Outputs())
	predicted, err := p.PredictLabels(features)
	if err != nil {
		results <- chunkResult{err: err}
		return
	}
	for i, l := range labels {
		if l < 0 || l >= len(confusion) {
			results <- chunkResult{err: errors.Errorf("label %d outside [0, %d)", l, len(confusion))}
			return
		}
		confusion[l][predicted[i]]++
	}
	if tracker != nil {
		tracker.Increment(int64(len(labels)))
	}
	results <- chunkResult{confusion: confusion}
}

// Evaluate predicts every sample across workers goroutines and returns the
// merged metrics. workers < 1 uses one less than the CPU count. pw may be nil.
func Evaluate(pw progress.Writer, p Predictor, features [][]float64, labels []int, workers int) (Metrics, error) {
	if len(features) != len(labels) {
		return Metrics{}, errors.Errorf("%d feature rows for %d labels", len(features), len(labels))
	}

	confusion := NewConfusion(p.Outputs())
	if len(labels) == 0 {
		return Calculate(confusion), nil
	}

	numWorkers := workers
	if numWorkers < 1 {
		numWorkers = runtime.NumCPU() - 1
	}
	if numWorkers < 1 {
		numWorkers = 1
	}
	if numWorkers > len(labels) {
		numWorkers = len(labels)
	}
	chunkSize := len(labels) / numWorkers

	var tracker *progress.Tracker
	if pw != nil {
		tracker = &progress.Tracker{
			Message: "Evaluating",
			Total:   int64(len(labels)),
			Units:   progress.UnitsDefault,
		}
		pw.AppendTracker(tracker)
		tracker.Start()
		defer tracker.MarkAsDone()
	}

	results := make(chan chunkResult, numWorkers)
	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		start := i * chunkSize
		end := start + chunkSize
		if i == numWorkers-1 {
			end = len(labels)
		}
		wg.Add(1)
		go worker(p, features[start:end], labels[start:end], tracker, results, &wg)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var err error
	for r := range results {
		if r.err != nil {
			if err == nil {
				err = r.err
			}
			continue
		}
		for i := range confusion {
			for j := range confusion[i] {
				confusion[i][j] += r.confusion[i][j]
			}
		}
	}
	if err != nil {
		return Metrics{}, errors.Wrap(err, "failed to evaluate")
	}

	return Calculate(confusion), nil
}
