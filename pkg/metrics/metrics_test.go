package metrics_test

import (
	"bytes"
	"sync/atomic"
	"testing"

	"github.com/grexie/tinynet/pkg/metrics"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate(t *testing.T) {
	m := metrics.Calculate([][]int{
		{90, 10},
		{30, 70},
	})

	assert.Equal(t, []int{100, 100}, m.Samples)
	assert.Equal(t, 40, m.Errors)
	assert.InDelta(t, 80, m.Accuracy, 1e-9)
	assert.InDelta(t, 80, m.BalancedAccuracy, 1e-9)
	assert.InDelta(t, 90, m.ClassRecall[0], 1e-9)
	assert.InDelta(t, 70, m.ClassRecall[1], 1e-9)
	assert.InDelta(t, 75, m.ClassPrecision[0], 1e-9)
	assert.InDelta(t, 87.5, m.ClassPrecision[1], 1e-9)
	assert.InDelta(t, 2*75*90/165.0, m.F1Scores[0], 1e-9)
	assert.InDelta(t, 30, m.ConfusionPercent[1][0], 1e-9)
}

func TestBalancedAccuracyExposesMajorityGuessing(t *testing.T) {
	m := metrics.Calculate([][]int{
		{0, 100},
		{0, 900},
	})
	assert.InDelta(t, 90, m.Accuracy, 1e-9)
	assert.InDelta(t, 50, m.BalancedAccuracy, 1e-9)
	assert.Zero(t, m.F1Scores[0])
}

func TestCalculateSkipsEmptyClasses(t *testing.T) {
	m := metrics.Calculate([][]int{
		{5, 0, 0},
		{0, 0, 0},
		{0, 0, 5},
	})
	assert.InDelta(t, 100, m.BalancedAccuracy, 1e-9)
	assert.Zero(t, m.ConfusionPercent[1][1])
}

func TestWrite(t *testing.T) {
	m := metrics.Calculate([][]int{{3, 1}, {0, 4}})
	var buf bytes.Buffer
	m.Write(&buf, "Balanced", "ZERO")

	out := buf.String()
	assert.Contains(t, out, "Balanced")
	assert.Contains(t, out, "ZERO")
	assert.Contains(t, out, "BALANCED")
	assert.Contains(t, out, "87.50%")
}

// parity labels inputs by whether their first feature is positive.
type parity struct {
	calls int32
	fail  bool
}

func (p *parity) Outputs() int { return 2 }

func (p *parity) PredictLabels(inputs [][]float64) ([]int, error) {
	atomic.AddInt32(&p.calls, 1)
	if p.fail {
		return nil, errors.New("boom")
	}
	out := make([]int, len(inputs))
	for i, in := range inputs {
		if in[0] > 0 {
			out[i] = 1
		}
	}
	return out, nil
}

func TestEvaluate(t *testing.T) {
	features := [][]float64{}
	labels := []int{}
	for i := range 103 {
		v := float64(i%2) - 0.5
		features = append(features, []float64{v})
		if i%5 == 0 {
			labels = append(labels, 1-i%2)
		} else {
			labels = append(labels, i%2)
		}
	}

	p := &parity{}
	m, err := metrics.Evaluate(nil, p, features, labels, 4)
	require.NoError(t, err)
	assert.EqualValues(t, 4, atomic.LoadInt32(&p.calls))
	assert.Equal(t, 21, m.Errors)
	assert.Equal(t, 103, m.Samples[0]+m.Samples[1])

	single, err := metrics.Evaluate(nil, &parity{}, features, labels, 1)
	require.NoError(t, err)
	assert.Equal(t, single.Confusion, m.Confusion)
}

func TestEvaluateErrors(t *testing.T) {
	_, err := metrics.Evaluate(nil, &parity{}, [][]float64{{1}}, []int{}, 1)
	assert.Error(t, err)

	_, err = metrics.Evaluate(nil, &parity{fail: true}, [][]float64{{1}, {2}}, []int{0, 1}, 2)
	assert.Error(t, err)

	_, err = metrics.Evaluate(nil, &parity{}, [][]float64{{1}}, []int{5}, 1)
	assert.Error(t, err)

	m, err := metrics.Evaluate(nil, &parity{}, nil, nil, 0)
	require.NoError(t, err)
	assert.Zero(t, m.Accuracy)
}
