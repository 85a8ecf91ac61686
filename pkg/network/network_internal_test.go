package network

import (
	"testing"

	"github.com/grexie/tinynet/pkg/targetcost"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorgonia.org/tensor"
)

func (n *Network) clone() *Network {
	c := *n
	c.sizes = n.Sizes()
	c.weights = make([]tensor.Tensor, len(n.weights))
	c.biases = make([]tensor.Tensor, len(n.biases))
	for i := range n.weights {
		c.weights[i] = n.weights[i].Clone().(tensor.Tensor)
		c.biases[i] = n.biases[i].Clone().(tensor.Tensor)
	}
	return &c
}

func params(n *Network) []float64 {
	out := []float64{}
	for i := range n.weights {
		out = append(out, n.weights[i].Data().([]float64)...)
		out = append(out, n.biases[i].Data().([]float64)...)
	}
	return out
}

func TestFlattenBatchFeatures(t *testing.T) {
	features := [][]float64{{1, 2}, {3, 4}, {5, 6}}
	assert.Equal(t, []float64{5, 6, 1, 2}, flattenBatchFeatures(features, []int{2, 0}))
	assert.Empty(t, flattenBatchFeatures(features, nil))
}

func TestFlattenBatchTargets(t *testing.T) {
	labels := []int{0, 2, 1}
	assert.Equal(t,
		[]float64{-0.8, -0.8, 0.8, -0.8, 0.8, -0.8},
		flattenBatchTargets(labels, []int{1, 2}, 3, -0.8, 0.8))
}

func TestFlattenBatchCost(t *testing.T) {
	assert.Equal(t, []float64{1, 1, 1, 1}, flattenBatchCost(nil, []int{0, 1}, 2))

	cost := targetcost.Matrix{{1, 1}, {2, 2}, {3, 3}}
	assert.Equal(t, []float64{3, 3, 1, 1}, flattenBatchCost(cost, []int{2, 0}, 2))
}

func TestNewRejectsBadSizes(t *testing.T) {
	_, err := New([]int{3})
	assert.Error(t, err)
	_, err = New([]int{3, 0, 2})
	assert.Error(t, err)
}

func TestTargets(t *testing.T) {
	n, err := New([]int{1, 2})
	require.NoError(t, err)
	off, on := n.Targets()
	assert.Equal(t, -0.8, off)
	assert.Equal(t, 0.8, on)

	n, err = New([]int{1, 2}, WithActivation(Sigmoid))
	require.NoError(t, err)
	off, on = n.Targets()
	assert.Equal(t, 0.1, off)
	assert.Equal(t, 0.9, on)

	n, err = New([]int{1, 2}, WithLoss(CrossEntropy{}))
	require.NoError(t, err)
	off, on = n.Targets()
	assert.Equal(t, 0.0, off)
	assert.Equal(t, 1.0, on)
}

func TestValidate(t *testing.T) {
	n, err := New([]int{2, 3, 2})
	require.NoError(t, err)

	features := [][]float64{{0, 1}, {1, 0}, {1, 1}}
	labels := []int{0, 1, 1}
	good := TrainOptions{Epochs: 1, BatchSize: 2}
	require.NoError(t, n.validate(features, labels, good))

	tests := []struct {
		description string
		features    [][]float64
		labels      []int
		opts        TrainOptions
	}{
		{"length mismatch", features, labels[:2], good},
		{"empty", [][]float64{}, []int{}, good},
		{"no epochs", features, labels, TrainOptions{BatchSize: 2}},
		{"zero batch", features, labels, TrainOptions{Epochs: 1}},
		{"batch too large", features, labels, TrainOptions{Epochs: 1, BatchSize: 4}},
		{"feature width", [][]float64{{0}, {1}, {1}}, labels, good},
		{"label range", features, []int{0, 2, 1}, good},
		{"negative label", features, []int{0, -1, 1}, good},
	}
	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			assert.Error(t, n.validate(tt.features, tt.labels, tt.opts))
		})
	}
}

func TestTrainRejectsBadCost(t *testing.T) {
	n, err := New([]int{1, 2})
	require.NoError(t, err)

	features := [][]float64{{0}, {1}}
	labels := []int{0, 1}

	_, err = n.Train(features, labels, TrainOptions{
		Epochs:     1,
		BatchSize:  1,
		TargetCost: targetcost.Some(targetcost.Matrix{{1, 1}}),
	})
	assert.ErrorIs(t, err, targetcost.ErrCostLength)

	_, err = n.Train(features, labels, TrainOptions{
		Epochs:     1,
		BatchSize:  1,
		TargetCost: targetcost.Some(targetcost.Matrix{{1, 1}, {1}}),
	})
	assert.ErrorIs(t, err, targetcost.ErrCostWidth)
}

func TestUniformCostMatchesNone(t *testing.T) {
	features := [][]float64{{0, 0}, {0, 1}, {1, 0}, {1, 1}, {0, 1}, {1, 0}}
	labels := []int{0, 1, 1, 0, 1, 1}

	a, err := New([]int{2, 3, 2}, WithOptimizer(Optimizer{Kind: SGD, LearnRate: 0.1}))
	require.NoError(t, err)
	b := a.clone()

	opts := TrainOptions{Epochs: 3, BatchSize: 2}
	resA, err := a.Train(features, labels, opts)
	require.NoError(t, err)

	ones, err := targetcost.CreateBalancedTargetCost(labels, 0)
	require.NoError(t, err)
	opts.TargetCost = targetcost.Some(ones)
	resB, err := b.Train(features, labels, opts)
	require.NoError(t, err)

	assert.InDeltaSlice(t, params(a), params(b), 1e-12)
	assert.InDeltaSlice(t, resA.EpochLoss, resB.EpochLoss, 1e-12)
	assert.Equal(t, 9, resA.Batches)
}

func TestZeroCostLeavesWeights(t *testing.T) {
	features := [][]float64{{0}, {1}, {1}, {0}}
	labels := []int{0, 1, 1, 0}

	n, err := New([]int{1, 2}, WithOptimizer(Optimizer{Kind: SGD, LearnRate: 0.5}))
	require.NoError(t, err)
	before := params(n)

	zero := make(targetcost.Matrix, len(labels))
	for i := range zero {
		zero[i] = []float64{0, 0}
	}
	res, err := n.Train(features, labels, TrainOptions{
		Epochs:     2,
		BatchSize:  2,
		TargetCost: targetcost.Some(zero),
	})
	require.NoError(t, err)

	assert.InDeltaSlice(t, before, params(n), 1e-12)
	for _, l := range res.EpochLoss {
		assert.Zero(t, l)
	}
}

func TestParse(t *testing.T) {
	a, err := ParseActivation("Mish")
	require.NoError(t, err)
	assert.Equal(t, Mish, a)
	assert.Equal(t, "mish", a.String())
	_, err = ParseActivation("softsign")
	assert.Error(t, err)

	l, err := ParseLoss("ce")
	require.NoError(t, err)
	assert.Equal(t, "crossentropy", l.String())
	_, err = ParseLoss("hinge")
	assert.Error(t, err)

	k, err := ParseOptimizerKind("ADAM")
	require.NoError(t, err)
	assert.Equal(t, Adam, k)
	_, err = ParseOptimizerKind("lbfgs")
	assert.Error(t, err)
}

func TestSolvers(t *testing.T) {
	for _, k := range []OptimizerKind{Adagrad, Adam, RMSProp, Momentum, SGD} {
		s, err := Optimizer{Kind: k, LearnRate: 0.01, L2Penalty: 0.001, Clip: 5}.solver()
		require.NoError(t, err, k)
		assert.NotNil(t, s, k)
	}
	_, err := Optimizer{Kind: "lbfgs"}.solver()
	assert.Error(t, err)
}
