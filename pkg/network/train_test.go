package network_test

import (
	"math/rand/v2"
	"testing"

	"github.com/grexie/tinynet/pkg/dataset"
	"github.com/grexie/tinynet/pkg/network"
	"github.com/grexie/tinynet/pkg/targetcost"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func errorsOn(t *testing.T, n *network.Network, s dataset.Set) int {
	predicted, err := n.PredictLabels(s.Features)
	require.NoError(t, err)
	errs := 0
	for i, p := range predicted {
		if p != s.Labels[i] {
			errs++
		}
	}
	return errs
}

func train(t *testing.T, sizes []int, train dataset.Set, cost targetcost.Optional, epochs int) *network.Network {
	n, err := network.New(sizes,
		network.WithOptimizer(network.Optimizer{Kind: network.Adagrad, LearnRate: 0.1}))
	require.NoError(t, err)

	res, err := n.Train(train.Features, train.Labels, network.TrainOptions{
		Epochs:     epochs,
		BatchSize:  50,
		Shuffle:    true,
		TargetCost: cost,
		Rand:       rand.New(rand.NewPCG(42, 1)),
	})
	require.NoError(t, err)
	require.Len(t, res.EpochLoss, epochs)
	return n
}

func TestBalancedCostLearnsIdentity(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping training in short mode")
	}

	src := dataset.NewSource(1)
	trainSet := dataset.UnbalancedIdentity(2000, 0.9, 0.6, 0.9, src)
	testSet := dataset.BalancedIdentity(1000, src)

	uniform := train(t, []int{1, 2}, trainSet, targetcost.None(), 50)

	cost, err := targetcost.CreateBalancedTargetCost(trainSet.Labels, 1)
	require.NoError(t, err)
	balanced := train(t, []int{1, 2}, trainSet, targetcost.Some(cost), 50)

	uniformErrs := errorsOn(t, uniform, testSet)
	balancedErrs := errorsOn(t, balanced, testSet)
	t.Logf("uniform errors %d, balanced errors %d", uniformErrs, balancedErrs)

	assert.Zero(t, balancedErrs)
	assert.Greater(t, uniformErrs, 300)
}

func TestBalancedCostHelpsXOR(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping training in short mode")
	}

	src := dataset.NewSource(2)
	trainSet := dataset.UnbalancedXOR(2000, 0.9, 0.01, src)
	testSet := dataset.BalancedXOR(1000, src)

	uniform := train(t, []int{2, 4, 2}, trainSet, targetcost.None(), 100)

	cost, err := targetcost.CreateBalancedTargetCost(trainSet.Labels, 1)
	require.NoError(t, err)
	balanced := train(t, []int{2, 4, 2}, trainSet, targetcost.Some(cost), 100)

	uniformErrs := errorsOn(t, uniform, testSet)
	balancedErrs := errorsOn(t, balanced, testSet)
	t.Logf("uniform errors %d, balanced errors %d", uniformErrs, balancedErrs)

	assert.Less(t, balancedErrs, uniformErrs)
	assert.GreaterOrEqual(t, uniformErrs, 250)
}

func TestPredict(t *testing.T) {
	n, err := network.New([]int{3, 4, 2}, network.WithActivation(network.Mish))
	require.NoError(t, err)

	out, err := n.Predict([]float64{0.1, 0.2, 0.3})
	require.NoError(t, err)
	assert.Len(t, out, 2)

	batch, err := n.PredictBatch([][]float64{{0.1, 0.2, 0.3}, {1, 1, 1}})
	require.NoError(t, err)
	require.Len(t, batch, 2)
	assert.InDeltaSlice(t, out, batch[0], 1e-12)

	_, err = n.Predict([]float64{1})
	assert.Error(t, err)

	empty, err := n.PredictBatch(nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestCrossEntropyOutputsSumToOne(t *testing.T) {
	n, err := network.New([]int{2, 3}, network.WithLoss(network.CrossEntropy{}))
	require.NoError(t, err)

	out, err := n.Predict([]float64{0.5, -0.5})
	require.NoError(t, err)
	sum := 0.0
	for _, v := range out {
		assert.GreaterOrEqual(t, v, 0.0)
		sum += v
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestTrainReportsProgress(t *testing.T) {
	s := dataset.BalancedXOR(40, dataset.NewSource(3))
	n, err := network.New([]int{2, 2}, network.WithActivation(network.Sigmoid))
	require.NoError(t, err)

	batches, epochs := 0, 0
	res, err := n.Train(s.Features, s.Labels, network.TrainOptions{
		Epochs:    2,
		BatchSize: 15,
		OnBatch:   func(epoch, batch int, loss float64) { batches++ },
		OnEpoch:   func(epoch int, loss float64) { epochs++ },
	})
	require.NoError(t, err)
	assert.Equal(t, 4, batches)
	assert.Equal(t, 2, epochs)
	assert.Equal(t, 4, res.Batches)
}
