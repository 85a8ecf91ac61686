package network

import (
	"fmt"
	"math/rand/v2"
	"runtime"

	"github.com/grexie/tinynet/pkg/targetcost"
	"github.com/jedib0t/go-pretty/v6/progress"
	"github.com/pkg/errors"
	"gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

type TrainOptions struct {
	Epochs    int
	BatchSize int
	Shuffle   bool

	// TargetCost scales the loss of sample i element-wise by row i. None
	// trains with uniform cost.
	TargetCost targetcost.Optional

	// Rand drives shuffling. A nil Rand uses the global source.
	Rand *rand.Rand

	Progress progress.Writer
	OnBatch  func(epoch, batch int, loss float64)
	OnEpoch  func(epoch int, loss float64)
}

type Result struct {
	// EpochLoss is the mean batch loss of every epoch.
	EpochLoss []float64
	Batches   int
}

func (n *Network) validate(features [][]float64, labels []int, opts TrainOptions) error {
	if len(features) != len(labels) {
		return errors.Errorf("%d feature rows for %d labels", len(features), len(labels))
	}
	if len(features) == 0 {
		return errors.New("no training samples")
	}
	if opts.Epochs < 1 {
		return errors.Errorf("epochs must be positive, got %d", opts.Epochs)
	}
	if opts.BatchSize < 1 || opts.BatchSize > len(features) {
		return errors.Errorf("batch size must be within [1, %d], got %d", len(features), opts.BatchSize)
	}
	for i, f := range features {
		if len(f) != n.Inputs() {
			return errors.Errorf("sample %d has %d features, want %d", i, len(f), n.Inputs())
		}
	}
	for i, l := range labels {
		if l < 0 || l >= n.Outputs() {
			return errors.Errorf("sample %d has label %d, outside [0, %d)", i, l, n.Outputs())
		}
	}
	return nil
}

// Train fits the network to labels. Every epoch visits floor(N/BatchSize)
// batches; the remaining samples of a shuffled epoch are left for later
// epochs.
func (n *Network) Train(features [][]float64, labels []int, opts TrainOptions) (*Result, error) {
	if err := n.validate(features, labels, opts); err != nil {
		return nil, err
	}

	var cost targetcost.Matrix
	if m, ok := opts.TargetCost.Get(); ok {
		if err := m.Validate(len(labels), n.Outputs()); err != nil {
			return nil, err
		}
		cost = m
	} else {
		// uniform cost, see flattenBatchCost
		cost = nil
	}

	var tracker *progress.Tracker
	if opts.Progress != nil {
		tracker = &progress.Tracker{
			Message: "Training",
			Total:   int64(opts.Epochs),
			Units:   progress.UnitsDefault,
		}
		opts.Progress.AppendTracker(tracker)
		tracker.Start()
		defer tracker.MarkAsDone()
	}

	batchSize := opts.BatchSize
	outputs := n.Outputs()
	off, on := n.Targets()

	gr, err := n.build(batchSize, false)
	if err != nil {
		return nil, err
	}

	yTensor := gorgonia.NewMatrix(gr.g, tensor.Float64,
		gorgonia.WithShape(batchSize, outputs),
		gorgonia.WithName("y"))
	cTensor := gorgonia.NewMatrix(gr.g, tensor.Float64,
		gorgonia.WithShape(batchSize, outputs),
		gorgonia.WithName("cost"))

	loss, err := n.loss.weighted(gr.out, yTensor, cTensor)
	if err != nil {
		return nil, err
	}

	learnables := gr.learnables()
	if _, err := gorgonia.Grad(loss, learnables...); err != nil {
		return nil, fmt.Errorf("failed to compute gradients: %v", err)
	}

	vm := gorgonia.NewTapeMachine(gr.g, gorgonia.BindDualValues(learnables...))
	defer vm.Close()

	solver, err := n.optimizer.solver()
	if err != nil {
		return nil, err
	}

	indices := make([]int, len(features))
	for i := range indices {
		indices[i] = i
	}
	batches := len(features) / batchSize

	result := &Result{EpochLoss: make([]float64, 0, opts.Epochs)}

	for epoch := range opts.Epochs {
		if opts.Shuffle {
			if opts.Rand != nil {
				opts.Rand.Shuffle(len(indices), func(i, j int) { indices[i], indices[j] = indices[j], indices[i] })
			} else {
				rand.Shuffle(len(indices), func(i, j int) { indices[i], indices[j] = indices[j], indices[i] })
			}
		}

		epochLoss := 0.0
		for batch := 0; batch < batches; batch++ {
			batchIndices := indices[batch*batchSize : (batch+1)*batchSize]

			batchFeatures := tensor.New(
				tensor.WithShape(batchSize, n.Inputs()),
				tensor.WithBacking(flattenBatchFeatures(features, batchIndices)))
			batchTargets := tensor.New(
				tensor.WithShape(batchSize, outputs),
				tensor.WithBacking(flattenBatchTargets(labels, batchIndices, outputs, off, on)))
			batchCost := tensor.New(
				tensor.WithShape(batchSize, outputs),
				tensor.WithBacking(flattenBatchCost(cost, batchIndices, outputs)))

			if err := gorgonia.Let(gr.x, batchFeatures); err != nil {
				return nil, fmt.Errorf("failed to update x tensor: %v", err)
			}
			if err := gorgonia.Let(yTensor, batchTargets); err != nil {
				return nil, fmt.Errorf("failed to update y tensor: %v", err)
			}
			if err := gorgonia.Let(cTensor, batchCost); err != nil {
				return nil, fmt.Errorf("failed to update cost tensor: %v", err)
			}

			vm.Reset()
			if err := vm.RunAll(); err != nil {
				return nil, fmt.Errorf("forward/backward pass failed: %v", err)
			}

			if err := solver.Step(gorgonia.NodesToValueGrads(learnables)); err != nil {
				return nil, fmt.Errorf("solver step failed: %v", err)
			}

			batchLoss := loss.Value().Data().(float64)
			epochLoss += batchLoss
			result.Batches++
			if opts.OnBatch != nil {
				opts.OnBatch(epoch, batch, batchLoss)
			}
		}

		avg := epochLoss / float64(batches)
		result.EpochLoss = append(result.EpochLoss, avg)
		if opts.OnEpoch != nil {
			opts.OnEpoch(epoch, avg)
		}
		if tracker != nil {
			tracker.SetValue(int64(epoch + 1))
			tracker.UpdateMessage(fmt.Sprintf("Training - L: %.6f", avg))
		}

		if epoch%5 == 0 {
			runtime.GC()
		}
	}

	if err := n.keep(gr); err != nil {
		return nil, err
	}

	return result, nil
}
