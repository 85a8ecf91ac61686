package network

import (
	"fmt"

	"github.com/pkg/errors"
	"gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// PredictBatch completes the forward pass for every row of inputs. It works on
// a private copy of the parameters, so concurrent calls are safe as long as
// the network is not being trained.
func (n *Network) PredictBatch(inputs [][]float64) ([][]float64, error) {
	if len(inputs) == 0 {
		return [][]float64{}, nil
	}
	for i, in := range inputs {
		if len(in) != n.Inputs() {
			return nil, errors.Errorf("input %d has %d features, want %d", i, len(in), n.Inputs())
		}
	}

	gr, err := n.build(len(inputs), true)
	if err != nil {
		return nil, err
	}

	all := make([]int, len(inputs))
	for i := range all {
		all[i] = i
	}
	xVal := tensor.New(
		tensor.WithShape(len(inputs), n.Inputs()),
		tensor.Of(tensor.Float64),
		tensor.WithBacking(flattenBatchFeatures(inputs, all)))
	if err := gorgonia.Let(gr.x, xVal); err != nil {
		return nil, fmt.Errorf("failed to set input: %v", err)
	}

	vm := gorgonia.NewTapeMachine(gr.g)
	defer vm.Close()

	if err := vm.RunAll(); err != nil {
		return nil, fmt.Errorf("forward pass failed: %v", err)
	}

	data := gr.out.Value().Data().([]float64)
	outputs := n.Outputs()
	out := make([][]float64, len(inputs))
	for i := range out {
		out[i] = append([]float64(nil), data[i*outputs:(i+1)*outputs]...)
	}
	return out, nil
}

func (n *Network) Predict(input []float64) ([]float64, error) {
	out, err := n.PredictBatch([][]float64{input})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// PredictLabel returns the index of the largest output.
func (n *Network) PredictLabel(input []float64) (int, error) {
	out, err := n.Predict(input)
	if err != nil {
		return 0, err
	}
	return argmax(out), nil
}

// PredictLabels is PredictLabel over a batch.
func (n *Network) PredictLabels(inputs [][]float64) ([]int, error) {
	out, err := n.PredictBatch(inputs)
	if err != nil {
		return nil, err
	}
	labels := make([]int, len(out))
	for i, o := range out {
		labels[i] = argmax(o)
	}
	return labels, nil
}

func argmax(slice []float64) int {
	maxIndex := 0
	maxValue := slice[0]
	for i, value := range slice {
		if value > maxValue {
			maxValue = value
			maxIndex = i
		}
	}
	return maxIndex
}
