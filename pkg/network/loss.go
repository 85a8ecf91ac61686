package network

import (
	"fmt"
	"strings"

	"gorgonia.org/gorgonia"
)

// Loss builds the per-batch cost node. Every loss scales the per-sample,
// per-output error by the matching entry of the target cost matrix before
// averaging, so the gradient reaching the network is scaled the same way.
type Loss interface {
	fmt.Stringer

	// output turns the last layer's pre-activation into the network output.
	output(z *gorgonia.Node, act Activation) (*gorgonia.Node, error)
	// targetRange is the (off, on) pair used for label targets.
	targetRange(act Activation) (float64, float64)
	// weighted returns a scalar loss node.
	weighted(pred, target, cost *gorgonia.Node) (*gorgonia.Node, error)
}

func ParseLoss(s string) (Loss, error) {
	switch strings.ToLower(s) {
	case "mse":
		return MSE{}, nil
	case "crossentropy", "cross_entropy", "ce":
		return CrossEntropy{}, nil
	}
	return nil, fmt.Errorf("unknown loss %q", s)
}

// MSE is the mean squared error over every output of every sample.
type MSE struct{}

func (MSE) String() string { return "mse" }

func (MSE) output(z *gorgonia.Node, act Activation) (*gorgonia.Node, error) {
	return act.apply(z)
}

func (MSE) targetRange(act Activation) (float64, float64) {
	return act.TargetRange()
}

func (MSE) weighted(pred, target, cost *gorgonia.Node) (*gorgonia.Node, error) {
	diff, err := gorgonia.Sub(pred, target)
	if err != nil {
		return nil, fmt.Errorf("failed to compute difference: %v", err)
	}

	sq, err := gorgonia.Square(diff)
	if err != nil {
		return nil, fmt.Errorf("failed to compute square: %v", err)
	}

	scaled, err := gorgonia.HadamardProd(sq, cost)
	if err != nil {
		return nil, fmt.Errorf("failed to apply target cost: %v", err)
	}

	return gorgonia.Mean(scaled)
}

// CrossEntropy is categorical cross-entropy over a softmax output.
type CrossEntropy struct{}

func (CrossEntropy) String() string { return "crossentropy" }

func (CrossEntropy) output(z *gorgonia.Node, _ Activation) (*gorgonia.Node, error) {
	return gorgonia.SoftMax(z)
}

func (CrossEntropy) targetRange(Activation) (float64, float64) {
	return 0, 1
}

func (CrossEntropy) weighted(pred, target, cost *gorgonia.Node) (*gorgonia.Node, error) {
	eps := 1e-7

	safePred, err := gorgonia.Add(pred, gorgonia.NewConstant(eps))
	if err != nil {
		return nil, fmt.Errorf("failed to add epsilon: %v", err)
	}

	logPred, err := gorgonia.Log(safePred)
	if err != nil {
		return nil, fmt.Errorf("failed to compute log: %v", err)
	}

	losses, err := gorgonia.HadamardProd(target, logPred)
	if err != nil {
		return nil, fmt.Errorf("failed to compute hadamard product: %v", err)
	}

	scaled, err := gorgonia.HadamardProd(losses, cost)
	if err != nil {
		return nil, fmt.Errorf("failed to apply target cost: %v", err)
	}

	sumLosses, err := gorgonia.Sum(scaled, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to compute sum: %v", err)
	}

	meanLoss, err := gorgonia.Mean(sumLosses)
	if err != nil {
		return nil, fmt.Errorf("failed to compute mean: %v", err)
	}

	return gorgonia.Neg(meanLoss)
}
