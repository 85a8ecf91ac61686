package network

import (
	"fmt"
	"strings"

	"gorgonia.org/gorgonia"
)

type Activation int

const (
	Tanh Activation = iota
	Sigmoid
	ReLU
	Mish
)

func (a Activation) String() string {
	switch a {
	case Tanh:
		return "tanh"
	case Sigmoid:
		return "sigmoid"
	case ReLU:
		return "relu"
	case Mish:
		return "mish"
	default:
		return fmt.Sprintf("activation(%d)", int(a))
	}
}

func ParseActivation(s string) (Activation, error) {
	switch strings.ToLower(s) {
	case "tanh", "tan_h":
		return Tanh, nil
	case "sigmoid":
		return Sigmoid, nil
	case "relu":
		return ReLU, nil
	case "mish":
		return Mish, nil
	}
	return 0, fmt.Errorf("unknown activation %q", s)
}

// TargetRange is the (off, on) pair used when a label is turned into a target
// vector for this activation. Tanh keeps targets away from its asymptotes.
func (a Activation) TargetRange() (float64, float64) {
	switch a {
	case Tanh:
		return -0.8, 0.8
	default:
		return 0.1, 0.9
	}
}

func (a Activation) apply(x *gorgonia.Node) (*gorgonia.Node, error) {
	switch a {
	case Tanh:
		return gorgonia.Tanh(x)
	case Sigmoid:
		return gorgonia.Sigmoid(x)
	case ReLU:
		return gorgonia.Rectify(x)
	case Mish:
		return mish(x)
	}
	return nil, fmt.Errorf("unknown activation %d", int(a))
}

// mish computes x * tanh(ln(1 + e^x)).
func mish(x *gorgonia.Node) (*gorgonia.Node, error) {
	if x == nil {
		return nil, fmt.Errorf("input node is nil")
	}

	exp, err := gorgonia.Exp(x)
	if err != nil {
		return nil, fmt.Errorf("exp error: %v", err)
	}

	added, err := gorgonia.Add(exp, gorgonia.NewConstant(1.0))
	if err != nil {
		return nil, fmt.Errorf("add error: %v", err)
	}

	softplus, err := gorgonia.Log(added)
	if err != nil {
		return nil, fmt.Errorf("log error: %v", err)
	}

	tanh, err := gorgonia.Tanh(softplus)
	if err != nil {
		return nil, fmt.Errorf("tanh error: %v", err)
	}

	result, err := gorgonia.HadamardProd(x, tanh)
	if err != nil {
		return nil, fmt.Errorf("hadamard error: %v", err)
	}

	return result, nil
}
