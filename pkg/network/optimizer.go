package network

import (
	"fmt"
	"strings"

	"gorgonia.org/gorgonia"
)

type OptimizerKind string

const (
	Adagrad  OptimizerKind = "adagrad"
	Adam     OptimizerKind = "adam"
	RMSProp  OptimizerKind = "rmsprop"
	Momentum OptimizerKind = "momentum"
	SGD      OptimizerKind = "sgd"
)

// Optimizer describes the solver used to apply gradients.
type Optimizer struct {
	Kind      OptimizerKind
	LearnRate float64
	L2Penalty float64
	// Clip bounds every gradient element; 0 disables clipping.
	Clip float64
}

func DefaultOptimizer() Optimizer {
	return Optimizer{Kind: Adagrad, LearnRate: 0.01}
}

func ParseOptimizerKind(s string) (OptimizerKind, error) {
	switch k := OptimizerKind(strings.ToLower(s)); k {
	case Adagrad, Adam, RMSProp, Momentum, SGD:
		return k, nil
	}
	return "", fmt.Errorf("unknown optimizer %q", s)
}

func (o Optimizer) solver() (gorgonia.Solver, error) {
	opts := []gorgonia.SolverOpt{gorgonia.WithLearnRate(o.LearnRate)}
	if o.L2Penalty > 0 {
		opts = append(opts, gorgonia.WithL2Reg(o.L2Penalty))
	}
	if o.Clip > 0 {
		opts = append(opts, gorgonia.WithClip(o.Clip))
	}

	switch o.Kind {
	case Adagrad, "":
		return gorgonia.NewAdaGradSolver(opts...), nil
	case Adam:
		opts = append(opts,
			gorgonia.WithBeta1(0.9),
			gorgonia.WithBeta2(0.999),
			gorgonia.WithEps(1e-8),
		)
		return gorgonia.NewAdamSolver(opts...), nil
	case RMSProp:
		return gorgonia.NewRMSPropSolver(opts...), nil
	case Momentum:
		opts = append(opts, gorgonia.WithMomentum(0.9))
		return gorgonia.NewMomentum(opts...), nil
	case SGD:
		return gorgonia.NewVanillaSolver(opts...), nil
	}
	return nil, fmt.Errorf("unknown optimizer %q", o.Kind)
}
