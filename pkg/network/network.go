package network

import (
	"fmt"

	"github.com/pkg/errors"
	"gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// Network is a stack of fully connected layers. Layer i maps sizes[i] inputs
// to sizes[i+1] outputs through weights[i] and biases[i].
type Network struct {
	sizes      []int
	activation Activation
	loss       Loss
	optimizer  Optimizer

	weights []tensor.Tensor
	biases  []tensor.Tensor
}

type Option func(n *Network)

func WithActivation(a Activation) Option {
	return func(n *Network) { n.activation = a }
}

func WithLoss(l Loss) Option {
	return func(n *Network) { n.loss = l }
}

func WithOptimizer(o Optimizer) Option {
	return func(n *Network) { n.optimizer = o }
}

// New creates a network with Glorot-initialised weights and zero biases.
// sizes lists the input width, every hidden width and the output width.
func New(sizes []int, opts ...Option) (*Network, error) {
	if len(sizes) < 2 {
		return nil, errors.Errorf("need at least input and output sizes, got %v", sizes)
	}
	for _, s := range sizes {
		if s < 1 {
			return nil, errors.Errorf("layer sizes must be positive, got %v", sizes)
		}
	}

	n := &Network{
		sizes:      append([]int(nil), sizes...),
		activation: Tanh,
		loss:       MSE{},
		optimizer:  DefaultOptimizer(),
	}
	for _, opt := range opts {
		opt(n)
	}

	n.Reset()
	return n, nil
}

// Reset re-initialises every weight and bias.
func (n *Network) Reset() {
	n.weights = make([]tensor.Tensor, len(n.sizes)-1)
	n.biases = make([]tensor.Tensor, len(n.sizes)-1)
	for i := range n.weights {
		in, out := n.sizes[i], n.sizes[i+1]
		n.weights[i] = tensor.New(
			tensor.WithShape(in, out),
			tensor.WithBacking(gorgonia.GlorotN(1.0)(tensor.Float64, in, out)))
		n.biases[i] = tensor.New(
			tensor.Of(tensor.Float64),
			tensor.WithShape(1, out))
	}
}

func (n *Network) Inputs() int { return n.sizes[0] }

func (n *Network) Outputs() int { return n.sizes[len(n.sizes)-1] }

func (n *Network) Sizes() []int { return append([]int(nil), n.sizes...) }

func (n *Network) Activation() Activation { return n.activation }

func (n *Network) Loss() Loss { return n.loss }

func (n *Network) Optimizer() Optimizer { return n.optimizer }

// Targets returns the (off, on) values used to encode labels.
func (n *Network) Targets() (float64, float64) {
	return n.loss.targetRange(n.activation)
}

type graph struct {
	g       *gorgonia.ExprGraph
	x       *gorgonia.Node
	weights gorgonia.Nodes
	biases  gorgonia.Nodes
	out     *gorgonia.Node
}

func (gr *graph) learnables() gorgonia.Nodes {
	return append(append(gorgonia.Nodes{}, gr.weights...), gr.biases...)
}

// build lays out the forward pass for batches of rows samples. When clone is
// set the graph gets its own copy of the parameters.
func (n *Network) build(rows int, clone bool) (*graph, error) {
	g := gorgonia.NewGraph()
	gr := &graph{g: g}

	gr.x = gorgonia.NewMatrix(g, tensor.Float64,
		gorgonia.WithShape(rows, n.Inputs()),
		gorgonia.WithName("x"))

	h := gr.x
	for i := range n.weights {
		w, b := n.weights[i], n.biases[i]
		if clone {
			w = w.Clone().(tensor.Tensor)
			b = b.Clone().(tensor.Tensor)
		}

		wn := gorgonia.NewMatrix(g, tensor.Float64,
			gorgonia.WithShape(w.Shape()...),
			gorgonia.WithName(fmt.Sprintf("w%d", i)),
			gorgonia.WithValue(w))
		bn := gorgonia.NewMatrix(g, tensor.Float64,
			gorgonia.WithShape(b.Shape()...),
			gorgonia.WithName(fmt.Sprintf("b%d", i)),
			gorgonia.WithValue(b))
		gr.weights = append(gr.weights, wn)
		gr.biases = append(gr.biases, bn)

		z, err := gorgonia.Mul(h, wn)
		if err != nil {
			return nil, errors.Wrapf(err, "layer %d: mul", i)
		}
		z, err = gorgonia.BroadcastAdd(z, bn, nil, []byte{0})
		if err != nil {
			return nil, errors.Wrapf(err, "layer %d: bias", i)
		}

		if i == len(n.weights)-1 {
			h, err = n.loss.output(z, n.activation)
		} else {
			h, err = n.activation.apply(z)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "layer %d: activation", i)
		}
	}
	gr.out = h

	return gr, nil
}

// keep copies trained parameter values back into the network.
func (n *Network) keep(gr *graph) error {
	for i := range n.weights {
		w, err := nodeTensor(gr.weights[i])
		if err != nil {
			return errors.Wrapf(err, "w%d", i)
		}
		b, err := nodeTensor(gr.biases[i])
		if err != nil {
			return errors.Wrapf(err, "b%d", i)
		}
		n.weights[i] = w
		n.biases[i] = b
	}
	return nil
}

func nodeTensor(n *gorgonia.Node) (tensor.Tensor, error) {
	v := n.Value()
	if v == nil {
		return nil, fmt.Errorf("node has nil value")
	}
	t, ok := v.(tensor.Tensor)
	if !ok {
		return nil, fmt.Errorf("value is not a tensor")
	}
	return t, nil
}
