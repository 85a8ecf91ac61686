package dataset

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

type Set struct {
	Features [][]float64
	Labels   []int
}

func (s Set) Len() int {
	return len(s.Labels)
}

func (s *Set) append(features []float64, label int) {
	s.Features = append(s.Features, features)
	s.Labels = append(s.Labels, label)
}

func NewSource(seed uint64) rand.Source {
	return rand.NewSource(seed)
}

// Bernoulli draws true with probability p.
func Bernoulli(p float64, src rand.Source) bool {
	return distuv.Bernoulli{P: p, Src: src}.Rand() == 1
}

func bit(b bool) float64 {
	if b {
		return 1.0
	}
	return 0.0
}

func label(b bool) int {
	if b {
		return 1
	}
	return 0
}

// UnbalancedIdentity draws n single-input samples where the input is 1 with
// probability p, and the label is 1 with probability p0 when the input is 0 or
// p1 when it is 1. With p0 > 0.5 the majority class wins both inputs.
func UnbalancedIdentity(n int, p, p0, p1 float64, src rand.Source) Set {
	s := Set{}
	for range n {
		in := Bernoulli(p, src)
		var l bool
		if in {
			l = Bernoulli(p1, src)
		} else {
			l = Bernoulli(p0, src)
		}
		s.append([]float64{bit(in)}, label(l))
	}
	return s
}

// BalancedIdentity draws n samples whose label equals the input, with both
// inputs equally likely.
func BalancedIdentity(n int, src rand.Source) Set {
	s := Set{}
	for range n {
		in := Bernoulli(0.5, src)
		s.append([]float64{bit(in)}, label(in))
	}
	return s
}

// UnbalancedXOR draws n two-input samples whose label is 1 with probability p
// and equals in0 XOR in1, except that in1 is flipped with probability noise.
func UnbalancedXOR(n int, p, noise float64, src rand.Source) Set {
	s := Set{}
	for range n {
		l := Bernoulli(p, src)
		in0 := Bernoulli(0.5, src)
		in1 := in0 != l
		if Bernoulli(noise, src) {
			in1 = !in1
		}
		s.append([]float64{bit(in0), bit(in1)}, label(l))
	}
	return s
}

// BalancedXOR draws n noise-free XOR samples with uniformly random inputs.
func BalancedXOR(n int, src rand.Source) Set {
	s := Set{}
	for range n {
		in0, in1 := Bernoulli(0.5, src), Bernoulli(0.5, src)
		s.append([]float64{bit(in0), bit(in1)}, label(in0 != in1))
	}
	return s
}
