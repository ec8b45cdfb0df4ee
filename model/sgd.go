package model

import "gonum.org/v1/gonum/mat"

/*
SGD applies the gradients accumulated by a Baseline with a constant
learning rate.
*/
type SGD struct {
	model *Baseline
	lr    float64
}

func NewSGD(m *Baseline, lr float64) *SGD {
	return &SGD{model: m, lr: lr}
}

func (s *SGD) Step() {
	m := s.model
	var d mat.Dense
	d.Scale(s.lr, m.gw)
	m.w.Sub(m.w, &d)
	for j, g := range m.gb {
		m.b[j] -= s.lr * g
	}
	for j, g := range m.gtb {
		m.tb[j] -= s.lr * g
	}
}

func (s *SGD) ZeroGrad() {
	m := s.model
	m.gw.Zero()
	for j := range m.gb {
		m.gb[j] = 0
	}
	for j := range m.gtb {
		m.gtb[j] = 0
	}
}
