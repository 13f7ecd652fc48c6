package gocas

import "sync/atomic"

// Step is one (input, intermediate, output) record emitted by Derivative
// and Integrate while an Explainer is installed.
type Step struct {
	Op           string
	Rule         string
	Input        Expr
	Intermediate Expr
	Output       Expr
}

// Explainer renders steps for a reader. Explain is called synchronously on
// the computing goroutine and cannot change the result.
type Explainer interface {
	Explain(Step)
}

// ExplainerFunc adapts a function to Explainer.
type ExplainerFunc func(Step)

func (f ExplainerFunc) Explain(s Step) { f(s) }

type explainerBox struct{ e Explainer }

var explainer atomic.Pointer[explainerBox]

// SetExplainer installs e; nil turns explanation off.
func SetExplainer(e Explainer) {
	if e == nil {
		explainer.Store(nil)
		return
	}
	explainer.Store(&explainerBox{e: e})
}

func explaining() bool { return explainer.Load() != nil }

func explain(op, rule string, in, mid, out Expr) {
	if b := explainer.Load(); b != nil {
		b.e.Explain(Step{Op: op, Rule: rule, Input: in, Intermediate: mid, Output: out})
	}
}
