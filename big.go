package formula

import (
	"errors"
	"math"
	"math/big"

	"github.com/zephyrtronium/bigfloat"
)

// EvalPrecise evaluates a formula with arbitrary-precision arithmetic at the
// context's precision. Operators fold in the same order as Eval. Unlike Eval,
// operations without a real result, like 0/0, return a *DomainError instead of
// producing NaN. Trigonometric functions are computed in float64.
//
// The result is a new value owned by the caller.
func (ctx *Context) EvalPrecise(f Formula, env Env) (*big.Float, error) {
	if f.err != nil {
		return nil, f.err
	}
	ctx.bigs.v = ctx.bigs.v[:0]
	ctx.bigs.prec = ctx.Prec()
	ctx.ops = ctx.ops[:0]
	if err := ctx.reduce(&ctx.bigs, substitute(f.tokens, env)); err != nil {
		return nil, err
	}
	return new(big.Float).Copy(ctx.bigs.v[0]), nil
}

func (s *bigs) lit(t token) error {
	switch t.kind {
	case tokenInt:
		s.push().SetInt64(t.num)
	case tokenFloat:
		if math.IsNaN(float64(t.f)) {
			return &DomainError{Func: "variable substitution"}
		}
		s.push().SetFloat64(float64(t.f))
	default:
		panic("formula: lit on " + t.kind.String())
	}
	return nil
}

func (s *bigs) call(fn funcKind) error {
	x := s.top()
	if fn == fnAbs {
		x.Abs(x)
		return nil
	}
	v, _ := x.Float64()
	var r float64
	switch fn {
	case fnSin:
		r = math.Sin(v)
	case fnCos:
		r = math.Cos(v)
	case fnTan:
		r = math.Tan(v)
	default:
		panic("formula: call of invalid function " + fn.String())
	}
	if math.IsNaN(r) {
		return &DomainError{X: new(big.Float).Copy(x), Func: fn.String()}
	}
	x.SetFloat64(r)
	return nil
}

func (s *bigs) apply(op operator) (err error) {
	r := s.pop()
	l := s.top()
	defer func() {
		p := recover()
		if p == nil {
			return
		}
		e, _ := p.(error)
		if !errors.As(e, new(big.ErrNaN)) {
			panic(p)
		}
		err = &DomainError{X: new(big.Float).Copy(r), Func: op.String()}
	}()
	switch op {
	case opAdd:
		l.Add(l, r)
	case opSub:
		l.Sub(l, r)
	case opMul:
		l.Mul(l, r)
	case opDiv:
		l.Quo(l, r)
	case opPow:
		return pow(l, r)
	default:
		panic("formula: apply of invalid operator " + op.String())
	}
	return nil
}

// pow sets l to l^r.
func pow(l, r *big.Float) error {
	switch {
	case l.IsInf(), r.IsInf(), l.Sign() == 0:
		// Limits are easier to get right in float64.
		x, _ := l.Float64()
		y, _ := r.Float64()
		v := math.Pow(x, y)
		if math.IsNaN(v) {
			return &DomainError{X: new(big.Float).Copy(l), Func: "^"}
		}
		l.SetFloat64(v)
	case r.Sign() == 0:
		l.SetInt64(1)
	case l.Signbit():
		// Negative bases only have real powers for integer exponents.
		if !r.IsInt() {
			return &DomainError{X: new(big.Float).Copy(l), Func: "^"}
		}
		n, _ := r.Int(nil)
		l.Neg(l)
		powpos(l, r)
		if n.Bit(0) == 1 {
			l.Neg(l)
		}
	default:
		powpos(l, r)
	}
	return nil
}

// powpos sets l to l^r for positive l. bigfloat.Pow may return a value other
// than its first argument.
func powpos(l, r *big.Float) {
	z := bigfloat.Pow(new(big.Float).SetPrec(l.Prec()), l, r)
	l.Set(z)
}
