package formula

import "math/big"

// Vec3 is a point position.
type Vec3 struct {
	X, Y, Z float32
}

// Env is the environment a formula is evaluated in.
type Env struct {
	// Time is the elapsed simulation time in seconds.
	Time float32
	// Point is the position of the point being animated.
	Point Vec3
}

// Eval evaluates the formula for a time and point. If the formula failed to
// parse, the result is always the parse error.
func (f Formula) Eval(time float32, p Vec3) (float32, error) {
	var ctx Context
	return ctx.Eval(f, Env{Time: time, Point: p})
}

// Context holds scratch space for evaluating formulas. Reusing a Context
// avoids reallocating stacks for every evaluation. It is not safe to use a
// Context concurrently.
type Context struct {
	vals floats
	bigs bigs
	ops  []operator
	prec uint
}

// ContextOption is an option used when creating a context.
type ContextOption interface {
	ctxOption()
}

type precopt uint

func (precopt) ctxOption() {}

// Prec sets the precision of EvalPrecise in bits.
func Prec(prec uint) ContextOption {
	return precopt(prec)
}

// NewContext creates a new evaluation context. If no precision is given, the
// default is 64.
func NewContext(opts ...ContextOption) *Context {
	ctx := Context{prec: 64}
	for _, opt := range opts {
		switch opt := opt.(type) {
		case nil: // do nothing
		case precopt:
			ctx.prec = uint(opt)
		default:
			panic("formula: unknown option type")
		}
	}
	return &ctx
}

// Prec returns the precision EvalPrecise computes to.
func (ctx *Context) Prec() uint {
	if ctx.prec == 0 {
		return 64
	}
	return ctx.prec
}

// Eval evaluates a formula in float32 arithmetic. Infinities and NaNs
// propagate without error.
func (ctx *Context) Eval(f Formula, env Env) (float32, error) {
	if f.err != nil {
		return 0, f.err
	}
	ctx.vals.v = ctx.vals.v[:0]
	ctx.ops = ctx.ops[:0]
	if err := ctx.reduce(&ctx.vals, substitute(f.tokens, env)); err != nil {
		return 0, err
	}
	return ctx.vals.v[0], nil
}

// substitute replaces variables with their values in the environment. The
// result has the same shape as list.
func substitute(list []token, env Env) []token {
	r := make([]token, len(list))
	for i, t := range list {
		switch t.kind {
		case tokenTime:
			r[i] = token{kind: tokenFloat, f: env.Time}
		case tokenX:
			r[i] = token{kind: tokenFloat, f: env.Point.X}
		case tokenY:
			r[i] = token{kind: tokenFloat, f: env.Point.Y}
		case tokenZ:
			r[i] = token{kind: tokenFloat, f: env.Point.Z}
		case tokenCall, tokenGroup:
			t.list = substitute(t.list, env)
			r[i] = t
		default:
			r[i] = t
		}
	}
	return r
}

// machine is the numeric half of reduction: a value stack and the arithmetic
// on it.
type machine interface {
	// height returns the number of values on the stack.
	height() int
	// lit pushes the value of an Int or Float token.
	lit(t token) error
	// call replaces the top value with fn applied to it.
	call(fn funcKind) error
	// apply pops the right operand and replaces the left with the result.
	apply(op operator) error
}

// reduce folds a substituted token list, leaving its value on top of m. Values
// and operators below the heights at entry belong to enclosing lists and are
// never touched.
//
// An operator reduces at most once on arrival, and only if the operator before
// it binds strictly tighter. Whatever remains is folded from the top of the
// operator stack down after the list ends.
func (ctx *Context) reduce(m machine, list []token) error {
	if len(list) == 0 {
		return &EmptyExpressionError{}
	}
	vb, ob := m.height(), len(ctx.ops)
	defer func() { ctx.ops = ctx.ops[:ob] }()
	for _, t := range list {
		switch t.kind {
		case tokenInt, tokenFloat:
			if err := m.lit(t); err != nil {
				return err
			}
		case tokenCall:
			if err := ctx.reduce(m, t.list); err != nil {
				return err
			}
			if err := m.call(t.fn); err != nil {
				return err
			}
		case tokenGroup:
			if err := ctx.reduce(m, t.list); err != nil {
				return err
			}
		case tokenOp:
			if k := len(ctx.ops); k > ob && ctx.ops[k-1].prec() > t.op.prec() {
				top := ctx.ops[k-1]
				ctx.ops = ctx.ops[:k-1]
				if err := fold(m, top, vb); err != nil {
					return err
				}
			}
			ctx.ops = append(ctx.ops, t.op)
		default:
			panic("formula: reduce on unresolved token " + t.kind.String())
		}
	}
	for k := len(ctx.ops); k > ob; k-- {
		op := ctx.ops[k-1]
		ctx.ops = ctx.ops[:k-1]
		if err := fold(m, op, vb); err != nil {
			return err
		}
	}
	switch n := m.height() - vb; {
	case n == 0:
		return &EmptyExpressionError{}
	case n > 1:
		return &OperandError{Extra: n}
	}
	return nil
}

// fold applies op if the current list has two operands for it.
func fold(m machine, op operator, base int) error {
	if m.height()-base < 2 {
		return &OperandError{Op: op.String()}
	}
	return m.apply(op)
}

// floats is a float32 value stack.
type floats struct {
	v []float32
}

func (s *floats) height() int {
	return len(s.v)
}

func (s *floats) lit(t token) error {
	switch t.kind {
	case tokenInt:
		s.v = append(s.v, float32(t.num))
	case tokenFloat:
		s.v = append(s.v, t.f)
	default:
		panic("formula: lit on " + t.kind.String())
	}
	return nil
}

func (s *floats) call(fn funcKind) error {
	k := len(s.v) - 1
	s.v[k] = fn.apply(s.v[k])
	return nil
}

func (s *floats) apply(op operator) error {
	k := len(s.v) - 1
	r := s.v[k]
	s.v = s.v[:k]
	s.v[k-1] = op.apply(s.v[k-1], r)
	return nil
}

// bigs is an arbitrary-precision value stack. Popped values stay in the
// backing array for reuse.
type bigs struct {
	v    []*big.Float
	prec uint
}

// push ensures a settable value on the stack.
func (s *bigs) push() *big.Float {
	if len(s.v) < cap(s.v) {
		s.v = s.v[:len(s.v)+1]
		if s.v[len(s.v)-1] == nil {
			s.v[len(s.v)-1] = new(big.Float)
		}
	} else {
		s.v = append(s.v, new(big.Float))
	}
	return s.v[len(s.v)-1].SetPrec(s.prec)
}

// pop removes the top from the stack and returns it. The returned value may be
// modified by later pushes.
func (s *bigs) pop() *big.Float {
	r := s.v[len(s.v)-1]
	s.v = s.v[:len(s.v)-1]
	return r
}

// top is a shortcut to get the top element of the stack.
func (s *bigs) top() *big.Float {
	return s.v[len(s.v)-1]
}

func (s *bigs) height() int {
	return len(s.v)
}
