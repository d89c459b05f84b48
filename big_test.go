package formula_test

import (
	"errors"
	"math"
	"math/big"
	"testing"

	"github.com/zephyrtronium/formula"
)

func TestEvalPrecise(t *testing.T) {
	cases := []struct {
		name string
		src  string
		env  formula.Env
		r    float64
	}{
		{"num", "1", formula.Env{}, 1},
		{"x", "x", formula.Env{Point: formula.Vec3{X: 2.5}}, 2.5},
		{"time", "time * 2", formula.Env{Time: 0.25}, 0.5},
		{"asc", "1 + 2 * 3", formula.Env{}, 7},
		{"desc", "1 * 2 + 3", formula.Env{}, 5},
		{"lookback", "2 * 3 ^ 2 + 1", formula.Env{}, 20},
		{"div", "1 / 4", formula.Env{}, 0.25},
		{"divzero", "1 / 0", formula.Env{}, math.Inf(1)},
		{"pow", "2 ^ 10", formula.Env{}, 1024},
		{"pow0", "5 ^ 0", formula.Env{}, 1},
		{"zeropow", "0 ^ 3", formula.Env{}, 0},
		{"negpow", "(0 - 2) ^ 3", formula.Env{}, -8},
		{"negpow-even", "(0 - 2) ^ 2", formula.Env{}, 4},
		{"abs", "abs(3 - 10)", formula.Env{}, 7},
		{"sin", "sin(0)", formula.Env{}, 0},
		{"cos", "cos(0)", formula.Env{}, 1},
		{"big", "99999999999 * 99999999999", formula.Env{}, 9999999999800000000001},
	}
	ctx := formula.NewContext(formula.Prec(128))
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, err := ctx.EvalPrecise(formula.Compile(c.src), c.env)
			if err != nil {
				t.Fatalf("evaluating %q: %v", c.src, err)
			}
			if f, _ := r.Float64(); f != c.r {
				t.Errorf("wrong result for %q: want %g, got %g", c.src, c.r, r)
			}
		})
	}
}

func TestEvalPreciseExact(t *testing.T) {
	// float32 can't hold this product; 128 bits can.
	ctx := formula.NewContext(formula.Prec(128))
	r, err := ctx.EvalPrecise(formula.Compile("123456789 * 987654321"), formula.Env{})
	if err != nil {
		t.Fatal(err)
	}
	want := new(big.Float).SetInt64(121932631112635269)
	if r.Cmp(want) != 0 {
		t.Errorf("want %v, got %v", want, r)
	}
}

func TestEvalPreciseDomainError(t *testing.T) {
	cases := []struct {
		name string
		src  string
		env  formula.Env
	}{
		{"div-zero", "0 / 0", formula.Env{}},
		{"div-inf", "(1 / 0) / (1 / 0)", formula.Env{}},
		{"sub-inf", "(1 / 0) - (1 / 0)", formula.Env{}},
		{"mul-inf", "0 * (1 / 0)", formula.Env{}},
		{"pow-neg", "(0 - 8) ^ (1 / 3)", formula.Env{}},
		{"sin-inf", "sin(1 / 0)", formula.Env{}},
		{"nan-var", "x", formula.Env{Point: formula.Vec3{X: float32(math.NaN())}}},
	}
	ctx := formula.NewContext()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, err := ctx.EvalPrecise(formula.Compile(c.src), c.env)
			if r != nil {
				t.Errorf("evaluating %q gave non-nil result %g", c.src, r)
			}
			if err == nil {
				t.Fatalf("evaluating %q gave no error", c.src)
			}
			if _, ok := err.(*formula.DomainError); !ok {
				t.Errorf("%#v is not *formula.DomainError", err)
			}
			if !errors.As(err, new(big.ErrNaN)) {
				t.Errorf("%v does not unwrap to big.ErrNaN", err)
			}
		})
	}
}

func TestEvalPreciseErrors(t *testing.T) {
	ctx := formula.NewContext()
	if _, err := ctx.EvalPrecise(formula.Compile("q"), formula.Env{}); err == nil {
		t.Error("no error from failed parse")
	}
	if _, err := ctx.EvalPrecise(formula.Compile("1 +"), formula.Env{}); err == nil {
		t.Error("no error from missing operand")
	}
	if _, err := ctx.EvalPrecise(formula.Compile(""), formula.Env{}); err == nil {
		t.Error("no error from empty formula")
	}
	// The context is still usable.
	r, err := ctx.EvalPrecise(formula.Compile("(1 + 2) * 3"), formula.Env{})
	if err != nil {
		t.Fatal(err)
	}
	if f, _ := r.Float64(); f != 9 {
		t.Errorf("wrong result after errors: %g", r)
	}
}

func TestEvalPreciseMatchesEval(t *testing.T) {
	srcs := []string{
		"x + y * z",
		"x * y + z",
		"10 - x * 3 - 1",
		"abs(x - y) ^ 2",
		"(x + 1) / (y + 2)",
	}
	env := formula.Env{Time: 2, Point: formula.Vec3{X: 3, Y: 5, Z: 7}}
	ctx := formula.NewContext()
	for _, src := range srcs {
		f := formula.Compile(src)
		a, err := ctx.Eval(f, env)
		if err != nil {
			t.Fatalf("%q: %v", src, err)
		}
		b, err := ctx.EvalPrecise(f, env)
		if err != nil {
			t.Fatalf("%q: %v", src, err)
		}
		if g, _ := b.Float32(); math.Abs(float64(g-a)) > 1e-5 {
			t.Errorf("%q: float32 gave %g, precise gave %g", src, a, b)
		}
	}
}

func TestContextPrec(t *testing.T) {
	if p := formula.NewContext().Prec(); p != 64 {
		t.Errorf("default precision is %d, not 64", p)
	}
	if p := formula.NewContext(formula.Prec(200)).Prec(); p != 200 {
		t.Errorf("precision is %d, not 200", p)
	}
	var ctx formula.Context
	if p := ctx.Prec(); p != 64 {
		t.Errorf("zero context precision is %d, not 64", p)
	}
}

func TestEvalPreciseLargePow(t *testing.T) {
	intpow := func(b, e int64) *big.Float {
		n := new(big.Int).Exp(big.NewInt(b), big.NewInt(e), nil)
		return new(big.Float).SetPrec(256).SetInt(n)
	}
	recip := func(x *big.Float) *big.Float {
		return new(big.Float).SetPrec(256).Quo(big.NewFloat(1), x)
	}
	cases := []struct {
		name string
		src  string
		want *big.Float
	}{
		{"2^1000", "2 ^ 1000", intpow(2, 1000)},
		{"3^1000", "3 ^ 1000", intpow(3, 1000)},
		{"2^10000", "2 ^ 10000", intpow(2, 10000)},
		{"7^777", "7 ^ 777", intpow(7, 777)},
		{"neg3^1001", "(0 - 3) ^ 1001", new(big.Float).Neg(intpow(3, 1001))},
		{"2^-10000", "2 ^ (0 - 10000)", recip(intpow(2, 10000))},
		{"3^-1000", "3 ^ (0 - 1000)", recip(intpow(3, 1000))},
	}
	// Results must agree with exact powers to well within the working
	// precision.
	tol := new(big.Float).SetMantExp(big.NewFloat(1), -100)
	ctx := formula.NewContext(formula.Prec(128))
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, err := ctx.EvalPrecise(formula.Compile(c.src), formula.Env{})
			if err != nil {
				t.Fatalf("evaluating %q: %v", c.src, err)
			}
			if r.Sign() != c.want.Sign() {
				t.Fatalf("%q has wrong sign: want %g, got %g", c.src, c.want, r)
			}
			d := new(big.Float).SetPrec(256).Sub(r, c.want)
			d.Quo(d, c.want).Abs(d)
			if d.Cmp(tol) > 0 {
				t.Errorf("wrong result for %q: want %g, got %g (relative error %g)", c.src, c.want, r, d)
			}
		})
	}
}
