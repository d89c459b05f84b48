package formula

import (
	"reflect"
	"regexp"
	"strings"
	"testing"
)

// diff finds the first in-order token of a that differs from b. The boolean
// is false if the two lists are equal.
func diff(a, b []token) (token, token, bool) {
	if len(a) != len(b) {
		var x, y token
		if len(a) > len(b) {
			x = a[len(b)]
		} else {
			y = b[len(a)]
		}
		return x, y, true
	}
	for i := range a {
		x, y := a[i], b[i]
		if x.kind == tokenNone || x.kind != y.kind {
			return x, y, true
		}
		switch x.kind {
		case tokenInt:
			if x.num != y.num {
				return x, y, true
			}
		case tokenFloat:
			if x.f != y.f {
				return x, y, true
			}
		case tokenOp:
			if x.op != y.op {
				return x, y, true
			}
		case tokenCall:
			if x.fn != y.fn {
				return x, y, true
			}
			if d, e, ok := diff(x.list, y.list); ok {
				return d, e, true
			}
		case tokenGroup:
			if d, e, ok := diff(x.list, y.list); ok {
				return d, e, true
			}
		}
	}
	return token{}, token{}, false
}

func num(n int64) token {
	return token{kind: tokenInt, num: n}
}

func op(o operator) token {
	return token{kind: tokenOp, op: o}
}

func call(fn funcKind, list ...token) token {
	return token{kind: tokenCall, fn: fn, list: list}
}

func group(list ...token) token {
	return token{kind: tokenGroup, list: list}
}

var (
	tx = token{kind: tokenX}
	ty = token{kind: tokenY}
	tz = token{kind: tokenZ}
	tt = token{kind: tokenTime}
)

func TestParseExact(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want []token
	}{
		{"empty", "", nil},
		{"space", " \n ", nil},
		{"x", "x", []token{tx}},
		{"vars", "x y z time", []token{tx, ty, tz, tt}},
		{"adjacent", "xyz", []token{tx, ty, tz}},
		{"int", "1234", []token{num(1234)}},
		{"zero", "007", []token{num(7)}},
		{"ops", "+-*/^", []token{op(opAdd), op(opSub), op(opMul), op(opDiv), op(opPow)}},
		{"sum", "1 + 2", []token{num(1), op(opAdd), num(2)}},
		{"nospace", "1+x", []token{num(1), op(opAdd), tx}},
		{"neg", "-1", []token{op(opSub), num(1)}},
		{"sin", "sin(x)", []token{call(fnSin, tx)}},
		{"cos", "cos(x)", []token{call(fnCos, tx)}},
		{"tan", "tan(x)", []token{call(fnTan, tx)}},
		{"abs", "abs(x)", []token{call(fnAbs, tx)}},
		{"upper", "SIN(x)", []token{call(fnSin, tx)}},
		{"mixed", "aBs(x)", []token{call(fnAbs, tx)}},
		{"call0", "sin()", []token{call(fnSin)}},
		{"callargs", "sin(x - time)", []token{call(fnSin, tx, op(opSub), tt)}},
		{"callspace", "sin( x )", []token{call(fnSin, tx)}},
		{"callnosep", "cos(1 2)", []token{call(fnCos, num(1), num(2))}},
		{"group", "(x)", []token{group(tx)}},
		{"group0", "()", []token{group()}},
		{"groupspace", "( x\n)", []token{group(tx)}},
		{"nested", "((x))", []token{group(group(tx))}},
		{"callgroup", "sin((x + 1) * 2)", []token{call(fnSin, group(tx, op(opAdd), num(1)), op(opMul), num(2))}},
		{"callcall", "abs(sin(x))", []token{call(fnAbs, call(fnSin, tx))}},
		{"wave", "sin(x - time) * 10", []token{call(fnSin, tx, op(opSub), tt), op(opMul), num(10)}},
		{"trailing", "x \n", []token{tx}},
		{"leading", "\t x", []token{tx}},
	}
	p := NewParser()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			f := p.Parse(c.src)
			if f.Err() != nil {
				t.Fatalf("%q failed to parse: %v", c.src, f.Err())
			}
			if d, e, ok := diff(f.tokens, c.want); ok {
				t.Errorf("mismatched tokens:\n\twant %v which has %v\n\tgot  %v which has %v from %q", c.want, e, f.tokens, d, c.src)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		err  InputError
		col  int
		res  []string
	}{
		{"letter", "q", new(CharError), 1, []string{`'q'`}},
		{"upper", "X", new(CharError), 1, []string{`'X'`}},
		{"later", "x + q", new(CharError), 5, []string{`'q'`}},
		// Failures inside brackets backtrack to the bracket, and the last rule
		// reports the error from there.
		{"unterminated", "(x", new(CharError), 1, []string{`'\('`}},
		{"unterminated-later", "x (x", new(CharError), 3, []string{`'\('`}},
		{"unterminated-call", "sin(x", new(CharError), 1, []string{`'s'`}},
		{"unterminated-nested", "sin((x)", new(CharError), 1, []string{`'s'`}},
		{"close", "x)", new(CharError), 2, []string{`'\)'`}},
		{"call-space", "sin (x)", new(CharError), 1, []string{`'s'`}},
		{"unknown-func", "exp(x)", new(CharError), 1, []string{`'e'`}},
		{"comma", "sin(x, y)", new(CharError), 1, []string{`'s'`}},
		{"comma-group", "(x, y)", new(CharError), 1, []string{`'\('`}},
		{"float", "1.5", new(CharError), 2, []string{`'\.'`}},
		{"upper-time", "TIME", new(CharError), 1, []string{`'T'`}},
		{"overflow", "99999999999999999999", new(NumberError), 1, []string{`99999999999999999999`, `(?i)range`}},
	}
	p := NewParser()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			f := p.Parse(c.src)
			err := f.Err()
			if reflect.TypeOf(err) != reflect.TypeOf(c.err) {
				t.Fatalf("wrong error type from %q: want %T, got %T (%v)", c.src, c.err, err, err)
			}
			if f.tokens != nil {
				t.Errorf("%q kept tokens %v", c.src, f.tokens)
			}
			if pos := err.(InputError).Pos(); pos != c.col {
				t.Errorf("wrong position for %q: want %d, got %d", c.src, c.col, pos)
			}
			msg := err.Error()
			for _, re := range c.res {
				if !regexp.MustCompile(re).MatchString(msg) {
					t.Errorf("error message %q does not match %s", msg, re)
				}
			}
		})
	}
}

func TestParseLastError(t *testing.T) {
	// Every rule fails on q; the error reported is the one from the integer
	// rule, which is tried last.
	f := Compile("q")
	if !regexp.MustCompile(`\bdigit\b`).MatchString(f.Err().Error()) {
		t.Errorf("error %q is not from the last rule", f.Err())
	}
}

func TestParserRules(t *testing.T) {
	want := []rule{ruleCall, ruleGroup, ruleOp, ruleTime, ruleX, ruleY, ruleZ, ruleInt}
	if !reflect.DeepEqual(rules[:], want) {
		t.Errorf("wrong rule order: want %v, got %v", want, rules)
	}
	// Keywords win over their first letters.
	f := NewParser().Parse("timex")
	if d, e, ok := diff(f.tokens, []token{tt, tx}); ok {
		t.Errorf("timex parsed %v which has %v, want %v", f.tokens, d, e)
	}
}

func TestFormulaString(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"x", "x", "x"},
		{"space", "  1+2 ", "1 + 2"},
		{"wave", "sin(x-time)*10", "sin(x - time) * 10"},
		{"upper", "COS(y)", "cos(y)"},
		{"group", "((x)^2)", "((x) ^ 2)"},
		{"empty", "", ""},
		{"error", "q", "$1: expected digit but found 'q'$"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			f := Compile(c.src)
			s := f.String()
			if s != c.want {
				t.Errorf("%q formats as %q, want %q", c.src, s, c.want)
			}
			if f.Err() != nil {
				return
			}
			g := Compile(s)
			if d, e, ok := diff(f.tokens, g.tokens); ok {
				t.Errorf("mismatched tokens:\n\t%q parses %v has %v\n\t%q parses %v has %v", c.src, f.tokens, d, s, g.tokens, e)
			}
		})
	}
}

func TestFormulaVars(t *testing.T) {
	cases := []struct {
		name string
		src  string
		vars []string
	}{
		{"none", "1+2+3", nil},
		{"one", "1+2+x", []string{"x"}},
		{"sort", "z time y x", []string{"time", "x", "y", "z"}},
		{"nested", "sin(abs((z)))", []string{"z"}},
		{"reuse", "x+x*x", []string{"x"}},
		{"error", "x q", nil},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			vars := Compile(c.src).Vars()
			if !reflect.DeepEqual(vars, c.vars) {
				t.Errorf("%q gave wrong variable names:\n\twant %q\n\tgot  %q", c.src, c.vars, vars)
			}
		})
	}
}

func BenchmarkParse(b *testing.B) {
	cases := []struct {
		name string
		src  string
	}{
		{"wave", "sin(x - time) * 10"},
		{"deep", strings.Repeat("(", 50) + "x" + strings.Repeat(")", 50)},
		{"long", strings.Repeat("x + 1 * ", 50) + "2"},
		{"calls", "abs(sin(cos(tan(x ^ 2))))"},
	}
	p := NewParser()
	for _, c := range cases {
		b.Run(c.name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				p.Parse(c.src)
			}
		})
	}
}
