package formula

import "math"

// operator is a binary operator.
type operator int8

const (
	opNone operator = iota
	opAdd
	opSub
	opMul
	opDiv
	opPow
)

// Operators contains the runes which are parsed as operators, in the order
// the operator rule tries them.
const Operators = "+*-/^"

// binop gets the operator for a rune, or opNone.
func binop(r rune) operator {
	switch r {
	case '+':
		return opAdd
	case '-':
		return opSub
	case '*':
		return opMul
	case '/':
		return opDiv
	case '^':
		return opPow
	default:
		return opNone
	}
}

// prec returns the operator's precedence. Higher is more binding.
func (op operator) prec() int {
	switch op {
	case opAdd, opSub:
		return 5
	case opMul, opDiv:
		return 10
	case opPow:
		return 15
	default:
		return 0
	}
}

// apply combines two operands. Results follow IEEE-754, so division by zero
// gives an infinity or NaN rather than an error.
func (op operator) apply(l, r float32) float32 {
	switch op {
	case opAdd:
		return l + r
	case opSub:
		return l - r
	case opMul:
		return l * r
	case opDiv:
		return l / r
	case opPow:
		return float32(math.Pow(float64(l), float64(r)))
	default:
		panic("formula: apply of invalid operator " + op.String())
	}
}

func (op operator) String() string {
	switch op {
	case opAdd:
		return "+"
	case opSub:
		return "-"
	case opMul:
		return "*"
	case opDiv:
		return "/"
	case opPow:
		return "^"
	default:
		return "?"
	}
}

// funcKind is a builtin unary function.
type funcKind int8

const (
	fnNone funcKind = iota
	fnSin
	fnCos
	fnTan
	fnAbs
)

// funcnames lists the function keywords in the order the call rule tries
// them. Each is matched case-insensitively.
var funcnames = [...]struct {
	name string
	fn   funcKind
}{
	{"sin", fnSin},
	{"cos", fnCos},
	{"tan", fnTan},
	{"abs", fnAbs},
}

func (f funcKind) apply(x float32) float32 {
	switch f {
	case fnSin:
		return float32(math.Sin(float64(x)))
	case fnCos:
		return float32(math.Cos(float64(x)))
	case fnTan:
		return float32(math.Tan(float64(x)))
	case fnAbs:
		return float32(math.Abs(float64(x)))
	default:
		panic("formula: apply of invalid function " + f.String())
	}
}

func (f funcKind) String() string {
	for _, v := range funcnames {
		if v.fn == f {
			return v.name
		}
	}
	return "?"
}
