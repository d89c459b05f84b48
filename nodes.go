package formula

import (
	"strconv"
	"strings"
)

// token is a node in the parse tree of a formula. A formula is a list of
// tokens; calls and groups hold nested lists.
type token struct {
	kind tokenKind

	num int64
	f   float32
	op  operator
	fn  funcKind

	list []token
}

type tokenKind int8

const (
	tokenNone tokenKind = iota

	tokenTime // elapsed time
	tokenX    // point x
	tokenY    // point y
	tokenZ    // point z

	tokenInt   // num
	tokenFloat // f; only produced by substitution
	tokenCall  // fn applied to the reduction of list
	tokenGroup // reduction of list
	tokenOp    // op, meaningful only between values
)

func (k tokenKind) String() string {
	switch k {
	case tokenNone:
		return "None"
	case tokenTime:
		return "Time"
	case tokenX:
		return "X"
	case tokenY:
		return "Y"
	case tokenZ:
		return "Z"
	case tokenInt:
		return "Int"
	case tokenFloat:
		return "Float"
	case tokenCall:
		return "Call"
	case tokenGroup:
		return "Group"
	case tokenOp:
		return "Op"
	default:
		return "tokenKind(" + strconv.Itoa(int(k)) + ")"
	}
}

func (t token) String() string {
	var b strings.Builder
	t.fmt(&b)
	return b.String()
}

func (t token) fmt(b *strings.Builder) {
	switch t.kind {
	case tokenNone:
		// Invalid tokens use invalid characters.
		b.WriteString("$#$")
	case tokenTime:
		b.WriteString("time")
	case tokenX:
		b.WriteByte('x')
	case tokenY:
		b.WriteByte('y')
	case tokenZ:
		b.WriteByte('z')
	case tokenInt:
		b.WriteString(strconv.FormatInt(t.num, 10))
	case tokenFloat:
		b.WriteString(strconv.FormatFloat(float64(t.f), 'g', -1, 32))
	case tokenCall:
		b.WriteString(t.fn.String())
		fmtlist(b, t.list)
	case tokenGroup:
		fmtlist(b, t.list)
	case tokenOp:
		b.WriteString(t.op.String())
	default:
		panic("formula: invalid token kind " + t.kind.String() + " after writing " + b.String())
	}
}

// fmtlist writes a bracketed, space-separated token list.
func fmtlist(b *strings.Builder, list []token) {
	b.WriteByte('(')
	defer b.WriteByte(')')
	fmtseq(b, list)
}

func fmtseq(b *strings.Builder, list []token) {
	for i, t := range list {
		if i > 0 {
			b.WriteByte(' ')
		}
		t.fmt(b)
	}
}

// vars adds the names of the variables used in list to seen.
func vars(list []token, seen map[string]bool) {
	for _, t := range list {
		switch t.kind {
		case tokenTime:
			seen["time"] = true
		case tokenX:
			seen["x"] = true
		case tokenY:
			seen["y"] = true
		case tokenZ:
			seen["z"] = true
		case tokenCall, tokenGroup:
			vars(t.list, seen)
		}
	}
}
