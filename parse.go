package formula

import (
	"sort"
	"strconv"
	"strings"
)

// Formula = { Token }
// Token = Call | Group | Op | "time" | "x" | "y" | "z" | Int
// Call = ( "sin" | "cos" | "tan" | "abs" ) "(" { Token } ")"
// Group = "(" { Token } ")"
// Op = "+" | "*" | "-" | "/" | "^"
// Int = digit { digit }
//
// Function names are case-insensitive. Whitespace may precede any Token.

// rule is one alternative for parsing a token.
type rule int8

const (
	ruleCall rule = iota
	ruleGroup
	ruleOp
	ruleTime
	ruleX
	ruleY
	ruleZ
	ruleInt
)

// rules is the order in which alternatives are tried. Calls and groups come
// before the terminals so that keywords are never split into letters.
var rules = [...]rule{ruleCall, ruleGroup, ruleOp, ruleTime, ruleX, ruleY, ruleZ, ruleInt}

// parse applies a single rule. On error, the cursor may be anywhere.
func (r rule) parse(p *Parser, c *cursor) (token, error) {
	switch r {
	case ruleCall:
		return p.parsecall(c)
	case ruleGroup:
		return p.parsegroup(c)
	case ruleOp:
		return parseop(c)
	case ruleTime:
		return parseword(c, "time", tokenTime)
	case ruleX:
		return parsechar(c, 'x', tokenX)
	case ruleY:
		return parsechar(c, 'y', tokenY)
	case ruleZ:
		return parsechar(c, 'z', tokenZ)
	case ruleInt:
		return parseint(c)
	default:
		panic("formula: invalid rule " + strconv.Itoa(int(r)))
	}
}

// Parser compiles formulas. It holds no state between calls to Parse, so a
// Parser is safe for concurrent use.
type Parser struct{}

// NewParser creates a parser for the formula language.
func NewParser() *Parser {
	return &Parser{}
}

var defaultParser = NewParser()

// Compile compiles a formula using a shared parser.
func Compile(src string) Formula {
	return defaultParser.Parse(src)
}

// Parse compiles a formula. Parsing does not fail; if src is not a valid
// formula, the result is a Formula that returns the parse error from every
// evaluation.
func (p *Parser) Parse(src string) Formula {
	c := newCursor(src)
	var list []token
	for {
		c.skipSpace()
		if c.finished() {
			return Formula{tokens: list}
		}
		t, err := p.parseToken(c)
		if err != nil {
			return Formula{err: err}
		}
		list = append(list, t)
	}
}

// parseToken tries each rule in order, skipping whitespace before each
// attempt and backtracking after each failure. If every rule fails, the
// result is the error from the last one.
func (p *Parser) parseToken(c *cursor) (token, error) {
	sp := c.save()
	var err error
	for _, r := range rules {
		c.skipSpace()
		var t token
		t, err = r.parse(p, c)
		if err == nil {
			return t, nil
		}
		c.restore(sp)
	}
	return token{}, err
}

// parsecall parses a builtin function call.
func (p *Parser) parsecall(c *cursor) (token, error) {
	fn := fnNone
	var name string
	for _, v := range funcnames {
		if c.matchFold(v.name) {
			fn, name = v.fn, v.name
			break
		}
	}
	if fn == fnNone {
		return token{}, c.error("sin, cos, tan, or abs")
	}
	c.skipN(len(name))
	if err := c.skipChar('('); err != nil {
		return token{}, err
	}
	list, err := p.parselist(c)
	if err != nil {
		return token{}, err
	}
	return token{kind: tokenCall, fn: fn, list: list}, nil
}

// parsegroup parses a parenthesized token list.
func (p *Parser) parsegroup(c *cursor) (token, error) {
	if err := c.skipChar('('); err != nil {
		return token{}, err
	}
	list, err := p.parselist(c)
	if err != nil {
		return token{}, err
	}
	return token{kind: tokenGroup, list: list}, nil
}

// parselist parses tokens after an open parenthesis until one of them fails,
// then requires the close parenthesis. There are no separators.
func (p *Parser) parselist(c *cursor) ([]token, error) {
	var list []token
	for {
		c.skipSpace()
		t, err := p.parseToken(c)
		if err != nil {
			if c.skipChar(')') == nil {
				return list, nil
			}
			return nil, err
		}
		list = append(list, t)
	}
}

func parseop(c *cursor) (token, error) {
	for _, r := range Operators {
		if c.skipChar(r) == nil {
			return token{kind: tokenOp, op: binop(r)}, nil
		}
	}
	return token{}, c.error("one of " + strconv.Quote(Operators))
}

func parseword(c *cursor, w string, kind tokenKind) (token, error) {
	if err := c.skipWord(w); err != nil {
		return token{}, err
	}
	return token{kind: kind}, nil
}

func parsechar(c *cursor, r rune, kind tokenKind) (token, error) {
	if err := c.skipChar(r); err != nil {
		return token{}, err
	}
	return token{kind: kind}, nil
}

func parseint(c *cursor) (token, error) {
	col := c.pos + 1
	d, err := c.popDigit()
	if err != nil {
		return token{}, err
	}
	var b strings.Builder
	b.WriteRune(d)
	for {
		d, err := c.popDigit()
		if err != nil {
			break
		}
		b.WriteRune(d)
	}
	n, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil {
		return token{}, &NumberError{Col: col, Text: b.String(), Err: err}
	}
	return token{kind: tokenInt, num: n}, nil
}

// Formula is a compiled formula. It holds either a parsed token list or the
// error from parsing. A Formula is immutable and safe to share between
// goroutines. The zero Formula is an empty formula.
type Formula struct {
	tokens []token
	err    error
}

// Err returns the parse error, if the formula failed to compile.
func (f Formula) Err() error {
	return f.err
}

// Vars returns the sorted names of the variables the formula uses.
func (f Formula) Vars() []string {
	seen := make(map[string]bool, 4)
	vars(f.tokens, seen)
	if len(seen) == 0 {
		return nil
	}
	r := make([]string, 0, len(seen))
	for k := range seen {
		r = append(r, k)
	}
	sort.Strings(r)
	return r
}

// String formats the parsed formula with one space between tokens. A failed
// formula formats as its error between dollar signs.
func (f Formula) String() string {
	if f.err != nil {
		return "$" + f.err.Error() + "$"
	}
	var b strings.Builder
	fmtseq(&b, f.tokens)
	return b.String()
}
