package formula

import (
	"strconv"
	"unicode"
)

// cursor is a position in formula source text. Rules consume from the cursor
// and backtrack by restoring save points.
type cursor struct {
	src []rune
	pos int
}

// savePoint is a snapshot of a cursor's position.
type savePoint struct {
	pos int
}

func newCursor(src string) *cursor {
	return &cursor{src: []rune(src)}
}

// save records the cursor's current position.
func (c *cursor) save() savePoint {
	return savePoint{c.pos}
}

// restore moves the cursor back to a save point.
func (c *cursor) restore(p savePoint) {
	c.pos = p.pos
}

// finished returns whether the cursor is at the end of input.
func (c *cursor) finished() bool {
	return c.pos >= len(c.src)
}

// peek returns the next rune without consuming it, or -1 at the end of input.
func (c *cursor) peek() rune {
	if c.finished() {
		return -1
	}
	return c.src[c.pos]
}

// skipChar consumes exactly one r. Leading whitespace is not skipped. On
// failure, the cursor does not move.
func (c *cursor) skipChar(r rune) error {
	if c.peek() != r {
		return c.error(strconv.QuoteRune(r))
	}
	c.pos++
	return nil
}

// skipWord consumes the literal word w. On failure, the cursor does not move.
func (c *cursor) skipWord(w string) error {
	p := c.save()
	for _, r := range w {
		if c.peek() != r {
			err := c.error(strconv.Quote(w))
			c.restore(p)
			return err
		}
		c.pos++
	}
	return nil
}

// matchFold reports whether the next runes match w ignoring case. It never
// consumes; callers advance with skipN.
func (c *cursor) matchFold(w string) bool {
	k := c.pos
	for _, r := range w {
		if k >= len(c.src) {
			return false
		}
		if unicode.ToLower(c.src[k]) != unicode.ToLower(r) {
			return false
		}
		k++
	}
	return true
}

// skipN consumes up to n runes.
func (c *cursor) skipN(n int) {
	c.pos += n
	if c.pos > len(c.src) {
		c.pos = len(c.src)
	}
}

// popDigit consumes and returns one ASCII digit.
func (c *cursor) popDigit() (rune, error) {
	r := c.peek()
	if r < '0' || r > '9' {
		return 0, c.error("digit")
	}
	c.pos++
	return r, nil
}

// skipSpace consumes any amount of whitespace, including none.
func (c *cursor) skipSpace() {
	for !c.finished() && unicode.IsSpace(c.src[c.pos]) {
		c.pos++
	}
}

// error creates an error for finding something other than want at the
// current position.
func (c *cursor) error(want string) error {
	return &CharError{Col: c.pos + 1, Want: want, Found: c.peek()}
}
