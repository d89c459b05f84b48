// Package formula implements the small formula language used to animate points
// in a graph simulation.
//
// A formula is a function of the elapsed simulation time and a point's
// position. "sin(x - time) * 10" moves each point along a sine wave that
// travels with time. The language knows the variables time, x, y, and z,
// non-negative integer literals, the binary operators + - * / ^, and the
// functions sin, cos, tan, and abs. Function names are case-insensitive;
// everything else is lowercase.
//
// Parsing never fails outright. A formula that doesn't parse still compiles to
// a Formula whose every evaluation returns the parse error, so a host can
// replace formulas as the user types and show errors as they happen.
//
// Operators fold left to right with a single look-back: an operator reduces the
// operator before it only when that one binds strictly tighter. "1 + 2 * 3" is
// 7 and "1 * 2 + 3" is 5, but longer mixed chains may group differently than
// in ordinary arithmetic. Use parentheses when it matters.
package formula
