// Package calculator implements the keypad calculator engine: a small mutable
// state machine holding the value being typed, the left operand of a single
// pending binary operation, and a display expression.
//
// Binary operations chain strictly left to right, so "2 + 3 * 4 =" yields 20.
// Errors never cross the public API: division by zero, invalid unary inputs
// and failed expression evaluations all leave NaN in the current value, which
// GetValue reports as "Error" until Clear is called.
package calculator
