package calculator

import (
	"errors"
	"fmt"
)

// Operation identifies an operation key of the calculator.
type Operation int

// Operations accepted by Engine.PerformOperation.
const (
	OpEquals Operation = iota
	OpSqrt
	OpSquare
	OpMod
	OpExp
	OpLn
	OpLog
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
)

// ErrUnknownOperation is returned by ParseOperation for unrecognized tokens.
var ErrUnknownOperation = errors.New("unknown operation")

var operationTokens = [...]string{
	OpEquals:   "=",
	OpSqrt:     "sqrt",
	OpSquare:   "square",
	OpMod:      "mod",
	OpExp:      "exp",
	OpLn:       "ln",
	OpLog:      "log",
	OpAdd:      "+",
	OpSubtract: "-",
	OpMultiply: "*",
	OpDivide:   "/",
}

// String returns the token of the operation as typed by a user.
func (o Operation) String() string {
	if !o.Valid() {
		return fmt.Sprintf("Operation(%d)", int(o))
	}
	return operationTokens[o]
}

// Valid reports whether o is one of the declared operations.
func (o Operation) Valid() bool {
	return o >= OpEquals && o <= OpDivide
}

// IsBinary reports whether o takes a left and a right operand.
func (o Operation) IsBinary() bool {
	switch o {
	case OpAdd, OpSubtract, OpMultiply, OpDivide:
		return true
	}
	return false
}

// Operations returns every declared operation in declaration order.
func Operations() []Operation {
	ops := make([]Operation, 0, len(operationTokens))
	for i := range operationTokens {
		ops = append(ops, Operation(i))
	}
	return ops
}

// ParseOperation maps a token such as "+" or "sqrt" to its Operation.
func ParseOperation(token string) (Operation, error) {
	for i, t := range operationTokens {
		if t == token {
			return Operation(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownOperation, token)
}
