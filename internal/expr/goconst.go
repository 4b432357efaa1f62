package expr

import (
	"fmt"
	"go/constant"
	"go/scanner"
	"go/token"
	"strings"
)

// ConstEvaluator tokenizes arithmetic with go/scanner and folds it with
// go/constant. Intermediate values are exact (integers and rationals of
// arbitrary size); only the final result is rounded to float64.
//
// Sums and products are folded in a loop, so recursion depth grows with
// parenthesis nesting only and very long flat expressions are fine.
type ConstEvaluator struct{}

// NewConstEvaluator returns the go/constant evaluator.
func NewConstEvaluator() *ConstEvaluator {
	return &ConstEvaluator{}
}

// Name returns "goconst".
func (*ConstEvaluator) Name() string { return "goconst" }

// Evaluate parses and folds text.
func (*ConstEvaluator) Evaluate(text string) (float64, error) {
	if strings.TrimSpace(text) == "" {
		return 0, ErrEmpty
	}
	p := newConstParser(text)
	v, err := p.parseSum()
	if err != nil {
		return 0, err
	}
	if p.tok != token.EOF || p.err != nil {
		return 0, p.unexpected()
	}
	f, _ := constant.Float64Val(v)
	return checkFinite(f)
}

type constParser struct {
	scan scanner.Scanner
	tok  token.Token
	lit  string
	pos  token.Pos
	err  error
}

func newConstParser(text string) *constParser {
	src := []byte(text)
	fset := token.NewFileSet()
	file := fset.AddFile("", fset.Base(), len(src))

	p := &constParser{}
	p.scan.Init(file, src, func(pos token.Position, msg string) {
		if p.err == nil {
			p.err = fmt.Errorf("%w: %s at column %d", ErrSyntax, msg, pos.Column)
		}
	}, 0)
	p.next()
	return p
}

// next advances to the following token, skipping the semicolons the
// scanner inserts at line ends.
func (p *constParser) next() {
	for {
		p.pos, p.tok, p.lit = p.scan.Scan()
		if p.tok != token.SEMICOLON || p.lit != "\n" {
			return
		}
	}
}

// parseSum folds term {(+|-) term}.
func (p *constParser) parseSum() (constant.Value, error) {
	x, err := p.parseProduct()
	if err != nil {
		return nil, err
	}
	for p.tok == token.ADD || p.tok == token.SUB {
		op := p.tok
		p.next()
		y, err := p.parseProduct()
		if err != nil {
			return nil, err
		}
		x = constant.BinaryOp(x, op, y)
	}
	return x, nil
}

// parseProduct folds unary {(*|/) unary}.
func (p *constParser) parseProduct() (constant.Value, error) {
	x, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.tok == token.MUL || p.tok == token.QUO {
		op := p.tok
		p.next()
		y, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if op == token.QUO && constant.Sign(y) == 0 {
			return nil, ErrDivisionByZero
		}
		// token.QUO on two integers yields an exact rational.
		x = constant.BinaryOp(x, op, y)
	}
	return x, nil
}

func (p *constParser) parseUnary() (constant.Value, error) {
	if p.tok == token.ADD || p.tok == token.SUB {
		op := p.tok
		p.next()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return constant.UnaryOp(op, x, 0), nil
	}
	return p.parseOperand()
}

func (p *constParser) parseOperand() (constant.Value, error) {
	switch p.tok {
	case token.INT, token.FLOAT:
		v := constant.MakeFromLiteral(p.lit, p.tok, 0)
		if v.Kind() == constant.Unknown {
			return nil, fmt.Errorf("%w: malformed number %s", ErrSyntax, p.lit)
		}
		p.next()
		return v, nil

	case token.LPAREN:
		p.next()
		x, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		if p.tok != token.RPAREN {
			return nil, p.unexpected()
		}
		p.next()
		return x, nil
	}
	return nil, p.unexpected()
}

func (p *constParser) unexpected() error {
	if p.err != nil {
		return p.err
	}
	switch p.tok {
	case token.EOF:
		return fmt.Errorf("%w: unexpected end of expression", ErrSyntax)
	case token.ADD, token.SUB, token.MUL, token.QUO, token.LPAREN, token.RPAREN, token.INT, token.FLOAT:
		return fmt.Errorf("%w: unexpected %s at offset %d", ErrSyntax, p.tok, int(p.pos)-1)
	}
	what := p.lit
	if what == "" {
		what = p.tok.String()
	}
	return fmt.Errorf("%w: %s", ErrUnsupported, what)
}
