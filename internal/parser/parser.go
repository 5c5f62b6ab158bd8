package parser

import (
	"fmt"
	"strconv"

	"github.com/colexpr/colexpr/internal/expr"
	"github.com/colexpr/colexpr/internal/types"
)

// Parser builds an expression tree from text, resolving identifiers to
// column indices through the supplied mapping.
type Parser struct {
	lexer   *Lexer
	tok     Token
	columns map[string]int
}

// Parse parses an expression over the named columns.
func Parse(input string, columns map[string]int) (expr.Node, error) {
	p := &Parser{lexer: NewLexer(input), columns: columns}
	if err := p.advance(); err != nil {
		return nil, err
	}
	node, err := p.parseBinary(0)
	if err != nil {
		return nil, err
	}
	if p.tok.Type != TokenEOF {
		return nil, fmt.Errorf("unexpected %q at position %d", p.tok.Text, p.tok.Pos)
	}
	return node, nil
}

func (p *Parser) advance() error {
	tok, err := p.lexer.Next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

// binding powers, loosest first
var precedence = map[TokenType]int{
	TokenOr:           1,
	TokenAnd:          2,
	TokenEqual:        3,
	TokenNotEqual:     3,
	TokenLess:         4,
	TokenLessEqual:    4,
	TokenGreater:      4,
	TokenGreaterEqual: 4,
	TokenPlus:         5,
	TokenMinus:        5,
	TokenStar:         6,
	TokenSlash:        6,
	TokenPercent:      6,
}

var binaryOps = map[TokenType]expr.OpCode{
	TokenOr:           expr.OpLogicalOr,
	TokenAnd:          expr.OpLogicalAnd,
	TokenEqual:        expr.OpEqual,
	TokenNotEqual:     expr.OpNotEqual,
	TokenLess:         expr.OpLess,
	TokenLessEqual:    expr.OpLessEqual,
	TokenGreater:      expr.OpGreater,
	TokenGreaterEqual: expr.OpGreaterEqual,
	TokenPlus:         expr.OpAdd,
	TokenMinus:        expr.OpSub,
	TokenStar:         expr.OpMul,
	TokenSlash:        expr.OpDiv,
	TokenPercent:      expr.OpMod,
}

// parseBinary is a precedence climber: it consumes operators binding at
// least as tightly as minPrec, recursing with one level tighter for the
// right operand so equal-precedence operators associate left.
func (p *Parser) parseBinary(minPrec int) (expr.Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		prec, ok := precedence[p.tok.Type]
		if !ok || prec < minPrec {
			return left, nil
		}
		op := binaryOps[p.tok.Type]
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseBinary(prec + 1)
		if err != nil {
			return nil, err
		}
		left, err = expr.NewOperation(op, left, right)
		if err != nil {
			return nil, err
		}
	}
}

func (p *Parser) parseUnary() (expr.Node, error) {
	switch p.tok.Type {
	case TokenMinus:
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return expr.NewOperation(expr.OpNegate, operand)
	case TokenNot:
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return expr.NewOperation(expr.OpNot, operand)
	default:
		return p.parsePrimary()
	}
}

func (p *Parser) parsePrimary() (expr.Node, error) {
	tok := p.tok
	switch tok.Type {
	case TokenLParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		node, err := p.parseBinary(0)
		if err != nil {
			return nil, err
		}
		if p.tok.Type != TokenRParen {
			return nil, fmt.Errorf("expected ')' at position %d", p.tok.Pos)
		}
		return node, p.advance()
	case TokenInt:
		v, err := strconv.ParseInt(tok.Text, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad integer literal %q: %v", tok.Text, err)
		}
		return expr.NewLiteral(types.NewInt64Scalar(v)), p.advance()
	case TokenFloat:
		v, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			return nil, fmt.Errorf("bad float literal %q: %v", tok.Text, err)
		}
		return expr.NewLiteral(types.NewFloat64Scalar(v)), p.advance()
	case TokenTrue:
		return expr.NewLiteral(types.NewBoolScalar(true)), p.advance()
	case TokenFalse:
		return expr.NewLiteral(types.NewBoolScalar(false)), p.advance()
	case TokenIdent:
		col, ok := p.columns[tok.Text]
		if !ok {
			return nil, fmt.Errorf("unknown column %q at position %d", tok.Text, tok.Pos)
		}
		return expr.NewColumnRef(col), p.advance()
	default:
		return nil, fmt.Errorf("unexpected %q at position %d", tok.Text, tok.Pos)
	}
}
