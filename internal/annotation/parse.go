package annotation

import (
	"fmt"
	"go/scanner"
	"go/token"
	"strconv"
	"strings"

	"deriver/internal/diagnostic"
)

// DirectivePrefix starts a derive directive comment line. The verb after
// the prefix is lower case so that gofmt keeps the line as a directive.
const DirectivePrefix = "//" + Attribute + ":"

// Directive verbs.
const (
	// VerbUse carries attribute items: `//derive:use Default(new), DerefMut`.
	VerbUse = "use"
	// VerbKind sets the aggregate kind: `//derive:kind union`.
	VerbKind = "kind"
)

// Parse parses a single attribute such as `derive(Default(new), DerefMut)`.
// pos is the position of the first character of src.
func Parse(src string, pos diagnostic.Position) (*Meta, error) {
	p := newParser(src, pos)

	m, err := p.parseMeta()
	if err != nil {
		return nil, err
	}

	if p.tok != token.EOF {
		return nil, p.errorf("unexpected %s after attribute", p.describe())
	}

	return m, nil
}

// ParseDirective parses the item list of a use directive or struct tag into
// a `derive(...)` attribute.
func ParseDirective(items string, pos diagnostic.Position) (*Meta, error) {
	p := newParser(items, pos)

	list, err := p.parseItems(token.EOF)
	if err != nil {
		return nil, err
	}

	return &Meta{Name: Attribute, Kind: KindList, Items: list, Pos: pos}, nil
}

// SplitDirective reports whether a comment line is a derive directive and
// returns its verb and the trimmed arguments.
func SplitDirective(comment string) (verb, args string, ok bool) {
	rest, ok := strings.CutPrefix(comment, DirectivePrefix)
	if !ok {
		return "", "", false
	}

	verb, args, _ = strings.Cut(rest, " ")

	return verb, strings.TrimSpace(args), true
}

type parser struct {
	scan scanner.Scanner
	file *token.File
	base diagnostic.Position
	err  error

	pos token.Pos
	tok token.Token
	lit string
}

func newParser(src string, base diagnostic.Position) *parser {
	fset := token.NewFileSet()
	file := fset.AddFile(base.File, -1, len(src))

	p := &parser{file: file, base: base}
	p.scan.Init(file, []byte(src), func(_ token.Position, msg string) {
		if p.err == nil {
			p.err = fmt.Errorf("%s", msg)
		}
	}, 0)
	p.next()

	return p
}

func (p *parser) next() {
	p.pos, p.tok, p.lit = p.scan.Scan()
	// The scanner inserts semicolons at line ends; directives are single expressions.
	if p.tok == token.SEMICOLON && p.lit == "\n" {
		p.pos, p.tok, p.lit = p.scan.Scan()
	}
}

func (p *parser) position() diagnostic.Position {
	return p.base.Advance(p.file.Offset(p.pos))
}

func (p *parser) describe() string {
	switch p.tok {
	case token.EOF:
		return "end of input"
	case token.IDENT, token.STRING, token.INT, token.FLOAT, token.CHAR:
		return strconv.Quote(p.lit)
	default:
		return strconv.Quote(p.tok.String())
	}
}

func (p *parser) errorf(format string, args ...any) error {
	detail := fmt.Sprintf(format, args...)
	if p.err != nil {
		detail = p.err.Error()
	}

	return diagnostic.MalformedAnnotationTree(detail, p.position())
}

func (p *parser) parseMeta() (*Meta, error) {
	if p.tok != token.IDENT {
		return nil, p.errorf("expected attribute name, found %s", p.describe())
	}

	m := &Meta{Name: p.lit, Kind: KindMarker, Pos: p.position()}
	p.next()

	switch p.tok {
	case token.LPAREN:
		p.next()

		items, err := p.parseItems(token.RPAREN)
		if err != nil {
			return nil, err
		}

		p.next()

		m.Kind = KindList
		m.Items = items
	case token.ASSIGN:
		p.next()

		lit, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}

		m.Kind = KindKeyValue
		m.Value = *lit
	}

	return m, nil
}

// parseItems parses comma separated items up to (not consuming) end.
func (p *parser) parseItems(end token.Token) ([]Item, error) {
	var items []Item

	for p.tok != end {
		if p.tok == token.EOF {
			return nil, p.errorf("unterminated list")
		}

		item, err := p.parseItem()
		if err != nil {
			return nil, err
		}

		items = append(items, item)

		if p.tok == token.COMMA {
			p.next()
			continue
		}

		if p.tok != end {
			return nil, p.errorf("expected ',' or %q, found %s", end.String(), p.describe())
		}
	}

	if p.err != nil {
		return nil, p.errorf("")
	}

	return items, nil
}

func (p *parser) parseItem() (Item, error) {
	if p.tok == token.IDENT && p.lit != "true" && p.lit != "false" {
		m, err := p.parseMeta()
		if err != nil {
			return Item{}, err
		}

		return Item{Meta: m}, nil
	}

	lit, err := p.parseLiteral()
	if err != nil {
		return Item{}, err
	}

	return Item{Lit: lit}, nil
}

func (p *parser) parseLiteral() (*Literal, error) {
	lit := &Literal{Pos: p.position(), Value: p.lit}

	switch p.tok {
	case token.STRING:
		s, err := strconv.Unquote(p.lit)
		if err != nil {
			return nil, p.errorf("invalid string literal %s", p.lit)
		}

		lit.Kind = LitString
		lit.Value = s
	case token.INT:
		lit.Kind = LitInt
	case token.SUB:
		p.next()

		if p.tok != token.INT {
			return nil, p.errorf("expected integer after '-', found %s", p.describe())
		}

		lit.Kind = LitInt
		lit.Value = "-" + p.lit
	case token.IDENT:
		if p.lit != "true" && p.lit != "false" {
			return nil, p.errorf("expected literal, found %s", p.describe())
		}

		lit.Kind = LitBool
	default:
		return nil, p.errorf("expected literal, found %s", p.describe())
	}

	p.next()

	return lit, nil
}
