package parser

import (
	"github.com/dmagro/jrpcgo/arena"
	"github.com/dmagro/jrpcgo/jsonvalue"
)

// DefaultMaxDepth bounds array/object nesting when a Parser is built
// without an explicit WithMaxDepth option. It exists only to keep a
// maliciously deep document from overflowing the goroutine stack; 0
// (via WithMaxDepth(0)) disables the check entirely.
const DefaultMaxDepth = 512

// Parser turns a byte slice into a jsonvalue.Value tree. The zero value
// is not usable; construct one with New.
type Parser struct {
	buf   []byte
	pos   int
	end   int
	alloc arena.Allocator

	stream   bool
	maxDepth int
	depth    int

	// number-scan scratch, reset per read_number call.
	negative              bool
	nonzeroBegin, nonzeroEnd int
	point, exponent, length  int
}

// Option configures a Parser at construction time.
type Option func(*Parser)

// WithStreamMode tolerates trailing bytes after the first complete value
// instead of treating them as an error — for a caller reading a
// concatenated stream of JSON values off a single buffer/connection.
func WithStreamMode(stream bool) Option {
	return func(p *Parser) { p.stream = stream }
}

// WithMaxDepth overrides DefaultMaxDepth. 0 disables the nesting guard.
func WithMaxDepth(depth int) Option {
	return func(p *Parser) { p.maxDepth = depth }
}

// New builds a Parser over buf. alloc backs every string/array/object
// allocation the resulting Value tree makes; nil is accepted and falls
// back to plain Go heap allocation for strings (see jsonvalue.NewStringBytes).
func New(alloc arena.Allocator, buf []byte, opts ...Option) *Parser {
	p := &Parser{
		buf:      buf,
		pos:      0,
		end:      len(buf),
		alloc:    alloc,
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.depth = p.maxDepth
	return p
}

// Parse consumes the buffer and returns the parsed Value. In non-stream
// mode, trailing non-whitespace bytes after the value are an error
// (ErrExtraCharacter); in stream mode they are left for a subsequent
// Parser/Parse call (see Remaining).
func Parse(alloc arena.Allocator, buf []byte, opts ...Option) (jsonvalue.Value, error) {
	return New(alloc, buf, opts...).Parse()
}

// Remaining returns the unconsumed tail of the buffer after a successful
// Parse in stream mode.
func (p *Parser) Remaining() []byte {
	return p.buf[p.pos:p.end]
}

func (p *Parser) err(code ErrorCode) error {
	offset := p.pos
	if code == ErrEndOfFile {
		offset = p.end
	}
	return &Error{Code: code, Offset: offset}
}

// Parse runs the parser to completion.
func (p *Parser) Parse() (jsonvalue.Value, error) {
	p.readWhitespace()
	if p.pos >= p.end {
		return jsonvalue.Value{}, p.err(ErrEmptyDocument)
	}

	v, err := p.readValue()
	if err != nil {
		return jsonvalue.Value{}, err
	}

	p.readWhitespace()
	if p.pos < p.end && !p.stream {
		return jsonvalue.Value{}, p.err(ErrExtraCharacter)
	}
	return v, nil
}

func isWhitespace(ch byte) bool {
	return ch == ' ' || ch == '\n' || ch == '\r' || ch == '\t'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func (p *Parser) readWhitespace() {
	for p.pos < p.end && isWhitespace(p.buf[p.pos]) {
		p.pos++
	}
}

// readValue dispatches on the first byte of the next value, the Go
// equivalent of the source parser's linear-scan dispatch table: a
// switch compiles to a comparably cheap jump table and needs no
// method-pointer indirection.
func (p *Parser) readValue() (jsonvalue.Value, error) {
	p.readWhitespace()
	if p.pos >= p.end {
		return jsonvalue.Value{}, p.err(ErrEndOfFile)
	}

	switch ch := p.buf[p.pos]; {
	case ch == '{':
		return p.readObject()
	case ch == '[':
		return p.readArray()
	case ch == '"':
		return p.readString()
	case ch == 't':
		return p.readTrue()
	case ch == 'f':
		return p.readFalse()
	case ch == 'n':
		return p.readNull()
	case ch == '-' || isDigit(ch):
		return p.readNumber()
	default:
		return jsonvalue.Value{}, p.err(ErrMissValue)
	}
}

func (p *Parser) enterNesting() error {
	if p.maxDepth == 0 {
		return nil
	}
	p.depth--
	if p.depth <= 0 {
		return p.err(ErrStackLimitReached)
	}
	return nil
}

func (p *Parser) exitNesting() {
	if p.maxDepth != 0 {
		p.depth++
	}
}

func (p *Parser) readArray() (jsonvalue.Value, error) {
	p.pos++ // consume '['
	p.readWhitespace()
	if p.pos >= p.end {
		return jsonvalue.Value{}, p.err(ErrEndOfFile)
	}

	arr := jsonvalue.NewArray(p.alloc)
	if p.buf[p.pos] == ']' {
		p.pos++
		return arr, nil
	}

	if err := p.enterNesting(); err != nil {
		return jsonvalue.Value{}, err
	}
	defer p.exitNesting()

	for {
		elt, err := p.readValue()
		if err != nil {
			return jsonvalue.Value{}, err
		}
		if err := arr.Append(elt); err != nil {
			return jsonvalue.Value{}, p.err(ErrStackLimitReached)
		}
		p.readWhitespace()
		if p.pos >= p.end {
			return jsonvalue.Value{}, p.err(ErrEndOfFile)
		}
		switch p.buf[p.pos] {
		case ',':
			p.pos++
			p.readWhitespace()
			continue
		case ']':
			p.pos++
			return arr, nil
		default:
			return jsonvalue.Value{}, p.err(ErrMissSquareClose)
		}
	}
}

func (p *Parser) readObject() (jsonvalue.Value, error) {
	p.pos++ // consume '{'
	p.readWhitespace()
	if p.pos >= p.end {
		return jsonvalue.Value{}, p.err(ErrEndOfFile)
	}

	obj := jsonvalue.NewObject(p.alloc)
	if p.buf[p.pos] == '}' {
		p.pos++
		return obj, nil
	}

	if err := p.enterNesting(); err != nil {
		return jsonvalue.Value{}, err
	}
	defer p.exitNesting()

	for {
		if err := p.expectQuote(); err != nil {
			return jsonvalue.Value{}, err
		}
		key, err := p.readString()
		if err != nil {
			return jsonvalue.Value{}, err
		}
		if err := p.expectColon(); err != nil {
			return jsonvalue.Value{}, err
		}
		val, err := p.readValue()
		if err != nil {
			return jsonvalue.Value{}, err
		}
		keyStr, _ := key.Str()
		// AppendField, not Field: a repeated key must produce a second
		// Pair, not overwrite the first in place, so the object's
		// tail-scan lookup resolves to whichever occurrence was written
		// last, matching the source parser's read_object_member.
		obj.AppendField(keyStr, val)

		p.readWhitespace()
		if p.pos >= p.end {
			return jsonvalue.Value{}, p.err(ErrEndOfFile)
		}
		switch p.buf[p.pos] {
		case ',':
			p.pos++
			p.readWhitespace()
			continue
		case '}':
			p.pos++
			return obj, nil
		default:
			return jsonvalue.Value{}, p.err(ErrMissCurlyClose)
		}
	}
}

func (p *Parser) expectColon() error {
	p.readWhitespace()
	if p.pos >= p.end {
		return p.err(ErrEndOfFile)
	}
	if p.buf[p.pos] != ':' {
		return p.err(ErrMissColon)
	}
	p.pos++
	return nil
}

func (p *Parser) expectQuote() error {
	p.readWhitespace()
	if p.pos >= p.end {
		return p.err(ErrEndOfFile)
	}
	if p.buf[p.pos] != '"' {
		return p.err(ErrMissQuote)
	}
	return nil
}

var (
	litTrue  = []byte("true")
	litFalse = []byte("false")
	litNull  = []byte("null")
)

func (p *Parser) matchLiteral(lit []byte, mismatch ErrorCode) error {
	if p.pos+len(lit) > p.end {
		return p.err(ErrEndOfFile)
	}
	for i, c := range lit {
		if p.buf[p.pos+i] != c {
			return p.err(mismatch)
		}
	}
	p.pos += len(lit)
	return nil
}

func (p *Parser) readTrue() (jsonvalue.Value, error) {
	if err := p.matchLiteral(litTrue, ErrNotMatchTrue); err != nil {
		return jsonvalue.Value{}, err
	}
	return jsonvalue.NewBool(true), nil
}

func (p *Parser) readFalse() (jsonvalue.Value, error) {
	if err := p.matchLiteral(litFalse, ErrNotMatchFalse); err != nil {
		return jsonvalue.Value{}, err
	}
	return jsonvalue.NewBool(false), nil
}

func (p *Parser) readNull() (jsonvalue.Value, error) {
	if err := p.matchLiteral(litNull, ErrNotMatchNull); err != nil {
		return jsonvalue.Value{}, err
	}
	return jsonvalue.Null(), nil
}
