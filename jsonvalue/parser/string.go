package parser

import "github.com/dmagro/jrpcgo/jsonvalue"

const (
	highSurrogateMin = 0xD800
	highSurrogateMax = 0xDBFF
	lowSurrogateMin  = 0xDC00
	lowSurrogateMax  = 0xDFFF
)

func isHighSurrogate(c uint32) bool { return c >= highSurrogateMin && c <= highSurrogateMax }
func isLowSurrogate(c uint32) bool  { return c >= lowSurrogateMin && c <= lowSurrogateMax }

func decodeSurrogatePair(hi, lo uint32) uint32 {
	return 0x10000 + ((hi - highSurrogateMin) << 10) + (lo - lowSurrogateMin)
}

// utf8Len reports how many UTF-8 bytes a codepoint encodes to, under
// this package's encoding rules (see encodeUTF8).
func utf8Len(cp uint32) int {
	switch {
	case cp < 0x80:
		return 1
	case cp < 0x800:
		return 2
	case cp < 0x10000:
		return 3
	default:
		return 4
	}
}

// encodeUTF8 writes cp's UTF-8 encoding into dst starting at w, returning
// the new write offset.
func encodeUTF8(dst []byte, w int, cp uint32) int {
	switch {
	case cp < 0x80:
		dst[w] = byte(cp)
		return w + 1
	case cp < 0x800:
		dst[w] = byte(0xC0 | (0x1F & (cp >> 6)))
		dst[w+1] = byte(0x80 | (0x3F & cp))
		return w + 2
	case cp < 0x10000:
		dst[w] = byte(0xE0 | (0x0F & (cp >> 12)))
		dst[w+1] = byte(0x80 | (0x3F & (cp >> 6)))
		dst[w+2] = byte(0x80 | (0x3F & cp))
		return w + 3
	default:
		dst[w] = byte(0xF0 | (0x07 & (cp >> 18)))
		dst[w+1] = byte(0x80 | (0x3F & (cp >> 12)))
		dst[w+2] = byte(0x80 | (0x3F & (cp >> 6)))
		dst[w+3] = byte(0x80 | (0x3F & cp))
		return w + 4
	}
}

// readHex4 reads exactly 4 hex digits at the current position.
func (p *Parser) readHex4() (uint32, error) {
	if p.pos+4 > p.end {
		return 0, p.err(ErrEndOfFile)
	}
	var code uint32
	for i := 0; i < 4; i++ {
		ch := p.buf[p.pos]
		var digit uint32
		switch {
		case ch >= '0' && ch <= '9':
			digit = uint32(ch - '0')
		case ch >= 'A' && ch <= 'F':
			digit = uint32(ch-'A') + 0xA
		case ch >= 'a' && ch <= 'f':
			digit = uint32(ch-'a') + 0xA
		default:
			return 0, p.err(ErrInvalidUnicode)
		}
		code = (code << 4) | digit
		p.pos++
	}
	return code, nil
}

// readUnicodeEscape reads a \uXXXX escape (the current position must be
// just past the "\u"), looks ahead for an immediately following \uXXXX
// low surrogate, and combines them if valid. This lookahead runs
// identically during the counting pass and the decode pass so the two
// passes always agree on how many bytes the escape contributes — the
// allocated destination buffer can never be undersized.
func (p *Parser) readUnicodeEscape() (uint32, error) {
	code, err := p.readHex4()
	if err != nil {
		return 0, err
	}
	if isHighSurrogate(code) && p.pos+1 < p.end && p.buf[p.pos] == '\\' && p.buf[p.pos+1] == 'u' {
		save := p.pos
		p.pos += 2
		low, err := p.readHex4()
		if err != nil {
			return 0, err
		}
		if isLowSurrogate(low) {
			return decodeSurrogatePair(code, low), nil
		}
		p.pos = save
	}
	return code, nil
}

// countStringChars scans from the current position (just past the
// opening quote) to the closing quote, returning the exact number of
// UTF-8 bytes the decoded string will occupy, without writing anything.
// The scan consumes the same escape sequences the decode pass in
// readString will, so position bookkeeping (and any \uXXXX pairing
// decision) is identical between the two passes.
func (p *Parser) countStringChars() (int, error) {
	count := 0
	for p.pos < p.end && p.buf[p.pos] != '"' {
		ch := p.buf[p.pos]
		if ch != '\\' {
			p.pos++
			count++
			continue
		}
		p.pos++
		if p.pos >= p.end {
			return 0, p.err(ErrEndOfFile)
		}
		esc := p.buf[p.pos]
		if esc != 'u' {
			p.pos++
			count++
			continue
		}
		p.pos++
		cp, err := p.readUnicodeEscape()
		if err != nil {
			return 0, err
		}
		count += utf8Len(cp)
	}
	if p.pos >= p.end {
		return 0, p.err(ErrEndOfFile)
	}
	return count, nil
}

// readString decodes a quoted JSON string starting at the current
// position (which must point at the opening quote). It scans twice:
// once to size the destination exactly (countStringChars), once to
// decode into it, so a single allocation from the Parser's arena
// (or the Go heap, if built without one) satisfies the whole string.
func (p *Parser) readString() (jsonvalue.Value, error) {
	if p.pos >= p.end || p.buf[p.pos] != '"' {
		return jsonvalue.Value{}, p.err(ErrMissQuote)
	}
	p.pos++ // consume opening quote
	start := p.pos

	count, err := p.countStringChars()
	if err != nil {
		return jsonvalue.Value{}, err
	}
	p.pos = start

	var dst []byte
	if count > 0 {
		if p.alloc != nil {
			dst = p.alloc.Allocate(count)
		}
		if dst == nil {
			dst = make([]byte, count)
		}
		dst = dst[:count]
	}

	w := 0
	for {
		if p.pos >= p.end {
			return jsonvalue.Value{}, p.err(ErrEndOfFile)
		}
		ch := p.buf[p.pos]
		p.pos++
		if ch == '"' {
			break
		}
		if ch != '\\' {
			dst[w] = ch
			w++
			continue
		}
		if p.pos >= p.end {
			return jsonvalue.Value{}, p.err(ErrEndOfFile)
		}
		esc := p.buf[p.pos]
		p.pos++
		switch esc {
		case '"', '\\', '/':
			dst[w] = esc
			w++
		case 'n':
			dst[w] = '\n'
			w++
		case 'r':
			dst[w] = '\r'
			w++
		case 't':
			dst[w] = '\t'
			w++
		case 'b':
			dst[w] = '\b'
			w++
		case 'f':
			dst[w] = '\f'
			w++
		case 'u':
			cp, err := p.readUnicodeEscape()
			if err != nil {
				return jsonvalue.Value{}, err
			}
			w = encodeUTF8(dst, w, cp)
		default:
			return jsonvalue.Value{}, p.err(ErrInvalidEscape)
		}
	}

	return jsonvalue.NewStringOwned(p.alloc, dst), nil
}
