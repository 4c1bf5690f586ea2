package parser

import "github.com/dmagro/jrpcgo/jsonvalue"

// The overflow bounds below mirror get_max_by_10<T>/get_max_mod_10<T>
// from the source parser: the absolute value is accumulated as an
// unsigned 64-bit integer (even for the negative/int64 case, via
// -minInt64's magnitude), and compared digit-by-digit against the
// largest representable value before each multiply-by-10 to catch
// overflow without ever computing an out-of-range intermediate.
const (
	maxUint64 = 1<<64 - 1

	maxByTenU64  = maxUint64 / 10
	maxModTenU64 = maxUint64 % 10

	negIntMagnitude = 1 << 63 // -math.MinInt64, as an unsigned magnitude

	maxByTenI64  = negIntMagnitude / 10
	maxModTenI64 = negIntMagnitude % 10

	digitsMaxU64 = 20 // 1 + digits10(uint64)
	digitsMaxI64 = 19 // 1 + digits10(int64)
)

// readNumber scans a JSON number starting at the current position and
// produces a jsonvalue.Number, preferring an exact integer
// representation and falling back to a double whenever the integer path
// would overflow or the value has a fractional remainder.
func (p *Parser) readNumber() (jsonvalue.Value, error) {
	if p.buf[p.pos] == '-' {
		p.pos++
		p.negative = true
	} else {
		p.negative = false
	}

	if err := p.readIntegralPart(); err != nil {
		return jsonvalue.Value{}, err
	}
	if p.pos < p.end && p.buf[p.pos] == '.' {
		if err := p.readFractionalPart(); err != nil {
			return jsonvalue.Value{}, err
		}
	}
	if p.pos < p.end && (p.buf[p.pos] == 'e' || p.buf[p.pos] == 'E') {
		if err := p.readExponentPart(); err != nil {
			return jsonvalue.Value{}, err
		}
	}

	return jsonvalue.NewNumber(p.writeNumber()), nil
}

func (p *Parser) readIntegralPart() error {
	p.exponent = 0
	p.nonzeroBegin, p.nonzeroEnd = -1, -1

	if p.pos >= p.end {
		return p.err(ErrEndOfFile)
	}
	if !isDigit(p.buf[p.pos]) {
		return p.err(ErrInvalidNumberInteger)
	}
	if p.buf[p.pos] != '0' {
		p.readDigits()
	} else {
		p.pos++
	}
	p.point = p.pos
	return nil
}

func (p *Parser) readFractionalPart() error {
	p.pos++ // consume '.'
	if p.pos >= p.end {
		return p.err(ErrEndOfFile)
	}
	if !isDigit(p.buf[p.pos]) {
		return p.err(ErrInvalidNumberFraction)
	}
	p.readDigits()
	return nil
}

func (p *Parser) readExponentPart() error {
	p.pos++ // consume 'e'/'E'
	if p.pos >= p.end {
		return p.err(ErrEndOfFile)
	}
	switch {
	case isDigit(p.buf[p.pos]):
		return p.readExponentNumber()
	case p.buf[p.pos] == '+':
		p.pos++
		return p.readExponentNumber()
	case p.buf[p.pos] == '-':
		p.pos++
		if err := p.readExponentNumber(); err != nil {
			return err
		}
		p.exponent = -p.exponent
		return nil
	default:
		return p.err(ErrInvalidNumberExponent)
	}
}

func (p *Parser) readExponentNumber() error {
	if p.pos >= p.end {
		return p.err(ErrEndOfFile)
	}
	for p.pos < p.end && isDigit(p.buf[p.pos]) {
		p.exponent = 10*p.exponent + int(p.buf[p.pos]-'0')
		p.pos++
	}
	return nil
}

// readDigits scans a run of digits, tracking the offsets of the first
// and one-past-the-last *nonzero* digit across both the integral and
// fractional parts (nonzeroBegin/nonzeroEnd are cumulative across both
// calls), the same bookkeeping write_number later uses to compute the
// decimal exponent of the significant-digit span.
func (p *Parser) readDigits() {
	for p.pos < p.end && isDigit(p.buf[p.pos]) {
		if p.buf[p.pos] != '0' {
			if p.nonzeroBegin < 0 {
				p.nonzeroBegin = p.pos
			}
			p.nonzeroEnd = p.pos + 1
		}
		p.pos++
	}
}

// writeNumber computes the decimal exponent of the significant-digit
// span and then attempts an exact integer encoding, falling back to a
// double when the integer path reports overflow.
func (p *Parser) writeNumber() jsonvalue.Number {
	if p.nonzeroEnd <= p.point || p.nonzeroBegin > p.point {
		p.length = p.nonzeroEnd - p.nonzeroBegin
	} else {
		p.length = p.nonzeroEnd - p.nonzeroBegin - 1
	}
	p.exponent += p.length

	if p.nonzeroEnd <= p.point {
		p.exponent += p.point - p.nonzeroEnd
	} else {
		p.exponent += p.point - p.nonzeroEnd + 1
	}

	n, overflow := p.writeNumberInteger()
	if overflow {
		return p.writeNumberDouble()
	}
	return n
}

func (p *Parser) writeNumberInteger() (jsonvalue.Number, bool) {
	digitsMax := digitsMaxU64
	if p.negative {
		digitsMax = digitsMaxI64
	}

	var digits int
	switch {
	case p.length == 0:
		digits = 0
	case p.exponent >= p.length:
		digits = p.exponent
	default:
		digits = -1
	}

	if digits < 0 || digits > digitsMax {
		return jsonvalue.Number{}, true
	}

	maxValue, maxMod10 := uint64(maxByTenU64), uint64(maxModTenU64)
	if p.negative {
		maxValue, maxMod10 = uint64(maxByTenI64), uint64(maxModTenI64)
	}

	var value uint64
	overflow := false
	for pos := p.nonzeroBegin; pos < p.nonzeroEnd; pos++ {
		if p.buf[pos] == '.' {
			continue
		}
		mod10 := uint64(p.buf[pos] - '0')
		if value >= maxValue {
			overflow = overflow || value > maxValue || (value == maxValue && mod10 > maxMod10)
		}
		value = value*10 + mod10
		digits--
	}
	for ; digits > 0; digits-- {
		if value > maxValue {
			overflow = true
		}
		value *= 10
	}

	if overflow {
		return jsonvalue.Number{}, true
	}
	if p.negative {
		return jsonvalue.Int64(-int64(value)), false
	}
	return jsonvalue.Uint64(value), false
}

func (p *Parser) writeNumberDouble() jsonvalue.Number {
	var value float64
	exponent := p.exponent
	for pos := p.nonzeroEnd - 1; pos >= p.nonzeroBegin; pos-- {
		if p.buf[pos] == '.' {
			continue
		}
		value = 0.1 * (value + float64(p.buf[pos]-'0'))
	}
	for exponent != 0 {
		if exponent > 0 {
			value *= 10
			exponent--
		} else {
			value /= 10
			exponent++
		}
	}
	if p.negative {
		return jsonvalue.Float64(-value)
	}
	return jsonvalue.Float64(value)
}
