package pattern

import (
	"unicode"
	"unicode/utf8"
)

// Parse compiles IDA-style pattern text into units, one per token.
//
// Token forms:
//
//	AB      exact byte (digits are case-insensitive)
//	?  ??   full wildcard
//	A?      high nibble fixed, low nibble wildcard (matches 0xA0-0xAF)
//	?B      low nibble fixed, high nibble wildcard
//
// On failure Parse returns a nil slice and a *ParseError; no partial result is
// ever produced. Text that holds no tokens at all is rejected with
// UnexpectedToken at the end of input, since a needle must be non-empty.
func Parse(text string) ([]Unit, error) {
	units := make([]Unit, 0, len(text)/3+1)

	pos := 0
	for {
		start, end := nextToken(text, pos)
		if start == end {
			break
		}
		unit, err := parseToken(text, start, end)
		if err != nil {
			return nil, err
		}
		units = append(units, unit)
		pos = end
	}

	if len(units) == 0 {
		return nil, newError(UnexpectedToken, text, len(text), len(text))
	}
	return units, nil
}

// Validate reports the first error Parse would return for text.
func Validate(text string) error {
	_, err := Parse(text)
	return err
}

// nextToken returns the byte range of the next whitespace-delimited token at
// or after pos. start == end means the input is exhausted.
func nextToken(text string, pos int) (start, end int) {
	for pos < len(text) {
		r, size := utf8.DecodeRuneInString(text[pos:])
		if !unicode.IsSpace(r) {
			break
		}
		pos += size
	}
	start = pos
	for pos < len(text) {
		r, size := utf8.DecodeRuneInString(text[pos:])
		if unicode.IsSpace(r) {
			break
		}
		pos += size
	}
	return start, pos
}

func parseToken(text string, start, end int) (Unit, error) {
	token := text[start:end]

	first, firstSize := utf8.DecodeRuneInString(token)
	if first != '?' && !unicode.IsLetter(first) && !unicode.IsDigit(first) {
		return Unit{}, newError(UnexpectedToken, text, start, end)
	}

	switch utf8.RuneCountInString(token) {
	case 1:
		if first == '?' {
			return Wildcard(), nil
		}
		return Unit{}, newError(UnexpectedToken, text, start, end)
	case 2:
	default:
		return Unit{}, newError(UnexpectedToken, text, start, end)
	}

	second, _ := utf8.DecodeRuneInString(token[firstSize:])
	hi, hiMask, ok := nibble(first)
	if !ok {
		return Unit{}, newError(InvalidDigit, text, start, start+firstSize)
	}
	lo, loMask, ok := nibble(second)
	if !ok {
		return Unit{}, newError(InvalidDigit, text, start+firstSize, end)
	}

	return Unit{Value: hi<<4 | lo, Mask: hiMask<<4 | loMask}, nil
}

// nibble decodes one token character into its 4-bit value and mask.
func nibble(r rune) (value, mask byte, ok bool) {
	switch {
	case r == '?':
		return 0, 0x0, true
	case r >= '0' && r <= '9':
		return byte(r - '0'), 0xF, true
	case r >= 'a' && r <= 'f':
		return byte(r-'a') + 10, 0xF, true
	case r >= 'A' && r <= 'F':
		return byte(r-'A') + 10, 0xF, true
	default:
		return 0, 0, false
	}
}
