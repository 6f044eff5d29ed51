package dotparser

import "strings"

// scanner holds the immutable source text. Its methods take the offset of
// the remaining input and return the offset past whatever they consumed.
type scanner struct {
	src      string
	comments bool
}

// skip consumes whitespace, and comments when enabled. It never fails.
// An unterminated block comment is left in place for the caller to reject.
func (s *scanner) skip(pos int) int {
	src := s.src
	for pos < len(src) {
		ch := src[pos]
		switch {
		case isSpace(ch):
			pos++
		case s.comments && ch == '/' && pos+1 < len(src) && src[pos+1] == '/':
			pos = lineEnd(src, pos)
		case s.comments && ch == '#' && (pos == 0 || src[pos-1] == '\n'):
			pos = lineEnd(src, pos)
		case s.comments && ch == '/' && pos+1 < len(src) && src[pos+1] == '*':
			end := strings.Index(src[pos+2:], "*/")
			if end < 0 {
				return pos
			}
			pos += 2 + end + 2
		default:
			return pos
		}
	}
	return pos
}

func lineEnd(src string, pos int) int {
	if i := strings.IndexByte(src[pos:], '\n'); i >= 0 {
		return pos + i
	}
	return len(src)
}

// literal matches tok exactly at pos and skips what follows it.
func (s *scanner) literal(pos int, tok string) (int, bool) {
	if !strings.HasPrefix(s.src[pos:], tok) {
		return pos, false
	}
	return s.skip(pos + len(tok)), true
}

// keyword matches kw case-insensitively at pos. Nothing needs to separate it
// from the next token, so "graphx" is the keyword followed by the ID x.
func (s *scanner) keyword(pos int, kw string) (int, bool) {
	end := pos + len(kw)
	if end > len(s.src) || !strings.EqualFold(s.src[pos:end], kw) {
		return pos, false
	}
	return s.skip(end), true
}

func (s *scanner) errorAt(pos int, expected, msg string) *SyntaxError {
	return &SyntaxError{
		ParseError: ParseError{Message: msg, Pos: positionAt(s.src, pos)},
		Expected:   expected,
		Got:        describeAt(s.src, pos),
		Remaining:  s.src[min(pos, len(s.src)):],
	}
}

// parseID recognizes an identifier in one of its three forms, tried in
// order: bareword, numeral, quoted.
func (s *scanner) parseID(pos int) (string, int, *SyntaxError) {
	if end := scanBareword(s.src, pos); end > pos {
		return s.src[pos:end], s.skip(end), nil
	}
	if end := scanNumeral(s.src, pos); end > pos {
		return s.src[pos:end], s.skip(end), nil
	}
	if pos < len(s.src) && s.src[pos] == '"' {
		id, end, err := s.scanQuoted(pos)
		if err != nil {
			return "", pos, err
		}
		return id, s.skip(end), nil
	}
	return "", pos, s.errorAt(pos, "identifier", "")
}

// scanQuoted reads a '"'-delimited identifier starting at the opening quote.
// The only escape is \" and any other backslash is rejected.
func (s *scanner) scanQuoted(pos int) (string, int, *SyntaxError) {
	src := s.src
	var sb strings.Builder
	i := pos + 1
	for {
		if i >= len(src) {
			return "", pos, s.errorAt(i, `'"'`, "unterminated quoted identifier")
		}
		ch := src[i]
		switch ch {
		case '"':
			return sb.String(), i + 1, nil
		case '\\':
			if i+1 < len(src) && src[i+1] == '"' {
				sb.WriteByte('"')
				i += 2
				continue
			}
			return "", pos, s.errorAt(i, `'\"'`, "unsupported escape sequence")
		default:
			sb.WriteByte(ch)
			i++
		}
	}
}

// scanBareword returns the end of a bareword starting at pos, or pos when
// there is none.
func scanBareword(src string, pos int) int {
	if pos >= len(src) || !isIDStart(src[pos]) {
		return pos
	}
	i := pos + 1
	for i < len(src) && isIDPart(src[i]) {
		i++
	}
	return i
}

// scanNumeral returns the end of a numeral starting at pos, or pos when
// there is none: -?( '.' [0-9]+ | [0-9]+ ('.' [0-9]*)? )
func scanNumeral(src string, pos int) int {
	i := pos
	if i < len(src) && src[i] == '-' {
		i++
	}
	if i < len(src) && src[i] == '.' {
		end := scanDigits(src, i+1)
		if end == i+1 {
			return pos
		}
		return end
	}
	end := scanDigits(src, i)
	if end == i {
		return pos
	}
	if end < len(src) && src[end] == '.' {
		end = scanDigits(src, end+1)
	}
	return end
}

func scanDigits(src string, pos int) int {
	for pos < len(src) && isDigit(src[pos]) {
		pos++
	}
	return pos
}

// ParseID recognizes a single identifier at the start of src, skipping any
// whitespace after it. It returns the identifier text and the input left
// over.
func ParseID(src string) (id string, rest string, err error) {
	s := &scanner{src: src}
	id, end, serr := s.parseID(0)
	if serr != nil {
		return "", src, serr
	}
	return id, src[end:], nil
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' || ch == '\f' || ch == '\v'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIDStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_' || ch >= 0x80
}

func isIDPart(ch byte) bool {
	return isIDStart(ch) || isDigit(ch)
}
