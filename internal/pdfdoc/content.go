// content.go tokenizes PDF content streams into operators with operands (PRT-3).
//
// The scanner is deliberately forgiving: malformed bytes are skipped rather
// than failing the whole page, because real-world content streams routinely
// carry junk that viewers ignore. Inline image payloads (BI ... ID ... EI)
// are skipped wholesale; this tool never needs their pixel data.
package pdfdoc

import "strconv"

// Value is a content-stream operand: float64, bool, nil, Name, String,
// Array, or Dict.
type Value interface{}

// Name is a PDF name operand without the leading slash (e.g. "F1").
type Name string

// String is a PDF string operand with escapes already decoded.
type String []byte

// Array is a PDF array operand.
type Array []Value

// Dict is a PDF dictionary operand keyed by name.
type Dict map[Name]Value

// Op is one content-stream operator with the operands that preceded it.
type Op struct {
	Name string
	Args []Value
}

// ParseOps scans a decoded content stream and returns its operator sequence.
func ParseOps(data []byte) []Op {
	p := &contentParser{data: data}
	return p.run()
}

type contentParser struct {
	data []byte
	pos  int
	args []Value
	ops  []Op
}

func (p *contentParser) run() []Op {
	for p.pos < len(p.data) {
		p.skipSpace()
		if p.pos >= len(p.data) {
			break
		}
		c := p.data[p.pos]
		switch {
		case c == '%':
			p.skipComment()
		case c == '/':
			p.args = append(p.args, p.readName())
		case c == '(':
			p.args = append(p.args, p.readLiteralString())
		case c == '<':
			if p.pos+1 < len(p.data) && p.data[p.pos+1] == '<' {
				p.args = append(p.args, p.readDict())
			} else {
				p.args = append(p.args, p.readHexString())
			}
		case c == '[':
			p.pos++
			p.args = append(p.args, p.readArray())
		case c == ']', c == '>', c == ')', c == '{', c == '}':
			// Stray delimiter; skip it.
			p.pos++
		case isNumberStart(c):
			p.args = append(p.args, p.readNumber())
		default:
			p.readOperator()
		}
	}
	return p.ops
}

func (p *contentParser) emit(name string) {
	p.ops = append(p.ops, Op{Name: name, Args: p.args})
	p.args = nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == 0
}

func isDelim(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func isNumberStart(c byte) bool {
	return (c >= '0' && c <= '9') || c == '+' || c == '-' || c == '.'
}

func (p *contentParser) skipSpace() {
	for p.pos < len(p.data) && isSpace(p.data[p.pos]) {
		p.pos++
	}
}

func (p *contentParser) skipComment() {
	for p.pos < len(p.data) && p.data[p.pos] != '\n' && p.data[p.pos] != '\r' {
		p.pos++
	}
}

// readName reads a /Name token, decoding #xx hex escapes.
func (p *contentParser) readName() Name {
	p.pos++ // consume '/'
	var out []byte
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		if isSpace(c) || isDelim(c) {
			break
		}
		if c == '#' && p.pos+2 < len(p.data) {
			if hi, ok1 := hexVal(p.data[p.pos+1]); ok1 {
				if lo, ok2 := hexVal(p.data[p.pos+2]); ok2 {
					out = append(out, byte(hi<<4|lo))
					p.pos += 3
					continue
				}
			}
		}
		out = append(out, c)
		p.pos++
	}
	return Name(out)
}

func hexVal(c byte) (int, bool) {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0'), true
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10, true
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10, true
	}
	return 0, false
}

// readLiteralString reads ( ... ) with escape sequences and balanced
// nested parentheses.
func (p *contentParser) readLiteralString() String {
	p.pos++ // consume '('
	var out []byte
	depth := 1
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		p.pos++
		switch c {
		case '\\':
			if p.pos >= len(p.data) {
				return String(out)
			}
			e := p.data[p.pos]
			p.pos++
			switch e {
			case 'n':
				out = append(out, '\n')
			case 'r':
				out = append(out, '\r')
			case 't':
				out = append(out, '\t')
			case 'b':
				out = append(out, '\b')
			case 'f':
				out = append(out, '\f')
			case '(', ')', '\\':
				out = append(out, e)
			case '\r':
				// Line continuation; swallow an optional \n too.
				if p.pos < len(p.data) && p.data[p.pos] == '\n' {
					p.pos++
				}
			case '\n':
				// Line continuation.
			default:
				if e >= '0' && e <= '7' {
					v := int(e - '0')
					for i := 0; i < 2 && p.pos < len(p.data); i++ {
						d := p.data[p.pos]
						if d < '0' || d > '7' {
							break
						}
						v = v*8 + int(d-'0')
						p.pos++
					}
					out = append(out, byte(v))
				} else {
					out = append(out, e)
				}
			}
		case '(':
			depth++
			out = append(out, c)
		case ')':
			depth--
			if depth == 0 {
				return String(out)
			}
			out = append(out, c)
		default:
			out = append(out, c)
		}
	}
	return String(out)
}

// readHexString reads < ... >, ignoring whitespace, padding an odd digit
// count with a trailing zero.
func (p *contentParser) readHexString() String {
	p.pos++ // consume '<'
	var out []byte
	var hi, have = 0, false
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		p.pos++
		if c == '>' {
			break
		}
		v, ok := hexVal(c)
		if !ok {
			continue
		}
		if !have {
			hi = v
			have = true
		} else {
			out = append(out, byte(hi<<4|v))
			have = false
		}
	}
	if have {
		out = append(out, byte(hi<<4))
	}
	return String(out)
}

func (p *contentParser) readNumber() Value {
	start := p.pos
	p.pos++
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		if (c >= '0' && c <= '9') || c == '.' || c == '-' || c == '+' {
			p.pos++
		} else {
			break
		}
	}
	f, err := strconv.ParseFloat(string(p.data[start:p.pos]), 64)
	if err != nil {
		return 0.0
	}
	return f
}

// readArray reads operands until the matching ']'.
func (p *contentParser) readArray() Array {
	var arr Array
	for p.pos < len(p.data) {
		p.skipSpace()
		if p.pos >= len(p.data) {
			break
		}
		c := p.data[p.pos]
		if c == ']' {
			p.pos++
			break
		}
		switch {
		case c == '/':
			arr = append(arr, p.readName())
		case c == '(':
			arr = append(arr, p.readLiteralString())
		case c == '<':
			if p.pos+1 < len(p.data) && p.data[p.pos+1] == '<' {
				arr = append(arr, p.readDict())
			} else {
				arr = append(arr, p.readHexString())
			}
		case c == '[':
			p.pos++
			arr = append(arr, p.readArray())
		case isNumberStart(c):
			arr = append(arr, p.readNumber())
		default:
			if v, ok := p.readKeywordValue(); ok {
				arr = append(arr, v)
			} else {
				p.pos++
			}
		}
	}
	return arr
}

// readDict reads << ... >> key/value pairs.
func (p *contentParser) readDict() Dict {
	p.pos += 2 // consume '<<'
	d := Dict{}
	for p.pos < len(p.data) {
		p.skipSpace()
		if p.pos+1 < len(p.data) && p.data[p.pos] == '>' && p.data[p.pos+1] == '>' {
			p.pos += 2
			break
		}
		if p.pos >= len(p.data) || p.data[p.pos] != '/' {
			// Key must be a name; bail out of a malformed dict.
			p.pos++
			continue
		}
		key := p.readName()
		p.skipSpace()
		if p.pos >= len(p.data) {
			break
		}
		c := p.data[p.pos]
		switch {
		case c == '/':
			d[key] = p.readName()
		case c == '(':
			d[key] = p.readLiteralString()
		case c == '<':
			if p.pos+1 < len(p.data) && p.data[p.pos+1] == '<' {
				d[key] = p.readDict()
			} else {
				d[key] = p.readHexString()
			}
		case c == '[':
			p.pos++
			d[key] = p.readArray()
		case isNumberStart(c):
			d[key] = p.readNumber()
		default:
			if v, ok := p.readKeywordValue(); ok {
				d[key] = v
			}
		}
	}
	return d
}

// readKeywordValue consumes true/false/null when they appear in operand
// position. Returns ok=false when the next token is not one of them,
// leaving the position untouched.
func (p *contentParser) readKeywordValue() (Value, bool) {
	kw := p.peekKeyword()
	switch kw {
	case "true":
		p.pos += 4
		return true, true
	case "false":
		p.pos += 5
		return false, true
	case "null":
		p.pos += 4
		return nil, true
	}
	return nil, false
}

func (p *contentParser) peekKeyword() string {
	end := p.pos
	for end < len(p.data) && !isSpace(p.data[end]) && !isDelim(p.data[end]) {
		end++
	}
	return string(p.data[p.pos:end])
}

// readOperator reads an operator token and emits the pending operands.
func (p *contentParser) readOperator() {
	start := p.pos
	for p.pos < len(p.data) && !isSpace(p.data[p.pos]) && !isDelim(p.data[p.pos]) {
		p.pos++
	}
	if p.pos == start {
		p.pos++ // unscannable byte
		return
	}
	name := string(p.data[start:p.pos])
	switch name {
	case "true":
		p.args = append(p.args, true)
		return
	case "false":
		p.args = append(p.args, false)
		return
	case "null":
		p.args = append(p.args, nil)
		return
	case "BI":
		p.skipInlineImage()
		p.args = nil
		p.ops = append(p.ops, Op{Name: "BI"})
		return
	}
	p.emit(name)
}

// skipInlineImage consumes an inline image: the parameter dict after BI,
// the ID keyword, the binary payload, and the closing EI.
func (p *contentParser) skipInlineImage() {
	// Scan forward to "ID"; parameters are name/value pairs we can discard.
	for p.pos+1 < len(p.data) {
		if p.data[p.pos] == 'I' && p.data[p.pos+1] == 'D' {
			p.pos += 2
			// One whitespace byte separates ID from the payload.
			if p.pos < len(p.data) && isSpace(p.data[p.pos]) {
				p.pos++
			}
			break
		}
		p.pos++
	}
	// Scan for "EI" delimited by whitespace on both sides.
	for p.pos+1 < len(p.data) {
		if p.data[p.pos] == 'E' && p.data[p.pos+1] == 'I' {
			before := p.pos == 0 || isSpace(p.data[p.pos-1])
			afterIdx := p.pos + 2
			after := afterIdx >= len(p.data) || isSpace(p.data[afterIdx]) || isDelim(p.data[afterIdx])
			if before && after {
				p.pos += 2
				return
			}
		}
		p.pos++
	}
	p.pos = len(p.data)
}
