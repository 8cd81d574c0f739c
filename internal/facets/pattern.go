package facets

import (
	"errors"
	"fmt"
	"regexp"
	"regexp/syntax"
	"strings"
)

var (
	// ErrPatternSyntax reports a pattern that is not a valid XSD regular expression.
	ErrPatternSyntax = errors.New("pattern syntax error")
	// ErrPatternUnsupported reports a valid XSD pattern RE2 cannot express.
	// Such patterns are kept but never evaluated.
	ErrPatternUnsupported = errors.New("pattern not supported")
)

const (
	digitClass    = `\p{Nd}`
	notDigitClass = `\P{Nd}`
	spaceClass    = ` \t\n\r`
	wordClass     = `[^\p{P}\p{Z}\p{C}]`
	notWordClass  = `[\p{P}\p{Z}\p{C}]`
	nameStart     = `:A-Z_a-z\x{C0}-\x{D6}\x{D8}-\x{F6}\x{F8}-\x{2FF}\x{370}-\x{37D}` +
		`\x{37F}-\x{1FFF}\x{200C}-\x{200D}\x{2070}-\x{218F}\x{2C00}-\x{2FEF}` +
		`\x{3001}-\x{D7FF}\x{F900}-\x{FDCF}\x{FDF0}-\x{FFFD}\x{10000}-\x{EFFFF}`
	nameChar = nameStart + `\-.0-9\x{B7}\x{300}-\x{36F}\x{203F}-\x{2040}`
)

// Pattern is one compiled pattern facet value. re is nil when the pattern
// is unsupported.
type Pattern struct {
	re     *regexp.Regexp
	Source string
}

// CompilePattern translates an XSD pattern. An unsupported pattern is
// returned together with an error wrapping ErrPatternUnsupported.
func CompilePattern(src string) (Pattern, error) {
	p := Pattern{Source: src}
	goPattern, err := translate(src)
	if err != nil {
		return p, err
	}
	re, err := regexp.Compile(goPattern)
	if err != nil {
		var serr *syntax.Error
		if errors.As(err, &serr) && serr.Code == syntax.ErrInvalidRepeatSize {
			return p, fmt.Errorf("%w: repeat count in %q", ErrPatternUnsupported, src)
		}
		return p, fmt.Errorf("%w: %q: %v", ErrPatternSyntax, src, err)
	}
	p.re = re
	return p, nil
}

// Supported reports whether the pattern can be evaluated.
func (p Pattern) Supported() bool {
	return p.re != nil
}

// Match reports whether s matches. Unsupported patterns match everything.
func (p Pattern) Match(s string) bool {
	return p.re == nil || p.re.MatchString(s)
}

// GoPattern returns the translated expression, or "" when unsupported.
func (p Pattern) GoPattern() string {
	if p.re == nil {
		return ""
	}
	return p.re.String()
}

type translator struct {
	out  strings.Builder
	src  string
	pos  int
	atom bool
}

// translate rewrites an XSD 1.0 regular expression into an anchored RE2
// expression.
func translate(src string) (string, error) {
	t := &translator{src: src}
	t.out.WriteString(`^(?:`)
	for t.pos < len(src) {
		if err := t.step(); err != nil {
			return "", err
		}
	}
	t.out.WriteString(`)$`)
	return t.out.String(), nil
}

func (t *translator) syntaxErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s at offset %d in %q", ErrPatternSyntax, fmt.Sprintf(format, args...), t.pos, t.src)
}

func (t *translator) step() error {
	c := t.src[t.pos]
	switch c {
	case '\\':
		s, err := t.escape(false)
		if err != nil {
			return err
		}
		t.out.WriteString(s)
		t.atom = true
		return nil
	case '[':
		s, err := t.class()
		if err != nil {
			return err
		}
		t.out.WriteString(s)
		t.atom = true
		return nil
	case '(':
		if strings.HasPrefix(t.src[t.pos:], "(?") {
			return t.syntaxErr("group modifiers are not allowed")
		}
		t.out.WriteByte(c)
		t.atom = false
	case ')':
		t.out.WriteByte(c)
		t.atom = true
	case '|':
		t.out.WriteByte(c)
		t.atom = false
	case '*', '+', '?':
		if !t.atom {
			return t.syntaxErr("quantifier %q without operand", c)
		}
		t.out.WriteByte(c)
		t.atom = false
	case '{':
		if !t.atom {
			return t.syntaxErr("quantifier without operand")
		}
		end := strings.IndexByte(t.src[t.pos:], '}')
		if end < 0 {
			return t.syntaxErr("unclosed quantifier")
		}
		q := t.src[t.pos : t.pos+end+1]
		if !validRepeat(q[1 : len(q)-1]) {
			return t.syntaxErr("invalid quantifier %q", q)
		}
		t.out.WriteString(q)
		t.pos += end + 1
		t.atom = false
		return nil
	case '}', ']':
		return t.syntaxErr("unbalanced %q", c)
	case '.':
		t.out.WriteString(`[^\n\r]`)
		t.atom = true
	case '^', '$':
		t.out.WriteByte('\\')
		t.out.WriteByte(c)
		t.atom = true
	default:
		t.out.WriteByte(c)
		t.atom = true
	}
	t.pos++
	return nil
}

func validRepeat(q string) bool {
	lo, hi, comma := strings.Cut(q, ",")
	if !isDigits(lo) {
		return false
	}
	if !comma || hi == "" {
		return true
	}
	if !isDigits(hi) {
		return false
	}
	return len(lo) < len(hi) || (len(lo) == len(hi) && lo <= hi)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// escape translates the escape at t.pos. Inside a class only escapes that
// expand to class items are accepted.
func (t *translator) escape(inClass bool) (string, error) {
	if t.pos+1 >= len(t.src) {
		return "", t.syntaxErr("trailing backslash")
	}
	c := t.src[t.pos+1]
	t.pos += 2
	switch c {
	case 'n':
		return `\n`, nil
	case 'r':
		return `\r`, nil
	case 't':
		return `\t`, nil
	case '\\', '|', '.', '?', '*', '+', '(', ')', '{', '}', '-', '[', ']', '^', '$':
		return `\` + string(c), nil
	case 'd':
		return digitClass, nil
	case 'D':
		return notDigitClass, nil
	case 's':
		if inClass {
			return spaceClass, nil
		}
		return `[` + spaceClass + `]`, nil
	case 'i':
		if inClass {
			return nameStart, nil
		}
		return `[` + nameStart + `]`, nil
	case 'c':
		if inClass {
			return nameChar, nil
		}
		return `[` + nameChar + `]`, nil
	case 'S', 'I', 'C', 'w', 'W':
		if inClass {
			return "", fmt.Errorf("%w: \\%c inside a character class in %q", ErrPatternUnsupported, c, t.src)
		}
		switch c {
		case 'S':
			return `[^` + spaceClass + `]`, nil
		case 'I':
			return `[^` + nameStart + `]`, nil
		case 'C':
			return `[^` + nameChar + `]`, nil
		case 'w':
			return wordClass, nil
		default:
			return notWordClass, nil
		}
	case 'p', 'P':
		return t.property(c)
	default:
		t.pos -= 2
		return "", t.syntaxErr("unknown escape \\%c", c)
	}
}

func (t *translator) property(c byte) (string, error) {
	if t.pos >= len(t.src) || t.src[t.pos] != '{' {
		return "", t.syntaxErr("malformed property escape")
	}
	end := strings.IndexByte(t.src[t.pos:], '}')
	if end < 0 {
		return "", t.syntaxErr("unclosed property escape")
	}
	name := t.src[t.pos+1 : t.pos+end]
	t.pos += end + 1
	if name == "" {
		return "", t.syntaxErr("empty property name")
	}
	if strings.HasPrefix(name, "Is") {
		return "", fmt.Errorf("%w: block escape \\%c{%s} in %q", ErrPatternUnsupported, c, name, t.src)
	}
	esc := `\` + string(c) + `{` + name + `}`
	if _, err := syntax.Parse(esc, syntax.Perl); err != nil {
		return "", fmt.Errorf("%w: property %s in %q", ErrPatternUnsupported, name, t.src)
	}
	return esc, nil
}

// class translates a character class expression starting at t.pos.
func (t *translator) class() (string, error) {
	var b strings.Builder
	b.WriteByte('[')
	t.pos++
	if t.pos < len(t.src) && t.src[t.pos] == '^' {
		b.WriteByte('^')
		t.pos++
	}
	first := true
	for {
		if t.pos >= len(t.src) {
			return "", t.syntaxErr("unclosed character class")
		}
		c := t.src[t.pos]
		switch {
		case c == ']' && !first:
			t.pos++
			b.WriteByte(']')
			return b.String(), nil
		case c == '-' && t.pos+1 < len(t.src) && t.src[t.pos+1] == '[':
			return "", fmt.Errorf("%w: character class subtraction in %q", ErrPatternUnsupported, t.src)
		case c == '[':
			return "", t.syntaxErr("unescaped '[' in character class")
		case c == '\\':
			s, err := t.escape(true)
			if err != nil {
				return "", err
			}
			b.WriteString(s)
		case c == '-':
			// a dash is a range operator only between two items
			if !first && t.pos+1 < len(t.src) && t.src[t.pos+1] != ']' {
				b.WriteByte('-')
			} else {
				b.WriteString(`\-`)
			}
			t.pos++
		case c == ']' || c == '^':
			b.WriteByte('\\')
			b.WriteByte(c)
			t.pos++
		default:
			b.WriteByte(c)
			t.pos++
		}
		first = false
	}
}
