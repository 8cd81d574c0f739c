package xmlnames

import (
	"strings"
	"unicode/utf8"
)

const (
	// XMLPrefix is the reserved prefix for the XML namespace.
	XMLPrefix = "xml"
	// XMLNamespace is the XML namespace URI.
	XMLNamespace = "http://www.w3.org/XML/1998/namespace"
	// XSINamespace is the XML Schema instance namespace URI.
	XSINamespace = "http://www.w3.org/2001/XMLSchema-instance"
	// XSDNamespace is the XML Schema namespace URI.
	XSDNamespace = "http://www.w3.org/2001/XMLSchema"
)

func isNameStart(r rune) bool {
	switch {
	case r == ':' || r == '_':
		return true
	case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z':
		return true
	case r >= 0xC0 && r <= 0xD6, r >= 0xD8 && r <= 0xF6, r >= 0xF8 && r <= 0x2FF:
		return true
	case r >= 0x370 && r <= 0x37D, r >= 0x37F && r <= 0x1FFF:
		return true
	case r >= 0x200C && r <= 0x200D, r >= 0x2070 && r <= 0x218F:
		return true
	case r >= 0x2C00 && r <= 0x2FEF, r >= 0x3001 && r <= 0xD7FF:
		return true
	case r >= 0xF900 && r <= 0xFDCF, r >= 0xFDF0 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= 0xEFFFF:
		return true
	default:
		return false
	}
}

func isNameChar(r rune) bool {
	switch {
	case isNameStart(r):
		return true
	case r == '-' || r == '.' || r >= '0' && r <= '9' || r == 0xB7:
		return true
	case r >= 0x300 && r <= 0x36F, r >= 0x203F && r <= 0x2040:
		return true
	default:
		return false
	}
}

func scan(s string, requireStart, allowColon bool) bool {
	if s == "" {
		return false
	}
	first := true
	for _, r := range s {
		if r == utf8.RuneError {
			return false
		}
		if r == ':' && !allowColon {
			return false
		}
		if first && requireStart {
			if !isNameStart(r) {
				return false
			}
		} else if !isNameChar(r) {
			return false
		}
		first = false
	}
	return true
}

// IsName reports whether s matches the XML Name production.
func IsName(s string) bool {
	return scan(s, true, true)
}

// IsNCName reports whether s is a Name without colons.
func IsNCName(s string) bool {
	return scan(s, true, false)
}

// IsNMTOKEN reports whether s is a non-empty run of name characters.
func IsNMTOKEN(s string) bool {
	return scan(s, false, true)
}

// IsLanguage reports whether s matches the xs:language pattern
// [a-zA-Z]{1,8}(-[a-zA-Z0-9]{1,8})*.
func IsLanguage(s string) bool {
	if s == "" {
		return false
	}
	for i, part := range strings.Split(s, "-") {
		if len(part) < 1 || len(part) > 8 {
			return false
		}
		for j := 0; j < len(part); j++ {
			c := part[j]
			alpha := c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
			if !alpha && (i == 0 || c < '0' || c > '9') {
				return false
			}
		}
	}
	return true
}

// SplitQName splits a lexical QName into prefix and local part.
// ok is false when either part is not an NCName.
func SplitQName(s string) (prefix, local string, ok bool) {
	prefix, local, found := strings.Cut(s, ":")
	if !found {
		return "", s, IsNCName(s)
	}
	return prefix, local, IsNCName(prefix) && IsNCName(local)
}
