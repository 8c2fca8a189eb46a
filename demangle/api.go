// Package demangle implements the Demangler component (§4.1): a pure,
// stateless parser from Swift's textual mangling grammar (Swift 5+ `$s…`,
// Objective-C-interop `_Tt…`, and stdlib shortcuts) to rendered names. It
// has no I/O and retains no state across calls beyond its constant lookup
// tables.
package demangle

import "strings"

// commonPatterns is the fast-path exact-match table consulted before
// falling back to the single-character shortcut, builtin table, and full
// structural parse (§4.1 operation order for Demangle).
var commonPatterns = map[string]string{
	"Si":       "Int",
	"SSSg":     "String?",
	"SaySiG":   "[Int]",
	"SDySSSiG": "[String: Int]",
	"ShySiG":   "Set<Int>",
}

// Demangle renders a Swift mangled token. It never fails: on unrecognized
// syntax it falls back to the longest rendered prefix it could build, or
// the original input when nothing could be parsed at all.
func Demangle(s string) string {
	if s == "" {
		return ""
	}
	if s[0] <= 0x17 {
		// Symbolic-reference marker: the caller is expected to preprocess
		// binary markers via the Resolver before calling Demangle.
		return s
	}
	if rendered, ok := commonPatterns[s]; ok {
		return rendered
	}
	if len(s) == 1 {
		if rendered, ok := shortcut1[s[0]]; ok {
			return rendered
		}
	}
	if rendered, ok := builtinTypes[s]; ok {
		return rendered
	}
	return demangleDetailed(s)
}

func demangleDetailed(s string) string {
	c := newCursor(s)
	words := newWordList()
	rendered := parseType(c, words, 0)
	if !c.eof() {
		rendered += c.rest()
	}
	if rendered == "" {
		return s
	}
	return rendered
}

// DemangleClassName parses `_TtC<module-len><module><class-len><class>`,
// `_TtCC…` (nested), and `_TtGC…` (generic) forms, returning the owning
// module and the (possibly dot-joined, for nested classes) class name.
func DemangleClassName(s string) (module, name string, ok bool) {
	var rest string
	switch {
	case strings.HasPrefix(s, "_TtCC"):
		rest = s[5:]
	case strings.HasPrefix(s, "_TtGC"):
		rest = s[5:]
	case strings.HasPrefix(s, "_TtC"):
		rest = s[4:]
	default:
		return "", "", false
	}
	c := newCursor(rest)
	mod, ok := c.readLengthPrefixed()
	if !ok {
		return "", "", false
	}
	var parts []string
	for {
		ident, ok := c.readLengthPrefixed()
		if !ok {
			break
		}
		parts = append(parts, ident)
	}
	if len(parts) == 0 {
		return "", "", false
	}
	return mod, strings.Join(parts, "."), true
}

// DemangleProtocolName parses `_TtP<module><name>_` forms.
func DemangleProtocolName(s string) (module, name string, ok bool) {
	if !strings.HasPrefix(s, "_TtP") {
		return "", "", false
	}
	c := newCursor(s[4:])
	mod, ok := c.readLengthPrefixed()
	if !ok {
		return "", "", false
	}
	nm, ok := c.readLengthPrefixed()
	if !ok {
		return "", "", false
	}
	if c.peek() != '_' {
		return "", "", false
	}
	return mod, nm, true
}

// DemangleSwiftName renders the full display for `_Tt…` class (`_TtC`,
// `_TtCC`, `_TtGC`) and protocol (`_TtP`) inputs and for `$s…` or `_$s…`
// inputs. Other `_Tt…` forms, and inputs with none of these prefixes, are
// returned unchanged.
func DemangleSwiftName(s string) string {
	switch {
	case strings.HasPrefix(s, "_TtC"), strings.HasPrefix(s, "_TtGC"):
		if mod, name, ok := DemangleClassName(s); ok {
			return mod + "." + name
		}
		return s
	case strings.HasPrefix(s, "_TtP"):
		if mod, name, ok := DemangleProtocolName(s); ok {
			return mod + "." + name
		}
		return s
	case strings.HasPrefix(s, "_$s"):
		return Demangle(s[3:])
	case strings.HasPrefix(s, "$s"):
		return Demangle(s[2:])
	default:
		return s
	}
}

// ParseTypeToken parses exactly one type token from the front of data and
// returns its rendered form plus the number of bytes consumed. The
// Resolver's container-type fast path and generic-suffix pass use this to
// walk past plain (non-symbolic-reference) type tokens embedded alongside
// binary markers, which the top-level Demangle entry point does not expect.
func ParseTypeToken(data []byte) (rendered string, consumed int) {
	c := newCursor(string(data))
	words := newWordList()
	rendered = parseType(c, words, 0)
	return rendered, c.pos
}

// ExtractTypeName produces a best-effort rendered name covering `$s`/`_$s`
// (Swift 5+), `_Tt…`, and bare length-prefixed qualified types.
func ExtractTypeName(s string) string {
	switch {
	case strings.HasPrefix(s, "$s"), strings.HasPrefix(s, "_$s"), strings.HasPrefix(s, "_Tt"):
		return DemangleSwiftName(s)
	default:
		c := newCursor(s)
		words := newWordList()
		if name, ok := tryQualifiedName(c, words); ok {
			return name
		}
		return s
	}
}
