package demangle

import "strings"

// FunctionSignature is the structured record produced by
// DemangleFunctionSignature (§4.1).
type FunctionSignature struct {
	Module     string
	Context    string // optional enclosing type name
	Name       string
	Parameters []string
	Return     string
	Async      bool
	Sendable   bool
	Throws     bool
	ErrorType  string // set only for typed throws (YK)
}

// functionTerminators is the function-kind terminator set (§4.1).
var functionTerminators = map[byte]bool{
	'F': true, 'f': true, 'g': true, 's': true, 'W': true, 'Z': true,
}

func stripSymbolPrefix(s string) (string, bool) {
	switch {
	case strings.HasPrefix(s, "_$s"):
		return s[3:], true
	case strings.HasPrefix(s, "$s"):
		return s[2:], true
	default:
		return "", false
	}
}

// DemangleFunctionSignature recognizes `$s…`/`_$s…` inputs whose final code
// unit is a function-kind terminator and extracts module, optional type
// context, function name, and the parsed signature middle.
func DemangleFunctionSignature(sym string) (*FunctionSignature, bool) {
	body, ok := stripSymbolPrefix(sym)
	if !ok || body == "" {
		return nil, false
	}
	if !functionTerminators[body[len(body)-1]] {
		return nil, false
	}
	body = body[:len(body)-1]

	c := newCursor(body)
	module, ok := c.readLengthPrefixed()
	if !ok {
		return nil, false
	}

	ident, ok := c.readLengthPrefixed()
	if !ok {
		return nil, false
	}
	var context, name string
	switch c.peek() {
	case 'C', 'V', 'O':
		c.advance(1)
		context = ident
		name, ok = c.readLengthPrefixed()
		if !ok {
			return nil, false
		}
	default:
		name = ident
	}

	sig := &FunctionSignature{Module: module, Context: context, Name: name}
	words := newWordList()
	types := scanSignatureMiddle(c, words, sig)

	if len(types) > 0 {
		sig.Return = types[0]
		for _, t := range types[1:] {
			if t != "Void" {
				sig.Parameters = append(sig.Parameters, t)
			}
		}
	}
	return sig, true
}

// scanSignatureMiddle implements the left-to-right token scan for function
// signatures (§4.1); DemangleClosureType applies the same rules in its own
// loop, recording them on a ClosureType instead. Type tokens
// accumulate, effect markers mutate sig in place, and `y` pushes a Void
// sentinel for empty parameter lists.
func scanSignatureMiddle(c *cursor, words *wordList, sig *FunctionSignature) []string {
	var types []string
	for !c.eof() {
		switch {
		case c.hasPrefixAt("Ya"):
			c.advance(2)
			sig.Async = true
		case c.hasPrefixAt("Yb"):
			c.advance(2)
			sig.Sendable = true
		case c.hasPrefixAt("YK"):
			c.advance(2)
			sig.Throws = true
			if len(types) > 0 {
				sig.ErrorType = types[len(types)-1]
				types = types[:len(types)-1]
			}
		case c.peek() == 'K' && c.peekAt(1) != 'Z':
			c.advance(1)
			sig.Throws = true
		case c.peek() == 'y':
			c.advance(1)
			types = append(types, "Void")
		default:
			before := c.pos
			t := parseType(c, words, 0)
			if c.pos == before {
				c.advance(1)
				continue
			}
			if t != "" {
				types = append(types, t)
			}
		}
	}
	return types
}

// ClosureType is the structured record produced by DemangleClosureType (§4.1).
type ClosureType struct {
	Convention string // "block", "cfunction", "noescape", "thin", "escaping"
	Parameters []string
	Return     string
	Async      bool
	Throws     bool
}

// DemangleClosureType determines calling convention from the input's
// suffix, strips it, and applies the same signature-middle rules as for
// functions (without a final kind terminator).
func DemangleClosureType(s string) (*ClosureType, bool) {
	var convention, body string
	switch {
	case strings.HasSuffix(s, "XB"):
		convention, body = "block", s[:len(s)-2]
	case strings.HasSuffix(s, "XC"):
		convention, body = "cfunction", s[:len(s)-2]
	case strings.HasSuffix(s, "XE"):
		convention, body = "noescape", s[:len(s)-2]
	case strings.HasSuffix(s, "Xf"):
		convention, body = "thin", s[:len(s)-2]
	case strings.HasSuffix(s, "c"):
		convention, body = "escaping", s[:len(s)-1]
	default:
		return nil, false
	}
	// Closures carry an implicit function-type marker `c` immediately
	// before the convention suffix; it carries no independent meaning once
	// the convention above has been determined.
	body = strings.TrimSuffix(body, "c")

	c := newCursor(body)
	words := newWordList()
	clo := &ClosureType{Convention: convention}
	var types []string
	for !c.eof() {
		switch {
		case c.hasPrefixAt("Ya"):
			c.advance(2)
			clo.Async = true
		case c.hasPrefixAt("Yb"):
			c.advance(2)
		case c.hasPrefixAt("YK"):
			c.advance(2)
			clo.Throws = true
			if len(types) > 0 {
				types = types[:len(types)-1]
			}
		case c.peek() == 'K' && c.peekAt(1) != 'Z':
			c.advance(1)
			clo.Throws = true
		case c.peek() == 'y':
			c.advance(1)
			types = append(types, "Void")
		default:
			before := c.pos
			t := parseType(c, words, 0)
			if c.pos == before {
				c.advance(1)
				continue
			}
			if t != "" {
				types = append(types, t)
			}
		}
	}
	if len(types) > 0 {
		clo.Return = types[0]
		for _, t := range types[1:] {
			if t != "Void" {
				clo.Parameters = append(clo.Parameters, t)
			}
		}
	}
	return clo, true
}

// GenericRequirement is one parsed requirement from a generic signature.
type GenericRequirement struct {
	Kind   string // "conformance", "sameType", "layout", "baseClass", "associatedPath"
	Target string
}

// GenericSignature is the structured record produced by
// DemangleGenericSignature (§4.1).
type GenericSignature struct {
	Parameters   []string
	Requirements []GenericRequirement
}

var defaultGenericParams = []string{"T", "U", "V", "W"}

// DemangleGenericSignature scans for requirement markers `R` followed by a
// kind byte, parsing requirement targets with the same token grammar as
// generic arguments. The scan terminates at a top-level `l`.
func DemangleGenericSignature(s string) (*GenericSignature, bool) {
	if s == "" {
		return nil, false
	}
	c := newCursor(s)
	words := newWordList()
	sig := &GenericSignature{Parameters: append([]string(nil), defaultGenericParams...)}

	for !c.eof() {
		if c.peek() == 'l' {
			c.advance(1)
			break
		}
		if c.peek() != 'R' {
			c.advance(1)
			continue
		}
		c.advance(1)
		switch c.peek() {
		case 'z':
			c.advance(1)
			sig.Requirements = append(sig.Requirements, GenericRequirement{
				Kind: "conformance", Target: parseProtocolToken(c, words, 0),
			})
		case 's':
			c.advance(1)
			sig.Requirements = append(sig.Requirements, GenericRequirement{
				Kind: "sameType", Target: parseType(c, words, 0),
			})
		case 'l':
			c.advance(1)
			sig.Requirements = append(sig.Requirements, GenericRequirement{
				Kind: "layout", Target: "AnyObject",
			})
		case 'b':
			c.advance(1)
			sig.Requirements = append(sig.Requirements, GenericRequirement{
				Kind: "baseClass", Target: parseType(c, words, 0),
			})
		case '_':
			c.advance(1)
			sig.Requirements = append(sig.Requirements, GenericRequirement{
				Kind: "associatedPath", Target: parseType(c, words, 0),
			})
		default:
			return sig, true
		}
	}
	return sig, true
}
