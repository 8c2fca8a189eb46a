package demangle

import "strings"

// maxDepth bounds recursive generic/container parsing (§4.1, §8: "Recursive
// generic parsing at depth 10 terminates and returns the innermost-resolvable
// wrapper").
const maxDepth = 10

// parseType parses one type token starting at the cursor's current
// position, returning its rendered Swift display. It never fails: on
// unrecognized syntax it falls back to the longest rendered prefix it could
// build, or an empty string if nothing could be read at all.
func parseType(c *cursor, words *wordList, depth int) string {
	if depth >= maxDepth {
		return parseTypeShallow(c, words)
	}
	if c.eof() {
		return ""
	}

	if rendered, ok := tryContainerSugar(c, words, depth); ok {
		return applyOptionalSuffix(c, rendered)
	}

	if rendered, ok := tryTwoCharShortcut(c); ok {
		return applyOptionalSuffix(c, rendered)
	}

	if rendered, ok := tryIntWidthForm(c); ok {
		return applyOptionalSuffix(c, rendered)
	}

	if rendered, ok := tryStandardProtocol(c); ok {
		return applyOptionalSuffix(c, rendered)
	}

	if rendered, ok := tryObjCImport(c); ok {
		return applyOptionalSuffix(c, rendered)
	}

	if b := c.peek(); b != 0 {
		if name, ok := builtinTypes[string(c.data[c.pos:min(c.pos+2, len(c.data))])]; ok {
			c.advance(2)
			return applyOptionalSuffix(c, name)
		}
		if name, ok := shortcut1[b]; ok {
			c.advance(1)
			return applyOptionalSuffix(c, name)
		}
	}

	if c.peek() == '0' {
		c.advance(1)
		if name, ok := parseWordSubstIdentifier(c, words); ok {
			return applyOptionalSuffix(c, name)
		}
	}

	if c.peek() >= '0' && c.peek() <= '9' {
		if name, ok := tryQualifiedName(c, words); ok {
			return applyOptionalSuffix(c, name)
		}
	}

	// Nothing matched: consume one byte verbatim so callers make progress,
	// per §4.1's never-fail error policy.
	b := c.peek()
	c.advance(1)
	if b == 0 {
		return ""
	}
	return string(rune(b))
}

// parseTypeShallow is used once the recursion depth cap is hit: it returns
// whatever base token is present without recursing into generic arguments
// or container sugar, per §8's "terminates and returns the innermost-
// resolvable wrapper".
func parseTypeShallow(c *cursor, words *wordList) string {
	if rendered, ok := tryTwoCharShortcut(c); ok {
		return rendered
	}
	if b := c.peek(); b != 0 {
		if name, ok := shortcut1[b]; ok {
			c.advance(1)
			return name
		}
	}
	return ""
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// applyOptionalSuffix wraps a rendered type in Optional sugar when a
// trailing `Sg` follows it, per §4.1 ("any Sg appended -> wrap as Optional").
func applyOptionalSuffix(c *cursor, rendered string) string {
	for c.hasPrefixAt("Sg") {
		c.advance(2)
		rendered += "?"
	}
	return rendered
}

// tryTwoCharShortcut matches a shortcut₂ or protocol-shortcut₂ token, trying
// three-character concurrency forms first since they share a prefix with
// the two-character forms.
func tryTwoCharShortcut(c *cursor) (string, bool) {
	if c.pos+3 <= len(c.data) {
		three := string(c.data[c.pos : c.pos+3])
		if name, ok := shortcut2[three]; ok {
			c.advance(3)
			return name, true
		}
	}
	if c.pos+2 <= len(c.data) {
		two := string(c.data[c.pos : c.pos+2])
		if name, ok := shortcut2[two]; ok {
			c.advance(2)
			return name, true
		}
		if name, ok := protocolShortcut2[two]; ok {
			c.advance(2)
			return name, true
		}
	}
	return "", false
}

// parseProtocolToken parses one type token in a position known to name a
// protocol (currently: a generic "conformance" requirement target). SZ and
// SD mean SignedInteger/Decodable here, not shortcut2's UInt8/Dictionary, so
// protocolShortcut2 is consulted before falling back to parseType's normal
// value-type dispatch.
func parseProtocolToken(c *cursor, words *wordList, depth int) string {
	if c.pos+2 <= len(c.data) {
		two := string(c.data[c.pos : c.pos+2])
		if name, ok := protocolShortcut2[two]; ok {
			c.advance(2)
			return applyOptionalSuffix(c, name)
		}
	}
	return parseType(c, words, depth)
}

// tryIntWidthForm matches the `s<len><name>V` fixed-width-integer forms,
// e.g. `s5Int8V`, `s6UInt64V`.
func tryIntWidthForm(c *cursor) (string, bool) {
	if c.peek() != 's' {
		return "", false
	}
	mark := c.pos
	c.advance(1)
	name, ok := c.readLengthPrefixed()
	if !ok || c.peek() != 'V' {
		c.pos = mark
		return "", false
	}
	c.advance(1)
	return name, true
}

// tryStandardProtocol matches `s<len><name>P` standard-module-qualified
// protocols.
func tryStandardProtocol(c *cursor) (string, bool) {
	if c.peek() != 's' {
		return "", false
	}
	mark := c.pos
	c.advance(1)
	name, ok := c.readLengthPrefixed()
	if !ok || c.peek() != 'P' {
		c.pos = mark
		return "", false
	}
	c.advance(1)
	if !standardProtocols[name] {
		// Unknown standard-module identifier; still render the bare name,
		// per §4.1's "never fails" policy for unrecognized syntax.
	}
	return name, true
}

// tryObjCImport matches `So<len><name><kindSuffix?>` per §4.1
// *ObjC-imported*.
func tryObjCImport(c *cursor) (string, bool) {
	if !c.hasPrefixAt("So") {
		return "", false
	}
	mark := c.pos
	c.advance(2)
	name, ok := c.readLengthPrefixed()
	if !ok {
		c.pos = mark
		return "", false
	}
	isProtocol := false
	switch c.peek() {
	case 'C', 'V', 'O', 'P', 'y':
		c.advance(1)
		if c.hasPrefixAt("_p") {
			c.advance(2)
			isProtocol = true
		}
	}
	rendered := translateObjCName(name)
	if isProtocol {
		rendered = "any " + rendered
	}
	return rendered, true
}

func translateObjCName(name string) string {
	if rendered, ok := objcNameTable[name]; ok {
		return rendered
	}
	if strings.HasPrefix(name, objcDispatchPrefix) {
		return "Dispatch" + strings.TrimPrefix(name, objcDispatchPrefix)
	}
	return name
}

// tryContainerSugar matches `Say<E>G`, `SDy<K><V>G`, `Shy<E>G` per §4.1
// *container* and the Symbolic Resolver's container-type fast path (§4.2).
func tryContainerSugar(c *cursor, words *wordList, depth int) (string, bool) {
	switch {
	case c.hasPrefixAt("Say"):
		c.advance(3)
		elem := parseType(c, words, depth+1)
		if !c.hasPrefixAt("G") {
			return "[" + elem + "]", true
		}
		c.advance(1)
		return "[" + elem + "]", true
	case c.hasPrefixAt("SDy"):
		c.advance(3)
		key := parseType(c, words, depth+1)
		val := parseType(c, words, depth+1)
		if c.hasPrefixAt("G") {
			c.advance(1)
		}
		return "[" + key + ": " + val + "]", true
	case c.hasPrefixAt("Shy"):
		c.advance(3)
		elem := parseType(c, words, depth+1)
		if c.hasPrefixAt("G") {
			c.advance(1)
		}
		return "Set<" + elem + ">", true
	}
	return "", false
}

// tryQualifiedName parses one-or-more length-prefixed components into a
// dotted qualified name (§4.1 *qualified*), consuming trailing C/V/O/P_
// kind markers.
func tryQualifiedName(c *cursor, words *wordList) (string, bool) {
	var parts []string
	for {
		mark := c.pos
		if c.peek() == '0' {
			c.advance(1)
			if name, ok := parseWordSubstIdentifier(c, words); ok {
				parts = append(parts, name)
				continue
			}
			c.pos = mark
		}
		name, ok := c.readLengthPrefixed()
		if !ok {
			break
		}
		words.addLiteral(name)
		parts = append(parts, name)
	}
	if len(parts) == 0 {
		return "", false
	}
	switch c.peek() {
	case 'C', 'V', 'O':
		c.advance(1)
	}
	if c.hasPrefixAt("P_") {
		c.advance(2)
	}
	return strings.Join(parts, "."), true
}

// parseWordSubstIdentifier parses the Swift-5 word-substitution identifier
// grammar (§4.1 last bullet), assuming the leading `0` byte has already been
// consumed by the caller.
func parseWordSubstIdentifier(c *cursor, words *wordList) (string, bool) {
	var parts []string
	for {
		b := c.peek()
		switch {
		case b >= 'a' && b <= 'z':
			idx := int(b - 'a')
			word, ok := words.lookup(idx)
			if !ok {
				return "", false
			}
			parts = append(parts, word)
			c.advance(1)
		case b >= 'A' && b <= 'Z':
			idx := int(b - 'A')
			word, ok := words.lookup(idx)
			if !ok {
				return "", false
			}
			parts = append(parts, word)
			c.advance(1)
			if lit, ok := c.readLengthPrefixed(); ok {
				words.addLiteral(lit)
				parts = append(parts, lit)
			}
			return strings.Join(parts, ""), true
		default:
			return "", false
		}
	}
}
