// Package resolver implements the Symbolic Resolver component (§4.2): it
// dereferences 5-byte binary symbolic references embedded inside mangled
// byte sequences, following relative offsets, indirect pointer tables, and
// chained-fixup bindings, and calls the Demangler to finish non-binary
// remainders. It owns the binary image and memoizes results by target
// offset for the lifetime of one decoding session.
package resolver

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/blacktop/go-swiftmeta/demangle"
	"github.com/blacktop/go-swiftmeta/external"
	"github.com/blacktop/go-swiftmeta/image"
)

// Resolver holds the mutable memoization tables and the read-only binary
// image; per §5 it is designed for single-task-confined use over one
// binary's decode session.
type Resolver struct {
	img         *image.BinaryImage
	typeCache   map[int64]string
	moduleCache map[int64]string
	external    external.Demangler
}

// Option configures a Resolver at construction time, per the teacher's
// functional-options idiom (no package-level globals, no env vars).
type Option func(*Resolver)

// WithExternalDemangler installs a higher-fidelity demangling collaborator
// consulted before falling back to the built-in Demangler for bound
// external symbols.
func WithExternalDemangler(d external.Demangler) Option {
	return func(r *Resolver) { r.external = d }
}

// New constructs a Resolver over img with empty caches.
func New(img *image.BinaryImage, opts ...Option) *Resolver {
	r := &Resolver{
		img:         img,
		typeCache:   make(map[int64]string),
		moduleCache: make(map[int64]string),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func isSymbolicMarker(b byte) bool { return b >= 0x01 && b <= 0x17 }

func containsEmbeddedRef(b []byte) bool {
	for _, c := range b {
		if c == 0x01 || c == 0x02 {
			return true
		}
	}
	return false
}

// ResolveType implements the §4.2 resolution algorithm for byte slice m at
// source offset src.
func (r *Resolver) ResolveType(m []byte, src int64) string {
	if len(m) == 0 {
		return ""
	}
	if rendered, ok := r.resolveContainer(m, src); ok {
		return rendered
	}
	if isSymbolicMarker(m[0]) {
		return r.resolveMarker(m, src)
	}
	if containsEmbeddedRef(m[1:]) {
		return r.resolveEmbeddedRefs(m, src)
	}
	return demangle.Demangle(string(m))
}

// resolveMarker decodes the 5-byte symbolic reference at the front of m and
// dispatches on its kind byte.
func (r *Resolver) resolveMarker(m []byte, src int64) string {
	if len(m) < 5 {
		return diagInvalidOffset(src)
	}
	marker := m[0]
	rel := int32(binary.LittleEndian.Uint32(m[1:5]))
	tgt := src + 1 + int64(rel)
	suffix := m[5:]
	suffixSrc := src + 5

	if cached, ok := r.typeCache[tgt]; ok {
		return r.appendGenericSuffix(cached, suffix, suffixSrc)
	}

	var name string
	switch marker {
	case 0x01:
		name = r.resolveDirectContext(tgt)
	case 0x02:
		name = r.resolveIndirectContext(tgt, suffix)
	case 0x09:
		name = r.resolveDirectObjCProtocol(tgt)
	default:
		name = diagUnknownMarker(marker)
	}
	r.typeCache[tgt] = name
	return r.appendGenericSuffix(name, suffix, suffixSrc)
}

// resolveDirectContext parses a context descriptor at file offset tgt:
// name at tgt+8 (relative pointer), parent pointer at tgt+4. It composes
// `parent.name` unless the parent is the Swift module.
func (r *Resolver) resolveDirectContext(tgt int64) string {
	name, ok := r.readContextName(tgt)
	if !ok {
		return diagInvalidOffset(tgt)
	}
	parentRel, ok := r.readI32(tgt + 4)
	if !ok || parentRel == 0 {
		return name
	}
	parentTgt := tgt + 4 + int64(parentRel)
	parentFlags, ok := r.readU32(parentTgt)
	if !ok {
		return name
	}
	parentKind := parentFlags & 0x1F

	var parentName string
	if parentKind == 0 {
		if cached, ok := r.moduleCache[parentTgt]; ok {
			parentName = cached
		} else if pname, ok := r.readContextName(parentTgt); ok {
			parentName = pname
			r.moduleCache[parentTgt] = pname
		}
	} else {
		parentName = r.resolveDirectContext(parentTgt)
	}
	if parentName == "" || parentName == "Swift" {
		return name
	}
	return parentName + "." + name
}

func (r *Resolver) readContextName(descOffset int64) (string, bool) {
	nameRel, ok := r.readI32(descOffset + 8)
	if !ok || nameRel == 0 {
		return "", false
	}
	return r.readCString(descOffset + 8 + int64(nameRel))
}

// resolveIndirectContext implements §4.2's ordered fallback for an indirect
// context pointer: chained-fixups bind/rebase, 64-bit VM translation,
// direct file offset, 32-bit fallback, null-pointer-with-suffix.
func (r *Resolver) resolveIndirectContext(tgt int64, suffix []byte) string {
	ptr, ok := r.readU64(tgt)
	if !ok {
		return diagInvalidOffset(tgt)
	}

	if r.img.Fixups != nil {
		res := r.img.Fixups.DecodePointer(ptr)
		switch res.Kind {
		case image.Bind:
			if name, ok := r.img.Fixups.SymbolName(res.Ordinal); ok {
				if r.external != nil {
					if rendered, ok2 := r.external.Demangle([]string{name}); ok2 && len(rendered) > 0 {
						return rendered[0]
					}
				}
				return demangle.Demangle(name)
			}
			return diagExternalType()
		case image.Rebase:
			if off, ok := r.img.FileOffset(res.Target); ok {
				return r.resolveDirectContext(int64(off))
			}
		}
	}

	if off, ok := r.img.FileOffset(ptr); ok {
		return r.resolveDirectContext(int64(off))
	}
	if ptr < uint64(len(r.img.Data)) {
		return r.resolveDirectContext(int64(ptr))
	}
	if !r.img.Is64Bit {
		if ptr32, ok := r.readU32(tgt); ok {
			if off, ok2 := r.img.FileOffset(uint64(ptr32)); ok2 {
				return r.resolveDirectContext(int64(off))
			}
		}
	}
	if ptr == 0 && len(suffix) > 0 {
		return demangle.Demangle(string(suffix))
	}
	return diagUnresolvedIndirect()
}

// resolveDirectObjCProtocol reads a pointer, then a relative pointer, to a
// C string naming an imported Objective-C protocol.
func (r *Resolver) resolveDirectObjCProtocol(tgt int64) string {
	if ptr, ok := r.readU64(tgt); ok {
		if off, ok2 := r.img.FileOffset(ptr); ok2 {
			if s, ok3 := r.readCString(int64(off)); ok3 {
				return s
			}
		}
	}
	if rel, ok := r.readI32(tgt); ok {
		if s, ok2 := r.readCString(tgt + int64(rel)); ok2 {
			return s
		}
	}
	return diagUnresolvedIndirect()
}

// appendGenericSuffix implements the generic-suffix pass: bytes after the
// 5-byte marker may carry further symbolic refs, an `Sg` optional marker,
// or a `y...G` comma-less generic argument list.
func (r *Resolver) appendGenericSuffix(base string, suffix []byte, suffixSrc int64) string {
	if len(suffix) == 0 {
		return base
	}
	if bytes.HasSuffix(suffix, []byte("Sg")) {
		return base + "?"
	}
	if suffix[0] == 'y' {
		inner := suffix[1:]
		if bytes.HasSuffix(inner, []byte("G")) {
			inner = inner[:len(inner)-1]
		}
		var rendered string
		if len(inner) > 0 && (isSymbolicMarker(inner[0]) || containsEmbeddedRef(inner)) {
			rendered = r.resolveEmbeddedRefs(inner, suffixSrc+1)
		} else {
			rendered = demangle.Demangle(string(inner))
		}
		return base + "<" + rendered + ">"
	}
	if containsEmbeddedRef(suffix) {
		return base + r.resolveEmbeddedRefs(suffix, suffixSrc)
	}
	return base
}

// resolveEmbeddedRefs implements the embedded-refs pass (§4.2): it scans m
// left to right, dereferencing each 5-byte symbolic reference it finds and
// copying printable ASCII bytes through verbatim, then demangles the
// assembled string.
func (r *Resolver) resolveEmbeddedRefs(m []byte, src int64) string {
	var sb []byte
	i := 0
	for i < len(m) {
		b := m[i]
		if (b == 0x01 || b == 0x02) && i+5 <= len(m) {
			name := r.resolveMarker(m[i:i+5], src+int64(i))
			if name == "" {
				name = "?"
			}
			sb = append(sb, name...)
			i += 5
			continue
		}
		if b == 0x00 {
			inWindow := false
			for back := 1; back <= 4 && i-back >= 0; back++ {
				if m[i-back] == 0x01 || m[i-back] == 0x02 {
					inWindow = true
					break
				}
			}
			if !inWindow {
				break
			}
			i++
			continue
		}
		if b >= 0x20 && b < 0x7F {
			sb = append(sb, b)
		}
		i++
	}
	return demangle.Demangle(string(sb))
}

// resolveContainer implements the container-type fast path (§4.2): before
// general marker decoding, Say…G / SDy…G / Shy…G are parsed recursively
// through the resolver (not the demangler) so embedded markers inside type
// arguments are dereferenced.
func (r *Resolver) resolveContainer(m []byte, src int64) (string, bool) {
	rendered, _, ok := r.resolveContainerConsumed(m, src)
	return rendered, ok
}

// resolveContainerConsumed is resolveContainer's core, additionally
// reporting how many bytes of m it consumed. resolveGenericArg needs the
// count to recurse into a nested container argument (e.g. an array of
// arrays) and still know where the next sibling argument starts.
func (r *Resolver) resolveContainerConsumed(m []byte, src int64) (rendered string, consumed int, ok bool) {
	var rest []byte
	switch {
	case bytes.HasPrefix(m, []byte("Say")):
		elem, n := r.resolveGenericArg(m[3:], src+3)
		rendered = "[" + elem + "]"
		rest = m[3+n:]
		consumed = 3 + n
	case bytes.HasPrefix(m, []byte("SDy")):
		key, n1 := r.resolveGenericArg(m[3:], src+3)
		rest1 := m[3+n1:]
		val, n2 := r.resolveGenericArg(rest1, src+3+int64(n1))
		rendered = "[" + key + ": " + val + "]"
		rest = rest1[n2:]
		consumed = 3 + n1 + n2
	case bytes.HasPrefix(m, []byte("Shy")):
		elem, n := r.resolveGenericArg(m[3:], src+3)
		rendered = "Set<" + elem + ">"
		rest = m[3+n:]
		consumed = 3 + n
	default:
		return "", 0, false
	}
	if len(rest) > 0 && rest[0] == 'G' {
		rest = rest[1:]
		consumed++
	}
	if bytes.HasPrefix(rest, []byte("Sg")) {
		rendered += "?"
		consumed += 2
	}
	return rendered, consumed, true
}

// resolveGenericArg parses one type argument inside a container's generic
// arg list: a nested container token recurses through the resolver's own
// container path (so embedded markers at any depth get dereferenced), a
// bare symbolic reference is dereferenced directly, and anything else
// delegates to the Demangler's single-token parser, per §4.2's instruction
// to parse recursively with the resolver rather than the demangler.
func (r *Resolver) resolveGenericArg(data []byte, src int64) (rendered string, consumed int) {
	if len(data) == 0 {
		return "", 0
	}
	if rendered, n, ok := r.resolveContainerConsumed(data, src); ok {
		return rendered, n
	}
	if isSymbolicMarker(data[0]) && len(data) >= 5 {
		return r.resolveMarker(data[:5], src), 5
	}
	return demangle.ParseTypeToken(data)
}

func diagInvalidOffset(off int64) string {
	return fmt.Sprintf("/* invalid offset: %d */", off)
}

func diagUnresolvedIndirect() string {
	return "/* unresolved indirect */"
}

func diagExternalType() string {
	return "/* external type */"
}

func diagUnknownMarker(b byte) string {
	return fmt.Sprintf("/* unknown marker: 0x%02x */", b)
}
