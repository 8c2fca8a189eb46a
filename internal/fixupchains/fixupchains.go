// Package fixupchains decodes dyld chained-fixup pointer slots — the arm64e,
// generic 64-bit, and 32-bit pointer formats used by modern Mach-O binaries
// in place of literal addresses. It implements image.ChainedFixups.
package fixupchains

import "github.com/blacktop/go-swiftmeta/image"

// PointerFormat selects which chained-pointer bit layout a Decoder applies.
// Each value names one of dyld's DYLD_CHAINED_PTR_* formats; the numeric
// values are this package's own (counting from 0) and are not dyld's
// pointer_format numbers.
type PointerFormat int

const (
	PointerARM64E PointerFormat = iota
	PointerGeneric64
	PointerGeneric32
)

func extractBits(x uint64, start, nbits uint) uint64 {
	return (x >> start) & ((1 << nbits) - 1)
}

// Decoder decodes raw pointer-slot values for one fixed pointer format and
// resolves bind ordinals against a fixed import-name table.
type Decoder struct {
	Format  PointerFormat
	Imports []string // index = bind ordinal
}

// NewDecoder builds a Decoder over the import-name table recovered from a
// container's LC_DYLD_CHAINED_FIXUPS imports table.
func NewDecoder(format PointerFormat, imports []string) *Decoder {
	return &Decoder{Format: format, Imports: imports}
}

// DecodePointer classifies a raw 64-bit pointer-slot value into a bind,
// rebase, or not-a-fixup result, according to the decoder's pointer format.
func (d *Decoder) DecodePointer(raw uint64) image.FixupResult {
	switch d.Format {
	case PointerARM64E:
		return d.decodeARM64E(raw)
	case PointerGeneric64:
		return d.decodeGeneric64(raw)
	case PointerGeneric32:
		return d.decodeGeneric32(uint32(raw))
	default:
		return image.FixupResult{Kind: image.NotFixup}
	}
}

// SymbolName resolves a bind ordinal against the import table.
func (d *Decoder) SymbolName(ordinal uint32) (string, bool) {
	if int(ordinal) < 0 || int(ordinal) >= len(d.Imports) {
		return "", false
	}
	return d.Imports[ordinal], true
}

// arm64eIsBind/IsAuth report the two high-order classification bits shared by
// every arm64e chained-pointer variant: bit 62 selects bind vs rebase, bit 63
// selects the authenticated sub-variant.
func arm64eIsBind(raw uint64) bool { return extractBits(raw, 62, 1) != 0 }
func arm64eIsAuth(raw uint64) bool { return extractBits(raw, 63, 1) != 0 }

func (d *Decoder) decodeARM64E(raw uint64) image.FixupResult {
	if arm64eIsBind(raw) {
		if arm64eIsAuth(raw) {
			ordinal := uint32(extractBits(raw, 0, 16))
			return image.FixupResult{Kind: image.Bind, Ordinal: ordinal}
		}
		ordinal := uint32(extractBits(raw, 0, 16))
		addend19 := extractBits(raw, 32, 19)
		addend := int64(addend19)
		if addend19&0x40000 != 0 {
			addend = int64(addend19 | 0xFFFFFFFFFFFC0000)
		}
		return image.FixupResult{Kind: image.Bind, Ordinal: ordinal, Addend: addend}
	}
	if arm64eIsAuth(raw) {
		target := extractBits(raw, 0, 32)
		return image.FixupResult{Kind: image.Rebase, Target: target}
	}
	target := extractBits(raw, 0, 43)
	high8 := extractBits(raw, 43, 8)
	return image.FixupResult{Kind: image.Rebase, Target: high8<<56 | target}
}

func (d *Decoder) decodeGeneric64(raw uint64) image.FixupResult {
	if extractBits(raw, 63, 1) != 0 {
		ordinal := uint32(extractBits(raw, 0, 24))
		addend := int64(extractBits(raw, 24, 8))
		return image.FixupResult{Kind: image.Bind, Ordinal: ordinal, Addend: addend}
	}
	target := extractBits(raw, 0, 36)
	high8 := extractBits(raw, 36, 8)
	return image.FixupResult{Kind: image.Rebase, Target: high8<<56 | target}
}

func (d *Decoder) decodeGeneric32(raw uint32) image.FixupResult {
	r := uint64(raw)
	if extractBits(r, 31, 1) != 0 {
		ordinal := uint32(extractBits(r, 0, 20))
		addend := int64(extractBits(r, 20, 6))
		return image.FixupResult{Kind: image.Bind, Ordinal: ordinal, Addend: addend}
	}
	target := extractBits(r, 0, 26)
	return image.FixupResult{Kind: image.Rebase, Target: target}
}
