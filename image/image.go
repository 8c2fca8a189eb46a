// Package image defines the external collaborator contract this repository
// consumes: a loaded Mach-O binary's byte buffer, segment/section table, and
// optional chained-fixups decoder. Nothing in this package parses a Mach-O
// file; a caller populates a BinaryImage from whatever container loader it
// already has and hands it to resolver.New / decoder.Decode.
package image

import "encoding/binary"

// Section describes one reflection-relevant section within a segment.
type Section struct {
	SegName string
	Name    string
	Offset  uint64 // file offset
	Addr    uint64 // virtual address
	Size    uint64
}

// Segment is a named region of the binary with a virtual-address range, a
// file-offset range, and the sections it contains.
type Segment struct {
	Name       string
	Addr       uint64
	AddrEnd    uint64
	Offset     uint64
	OffsetEnd  uint64
	Sections   []Section
}

// FixupResult is the sum type produced by decoding one chained-fixup pointer
// slot: exactly one of Bind or Rebase is meaningful, selected by Kind.
type FixupKind int

const (
	NotFixup FixupKind = iota
	Bind
	Rebase
)

type FixupResult struct {
	Kind    FixupKind
	Ordinal uint32 // valid when Kind == Bind
	Addend  int64  // valid when Kind == Bind
	Target  uint64 // valid when Kind == Rebase
}

// ChainedFixups decodes dyld chained-fixup pointer slots and resolves bind
// ordinals to external symbol names. Implementations live outside this
// package (see internal/fixupchains for the one this repository ships).
type ChainedFixups interface {
	DecodePointer(raw uint64) FixupResult
	SymbolName(ordinal uint32) (string, bool)
}

// BinaryImage is the full external-collaborator input: a byte buffer, its
// segment/section table, byte order, word size, and an optional chained
// fixups decoder.
type BinaryImage struct {
	Data     []byte
	Segments []Segment
	ByteOrder binary.ByteOrder
	Is64Bit  bool
	Fixups   ChainedFixups // nil if the container carries none
}

// Section returns the first section named name within segment segname, or
// ok=false if no such section exists.
func (img *BinaryImage) Section(segname, name string) (Section, bool) {
	for _, seg := range img.Segments {
		if seg.Name != segname {
			continue
		}
		for _, sec := range seg.Sections {
			if sec.Name == name {
				return sec, true
			}
		}
	}
	return Section{}, false
}

// FindSection locates the first section named name in any of the segments
// listed in segnames, in order. Used for the fieldmd/types/protos/proto
// lookup order which tries __TEXT then __DATA_CONST.
func (img *BinaryImage) FindSection(name string, segnames ...string) (Section, bool) {
	for _, seg := range segnames {
		if sec, ok := img.Section(seg, name); ok {
			return sec, true
		}
	}
	return Section{}, false
}

// FileOffset translates a virtual address to a file offset using the segment
// whose address range contains it. ok is false when no segment covers addr.
func (img *BinaryImage) FileOffset(addr uint64) (offset uint64, ok bool) {
	for _, seg := range img.Segments {
		if addr >= seg.Addr && addr < seg.AddrEnd {
			return seg.Offset + (addr - seg.Addr), true
		}
	}
	return 0, false
}
