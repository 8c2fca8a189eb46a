package resolver

import (
	"encoding/binary"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/blacktop/go-swiftmeta/image"
)

const (
	specTypeDescOffset   = 0x1000
	specTypeNameOffset   = 0x1100
	specModuleDescOffset = 0x2000
	specModuleNameOffset = 0x2100
)

// buildSpecScenarioImage constructs the buffer described by §8's concrete
// end-to-end scenario: a type-context descriptor at 0x1000 named "Widget"
// whose parent module descriptor at 0x2000 is named "MyApp".
func buildSpecScenarioImage() *image.BinaryImage {
	data := make([]byte, 0x3200)
	putU32 := func(off int, v uint32) { binary.LittleEndian.PutUint32(data[off:off+4], v) }
	putI32 := func(off int, v int32) { putU32(off, uint32(v)) }
	putStr := func(off int, s string) { copy(data[off:], s) }

	putStr(specTypeNameOffset, "Widget")
	putStr(specModuleNameOffset, "MyApp")

	putU32(specTypeDescOffset, 17) // kind = struct
	putI32(specTypeDescOffset+4, int32(specModuleDescOffset-(specTypeDescOffset+4)))
	putI32(specTypeDescOffset+8, int32(specTypeNameOffset-(specTypeDescOffset+8)))

	putU32(specModuleDescOffset, 0) // kind = module
	putI32(specModuleDescOffset+4, 0)
	putI32(specModuleDescOffset+8, int32(specModuleNameOffset-(specModuleDescOffset+8)))

	return &image.BinaryImage{Data: data, ByteOrder: binary.LittleEndian, Is64Bit: true}
}

func buildSpecMarker(src int64) []byte {
	rel := int32(specTypeDescOffset - (src + 1))
	marker := make([]byte, 5)
	marker[0] = 0x01
	binary.LittleEndian.PutUint32(marker[1:], uint32(rel))
	return marker
}

func TestResolveDirectContext(t *testing.T) {
	img := buildSpecScenarioImage()
	const src = 0x500
	r := New(img)
	if got := r.ResolveType(buildSpecMarker(src), src); got != "MyApp.Widget" {
		t.Fatalf("ResolveType = %q, want MyApp.Widget", got)
	}
}

func TestResolveDirectContextWithOptionalSuffix(t *testing.T) {
	img := buildSpecScenarioImage()
	const src = 0x500
	m := append(buildSpecMarker(src), 'S', 'g')
	r := New(img)
	if got := r.ResolveType(m, src); got != "MyApp.Widget?" {
		t.Fatalf("ResolveType with Sg suffix = %q, want MyApp.Widget?", got)
	}
}

func TestResolveDirectContextWithGenericSuffix(t *testing.T) {
	img := buildSpecScenarioImage()
	const src = 0x500
	m := append(buildSpecMarker(src), 'y', 'S', 'i', 'G')
	r := New(img)
	if got := r.ResolveType(m, src); got != "MyApp.Widget<Int>" {
		t.Fatalf("ResolveType with generic suffix = %q, want MyApp.Widget<Int>", got)
	}
}

func TestResolveTypeCacheHitMatchesCacheMiss(t *testing.T) {
	img := buildSpecScenarioImage()
	const src = 0x500
	r := New(img)
	m := buildSpecMarker(src)
	first := r.ResolveType(m, src)
	second := r.ResolveType(m, src)
	if first != second {
		t.Fatalf("cache hit %q != cache miss %q", second, first)
	}
}

func TestResolveTypeNoMarkersDelegatesToDemangler(t *testing.T) {
	img := &image.BinaryImage{Data: []byte{}, ByteOrder: binary.LittleEndian, Is64Bit: true}
	r := New(img)
	if got := r.ResolveType([]byte("Si"), 0); got != "Int" {
		t.Fatalf("ResolveType(%q) = %q, want Int", "Si", got)
	}
}

func TestResolveTypeEmptyInput(t *testing.T) {
	img := &image.BinaryImage{Data: []byte{}, ByteOrder: binary.LittleEndian, Is64Bit: true}
	r := New(img)
	if got := r.ResolveType(nil, 0); got != "" {
		t.Fatalf("ResolveType(nil) = %q, want empty", got)
	}
}

func TestResolveTypeOutOfRangeOffsetIsDiagnostic(t *testing.T) {
	img := &image.BinaryImage{Data: make([]byte, 16), ByteOrder: binary.LittleEndian, Is64Bit: true}
	r := New(img)
	marker := []byte{0x01, 0xFF, 0xFF, 0xFF, 0x7F} // huge positive relative offset
	got := r.ResolveType(marker, 0)
	if len(got) == 0 || got[0:2] != "/*" {
		t.Fatalf("ResolveType with out-of-range target = %q, want a diagnostic placeholder", got)
	}
}

func TestResolveTypeVariantsAgainstExpectedBatch(t *testing.T) {
	img := buildSpecScenarioImage()
	const src = 0x500
	r := New(img)

	got := []string{
		r.ResolveType(buildSpecMarker(src), src),
		r.ResolveType(append(buildSpecMarker(src), 'S', 'g'), src),
		r.ResolveType(append(buildSpecMarker(src), 'y', 'S', 'i', 'G'), src),
		r.ResolveType([]byte("SaySiG"), 0),
		r.ResolveType([]byte("ShySiG"), 0),
	}
	want := []string{
		"MyApp.Widget",
		"MyApp.Widget?",
		"MyApp.Widget<Int>",
		"[Int]",
		"Set<Int>",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ResolveType batch mismatch (-want +got):\n%s", diff)
	}
}

// stubFixups is a fixed image.ChainedFixups used to exercise
// resolveIndirectContext's bind/rebase branches without a real dyld
// chained-fixups table.
type stubFixups struct {
	result   image.FixupResult
	symbol   string
	symbolOK bool
}

func (s stubFixups) DecodePointer(uint64) image.FixupResult { return s.result }
func (s stubFixups) SymbolName(uint32) (string, bool)        { return s.symbol, s.symbolOK }

func TestResolveIndirectContextBindFallsBackToBuiltinDemangler(t *testing.T) {
	data := make([]byte, 0x40)
	img := &image.BinaryImage{
		Data:      data,
		ByteOrder: binary.LittleEndian,
		Is64Bit:   true,
		Fixups: stubFixups{
			result:   image.FixupResult{Kind: image.Bind, Ordinal: 3},
			symbol:   "ZetaExternalSymbol",
			symbolOK: true,
		},
	}
	r := New(img)
	const src = 0x10
	marker := make([]byte, 5)
	marker[0] = 0x02 // indirect context
	if got := r.ResolveType(marker, src); got != "ZetaExternalSymbol" {
		t.Fatalf("ResolveType(bind) = %q, want ZetaExternalSymbol", got)
	}
}

func TestResolveIndirectContextBindWithoutImportReturnsExternalDiagnostic(t *testing.T) {
	data := make([]byte, 0x40)
	img := &image.BinaryImage{
		Data:      data,
		ByteOrder: binary.LittleEndian,
		Is64Bit:   true,
		Fixups: stubFixups{
			result: image.FixupResult{Kind: image.Bind, Ordinal: 9},
		},
	}
	r := New(img)
	marker := make([]byte, 5)
	marker[0] = 0x02
	got := r.ResolveType(marker, 0x10)
	if len(got) == 0 || got[0:2] != "/*" {
		t.Fatalf("ResolveType(bind, unresolved ordinal) = %q, want a diagnostic placeholder", got)
	}
}

func TestResolveIndirectContextRebaseTranslatesThroughFixups(t *testing.T) {
	const (
		descOffset = 0x450
		nameOffset = 0x470
		descAddr   = 0x4050
	)
	data := make([]byte, 0x1000)
	putU32 := func(off int, v uint32) { binary.LittleEndian.PutUint32(data[off:off+4], v) }
	putI32 := func(off int, v int32) { putU32(off, uint32(v)) }
	copy(data[nameOffset:], "Gadget\x00")
	putU32(descOffset, 17) // kind = struct
	putI32(descOffset+4, 0)
	putI32(descOffset+8, int32(nameOffset-(descOffset+8)))

	img := &image.BinaryImage{
		Data:      data,
		ByteOrder: binary.LittleEndian,
		Is64Bit:   true,
		Segments: []image.Segment{
			{Name: "__TEXT", Addr: 0x4000, AddrEnd: 0x5000, Offset: 0x400, OffsetEnd: 0x1000},
		},
		Fixups: stubFixups{
			result: image.FixupResult{Kind: image.Rebase, Target: descAddr},
		},
	}
	r := New(img)
	const src = 0x20
	marker := make([]byte, 5)
	marker[0] = 0x02
	if got := r.ResolveType(marker, src); got != "Gadget" {
		t.Fatalf("ResolveType(rebase) = %q, want Gadget", got)
	}
}

func TestResolveDirectObjCProtocolReadsCStringThroughPointer(t *testing.T) {
	const (
		tgt     = 0x31
		ptrVal  = 0x9000
		fileOff = 0x1800
	)
	data := make([]byte, 0x2000)
	binary.LittleEndian.PutUint64(data[tgt:], ptrVal)
	copy(data[fileOff:], "ProtocolCrunchy\x00")

	img := &image.BinaryImage{
		Data:      data,
		ByteOrder: binary.LittleEndian,
		Is64Bit:   true,
		Segments: []image.Segment{
			{Name: "__TEXT", Addr: 0x8000, AddrEnd: 0x9800, Offset: 0x800, OffsetEnd: 0x2000},
		},
	}
	r := New(img)
	const src = 0x30
	marker := make([]byte, 5)
	marker[0] = 0x09 // direct ObjC protocol
	if got := r.ResolveType(marker, src); got != "ProtocolCrunchy" {
		t.Fatalf("ResolveType(ObjC protocol) = %q, want ProtocolCrunchy", got)
	}
}

// TestResolveGenericArgRecursesThroughNestedContainerMarker covers an
// array-of-array argument whose innermost element is a symbolic reference:
// only the resolver's own container recursion can dereference it, since
// demangle.ParseTypeToken has no marker-decoding logic of its own.
func TestResolveGenericArgRecursesThroughNestedContainerMarker(t *testing.T) {
	img := buildSpecScenarioImage()
	r := New(img)
	const nestedSrc = 0x500
	marker := buildSpecMarker(nestedSrc + 6)
	m := append([]byte("SaySay"), marker...)
	m = append(m, 'G', 'G')
	if got := r.ResolveType(m, nestedSrc); got != "[[MyApp.Widget]]" {
		t.Fatalf("ResolveType(nested array w/ embedded marker) = %q, want [[MyApp.Widget]]", got)
	}
}

func TestResolveContainerFastPath(t *testing.T) {
	img := &image.BinaryImage{Data: []byte{}, ByteOrder: binary.LittleEndian, Is64Bit: true}
	r := New(img)
	if got := r.ResolveType([]byte("SaySiG"), 0); got != "[Int]" {
		t.Fatalf("ResolveType(SaySiG) = %q, want [Int]", got)
	}
	if got := r.ResolveType([]byte("ShySiG"), 0); got != "Set<Int>" {
		t.Fatalf("ResolveType(ShySiG) = %q, want Set<Int>", got)
	}
}
