package demangle

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDemangle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"Si", "Int"},
		{"SSSg", "String?"},
		{"SaySiG", "[Int]"},
		{"SDySSSiG", "[String: Int]"},
		{"ShySiG", "Set<Int>"},
	}

	var got, want []string
	for _, tt := range tests {
		got = append(got, Demangle(tt.in))
		want = append(want, tt.want)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Demangle batch mismatch (-want +got):\n%s", diff)
	}
}

func TestDemangleSymbolicMarkerVerbatim(t *testing.T) {
	marker := string([]byte{0x01, 'a', 'b'})
	if got := Demangle(marker); got != marker {
		t.Errorf("Demangle(marker) = %q, want verbatim %q", got, marker)
	}
}

func TestDemangleClassName(t *testing.T) {
	tests := []struct {
		in         string
		wantModule string
		wantName   string
		wantOK     bool
	}{
		{"_TtC10Foundation8NSObject", "Foundation", "NSObject", true},
		{
			"_TtCC13IDEFoundation22IDEBuildNoticeProvider16BuildLogObserver",
			"IDEFoundation",
			"IDEBuildNoticeProvider.BuildLogObserver",
			true,
		},
		{"not a mangled name", "", "", false},
	}
	for _, tt := range tests {
		module, name, ok := DemangleClassName(tt.in)
		if ok != tt.wantOK || module != tt.wantModule || name != tt.wantName {
			t.Errorf("DemangleClassName(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tt.in, module, name, ok, tt.wantModule, tt.wantName, tt.wantOK)
		}
	}
}

func TestDemangleProtocolName(t *testing.T) {
	module, name, ok := DemangleProtocolName("_TtP10Foundation8Hashable_")
	if !ok || module != "Foundation" || name != "Hashable" {
		t.Fatalf("DemangleProtocolName = (%q, %q, %v), want (Foundation, Hashable, true)", module, name, ok)
	}
}

func TestDemangleFunctionSignature(t *testing.T) {
	sig, ok := DemangleFunctionSignature("_$s4Test3fooSSyF")
	if !ok {
		t.Fatal("DemangleFunctionSignature returned ok=false")
	}
	if sig.Module != "Test" || sig.Name != "foo" {
		t.Errorf("module/name = %q/%q, want Test/foo", sig.Module, sig.Name)
	}
	if sig.Return != "String" {
		t.Errorf("Return = %q, want String", sig.Return)
	}
	if len(sig.Parameters) != 0 {
		t.Errorf("Parameters = %v, want none", sig.Parameters)
	}
	if sig.Async || sig.Sendable || sig.Throws {
		t.Errorf("effects should all be false, got %+v", sig)
	}
}

func TestDemangleClosureType(t *testing.T) {
	clo, ok := DemangleClosureType("ySScXB")
	if !ok {
		t.Fatal("DemangleClosureType returned ok=false")
	}
	if clo.Convention != "block" {
		t.Errorf("Convention = %q, want block", clo.Convention)
	}
	if clo.Return != "Void" {
		t.Errorf("Return = %q, want Void", clo.Return)
	}
	if len(clo.Parameters) != 1 || clo.Parameters[0] != "String" {
		t.Errorf("Parameters = %v, want [String]", clo.Parameters)
	}
}

func TestDemangleGenericSignatureAllRequirementKinds(t *testing.T) {
	// conformance(Hashable), sameType(Int), layout(AnyObject),
	// baseClass(String), associatedPath(UInt8), terminated by a bare `l`.
	sig, ok := DemangleGenericSignature("RzSHRsSiRlRbSSR_SZl")
	if !ok {
		t.Fatal("DemangleGenericSignature returned ok=false")
	}
	want := []GenericRequirement{
		{Kind: "conformance", Target: "Hashable"},
		{Kind: "sameType", Target: "Int"},
		{Kind: "layout", Target: "AnyObject"},
		{Kind: "baseClass", Target: "String"},
		{Kind: "associatedPath", Target: "UInt8"},
	}
	if diff := cmp.Diff(want, sig.Requirements); diff != "" {
		t.Errorf("Requirements mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(defaultGenericParams, sig.Parameters); diff != "" {
		t.Errorf("Parameters mismatch (-want +got):\n%s", diff)
	}
}

// TestDemangleGenericSignatureConformanceDisambiguatesSZ proves the SZ/SD
// collision between shortcut2 and protocolShortcut2 resolves by call site:
// a conformance requirement's target names a protocol, so SZ renders
// SignedInteger here, not shortcut2's UInt8.
func TestDemangleGenericSignatureConformanceDisambiguatesSZ(t *testing.T) {
	sig, ok := DemangleGenericSignature("RzSZl")
	if !ok {
		t.Fatal("DemangleGenericSignature returned ok=false")
	}
	want := []GenericRequirement{{Kind: "conformance", Target: "SignedInteger"}}
	if diff := cmp.Diff(want, sig.Requirements); diff != "" {
		t.Errorf("Requirements mismatch (-want +got):\n%s", diff)
	}
}

// TestDemangleSZOutsideConformancePositionIsValueType proves the ordinary
// value-type position (not a protocol requirement target) still prefers
// shortcut2's meaning for the same two-character code.
func TestDemangleSZOutsideConformancePositionIsValueType(t *testing.T) {
	if got := Demangle("SZ"); got != "UInt8" {
		t.Errorf("Demangle(SZ) = %q, want UInt8", got)
	}
	if got := Demangle("SD"); got != "Dictionary" {
		t.Errorf("Demangle(SD) = %q, want Dictionary", got)
	}
}

func TestDemangleIntWidthForm(t *testing.T) {
	if got := Demangle("s6UInt32V"); got != "UInt32" {
		t.Errorf("Demangle(s6UInt32V) = %q, want UInt32", got)
	}
}

func TestDemangleObjCImportTranslatesKnownName(t *testing.T) {
	if got := Demangle("So8NSStringC"); got != "String" {
		t.Errorf("Demangle(So8NSStringC) = %q, want String", got)
	}
}

func TestDemangleObjCImportProtocolExistential(t *testing.T) {
	if got := Demangle("So9NSObject2C_p"); got != "any NSObject2" {
		t.Errorf("Demangle(So9NSObject2C_p) = %q, want any NSObject2", got)
	}
}

func TestDemangleObjCImportDispatchPrefix(t *testing.T) {
	if got := Demangle("So17OS_dispatch_queueC"); got != "Dispatchqueue" {
		t.Errorf("Demangle(So17OS_dispatch_queueC) = %q, want Dispatchqueue", got)
	}
}

// TestDemangleWordSubstitution covers the qualified-name word-substitution
// grammar: a second component backreferences the first word recorded by
// tryQualifiedName, then appends a trailing literal.
func TestDemangleWordSubstitution(t *testing.T) {
	if got := Demangle("5Alpha0A3Bar"); got != "Alpha.AlphaBar" {
		t.Errorf("Demangle(5Alpha0A3Bar) = %q, want Alpha.AlphaBar", got)
	}
}

func TestDemangleEmptyInputs(t *testing.T) {
	if got := Demangle(""); got != "" {
		t.Errorf("Demangle(\"\") = %q, want empty", got)
	}
	if _, _, ok := DemangleClassName(""); ok {
		t.Error("DemangleClassName(\"\") should fail")
	}
	if _, ok := DemangleFunctionSignature(""); ok {
		t.Error("DemangleFunctionSignature(\"\") should fail")
	}
}
