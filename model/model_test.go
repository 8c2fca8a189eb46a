package model

import "testing"

func TestBuildIndicesFirstWinsOnDuplicateNames(t *testing.T) {
	m := New()
	m.Types = []Type{
		{Offset: 1, Name: "Widget", ParentName: "MyApp", Kind: KindStruct},
		{Offset: 2, Name: "Widget", ParentName: "MyApp", Kind: KindStruct},
	}
	m.BuildIndices()

	if got := m.TypesByName["Widget"].Offset; got != 1 {
		t.Errorf("TypesByName first-wins offset = %d, want 1", got)
	}
	if got := m.TypesByFullName["MyApp.Widget"].Offset; got != 1 {
		t.Errorf("TypesByFullName first-wins offset = %d, want 1", got)
	}
	if len(m.TypesByOffset) != 2 {
		t.Errorf("TypesByOffset should hold both distinct offsets, got %d entries", len(m.TypesByOffset))
	}
}

func TestIndicesAreSurjectiveOntoSequences(t *testing.T) {
	m := New()
	m.Conformances = []Conformance{
		{DescriptorOffset: 1, TypeName: "Widget", ProtocolName: "Codable"},
		{DescriptorOffset: 2, TypeName: "Gadget", ProtocolName: "Codable"},
	}
	m.Extensions = []Extension{
		{Offset: 1, ExtendedTypeName: "Widget"},
	}
	m.BuildIndices()

	if len(m.ConformancesByTypeName["Widget"]) != 1 {
		t.Errorf("ConformancesByTypeName[Widget] = %v, want 1 entry", m.ConformancesByTypeName["Widget"])
	}
	if len(m.ConformancesByProtocolName["Codable"]) != 2 {
		t.Errorf("ConformancesByProtocolName[Codable] = %v, want 2 entries", m.ConformancesByProtocolName["Codable"])
	}
	if len(m.ExtensionsByTypeName["Widget"]) != 1 {
		t.Errorf("ExtensionsByTypeName[Widget] = %v, want 1 entry", m.ExtensionsByTypeName["Widget"])
	}
}

func TestConformanceFlagsInvariants(t *testing.T) {
	// bit 3 set (isRetroactive), bits 8-15 = 5 (conditional requirements).
	flags := ConformanceFlags(1<<3 | 5<<8)
	c := Conformance{Flags: flags}
	if !c.IsRetroactive() {
		t.Error("IsRetroactive() = false, want true")
	}
	if got := c.ConditionalRequirementCount(); got != 5 {
		t.Errorf("ConditionalRequirementCount() = %d, want 5", got)
	}
}

func TestContextDescriptorFlagsKindAndBits(t *testing.T) {
	flags := ContextDescriptorFlags(KindClass) | 1<<7 | 1<<15
	if flags.Kind() != KindClass {
		t.Errorf("Kind() = %v, want KindClass", flags.Kind())
	}
	if !flags.IsType() {
		t.Error("IsType() = false for class kind, want true")
	}
	if !flags.IsGeneric() {
		t.Error("IsGeneric() = false, want true")
	}
	if !flags.HasVTable() {
		t.Error("HasVTable() = false, want true")
	}
}

func TestTypeIsGenericInvariant(t *testing.T) {
	gen := Type{GenericParamCount: 2}
	if !gen.IsGeneric() {
		t.Error("IsGeneric() should be true when GenericParamCount > 0")
	}
	nonGen := Type{GenericParamCount: 0}
	if nonGen.IsGeneric() {
		t.Error("IsGeneric() should be false when GenericParamCount == 0")
	}
}
