package model

// ContextDescriptorKind is the 5-bit kind encoded in every context
// descriptor's flags (§3 "Context-kind flags").
type ContextDescriptorKind uint8

const (
	KindModule      ContextDescriptorKind = 0
	KindExtension   ContextDescriptorKind = 1
	KindAnonymous   ContextDescriptorKind = 2
	KindProtocol    ContextDescriptorKind = 3
	KindOpaqueType  ContextDescriptorKind = 4
	KindClass       ContextDescriptorKind = 16
	KindStruct      ContextDescriptorKind = 17
	KindEnum        ContextDescriptorKind = 18
)

// MetadataInitializationKind is the class-only metadata-initialization
// sub-field of a context descriptor's flags.
type MetadataInitializationKind uint8

const (
	MetadataInitNone      MetadataInitializationKind = 0
	MetadataInitSingleton MetadataInitializationKind = 1
	MetadataInitForeign   MetadataInitializationKind = 2
)

// ContextDescriptorFlags is the raw 32-bit flags word of a context
// descriptor, with bit-shift-and-mask accessor methods exactly in the
// teacher's own style (plain value type over an unsigned integer, no
// bitset library).
type ContextDescriptorFlags uint32

func (f ContextDescriptorFlags) Kind() ContextDescriptorKind {
	return ContextDescriptorKind(f & 0x1F)
}

// IsType reports whether the kind is a nominal type (class/struct/enum),
// i.e. the kind value falls in [16, 31].
func (f ContextDescriptorFlags) IsType() bool {
	k := f & 0x1F
	return k >= 16 && k <= 31
}

func (f ContextDescriptorFlags) IsUnique() bool {
	return f&(1<<6) != 0
}

func (f ContextDescriptorFlags) IsGeneric() bool {
	return f&(1<<7) != 0
}

func (f ContextDescriptorFlags) Version() uint8 {
	return uint8((f >> 8) & 0xFF)
}

// Class-only kind-specific flags (bits 8-15 when Kind() == KindClass).

func (f ContextDescriptorFlags) MetadataInitialization() MetadataInitializationKind {
	return MetadataInitializationKind((f >> 8) & 0x3)
}

func (f ContextDescriptorFlags) HasStaticVTable() bool {
	return f&(1<<12) != 0
}

func (f ContextDescriptorFlags) HasResilientSuperclass() bool {
	return f&(1<<13) != 0
}

func (f ContextDescriptorFlags) HasOverrideTable() bool {
	return f&(1<<14) != 0
}

func (f ContextDescriptorFlags) HasVTable() bool {
	return f&(1<<15) != 0
}

// TypeReferenceKind selects how a Conformance's type-ref field should be
// interpreted (§3 Conformance, §6 conformance flag bits 0-2).
type TypeReferenceKind uint8

const (
	DirectTypeDescriptor TypeReferenceKind = iota
	IndirectTypeDescriptor
	DirectObjCClass
	IndirectObjCClass
)

// ConformanceFlags is the raw 32-bit flags word of a conformance record.
type ConformanceFlags uint32

func (f ConformanceFlags) TypeReferenceKind() TypeReferenceKind {
	return TypeReferenceKind(f & 0x7)
}

func (f ConformanceFlags) IsRetroactive() bool {
	return f&(1<<3) != 0
}

func (f ConformanceFlags) IsSynthesizedNonUnique() bool {
	return f&(1<<4) != 0
}

func (f ConformanceFlags) HasResilientWitnesses() bool {
	return f&(1<<5) != 0
}

func (f ConformanceFlags) HasGenericWitnessTable() bool {
	return f&(1<<6) != 0
}

func (f ConformanceFlags) NumConditionalRequirements() uint8 {
	return uint8((f >> 8) & 0xFF)
}

// GenericRequirementKind is the kind sub-field of a generic requirement
// record's flags (§3 "Generic requirement", §4.3).
type GenericRequirementKind uint8

const (
	RequirementProtocol GenericRequirementKind = 0
	RequirementSameType GenericRequirementKind = 1
	RequirementBaseClass GenericRequirementKind = 2
	RequirementSameConformance GenericRequirementKind = 3
	RequirementLayout GenericRequirementKind = 4
)

// ProtocolRequirementKind distinguishes a protocol requirement's role
// (§3 Protocol, Requirement).
type ProtocolRequirementKind string

const (
	RequirementBaseProtocol                          ProtocolRequirementKind = "baseProtocol"
	RequirementMethod                                ProtocolRequirementKind = "method"
	RequirementInitializer                           ProtocolRequirementKind = "initializer"
	RequirementGetter                                ProtocolRequirementKind = "getter"
	RequirementSetter                                ProtocolRequirementKind = "setter"
	RequirementReadCoroutine                         ProtocolRequirementKind = "readCoroutine"
	RequirementModifyCoroutine                       ProtocolRequirementKind = "modifyCoroutine"
	RequirementAssociatedTypeAccessFunction           ProtocolRequirementKind = "associatedTypeAccessFunction"
	RequirementAssociatedConformanceAccessFunction    ProtocolRequirementKind = "associatedConformanceAccessFunction"
)

// ProtocolRequirementFlags is the raw 32-bit flags word of a protocol
// requirement record (§4.3: `flags:u32 | defaultImpl:rel32`).
type ProtocolRequirementFlags uint32

var protocolRequirementKindByValue = map[uint32]ProtocolRequirementKind{
	0: RequirementBaseProtocol,
	1: RequirementMethod,
	2: RequirementInitializer,
	3: RequirementGetter,
	4: RequirementSetter,
	5: RequirementReadCoroutine,
	6: RequirementModifyCoroutine,
	7: RequirementAssociatedTypeAccessFunction,
	8: RequirementAssociatedConformanceAccessFunction,
}

func (f ProtocolRequirementFlags) Kind() ProtocolRequirementKind {
	if kind, ok := protocolRequirementKindByValue[uint32(f)&0x0F]; ok {
		return kind
	}
	return RequirementMethod
}

func (f ProtocolRequirementFlags) IsInstance() bool {
	return f&(1<<4) != 0
}

func (f ProtocolRequirementFlags) IsAsync() bool {
	return f&(1<<5) != 0
}
