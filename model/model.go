// Package model holds §3's immutable value records: every entity the
// Reflection Decoder produces, plus the derived indices a reader consults.
// Entities are built once during decoding and never mutated afterward.
package model

// Field is a nominal type's field: name, raw mangled-type bytes and source
// offset (always retained so a caller can resolve it lazily), and the
// rendered type name the Decoder already computed.
type Field struct {
	Name              string
	MangledTypeBytes  []byte
	MangledTypeOffset int64
	RenderedTypeName  string
	IsVar             bool
	IsIndirect        bool
}

// GenericRequirement is one parsed constraint from a generic-context header
// (§3 "Generic requirement").
type GenericRequirement struct {
	Kind                GenericRequirementKind
	ParameterName       string
	RenderedConstraint  string
	RawFlags            uint32
}

// Type represents a nominal type: class, struct, or enum (§3 "Type").
type Type struct {
	Offset                int64 // source offset; identity
	Kind                  ContextDescriptorKind
	Name                  string
	ParentName            string
	ParentKind            ContextDescriptorKind
	SuperclassName        string // non-empty only when Kind == KindClass
	Fields                []Field
	GenericParameterNames []string
	GenericParamCount     int
	GenericRequirements   []GenericRequirement
	Flags                 ContextDescriptorFlags
	// ObjCClassAddress is reserved for a class's linked Objective-C class
	// pointer. No context-descriptor field the decoder reads carries this
	// address for a Swift-native class; it stays 0 here. The ObjC class
	// identity the decoder does observe — via a conformance record's
	// DirectObjCClass/IndirectObjCClass type-reference kind — surfaces on
	// Conformance.ConformingTypeOffset/TypeName instead, since that class
	// has no Swift context descriptor of its own to attach a Type to.
	ObjCClassAddress uint64
}

// IsGeneric reports whether the type has any generic parameters; §8
// requires isGeneric ⇔ genericParamCount > 0.
func (t Type) IsGeneric() bool { return t.GenericParamCount > 0 }

// Requirement is one protocol requirement (§3 "Protocol").
type Requirement struct {
	Kind                     ProtocolRequirementKind
	Name                     string // may be empty, see §7 "Requirement-name gaps"
	IsInstance               bool
	IsAsync                  bool
	HasDefaultImplementation bool
}

// Protocol represents a Swift protocol descriptor (§3 "Protocol").
type Protocol struct {
	Offset                 int64
	Name                   string
	ParentName             string
	AssociatedTypeNames    []string
	InheritedProtocolNames []string
	Requirements           []Requirement
}

// Conformance links a conforming type to a protocol (§3 "Conformance").
type Conformance struct {
	DescriptorOffset         int64
	ConformingTypeOffset     int64
	TypeName                 string
	MangledTypeName          string
	ProtocolName             string
	ProtocolDescriptorOffset int64
	Flags                    ConformanceFlags
}

// ConditionalRequirementCount mirrors §8's invariant:
// c.conditionalRequirementCount = (c.flags.rawValue >> 8) & 0xFF.
func (c Conformance) ConditionalRequirementCount() int {
	return int(c.Flags.NumConditionalRequirements())
}

func (c Conformance) IsRetroactive() bool { return c.Flags.IsRetroactive() }

// FieldDescriptorKind enumerates §3's FieldDescriptor.kind values.
type FieldDescriptorKind string

const (
	FieldDescStruct          FieldDescriptorKind = "struct"
	FieldDescClass           FieldDescriptorKind = "class"
	FieldDescEnum            FieldDescriptorKind = "enum"
	FieldDescMultiPayloadEnum FieldDescriptorKind = "multiPayloadEnum"
	FieldDescProtocol        FieldDescriptorKind = "protocol"
	FieldDescClassProtocol   FieldDescriptorKind = "classProtocol"
	FieldDescObjCProtocol    FieldDescriptorKind = "objcProtocol"
	FieldDescObjCClass       FieldDescriptorKind = "objcClass"
)

var fieldDescriptorKindByValue = map[uint16]FieldDescriptorKind{
	0: FieldDescStruct,
	1: FieldDescClass,
	2: FieldDescEnum,
	3: FieldDescMultiPayloadEnum,
	4: FieldDescProtocol,
	5: FieldDescClassProtocol,
	6: FieldDescObjCProtocol,
	7: FieldDescObjCClass,
}

// FieldDescriptorKindFromValue maps the raw u16 kind field (§4.3's
// field-descriptor table) to a FieldDescriptorKind, defaulting to struct
// for out-of-range values rather than failing.
func FieldDescriptorKindFromValue(v uint16) FieldDescriptorKind {
	if kind, ok := fieldDescriptorKindByValue[v]; ok {
		return kind
	}
	return FieldDescStruct
}

// FieldDescriptor is §3's raw per-section field-descriptor record.
type FieldDescriptor struct {
	Offset                int64
	Kind                  FieldDescriptorKind
	MangledTypeName       string
	MangledTypeBytes      []byte
	SuperclassMangledName string
	Records               []Field
}

// Extension is a parsed extension context (§3 "Extension").
type Extension struct {
	Offset                  int64
	ExtendedTypeName        string
	ExtendedTypeMangledName string
	ModuleName              string
	AddedConformanceNames   []string
	GenericParameterNames   []string
	GenericParamCount       int
	GenericRequirements     []GenericRequirement
	Flags                   ContextDescriptorFlags
}
