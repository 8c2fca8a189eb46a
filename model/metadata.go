package model

// Metadata is the sole output of one Decoder run (§3 "Metadata (aggregate)"):
// ordered sequences of every entity kind plus derived lookup indices.
// Invariant: every index entry references an element present in the
// corresponding sequence.
type Metadata struct {
	Types            []Type
	Protocols        []Protocol
	Conformances     []Conformance
	FieldDescriptors []FieldDescriptor
	Extensions       []Extension

	TypesByName      map[string]Type
	TypesByFullName  map[string]Type
	TypesByOffset    map[int64]Type

	ConformancesByTypeName     map[string][]Conformance
	ConformancesByProtocolName map[string][]Conformance

	ProtocolsByName map[string]Protocol

	ExtensionsByTypeName map[string][]Extension
}

// New builds an empty Metadata value ready for a Decoder to append to.
func New() *Metadata {
	return &Metadata{}
}

// fullName composes a type's fully-qualified display name.
func fullName(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}

// BuildIndices constructs every lookup index in a single pass over the
// already-populated sequences (§4.3 "Index construction"). Duplicate keys
// resolve to first-wins, matching the sequences' stable iteration order.
func (m *Metadata) BuildIndices() {
	m.TypesByName = make(map[string]Type, len(m.Types))
	m.TypesByFullName = make(map[string]Type, len(m.Types))
	m.TypesByOffset = make(map[int64]Type, len(m.Types))
	for _, t := range m.Types {
		if _, exists := m.TypesByName[t.Name]; !exists {
			m.TypesByName[t.Name] = t
		}
		fq := fullName(t.ParentName, t.Name)
		if _, exists := m.TypesByFullName[fq]; !exists {
			m.TypesByFullName[fq] = t
		}
		if _, exists := m.TypesByOffset[t.Offset]; !exists {
			m.TypesByOffset[t.Offset] = t
		}
	}

	m.ProtocolsByName = make(map[string]Protocol, len(m.Protocols))
	for _, p := range m.Protocols {
		if _, exists := m.ProtocolsByName[p.Name]; !exists {
			m.ProtocolsByName[p.Name] = p
		}
	}

	m.ConformancesByTypeName = make(map[string][]Conformance)
	m.ConformancesByProtocolName = make(map[string][]Conformance)
	for _, c := range m.Conformances {
		m.ConformancesByTypeName[c.TypeName] = append(m.ConformancesByTypeName[c.TypeName], c)
		m.ConformancesByProtocolName[c.ProtocolName] = append(m.ConformancesByProtocolName[c.ProtocolName], c)
	}

	m.ExtensionsByTypeName = make(map[string][]Extension)
	for _, e := range m.Extensions {
		m.ExtensionsByTypeName[e.ExtendedTypeName] = append(m.ExtensionsByTypeName[e.ExtendedTypeName], e)
	}
}
