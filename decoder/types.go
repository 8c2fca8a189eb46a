package decoder

import (
	"github.com/blacktop/go-swiftmeta/image"
	"github.com/blacktop/go-swiftmeta/model"
)

// parseTypesSection walks __swift5_types: a dense array of rel32 pointers,
// one per context descriptor (§4.3 "Type-descriptor section").
func (d *decodeCtx) parseTypesSection(sec image.Section, meta *model.Metadata) {
	count := int(sec.Size / 4)
	for i := 0; i < count; i++ {
		entryOff := int64(sec.Offset) + int64(i)*4
		rel, ok := d.readI32(entryOff)
		if !ok || rel == 0 {
			continue
		}
		d.parseContextDescriptor(entryOff+int64(rel), meta)
	}
}

// parseContextDescriptor reads the common 12-byte context-descriptor header
// at offset and dispatches on its kind: extensions and nominal types are
// materialized; every other context kind (module, anonymous, protocol,
// opaqueType) is a parent-only context, handled instead by
// resolveParentContext at the point something references it.
func (d *decodeCtx) parseContextDescriptor(offset int64, meta *model.Metadata) {
	flagsRaw, ok := d.readU32(offset)
	if !ok {
		return
	}
	flags := model.ContextDescriptorFlags(flagsRaw)
	kind := flags.Kind()

	nameRel, _ := d.readI32(offset + 8)
	var name string
	if nameRel != 0 {
		name, _ = d.readCString(offset + 8 + int64(nameRel))
	}

	parentRel, _ := d.readI32(offset + 4)
	parentName, parentKind := d.resolveParentContext(offset+4, parentRel)

	switch {
	case kind == model.KindExtension:
		d.parseExtension(offset, flags, parentName, meta)
	case flags.IsType():
		if name == "" {
			return
		}
		d.parseType(offset, flags, kind, name, parentName, parentKind, meta)
	}
}

// resolveParentContext reads the context descriptor a parent rel32 field
// points at and returns its name and kind. rel == 0 means "no parent",
// reported as the module context.
func (d *decodeCtx) resolveParentContext(parentFieldOffset int64, rel int32) (string, model.ContextDescriptorKind) {
	if rel == 0 {
		return "", model.KindModule
	}
	tgt := parentFieldOffset + int64(rel)
	flagsRaw, ok := d.readU32(tgt)
	if !ok {
		return "", model.KindModule
	}
	flags := model.ContextDescriptorFlags(flagsRaw)
	name, _ := d.readContextNameAt(tgt)
	return name, flags.Kind()
}

func (d *decodeCtx) readContextNameAt(descOffset int64) (string, bool) {
	nameRel, ok := d.readI32(descOffset + 8)
	if !ok || nameRel == 0 {
		return "", false
	}
	return d.readCString(descOffset + 8 + int64(nameRel))
}

// parseType materializes a class/struct/enum context descriptor. Class
// descriptors carry six extra u32/rel32 fields (accessFunction, fields,
// superclass, metadataNegSize, metadataPosSize, numImmediateMembers) before
// the two struct/enum share (numFields, fieldOffsetVectorOffset), which
// pushes a class's generic header from +20 to +44, or +48 when the class
// has a resilient superclass (§4.3, §9 "Generic-context header placement").
func (d *decodeCtx) parseType(offset int64, flags model.ContextDescriptorFlags, kind model.ContextDescriptorKind, name, parentName string, parentKind model.ContextDescriptorKind, meta *model.Metadata) {
	t := model.Type{
		Offset:     offset,
		Kind:       kind,
		Name:       name,
		ParentName: parentName,
		ParentKind: parentKind,
		Flags:      flags,
	}

	var genericHeaderOffset int64
	if kind == model.KindClass {
		if superclassRel, ok := d.readI32(offset + 20); ok && superclassRel != 0 {
			t.SuperclassName, _ = d.readCString(offset + 20 + int64(superclassRel))
		}
		if fieldsRel, ok := d.readI32(offset + 16); ok && fieldsRel != 0 {
			t.Fields = d.lookupFields(offset + 16 + int64(fieldsRel))
		}
		genericHeaderOffset = offset + 44
		if flags.HasResilientSuperclass() {
			genericHeaderOffset = offset + 48
		}
	} else {
		// Struct/enum descriptors carry no direct "fields" pointer of
		// their own; correlate by the owning field descriptor's resolved,
		// fully-qualified mangled type name instead.
		qualified := name
		if parentName != "" {
			qualified = parentName + "." + name
		}
		t.Fields = d.lookupFieldsByName(qualified, name)
		genericHeaderOffset = offset + 20
	}

	if flags.IsGeneric() {
		names, reqs := d.parseGenericParams(genericHeaderOffset)
		t.GenericParameterNames = names
		t.GenericParamCount = len(names)
		t.GenericRequirements = reqs
	}

	meta.Types = append(meta.Types, t)
}

// lookupFields returns the field records of a previously-parsed field
// descriptor whose section offset is descOffset, the target of a class
// descriptor's "fields" relative pointer.
func (d *decodeCtx) lookupFields(descOffset int64) []model.Field {
	if fd, ok := d.fieldDescByOffset[descOffset]; ok {
		return fd.Records
	}
	return nil
}

// lookupFieldsByName correlates a struct/enum's field records by its
// owning field descriptor's resolved mangled-type-name, since struct/enum
// context descriptors (unlike class descriptors) carry no direct pointer
// to their field descriptor. Tries the fully-qualified name first, then
// falls back to the bare name for a descriptor resolved without a parent.
func (d *decodeCtx) lookupFieldsByName(names ...string) []model.Field {
	for _, n := range names {
		if n == "" {
			continue
		}
		for _, fd := range d.fieldDescByOffset {
			if fd.MangledTypeName == n {
				return fd.Records
			}
		}
	}
	return nil
}

// parseExtension materializes an extension context. The extended type's
// name is resolved from the trailing mangled-name slot immediately after
// the common 12-byte header, which may itself carry embedded symbolic
// references.
func (d *decodeCtx) parseExtension(offset int64, flags model.ContextDescriptorFlags, moduleName string, meta *model.Metadata) {
	ext := model.Extension{Offset: offset, ModuleName: moduleName, Flags: flags}

	if mangledRel, ok := d.readI32(offset + 12); ok && mangledRel != 0 {
		mangledOff := offset + 12 + int64(mangledRel)
		b := d.mangledBytesAt(mangledOff)
		ext.ExtendedTypeMangledName = string(b)
		ext.ExtendedTypeName = d.resolver.ResolveType(b, mangledOff)
	}

	genericHeaderOffset := offset + 20
	if flags.IsGeneric() {
		names, reqs := d.parseGenericParams(genericHeaderOffset)
		ext.GenericParameterNames = names
		ext.GenericParamCount = len(names)
		ext.GenericRequirements = reqs
	}

	meta.Extensions = append(meta.Extensions, ext)
}
