package decoder

import (
	"github.com/blacktop/go-swiftmeta/image"
	"github.com/blacktop/go-swiftmeta/model"
)

// parseProtoSection walks __swift5_proto: a dense sequence of fixed
// 16-byte conformance records (§4.3 "Conformance section").
func (d *decodeCtx) parseProtoSection(sec image.Section, meta *model.Metadata) {
	offset := int64(sec.Offset)
	end := offset + int64(sec.Size)

	for offset+16 <= end {
		c, ok := d.parseConformanceRecord(offset)
		if ok {
			meta.Conformances = append(meta.Conformances, c)
		}
		offset += 16
	}
}

// parseConformanceRecord reads one conformance record: protocol rel32,
// type-ref rel32, witness-table-pattern rel32, flags u32. The low 3 bits
// of flags select how the type-ref field is interpreted. A record is only
// emitted when at least one of the type or protocol name resolved
// non-empty (§4.3).
func (d *decodeCtx) parseConformanceRecord(offset int64) (model.Conformance, bool) {
	protoRel, ok1 := d.readI32(offset)
	typeRefRel, ok2 := d.readI32(offset + 4)
	flagsRaw, ok3 := d.readU32(offset + 12)
	if !ok1 || !ok2 || !ok3 {
		return model.Conformance{}, false
	}
	flags := model.ConformanceFlags(flagsRaw)

	var protoName string
	var protoDescOffset int64
	if protoRel != 0 {
		protoDescOffset = offset + int64(protoRel)
		protoName, _ = d.readContextNameAt(protoDescOffset)
	}

	var typeName, mangledName string
	var conformingOffset int64
	if typeRefRel != 0 {
		target := offset + 4 + int64(typeRefRel)
		switch flags.TypeReferenceKind() {
		case model.DirectTypeDescriptor:
			conformingOffset = target
			typeName, _ = d.readContextNameAt(target)
			mangledName, _ = d.readMangledTypeNameAt(target)
		case model.IndirectTypeDescriptor:
			if ptr, ok := d.readU64(target); ok {
				if off, ok2 := d.img.FileOffset(ptr); ok2 {
					target = int64(off)
				}
			}
			conformingOffset = target
			typeName, _ = d.readContextNameAt(target)
			mangledName, _ = d.readMangledTypeNameAt(target)
		case model.DirectObjCClass:
			conformingOffset = target
			typeName, _ = d.readCString(target)
		case model.IndirectObjCClass:
			if ptr, ok := d.readU64(target); ok {
				if off, ok2 := d.img.FileOffset(ptr); ok2 {
					target = int64(off)
				}
			}
			conformingOffset = target
			typeName, _ = d.readCString(target)
		}
	}

	if typeName == "" && protoName == "" {
		return model.Conformance{}, false
	}

	return model.Conformance{
		DescriptorOffset:         offset,
		ConformingTypeOffset:     conformingOffset,
		TypeName:                 typeName,
		MangledTypeName:          mangledName,
		ProtocolName:             protoName,
		ProtocolDescriptorOffset: protoDescOffset,
		Flags:                    flags,
	}, true
}

// readMangledTypeNameAt reads the rel32 "mangled type name" field at
// descOffset+16 and dereferences it, the same way readContextNameAt
// dereferences the name field at +8: every relative-pointer field in this
// repo is the field's own file offset plus its signed value (§6), never a
// literal inline string.
func (d *decodeCtx) readMangledTypeNameAt(descOffset int64) (string, bool) {
	rel, ok := d.readI32(descOffset + 16)
	if !ok || rel == 0 {
		return "", false
	}
	return d.readCString(descOffset + 16 + int64(rel))
}
