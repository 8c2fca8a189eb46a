package decoder

import (
	"github.com/blacktop/go-swiftmeta/image"
	"github.com/blacktop/go-swiftmeta/model"
)

// parseFieldmdSection walks __swift5_fieldmd: a dense sequence of
// variable-length field-descriptor records, each a 16-byte header followed
// by numFields records of fieldRecordSize bytes (§4.3 "Field-descriptor
// section"). A record that fails its header read is skipped with a safe
// 16-byte stride advance so one corrupt entry never derails the walk.
func (d *decodeCtx) parseFieldmdSection(sec image.Section, meta *model.Metadata) {
	offset := int64(sec.Offset)
	end := offset + int64(sec.Size)

	for offset+16 <= end {
		mangledRel, ok1 := d.readI32(offset)
		superclassRel, ok2 := d.readI32(offset + 4)
		kindRaw, ok3 := d.u16(offset + 8)
		fieldRecordSize, ok4 := d.u16(offset + 10)
		numFields, ok5 := d.readU32(offset + 12)

		if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 || fieldRecordSize < 12 {
			offset += 16
			continue
		}

		fd := model.FieldDescriptor{
			Offset: offset,
			Kind:   model.FieldDescriptorKindFromValue(kindRaw),
		}
		if mangledRel != 0 {
			b := d.mangledBytesAt(offset + int64(mangledRel))
			fd.MangledTypeBytes = b
			fd.MangledTypeName = d.resolver.ResolveType(b, offset+int64(mangledRel))
		}
		if superclassRel != 0 {
			fd.SuperclassMangledName, _ = d.readCString(offset + 4 + int64(superclassRel))
		}

		recordBase := offset + 16
		for i := uint32(0); i < numFields; i++ {
			recOff := recordBase + int64(i)*int64(fieldRecordSize)
			if recOff+12 > int64(len(d.img.Data)) {
				break
			}
			rec, ok := d.parseFieldRecord(recOff)
			if ok {
				fd.Records = append(fd.Records, rec)
			}
		}

		meta.FieldDescriptors = append(meta.FieldDescriptors, fd)
		d.fieldDescByOffset[offset] = fd

		advance := recordBase + int64(numFields)*int64(fieldRecordSize) - offset
		if advance < 16 {
			advance = 16
		}
		offset += advance
	}
}

// parseFieldRecord reads one field record (§4.3): flags:u32, mangled type
// name rel32, field name rel32. Bit 0 of flags is IsIndirect, bit 1 IsVar.
func (d *decodeCtx) parseFieldRecord(recOff int64) (model.Field, bool) {
	flagsRaw, ok := d.readU32(recOff)
	if !ok {
		return model.Field{}, false
	}
	typeRel, _ := d.readI32(recOff + 4)
	nameRel, _ := d.readI32(recOff + 8)

	rec := model.Field{
		IsIndirect: flagsRaw&0x1 != 0,
		IsVar:      flagsRaw&0x2 != 0,
	}
	if typeRel != 0 {
		typeOffset := recOff + 4 + int64(typeRel)
		tb := d.mangledBytesAt(typeOffset)
		rec.MangledTypeBytes = tb
		rec.MangledTypeOffset = typeOffset
		rec.RenderedTypeName = d.resolver.ResolveType(tb, typeOffset)
	}
	if nameRel != 0 {
		rec.Name, _ = d.readCString(recOff + 8 + int64(nameRel))
	}
	return rec, true
}
