package decoder

import "encoding/binary"

// Every read below is bounds-checked against the image buffer; callers treat
// a false ok as "corrupt record" and apply §4.3's skip-and-continue policy.

func (d *decodeCtx) readU32(off int64) (uint32, bool) {
	if off < 0 || off+4 > int64(len(d.img.Data)) {
		return 0, false
	}
	return binary.LittleEndian.Uint32(d.img.Data[off : off+4]), true
}

func (d *decodeCtx) readI32(off int64) (int32, bool) {
	v, ok := d.readU32(off)
	return int32(v), ok
}

func (d *decodeCtx) readU64(off int64) (uint64, bool) {
	if off < 0 || off+8 > int64(len(d.img.Data)) {
		return 0, false
	}
	return binary.LittleEndian.Uint64(d.img.Data[off : off+8]), true
}

func (d *decodeCtx) u16(off int64) (uint16, bool) {
	if off < 0 || off+2 > int64(len(d.img.Data)) {
		return 0, false
	}
	return binary.LittleEndian.Uint16(d.img.Data[off : off+2]), true
}

func (d *decodeCtx) readCString(off int64) (string, bool) {
	data := d.img.Data
	if off < 0 || off >= int64(len(data)) {
		return "", false
	}
	end := off
	for end < int64(len(data)) && data[end] != 0 {
		end++
	}
	if end == off {
		return "", false
	}
	return string(data[off:end]), true
}

// mangledBytesAt captures a mangled-name byte span that may contain
// embedded 5-byte symbolic references (§4.2's "Symbolic reference"):
// unlike a plain C string, a 0x00 terminator inside a reference's 4-byte
// offset window does not end the span.
func (d *decodeCtx) mangledBytesAt(off int64) []byte {
	data := d.img.Data
	if off < 0 || off >= int64(len(data)) {
		return nil
	}
	i := off
	for i < int64(len(data)) {
		b := data[i]
		if b == 0x01 || b == 0x02 {
			i += 5
			continue
		}
		if b == 0 {
			break
		}
		i++
	}
	if i > int64(len(data)) {
		i = int64(len(data))
	}
	return data[off:i]
}
