package resolver

import "encoding/binary"

// Every read below is bounds-checked against the image buffer length, per
// §4.2's "Bounds" clause: out-of-range offsets return ok=false rather than
// panicking, so callers fall back to diagnostic placeholders.

func (r *Resolver) readU32(off int64) (uint32, bool) {
	if off < 0 || off+4 > int64(len(r.img.Data)) {
		return 0, false
	}
	return binary.LittleEndian.Uint32(r.img.Data[off : off+4]), true
}

func (r *Resolver) readI32(off int64) (int32, bool) {
	v, ok := r.readU32(off)
	return int32(v), ok
}

func (r *Resolver) readU64(off int64) (uint64, bool) {
	if off < 0 || off+8 > int64(len(r.img.Data)) {
		return 0, false
	}
	return binary.LittleEndian.Uint64(r.img.Data[off : off+8]), true
}

func (r *Resolver) readCString(off int64) (string, bool) {
	if off < 0 || off >= int64(len(r.img.Data)) {
		return "", false
	}
	end := off
	for end < int64(len(r.img.Data)) && r.img.Data[end] != 0 {
		end++
	}
	if end == off {
		return "", false
	}
	return string(r.img.Data[off:end]), true
}
