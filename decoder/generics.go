package decoder

import (
	"fmt"

	"github.com/blacktop/go-swiftmeta/model"
)

// genericHeader is the 8-byte header immediately preceding a generic
// context's requirement records (§4.3 "Generic header").
type genericHeader struct {
	numParams       uint16
	numRequirements uint16
	numKeyArguments uint16
	numExtraArgs    uint16
}

// maxGenericParams and maxGenericRequirements are the corruption gates
// named in §4.3: a header claiming more than these is treated as unreadable
// rather than trusted, since a real binary's generic contexts never
// approach either bound.
const (
	maxGenericParams       = 16
	maxGenericRequirements = 32
)

func (d *decodeCtx) readGenericHeader(offset int64) (genericHeader, bool) {
	np, ok1 := d.u16(offset)
	nr, ok2 := d.u16(offset + 2)
	nk, ok3 := d.u16(offset + 4)
	ne, ok4 := d.u16(offset + 6)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return genericHeader{}, false
	}
	return genericHeader{np, nr, nk, ne}, true
}

// genericParamNames names up to four parameters T, U, V, W; a context with
// more than four parameters names all of them T0, T1, ... instead.
func genericParamNames(n int) []string {
	defaults := [4]string{"T", "U", "V", "W"}
	names := make([]string, n)
	for i := 0; i < n; i++ {
		if n <= len(defaults) {
			names[i] = defaults[i]
		} else {
			names[i] = fmt.Sprintf("T%d", i)
		}
	}
	return names
}

// parseGenericParams reads a generic context's header at headerOffset and
// returns its parameter names and requirement list, applying the §4.3
// corruption gates and the "assume one param T" fallback when the header
// itself can't be trusted.
func (d *decodeCtx) parseGenericParams(headerOffset int64) (paramNames []string, requirements []model.GenericRequirement) {
	hdr, ok := d.readGenericHeader(headerOffset)
	if !ok || hdr.numParams > maxGenericParams || hdr.numRequirements > maxGenericRequirements {
		return []string{"T"}, nil
	}
	paramNames = genericParamNames(int(hdr.numParams))
	reqBase := headerOffset + 8
	for i := uint16(0); i < hdr.numRequirements; i++ {
		if req, ok := d.parseGenericRequirement(reqBase + int64(i)*12); ok {
			requirements = append(requirements, req)
		}
	}
	return paramNames, requirements
}

// parseGenericRequirement reads one 12-byte generic requirement record
// (§4.3 "Generic requirement record"). A layout requirement whose
// constraint pointer is absent renders as AnyObject.
func (d *decodeCtx) parseGenericRequirement(offset int64) (model.GenericRequirement, bool) {
	flags, ok := d.readU32(offset)
	if !ok {
		return model.GenericRequirement{}, false
	}
	paramRel, _ := d.readI32(offset + 4)
	constraintRel, _ := d.readI32(offset + 8)
	kind := model.GenericRequirementKind(flags & 0x0F)

	var paramName string
	if paramRel != 0 {
		paramName, _ = d.readCString(offset + 4 + int64(paramRel))
	}

	var constraint string
	if constraintRel != 0 {
		constraint, _ = d.readCString(offset + 8 + int64(constraintRel))
	} else if kind == model.RequirementLayout {
		constraint = "AnyObject"
	}

	return model.GenericRequirement{
		Kind:               kind,
		ParameterName:      paramName,
		RenderedConstraint: constraint,
		RawFlags:           flags,
	}, true
}
