package decoder

import (
	"strings"

	"github.com/blacktop/go-swiftmeta/image"
	"github.com/blacktop/go-swiftmeta/model"
)

// maxProtocolRequirements gates the "older layout" retry heuristic: a
// numRequirements value over this is treated as a misread against a layout
// that inserts extra leading fields (§4.3 "Protocol section"), not as a
// genuinely huge requirement list.
const maxProtocolRequirements = 1000

// parseProtosSection walks __swift5_protos: a dense array of rel32
// pointers to protocol descriptors, mirroring the type section's shape.
func (d *decodeCtx) parseProtosSection(sec image.Section, meta *model.Metadata) {
	count := int(sec.Size / 4)
	for i := 0; i < count; i++ {
		entryOff := int64(sec.Offset) + int64(i)*4
		rel, ok := d.readI32(entryOff)
		if !ok || rel == 0 {
			continue
		}
		if p, ok := d.parseProtocolDescriptor(entryOff + int64(rel)); ok {
			meta.Protocols = append(meta.Protocols, p)
		}
	}
}

// protocolHeader is the fixed-size prefix of a protocol descriptor that
// precedes its requirement and associated-type-name pointers.
type protocolHeader struct {
	numRequirementsInSignature uint32
	numRequirements            uint32
	requirementsRel            int32
	associatedTypeNamesRel     int32
}

func (d *decodeCtx) readProtocolHeader(base int64) (protocolHeader, bool) {
	numReqSig, ok1 := d.readU32(base)
	numReq, ok2 := d.readU32(base + 4)
	reqsRel, ok3 := d.readI32(base + 8)
	assocRel, ok4 := d.readI32(base + 12)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return protocolHeader{}, false
	}
	return protocolHeader{numReqSig, numReq, reqsRel, assocRel}, true
}

// parseProtocolDescriptor reads a protocol descriptor at offset (§4.3
// "Protocol section"): flags, parent, name, then the requirement-count and
// requirement-pointer fields at +12. If the first read reports an
// implausible requirement count, it retries two fields over to accommodate
// an older layout that inserts extra fields before this point.
func (d *decodeCtx) parseProtocolDescriptor(offset int64) (model.Protocol, bool) {
	parentRel, ok := d.readI32(offset + 4)
	if !ok {
		return model.Protocol{}, false
	}
	name, ok := d.readContextNameAt(offset)
	if !ok || name == "" {
		return model.Protocol{}, false
	}

	hdrBase := offset + 12
	hdr, ok := d.readProtocolHeader(hdrBase)
	if !ok || hdr.numRequirements > maxProtocolRequirements {
		hdrBase = offset + 20
		hdr, ok = d.readProtocolHeader(hdrBase)
		if !ok || hdr.numRequirements > maxProtocolRequirements {
			return model.Protocol{}, false
		}
	}

	parentName, _ := d.resolveParentContext(offset+4, parentRel)
	p := model.Protocol{Offset: offset, Name: name, ParentName: parentName}

	var assocNames []string
	if hdr.associatedTypeNamesRel != 0 {
		assocOff := hdrBase + 12 + int64(hdr.associatedTypeNamesRel)
		if s, ok := d.readCString(assocOff); ok && s != "" {
			assocNames = strings.Fields(s)
		}
	}
	p.AssociatedTypeNames = assocNames

	if hdr.requirementsRel != 0 {
		reqBase := hdrBase + 8 + int64(hdr.requirementsRel)
		assocIdx := 0
		for i := uint32(0); i < hdr.numRequirements; i++ {
			recOff := reqBase + int64(i)*8
			req, inheritedName, ok := d.parseProtocolRequirement(recOff, assocNames, &assocIdx)
			if !ok {
				break
			}
			if inheritedName != "" {
				p.InheritedProtocolNames = append(p.InheritedProtocolNames, inheritedName)
			}
			p.Requirements = append(p.Requirements, req)
		}
	}

	return p, true
}

// parseProtocolRequirement reads one 8-byte requirement record. A
// baseProtocol requirement repurposes its defaultImpl slot as a pointer to
// the inherited protocol's own descriptor rather than a witness default,
// so it never reports a default implementation (§4.3 "Protocol
// requirement").
func (d *decodeCtx) parseProtocolRequirement(recOff int64, assocNames []string, assocIdx *int) (model.Requirement, string, bool) {
	flagsRaw, ok := d.readU32(recOff)
	if !ok {
		return model.Requirement{}, "", false
	}
	defaultImplRel, _ := d.readI32(recOff + 4)
	flags := model.ProtocolRequirementFlags(flagsRaw)
	kind := flags.Kind()

	req := model.Requirement{
		Kind:       kind,
		IsInstance: flags.IsInstance(),
		IsAsync:    flags.IsAsync(),
	}

	var inheritedName string
	switch kind {
	case model.RequirementBaseProtocol:
		if defaultImplRel != 0 {
			inheritedName, _ = d.readContextNameAt(recOff + 4 + int64(defaultImplRel))
		}
		req.HasDefaultImplementation = false
	case model.RequirementAssociatedTypeAccessFunction:
		if *assocIdx < len(assocNames) {
			req.Name = assocNames[*assocIdx]
			*assocIdx++
		}
		req.HasDefaultImplementation = defaultImplRel != 0
	default:
		req.HasDefaultImplementation = defaultImplRel != 0
	}

	return req, inheritedName, true
}
