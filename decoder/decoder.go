// Package decoder implements the Reflection Decoder component (§4.3): it
// walks a Mach-O image's __swift5_* reflection sections and assembles a
// model.Metadata, delegating every mangled-name byte span to the resolver
// for symbolic-reference dereferencing and demangling. A corrupt record
// never aborts the walk; it is skipped and the cursor advances past it.
package decoder

import (
	"errors"

	"github.com/blacktop/go-swiftmeta/external"
	"github.com/blacktop/go-swiftmeta/image"
	"github.com/blacktop/go-swiftmeta/model"
	"github.com/blacktop/go-swiftmeta/resolver"
)

// decodeCtx carries the mutable state threaded through one Decode call: the
// source image, the resolver collaborator, and a field-descriptor index used
// to attach a type's Fields once its context descriptor is parsed.
type decodeCtx struct {
	img               *image.BinaryImage
	resolver          *resolver.Resolver
	externalDemangler external.Demangler
	fieldDescByOffset map[int64]model.FieldDescriptor
}

// Option configures a Decode call, per the teacher's functional-options idiom.
type Option func(*decodeCtx)

// WithExternalDemangler threads a higher-fidelity demangling collaborator
// through to the resolver this decode session constructs.
func WithExternalDemangler(d external.Demangler) Option {
	return func(c *decodeCtx) { c.externalDemangler = d }
}

// Decode walks img's reflection sections and returns the assembled metadata.
// A missing section is an empty category, never an error; the only error
// this returns is a nil image.
func Decode(img *image.BinaryImage, opts ...Option) (*model.Metadata, error) {
	if img == nil {
		return nil, errors.New("decoder: nil image")
	}

	ctx := &decodeCtx{
		img:               img,
		fieldDescByOffset: make(map[int64]model.FieldDescriptor),
	}
	for _, opt := range opts {
		opt(ctx)
	}

	var resolverOpts []resolver.Option
	if ctx.externalDemangler != nil {
		resolverOpts = append(resolverOpts, resolver.WithExternalDemangler(ctx.externalDemangler))
	}
	ctx.resolver = resolver.New(img, resolverOpts...)

	meta := model.New()

	// Field descriptors are parsed first: type parsing below cross-references
	// them (by descriptor offset for classes, by resolved mangled type name
	// for structs and enums) to populate Type.Fields.
	if sec, ok := img.FindSection("__swift5_fieldmd", "__TEXT", "__DATA_CONST"); ok {
		ctx.parseFieldmdSection(sec, meta)
	}
	if sec, ok := img.FindSection("__swift5_types", "__TEXT", "__DATA_CONST"); ok {
		ctx.parseTypesSection(sec, meta)
	}
	if sec, ok := img.FindSection("__swift5_protos", "__TEXT", "__DATA_CONST"); ok {
		ctx.parseProtosSection(sec, meta)
	}
	if sec, ok := img.FindSection("__swift5_proto", "__TEXT", "__DATA_CONST"); ok {
		ctx.parseProtoSection(sec, meta)
	}

	ctx.linkExtensionConformances(meta)

	meta.BuildIndices()
	return meta, nil
}

// linkExtensionConformances implements the "added conformances" cross
// reference described for Extension in §3/§4.3: an extension's conformances
// are whichever Conformance records' ConformingTypeOffset equals the
// extension's own descriptor offset.
func (d *decodeCtx) linkExtensionConformances(meta *model.Metadata) {
	for i := range meta.Extensions {
		ext := &meta.Extensions[i]
		for _, c := range meta.Conformances {
			if c.ConformingTypeOffset == ext.Offset {
				ext.AddedConformanceNames = append(ext.AddedConformanceNames, c.ProtocolName)
			}
		}
	}
}
