// Package swf parses the outer SWF container (signature, decompression,
// tag stream) far enough to locate DoABC tags and hand their payload to
// the avm2 package. Everything about placement, shapes, sprites, and
// timeline tags is out of scope: this package exists only to get from an
// .swf file to an ABC byte slice.
//
// Grounded on original_source/avm2/swf/{enums,parser,types}.py.
package swf

// Signature identifies how the SWF body following the 8-byte file header
// is compressed.
type Signature byte

const (
	SignatureUncompressed Signature = 'F'
	SignatureZlib         Signature = 'C'
	SignatureLZMA         Signature = 'Z'
)

// TagType is the tag-code field of a tag header. Only DoABC and the
// handful of types needed to recognize END are listed; everything else
// is treated as opaque and skipped.
type TagType uint16

const (
	TagEnd           TagType = 0
	TagShowFrame     TagType = 1
	TagDoAction      TagType = 12
	TagDoInitAction  TagType = 59
	TagSymbolClass   TagType = 76
	TagMetadata      TagType = 77
	TagFileAttribs   TagType = 69
	TagDoABC         TagType = 82
)

// DoABCTagFlags are the flags field of a DoABC tag.
type DoABCTagFlags uint32

// LazyInitialize marks that the DoABC tag's script should not be run at
// load time but only when first referenced (mirrors Module's notion of
// lazy script initialization in §4.G).
const DoABCTagFlagsLazyInitialize DoABCTagFlags = 1
