package avm2

// NamespaceKind tags a Namespace pool entry (§3).
type NamespaceKind byte

// Namespace kinds, as assigned by the AVM2 wire format.
const (
	NamespaceKindNamespace         NamespaceKind = 0x08
	NamespaceKindPackage           NamespaceKind = 0x16
	NamespaceKindPackageInternal   NamespaceKind = 0x17
	NamespaceKindProtected         NamespaceKind = 0x18
	NamespaceKindExplicit          NamespaceKind = 0x19
	NamespaceKindStaticProtected   NamespaceKind = 0x1A
	NamespaceKindPrivate           NamespaceKind = 0x05
)

func (k NamespaceKind) valid() bool {
	switch k {
	case NamespaceKindNamespace, NamespaceKindPackage, NamespaceKindPackageInternal,
		NamespaceKindProtected, NamespaceKindExplicit, NamespaceKindStaticProtected,
		NamespaceKindPrivate:
		return true
	default:
		return false
	}
}

// MultinameKind tags a Multiname pool entry (§3).
type MultinameKind byte

// Multiname kinds.
const (
	MultinameKindQName        MultinameKind = 0x07
	MultinameKindQNameA       MultinameKind = 0x0D
	MultinameKindRTQName      MultinameKind = 0x0F
	MultinameKindRTQNameA     MultinameKind = 0x10
	MultinameKindRTQNameL     MultinameKind = 0x11
	MultinameKindRTQNameLA    MultinameKind = 0x12
	MultinameKindMultiname    MultinameKind = 0x09
	MultinameKindMultinameA   MultinameKind = 0x0E
	MultinameKindMultinameL   MultinameKind = 0x1B
	MultinameKindMultinameLA  MultinameKind = 0x1C
	MultinameKindTypeName     MultinameKind = 0x1D
)

// ConstantKind tags the type of a constant-pool-indexed default/option value
// (§4.D).
type ConstantKind byte

// Constant kinds used by option defaults, trait slot values, and pushes of
// constant-pool values.
const (
	ConstantKindUndefined      ConstantKind = 0x00
	ConstantKindUtf8           ConstantKind = 0x01
	ConstantKindInt            ConstantKind = 0x03
	ConstantKindUInt           ConstantKind = 0x04
	ConstantKindPrivateNs      ConstantKind = 0x05
	ConstantKindDouble         ConstantKind = 0x06
	ConstantKindNamespace      ConstantKind = 0x08
	ConstantKindFalse          ConstantKind = 0x0A
	ConstantKindTrue           ConstantKind = 0x0B
	ConstantKindNull           ConstantKind = 0x0C
	ConstantKindPackageNs      ConstantKind = 0x16
	ConstantKindPackageIntNs   ConstantKind = 0x17
	ConstantKindProtectedNs    ConstantKind = 0x18
	ConstantKindExplicitNs     ConstantKind = 0x19
	ConstantKindStaticProtNs   ConstantKind = 0x1A
)

// MethodFlags is a bitset on MethodInfo (§3).
type MethodFlags byte

// Method flag bits.
const (
	MethodNeedArguments MethodFlags = 1 << 0
	MethodNeedActivation MethodFlags = 1 << 1
	MethodNeedRest      MethodFlags = 1 << 2
	MethodHasOptional   MethodFlags = 1 << 3
	MethodSetDXNS       MethodFlags = 1 << 6
	MethodHasParamNames MethodFlags = 1 << 7
)

// Has reports whether every bit in mask is set.
func (f MethodFlags) Has(mask MethodFlags) bool { return f&mask == mask }

// ClassFlags is a bitset on InstanceInfo (§3).
type ClassFlags byte

// Class flag bits.
const (
	ClassSealed       ClassFlags = 1 << 0
	ClassFinal        ClassFlags = 1 << 1
	ClassInterface    ClassFlags = 1 << 2
	ClassProtectedNs  ClassFlags = 1 << 3
)

// Has reports whether every bit in mask is set.
func (f ClassFlags) Has(mask ClassFlags) bool { return f&mask == mask }

// TraitKind tags a TraitInfo's payload variant (§3).
type TraitKind byte

// Trait kinds.
const (
	TraitKindSlot     TraitKind = 0
	TraitKindMethod   TraitKind = 1
	TraitKindGetter   TraitKind = 2
	TraitKindSetter   TraitKind = 3
	TraitKindClass    TraitKind = 4
	TraitKindFunction TraitKind = 5
	TraitKindConst    TraitKind = 6
)

// TraitAttributes is a 4-bit attribute nibble on TraitInfo (§3).
type TraitAttributes byte

// Trait attribute bits.
const (
	TraitAttrFinal    TraitAttributes = 1 << 0
	TraitAttrOverride TraitAttributes = 1 << 1
	TraitAttrMetadata TraitAttributes = 1 << 2
)

// Has reports whether every bit in mask is set.
func (a TraitAttributes) Has(mask TraitAttributes) bool { return a&mask == mask }
