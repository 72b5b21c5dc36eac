package avm2

import "fmt"

// TraitSlot is the payload of a SLOT or CONST trait: a fixed storage slot
// with an optional declared type and default value (§3).
type TraitSlot struct {
	SlotID    uint32
	TypeName  uint32 // multiname index, 0 = untyped ("*")
	ValueIndex uint32
	ValueKind ConstantKind // only meaningful if ValueIndex != 0
}

// TraitClassPayload is the payload of a CLASS trait: a fixed slot bound to
// a class index (§3).
type TraitClassPayload struct {
	SlotID     uint32
	ClassIndex uint32
}

// TraitFunctionPayload is the payload of a FUNCTION trait: a fixed slot
// bound to a standalone function's method index (§3).
type TraitFunctionPayload struct {
	SlotID      uint32
	MethodIndex uint32
}

// TraitMethodPayload is the payload of a METHOD/GETTER/SETTER trait: a
// dispatch id and the method's index (§3).
type TraitMethodPayload struct {
	DispID      uint32
	MethodIndex uint32
}

// TraitInfo is a single declared member of an instance/class/script (§3,
// GLOSSARY). Exactly one of the Slot/Class/Function/Method fields is valid,
// selected by Kind.
type TraitInfo struct {
	Name       uint32 // multiname index
	Kind       TraitKind
	Attributes TraitAttributes

	Slot     TraitSlot
	Class    TraitClassPayload
	Function TraitFunctionPayload
	Method   TraitMethodPayload

	Metadata []uint32 // present iff Attributes.Has(TraitAttrMetadata)
}

func readTraitSlot(r *Reader) (TraitSlot, error) {
	var t TraitSlot
	var err error
	if t.SlotID, err = r.U30(); err != nil {
		return t, err
	}
	if t.TypeName, err = r.U30(); err != nil {
		return t, err
	}
	if t.ValueIndex, err = r.U30(); err != nil {
		return t, err
	}
	if t.ValueIndex != 0 {
		kindByte, err := r.U8()
		if err != nil {
			return t, err
		}
		t.ValueKind = ConstantKind(kindByte)
	}
	return t, nil
}

func readTraitInfo(r *Reader) (TraitInfo, error) {
	var t TraitInfo
	var err error
	if t.Name, err = r.U30(); err != nil {
		return t, fmt.Errorf("name: %w", err)
	}
	kindByte, err := r.U8()
	if err != nil {
		return t, fmt.Errorf("kind: %w", err)
	}
	t.Kind = TraitKind(kindByte & 0x0F)
	t.Attributes = TraitAttributes(kindByte >> 4)

	switch t.Kind {
	case TraitKindSlot, TraitKindConst:
		if t.Slot, err = readTraitSlot(r); err != nil {
			return t, fmt.Errorf("slot: %w", err)
		}
	case TraitKindClass:
		if t.Class.SlotID, err = r.U30(); err != nil {
			return t, err
		}
		if t.Class.ClassIndex, err = r.U30(); err != nil {
			return t, err
		}
	case TraitKindFunction:
		if t.Function.SlotID, err = r.U30(); err != nil {
			return t, err
		}
		if t.Function.MethodIndex, err = r.U30(); err != nil {
			return t, err
		}
	case TraitKindMethod, TraitKindGetter, TraitKindSetter:
		if t.Method.DispID, err = r.U30(); err != nil {
			return t, err
		}
		if t.Method.MethodIndex, err = r.U30(); err != nil {
			return t, err
		}
	default:
		return t, fmt.Errorf("trait kind 0x%x: %w", t.Kind, ErrBadKind)
	}

	if t.Attributes.Has(TraitAttrMetadata) {
		if t.Metadata, err = readList(r, readU30); err != nil {
			return t, fmt.Errorf("metadata: %w", err)
		}
	}
	return t, nil
}
