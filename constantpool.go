package avm2

import (
	"fmt"
	"math"
)

// readTable reads a constant-pool style table: a u30 count N, followed by
// N-1 wire entries when N>=1 (entry 0 is the implicit default, never
// encoded), or zero entries when N==0 (an empty table with no synthesized
// default). Grounded on original_source/avm2/abc/parser.py:read_array and
// §4.B.
func readTable[T any](r *Reader, read func(*Reader) (T, error), zero T) ([]T, error) {
	n, err := r.U30()
	if err != nil {
		return nil, fmt.Errorf("table count: %w", err)
	}
	if n == 0 {
		return nil, nil
	}
	out := make([]T, n)
	out[0] = zero
	for i := uint32(1); i < n; i++ {
		v, err := read(r)
		if err != nil {
			return nil, fmt.Errorf("table entry %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

// readList reads a plain u30-count-prefixed list with no implicit index-0
// entry (namespace sets, multiname type-parameter lists, interface lists).
func readList[T any](r *Reader, read func(*Reader) (T, error)) ([]T, error) {
	n, err := r.U30()
	if err != nil {
		return nil, err
	}
	out := make([]T, n)
	for i := range out {
		v, err := read(r)
		if err != nil {
			return nil, fmt.Errorf("list entry %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

func readU30(r *Reader) (uint32, error) { return r.U30() }

// Namespace is a constant-pool namespace entry (§3).
type Namespace struct {
	Kind NamespaceKind
	Name uint32 // index into the strings table
}

func readNamespace(r *Reader) (Namespace, error) {
	kindByte, err := r.U8()
	if err != nil {
		return Namespace{}, err
	}
	kind := NamespaceKind(kindByte)
	if !kind.valid() {
		return Namespace{}, fmt.Errorf("namespace kind 0x%02x: %w", kindByte, ErrBadKind)
	}
	name, err := r.U30()
	if err != nil {
		return Namespace{}, err
	}
	return Namespace{Kind: kind, Name: name}, nil
}

// NamespaceSet is an ordered collection of namespace-table indices (§3,
// GLOSSARY).
type NamespaceSet struct {
	Namespaces []uint32
}

func readNamespaceSet(r *Reader) (NamespaceSet, error) {
	ns, err := readList(r, readU30)
	if err != nil {
		return NamespaceSet{}, err
	}
	return NamespaceSet{Namespaces: ns}, nil
}

// Multiname is a tagged-variant name reference (§3, GLOSSARY). Only the
// fields relevant to Kind are populated; see §3 for the field
// layout per kind.
type Multiname struct {
	Kind MultinameKind

	NamespaceIndex uint32 // QName/QNameA
	NameIndex      uint32 // QName*, RTQName*, Multiname*
	NamespaceSet   uint32 // Multiname*, MultinameL*

	BaseQName  uint32   // TypeName
	TypeParams []uint32 // TypeName
}

// IsAttribute reports whether this is an E4X "A"-suffixed attribute name;
// lookup semantics are otherwise identical (§3).
func (m Multiname) IsAttribute() bool {
	switch m.Kind {
	case MultinameKindQNameA, MultinameKindRTQNameA, MultinameKindRTQNameLA,
		MultinameKindMultinameA, MultinameKindMultinameLA:
		return true
	default:
		return false
	}
}

// RequiresRuntimeNamespace reports whether the namespace for this multiname
// must come from the operand stack at use time (the RTQName* forms;
// MultinameL* takes its namespaces from its namespace set).
func (m Multiname) RequiresRuntimeNamespace() bool {
	switch m.Kind {
	case MultinameKindRTQName, MultinameKindRTQNameA, MultinameKindRTQNameL, MultinameKindRTQNameLA:
		return true
	default:
		return false
	}
}

// RequiresRuntimeName reports whether the local name for this multiname
// must come from the operand stack at use time (the *L forms).
func (m Multiname) RequiresRuntimeName() bool {
	switch m.Kind {
	case MultinameKindRTQNameL, MultinameKindRTQNameLA, MultinameKindMultinameL, MultinameKindMultinameLA:
		return true
	default:
		return false
	}
}

func readMultiname(r *Reader) (Multiname, error) {
	kindByte, err := r.U8()
	if err != nil {
		return Multiname{}, err
	}
	kind := MultinameKind(kindByte)
	m := Multiname{Kind: kind}
	switch kind {
	case MultinameKindQName, MultinameKindQNameA:
		if m.NamespaceIndex, err = r.U30(); err != nil {
			return m, err
		}
		if m.NameIndex, err = r.U30(); err != nil {
			return m, err
		}
	case MultinameKindRTQName, MultinameKindRTQNameA:
		if m.NameIndex, err = r.U30(); err != nil {
			return m, err
		}
	case MultinameKindRTQNameL, MultinameKindRTQNameLA:
		// No fields; namespace and name both come from the stack.
	case MultinameKindMultiname, MultinameKindMultinameA:
		if m.NameIndex, err = r.U30(); err != nil {
			return m, err
		}
		if m.NamespaceSet, err = r.U30(); err != nil {
			return m, err
		}
	case MultinameKindMultinameL, MultinameKindMultinameLA:
		if m.NamespaceSet, err = r.U30(); err != nil {
			return m, err
		}
	case MultinameKindTypeName:
		if m.BaseQName, err = r.U30(); err != nil {
			return m, err
		}
		if m.TypeParams, err = readList(r, readU30); err != nil {
			return m, err
		}
	default:
		return m, fmt.Errorf("multiname kind 0x%02x: %w", kindByte, ErrBadKind)
	}
	return m, nil
}

// ConstantPool holds the seven parallel tables making up an ABC module's
// constant pool (§3). Index 0 of Integers/UnsignedIntegers/Doubles is the
// sentinel (0, 0, NaN); index 0 of Strings/Namespaces/NamespaceSets/
// Multinames is a zero-valued placeholder the wire format never references.
type ConstantPool struct {
	Integers         []int32
	UnsignedIntegers []uint32
	Doubles          []float64
	Strings          []string
	Namespaces       []Namespace
	NamespaceSets    []NamespaceSet
	Multinames       []Multiname
}

func readS32(r *Reader) (int32, error) { return r.S32() }
func readU32(r *Reader) (uint32, error) { return r.U32Var() }
func readD64(r *Reader) (float64, error) { return r.D64() }
func readString(r *Reader) (string, error) { return r.String() }

func readConstantPool(r *Reader) (ConstantPool, error) {
	var pool ConstantPool
	var err error
	if pool.Integers, err = readTable(r, readS32, 0); err != nil {
		return pool, fmt.Errorf("integers: %w", err)
	}
	if pool.UnsignedIntegers, err = readTable(r, readU32, 0); err != nil {
		return pool, fmt.Errorf("uints: %w", err)
	}
	if pool.Doubles, err = readTable(r, readD64, math.NaN()); err != nil {
		return pool, fmt.Errorf("doubles: %w", err)
	}
	if pool.Strings, err = readTable(r, readString, ""); err != nil {
		return pool, fmt.Errorf("strings: %w", err)
	}
	if pool.Namespaces, err = readTable(r, readNamespace, Namespace{}); err != nil {
		return pool, fmt.Errorf("namespaces: %w", err)
	}
	if pool.NamespaceSets, err = readTable(r, readNamespaceSet, NamespaceSet{}); err != nil {
		return pool, fmt.Errorf("namespace sets: %w", err)
	}
	if pool.Multinames, err = readTable(r, readMultiname, Multiname{}); err != nil {
		return pool, fmt.Errorf("multinames: %w", err)
	}
	return pool, nil
}

// String returns the pool's string table entry, treating index 0 (never
// legitimately referenced for strings) as "" defensively.
func (p *ConstantPool) String(index uint32) (string, error) {
	if index >= uint32(len(p.Strings)) {
		return "", fmt.Errorf("string index %d: %w", index, ErrBadIndex)
	}
	return p.Strings[index], nil
}

// NamespaceURI returns the string naming namespace index i, or "" for the
// "any namespace" sentinel at index 0.
func (p *ConstantPool) NamespaceURI(index uint32) (string, error) {
	if index >= uint32(len(p.Namespaces)) {
		return "", fmt.Errorf("namespace index %d: %w", index, ErrBadIndex)
	}
	if index == 0 {
		return "", nil
	}
	return p.String(p.Namespaces[index].Name)
}

// QualifiedName renders "ns.local" for a QName-shaped multiname, with an
// empty namespace URI yielding just the local name, per §4.F.
func (p *ConstantPool) QualifiedName(m Multiname) (string, error) {
	ns, local, err := p.NameParts(m)
	if err != nil {
		return "", err
	}
	if ns == "" {
		return local, nil
	}
	return ns + "." + local, nil
}

// NameParts returns a QName-shaped multiname's namespace URI and local
// name separately; QualifiedName joins them, and the linker uses the local
// part to key member traits under their class name (§4.F).
func (p *ConstantPool) NameParts(m Multiname) (ns, local string, err error) {
	local, err = p.String(m.NameIndex)
	if err != nil {
		return "", "", err
	}
	ns, err = p.NamespaceURI(m.NamespaceIndex)
	if err != nil {
		return "", "", err
	}
	return ns, local, nil
}
