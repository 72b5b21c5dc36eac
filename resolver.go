package avm2

import "fmt"

// NameRequest is the Constant Resolver's output for a multiname lookup
// (§4.D): a local name to match plus the ordered set of namespace URIs that
// are allowed to qualify it. A property lookup succeeds against the first
// candidate namespace that has the property.
type NameRequest struct {
	Local      string
	Namespaces []string
}

// ResolveName turns a constant-pool Multiname into a NameRequest (§4.D).
// runtimeNamespace and runtimeName supply the operand-stack values an
// RTQName*/*L-kind multiname needs; pass the zero Value when the kind does
// not require them (RequiresRuntimeNamespace/RequiresRuntimeName report
// which).
func (p *ConstantPool) ResolveName(m Multiname, runtimeNamespace, runtimeName Value) (NameRequest, error) {
	var req NameRequest

	switch {
	case m.RequiresRuntimeName():
		if runtimeName.Kind() != ValueString {
			return req, fmt.Errorf("runtime name must be a string: %w", ErrBadKind)
		}
		req.Local = runtimeName.Str()
	default:
		local, err := p.String(m.NameIndex)
		if err != nil {
			return req, err
		}
		req.Local = local
	}

	switch {
	case m.RequiresRuntimeNamespace():
		if runtimeNamespace.Kind() != ValueNamespaceRef {
			return req, fmt.Errorf("runtime namespace must be a namespace: %w", ErrBadKind)
		}
		req.Namespaces = []string{runtimeNamespace.Str()}
	case m.Kind == MultinameKindMultiname || m.Kind == MultinameKindMultinameA ||
		m.Kind == MultinameKindMultinameL || m.Kind == MultinameKindMultinameLA:
		if m.NamespaceSet >= uint32(len(p.NamespaceSets)) {
			return req, fmt.Errorf("namespace set index %d: %w", m.NamespaceSet, ErrBadIndex)
		}
		set := p.NamespaceSets[m.NamespaceSet]
		req.Namespaces = make([]string, len(set.Namespaces))
		for i, nsIdx := range set.Namespaces {
			uri, err := p.NamespaceURI(nsIdx)
			if err != nil {
				return req, err
			}
			req.Namespaces[i] = uri
		}
	case m.Kind == MultinameKindTypeName:
		return req, fmt.Errorf("TypeName is not a resolvable property name: %w", ErrBadKind)
	default:
		uri, err := p.NamespaceURI(m.NamespaceIndex)
		if err != nil {
			return req, err
		}
		req.Namespaces = []string{uri}
	}

	return req, nil
}

// GetConstant materializes a runtime Value from a constant-pool entry of a
// given kind (§4.D). The engine uses it for method option defaults; the
// push opcodes read their pool tables directly.
func (p *ConstantPool) GetConstant(kind ConstantKind, index uint32) (Value, error) {
	switch kind {
	case ConstantKindUndefined:
		return Undefined, nil
	case ConstantKindNull:
		return Null, nil
	case ConstantKindTrue:
		return BoolValue(true), nil
	case ConstantKindFalse:
		return BoolValue(false), nil
	case ConstantKindUtf8:
		s, err := p.String(index)
		if err != nil {
			return Value{}, err
		}
		return StringValue(s), nil
	case ConstantKindInt:
		if index >= uint32(len(p.Integers)) {
			return Value{}, fmt.Errorf("int index %d: %w", index, ErrBadIndex)
		}
		return IntValue(p.Integers[index]), nil
	case ConstantKindUInt:
		if index >= uint32(len(p.UnsignedIntegers)) {
			return Value{}, fmt.Errorf("uint index %d: %w", index, ErrBadIndex)
		}
		return UintValue(p.UnsignedIntegers[index]), nil
	case ConstantKindDouble:
		if index >= uint32(len(p.Doubles)) {
			return Value{}, fmt.Errorf("double index %d: %w", index, ErrBadIndex)
		}
		return DoubleValue(p.Doubles[index]), nil
	case ConstantKindNamespace, ConstantKindPackageNs, ConstantKindPackageIntNs,
		ConstantKindProtectedNs, ConstantKindExplicitNs, ConstantKindStaticProtNs,
		ConstantKindPrivateNs:
		uri, err := p.NamespaceURI(index)
		if err != nil {
			return Value{}, err
		}
		return NamespaceValue(uri), nil
	default:
		return Value{}, fmt.Errorf("constant kind 0x%02x: %w", kind, ErrBadKind)
	}
}
