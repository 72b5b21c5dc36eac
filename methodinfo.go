package avm2

import "fmt"

// OptionDetail is a single default-value record for a trailing optional
// parameter (§3, GLOSSARY "Option (default value)").
type OptionDetail struct {
	ValueIndex uint32
	Kind       ConstantKind
}

func readOptionDetail(r *Reader) (OptionDetail, error) {
	idx, err := r.U30()
	if err != nil {
		return OptionDetail{}, err
	}
	kindByte, err := r.U8()
	if err != nil {
		return OptionDetail{}, err
	}
	return OptionDetail{ValueIndex: idx, Kind: ConstantKind(kindByte)}, nil
}

// MethodInfo is a method signature: everything about a method except its
// body (§3).
type MethodInfo struct {
	ParamCount uint32
	ReturnType uint32 // multiname index, may be 0 ("*")
	ParamTypes []uint32
	Name       uint32 // string index, may be empty
	Flags      MethodFlags

	Options    []OptionDetail // present iff Flags.Has(MethodHasOptional)
	ParamNames []uint32       // present iff Flags.Has(MethodHasParamNames)
}

func readMethodInfo(r *Reader) (MethodInfo, error) {
	var m MethodInfo
	var err error
	if m.ParamCount, err = r.U30(); err != nil {
		return m, fmt.Errorf("param_count: %w", err)
	}
	if m.ReturnType, err = r.U30(); err != nil {
		return m, fmt.Errorf("return_type: %w", err)
	}
	m.ParamTypes = make([]uint32, m.ParamCount)
	for i := range m.ParamTypes {
		if m.ParamTypes[i], err = r.U30(); err != nil {
			return m, fmt.Errorf("param_type %d: %w", i, err)
		}
	}
	if m.Name, err = r.U30(); err != nil {
		return m, fmt.Errorf("name: %w", err)
	}
	flagByte, err := r.U8()
	if err != nil {
		return m, fmt.Errorf("flags: %w", err)
	}
	m.Flags = MethodFlags(flagByte)
	if m.Flags.Has(MethodHasOptional) {
		if m.Options, err = readList(r, readOptionDetail); err != nil {
			return m, fmt.Errorf("options: %w", err)
		}
	}
	if m.Flags.Has(MethodHasParamNames) {
		m.ParamNames = make([]uint32, m.ParamCount)
		for i := range m.ParamNames {
			if m.ParamNames[i], err = r.U30(); err != nil {
				return m, fmt.Errorf("param_name %d: %w", i, err)
			}
		}
	}
	return m, nil
}
