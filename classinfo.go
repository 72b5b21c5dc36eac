package avm2

import "fmt"

// InstanceInfo describes the instance side of a class: its name, its
// superclass, implemented interfaces, instance constructor, and instance
// traits (§3).
type InstanceInfo struct {
	Name        uint32 // multiname index
	SuperName   uint32 // multiname index, 0 for Object
	Flags       ClassFlags
	ProtectedNs uint32 // present iff Flags.Has(ClassProtectedNs)
	Interfaces  []uint32
	Init        uint32 // method index of the instance constructor
	Traits      []TraitInfo
}

func readInstanceInfo(r *Reader) (InstanceInfo, error) {
	var inst InstanceInfo
	var err error
	if inst.Name, err = r.U30(); err != nil {
		return inst, fmt.Errorf("name: %w", err)
	}
	if inst.SuperName, err = r.U30(); err != nil {
		return inst, fmt.Errorf("super_name: %w", err)
	}
	flagByte, err := r.U8()
	if err != nil {
		return inst, fmt.Errorf("flags: %w", err)
	}
	inst.Flags = ClassFlags(flagByte)
	if inst.Flags.Has(ClassProtectedNs) {
		if inst.ProtectedNs, err = r.U30(); err != nil {
			return inst, fmt.Errorf("protected_ns: %w", err)
		}
	}
	if inst.Interfaces, err = readList(r, readU30); err != nil {
		return inst, fmt.Errorf("interfaces: %w", err)
	}
	if inst.Init, err = r.U30(); err != nil {
		return inst, fmt.Errorf("init: %w", err)
	}
	if inst.Traits, err = readList(r, readTraitInfo); err != nil {
		return inst, fmt.Errorf("traits: %w", err)
	}
	return inst, nil
}

// ClassInfo describes the class (static) side of a class: its static
// initializer and static traits (§3). ClassInfo[i] and InstanceInfo[i]
// describe the same class (invariant: len(instances) == len(classes)).
type ClassInfo struct {
	Init   uint32 // method index of the static initializer / class closure
	Traits []TraitInfo
}

func readClassInfo(r *Reader) (ClassInfo, error) {
	var c ClassInfo
	var err error
	if c.Init, err = r.U30(); err != nil {
		return c, fmt.Errorf("init: %w", err)
	}
	if c.Traits, err = readList(r, readTraitInfo); err != nil {
		return c, fmt.Errorf("traits: %w", err)
	}
	return c, nil
}
