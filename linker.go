package avm2

import "fmt"

// Linker resolves the index relationships implicit in an ABC module's
// tables into direct lookup maps (§4.F): which MethodBodyInfo implements a
// given method, which ClassInfo/InstanceInfo pair a qualified name denotes,
// which method index a qualified name's constructor is, and which method
// index implements a qualified "ns.Class.member" METHOD/GETTER/SETTER
// trait. Ported from original_source/avm2/vm.py's link_methods_to_bodies/
// link_names_to_classes/link_names_to_methods/link_classes_to_scripts.
type Linker struct {
	module *Module

	methodToBody  map[uint32]int // method index -> index into module.MethodBodies
	nameToClass   map[string]uint32
	nameToCtor    map[string]uint32 // "ns.Class" -> instance constructor method index
	nameToMember  map[string]uint32 // "ns.Class.member" -> method/getter/setter method index
	classToScript map[uint32]int    // class index -> index into module.Scripts
}

// NewLinker builds a Linker over an already-parsed Module. Linking is a
// pure index pass; it does not allocate any runtime Objects.
func NewLinker(m *Module) (*Linker, error) {
	l := &Linker{
		module:        m,
		methodToBody:  make(map[uint32]int, len(m.MethodBodies)),
		nameToClass:   make(map[string]uint32, len(m.Classes)),
		nameToCtor:    make(map[string]uint32, len(m.Methods)),
		nameToMember:  make(map[string]uint32, len(m.Methods)),
		classToScript: make(map[uint32]int, len(m.Scripts)),
	}
	if err := l.linkMethodsToBodies(); err != nil {
		return nil, err
	}
	if err := l.linkNamesToClasses(); err != nil {
		return nil, err
	}
	if err := l.linkNamesToConstructors(); err != nil {
		return nil, err
	}
	if err := l.linkTraitsToMethods(); err != nil {
		return nil, err
	}
	l.linkClassesToScripts()
	return l, nil
}

func (l *Linker) linkMethodsToBodies() error {
	for i, body := range l.module.MethodBodies {
		if int(body.Method) >= len(l.module.Methods) {
			return fmt.Errorf("method body %d references method %d: %w", i, body.Method, ErrBadIndex)
		}
		l.methodToBody[body.Method] = i
	}
	return nil
}

func (l *Linker) linkNamesToClasses() error {
	for i, inst := range l.module.Instances {
		name, err := l.module.ConstantPool.QualifiedName(l.module.ConstantPool.Multinames[inst.Name])
		if err != nil {
			return fmt.Errorf("instance %d name: %w", i, err)
		}
		l.nameToClass[name] = uint32(i)
	}
	return nil
}

func (l *Linker) linkNamesToConstructors() error {
	for i, inst := range l.module.Instances {
		if int(inst.Init) >= len(l.module.Methods) {
			return fmt.Errorf("instance %d init: %w", i, ErrBadIndex)
		}
		name, err := l.module.ConstantPool.QualifiedName(l.module.ConstantPool.Multinames[inst.Name])
		if err != nil {
			return fmt.Errorf("instance %d name: %w", i, err)
		}
		l.nameToCtor[name] = inst.Init
	}
	return nil
}

// linkTraitsToMethods builds "ns.Class.member" -> method index for every
// METHOD/GETTER/SETTER trait declared on a class's instance side (instance
// methods) and class side (static methods), per §4.F. The qualified class
// name comes from the instance's own multiname; the member's local name
// comes from the trait's multiname, discarding the trait's own namespace
// index (traits are always declared in their owning class's namespace).
func (l *Linker) linkTraitsToMethods() error {
	pool := &l.module.ConstantPool
	for i, inst := range l.module.Instances {
		className, err := pool.QualifiedName(pool.Multinames[inst.Name])
		if err != nil {
			return fmt.Errorf("instance %d name: %w", i, err)
		}
		if err := l.linkClassTraits(className, inst.Traits); err != nil {
			return fmt.Errorf("instance %d traits: %w", i, err)
		}
		if i < len(l.module.Classes) {
			if err := l.linkClassTraits(className, l.module.Classes[i].Traits); err != nil {
				return fmt.Errorf("class %d traits: %w", i, err)
			}
		}
	}
	return nil
}

func (l *Linker) linkClassTraits(className string, traits []TraitInfo) error {
	pool := &l.module.ConstantPool
	for _, tr := range traits {
		switch tr.Kind {
		case TraitKindMethod, TraitKindGetter, TraitKindSetter:
			_, local, err := pool.NameParts(pool.Multinames[tr.Name])
			if err != nil {
				return fmt.Errorf("trait name: %w", err)
			}
			l.nameToMember[className+"."+local] = tr.Method.MethodIndex
		}
	}
	return nil
}

func (l *Linker) linkClassesToScripts() {
	for si, script := range l.module.Scripts {
		for _, tr := range script.Traits {
			if tr.Kind == TraitKindClass {
				l.classToScript[tr.Class.ClassIndex] = si
			}
		}
	}
}

// MethodBody returns the body implementing the given method index.
func (l *Linker) MethodBody(methodIndex uint32) (*MethodBodyInfo, bool) {
	idx, ok := l.methodToBody[methodIndex]
	if !ok {
		return nil, false
	}
	return &l.module.MethodBodies[idx], true
}

// ClassByName returns the class index whose instance is named qualifiedName
// (as produced by ConstantPool.QualifiedName).
func (l *Linker) ClassByName(qualifiedName string) (uint32, bool) {
	idx, ok := l.nameToClass[qualifiedName]
	return idx, ok
}

// ConstructorByName returns the instance-constructor method index for the
// class named qualifiedName.
func (l *Linker) ConstructorByName(qualifiedName string) (uint32, bool) {
	idx, ok := l.nameToCtor[qualifiedName]
	return idx, ok
}

// LookupMethod returns the method index implementing the METHOD/GETTER/
// SETTER trait named "ns.Class.member" (§4.F, §6). This is the accessor
// behind the VM's public by-name dispatch (CallMethodByName): unlike
// ConstructorByName it resolves ordinary members, not the constructor.
func (l *Linker) LookupMethod(qualifiedName string) (uint32, bool) {
	idx, ok := l.nameToMember[qualifiedName]
	return idx, ok
}

// ScriptOf returns the script index that declares classIndex as one of its
// CLASS traits, i.e. the script responsible for lazily initializing it
// (§4.G "lazy script/class initialization").
func (l *Linker) ScriptOf(classIndex uint32) (int, bool) {
	idx, ok := l.classToScript[classIndex]
	return idx, ok
}

// EntryPointScript returns the index of the module's entry-point script:
// the last entry in Module.Scripts (§4.G, §6).
func (l *Linker) EntryPointScript() (int, error) {
	if len(l.module.Scripts) == 0 {
		return 0, fmt.Errorf("module has no scripts: %w", ErrBadIndex)
	}
	return len(l.module.Scripts) - 1, nil
}
