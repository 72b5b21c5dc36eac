package avm2

import "testing"

func testPool() *ConstantPool {
	return &ConstantPool{
		Strings:    []string{"", "battle", "BattleCore"},
		Namespaces: []Namespace{{}, {Kind: NamespaceKindPackage, Name: 1}},
	}
}

func TestConstantPoolNamespaceURI(t *testing.T) {
	p := testPool()
	if uri, err := p.NamespaceURI(0); err != nil || uri != "" {
		t.Fatalf("NamespaceURI(0) = %q, %v, want \"\", nil", uri, err)
	}
	uri, err := p.NamespaceURI(1)
	if err != nil || uri != "battle" {
		t.Fatalf("NamespaceURI(1) = %q, %v, want \"battle\", nil", uri, err)
	}
}

func TestConstantPoolQualifiedName(t *testing.T) {
	p := testPool()
	m := Multiname{Kind: MultinameKindQName, NamespaceIndex: 1, NameIndex: 2}
	name, err := p.QualifiedName(m)
	if err != nil {
		t.Fatalf("QualifiedName failed: %v", err)
	}
	if name != "battle.BattleCore" {
		t.Errorf("QualifiedName = %q, want %q", name, "battle.BattleCore")
	}
}

func TestConstantPoolResolveNameMultiname(t *testing.T) {
	p := &ConstantPool{
		Strings:       []string{"", "BattleCore"},
		Namespaces:    []Namespace{{}, {Kind: NamespaceKindPackage, Name: 0}, {Kind: NamespaceKindPackageInternal, Name: 0}},
		NamespaceSets: []NamespaceSet{{}, {Namespaces: []uint32{1, 2}}},
		Multinames:    []Multiname{{}, {Kind: MultinameKindMultiname, NameIndex: 1, NamespaceSet: 1}},
	}
	req, err := p.ResolveName(p.Multinames[1], Value{}, Value{})
	if err != nil {
		t.Fatalf("ResolveName failed: %v", err)
	}
	if req.Local != "BattleCore" {
		t.Errorf("Local = %q, want %q", req.Local, "BattleCore")
	}
	if len(req.Namespaces) != 2 {
		t.Errorf("Namespaces = %v, want 2 entries", req.Namespaces)
	}
}

func TestConstantPoolResolveNameRuntimeName(t *testing.T) {
	p := &ConstantPool{Strings: []string{""}}
	// RTQNameL requires both the namespace and the local name from the
	// operand stack at use time (the "late" name/namespace forms).
	m := Multiname{Kind: MultinameKindRTQNameL}
	req, err := p.ResolveName(m, NamespaceValue("dynamicNs"), StringValue("dynamicName"))
	if err != nil {
		t.Fatalf("ResolveName failed: %v", err)
	}
	if req.Local != "dynamicName" {
		t.Errorf("Local = %q, want %q", req.Local, "dynamicName")
	}
	if len(req.Namespaces) != 1 || req.Namespaces[0] != "dynamicNs" {
		t.Errorf("Namespaces = %v, want [dynamicNs]", req.Namespaces)
	}
}

func TestConstantPoolGetConstant(t *testing.T) {
	p := &ConstantPool{Integers: []int32{0, -7}, Strings: []string{"", "hi"}}
	v, err := p.GetConstant(ConstantKindInt, 1)
	if err != nil || v.Int() != -7 {
		t.Fatalf("GetConstant(Int, 1) = %v, %v, want -7, nil", v, err)
	}
	v, err = p.GetConstant(ConstantKindUtf8, 1)
	if err != nil || v.Str() != "hi" {
		t.Fatalf("GetConstant(Utf8, 1) = %v, %v, want \"hi\", nil", v, err)
	}
	v, err = p.GetConstant(ConstantKindTrue, 0)
	if err != nil || v.Bool() != true {
		t.Fatalf("GetConstant(True, 0) = %v, %v, want true, nil", v, err)
	}
}
