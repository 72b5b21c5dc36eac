package avm2

import "testing"

// testModule builds a minimal Module with a single class "battle.BattleCore"
// (instance constructor = method 0, static initializer = method 1) declared
// as a CLASS trait of the single (entry-point) script, whose own initializer
// is method 2. The instance also declares a "getElementalPenetration"
// METHOD trait (method 3), exercising the trait-based name_to_method pass.
func testModule() *Module {
	return &Module{
		ConstantPool: ConstantPool{
			Strings:    []string{"", "battle", "BattleCore", "getElementalPenetration"},
			Namespaces: []Namespace{{}, {Kind: NamespaceKindPackage, Name: 1}},
			Multinames: []Multiname{
				{}, // index 0 unused
				{Kind: MultinameKindQName, NamespaceIndex: 1, NameIndex: 2},
				{Kind: MultinameKindQName, NamespaceIndex: 1, NameIndex: 3},
			},
		},
		Methods: []MethodInfo{{}, {}, {}, {}},
		MethodBodies: []MethodBodyInfo{
			{Method: 0},
			{Method: 1},
			{Method: 2},
			{Method: 3},
		},
		Instances: []InstanceInfo{
			{Name: 1, Init: 0, Traits: []TraitInfo{
				{Name: 2, Kind: TraitKindMethod, Method: TraitMethodPayload{MethodIndex: 3}},
			}},
		},
		Classes: []ClassInfo{
			{Init: 1},
		},
		Scripts: []ScriptInfo{
			{Init: 2, Traits: []TraitInfo{
				{Kind: TraitKindClass, Class: TraitClassPayload{ClassIndex: 0}},
			}},
		},
	}
}

func TestLinkerMethodBody(t *testing.T) {
	l, err := NewLinker(testModule())
	if err != nil {
		t.Fatalf("NewLinker failed: %v", err)
	}
	body, ok := l.MethodBody(1)
	if !ok || body.Method != 1 {
		t.Fatalf("MethodBody(1) = %+v, %v", body, ok)
	}
	if _, ok := l.MethodBody(99); ok {
		t.Error("MethodBody(99) should not be found")
	}
}

func TestLinkerClassByName(t *testing.T) {
	l, err := NewLinker(testModule())
	if err != nil {
		t.Fatalf("NewLinker failed: %v", err)
	}
	idx, ok := l.ClassByName("battle.BattleCore")
	if !ok || idx != 0 {
		t.Fatalf("ClassByName = %d, %v, want 0, true", idx, ok)
	}
	if _, ok := l.ClassByName("nope.Nothing"); ok {
		t.Error("ClassByName(unknown) should not be found")
	}
}

func TestLinkerConstructorByName(t *testing.T) {
	l, err := NewLinker(testModule())
	if err != nil {
		t.Fatalf("NewLinker failed: %v", err)
	}
	methodIdx, ok := l.ConstructorByName("battle.BattleCore")
	if !ok || methodIdx != 0 {
		t.Fatalf("ConstructorByName = %d, %v, want 0, true", methodIdx, ok)
	}
}

func TestLinkerLookupMethod(t *testing.T) {
	l, err := NewLinker(testModule())
	if err != nil {
		t.Fatalf("NewLinker failed: %v", err)
	}
	methodIdx, ok := l.LookupMethod("battle.BattleCore.getElementalPenetration")
	if !ok || methodIdx != 3 {
		t.Fatalf("LookupMethod = %d, %v, want 3, true", methodIdx, ok)
	}
	if _, ok := l.LookupMethod("battle.BattleCore.hitrateIntensity"); ok {
		t.Error("LookupMethod(member not declared) should not be found")
	}
	// The constructor itself is not reachable through LookupMethod: it is
	// a distinct mapping from ordinary instance members.
	if _, ok := l.LookupMethod("battle.BattleCore"); ok {
		t.Error("LookupMethod(class name alone) should not be found")
	}
}

func TestLinkerScriptOf(t *testing.T) {
	l, err := NewLinker(testModule())
	if err != nil {
		t.Fatalf("NewLinker failed: %v", err)
	}
	scriptIdx, ok := l.ScriptOf(0)
	if !ok || scriptIdx != 0 {
		t.Fatalf("ScriptOf(0) = %d, %v, want 0, true", scriptIdx, ok)
	}
	if _, ok := l.ScriptOf(99); ok {
		t.Error("ScriptOf(unknown class) should not be found")
	}
}

func TestLinkerEntryPointScript(t *testing.T) {
	l, err := NewLinker(testModule())
	if err != nil {
		t.Fatalf("NewLinker failed: %v", err)
	}
	idx, err := l.EntryPointScript()
	if err != nil || idx != 0 {
		t.Fatalf("EntryPointScript() = %d, %v, want 0, nil", idx, err)
	}

	empty := &Module{}
	if _, err := NewLinker(empty); err != nil {
		t.Fatalf("NewLinker(empty) failed: %v", err)
	}
	l2, _ := NewLinker(empty)
	if _, err := l2.EntryPointScript(); err == nil {
		t.Error("EntryPointScript() on a module with no scripts should fail")
	}
}

func TestLinkerBadMethodBodyReference(t *testing.T) {
	m := &Module{
		Methods:      []MethodInfo{},
		MethodBodies: []MethodBodyInfo{{Method: 5}},
	}
	if _, err := NewLinker(m); err == nil {
		t.Error("NewLinker should reject a method body referencing a nonexistent method")
	}
}
