package avm2

import "testing"

func TestObjectGetSetDelete(t *testing.T) {
	var heap Heap
	handle := heap.NewObject(-1)
	obj := heap.Get(handle)

	if _, ok := obj.Get("", "x"); ok {
		t.Fatal("fresh object should have no properties")
	}
	obj.Set("", "x", IntValue(42))
	v, ok := obj.Get("", "x")
	if !ok || v.Int() != 42 {
		t.Fatalf("Get(x) = %v, %v, want 42, true", v, ok)
	}
	if !obj.Delete("", "x") {
		t.Fatal("Delete(x) should report true for a present property")
	}
	if obj.Delete("", "x") {
		t.Fatal("Delete(x) should report false once already removed")
	}
}

func TestObjectPrototypeChain(t *testing.T) {
	var heap Heap
	parent := heap.NewObject(-1)
	heap.Get(parent).Set("", "greeting", StringValue("hi"))
	child := heap.NewObject(-1)
	heap.Get(child).SetPrototype(parent)

	if !heap.Get(child).Has("", "greeting", &heap) {
		t.Fatal("Has should find inherited properties via the prototype chain")
	}
	v, ok := heap.Get(child).Resolve(NameRequest{Local: "greeting", Namespaces: []string{""}}, &heap)
	if !ok || v.Str() != "hi" {
		t.Fatalf("Resolve via prototype = %v, %v, want hi, true", v, ok)
	}
}

func TestObjectEnumerationOrderIsStable(t *testing.T) {
	var heap Heap
	handle := heap.NewObject(-1)
	obj := heap.Get(handle)
	obj.Set("", "b", IntValue(2))
	obj.Set("", "a", IntValue(1))
	obj.Set("ns", "c", IntValue(3))

	first := obj.EnumerationOrder()
	second := obj.EnumerationOrder()
	if len(first) != 3 {
		t.Fatalf("EnumerationOrder returned %d keys, want 3", len(first))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("EnumerationOrder is not stable across calls: %v vs %v", first, second)
		}
	}
	if first[0].local != "a" || first[1].local != "b" {
		t.Errorf("expected public-namespace keys sorted by local name first, got %v", first)
	}
}

func TestHeapGetOutOfRange(t *testing.T) {
	var heap Heap
	heap.NewObject(-1)
	if got := heap.Get(ObjectHandle(99)); got != nil {
		t.Errorf("Get(out-of-range) = %v, want nil", got)
	}
}
