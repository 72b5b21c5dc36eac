package avm2

// findHandler locates the exception record covering frame.PC that matches
// the thrown value's runtime type (§4.G, §7). A zero ExcType means
// catch-all. Type filtering is name-based: the handler's ExcType string
// must equal the runtime class name of a thrown Object, or any handler
// with ExcType==0 (catch-all) always matches.
//
// Grounded on original_source/avm2/vm.py's exception-table scan performed
// on every uncaught throw; redesigned here as a lookup returning
// (target pc, matched) instead of re-raising a host exception (§9).
func (vm *VM) findHandler(frame *Frame, thrown Value) (target int, matched bool) {
	pc := uint32(frame.PC)
	for _, rec := range frame.Body.Exceptions {
		if !rec.Covers(pc) {
			continue
		}
		if rec.ExcType == 0 {
			return int(rec.Target), true
		}
		wantName, err := vm.Module.ConstantPool.String(rec.ExcType)
		if err != nil {
			continue
		}
		if vm.thrownTypeName(thrown) == wantName {
			return int(rec.Target), true
		}
	}
	return 0, false
}

// thrownTypeName best-efforts a qualified type name for a thrown value, for
// matching against an exception record's typed catch clause. Non-Object
// values (thrown strings, numbers) never match a typed clause, only a
// catch-all.
func (vm *VM) thrownTypeName(v Value) string {
	if v.Kind() != ValueObjectRef {
		return ""
	}
	obj := vm.Heap.Get(v.Object())
	if obj == nil || obj.ClassIndex < 0 {
		return ""
	}
	inst := vm.Module.Instances[obj.ClassIndex]
	name, err := vm.Module.ConstantPool.QualifiedName(vm.Module.ConstantPool.Multinames[inst.Name])
	if err != nil {
		return ""
	}
	return name
}
