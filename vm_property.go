package avm2

import "fmt"

// multinameAt bounds-checks a constant-pool multiname index.
func (vm *VM) multinameAt(index uint32) (Multiname, error) {
	pool := &vm.Module.ConstantPool
	if index >= uint32(len(pool.Multinames)) {
		return Multiname{}, fmt.Errorf("multiname index %d: %w", index, ErrBadIndex)
	}
	return pool.Multinames[index], nil
}

// resolveNameOperand pops the runtime namespace/name values a multiname
// needs (in AVM2's stack order: name on top, namespace below it) and
// resolves the constant-pool Multiname at index into a NameRequest (§4.D).
func (vm *VM) resolveNameOperand(frame *Frame, index uint32) (NameRequest, error) {
	m, err := vm.multinameAt(index)
	if err != nil {
		return NameRequest{}, err
	}
	var runtimeName, runtimeNamespace Value
	if m.RequiresRuntimeName() {
		if runtimeName, err = frame.PopOperand(); err != nil {
			return NameRequest{}, err
		}
	}
	if m.RequiresRuntimeNamespace() {
		if runtimeNamespace, err = frame.PopOperand(); err != nil {
			return NameRequest{}, err
		}
	}
	return vm.Module.ConstantPool.ResolveName(m, runtimeNamespace, runtimeName)
}

// objectOf returns the Object backing a Value, or an error if v is not an
// object reference (getproperty/setproperty/callproperty all require this).
func (vm *VM) objectOf(v Value) (*Object, error) {
	if v.Kind() != ValueObjectRef {
		return nil, fmt.Errorf("property access on non-object %v: %w", v.Kind(), ErrPropertyNotFound)
	}
	obj := vm.Heap.Get(v.Object())
	if obj == nil {
		return nil, fmt.Errorf("dangling object handle: %w", ErrPropertyNotFound)
	}
	return obj, nil
}

func (vm *VM) execFindProperty(frame *Frame, ins Instruction, strict bool) (stepResult, error) {
	req, err := vm.resolveNameOperand(frame, ins.U30[0])
	if err != nil {
		return stepResult{}, err
	}
	for i := len(frame.ScopeStack) - 1; i >= 0; i-- {
		if frame.ScopeStack[i].Kind() != ValueObjectRef {
			continue
		}
		if obj := vm.Heap.Get(frame.ScopeStack[i].Object()); obj != nil {
			if _, ok := obj.Resolve(req, &vm.Heap); ok {
				frame.PushOperand(frame.ScopeStack[i])
				return contResult()
			}
		}
	}
	if global := vm.Heap.Get(vm.GlobalObject); global != nil {
		if _, ok := global.Resolve(req, &vm.Heap); ok {
			frame.PushOperand(ObjectValue(vm.GlobalObject))
			return contResult()
		}
	}
	if strict {
		return stepResult{}, fmt.Errorf("%s: %w", req.Local, ErrPropertyNotFound)
	}
	frame.PushOperand(ObjectValue(vm.GlobalObject))
	return contResult()
}

func (vm *VM) execGetLex(frame *Frame, ins Instruction) (stepResult, error) {
	if res, err := vm.execFindProperty(frame, ins, true); err != nil || res.outcome != stepContinue {
		return res, err
	}
	target, err := frame.PopOperand()
	if err != nil {
		return stepResult{}, err
	}
	obj, err := vm.objectOf(target)
	if err != nil {
		return stepResult{}, err
	}
	req, err := vm.resolveNameOperandNoPopRuntime(ins.U30[0])
	if err != nil {
		return stepResult{}, err
	}
	v, _ := obj.Resolve(req, &vm.Heap)
	frame.PushOperand(v)
	return contResult()
}

// resolveNameOperandNoPopRuntime resolves a multiname that getlex requires
// to be a compile-time QName (getlex never carries a runtime name/
// namespace operand).
func (vm *VM) resolveNameOperandNoPopRuntime(index uint32) (NameRequest, error) {
	m, err := vm.multinameAt(index)
	if err != nil {
		return NameRequest{}, err
	}
	return vm.Module.ConstantPool.ResolveName(m, Value{}, Value{})
}

func (vm *VM) execGetProperty(frame *Frame, ins Instruction) (stepResult, error) {
	req, err := vm.resolveNameOperand(frame, ins.U30[0])
	if err != nil {
		return stepResult{}, err
	}
	target, err := frame.PopOperand()
	if err != nil {
		return stepResult{}, err
	}
	obj, err := vm.objectOf(target)
	if err != nil {
		return stepResult{}, err
	}
	v, ok := obj.Resolve(req, &vm.Heap)
	if !ok {
		v = Undefined
	}
	frame.PushOperand(v)
	return contResult()
}

func (vm *VM) execSetProperty(frame *Frame, ins Instruction) (stepResult, error) {
	value, err := frame.PopOperand()
	if err != nil {
		return stepResult{}, err
	}
	req, err := vm.resolveNameOperand(frame, ins.U30[0])
	if err != nil {
		return stepResult{}, err
	}
	target, err := frame.PopOperand()
	if err != nil {
		return stepResult{}, err
	}
	obj, err := vm.objectOf(target)
	if err != nil {
		return stepResult{}, err
	}
	ns := ""
	if len(req.Namespaces) > 0 {
		ns = req.Namespaces[0]
	}
	obj.Set(ns, req.Local, value)
	return contResult()
}

func (vm *VM) execDeleteProperty(frame *Frame, ins Instruction) (stepResult, error) {
	req, err := vm.resolveNameOperand(frame, ins.U30[0])
	if err != nil {
		return stepResult{}, err
	}
	target, err := frame.PopOperand()
	if err != nil {
		return stepResult{}, err
	}
	obj, err := vm.objectOf(target)
	if err != nil {
		return stepResult{}, err
	}
	deleted := false
	for _, ns := range req.Namespaces {
		if obj.Delete(ns, req.Local) {
			deleted = true
		}
	}
	frame.PushOperand(BoolValue(deleted))
	return contResult()
}

func (vm *VM) execGetSlot(frame *Frame, ins Instruction) (stepResult, error) {
	target, err := frame.PopOperand()
	if err != nil {
		return stepResult{}, err
	}
	obj, err := vm.objectOf(target)
	if err != nil {
		return stepResult{}, err
	}
	v, _ := obj.Get(fmt.Sprintf("slot:%d", ins.U30[0]), "")
	frame.PushOperand(v)
	return contResult()
}

func (vm *VM) execSetSlot(frame *Frame, ins Instruction) (stepResult, error) {
	value, err := frame.PopOperand()
	if err != nil {
		return stepResult{}, err
	}
	target, err := frame.PopOperand()
	if err != nil {
		return stepResult{}, err
	}
	obj, err := vm.objectOf(target)
	if err != nil {
		return stepResult{}, err
	}
	obj.Set(fmt.Sprintf("slot:%d", ins.U30[0]), "", value)
	return contResult()
}

func (vm *VM) execGetGlobalSlot(frame *Frame, ins Instruction) (stepResult, error) {
	obj := vm.Heap.Get(vm.GlobalObject)
	v, _ := obj.Get(fmt.Sprintf("slot:%d", ins.U30[0]), "")
	frame.PushOperand(v)
	return contResult()
}

func (vm *VM) execSetGlobalSlot(frame *Frame, ins Instruction) (stepResult, error) {
	value, err := frame.PopOperand()
	if err != nil {
		return stepResult{}, err
	}
	obj := vm.Heap.Get(vm.GlobalObject)
	obj.Set(fmt.Sprintf("slot:%d", ins.U30[0]), "", value)
	return contResult()
}

func (vm *VM) execIn(frame *Frame) (stepResult, error) {
	target, err := frame.PopOperand()
	if err != nil {
		return stepResult{}, err
	}
	name, err := frame.PopOperand()
	if err != nil {
		return stepResult{}, err
	}
	obj, err := vm.objectOf(target)
	if err != nil {
		return stepResult{}, err
	}
	frame.PushOperand(BoolValue(obj.Has("", name.String(), &vm.Heap)))
	return contResult()
}

// execCoerceLike covers coerce/astype/istype/istypelate: in the absence of
// bytecode verification, coerce/astype pass the value through unchanged
// and istype/istypelate perform the one check the engine commits to:
// instanceof against the named class.
func (vm *VM) execCoerceLike(frame *Frame, ins Instruction) (stepResult, error) {
	switch ins.Name {
	case "istype", "istypelate":
		var classVal Value
		var err error
		if ins.Name == "istypelate" {
			if classVal, err = frame.PopOperand(); err != nil {
				return stepResult{}, err
			}
		} else {
			name, err := vm.resolveClassNameOperand(ins.U30[0])
			if err != nil {
				return stepResult{}, err
			}
			idx, ok := vm.Linker.ClassByName(name)
			if !ok {
				frame.PushOperand(BoolValue(false))
				return contResult()
			}
			h, err := vm.ensureClassInitialized(idx)
			if err != nil {
				return stepResult{}, err
			}
			classVal = ObjectValue(h)
		}
		v, err := frame.PopOperand()
		if err != nil {
			return stepResult{}, err
		}
		frame.PushOperand(BoolValue(vm.instanceOf(v, classVal)))
		return contResult()
	default: // coerce, astype
		return contResult()
	}
}

func (vm *VM) resolveClassNameOperand(index uint32) (string, error) {
	m, err := vm.multinameAt(index)
	if err != nil {
		return "", err
	}
	return vm.Module.ConstantPool.QualifiedName(m)
}
