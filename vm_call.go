package avm2

import "fmt"

// execNewObject builds a fresh Object from argCount key/value pairs popped
// off the stack (§4.G newobject): ..., key1, val1, ..., keyN, valN -> obj.
func (vm *VM) execNewObject(frame *Frame, ins Instruction) (stepResult, error) {
	n := int(ins.U30[0])
	pairs, err := frame.PopN(n * 2)
	if err != nil {
		return stepResult{}, err
	}
	handle := vm.Heap.NewObject(-1)
	obj := vm.Heap.Get(handle)
	for i := 0; i < n; i++ {
		key := pairs[i*2]
		val := pairs[i*2+1]
		obj.Set("", key.String(), val)
	}
	frame.PushOperand(ObjectValue(handle))
	return contResult()
}

// execNewArray builds an Array-shaped Object from argCount elements popped
// off the stack in push order, stored under string-indexed keys ("0",
// "1", ...) plus a "length" slot (§4.G newarray).
func (vm *VM) execNewArray(frame *Frame, ins Instruction) (stepResult, error) {
	n := int(ins.U30[0])
	elems, err := frame.PopN(n)
	if err != nil {
		return stepResult{}, err
	}
	handle := vm.Heap.NewObject(-1)
	obj := vm.Heap.Get(handle)
	for i, v := range elems {
		obj.Set("", fmt.Sprintf("%d", i), v)
	}
	obj.Set("", "length", UintValue(uint32(n)))
	frame.PushOperand(ObjectValue(handle))
	return contResult()
}

// execNewClass runs a class's static initializer (if not already run) and
// pushes its class object (§4.G newclass).
func (vm *VM) execNewClass(frame *Frame, ins Instruction) (stepResult, error) {
	classIndex := ins.U30[0]
	if _, err := frame.PopOperand(); err != nil { // base class reference, unused: single-inheritance resolution happens via SuperName
		return stepResult{}, err
	}
	handle, err := vm.ensureClassInitialized(classIndex)
	if err != nil {
		return stepResult{}, err
	}
	frame.PushOperand(ObjectValue(handle))
	return contResult()
}

// execCall implements the `call` opcode: ..., function, this, arg1..argN
// -> result. Functions are represented as method-index Values pushed by
// newfunction; this engine does not model closures beyond that identity.
func (vm *VM) execCall(frame *Frame, ins Instruction) (stepResult, error) {
	argCount := int(ins.U30[0])
	args, err := frame.PopN(argCount)
	if err != nil {
		return stepResult{}, err
	}
	this, err := frame.PopOperand()
	if err != nil {
		return stepResult{}, err
	}
	fn, err := frame.PopOperand()
	if err != nil {
		return stepResult{}, err
	}
	if fn.Kind() != ValueUnsigned {
		return stepResult{}, fmt.Errorf("call target is not a function reference: %w", ErrPropertyNotFound)
	}
	result, err := vm.CallMethodByIndex(fn.Uint(), this, args)
	if err != nil {
		return stepResult{}, err
	}
	frame.PushOperand(result)
	return contResult()
}

// execCallStatic implements `callstatic` (§4.G): invokes a method by
// absolute method index (no name resolution), with an explicit `this`.
func (vm *VM) execCallStatic(frame *Frame, ins Instruction) (stepResult, error) {
	methodIndex, argCount := ins.U30[0], int(ins.U30[1])
	args, err := frame.PopN(argCount)
	if err != nil {
		return stepResult{}, err
	}
	this, err := frame.PopOperand()
	if err != nil {
		return stepResult{}, err
	}
	result, err := vm.CallMethodByIndex(methodIndex, this, args)
	if err != nil {
		return stepResult{}, err
	}
	frame.PushOperand(result)
	return contResult()
}

// execConstruct implements `construct` (opcode 0x42): pops a class
// reference and argCount arguments, constructs a new instance. Distinct
// from constructsuper (0x49): construct builds a brand-new object,
// constructsuper re-enters the superclass constructor on an
// already-allocated `this`.
func (vm *VM) execConstruct(frame *Frame, ins Instruction) (stepResult, error) {
	argCount := int(ins.U30[0])
	args, err := frame.PopN(argCount)
	if err != nil {
		return stepResult{}, err
	}
	classVal, err := frame.PopOperand()
	if err != nil {
		return stepResult{}, err
	}
	classObj, err := vm.objectOf(classVal)
	if err != nil {
		return stepResult{}, err
	}
	if classObj.ClassIndex < 0 {
		return stepResult{}, fmt.Errorf("construct target is not a class: %w", ErrPropertyNotFound)
	}
	result, err := vm.NewInstanceByIndex(uint32(classObj.ClassIndex), args)
	if err != nil {
		return stepResult{}, err
	}
	frame.PushOperand(result)
	return contResult()
}

// execConstructSuper implements `constructsuper` (opcode 0x49): re-enters
// the superclass's instance constructor on the already-allocated object
// popped from beneath the arguments (normally `this`). It does not
// allocate a new object and does not push a result.
func (vm *VM) execConstructSuper(frame *Frame, ins Instruction) (stepResult, error) {
	argCount := int(ins.U30[0])
	args, err := frame.PopN(argCount)
	if err != nil {
		return stepResult{}, err
	}
	this, err := frame.PopOperand()
	if err != nil {
		return stepResult{}, err
	}
	obj, err := vm.objectOf(this)
	if err != nil {
		return stepResult{}, err
	}
	if obj.ClassIndex < 0 {
		return contResult() // no originating class: nothing to re-enter (e.g. Object's own constructsuper terminates the chain)
	}
	inst := vm.Module.Instances[obj.ClassIndex]
	if inst.SuperName == 0 {
		return contResult()
	}
	superName, err := vm.Module.ConstantPool.QualifiedName(vm.Module.ConstantPool.Multinames[inst.SuperName])
	if err != nil {
		return stepResult{}, err
	}
	superIdx, ok := vm.Linker.ClassByName(superName)
	if !ok {
		vm.anomaly("constructsuper: superclass %q is a host/builtin type outside this module", superName)
		return contResult()
	}
	superInst := vm.Module.Instances[superIdx]
	if _, err := vm.invokeMethod(superInst.Init, this, args, nil); err != nil {
		return stepResult{}, err
	}
	return contResult()
}

// execCallProperty implements callproperty/callpropvoid/callproplex
// (§4.G): resolves a multiname against the receiver, invokes the found
// method-valued property (or, for a plain data slot, treats it as already
// a callable method index), and pushes the result unless discardResult.
func (vm *VM) execCallProperty(frame *Frame, ins Instruction, discardResult bool) (stepResult, error) {
	argCount := int(ins.U30[1])
	args, err := frame.PopN(argCount)
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
	methodVal, ok := obj.Resolve(req, &vm.Heap)
	if !ok {
		return stepResult{}, fmt.Errorf("%s: %w", req.Local, ErrPropertyNotFound)
	}
	if methodVal.Kind() != ValueUnsigned {
		return stepResult{}, fmt.Errorf("%s is not callable: %w", req.Local, ErrPropertyNotFound)
	}
	result, err := vm.CallMethodByIndex(methodVal.Uint(), target, args)
	if err != nil {
		return stepResult{}, err
	}
	if !discardResult {
		frame.PushOperand(result)
	}
	return contResult()
}

// execConstructProp implements constructprop (§4.G): resolves a multiname
// on the receiver to a class object and constructs an instance of it.
func (vm *VM) execConstructProp(frame *Frame, ins Instruction) (stepResult, error) {
	argCount := int(ins.U30[1])
	args, err := frame.PopN(argCount)
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
	classVal, ok := obj.Resolve(req, &vm.Heap)
	if !ok {
		return stepResult{}, fmt.Errorf("%s: %w", req.Local, ErrPropertyNotFound)
	}
	classObj, err := vm.objectOf(classVal)
	if err != nil {
		return stepResult{}, err
	}
	result, err := vm.NewInstanceByIndex(uint32(classObj.ClassIndex), args)
	if err != nil {
		return stepResult{}, err
	}
	frame.PushOperand(result)
	return contResult()
}
