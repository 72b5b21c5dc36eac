package avm2

import (
	"fmt"

	"github.com/saferwall/avm2/log"
)

// VM is one AVM2 execution engine instance (§4.G). All mutable state —
// the heap, lazy-initialization bookkeeping, accumulated anomalies — is
// owned by the VM and never shared across instances (§9 "global
// mutable state scoped to VM instance").
type VM struct {
	Module *Module
	Linker *Linker

	Heap Heap

	// GlobalObject is the single object every script's scope chain bottoms
	// out at.
	GlobalObject ObjectHandle

	scriptObjects map[int]ObjectHandle
	classObjects  map[uint32]ObjectHandle

	Anomalies []string
	logger    *log.Helper
}

// NewVM links module and prepares an Engine to run it. Linking failures
// (a dangling method/class/script index) are returned immediately rather
// than discovered lazily mid-execution.
func NewVM(module *Module, opts *Options) (*VM, error) {
	linker, err := NewLinker(module)
	if err != nil {
		return nil, fmt.Errorf("link: %w", err)
	}
	vm := &VM{
		Module:        module,
		Linker:        linker,
		scriptObjects: make(map[int]ObjectHandle),
		classObjects:  make(map[uint32]ObjectHandle),
		logger:        opts.helper(),
	}
	vm.GlobalObject = vm.Heap.NewObject(-1)
	return vm, nil
}

func (vm *VM) anomaly(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	vm.Anomalies = append(vm.Anomalies, msg)
	vm.logger.Warnf("%s", msg)
}

// ensureScriptInitialized runs a script's initializer exactly once, lazily,
// the first time any of its traits are needed (§4.G "lazy script/class
// initialization"). The script's own freshly-allocated object is used as
// `this` — there is no VM-wide global this, only the object each
// script/class owns.
func (vm *VM) ensureScriptInitialized(scriptIndex int) (ObjectHandle, error) {
	if h, ok := vm.scriptObjects[scriptIndex]; ok {
		return h, nil
	}
	if scriptIndex < 0 || scriptIndex >= len(vm.Module.Scripts) {
		return 0, fmt.Errorf("script index %d: %w", scriptIndex, ErrBadIndex)
	}
	script := vm.Module.Scripts[scriptIndex]
	handle := vm.Heap.NewObject(-1)
	vm.scriptObjects[scriptIndex] = handle // set before running init: re-entrant references see the partially-built object, not infinite recursion
	this := ObjectValue(handle)
	if _, err := vm.invokeMethod(script.Init, this, nil, []Value{ObjectValue(vm.GlobalObject), this}); err != nil {
		return handle, fmt.Errorf("script %d init: %w", scriptIndex, err)
	}
	return handle, nil
}

// ensureClassInitialized runs a class's static initializer exactly once
// and returns the handle of its class (static-side) object.
func (vm *VM) ensureClassInitialized(classIndex uint32) (ObjectHandle, error) {
	if h, ok := vm.classObjects[classIndex]; ok {
		return h, nil
	}
	if int(classIndex) >= len(vm.Module.Classes) {
		return 0, fmt.Errorf("class index %d: %w", classIndex, ErrBadIndex)
	}
	if scriptIdx, ok := vm.Linker.ScriptOf(classIndex); ok {
		if _, err := vm.ensureScriptInitialized(scriptIdx); err != nil {
			return 0, err
		}
		if h, ok := vm.classObjects[classIndex]; ok {
			return h, nil
		}
	}
	class := vm.Module.Classes[classIndex]
	handle := vm.Heap.NewObject(int32(classIndex))
	vm.classObjects[classIndex] = handle
	this := ObjectValue(handle)
	if _, err := vm.invokeMethod(class.Init, this, nil, []Value{ObjectValue(vm.GlobalObject), this}); err != nil {
		return handle, fmt.Errorf("class %d init: %w", classIndex, err)
	}
	return handle, nil
}

// CallEntryPoint lazily initializes and runs the module's entry-point
// script (§4.G, §6): the last script in Module.Scripts.
func (vm *VM) CallEntryPoint() (Value, error) {
	idx, err := vm.Linker.EntryPointScript()
	if err != nil {
		return Value{}, err
	}
	handle, err := vm.ensureScriptInitialized(idx)
	if err != nil {
		return Value{}, err
	}
	return ObjectValue(handle), nil
}

// CallMethodByIndex invokes the method at methodIndex directly, bypassing
// name resolution. this becomes register 0 of the new frame.
func (vm *VM) CallMethodByIndex(methodIndex uint32, this Value, args []Value) (Value, error) {
	return vm.invokeMethod(methodIndex, this, args, nil)
}

// CallMethodByName resolves a "ns.Class.member" qualified name to a
// METHOD/GETTER/SETTER trait's method index via Linker.LookupMethod and
// invokes it.
func (vm *VM) CallMethodByName(qualifiedName string, this Value, args []Value) (Value, error) {
	idx, ok := vm.Linker.LookupMethod(qualifiedName)
	if !ok {
		return Value{}, fmt.Errorf("method %q: %w", qualifiedName, ErrPropertyNotFound)
	}
	return vm.invokeMethod(idx, this, args, nil)
}

// LookupMethod exposes Linker.LookupMethod directly, matching §6's public
// lookup_method accessor: it returns the method index for a qualified
// "ns.Class.member" name without invoking it.
func (vm *VM) LookupMethod(qualifiedName string) (uint32, bool) {
	return vm.Linker.LookupMethod(qualifiedName)
}

// CallMethod is a convenience wrapper accepting either a uint32 method
// index or a string qualified name, for callers that carry either form.
func (vm *VM) CallMethod(ref interface{}, this Value, args []Value) (Value, error) {
	switch r := ref.(type) {
	case uint32:
		return vm.CallMethodByIndex(r, this, args)
	case int:
		return vm.CallMethodByIndex(uint32(r), this, args)
	case string:
		return vm.CallMethodByName(r, this, args)
	default:
		return Value{}, fmt.Errorf("CallMethod: unsupported reference type %T", ref)
	}
}

// NewInstanceByIndex constructs an instance of classIndex: allocates the
// instance object, ensures the class's static side is initialized, then
// runs the instance constructor with the new object as `this`.
func (vm *VM) NewInstanceByIndex(classIndex uint32, args []Value) (Value, error) {
	if int(classIndex) >= len(vm.Module.Instances) {
		return Value{}, fmt.Errorf("class index %d: %w", classIndex, ErrBadIndex)
	}
	if _, err := vm.ensureClassInitialized(classIndex); err != nil {
		return Value{}, err
	}
	inst := vm.Module.Instances[classIndex]
	handle := vm.Heap.NewObject(int32(classIndex))
	if classObj, ok := vm.classObjects[classIndex]; ok {
		vm.Heap.Get(handle).SetPrototype(classObj)
	}
	this := ObjectValue(handle)
	if _, err := vm.invokeMethod(inst.Init, this, args, nil); err != nil {
		return Value{}, err
	}
	return this, nil
}

// NewInstanceByName resolves qualifiedName to a class index via the Linker
// and constructs it.
func (vm *VM) NewInstanceByName(qualifiedName string, args []Value) (Value, error) {
	idx, ok := vm.Linker.ClassByName(qualifiedName)
	if !ok {
		return Value{}, fmt.Errorf("class %q: %w", qualifiedName, ErrPropertyNotFound)
	}
	return vm.NewInstanceByIndex(idx, args)
}

// NewInstance is the CallMethod-style index-or-name convenience wrapper for
// construction.
func (vm *VM) NewInstance(ref interface{}, args []Value) (Value, error) {
	switch r := ref.(type) {
	case uint32:
		return vm.NewInstanceByIndex(r, args)
	case int:
		return vm.NewInstanceByIndex(uint32(r), args)
	case string:
		return vm.NewInstanceByName(r, args)
	default:
		return Value{}, fmt.Errorf("NewInstance: unsupported reference type %T", ref)
	}
}

// invokeMethod builds a Frame for methodIndex, copies this/args into
// registers per §4.G's activation setup, and runs the dispatch loop.
// initialScope, when non-nil, seeds the frame's scope stack bottom-up (used
// for script/class initializers: the global object outermost, their own
// object above it).
func (vm *VM) invokeMethod(methodIndex uint32, this Value, args []Value, initialScope []Value) (Value, error) {
	if int(methodIndex) >= len(vm.Module.Methods) {
		return Value{}, fmt.Errorf("method index %d: %w", methodIndex, ErrBadIndex)
	}
	method := &vm.Module.Methods[methodIndex]
	body, ok := vm.Linker.MethodBody(methodIndex)
	if !ok {
		return Value{}, fmt.Errorf("method %d has no body: %w", methodIndex, ErrPropertyNotFound)
	}

	frame := NewFrame(method, body)
	if err := frame.SetRegister(0, this); err != nil {
		return Value{}, err
	}
	if this.IsUndefined() || this.IsNull() {
		return Value{}, ErrNilThis
	}

	paramCount := int(method.ParamCount)
	for i := 0; i < paramCount; i++ {
		var v Value
		if i < len(args) {
			v = args[i]
		} else if optIdx := i - (paramCount - len(method.Options)); optIdx >= 0 && optIdx < len(method.Options) {
			opt := method.Options[optIdx]
			dv, err := vm.Module.ConstantPool.GetConstant(opt.Kind, opt.ValueIndex)
			if err != nil {
				return Value{}, fmt.Errorf("param %d default: %w", i, err)
			}
			v = dv
		}
		if err := frame.SetRegister(uint32(i+1), v); err != nil {
			return Value{}, err
		}
	}
	if method.Flags.Has(MethodNeedRest) && len(args) > paramCount {
		rest := vm.Heap.NewObject(-1)
		for i, v := range args[paramCount:] {
			vm.Heap.Get(rest).Set("", fmt.Sprintf("%d", i), v)
		}
		if err := frame.SetRegister(uint32(paramCount+1), ObjectValue(rest)); err != nil {
			return Value{}, err
		}
	} else if method.Flags.Has(MethodNeedArguments) {
		arguments := vm.Heap.NewObject(-1)
		for i, v := range args {
			vm.Heap.Get(arguments).Set("", fmt.Sprintf("%d", i), v)
		}
		if err := frame.SetRegister(uint32(paramCount+1), ObjectValue(arguments)); err != nil {
			return Value{}, err
		}
	}

	for _, sv := range initialScope {
		frame.PushScope(sv)
	}

	return vm.run(frame)
}

// run drives the step loop to completion: a Return ends it with a value,
// an unhandled Throw propagates as an *ASError (§7 "exceptions-for-
// control-flow redesigned as explicit enum results").
func (vm *VM) run(frame *Frame) (Value, error) {
	for {
		res, err := vm.step(frame)
		if err != nil {
			return Value{}, err
		}
		switch res.outcome {
		case stepContinue:
			continue
		case stepJump:
			if !frame.Body.inBounds(res.jumpTarget) {
				return Value{}, fmt.Errorf("branch target %d: %w", res.jumpTarget, ErrEndOfBuffer)
			}
			frame.PC = res.jumpTarget
		case stepReturn:
			return res.value, nil
		case stepThrow:
			target, handled := vm.findHandler(frame, res.value)
			if !handled {
				return Value{}, &ASError{Value: res.value}
			}
			if !frame.Body.inBounds(target) {
				return Value{}, fmt.Errorf("exception handler target %d: %w", target, ErrEndOfBuffer)
			}
			frame.OperandStack = frame.OperandStack[:0]
			frame.PushOperand(res.value)
			frame.PC = target
		}
	}
}
