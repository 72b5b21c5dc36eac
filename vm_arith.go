package avm2

import "math"

func opSubtract(a, b float64) float64 { return a - b }
func opMultiply(a, b float64) float64 { return a * b }
func opDivide(a, b float64) float64   { return a / b }
func opModulo(a, b float64) float64 {
	if b == 0 {
		return math.NaN()
	}
	return math.Mod(a, b)
}

// binaryOp implements AVM2's numeric-coercing binary operators (subtract,
// multiply, divide, modulo). `add` has its own string-concatenation
// fallback and is handled by addOp instead (§4.G).
func (vm *VM) binaryOp(frame *Frame, op func(a, b float64) float64) (stepResult, error) {
	b, err := frame.PopOperand()
	if err != nil {
		return stepResult{}, err
	}
	a, err := frame.PopOperand()
	if err != nil {
		return stepResult{}, err
	}
	frame.PushOperand(DoubleValue(op(a.ToNumber(), b.ToNumber())))
	return contResult()
}

// addOp implements `add` (§4.G): string concatenation if either operand is
// a string, numeric addition otherwise.
func (vm *VM) addOp(frame *Frame) (stepResult, error) {
	b, err := frame.PopOperand()
	if err != nil {
		return stepResult{}, err
	}
	a, err := frame.PopOperand()
	if err != nil {
		return stepResult{}, err
	}
	if a.Kind() == ValueString || b.Kind() == ValueString {
		frame.PushOperand(StringValue(a.String() + b.String()))
		return contResult()
	}
	frame.PushOperand(DoubleValue(a.ToNumber() + b.ToNumber()))
	return contResult()
}

func (vm *VM) intBinaryOp(frame *Frame, op func(a, b int32) int32) (stepResult, error) {
	b, err := frame.PopOperand()
	if err != nil {
		return stepResult{}, err
	}
	a, err := frame.PopOperand()
	if err != nil {
		return stepResult{}, err
	}
	frame.PushOperand(IntValue(op(a.ToInt32(), b.ToInt32())))
	return contResult()
}

func (vm *VM) compareOp(frame *Frame, cmp func(a, b Value) bool) (stepResult, error) {
	b, err := frame.PopOperand()
	if err != nil {
		return stepResult{}, err
	}
	a, err := frame.PopOperand()
	if err != nil {
		return stepResult{}, err
	}
	frame.PushOperand(BoolValue(cmp(a, b)))
	return contResult()
}

func typeOfName(v Value) string {
	switch v.Kind() {
	case ValueUndefined:
		return "undefined"
	case ValueBoolean:
		return "boolean"
	case ValueInteger, ValueUnsigned, ValueDouble:
		return "number"
	case ValueString:
		return "string"
	case ValueObjectRef:
		return "object"
	default:
		return "object"
	}
}

// instanceOf reports whether obj's class is classVal's class or a subclass
// of it, walking InstanceInfo.SuperName links (§4.G instanceof). classVal
// must carry an Object reference tagged with the class whose static side
// it represents.
func (vm *VM) instanceOf(obj, classVal Value) bool {
	if obj.Kind() != ValueObjectRef || classVal.Kind() != ValueObjectRef {
		return false
	}
	target := vm.Heap.Get(obj.Object())
	classObj := vm.Heap.Get(classVal.Object())
	if target == nil || classObj == nil || target.ClassIndex < 0 || classObj.ClassIndex < 0 {
		return false
	}
	classIdx := uint32(classObj.ClassIndex)
	for ci := target.ClassIndex; ci >= 0; {
		if uint32(ci) == classIdx {
			return true
		}
		inst := vm.Module.Instances[ci]
		if inst.SuperName == 0 {
			break
		}
		name, err := vm.Module.ConstantPool.QualifiedName(vm.Module.ConstantPool.Multinames[inst.SuperName])
		if err != nil {
			break
		}
		superIdx, ok := vm.Linker.ClassByName(name)
		if !ok {
			break
		}
		ci = int32(superIdx)
	}
	return false
}
