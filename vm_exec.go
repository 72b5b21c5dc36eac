package avm2

import (
	"fmt"
	"math"
)

// stepOutcome tags what the dispatch loop should do after one instruction
// (exceptions-for-control-flow redesigned as explicit enum
// results" — no Go panic/recover stands in for ActionScript throw/catch).
type stepOutcome int

const (
	stepContinue stepOutcome = iota
	stepJump
	stepReturn
	stepThrow
)

type stepResult struct {
	outcome    stepOutcome
	jumpTarget int
	value      Value
}

func contResult() (stepResult, error) { return stepResult{outcome: stepContinue}, nil }

// step decodes and executes one instruction at frame.PC (§4.G). The
// opcode categories mirror §4.G's list: stack/register, arithmetic,
// bitwise, comparison/control, scope, property/name, type coercion,
// construction/call, iteration, misc/throw.
func (vm *VM) step(frame *Frame) (stepResult, error) {
	r := NewReader(frame.Body.Code)
	r.SetPosition(frame.PC)
	ins, err := DecodeInstruction(r)
	if err != nil {
		return stepResult{}, err
	}
	frame.PC = ins.End

	switch ins.Name {

	// --- stack/register ---
	case "nop", "bkpt", "label", "debug", "debugline", "debugfile", "bkptline", "timestamp":
		return contResult()
	case "pop":
		if _, err := frame.PopOperand(); err != nil {
			return stepResult{}, err
		}
		return contResult()
	case "dup":
		v, err := frame.PeekOperand()
		if err != nil {
			return stepResult{}, err
		}
		frame.PushOperand(v)
		return contResult()
	case "swap":
		b, err := frame.PopOperand()
		if err != nil {
			return stepResult{}, err
		}
		a, err := frame.PopOperand()
		if err != nil {
			return stepResult{}, err
		}
		frame.PushOperand(b)
		frame.PushOperand(a)
		return contResult()
	case "pushnull":
		frame.PushOperand(Null)
		return contResult()
	case "pushundefined":
		frame.PushOperand(Undefined)
		return contResult()
	case "pushtrue":
		frame.PushOperand(BoolValue(true))
		return contResult()
	case "pushfalse":
		frame.PushOperand(BoolValue(false))
		return contResult()
	case "pushnan":
		frame.PushOperand(DoubleValue(math.NaN()))
		return contResult()
	case "pushbyte":
		frame.PushOperand(IntValue(int32(int8(ins.U8[0]))))
		return contResult()
	case "pushshort":
		frame.PushOperand(IntValue(int32(ins.U30[0])))
		return contResult()
	case "pushstring":
		s, err := vm.Module.ConstantPool.String(ins.U30[0])
		if err != nil {
			return stepResult{}, err
		}
		frame.PushOperand(StringValue(s))
		return contResult()
	case "pushint":
		if ins.U30[0] >= uint32(len(vm.Module.ConstantPool.Integers)) {
			return stepResult{}, fmt.Errorf("pushint index %d: %w", ins.U30[0], ErrBadIndex)
		}
		frame.PushOperand(IntValue(vm.Module.ConstantPool.Integers[ins.U30[0]]))
		return contResult()
	case "pushuint":
		if ins.U30[0] >= uint32(len(vm.Module.ConstantPool.UnsignedIntegers)) {
			return stepResult{}, fmt.Errorf("pushuint index %d: %w", ins.U30[0], ErrBadIndex)
		}
		frame.PushOperand(UintValue(vm.Module.ConstantPool.UnsignedIntegers[ins.U30[0]]))
		return contResult()
	case "pushdouble":
		if ins.U30[0] >= uint32(len(vm.Module.ConstantPool.Doubles)) {
			return stepResult{}, fmt.Errorf("pushdouble index %d: %w", ins.U30[0], ErrBadIndex)
		}
		frame.PushOperand(DoubleValue(vm.Module.ConstantPool.Doubles[ins.U30[0]]))
		return contResult()
	case "pushnamespace":
		uri, err := vm.Module.ConstantPool.NamespaceURI(ins.U30[0])
		if err != nil {
			return stepResult{}, err
		}
		frame.PushOperand(NamespaceValue(uri))
		return contResult()
	case "getlocal":
		v, err := frame.Register(ins.U30[0])
		if err != nil {
			return stepResult{}, err
		}
		frame.PushOperand(v)
		return contResult()
	case "getlocal0", "getlocal1", "getlocal2", "getlocal3":
		v, err := frame.Register(localShortIndex(ins.Name, "getlocal"))
		if err != nil {
			return stepResult{}, err
		}
		frame.PushOperand(v)
		return contResult()
	case "setlocal":
		v, err := frame.PopOperand()
		if err != nil {
			return stepResult{}, err
		}
		if err := frame.SetRegister(ins.U30[0], v); err != nil {
			return stepResult{}, err
		}
		return contResult()
	case "setlocal0", "setlocal1", "setlocal2", "setlocal3":
		v, err := frame.PopOperand()
		if err != nil {
			return stepResult{}, err
		}
		if err := frame.SetRegister(localShortIndex(ins.Name, "setlocal"), v); err != nil {
			return stepResult{}, err
		}
		return contResult()
	case "kill":
		return contResult() // register stays but is no longer live; no-op under Go GC ownership
	case "inclocal", "inclocal_i":
		v, err := frame.Register(ins.U30[0])
		if err != nil {
			return stepResult{}, err
		}
		if err := frame.SetRegister(ins.U30[0], DoubleValue(v.ToNumber()+1)); err != nil {
			return stepResult{}, err
		}
		return contResult()
	case "declocal", "declocal_i":
		v, err := frame.Register(ins.U30[0])
		if err != nil {
			return stepResult{}, err
		}
		if err := frame.SetRegister(ins.U30[0], DoubleValue(v.ToNumber()-1)); err != nil {
			return stepResult{}, err
		}
		return contResult()

	// --- scope ---
	case "pushscope":
		v, err := frame.PopOperand()
		if err != nil {
			return stepResult{}, err
		}
		frame.PushScope(v)
		return contResult()
	case "pushwith":
		v, err := frame.PopOperand()
		if err != nil {
			return stepResult{}, err
		}
		frame.PushScope(v)
		return contResult()
	case "popscope":
		if _, err := frame.PopScope(); err != nil {
			return stepResult{}, err
		}
		return contResult()
	case "getscopeobject":
		v, err := frame.Scope(int(ins.U8[0]))
		if err != nil {
			return stepResult{}, err
		}
		frame.PushOperand(v)
		return contResult()
	case "getglobalscope":
		frame.PushOperand(ObjectValue(vm.GlobalObject))
		return contResult()

	// --- arithmetic ---
	case "add", "add_i":
		return vm.addOp(frame)
	case "subtract", "subtract_i":
		return vm.binaryOp(frame, opSubtract)
	case "multiply", "multiply_i":
		return vm.binaryOp(frame, opMultiply)
	case "divide":
		return vm.binaryOp(frame, opDivide)
	case "modulo":
		return vm.binaryOp(frame, opModulo)
	case "negate", "negate_i":
		v, err := frame.PopOperand()
		if err != nil {
			return stepResult{}, err
		}
		frame.PushOperand(DoubleValue(-v.ToNumber()))
		return contResult()
	case "increment", "increment_i":
		v, err := frame.PopOperand()
		if err != nil {
			return stepResult{}, err
		}
		frame.PushOperand(DoubleValue(v.ToNumber() + 1))
		return contResult()
	case "decrement", "decrement_i":
		v, err := frame.PopOperand()
		if err != nil {
			return stepResult{}, err
		}
		frame.PushOperand(DoubleValue(v.ToNumber() - 1))
		return contResult()

	// --- bitwise ---
	case "bitand":
		return vm.intBinaryOp(frame, func(a, b int32) int32 { return a & b })
	case "bitor":
		return vm.intBinaryOp(frame, func(a, b int32) int32 { return a | b })
	case "bitxor":
		return vm.intBinaryOp(frame, func(a, b int32) int32 { return a ^ b })
	case "lshift":
		return vm.intBinaryOp(frame, func(a, b int32) int32 { return a << (uint32(b) & 31) })
	case "rshift":
		return vm.intBinaryOp(frame, func(a, b int32) int32 { return a >> (uint32(b) & 31) })
	case "urshift":
		return vm.intBinaryOp(frame, func(a, b int32) int32 { return int32(uint32(a) >> (uint32(b) & 31)) })
	case "bitnot":
		v, err := frame.PopOperand()
		if err != nil {
			return stepResult{}, err
		}
		frame.PushOperand(IntValue(^v.ToInt32()))
		return contResult()
	case "not":
		v, err := frame.PopOperand()
		if err != nil {
			return stepResult{}, err
		}
		frame.PushOperand(BoolValue(!v.ToBoolean()))
		return contResult()

	// --- comparison ---
	case "equals":
		return vm.compareOp(frame, func(a, b Value) bool { return a.Equals(b) })
	case "strictequals":
		return vm.compareOp(frame, func(a, b Value) bool { return a.StrictEquals(b) })
	case "lessthan":
		return vm.compareOp(frame, func(a, b Value) bool { return a.ToNumber() < b.ToNumber() })
	case "lessequals":
		return vm.compareOp(frame, func(a, b Value) bool { return a.ToNumber() <= b.ToNumber() })
	case "greaterthan":
		return vm.compareOp(frame, func(a, b Value) bool { return a.ToNumber() > b.ToNumber() })
	case "greaterequals":
		return vm.compareOp(frame, func(a, b Value) bool { return a.ToNumber() >= b.ToNumber() })
	case "instanceof":
		return vm.compareOp(frame, func(a, b Value) bool { return vm.instanceOf(a, b) })
	case "typeof":
		v, err := frame.PopOperand()
		if err != nil {
			return stepResult{}, err
		}
		frame.PushOperand(StringValue(typeOfName(v)))
		return contResult()

	// --- control flow / branches ---
	case "jump":
		return stepResult{outcome: stepJump, jumpTarget: ins.BranchTarget()}, nil
	case "iftrue":
		return vm.condJump(frame, ins, func(v Value) bool { return v.ToBoolean() })
	case "iffalse":
		return vm.condJump(frame, ins, func(v Value) bool { return !v.ToBoolean() })
	case "ifeq":
		return vm.condBinJump(frame, ins, func(a, b Value) bool { return a.Equals(b) })
	case "ifne":
		return vm.condBinJump(frame, ins, func(a, b Value) bool { return !a.Equals(b) })
	case "ifstricteq":
		return vm.condBinJump(frame, ins, func(a, b Value) bool { return a.StrictEquals(b) })
	case "ifstrictne":
		return vm.condBinJump(frame, ins, func(a, b Value) bool { return !a.StrictEquals(b) })
	case "iflt":
		return vm.condBinJump(frame, ins, func(a, b Value) bool { return a.ToNumber() < b.ToNumber() })
	case "ifle":
		return vm.condBinJump(frame, ins, func(a, b Value) bool { return a.ToNumber() <= b.ToNumber() })
	case "ifgt":
		return vm.condBinJump(frame, ins, func(a, b Value) bool { return a.ToNumber() > b.ToNumber() })
	case "ifge":
		return vm.condBinJump(frame, ins, func(a, b Value) bool { return a.ToNumber() >= b.ToNumber() })
	case "ifnlt":
		return vm.condBinJump(frame, ins, func(a, b Value) bool { return !(a.ToNumber() < b.ToNumber()) })
	case "ifnle":
		return vm.condBinJump(frame, ins, func(a, b Value) bool { return !(a.ToNumber() <= b.ToNumber()) })
	case "ifngt":
		return vm.condBinJump(frame, ins, func(a, b Value) bool { return !(a.ToNumber() > b.ToNumber()) })
	case "ifnge":
		return vm.condBinJump(frame, ins, func(a, b Value) bool { return !(a.ToNumber() >= b.ToNumber()) })
	case "lookupswitch":
		return vm.execLookupSwitch(frame, ins)
	case "returnvoid":
		return stepResult{outcome: stepReturn, value: Undefined}, nil
	case "returnvalue":
		v, err := frame.PopOperand()
		if err != nil {
			return stepResult{}, err
		}
		return stepResult{outcome: stepReturn, value: v}, nil
	case "throw":
		v, err := frame.PopOperand()
		if err != nil {
			return stepResult{}, err
		}
		return stepResult{outcome: stepThrow, value: v}, nil

	// --- type coercion ---
	case "convert_s", "coerce_s":
		v, err := frame.PopOperand()
		if err != nil {
			return stepResult{}, err
		}
		frame.PushOperand(StringValue(v.String()))
		return contResult()
	case "convert_i":
		v, err := frame.PopOperand()
		if err != nil {
			return stepResult{}, err
		}
		frame.PushOperand(IntValue(v.ToInt32()))
		return contResult()
	case "convert_u":
		v, err := frame.PopOperand()
		if err != nil {
			return stepResult{}, err
		}
		frame.PushOperand(UintValue(v.ToUint32()))
		return contResult()
	case "convert_d":
		v, err := frame.PopOperand()
		if err != nil {
			return stepResult{}, err
		}
		frame.PushOperand(DoubleValue(v.ToNumber()))
		return contResult()
	case "convert_b":
		v, err := frame.PopOperand()
		if err != nil {
			return stepResult{}, err
		}
		frame.PushOperand(BoolValue(v.ToBoolean()))
		return contResult()
	case "convert_o", "coerce_a":
		return contResult() // object coercion is a type-check elided without bytecode verification
	case "coerce", "astype", "istype", "istypelate":
		return vm.execCoerceLike(frame, ins)

	// --- property/name ---
	case "findpropstrict":
		return vm.execFindProperty(frame, ins, true)
	case "findproperty":
		return vm.execFindProperty(frame, ins, false)
	case "getlex":
		return vm.execGetLex(frame, ins)
	case "getproperty":
		return vm.execGetProperty(frame, ins)
	case "setproperty", "initproperty":
		return vm.execSetProperty(frame, ins)
	case "deleteproperty":
		return vm.execDeleteProperty(frame, ins)
	case "getslot":
		return vm.execGetSlot(frame, ins)
	case "setslot":
		return vm.execSetSlot(frame, ins)
	case "getglobalslot":
		return vm.execGetGlobalSlot(frame, ins)
	case "setglobalslot":
		return vm.execSetGlobalSlot(frame, ins)
	case "in":
		return vm.execIn(frame)

	// --- construction / call ---
	case "newfunction":
		frame.PushOperand(UintValue(ins.U30[0])) // function identity; closures are Non-goal (§4.G)
		return contResult()
	case "newobject":
		return vm.execNewObject(frame, ins)
	case "newarray":
		return vm.execNewArray(frame, ins)
	case "newactivation":
		frame.PushOperand(ObjectValue(vm.Heap.NewObject(-1)))
		return contResult()
	case "newclass":
		return vm.execNewClass(frame, ins)
	case "call":
		return vm.execCall(frame, ins)
	case "callstatic":
		return vm.execCallStatic(frame, ins)
	case "construct":
		return vm.execConstruct(frame, ins)
	case "constructsuper":
		return vm.execConstructSuper(frame, ins)
	case "callproperty", "callpropvoid", "callproplex":
		return vm.execCallProperty(frame, ins, ins.Name == "callpropvoid")
	case "constructprop":
		return vm.execConstructProp(frame, ins)

	// --- iteration ---
	case "hasnext":
		return vm.execHasNext(frame)
	case "hasnext2":
		return vm.execHasNext2(frame, ins)
	case "nextname":
		return vm.execNextName(frame)
	case "nextvalue":
		return vm.execNextValue(frame)

	default:
		return stepResult{}, &UnimplementedError{Opcode: ins.Opcode, PC: ins.PC}
	}
}

func localShortIndex(name, prefix string) uint32 {
	switch name[len(prefix):] {
	case "0":
		return 0
	case "1":
		return 1
	case "2":
		return 2
	default:
		return 3
	}
}

func (vm *VM) condJump(frame *Frame, ins Instruction, test func(Value) bool) (stepResult, error) {
	v, err := frame.PopOperand()
	if err != nil {
		return stepResult{}, err
	}
	if test(v) {
		return stepResult{outcome: stepJump, jumpTarget: ins.BranchTarget()}, nil
	}
	return contResult()
}

func (vm *VM) condBinJump(frame *Frame, ins Instruction, test func(a, b Value) bool) (stepResult, error) {
	b, err := frame.PopOperand()
	if err != nil {
		return stepResult{}, err
	}
	a, err := frame.PopOperand()
	if err != nil {
		return stepResult{}, err
	}
	if test(a, b) {
		return stepResult{outcome: stepJump, jumpTarget: ins.BranchTarget()}, nil
	}
	return contResult()
}

func (vm *VM) execLookupSwitch(frame *Frame, ins Instruction) (stepResult, error) {
	idxVal, err := frame.PopOperand()
	if err != nil {
		return stepResult{}, err
	}
	def, cases := ins.SwitchTargets()
	idx := int(idxVal.ToInt32())
	if idx < 0 || idx >= len(cases) {
		return stepResult{outcome: stepJump, jumpTarget: def}, nil
	}
	return stepResult{outcome: stepJump, jumpTarget: cases[idx]}, nil
}
