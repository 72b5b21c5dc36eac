package avm2

// AVM2's for-in/for-each-in protocol walks an object's enumerable
// properties via a 1-based index: hasnext/hasnext2 advance it and report
// whether more remain, nextname/nextvalue read the name/value at the
// current index (§4.G iteration opcodes).

func (vm *VM) execHasNext(frame *Frame) (stepResult, error) {
	indexVal, err := frame.PopOperand()
	if err != nil {
		return stepResult{}, err
	}
	objVal, err := frame.PopOperand()
	if err != nil {
		return stepResult{}, err
	}
	obj, err := vm.objectOf(objVal)
	if err != nil {
		return stepResult{}, err
	}
	next := vm.nextEnumIndex(obj, int(indexVal.ToInt32()))
	frame.PushOperand(IntValue(int32(next)))
	return contResult()
}

func (vm *VM) execHasNext2(frame *Frame, ins Instruction) (stepResult, error) {
	objReg, indexReg := ins.U30[0], ins.U30[1]
	objVal, err := frame.Register(objReg)
	if err != nil {
		return stepResult{}, err
	}
	indexVal, err := frame.Register(indexReg)
	if err != nil {
		return stepResult{}, err
	}
	obj, err := vm.objectOf(objVal)
	if err != nil {
		return stepResult{}, err
	}
	next := vm.nextEnumIndex(obj, int(indexVal.ToInt32()))
	if err := frame.SetRegister(indexReg, IntValue(int32(next))); err != nil {
		return stepResult{}, err
	}
	frame.PushOperand(BoolValue(next != 0))
	return contResult()
}

// nextEnumIndex returns the next 1-based enumeration index after current,
// or 0 when enumeration is exhausted.
func (vm *VM) nextEnumIndex(obj *Object, current int) int {
	names := obj.EnumerationOrder()
	if current >= len(names) {
		return 0
	}
	return current + 1
}

func (vm *VM) execNextName(frame *Frame) (stepResult, error) {
	indexVal, err := frame.PopOperand()
	if err != nil {
		return stepResult{}, err
	}
	objVal, err := frame.PopOperand()
	if err != nil {
		return stepResult{}, err
	}
	obj, err := vm.objectOf(objVal)
	if err != nil {
		return stepResult{}, err
	}
	names := obj.EnumerationOrder()
	idx := int(indexVal.ToInt32()) - 1
	if idx < 0 || idx >= len(names) {
		frame.PushOperand(Undefined)
		return contResult()
	}
	frame.PushOperand(StringValue(names[idx].local))
	return contResult()
}

func (vm *VM) execNextValue(frame *Frame) (stepResult, error) {
	indexVal, err := frame.PopOperand()
	if err != nil {
		return stepResult{}, err
	}
	objVal, err := frame.PopOperand()
	if err != nil {
		return stepResult{}, err
	}
	obj, err := vm.objectOf(objVal)
	if err != nil {
		return stepResult{}, err
	}
	names := obj.EnumerationOrder()
	idx := int(indexVal.ToInt32()) - 1
	if idx < 0 || idx >= len(names) {
		frame.PushOperand(Undefined)
		return contResult()
	}
	key := names[idx]
	v, _ := obj.Get(key.ns, key.local)
	frame.PushOperand(v)
	return contResult()
}
