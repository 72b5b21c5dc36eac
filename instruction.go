package avm2

import "fmt"

// LookupSwitch is the variable-length case table of a lookupswitch
// instruction (§4.C): a default offset plus one offset per case, all
// measured relative to the lookupswitch opcode's own byte position — the
// one documented AVM2 divergence from the "relative to the byte after the
// operands" rule every other branch opcode follows (§9).
type LookupSwitch struct {
	DefaultOffset int32
	CaseOffsets   []int32
}

// Instruction is a single decoded bytecode instruction. Rather than one Go
// type per opcode, Instruction is a tagged variant: Opcode selects which of
// the operand slots below are meaningful, per opcodeTable's schema
// (§9 "instruction polymorphism as tagged variant").
type Instruction struct {
	Opcode byte
	Name   string

	// PC is the offset of the opcode byte itself.
	PC int
	// End is the offset one past this instruction's last operand byte —
	// where the next instruction begins, and the origin most branch
	// offsets are relative to.
	End int

	U30 []uint32 // OperandU30 operands, in schema order
	U8  []byte   // OperandU8 operands, in schema order

	// Branch is the raw S24 operand for a conditional/unconditional jump,
	// meaningful iff Name is one of the if*/jump mnemonics.
	Branch int32

	// Switch holds the lookupswitch case table; non-nil iff Opcode == 0x1B.
	Switch *LookupSwitch
}

// BranchTarget returns the absolute byte offset a branch instruction jumps
// to. For every opcode except lookupswitch, offsets are relative to End
// (the byte after the operands); lookupswitch's offsets are relative to PC
// (its own opcode byte), per §9.
func (ins Instruction) BranchTarget() int {
	return ins.End + int(ins.Branch)
}

// SwitchTargets returns the absolute byte offsets of a lookupswitch's
// default case and each indexed case, relative to the opcode's own byte.
func (ins Instruction) SwitchTargets() (def int, cases []int) {
	def = ins.PC + int(ins.Switch.DefaultOffset)
	cases = make([]int, len(ins.Switch.CaseOffsets))
	for i, off := range ins.Switch.CaseOffsets {
		cases[i] = ins.PC + int(off)
	}
	return def, cases
}

// DecodeInstruction reads one instruction starting at r's current
// position. Grounded on original_source/avm2/abc/instructions.py's
// per-opcode read routines, collapsed into the single generic operand-list
// walk defined by opcodeTable plus a special case for lookupswitch (§4.C).
func DecodeInstruction(r *Reader) (Instruction, error) {
	pc := r.Position()
	op, err := r.U8()
	if err != nil {
		return Instruction{}, err
	}

	info, known := opcodeTable[op]
	if !known {
		return Instruction{}, fmt.Errorf("opcode 0x%02x at %d: %w", op, pc, ErrBadOpcode)
	}

	ins := Instruction{Opcode: op, Name: info.Name, PC: pc}

	if op == 0x1B {
		def, err := r.S24()
		if err != nil {
			return Instruction{}, fmt.Errorf("lookupswitch default_offset: %w", err)
		}
		caseCount, err := r.U30()
		if err != nil {
			return Instruction{}, fmt.Errorf("lookupswitch case_count: %w", err)
		}
		offsets := make([]int32, caseCount+1)
		for i := range offsets {
			if offsets[i], err = r.S24(); err != nil {
				return Instruction{}, fmt.Errorf("lookupswitch case %d: %w", i, err)
			}
		}
		ins.Switch = &LookupSwitch{DefaultOffset: def, CaseOffsets: offsets}
		ins.End = r.Position()
		return ins, nil
	}

	for _, kind := range info.Operands {
		switch kind {
		case OperandU8:
			b, err := r.U8()
			if err != nil {
				return Instruction{}, fmt.Errorf("%s operand: %w", info.Name, err)
			}
			ins.U8 = append(ins.U8, b)
		case OperandU30:
			v, err := r.U30()
			if err != nil {
				return Instruction{}, fmt.Errorf("%s operand: %w", info.Name, err)
			}
			ins.U30 = append(ins.U30, v)
		case OperandS24:
			v, err := r.S24()
			if err != nil {
				return Instruction{}, fmt.Errorf("%s operand: %w", info.Name, err)
			}
			ins.Branch = v
		}
	}
	ins.End = r.Position()
	return ins, nil
}

// DecodeAll decodes every instruction in code, in order, stopping at the
// end of the buffer. Used by tests that want a flat instruction list; the
// engine itself decodes one instruction per step.
func DecodeAll(code []byte) ([]Instruction, error) {
	r := NewReader(code)
	var out []Instruction
	for !r.IsEOF() {
		ins, err := DecodeInstruction(r)
		if err != nil {
			return out, err
		}
		out = append(out, ins)
	}
	return out, nil
}
