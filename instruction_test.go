package avm2

import "testing"

func TestDecodeInstructionNoOperands(t *testing.T) {
	ins, err := DecodeAll([]byte{0x02}) // nop
	if err != nil {
		t.Fatalf("DecodeAll(nop) failed: %v", err)
	}
	if len(ins) != 1 || ins[0].Name != "nop" {
		t.Fatalf("DecodeAll(nop) = %+v", ins)
	}
}

func TestDecodeInstructionU8Operand(t *testing.T) {
	ins, err := DecodeAll([]byte{0x24, 0x05}) // pushbyte 5
	if err != nil {
		t.Fatalf("DecodeAll(pushbyte) failed: %v", err)
	}
	if ins[0].Name != "pushbyte" || len(ins[0].U8) != 1 || ins[0].U8[0] != 5 {
		t.Fatalf("pushbyte decoded as %+v", ins[0])
	}
}

func TestDecodeInstructionU30Operand(t *testing.T) {
	ins, err := DecodeAll([]byte{0x2D, 0xAC, 0x02}) // pushint 300
	if err != nil {
		t.Fatalf("DecodeAll(pushint) failed: %v", err)
	}
	if ins[0].Name != "pushint" || ins[0].U30[0] != 300 {
		t.Fatalf("pushint decoded as %+v", ins[0])
	}
}

func TestDecodeInstructionBranchTarget(t *testing.T) {
	// jump +2, then two nops; the branch target is relative to the byte
	// immediately following the 3-byte S24 operand.
	code := []byte{0x10, 0x02, 0x00, 0x00, 0x02, 0x02}
	ins, err := DecodeAll(code)
	if err != nil {
		t.Fatalf("DecodeAll(jump) failed: %v", err)
	}
	jump := ins[0]
	if jump.Name != "jump" {
		t.Fatalf("expected jump, got %+v", jump)
	}
	if got := jump.BranchTarget(); got != 6 {
		t.Errorf("BranchTarget() = %d, want 6", got)
	}
}

func TestDecodeInstructionUnknownOpcode(t *testing.T) {
	// 0x00 is unassigned in the opcode table.
	if _, err := DecodeAll([]byte{0x00}); err == nil {
		t.Fatal("DecodeAll should reject an unrecognized opcode byte")
	}
}

func TestDecodeLookupSwitchTargetsAreSelfRelative(t *testing.T) {
	// lookupswitch is special-cased: its default and case offsets are
	// relative to the opcode byte itself, not to the end of the
	// instruction (unlike every other branch opcode).
	code := []byte{
		0x1B,             // lookupswitch
		0x05, 0x00, 0x00, // default_offset = 5 (S24, little-endian)
		0x00,             // case_count = 0 (u30, meaning 1 entry)
		0x05, 0x00, 0x00, // case_offsets[0] = 5 (S24, little-endian)
	}
	ins, err := DecodeAll(code)
	if err != nil {
		t.Fatalf("DecodeAll(lookupswitch) failed: %v", err)
	}
	def, cases := ins[0].SwitchTargets()
	if def != 5 {
		t.Errorf("default target = %d, want 5 (relative to opcode byte)", def)
	}
	if len(cases) != 1 || cases[0] != 5 {
		t.Errorf("case targets = %v, want [5]", cases)
	}
}
