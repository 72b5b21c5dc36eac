package avm2

// OperandKind tags how a single instruction operand is encoded in the
// bytecode stream (§4.C).
type OperandKind byte

const (
	OperandU8  OperandKind = iota // single unsigned byte
	OperandU30                    // AVM2 variable-length unsigned int
	OperandS24                    // 24-bit signed branch offset
)

// OpcodeInfo describes one opcode's mnemonic and its fixed operand schema.
// lookupswitch (0x1B) is the one opcode with a variable-length operand list
// (a default offset plus a case table) and is handled specially by the
// decoder rather than through Operands.
type OpcodeInfo struct {
	Name     string
	Operands []OperandKind
}

// opcodeTable is the AVM2 instruction set (§4.C, §6 "Opcodes the engine
// must implement"). Grounded on original_source/avm2/abc/instructions.py's
// per-opcode field lists; operand encodings follow §4.A.
var opcodeTable = map[byte]OpcodeInfo{
	0x01: {"bkpt", nil},
	0x02: {"nop", nil},
	0x03: {"throw", nil},
	0x04: {"getsuper", []OperandKind{OperandU30}},
	0x05: {"setsuper", []OperandKind{OperandU30}},
	0x06: {"dxns", []OperandKind{OperandU30}},
	0x07: {"dxnslate", nil},
	0x08: {"kill", []OperandKind{OperandU30}},
	0x09: {"label", nil},
	0x0C: {"ifnlt", []OperandKind{OperandS24}},
	0x0D: {"ifnle", []OperandKind{OperandS24}},
	0x0E: {"ifngt", []OperandKind{OperandS24}},
	0x0F: {"ifnge", []OperandKind{OperandS24}},
	0x10: {"jump", []OperandKind{OperandS24}},
	0x11: {"iftrue", []OperandKind{OperandS24}},
	0x12: {"iffalse", []OperandKind{OperandS24}},
	0x13: {"ifeq", []OperandKind{OperandS24}},
	0x14: {"ifne", []OperandKind{OperandS24}},
	0x15: {"iflt", []OperandKind{OperandS24}},
	0x16: {"ifle", []OperandKind{OperandS24}},
	0x17: {"ifgt", []OperandKind{OperandS24}},
	0x18: {"ifge", []OperandKind{OperandS24}},
	0x19: {"ifstricteq", []OperandKind{OperandS24}},
	0x1A: {"ifstrictne", []OperandKind{OperandS24}},
	0x1B: {"lookupswitch", nil}, // variable-length; decoder special-cases
	0x1C: {"pushwith", nil},
	0x1D: {"popscope", nil},
	0x1E: {"nextname", nil},
	0x1F: {"hasnext", nil},
	0x20: {"pushnull", nil},
	0x21: {"pushundefined", nil},
	0x23: {"nextvalue", nil},
	0x24: {"pushbyte", []OperandKind{OperandU8}},
	0x25: {"pushshort", []OperandKind{OperandU30}},
	0x26: {"pushtrue", nil},
	0x27: {"pushfalse", nil},
	0x28: {"pushnan", nil},
	0x29: {"pop", nil},
	0x2A: {"dup", nil},
	0x2B: {"swap", nil},
	0x2C: {"pushstring", []OperandKind{OperandU30}},
	0x2D: {"pushint", []OperandKind{OperandU30}},
	0x2E: {"pushuint", []OperandKind{OperandU30}},
	0x2F: {"pushdouble", []OperandKind{OperandU30}},
	0x30: {"pushscope", nil},
	0x31: {"pushnamespace", []OperandKind{OperandU30}},
	0x32: {"hasnext2", []OperandKind{OperandU30, OperandU30}},
	0x40: {"newfunction", []OperandKind{OperandU30}},
	0x41: {"call", []OperandKind{OperandU30}},
	0x42: {"construct", []OperandKind{OperandU30}},
	0x43: {"callmethod", []OperandKind{OperandU30, OperandU30}},
	0x44: {"callstatic", []OperandKind{OperandU30, OperandU30}},
	0x45: {"callsuper", []OperandKind{OperandU30, OperandU30}},
	0x46: {"callproperty", []OperandKind{OperandU30, OperandU30}},
	0x47: {"returnvoid", nil},
	0x48: {"returnvalue", nil},
	0x49: {"constructsuper", []OperandKind{OperandU30}},
	0x4A: {"constructprop", []OperandKind{OperandU30, OperandU30}},
	0x4C: {"callproplex", []OperandKind{OperandU30, OperandU30}},
	0x4E: {"callsupervoid", []OperandKind{OperandU30, OperandU30}},
	0x4F: {"callpropvoid", []OperandKind{OperandU30, OperandU30}},
	0x50: {"sxi1", nil},
	0x51: {"sxi8", nil},
	0x52: {"sxi16", nil},
	0x53: {"applytype", []OperandKind{OperandU30}},
	0x55: {"newobject", []OperandKind{OperandU30}},
	0x56: {"newarray", []OperandKind{OperandU30}},
	0x57: {"newactivation", nil},
	0x58: {"newclass", []OperandKind{OperandU30}},
	0x59: {"getdescendants", []OperandKind{OperandU30}},
	0x5A: {"newcatch", []OperandKind{OperandU30}},
	0x5D: {"findpropstrict", []OperandKind{OperandU30}},
	0x5E: {"findproperty", []OperandKind{OperandU30}},
	0x60: {"getlex", []OperandKind{OperandU30}},
	0x61: {"setproperty", []OperandKind{OperandU30}},
	0x62: {"getlocal", []OperandKind{OperandU30}},
	0x63: {"setlocal", []OperandKind{OperandU30}},
	0x64: {"getglobalscope", nil},
	0x65: {"getscopeobject", []OperandKind{OperandU8}},
	0x66: {"getproperty", []OperandKind{OperandU30}},
	0x68: {"initproperty", []OperandKind{OperandU30}},
	0x6A: {"deleteproperty", []OperandKind{OperandU30}},
	0x6C: {"getslot", []OperandKind{OperandU30}},
	0x6D: {"setslot", []OperandKind{OperandU30}},
	0x6E: {"getglobalslot", []OperandKind{OperandU30}},
	0x6F: {"setglobalslot", []OperandKind{OperandU30}},
	0x70: {"convert_s", nil},
	0x71: {"esc_xelem", nil},
	0x72: {"esc_xattr", nil},
	0x73: {"convert_i", nil},
	0x74: {"convert_u", nil},
	0x75: {"convert_d", nil},
	0x76: {"convert_b", nil},
	0x77: {"convert_o", nil},
	0x78: {"checkfilter", nil},
	0x80: {"coerce", []OperandKind{OperandU30}},
	0x82: {"coerce_a", nil},
	0x85: {"coerce_s", nil},
	0x86: {"astype", []OperandKind{OperandU30}},
	0x87: {"astypelate", nil},
	0x90: {"negate", nil},
	0x91: {"increment", nil},
	0x92: {"inclocal", []OperandKind{OperandU30}},
	0x93: {"decrement", nil},
	0x94: {"declocal", []OperandKind{OperandU30}},
	0x95: {"typeof", nil},
	0x96: {"not", nil},
	0x97: {"bitnot", nil},
	0xA0: {"add", nil},
	0xA1: {"subtract", nil},
	0xA2: {"multiply", nil},
	0xA3: {"divide", nil},
	0xA4: {"modulo", nil},
	0xA5: {"lshift", nil},
	0xA6: {"rshift", nil},
	0xA7: {"urshift", nil},
	0xA8: {"bitand", nil},
	0xA9: {"bitor", nil},
	0xAA: {"bitxor", nil},
	0xAB: {"equals", nil},
	0xAC: {"strictequals", nil},
	0xAD: {"lessthan", nil},
	0xAE: {"lessequals", nil},
	0xAF: {"greaterthan", nil},
	0xB0: {"greaterequals", nil},
	0xB1: {"instanceof", nil},
	0xB2: {"istype", []OperandKind{OperandU30}},
	0xB3: {"istypelate", nil},
	0xB4: {"in", nil},
	0xC0: {"increment_i", nil},
	0xC1: {"decrement_i", nil},
	0xC2: {"inclocal_i", []OperandKind{OperandU30}},
	0xC3: {"declocal_i", []OperandKind{OperandU30}},
	0xC4: {"negate_i", nil},
	0xC5: {"add_i", nil},
	0xC6: {"subtract_i", nil},
	0xC7: {"multiply_i", nil},
	0xD0: {"getlocal0", nil},
	0xD1: {"getlocal1", nil},
	0xD2: {"getlocal2", nil},
	0xD3: {"getlocal3", nil},
	0xD4: {"setlocal0", nil},
	0xD5: {"setlocal1", nil},
	0xD6: {"setlocal2", nil},
	0xD7: {"setlocal3", nil},
	0xEF: {"debug", []OperandKind{OperandU8, OperandU30, OperandU8, OperandU30}},
	0xF0: {"debugline", []OperandKind{OperandU30}},
	0xF1: {"debugfile", []OperandKind{OperandU30}},
	0xF2: {"bkptline", []OperandKind{OperandU30}},
	0xF3: {"timestamp", nil},
}

// opcodeName returns the mnemonic for op, or "" if unknown.
func opcodeName(op byte) string {
	return opcodeTable[op].Name
}
