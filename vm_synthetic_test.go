package avm2

import (
	"math"
	"testing"
)

// These tests hand-build a minimal Module/MethodInfo/MethodBodyInfo in Go
// (bypassing the wire-format parser) to drive the engine end to end: param
// binding, arithmetic, and branching. A fixture file ("heroes.swf") that
// would exercise these same paths end to end from real SWF/ABC bytes is
// not available, so those scenarios cannot be replayed byte-for-byte;
// synthesizing equivalent bytecode here exercises the same opcode paths
// (divide, comparison, conditional branch, return) that
// hitrateIntensity/getElementalPenetration would.

func newSyntheticVM(t *testing.T, code []byte, paramCount uint32) *VM {
	t.Helper()
	m := &Module{
		Methods: []MethodInfo{{ParamCount: paramCount}},
		MethodBodies: []MethodBodyInfo{{
			Method:     0,
			MaxStack:   8,
			LocalCount: paramCount + 1,
			Code:       code,
		}},
	}
	vm, err := NewVM(m, &Options{})
	if err != nil {
		t.Fatalf("NewVM failed: %v", err)
	}
	return vm
}

func TestSyntheticDivide(t *testing.T) {
	// getlocal1; getlocal2; divide; returnvalue
	code := []byte{0xD1, 0xD2, 0xA3, 0x48}
	vm := newSyntheticVM(t, code, 2)
	this := ObjectValue(vm.Heap.NewObject(-1))

	tests := []struct {
		a, b float64
		want float64
	}{
		{4, 8, 0.5},
		{-100, 4, -25},
	}
	for _, tt := range tests {
		result, err := vm.CallMethodByIndex(0, this, []Value{DoubleValue(tt.a), DoubleValue(tt.b)})
		if err != nil {
			t.Fatalf("CallMethodByIndex(%v, %v) failed: %v", tt.a, tt.b, err)
		}
		if result.ToNumber() != tt.want {
			t.Errorf("divide(%v, %v) = %v, want %v", tt.a, tt.b, result.ToNumber(), tt.want)
		}
	}
}

func TestSyntheticBranch(t *testing.T) {
	// getlocal1; getlocal2; ifge L1 (+2); getlocal1; returnvalue; L1: getlocal2; returnvalue
	code := []byte{0xD1, 0xD2, 0x18, 0x02, 0x00, 0x00, 0xD1, 0x48, 0xD2, 0x48}
	vm := newSyntheticVM(t, code, 2)
	this := ObjectValue(vm.Heap.NewObject(-1))

	tests := []struct {
		a, b float64
		want float64
	}{
		{5, 3, 3}, // a >= b: jump, return b
		{2, 9, 2}, // a < b: fall through, return a
	}
	for _, tt := range tests {
		result, err := vm.CallMethodByIndex(0, this, []Value{DoubleValue(tt.a), DoubleValue(tt.b)})
		if err != nil {
			t.Fatalf("CallMethodByIndex(%v, %v) failed: %v", tt.a, tt.b, err)
		}
		if result.ToNumber() != tt.want {
			t.Errorf("min(%v, %v) = %v, want %v", tt.a, tt.b, result.ToNumber(), tt.want)
		}
	}
}

func TestSyntheticDivideByZero(t *testing.T) {
	// IEEE-754 division: 0/0 is NaN, nonzero/0 is an infinity (§4.G has no
	// special-cased divide-by-zero guard, matching AVM2's own ToNumber-based
	// arithmetic).
	code := []byte{0xD1, 0xD2, 0xA3, 0x48}
	vm := newSyntheticVM(t, code, 2)
	this := ObjectValue(vm.Heap.NewObject(-1))

	result, err := vm.CallMethodByIndex(0, this, []Value{DoubleValue(0), DoubleValue(0)})
	if err != nil {
		t.Fatalf("CallMethodByIndex failed: %v", err)
	}
	if !isNaN(result.ToNumber()) {
		t.Errorf("0/0 = %v, want NaN", result.ToNumber())
	}

	result, err = vm.CallMethodByIndex(0, this, []Value{DoubleValue(1), DoubleValue(0)})
	if err != nil {
		t.Fatalf("CallMethodByIndex failed: %v", err)
	}
	if !math.IsInf(result.ToNumber(), 1) {
		t.Errorf("1/0 = %v, want +Inf", result.ToNumber())
	}
}

func isNaN(f float64) bool { return f != f }
