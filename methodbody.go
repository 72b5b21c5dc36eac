package avm2

import "fmt"

// ExceptionRecord describes one exception handler active over a byte range
// of a method body's code (§3). The range is half-open: [From, To).
//
// Grounded on saferwall-pe/exception.go's unwind-record shape (a
// function's byte range plus an out-of-line handler address); AVM2 trades
// the x64 unwind-opcode stream for a target PC and an optional type filter.
type ExceptionRecord struct {
	From    uint32
	To      uint32
	Target  uint32
	ExcType uint32 // string index naming the caught type, 0 = catch-all
	VarName uint32 // string index for the bound catch variable, may be 0
}

// Covers reports whether pc falls within this handler's protected range.
func (e ExceptionRecord) Covers(pc uint32) bool {
	return pc >= e.From && pc < e.To
}

func readExceptionRecord(r *Reader) (ExceptionRecord, error) {
	var e ExceptionRecord
	var err error
	if e.From, err = r.U30(); err != nil {
		return e, err
	}
	if e.To, err = r.U30(); err != nil {
		return e, err
	}
	if e.Target, err = r.U30(); err != nil {
		return e, err
	}
	if e.ExcType, err = r.U30(); err != nil {
		return e, err
	}
	if e.VarName, err = r.U30(); err != nil {
		return e, err
	}
	return e, nil
}

// MethodBodyInfo is the executable body bound to a method signature (§3).
// Code is a borrowed view into the owning Module's backing buffer; it is
// never copied (§9 "Borrowed vs. owned bytes").
type MethodBodyInfo struct {
	Method         uint32 // method index this body implements
	MaxStack       uint32
	LocalCount     uint32
	InitScopeDepth uint32
	MaxScopeDepth  uint32
	Code           []byte
	Exceptions     []ExceptionRecord
	Traits         []TraitInfo
}

func readMethodBodyInfo(r *Reader) (MethodBodyInfo, error) {
	var b MethodBodyInfo
	var err error
	if b.Method, err = r.U30(); err != nil {
		return b, fmt.Errorf("method: %w", err)
	}
	if b.MaxStack, err = r.U30(); err != nil {
		return b, fmt.Errorf("max_stack: %w", err)
	}
	if b.LocalCount, err = r.U30(); err != nil {
		return b, fmt.Errorf("local_count: %w", err)
	}
	if b.InitScopeDepth, err = r.U30(); err != nil {
		return b, fmt.Errorf("init_scope_depth: %w", err)
	}
	if b.MaxScopeDepth, err = r.U30(); err != nil {
		return b, fmt.Errorf("max_scope_depth: %w", err)
	}
	codeLen, err := r.U30()
	if err != nil {
		return b, fmt.Errorf("code_length: %w", err)
	}
	if b.Code, err = r.Bytes(int(codeLen)); err != nil {
		return b, fmt.Errorf("code: %w", err)
	}
	if b.Exceptions, err = readList(r, readExceptionRecord); err != nil {
		return b, fmt.Errorf("exceptions: %w", err)
	}
	if b.Traits, err = readList(r, readTraitInfo); err != nil {
		return b, fmt.Errorf("traits: %w", err)
	}
	return b, nil
}

// inBounds reports whether byte offset pc is a valid position within code,
// i.e. 0 <= pc <= len(code) (pc == len(code) is valid: one past the last
// instruction, reached by falling off the end of a branch). Adapted from
// saferwall-pe/section.go's RVA-containment check (§3 invariant 6).
func (b *MethodBodyInfo) inBounds(pc int) bool {
	return pc >= 0 && pc <= len(b.Code)
}
