package avm2

import (
	"fmt"
	"math"
	"strconv"
)

// ValueKind tags which field of Value is populated (§4.E). Grounded on
// original_source/avm2/runtime.py's use of Python's native None/bool/int/
// float/str plus a ASObject wrapper class; Go has no such implicit union,
// so Value makes the tag explicit.
type ValueKind byte

const (
	ValueUndefined ValueKind = iota
	ValueNull
	ValueBoolean
	ValueInteger
	ValueUnsigned
	ValueDouble
	ValueString
	ValueNamespaceRef
	ValueObjectRef
)

// Value is the runtime data cell AVM2 instructions push, pop, store, and
// compare (§4.E). It is a small tagged union, copied by value like a Go
// interface{} constant but with no boxing: the zero Value is Undefined,
// matching AVM2's single shared "undefined" sentinel.
type Value struct {
	kind ValueKind
	b    bool
	i    int32
	u    uint32
	d    float64
	s    string
	obj  ObjectHandle
}

// Undefined is the single shared "undefined" value (§4.E). The zero Value
// already equals it; the name exists for readability at call sites.
var Undefined = Value{kind: ValueUndefined}

// Null is the ActionScript null value, distinct from Undefined.
var Null = Value{kind: ValueNull}

func BoolValue(b bool) Value       { return Value{kind: ValueBoolean, b: b} }
func IntValue(i int32) Value       { return Value{kind: ValueInteger, i: i} }
func UintValue(u uint32) Value     { return Value{kind: ValueUnsigned, u: u} }
func DoubleValue(d float64) Value  { return Value{kind: ValueDouble, d: d} }
func StringValue(s string) Value   { return Value{kind: ValueString, s: s} }
func NamespaceValue(uri string) Value { return Value{kind: ValueNamespaceRef, s: uri} }
func ObjectValue(h ObjectHandle) Value { return Value{kind: ValueObjectRef, obj: h} }

// Kind returns the tag selecting which accessor is valid.
func (v Value) Kind() ValueKind { return v.kind }

func (v Value) IsUndefined() bool { return v.kind == ValueUndefined }
func (v Value) IsNull() bool      { return v.kind == ValueNull }

func (v Value) Bool() bool          { return v.b }
func (v Value) Int() int32          { return v.i }
func (v Value) Uint() uint32        { return v.u }
func (v Value) Double() float64     { return v.d }
func (v Value) Str() string         { return v.s }
func (v Value) Object() ObjectHandle { return v.obj }

// ToBoolean implements the AVM2 ToBoolean coercion used by iftrue/iffalse
// and the `!` operator (§4.G).
func (v Value) ToBoolean() bool {
	switch v.kind {
	case ValueUndefined, ValueNull:
		return false
	case ValueBoolean:
		return v.b
	case ValueInteger:
		return v.i != 0
	case ValueUnsigned:
		return v.u != 0
	case ValueDouble:
		return v.d != 0 && !math.IsNaN(v.d)
	case ValueString:
		return v.s != ""
	default:
		return true
	}
}

// ToNumber implements the AVM2 ToNumber coercion (§4.G arithmetic ops).
func (v Value) ToNumber() float64 {
	switch v.kind {
	case ValueUndefined:
		return math.NaN()
	case ValueNull:
		return 0
	case ValueBoolean:
		if v.b {
			return 1
		}
		return 0
	case ValueInteger:
		return float64(v.i)
	case ValueUnsigned:
		return float64(v.u)
	case ValueDouble:
		return v.d
	case ValueString:
		f, err := strconv.ParseFloat(v.s, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

// ToInt32 implements the AVM2 ToInt32 coercion (§4.G convert_i).
func (v Value) ToInt32() int32 {
	return int32(int64(v.ToNumber()))
}

// ToUint32 implements the AVM2 ToUint32 coercion (§4.G convert_u).
func (v Value) ToUint32() uint32 {
	return uint32(v.ToInt32())
}

// String renders v for diagnostics and for the ActionScript String()
// coercion of non-object values (§4.G convert_s).
func (v Value) String() string {
	switch v.kind {
	case ValueUndefined:
		return "undefined"
	case ValueNull:
		return "null"
	case ValueBoolean:
		if v.b {
			return "true"
		}
		return "false"
	case ValueInteger:
		return strconv.FormatInt(int64(v.i), 10)
	case ValueUnsigned:
		return strconv.FormatUint(uint64(v.u), 10)
	case ValueDouble:
		if math.IsNaN(v.d) {
			return "NaN"
		}
		return strconv.FormatFloat(v.d, 'g', -1, 64)
	case ValueString:
		return v.s
	case ValueNamespaceRef:
		return v.s
	case ValueObjectRef:
		return fmt.Sprintf("[object #%d]", v.obj)
	default:
		return "undefined"
	}
}

// StrictEquals implements the `===` comparison used by ifstricteq/
// ifstrictne and strictequals (§4.G): no coercion, kind mismatch is always
// unequal except that Integer/Unsigned/Double compare by numeric value.
func (v Value) StrictEquals(other Value) bool {
	switch {
	case v.kind == other.kind:
		switch v.kind {
		case ValueUndefined, ValueNull:
			return true
		case ValueBoolean:
			return v.b == other.b
		case ValueInteger:
			return v.i == other.i
		case ValueUnsigned:
			return v.u == other.u
		case ValueDouble:
			return v.d == other.d
		case ValueString:
			return v.s == other.s
		case ValueNamespaceRef:
			return v.s == other.s
		case ValueObjectRef:
			return v.obj == other.obj
		}
		return false
	case isNumericKind(v.kind) && isNumericKind(other.kind):
		return v.ToNumber() == other.ToNumber()
	default:
		return false
	}
}

func isNumericKind(k ValueKind) bool {
	return k == ValueInteger || k == ValueUnsigned || k == ValueDouble
}

// Equals implements the abstract `==` comparison (§4.G equals), which
// additionally coerces across string/number/boolean before concluding
// inequality.
func (v Value) Equals(other Value) bool {
	if v.kind == other.kind || (isNumericKind(v.kind) && isNumericKind(other.kind)) {
		return v.StrictEquals(other)
	}
	switch {
	case v.IsNull() && other.IsUndefined(), v.IsUndefined() && other.IsNull():
		return true
	case v.kind == ValueBoolean, other.kind == ValueBoolean,
		v.kind == ValueString || other.kind == ValueString:
		return v.ToNumber() == other.ToNumber()
	default:
		return false
	}
}
