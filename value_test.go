package avm2

import (
	"math"
	"testing"
)

func TestValueToBoolean(t *testing.T) {
	tests := []struct {
		name string
		in   Value
		out  bool
	}{
		{"undefined", Undefined, false},
		{"null", Null, false},
		{"zero int", IntValue(0), false},
		{"nonzero int", IntValue(-1), true},
		{"empty string", StringValue(""), false},
		{"nonempty string", StringValue("0"), true},
		{"NaN", DoubleValue(math.NaN()), false},
		{"zero double", DoubleValue(0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.ToBoolean(); got != tt.out {
				t.Errorf("ToBoolean() = %v, want %v", got, tt.out)
			}
		})
	}
}

func TestValueEquals(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"int vs double same value", IntValue(1), DoubleValue(1), true},
		{"null vs undefined", Null, Undefined, true},
		{"string vs number coercion", StringValue("1"), IntValue(1), true},
		{"bool vs number coercion", BoolValue(true), IntValue(1), true},
		{"different strings", StringValue("a"), StringValue("b"), false},
		{"object handles differ", ObjectValue(1), ObjectValue(2), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equals(tt.b); got != tt.want {
				t.Errorf("Equals() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValueStrictEquals(t *testing.T) {
	if !IntValue(5).StrictEquals(DoubleValue(5)) {
		t.Error("StrictEquals should compare numeric kinds by value")
	}
	if StringValue("1").StrictEquals(IntValue(1)) {
		t.Error("StrictEquals must not coerce string to number")
	}
}

func TestValueString(t *testing.T) {
	if got := IntValue(-42).String(); got != "-42" {
		t.Errorf("String() = %q, want %q", got, "-42")
	}
	if got := BoolValue(true).String(); got != "true" {
		t.Errorf("String() = %q, want %q", got, "true")
	}
}
