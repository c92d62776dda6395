package types

import "testing"

func TestInterning(t *testing.T) {
	if Pointer(I32()) != Pointer(I32()) {
		t.Error("expected two Pointer(i32) calls to return the identical *Type")
	}
	if Array(I32(), 4) != Array(I32(), 4) {
		t.Error("expected two Array(i32, 4) calls to return the identical *Type")
	}
	if Array(I32(), 4) == Array(I32(), 5) {
		t.Error("expected arrays of different length to be distinct types")
	}
	if Array(I32(), 4) == Array(Pointer(I32()), 4) {
		t.Error("expected arrays of different element type to be distinct types")
	}
}

func TestSize(t *testing.T) {
	tests := []struct {
		name string
		typ  *Type
		want int32
	}{
		{"i32", I32(), 4},
		{"pointer", Pointer(I32()), 4},
		{"array of 3 i32", Array(I32(), 3), 12},
		{"2d array [4][3]i32", Array(Array(I32(), 3), 4), 48},
	}
	for _, tt := range tests {
		if got := tt.typ.Size(); got != tt.want {
			t.Errorf("%s: Size() = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		typ  *Type
		want string
	}{
		{I32(), "i32"},
		{Unit(), "unit"},
		{Pointer(I32()), "*i32"},
		{Array(I32(), 3), "[i32, 3]"},
		{Pointer(Array(I32(), 3)), "*[i32, 3]"},
	}
	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestKindPredicates(t *testing.T) {
	if !Pointer(I32()).IsPointer() {
		t.Error("expected IsPointer on a pointer type")
	}
	if !Array(I32(), 2).IsArray() {
		t.Error("expected IsArray on an array type")
	}
	if !Unit().IsUnit() {
		t.Error("expected IsUnit on the unit type")
	}
	if I32().IsPointer() || I32().IsArray() || I32().IsUnit() {
		t.Error("expected i32 to match none of the other kind predicates")
	}
}
