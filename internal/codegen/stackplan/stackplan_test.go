package stackplan

import (
	"testing"

	"sysyc/internal/ir"
	"sysyc/internal/types"
)

// buildLeaf constructs `int f() { return 1; }`-shaped IR directly, without
// going through irgen, to isolate stackplan's own behavior.
func buildLeaf(t *testing.T) *ir.Function {
	t.Helper()
	p := ir.NewProgram()
	id := p.NewFunc("f", nil, types.I32())
	fn := p.Func(id)
	entry := fn.NewBlock("%entry")
	fn.AppendBlock(entry)
	one := fn.NewInteger(1)
	ret := fn.NewReturn(one)
	if err := fn.PushInstruction(entry, ret); err != nil {
		t.Fatal(err)
	}
	return fn
}

func TestLeafFunctionNeedsNoRASlot(t *testing.T) {
	plan := Build(buildLeaf(t))
	if !plan.IsLeaf {
		t.Error("expected a call-free function to be classified as a leaf")
	}
}

func TestFrameSizeIs16ByteAligned(t *testing.T) {
	p := ir.NewProgram()
	id := p.NewFunc("f", nil, types.I32())
	fn := p.Func(id)
	entry := fn.NewBlock("%entry")
	fn.AppendBlock(entry)

	// Three single-word allocs: 12 bytes of slots, which must round up to 16.
	for i := 0; i < 3; i++ {
		a := fn.NewAlloc(types.I32())
		if err := fn.PushInstruction(entry, a); err != nil {
			t.Fatal(err)
		}
	}
	ret := fn.NewReturn(ir.Zero)
	if err := fn.PushInstruction(entry, ret); err != nil {
		t.Fatal(err)
	}

	plan := Build(fn)
	if plan.FrameSize%16 != 0 {
		t.Errorf("expected a 16-byte aligned frame, got %d", plan.FrameSize)
	}
	if plan.FrameSize < 12 {
		t.Errorf("expected frame size to cover at least 12 bytes of slots, got %d", plan.FrameSize)
	}
}

func TestNonLeafFunctionReservesRASlot(t *testing.T) {
	p := ir.NewProgram()
	callee := p.NewDecl("g", nil, types.I32())
	id := p.NewFunc("f", nil, types.I32())
	fn := p.Func(id)
	entry := fn.NewBlock("%entry")
	fn.AppendBlock(entry)
	call := fn.NewCall(callee, nil, types.I32())
	if err := fn.PushInstruction(entry, call); err != nil {
		t.Fatal(err)
	}
	ret := fn.NewReturn(call)
	if err := fn.PushInstruction(entry, ret); err != nil {
		t.Fatal(err)
	}

	plan := Build(fn)
	if plan.IsLeaf {
		t.Error("expected a function that calls another to not be a leaf")
	}
	if plan.RAOffset < 0 || plan.RAOffset >= plan.FrameSize {
		t.Errorf("expected RAOffset within the frame, got %d (frame %d)", plan.RAOffset, plan.FrameSize)
	}
}

func TestOutgoingArgAreaSizedForOverflowArgs(t *testing.T) {
	p := ir.NewProgram()
	paramTypes := make([]*types.Type, 9)
	for i := range paramTypes {
		paramTypes[i] = types.I32()
	}
	callee := p.NewDecl("g9", paramTypes, types.I32())
	id := p.NewFunc("f", nil, types.I32())
	fn := p.Func(id)
	entry := fn.NewBlock("%entry")
	fn.AppendBlock(entry)

	args := make([]ir.Value, 9)
	for i := range args {
		args[i] = fn.NewInteger(int32(i))
	}
	call := fn.NewCall(callee, args, types.I32())
	if err := fn.PushInstruction(entry, call); err != nil {
		t.Fatal(err)
	}
	ret := fn.NewReturn(call)
	if err := fn.PushInstruction(entry, ret); err != nil {
		t.Fatal(err)
	}

	plan := Build(fn)
	if plan.ArgAreaTop < 4 {
		t.Errorf("expected at least 4 bytes reserved for the 9th argument, got %d", plan.ArgAreaTop)
	}
}

func TestAllocSlotSizedByPointeeType(t *testing.T) {
	p := ir.NewProgram()
	id := p.NewFunc("f", nil, types.Unit())
	fn := p.Func(id)
	entry := fn.NewBlock("%entry")
	fn.AppendBlock(entry)
	arr := fn.NewAlloc(types.Array(types.I32(), 10))
	if err := fn.PushInstruction(entry, arr); err != nil {
		t.Fatal(err)
	}
	ret := fn.NewReturn(ir.Zero)
	if err := fn.PushInstruction(entry, ret); err != nil {
		t.Fatal(err)
	}

	plan := Build(fn)
	if _, ok := plan.Slots[arr]; !ok {
		t.Fatal("expected the array alloc to receive a slot")
	}
	if plan.FrameSize < 40 {
		t.Errorf("expected the frame to cover a 40-byte array, got %d", plan.FrameSize)
	}
}
