package ir

import (
	"testing"

	"sysyc/internal/types"
)

func TestGlobalAllocRecordsInitializer(t *testing.T) {
	p := NewProgram()
	zero := p.NewGlobalInteger(0)
	g := p.NewGlobalAlloc("x", types.I32(), zero)

	if len(p.Globals) != 1 || p.Globals[0] != g {
		t.Fatalf("expected the new GlobalAlloc registered in Program.Globals")
	}
	vd := p.GlobalValue(g)
	if vd.Kind != KindGlobalAlloc || vd.Name != "x" {
		t.Fatalf("unexpected global ValueData: %+v", vd)
	}
	if !vd.Type.IsPointer() || vd.Type.Elem() != types.I32() {
		t.Fatalf("expected *i32 type, got %s", vd.Type)
	}
}

func TestFunctionValuePanicsOnGlobalHandle(t *testing.T) {
	p := NewProgram()
	g := p.NewGlobalInteger(1)
	id := p.NewFunc("f", nil, types.I32())
	fn := p.Func(id)

	defer func() {
		if recover() == nil {
			t.Fatal("expected Function.Value to panic on a global handle")
		}
	}()
	fn.Value(g)
}

func TestPushInstructionUnknownBlockFails(t *testing.T) {
	p := NewProgram()
	id := p.NewFunc("f", nil, types.Unit())
	fn := p.Func(id)
	v := fn.NewInteger(1)
	if err := fn.PushInstruction(ZeroBlock, v); err == nil {
		t.Fatal("expected pushing into an unknown block handle to fail")
	}
}

func TestRemoveEmptyTrailingBlocks(t *testing.T) {
	p := NewProgram()
	id := p.NewFunc("f", nil, types.Unit())
	fn := p.Func(id)

	entry := fn.NewBlock("%entry")
	fn.AppendBlock(entry)
	ret := fn.NewReturn(Zero)
	if err := fn.PushInstruction(entry, ret); err != nil {
		t.Fatal(err)
	}

	dead := fn.NewBlock("%dead")
	fn.AppendBlock(dead)

	fn.RemoveEmptyTrailingBlocks()
	if len(fn.Layout()) != 1 || fn.Layout()[0] != entry {
		t.Fatalf("expected only the non-empty block to survive, got %v", fn.Layout())
	}
}

func TestNewDeclMarksFunctionAsDeclaration(t *testing.T) {
	p := NewProgram()
	p.NewDecl("getint", nil, types.I32())
	id, ok := p.LookupFunc("getint")
	if !ok {
		t.Fatal("expected getint to be registered")
	}
	if !p.Func(id).IsDecl {
		t.Fatal("expected NewDecl to mark the function as a declaration")
	}
}
