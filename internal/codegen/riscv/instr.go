package riscv

import "sysyc/internal/ir"

var binOpAsm = map[ir.BinaryOp]string{
	ir.OpAdd: "add",
	ir.OpSub: "sub",
	ir.OpMul: "mul",
	ir.OpDiv: "div",
	ir.OpMod: "rem",
	ir.OpAnd: "and",
	ir.OpOr:  "or",
}

// genInst emits the assembly for one instruction value, in source layout
// order. Every operand is reloaded from its stackplan slot into a scratch
// register (t0-t3); nothing survives across instructions in a register.
func (g *Generator) genInst(v ir.Value) {
	vd := g.fn.Value(v)
	switch vd.Kind {
	case ir.KindAlloc:
		// Reserves a slot only; no code to emit.

	case ir.KindLoad:
		g.loadAddress("t0", vd.Src)
		g.emit("  lw t1, 0(t0)")
		g.storeResult(v, "t1")

	case ir.KindStore:
		g.genStore(vd)

	case ir.KindGetElemPtr, ir.KindGetPtr:
		g.genGetPtr(v, vd)

	case ir.KindBinary:
		g.genBinary(v, vd)

	case ir.KindBranch:
		g.loadValue("t0", vd.Cond)
		g.emit("  bnez t0, %s", g.blockLabels[vd.TrueBB])
		g.emit("  j %s", g.blockLabels[vd.FalseBB])

	case ir.KindJump:
		g.emit("  j %s", g.blockLabels[vd.Target])

	case ir.KindCall:
		g.genCall(v, vd)

	case ir.KindReturn:
		g.genReturn(vd)
	}
}

func (g *Generator) genStore(vd *ir.ValueData) {
	if !vd.StoreVal.IsGlobal() {
		if sv := g.fn.Value(vd.StoreVal); sv.Kind == ir.KindFuncArgRef {
			g.loadArg("t1", sv.ArgIndex)
			g.loadAddress("t0", vd.StoreDst)
			g.emit("  sw t1, 0(t0)")
			return
		}
	}
	g.loadValue("t1", vd.StoreVal)
	g.loadAddress("t0", vd.StoreDst)
	g.emit("  sw t1, 0(t0)")
}

// genGetPtr computes base + index*elemSize. GetElemPtr (base is an array's
// own address) and GetPtr (base is a pointer value already loaded from a
// parameter) perform the identical arithmetic; they only differ in how the
// base address was obtained, which loadAddress/loadValue already resolve.
func (g *Generator) genGetPtr(v ir.Value, vd *ir.ValueData) {
	elemSize := vd.Type.Elem().Size()
	g.loadAddress("t0", vd.Src)
	g.loadValue("t1", vd.Index)
	if elemSize == 1 {
		g.emit("  add t0, t0, t1")
	} else {
		g.loadImmediate("t2", elemSize)
		g.emit("  mul t1, t1, t2")
		g.emit("  add t0, t0, t1")
	}
	g.storeResult(v, "t0")
}

func (g *Generator) genBinary(v ir.Value, vd *ir.ValueData) {
	g.loadValue("t0", vd.LHS)
	g.loadValue("t1", vd.RHS)
	switch vd.BinOp {
	case ir.OpEq:
		g.emit("  xor t0, t0, t1")
		g.emit("  seqz t0, t0")
	case ir.OpNotEq:
		g.emit("  xor t0, t0, t1")
		g.emit("  snez t0, t0")
	case ir.OpLt:
		g.emit("  slt t0, t0, t1")
	case ir.OpGt:
		g.emit("  slt t0, t1, t0")
	case ir.OpLe:
		g.emit("  slt t0, t1, t0")
		g.emit("  xori t0, t0, 1")
	case ir.OpGe:
		g.emit("  slt t0, t0, t1")
		g.emit("  xori t0, t0, 1")
	default:
		g.emit("  %s t0, t0, t1", binOpAsm[vd.BinOp])
	}
	g.storeResult(v, "t0")
}

var argRegs = []string{"a0", "a1", "a2", "a3", "a4", "a5", "a6", "a7"}

func (g *Generator) genCall(v ir.Value, vd *ir.ValueData) {
	for i, arg := range vd.Args {
		if i < len(argRegs) {
			g.loadValue(argRegs[i], arg)
			continue
		}
		g.loadValue("t0", arg)
		g.emit("  sw t0, %d(sp)", (i-len(argRegs))*4)
	}
	g.emit("  call %s", g.prog.FuncName(vd.Callee))
	if vd.Type != nil && !vd.Type.IsUnit() {
		g.storeResult(v, "a0")
	}
}

func (g *Generator) genReturn(vd *ir.ValueData) {
	if vd.HasRetVal {
		g.loadValue("a0", vd.RetVal)
	}
	g.emitEpilogue()
}

// loadArg reads parameter index from its calling-convention location: a0-a7
// for the first eight, the caller's outgoing-argument stack slots above the
// callee's own frame for the rest.
func (g *Generator) loadArg(reg string, index int) {
	if index < len(argRegs) {
		g.emit("  mv %s, %s", reg, argRegs[index])
		return
	}
	off := g.plan.FrameSize + int32((index-len(argRegs))*4)
	g.loadByOffset(reg, off, "t2")
}

// storeResult writes a freshly computed value to its stack slot, if the
// stackplan gave it one (unit-typed instructions like Store never do).
func (g *Generator) storeResult(v ir.Value, reg string) {
	off, ok := g.plan.Slots[v]
	if !ok {
		return
	}
	g.storeByOffset(reg, off, "t3")
}

// loadValue loads the runtime value v computes into reg.
func (g *Generator) loadValue(reg string, v ir.Value) {
	if v.IsGlobal() {
		vd := g.prog.GlobalValue(v)
		g.loadImmediate(reg, vd.IntVal)
		return
	}
	vd := g.fn.Value(v)
	switch vd.Kind {
	case ir.KindInteger:
		g.loadImmediate(reg, vd.IntVal)
	case ir.KindAlloc:
		g.addressOfSlot(reg, v)
	default:
		off, ok := g.plan.Slots[v]
		if !ok {
			return
		}
		g.loadByOffset(reg, off, reg)
	}
}

// loadAddress computes the address an operand denotes: for an Alloc, the
// address is the slot itself (never stored anywhere); for a GlobalAlloc,
// it's the symbol's address; for everything else (Load/GetElemPtr/GetPtr/
// Call results that happen to be pointer-typed), the address was already
// computed earlier and sits in that value's own slot.
func (g *Generator) loadAddress(reg string, v ir.Value) {
	if v.IsGlobal() {
		vd := g.prog.GlobalValue(v)
		g.emit("  la %s, %s", reg, vd.Name)
		return
	}
	vd := g.fn.Value(v)
	if vd.Kind == ir.KindAlloc {
		g.addressOfSlot(reg, v)
		return
	}
	off, ok := g.plan.Slots[v]
	if !ok {
		return
	}
	g.loadByOffset(reg, off, reg)
}

func (g *Generator) addressOfSlot(reg string, v ir.Value) {
	off := g.plan.Slots[v]
	if off >= -2048 && off <= 2047 {
		g.emit("  addi %s, sp, %d", reg, off)
		return
	}
	g.loadImmediate(reg, off)
	g.emit("  add %s, %s, sp", reg, reg)
}
