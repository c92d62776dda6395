// Package riscv lowers a koopa-style ir.Program to 32-bit RISC-V assembly
// text (RV32IM), using a scratch-register-only register allocation: every
// SSA value with a stack footprint lives in its stackplan slot and is
// reloaded into t0-t3 on each use, rather than carrying live values in
// registers across instructions.
package riscv

import (
	"bytes"
	"fmt"

	"sysyc/internal/codegen/stackplan"
	"sysyc/internal/ir"
)

// Generator emits assembly text for one ir.Program.
type Generator struct {
	prog *ir.Program
	out  *bytes.Buffer

	fn          *ir.Function
	fnName      string
	plan        *stackplan.Plan
	blockLabels map[ir.Block]string
	labelSeq    int
}

// Generate lowers prog to RISC-V assembly text.
func Generate(prog *ir.Program) (string, error) {
	g := &Generator{prog: prog, out: &bytes.Buffer{}}
	g.emitData()
	g.emitText()
	return g.out.String(), nil
}

func (g *Generator) emit(format string, args ...any) {
	fmt.Fprintf(g.out, format+"\n", args...)
}

func (g *Generator) label(name string) {
	fmt.Fprintf(g.out, "%s:\n", name)
}

// emitData writes the .data section: one GlobalAlloc per global variable,
// holding its Integer/ZeroInit/Aggregate initializer.
func (g *Generator) emitData() {
	if len(g.prog.Globals) == 0 {
		return
	}
	g.emit("  .data")
	for _, v := range g.prog.Globals {
		vd := g.prog.GlobalValue(v)
		g.emit("  .globl %s", vd.Name)
		g.label(vd.Name)
		g.emitInit(vd.Init)
	}
	g.emit("")
}

func (g *Generator) emitInit(v ir.Value) {
	vd := g.prog.GlobalValue(v)
	switch vd.Kind {
	case ir.KindInteger:
		g.emit("  .word %d", vd.IntVal)
	case ir.KindZeroInit:
		g.emit("  .zero %d", vd.Type.Size())
	case ir.KindAggregate:
		for _, e := range vd.Elems {
			g.emitInit(e)
		}
	}
}

// emitText writes the .text section: one label plus prologue/body/epilogue
// per defined function. Declarations (library functions) emit nothing —
// they are resolved by the linker against the runtime support object.
func (g *Generator) emitText() {
	g.emit("  .text")
	for _, id := range g.prog.Funcs() {
		fn := g.prog.Func(id)
		if fn.IsDecl {
			continue
		}
		g.genFunction(fn)
	}
}

func (g *Generator) genFunction(fn *ir.Function) {
	g.fn = fn
	g.fnName = fn.Name
	g.plan = stackplan.Build(fn)
	g.blockLabels = map[ir.Block]string{}
	for _, b := range fn.Layout() {
		g.labelSeq++
		g.blockLabels[b] = fmt.Sprintf(".L%s_%d", fn.Name, g.labelSeq)
	}

	g.emit("  .globl %s", fn.Name)
	g.label(fn.Name)
	g.emitPrologue()

	for i, b := range fn.Layout() {
		if i > 0 {
			g.label(g.blockLabels[b])
		}
		bd := fn.BlockData(b)
		for _, v := range bd.Insts {
			g.genInst(v)
		}
	}
	g.emit("")
}

func (g *Generator) emitPrologue() {
	if g.plan.FrameSize == 0 {
		return
	}
	g.addToSP(-g.plan.FrameSize)
	if !g.plan.IsLeaf {
		g.storeByOffset("ra", g.plan.RAOffset, "t0")
	}
}

func (g *Generator) emitEpilogue() {
	if !g.plan.IsLeaf {
		g.loadByOffset("ra", g.plan.RAOffset, "t0")
	}
	if g.plan.FrameSize != 0 {
		g.addToSP(g.plan.FrameSize)
	}
	g.emit("  ret")
}

// addToSP adjusts sp by delta, falling back to a scratch-register add for
// offsets outside the 12-bit immediate range addi accepts.
func (g *Generator) addToSP(delta int32) {
	if delta >= -2048 && delta <= 2047 {
		g.emit("  addi sp, sp, %d", delta)
		return
	}
	g.loadImmediate("t0", delta)
	g.emit("  add sp, sp, t0")
}

// storeByOffset stores reg to offset(sp), using scratch as an address
// scratch register when the offset doesn't fit a 12-bit immediate.
func (g *Generator) storeByOffset(reg string, offset int32, scratch string) {
	if offset >= -2048 && offset <= 2047 {
		g.emit("  sw %s, %d(sp)", reg, offset)
		return
	}
	g.loadImmediate(scratch, offset)
	g.emit("  add %s, %s, sp", scratch, scratch)
	g.emit("  sw %s, 0(%s)", reg, scratch)
}

func (g *Generator) loadByOffset(reg string, offset int32, scratch string) {
	if offset >= -2048 && offset <= 2047 {
		g.emit("  lw %s, %d(sp)", reg, offset)
		return
	}
	g.loadImmediate(scratch, offset)
	g.emit("  add %s, %s, sp", scratch, scratch)
	g.emit("  lw %s, 0(%s)", reg, scratch)
}

// loadImmediate materializes a constant in reg with the li pseudo-instruction,
// which the assembler expands to lui+addi when the value needs it.
func (g *Generator) loadImmediate(reg string, v int32) {
	g.emit("  li %s, %d", reg, v)
}
