// Package stackplan computes, for each function, the stack frame layout
// that the riscv code generator emits prologues/epilogues and load/store
// offsets from: which values get a stack slot, how large the outgoing
// argument area needs to be, and whether a return-address slot is needed.
package stackplan

import (
	"sysyc/internal/ir"
)

// Plan is one function's frame layout.
type Plan struct {
	IsLeaf     bool
	FrameSize  int32 // 16-byte aligned total frame size
	RAOffset   int32 // offset of the saved ra slot; only meaningful if !IsLeaf
	ArgAreaTop int32 // size of the outgoing-argument area at the frame bottom (args 9+ land below it, slots start here)
	Slots      map[ir.Value]int32
}

const wordSize = int32(4)
const maxRegArgs = 8

// Build walks a function's instructions in layout order, assigning each
// value that needs a stack slot an offset, then rounds the frame to 16
// bytes and reserves a ra slot for non-leaf functions.
func Build(fn *ir.Function) *Plan {
	p := &Plan{Slots: map[ir.Value]int32{}}

	var maxOutgoing int32
	isLeaf := true
	var offset int32

	for _, b := range fn.Layout() {
		bd := fn.BlockData(b)
		for _, v := range bd.Insts {
			vd := fn.Value(v)
			if vd.Kind == ir.KindCall {
				isLeaf = false
				if n := len(vd.Args); n > maxRegArgs {
					need := int32(n-maxRegArgs) * wordSize
					if need > maxOutgoing {
						maxOutgoing = need
					}
				}
			}
			size := slotSize(vd)
			if size == 0 {
				continue
			}
			p.Slots[v] = offset
			offset += size
		}
	}

	p.IsLeaf = isLeaf
	p.ArgAreaTop = 0
	frame := maxOutgoing + offset
	if !isLeaf {
		p.RAOffset = frame
		frame += wordSize
	}
	p.FrameSize = align16(frame)
	// Every stack-slot offset is measured from the bottom of the outgoing
	// argument area, so shift them up past it.
	for v, off := range p.Slots {
		p.Slots[v] = off + maxOutgoing
	}
	p.ArgAreaTop = maxOutgoing
	return p
}

// slotSize returns the stack footprint of a value, or 0 if it never
// occupies a slot (unit-typed instructions, and values that are referenced
// inline rather than materialized — Integer, FuncArgRef).
func slotSize(vd *ir.ValueData) int32 {
	switch vd.Kind {
	case ir.KindAlloc:
		return vd.Type.Elem().Size()
	case ir.KindInteger, ir.KindFuncArgRef, ir.KindZeroInit, ir.KindAggregate:
		return 0
	case ir.KindStore, ir.KindJump, ir.KindBranch, ir.KindReturn:
		return 0
	default:
		if vd.Type == nil || vd.Type.IsUnit() {
			return 0
		}
		return wordSize
	}
}

func align16(n int32) int32 {
	if n%16 == 0 {
		return n
	}
	return n + (16 - n%16)
}
