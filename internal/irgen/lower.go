// Package irgen lowers a parsed SysY AST into the KoopaIR representation
// defined by package ir: name resolution, constant folding, array-shape
// analysis, short-circuit control-flow synthesis, and loop-target tracking
// all happen here.
package irgen

import (
	"fmt"

	"sysyc/internal/compileerr"
	"sysyc/internal/ir"
	"sysyc/internal/parser"
	"sysyc/internal/sema"
	"sysyc/internal/types"
)

// Lowerer threads the mutable state of one compilation through AST->IR
// translation: the program being built, the active scope stack, the loop
// target stack, and which function/block is currently receiving
// instructions.
type Lowerer struct {
	prog     *ir.Program
	scopes   *sema.Scopes
	loops    sema.LoopStack
	curFunc  ir.Func
	curBB    ir.Block
	blockSeq int
}

var zeroExp = &parser.NumberExp{Value: 0}

// Lower runs the full AST->IR translation and returns the built program.
func Lower(cu *parser.CompUnit) (*ir.Program, error) {
	l := &Lowerer{
		prog:   ir.NewProgram(),
		scopes: sema.NewScopes(),
	}
	l.registerLibrary()

	for _, item := range cu.Items {
		switch n := item.(type) {
		case *parser.FuncDef:
			if err := l.lowerFuncDef(n); err != nil {
				return nil, err
			}
		case *parser.Decl:
			if err := l.lowerGlobalDecl(n); err != nil {
				return nil, err
			}
		}
	}
	return l.prog, nil
}

// registerLibrary declares the fixed runtime library; these are never
// defined by the compiler, only referenced by Call instructions.
func (l *Lowerer) registerLibrary() {
	i32 := types.I32()
	unit := types.Unit()
	ptr := types.Pointer(i32)

	l.prog.NewDecl("getint", nil, i32)
	l.prog.NewDecl("getch", nil, i32)
	l.prog.NewDecl("getarray", []*types.Type{ptr}, i32)
	l.prog.NewDecl("putint", []*types.Type{i32}, unit)
	l.prog.NewDecl("putch", []*types.Type{i32}, unit)
	l.prog.NewDecl("putarray", []*types.Type{i32, ptr}, unit)
	l.prog.NewDecl("starttime", nil, unit)
	l.prog.NewDecl("stoptime", nil, unit)
}

// curFn is a small convenience accessor used throughout the lowering
// helpers split across this package's other files.
func (l *Lowerer) curFn() *ir.Function { return l.prog.Func(l.curFunc) }

// push appends an instruction value to the current block.
func (l *Lowerer) push(v ir.Value) error {
	return l.curFn().PushInstruction(l.curBB, v)
}

// openBlock creates a fresh block, appends it to the function's layout,
// and makes it current — the "trailing anonymous block after every
// terminator" pattern that keeps lowering free of "is this block already
// closed?" checks.
func (l *Lowerer) openBlock(name string) ir.Block {
	b := l.curFn().NewBlock(name)
	l.appendBlock(b)
	return b
}

// appendBlock attaches an already-created block to the function layout and
// makes it current.
func (l *Lowerer) appendBlock(b ir.Block) {
	l.curFn().AppendBlock(b)
	l.curBB = b
}

// freshName manufactures a unique koopa-style block label.
func (l *Lowerer) freshName(prefix string) string {
	l.blockSeq++
	return fmt.Sprintf("%%%s_%d", prefix, l.blockSeq)
}

func unknownSymbol(name string) error {
	return compileerr.Unlocated(compileerr.UnknownSymbol, "unknown symbol '"+name+"'")
}

func duplicateFunc(name string) error {
	return compileerr.Unlocated(compileerr.DuplicateDecl, "duplicate function '"+name+"'")
}

// blockTerminated reports whether the current block already ends in a
// control-transfer instruction (Return, Jump, or Branch).
func (l *Lowerer) blockTerminated() bool {
	bd := l.curFn().BlockData(l.curBB)
	if len(bd.Insts) == 0 {
		return false
	}
	last := l.curFn().Value(bd.Insts[len(bd.Insts)-1])
	switch last.Kind {
	case ir.KindReturn, ir.KindJump, ir.KindBranch:
		return true
	default:
		return false
	}
}

// afterTerminator opens a fresh block following an instruction that ends
// the current one (break/continue/return). Lowering can keep emitting into
// it without special-casing "is the block already closed"; it is pruned
// later by RemoveEmptyTrailingBlocks if it ends up with no instructions (an
// unreachable block that did receive instructions stays in the layout).
func (l *Lowerer) afterTerminator(prefix string) {
	l.openBlock(l.freshName(prefix))
}
