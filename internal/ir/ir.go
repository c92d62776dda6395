// Package ir implements the KoopaIR-style intermediate representation:
// an arena of typed values referenced by opaque handles, organized into
// basic blocks and functions hanging off one Program.
package ir

import (
	"sysyc/internal/compileerr"
	"sysyc/internal/types"
)

// Kind enumerates the closed set of IR value variants.
type Kind int

const (
	KindInteger Kind = iota
	KindZeroInit
	KindAggregate
	KindFuncArgRef
	KindAlloc
	KindGlobalAlloc
	KindLoad
	KindStore
	KindGetElemPtr
	KindGetPtr
	KindBinary
	KindBranch
	KindJump
	KindCall
	KindReturn
)

type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpEq
	OpNotEq
	OpLt
	OpGt
	OpLe
	OpGe
	OpAnd
	OpOr
)

// Value is an opaque handle into either a function's local arena or the
// program's global arena. Handles are stable across further inserts into
// the same arena.
type Value struct {
	idx    int32
	global bool
}

// Zero is the distinguished "no value" handle, used for nilable operands
// (e.g. a value-less Return).
var Zero = Value{idx: -1}

func (v Value) Valid() bool  { return v.idx >= 0 }
func (v Value) IsGlobal() bool { return v.global }

// Block is an opaque handle into one function's block arena.
type Block struct{ idx int32 }

// ZeroBlock is the distinguished "no block" handle.
var ZeroBlock = Block{idx: -1}

func (b Block) Valid() bool { return b.idx >= 0 }

// Func is an opaque handle into the program's function table.
type Func struct{ idx int32 }

// ValueData is the per-value record: its kind, type, optional symbolic
// name, and kind-specific operands. Using one struct for every kind (a
// "wide" record) is simpler in Go than a closed sum type and keeps the
// arena a flat slice.
type ValueData struct {
	Kind Kind
	Type *types.Type
	Name string

	IntVal   int32   // Integer
	Elems    []Value // Aggregate
	ArgIndex int     // FuncArgRef

	Init Value // GlobalAlloc

	Src   Value // Load, GetElemPtr, GetPtr
	Index Value // GetElemPtr, GetPtr

	StoreVal Value // Store
	StoreDst Value // Store

	BinOp BinaryOp // Binary
	LHS   Value
	RHS   Value

	Cond    Value // Branch
	TrueBB  Block
	FalseBB Block

	Target Block // Jump

	Callee Func // Call
	Args   []Value

	RetVal    Value // Return
	HasRetVal bool
}

// BlockData is one basic block: a symbolic name and the ordered list of
// instruction values it contains.
type BlockData struct {
	Name  string
	Insts []Value
}

// Function is one function's data-flow graph (local value arena) plus its
// block layout. IsDecl functions are library declarations with no body.
type Function struct {
	Name       string
	ParamTypes []*types.Type
	RetType    *types.Type
	IsDecl     bool

	arena  []ValueData
	blocks []BlockData
	layout []Block
}

// Program owns the global value arena and the ordered function table.
type Program struct {
	Globals []Value
	global  []ValueData

	funcs    []Function
	funcByID map[string]Func
}

func NewProgram() *Program {
	return &Program{funcByID: map[string]Func{}}
}

// --- Function lookup/registration ---

func (p *Program) NewFunc(name string, params []*types.Type, ret *types.Type) Func {
	id := Func{idx: int32(len(p.funcs))}
	p.funcs = append(p.funcs, Function{Name: name, ParamTypes: params, RetType: ret})
	p.funcByID[name] = id
	return id
}

// NewDecl registers an imported library function: declared, never defined.
func (p *Program) NewDecl(name string, params []*types.Type, ret *types.Type) Func {
	id := p.NewFunc(name, params, ret)
	p.Func(id).IsDecl = true
	return id
}

func (p *Program) LookupFunc(name string) (Func, bool) {
	id, ok := p.funcByID[name]
	return id, ok
}

func (p *Program) FuncName(id Func) string { return p.funcs[id.idx].Name }

func (p *Program) Func(id Func) *Function { return &p.funcs[id.idx] }

func (p *Program) Funcs() []Func {
	ids := make([]Func, len(p.funcs))
	for i := range p.funcs {
		ids[i] = Func{idx: int32(i)}
	}
	return ids
}

// --- Global value access ---

func (p *Program) GlobalValue(v Value) *ValueData { return &p.global[v.idx] }

func (p *Program) newGlobal(vd ValueData) Value {
	id := Value{idx: int32(len(p.global)), global: true}
	p.global = append(p.global, vd)
	return id
}

// --- Function-local value/block access ---

func (f *Function) Value(v Value) *ValueData {
	if v.global {
		panic("ir: global value handle dereferenced against a function arena")
	}
	return &f.arena[v.idx]
}

func (f *Function) newLocal(vd ValueData) Value {
	id := Value{idx: int32(len(f.arena))}
	f.arena = append(f.arena, vd)
	return id
}

func (f *Function) BlockData(b Block) *BlockData { return &f.blocks[b.idx] }

func (f *Function) Layout() []Block { return f.layout }

// NewBlock creates a block in the function's arena without attaching it to
// the layout; callers append it with AppendBlock once it is ready to
// receive instructions in source order.
func (f *Function) NewBlock(name string) Block {
	id := Block{idx: int32(len(f.blocks))}
	f.blocks = append(f.blocks, BlockData{Name: name})
	return id
}

func (f *Function) AppendBlock(b Block) {
	f.layout = append(f.layout, b)
}

// PushInstruction appends an instruction value to the end of a block's
// instruction list. Failure (an unknown block) surfaces as the taxonomy's
// internal-consistency error rather than a panic.
func (f *Function) PushInstruction(b Block, v Value) error {
	if b.idx < 0 || int(b.idx) >= len(f.blocks) {
		return compileerr.Unlocated(compileerr.PushBlockFailed, "push instruction into unknown block")
	}
	bd := &f.blocks[b.idx]
	bd.Insts = append(bd.Insts, v)
	return nil
}

// SetValueName attaches a symbolic name to a local value (used for
// parameters and named locals in the textual IR printer).
func (f *Function) SetValueName(v Value, name string) {
	f.Value(v).Name = name
}

// RemoveEmptyTrailingBlocks drops blocks that ended up with no
// instructions — the residue of every statement that opens a fresh block
// after a terminator. Must run after the whole function body is lowered.
func (f *Function) RemoveEmptyTrailingBlocks() {
	kept := f.layout[:0]
	for _, b := range f.layout {
		if len(f.blocks[b.idx].Insts) > 0 {
			kept = append(kept, b)
		}
	}
	f.layout = kept
}
