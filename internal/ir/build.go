package ir

import "sysyc/internal/types"

// Global-scope constructors. These live in the program's shared arena and
// back GlobalAlloc initializers (Integer/ZeroInit/Aggregate) as well as the
// GlobalAlloc itself.

func (p *Program) NewGlobalInteger(v int32) Value {
	return p.newGlobal(ValueData{Kind: KindInteger, Type: types.I32(), IntVal: v})
}

func (p *Program) NewGlobalZeroInit(t *types.Type) Value {
	return p.newGlobal(ValueData{Kind: KindZeroInit, Type: t})
}

func (p *Program) NewGlobalAggregate(t *types.Type, elems []Value) Value {
	return p.newGlobal(ValueData{Kind: KindAggregate, Type: t, Elems: elems})
}

// NewGlobalAlloc declares a global variable with the given initializer
// (Integer, ZeroInit, or Aggregate) and registers it on the program.
func (p *Program) NewGlobalAlloc(name string, pointee *types.Type, init Value) Value {
	v := p.newGlobal(ValueData{Kind: KindGlobalAlloc, Type: types.Pointer(pointee), Name: name, Init: init})
	p.Globals = append(p.Globals, v)
	return v
}

// Function-local constructors.

func (f *Function) NewInteger(v int32) Value {
	return f.newLocal(ValueData{Kind: KindInteger, Type: types.I32(), IntVal: v})
}

func (f *Function) NewFuncArgRef(index int, t *types.Type) Value {
	return f.newLocal(ValueData{Kind: KindFuncArgRef, Type: t, ArgIndex: index})
}

func (f *Function) NewAlloc(pointee *types.Type) Value {
	return f.newLocal(ValueData{Kind: KindAlloc, Type: types.Pointer(pointee)})
}

func (f *Function) NewLoad(src Value, resultType *types.Type) Value {
	return f.newLocal(ValueData{Kind: KindLoad, Type: resultType, Src: src})
}

func (f *Function) NewStore(val, dst Value) Value {
	return f.newLocal(ValueData{Kind: KindStore, Type: types.Unit(), StoreVal: val, StoreDst: dst})
}

// NewGetElemPtr steps by one element of the array type pointed to by src;
// the result type has decayed one array dimension.
func (f *Function) NewGetElemPtr(src, index Value, resultType *types.Type) Value {
	return f.newLocal(ValueData{Kind: KindGetElemPtr, Type: resultType, Src: src, Index: index})
}

// NewGetPtr steps by the size of the scalar/array src already points to;
// src's pointee type is unchanged by the step.
func (f *Function) NewGetPtr(src, index Value, resultType *types.Type) Value {
	return f.newLocal(ValueData{Kind: KindGetPtr, Type: resultType, Src: src, Index: index})
}

func (f *Function) NewBinary(op BinaryOp, lhs, rhs Value) Value {
	return f.newLocal(ValueData{Kind: KindBinary, Type: types.I32(), BinOp: op, LHS: lhs, RHS: rhs})
}

func (f *Function) NewBranch(cond Value, trueBB, falseBB Block) Value {
	return f.newLocal(ValueData{Kind: KindBranch, Type: types.Unit(), Cond: cond, TrueBB: trueBB, FalseBB: falseBB})
}

func (f *Function) NewJump(target Block) Value {
	return f.newLocal(ValueData{Kind: KindJump, Type: types.Unit(), Target: target})
}

func (f *Function) NewCall(callee Func, args []Value, resultType *types.Type) Value {
	return f.newLocal(ValueData{Kind: KindCall, Type: resultType, Callee: callee, Args: args})
}

func (f *Function) NewReturn(val Value) Value {
	if val == Zero {
		return f.newLocal(ValueData{Kind: KindReturn, Type: types.Unit()})
	}
	return f.newLocal(ValueData{Kind: KindReturn, Type: types.Unit(), RetVal: val, HasRetVal: true})
}
