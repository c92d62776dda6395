package irgen

import (
	"sysyc/internal/ir"
	"sysyc/internal/parser"
	"sysyc/internal/sema"
	"sysyc/internal/types"
)

// lowerFuncDef lowers one function definition: its signature, the
// uniform alloc+store prologue binding every parameter to a stack slot, its
// body, and a defensive trailing return if control can fall off the end.
func (l *Lowerer) lowerFuncDef(fd *parser.FuncDef) error {
	if _, exists := l.prog.LookupFunc(fd.Name); exists {
		return duplicateFunc(fd.Name)
	}

	paramTypes := make([]*types.Type, len(fd.Params))
	for i, p := range fd.Params {
		t, err := l.paramType(p)
		if err != nil {
			return err
		}
		paramTypes[i] = t
	}
	retType := types.I32()
	if fd.RetType == parser.FuncVoid {
		retType = types.Unit()
	}

	fn := l.prog.NewFunc(fd.Name, paramTypes, retType)
	l.curFunc = fn
	l.openBlock("%entry")

	l.scopes.Enter()
	for i, p := range fd.Params {
		argRef := l.curFn().NewFuncArgRef(i, paramTypes[i])
		slot := l.curFn().NewAlloc(paramTypes[i])
		if err := l.push(slot); err != nil {
			return err
		}
		l.curFn().SetValueName(slot, "@"+p.Name)
		store := l.curFn().NewStore(argRef, slot)
		if err := l.push(store); err != nil {
			return err
		}
		if err := l.scopes.Insert(p.Name, sema.Symbol{Slot: slot, Type: paramTypes[i]}); err != nil {
			return err
		}
	}

	if err := l.lowerBlock(fd.Body); err != nil {
		return err
	}

	if !l.blockTerminated() {
		retVal := ir.Zero
		if fd.RetType != parser.FuncVoid {
			retVal = l.curFn().NewInteger(0)
		}
		ret := l.curFn().NewReturn(retVal)
		if err := l.push(ret); err != nil {
			return err
		}
	}

	l.curFn().RemoveEmptyTrailingBlocks()
	l.scopes.Leave()
	return nil
}
