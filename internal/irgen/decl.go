package irgen

import (
	"sysyc/internal/compileerr"
	"sysyc/internal/ir"
	"sysyc/internal/parser"
	"sysyc/internal/sema"
	"sysyc/internal/types"
)

// lowerGlobalDecl handles one `const`/plain declaration at file scope. Every
// initializer at global scope must itself be a constant expression — there
// is no code to run before main, only static data.
func (l *Lowerer) lowerGlobalDecl(d *parser.Decl) error {
	for _, def := range d.Defs {
		if err := l.lowerGlobalDef(d.IsConst, def); err != nil {
			return err
		}
	}
	return nil
}

func (l *Lowerer) lowerGlobalDef(isConst bool, def parser.Def) error {
	if len(def.Dims) == 0 {
		return l.lowerGlobalScalar(isConst, def)
	}
	return l.lowerGlobalArray(isConst, def)
}

func (l *Lowerer) lowerGlobalScalar(isConst bool, def parser.Def) error {
	var val int32
	if def.Init != nil {
		ev, ok := def.Init.(*parser.ExpInitVal)
		if !ok {
			return unexpectedBrace(def.Name)
		}
		v, err := sema.Eval(ev.Exp, l.scopes)
		if err != nil {
			return err
		}
		val = v
	}
	if isConst {
		return l.scopes.Insert(def.Name, sema.Symbol{IsConst: true, ConstVal: val, Type: types.I32()})
	}
	init := l.prog.NewGlobalInteger(val)
	slot := l.prog.NewGlobalAlloc(def.Name, types.I32(), init)
	return l.scopes.Insert(def.Name, sema.Symbol{Slot: slot, Type: types.I32()})
}

func (l *Lowerer) lowerGlobalArray(isConst bool, def parser.Def) error {
	dims, err := l.evalDims(def.Dims)
	if err != nil {
		return err
	}
	elemType := arrayType(dims)

	var init ir.Value
	if def.Init == nil {
		init = l.prog.NewGlobalZeroInit(elemType)
	} else {
		flat, err := flattenInit(def.Init, dims)
		if err != nil {
			return err
		}
		vals := make([]int32, len(flat))
		allZero := true
		for i, e := range flat {
			v, err := sema.Eval(e, l.scopes)
			if err != nil {
				return err
			}
			vals[i] = v
			if v != 0 {
				allZero = false
			}
		}
		if allZero {
			init = l.prog.NewGlobalZeroInit(elemType)
		} else {
			init = l.buildGlobalAggregate(vals, dims)
		}
	}

	slot := l.prog.NewGlobalAlloc(def.Name, elemType, init)
	return l.scopes.Insert(def.Name, sema.Symbol{IsConst: isConst, Slot: slot, Type: elemType})
}

func (l *Lowerer) buildGlobalAggregate(vals []int32, dims []int) ir.Value {
	if len(dims) == 1 {
		elems := make([]ir.Value, dims[0])
		for i := range elems {
			elems[i] = l.prog.NewGlobalInteger(vals[i])
		}
		return l.prog.NewGlobalAggregate(arrayType(dims), elems)
	}
	sub := dims[1:]
	chunk := product(sub)
	elems := make([]ir.Value, dims[0])
	for i := range elems {
		elems[i] = l.buildGlobalAggregate(vals[i*chunk:(i+1)*chunk], sub)
	}
	return l.prog.NewGlobalAggregate(arrayType(dims), elems)
}

// lowerLocalDecl handles one declaration inside a function body.
func (l *Lowerer) lowerLocalDecl(d *parser.Decl) error {
	for _, def := range d.Defs {
		if err := l.lowerLocalDef(d.IsConst, def); err != nil {
			return err
		}
	}
	return nil
}

func (l *Lowerer) lowerLocalDef(isConst bool, def parser.Def) error {
	if len(def.Dims) == 0 {
		return l.lowerLocalScalar(isConst, def)
	}
	return l.lowerLocalArray(isConst, def)
}

func (l *Lowerer) lowerLocalScalar(isConst bool, def parser.Def) error {
	if isConst {
		ev, ok := def.Init.(*parser.ExpInitVal)
		if !ok {
			return unexpectedBrace(def.Name)
		}
		v, err := sema.Eval(ev.Exp, l.scopes)
		if err != nil {
			return err
		}
		return l.scopes.Insert(def.Name, sema.Symbol{IsConst: true, ConstVal: v, Type: types.I32()})
	}

	slot := l.curFn().NewAlloc(types.I32())
	if err := l.push(slot); err != nil {
		return err
	}
	if def.Init != nil {
		ev, ok := def.Init.(*parser.ExpInitVal)
		if !ok {
			return unexpectedBrace(def.Name)
		}
		val, err := l.lowerExpr(ev.Exp)
		if err != nil {
			return err
		}
		store := l.curFn().NewStore(val, slot)
		if err := l.push(store); err != nil {
			return err
		}
	}
	return l.scopes.Insert(def.Name, sema.Symbol{Slot: slot, Type: types.I32()})
}

func (l *Lowerer) lowerLocalArray(isConst bool, def parser.Def) error {
	dims, err := l.evalDims(def.Dims)
	if err != nil {
		return err
	}
	elemType := arrayType(dims)
	slot := l.curFn().NewAlloc(elemType)
	if err := l.push(slot); err != nil {
		return err
	}
	if def.Init != nil {
		flat, err := flattenInit(def.Init, dims)
		if err != nil {
			return err
		}
		if err := l.storeArrayInit(slot, dims, flat); err != nil {
			return err
		}
	}
	return l.scopes.Insert(def.Name, sema.Symbol{IsConst: isConst, Slot: slot, Type: elemType})
}

// storeArrayInit stores each element of a flattened initializer into the
// array allocated at slot, walking one GetElemPtr chain per element.
func (l *Lowerer) storeArrayInit(slot ir.Value, dims []int, flat []parser.Exp) error {
	for i, e := range flat {
		coords := decomposeIndex(i, dims)
		ptr, err := l.gepChain(slot, dims, coords)
		if err != nil {
			return err
		}
		val, err := l.lowerExpr(e)
		if err != nil {
			return err
		}
		store := l.curFn().NewStore(val, ptr)
		if err := l.push(store); err != nil {
			return err
		}
	}
	return nil
}

// gepChain walks a chain of GetElemPtr instructions from a pointer-to-array
// slot down to the scalar element addressed by coords.
func (l *Lowerer) gepChain(base ir.Value, dims []int, coords []int) (ir.Value, error) {
	cur := base
	remaining := dims
	for _, c := range coords {
		var elemType *types.Type
		if len(remaining) == 1 {
			elemType = types.I32()
		} else {
			elemType = arrayType(remaining[1:])
		}
		idx := l.curFn().NewInteger(int32(c))
		gep := l.curFn().NewGetElemPtr(cur, idx, types.Pointer(elemType))
		if err := l.push(gep); err != nil {
			return ir.Zero, err
		}
		cur = gep
		remaining = remaining[1:]
	}
	return cur, nil
}

func decomposeIndex(i int, dims []int) []int {
	coords := make([]int, len(dims))
	rem := i
	for d := range dims {
		size := product(dims[d+1:])
		coords[d] = rem / size
		rem = rem % size
	}
	return coords
}

func unexpectedBrace(name string) error {
	return compileerr.Unlocated(compileerr.SysError, "braced initializer used for scalar '"+name+"'")
}
