package irgen

import (
	"sysyc/internal/compileerr"
	"sysyc/internal/ir"
	"sysyc/internal/parser"
	"sysyc/internal/types"
)

var binOps = map[parser.BinaryOp]ir.BinaryOp{
	parser.OpAdd: ir.OpAdd,
	parser.OpSub: ir.OpSub,
	parser.OpMul: ir.OpMul,
	parser.OpDiv: ir.OpDiv,
	parser.OpMod: ir.OpMod,
	parser.OpLt:  ir.OpLt,
	parser.OpGt:  ir.OpGt,
	parser.OpLe:  ir.OpLe,
	parser.OpGe:  ir.OpGe,
	parser.OpEq:  ir.OpEq,
	parser.OpNe:  ir.OpNotEq,
}

// lowerExpr lowers an expression to a single i32 value, synthesizing the
// short-circuit control flow that && and || require.
func (l *Lowerer) lowerExpr(e parser.Exp) (ir.Value, error) {
	switch n := e.(type) {
	case *parser.NumberExp:
		return l.curFn().NewInteger(n.Value), nil

	case *parser.UnaryExp:
		return l.lowerUnary(n)

	case *parser.BinaryExp:
		switch n.Op {
		case parser.OpAnd:
			return l.lowerShortCircuit(n, true)
		case parser.OpOr:
			return l.lowerShortCircuit(n, false)
		default:
			return l.lowerArith(n)
		}

	case *parser.LValExp:
		return l.lowerLValScalar(n)

	case *parser.CallExp:
		return l.lowerCall(n)
	}
	return ir.Zero, compileerr.Unlocated(compileerr.SysError, "unhandled expression kind")
}

func (l *Lowerer) lowerUnary(n *parser.UnaryExp) (ir.Value, error) {
	x, err := l.lowerExpr(n.X)
	if err != nil {
		return ir.Zero, err
	}
	switch n.Op {
	case parser.UnaryPlus:
		return x, nil
	case parser.UnaryNeg:
		zero := l.curFn().NewInteger(0)
		return l.binary(ir.OpSub, zero, x)
	case parser.UnaryNot:
		zero := l.curFn().NewInteger(0)
		return l.binary(ir.OpEq, x, zero)
	}
	return ir.Zero, compileerr.Unlocated(compileerr.SysError, "unknown unary operator")
}

func (l *Lowerer) lowerArith(n *parser.BinaryExp) (ir.Value, error) {
	lhs, err := l.lowerExpr(n.L)
	if err != nil {
		return ir.Zero, err
	}
	rhs, err := l.lowerExpr(n.R)
	if err != nil {
		return ir.Zero, err
	}
	op, ok := binOps[n.Op]
	if !ok {
		return ir.Zero, compileerr.Unlocated(compileerr.SysError, "unknown binary operator")
	}
	return l.binary(op, lhs, rhs)
}

func (l *Lowerer) binary(op ir.BinaryOp, lhs, rhs ir.Value) (ir.Value, error) {
	v := l.curFn().NewBinary(op, lhs, rhs)
	if err := l.push(v); err != nil {
		return ir.Zero, err
	}
	return v, nil
}

// lowerShortCircuit builds the alloc+branch+store+join sequence for && and
// ||. isAnd selects which side short-circuits on falsity vs truth.
func (l *Lowerer) lowerShortCircuit(n *parser.BinaryExp, isAnd bool) (ir.Value, error) {
	lhs, err := l.lowerExpr(n.L)
	if err != nil {
		return ir.Zero, err
	}
	result := l.curFn().NewAlloc(types.I32())
	if err := l.push(result); err != nil {
		return ir.Zero, err
	}
	zero := l.curFn().NewInteger(0)
	cond, err := l.binary(ir.OpNotEq, lhs, zero)
	if err != nil {
		return ir.Zero, err
	}

	rhsBB := l.curFn().NewBlock(l.freshName("sc_rhs"))
	shortBB := l.curFn().NewBlock(l.freshName("sc_short"))
	endBB := l.curFn().NewBlock(l.freshName("sc_end"))

	var trueTarget, falseTarget ir.Block
	if isAnd {
		trueTarget, falseTarget = rhsBB, shortBB
	} else {
		trueTarget, falseTarget = shortBB, rhsBB
	}
	br := l.curFn().NewBranch(cond, trueTarget, falseTarget)
	if err := l.push(br); err != nil {
		return ir.Zero, err
	}

	l.appendBlock(shortBB)
	shortVal := l.curFn().NewInteger(boolToInt32(!isAnd))
	st := l.curFn().NewStore(shortVal, result)
	if err := l.push(st); err != nil {
		return ir.Zero, err
	}
	jmp := l.curFn().NewJump(endBB)
	if err := l.push(jmp); err != nil {
		return ir.Zero, err
	}

	l.appendBlock(rhsBB)
	rhs, err := l.lowerExpr(n.R)
	if err != nil {
		return ir.Zero, err
	}
	rhsBool, err := l.binary(ir.OpNotEq, rhs, l.curFn().NewInteger(0))
	if err != nil {
		return ir.Zero, err
	}
	st2 := l.curFn().NewStore(rhsBool, result)
	if err := l.push(st2); err != nil {
		return ir.Zero, err
	}
	jmp2 := l.curFn().NewJump(endBB)
	if err := l.push(jmp2); err != nil {
		return ir.Zero, err
	}

	l.appendBlock(endBB)
	load := l.curFn().NewLoad(result, types.I32())
	if err := l.push(load); err != nil {
		return ir.Zero, err
	}
	return load, nil
}

func boolToInt32(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

func (l *Lowerer) lowerCall(n *parser.CallExp) (ir.Value, error) {
	callee, ok := l.prog.LookupFunc(n.Name)
	if !ok {
		return ir.Zero, unknownSymbol(n.Name)
	}
	fn := l.prog.Func(callee)
	args := make([]ir.Value, len(n.Args))
	for i, a := range n.Args {
		v, err := l.lowerCallArg(a)
		if err != nil {
			return ir.Zero, err
		}
		args[i] = v
	}
	call := l.curFn().NewCall(callee, args, fn.RetType)
	if err := l.push(call); err != nil {
		return ir.Zero, err
	}
	return call, nil
}

// lowerCallArg lowers one call argument, applying array-to-pointer decay
// when the argument is an LVal with fewer indices than its declared rank.
func (l *Lowerer) lowerCallArg(e parser.Exp) (ir.Value, error) {
	lv, ok := e.(*parser.LValExp)
	if !ok || l.isConstScalar(lv) {
		return l.lowerExpr(e)
	}
	addr, t, pointerValue, err := l.lvalAddr(lv)
	if err != nil {
		return ir.Zero, err
	}
	if t.IsArray() {
		zero := l.curFn().NewInteger(0)
		gep := l.curFn().NewGetElemPtr(addr, zero, types.Pointer(t.Elem()))
		if err := l.push(gep); err != nil {
			return ir.Zero, err
		}
		return gep, nil
	}
	if pointerValue {
		return addr, nil
	}
	load := l.curFn().NewLoad(addr, t)
	if err := l.push(load); err != nil {
		return ir.Zero, err
	}
	return load, nil
}

// isConstScalar reports whether lv names a scalar const, whose reads fold to
// its value rather than loading from a slot.
func (l *Lowerer) isConstScalar(lv *parser.LValExp) bool {
	sym, ok := l.scopes.Lookup(lv.Name)
	return ok && sym.IsConst && len(lv.Indices) == 0 && !sym.Type.IsArray()
}

func (l *Lowerer) lowerLValScalar(lv *parser.LValExp) (ir.Value, error) {
	if l.isConstScalar(lv) {
		sym, _ := l.scopes.Lookup(lv.Name)
		return l.curFn().NewInteger(sym.ConstVal), nil
	}
	addr, t, _, err := l.lvalAddr(lv)
	if err != nil {
		return ir.Zero, err
	}
	if t.IsArray() {
		return ir.Zero, compileerr.Unlocated(compileerr.SysError, "array '"+lv.Name+"' used where a value was expected")
	}
	load := l.curFn().NewLoad(addr, t)
	if err := l.push(load); err != nil {
		return ir.Zero, err
	}
	return load, nil
}

// lvalAddr resolves an LVal to the address produced by applying its given
// indices, returning that address, the type it points to, and whether the
// address itself is a loaded pointer value (a parameter that decayed from
// an array) rather than a genuine stack/global slot. Array parameters store
// a pointer value in their slot; the first index into one steps with
// GetPtr, and every index after that steps with GetElemPtr.
func (l *Lowerer) lvalAddr(lv *parser.LValExp) (ir.Value, *types.Type, bool, error) {
	sym, ok := l.scopes.Lookup(lv.Name)
	if !ok {
		return ir.Zero, nil, false, unknownSymbol(lv.Name)
	}

	var cur ir.Value
	curType := sym.Type
	pointerValue := false

	if sym.Type.IsPointer() {
		load := l.curFn().NewLoad(sym.Slot, sym.Type)
		if err := l.push(load); err != nil {
			return ir.Zero, nil, false, err
		}
		cur = load
		curType = sym.Type.Elem()
		pointerValue = true
	} else {
		cur = sym.Slot
	}

	for _, idxExp := range lv.Indices {
		idxVal, err := l.lowerExpr(idxExp)
		if err != nil {
			return ir.Zero, nil, false, err
		}
		if pointerValue {
			gep := l.curFn().NewGetPtr(cur, idxVal, types.Pointer(curType))
			if err := l.push(gep); err != nil {
				return ir.Zero, nil, false, err
			}
			cur = gep
			pointerValue = false
			continue
		}
		if !curType.IsArray() {
			return ir.Zero, nil, false, compileerr.Unlocated(compileerr.SysError, "too many indices for '"+lv.Name+"'")
		}
		elem := curType.Elem()
		gep := l.curFn().NewGetElemPtr(cur, idxVal, types.Pointer(elem))
		if err := l.push(gep); err != nil {
			return ir.Zero, nil, false, err
		}
		cur = gep
		curType = elem
	}
	return cur, curType, pointerValue, nil
}
