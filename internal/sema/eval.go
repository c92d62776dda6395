package sema

import (
	"sysyc/internal/compileerr"
	"sysyc/internal/parser"
)

// Eval folds a constant-expression AST to an i32 over the current scope
// table. It is a total function on expressions built from literals and
// Const symbols; referencing anything else (a Var symbol, a call, an
// indexed lookup) fails with VariableEvalAtCompileTime.
//
// Logical && and || use C-style 0/1 coercion but are evaluated eagerly —
// both sides always run. Short-circuiting is a lowering-time control-flow
// concern (see irgen), not a property of constant folding.
func Eval(e parser.Exp, scopes *Scopes) (int32, error) {
	switch n := e.(type) {
	case *parser.NumberExp:
		return n.Value, nil

	case *parser.UnaryExp:
		x, err := Eval(n.X, scopes)
		if err != nil {
			return 0, err
		}
		switch n.Op {
		case parser.UnaryPlus:
			return x, nil
		case parser.UnaryNeg:
			return -x, nil
		case parser.UnaryNot:
			return boolToInt(x == 0), nil
		}
		return 0, compileerr.Unlocated(compileerr.SysError, "unknown unary operator")

	case *parser.BinaryExp:
		l, err := Eval(n.L, scopes)
		if err != nil {
			return 0, err
		}
		r, err := Eval(n.R, scopes)
		if err != nil {
			return 0, err
		}
		return evalBinary(n.Op, l, r)

	case *parser.LValExp:
		if len(n.Indices) != 0 {
			return 0, compileerr.Unlocated(compileerr.VariableEvalAtCompileTime, "cannot index '"+n.Name+"' in a constant expression")
		}
		sym, ok := scopes.Lookup(n.Name)
		if !ok {
			return 0, compileerr.Unlocated(compileerr.UnknownSymbol, "unknown symbol '"+n.Name+"'")
		}
		if !sym.IsConst {
			return 0, compileerr.Unlocated(compileerr.VariableEvalAtCompileTime, "'"+n.Name+"' is not a compile-time constant")
		}
		return sym.ConstVal, nil

	case *parser.CallExp:
		return 0, compileerr.Unlocated(compileerr.VariableEvalAtCompileTime, "function call is not a constant expression")

	default:
		return 0, compileerr.Unlocated(compileerr.SysError, "unhandled expression kind in constant evaluator")
	}
}

func evalBinary(op parser.BinaryOp, l, r int32) (int32, error) {
	switch op {
	case parser.OpAdd:
		return l + r, nil
	case parser.OpSub:
		return l - r, nil
	case parser.OpMul:
		return l * r, nil
	case parser.OpDiv:
		if r == 0 {
			return 0, compileerr.Unlocated(compileerr.SysError, "division by zero in constant expression")
		}
		return l / r, nil
	case parser.OpMod:
		if r == 0 {
			return 0, compileerr.Unlocated(compileerr.SysError, "modulo by zero in constant expression")
		}
		// True remainder (RISC-V rem / Go %), matching C truncated-division
		// semantics — not a second division.
		return l % r, nil
	case parser.OpLt:
		return boolToInt(l < r), nil
	case parser.OpGt:
		return boolToInt(l > r), nil
	case parser.OpLe:
		return boolToInt(l <= r), nil
	case parser.OpGe:
		return boolToInt(l >= r), nil
	case parser.OpEq:
		return boolToInt(l == r), nil
	case parser.OpNe:
		return boolToInt(l != r), nil
	case parser.OpAnd:
		return boolToInt(l != 0 && r != 0), nil
	case parser.OpOr:
		return boolToInt(l != 0 || r != 0), nil
	default:
		return 0, compileerr.Unlocated(compileerr.SysError, "unknown binary operator")
	}
}

func boolToInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
