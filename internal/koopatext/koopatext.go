// Package koopatext renders an ir.Program back to koopa's textual IR
// format, the output the CLI's -koopa mode emits.
package koopatext

import (
	"fmt"
	"strings"

	"sysyc/internal/ir"
	"sysyc/internal/types"
)

// Print renders the whole program: global declarations first, then every
// function (declarations as a bare `decl`, definitions with their full
// block layout).
func Print(prog *ir.Program) string {
	var sb strings.Builder
	for _, g := range prog.Globals {
		printGlobal(&sb, prog, g)
	}
	if len(prog.Globals) > 0 {
		sb.WriteString("\n")
	}
	for _, id := range prog.Funcs() {
		fn := prog.Func(id)
		if fn.IsDecl {
			printDecl(&sb, fn)
			continue
		}
		p := &funcPrinter{sb: &sb, prog: prog, fn: fn, names: map[ir.Value]string{}, next: len(fn.ParamTypes)}
		p.print()
	}
	return sb.String()
}

func printDecl(sb *strings.Builder, fn *ir.Function) {
	params := make([]string, len(fn.ParamTypes))
	for i, t := range fn.ParamTypes {
		params[i] = t.String()
	}
	ret := ""
	if !fn.RetType.IsUnit() {
		ret = ": " + fn.RetType.String()
	}
	fmt.Fprintf(sb, "decl @%s(%s)%s\n", fn.Name, strings.Join(params, ", "), ret)
}

func printGlobal(sb *strings.Builder, prog *ir.Program, v ir.Value) {
	vd := prog.GlobalValue(v)
	fmt.Fprintf(sb, "global @%s = alloc %s, %s\n", vd.Name, vd.Type.Elem().String(), globalInit(prog, vd.Init))
}

func globalInit(prog *ir.Program, v ir.Value) string {
	vd := prog.GlobalValue(v)
	switch vd.Kind {
	case ir.KindInteger:
		return fmt.Sprintf("%d", vd.IntVal)
	case ir.KindZeroInit:
		return "zeroinit"
	case ir.KindAggregate:
		parts := make([]string, len(vd.Elems))
		for i, e := range vd.Elems {
			parts[i] = globalInit(prog, e)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return "?"
	}
}

// funcPrinter holds the per-function printer-local value naming state:
// every instruction that produces a value gets a label the first time it
// is printed — its symbolic IR name if it has one (parameter slots),
// otherwise %N numbered after the parameters' own %0..%k-1 — so
// cross-references stay stable within one function.
type funcPrinter struct {
	sb    *strings.Builder
	prog  *ir.Program
	fn    *ir.Function
	names map[ir.Value]string
	next  int
}

func (p *funcPrinter) print() {
	params := make([]string, len(p.fn.ParamTypes))
	for i, t := range p.fn.ParamTypes {
		params[i] = fmt.Sprintf("%%%d: %s", i, t.String())
	}
	ret := ""
	if !p.fn.RetType.IsUnit() {
		ret = ": " + p.fn.RetType.String()
	}
	fmt.Fprintf(p.sb, "fun @%s(%s)%s {\n", p.fn.Name, strings.Join(params, ", "), ret)
	for i, b := range p.fn.Layout() {
		bd := p.fn.BlockData(b)
		label := strings.TrimPrefix(bd.Name, "%")
		if i == 0 {
			fmt.Fprintf(p.sb, "%%%s:\n", label)
		} else {
			fmt.Fprintf(p.sb, "\n%%%s:\n", label)
		}
		for _, inst := range bd.Insts {
			p.printInst(inst)
		}
	}
	p.sb.WriteString("}\n\n")
}

func (p *funcPrinter) name(v ir.Value) string {
	if n, ok := p.names[v]; ok {
		return n
	}
	n := p.fn.Value(v).Name
	if n == "" {
		n = fmt.Sprintf("%%%d", p.next)
		p.next++
	}
	p.names[v] = n
	return n
}

func (p *funcPrinter) operand(v ir.Value) string {
	if v.IsGlobal() {
		return "@" + p.prog.GlobalValue(v).Name
	}
	vd := p.fn.Value(v)
	switch vd.Kind {
	case ir.KindInteger:
		return fmt.Sprintf("%d", vd.IntVal)
	case ir.KindFuncArgRef:
		return fmt.Sprintf("%%%d", vd.ArgIndex)
	default:
		return p.name(v)
	}
}

func (p *funcPrinter) printInst(v ir.Value) {
	vd := p.fn.Value(v)
	switch vd.Kind {
	case ir.KindAlloc:
		fmt.Fprintf(p.sb, "  %s = alloc %s\n", p.name(v), vd.Type.Elem().String())
	case ir.KindLoad:
		fmt.Fprintf(p.sb, "  %s = load %s\n", p.name(v), p.operand(vd.Src))
	case ir.KindStore:
		fmt.Fprintf(p.sb, "  store %s, %s\n", p.operand(vd.StoreVal), p.operand(vd.StoreDst))
	case ir.KindGetElemPtr:
		fmt.Fprintf(p.sb, "  %s = getelemptr %s, %s\n", p.name(v), p.operand(vd.Src), p.operand(vd.Index))
	case ir.KindGetPtr:
		fmt.Fprintf(p.sb, "  %s = getptr %s, %s\n", p.name(v), p.operand(vd.Src), p.operand(vd.Index))
	case ir.KindBinary:
		fmt.Fprintf(p.sb, "  %s = %s %s, %s\n", p.name(v), binOpName(vd.BinOp), p.operand(vd.LHS), p.operand(vd.RHS))
	case ir.KindBranch:
		fmt.Fprintf(p.sb, "  br %s, %%%s, %%%s\n", p.operand(vd.Cond), blockLabel(p.fn, vd.TrueBB), blockLabel(p.fn, vd.FalseBB))
	case ir.KindJump:
		fmt.Fprintf(p.sb, "  jump %%%s\n", blockLabel(p.fn, vd.Target))
	case ir.KindCall:
		args := make([]string, len(vd.Args))
		for i, a := range vd.Args {
			args[i] = p.operand(a)
		}
		callee := p.prog.FuncName(vd.Callee)
		if vd.Type != nil && !vd.Type.IsUnit() {
			fmt.Fprintf(p.sb, "  %s = call @%s(%s)\n", p.name(v), callee, strings.Join(args, ", "))
		} else {
			fmt.Fprintf(p.sb, "  call @%s(%s)\n", callee, strings.Join(args, ", "))
		}
	case ir.KindReturn:
		if vd.HasRetVal {
			fmt.Fprintf(p.sb, "  ret %s\n", p.operand(vd.RetVal))
		} else {
			p.sb.WriteString("  ret\n")
		}
	}
}

func blockLabel(fn *ir.Function, b ir.Block) string {
	return strings.TrimPrefix(fn.BlockData(b).Name, "%")
}

func binOpName(op ir.BinaryOp) string {
	switch op {
	case ir.OpAdd:
		return "add"
	case ir.OpSub:
		return "sub"
	case ir.OpMul:
		return "mul"
	case ir.OpDiv:
		return "div"
	case ir.OpMod:
		return "mod"
	case ir.OpEq:
		return "eq"
	case ir.OpNotEq:
		return "ne"
	case ir.OpLt:
		return "lt"
	case ir.OpGt:
		return "gt"
	case ir.OpLe:
		return "le"
	case ir.OpGe:
		return "ge"
	case ir.OpAnd:
		return "and"
	case ir.OpOr:
		return "or"
	default:
		return "?"
	}
}

var _ = types.I32
