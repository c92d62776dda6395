package irgen

import (
	"sysyc/internal/compileerr"
	"sysyc/internal/ir"
	"sysyc/internal/parser"
	"sysyc/internal/sema"
)

// lowerBlock lowers a braced statement block in its own lexical scope.
func (l *Lowerer) lowerBlock(b *parser.Block) error {
	l.scopes.Enter()
	defer l.scopes.Leave()
	for _, item := range b.Items {
		if item.Decl != nil {
			if err := l.lowerLocalDecl(item.Decl); err != nil {
				return err
			}
			continue
		}
		if err := l.lowerStmt(item.Stmt); err != nil {
			return err
		}
	}
	return nil
}

func (l *Lowerer) lowerStmt(s parser.Stmt) error {
	switch n := s.(type) {
	case *parser.Block:
		return l.lowerBlock(n)

	case *parser.AssignStmt:
		return l.lowerAssign(n)

	case *parser.ExpStmt:
		if n.Exp == nil {
			return nil
		}
		_, err := l.lowerExpr(n.Exp)
		return err

	case *parser.IfStmt:
		return l.lowerIf(n)

	case *parser.WhileStmt:
		return l.lowerWhile(n)

	case *parser.BreakStmt:
		target, ok := l.loops.Peek()
		if !ok {
			return compileerr.Unlocated(compileerr.InvalidBreak, "break statement outside of a loop")
		}
		jmp := l.curFn().NewJump(target.BreakBB)
		if err := l.push(jmp); err != nil {
			return err
		}
		l.afterTerminator("after_break")
		return nil

	case *parser.ContinueStmt:
		target, ok := l.loops.Peek()
		if !ok {
			return compileerr.Unlocated(compileerr.InvalidContinue, "continue statement outside of a loop")
		}
		jmp := l.curFn().NewJump(target.ContinueBB)
		if err := l.push(jmp); err != nil {
			return err
		}
		l.afterTerminator("after_continue")
		return nil

	case *parser.ReturnStmt:
		retVal := ir.Zero
		if n.Exp != nil {
			v, err := l.lowerExpr(n.Exp)
			if err != nil {
				return err
			}
			retVal = v
		}
		ret := l.curFn().NewReturn(retVal)
		if err := l.push(ret); err != nil {
			return err
		}
		l.afterTerminator("after_return")
		return nil
	}
	return compileerr.Unlocated(compileerr.SysError, "unhandled statement kind")
}

func (l *Lowerer) lowerAssign(n *parser.AssignStmt) error {
	if sym, ok := l.scopes.Lookup(n.LVal.Name); ok && sym.IsConst {
		return compileerr.Unlocated(compileerr.RedefineConstValue, "cannot assign to constant '"+n.LVal.Name+"'")
	}
	addr, t, _, err := l.lvalAddr(n.LVal)
	if err != nil {
		return err
	}
	if t.IsArray() {
		return compileerr.Unlocated(compileerr.SysError, "cannot assign to array '"+n.LVal.Name+"'")
	}
	val, err := l.lowerExpr(n.Exp)
	if err != nil {
		return err
	}
	store := l.curFn().NewStore(val, addr)
	return l.push(store)
}

func (l *Lowerer) lowerIf(n *parser.IfStmt) error {
	cond, err := l.lowerExpr(n.Cond)
	if err != nil {
		return err
	}

	thenBB := l.curFn().NewBlock(l.freshName("then"))
	endBB := l.curFn().NewBlock(l.freshName("if_end"))
	hasElse := n.Else != nil

	var elseBB ir.Block
	if hasElse {
		elseBB = l.curFn().NewBlock(l.freshName("else"))
		br := l.curFn().NewBranch(cond, thenBB, elseBB)
		if err := l.push(br); err != nil {
			return err
		}
	} else {
		br := l.curFn().NewBranch(cond, thenBB, endBB)
		if err := l.push(br); err != nil {
			return err
		}
	}

	l.appendBlock(thenBB)
	if err := l.lowerStmt(n.Then); err != nil {
		return err
	}
	if !l.blockTerminated() {
		jmp := l.curFn().NewJump(endBB)
		if err := l.push(jmp); err != nil {
			return err
		}
	}

	if hasElse {
		l.appendBlock(elseBB)
		if err := l.lowerStmt(n.Else); err != nil {
			return err
		}
		if !l.blockTerminated() {
			jmp := l.curFn().NewJump(endBB)
			if err := l.push(jmp); err != nil {
				return err
			}
		}
	}

	l.appendBlock(endBB)
	return nil
}

func (l *Lowerer) lowerWhile(n *parser.WhileStmt) error {
	condBB := l.curFn().NewBlock(l.freshName("while_cond"))
	bodyBB := l.curFn().NewBlock(l.freshName("while_body"))
	endBB := l.curFn().NewBlock(l.freshName("while_end"))

	entryJmp := l.curFn().NewJump(condBB)
	if err := l.push(entryJmp); err != nil {
		return err
	}

	l.appendBlock(condBB)
	cond, err := l.lowerExpr(n.Cond)
	if err != nil {
		return err
	}
	br := l.curFn().NewBranch(cond, bodyBB, endBB)
	if err := l.push(br); err != nil {
		return err
	}

	l.loops.Push(sema.LoopTarget{BreakBB: endBB, ContinueBB: condBB})
	l.appendBlock(bodyBB)
	if err := l.lowerStmt(n.Body); err != nil {
		return err
	}
	if !l.blockTerminated() {
		jmp := l.curFn().NewJump(condBB)
		if err := l.push(jmp); err != nil {
			return err
		}
	}
	l.loops.Pop()

	l.appendBlock(endBB)
	return nil
}
