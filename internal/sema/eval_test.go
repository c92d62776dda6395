package sema

import (
	"testing"

	"sysyc/internal/lexer"
	"sysyc/internal/parser"
)

// constExp parses a bare expression by wrapping it in a throwaway return
// statement and pulling the expression back out.
func constExp(t *testing.T, src string) parser.Exp {
	t.Helper()
	tokens := lexer.NewScanner("int f() { return " + src + "; }").ScanTokens()
	cu := parser.NewParser(tokens).Parse()
	fn := cu.Items[0].(*parser.FuncDef)
	ret := fn.Body.Items[0].Stmt.(*parser.ReturnStmt)
	return ret.Exp
}

func TestEvalArithmetic(t *testing.T) {
	tests := []struct {
		expr string
		want int32
	}{
		{"1 + 2 * 3", 7},
		{"(1 + 2) * 3", 9},
		{"10 / 3", 3},
		{"-7 % 3", -1},
		{"7 % -3", 1},
		{"1 == 1 && 2 < 3", 1},
		{"0 || 0", 0},
		{"!0", 1},
		{"-(3)", -3},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := Eval(constExp(t, tt.expr), NewScopes())
			if err != nil {
				t.Fatalf("Eval(%q): %v", tt.expr, err)
			}
			if got != tt.want {
				t.Errorf("Eval(%q) = %d, want %d", tt.expr, got, tt.want)
			}
		})
	}
}

func TestEvalConstSymbol(t *testing.T) {
	scopes := NewScopes()
	if err := scopes.Insert("n", Symbol{IsConst: true, ConstVal: 42}); err != nil {
		t.Fatal(err)
	}
	got, err := Eval(constExp(t, "n + 1"), scopes)
	if err != nil {
		t.Fatal(err)
	}
	if got != 43 {
		t.Errorf("got %d, want 43", got)
	}
}

func TestEvalRejectsNonConstant(t *testing.T) {
	scopes := NewScopes()
	if err := scopes.Insert("x", Symbol{IsConst: false}); err != nil {
		t.Fatal(err)
	}
	if _, err := Eval(constExp(t, "x + 1"), scopes); err == nil {
		t.Fatal("expected an error referencing a non-const variable")
	}
}

func TestEvalRejectsUnknownSymbol(t *testing.T) {
	if _, err := Eval(constExp(t, "missing"), NewScopes()); err == nil {
		t.Fatal("expected an error for an unresolved symbol")
	}
}

func TestEvalRejectsDivisionByZero(t *testing.T) {
	if _, err := Eval(constExp(t, "1 / 0"), NewScopes()); err == nil {
		t.Fatal("expected a division-by-zero error")
	}
}

func TestScopesShadowing(t *testing.T) {
	s := NewScopes()
	if err := s.Insert("x", Symbol{IsConst: true, ConstVal: 1}); err != nil {
		t.Fatal(err)
	}
	s.Enter()
	if err := s.Insert("x", Symbol{IsConst: true, ConstVal: 2}); err != nil {
		t.Fatal(err)
	}
	sym, ok := s.Lookup("x")
	if !ok || sym.ConstVal != 2 {
		t.Fatalf("expected inner x=2, got %+v ok=%v", sym, ok)
	}
	s.Leave()
	sym, ok = s.Lookup("x")
	if !ok || sym.ConstVal != 1 {
		t.Fatalf("expected outer x=1 after Leave, got %+v ok=%v", sym, ok)
	}
}

func TestScopesDuplicateInsertFails(t *testing.T) {
	s := NewScopes()
	if err := s.Insert("x", Symbol{}); err != nil {
		t.Fatal(err)
	}
	if err := s.Insert("x", Symbol{}); err == nil {
		t.Fatal("expected duplicate insert in the same frame to fail")
	}
}

func TestLoopStack(t *testing.T) {
	var l LoopStack
	if _, ok := l.Peek(); ok {
		t.Fatal("expected empty stack to have no target")
	}
	l.Push(LoopTarget{})
	if _, ok := l.Peek(); !ok {
		t.Fatal("expected a target after Push")
	}
	l.Pop()
	if _, ok := l.Peek(); ok {
		t.Fatal("expected no target after Pop")
	}
}
