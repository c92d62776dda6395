package parser

import (
	"fmt"
	"testing"

	"sysyc/internal/lexer"
)

// parseString scans and parses a whole compilation unit, converting a panic
// raised by a syntax error into a returned error.
func parseString(input string) (cu *CompUnit, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
			} else {
				err = fmt.Errorf("parser panic: %v", r)
			}
			cu = nil
		}
	}()

	scanner := lexer.NewScanner(input)
	tokens := scanner.ScanTokens()
	p := NewParser(tokens)
	cu = p.Parse()
	return
}

func assertParseSuccess(t *testing.T, input, description string) *CompUnit {
	t.Helper()
	cu, err := parseString(input)
	if err != nil {
		t.Fatalf("%s: parsing failed: %v", description, err)
	}
	if cu == nil {
		t.Fatalf("%s: parsing returned nil compilation unit", description)
	}
	return cu
}

func assertParseError(t *testing.T, input, description string) {
	t.Helper()
	_, err := parseString(input)
	if err == nil {
		t.Errorf("%s: expected parsing to fail but it succeeded", description)
	}
}

func TestFuncDefs(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		shouldPass bool
	}{
		{"minimal main", "int main() { return 0; }", true},
		{"void function", "void f() { return; }", true},
		{"scalar params", "int add(int a, int b) { return a + b; }", true},
		{"array param", "int sum(int a[], int n) { return a[0]; }", true},
		{"2d array param", "int sum(int a[][3]) { return a[0][0]; }", true},
		{"missing return type", "main() { return 0; }", false},
		{"unterminated body", "int main() { return 0;", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.shouldPass {
				assertParseSuccess(t, tt.input, tt.name)
			} else {
				assertParseError(t, tt.input, tt.name)
			}
		})
	}
}

func TestDeclarations(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		shouldPass bool
	}{
		{"const scalar", "const int n = 10;", true},
		{"plain scalar no init", "int x;", true},
		{"scalar with init", "int x = 5;", true},
		{"multi-def decl", "int a = 1, b, c = 3;", true},
		{"array decl", "int a[10];", true},
		{"array with initializer", "int a[3] = {1, 2, 3};", true},
		{"nested initializer", "int a[2][2] = {{1, 2}, {3, 4}};", true},
		{"empty initializer", "int a[3] = {};", true},
		{"missing semicolon", "int x = 5", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.shouldPass {
				assertParseSuccess(t, tt.input, tt.name)
			} else {
				assertParseError(t, tt.input, tt.name)
			}
		})
	}
}

func TestExpressionPrecedence(t *testing.T) {
	cu := assertParseSuccess(t, `int main() { return 1 + 2 * 3 == 7 && 1 || 0; }`, "full ladder")
	fn, ok := cu.Items[0].(*FuncDef)
	if !ok {
		t.Fatalf("expected a FuncDef, got %T", cu.Items[0])
	}
	ret, ok := fn.Body.Items[0].Stmt.(*ReturnStmt)
	if !ok {
		t.Fatalf("expected a ReturnStmt, got %T", fn.Body.Items[0].Stmt)
	}
	top, ok := ret.Exp.(*BinaryExp)
	if !ok || top.Op != OpOr {
		t.Fatalf("expected top-level || binary, got %#v", ret.Exp)
	}
}

func TestControlFlow(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		shouldPass bool
	}{
		{"if without else", "int main() { if (1) return 1; return 0; }", true},
		{"if with else", "int main() { if (1) return 1; else return 0; }", true},
		{"while with break/continue", "int main() { while (1) { break; continue; } return 0; }", true},
		{"nested block", "int main() { { int x = 1; } return 0; }", true},
		{"break outside loop still parses", "int main() { break; return 0; }", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.shouldPass {
				assertParseSuccess(t, tt.input, tt.name)
			} else {
				assertParseError(t, tt.input, tt.name)
			}
		})
	}
}

func TestAssignmentVsExpressionStmt(t *testing.T) {
	cu := assertParseSuccess(t, `int main() { int a; a = 1; a[0]; return a; }`, "assign then index expr")
	fn := cu.Items[0].(*FuncDef)
	if _, ok := fn.Body.Items[1].Stmt.(*AssignStmt); !ok {
		t.Fatalf("expected AssignStmt, got %T", fn.Body.Items[1].Stmt)
	}
	if _, ok := fn.Body.Items[2].Stmt.(*ExpStmt); !ok {
		t.Fatalf("expected ExpStmt, got %T", fn.Body.Items[2].Stmt)
	}
}

func TestCallExpression(t *testing.T) {
	cu := assertParseSuccess(t, `int main() { return add(1, 2); }`, "call expr")
	fn := cu.Items[0].(*FuncDef)
	ret := fn.Body.Items[0].Stmt.(*ReturnStmt)
	call, ok := ret.Exp.(*CallExp)
	if !ok || call.Name != "add" || len(call.Args) != 2 {
		t.Fatalf("expected call to add/2, got %#v", ret.Exp)
	}
}
