package koopatext

import (
	"strings"
	"testing"

	"sysyc/internal/irgen"
	"sysyc/internal/lexer"
	"sysyc/internal/parser"
)

func lower(t *testing.T, src string) string {
	t.Helper()
	tokens := lexer.NewScanner(src).ScanTokens()
	cu := parser.NewParser(tokens).Parse()
	prog, err := irgen.Lower(cu)
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	return Print(prog)
}

func TestPrintEmitsFunctionHeaderAndReturn(t *testing.T) {
	out := lower(t, "int main() { return 0; }")
	if !strings.Contains(out, "fun @main") {
		t.Errorf("expected a fun @main header, got:\n%s", out)
	}
	if !strings.Contains(out, "ret 0") {
		t.Errorf("expected a ret 0 instruction, got:\n%s", out)
	}
}

func TestPrintEmitsLibraryDecl(t *testing.T) {
	out := lower(t, "int main() { return getint(); }")
	if !strings.Contains(out, "decl @getint") {
		t.Errorf("expected a decl @getint line, got:\n%s", out)
	}
}

func TestPrintEmitsGlobalWithInitializer(t *testing.T) {
	out := lower(t, "int g = 5; int main() { return g; }")
	if !strings.Contains(out, "global @g = alloc i32, 5") {
		t.Errorf("expected a global initializer line, got:\n%s", out)
	}
}

func TestPrintEmitsBranchForIf(t *testing.T) {
	out := lower(t, "int main() { if (1) return 1; return 0; }")
	if !strings.Contains(out, "br ") {
		t.Errorf("expected a br instruction, got:\n%s", out)
	}
}
