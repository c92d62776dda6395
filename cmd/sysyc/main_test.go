package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "in.c")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunSucceedsOnValidSource(t *testing.T) {
	input := writeTemp(t, "int main() { return 0; }")
	output := input + ".s"
	if code := run([]string{"-riscv", input, "-o", output}); code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if _, err := os.Stat(output); err != nil {
		t.Fatalf("expected output file to be written: %v", err)
	}
}

func TestRunKoopaMode(t *testing.T) {
	input := writeTemp(t, "int main() { return 0; }")
	output := input + ".koopa"
	if code := run([]string{"-koopa", input, "-o", output}); code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
}

func TestRunFailsOnSyntaxError(t *testing.T) {
	input := writeTemp(t, "int main() { return 0")
	output := input + ".s"
	if code := run([]string{"-riscv", input, "-o", output}); code == 0 {
		t.Fatal("expected a nonzero exit code for a syntax error")
	}
	if _, err := os.Stat(output); err == nil {
		t.Fatal("expected no output file to be written on failure")
	}
}

func TestRunFailsOnMissingOutputFlag(t *testing.T) {
	input := writeTemp(t, "int main() { return 0; }")
	if code := run([]string{"-riscv", input}); code == 0 {
		t.Fatal("expected a nonzero exit code when -o is missing")
	}
}

func TestRunFailsOnUnknownMode(t *testing.T) {
	input := writeTemp(t, "int main() { return 0; }")
	if code := run([]string{"-bogus", input, "-o", input + ".s"}); code == 0 {
		t.Fatal("expected a nonzero exit code for an unknown mode")
	}
}

func TestRunFailsOnMissingInput(t *testing.T) {
	if code := run([]string{"-riscv", "/nonexistent/path.c", "-o", "/tmp/out.s"}); code == 0 {
		t.Fatal("expected a nonzero exit code for a missing input file")
	}
}

func TestRunNoArgsPrintsUsage(t *testing.T) {
	if code := run(nil); code != 2 {
		t.Fatalf("expected exit code 2 for no arguments, got %d", code)
	}
}

func TestRunVersionSubcommand(t *testing.T) {
	if code := run([]string{"version"}); code != 0 {
		t.Fatalf("expected exit code 0 for version, got %d", code)
	}
}
