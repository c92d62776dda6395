package commands

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

func TestBuildRejectsMissingPositionals(t *testing.T) {
	if err := Build([]string{"-riscv"}); err == nil {
		t.Fatal("expected an error when the input argument is missing")
	}
}

func TestBuildRejectsMissingOutputFlag(t *testing.T) {
	input := writeTemp(t, "int main() { return 0; }")
	if err := Build([]string{"-riscv", input}); err == nil {
		t.Fatal("expected an error when -o is missing")
	}
}

func TestBuildWritesOutputOnSuccess(t *testing.T) {
	input := writeTemp(t, "int main() { return 0; }")
	output := input + ".s"
	if err := Build([]string{"-riscv", input, "-o", output}); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, err := os.Stat(output); err != nil {
		t.Fatalf("expected output written: %v", err)
	}
}

// TestCacheHitReplaysByteIdenticalOutput exercises the cache-transparency
// property: a cache hit must produce exactly the same bytes a cache miss
// would have compiled.
func TestCacheHitReplaysByteIdenticalOutput(t *testing.T) {
	input := writeTemp(t, "int main() { return 42; }")
	dbPath := filepath.Join(filepath.Dir(input), "cache.db")
	output := input + ".s"

	args := []string{"-riscv", input, "-o", output, "--cache", "sqlite://" + dbPath}
	if err := Build(args); err != nil {
		t.Fatalf("first build (cache miss): %v", err)
	}
	first, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}

	if err := os.Remove(output); err != nil {
		t.Fatal(err)
	}
	if err := Build(args); err != nil {
		t.Fatalf("second build (expected cache hit): %v", err)
	}
	second, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}

	if string(first) != string(second) {
		t.Fatalf("cache hit produced different output:\nfirst:\n%s\nsecond:\n%s", first, second)
	}
}
