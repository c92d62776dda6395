// Package commands implements the sysyc subcommands: build (the default,
// mode-dispatching compile), watch (recompile-on-change with live
// diagnostics), and version.
package commands

import (
	"fmt"

	"sysyc/internal/codegen/riscv"
	"sysyc/internal/compileerr"
	"sysyc/internal/irgen"
	"sysyc/internal/koopatext"
	"sysyc/internal/lexer"
	"sysyc/internal/parser"
)

// Mode selects what Compile emits.
type Mode string

const (
	ModeKoopa Mode = "-koopa"
	ModeRiscV Mode = "-riscv"
)

// Compile runs the full pipeline — scan, parse, lower, and (for -riscv)
// generate assembly — over one source file's text, and returns the
// textual output the given mode asks for.
//
// Parse errors surface as panics of *compileerr.Error (see
// parser.Parser.Parse); this is the one place that recovers them into a
// normal error return, since everything downstream of the CLI boundary
// should never see a panic.
func Compile(source, file string, mode Mode) (output string, err error) {
	defer func() {
		if r := recover(); r != nil {
			if ce, ok := r.(*compileerr.Error); ok {
				err = ce
				return
			}
			panic(r)
		}
	}()

	tokens := lexer.NewScannerWithFile(source, file).ScanTokens()
	cu := parser.NewParserWithSource(tokens, source, file).Parse()

	prog, lowerErr := irgen.Lower(cu)
	if lowerErr != nil {
		return "", lowerErr
	}

	switch mode {
	case ModeKoopa:
		return koopatext.Print(prog), nil
	case ModeRiscV:
		return riscv.Generate(prog)
	default:
		return "", fmt.Errorf("sysyc: unknown mode %q", mode)
	}
}

// ParseMode validates a raw mode argument. An empty mode defaults to -riscv;
// anything other than -koopa or -riscv is an error.
func ParseMode(raw string) (Mode, error) {
	switch Mode(raw) {
	case ModeKoopa:
		return ModeKoopa, nil
	case ModeRiscV:
		return ModeRiscV, nil
	case "":
		return ModeRiscV, nil
	default:
		return "", fmt.Errorf("sysyc: unknown mode %q (expected -koopa or -riscv)", raw)
	}
}
