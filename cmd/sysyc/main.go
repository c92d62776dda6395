// Command sysyc compiles SysY source to KoopaIR text or RISC-V assembly.
//
//	sysyc <-koopa|-riscv> <input.c> -o <output> [-O] [--cache DSN] [--watch] [--build-id]
//	sysyc watch <input.c>
//	sysyc version
package main

import (
	"fmt"
	"os"

	"sysyc/cmd/sysyc/commands"
	"sysyc/internal/compileerr"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: sysyc <-koopa|-riscv> <input> -o <output> [-O] [--cache DSN] [--watch] [--build-id]")
		return 2
	}

	var err error
	switch args[0] {
	case "watch":
		err = commands.Watch(args[1:])
	case "version":
		commands.Version()
		return 0
	default:
		err = commands.Build(args)
	}

	if err == nil {
		return 0
	}
	printError(err)
	return 1
}

// printError renders a compiler error the way every stage reports one:
// a *compileerr.Error prints its taxonomy, message, and (if known) source
// location; anything else prints as a bare fatal.
func printError(err error) {
	if ce, ok := err.(*compileerr.Error); ok {
		fmt.Fprintln(os.Stderr, ce.Error())
		return
	}
	fmt.Fprintf(os.Stderr, "sysyc: %v\n", err)
}
