package commands

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"

	"sysyc/internal/buildinfo"
	"sysyc/internal/cache"
)

// Build implements the default subcommand: `sysyc <mode> <input> -o <output>
// [-O] [--cache DSN] [--watch] [--build-id]`. mode and input are positional;
// everything else is a flag, parsed after the two positionals the way the
// teacher's own build command separates its required arguments from its
// options.
func Build(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("sysyc: expected <mode> <input>, got %d argument(s)", len(args))
	}
	mode, err := ParseMode(args[0])
	if err != nil {
		return err
	}
	input := args[1]

	fs := flag.NewFlagSet("sysyc", flag.ContinueOnError)
	output := fs.String("o", "", "output file")
	optimize := fs.Bool("O", false, "optimization flag (only varies the cache key; no optimization pass runs)")
	cacheDSN := fs.String("cache", "", "build cache DSN (default: local sqlite)")
	watch := fs.Bool("watch", false, "recompile on change after the first build")
	stampBuildID := fs.Bool("build-id", false, "stamp a build id/size directive into the output")
	if err := fs.Parse(args[2:]); err != nil {
		return err
	}
	if *output == "" {
		return fmt.Errorf("sysyc: -o <output> is required")
	}

	cacheRequested := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "cache" {
			cacheRequested = true
		}
	})

	opts := buildOptions{
		mode:           mode,
		input:          input,
		output:         *output,
		optimize:       *optimize,
		cacheDSN:       *cacheDSN,
		cacheRequested: cacheRequested,
		stampBuildID:   *stampBuildID,
	}

	if err := runBuild(opts); err != nil {
		return err
	}
	if !*watch {
		return nil
	}
	return watchLoop(input, func() error { return runBuild(opts) })
}

type buildOptions struct {
	mode           Mode
	input          string
	output         string
	optimize       bool
	cacheDSN       string
	cacheRequested bool
	stampBuildID   bool
}

// runBuild performs one compile-and-write cycle: check the cache, compile
// on a miss, store the result, and write it atomically — nothing partial
// ever lands at opts.output on failure, since the temp file is only
// renamed into place once the whole pipeline succeeds.
func runBuild(opts buildOptions) error {
	start := time.Now()
	source, err := os.ReadFile(opts.input)
	if err != nil {
		return errors.Wrapf(err, "sysyc: read %s", opts.input)
	}

	var c *cache.Cache
	var key string
	if opts.cacheRequested {
		cacheMode := string(opts.mode)
		if opts.optimize {
			cacheMode += ",O"
		}
		key = cache.Key(string(source), cacheMode)

		c, err = cache.Open(opts.cacheDSN)
		if err != nil {
			return err
		}
		defer c.Close()

		if hit, ok, err := c.Lookup(key); err == nil && ok {
			return writeOutput(opts.output, hit)
		}
	}

	output, err := Compile(string(source), opts.input, opts.mode)
	if err != nil {
		return err
	}

	if opts.stampBuildID {
		directive := buildinfo.Directive(buildinfo.NewBuildID(), len(output), time.Since(start))
		output = directive + "\n" + output
	}

	if c != nil {
		if err := c.Store(key, output); err != nil {
			return err
		}
	}

	return writeOutput(opts.output, output)
}

func writeOutput(path, content string) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(content), 0o644); err != nil {
		return errors.Wrapf(err, "sysyc: write %s", path)
	}
	if err := os.Rename(tmp, path); err != nil {
		return errors.Wrapf(err, "sysyc: rename %s", path)
	}
	return nil
}
