// Command aobgen validates a YAML signature file and writes Go source that
// declares each signature as a ready-built needle.
//
// Usage:
//
//	aobgen -pkg sigs -o sigs_gen.go sigs.yaml
//
// Patterns are parsed with the same parser the library uses. A malformed
// pattern is reported with a caret under the offending text and no output is
// written, so a broken signature fails the build step rather than the
// program. Typical use is a go:generate line next to the YAML file:
//
//	//go:generate go run github.com/coregx/aob/cmd/aobgen -pkg sigs -o sigs_gen.go sigs.yaml
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("aobgen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	pkg := fs.String("pkg", "", "package name of the generated file (required)")
	out := fs.String("o", "", "output file (default stdout)")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: aobgen -pkg name [-o file.go] sigs.yaml\n\nflags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if *pkg == "" || fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	input := fs.Arg(0)

	f, err := os.Open(input)
	if err != nil {
		fmt.Fprintln(stderr, "aobgen:", err)
		return 1
	}
	defer f.Close()

	var buf bytes.Buffer
	if err := generate(&buf, f, *pkg, filepath.Base(input)); err != nil {
		fmt.Fprintf(stderr, "aobgen: %s: %v\n", input, err)
		var perr interface{ Highlight() string }
		if errors.As(err, &perr) {
			fmt.Fprintln(stderr, perr.Highlight())
		}
		return 1
	}

	if *out == "" {
		_, err = stdout.Write(buf.Bytes())
	} else {
		err = os.WriteFile(*out, buf.Bytes(), 0o644)
	}
	if err != nil {
		fmt.Fprintln(stderr, "aobgen:", err)
		return 1
	}
	return 0
}
