package main

import (
	"os"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
)

// TestMain lets testscript exec this test binary as a "tyde" subcommand,
// so script fixtures drive the real flag parser and run() entry point
// instead of a reimplementation of either.
func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"tyde": func() int { return run(os.Args[1:]) },
	}))
}

func TestCLI(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata/script",
	})
}
