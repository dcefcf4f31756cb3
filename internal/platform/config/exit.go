package config

import (
	"fmt"
	"os"
)

// Exitf writes a formatted error message to stderr and exits with code 1.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

// ExitIfErr exits through Exitf when err is non-nil, labelling the failure
// with the step that produced it.
func ExitIfErr(err error, step string) {
	if err == nil {
		return
	}
	Exitf("Error: %s: %v", step, err)
}
