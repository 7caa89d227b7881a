package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/temirov/gitdrill/cmd/cli"
	"github.com/temirov/gitdrill/internal/checklist"
)

const (
	exitErrorTemplateConstant = "%v\n"
	failureExitCodeConstant   = 1
)

// main executes the gitdrill command-line application.
func main() {
	executionError := cli.Execute()
	if executionError == nil {
		return
	}
	if !errors.Is(executionError, checklist.ErrVerificationFailed) {
		fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)
	}
	os.Exit(failureExitCodeConstant)
}
