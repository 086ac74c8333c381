package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for different failure modes
const (
	ExitSuccess     = 0 // Report built and above any --fail-under threshold
	ExitBelowTarget = 1 // Overall score below --fail-under
	ExitError       = 2 // Configuration, input or runtime error
)

// ThresholdError indicates that the report was built successfully but the
// overall score missed --fail-under or --min-impact.
type ThresholdError struct {
	Message string
}

func (e *ThresholdError) Error() string {
	return e.Message
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		var thresholdErr *ThresholdError
		if errors.As(err, &thresholdErr) {
			os.Exit(ExitBelowTarget)
		}

		os.Exit(ExitError)
	}
}
