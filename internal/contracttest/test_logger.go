package contracttest

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

type TestLogger interface {
	TestStarted(id TestID)
	TestError(id TestID, err error)
	TestFinished(id TestID, result TestResult, debugOutput []string)
	TestSkipped(id TestID, reason string)
}

type nullTestLogger struct{}

func (n nullTestLogger) TestStarted(TestID)                        {}
func (n nullTestLogger) TestError(TestID, error)                   {}
func (n nullTestLogger) TestFinished(TestID, TestResult, []string) {}
func (n nullTestLogger) TestSkipped(TestID, string)                {}

var (
	passColor  = color.New(color.FgGreen)
	failColor  = color.New(color.FgRed)
	xfailColor = color.New(color.FgYellow)
	skipColor  = color.New(color.FgCyan)
	debugColor = color.New(color.Faint)
)

// ConsoleTestLogger prints one coloured line per finished test.
type ConsoleTestLogger struct {
	Out                  io.Writer
	DebugOutputOnFailure bool
	DebugOutputOnSuccess bool
}

func (c ConsoleTestLogger) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c ConsoleTestLogger) TestStarted(TestID) {}

func (c ConsoleTestLogger) TestError(id TestID, err error) {
	failColor.Fprintf(c.out(), "  error in %s: %s\n", id, err)
}

func (c ConsoleTestLogger) TestFinished(id TestID, result TestResult, debugOutput []string) {
	w := c.out()
	switch result.Outcome {
	case OutcomePassed:
		passColor.Fprintf(w, "PASS  %s\n", id)
	case OutcomeKnownFailure:
		xfailColor.Fprintf(w, "XFAIL %s (%s)\n", id, result.ExpectedFailure)
	case OutcomeUnexpectedPass:
		failColor.Fprintf(w, "XPASS %s (expected to fail: %s)\n", id, result.ExpectedFailure)
	default:
		failColor.Fprintf(w, "FAIL  %s\n", id)
	}
	failed := result.Outcome == OutcomeFailed || result.Outcome == OutcomeUnexpectedPass
	if len(debugOutput) > 0 && ((failed && c.DebugOutputOnFailure) || (!failed && c.DebugOutputOnSuccess)) {
		for _, line := range debugOutput {
			debugColor.Fprintf(w, "      %s\n", strings.TrimRight(line, "\n"))
		}
	}
}

func (c ConsoleTestLogger) TestSkipped(id TestID, reason string) {
	if reason == "" {
		skipColor.Fprintf(c.out(), "SKIP  %s\n", id)
		return
	}
	skipColor.Fprintf(c.out(), "SKIP  %s (%s)\n", id, reason)
}

// PrintResults writes the run summary.
func PrintResults(w io.Writer, results Results) {
	fmt.Fprintf(w, "\n%d passed, %d failed, %d known failures, %d skipped\n",
		results.Count(OutcomePassed),
		len(results.Failures),
		len(results.KnownFailures),
		results.Count(OutcomeSkipped),
	)
	for _, f := range results.KnownFailures {
		xfailColor.Fprintf(w, "  known failure %s: %s\n", f.TestID, f.ExpectedFailure)
	}
	for _, f := range results.Failures {
		failColor.Fprintf(w, "  FAILED %s\n", f.TestID)
		for _, err := range f.Errors {
			fmt.Fprintf(w, "    %s\n", indent(err.Error()))
		}
	}
}

func indent(s string) string {
	return strings.ReplaceAll(strings.TrimRight(s, "\n"), "\n", "\n    ")
}
