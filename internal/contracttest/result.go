package contracttest

import "strings"

// Outcome is the final classification of one test.
type Outcome string

const (
	OutcomePassed         Outcome = "pass"
	OutcomeFailed         Outcome = "fail"
	OutcomeSkipped        Outcome = "skip"
	OutcomeKnownFailure   Outcome = "xfail"
	OutcomeUnexpectedPass Outcome = "xpass"
)

type TestID struct {
	Path []string
}

func (t TestID) String() string {
	return strings.Join(t.Path, "/")
}

func (t TestID) child(name string) TestID {
	path := make([]string, 0, len(t.Path)+1)
	path = append(path, t.Path...)
	return TestID{Path: append(path, name)}
}

type TestResult struct {
	TestID          TestID
	Outcome         Outcome
	Errors          []error
	SkipReason      string
	ExpectedFailure string
}

// Results aggregates every test a run touched. KnownFailures are tests that
// failed as announced; they only count against the run in strict mode.
type Results struct {
	Tests         []TestResult
	Failures      []TestResult
	KnownFailures []TestResult
}

func (r Results) OK() bool {
	return len(r.Failures) == 0
}

// OKStrict also treats known failures as failures.
func (r Results) OKStrict() bool {
	return r.OK() && len(r.KnownFailures) == 0
}

// Count returns how many tests ended with the given outcome.
func (r Results) Count(outcome Outcome) int {
	n := 0
	for _, t := range r.Tests {
		if t.Outcome == outcome {
			n++
		}
	}
	return n
}
