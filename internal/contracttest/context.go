// Package contracttest runs scenarios outside of `go test`. A Context offers
// the subset of testing.T that testify assertions rely on, so the same
// scenario bodies run under both.
package contracttest

import (
	"errors"
	"fmt"
	"runtime/debug"
)

// T is what a scenario body needs from its test runner. *testing.T and
// *Context both satisfy it.
type T interface {
	Errorf(format string, args ...any)
	FailNow()
	Logf(format string, args ...any)
	Helper()
}

type environment struct {
	results    Results
	testLogger TestLogger
	filter     func(TestID) bool
}

type Context struct {
	env             *environment
	id              TestID
	debugOutput     []string
	failed          bool
	skipped         bool
	skipReason      string
	expectedFailure string
	// armed is set once the body reaches the assertion the expected
	// failure refers to; failures before that point are real failures.
	armed           bool
	unexpected      bool
	errors          []error
	children        int
	isGroup         bool
}

// RunOption adjusts how a single child test is classified.
type RunOption func(*Context)

// ExpectFailure marks a test as known to fail for the given reason. Only
// failures raised after the body calls ArmExpectedFailure are known
// failures; anything earlier, and passing, fails the run.
func ExpectFailure(reason string) RunOption {
	return func(c *Context) {
		c.expectedFailure = reason
	}
}

func Run(
	filter func(TestID) bool,
	testLogger TestLogger,
	action func(*Context),
) Results {
	if testLogger == nil {
		testLogger = nullTestLogger{}
	}
	env := &environment{
		filter:     filter,
		testLogger: testLogger,
	}
	c := &Context{env: env}
	c.run(action)
	return env.results
}

func (c *Context) run(action func(*Context)) {
	defer func() {
		if r := recover(); r != nil {
			if c.skipped {
				return
			}
			c.fail()
			var addError error
			if _, ok := r.(*Context); ok {
				if len(c.errors) == 0 {
					addError = errors.New("test failed with no failure message")
				}
			} else {
				c.unexpected = true
				addError = fmt.Errorf("unexpected panic in test: %+v\n%s", r, string(debug.Stack()))
			}
			if addError != nil {
				c.errors = append(c.errors, addError)
				c.env.testLogger.TestError(c.id, addError)
			}
		}
	}()

	action(c)
}

func (c *Context) result() TestResult {
	result := TestResult{
		TestID:          c.id,
		Errors:          c.errors,
		SkipReason:      c.skipReason,
		ExpectedFailure: c.expectedFailure,
	}
	switch {
	case c.skipped:
		result.Outcome = OutcomeSkipped
	case c.expectedFailure != "" && c.failed && !c.unexpected:
		result.Outcome = OutcomeKnownFailure
	case c.expectedFailure != "" && !c.failed:
		result.Outcome = OutcomeUnexpectedPass
		result.Errors = append(result.Errors, fmt.Errorf("expected failure did not occur: %s", c.expectedFailure))
	case c.failed:
		result.Outcome = OutcomeFailed
	default:
		result.Outcome = OutcomePassed
	}
	return result
}

func (c *Context) ID() TestID {
	return c.id
}

// Group marks a test as a container of child tests. A group never appears in
// the results itself unless its own body fails.
func Group() RunOption {
	return func(c *Context) {
		c.isGroup = true
	}
}

// Run executes action as a child test. Only leaf tests, those that do not
// start children of their own, are recorded in the results.
func (c *Context) Run(name string, action func(*Context), opts ...RunOption) {
	id := c.id.child(name)

	if c.env.filter != nil && !c.env.filter(id) {
		return
	}
	c.children++
	c.env.testLogger.TestStarted(id)
	c1 := &Context{
		id:  id,
		env: c.env,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c1)
		}
	}
	c1.run(action)
	if (c1.isGroup || c1.children > 0) && !c1.failed && !c1.skipped {
		// children were recorded individually
		return
	}

	result := c1.result()
	c.env.results.Tests = append(c.env.results.Tests, result)
	switch result.Outcome {
	case OutcomeFailed, OutcomeUnexpectedPass:
		c.env.results.Failures = append(c.env.results.Failures, result)
	case OutcomeKnownFailure:
		c.env.results.KnownFailures = append(c.env.results.KnownFailures, result)
	}
	if result.Outcome == OutcomeSkipped {
		c.env.testLogger.TestSkipped(id, c1.skipReason)
		return
	}
	c.env.testLogger.TestFinished(id, result, c1.debugOutput)
}

func (c *Context) Errorf(format string, args ...any) {
	c.fail()
	err := fmt.Errorf(format, args...)
	c.errors = append(c.errors, err)
	if c.expectedFailure == "" || c.unexpected {
		c.env.testLogger.TestError(c.id, err)
	}
}

func (c *Context) FailNow() {
	c.fail()
	panic(c)
}

func (c *Context) fail() {
	c.failed = true
	if !c.armed {
		c.unexpected = true
	}
}

// ArmExpectedFailure marks the point from which failures of a test run with
// ExpectFailure are the announced ones.
func (c *Context) ArmExpectedFailure() {
	c.armed = true
}

// ArmExpectedFailure arms t when its runner tracks expected failures.
// *testing.T has no such notion and is left untouched.
func ArmExpectedFailure(t T) {
	if a, ok := t.(interface{ ArmExpectedFailure() }); ok {
		a.ArmExpectedFailure()
	}
}

func (c *Context) Skip(args ...any) {
	c.skipped = true
	c.skipReason = fmt.Sprint(args...)
	panic(c)
}

// Logf captures debug output, shown by the console logger on failure.
func (c *Context) Logf(format string, args ...any) {
	c.debugOutput = append(c.debugOutput, fmt.Sprintf(format, args...))
}

func (c *Context) Helper() {}

var _ T = (*Context)(nil)
