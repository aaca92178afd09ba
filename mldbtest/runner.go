package mldbtest

import (
	"context"
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Outcome of a case.
type Outcome int

const (
	// Pass is a case that succeeded.
	Pass Outcome = iota
	// Fail is a case that failed.
	Fail
	// ExpectedFailure is a case marked as expected to fail that failed.
	ExpectedFailure
	// UnexpectedSuccess is a case marked as expected to fail that passed.
	UnexpectedSuccess
	// Skipped is a case that did not run because the suite setup failed.
	Skipped
)

func (o Outcome) String() string {
	switch o {
	case Pass:
		return "pass"
	case Fail:
		return "fail"
	case ExpectedFailure:
		return "expected failure"
	case UnexpectedSuccess:
		return "unexpected success"
	case Skipped:
		return "skipped"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// T records the failures of a case. It satisfies the testing interfaces of
// testify so require and assert can be used inside a case.
type T struct {
	ctx  context.Context
	name string

	mu       sync.Mutex
	failed   bool
	messages []string
}

func newT(ctx context.Context, name string) *T {
	return &T{ctx: ctx, name: name}
}

// Context returns the context of the run.
func (t *T) Context() context.Context { return t.ctx }

// Name returns the name of the case.
func (t *T) Name() string { return t.name }

// Helper is a no-op.
func (t *T) Helper() {}

// Errorf records a failure and continues the case.
func (t *T) Errorf(format string, args ...interface{}) {
	t.fail(fmt.Sprintf(format, args...))
}

// Logf records a message.
func (t *T) Logf(format string, args ...interface{}) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages = append(t.messages, fmt.Sprintf(format, args...))
}

// Fail marks the case as failed and continues.
func (t *T) Fail() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.failed = true
}

// FailNow marks the case as failed and stops it. It must be called from the
// goroutine running the case.
func (t *T) FailNow() {
	t.Fail()
	runtime.Goexit()
}

// Fatalf records a failure and stops the case.
func (t *T) Fatalf(format string, args ...interface{}) {
	t.Errorf(format, args...)
	t.FailNow()
}

// Failed reports whether the case failed.
func (t *T) Failed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.failed
}

// Messages returns the failures and messages recorded so far.
func (t *T) Messages() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.messages...)
}

func (t *T) fail(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.failed = true
	t.messages = append(t.messages, msg)
}

// run runs fn in its own goroutine and waits for it. Panics are recorded as
// failures.
func (t *T) run(fn func(*T)) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer func() {
			if r := recover(); r != nil {
				t.fail(fmt.Sprintf("panic: %v\n%s", r, debug.Stack()))
			}
		}()

		fn(t)
	}()
	<-done
}

// Case is a single test of a suite.
type Case struct {
	Name string
	Run  func(t *T)
	// ExpectFailure marks a case that is known to fail. Its failure does not
	// make the suite fail, its success does.
	ExpectFailure bool
}

// Suite is a set of cases sharing a fixture.
type Suite struct {
	Name string
	// Setup prepares the fixture. It runs once before the cases.
	Setup func(ctx context.Context) error
	Cases []Case
}

// Result of a case.
type Result struct {
	Case     string
	Outcome  Outcome
	Messages []string
	Duration time.Duration
}

// Report is the result of running a suite.
type Report struct {
	Suite    string
	SetupErr error
	Results  []Result
}

// OK reports whether the suite succeeded: setup worked and no case failed
// or passed unexpectedly.
func (r *Report) OK() bool {
	if r.SetupErr != nil {
		return false
	}

	for _, res := range r.Results {
		if res.Outcome == Fail || res.Outcome == UnexpectedSuccess {
			return false
		}
	}
	return true
}

// Count returns the number of cases with the given outcome.
func (r *Report) Count(o Outcome) int {
	var n int
	for _, res := range r.Results {
		if res.Outcome == o {
			n++
		}
	}
	return n
}

// Outcomes returns the outcome of every case by name.
func (r *Report) Outcomes() map[string]Outcome {
	outcomes := make(map[string]Outcome, len(r.Results))
	for _, res := range r.Results {
		outcomes[res.Case] = res.Outcome
	}
	return outcomes
}

func (r *Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "suite %s:", r.Suite)
	if r.SetupErr != nil {
		fmt.Fprintf(&b, " setup failed: %s", r.SetupErr)
	}
	b.WriteString("\n")

	for _, res := range r.Results {
		fmt.Fprintf(&b, "  %s: %s (%s)\n", res.Case, res.Outcome, res.Duration)
		for _, m := range res.Messages {
			fmt.Fprintf(&b, "    %s\n", strings.Replace(m, "\n", "\n    ", -1))
		}
	}

	return b.String()
}

// Run runs the setup of the suite and then every case independently. When
// the setup fails all cases are skipped.
func Run(ctx context.Context, s Suite) *Report {
	report := &Report{Suite: s.Name}
	log := logrus.WithField("suite", s.Name)

	if s.Setup != nil {
		if err := s.Setup(ctx); err != nil {
			log.WithError(err).Error("suite setup failed")
			report.SetupErr = err
			for _, c := range s.Cases {
				report.Results = append(report.Results, Result{Case: c.Name, Outcome: Skipped})
			}
			return report
		}
	}

	for _, c := range s.Cases {
		res := runCase(ctx, c)
		log.WithFields(logrus.Fields{
			"case":     c.Name,
			"outcome":  res.Outcome.String(),
			"duration": res.Duration,
		}).Info("case finished")
		report.Results = append(report.Results, res)
	}

	return report
}

func runCase(ctx context.Context, c Case) Result {
	t := newT(ctx, c.Name)
	start := time.Now()
	t.run(c.Run)

	res := Result{
		Case:     c.Name,
		Messages: t.Messages(),
		Duration: time.Since(start),
	}

	switch {
	case c.ExpectFailure && t.Failed():
		res.Outcome = ExpectedFailure
	case c.ExpectFailure:
		res.Outcome = UnexpectedSuccess
	case t.Failed():
		res.Outcome = Fail
	default:
		res.Outcome = Pass
	}

	return res
}

// TestingT is the part of testing.TB used by ExpectFailure.
type TestingT interface {
	Helper()
	Errorf(format string, args ...interface{})
	Logf(format string, args ...interface{})
}

// ExpectFailure runs fn and reports an error on t only if fn does not fail.
// It gives expected failure semantics to go test.
func ExpectFailure(t TestingT, fn func(t *T)) bool {
	t.Helper()

	ctx := context.Background()
	if c, ok := t.(interface{ Context() context.Context }); ok {
		ctx = c.Context()
	}

	name := "expected failure"
	if n, ok := t.(interface{ Name() string }); ok {
		name = n.Name()
	}

	rec := newT(ctx, name)
	rec.run(fn)

	if !rec.Failed() {
		t.Errorf("expected failure, but the case succeeded")
		return false
	}

	for _, m := range rec.Messages() {
		t.Logf("expected failure: %s", m)
	}
	return true
}
