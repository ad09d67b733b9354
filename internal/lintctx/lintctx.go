// Package lintctx provides the explicit context object threaded through
// every phase of a lint run, replacing the global mutable state (API
// version, logger) the original tooling relied on (spec.md §9).
package lintctx

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/armon/circbuf"
)

// APIGeneration identifies which DSF process-plugin API a manifest targets.
type APIGeneration int

const (
	// APIUnknown is the zero value, used before discovery completes.
	APIUnknown APIGeneration = iota
	APIv1
	APIv2
)

// String returns "v1", "v2", or "unknown".
func (g APIGeneration) String() string {
	switch g {
	case APIv1:
		return "v1"
	case APIv2:
		return "v2"
	default:
		return "unknown"
	}
}

// Level is a log level for Channel.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Channel receives diagnostic output from the lint pipeline. Implementations
// map to environment-specific UX (CLI stderr, embedding application logs).
type Channel interface {
	Log(level Level, msg string)
	Progress(phase string, pct int) // -1 = indeterminate
	Warn(msg string)
}

// StdChannel is a Channel backed by the standard library logger, the
// teacher's own default when no richer UI is wired up.
type StdChannel struct {
	Logger *log.Logger
}

// NewStdChannel creates a StdChannel writing through log.Default.
func NewStdChannel() *StdChannel {
	return &StdChannel{Logger: log.Default()}
}

func (c *StdChannel) Log(level Level, msg string) {
	prefix := [...]string{"DEBUG", "INFO", "WARN", "ERROR"}[level]
	c.Logger.Printf("[%s] %s", prefix, msg)
}

func (c *StdChannel) Progress(phase string, pct int) {
	if pct < 0 {
		c.Logger.Printf("[progress] %s: running", phase)
		return
	}
	c.Logger.Printf("[progress] %s: %d%%", phase, pct)
}

func (c *StdChannel) Warn(msg string) {
	c.Logger.Printf("[WARN] %s", msg)
}

// NopChannel discards everything. Used when a caller passes no Channel.
type NopChannel struct{}

func (NopChannel) Log(Level, string)    {}
func (NopChannel) Progress(string, int) {}
func (NopChannel) Warn(string)          {}

// FatalError is a typed failure that aborts a lint run before any report
// body is produced (spec.md §7: archive missing/unreadable, no manifest,
// multiple manifests of the same generation, invalid API version).
type FatalError struct {
	Kind    string
	Message string
}

func (e *FatalError) Error() string {
	return e.Kind + ": " + e.Message
}

// Known fatal kinds, named per spec.md §4.2 and §7.
const (
	FatalMissingServiceRegistration = "MissingServiceRegistration"
	FatalMultipleManifestsFound     = "MultipleManifestsFound"
	FatalInvalidAPIVersion          = "InvalidApiVersion"
	FatalArchiveUnreadable          = "ArchiveUnreadable"
)

// panicRing caps the diagnostic history of recovered rule-evaluation panics
// (spec.md §7: "any exception during evaluation is converted into an
// internal RuleEvaluationFailed item"). Bounded so a pathological run that
// panics repeatedly cannot grow memory unboundedly.
type panicRing struct {
	mu  sync.Mutex
	buf *circbuf.Buffer
}

func newPanicRing(limit int) *panicRing {
	b, err := circbuf.NewBuffer(int64(limit))
	if err != nil {
		return &panicRing{}
	}
	return &panicRing{buf: b}
}

func (r *panicRing) record(msg string) {
	if r.buf == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = r.buf.Write([]byte(msg + "\n"))
}

// History returns the retained tail of recorded panic messages.
func (r *panicRing) History() string {
	if r.buf == nil {
		return ""
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.String()
}

// defaultPanicRingBytes bounds recovered-panic history to a modest size;
// a lint run that panics enough to fill this has bigger problems than
// losing old entries.
const defaultPanicRingBytes = 16 * 1024

// Context is the explicit state threaded through every lint phase
// (spec.md §9's LintContext{apiGeneration, logger, deadline, cache}).
// Cache is owned by the resolver (internal/resolve); Context only carries
// the deadline and logging/diagnostic plumbing common to every phase.
type Context struct {
	APIGeneration APIGeneration
	Channel       Channel
	Deadline      time.Time // zero means no deadline

	panics *panicRing
}

// New creates a Context with no deadline and a Nop channel. Use With* to
// customize before a run.
func New() *Context {
	return &Context{Channel: NopChannel{}, panics: newPanicRing(defaultPanicRingBytes)}
}

// WithChannel returns a copy of c with the given Channel.
func (c *Context) WithChannel(ch Channel) *Context {
	cp := *c
	cp.Channel = ch
	return &cp
}

// WithDeadline returns a copy of c with the given deadline.
func (c *Context) WithDeadline(d time.Time) *Context {
	cp := *c
	cp.Deadline = d
	return &cp
}

// GoContext returns a standard context.Context that cancels at Deadline (if
// set), suitable for passing to I/O boundaries such as resolver
// materialisation (spec.md §5: only I/O boundaries may block or be
// cancelled; rule evaluation itself never blocks).
func (c *Context) GoContext(parent context.Context) (context.Context, context.CancelFunc) {
	if c.Deadline.IsZero() {
		return context.WithCancel(parent)
	}
	return context.WithDeadline(parent, c.Deadline)
}

// Expired reports whether the deadline has already passed.
func (c *Context) Expired() bool {
	return !c.Deadline.IsZero() && time.Now().After(c.Deadline)
}

// RecoverRule runs fn, converting any panic into a recorded diagnostic and
// returning ok=false so the caller can emit a RuleEvaluationFailed item
// (spec.md §7: "Rule evaluators never throw; any exception during
// evaluation is converted into an internal RuleEvaluationFailed item").
func (c *Context) RecoverRule(ruleName string, fn func()) (recovered string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			recovered = ruleNamePrefix(ruleName, r)
			if c.panics != nil {
				c.panics.record(recovered)
			}
			ok = false
		}
	}()
	fn()
	return "", true
}

func ruleNamePrefix(ruleName string, r any) string {
	return ruleName + ": panic: " + formatRecovered(r)
}

func formatRecovered(r any) string {
	if err, ok := r.(error); ok {
		return err.Error()
	}
	if s, ok := r.(string); ok {
		return s
	}
	return "non-error panic value"
}

// PanicHistory returns the retained tail of recovered panic diagnostics,
// for orchestrator-level post-mortems.
func (c *Context) PanicHistory() string {
	if c.panics == nil {
		return ""
	}
	return c.panics.History()
}
