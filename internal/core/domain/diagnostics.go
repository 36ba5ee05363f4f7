package domain

import (
	"fmt"
	"sync"
)

// ExtractionWarning is a recoverable, per-field or per-section problem.
type ExtractionWarning struct {
	Section Section `json:"section"`
	Bureau  Bureau  `json:"bureau,omitempty"`
	Reason  string  `json:"reason"`
}

// String renders the warning as "<section>[<bureau>]: <reason>".
func (w ExtractionWarning) String() string {
	if w.Bureau == "" {
		return fmt.Sprintf("%s: %s", w.Section, w.Reason)
	}
	return fmt.Sprintf("%s[%s]: %s", w.Section, w.Bureau, w.Reason)
}

// Diagnostics accumulates warnings and section failures for one document.
// It is created per parse, passed by reference into every stage, and merged
// into the report at assembly. Safe for the concurrent bureau extractors.
type Diagnostics struct {
	mu       sync.Mutex
	warnings []ExtractionWarning
	failures []*ExtractionFailedError
}

// NewDiagnostics creates an empty accumulator.
func NewDiagnostics() *Diagnostics {
	return &Diagnostics{}
}

// Warn records a recoverable problem.
func (d *Diagnostics) Warn(section Section, bureau Bureau, format string, args ...any) {
	w := ExtractionWarning{Section: section, Bureau: bureau, Reason: fmt.Sprintf(format, args...)}
	d.mu.Lock()
	d.warnings = append(d.warnings, w)
	d.mu.Unlock()
}

// Fail records that a section (optionally for one bureau) could not be extracted.
func (d *Diagnostics) Fail(section Section, bureau Bureau, err error) {
	f := &ExtractionFailedError{Section: section, Bureau: bureau, Err: err}
	d.mu.Lock()
	d.failures = append(d.failures, f)
	d.mu.Unlock()
}

// Warnings returns a copy of the recorded warnings.
func (d *Diagnostics) Warnings() []ExtractionWarning {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]ExtractionWarning, len(d.warnings))
	copy(out, d.warnings)
	return out
}

// Failures returns a copy of the recorded section failures.
func (d *Diagnostics) Failures() []*ExtractionFailedError {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]*ExtractionFailedError, len(d.failures))
	copy(out, d.failures)
	return out
}

// Partial returns true if any section failure was recorded.
func (d *Diagnostics) Partial() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.failures) > 0
}

// Messages renders failures first, then warnings, as report warning strings.
func (d *Diagnostics) Messages() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, 0, len(d.failures)+len(d.warnings))
	for _, f := range d.failures {
		out = append(out, f.Error())
	}
	for _, w := range d.warnings {
		out = append(out, w.String())
	}
	return out
}
