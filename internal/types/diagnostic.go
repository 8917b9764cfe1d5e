package types

import (
	"fmt"
	"slices"
	"strings"
)

// Severity ranks diagnostics. Lower values are more severe.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	}
	return fmt.Sprintf("severity(%d)", int(s))
}

// Diagnostic codes.
const (
	DiagHCL                 = "hcl"
	DiagPrivateBinding      = "private-binding"
	DiagDuplicateDefinition = "duplicate-definition"
	DiagUnknownPort         = "unknown-port"
	DiagUnconnectedPort     = "unconnected-port"
	DiagWidthMismatch       = "width-mismatch"
	DiagUnknownParamType    = "unknown-param-type"
)

// Diagnostic represents a non-fatal issue found while loading definitions.
type Diagnostic struct {
	Severity Severity
	Code     string // e.g. "unknown-port", "width-mismatch"
	Message  string
	File     string // source file, "" if not applicable
	Line     int    // 1-based line number, 0 if not applicable
}

// String returns a human-readable representation of the diagnostic.
// Format: "[severity] file:line: message" with location parts omitted when zero.
func (d Diagnostic) String() string {
	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(d.Severity.String())
	b.WriteString("] ")
	if d.File != "" {
		b.WriteString(d.File)
		if d.Line > 0 {
			fmt.Fprintf(&b, ":%d", d.Line)
		}
		b.WriteString(": ")
	}
	b.WriteString(d.Message)
	return b.String()
}

// DiagnosticConfig controls diagnostic filtering and the failure threshold.
type DiagnosticConfig struct {
	// FailAt sets the severity threshold for failure. If any reported
	// diagnostic has severity <= FailAt, loading fails.
	FailAt Severity

	// Overrides change severity for specific diagnostic codes.
	Overrides map[string]Severity

	// Ignore lists diagnostic codes to suppress entirely.
	// Supports glob patterns (e.g., "unconnected-*").
	Ignore []string
}

// DefaultConfig fails only on errors.
func DefaultConfig() DiagnosticConfig {
	return DiagnosticConfig{FailAt: SeverityError}
}

// StrictConfig fails on warnings too.
func StrictConfig() DiagnosticConfig {
	return DiagnosticConfig{FailAt: SeverityWarning}
}

// Apply filters and re-ranks d. It returns false if d is ignored.
func (c DiagnosticConfig) Apply(d *Diagnostic) bool {
	if slices.ContainsFunc(c.Ignore, func(pattern string) bool {
		return MatchGlob(pattern, d.Code)
	}) {
		return false
	}
	if override, ok := c.Overrides[d.Code]; ok {
		d.Severity = override
	}
	return true
}

// ShouldFail returns true if a diagnostic with the given severity should
// cause loading to fail.
func (c DiagnosticConfig) ShouldFail(sev Severity) bool {
	return sev <= c.FailAt
}

// MatchGlob performs simple glob matching with * wildcard.
func MatchGlob(pattern, s string) bool {
	if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
		return strings.HasPrefix(s, prefix)
	}
	if suffix, ok := strings.CutPrefix(pattern, "*"); ok {
		return strings.HasSuffix(s, suffix)
	}
	return pattern == s
}

// Collector accumulates diagnostics under a config.
type Collector struct {
	Config DiagnosticConfig
	diags  []Diagnostic
}

// Add records d unless the config ignores it.
func (c *Collector) Add(d Diagnostic) {
	if c.Config.Apply(&d) {
		c.diags = append(c.diags, d)
	}
}

// Diagnostics returns everything recorded so far.
func (c *Collector) Diagnostics() []Diagnostic { return slices.Clone(c.diags) }

// Failed returns the first diagnostic at or above the failure threshold.
func (c *Collector) Failed() (Diagnostic, bool) {
	for _, d := range c.diags {
		if c.Config.ShouldFail(d.Severity) {
			return d, true
		}
	}
	return Diagnostic{}, false
}
