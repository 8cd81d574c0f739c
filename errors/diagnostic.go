package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Severity ranks a diagnostic.
type Severity uint8

const (
	SeverityWarning Severity = iota
	SeverityError
	SeverityFatal
)

// String returns the lower-case severity label.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Diagnostic is one structured compile-time finding.
//
//nolint:errname // public API name uses XSD domain term.
type Diagnostic struct {
	Code     ErrorCode
	Message  string
	SystemID string
	Line     int
	Column   int
	Severity Severity
}

// NewDiagnostic builds an error-severity diagnostic.
func NewDiagnostic(code ErrorCode, systemID string, line int, msg string) Diagnostic {
	return Diagnostic{Code: code, Message: msg, SystemID: systemID, Line: line, Severity: SeverityError}
}

// NewDiagnosticf formats a message and builds an error-severity diagnostic.
func NewDiagnosticf(code ErrorCode, systemID string, line int, format string, args ...any) Diagnostic {
	return NewDiagnostic(code, systemID, line, fmt.Sprintf(format, args...))
}

// IsFatal reports whether the diagnostic aborts compilation.
func (d Diagnostic) IsFatal() bool {
	return d.Severity == SeverityFatal
}

// Error formats the diagnostic for display.
func (d Diagnostic) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", d.Code, d.Message)
	switch {
	case d.SystemID != "" && d.Line > 0:
		fmt.Fprintf(&b, " at %s:%d", d.SystemID, d.Line)
	case d.SystemID != "":
		fmt.Fprintf(&b, " at %s", d.SystemID)
	case d.Line > 0:
		fmt.Fprintf(&b, " at line %d", d.Line)
	}
	if d.Column > 0 && d.Line > 0 {
		fmt.Fprintf(&b, ", column %d", d.Column)
	}
	return b.String()
}

// DiagnosticList is an error that wraps one or more diagnostics.
type DiagnosticList []Diagnostic //nolint:errname // public API name.

// Error returns a compact summary of the diagnostics.
func (l DiagnosticList) Error() string {
	switch len(l) {
	case 0:
		return "no diagnostics"
	case 1:
		return l[0].Error()
	default:
		return fmt.Sprintf("%s (and %d more)", l[0].Error(), len(l)-1)
	}
}

// Codes returns the code of every diagnostic in order.
func (l DiagnosticList) Codes() []ErrorCode {
	out := make([]ErrorCode, len(l))
	for i, d := range l {
		out[i] = d.Code
	}
	return out
}

// WithCode returns the diagnostics carrying code.
func (l DiagnosticList) WithCode(code ErrorCode) DiagnosticList {
	var out DiagnosticList
	for _, d := range l {
		if d.Code == code {
			out = append(out, d)
		}
	}
	return out
}

// AsDiagnostics extracts diagnostics from an error returned by the compiler.
func AsDiagnostics(err error) (DiagnosticList, bool) {
	if err == nil {
		return nil, false
	}
	var list DiagnosticList
	if errors.As(err, &list) {
		return list, true
	}
	var compileErr *CompileError
	if errors.As(err, &compileErr) {
		return DiagnosticList{compileErr.Diagnostic}, true
	}
	var d Diagnostic
	if errors.As(err, &d) {
		return DiagnosticList{d}, true
	}
	return nil, false
}
