package errors

import pkgerrors "github.com/pkg/errors"

// CompileError is returned when a fatal diagnostic aborts compilation.
type CompileError struct {
	cause      error
	Diagnostic Diagnostic
}

// Fatal builds a CompileError for d, recording a stack trace at the call site.
func Fatal(d Diagnostic) *CompileError {
	d.Severity = SeverityFatal
	return &CompileError{Diagnostic: d, cause: pkgerrors.New(d.Error())}
}

// Fatalf builds a fatal diagnostic and wraps it as a CompileError.
func Fatalf(code ErrorCode, systemID string, line int, format string, args ...any) *CompileError {
	return Fatal(NewDiagnosticf(code, systemID, line, format, args...))
}

// WrapFatal builds a CompileError for d caused by err.
func WrapFatal(err error, d Diagnostic) *CompileError {
	d.Severity = SeverityFatal
	if d.Message == "" && err != nil {
		d.Message = err.Error()
	}
	return &CompileError{Diagnostic: d, cause: pkgerrors.Wrap(err, string(d.Code))}
}

// Error formats the fatal diagnostic.
func (e *CompileError) Error() string {
	return e.Diagnostic.Error()
}

// Unwrap returns the cause, which carries a stack trace.
func (e *CompileError) Unwrap() error {
	return e.cause
}

// Code returns the rule identifier of the fatal diagnostic.
func (e *CompileError) Code() ErrorCode {
	return e.Diagnostic.Code
}
