package facets

import (
	"errors"
	"fmt"

	xsderrors "github.com/jacoelho/xsdcorpus/errors"
)

// FacetError reports a facet that could not be applied, or a value that
// violates the type's facets.
type FacetError struct {
	Err   error
	Rule  xsderrors.ErrorCode
	Facet string
	Value string
}

func (e *FacetError) Error() string {
	msg := fmt.Sprintf("%s: facet %s", e.Rule, e.Facet)
	if e.Value != "" {
		msg += fmt.Sprintf(" value %q", e.Value)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FacetError) Unwrap() error {
	return e.Err
}

func facetErr(rule xsderrors.ErrorCode, facet, value string, format string, args ...any) *FacetError {
	return &FacetError{Rule: rule, Facet: facet, Value: value, Err: fmt.Errorf(format, args...)}
}

// restrictionRule names the "<facet>-valid-restriction" constraint.
func restrictionRule(facet string) xsderrors.ErrorCode {
	return xsderrors.ErrorCode(facet + "-valid-restriction")
}

// Errors flattens an error returned by a Validator setter into its facet
// errors, in the order they were detected.
func Errors(err error) []*FacetError {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []*FacetError
		for _, e := range joined.Unwrap() {
			out = append(out, Errors(e)...)
		}
		return out
	}
	var fe *FacetError
	if errors.As(err, &fe) {
		return []*FacetError{fe}
	}
	return []*FacetError{{Rule: xsderrors.ErrFacetViolation, Err: err}}
}
