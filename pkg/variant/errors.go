package variant

import "fmt"

// LexicalError reports a lexical form outside the lexical space of a kind.
type LexicalError struct {
	Err     error
	Lexical string
	Kind    Kind
}

// Error returns the formatted error message.
func (e *LexicalError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("variant: invalid %s value %q", e.Kind, e.Lexical)
	}
	return fmt.Sprintf("variant: invalid %s value %q: %v", e.Kind, e.Lexical, e.Err)
}

// Unwrap returns the underlying cause.
func (e *LexicalError) Unwrap() error {
	return e.Err
}
