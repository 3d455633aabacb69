package wine

import "fmt"

// ValidationError reports an input record that cannot be scored: a missing
// or non-numeric field, or a value outside its allowed domain. It is never
// silently defaulted away; callers decide how to surface it.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid field %q: %s", e.Field, e.Reason)
}
