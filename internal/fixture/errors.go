package fixture

import "fmt"

// LoadError reports a fixture that could not be loaded. It is scoped to a
// single fixture; the run continues and records the failure as a mismatch.
type LoadError struct {
	Fixture string
	Err     error
}

// Error formats the load failure with its fixture name.
func (e *LoadError) Error() string {
	return fmt.Sprintf("fixture %s: %v", e.Fixture, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *LoadError) Unwrap() error {
	return e.Err
}
