package source

import "fmt"

// DecodeError is a zone that could not be mapped. The rest of the input is unaffected.
type DecodeError struct {
	// Index is the position of the zone in the input, starting at 0.
	Index int
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode zone %d: %v", e.Index, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
