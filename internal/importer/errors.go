package importer

import "fmt"

// RenderError reports a chunk whose statement could not be rendered.
type RenderError struct {
	Seq   int
	Rows  int
	Cause interface{}
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render batch %d (%d regions): %v", e.Seq, e.Rows, e.Cause)
}

// Unwrap exposes the cause when the render step failed with an error value.
func (e *RenderError) Unwrap() error {
	if err, ok := e.Cause.(error); ok {
		return err
	}
	return nil
}
