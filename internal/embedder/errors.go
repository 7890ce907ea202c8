package embedder

import "fmt"

// Error reports a fatal embedding failure for the sentence range [Start,
// End) after the batch's halved retry was also exhausted.
type Error struct {
	Start, End int
	Cause      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("embedder: sentences [%d:%d): %v", e.Start, e.End, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }
