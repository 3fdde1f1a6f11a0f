package quiz

import "errors"

var (
	// ErrInsufficientQuestions marks a selection that delivered fewer
	// questions than requested. Selection under-fills instead of failing;
	// the error is only surfaced through Selection.Err.
	ErrInsufficientQuestions = errors.New("insufficient questions for requested count")
	// ErrUnknownQuestion marks an answer keyed by an id outside the presented set.
	ErrUnknownQuestion = errors.New("answer references unknown question")
	// ErrMalformedProgress marks a progress aggregate whose totals are inconsistent.
	ErrMalformedProgress = errors.New("malformed progress state")
)
