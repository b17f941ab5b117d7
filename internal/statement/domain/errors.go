package statement

import "errors"

var (
	// ErrNilStatement is returned when exporting a nil statement.
	ErrNilStatement = errors.New("statement: nil statement")
)
