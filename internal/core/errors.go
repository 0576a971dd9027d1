package core

import (
	"errors"
	"fmt"
)

var (
	// ErrNoFiles is returned when a preview call carries no files.
	ErrNoFiles = errors.New("no files provided")

	// ErrNoRecords is returned when a commit call carries no records.
	ErrNoRecords = errors.New("no records provided")

	// ErrOwnerUnresolved marks a row whose owner could neither be found nor created.
	ErrOwnerUnresolved = errors.New("Failed to create/find owner")
)

// FormatError reports a file that could not be read: unsupported extension,
// oversized content or unparseable data. It is scoped to one file.
type FormatError struct {
	FileName string
	Err      error
}

func (e *FormatError) Error() string {
	return e.Err.Error()
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// RowError reports a record that could not be committed. Row is 1-based.
type RowError struct {
	Row int
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("Row %d: %s", e.Row, e.Err.Error())
}

func (e *RowError) Unwrap() error {
	return e.Err
}
