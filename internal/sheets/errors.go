package sheets

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSpreadsheetNotFound is returned when the configured spreadsheet id does not resolve
	ErrSpreadsheetNotFound = errors.New("spreadsheet not found")

	// ErrWorksheetNotFound is returned when the spreadsheet has no tab with the configured name
	ErrWorksheetNotFound = errors.New("worksheet not found")
)

// CredentialError reports missing or unusable service-account credentials
type CredentialError struct {
	Missing []string // Names of the required fields that were empty
	Err     error    // Underlying parse error, if any
}

func (e *CredentialError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("missing service account credentials: %s", strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("invalid service account credentials: %v", e.Err)
}

func (e *CredentialError) Unwrap() error {
	return e.Err
}

// ConnectionError reports a failure talking to the spreadsheet provider
type ConnectionError struct {
	Op  string // authorize, open, worksheet or append
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("sheets %s failed: %v", e.Op, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}
