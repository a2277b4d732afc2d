// Package sheets appends submissions to a worksheet of a remote spreadsheet.
// Every operation re-authorizes and re-resolves the worksheet, so nothing about
// the connection is cached between calls and a Service is safe for concurrent use.
package sheets

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/ethanbaker/intake/internal/submission"
)

const (
	DefaultSheetName = "Submissions"
	DefaultTimeout   = 10 * time.Second
)

// Settings identifies the worksheet submissions are written to
type Settings struct {
	Credentials Credentials
	SheetID     string
	SheetName   string
	Timeout     time.Duration // Bound on a whole verify or append operation
}

// Service appends submission records to the configured worksheet
type Service struct {
	provider Provider
	settings Settings
}

// NewService creates a Service, filling defaults for the sheet name and timeout
func NewService(provider Provider, settings Settings) *Service {
	if settings.SheetName == "" {
		settings.SheetName = DefaultSheetName
	}
	if settings.Timeout <= 0 {
		settings.Timeout = DefaultTimeout
	}

	return &Service{
		provider: provider,
		settings: settings,
	}
}

// SheetName returns the worksheet the service writes to
func (s *Service) SheetName() string {
	return s.settings.SheetName
}

// Verify authorizes, opens the spreadsheet and resolves the worksheet
func (s *Service) Verify(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.settings.Timeout)
	defer cancel()

	_, err := s.worksheet(ctx)
	return err
}

// Append re-verifies the connection and appends exactly one row for the record
func (s *Service) Append(ctx context.Context, rec submission.Record) error {
	ctx, cancel := context.WithTimeout(ctx, s.settings.Timeout)
	defer cancel()

	ws, err := s.worksheet(ctx)
	if err != nil {
		return err
	}

	if err := ws.AppendRow(ctx, rec.Row()); err != nil {
		return &ConnectionError{Op: "append", Err: err}
	}
	return nil
}

// VerifyConnection reports whether the worksheet is reachable. Failures are logged
func (s *Service) VerifyConnection(ctx context.Context) bool {
	if err := s.Verify(ctx); err != nil {
		log.Printf("[SHEETS]: Connection check failed: %v", err)
		return false
	}
	return true
}

// AppendSubmission reports whether the record was written. Failures are logged
func (s *Service) AppendSubmission(ctx context.Context, rec submission.Record) bool {
	if err := s.Append(ctx, rec); err != nil {
		log.Printf("[SHEETS]: Failed to append submission %s: %v", rec.ID, err)
		return false
	}
	return true
}

func (s *Service) worksheet(ctx context.Context) (Worksheet, error) {
	if missing := s.settings.Credentials.Missing(); len(missing) > 0 {
		return nil, &CredentialError{Missing: missing}
	}
	if s.settings.SheetID == "" {
		return nil, &ConnectionError{Op: "open", Err: errors.New("no spreadsheet id configured")}
	}

	client, err := s.provider.Authorize(ctx, s.settings.Credentials)
	if err != nil {
		var credErr *CredentialError
		if errors.As(err, &credErr) {
			return nil, credErr
		}
		return nil, &ConnectionError{Op: "authorize", Err: err}
	}

	sheet, err := client.OpenByKey(ctx, s.settings.SheetID)
	if err != nil {
		return nil, &ConnectionError{Op: "open", Err: err}
	}

	ws, err := sheet.Worksheet(ctx, s.settings.SheetName)
	if err != nil {
		return nil, &ConnectionError{Op: "worksheet", Err: err}
	}
	return ws, nil
}
