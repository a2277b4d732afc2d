package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// GoogleProvider talks to the Google Sheets v4 API with service-account credentials
type GoogleProvider struct {
	// HTTPClient is the base client for token and API requests. Nil uses http.DefaultClient
	HTTPClient *http.Client

	// Endpoint overrides the Sheets API base URL (emulators and tests)
	Endpoint string
}

type googleClient struct {
	service *sheetsapi.Service
}

type googleSpreadsheet struct {
	service *sheetsapi.Service
	meta    *sheetsapi.Spreadsheet
}

type googleWorksheet struct {
	service *sheetsapi.Service
	sheetID string
	title   string
}

// Authorize builds a Sheets service authenticated as the service account
func (p *GoogleProvider) Authorize(ctx context.Context, creds Credentials) (Client, error) {
	b, err := creds.JSON()
	if err != nil {
		return nil, &CredentialError{Err: err}
	}

	config, err := google.JWTConfigFromJSON(b, sheetsapi.SpreadsheetsScope)
	if err != nil {
		return nil, &CredentialError{Err: fmt.Errorf("failed to parse service account: %w", err)}
	}

	if p.HTTPClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, p.HTTPClient)
	}

	opts := []option.ClientOption{option.WithHTTPClient(config.Client(ctx))}
	if p.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(p.Endpoint))
	}

	service, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &googleClient{service: service}, nil
}

// OpenByKey loads the spreadsheet's tab metadata
func (c *googleClient) OpenByKey(ctx context.Context, sheetID string) (Spreadsheet, error) {
	meta, err := c.service.Spreadsheets.Get(sheetID).Fields("spreadsheetId", "sheets.properties").Context(ctx).Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", ErrSpreadsheetNotFound, sheetID)
		}
		return nil, err
	}

	if meta.SpreadsheetId == "" {
		meta.SpreadsheetId = sheetID
	}
	return &googleSpreadsheet{service: c.service, meta: meta}, nil
}

// Worksheet resolves a tab by its exact title
func (s *googleSpreadsheet) Worksheet(_ context.Context, name string) (Worksheet, error) {
	for _, sheet := range s.meta.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == name {
			return &googleWorksheet{service: s.service, sheetID: s.meta.SpreadsheetId, title: name}, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrWorksheetNotFound, name)
}

// AppendRow writes the values after the last row of the tab, untouched by formula parsing
func (w *googleWorksheet) AppendRow(ctx context.Context, values []any) error {
	vr := &sheetsapi.ValueRange{
		MajorDimension: "ROWS",
		Values:         [][]interface{}{values},
	}

	_, err := w.service.Spreadsheets.Values.Append(w.sheetID, a1Range(w.title), vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	return err
}

// a1Range returns the first cell of a tab in A1 notation, quoting the title
func a1Range(title string) string {
	return fmt.Sprintf("'%s'!A1", strings.ReplaceAll(title, "'", "''"))
}
