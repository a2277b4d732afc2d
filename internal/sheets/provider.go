package sheets

import "context"

// Provider authorizes access to a spreadsheet backend
type Provider interface {
	Authorize(ctx context.Context, creds Credentials) (Client, error)
}

// Client is an authorized handle on the backend
type Client interface {
	OpenByKey(ctx context.Context, sheetID string) (Spreadsheet, error)
}

// Spreadsheet is a single opened spreadsheet
type Spreadsheet interface {
	Worksheet(ctx context.Context, name string) (Worksheet, error)
}

// Worksheet is a named tab that rows are appended to
type Worksheet interface {
	AppendRow(ctx context.Context, values []any) error
}
