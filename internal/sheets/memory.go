package sheets

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// MemoryProvider is an in-process spreadsheet backend. It backs local
// development (SHEETS_BACKEND=memory) and tests
type MemoryProvider struct {
	mu             sync.Mutex
	books          map[string]map[string][][]any
	authorizations int

	// Err, when set, is returned by Authorize to simulate an unreachable backend
	Err error
}

// NewMemoryProvider creates an empty in-memory backend
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{books: make(map[string]map[string][][]any)}
}

// AddWorksheet creates a spreadsheet and tab if they do not exist yet
func (p *MemoryProvider) AddWorksheet(sheetID, name string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.books == nil {
		p.books = make(map[string]map[string][][]any)
	}
	if p.books[sheetID] == nil {
		p.books[sheetID] = make(map[string][][]any)
	}
	if _, ok := p.books[sheetID][name]; !ok {
		p.books[sheetID][name] = [][]any{}
	}
}

// Rows returns a copy of every row appended to a tab, in insertion order
func (p *MemoryProvider) Rows(sheetID, name string) [][]any {
	p.mu.Lock()
	defer p.mu.Unlock()

	rows := p.books[sheetID][name]
	out := make([][]any, len(rows))
	for i, row := range rows {
		out[i] = slices.Clone(row)
	}
	return out
}

// Authorizations returns how many times Authorize has been called
func (p *MemoryProvider) Authorizations() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.authorizations
}

func (p *MemoryProvider) Authorize(ctx context.Context, creds Credentials) (Client, error) {
	p.mu.Lock()
	p.authorizations++
	p.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.Err != nil {
		return nil, p.Err
	}
	if missing := creds.Missing(); len(missing) > 0 {
		return nil, &CredentialError{Missing: missing}
	}
	return memoryClient{p}, nil
}

type memoryClient struct {
	p *MemoryProvider
}

func (c memoryClient) OpenByKey(_ context.Context, sheetID string) (Spreadsheet, error) {
	c.p.mu.Lock()
	defer c.p.mu.Unlock()

	if _, ok := c.p.books[sheetID]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrSpreadsheetNotFound, sheetID)
	}
	return memorySpreadsheet{p: c.p, sheetID: sheetID}, nil
}

type memorySpreadsheet struct {
	p       *MemoryProvider
	sheetID string
}

func (s memorySpreadsheet) Worksheet(_ context.Context, name string) (Worksheet, error) {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()

	if _, ok := s.p.books[s.sheetID][name]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrWorksheetNotFound, name)
	}
	return memoryWorksheet{p: s.p, sheetID: s.sheetID, name: name}, nil
}

type memoryWorksheet struct {
	p       *MemoryProvider
	sheetID string
	name    string
}

func (w memoryWorksheet) AppendRow(ctx context.Context, values []any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	w.p.mu.Lock()
	defer w.p.mu.Unlock()

	tab, ok := w.p.books[w.sheetID][w.name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrWorksheetNotFound, w.name)
	}
	w.p.books[w.sheetID][w.name] = append(tab, slices.Clone(values))
	return nil
}
