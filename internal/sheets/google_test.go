package sheets

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSheetsAPI serves the token endpoint and the subset of the Sheets v4 API
// the Google provider uses
type fakeSheetsAPI struct {
	mu         sync.Mutex
	tabs       map[string][]string
	appended   [][]any
	ranges     []string
	inputOpts  []string
	tokenCalls int
}

func (f *fakeSheetsAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.URL.Path == "/token":
		f.tokenCalls++
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "test-token",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})

	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/v4/spreadsheets/"):
		id := strings.TrimPrefix(r.URL.Path, "/v4/spreadsheets/")
		tabs, ok := f.tabs[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"code": 404, "message": "Requested entity was not found.", "status": "NOT_FOUND"},
			})
			return
		}

		sheets := []map[string]any{}
		for i, tab := range tabs {
			sheets = append(sheets, map[string]any{"properties": map[string]any{"sheetId": i, "title": tab}})
		}
		json.NewEncoder(w).Encode(map[string]any{"spreadsheetId": id, "sheets": sheets})

	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, ":append"):
		if r.Header.Get("Authorization") != "Bearer test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		var body struct {
			Values [][]any `json:"values"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		rng := strings.TrimSuffix(r.URL.Path[strings.Index(r.URL.Path, "/values/")+len("/values/"):], ":append")
		f.ranges = append(f.ranges, rng)
		f.inputOpts = append(f.inputOpts, r.URL.Query().Get("valueInputOption"))
		f.appended = append(f.appended, body.Values...)
		json.NewEncoder(w).Encode(map[string]any{
			"spreadsheetId": testSheetID,
			"updates":       map[string]any{"updatedRows": len(body.Values)},
		})

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func testPrivateKey(t *testing.T) string {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	der, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)

	return string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}))
}

func newGoogleService(t *testing.T, api *fakeSheetsAPI, settings Settings) *Service {
	t.Helper()

	server := httptest.NewServer(api)
	t.Cleanup(server.Close)

	creds := testCredentials()
	creds.PrivateKey = testPrivateKey(t)
	creds.TokenURI = server.URL + "/token"

	settings.Credentials = creds
	if settings.SheetID == "" {
		settings.SheetID = testSheetID
	}

	provider := &GoogleProvider{HTTPClient: server.Client(), Endpoint: server.URL + "/"}
	return NewService(provider, settings)
}

func TestGoogleProviderAppend(t *testing.T) {
	api := &fakeSheetsAPI{tabs: map[string][]string{testSheetID: {"Other", DefaultSheetName}}}
	service := newGoogleService(t, api, Settings{})

	at := time.Date(2024, 1, 1, 12, 0, 0, 0, time.Local)
	require.NoError(t, service.Append(context.Background(), adaRecord(at)))

	api.mu.Lock()
	defer api.mu.Unlock()

	require.Len(t, api.appended, 1)
	assert.Equal(t, []any{
		"Ada",
		"ada@x.com",
		"https://github.com/ada",
		"https://linkedin.com/in/ada",
		"https://twitter.com/ada",
		"2024-01-01 12:00:00",
	}, api.appended[0])
	assert.Equal(t, []string{"'Submissions'!A1"}, api.ranges)
	assert.Equal(t, []string{"RAW"}, api.inputOpts)
	assert.GreaterOrEqual(t, api.tokenCalls, 1)
}

func TestGoogleProviderVerify(t *testing.T) {
	api := &fakeSheetsAPI{tabs: map[string][]string{testSheetID: {DefaultSheetName}}}

	t.Run("connected", func(t *testing.T) {
		service := newGoogleService(t, api, Settings{})
		assert.True(t, service.VerifyConnection(context.Background()))
	})

	t.Run("unknown spreadsheet", func(t *testing.T) {
		service := newGoogleService(t, api, Settings{SheetID: "missing"})
		err := service.Verify(context.Background())
		assert.ErrorIs(t, err, ErrSpreadsheetNotFound)
	})

	t.Run("unknown worksheet", func(t *testing.T) {
		service := newGoogleService(t, api, Settings{SheetName: "Archive"})
		err := service.Verify(context.Background())
		assert.ErrorIs(t, err, ErrWorksheetNotFound)
	})
}

func TestGoogleProviderUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	creds := testCredentials()
	creds.PrivateKey = testPrivateKey(t)
	creds.TokenURI = url + "/token"

	service := NewService(&GoogleProvider{Endpoint: url + "/"}, Settings{
		Credentials: creds,
		SheetID:     testSheetID,
		Timeout:     2 * time.Second,
	})

	assert.False(t, service.AppendSubmission(context.Background(), adaRecord(time.Now())))

	var connErr *ConnectionError
	require.True(t, errors.As(service.Append(context.Background(), adaRecord(time.Now())), &connErr))
}

func TestGoogleProviderRejectsNonServiceAccount(t *testing.T) {
	creds := testCredentials()
	creds.Type = "authorized_user"

	_, err := (&GoogleProvider{}).Authorize(context.Background(), creds)

	var credErr *CredentialError
	assert.True(t, errors.As(err, &credErr))
}

func TestA1Range(t *testing.T) {
	assert.Equal(t, "'Submissions'!A1", a1Range("Submissions"))
	assert.Equal(t, "'Ada''s tab'!A1", a1Range("Ada's tab"))
}
