package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethanbaker/intake/internal/api"
	"github.com/ethanbaker/intake/internal/monitor"
	"github.com/ethanbaker/intake/internal/sheets"
	"github.com/ethanbaker/intake/pkg/utils"
)

// Start the API server
func main() {
	// Load global config
	cfg := utils.NewConfigFromEnv(utils.EnvFile())
	if path := cfg.Get("CONFIG_FILE"); path != "" {
		if err := cfg.LoadYAML(path); err != nil {
			log.Fatalf("[API-MAIN]: %v", err)
		}
	}

	service, err := newSheetService(cfg)
	if err != nil {
		log.Fatalf("[API-MAIN]: Failed to configure Google Sheets: %v", err)
	}

	// Optionally refuse to start when the sheet cannot be reached
	if cfg.GetBool("SHEET_VERIFY_ON_START") && !service.VerifyConnection(context.Background()) {
		log.Fatalf("[API-MAIN]: Could not verify the Google Sheets connection at startup")
	}

	deps := api.Dependencies{Sheet: service}

	// Optional scheduled connection checks
	if schedule := cfg.Get("SHEET_CHECK_SCHEDULE"); schedule != "" {
		mon, err := monitor.New(service, schedule)
		if err != nil {
			log.Fatalf("[API-MAIN]: %v", err)
		}
		mon.Start()
		defer mon.Stop()

		deps.Monitor = mon
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := api.Start(ctx, cfg, deps); err != nil {
		log.Printf("[API-MAIN]: Server stopped: %v", err)
	}
}

// newSheetService wires the append service to the configured backend. Credentials
// are validated eagerly so a misconfigured deployment fails at startup
func newSheetService(cfg *utils.Config) (*sheets.Service, error) {
	settings := sheets.Settings{
		SheetID:   cfg.Get("SHEET_ID"),
		SheetName: cfg.GetWithDefault("SHEET_NAME", sheets.DefaultSheetName),
		Timeout:   cfg.GetDurationWithDefault("SHEETS_TIMEOUT", sheets.DefaultTimeout),
	}

	switch backend := cfg.GetWithDefault("SHEETS_BACKEND", "google"); backend {
	case "memory":
		if settings.SheetID == "" {
			settings.SheetID = "local"
		}

		provider := sheets.NewMemoryProvider()
		provider.AddWorksheet(settings.SheetID, settings.SheetName)

		settings.Credentials = localCredentials()

		log.Printf("[API-MAIN]: Using in-memory sheet %q/%q; rows are not persisted", settings.SheetID, settings.SheetName)
		return sheets.NewService(provider, settings), nil

	case "google":
		creds, err := sheets.LoadCredentials(cfg)
		if err != nil {
			return nil, err
		}
		if settings.SheetID == "" {
			return nil, errors.New("SHEET_ID not set in environment")
		}
		settings.Credentials = creds

		provider := &sheets.GoogleProvider{
			Endpoint: cfg.Get("SHEETS_ENDPOINT"),
		}
		return sheets.NewService(provider, settings), nil

	default:
		return nil, errors.New("unknown SHEETS_BACKEND " + backend)
	}
}

// localCredentials are placeholders; the in-memory backend never uses key material
func localCredentials() sheets.Credentials {
	return sheets.Credentials{
		Type:                    sheets.DefaultAccountType,
		ProjectID:               "local",
		PrivateKeyID:            "local",
		PrivateKey:              "local",
		ClientEmail:             "local@localhost",
		ClientID:                "local",
		AuthURI:                 sheets.DefaultAuthURI,
		TokenURI:                sheets.DefaultTokenURI,
		AuthProviderX509CertURL: sheets.DefaultProviderCertURL,
		ClientX509CertURL:       "local",
	}
}
