package sheets

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ethanbaker/intake/pkg/utils"
)

const (
	DefaultAccountType     = "service_account"
	DefaultAuthURI         = "https://accounts.google.com/o/oauth2/auth"
	DefaultTokenURI        = "https://oauth2.googleapis.com/token"
	DefaultProviderCertURL = "https://www.googleapis.com/oauth2/v1/certs"
)

// Credentials mirrors a Google service-account key file
type Credentials struct {
	Type                    string `json:"type"`
	ProjectID               string `json:"project_id"`
	PrivateKeyID            string `json:"private_key_id"`
	PrivateKey              string `json:"private_key"`
	ClientEmail             string `json:"client_email"`
	ClientID                string `json:"client_id"`
	AuthURI                 string `json:"auth_uri"`
	TokenURI                string `json:"token_uri"`
	AuthProviderX509CertURL string `json:"auth_provider_x509_cert_url"`
	ClientX509CertURL       string `json:"client_x509_cert_url"`
}

// LoadCredentials builds service-account credentials from the config. A key file
// named by GOOGLE_APPLICATION_CREDENTIALS_FILE is read first and GOOGLE_* keys
// override its fields. The returned credentials are always populated as far as
// possible; a *CredentialError lists every required field still missing
func LoadCredentials(cfg *utils.Config) (Credentials, error) {
	var creds Credentials

	if path := cfg.Get("GOOGLE_APPLICATION_CREDENTIALS_FILE"); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return creds, &CredentialError{Err: fmt.Errorf("failed to read credentials file: %w", err)}
		}
		if err := json.Unmarshal(b, &creds); err != nil {
			return creds, &CredentialError{Err: fmt.Errorf("failed to parse credentials file: %w", err)}
		}
	}

	override := func(dst *string, key string) {
		if v := cfg.Get(key); v != "" {
			*dst = v
		}
	}
	override(&creds.Type, "GOOGLE_ACCOUNT_TYPE")
	override(&creds.ProjectID, "GOOGLE_PROJECT_ID")
	override(&creds.PrivateKeyID, "GOOGLE_PRIVATE_KEY_ID")
	override(&creds.PrivateKey, "GOOGLE_PRIVATE_KEY")
	override(&creds.ClientEmail, "GOOGLE_CLIENT_EMAIL")
	override(&creds.ClientID, "GOOGLE_CLIENT_ID")
	override(&creds.AuthURI, "GOOGLE_AUTH_URI")
	override(&creds.TokenURI, "GOOGLE_TOKEN_URI")
	override(&creds.AuthProviderX509CertURL, "GOOGLE_AUTH_PROVIDER_CERT_URL")
	override(&creds.ClientX509CertURL, "GOOGLE_CLIENT_CERT_URL")

	creds = creds.withDefaults()

	if missing := creds.Missing(); len(missing) > 0 {
		return creds, &CredentialError{Missing: missing}
	}
	return creds, nil
}

// withDefaults fills the fixed Google endpoints and unescapes the private key
func (c Credentials) withDefaults() Credentials {
	if c.Type == "" {
		c.Type = DefaultAccountType
	}
	if c.AuthURI == "" {
		c.AuthURI = DefaultAuthURI
	}
	if c.TokenURI == "" {
		c.TokenURI = DefaultTokenURI
	}
	if c.AuthProviderX509CertURL == "" {
		c.AuthProviderX509CertURL = DefaultProviderCertURL
	}
	c.PrivateKey = UnescapePrivateKey(c.PrivateKey)
	return c
}

// Missing returns the JSON names of every required field that is empty
func (c Credentials) Missing() []string {
	required := []struct {
		name  string
		value string
	}{
		{"type", c.Type},
		{"project_id", c.ProjectID},
		{"private_key_id", c.PrivateKeyID},
		{"private_key", c.PrivateKey},
		{"client_email", c.ClientEmail},
		{"client_id", c.ClientID},
		{"auth_uri", c.AuthURI},
		{"token_uri", c.TokenURI},
		{"auth_provider_x509_cert_url", c.AuthProviderX509CertURL},
		{"client_x509_cert_url", c.ClientX509CertURL},
	}

	var missing []string
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// JSON encodes the credentials in the service-account key file format
func (c Credentials) JSON() ([]byte, error) {
	return json.Marshal(c)
}

// UnescapePrivateKey turns literal "\n" sequences, as found in single-line
// environment values, into real newlines
func UnescapePrivateKey(key string) string {
	return strings.ReplaceAll(key, `\n`, "\n")
}
