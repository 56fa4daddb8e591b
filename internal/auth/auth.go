// Package auth produces an authorized HTTP client for the Drive API,
// either through the interactive OAuth flow with a locally cached
// token or from a service-account key file.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"drivebox/internal/config"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// GetClient returns an HTTP client whose requests carry authorization
// for the configured scopes. A configured service-account key file
// takes precedence over the interactive flow.
func GetClient(cfg *config.Config) (*http.Client, error) {
	if cfg.ServiceAccountFile != "" {
		return serviceAccountClient(cfg)
	}

	return oauthClient(cfg)
}

// serviceAccountClient authorizes from a service-account key file
// containing client_email and private_key.
func serviceAccountClient(cfg *config.Config) (*http.Client, error) {
	data, err := os.ReadFile(cfg.ServiceAccountFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read service account file: %w", err)
	}

	jwtConfig, err := google.JWTConfigFromJSON(data, cfg.Scopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service account file: %w", err)
	}

	return jwtConfig.Client(context.Background()), nil
}

// oauthClient authorizes through the user-assisted OAuth flow, reusing
// a cached token when one exists.
func oauthClient(cfg *config.Config) (*http.Client, error) {
	data, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file %s: %w", cfg.CredentialsFile, err)
	}

	oauthConfig, err := google.ConfigFromJSON(data, cfg.Scopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse credentials file: %w", err)
	}

	token, err := tokenFromFile(cfg.TokenFile)
	if err != nil {
		token, err = tokenFromWeb(oauthConfig)
		if err != nil {
			return nil, err
		}

		if err := saveToken(cfg.TokenFile, token); err != nil {
			return nil, err
		}
	}

	return oauthConfig.Client(context.Background(), token), nil
}

func tokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = f.Close()
	}()

	token := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(token); err != nil {
		return nil, fmt.Errorf("failed to parse cached token %s: %w", path, err)
	}

	return token, nil
}

// tokenFromWeb walks the user through the browser authorization flow
// and exchanges the pasted code for a token.
func tokenFromWeb(oauthConfig *oauth2.Config) (*oauth2.Token, error) {
	authURL := oauthConfig.AuthCodeURL("state-token", oauth2.AccessTypeOffline)

	fmt.Printf("Go to the following link in your browser then paste the authorization code:\n%v\n> ", authURL)

	var code string
	if _, err := fmt.Scan(&code); err != nil {
		return nil, fmt.Errorf("failed to read authorization code: %w", err)
	}

	token, err := oauthConfig.Exchange(context.Background(), code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	return token, nil
}

func saveToken(path string, token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to cache token: %w", err)
	}

	defer func() {
		_ = f.Close()
	}()

	if err := json.NewEncoder(f).Encode(token); err != nil {
		return fmt.Errorf("failed to write token: %w", err)
	}

	return nil
}
