package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"stock-research-api/internal/api/config"
	"stock-research-api/pkg/logger"
)

// firebaseAuthRepository verifies client ID tokens through the Identity
// Toolkit REST API. The user store itself is opaque to this service; only the
// token-to-userID resolution is consumed.
type firebaseAuthRepository struct {
	cfg        *config.Config
	log        *logger.Logger
	httpClient *http.Client
}

// NewFirebaseAuthRepository creates the token verification client.
func NewFirebaseAuthRepository(cfg *config.Config, log *logger.Logger) AuthRepository {
	return &firebaseAuthRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type accountsLookupResponse struct {
	Users []struct {
		LocalID string `json:"localId"`
	} `json:"users"`
}

// VerifyIDToken resolves an ID token to its user ID, or fails for invalid or
// expired tokens.
func (r *firebaseAuthRepository) VerifyIDToken(ctx context.Context, idToken string) (string, error) {
	if idToken == "" {
		return "", fmt.Errorf("missing ID token")
	}
	if r.cfg.Firebase.WebAPIKey == "" {
		return "", fmt.Errorf("firebase web API key is not configured")
	}

	reqBody, err := json.Marshal(map[string]string{"idToken": idToken})
	if err != nil {
		return "", fmt.Errorf("failed to marshal lookup request: %w", err)
	}

	lookupURL := fmt.Sprintf("https://identitytoolkit.googleapis.com/v1/accounts:lookup?key=%s", r.cfg.Firebase.WebAPIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, lookupURL, bytes.NewBuffer(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to create lookup request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to verify ID token", logger.ErrorField(err))
		return "", fmt.Errorf("failed to verify ID token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.log.WarnContext(ctx, "ID token rejected", logger.IntField("status_code", resp.StatusCode))
		return "", fmt.Errorf("invalid or expired ID token")
	}

	var lookup accountsLookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&lookup); err != nil {
		return "", fmt.Errorf("failed to decode lookup response: %w", err)
	}
	if len(lookup.Users) == 0 || lookup.Users[0].LocalID == "" {
		return "", fmt.Errorf("invalid or expired ID token")
	}
	return lookup.Users[0].LocalID, nil
}
