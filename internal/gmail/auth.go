// Package gmail adapts the Gmail API to the pipeline's mailbox and
// credential boundary contracts. Read-only scope only.
package gmail

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmailapi "google.golang.org/api/gmail/v1"

	"github.com/recurhq/recur/internal/common"
)

// TokenProvider implements service.CredentialProvider on top of per-user
// token files with transparent refresh-on-expiry.
type TokenProvider struct {
	oauthConfig *oauth2.Config
	tokenDir    string
}

// NewTokenProvider creates a credential provider. Client credentials come
// from configuration, never from source literals.
func NewTokenProvider(clientID, clientSecret, tokenDir string) (*TokenProvider, error) {
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("%w: google client id and secret are required", common.ErrMissingConfig)
	}
	return &TokenProvider{
		oauthConfig: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     google.Endpoint,
			RedirectURL:  "http://localhost:8080/callback",
			Scopes:       []string{gmailapi.GmailReadonlyScope},
		},
		tokenDir: tokenDir,
	}, nil
}

func (p *TokenProvider) tokenFile(userID string) string {
	return filepath.Join(p.tokenDir, userID+".json")
}

// IsAuthorized reports whether a stored credential exists for the user.
func (p *TokenProvider) IsAuthorized(_ context.Context, userID string) (bool, error) {
	_, err := loadToken(p.tokenFile(userID))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to load token for %s: %w", userID, err)
	}
	return true, nil
}

// AccessToken returns a valid bearer token for the user, refreshing and
// re-saving it when expired.
func (p *TokenProvider) AccessToken(ctx context.Context, userID string) (string, error) {
	ts, err := p.TokenSource(ctx, userID)
	if err != nil {
		return "", err
	}
	token, err := ts.Token()
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrTokenExpired, err)
	}
	return token.AccessToken, nil
}

// TokenSource returns an auto-refreshing token source for the user,
// persisting refreshed tokens back to disk.
func (p *TokenProvider) TokenSource(ctx context.Context, userID string) (oauth2.TokenSource, error) {
	path := p.tokenFile(userID)
	token, err := loadToken(path)
	if err != nil {
		return nil, fmt.Errorf("%w: no stored credential for %s", common.ErrNotAuthorized, userID)
	}

	return &savingTokenSource{
		base: p.oauthConfig.TokenSource(ctx, token),
		path: path,
		last: token,
	}, nil
}

// savingTokenSource persists refreshed tokens so the refresh survives the
// process.
type savingTokenSource struct {
	base oauth2.TokenSource
	path string
	last *oauth2.Token
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	token, err := s.base.Token()
	if err != nil {
		return nil, err
	}
	if token.AccessToken != s.last.AccessToken {
		if saveErr := saveToken(s.path, token); saveErr != nil {
			slog.Warn("Failed to save refreshed token", "error", saveErr, "file", s.path)
		}
		s.last = token
	}
	return token, nil
}

// AuthenticateInteractive performs the browser OAuth flow and stores the
// resulting token for the user.
func (p *TokenProvider) AuthenticateInteractive(ctx context.Context, userID string) error {
	codeChan := make(chan string, 1)
	errorChan := make(chan error, 1)

	mux := http.NewServeMux()
	server := &http.Server{Addr: ":8080", Handler: mux}

	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			errorChan <- fmt.Errorf("no authorization code received")
			_, _ = fmt.Fprintf(w, `<html><body>
				<h1>Authentication Failed</h1>
				<p>No authorization code received. Please try again.</p>
			</body></html>`)
			return
		}

		codeChan <- code
		_, _ = fmt.Fprintf(w, `<html><body>
			<h1>Authentication Successful!</h1>
			<p>You can close this window and return to the terminal.</p>
		</body></html>`)
	})

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			errorChan <- fmt.Errorf("failed to start callback server: %w", err)
		}
	}()

	authURL := p.oauthConfig.AuthCodeURL("state-token", oauth2.AccessTypeOffline, oauth2.ApprovalForce)

	slog.Info("🔐 Gmail authorization required")
	slog.Info("Please visit this URL to authenticate", "url", authURL)
	slog.Info("Waiting for authentication...")

	var authCode string
	select {
	case authCode = <-codeChan:
		slog.Info("Received authorization code")
	case err := <-errorChan:
		_ = server.Shutdown(ctx)
		return err
	case <-time.After(5 * time.Minute):
		_ = server.Shutdown(ctx)
		return fmt.Errorf("authentication timeout - no response received within 5 minutes")
	case <-ctx.Done():
		_ = server.Shutdown(ctx)
		return ctx.Err()
	}

	if err := server.Shutdown(ctx); err != nil {
		slog.Warn("Error shutting down callback server", "error", err)
	}

	token, err := p.oauthConfig.Exchange(ctx, authCode)
	if err != nil {
		return fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	if err := saveToken(p.tokenFile(userID), token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	slog.Info("Token saved", "user", userID)
	return nil
}

// loadToken loads a token from file.
func loadToken(path string) (*oauth2.Token, error) {
	f, err := os.Open(path) // #nosec G304
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	token := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(token)
	return token, err
}

// saveToken saves a token to file.
func saveToken(path string, token *oauth2.Token) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to create token file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := json.NewEncoder(f).Encode(token); err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}

	return nil
}
