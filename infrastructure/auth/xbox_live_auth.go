package auth

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/ca-srg/xbmon/domain"
	"github.com/ca-srg/xbmon/infrastructure/config"
)

const (
	liveAuthorizeURL = "https://login.live.com/oauth20_authorize.srf"
	liveTokenURL     = "https://login.live.com/oauth20_token.srf"
	liveRedirectURL  = "https://login.live.com/oauth20_desktop.srf"

	userAuthURL = "https://user.auth.xboxlive.com/user/authenticate"
	xstsAuthURL = "https://xsts.auth.xboxlive.com/xsts/authorize"

	userAuthRelyingParty = "http://auth.xboxlive.com"
	xstsRelyingParty     = "http://xboxlive.com"

	// tokenLeeway is subtracted from every expiry so a token is refreshed
	// before it lapses mid-poll.
	tokenLeeway = time.Minute
)

// XboxAuthenticator provides Xbox Live authentication for the presence API.
// The chain is Microsoft OAuth2 -> Xbox user token -> XSTS token; only the
// final XSTS token is accepted by the Xbox Live services.
type XboxAuthenticator interface {
	// AuthorizationHeader returns a ready XBL3.0 header, refreshing any
	// expired token in the chain first.
	AuthorizationHeader() (string, error)

	// InteractiveLogin runs the one-time browser consent flow and persists
	// the resulting tokens.
	InteractiveLogin(ctx context.Context) error

	// HasStoredTokens reports whether a usable token file exists.
	HasStoredTokens() bool
}

// xboxAuthenticatorImpl implements XboxAuthenticator
type xboxAuthenticatorImpl struct {
	cfg        *config.XboxConfig
	logger     domain.Logger
	oauth      *oauth2.Config
	httpClient *http.Client
	input      io.Reader

	mu    sync.Mutex
	state *tokenState
}

// tokenState is the persisted token file. The OAuth2 refresh token is the
// long-lived credential; the Xbox tokens are derived and re-derived on
// expiry.
type tokenState struct {
	OAuth            *oauth2.Token `json:"oauth"`
	UserToken        string        `json:"user_token,omitempty"`
	UserTokenExpires time.Time     `json:"user_token_expires,omitempty"`
	UserHash         string        `json:"user_hash,omitempty"`
	XSTSToken        string        `json:"xsts_token,omitempty"`
	XSTSExpires      time.Time     `json:"xsts_expires,omitempty"`
}

// xblTokenResponse is the shared response shape of the user-auth and XSTS
// endpoints
type xblTokenResponse struct {
	IssueInstant  time.Time `json:"IssueInstant"`
	NotAfter      time.Time `json:"NotAfter"`
	Token         string    `json:"Token"`
	DisplayClaims struct {
		XUI []struct {
			UHS string `json:"uhs"`
		} `json:"xui"`
	} `json:"DisplayClaims"`
}

// xblErrorResponse carries the XErr code XSTS returns on 401
type xblErrorResponse struct {
	XErr    int64  `json:"XErr"`
	Message string `json:"Message"`
}

// NewXboxAuthenticator creates a new Xbox Live authenticator
func NewXboxAuthenticator(cfg *config.XboxConfig, logger domain.Logger) (XboxAuthenticator, error) {
	if cfg == nil {
		return nil, domain.ErrConfig("xbox", "config is nil")
	}
	if cfg.ClientID == "" {
		return nil, domain.ErrConfig("xbox", "client_id is required for Xbox Live authentication")
	}

	oauthConf := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Scopes:       []string{"XboxLive.signin", "offline_access"},
		RedirectURL:  liveRedirectURL,
		Endpoint: oauth2.Endpoint{
			AuthURL:  liveAuthorizeURL,
			TokenURL: liveTokenURL,
		},
	}

	return &xboxAuthenticatorImpl{
		cfg:        cfg,
		logger:     logger,
		oauth:      oauthConf,
		httpClient: &http.Client{Timeout: time.Duration(cfg.RequestTimeoutSec) * time.Second},
		input:      os.Stdin,
	}, nil
}

// AuthorizationHeader returns the XBL3.0 header for API requests
func (a *xboxAuthenticatorImpl) AuthorizationHeader() (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.ensureXSTSLocked(context.Background()); err != nil {
		return "", err
	}

	return fmt.Sprintf("XBL3.0 x=%s;%s", a.state.UserHash, a.state.XSTSToken), nil
}

// HasStoredTokens reports whether a parsable token file with a refresh token
// exists
func (a *xboxAuthenticatorImpl) HasStoredTokens() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.loadStateLocked(); err != nil {
		return false
	}
	return a.state != nil && a.state.OAuth != nil && a.state.OAuth.RefreshToken != ""
}

// InteractiveLogin walks the operator through the consent flow: print the
// authorize URL, read the pasted redirect back, exchange the code, then run
// the Xbox token chain so the first poll does not pay for it.
func (a *xboxAuthenticatorImpl) InteractiveLogin(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	authURL := a.oauth.AuthCodeURL("xbmon", oauth2.AccessTypeOffline)

	fmt.Println("Open the following URL in a browser and sign in with the Microsoft")
	fmt.Println("account that owns the Xbox profile:")
	fmt.Println()
	fmt.Println("  " + authURL)
	fmt.Println()
	fmt.Print("Paste the full redirect URL (or just the code parameter) here: ")

	scanner := bufio.NewScanner(a.input)
	if !scanner.Scan() {
		return domain.ErrAuth("no authorization code was entered")
	}
	code, err := extractAuthCode(strings.TrimSpace(scanner.Text()))
	if err != nil {
		return err
	}

	token, err := a.oauth.Exchange(ctx, code)
	if err != nil {
		return domain.ErrAuthWithCause("authorization code exchange failed", err)
	}

	a.state = &tokenState{OAuth: token}
	if err := a.refreshXboxChainLocked(ctx, token.AccessToken); err != nil {
		return err
	}
	if err := a.saveStateLocked(); err != nil {
		return err
	}

	a.logger.Info(ctx, "Xbox Live sign-in complete",
		domain.NewField("tokensPath", a.cfg.TokensPath))
	return nil
}

// ensureXSTSLocked makes sure a valid XSTS token exists, walking back up the
// chain only as far as needed. Callers hold the mutex.
func (a *xboxAuthenticatorImpl) ensureXSTSLocked(ctx context.Context) error {
	if a.state == nil {
		if err := a.loadStateLocked(); err != nil {
			return err
		}
	}

	if a.state.XSTSToken != "" && time.Now().Add(tokenLeeway).Before(a.state.XSTSExpires) {
		return nil
	}

	accessToken, err := a.freshAccessTokenLocked(ctx)
	if err != nil {
		return err
	}

	if err := a.refreshXboxChainLocked(ctx, accessToken); err != nil {
		return err
	}

	return a.saveStateLocked()
}

// freshAccessTokenLocked returns a valid OAuth2 access token, refreshing via
// the stored refresh token when the cached one has expired
func (a *xboxAuthenticatorImpl) freshAccessTokenLocked(ctx context.Context) (string, error) {
	if a.state.OAuth == nil || a.state.OAuth.RefreshToken == "" {
		return "", domain.ErrAuth("no stored credentials; run with -auth to sign in")
	}

	source := a.oauth.TokenSource(ctx, a.state.OAuth)
	token, err := source.Token()
	if err != nil {
		return "", domain.ErrAuthWithCause("access token refresh failed", err)
	}

	a.state.OAuth = token
	return token.AccessToken, nil
}

// refreshXboxChainLocked derives user and XSTS tokens from an access token
func (a *xboxAuthenticatorImpl) refreshXboxChainLocked(ctx context.Context, accessToken string) error {
	userResp, err := a.requestUserToken(ctx, accessToken)
	if err != nil {
		return err
	}
	a.state.UserToken = userResp.Token
	a.state.UserTokenExpires = userResp.NotAfter

	xstsResp, err := a.requestXSTSToken(ctx, userResp.Token)
	if err != nil {
		return err
	}
	a.state.XSTSToken = xstsResp.Token
	a.state.XSTSExpires = xstsResp.NotAfter

	if len(xstsResp.DisplayClaims.XUI) == 0 || xstsResp.DisplayClaims.XUI[0].UHS == "" {
		return domain.ErrAuth("XSTS response carries no user hash")
	}
	a.state.UserHash = xstsResp.DisplayClaims.XUI[0].UHS

	return nil
}

// requestUserToken trades an OAuth2 access token for an Xbox user token
func (a *xboxAuthenticatorImpl) requestUserToken(ctx context.Context, accessToken string) (*xblTokenResponse, error) {
	payload := map[string]interface{}{
		"RelyingParty": userAuthRelyingParty,
		"TokenType":    "JWT",
		"Properties": map[string]interface{}{
			"AuthMethod": "RPS",
			"SiteName":   "user.auth.xboxlive.com",
			"RpsTicket":  "d=" + accessToken,
		},
	}
	return a.postXBLToken(ctx, userAuthURL, payload)
}

// requestXSTSToken trades an Xbox user token for an XSTS token scoped to the
// Xbox Live relying party
func (a *xboxAuthenticatorImpl) requestXSTSToken(ctx context.Context, userToken string) (*xblTokenResponse, error) {
	payload := map[string]interface{}{
		"RelyingParty": xstsRelyingParty,
		"TokenType":    "JWT",
		"Properties": map[string]interface{}{
			"SandboxId":  "RETAIL",
			"UserTokens": []string{userToken},
		},
	}
	return a.postXBLToken(ctx, xstsAuthURL, payload)
}

// postXBLToken performs one token exchange request against an Xbox auth
// endpoint
func (a *xboxAuthenticatorImpl) postXBLToken(ctx context.Context, endpoint string, payload map[string]interface{}) (*xblTokenResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, domain.ErrAuthWithCause("marshal token request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, domain.ErrAuthWithCause("create token request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-xbl-contract-version", "1")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, domain.ErrAuthWithCause("token request failed", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.ErrAuthWithCause("read token response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, xblStatusError(endpoint, resp.StatusCode, respBody)
	}

	var tokenResp xblTokenResponse
	if err := json.Unmarshal(respBody, &tokenResp); err != nil {
		return nil, domain.ErrAuthWithCause("decode token response", err)
	}
	if tokenResp.Token == "" {
		return nil, domain.ErrAuth("token response carries no token")
	}

	return &tokenResp, nil
}

// xblStatusError translates the XErr codes XSTS answers with into readable
// auth errors
func xblStatusError(endpoint string, statusCode int, body []byte) error {
	var xblErr xblErrorResponse
	if err := json.Unmarshal(body, &xblErr); err == nil && xblErr.XErr != 0 {
		switch xblErr.XErr {
		case 2148916233:
			return domain.ErrAuth("this Microsoft account has no Xbox profile")
		case 2148916235:
			return domain.ErrAuth("Xbox Live is not available in this account's region")
		case 2148916236, 2148916237:
			return domain.ErrAuth("this account requires adult verification")
		case 2148916238:
			return domain.ErrAuth("this is a child account and needs to be added to a family")
		default:
			return domain.ErrAuth(fmt.Sprintf("token exchange rejected with XErr %d", xblErr.XErr))
		}
	}
	return domain.ErrAuth(fmt.Sprintf("token endpoint %s answered status %d", endpoint, statusCode))
}

// extractAuthCode accepts either the raw code or the whole pasted redirect
// URL and returns the code
func extractAuthCode(input string) (string, error) {
	if input == "" {
		return "", domain.ErrAuth("no authorization code was entered")
	}

	if strings.Contains(input, "code=") {
		parsed, err := url.Parse(input)
		if err == nil {
			if code := parsed.Query().Get("code"); code != "" {
				return code, nil
			}
		}
		// Fall through for bare "code=..." fragments that do not parse as URLs
		if idx := strings.Index(input, "code="); idx >= 0 {
			code := input[idx+len("code="):]
			if amp := strings.IndexByte(code, '&'); amp >= 0 {
				code = code[:amp]
			}
			if code != "" {
				return code, nil
			}
		}
		return "", domain.ErrAuth("could not extract code from pasted input")
	}

	return input, nil
}

// loadStateLocked reads the token file. Callers hold the mutex.
func (a *xboxAuthenticatorImpl) loadStateLocked() error {
	data, err := os.ReadFile(a.cfg.TokensPath) // #nosec G304 - path comes from config
	if err != nil {
		if os.IsNotExist(err) {
			return domain.ErrAuth("no stored credentials; run with -auth to sign in")
		}
		return domain.ErrAuthWithCause("read token file", err)
	}

	var state tokenState
	if err := json.Unmarshal(data, &state); err != nil {
		return domain.ErrAuthWithCause("parse token file", err)
	}

	a.state = &state
	return nil
}

// saveStateLocked writes the token file with owner-only permissions. Callers
// hold the mutex.
func (a *xboxAuthenticatorImpl) saveStateLocked() error {
	dir := filepath.Dir(a.cfg.TokensPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return domain.ErrAuthWithCause("create token directory", err)
	}

	data, err := json.MarshalIndent(a.state, "", "  ")
	if err != nil {
		return domain.ErrAuthWithCause("marshal token state", err)
	}

	tmpFile := a.cfg.TokensPath + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0600); err != nil {
		return domain.ErrAuthWithCause("write token file", err)
	}
	if err := os.Rename(tmpFile, a.cfg.TokensPath); err != nil {
		_ = os.Remove(tmpFile)
		return domain.ErrAuthWithCause("replace token file", err)
	}

	return nil
}
