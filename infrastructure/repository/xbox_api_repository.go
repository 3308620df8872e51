package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	retryablehttp "github.com/hashicorp/go-retryablehttp"

	"github.com/ca-srg/xbmon/domain"
	"github.com/ca-srg/xbmon/domain/entity"
	"github.com/ca-srg/xbmon/domain/repository"
)

const (
	profileSettingsURLFormat = "https://profile.xboxlive.com/users/gt(%s)/profile/settings?settings=Gamertag,RealName,Location,Bio"
	presenceURLFormat        = "https://userpresence.xboxlive.com/users/xuid(%s)?level=all"

	// xblContractVersion is required by every Xbox Live endpoint; requests
	// without it are rejected with 400 regardless of authentication.
	xblContractVersion = "3"
)

// AuthProvider supplies the XBL3.0 authorization header for Xbox Live
// requests. Tokens expire and refresh between polls, so the repository asks
// per request instead of holding a header.
type AuthProvider interface {
	AuthorizationHeader() (string, error)
}

// XboxAPIRepository implements repository.XboxAPIRepository against the
// Xbox Live profile and userpresence services.
type XboxAPIRepository struct {
	httpClient *retryablehttp.Client
	auth       AuthProvider
	probeURL   string
}

// NewXboxAPIRepository creates a new Xbox Live API repository
func NewXboxAPIRepository(auth AuthProvider, timeout time.Duration, probeURL string) repository.XboxAPIRepository {
	client := retryablehttp.NewClient()
	client.RetryMax = 2
	client.HTTPClient.Timeout = timeout
	client.Logger = nil

	return &XboxAPIRepository{
		httpClient: client,
		auth:       auth,
		probeURL:   probeURL,
	}
}

// profileSettingsResponse mirrors the profile service payload. Settings come
// back as an id/value list, not a flat object.
type profileSettingsResponse struct {
	ProfileUsers []struct {
		ID       string `json:"id"`
		Settings []struct {
			ID    string `json:"id"`
			Value string `json:"value"`
		} `json:"settings"`
	} `json:"profileUsers"`
}

// presenceResponse mirrors the userpresence payload at level=all.
type presenceResponse struct {
	XUID     string            `json:"xuid"`
	State    string            `json:"state"`
	LastSeen *lastSeenResponse `json:"lastSeen,omitempty"`
	Devices  []deviceResponse  `json:"devices,omitempty"`
}

type lastSeenResponse struct {
	DeviceType string `json:"deviceType"`
	TitleID    string `json:"titleId"`
	TitleName  string `json:"titleName"`
	Timestamp  string `json:"timestamp"`
}

type deviceResponse struct {
	Type   string          `json:"type"`
	Titles []titleResponse `json:"titles"`
}

type titleResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	State        string `json:"state"`
	Placement    string `json:"placement"`
	LastModified string `json:"lastModified"`
}

// CheckConnectivity probes the configured URL to verify the network is up
// before the monitor enters its poll loop
func (r *XboxAPIRepository) CheckConnectivity() error {
	req, err := retryablehttp.NewRequest(http.MethodGet, r.probeURL, nil)
	if err != nil {
		return domain.ErrXboxAPIWithCause("connectivity check", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return domain.ErrXboxAPIWithCause("connectivity check", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Drain so the connection can be reused
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusInternalServerError {
		return domain.ErrXboxAPI("connectivity check", resp.StatusCode, "")
	}

	return nil
}

// GetProfileByGamertag resolves a gamertag to its XUID and profile settings
func (r *XboxAPIRepository) GetProfileByGamertag(gamertag string) (*entity.XboxProfile, error) {
	if gamertag == "" {
		return nil, domain.ErrInvalidInput("gamertag", "cannot be empty")
	}

	requestURL := profileSettingsURL(gamertag)
	resp, err := r.makeAPIRequest("get profile", requestURL)
	if err != nil {
		// The profile service answers 404 for gamertags that do not exist,
		// which is an identity problem rather than an API one.
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			if code, ok := domainErr.Details["statusCode"].(int); ok && code == http.StatusNotFound {
				return nil, domain.ErrIdentityNotFound(gamertag)
			}
		}
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	var result profileSettingsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, domain.ErrXboxAPIWithCause("decode profile response", err)
	}

	if len(result.ProfileUsers) == 0 {
		return nil, domain.ErrIdentityNotFound(gamertag)
	}

	user := result.ProfileUsers[0]
	settings := make(map[string]string, len(user.Settings))
	for _, s := range user.Settings {
		settings[s.ID] = s.Value
	}

	resolvedTag := settings["Gamertag"]
	if resolvedTag == "" {
		resolvedTag = gamertag
	}

	profile, err := entity.NewXboxProfileWithDetails(
		resolvedTag,
		user.ID,
		settings["RealName"],
		settings["Location"],
		settings["Bio"],
	)
	if err != nil {
		return nil, domain.ErrIdentityNotFoundWithCause(gamertag, err)
	}

	return profile, nil
}

// GetPresence fetches the presence for a XUID and normalizes it into a
// canonical snapshot
func (r *XboxAPIRepository) GetPresence(xuid string) (*entity.PresenceSnapshot, error) {
	if xuid == "" {
		return nil, domain.ErrInvalidInput("xuid", "cannot be empty")
	}

	requestURL := presenceURL(xuid)
	resp, err := r.makeAPIRequest("get presence", requestURL)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	var result presenceResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, domain.ErrXboxAPIWithCause("decode presence response", err)
	}

	return normalizePresence(xuid, &result)
}

// makeAPIRequest performs an authenticated GET against an Xbox Live endpoint.
// Non-2xx responses other than 404 become domain errors here; 404 is left to
// callers because its meaning differs per endpoint.
func (r *XboxAPIRepository) makeAPIRequest(operation, requestURL string) (*http.Response, error) {
	req, err := retryablehttp.NewRequest(http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, domain.ErrXboxAPIWithCause(operation, err)
	}

	authHeader, err := r.auth.AuthorizationHeader()
	if err != nil {
		return nil, domain.ErrAuthWithCause("acquire authorization header", err)
	}

	req.Header.Set("Authorization", authHeader)
	req.Header.Set("x-xbl-contract-version", xblContractVersion)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", "en-US")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, domain.ErrXboxAPIWithCause(operation, err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		return nil, domain.ErrXboxAPI(operation, resp.StatusCode, string(body))
	}

	return resp, nil
}

// profileSettingsURL builds the profile settings URL for a gamertag. The tag
// is path-escaped because gamertags may contain spaces.
func profileSettingsURL(gamertag string) string {
	return fmt.Sprintf(profileSettingsURLFormat, url.PathEscape(gamertag))
}

func presenceURL(xuid string) string {
	return fmt.Sprintf(presenceURLFormat, url.PathEscape(xuid))
}
