package twitch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/maauso/clip-vault/internal/clip"
)

// Default endpoints of the Twitch API.
const (
	DefaultAuthURL = "https://id.twitch.tv/oauth2/token"
	DefaultAPIURL  = "https://api.twitch.tv/helix"
)

// Static errors for Twitch client operations.
var (
	// ErrClientIDRequired is returned when the client ID is not provided.
	ErrClientIDRequired = errors.New("twitch: client ID is required")
	// ErrClientSecretRequired is returned when the client secret is not provided.
	ErrClientSecretRequired = errors.New("twitch: client secret is required")
	// ErrAuth is returned when the client-credential token exchange fails.
	ErrAuth = errors.New("twitch: failed to get token")
	// ErrNotFound is returned when a login does not resolve to a user.
	ErrNotFound = errors.New("twitch: failed to get user")
	// ErrFetch is returned when the clip listing fails.
	ErrFetch = errors.New("twitch: failed to get clips")
	// ErrDownload is returned when a clip asset cannot be downloaded.
	ErrDownload = errors.New("twitch: failed to download clip")
)

// Client defines the interface for the Twitch calls made by one run.
type Client interface {
	// Token exchanges the client credentials for a fresh app access token.
	Token(ctx context.Context) (string, error)

	// UserID resolves a login name to the user's ID.
	UserID(ctx context.Context, token, login string) (string, error)

	// Clips lists up to first clips of the broadcaster.
	Clips(ctx context.Context, token, broadcasterID string, first int) ([]clip.Clip, error)

	// Download fetches the binary content at url.
	Download(ctx context.Context, url string) ([]byte, error)
}

// Compile-time check that HTTPClient implements Client.
var _ Client = (*HTTPClient)(nil)

// HTTPClient is the HTTP implementation of the Twitch Client interface.
type HTTPClient struct {
	clientID     string
	clientSecret string
	authURL      string
	apiURL       string
	httpClient   *http.Client
}

// ClientOption is a function that configures an HTTPClient.
type ClientOption func(*HTTPClient)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(hc *HTTPClient) {
		hc.httpClient = c
	}
}

// WithAuthURL sets a custom token endpoint.
func WithAuthURL(u string) ClientOption {
	return func(hc *HTTPClient) {
		if u != "" {
			hc.authURL = u
		}
	}
}

// WithAPIURL sets a custom Helix base URL.
func WithAPIURL(u string) ClientOption {
	return func(hc *HTTPClient) {
		if u != "" {
			hc.apiURL = strings.TrimRight(u, "/")
		}
	}
}

// NewClient creates a new Twitch HTTP client for the given app credentials.
func NewClient(clientID, clientSecret string, opts ...ClientOption) (*HTTPClient, error) {
	if clientID == "" {
		return nil, ErrClientIDRequired
	}
	if clientSecret == "" {
		return nil, ErrClientSecretRequired
	}

	c := &HTTPClient{
		clientID:     clientID,
		clientSecret: clientSecret,
		authURL:      DefaultAuthURL,
		apiURL:       DefaultAPIURL,
		httpClient:   &http.Client{Timeout: 60 * time.Second},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Token performs a client-credential grant. No token is cached; every call
// hits the token endpoint.
func (c *HTTPClient) Token(ctx context.Context) (string, error) {
	cc := clientcredentials.Config{
		ClientID:     c.clientID,
		ClientSecret: c.clientSecret,
		TokenURL:     c.authURL,
		AuthStyle:    oauth2.AuthStyleInParams,
	}

	tok, err := cc.Token(context.WithValue(ctx, oauth2.HTTPClient, c.httpClient))
	if err != nil {
		var rErr *oauth2.RetrieveError
		if errors.As(err, &rErr) {
			status := "token endpoint error"
			if rErr.Response != nil {
				status = rErr.Response.Status
			}
			return "", fmt.Errorf("%w: %s", ErrAuth, upstreamMessage(rErr.Body, status))
		}
		return "", fmt.Errorf("%w: %w", ErrAuth, err)
	}

	return tok.AccessToken, nil
}

// UserID resolves login to a user ID, returning the first match.
func (c *HTTPClient) UserID(ctx context.Context, token, login string) (string, error) {
	var resp usersResponse
	err := c.getJSON(ctx, token, "/users", url.Values{"login": {login}}, &resp)
	if err != nil {
		var se *statusError
		if errors.As(err, &se) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, se.messageOr("user not found"))
		}
		return "", fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	if len(resp.Data) == 0 {
		return "", fmt.Errorf("%w: user not found", ErrNotFound)
	}

	return resp.Data[0].ID, nil
}

// Clips lists up to first clips for broadcasterID in the order returned by
// the API. An empty slice is not an error.
func (c *HTTPClient) Clips(ctx context.Context, token, broadcasterID string, first int) ([]clip.Clip, error) {
	query := url.Values{
		"broadcaster_id": {broadcasterID},
		"first":          {strconv.Itoa(first)},
	}

	var resp clipsResponse
	if err := c.getJSON(ctx, token, "/clips", query, &resp); err != nil {
		var se *statusError
		if errors.As(err, &se) {
			return nil, fmt.Errorf("%w: %s", ErrFetch, se.messageOr(se.status))
		}
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}

	clips := make([]clip.Clip, 0, len(resp.Data))
	for _, d := range resp.Data {
		clips = append(clips, d.toClip())
	}
	return clips, nil
}

// Download fetches the asset at assetURL into memory.
func (c *HTTPClient) Download(ctx context.Context, assetURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, assetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %w", ErrDownload, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDownload, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", ErrDownload, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrDownload, err)
	}

	return data, nil
}

// getJSON performs an authenticated Helix GET and decodes the JSON body.
func (c *HTTPClient) getJSON(ctx context.Context, token, path string, query url.Values, result any) error {
	endpoint := c.apiURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Client-ID", c.clientID)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &statusError{
			code:    resp.StatusCode,
			status:  resp.Status,
			message: upstreamMessage(body, ""),
		}
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}

	return nil
}

// statusError is a non-2xx Helix response.
type statusError struct {
	code    int
	status  string
	message string
}

func (e *statusError) Error() string {
	if e.message != "" {
		return fmt.Sprintf("status %d: %s", e.code, e.message)
	}
	return fmt.Sprintf("status %d", e.code)
}

func (e *statusError) messageOr(fallback string) string {
	if e.message != "" {
		return e.message
	}
	return fallback
}

// upstreamMessage extracts the "message" field of a Twitch error body.
func upstreamMessage(body []byte, fallback string) string {
	var er errorResponse
	if err := json.Unmarshal(body, &er); err == nil {
		if er.Message != "" {
			return er.Message
		}
		if er.Error != "" {
			return er.Error
		}
	}
	return fallback
}
