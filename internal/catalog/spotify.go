package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/keshon/jukebox/pkg/retrylimit"
)

const (
	BaseURL  = "https://api.spotify.com/v1"
	TokenURL = "https://accounts.spotify.com/api/token"

	DefaultLimit = 20
	maxPageSize  = 50
)

var (
	ErrNotConfigured = errors.New("spotify API not configured")
	ErrUnsupported   = errors.New("unsupported spotify link")
)

// APIError is a non-2xx answer from the Spotify API.
type APIError struct {
	ErrorInfo struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
	retryAfter time.Duration
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Spotify API error %d: %s", e.ErrorInfo.Status, e.ErrorInfo.Message)
}

func (e *APIError) StatusCode() int {
	return e.ErrorInfo.Status
}

func (e *APIError) RetryAfter() time.Duration {
	return e.retryAfter
}

// IsNotFound reports a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.ErrorInfo.Status == http.StatusNotFound
}

type token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	expiresAt   time.Time
}

// expired treats tokens as expired 60 seconds early.
func (t *token) expired() bool {
	return t == nil || time.Now().Add(60*time.Second).After(t.expiresAt)
}

// Client talks to the Spotify Web API with client credentials.
type Client struct {
	httpClient   *http.Client
	clientID     string
	clientSecret string
	baseURL      string
	tokenURL     string
	limiter      *retrylimit.AdaptiveLimiter
	retry        retrylimit.Config

	mu    sync.Mutex
	token *token
}

// New returns a client. Empty credentials give a client whose every call
// fails with ErrNotConfigured.
func New(clientID, clientSecret string) *Client {
	retry := retrylimit.DefaultConfig()
	retry.Retryable = retryable
	return &Client{
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		clientID:     clientID,
		clientSecret: clientSecret,
		baseURL:      BaseURL,
		tokenURL:     TokenURL,
		limiter:      retrylimit.NewAdaptiveLimiter(5, 1, 10, 1, 0.5),
		retry:        retry,
	}
}

// retryable also retries a 401, the token is dropped and fetched again.
func retryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode() == http.StatusUnauthorized {
		return true
	}
	return retrylimit.DefaultRetryable(err)
}

// WithEndpoints points the client somewhere else, for tests.
func (c *Client) WithEndpoints(baseURL, tokenURL string) *Client {
	c.baseURL = strings.TrimRight(baseURL, "/")
	c.tokenURL = tokenURL
	return c
}

func (c *Client) Configured() bool {
	return c.clientID != "" && c.clientSecret != ""
}

// FetchItems expands a link into at most limit items.
func (c *Client) FetchItems(ctx context.Context, link Link, limit int) (*Collection, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	limit = min(limit, maxPageSize)

	switch link.Kind {
	case KindTrack:
		return c.fetchTrack(ctx, link.ID)
	case KindAlbum:
		return c.fetchAlbum(ctx, link.ID, limit)
	case KindPlaylist:
		return c.fetchPlaylist(ctx, link.ID, limit)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, link.Kind)
	}
}

func (c *Client) fetchTrack(ctx context.Context, id string) (*Collection, error) {
	var t trackObject
	if err := c.get(ctx, "/tracks/"+url.PathEscape(id), &t); err != nil {
		return nil, fmt.Errorf("get track: %w", err)
	}
	it := t.item("")
	return &Collection{
		Kind:   KindTrack,
		Title:  t.Name,
		Owner:  it.Artist,
		ArtURL: it.AlbumArtURL,
		Total:  1,
		Items:  []Item{it},
	}, nil
}

func (c *Client) fetchAlbum(ctx context.Context, id string, limit int) (*Collection, error) {
	var a album
	if err := c.get(ctx, "/albums/"+url.PathEscape(id), &a); err != nil {
		return nil, fmt.Errorf("get album: %w", err)
	}

	var page albumTracksPage
	path := BuildURL("/albums/"+url.PathEscape(id)+"/tracks", map[string]string{"limit": strconv.Itoa(limit)})
	if err := c.get(ctx, path, &page); err != nil {
		return nil, fmt.Errorf("get album tracks: %w", err)
	}

	art := firstImage(a.Images)
	col := &Collection{
		Kind:   KindAlbum,
		Title:  a.Name,
		Owner:  joinArtists(a.Artists),
		ArtURL: art,
		Total:  a.TotalTracks,
	}
	for _, t := range page.Items {
		if len(col.Items) == limit {
			break
		}
		col.Items = append(col.Items, t.item(art))
	}
	return col, nil
}

func (c *Client) fetchPlaylist(ctx context.Context, id string, limit int) (*Collection, error) {
	var pl playlist
	path := BuildURL("/playlists/"+url.PathEscape(id), map[string]string{
		"fields": "name,images,owner(display_name),tracks(total)",
	})
	if err := c.get(ctx, path, &pl); err != nil {
		return nil, fmt.Errorf("get playlist: %w", err)
	}

	var page playlistTracksPage
	path = BuildURL("/playlists/"+url.PathEscape(id)+"/tracks", map[string]string{"limit": strconv.Itoa(limit)})
	if err := c.get(ctx, path, &page); err != nil {
		return nil, fmt.Errorf("get playlist tracks: %w", err)
	}

	col := &Collection{
		Kind:   KindPlaylist,
		Title:  pl.Name,
		Owner:  pl.Owner.DisplayName,
		ArtURL: firstImage(pl.Images),
		Total:  pl.Tracks.Total,
	}
	for _, entry := range page.Items {
		// local files and podcast episodes have no usable track
		if entry.Track == nil || entry.Track.Type != "track" {
			continue
		}
		if len(col.Items) == limit {
			break
		}
		col.Items = append(col.Items, entry.Track.item(col.ArtURL))
	}
	return col, nil
}

func (c *Client) get(ctx context.Context, path string, result any) error {
	return retrylimit.WithRetry(ctx, c.limiter, c.retry, func() error {
		tok, err := c.accessToken(ctx)
		if err != nil {
			return err
		}
		return c.do(ctx, path, tok, result)
	})
}

func (c *Client) do(ctx context.Context, path, tok string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return &retrylimit.FatalError{Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Authorization", "Bearer "+tok)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := parseAPIError(resp, body)
		if resp.StatusCode == http.StatusUnauthorized {
			c.mu.Lock()
			c.token = nil
			c.mu.Unlock()
		}
		return apiErr
	}

	if result != nil && len(body) > 0 {
		if err := json.Unmarshal(body, result); err != nil {
			return &retrylimit.FatalError{Err: fmt.Errorf("failed to parse response: %w", err)}
		}
	}
	return nil
}

func parseAPIError(resp *http.Response, body []byte) *APIError {
	apiErr := &APIError{}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.ErrorInfo.Message == "" {
		apiErr.ErrorInfo.Message = strings.TrimSpace(string(body))
	}
	apiErr.ErrorInfo.Status = resp.StatusCode
	if s, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && s > 0 {
		apiErr.retryAfter = time.Duration(s) * time.Second
	}
	return apiErr
}

// accessToken returns a cached client-credentials token, fetching a new one
// when it is about to expire.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.token.expired() {
		return c.token.AccessToken, nil
	}

	data := url.Values{}
	data.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return "", &retrylimit.FatalError{Err: fmt.Errorf("failed to create token request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.clientID, c.clientSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read token response: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := parseAPIError(resp, body)
		if resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			// bad credentials will not fix themselves
			return "", &retrylimit.FatalError{Err: fmt.Errorf("token request rejected: %w", apiErr)}
		}
		return "", apiErr
	}

	var t token
	if err := json.Unmarshal(body, &t); err != nil {
		return "", &retrylimit.FatalError{Err: fmt.Errorf("failed to parse token: %w", err)}
	}
	t.expiresAt = time.Now().Add(time.Duration(t.ExpiresIn) * time.Second)
	c.token = &t
	log.Printf("[INFO] [Catalog] Obtained Spotify token, expires in %ds", t.ExpiresIn)
	return t.AccessToken, nil
}

// BuildURL appends query parameters to path.
func BuildURL(path string, params map[string]string) string {
	if len(params) == 0 {
		return path
	}

	u, _ := url.Parse(path)
	q := u.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String()
}
