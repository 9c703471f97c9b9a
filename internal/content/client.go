package content

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vovakirdan/companion-arcade/internal/core"
)

// maxTrackBytes bounds a response body.
const maxTrackBytes = 1 << 20

// Client requests generated tracks. A nil Client or an empty URL never
// finds a track.
type Client struct {
	URL    string
	HTTP   *http.Client
	Logger *log.Logger
}

// NewClient creates a client for the service at rawURL.
func NewClient(rawURL string, timeout time.Duration, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Client{
		URL:    rawURL,
		HTTP:   &http.Client{Timeout: timeout},
		Logger: logger,
	}
}

// FetchTrack asks the service for a track suited to d. Any failure,
// including an unusable chart, is reported as ErrNoTrack.
func (c *Client) FetchTrack(ctx context.Context, d core.Difficulty, song int) (Track, error) {
	if c == nil || c.URL == "" {
		return Track{}, ErrNoTrack
	}

	u, err := url.Parse(c.URL)
	if err != nil {
		return Track{}, fmt.Errorf("%w: bad url: %v", ErrNoTrack, err)
	}
	q := u.Query()
	q.Set("difficulty", string(d))
	q.Set("song", fmt.Sprint(song))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Track{}, fmt.Errorf("%w: %v", ErrNoTrack, err)
	}
	req.Header.Set("Accept", "application/json")

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return Track{}, fmt.Errorf("%w: %v", ErrNoTrack, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Track{}, fmt.Errorf("%w: status %d", ErrNoTrack, resp.StatusCode)
	}

	var t Track
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxTrackBytes)).Decode(&t); err != nil {
		return Track{}, fmt.Errorf("%w: decode: %v", ErrNoTrack, err)
	}
	if err := t.Validate(); err != nil {
		return Track{}, err
	}
	if c.Logger != nil {
		c.Logger.Debug("track fetched", "title", t.Title, "notes", len(t.Notes))
	}
	return t, nil
}
