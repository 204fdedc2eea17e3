// Package api is the client of the catalogue backend. It provides movie metadata and stream
// links to playback sessions and accepts their progress reports.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kinogram/kino/constant"
	"github.com/kinogram/kino/internal/cache"
	"github.com/kinogram/kino/log"
	"github.com/kinogram/kino/network"
	"github.com/kinogram/kino/session"
	"github.com/kinogram/kino/source"
)

const (
	DefaultTimeout = 10 * time.Second

	// maxErrorBody bounds how much of an error response is kept for diagnostics.
	maxErrorBody = 512
)

// ErrInvalidID is returned for media ids that cannot address a backend resource.
var ErrInvalidID = errors.New("invalid media id")

// StatusError is returned for unexpected HTTP statuses.
type StatusError struct {
	Method string
	URL    string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.Code, http.StatusText(e.Code))
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// Options configures a Client.
type Options struct {
	// BaseURL defaults to constant.DefaultBaseURL.
	BaseURL string
	// InitData is sent with every request to identify the viewer. Empty means anonymous.
	InitData string
	// Timeout bounds each request. Defaults to DefaultTimeout.
	Timeout time.Duration
	// HTTPClient defaults to a client from the network package.
	HTTPClient *http.Client
	// Cache, when set, keeps metadata responses. Stream links are never cached.
	Cache *cache.Cache[string, source.Movie]
}

// Client talks to the backend REST API.
type Client struct {
	base     *url.URL
	initData string
	timeout  time.Duration
	http     *http.Client
	cache    *cache.Cache[string, source.Movie]
}

var (
	_ source.Provider  = (*Client)(nil)
	_ session.Reporter = (*Client)(nil)
)

// New validates the options and returns a client.
func New(opts Options) (*Client, error) {
	raw := opts.BaseURL
	if raw == "" {
		raw = constant.DefaultBaseURL
	}

	base, err := url.Parse(strings.TrimRight(raw, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: unsupported scheme %q", raw, base.Scheme)
	}

	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = network.NewClient(opts.Timeout)
	}

	return &Client{
		base:     base,
		initData: opts.InitData,
		timeout:  opts.Timeout,
		http:     opts.HTTPClient,
		cache:    opts.Cache,
	}, nil
}

// Metadata fetches the catalogue record of mediaID.
func (c *Client) Metadata(ctx context.Context, mediaID string) (source.Movie, error) {
	if c.cache != nil {
		if movie, ok := c.cache.Get(mediaID).Get(); ok {
			log.Debugf("api: metadata of %s served from cache", mediaID)
			return movie, nil
		}
	}

	var detail movieDetail
	if err := c.do(ctx, http.MethodGet, mediaID, "", nil, &detail); err != nil {
		return source.Movie{}, err
	}

	movie := detail.movie()
	if c.cache != nil {
		if err := c.cache.Set(mediaID, movie); err != nil {
			log.Warnf("api: cache metadata of %s: %v", mediaID, err)
		}
	}
	return movie, nil
}

// Sources fetches the playable variants of mediaID keyed by quality label.
func (c *Client) Sources(ctx context.Context, mediaID string) (source.Sources, error) {
	var streams map[string]json.RawMessage
	if err := c.do(ctx, http.MethodGet, mediaID, "streams/", nil, &streams); err != nil {
		return nil, err
	}

	sources := make(source.Sources)
	raw, ok := streams["movie"]
	if !ok {
		// Series are keyed by season and episode and cannot be played as a single movie.
		return sources, nil
	}
	if err := json.Unmarshal(raw, &sources); err != nil {
		return nil, fmt.Errorf("decode streams of %s: %w", mediaID, err)
	}

	for label, link := range sources {
		if strings.TrimSpace(link) == "" {
			delete(sources, label)
		}
	}
	return sources, nil
}

// Report posts a progress checkpoint. The position is sent in whole seconds.
func (c *Client) Report(ctx context.Context, r session.Report) error {
	body := watchRequest{
		Progress:  int(math.Floor(r.Position)),
		SessionID: r.SessionID,
	}
	return c.do(ctx, http.MethodPost, r.MediaID, "watch/", body, nil)
}

func (c *Client) endpoint(mediaID, suffix string) (*url.URL, error) {
	mediaID = strings.TrimSpace(mediaID)
	if mediaID == "" || strings.ContainsAny(mediaID, "/?#") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidID, mediaID)
	}
	return c.base.JoinPath("movies", mediaID, suffix), nil
}

func (c *Client) do(ctx context.Context, method, mediaID, suffix string, in, out any) error {
	u, err := c.endpoint(mediaID, suffix)
	if err != nil {
		return err
	}
	// JoinPath drops the trailing slash the backend routes require.
	target := u.String()
	if !strings.HasSuffix(target, "/") {
		target += "/"
	}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", constant.UserAgent)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.initData != "" {
		req.Header.Set(constant.InitDataHeader, c.initData)
	}

	log.Debugf("api: %s %s", method, target)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, target, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", source.ErrNotFound, mediaID)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{
			Method: method,
			URL:    target,
			Code:   resp.StatusCode,
			Body:   strings.TrimSpace(string(snippet)),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", target, err)
	}
	return nil
}
