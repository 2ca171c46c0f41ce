package flickr

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/photoviewer/internal/domain"
	"github.com/mmcdole/photoviewer/internal/metrics"
)

const (
	// DefaultEndpoint is the REST endpoint of the public API
	DefaultEndpoint = "https://www.flickr.com/services/rest"

	// DefaultPerPage is the page size used when none is given
	DefaultPerPage = 20

	methodGetRecent = "flickr.photos.getRecent"
)

// HTTPDoer is the subset of *http.Client the engine needs
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// inFlightFetch is the handle kept for an outstanding image request
type inFlightFetch struct {
	started time.Time
}

// Client is the fetch and cache engine. It implements domain.PhotoSource.
//
// The image cache and the in-flight table are guarded by one mutex, so the
// cache check, the in-flight check and the in-flight registration happen as
// a single step for every caller.
type Client struct {
	baseURL    string
	cred       Credential
	httpClient HTTPDoer
	metrics    *metrics.Metrics
	logger     *slog.Logger
	now        func() time.Time

	mu       sync.RWMutex
	images   map[string]*domain.Image
	inFlight map[string]*inFlightFetch
}

var _ domain.PhotoSource = (*Client)(nil)

// NewClient creates a new engine. httpClient may be nil to use http.DefaultClient.
func NewClient(baseURL string, cred Credential, httpClient HTTPDoer, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    baseURL,
		cred:       cred,
		httpClient: httpClient,
		logger:     logger,
		now:        time.Now,
		images:     make(map[string]*domain.Image),
		inFlight:   make(map[string]*inFlightFetch),
	}
}

// SetMetrics attaches collectors; nil disables recording
func (c *Client) SetMetrics(m *metrics.Metrics) {
	c.metrics = m
}

// FetchMetadataPage requests one page of recent photos. Every call goes to
// the network; page sequencing is the caller's concern.
func (c *Client) FetchMetadataPage(ctx context.Context, page, perPage int) (*domain.PhotoResultsPage, error) {
	if page < 1 {
		return nil, fmt.Errorf("%w: page %d, pages start at 1", domain.ErrMalformedURL, page)
	}
	if perPage <= 0 {
		perPage = DefaultPerPage
	}

	c.logger.Debug("fetching photos page", "page", page, "perPage", perPage)

	params := url.Values{}
	params.Set("method", methodGetRecent)
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(perPage))
	params.Set("format", "json")
	params.Set("nojsoncallback", "1")
	params.Set("safe_search", "1")

	req, err := BuildGetRequest(ctx, c.baseURL, c.cred, params)
	if err != nil {
		c.logger.Error("unable to build photos request", "page", page, "error", err)
		return nil, err
	}

	body, err := c.doRequest(req, metrics.KindMetadata, isJSON)
	if err != nil {
		return nil, err
	}

	var resp RecentResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.logger.Error("photos response parse error", "error", err, "bodyLen", len(body))
		return nil, fmt.Errorf("%w: %w", domain.ErrDecode, err)
	}
	if resp.Stat != "ok" {
		apiErr := &APIError{Code: resp.Code, Message: resp.Message}
		c.logger.Error("photos response not ok", "stat", resp.Stat, "code", resp.Code, "message", resp.Message)
		return nil, fmt.Errorf("%w: %w", domain.ErrDecode, apiErr)
	}
	if resp.Photos == nil {
		return nil, fmt.Errorf("%w: response has no photos object", domain.ErrDecode)
	}

	result := MapPage(resp.Photos, c.now())
	c.logger.Debug("fetched photos page", "page", result.Page, "pages", result.Pages, "count", len(result.Photo))
	return result, nil
}

// FetchImage returns the photo's image.
//
// A cached image is returned without touching the network. If a fetch for
// the same address is already outstanding the call returns (nil, nil)
// immediately and the image is delivered only to the caller that started it.
// Otherwise the image is fetched, decoded and cached.
func (c *Client) FetchImage(ctx context.Context, photo domain.Photo) (*domain.Image, error) {
	address := ImageURL(photo)

	c.mu.Lock()
	if img, ok := c.images[address]; ok {
		c.mu.Unlock()
		c.metrics.OnLookup(metrics.LookupHit)
		c.logger.Debug("returning cached image", "photo", photo.ID, "address", address)
		return img, nil
	}
	if _, ok := c.inFlight[address]; ok {
		c.mu.Unlock()
		c.metrics.OnLookup(metrics.LookupPending)
		c.logger.Debug("image fetch already in progress", "photo", photo.ID, "address", address)
		return nil, nil
	}
	c.inFlight[address] = &inFlightFetch{started: c.now()}
	c.metrics.SetTables(len(c.inFlight), len(c.images))
	c.mu.Unlock()

	c.metrics.OnLookup(metrics.LookupMiss)
	c.logger.Debug("fetching image", "photo", photo.ID, "address", address)

	img, err := c.fetchImage(ctx, address)

	// The in-flight entry goes first, whatever the outcome. Removal and the
	// cache write share the critical section, so no caller can observe the
	// address as neither pending nor cached after a success.
	c.mu.Lock()
	started := c.inFlight[address].started
	delete(c.inFlight, address)
	if err == nil {
		c.images[address] = img
	}
	c.metrics.SetTables(len(c.inFlight), len(c.images))
	c.mu.Unlock()

	if err != nil {
		c.logger.Error("image fetch failed", "photo", photo.ID, "address", address, "error", err)
		return nil, err
	}

	c.logger.Debug("fetched image", "photo", photo.ID, "format", img.Format, "mime", img.MIME,
		"bytes", len(img.Data), "elapsed", c.now().Sub(started))
	return img, nil
}

// GetCachedImage returns the cached image for the photo, if any. It never fetches.
func (c *Client) GetCachedImage(photo domain.Photo) (*domain.Image, bool) {
	address := ImageURL(photo)

	c.mu.RLock()
	defer c.mu.RUnlock()
	img, ok := c.images[address]
	return img, ok
}

// IsFetching reports whether an image fetch for the photo is outstanding
func (c *Client) IsFetching(photo domain.Photo) bool {
	address := ImageURL(photo)

	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.inFlight[address]
	return ok
}

// CachedImages returns the number of images held in memory
func (c *Client) CachedImages() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

func (c *Client) fetchImage(ctx context.Context, address string) (*domain.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, address, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedURL, err)
	}

	body, err := c.doRequest(req, metrics.KindImage, isImage)
	if err != nil {
		return nil, err
	}

	return decodeImage(address, body)
}

// doRequest performs the request and validates status, content type and body
func (c *Client) doRequest(req *http.Request, kind string, accept func(mediaType string) bool) ([]byte, error) {
	c.logger.Debug("request", "kind", kind, "host", req.URL.Host, "path", req.URL.Path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.OnRequest(kind, 0)
		c.logger.Error("request failed", "kind", kind, "error", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	c.metrics.OnRequest(kind, resp.StatusCode)

	if resp.StatusCode >= http.StatusMultipleChoices {
		c.logger.Error("request error", "kind", kind, "status", resp.StatusCode)
		return nil, &domain.ServerError{StatusCode: resp.StatusCode}
	}

	contentType := resp.Header.Get("Content-Type")
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || !accept(mediaType) {
		c.logger.Error("unexpected content type", "kind", kind, "contentType", contentType)
		return nil, fmt.Errorf("%w: %q", domain.ErrUnexpectedContentType, contentType)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %w", domain.ErrTransport, err)
	}
	if len(body) == 0 {
		c.logger.Error("missing response body", "kind", kind)
		return nil, domain.ErrEmptyResponse
	}

	return body, nil
}

func isJSON(mediaType string) bool {
	return mediaType == "application/json"
}

func isImage(mediaType string) bool {
	return strings.HasPrefix(mediaType, "image/")
}
