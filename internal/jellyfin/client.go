package jellyfin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"jellynav/internal/domain"
)

const (
	defaultTimeout = 60 * time.Second
	maxRetries     = 3
	baseRetryDelay = 500 * time.Millisecond
)

// Client talks to the Jellyfin REST API on behalf of one authenticated
// user. Implements domain.LibraryClient and domain.StreamResolver.
type Client struct {
	baseURL    string
	token      string
	userID     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new Jellyfin API client
func NewClient(baseURL, token, userID string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		userID:  userID,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

// doRequest performs an authenticated GET against the Jellyfin API.
// Retries with exponential backoff on 5xx server errors. Maps 404 to
// domain.ErrItemNotFound and 401 to domain.ErrAuthFailed.
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	reqURL := c.baseURL + path
	if query != nil {
		reqURL = fmt.Sprintf("%s?%s", reqURL, query.Encode())
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if attempt > 0 {
			delay := baseRetryDelay * time.Duration(1<<(attempt-1)) // 500ms, 1s, 2s
			c.logger.Debug("retrying request", "attempt", attempt, "delay", delay, "url", reqURL)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("Accept", "application/json")
		req.Header.Set("X-Emby-Authorization", buildAuthHeader(c.token))

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.logger.Error("jellyfin request failed", "error", err)
			return nil, domain.ErrServerOffline
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}

		switch {
		case resp.StatusCode == http.StatusUnauthorized:
			return nil, domain.ErrAuthFailed
		case resp.StatusCode == http.StatusNotFound:
			return nil, domain.ErrItemNotFound
		case resp.StatusCode >= 500 && resp.StatusCode < 600:
			lastErr = fmt.Errorf("server error: %d - %s", resp.StatusCode, string(body))
			c.logger.Warn("jellyfin server error, will retry",
				"status", resp.StatusCode,
				"attempt", attempt,
				"maxRetries", maxRetries,
				"path", path,
			)
			continue
		case resp.StatusCode != http.StatusOK:
			c.logger.Error("jellyfin request error", "status", resp.StatusCode, "body", string(body))
			return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}

		return body, nil
	}

	c.logger.Error("jellyfin request failed after retries", "error", lastErr, "path", path)
	return nil, lastErr
}

// getPage performs a paginated items request and maps the response.
func (c *Client) getPage(ctx context.Context, path string, query url.Values) (domain.Page, error) {
	body, err := c.doRequest(ctx, path, query)
	if err != nil {
		return domain.Page{}, err
	}

	var resp ItemsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return domain.Page{}, fmt.Errorf("failed to parse response: %w", err)
	}

	return domain.Page{
		Items:      MapItems(resp.Items, c.baseURL),
		TotalCount: resp.TotalRecordCount,
	}, nil
}

// pageQuery builds the shared pagination parameters.
func pageQuery(start, limit int) url.Values {
	query := url.Values{}
	query.Set("StartIndex", strconv.Itoa(start))
	if limit > 0 {
		query.Set("Limit", strconv.Itoa(limit))
	}
	return query
}

// UserLibraries returns the user's library views.
func (c *Client) UserLibraries(ctx context.Context) ([]domain.LibraryItem, error) {
	path := fmt.Sprintf("/Users/%s/Views", c.userID)
	body, err := c.doRequest(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	var resp ItemsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return MapItems(resp.Items, c.baseURL), nil
}

// Item returns metadata for a single item. Library roots are often not
// reachable here; callers fall back to UserLibraries on ErrItemNotFound.
func (c *Client) Item(ctx context.Context, itemID string) (*domain.LibraryItem, error) {
	path := fmt.Sprintf("/Users/%s/Items/%s", c.userID, itemID)
	body, err := c.doRequest(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	var item Item
	if err := json.Unmarshal(body, &item); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if item.ID == "" {
		return nil, domain.ErrItemNotFound
	}

	mapped := mapItem(item, c.baseURL)
	return &mapped, nil
}

// Children returns one page of an item's direct children.
func (c *Client) Children(ctx context.Context, itemID string, start, limit int) (domain.Page, error) {
	query := pageQuery(start, limit)
	query.Set("ParentId", itemID)
	query.Set("UserId", c.userID)
	query.Set("SortBy", "SortName")
	query.Set("SortOrder", "Ascending")

	return c.getPage(ctx, "/Items", query)
}

// UserItems returns one page of the user-scoped item query under a
// parent. Library roots that Children cannot serve resolve here.
func (c *Client) UserItems(ctx context.Context, parentID string, start, limit int) (domain.Page, error) {
	query := pageQuery(start, limit)
	query.Set("ParentId", parentID)
	query.Set("SortBy", "SortName")
	query.Set("SortOrder", "Ascending")

	path := fmt.Sprintf("/Users/%s/Items", c.userID)
	return c.getPage(ctx, path, query)
}

// LiveTVChannels returns one page of the live-TV channel listing.
func (c *Client) LiveTVChannels(ctx context.Context, start, limit int) (domain.Page, error) {
	query := pageQuery(start, limit)
	query.Set("UserId", c.userID)

	return c.getPage(ctx, "/LiveTv/Channels", query)
}

// ResumeItems returns one page of the continue-watching list.
func (c *Client) ResumeItems(ctx context.Context, start, limit int) (domain.Page, error) {
	query := pageQuery(start, limit)
	query.Set("MediaTypes", "Video")

	path := fmt.Sprintf("/Users/%s/Items/Resume", c.userID)
	return c.getPage(ctx, path, query)
}

// FavoriteItems returns one page of the user's favorites.
func (c *Client) FavoriteItems(ctx context.Context, start, limit int) (domain.Page, error) {
	query := pageQuery(start, limit)
	query.Set("Filters", "IsFavorite")
	query.Set("Recursive", "true")

	path := fmt.Sprintf("/Users/%s/Items", c.userID)
	return c.getPage(ctx, path, query)
}

// ResolvePlayableURL returns a direct playback URL for an item
func (c *Client) ResolvePlayableURL(ctx context.Context, itemID string) (string, error) {
	query := url.Values{}
	query.Set("UserId", c.userID)
	query.Set("MaxStreamingBitrate", "140000000") // High bitrate for direct play

	path := fmt.Sprintf("/Items/%s/PlaybackInfo", itemID)
	body, err := c.doRequest(ctx, path, query)
	if err != nil {
		return "", err
	}

	var resp PlaybackInfoResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if len(resp.MediaSources) == 0 {
		return "", domain.ErrItemNotFound
	}

	source := resp.MediaSources[0]

	// Format: /Videos/{itemId}/stream.{container}?static=true&api_key={token}
	streamURL := fmt.Sprintf("%s/Videos/%s/stream.%s?Static=true&api_key=%s",
		c.baseURL, itemID, source.Container, c.token)

	return streamURL, nil
}
