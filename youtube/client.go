// Package youtube searches videos through the YouTube Data API v3.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"
	"strconv"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/tubecycle/tubecycle/internal/cache"
	"github.com/tubecycle/tubecycle/key"
	"github.com/tubecycle/tubecycle/log"
	"github.com/tubecycle/tubecycle/network"
	"github.com/tubecycle/tubecycle/util"
	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/googleapi/transport"
	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"
)

// ErrNotFound is returned when a video id resolves to nothing.
var ErrNotFound = errors.New("video not found")

// SafeSearchLevels are the accepted values of youtube.safe_search.
var SafeSearchLevels = []string{"none", "moderate", "strict"}

// Client wraps the Data API service with result caching.
type Client struct {
	service    *yt.Service
	maxResults int64
	safeSearch string
	ttl        time.Duration
	limiter    *rate.Limiter
}

// Data API calls are limited to one per requestRate after an initial burst.
const (
	requestRate  = 200 * time.Millisecond
	requestBurst = 5
)

// NewClient builds a client authenticated with apiKey over the shared HTTP client.
// Extra options are applied last.
func NewClient(ctx context.Context, apiKey string, opts ...option.ClientOption) (*Client, error) {
	httpClient := &http.Client{
		Timeout: network.Client.Timeout,
		Transport: &transport.APIKey{
			Key:       apiKey,
			Transport: network.Client.Transport,
		},
	}

	service, err := yt.NewService(ctx, append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}

	safeSearch := viper.GetString(key.YouTubeSafeSearch)
	if !lo.Contains(SafeSearchLevels, safeSearch) {
		log.Warnf("unknown safe search level %q, using moderate", safeSearch)
		safeSearch = "moderate"
	}

	return &Client{
		service:    service,
		maxResults: int64(util.Clamp(viper.GetInt(key.YouTubeMaxResults), 1, 50)),
		safeSearch: safeSearch,
		ttl:        time.Duration(viper.GetInt(key.YouTubeCacheTTLMinutes)) * time.Minute,
		limiter:    rate.NewLimiter(rate.Every(requestRate), requestBurst),
	}, nil
}

// Search returns one page of video results. Pages are served from the disk cache while fresh.
func (c *Client) Search(ctx context.Context, query, pageToken string) (*Page, error) {
	cacheKey := cache.Key(query, pageToken, strconv.FormatInt(c.maxResults, 10), c.safeSearch)

	var cached Page
	if cache.Read(cacheKey, c.ttl, &cached) {
		log.Debugf("search %q: served from cache", query)
		return &cached, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	call := c.service.Search.List([]string{"snippet"}).
		Context(ctx).
		Q(query).
		Type("video").
		MaxResults(c.maxResults).
		SafeSearch(c.safeSearch)

	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	resp, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, describe(err))
	}

	page := &Page{
		Query:         query,
		NextPageToken: resp.NextPageToken,
		PrevPageToken: resp.PrevPageToken,
		Videos: lo.FilterMap(resp.Items, func(item *yt.SearchResult, _ int) (*Video, bool) {
			if item.Id == nil || item.Id.VideoId == "" || item.Snippet == nil {
				return nil, false
			}
			return &Video{
				ID:          item.Id.VideoId,
				Title:       html.UnescapeString(item.Snippet.Title),
				Channel:     html.UnescapeString(item.Snippet.ChannelTitle),
				Description: html.UnescapeString(item.Snippet.Description),
				PublishedAt: parseTime(item.Snippet.PublishedAt),
				Thumbnail:   thumbnail(item.Snippet.Thumbnails),
			}, true
		}),
	}
	if resp.PageInfo != nil {
		page.TotalResults = resp.PageInfo.TotalResults
	}

	if c.ttl > 0 {
		if err := cache.Write(cacheKey, page); err != nil {
			log.Warnf("search %q: cache write failed: %v", query, err)
		}
	}

	log.Infof("search %q: %d results", query, len(page.Videos))
	return page, nil
}

// Video looks up a single video by id.
func (c *Client) Video(ctx context.Context, id string) (*Video, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := c.service.Videos.List([]string{"snippet"}).Context(ctx).Id(id).Do()
	if err != nil {
		return nil, fmt.Errorf("video %s: %w", id, describe(err))
	}

	if len(resp.Items) == 0 || resp.Items[0].Snippet == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	item := resp.Items[0]
	return &Video{
		ID:          item.Id,
		Title:       item.Snippet.Title,
		Channel:     item.Snippet.ChannelTitle,
		Description: item.Snippet.Description,
		PublishedAt: parseTime(item.Snippet.PublishedAt),
		Thumbnail:   thumbnail(item.Snippet.Thumbnails),
	}, nil
}

// describe shortens API errors to their first reason.
func describe(err error) error {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return err
	}

	switch apiErr.Code {
	case http.StatusBadRequest, http.StatusForbidden:
		if len(apiErr.Errors) > 0 {
			return fmt.Errorf("%s (%d): %w", apiErr.Errors[0].Reason, apiErr.Code, err)
		}
	}
	return err
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func thumbnail(t *yt.ThumbnailDetails) string {
	if t == nil {
		return ""
	}

	for _, th := range []*yt.Thumbnail{t.Medium, t.High, t.Default} {
		if th != nil && th.Url != "" {
			return th.Url
		}
	}
	return ""
}
