package youtube

import (
	"fmt"
	"time"
)

// Video is a single search result.
type Video struct {
	ID          string    `json:"id" jsonschema:"description=11 character video id"`
	Title       string    `json:"title"`
	Channel     string    `json:"channel"`
	Description string    `json:"description,omitempty"`
	PublishedAt time.Time `json:"published_at"`
	Thumbnail   string    `json:"thumbnail,omitempty"`
}

// URL is the watch page of the video, playable by mpv through its youtube-dl hook.
func (v *Video) URL() string {
	return WatchURL(v.ID)
}

func (v *Video) String() string {
	return fmt.Sprintf("%s (%s)", v.Title, v.Channel)
}

// WatchURL builds the watch page URL for id.
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}

// Page is one page of search results.
type Page struct {
	Query         string   `json:"query"`
	Videos        []*Video `json:"videos"`
	NextPageToken string   `json:"next_page_token,omitempty"`
	PrevPageToken string   `json:"prev_page_token,omitempty"`
	TotalResults  int64    `json:"total_results"`
}

func (p *Page) HasNext() bool {
	return p.NextPageToken != ""
}

func (p *Page) HasPrev() bool {
	return p.PrevPageToken != ""
}
