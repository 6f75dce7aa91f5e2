package youtube

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync/atomic"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/tubecycle/tubecycle/filesystem"
	"github.com/tubecycle/tubecycle/key"
	"google.golang.org/api/option"
)

func init() {
	filesystem.SetMemMapFs()
}

const searchResponse = `{
  "nextPageToken": "CAoQAA",
  "pageInfo": {"totalResults": 1000000, "resultsPerPage": 2},
  "items": [
    {
      "id": {"kind": "youtube#video", "videoId": "jfKfPfyJRdk"},
      "snippet": {
        "title": "lofi hip hop radio &#39;beats to relax&#39;",
        "channelTitle": "Lofi Girl",
        "description": "study",
        "publishedAt": "2022-07-12T12:12:29Z",
        "thumbnails": {"medium": {"url": "https://i.ytimg.com/vi/jfKfPfyJRdk/mqdefault.jpg"}}
      }
    },
    {
      "id": {"kind": "youtube#channel", "channelId": "UCSJ4gkVC6NrvII8umztf0Ow"},
      "snippet": {"title": "a channel"}
    }
  ]
}`

var queries atomic.Int64

// uniqueQuery keeps cached pages from leaking between test runs.
func uniqueQuery() string {
	return "lofi " + strconv.FormatInt(queries.Add(1), 10)
}

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	client, err := NewClient(context.Background(), "test-key",
		option.WithEndpoint(srv.URL+"/"),
	)
	So(err, ShouldBeNil)
	return client, srv
}

func TestSearch(t *testing.T) {
	Convey("Given a Data API serving one video", t, func() {
		viper.Set(key.YouTubeMaxResults, 2)
		viper.Set(key.YouTubeSafeSearch, "strict")
		viper.Set(key.YouTubeCacheTTLMinutes, 30)

		var hits atomic.Int32
		var lastQuery atomic.Value
		client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/youtube/v3/search" {
				http.NotFound(w, r)
				return
			}
			hits.Add(1)
			lastQuery.Store(r.URL.Query())
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(searchResponse))
		})
		defer srv.Close()

		Convey("When searching", func() {
			query := uniqueQuery()
			page, err := client.Search(context.Background(), query, "")

			Convey("Then the videos are decoded", func() {
				So(err, ShouldBeNil)
				So(page.Videos, ShouldHaveLength, 1)
				So(page.Videos[0].ID, ShouldEqual, "jfKfPfyJRdk")
				So(page.Videos[0].Title, ShouldEqual, "lofi hip hop radio 'beats to relax'")
				So(page.Videos[0].Channel, ShouldEqual, "Lofi Girl")
				So(page.Videos[0].PublishedAt.Year(), ShouldEqual, 2022)
				So(page.Videos[0].URL(), ShouldEqual, "https://www.youtube.com/watch?v=jfKfPfyJRdk")
				So(page.NextPageToken, ShouldEqual, "CAoQAA")
				So(page.HasNext(), ShouldBeTrue)
				So(page.HasPrev(), ShouldBeFalse)
				So(page.TotalResults, ShouldEqual, int64(1000000))
			})

			Convey("Then the request carries the key and filters", func() {
				So(err, ShouldBeNil)
				q := lastQuery.Load().(url.Values)
				So(q["key"], ShouldResemble, []string{"test-key"})
				So(q["type"], ShouldResemble, []string{"video"})
				So(q["maxResults"], ShouldResemble, []string{"2"})
				So(q["safeSearch"], ShouldResemble, []string{"strict"})
			})

			Convey("Then the same page is served from cache", func() {
				So(err, ShouldBeNil)
				again, err := client.Search(context.Background(), query, "")
				So(err, ShouldBeNil)
				So(again.Videos[0].ID, ShouldEqual, "jfKfPfyJRdk")
				So(hits.Load(), ShouldEqual, int32(1))
			})
		})
	})

	Convey("Given a Data API rejecting the key", t, func() {
		viper.Set(key.YouTubeCacheTTLMinutes, 0)
		client, srv := newTestClient(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"code":400,"message":"API key not valid.","errors":[{"reason":"keyInvalid","message":"API key not valid."}]}}`))
		})
		defer srv.Close()

		Convey("Then the reason is surfaced", func() {
			_, err := client.Search(context.Background(), "anything", "")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "keyInvalid")
		})
	})
}

func TestVideo(t *testing.T) {
	Convey("Given a Data API with one known video", t, func() {
		client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if r.URL.Query().Get("id") == "dQw4w9WgXcQ" {
				_, _ = w.Write([]byte(`{"items":[{"id":"dQw4w9WgXcQ","snippet":{"title":"Never Gonna Give You Up","channelTitle":"Rick Astley"}}]}`))
				return
			}
			_, _ = w.Write([]byte(`{"items":[]}`))
		})
		defer srv.Close()

		Convey("Then it is looked up by id", func() {
			video, err := client.Video(context.Background(), "dQw4w9WgXcQ")
			So(err, ShouldBeNil)
			So(video.Title, ShouldEqual, "Never Gonna Give You Up")
			So(video.Channel, ShouldEqual, "Rick Astley")
		})

		Convey("Then unknown ids are not found", func() {
			_, err := client.Video(context.Background(), "xxxxxxxxxxx")
			So(errors.Is(err, ErrNotFound), ShouldBeTrue)
		})
	})
}

func TestParseVideoID(t *testing.T) {
	Convey("ParseVideoID", t, func() {
		for _, input := range []string{
			"dQw4w9WgXcQ",
			"https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			"https://www.youtube.com/watch?feature=share&v=dQw4w9WgXcQ&t=42",
			"https://m.youtube.com/watch?v=dQw4w9WgXcQ",
			"https://youtu.be/dQw4w9WgXcQ?si=abc",
			"https://www.youtube.com/shorts/dQw4w9WgXcQ",
			"https://www.youtube.com/embed/dQw4w9WgXcQ",
			"  youtube.com/watch?v=dQw4w9WgXcQ  ",
		} {
			id, err := ParseVideoID(input)
			So(err, ShouldBeNil)
			So(id, ShouldEqual, "dQw4w9WgXcQ")
		}

		for _, input := range []string{
			"",
			"short",
			"https://example.com/watch?v=dQw4w9WgXcQ",
			"https://www.youtube.com/watch?v=dQw4w9WgXcQextra",
		} {
			_, err := ParseVideoID(input)
			So(errors.Is(err, ErrInvalidID), ShouldBeTrue)
		}
	})
}
