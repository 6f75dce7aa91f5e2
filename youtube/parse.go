package youtube

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/tubecycle/tubecycle/util"
)

// ErrInvalidID is returned when input holds no recognizable video id.
var ErrInvalidID = errors.New("not a YouTube video id or URL")

var (
	idPattern  = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
	urlPattern = regexp.MustCompile(`(?:youtube\.com/(?:watch\?(?:.*&)?v=|shorts/|embed/|live/|v/)|youtu\.be/)(?P<id>[A-Za-z0-9_-]{11})(?:[^A-Za-z0-9_-]|$)`)
)

// ParseVideoID extracts the video id from a bare id or any common YouTube URL form.
func ParseVideoID(input string) (string, error) {
	input = strings.TrimSpace(input)

	if idPattern.MatchString(input) {
		return input, nil
	}

	if id, ok := util.ReGroups(urlPattern, input)["id"]; ok {
		return id, nil
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidID, input)
}
