package youtube

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"yt-transcriber/internal/models"
)

// ErrInvalidURL is returned for input that is not a YouTube video URL.
var ErrInvalidURL = errors.New("invalid YouTube URL")

var acceptedPrefixes = []string{
	"https://www.youtube.com/",
	"http://www.youtube.com/",
	"https://youtu.be/",
	"http://youtu.be/",
}

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// ValidateURL trims raw and checks it against the accepted YouTube prefixes.
func ValidateURL(raw string) (models.VideoReference, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty input", ErrInvalidURL)
	}

	for _, prefix := range acceptedPrefixes {
		if strings.HasPrefix(trimmed, prefix) {
			return models.VideoReference(trimmed), nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrInvalidURL, trimmed)
}

// VideoID extracts the 11 character video ID from the common URL shapes:
// watch?v=ID, youtu.be/ID, /shorts/ID, /embed/ID and /live/ID.
func VideoID(ref models.VideoReference) (string, error) {
	u, err := url.Parse(string(ref))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	var id string
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")

	switch {
	case strings.EqualFold(u.Host, "youtu.be"):
		id = segments[0]
	case u.Path == "/watch":
		id = u.Query().Get("v")
	case len(segments) >= 2 && (segments[0] == "shorts" || segments[0] == "embed" || segments[0] == "live"):
		id = segments[1]
	}

	if !videoIDPattern.MatchString(id) {
		return "", fmt.Errorf("%w: no video ID in %s", ErrInvalidURL, ref)
	}
	return id, nil
}
