package transcript

import (
	"regexp"

	"github.com/goldytalks/novig-scripter/internal/types"
)

// YouTube URL shapes: watch, short-link, shorts, embed, live.
var youtubeREs = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com|m\.youtube\.com)/watch\?(?:[^#]*&)?v=([A-Za-z0-9_-]{6,})`),
	regexp.MustCompile(`youtu\.be/([A-Za-z0-9_-]{6,})`),
	regexp.MustCompile(`youtube\.com/shorts/([A-Za-z0-9_-]{6,})`),
	regexp.MustCompile(`youtube\.com/embed/([A-Za-z0-9_-]{6,})`),
	regexp.MustCompile(`youtube\.com/live/([A-Za-z0-9_-]{6,})`),
}

// Instagram post/reel/tv/profile shapes.
var instagramRE = regexp.MustCompile(`instagram\.com/(?:p|reel|reels|tv|stories)/([A-Za-z0-9_-]+)|instagram\.com/([A-Za-z0-9_.]+)/?`)

// DetectPlatform classifies a raw URL and extracts the video
// identifier where one exists. Unrecognized URLs are an error, not a
// platform.
func DetectPlatform(raw string) (types.Platform, string, error) {
	for _, re := range youtubeREs {
		if m := re.FindStringSubmatch(raw); m != nil {
			return types.PlatformYouTube, m[1], nil
		}
	}
	if m := instagramRE.FindStringSubmatch(raw); m != nil {
		id := m[1]
		if id == "" {
			id = m[2]
		}
		return types.PlatformInstagram, id, nil
	}
	return "", "", ErrUnsupportedURL
}
