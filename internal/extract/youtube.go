package extract

import "regexp"

// videoIDRe matches the ways a YouTube video link is commonly written:
// youtube.com/watch?v=ID, youtu.be/ID, with or without scheme and www.
var videoIDRe = regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/)([\w-]+)`)

// ExtractVideoID pulls the video identifier out of a YouTube URL.
// Returns "" when the URL is not a recognizable video link.
func ExtractVideoID(url string) string {
	m := videoIDRe.FindStringSubmatch(url)
	if len(m) > 1 {
		return m[1]
	}
	return ""
}
