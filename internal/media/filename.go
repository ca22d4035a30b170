// internal/media/filename.go
package media

import (
	"net/url"
	"strings"
)

// FilenameFromURL returns the last path segment of rawURL, or UnknownFilename
// when the URL is not absolute or its path ends without a segment. The
// segment is unescaped unless it encodes a path separator.
func FilenameFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" {
		return UnknownFilename
	}

	p := parsed.EscapedPath()
	if p == "" {
		p = parsed.Opaque
	}

	name := p[strings.LastIndex(p, "/")+1:]
	if name == "" {
		return UnknownFilename
	}

	if decoded, err := url.PathUnescape(name); err == nil && !strings.Contains(decoded, "/") {
		return decoded
	}
	return name
}
