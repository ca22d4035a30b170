// internal/media/candidates.go
package media

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// scriptMediaPattern finds a quoted absolute media URL inside inline script text
var scriptMediaPattern = regexp.MustCompile(`"(http[^"]+\.(mp4|m3u8|mp3)[^"]*)"`)

// ExtractCandidates collects unvalidated media candidates from rendered HTML.
// Order is video, audio, source elements, then one URL per script block.
// Relative src values are resolved against pageURL or a <base href>.
func ExtractCandidates(html, pageURL string) ([]MediaResource, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	base, _ := url.Parse(pageURL)
	if href, ok := doc.Find("base[href]").First().Attr("href"); ok {
		base = resolve(base, href, base)
	}

	candidates := []MediaResource{}
	add := func(src, mimeType string) {
		candidates = append(candidates, MediaResource{
			Filename: FilenameFromURL(src),
			Type:     mimeType,
			URL:      src,
			Size:     UnknownSize,
		})
	}

	collect := func(selector string, typeOf func(*goquery.Selection) string) {
		doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
			raw, _ := s.Attr("src")
			raw = strings.TrimSpace(raw)
			if raw == "" {
				return
			}
			add(resolveString(base, raw), typeOf(s))
		})
	}

	collect("video[src]", func(*goquery.Selection) string { return DefaultVideoType })
	collect("audio[src]", func(*goquery.Selection) string { return DefaultAudioType })
	collect("source[src]", func(s *goquery.Selection) string {
		if t, ok := s.Attr("type"); ok && t != "" {
			return t
		}
		return UnknownType
	})

	doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		m := scriptMediaPattern.FindStringSubmatch(s.Text())
		if m == nil {
			return
		}
		mimeType := DefaultVideoType
		if strings.HasSuffix(m[1], ".mp3") {
			mimeType = DefaultAudioType
		}
		add(m[1], mimeType)
	})

	return candidates, nil
}

func resolve(base *url.URL, ref string, fallback *url.URL) *url.URL {
	u, err := url.Parse(ref)
	if err != nil {
		return fallback
	}
	if base == nil {
		return u
	}
	return base.ResolveReference(u)
}

func resolveString(base *url.URL, ref string) string {
	u, err := url.Parse(ref)
	if err != nil || base == nil {
		return ref
	}
	return base.ResolveReference(u).String()
}
