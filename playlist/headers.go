package playlist

import "strings"

// ExtractHeaders derives the HTTP headers a channel's directives ask for.
// Headers can arrive through VLC options, Kodi properties or attributes
// embedded in the EXTINF line itself; when several directives define the
// same header the later one wins. Malformed fragments are skipped silently.
func ExtractHeaders(extinf string, options []string) map[string]string {
	headers := make(map[string]string)

	extractFromInfoLine(extinf, headers)

	for _, opt := range options {
		switch {
		case strings.HasPrefix(opt, "#EXTVLCOPT:"):
			extractFromVLCOption(strings.TrimPrefix(opt, "#EXTVLCOPT:"), headers)
		case strings.HasPrefix(opt, "#KODIPROP:"):
			extractFromKodiProp(strings.TrimPrefix(opt, "#KODIPROP:"), headers)
		}
	}

	return headers
}

// CanonicalHeaderName maps the three well-known headers to their canonical
// spellings and Title-Cases everything else segment by segment.
func CanonicalHeaderName(name string) string {
	switch strings.ToLower(name) {
	case "user-agent":
		return "User-Agent"
	case "referer", "referrer":
		return "Referer"
	case "origin":
		return "Origin"
	}
	return TitleCaseHeader(name)
}

// TitleCaseHeader reformats a header name to Title-Case, hyphen segment by
// hyphen segment.
func TitleCaseHeader(name string) string {
	parts := strings.Split(name, "-")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + strings.ToLower(p[1:])
	}
	return strings.Join(parts, "-")
}

func extractFromVLCOption(opt string, headers map[string]string) {
	opt = strings.TrimSpace(opt)

	if v, ok := strings.CutPrefix(opt, "http-user-agent="); ok {
		headers["User-Agent"] = strings.TrimSpace(v)
		return
	}
	if v, ok := strings.CutPrefix(opt, "http-referrer="); ok {
		headers["Referer"] = strings.TrimSpace(v)
		return
	}
	if v, ok := strings.CutPrefix(opt, "http-origin="); ok {
		headers["Origin"] = strings.TrimSpace(v)
		return
	}
	if v, ok := strings.CutPrefix(opt, "http-header="); ok {
		if key, value, found := strings.Cut(v, ":"); found {
			headers[CanonicalHeaderName(strings.TrimSpace(key))] = strings.TrimSpace(value)
		}
		return
	}

	// Generic http-<name>=<value> options carry arbitrary headers.
	if rest, ok := strings.CutPrefix(opt, "http-"); ok {
		if key, value, found := strings.Cut(rest, "="); found {
			headers[CanonicalHeaderName(key)] = strings.TrimSpace(value)
		}
	}
}

func extractFromKodiProp(prop string, headers map[string]string) {
	prop = strings.TrimSpace(prop)

	// inputstream.adaptive carries a whole header set as an
	// ampersand-delimited key=value list.
	if list, ok := strings.CutPrefix(prop, "inputstream.adaptive.stream_headers="); ok {
		for _, pair := range strings.Split(list, "&") {
			if key, value, found := strings.Cut(pair, "="); found {
				headers[CanonicalHeaderName(strings.TrimSpace(key))] = strings.TrimSpace(value)
			}
		}
		return
	}

	key, value, found := strings.Cut(prop, "=")
	if !found {
		return
	}
	key = strings.ToLower(strings.TrimSpace(key))
	value = strings.TrimSpace(value)

	switch {
	case key == "user-agent", key == "http-user-agent", strings.HasSuffix(key, ".useragent"):
		headers["User-Agent"] = value
	case key == "referer", key == "referrer", key == "http-referrer", key == "http-referer":
		headers["Referer"] = value
	case key == "origin", key == "http-origin":
		headers["Origin"] = value
	}
}

var infoLineAttributes = []struct {
	key    string
	header string
}{
	{"user-agent=", "User-Agent"},
	{"referrer=", "Referer"},
	{"referer=", "Referer"},
	{"origin=", "Origin"},
}

func extractFromInfoLine(extinf string, headers map[string]string) {
	lower := strings.ToLower(extinf)

	for _, attr := range infoLineAttributes {
		i := strings.Index(lower, attr.key)
		if i <= 0 {
			continue
		}
		if value := attributeValue(extinf[i+len(attr.key):]); value != "" {
			headers[attr.header] = value
		}
	}
}

// attributeValue finds the end of an attribute value: a closing double quote
// when the value is quoted, otherwise the first space, otherwise the first
// comma, otherwise the rest of the line.
func attributeValue(s string) string {
	if strings.HasPrefix(s, `"`) {
		if end := strings.Index(s[1:], `"`); end >= 0 {
			return s[1 : 1+end]
		}
		return ""
	}
	if i := strings.IndexByte(s, ' '); i >= 0 {
		return s[:i]
	}
	if i := strings.IndexByte(s, ','); i >= 0 {
		return s[:i]
	}
	return s
}
