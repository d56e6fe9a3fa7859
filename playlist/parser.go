package playlist

import "strings"

var urlSchemes = []string{"http://", "https://", "rtmp://", "rtsp://", "mms://", "udp://"}

var optionPrefixes = []string{"#EXTVLCOPT:", "#KODIPROP:", "#EXTGRP:", "#EXTLOGO:"}

func isStreamURL(line string) bool {
	for _, scheme := range urlSchemes {
		if strings.HasPrefix(line, scheme) {
			return true
		}
	}
	return false
}

func isOption(line string) bool {
	for _, prefix := range optionPrefixes {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

// Parse turns raw playlist text into channel records. Parsing is purely
// structural: an EXTINF line opens a record, directive lines accumulate on
// it verbatim, and a recognized URL scheme closes the URL field. Records
// that never receive a URL are dropped.
func Parse(content string) []*Channel {
	var parsed []*Channel
	var current *Channel

	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)

		switch {
		case line == "" || line == "#EXTM3U":
			continue
		case strings.HasPrefix(line, "#EXTINF:"):
			current = &Channel{Extinf: line}
			parsed = append(parsed, current)
		case isOption(line):
			if current != nil {
				current.Options = append(current.Options, line)
			}
		case isStreamURL(line):
			if current != nil {
				current.URL = line
			}
		}
	}

	channels := make([]*Channel, 0, len(parsed))
	for _, ch := range parsed {
		if ch.URL != "" {
			channels = append(channels, ch)
		}
	}
	return channels
}
