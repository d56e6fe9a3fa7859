package playlist

import "strings"

// Channel is one playlist entry: the #EXTINF info line, any directive lines
// that followed it, and the stream URL that closed the record. Directive
// lines are kept verbatim so the output playlist can reproduce them.
type Channel struct {
	Extinf  string
	Options []string
	URL     string
}

// Name returns the display name after the first comma of the EXTINF line.
func (c *Channel) Name() string {
	if i := strings.Index(c.Extinf, ","); i >= 0 {
		return strings.TrimSpace(c.Extinf[i+1:])
	}
	return "Unknown"
}

// Lines returns the channel block in its original playlist order.
func (c *Channel) Lines() []string {
	lines := make([]string, 0, len(c.Options)+2)
	lines = append(lines, c.Extinf)
	lines = append(lines, c.Options...)
	lines = append(lines, c.URL)
	return lines
}
