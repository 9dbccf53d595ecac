// Package playlist renders schedule rows into an extended M3U playlist.
package playlist

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"tubi-epg/consts"
	"tubi-epg/tubi"
)

// CleanStreamURL percent-decodes u and drops its query and fragment. It is
// applied until it reaches a fixed point, so cleaning a cleaned URL is a no-op.
func CleanStreamURL(u string) string {
	for {
		next := stripQuery(unescape(u))
		if next == u {
			return u
		}
		u = next
	}
}

var percentEscape = regexp.MustCompile(`%[0-9A-Fa-f]{2}`)

// unescape decodes every valid %XX sequence; malformed ones stay as they are.
func unescape(s string) string {
	return percentEscape.ReplaceAllStringFunc(s, func(esc string) string {
		b, _ := strconv.ParseUint(esc[1:], 16, 8)
		return string([]byte{byte(b)})
	})
}

func stripQuery(s string) string {
	if i := strings.IndexByte(s, '#'); i >= 0 {
		s = s[:i]
	}
	if i := strings.IndexByte(s, '?'); i >= 0 {
		s = s[:i]
	}
	return s
}

// GuideURL is the guide document location advertised in the playlist header.
func GuideURL(baseURL, country string) string {
	return strings.TrimSuffix(baseURL, "/") + "/" + fmt.Sprintf(consts.EPG_FILENAME, strings.ToLower(country))
}

type Entry struct {
	ID     string
	Logo   string
	Group  string
	Title  string
	Stream string
}

// Entries sorts rows by title (case-insensitive, stable) and keeps the first
// row for every distinct cleaned stream URL. Rows without a stream are dropped.
func Entries(rows []tubi.Row, groups tubi.GroupMapping) []Entry {
	sorted := make([]tubi.Row, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return strings.ToLower(sorted[i].TitleOr("")) < strings.ToLower(sorted[j].TitleOr(""))
	})

	seen := make(map[string]bool, len(sorted))
	entries := make([]Entry, 0, len(sorted))
	for _, row := range sorted {
		stream := CleanStreamURL(row.StreamURL())
		if stream == "" || seen[stream] {
			continue
		}
		seen[stream] = true
		id := string(row.ContentID)
		title := row.TitleOr(consts.UNKNOWN_CHANNEL)
		entries = append(entries, Entry{
			ID:     id,
			Logo:   row.Thumbnail(),
			Group:  groups.Group(id),
			Title:  title,
			Stream: stream,
		})
	}
	return entries
}

func Compose(rows []tubi.Row, groups tubi.GroupMapping, guideURL string) (string, int) {
	entries := Entries(rows, groups)
	var b strings.Builder
	fmt.Fprintf(&b, "#EXTM3U url-tvg=\"%s\"\n", guideURL)
	for _, e := range entries {
		fmt.Fprintf(&b, "#EXTINF:-1 tvg-id=\"%s\" tvg-logo=\"%s\" group-title=\"%s\",%s\n%s\n",
			e.ID, e.Logo, e.Group, e.Title, e.Stream)
	}
	return b.String(), len(entries)
}
