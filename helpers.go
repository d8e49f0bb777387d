package sitepatch

import (
	"path"
	"regexp"
	"strings"
	"time"
)

var reFilename = regexp.MustCompile(`^[A-Za-z0-9_\- ]+\.html$`)

// ValidFilename reports whether name is a plain .html file name: letters,
// digits, underscore, dash and space only, no directories.
func ValidFilename(name string) bool {
	return reFilename.MatchString(name)
}

// SlugFromFilename strips the directory and the .html extension.
func SlugFromFilename(name string) string {
	return strings.TrimSuffix(path.Base(name), ".html")
}

// FilterEmpty removes empty/whitespace-only strings from a slice.
func FilterEmpty(vals []string) []string {
	var out []string
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Timestamp formats t as UTC with millisecond precision, e.g.
// 2024-05-01T09:30:00.000Z.
func Timestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}
