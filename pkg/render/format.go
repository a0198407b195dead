package render

import (
	"html"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// esc escapes text for HTML element and attribute context.
func esc(s string) string {
	return html.EscapeString(s)
}

// escPath percent-escapes each segment of a slash-separated path for use in
// a URL, leaving the separators alone.
func escPath(p string) string {
	segs := strings.Split(p, "/")
	for i := range segs {
		segs[i] = url.PathEscape(segs[i])
	}
	return strings.Join(segs, "/")
}

// FileSize renders a byte count for tree and blob pages.
func FileSize(n int) string {
	return humanize.Bytes(uint64(n))
}

// Date renders a unix timestamp as a short date.
func Date(ts int64) string {
	return time.Unix(ts, 0).UTC().Format("2006-01-02")
}

// FullDate renders a unix timestamp with time of day, for commit pages.
func FullDate(ts int64) string {
	return time.Unix(ts, 0).UTC().Format("Mon, 02 Jan 2006 15:04:05 -0700")
}

// DateTime renders a unix timestamp for the datetime attribute of <time>.
func DateTime(ts int64) string {
	return time.Unix(ts, 0).UTC().Format(time.RFC3339)
}

// File type and permission bits of the octal tree modes.
const (
	modeTypeMask = 0o170000
	modeRegular  = 0o100000
	modeDir      = 0o040000
	modeSymlink  = 0o120000
)

// SymbolicMode renders an octal tree mode string ("100644", "40000", ...)
// the way ls -l would. Unparseable modes come back as question marks.
func SymbolicMode(mode string) string {
	m, err := strconv.ParseInt(mode, 8, 32)
	if err != nil {
		return "?????????"
	}

	buf := make([]byte, 0, 10)
	switch m & modeTypeMask {
	case modeRegular:
		buf = append(buf, '-')
	case modeDir:
		buf = append(buf, 'd')
	case modeSymlink:
		buf = append(buf, 'l')
	default:
		buf = append(buf, '?')
	}

	for shift := 6; shift >= 0; shift -= 3 {
		bits := (m >> shift) & 0o7
		if bits&0o4 != 0 {
			buf = append(buf, 'r')
		} else {
			buf = append(buf, '-')
		}
		if bits&0o2 != 0 {
			buf = append(buf, 'w')
		} else {
			buf = append(buf, '-')
		}
		if bits&0o1 != 0 {
			buf = append(buf, 'x')
		} else {
			buf = append(buf, '-')
		}
	}
	return string(buf)
}

// logFloor counts decimal digits, for zero-padding line numbers.
func logFloor(n int) int {
	if n <= 0 {
		return 1
	}
	d := 0
	for n > 0 {
		d++
		n /= 10
	}
	return d
}
