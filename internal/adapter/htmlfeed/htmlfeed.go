// Package htmlfeed is a demonstration external ingester (§6, §2): it
// scrapes an HTML timetable page with goquery into
// (fromStop, toStop, departure, duration) tuples, standing in for the
// teacher's scrapers/scraper.go (which scraped casatramway.ma's line
// list the same way, `.Find(...).Each(...)`). Not part of the core's
// invariants or test budget; a real feed adapter would more likely
// consume GTFS than an HTML page, but this mirrors what the teacher
// actually shipped.
package htmlfeed

import (
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Tuple is one scraped timetable row: a scheduled departure from one
// stop to another, with the leg's travel time. Stop names are the raw
// scraped strings; resolving them to connstore.StopId values is left
// to the caller, which is expected to hold a name->StopId mapping from
// a separate stops feed (out of scope, per spec.md).
type Tuple struct {
	FromStop   string
	ToStop     string
	Departure  uint32 // seconds since midnight
	TravelTime uint16 // seconds
}

// Fetch retrieves an HTML document and returns its body unparsed (pass
// it to ParseTimetable), grounded on the
// teacher's fetchPage: a short client timeout and browser-like headers
// (some timetable sites reject bare Go User-Agents).
func Fetch(url string) (io.ReadCloser, error) {
	client := &http.Client{Timeout: 15 * time.Second}
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept-Language", "fr-FR,fr;q=0.9")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("htmlfeed: status code %d", resp.StatusCode)
	}
	return resp.Body, nil
}

var (
	clockTime = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::(\d{2}))?$`)
	minutes   = regexp.MustCompile(`(\d+)\s*min`)
	seconds   = regexp.MustCompile(`(\d+)\s*s`)
)

// parseClockTime turns "HH:MM" or "HH:MM:SS" into seconds since
// midnight, the same parse-then-convert shape as the teacher's
// parseTime + TimeToSeconds combination.
func parseClockTime(s string) (uint32, error) {
	m := clockTime.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, fmt.Errorf("htmlfeed: %q is not a clock time", s)
	}
	h, _ := strconv.Atoi(m[1])
	min, _ := strconv.Atoi(m[2])
	sec := 0
	if m[3] != "" {
		sec, _ = strconv.Atoi(m[3])
	}
	return uint32(h*3600 + min*60 + sec), nil
}

// parseDuration turns a free-text duration like "12 min" or "5 min 30s"
// into seconds, reusing the teacher's parseInterval regex shape.
func parseDuration(s string) uint16 {
	s = strings.ToLower(s)
	min := 0
	sec := 0
	if m := minutes.FindStringSubmatch(s); m != nil {
		min, _ = strconv.Atoi(m[1])
	}
	if m := seconds.FindStringSubmatch(s); m != nil {
		sec, _ = strconv.Atoi(m[1])
	}
	return uint16(min*60 + sec)
}
