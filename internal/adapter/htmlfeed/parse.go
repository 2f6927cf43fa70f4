package htmlfeed

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ParseTimetable walks every ".timetable-row" element, mirroring the
// teacher's doc.Find(".card--ligne").Each(...) pattern, and extracts one
// Tuple per row. Rows with an unparseable departure time are skipped
// rather than aborting the whole page.
func ParseTimetable(r io.Reader) ([]Tuple, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	var out []Tuple
	doc.Find(".timetable-row").Each(func(_ int, row *goquery.Selection) {
		from := strings.TrimSpace(row.Find(".from").Text())
		to := strings.TrimSpace(row.Find(".to").Text())
		depText := strings.TrimSpace(row.Find(".departure").Text())
		durText := strings.TrimSpace(row.Find(".duration").Text())

		if from == "" || to == "" {
			return
		}
		dep, err := parseClockTime(depText)
		if err != nil {
			return
		}

		out = append(out, Tuple{
			FromStop:   from,
			ToStop:     to,
			Departure:  dep,
			TravelTime: parseDuration(durText),
		})
	})
	return out, nil
}
