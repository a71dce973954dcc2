package ratsinfo

import (
	"strings"
	"time"

	"terminplaner-backend/lib/timezone"
)

// normalizeJsonEvent maps one structured-endpoint record into a
// Meeting. The structured transport has no separate committee field,
// the title doubles as the governing body name. Records without a
// usable title are dropped.
func (c *Client) normalizeJsonEvent(event rawEvent) (Meeting, bool) {
	title := event.Title
	if title == "" {
		title = event.Summary
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return Meeting{}, false
	}

	start := event.Start
	if start == "" {
		start = event.StartTime
	}

	date, clock := splitIsoStart(start)
	if date == "" {
		return Meeting{}, false
	}

	link := event.Url
	if link == "" {
		link = event.Link
	}

	return Meeting{
		Committee: title,
		Title:     title,
		Date:      date,
		Time:      clock,
		Location:  strings.TrimSpace(event.Location),
		DetailUrl: c.resolveUrl(link),
	}, true
}

// splitIsoStart takes "2025-07-24T17:00:00" or "2025-07-24" and
// returns the German-format date plus an HH:MM clock (empty for
// date-only starts). An unparsable date yields an empty date string,
// the record is then rejected rather than defaulted to today.
func splitIsoStart(start string) (string, string) {
	if start == "" {
		return "", ""
	}

	datePart := start
	clock := ""
	if idx := strings.IndexByte(start, 'T'); idx >= 0 {
		datePart = start[:idx]
		rest := start[idx+1:]
		if len(rest) >= 5 {
			clock = rest[:5]
		}
	}

	parsed, err := time.ParseInLocation("2006-01-02", datePart, timezone.Location)
	if err != nil {
		return "", ""
	}
	return parsed.Format("02.01.2006"), clock
}
