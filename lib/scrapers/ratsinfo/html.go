package ratsinfo

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"terminplaner-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// the selectors the rendered pages have used over time, most specific
// first: the alternating-row meeting table, calendar event containers,
// then generic list markup
var meetingSelectors = []string{
	"tr.table-row-odd, tr.table-row-even",
	".calendar-event",
	".meeting-row",
	"tr[data-date]",
	".list-group-item",
}

var dateRegex = regexp.MustCompile(`(\d{1,2})\.(\d{1,2})\.(\d{4})`)
var timeRegex = regexp.MustCompile(`(\d{1,2}):(\d{2})`)

// fetchMonthHtml scrapes one month off the human-facing pages, used
// only when the structured endpoint came back empty. Candidate URLs
// are tried in order until one serves parseable meeting markup.
func (c *Client) fetchMonthHtml(ctx context.Context, period Period) []Meeting {
	ctx, span := tracer.Start(ctx, "fetchMonthHtml")
	defer span.End()

	first, last := period.Bounds()
	candidates := []string{
		fmt.Sprintf("/termine/?year=%04d&month=%02d", period.Year, period.Month),
		fmt.Sprintf("/termine/kalender/%04d/%02d", period.Year, period.Month),
		fmt.Sprintf("/termine/liste?von=%s&bis=%s",
			first.Format("2006-01-02"), last.Format("2006-01-02")),
	}

	for _, candidate := range candidates {
		if ctx.Err() != nil {
			return nil
		}

		res, err := c.Http.R().
			SetContext(ctx).
			Get(candidate)
		if err != nil || res.IsError() {
			slog.DebugContext(ctx, "fallback page unavailable", "url", candidate, "err", err)
			continue
		}

		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
		if err != nil {
			continue
		}

		for _, selector := range meetingSelectors {
			elements := doc.Find(selector)
			if elements.Length() == 0 {
				continue
			}

			var meetings []Meeting
			elements.Each(func(_ int, element *goquery.Selection) {
				meeting, ok := c.parseMeetingElement(element)
				if ok {
					meetings = append(meetings, meeting)
				}
			})
			if len(meetings) > 0 {
				slog.DebugContext(ctx, "fallback page parsed",
					"url", candidate, "selector", selector, "meetings", len(meetings))
				return meetings
			}
		}
	}

	slog.DebugContext(ctx, "no meetings found for period",
		"year", period.Year, "month", int(period.Month))
	return nil
}

// parseMeetingElement normalizes one matched element. Table rows
// decompose positionally, everything else is scanned for date and
// time patterns in the element text.
func (c *Client) parseMeetingElement(element *goquery.Selection) (Meeting, bool) {
	if goquery.NodeName(element) == "tr" {
		return c.parseMeetingRow(element)
	}

	text := htmlutil.CleanText(element.Text())
	dateMatch := dateRegex.FindString(text)
	if dateMatch == "" {
		return Meeting{}, false
	}
	clock := timeRegex.FindString(text)

	committee := ""
	detailUrl := ""
	link := element.Find("a").First()
	if link.Length() > 0 {
		committee = htmlutil.CleanText(link.Text())
		detailUrl = c.resolveUrl(link.AttrOr("href", ""))
	} else {
		lower := strings.ToLower(text)
		for _, relevant := range RelevantCommittees {
			if strings.Contains(lower, strings.ToLower(relevant)) {
				committee = relevant
				break
			}
		}
	}
	if committee == "" {
		return Meeting{}, false
	}

	return Meeting{
		Committee: committee,
		Title:     committee,
		Date:      dateMatch,
		Time:      clock,
		DetailUrl: detailUrl,
	}, true
}

// parseMeetingRow decomposes the fixed column order of the meeting
// table: date, time, committee (with the detail link), location.
func (c *Client) parseMeetingRow(row *goquery.Selection) (Meeting, bool) {
	cells := row.Find("td")
	if cells.Length() < 4 {
		return Meeting{}, false
	}

	date := htmlutil.CleanText(cells.Eq(0).Text())
	clock := htmlutil.CleanText(cells.Eq(1).Text())
	location := htmlutil.CleanText(cells.Eq(3).Text())

	committeeCell := cells.Eq(2)
	committee := ""
	detailUrl := ""
	link := committeeCell.Find("a").First()
	if link.Length() > 0 {
		committee = htmlutil.CleanText(link.Text())
		detailUrl = c.resolveUrl(link.AttrOr("href", ""))
	} else {
		committee = htmlutil.CleanText(committeeCell.Text())
	}
	if committee == "" {
		return Meeting{}, false
	}

	return Meeting{
		Committee: committee,
		Title:     committee,
		Date:      date,
		Time:      clock,
		Location:  location,
		DetailUrl: detailUrl,
	}, true
}
