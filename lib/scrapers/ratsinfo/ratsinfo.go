package ratsinfo

import (
	"context"
	"fmt"
	"log/slog"
	"net/http/cookiejar"
	"net/url"
	"slices"
	"sync"
	"time"

	"terminplaner-backend/lib/htmlutil"
	"terminplaner-backend/lib/telemetry"
	"terminplaner-backend/lib/timezone"

	"github.com/go-resty/resty/v2"
)

const DefaultBaseUrl = "https://luenen.ratsinfomanagement.net"

// Meeting is the canonical, transport-agnostic record for one council
// session. Date is always DD.MM.YYYY, Time is HH:MM or empty.
// DocumentUrl stays empty until document resolution runs.
type Meeting struct {
	Committee   string `json:"committee"`
	Title       string `json:"title"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Location    string `json:"location"`
	DetailUrl   string `json:"detail_url"`
	DocumentUrl string `json:"document_url,omitempty"`
}

type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client

	documentConcurrency int
	relevantOnly        bool
}

type ClientOptions struct {
	// defaults to DefaultBaseUrl
	BaseUrl string
	// cap on concurrent detail page fetches during document
	// resolution, defaults to 4
	DocumentConcurrency int
	// when set, meetings whose committee fails IsRelevantCommittee
	// are dropped before documents are resolved
	RelevantOnly bool
}

func NewClient(opts ClientOptions) (*Client, error) {
	rawBase := opts.BaseUrl
	if rawBase == "" {
		rawBase = DefaultBaseUrl
	}
	baseUrl, err := url.Parse(rawBase)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetBaseURL(rawBase)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	client.SetTimeout(time.Second * 15)

	telemetry.InstrumentResty(client, "scrapers/ratsinfo/http")

	concurrency := opts.DocumentConcurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	return &Client{
		BaseUrl:             baseUrl,
		Http:                client,
		documentConcurrency: concurrency,
		relevantOnly:        opts.RelevantOnly,
	}, nil
}

// ScrapeMeetings fetches every council meeting announced for the given
// date range, one upstream query per calendar month. The structured
// endpoint is tried first for each month, the rendered calendar pages
// act as the fallback. Upstream failures degrade to missing months, the
// only error surfaced to the caller is a start date after the end date.
func (c *Client) ScrapeMeetings(ctx context.Context, start, end time.Time) ([]Meeting, error) {
	ctx, span := tracer.Start(ctx, "ScrapeMeetings")
	defer span.End()

	if start.After(end) {
		return nil, fmt.Errorf("invalid date range: start %s is after end %s",
			start.Format("2006-01-02"), end.Format("2006-01-02"))
	}

	var meetings []Meeting
	for _, period := range MonthsInRange(start, end) {
		if ctx.Err() != nil {
			break
		}

		monthly := c.fetchMonthJson(ctx, period)
		if len(monthly) == 0 {
			monthly = c.fetchMonthHtml(ctx, period)
		}
		slog.DebugContext(ctx, "scraped period",
			"year", period.Year, "month", int(period.Month), "meetings", len(monthly))

		for _, meeting := range monthly {
			date, err := ParseGermanDate(meeting.Date)
			if err != nil {
				slog.WarnContext(ctx, "dropping meeting with unparsable date",
					"date", meeting.Date, "committee", meeting.Committee)
				continue
			}
			// the containing month overlapping the range is not
			// enough, the day itself has to be inside it
			if dayBefore(date, start) || dayBefore(end, date) {
				continue
			}
			if c.relevantOnly && !IsRelevantCommittee(meeting.Committee) {
				continue
			}
			meetings = append(meetings, meeting)
		}
	}

	meetings = Dedupe(meetings)
	c.resolveDocuments(ctx, meetings)

	slices.SortStableFunc(meetings, func(a, b Meeting) int {
		da, _ := ParseGermanDate(a.Date)
		db, _ := ParseGermanDate(b.Date)
		if cmp := da.Compare(db); cmp != 0 {
			return cmp
		}
		if a.Time < b.Time {
			return -1
		}
		if a.Time > b.Time {
			return 1
		}
		return 0
	})

	return meetings, nil
}

// second fan-out stage: one detail page round trip per meeting,
// bounded so the upstream never sees more than a handful of
// concurrent requests
func (c *Client) resolveDocuments(ctx context.Context, meetings []Meeting) {
	ctx, span := tracer.Start(ctx, "resolveDocuments")
	defer span.End()

	sem := make(chan struct{}, c.documentConcurrency)
	wg := sync.WaitGroup{}

	for i := range meetings {
		if ctx.Err() != nil {
			break
		}
		if meetings[i].DetailUrl == "" {
			continue
		}

		sem <- struct{}{}
		wg.Add(1)
		go func(m *Meeting) {
			defer wg.Done()
			defer func() { <-sem }()

			m.DocumentUrl = c.ResolveDocument(ctx, m.DetailUrl)
		}(&meetings[i])
	}

	wg.Wait()
}

// ParseGermanDate parses a D.M.YYYY date in German civil time.
func ParseGermanDate(date string) (time.Time, error) {
	parsed, err := time.ParseInLocation("2.1.2006", date, timezone.Location)
	if err != nil {
		return time.Time{}, err
	}
	return parsed, nil
}

func dayBefore(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	if ay != by {
		return ay < by
	}
	if am != bm {
		return am < bm
	}
	return ad < bd
}

func (c *Client) resolveUrl(href string) string {
	return htmlutil.ResolveHref(c.BaseUrl, href)
}
