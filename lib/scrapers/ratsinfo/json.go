package ratsinfo

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const sitzungstermineEndpoint = "/termine/json/Sitzungstermine/"

// rawEvent is one calendar entry as the structured endpoint emits it.
// Upstream is inconsistent about key names, both spellings of every
// field are accepted and erased here, never past this package.
type rawEvent struct {
	Title     string `json:"title"`
	Summary   string `json:"summary"`
	Start     string `json:"start"`
	StartTime string `json:"startTime"`
	End       string `json:"end"`
	EndTime   string `json:"endTime"`
	Url       string `json:"url"`
	Link      string `json:"link"`
	Location  string `json:"location"`
}

// fetchMonthJson asks the structured endpoint for one month. Any
// transport or decode failure degrades to an empty result so the
// caller can fall back to the rendered pages.
func (c *Client) fetchMonthJson(ctx context.Context, period Period) []Meeting {
	ctx, span := tracer.Start(ctx, "fetchMonthJson")
	defer span.End()

	first, last := period.Bounds()

	req := c.Http.R().
		SetContext(ctx).
		SetHeader("X-Requested-With", "XMLHttpRequest").
		SetFormData(map[string]string{
			"start": first.Format("2006-01-02"),
			"end":   last.Format("2006-01-02"),
		})

	if token := c.csrfToken(ctx); token != "" {
		req.SetHeader("X-CSRF-Token", token)
	}

	res, err := req.Post(sitzungstermineEndpoint)
	if err != nil {
		slog.WarnContext(ctx, "structured endpoint request failed",
			"year", period.Year, "month", int(period.Month), "err", err)
		return nil
	}
	if res.IsError() {
		slog.WarnContext(ctx, "structured endpoint returned error status",
			"year", period.Year, "month", int(period.Month), "status", res.StatusCode())
		return nil
	}

	events := decodeEventList(ctx, res.Body())

	var meetings []Meeting
	for _, event := range events {
		meeting, ok := c.normalizeJsonEvent(event)
		if !ok {
			continue
		}
		meetings = append(meetings, meeting)
	}
	return meetings
}

// decodeEventList accepts the three response shapes the endpoint has
// been observed to produce: a bare array, an object with an "events"
// key, or an object whose first array-valued entry is the event list.
// Anything else is an empty list, not an error.
func decodeEventList(ctx context.Context, body []byte) []rawEvent {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil
	}

	if trimmed[0] == '[' {
		var events []rawEvent
		if err := json.Unmarshal(trimmed, &events); err != nil {
			slog.WarnContext(ctx, "failed to decode event array", "err", err)
			return nil
		}
		return events
	}

	var object map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &object); err != nil {
		slog.WarnContext(ctx, "failed to decode event object", "err", err)
		return nil
	}

	if raw, ok := object["events"]; ok {
		var events []rawEvent
		if err := json.Unmarshal(raw, &events); err != nil {
			slog.WarnContext(ctx, "failed to decode events key", "err", err)
			return nil
		}
		return events
	}

	for _, raw := range object {
		var events []rawEvent
		if err := json.Unmarshal(raw, &events); err != nil {
			continue
		}
		if len(events) > 0 {
			return events
		}
	}
	return nil
}

var csrfScriptRegex = regexp.MustCompile(`'X-CSRF-Token':\s*'([^']+)'`)

// csrfToken pulls the anti-forgery token off the landing page, from
// the meta tag or from inline script content. A missing token is fine,
// the endpoint mostly works without it.
func (c *Client) csrfToken(ctx context.Context) string {
	ctx, span := tracer.Start(ctx, "csrfToken")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		Get("/termine/")
	if err != nil || res.IsError() {
		slog.DebugContext(ctx, "could not fetch landing page for csrf token", "err", err)
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		return ""
	}

	if content, ok := doc.Find(`meta[name="csrf-token"]`).Attr("content"); ok {
		return content
	}

	token := ""
	doc.Find("script").EachWithBreak(func(_ int, script *goquery.Selection) bool {
		text := script.Text()
		if !strings.Contains(strings.ToLower(text), "csrf") {
			return true
		}
		match := csrfScriptRegex.FindStringSubmatch(text)
		if match == nil {
			return true
		}
		token = match[1]
		return false
	})
	return token
}
