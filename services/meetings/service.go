package meetings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strings"
	"time"

	"terminplaner-backend/lib/doctext"
	"terminplaner-backend/lib/scrapers/ratsinfo"
	"terminplaner-backend/lib/summarize"
	"terminplaner-backend/lib/timezone"
	"terminplaner-backend/services/meetings/db"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/meetings")

var ErrNotFound = errors.New("meeting not found")

const noSummaryText = "Zu wenig Text für eine Zusammenfassung verfügbar."
const fullTextLimit = 2000

// Meeting is the enriched record handed to rendering and export:
// the scraped fields plus a stable id, summaries and an excerpt of
// the agenda document text.
type Meeting struct {
	Id              string `json:"id"`
	Title           string `json:"title"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	Location        string `json:"location"`
	Committee       string `json:"committee"`
	DetailUrl       string `json:"detail_url"`
	DocumentUrl     string `json:"document_url,omitempty"`
	Summary         string `json:"summary,omitempty"`
	DetailedSummary string `json:"detailed_summary,omitempty"`
	FullText        string `json:"full_text,omitempty"`
}

type QueryRequest struct {
	Start time.Time
	End   time.Time
	// exact committee names to keep, empty keeps everything
	Committees []string
}

type Service struct {
	scraper *ratsinfo.Client
	docs    *doctext.Client
	db      *sql.DB
	qry     *db.Queries
	ttl     time.Duration
}

type ServiceOptions struct {
	// document download + summarization is skipped when nil
	Docs *doctext.Client
	// how long cached meeting details stay retrievable, defaults
	// to 24h
	CacheTtl time.Duration
}

func NewService(database *sql.DB, scraper *ratsinfo.Client, opts ServiceOptions) Service {
	ttl := opts.CacheTtl
	if ttl <= 0 {
		ttl = time.Hour * 24
	}
	return Service{
		scraper: scraper,
		docs:    opts.Docs,
		db:      database,
		qry:     db.New(database),
		ttl:     ttl,
	}
}

// Query scrapes the requested range and returns enriched meetings,
// storing each one in the cache so detail lookups by id work until
// the ttl expires.
func (s Service) Query(ctx context.Context, req QueryRequest) ([]Meeting, error) {
	ctx, span := tracer.Start(ctx, "Query")
	defer span.End()

	span.SetAttributes(
		attribute.String("start", req.Start.Format("2006-01-02")),
		attribute.String("end", req.End.Format("2006-01-02")),
	)

	err := s.qry.DeleteMeetingsBefore(ctx, timezone.Now().Add(-s.ttl).Unix())
	if err != nil {
		slog.WarnContext(ctx, "failed to evict expired cache entries", "err", err)
	}

	scraped, err := s.scraper.ScrapeMeetings(ctx, req.Start, req.End)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if len(req.Committees) > 0 {
		keep := make(map[string]struct{}, len(req.Committees))
		for _, committee := range req.Committees {
			keep[committee] = struct{}{}
		}
		scraped = slices.DeleteFunc(scraped, func(m ratsinfo.Meeting) bool {
			_, ok := keep[m.Committee]
			return !ok
		})
	}

	now := timezone.Now().Unix()
	meetings := make([]Meeting, 0, len(scraped))
	for i, m := range scraped {
		meeting := Meeting{
			Id:          meetingId(m, i),
			Title:       m.Title,
			Date:        m.Date,
			Time:        m.Time,
			Location:    m.Location,
			Committee:   m.Committee,
			DetailUrl:   m.DetailUrl,
			DocumentUrl: m.DocumentUrl,
		}
		if ctx.Err() == nil {
			s.summarizeDocument(ctx, &meeting)
		}
		s.cache(ctx, meeting, now)
		meetings = append(meetings, meeting)
	}

	span.SetAttributes(attribute.Int("meetings", len(meetings)))
	return meetings, nil
}

// Meeting returns one cached meeting by id.
func (s Service) Meeting(ctx context.Context, id string) (Meeting, error) {
	ctx, span := tracer.Start(ctx, "Meeting")
	defer span.End()

	row, err := s.qry.GetMeeting(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Meeting{}, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Meeting{}, err
	}
	if time.Unix(row.CreatedAt, 0).Before(timezone.Now().Add(-s.ttl)) {
		return Meeting{}, ErrNotFound
	}

	var meeting Meeting
	err = json.Unmarshal([]byte(row.Payload), &meeting)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Meeting{}, err
	}
	return meeting, nil
}

// Committees lists every governing body seen in the coming months,
// always including the configured allow-list, sorted alphabetically.
// The second return value is the allow-list itself.
func (s Service) Committees(ctx context.Context) ([]string, []string, error) {
	ctx, span := tracer.Start(ctx, "Committees")
	defer span.End()

	now := timezone.Now()
	start := now.AddDate(0, -3, 0)
	end := time.Date(now.Year()+1, 12, 31, 0, 0, 0, 0, timezone.Location)

	scraped, err := s.scraper.ScrapeMeetings(ctx, start, end)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, err
	}

	unique := map[string]struct{}{}
	for _, meeting := range scraped {
		committee := strings.TrimSpace(meeting.Committee)
		if committee != "" {
			unique[committee] = struct{}{}
		}
	}
	for _, committee := range ratsinfo.RelevantCommittees {
		unique[committee] = struct{}{}
	}

	committees := make([]string, 0, len(unique))
	for committee := range unique {
		committees = append(committees, committee)
	}
	slices.Sort(committees)

	return committees, ratsinfo.RelevantCommittees, nil
}

func (s Service) summarizeDocument(ctx context.Context, meeting *Meeting) {
	if s.docs == nil || meeting.DocumentUrl == "" {
		return
	}

	path, err := s.docs.Download(ctx, meeting.DocumentUrl)
	if err != nil {
		slog.WarnContext(ctx, "failed to download agenda document",
			"url", meeting.DocumentUrl, "err", err)
		return
	}
	text, err := doctext.ExtractText(path)
	if err != nil {
		slog.WarnContext(ctx, "failed to extract document text",
			"path", path, "err", err)
		return
	}

	meeting.FullText = text
	if runes := []rune(text); len(runes) > fullTextLimit {
		meeting.FullText = string(runes[:fullTextLimit]) + "..."
	}

	short, err := summarize.Summarize(text, 2)
	if errors.Is(err, summarize.ErrTextTooShort) {
		meeting.Summary = noSummaryText
		meeting.DetailedSummary = noSummaryText
		return
	}
	if err != nil {
		slog.WarnContext(ctx, "failed to summarize document", "err", err)
		return
	}
	meeting.Summary = short

	detailed, err := summarize.Summarize(text, 5)
	if err == nil {
		meeting.DetailedSummary = detailed
	}
}

func (s Service) cache(ctx context.Context, meeting Meeting, now int64) {
	payload, err := json.Marshal(meeting)
	if err != nil {
		slog.WarnContext(ctx, "failed to serialize meeting for cache", "err", err)
		return
	}
	err = s.qry.UpsertMeeting(ctx, db.UpsertMeetingParams{
		Id:        meeting.Id,
		Payload:   string(payload),
		CreatedAt: now,
	})
	if err != nil {
		slog.WarnContext(ctx, "failed to cache meeting", "id", meeting.Id, "err", err)
	}
}

var idUnsafeRegex = regexp.MustCompile(`[^a-zA-Z0-9äöüÄÖÜß]`)
var idDashRegex = regexp.MustCompile(`-+`)

// meetingId builds the url-safe identifier used for detail lookups:
// date digits, a slug of the committee name and the position in the
// result list.
func meetingId(m ratsinfo.Meeting, index int) string {
	committee := m.Committee
	if len([]rune(committee)) > 30 {
		committee = string([]rune(committee)[:30])
	}
	slug := idUnsafeRegex.ReplaceAllString(committee, "-")
	slug = idDashRegex.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")

	return fmt.Sprintf("%s-%s-%d",
		strings.ReplaceAll(m.Date, ".", ""), slug, index)
}
