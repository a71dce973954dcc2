package meetings

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"terminplaner-backend/lib/scrapers/ratsinfo"
	"terminplaner-backend/lib/sqliteutil"
	"terminplaner-backend/lib/telemetry"
	"terminplaner-backend/lib/timezone"
	"terminplaner-backend/services/meetings/db"

	"github.com/stretchr/testify/require"
)

func setupService(t *testing.T, handler http.HandlerFunc, opts ServiceOptions) (Service, *db.Queries) {
	cleanup := telemetry.SetupForTesting(t, "test:meetings")
	t.Cleanup(cleanup)

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	scraper, err := ratsinfo.NewClient(ratsinfo.ClientOptions{BaseUrl: server.URL})
	require.NoError(t, err)

	database, err := sqliteutil.OpenDB(db.Schema, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	return NewService(database, scraper, opts), db.New(database)
}

func eventsHandler(events string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			fmt.Fprintf(w, `{"events": %s}`, events)
			return
		}
		fmt.Fprint(w, `<html><head></head><body></body></html>`)
	}
}

func TestQueryCachesMeetings(t *testing.T) {
	svc, _ := setupService(t, eventsHandler(`[
		{"title": "Rat der Stadt Lünen", "start": "2025-07-24T17:00:00"},
		{"title": "Sportausschuss", "start": "2025-07-10T16:00:00"}
	]`), ServiceOptions{})

	start := time.Date(2025, 7, 1, 0, 0, 0, 0, timezone.Location)
	end := time.Date(2025, 7, 31, 0, 0, 0, 0, timezone.Location)

	meetings, err := svc.Query(context.Background(), QueryRequest{Start: start, End: end})
	require.NoError(t, err)
	require.Len(t, meetings, 2)

	require.Equal(t, "10072025-Sportausschuss-0", meetings[0].Id)
	require.Equal(t, "24072025-Rat-der-Stadt-Lünen-1", meetings[1].Id)

	cached, err := svc.Meeting(context.Background(), meetings[1].Id)
	require.NoError(t, err)
	require.Equal(t, "Rat der Stadt Lünen", cached.Committee)
	require.Equal(t, "24.07.2025", cached.Date)

	_, err = svc.Meeting(context.Background(), "gibt-es-nicht")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestQueryCommitteeSelection(t *testing.T) {
	svc, _ := setupService(t, eventsHandler(`[
		{"title": "Rat der Stadt Lünen", "start": "2025-07-24T17:00:00"},
		{"title": "Sportausschuss", "start": "2025-07-10T16:00:00"}
	]`), ServiceOptions{})

	start := time.Date(2025, 7, 1, 0, 0, 0, 0, timezone.Location)
	end := time.Date(2025, 7, 31, 0, 0, 0, 0, timezone.Location)

	meetings, err := svc.Query(context.Background(), QueryRequest{
		Start:      start,
		End:        end,
		Committees: []string{"Rat der Stadt Lünen"},
	})
	require.NoError(t, err)
	require.Len(t, meetings, 1)
	require.Equal(t, "Rat der Stadt Lünen", meetings[0].Committee)
}

func TestQueryInvalidRange(t *testing.T) {
	svc, _ := setupService(t, eventsHandler(`[]`), ServiceOptions{})

	start := time.Date(2025, 8, 1, 0, 0, 0, 0, timezone.Location)
	end := time.Date(2025, 7, 1, 0, 0, 0, 0, timezone.Location)

	_, err := svc.Query(context.Background(), QueryRequest{Start: start, End: end})
	require.Error(t, err)
}

func TestMeetingCacheExpiry(t *testing.T) {
	svc, qry := setupService(t, eventsHandler(`[]`), ServiceOptions{CacheTtl: time.Hour})

	err := qry.UpsertMeeting(context.Background(), db.UpsertMeetingParams{
		Id:        "veraltet",
		Payload:   `{"id": "veraltet", "committee": "Rat der Stadt Lünen"}`,
		CreatedAt: timezone.Now().Add(-2 * time.Hour).Unix(),
	})
	require.NoError(t, err)

	_, err = svc.Meeting(context.Background(), "veraltet")
	require.ErrorIs(t, err, ErrNotFound)

	// a fresh entry with the same shape is still served
	err = qry.UpsertMeeting(context.Background(), db.UpsertMeetingParams{
		Id:        "frisch",
		Payload:   `{"id": "frisch", "committee": "Rat der Stadt Lünen"}`,
		CreatedAt: timezone.Now().Unix(),
	})
	require.NoError(t, err)

	meeting, err := svc.Meeting(context.Background(), "frisch")
	require.NoError(t, err)
	require.Equal(t, "Rat der Stadt Lünen", meeting.Committee)
}

func TestCommittees(t *testing.T) {
	// the scan window is relative to the current date, the upstream
	// fixture has to be as well
	upcoming := timezone.Now().AddDate(0, 1, 0).Format("2006-01-02")
	svc, _ := setupService(t, eventsHandler(fmt.Sprintf(`[
		{"title": "Seniorenbeirat", "start": "%sT15:00:00"}
	]`, upcoming)), ServiceOptions{})

	committees, relevant, err := svc.Committees(context.Background())
	require.NoError(t, err)

	require.Equal(t, ratsinfo.RelevantCommittees, relevant)
	require.Contains(t, committees, "Seniorenbeirat")
	for _, committee := range ratsinfo.RelevantCommittees {
		require.Contains(t, committees, committee)
	}
	require.IsIncreasing(t, committees)
}

func TestMeetingId(t *testing.T) {
	id := meetingId(ratsinfo.Meeting{
		Committee: "Ausschuss für Arbeitsmarkt, Wirtschaftsförderung und Innovation",
		Date:      "24.07.2025",
	}, 3)
	require.Equal(t, "24072025-Ausschuss-für-Arbeitsmarkt-Wi-3", id)
}
