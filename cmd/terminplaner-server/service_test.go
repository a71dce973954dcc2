package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"terminplaner-backend/lib/scrapers/ratsinfo"
	"terminplaner-backend/lib/sqliteutil"
	"terminplaner-backend/lib/telemetry"
	"terminplaner-backend/services/meetings"
	"terminplaner-backend/services/meetings/db"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) *gin.Engine {
	cleanup := telemetry.SetupForTesting(t, "test:terminplaner-server")
	t.Cleanup(cleanup)

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			fmt.Fprint(w, `{"events": [
				{"title": "Rat der Stadt Lünen", "start": "2025-07-24T17:00:00"}
			]}`)
			return
		}
		fmt.Fprint(w, `<html><head></head><body></body></html>`)
	}))
	t.Cleanup(upstream.Close)

	scraper, err := ratsinfo.NewClient(ratsinfo.ClientOptions{BaseUrl: upstream.URL})
	require.NoError(t, err)

	database, err := sqliteutil.OpenDB(db.Schema, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	h := handlers{svc: meetings.NewService(database, scraper, meetings.ServiceOptions{})}

	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/api")
	api.POST("/scrape", h.scrape)
	api.GET("/committees/relevant", h.relevantCommittee)
	api.GET("/meetings/:id", h.meetingDetail)
	api.POST("/export/:format", h.export)
	return router
}

func TestScrapeEndpoint(t *testing.T) {
	router := setupRouter(t)

	res := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/scrape",
		strings.NewReader(`{"start_date": "2025-07-01", "end_date": "2025-07-31"}`))
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusOK, res.Code)

	var body struct {
		Success  bool               `json:"success"`
		Meetings []meetings.Meeting `json:"meetings"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
	require.True(t, body.Success)
	require.Len(t, body.Meetings, 1)
	require.Equal(t, "24.07.2025", body.Meetings[0].Date)

	// the scrape cached the meeting, detail lookup works now
	res = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/meetings/"+body.Meetings[0].Id, nil)
	router.ServeHTTP(res, req)
	require.Equal(t, http.StatusOK, res.Code)
}

func TestScrapeEndpointRejectsBadRange(t *testing.T) {
	router := setupRouter(t)

	res := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/scrape",
		strings.NewReader(`{"start_date": "2025-08-01", "end_date": "2025-07-01"}`))
	router.ServeHTTP(res, req)
	require.Equal(t, http.StatusBadRequest, res.Code)

	res = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/scrape",
		strings.NewReader(`{"start_date": "kein datum", "end_date": "2025-07-01"}`))
	router.ServeHTTP(res, req)
	require.Equal(t, http.StatusBadRequest, res.Code)
}

func TestMeetingDetailNotFound(t *testing.T) {
	router := setupRouter(t)

	res := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/meetings/gibt-es-nicht", nil)
	router.ServeHTTP(res, req)
	require.Equal(t, http.StatusNotFound, res.Code)
}

func TestRelevantCommitteeEndpoint(t *testing.T) {
	router := setupRouter(t)

	res := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/api/committees/relevant?name=rat+der+stadt+l%C3%BCnen,+4.+sitzung", nil)
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusOK, res.Code)

	var body struct {
		Relevant  bool   `json:"relevant"`
		Canonical string `json:"canonical"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
	require.True(t, body.Relevant)
	require.Equal(t, "Rat der Stadt Lünen", body.Canonical)
}

func TestExportEndpoint(t *testing.T) {
	router := setupRouter(t)

	res := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/export/json",
		strings.NewReader(`[{"id": "x", "committee": "Rat der Stadt Lünen", "date": "24.07.2025"}]`))
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	require.Contains(t, res.Header().Get("Content-Disposition"), ".json")

	res = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/export/docx", strings.NewReader(`[]`))
	router.ServeHTTP(res, req)
	require.Equal(t, http.StatusBadRequest, res.Code)
}
