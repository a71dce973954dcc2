package main

import (
	"errors"
	"net/http"
	"time"

	"terminplaner-backend/lib/scrapers/ratsinfo"
	"terminplaner-backend/lib/timezone"
	"terminplaner-backend/services/meetings"

	"github.com/gin-gonic/gin"
)

type handlers struct {
	svc meetings.Service
}

type scrapeRequest struct {
	StartDate  string   `json:"start_date" binding:"required"`
	EndDate    string   `json:"end_date" binding:"required"`
	Committees []string `json:"committees"`
}

func (h handlers) scrape(c *gin.Context) {
	var req scrapeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	start, err := time.ParseInLocation("2006-01-02", req.StartDate, timezone.Location)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid start_date"})
		return
	}
	end, err := time.ParseInLocation("2006-01-02", req.EndDate, timezone.Location)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid end_date"})
		return
	}

	scrapeRequests.Inc()
	t1 := time.Now()
	results, err := h.svc.Query(c.Request.Context(), meetings.QueryRequest{
		Start:      start,
		End:        end,
		Committees: req.Committees,
	})
	scrapeDuration.Observe(time.Since(t1).Seconds())
	if err != nil {
		scrapeFailures.Inc()
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	meetingsFound.Add(float64(len(results)))

	c.JSON(http.StatusOK, gin.H{"success": true, "meetings": results})
}

func (h handlers) committees(c *gin.Context) {
	committees, relevant, err := h.svc.Committees(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":             true,
		"committees":          committees,
		"relevant_committees": relevant,
	})
}

func (h handlers) meetingDetail(c *gin.Context) {
	meeting, err := h.svc.Meeting(c.Request.Context(), c.Param("id"))
	if errors.Is(err, meetings.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "meeting not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "meeting": meeting})
}

func (h handlers) export(c *gin.Context) {
	var toExport []meetings.Meeting
	if err := c.ShouldBindJSON(&toExport); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	payload, filename, err := meetings.Export(toExport, c.Param("format"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentTypeFor(filename), payload)
}

func contentTypeFor(filename string) string {
	switch {
	case len(filename) > 5 && filename[len(filename)-5:] == ".html":
		return "text/html; charset=utf-8"
	case len(filename) > 5 && filename[len(filename)-5:] == ".json":
		return "application/json"
	case len(filename) > 4 && filename[len(filename)-4:] == ".csv":
		return "text/csv; charset=utf-8"
	default:
		return "text/markdown; charset=utf-8"
	}
}

func (h handlers) relevantCommittee(c *gin.Context) {
	name := c.Query("name")
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"name":      name,
		"relevant":  ratsinfo.IsRelevantCommittee(name),
		"canonical": ratsinfo.CanonicalCommittee(name),
	})
}
