package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	scrapeRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "terminplaner_scrape_requests_total",
		Help: "Total number of scrape requests handled.",
	})

	scrapeFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "terminplaner_scrape_failures_total",
		Help: "Total number of scrape requests that failed outright.",
	})

	meetingsFound = promauto.NewCounter(prometheus.CounterOpts{
		Name: "terminplaner_meetings_found_total",
		Help: "Total number of meetings returned across all scrape requests.",
	})

	scrapeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "terminplaner_scrape_duration_seconds",
		Help:    "End-to-end scrape latency in seconds.",
		Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
	})
)
