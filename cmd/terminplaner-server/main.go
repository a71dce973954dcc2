package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"terminplaner-backend/lib/doctext"
	"terminplaner-backend/lib/scrapers/ratsinfo"
	"terminplaner-backend/lib/serviceutil"
	"terminplaner-backend/lib/sqliteutil"
	"terminplaner-backend/lib/telemetry"
	"terminplaner-backend/services/meetings"
	"terminplaner-backend/services/meetings/db"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := telemetry.SetupFromEnv(ctx, "terminplaner-server")
	if err != nil {
		serviceutil.Fatal("failed to setup telemetry", err)
	}
	telemetry.InitSlog(os.Getenv("DEBUG") != "")
	telemetry.InstrumentPerfStats(ctx)
	defer telemetry.Shutdown(context.Background())

	config, err := readConfig()
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}

	database, err := sqliteutil.OpenDB(db.Schema, config.Db)
	if err != nil {
		serviceutil.Fatal("failed to open db", err)
	}
	defer database.Close()

	scraper, err := ratsinfo.NewClient(ratsinfo.ClientOptions{})
	if err != nil {
		serviceutil.Fatal("failed to initialize scraper", err)
	}

	opts := meetings.ServiceOptions{
		CacheTtl: time.Duration(config.CacheTtlHours) * time.Hour,
	}
	if config.Documents {
		docs, err := doctext.NewClient(config.Downloads)
		if err != nil {
			serviceutil.Fatal("failed to initialize document client", err)
		}
		opts.Docs = docs
	}

	h := handlers{svc: meetings.NewService(database, scraper, opts)}

	router := gin.Default()
	router.SetTrustedProxies([]string{"127.0.0.1"})

	router.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := database.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "db_error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": config.Db})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	api.POST("/scrape", h.scrape)
	api.GET("/committees", h.committees)
	api.GET("/committees/relevant", h.relevantCommittee)
	api.GET("/meetings/:id", h.meetingDetail)
	api.POST("/export/:format", h.export)

	server := &http.Server{
		Addr:    config.Addr,
		Handler: router,
	}

	go func() {
		slog.Info("listening", "addr", config.Addr)
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serviceutil.Fatal("server failed", err)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown failed", "err", err)
	}
}
