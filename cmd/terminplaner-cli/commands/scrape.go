package commands

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"terminplaner-backend/lib/doctext"
	"terminplaner-backend/lib/scrapers/ratsinfo"
	"terminplaner-backend/lib/serviceutil"
	"terminplaner-backend/lib/sqliteutil"
	"terminplaner-backend/lib/timezone"
	"terminplaner-backend/services/meetings"
	"terminplaner-backend/services/meetings/db"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var scrapeFrom *string
var scrapeTo *string
var scrapeDb *string
var scrapeRelevantOnly *bool
var scrapeExport *string
var scrapeOut *string
var scrapeDocuments *bool

func init() {
	scrapeFrom = scrapeCmd.Flags().String("from", "", "Start of the date range (YYYY-MM-DD), defaults to today.")
	scrapeTo = scrapeCmd.Flags().String("to", "", "End of the date range (YYYY-MM-DD), defaults to three months from today.")
	scrapeDb = scrapeCmd.Flags().String("db", "meetings.db", "The database to cache scrape results in.")
	scrapeRelevantOnly = scrapeCmd.Flags().Bool("relevant-only", false, "Only keep meetings of the configured committees.")
	scrapeExport = scrapeCmd.Flags().String("export", "", "Export format: markdown, html, csv, json or pdf.")
	scrapeOut = scrapeCmd.Flags().String("out", "exports", "Directory to write exports to.")
	scrapeDocuments = scrapeCmd.Flags().Bool("documents", false, "Download agenda documents and summarize them.")
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--from <date>] [--to <date>] [--export <format>]",
	Short: "Scrapes upcoming council meetings and renders or exports them.",
	Run: func(cmd *cobra.Command, args []string) {
		start := timezone.Now()
		if *scrapeFrom != "" {
			var err error
			start, err = time.ParseInLocation("2006-01-02", *scrapeFrom, timezone.Location)
			if err != nil {
				serviceutil.Fatal("failed to parse --from", err)
			}
		}
		end := start.AddDate(0, 3, 0)
		if *scrapeTo != "" {
			var err error
			end, err = time.ParseInLocation("2006-01-02", *scrapeTo, timezone.Location)
			if err != nil {
				serviceutil.Fatal("failed to parse --to", err)
			}
		}

		scraper, err := ratsinfo.NewClient(ratsinfo.ClientOptions{
			RelevantOnly: *scrapeRelevantOnly,
		})
		if err != nil {
			serviceutil.Fatal("failed to initialize scraper", err)
		}

		database, err := sqliteutil.OpenDB(db.Schema, *scrapeDb)
		if err != nil {
			serviceutil.Fatal("failed to open db", err)
		}
		defer database.Close()

		opts := meetings.ServiceOptions{}
		if *scrapeDocuments {
			docs, err := doctext.NewClient("downloads")
			if err != nil {
				serviceutil.Fatal("failed to initialize document client", err)
			}
			opts.Docs = docs
		}
		svc := meetings.NewService(database, scraper, opts)

		t1 := time.Now()
		results, err := svc.Query(cmd.Context(), meetings.QueryRequest{
			Start: start,
			End:   end,
		})
		if err != nil {
			serviceutil.Fatal("failed to scrape meetings", err)
		}
		slog.Info("scraping time", "seconds", time.Since(t1).Seconds(), "meetings", len(results))

		t := table.NewWriter()
		t.SetStyle(table.StyleRounded)
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Datum", "Uhrzeit", "Gremium", "Ort", "Dokument"})
		for _, meeting := range results {
			t.AppendRow(table.Row{
				meeting.Date, meeting.Time, meeting.Committee,
				meeting.Location, meeting.DocumentUrl,
			})
		}
		t.Render()

		if *scrapeExport != "" {
			payload, filename, err := meetings.Export(results, *scrapeExport)
			if err != nil {
				serviceutil.Fatal("failed to render export", err)
			}
			err = os.MkdirAll(*scrapeOut, 0755)
			if err != nil {
				serviceutil.Fatal("failed to create export directory", err)
			}
			path := filepath.Join(*scrapeOut, filename)
			err = os.WriteFile(path, payload, 0644)
			if err != nil {
				serviceutil.Fatal("failed to write export", err)
			}
			slog.Info("wrote export", "path", path)
		}
	},
}
