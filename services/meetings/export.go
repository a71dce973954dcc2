package meetings

import (
	"encoding/json"
	"fmt"
	"strings"

	"terminplaner-backend/lib/timezone"

	"github.com/jedib0t/go-pretty/v6/table"
)

// ExportFormats lists the formats Export understands.
var ExportFormats = []string{"markdown", "html", "csv", "json", "pdf"}

// Export renders a meeting list into the requested format and returns
// the document plus a timestamped filename for it. The pdf format
// deliberately produces the printable HTML document, the upstream
// tooling prints it.
func Export(meetings []Meeting, format string) ([]byte, string, error) {
	timestamp := timezone.Now().Format("20060102_150405")

	switch strings.ToLower(format) {
	case "markdown", "md":
		return exportMarkdown(meetings), fmt.Sprintf("ratsinfo_export_%s.md", timestamp), nil
	case "html", "pdf":
		return exportHtml(meetings), fmt.Sprintf("ratsinfo_export_%s.html", timestamp), nil
	case "csv":
		return exportCsv(meetings), fmt.Sprintf("ratsinfo_export_%s.csv", timestamp), nil
	case "json":
		payload, err := json.MarshalIndent(meetings, "", "  ")
		if err != nil {
			return nil, "", err
		}
		return payload, fmt.Sprintf("ratsinfo_export_%s.json", timestamp), nil
	}
	return nil, "", fmt.Errorf("unknown export format: %s", format)
}

func exportMarkdown(meetings []Meeting) []byte {
	var out strings.Builder
	out.WriteString("# Ratsinfo Lünen - Terminübersicht\n\n")
	out.WriteString(fmt.Sprintf("Erstellt am: %s\n\n", timezone.Now().Format("02.01.2006 15:04")))
	out.WriteString("---\n\n")

	for _, meeting := range meetings {
		out.WriteString(fmt.Sprintf("## %s\n\n", meeting.Title))
		out.WriteString(fmt.Sprintf("**Datum:** %s\n", meeting.Date))
		out.WriteString(fmt.Sprintf("**Uhrzeit:** %s\n", meeting.Time))
		out.WriteString(fmt.Sprintf("**Ort:** %s\n", meeting.Location))
		out.WriteString(fmt.Sprintf("**Gremium:** %s\n\n", meeting.Committee))

		if meeting.Summary != "" {
			out.WriteString("### Zusammenfassung\n\n")
			out.WriteString(meeting.Summary + "\n\n")
		}
		if meeting.DocumentUrl != "" {
			out.WriteString(fmt.Sprintf("**PDF-Dokument:** [Link zum Dokument](%s)\n\n", meeting.DocumentUrl))
		}
		out.WriteString("---\n\n")
	}
	return []byte(out.String())
}

func meetingTable(meetings []Meeting) table.Writer {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Datum", "Uhrzeit", "Gremium", "Ort", "Zusammenfassung", "Dokument"})
	for _, meeting := range meetings {
		t.AppendRow(table.Row{
			meeting.Date,
			meeting.Time,
			meeting.Committee,
			meeting.Location,
			meeting.Summary,
			meeting.DocumentUrl,
		})
	}
	return t
}

func exportCsv(meetings []Meeting) []byte {
	return []byte(meetingTable(meetings).RenderCSV() + "\n")
}

const htmlShell = `<!DOCTYPE html>
<html lang="de">
<head>
<meta charset="utf-8">
<title>Ratsinfo Lünen - Terminübersicht</title>
<style>
body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; margin: 2em; }
h1 { color: #2c3e50; border-bottom: 3px solid #3498db; padding-bottom: 10px; }
table { border-collapse: collapse; }
td, th { border: 1px solid #ccc; padding: 6px 10px; text-align: left; }
th { background-color: #f8f9fa; }
</style>
</head>
<body>
<h1>Ratsinfo Lünen - Terminübersicht</h1>
<p>Erstellt am: %s</p>
%s
</body>
</html>
`

func exportHtml(meetings []Meeting) []byte {
	rendered := fmt.Sprintf(htmlShell,
		timezone.Now().Format("02.01.2006 15:04"),
		meetingTable(meetings).RenderHTML(),
	)
	return []byte(rendered)
}
