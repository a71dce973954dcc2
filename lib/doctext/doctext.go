package doctext

import (
	"bytes"
	"context"
	"crypto/md5"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"terminplaner-backend/lib/telemetry"

	"github.com/go-resty/resty/v2"
	"github.com/ledongthuc/pdf"
)

var tracer = telemetry.Tracer("terminplaner.lib.doctext")

// Client downloads agenda documents and turns them into plain text.
type Client struct {
	Http *resty.Client

	downloadDir string
}

func NewClient(downloadDir string) (*Client, error) {
	err := os.MkdirAll(downloadDir, 0755)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	client.SetTimeout(time.Second * 30)
	telemetry.InstrumentResty(client, "doctext/http")

	return &Client{
		Http:        client,
		downloadDir: downloadDir,
	}, nil
}

// Download fetches a document and stores it under a name derived from
// the url, so repeated runs reuse the same file path.
func (c *Client) Download(ctx context.Context, documentUrl string) (string, error) {
	ctx, span := tracer.Start(ctx, "Download")
	defer span.End()

	if documentUrl == "" {
		return "", fmt.Errorf("empty document url")
	}

	res, err := c.Http.R().
		SetContext(ctx).
		Get(documentUrl)
	if err != nil {
		return "", err
	}
	if res.IsError() {
		return "", fmt.Errorf("document download failed with status %d", res.StatusCode())
	}

	urlHash := fmt.Sprintf("%x", md5.Sum([]byte(documentUrl)))[:8]
	path := filepath.Join(c.downloadDir, fmt.Sprintf("document_%s.pdf", urlHash))

	err = os.WriteFile(path, res.Body(), 0644)
	if err != nil {
		return "", err
	}
	return path, nil
}

// ExtractText pulls the plain text out of a downloaded PDF.
func ExtractText(path string) (string, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}

	var buffer bytes.Buffer
	_, err = buffer.ReadFrom(plain)
	if err != nil {
		return "", err
	}

	return CleanText(buffer.String()), nil
}

var whitespaceRegex = regexp.MustCompile(`\s+`)
var strayCharsRegex = regexp.MustCompile(`[^\w\säöüÄÖÜß.,!?;:()\-]`)

// CleanText squashes layout whitespace and strips extraction
// artifacts that are neither German text nor common punctuation.
func CleanText(text string) string {
	text = whitespaceRegex.ReplaceAllString(text, " ")
	text = strayCharsRegex.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}
