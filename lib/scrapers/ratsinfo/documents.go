package ratsinfo

import (
	"bytes"
	"context"
	"log/slog"
	"net/url"
	"strings"

	"terminplaner-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

var documentExtensions = []string{".pdf"}

// keywords marking the documents worth surfacing when no complete
// session package is published, in no particular order
var documentKeywords = []string{"einladung", "tagesordnung", "protokoll", "vorlage", "sitzungspaket"}

// ResolveDocument picks the single most relevant downloadable document
// off a meeting's detail page. A link labelled as the complete session
// package wins outright, then any link carrying a priority keyword,
// then the first document link at all. Failures of any kind mean "no
// document available", never an error.
func (c *Client) ResolveDocument(ctx context.Context, detailUrl string) string {
	if detailUrl == "" {
		return ""
	}

	ctx, span := tracer.Start(ctx, "ResolveDocument")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		Get(detailUrl)
	if err != nil || res.IsError() {
		slog.DebugContext(ctx, "detail page unreachable", "url", detailUrl, "err", err)
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		return ""
	}

	var documents []htmlutil.Anchor
	for _, anchor := range htmlutil.GetAnchors(ctx, doc.Find("a")) {
		if isDocumentHref(anchor.Href) {
			documents = append(documents, anchor)
		}
	}
	if len(documents) == 0 {
		return ""
	}

	for _, anchor := range documents {
		name := strings.ToLower(anchor.Name)
		if strings.Contains(name, "gesamtes sitzungspaket") ||
			strings.Contains(name, "gesamte sitzungspaket") {
			return c.resolveUrl(anchor.Href)
		}
	}

	for _, anchor := range documents {
		name := strings.ToLower(anchor.Name)
		for _, keyword := range documentKeywords {
			if strings.Contains(name, keyword) {
				return c.resolveUrl(anchor.Href)
			}
		}
	}

	return c.resolveUrl(documents[0].Href)
}

func isDocumentHref(href string) bool {
	parsed, err := url.Parse(href)
	if err != nil {
		return false
	}
	path := strings.ToLower(parsed.Path)
	for _, ext := range documentExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}
