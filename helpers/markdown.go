package helpers

import (
	"bytes"
	"math"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// words per minute used for the read time of articles
const readingSpeed = 200

var (
	mdParser = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
		),
	)
	ugcPolicy    = newUGCPolicy()
	strictPolicy = bluemonday.StrictPolicy()
)

func newUGCPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowImages()
	p.AddTargetBlankToFullyQualifiedLinks(true)
	p.RequireNoReferrerOnLinks(true)
	return p
}

// RenderMarkdown converts article markdown into sanitised HTML
func RenderMarkdown(source string) (string, error) {
	var buf bytes.Buffer
	if err := mdParser.Convert([]byte(source), &buf); err != nil {
		return "", WrapError(err, FuncName())
	}

	return string(ugcPolicy.SanitizeBytes(buf.Bytes())), nil
}

// SanitizeText strips every tag from user text (comments, reviews)
func SanitizeText(s string) string {
	return strings.TrimSpace(strictPolicy.Sanitize(s))
}

// ReadTime estimates the minutes needed to read a text (at least 1)
func ReadTime(text string) int {
	words := len(strings.Fields(text))
	minutes := int(math.Ceil(float64(words) / readingSpeed))
	if minutes < 1 {
		return 1
	}
	return minutes
}
