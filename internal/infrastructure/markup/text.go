package markup

import (
	"strings"
	"unicode/utf8"

	"browser-automation/internal/application/port/output"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/PuerkitoBio/goquery"
)

// MaxPageText bounds the page text handed to the oracle.
const MaxPageText = 8000

const truncatedMarker = "\n\n[page text truncated]"

var mdConverter = converter.NewConverter(
	converter.WithPlugins(
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(),
		table.NewTablePlugin(),
	),
)

// PageText renders the cleaned body of rawHTML as markdown. When conversion
// fails it falls back to the collapsed visible text.
func PageText(rawHTML string, pageURL string) string {
	cleaned := CleanHTML(rawHTML, nil)

	text, err := mdConverter.ConvertString(cleaned, converter.WithDomain(pageURL))
	if err != nil || strings.TrimSpace(text) == "" {
		text = plainText(cleaned)
	}

	return truncateText(strings.TrimSpace(text), MaxPageText)
}

func plainText(markup string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return ""
	}
	return collapse(doc.Text())
}

func truncateText(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + truncatedMarker
}

var _ output.PageTextRenderer = (*TextRenderer)(nil)

type TextRenderer struct{}

func NewTextRenderer() *TextRenderer {
	return &TextRenderer{}
}

func (*TextRenderer) Render(markup, pageURL string) string {
	return PageText(markup, pageURL)
}
