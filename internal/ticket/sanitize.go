package ticket

import (
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// sanitizePolicy keeps the structural markup the extractor navigates (tables,
// headings, images with their alt/src attributes) while dropping scripts,
// styles, and everything else the vendor email carries along.
func sanitizePolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("html", "head", "body", "center", "div", "span", "p", "br",
		"table", "tbody", "thead", "tfoot", "tr", "td", "th",
		"h1", "h2", "h3", "h4", "h5", "h6",
		"strong", "b", "em", "i", "u", "ul", "ol", "li")
	p.AllowAttrs("src", "alt").OnElements("img")
	p.AllowAttrs("href").OnElements("a")
	p.AllowAttrs("valign").Globally()
	// Embedded images are cid: references; banner and barcode may be remote.
	p.AllowURLSchemes("cid", "http", "https")
	p.AllowDataURIImages()
	p.AllowRelativeURLs(true)
	p.SkipElementsContent("script", "style")
	return p
}

var collapseSpace = regexp.MustCompile(`[ \t\r\f]+`)

// Sanitize strips script/style content and collapses runs of horizontal
// whitespace in the email body before structural extraction.
func Sanitize(htmlBody string) string {
	clean := sanitizePolicy().Sanitize(htmlBody)
	return collapseSpace.ReplaceAllString(clean, " ")
}

// normalizeText collapses all whitespace in extracted text to single spaces.
func normalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
