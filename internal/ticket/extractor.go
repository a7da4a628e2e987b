// Package ticket extracts ticket data from the HTML body of a more.com
// confirmation email.
package ticket

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrNoTicketFound indicates the email body contains no recognizable ticket block.
var ErrNoTicketFound = errors.New("no ticket found in email body")

// Greek key/value labels used in the vendor's ticket layout:
// tier, seat, price.
var lookupFields = []string{"διάζωμα", "θέση", "τιμή"}

// Record holds the data extracted from a single ticket block.
// Missing fields are empty strings; completeness is not validated.
type Record struct {
	Heading string
	// Lines are the descriptive detail lines in fixed order:
	// date, venue, seat (tier and seat joined), price.
	Lines []string
	// BannerRef and BarcodeRef are image references as they appear in the
	// source HTML: either a cid: reference to an embedded image or a remote URL.
	BannerRef  string
	BarcodeRef string
}

// Extract sanitizes the HTML body, locates ticket blocks, and returns the
// record for the last block in document order. Each barcode image marks one
// block; the enclosing table delimits it. The last-block rule matches the
// vendor's observed layout, where earlier blocks belong to superseded or
// summary renderings of the same ticket.
// Returns ErrNoTicketFound when no block is present.
func Extract(htmlBody, fallbackHeading string) (*Record, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(Sanitize(htmlBody)))
	if err != nil {
		return nil, fmt.Errorf("parsing email body: %w", err)
	}

	type block struct {
		scope      *goquery.Selection
		barcodeRef string
	}

	var blocks []block
	doc.Find("img").Each(func(_ int, img *goquery.Selection) {
		src, _ := img.Attr("src")
		alt, _ := img.Attr("alt")
		if !isBarcode(src, alt) {
			return
		}
		scope := img.Closest("table")
		if scope.Length() == 0 {
			scope = doc.Find("body").First()
		}
		blocks = append(blocks, block{scope: scope, barcodeRef: src})
	})

	if len(blocks) == 0 {
		return nil, ErrNoTicketFound
	}
	last := blocks[len(blocks)-1]

	fields := lookupText(last.scope)
	seat := fields["διάζωμα"] + ": " + fields["θέση"]
	if seat == ": " {
		seat = ""
	}

	return &Record{
		Heading: findHeading(last.scope, fallbackHeading),
		Lines: []string{
			findDate(last.scope),
			findVenue(last.scope),
			seat,
			fields["τιμή"],
		},
		BannerRef:  findBanner(last.scope, doc.Selection),
		BarcodeRef: last.barcodeRef,
	}, nil
}

// isBarcode reports whether an img element is a ticket barcode.
func isBarcode(src, alt string) bool {
	return strings.Contains(strings.ToLower(alt), "barcode") ||
		strings.Contains(strings.ToLower(src), "barcode")
}

// findHeading returns the block's event heading: the first non-empty
// h1-h3, then the first bold text, then the fallback (email subject).
func findHeading(scope *goquery.Selection, fallback string) string {
	for _, selector := range []string{"h1, h2, h3", "strong, b"} {
		heading := ""
		scope.Find(selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			if text := normalizeText(sel.Text()); text != "" {
				heading = text
				return false
			}
			return true
		})
		if heading != "" {
			return heading
		}
	}
	return normalizeText(fallback)
}

// findBanner locates the event banner image reference, searching the ticket
// block first and the whole document second (the vendor places the banner
// above the per-ticket tables).
func findBanner(scope, doc *goquery.Selection) string {
	for _, s := range []*goquery.Selection{scope, doc} {
		src := ""
		s.Find("img").EachWithBreak(func(_ int, img *goquery.Selection) bool {
			if alt, _ := img.Attr("alt"); strings.Contains(alt, "Event Banner") {
				src, _ = img.Attr("src")
				return false
			}
			return true
		})
		if src != "" {
			return src
		}
	}
	return ""
}

// findVenue reads the venue string next to the location icon. The layout is
// icon and text as the two children of a shared grandparent.
func findVenue(scope *goquery.Selection) string {
	icon := scope.Find(`img[alt*="Location"]`).First()
	if icon.Length() == 0 {
		return ""
	}
	siblings := icon.Parent().Parent().Children()
	if siblings.Length() < 2 {
		return ""
	}
	return normalizeText(siblings.Eq(1).Text())
}

// findDate reads the event date next to the date icon, skipping the icon
// itself and the "add to Google calendar" link text.
func findDate(scope *goquery.Selection) string {
	icon := scope.Find(`img[alt="Date"]`).First()
	if icon.Length() == 0 {
		return ""
	}

	date := ""
	icon.Parent().Parent().Children().Each(func(_ int, child *goquery.Selection) {
		child.Children().Each(func(_ int, c *goquery.Selection) {
			if date != "" || c.Is("img") {
				return
			}
			text := normalizeText(c.Text())
			if text == "" || strings.Contains(text, "Google") {
				return
			}
			date = text
		})
	})
	return date
}

// lookupText scans leaf elements of the block for the Greek key/value labels.
// A value may follow its label inside the same cell ("Τιμή: 15,00") or sit in
// the next sibling cell.
func lookupText(scope *goquery.Selection) map[string]string {
	fields := make(map[string]string, len(lookupFields))
	scope.Find("td, th, p, li, span, b, strong").Each(func(_ int, sel *goquery.Selection) {
		if sel.Children().Length() > 0 {
			return
		}
		words := strings.Fields(strings.ReplaceAll(sel.Text(), ":", " "))
		if len(words) == 0 {
			return
		}
		key := strings.ToLower(words[0])
		for _, field := range lookupFields {
			if key != field || fields[field] != "" {
				continue
			}
			if len(words) > 1 {
				fields[field] = strings.Join(words[1:], " ")
			} else {
				fields[field] = normalizeText(sel.Next().Text())
			}
		}
	})
	return fields
}
