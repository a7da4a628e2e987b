// Package email decodes .eml files into the HTML body and embedded images
// needed for ticket extraction.
package email

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/emersion/go-message/mail"

	_ "github.com/emersion/go-message/charset" // register charset decoders for non-UTF-8 parts
)

// Sentinel errors for email decoding.
var (
	// ErrInvalidEmailFormat indicates the input could not be parsed as a MIME
	// message, or the message carries no HTML body.
	ErrInvalidEmailFormat = errors.New("invalid email format")
)

// Message is the decoded MIME content of one .eml file.
type Message struct {
	Subject string
	HTML    string
	// Images maps a normalized Content-ID (angle brackets stripped) or, for
	// attachments without one, the attachment filename to raw image bytes.
	Images map[string][]byte
}

// LoadFile reads and decodes an .eml file from disk.
func LoadFile(path string) (*Message, error) {
	f, err := os.Open(path) // #nosec G304 -- path is the user-supplied CLI argument
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	msg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return msg, nil
}

// Parse decodes a MIME message from r.
// Returns ErrInvalidEmailFormat if the content is not parseable or contains
// no HTML part. Inline and attached images are collected into Message.Images.
func Parse(r io.Reader) (*Message, error) {
	mr, err := mail.CreateReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEmailFormat, err)
	}

	msg := &Message{Images: make(map[string][]byte)}
	if subject, err := mr.Header.Subject(); err == nil {
		msg.Subject = subject
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidEmailFormat, err)
		}

		switch header := part.Header.(type) {
		case *mail.InlineHeader:
			if err := collectInline(msg, header, part.Body); err != nil {
				return nil, err
			}
		case *mail.AttachmentHeader:
			if err := collectAttachment(msg, header, part.Body); err != nil {
				return nil, err
			}
		}
	}

	if msg.HTML == "" {
		return nil, fmt.Errorf("%w: no HTML body", ErrInvalidEmailFormat)
	}
	return msg, nil
}

// collectInline records the HTML body and inline images referenced by cid.
func collectInline(msg *Message, header *mail.InlineHeader, body io.Reader) error {
	contentType, _, err := header.ContentType()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEmailFormat, err)
	}

	switch {
	case contentType == "text/html":
		content, err := io.ReadAll(body)
		if err != nil {
			return fmt.Errorf("%w: reading HTML part: %v", ErrInvalidEmailFormat, err)
		}
		// Multipart/alternative messages may carry several HTML parts; the
		// last one is the fully rendered variant.
		msg.HTML = string(content)
	case strings.HasPrefix(contentType, "image/"):
		content, err := io.ReadAll(body)
		if err != nil {
			return fmt.Errorf("%w: reading image part: %v", ErrInvalidEmailFormat, err)
		}
		if cid := NormalizeCID(header.Get("Content-Id")); cid != "" {
			msg.Images[cid] = content
		}
	}
	return nil
}

// collectAttachment records attached images, keyed by Content-ID when present
// and by filename otherwise.
func collectAttachment(msg *Message, header *mail.AttachmentHeader, body io.Reader) error {
	contentType, _, err := header.ContentType()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEmailFormat, err)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil
	}

	content, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("%w: reading attachment: %v", ErrInvalidEmailFormat, err)
	}

	key := NormalizeCID(header.Get("Content-Id"))
	if key == "" {
		key, _ = header.Filename()
	}
	if key != "" {
		msg.Images[key] = content
	}
	return nil
}

// NormalizeCID strips whitespace and the angle brackets that wrap a raw
// Content-ID header value, so "<img1@mail>" and a template's "cid:img1@mail"
// reference resolve to the same key.
func NormalizeCID(raw string) string {
	return strings.Trim(strings.TrimSpace(raw), "<>")
}
